package csv

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bnema/bufferstock/internal/domain"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readerFor(t *testing.T, dir string) *Reader {
	t.Helper()
	cfg := viper.New()
	cfg.Set(referencePathKey, dir)
	return NewReader(cfg)
}

func TestLoadBuiltInSCF(t *testing.T) {
	t.Parallel()

	dataset, err := NewReader(nil).Load(context.Background(), SCFName)
	require.NoError(t, err)
	assert.Equal(t, []float64{0.2, 0.4, 0.6, 0.8}, dataset.Fractions)
	require.Len(t, dataset.Shares, 4)

	// callers get their own copy
	dataset.Shares[0] = 99
	again, err := NewReader(nil).Load(context.Background(), SCFName)
	require.NoError(t, err)
	assert.InDelta(t, -0.002, again.Shares[0], 1e-12)
}

func TestLoadUnknownWithoutDirectory(t *testing.T) {
	t.Parallel()

	_, err := NewReader(viper.New()).Load(context.Background(), "psid")
	require.ErrorIs(t, err, domain.ErrDataUnavailable)
}

func TestLoadFromDirectory(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	content := "# bottom shares\nfraction,share\n0.25, 0.01\n0.5,0.08\n0.9,0.4\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "psid.csv"), []byte(content), 0o600))

	dataset, err := readerFor(t, dir).Load(context.Background(), "psid")
	require.NoError(t, err)
	assert.Equal(t, "psid", dataset.Name)
	assert.Equal(t, filepath.Join(dir, "psid.csv"), dataset.Source)
	assert.Equal(t, []float64{0.25, 0.5, 0.9}, dataset.Fractions)
	assert.Equal(t, []float64{0.01, 0.08, 0.4}, dataset.Shares)
}

func TestLoadMissingFileWithDirectory(t *testing.T) {
	t.Parallel()

	_, err := readerFor(t, t.TempDir()).Load(context.Background(), SCFName)
	require.ErrorIs(t, err, domain.ErrDataUnavailable)
}

func TestLoadRejectsPathNames(t *testing.T) {
	t.Parallel()

	_, err := readerFor(t, t.TempDir()).Load(context.Background(), "../etc/passwd")
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestParseRejectsDefects(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"empty":          "",
		"header only":    "fraction,share\n",
		"text row":       "0.2,0.1\nabc,0.3\n",
		"wrong columns":  "0.2,0.1,7\n",
		"out of range":   "1.5,0.2\n",
		"not increasing": "0.4,0.1\n0.2,0.05\n",
		"infinite share": "0.2,+Inf\n",
	}

	for name, input := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			_, err := Parse(strings.NewReader(input))
			require.ErrorIs(t, err, domain.ErrDataUnavailable)
		})
	}
}

func TestLoadCanceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewReader(nil).Load(ctx, SCFName)
	require.ErrorIs(t, err, context.Canceled)
}
