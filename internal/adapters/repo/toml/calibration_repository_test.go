package toml

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/bnema/bufferstock/internal/domain"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCalibrationRepo(t *testing.T) (*CalibrationRepository, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "calibrations.toml")
	config := viper.New()
	config.Set(CalibrationsPathKey, path)

	repo, err := NewCalibrationRepository(config)
	require.NoError(t, err)

	return repo, path
}

func TestCalibrationRepositoryRoundTrip(t *testing.T) {
	t.Parallel()

	repo, path := newCalibrationRepo(t)

	params := domain.IndShockParams().WithDiscFac(0.95).WithBoroCnstArt(nil)
	saved := domain.Calibration{
		Name:        "patient",
		Description: "ind-shock with a lower discount factor",
		Base:        domain.PresetIndShock,
		Params:      params,
		UpdatedAt:   time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}

	require.NoError(t, repo.Save(context.Background(), saved))

	got, err := repo.GetByName(context.Background(), "patient")
	require.NoError(t, err)
	assert.Equal(t, saved, got)
	assert.Nil(t, got.Params.BoroCnstArt)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(dataFileMode), info.Mode().Perm())
}

func TestCalibrationRepositoryKeepsArtificialConstraint(t *testing.T) {
	t.Parallel()

	repo, _ := newCalibrationRepo(t)

	saved := domain.Calibration{
		Name:   "tight",
		Params: domain.IndShockParams().WithBoroCnstArt(domain.Float(0.5)),
	}
	require.NoError(t, repo.Save(context.Background(), saved))

	got, err := repo.GetByName(context.Background(), "tight")
	require.NoError(t, err)
	require.NotNil(t, got.Params.BoroCnstArt)
	assert.InDelta(t, 0.5, *got.Params.BoroCnstArt, 0)
}

func TestCalibrationRepositorySaveReplacesExisting(t *testing.T) {
	t.Parallel()

	repo, _ := newCalibrationRepo(t)

	first := domain.Calibration{Name: "mine", Params: domain.IndShockParams()}
	second := domain.Calibration{Name: "mine", Params: domain.IndShockParams().WithCRRA(3)}

	require.NoError(t, repo.Save(context.Background(), first))
	require.NoError(t, repo.Save(context.Background(), second))

	all, err := repo.List(context.Background())
	require.NoError(t, err)

	var stored []domain.Calibration
	for _, c := range all {
		if !c.BuiltIn {
			stored = append(stored, c)
		}
	}
	require.Len(t, stored, 1)
	assert.InDelta(t, 3.0, stored[0].Params.CRRA, 0)
}

func TestCalibrationRepositoryListsBuiltInsFirst(t *testing.T) {
	t.Parallel()

	repo, _ := newCalibrationRepo(t)
	require.NoError(t, repo.Save(context.Background(), domain.Calibration{Name: "zeta", Params: domain.IndShockParams()}))
	require.NoError(t, repo.Save(context.Background(), domain.Calibration{Name: "alpha", Params: domain.IndShockParams()}))

	all, err := repo.List(context.Background())
	require.NoError(t, err)

	names := make([]string, 0, len(all))
	for _, c := range all {
		names = append(names, c.Name)
	}
	want := append(domain.PresetNames(), "alpha", "zeta")
	assert.Equal(t, want, names)
}

func TestCalibrationRepositoryServesBuiltInsWithoutFile(t *testing.T) {
	t.Parallel()

	repo, path := newCalibrationRepo(t)

	got, err := repo.GetByName(context.Background(), domain.PresetCSTW)
	require.NoError(t, err)
	assert.True(t, got.BuiltIn)
	assert.Equal(t, domain.CSTWParams(), got.Params)

	_, err = os.Stat(path)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestCalibrationRepositoryRejectsBuiltInName(t *testing.T) {
	t.Parallel()

	repo, _ := newCalibrationRepo(t)

	err := repo.Save(context.Background(), domain.Calibration{Name: domain.PresetIndShock, Params: domain.IndShockParams()})
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCalibrationRepositoryRejectsInvalidParams(t *testing.T) {
	t.Parallel()

	repo, _ := newCalibrationRepo(t)

	err := repo.Save(context.Background(), domain.Calibration{Name: "bad", Params: domain.IndShockParams().WithCRRA(-1)})
	require.ErrorIs(t, err, domain.ErrInvalidParameters)
}

func TestCalibrationRepositoryGetMissing(t *testing.T) {
	t.Parallel()

	repo, _ := newCalibrationRepo(t)

	_, err := repo.GetByName(context.Background(), "nope")
	require.ErrorIs(t, err, domain.ErrCalibrationNotFound)
}

func TestCalibrationRepositoryRejectsFutureSchemaVersion(t *testing.T) {
	t.Parallel()

	repo, path := newCalibrationRepo(t)
	require.NoError(t, os.WriteFile(path, []byte("version = 99\n"), 0o600))

	_, err := repo.List(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported calibrations schema version 99")
}

func TestCalibrationRepositoryHonorsCanceledContext(t *testing.T) {
	t.Parallel()

	repo, _ := newCalibrationRepo(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := repo.List(ctx)
	require.ErrorIs(t, err, context.Canceled)
	err = repo.Save(ctx, domain.Calibration{Name: "x", Params: domain.IndShockParams()})
	require.ErrorIs(t, err, context.Canceled)
}

func TestCalibrationRepositoryConcurrentSaves(t *testing.T) {
	t.Parallel()

	repo, path := newCalibrationRepo(t)

	// a second repository on the same path shares the lock
	config := viper.New()
	config.Set(CalibrationsPathKey, path)
	other, err := NewCalibrationRepository(config)
	require.NoError(t, err)

	names := []string{"a", "b", "c", "d", "e", "f", "g", "h"}
	var wg sync.WaitGroup
	for i, name := range names {
		target := repo
		if i%2 == 1 {
			target = other
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, target.Save(context.Background(), domain.Calibration{Name: name, Params: domain.IndShockParams()}))
		}()
	}
	wg.Wait()

	all, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, len(domain.PresetNames())+len(names))
}
