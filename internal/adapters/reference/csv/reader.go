// Package csv loads empirical reference datasets from CSV tables of
// population fractions and cumulative shares.
package csv

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/bnema/bufferstock/internal/domain"
	"github.com/bnema/bufferstock/internal/ports"
	"github.com/spf13/viper"
)

// SCFName is the built-in Lorenz target for household net worth.
const SCFName = "scf"

const referencePathKey = "reference.path"

// scfTarget holds cumulative net worth shares of the bottom 20, 40, 60 and
// 80 percent of households, SCF 2004.
var scfTarget = domain.ReferenceDataset{
	Name:      SCFName,
	Source:    "built-in (SCF 2004 net worth)",
	Fractions: []float64{0.2, 0.4, 0.6, 0.8},
	Shares:    []float64{-0.002, 0.010, 0.053, 0.166},
}

// Reader resolves dataset names to <dir>/<name>.csv. With no directory
// configured only the built-in target is available.
type Reader struct {
	dir string
}

var _ ports.ReferenceData = (*Reader)(nil)

func NewReader(cfg *viper.Viper) *Reader {
	if cfg == nil {
		return &Reader{}
	}
	return &Reader{dir: strings.TrimSpace(cfg.GetString(referencePathKey))}
}

func (r *Reader) Load(ctx context.Context, name string) (domain.ReferenceDataset, error) {
	if err := ctx.Err(); err != nil {
		return domain.ReferenceDataset{}, err
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return domain.ReferenceDataset{}, fmt.Errorf("%w: dataset name is required", domain.ErrInvalidInput)
	}
	if strings.ContainsAny(name, `/\`) {
		return domain.ReferenceDataset{}, fmt.Errorf("%w: dataset name %q must not contain path separators", domain.ErrInvalidInput, name)
	}

	if r.dir == "" {
		if name == SCFName {
			return cloneDataset(scfTarget), nil
		}
		return domain.ReferenceDataset{}, fmt.Errorf("%w: %q (no reference directory configured)", domain.ErrDataUnavailable, name)
	}

	path := filepath.Join(r.dir, name+".csv")
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return domain.ReferenceDataset{}, fmt.Errorf("%w: %s not found", domain.ErrDataUnavailable, path)
		}
		return domain.ReferenceDataset{}, fmt.Errorf("%w: open %s: %v", domain.ErrDataUnavailable, path, err)
	}
	defer file.Close()

	dataset, err := Parse(file)
	if err != nil {
		return domain.ReferenceDataset{}, fmt.Errorf("%s: %w", path, err)
	}
	dataset.Name = name
	dataset.Source = path

	return dataset, nil
}

// Parse reads a fraction,share table. A header row is optional and lines
// starting with # are ignored. Any defect is reported as
// domain.ErrDataUnavailable.
func Parse(in io.Reader) (domain.ReferenceDataset, error) {
	reader := csv.NewReader(in)
	reader.Comment = '#'
	reader.FieldsPerRecord = 2
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return domain.ReferenceDataset{}, fmt.Errorf("%w: %v", domain.ErrDataUnavailable, err)
	}

	var dataset domain.ReferenceDataset
	for i, record := range records {
		fraction, ferr := strconv.ParseFloat(strings.TrimSpace(record[0]), 64)
		share, serr := strconv.ParseFloat(strings.TrimSpace(record[1]), 64)
		if i == 0 && ferr != nil && serr != nil {
			continue
		}
		if ferr != nil || serr != nil {
			return domain.ReferenceDataset{}, fmt.Errorf("%w: row %d is not numeric", domain.ErrDataUnavailable, i+1)
		}
		if !(fraction > 0 && fraction < 1) {
			return domain.ReferenceDataset{}, fmt.Errorf("%w: row %d fraction %v outside (0,1)", domain.ErrDataUnavailable, i+1, fraction)
		}
		if n := len(dataset.Fractions); n > 0 && fraction <= dataset.Fractions[n-1] {
			return domain.ReferenceDataset{}, fmt.Errorf("%w: row %d fraction %v is not increasing", domain.ErrDataUnavailable, i+1, fraction)
		}
		if math.IsNaN(share) || math.IsInf(share, 0) {
			return domain.ReferenceDataset{}, fmt.Errorf("%w: row %d share is not finite", domain.ErrDataUnavailable, i+1)
		}
		dataset.Fractions = append(dataset.Fractions, fraction)
		dataset.Shares = append(dataset.Shares, share)
	}

	if len(dataset.Fractions) == 0 {
		return domain.ReferenceDataset{}, fmt.Errorf("%w: no data rows", domain.ErrDataUnavailable)
	}

	return dataset, nil
}

func cloneDataset(d domain.ReferenceDataset) domain.ReferenceDataset {
	d.Fractions = slices.Clone(d.Fractions)
	d.Shares = slices.Clone(d.Shares)
	return d
}
