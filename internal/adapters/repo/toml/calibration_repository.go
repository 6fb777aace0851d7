package toml

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"sync"

	"github.com/bnema/bufferstock/internal/domain"
	"github.com/bnema/bufferstock/internal/ports"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
)

const calibrationsTempPattern = ".calibrations-*.toml.tmp"

// CalibrationRepository stores user calibrations in a TOML file and serves
// the built-in presets alongside them. Built-in names cannot be overwritten.
type CalibrationRepository struct {
	path string
	mu   *sync.RWMutex
}

var _ ports.CalibrationRepository = (*CalibrationRepository)(nil)

func NewCalibrationRepository(cfg *viper.Viper) (*CalibrationRepository, error) {
	if cfg == nil {
		cfg = viper.New()
	}

	path, err := resolvePath(cfg, CalibrationsPathKey, "calibrations.toml")
	if err != nil {
		return nil, err
	}

	return &CalibrationRepository{path: path, mu: lockForPath(path)}, nil
}

func (r *CalibrationRepository) Path() string {
	return r.path
}

func (r *CalibrationRepository) Save(ctx context.Context, calibration domain.Calibration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, ok := domain.Preset(calibration.Name); ok {
		return fmt.Errorf("%w: %q is a built-in calibration", domain.ErrInvalidInput, calibration.Name)
	}
	if err := calibration.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	file, err := r.readSchema()
	if err != nil {
		return err
	}

	encoded := toCalibrationSchema(calibration)
	updated := false
	for i := range file.Calibrations {
		if file.Calibrations[i].Name == encoded.Name {
			file.Calibrations[i] = encoded
			updated = true
			break
		}
	}
	if !updated {
		file.Calibrations = append(file.Calibrations, encoded)
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	return r.writeSchema(file)
}

func (r *CalibrationRepository) GetByName(ctx context.Context, name string) (domain.Calibration, error) {
	if err := ctx.Err(); err != nil {
		return domain.Calibration{}, err
	}

	for _, builtIn := range domain.BuiltInCalibrations() {
		if builtIn.Name == name {
			return builtIn, nil
		}
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	file, err := r.readSchema()
	if err != nil {
		return domain.Calibration{}, err
	}

	for _, entry := range file.Calibrations {
		if entry.Name == name {
			return fromCalibrationSchema(entry), nil
		}
	}

	return domain.Calibration{}, fmt.Errorf("%w: %q", domain.ErrCalibrationNotFound, name)
}

// List returns built-in calibrations first, then stored ones by name.
func (r *CalibrationRepository) List(ctx context.Context) ([]domain.Calibration, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	file, err := r.readSchema()
	if err != nil {
		return nil, err
	}

	stored := make([]domain.Calibration, 0, len(file.Calibrations))
	for _, entry := range file.Calibrations {
		stored = append(stored, fromCalibrationSchema(entry))
	}
	sort.Slice(stored, func(i, j int) bool { return stored[i].Name < stored[j].Name })

	return append(domain.BuiltInCalibrations(), stored...), nil
}

func (r *CalibrationRepository) readSchema() (calibrationFileSchema, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			file := calibrationFileSchema{}
			file.applyDefaults()
			return file, nil
		}
		return calibrationFileSchema{}, fmt.Errorf("read calibrations file: %w", err)
	}

	var file calibrationFileSchema
	if err := toml.Unmarshal(data, &file); err != nil {
		return calibrationFileSchema{}, fmt.Errorf("decode calibrations file: %w", err)
	}
	if err := file.validateVersion(); err != nil {
		return calibrationFileSchema{}, err
	}
	file.applyDefaults()

	return file, nil
}

func (r *CalibrationRepository) writeSchema(file calibrationFileSchema) error {
	file.applyDefaults()

	data, err := toml.Marshal(file)
	if err != nil {
		return fmt.Errorf("encode calibrations file: %w", err)
	}

	if err := writeFileAtomic(r.path, data, calibrationsTempPattern); err != nil {
		return fmt.Errorf("write calibrations file: %w", err)
	}

	return nil
}
