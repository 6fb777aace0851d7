package toml

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/bnema/bufferstock/internal/domain"
	"github.com/bnema/bufferstock/internal/ports"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
)

const runsTempPattern = ".runs-*.toml.tmp"

// RunRepository keeps simulation run summaries in a TOML file.
type RunRepository struct {
	path string
	mu   *sync.RWMutex
}

var _ ports.RunRepository = (*RunRepository)(nil)

func NewRunRepository(cfg *viper.Viper) (*RunRepository, error) {
	if cfg == nil {
		cfg = viper.New()
	}

	path, err := resolvePath(cfg, RunsPathKey, "runs.toml")
	if err != nil {
		return nil, err
	}

	return &RunRepository{path: path, mu: lockForPath(path)}, nil
}

func (r *RunRepository) Path() string {
	return r.path
}

func (r *RunRepository) Save(ctx context.Context, run domain.RunRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(run.ID) == "" {
		return fmt.Errorf("%w: run id is required", domain.ErrInvalidInput)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	file, err := r.readSchema()
	if err != nil {
		return err
	}

	encoded := toRunSchema(run)
	replaced := false
	for i := range file.Runs {
		if file.Runs[i].ID == run.ID {
			file.Runs[i] = encoded
			replaced = true
			break
		}
	}
	if !replaced {
		file.Runs = append(file.Runs, encoded)
	}

	return r.writeSchema(file)
}

func (r *RunRepository) GetByID(ctx context.Context, id string) (domain.RunRecord, error) {
	if err := ctx.Err(); err != nil {
		return domain.RunRecord{}, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	file, err := r.readSchema()
	if err != nil {
		return domain.RunRecord{}, err
	}

	for _, entry := range file.Runs {
		if entry.ID == id {
			return fromRunSchema(entry), nil
		}
	}

	return domain.RunRecord{}, fmt.Errorf("%w: %q", domain.ErrRunNotFound, id)
}

// List returns runs newest first.
func (r *RunRepository) List(ctx context.Context) ([]domain.RunRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	file, err := r.readSchema()
	if err != nil {
		return nil, err
	}

	runs := make([]domain.RunRecord, 0, len(file.Runs))
	for _, entry := range file.Runs {
		runs = append(runs, fromRunSchema(entry))
	}
	sort.SliceStable(runs, func(i, j int) bool { return runs[i].CreatedAt.After(runs[j].CreatedAt) })

	return runs, nil
}

func (r *RunRepository) readSchema() (runFileSchema, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			file := runFileSchema{}
			file.applyDefaults()
			return file, nil
		}
		return runFileSchema{}, fmt.Errorf("read runs file: %w", err)
	}

	var file runFileSchema
	if err := toml.Unmarshal(data, &file); err != nil {
		return runFileSchema{}, fmt.Errorf("decode runs file: %w", err)
	}
	if err := file.validateVersion(); err != nil {
		return runFileSchema{}, err
	}
	file.applyDefaults()

	return file, nil
}

func (r *RunRepository) writeSchema(file runFileSchema) error {
	file.applyDefaults()

	data, err := toml.Marshal(file)
	if err != nil {
		return fmt.Errorf("encode runs file: %w", err)
	}

	if err := writeFileAtomic(r.path, data, runsTempPattern); err != nil {
		return fmt.Errorf("write runs file: %w", err)
	}

	return nil
}
