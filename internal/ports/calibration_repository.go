package ports

import (
	"context"

	"github.com/bnema/bufferstock/internal/domain"
)

type CalibrationRepository interface {
	GetByName(ctx context.Context, name string) (domain.Calibration, error)
	List(ctx context.Context) ([]domain.Calibration, error)
	Save(ctx context.Context, calibration domain.Calibration) error
}
