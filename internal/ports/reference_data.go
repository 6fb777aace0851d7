package ports

import (
	"context"

	"github.com/bnema/bufferstock/internal/domain"
)

// ReferenceData loads static empirical datasets. A missing or unreadable
// dataset is reported as domain.ErrDataUnavailable, never as an empty one.
type ReferenceData interface {
	Load(ctx context.Context, name string) (domain.ReferenceDataset, error)
}
