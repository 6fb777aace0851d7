package aggregate

import (
	"fmt"
	"math"

	"github.com/bnema/bufferstock/internal/domain"
)

// AnnualizeMPC converts a per-period MPC into the share of a windfall spent
// within a year of periodsPerYear periods: 1-(1-mpc)^periodsPerYear.
func AnnualizeMPC(mpc float64, periodsPerYear int) (float64, error) {
	if math.IsNaN(mpc) || mpc < 0 || mpc > 1 {
		return 0, fmt.Errorf("%w: MPC must be in [0,1], got %v", domain.ErrInvalidInput, mpc)
	}
	if periodsPerYear < 1 {
		return 0, fmt.Errorf("%w: periods per year must be positive, got %d", domain.ErrInvalidInput, periodsPerYear)
	}

	return 1 - math.Pow(1-mpc, float64(periodsPerYear)), nil
}

// AnnualizeMPCs applies AnnualizeMPC element-wise. Per-agent MPCs outside
// [0,1] are rejected rather than clipped.
func AnnualizeMPCs(mpcs []float64, periodsPerYear int) ([]float64, error) {
	out := make([]float64, len(mpcs))
	for i, mpc := range mpcs {
		v, err := AnnualizeMPC(mpc, periodsPerYear)
		if err != nil {
			return nil, fmt.Errorf("agent %d: %w", i, err)
		}
		out[i] = v
	}
	return out, nil
}
