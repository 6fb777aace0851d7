package aggregate

import (
	"fmt"
	"math"

	"github.com/bnema/bufferstock/internal/domain"
)

// LorenzShares returns the share of the weighted total held by agents below
// each fraction of the population. The curve runs from (0,0) to (1,1);
// negative values pull it below zero and are kept as they are.
func LorenzShares(values, weights, fractions []float64) ([]float64, error) {
	if err := checkFractions(fractions); err != nil {
		return nil, err
	}
	sorted, w, err := sortedWeighted(values, weights)
	if err != nil {
		return nil, err
	}

	mass := make([]float64, len(sorted))
	var total float64
	for i := range sorted {
		mass[i] = sorted[i] * w[i]
		total += mass[i]
	}
	if !(total > 0) {
		return nil, fmt.Errorf("%w: Lorenz shares need a positive total, got %v", domain.ErrInvalidInput, total)
	}

	cdf, _ := cumulativeShares(w)
	shares, _ := cumulativeShares(mass)

	xs := append([]float64{0}, cdf...)
	ys := append([]float64{0}, shares...)

	out := make([]float64, len(fractions))
	for i, f := range fractions {
		out[i] = interpolate(xs, ys, f)
	}

	return out, nil
}

// LorenzDistance is the Euclidean distance between simulated and target
// shares at the same fractions.
func LorenzDistance(simulated, target []float64) (float64, error) {
	if len(simulated) != len(target) {
		return 0, fmt.Errorf("%w: %d simulated shares but %d targets", domain.ErrInvalidInput, len(simulated), len(target))
	}

	var sum float64
	for i := range simulated {
		d := simulated[i] - target[i]
		sum += d * d
	}
	return math.Sqrt(sum), nil
}
