// Package aggregate computes cross-sectional statistics from panel
// snapshots. Every function is pure: inputs are never modified.
package aggregate

import (
	"fmt"
	"math"
	"slices"
	"sort"

	"github.com/bnema/bufferstock/internal/domain"
	"gonum.org/v1/gonum/floats"
)

// sortedWeighted validates the inputs and returns values in ascending order
// with their weights. nil weights mean equal weights.
func sortedWeighted(values, weights []float64) ([]float64, []float64, error) {
	if len(values) == 0 {
		return nil, nil, fmt.Errorf("%w: no values", domain.ErrInvalidInput)
	}
	if weights == nil {
		weights = make([]float64, len(values))
		for i := range weights {
			weights[i] = 1
		}
	}
	if len(weights) != len(values) {
		return nil, nil, fmt.Errorf("%w: %d values but %d weights", domain.ErrInvalidInput, len(values), len(weights))
	}
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, nil, fmt.Errorf("%w: value %d is not finite", domain.ErrInvalidInput, i)
		}
		if !(weights[i] > 0) || math.IsInf(weights[i], 0) {
			return nil, nil, fmt.Errorf("%w: weight %d must be positive and finite, got %v", domain.ErrInvalidInput, i, weights[i])
		}
	}

	sorted := slices.Clone(values)
	order := make([]int, len(sorted))
	floats.Argsort(sorted, order)

	w := make([]float64, len(order))
	for i, idx := range order {
		w[i] = weights[idx]
	}

	return sorted, w, nil
}

func checkFractions(fractions []float64) error {
	for i, f := range fractions {
		if math.IsNaN(f) || f < 0 || f > 1 {
			return fmt.Errorf("%w: fraction %d must be in [0,1], got %v", domain.ErrInvalidInput, i, f)
		}
	}
	return nil
}

// cumulativeShares returns cumsum(x)/sum(x) with the last entry exactly 1.
func cumulativeShares(x []float64) ([]float64, float64) {
	cum := make([]float64, len(x))
	floats.CumSum(cum, x)
	total := cum[len(cum)-1]
	floats.Scale(1/total, cum)
	cum[len(cum)-1] = 1
	return cum, total
}

// interpolate evaluates the piecewise-linear curve through (xs, ys) at x,
// holding the end values outside the curve's range.
func interpolate(xs, ys []float64, x float64) float64 {
	if x <= xs[0] {
		return ys[0]
	}
	last := len(xs) - 1
	if x >= xs[last] {
		return ys[last]
	}
	j := sort.SearchFloat64s(xs, x)
	if xs[j] == x {
		return ys[j]
	}
	lo, hi := j-1, j
	span := xs[hi] - xs[lo]
	if span == 0 {
		return ys[hi]
	}
	return ys[lo] + (ys[hi]-ys[lo])*(x-xs[lo])/span
}

// Percentiles returns the values at the requested fractions of the weighted
// empirical distribution, interpolating linearly on its CDF. Fractions 0 and
// 1 give the minimum and maximum.
func Percentiles(values, weights, fractions []float64) ([]float64, error) {
	if err := checkFractions(fractions); err != nil {
		return nil, err
	}
	sorted, w, err := sortedWeighted(values, weights)
	if err != nil {
		return nil, err
	}

	cdf, _ := cumulativeShares(w)
	out := make([]float64, len(fractions))
	for i, f := range fractions {
		switch f {
		case 0:
			out[i] = sorted[0]
		case 1:
			out[i] = sorted[len(sorted)-1]
		default:
			out[i] = interpolate(cdf, sorted, f)
		}
	}

	return out, nil
}
