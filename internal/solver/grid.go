package solver

import (
	"fmt"
	"math"

	"github.com/bnema/bufferstock/internal/domain"
	"gonum.org/v1/gonum/floats"
)

// ExpMultGrid builds a grid on [min,max] that is dense near min: the bounds
// are passed through log(x+1) nestFac times, spaced evenly, then mapped back.
// nestFac 0 spaces points evenly in log(x); -1 spaces them evenly in x.
func ExpMultGrid(min, max float64, count, nestFac int) ([]float64, error) {
	if count < 2 || !(max > min) {
		return nil, fmt.Errorf("%w: grid needs count>=2 and max>min", domain.ErrInvalidInput)
	}

	grid := make([]float64, count)
	switch {
	case nestFac == -1:
		floats.Span(grid, min, max)
	case nestFac == 0:
		if min <= 0 {
			return nil, fmt.Errorf("%w: log-spaced grid needs a positive minimum", domain.ErrInvalidInput)
		}
		floats.LogSpan(grid, min, max)
	default:
		lo, hi := min, max
		for i := 0; i < nestFac; i++ {
			lo = math.Log(lo + 1)
			hi = math.Log(hi + 1)
		}
		floats.Span(grid, lo, hi)
		for i := 0; i < nestFac; i++ {
			for j := range grid {
				grid[j] = math.Exp(grid[j]) - 1
			}
		}
	}

	return grid, nil
}

// AssetGrid is the grid of assets above the borrowing constraint.
func AssetGrid(p domain.ParameterSet) ([]float64, error) {
	return ExpMultGrid(p.AXtraMin, p.AXtraMax, p.AXtraCount, p.AXtraNestFac)
}
