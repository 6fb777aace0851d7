package domain

import (
	"fmt"
	"math"
	"slices"
	"sort"
)

// PolicyFunction maps normalized market resources to normalized consumption.
type PolicyFunction interface {
	Eval(m float64) float64
	// Derivative is the marginal propensity to consume at m.
	Derivative(m float64) float64
}

// LinearInterp is a piecewise-linear function through (X[i], Y[i]), extended
// beyond the end points along the outermost segments.
type LinearInterp struct {
	x []float64
	y []float64
}

var _ PolicyFunction = (*LinearInterp)(nil)

func NewLinearInterp(x, y []float64) (*LinearInterp, error) {
	if len(x) != len(y) {
		return nil, fmt.Errorf("%w: interpolation needs matching x and y, got %d and %d", ErrInvalidInput, len(x), len(y))
	}
	if len(x) < 2 {
		return nil, fmt.Errorf("%w: interpolation needs at least two points", ErrInvalidInput)
	}
	for i := range x {
		if math.IsNaN(x[i]) || math.IsNaN(y[i]) {
			return nil, fmt.Errorf("%w: interpolation point %d is NaN", ErrInvalidInput, i)
		}
		if i > 0 && !(x[i] > x[i-1]) {
			return nil, fmt.Errorf("%w: interpolation nodes must be strictly increasing at %d", ErrInvalidInput, i)
		}
	}

	return &LinearInterp{x: slices.Clone(x), y: slices.Clone(y)}, nil
}

func (f *LinearInterp) segment(m float64) int {
	// index of the left node of the segment holding m
	i := sort.SearchFloat64s(f.x, m) - 1
	if i < 0 {
		return 0
	}
	if i > len(f.x)-2 {
		return len(f.x) - 2
	}
	return i
}

func (f *LinearInterp) Eval(m float64) float64 {
	i := f.segment(m)
	slope := (f.y[i+1] - f.y[i]) / (f.x[i+1] - f.x[i])
	return f.y[i] + slope*(m-f.x[i])
}

func (f *LinearInterp) Derivative(m float64) float64 {
	i := f.segment(m)
	return (f.y[i+1] - f.y[i]) / (f.x[i+1] - f.x[i])
}

func (f *LinearInterp) Nodes() ([]float64, []float64) {
	return slices.Clone(f.x), slices.Clone(f.y)
}

// LowerEnvelope is the pointwise minimum of its functions. It is how the
// borrowing constraint caps the unconstrained consumption rule.
type LowerEnvelope struct {
	funcs []PolicyFunction
}

var _ PolicyFunction = (*LowerEnvelope)(nil)

func NewLowerEnvelope(funcs ...PolicyFunction) *LowerEnvelope {
	return &LowerEnvelope{funcs: slices.Clone(funcs)}
}

func (e *LowerEnvelope) argmin(m float64) (int, float64) {
	best, bestVal := 0, math.Inf(1)
	for i, f := range e.funcs {
		if v := f.Eval(m); v < bestVal {
			best, bestVal = i, v
		}
	}
	return best, bestVal
}

func (e *LowerEnvelope) Eval(m float64) float64 {
	_, v := e.argmin(m)
	return v
}

func (e *LowerEnvelope) Derivative(m float64) float64 {
	i, _ := e.argmin(m)
	return e.funcs[i].Derivative(m)
}
