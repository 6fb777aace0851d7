package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLinearInterpValidates(t *testing.T) {
	tests := []struct {
		name string
		x, y []float64
	}{
		{name: "length mismatch", x: []float64{0, 1}, y: []float64{0}},
		{name: "single point", x: []float64{0}, y: []float64{0}},
		{name: "not increasing", x: []float64{0, 1, 1}, y: []float64{0, 1, 2}},
		{name: "nan value", x: []float64{0, 1}, y: []float64{0, math.NaN()}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewLinearInterp(tt.x, tt.y)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestLinearInterpEvalAndDerivative(t *testing.T) {
	f, err := NewLinearInterp([]float64{0, 1, 3}, []float64{0, 2, 3})
	require.NoError(t, err)

	tests := []struct {
		m, value, slope float64
	}{
		{m: -1, value: -2, slope: 2},
		{m: 0, value: 0, slope: 2},
		{m: 0.5, value: 1, slope: 2},
		{m: 1, value: 2, slope: 2},
		{m: 2, value: 2.5, slope: 0.5},
		{m: 5, value: 4, slope: 0.5},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.value, f.Eval(tt.m), 1e-12, "Eval(%v)", tt.m)
		assert.InDelta(t, tt.slope, f.Derivative(tt.m), 1e-12, "Derivative(%v)", tt.m)
	}

	x, y := f.Nodes()
	x[0] = 42
	y[0] = 42
	assert.InDelta(t, 0.0, f.Eval(0), 1e-12)
}

func TestLinearInterpCopiesInput(t *testing.T) {
	x := []float64{0, 1}
	y := []float64{0, 1}
	f, err := NewLinearInterp(x, y)
	require.NoError(t, err)

	y[1] = 10
	assert.InDelta(t, 0.5, f.Eval(0.5), 1e-12)
}

func TestLowerEnvelope(t *testing.T) {
	identity, err := NewLinearInterp([]float64{0, 1}, []float64{0, 1})
	require.NoError(t, err)
	flatter, err := NewLinearInterp([]float64{0, 1}, []float64{0.5, 1})
	require.NoError(t, err)

	env := NewLowerEnvelope(identity, flatter)

	assert.InDelta(t, 0.5, env.Eval(0.5), 1e-12)
	assert.InDelta(t, 1.0, env.Derivative(0.5), 1e-12)
	assert.InDelta(t, 1.5, env.Eval(2), 1e-12)
	assert.InDelta(t, 0.5, env.Derivative(2), 1e-12)
}

func TestTerminalSolution(t *testing.T) {
	sol := TerminalSolution()

	assert.InDelta(t, 3.0, sol.CFunc.Eval(3), 1e-12)
	assert.InDelta(t, 1.0, sol.CFunc.Derivative(3), 1e-12)
	assert.Equal(t, 0.0, sol.MNrmMin)
	assert.Equal(t, 0.0, sol.HNrm)
	assert.Equal(t, 1.0, sol.MPCMin)
	assert.Equal(t, 1.0, sol.MPCMax)
}
