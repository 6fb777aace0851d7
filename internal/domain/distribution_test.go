package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
)

type fixedSource []float64

func (f *fixedSource) Float64() float64 {
	v := (*f)[0]
	*f = (*f)[1:]
	return v
}

func TestMeanOneLognormal(t *testing.T) {
	dist, err := MeanOneLognormal(7, 0.1)
	require.NoError(t, err)
	require.Equal(t, 7, dist.Len())

	assert.InDelta(t, 1.0, dist.Mean(), 1e-12)
	assert.InDelta(t, 1.0, floats.Sum(dist.Pmf), 1e-12)
	for i := 1; i < dist.Len(); i++ {
		assert.Greater(t, dist.Atoms[i], dist.Atoms[i-1])
	}
	assert.Greater(t, dist.Moment(-1), 1.0)

	degenerate, err := MeanOneLognormal(1, 0.3)
	require.NoError(t, err)
	assert.Equal(t, Degenerate(1), degenerate)

	zeroStd, err := MeanOneLognormal(5, 0)
	require.NoError(t, err)
	assert.Equal(t, Degenerate(1), zeroStd)

	_, err = MeanOneLognormal(0, 0.1)
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = MeanOneLognormal(3, math.NaN())
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestWithUnemploymentPreservesMean(t *testing.T) {
	base, err := MeanOneLognormal(7, 0.1)
	require.NoError(t, err)

	mixed := base.WithUnemployment(0.05, 0.3)
	require.Equal(t, 8, mixed.Len())
	assert.Equal(t, 0.3, mixed.Atoms[0])
	assert.Equal(t, 0.05, mixed.Pmf[0])
	assert.InDelta(t, 1.0, mixed.Mean(), 1e-12)
	assert.InDelta(t, 1.0, floats.Sum(mixed.Pmf), 1e-12)
	assert.Equal(t, 0.3, mixed.Min())

	// the receiver is untouched
	assert.Equal(t, 7, base.Len())

	unchanged := base.WithUnemployment(0, 0.3)
	assert.Equal(t, base, unchanged)
}

func TestUniformApprox(t *testing.T) {
	dist, err := UniformApprox(0.9867, 0.0067, 7)
	require.NoError(t, err)
	require.Equal(t, 7, dist.Len())

	width := 2 * 0.0067 / 7
	assert.InDelta(t, 0.9867-0.0067+width/2, dist.Atoms[0], 1e-12)
	assert.InDelta(t, 0.9867, dist.Atoms[3], 1e-12)
	assert.InDelta(t, 0.9867+0.0067-width/2, dist.Atoms[6], 1e-12)
	assert.InDelta(t, 0.9867, dist.Mean(), 1e-12)

	single, err := UniformApprox(0.95, 0.01, 1)
	require.NoError(t, err)
	assert.InDelta(t, 0.95, single.Atoms[0], 1e-12)

	_, err = UniformApprox(0.95, -0.01, 3)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestDiscreteDistributionDraw(t *testing.T) {
	dist := DiscreteDistribution{Atoms: []float64{1, 2, 3}, Pmf: []float64{0.2, 0.3, 0.5}}

	src := fixedSource{0.1, 0.25, 0.6, 0.999999}
	assert.Equal(t, 0, dist.Draw(&src))
	assert.Equal(t, 1, dist.Draw(&src))
	assert.Equal(t, 2, dist.Draw(&src))
	assert.Equal(t, 2, dist.Draw(&src))

	withHole := DiscreteDistribution{Atoms: []float64{0, 1}, Pmf: []float64{0, 1}}
	src = fixedSource{0}
	assert.Equal(t, 1, withHole.Draw(&src))
}

func TestIncomeProcess(t *testing.T) {
	shocks, err := IncomeProcess(IndShockParams(), 0)
	require.NoError(t, err)
	assert.Equal(t, 7, shocks.Perm.Len())
	assert.Equal(t, 8, shocks.Tran.Len())
	assert.Equal(t, 0, shocks.UnempIndex)

	joint := shocks.Joint()
	require.Len(t, joint, 56)
	var mass, income float64
	for _, atom := range joint {
		mass += atom.Prob
		income += atom.Prob * atom.Perm * atom.Tran
	}
	assert.InDelta(t, 1.0, mass, 1e-12)
	assert.InDelta(t, 1.0, income, 1e-12)

	pf, err := IncomeProcess(PerfForesightParams(), 0)
	require.NoError(t, err)
	assert.Equal(t, -1, pf.UnempIndex)
	assert.Equal(t, []ShockAtom{{Perm: 1, Tran: 1, Prob: 1}}, pf.Joint())

	broken := IndShockParams()
	broken.PermShkStd = nil
	_, err = IncomeProcess(broken, 0)
	assert.ErrorIs(t, err, ErrInvalidParameters)
}

func TestCheckConditionsPerfectForesight(t *testing.T) {
	p := PerfForesightParams()
	conditions := CheckConditions(p)

	thorn := math.Pow(1.03*0.96*0.98, 1/2.5)
	assert.InDelta(t, thorn, conditions.Thorn, 1e-12)
	require.Len(t, conditions.Items, 5)
	assert.Empty(t, conditions.Violations())

	gic, ok := conditions.Get(ConditionGIC)
	require.True(t, ok)
	assert.InDelta(t, thorn/1.01, gic.Factor, 1e-12)
	assert.True(t, gic.Satisfied)

	fhwc, ok := conditions.Get(ConditionFHWC)
	require.True(t, ok)
	assert.InDelta(t, 1.01/1.03, fhwc.Factor, 1e-12)

	_, ok = conditions.Get(ConditionGICInd)
	assert.False(t, ok)
}

func TestCheckConditionsWithShocks(t *testing.T) {
	conditions := CheckConditions(IndShockParams())

	ind, ok := conditions.Get(ConditionGICInd)
	require.True(t, ok)
	gic, _ := conditions.Get(ConditionGIC)
	assert.Greater(t, ind.Factor, gic.Factor)

	impatient := CheckConditions(PerfForesightParams().WithPermGroFac(1.05))
	violations := impatient.Violations()
	require.Len(t, violations, 1)
	assert.Equal(t, ConditionFHWC, violations[0].Name)
	assert.Contains(t, violations[0].Description, "finite human wealth factor")

	assert.Equal(t, Conditions{}, CheckConditions(ParameterSet{}))
}

func TestUtility(t *testing.T) {
	logU := Utility{Rho: 1}
	assert.InDelta(t, 1.0, logU.U(math.E), 1e-12)
	assert.InDelta(t, 0.5, logU.P(2), 1e-12)
	assert.InDelta(t, -0.25, logU.PP(2), 1e-12)

	crra := Utility{Rho: 2}
	assert.InDelta(t, -0.5, crra.U(2), 1e-12)
	assert.InDelta(t, 0.25, crra.P(2), 1e-12)
	assert.InDelta(t, -0.25, crra.PP(2), 1e-12)

	for _, rho := range []float64{0.5, 1, 1 + 1e-6, 2.5, 5} {
		u := Utility{Rho: rho}
		for _, c := range []float64{0.1, 1, 3.7} {
			assert.InDelta(t, c, u.PInv(u.P(c)), 1e-9*c, "rho=%v c=%v", rho, c)
		}
	}

	// CRRA marginal utility is continuous through the log case.
	assert.InDelta(t, logU.P(1.7), Utility{Rho: 1 + 1e-9}.P(1.7), 1e-8)
}
