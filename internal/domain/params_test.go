package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPresetsValidate(t *testing.T) {
	for _, name := range PresetNames() {
		t.Run(name, func(t *testing.T) {
			p, ok := Preset(name)
			require.True(t, ok)
			assert.NoError(t, p.Validate())
		})
	}

	_, ok := Preset("missing")
	assert.False(t, ok)
}

func TestParameterSetValidateRejects(t *testing.T) {
	base := IndShockParams()

	tests := []struct {
		name   string
		params ParameterSet
		want   string
	}{
		{name: "discount factor of one", params: base.WithDiscFac(1), want: "DiscFac"},
		{name: "zero CRRA", params: base.WithCRRA(0), want: "CRRA"},
		{name: "negative return", params: base.WithRfree(-1), want: "Rfree"},
		{name: "sequence length mismatch", params: base.WithLivPrb(0.9, 0.9), want: "LivPrb must have 1 entries"},
		{name: "survival above one", params: base.WithLivPrb(1.2), want: "LivPrb[0]"},
		{name: "negative shock std", params: base.WithTranShkStd(-0.1), want: "TranShkStd[0]"},
		{name: "empty asset grid", params: func() ParameterSet { p := base.Clone(); p.AXtraMax = p.AXtraMin; return p }(), want: "AXtraMax"},
		{name: "no iterations", params: func() ParameterSet { p := base.Clone(); p.MaxIterations = 0; return p }(), want: "MaxIterations"},
		{name: "negative agents", params: base.WithAgentCount(-1), want: "AgentCount"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.params.Validate()
			require.ErrorIs(t, err, ErrInvalidParameters)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestParameterSetBuildersDoNotShareSlices(t *testing.T) {
	base := IndShockParams()

	derived := base.WithLivPrb(0.9).WithCRRA(3)
	derived.PermGroFac[0] = 2
	*derived.BoroCnstArt = -5

	assert.Equal(t, []float64{0.98}, base.LivPrb)
	assert.Equal(t, []float64{1.01}, base.PermGroFac)
	assert.Equal(t, 2.5, base.CRRA)
	assert.Equal(t, 0.0, *base.BoroCnstArt)
	assert.Equal(t, []float64{0.9}, derived.LivPrb)

	seq := []float64{1.02}
	withSeq := base.WithPermGroFac(seq...)
	seq[0] = 9
	assert.Equal(t, []float64{1.02}, withSeq.PermGroFac)

	unconstrained := base.WithBoroCnstArt(nil)
	assert.Nil(t, unconstrained.BoroCnstArt)
	assert.NotNil(t, base.BoroCnstArt)
}

func TestParameterSetWith(t *testing.T) {
	base := IndShockParams()

	p, err := base.With("CRRA", "3")
	require.NoError(t, err)
	assert.Equal(t, 3.0, p.CRRA)
	assert.Equal(t, 2.5, base.CRRA)

	p, err = base.With("LivPrb", "0.9, 0.95")
	require.NoError(t, err)
	assert.Equal(t, []float64{0.9, 0.95}, p.LivPrb)

	p, err = base.With("BoroCnstArt", "none")
	require.NoError(t, err)
	assert.Nil(t, p.BoroCnstArt)

	p, err = base.With("BoroCnstArt", "-1.5")
	require.NoError(t, err)
	require.NotNil(t, p.BoroCnstArt)
	assert.Equal(t, -1.5, *p.BoroCnstArt)

	p, err = base.With("AgentCount", " 25 ")
	require.NoError(t, err)
	assert.Equal(t, 25, p.AgentCount)

	_, err = base.With("Bogus", "1")
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = base.With("CRRA", "abc")
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = base.With("TCycle", "1.5")
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = base.With("PermShkStd", "0.1,x")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestParameterSetHorizonHelpers(t *testing.T) {
	p := PerfForesightParams()
	assert.True(t, p.InfiniteHorizon())
	assert.False(t, p.HasShocks())

	finite := p.WithHorizon(4, 2)
	assert.False(t, finite.InfiniteHorizon())
	assert.Equal(t, 3, finite.PeriodIndex(-1))
	assert.Equal(t, 1, finite.PeriodIndex(5))
	assert.Equal(t, 0, finite.PeriodIndex(8))

	assert.True(t, IndShockParams().HasShocks())

	unemployed := p.Clone()
	unemployed.UnempPrb = 0.05
	unemployed.IncUnemp = 0.3
	assert.True(t, unemployed.HasShocks())
}

func TestCalibrationValidate(t *testing.T) {
	valid := Calibration{Name: "patient", Params: IndShockParams()}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name string
		cal  Calibration
		want error
	}{
		{name: "missing name", cal: Calibration{Name: "  ", Params: IndShockParams()}, want: ErrInvalidInput},
		{name: "name with space", cal: Calibration{Name: "two words", Params: IndShockParams()}, want: ErrInvalidInput},
		{name: "name with slash", cal: Calibration{Name: "a/b", Params: IndShockParams()}, want: ErrInvalidInput},
		{name: "invalid params", cal: Calibration{Name: "bad", Params: IndShockParams().WithDiscFac(1.2)}, want: ErrInvalidParameters},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.cal.Validate(), tt.want)
		})
	}
}

func TestBuiltInCalibrations(t *testing.T) {
	cals := BuiltInCalibrations()
	require.Len(t, cals, 3)

	names := make([]string, 0, len(cals))
	for _, cal := range cals {
		names = append(names, cal.Name)
		assert.True(t, cal.BuiltIn)
		assert.NotEmpty(t, cal.Description)
		assert.NoError(t, cal.Validate())
	}
	assert.Equal(t, []string{PresetCSTW, PresetIndShock, PresetPerfForesight}, names)
}

func TestCSTWParamsStartNewbornsNearZeroWealth(t *testing.T) {
	p := CSTWParams()

	assert.InDelta(t, 0.001, math.Exp(p.ANrmInitMean), 1e-15)
	assert.Zero(t, p.ANrmInitStd)
	assert.Zero(t, p.PLvlInitMean)
	assert.Zero(t, p.PLvlInitStd)
	assert.InDelta(t, 1.01, p.Rfree*p.LivPrb[0], 1e-12)
}

func TestPanelAccessors(t *testing.T) {
	var empty *Panel
	assert.Equal(t, 0, empty.Len())

	panel := &Panel{Agents: []AgentState{
		{ANrm: 2, PLvl: 1.5, MNrm: 3, CNrm: 1, MPC: 0.2, TranShk: 1},
		{ANrm: 0.5, PLvl: 2, MNrm: 1, CNrm: 0.5, MPC: 0.6, TranShk: 0.3},
	}, Period: 7}

	assert.Equal(t, 2, panel.Len())
	assert.Equal(t, []float64{3, 1}, panel.ALvls())
	assert.Equal(t, []float64{1.5, 0.6}, panel.IncomeLvls())
	assert.Equal(t, []float64{0.2, 0.6}, panel.MPCs())
	assert.InDelta(t, 1.5, panel.Agents[0].CLvl(), 1e-12)
	assert.InDelta(t, 2.0, panel.Agents[1].MLvl(), 1e-12)

	snap := panel.Snapshot()
	panel.Agents[0].ANrm = 100
	panel.Period = 8
	assert.Equal(t, 2.0, snap.Agents[0].ANrm)
	assert.Equal(t, 7, snap.Period)
}
