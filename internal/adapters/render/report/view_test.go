package report

import (
	"testing"
	"time"

	"github.com/bnema/bufferstock/internal/application"
	"github.com/bnema/bufferstock/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSummary() domain.SummaryStatistics {
	return domain.SummaryStatistics{
		Agents:          1000,
		MeanALvl:        10.26,
		MeanPLvl:        1,
		CapitalToIncome: 10.3,
		WealthFractions: []float64{0.5, 0.99},
		WealthLevels:    []float64{4.2, 80},
		LorenzFractions: []float64{0.2, 0.4, 0.6, 0.8},
		LorenzShares:    []float64{0.001, 0.02, 0.07, 0.19},
		MPCFractions:    []float64{0.5},
		MPCPercentiles:  []float64{0.21},
		MeanMPC:         0.09,
		MeanAnnualMPC:   0.26,
		UnemploymentPct: 7,
	}
}

func TestRenderCalibrations(t *testing.T) {
	output, err := RenderCalibrations(append(domain.BuiltInCalibrations(), domain.Calibration{Name: "mine", Base: "cstw"}))

	require.NoError(t, err)
	assert.Contains(t, output, "calibrations: 4")
	assert.Contains(t, output, "cstw (built-in)")
	assert.Contains(t, output, "mine (stored)")
}

func TestRenderCalibrationsEmpty(t *testing.T) {
	output, err := RenderCalibrations(nil)

	require.NoError(t, err)
	assert.Contains(t, output, "No calibrations available.")
}

func TestRenderCalibrationShowsParameters(t *testing.T) {
	output, err := RenderCalibration(domain.Calibration{Name: "ind-shock", Params: domain.IndShockParams()})

	require.NoError(t, err)
	assert.Contains(t, output, "Calibration ind-shock")
	assert.Contains(t, output, "CRRA")
	assert.Contains(t, output, "2.5")
	assert.Contains(t, output, "BoroCnstArt")
	assert.Contains(t, output, "infinite")
}

func TestRenderSolveListsConditions(t *testing.T) {
	params := domain.PerfForesightParams()
	output, err := RenderSolve(application.SolveReport{
		Calibration: "perf-foresight",
		Params:      params,
		Solutions:   []domain.Solution{domain.TerminalSolution()},
		Conditions:  domain.CheckConditions(params),
		Iterations:  12,
		Distance:    5e-7,
	})

	require.NoError(t, err)
	assert.Contains(t, output, "Solution perf-foresight")
	assert.Contains(t, output, "iterations: 12")
	assert.Contains(t, output, "AIC")
	assert.Contains(t, output, "FHWC")
	assert.Contains(t, output, "holds")
	assert.Contains(t, output, "c(1)")
}

func TestRenderSolveFlagsFailedCondition(t *testing.T) {
	params := domain.PerfForesightParams().WithPermGroFac(1.05)
	output, err := RenderSolve(application.SolveReport{
		Calibration: "growth",
		Params:      params,
		Conditions:  domain.CheckConditions(params),
	})

	require.NoError(t, err)
	assert.Contains(t, output, "fails")
}

func TestRenderTable(t *testing.T) {
	output, err := RenderTable(application.ConsumptionTable{
		Calibration: "ind-shock",
		Rows: []application.ConsumptionRow{
			{M: 0, C: 0, MPC: 1},
			{M: 1, C: 0.8, MPC: 0.5},
		},
	})

	require.NoError(t, err)
	assert.Contains(t, output, "Consumption function ind-shock, period 0")
	assert.Contains(t, output, "0.8000")
	assert.Contains(t, output, "0.5000")
}

func TestRenderSimulation(t *testing.T) {
	output, err := RenderSimulation(application.SimulationReport{
		Run: domain.RunRecord{
			ID:          "run-1",
			Calibration: "cstw",
			Seed:        3,
			Periods:     400,
			Agents:      1000,
			Summary:     sampleSummary(),
		},
		Conditions: domain.Conditions{
			Thorn: 0.99,
			Items: []domain.Condition{
				{Name: domain.ConditionAIC, Factor: 0.99, Satisfied: true},
				{Name: domain.ConditionGIC, Factor: 1.01, Satisfied: false},
			},
		},
		MeanAssetPath: []float64{0.1, 5, 10.26},
		Saved:         true,
	})

	require.NoError(t, err)
	assert.Contains(t, output, "agents: 1000  periods: 400  seed: 3")
	assert.Contains(t, output, "run: run-1")
	assert.Contains(t, output, "mean aLvl")
	assert.Contains(t, output, "10.26")
	assert.Contains(t, output, "wealth p99")
	assert.Contains(t, output, "bottom  80%")
	assert.Contains(t, output, "19.00%")
	assert.Contains(t, output, "over 3 periods")
	assert.NotContains(t, output, "target")
	assert.Regexp(t, `AIC\s+holds`, output)
	assert.Regexp(t, `GIC\s+fails`, output)
}

func TestRenderHeterogeneityShowsTarget(t *testing.T) {
	reference := domain.ReferenceDataset{
		Name:      "scf",
		Fractions: []float64{0.2, 0.4, 0.6, 0.8},
		Shares:    []float64{-0.002, 0.010, 0.053, 0.166},
	}
	output, err := RenderHeterogeneity(application.HeterogeneityReport{
		Calibration: "cstw",
		Center:      0.9867,
		Spread:      0.0067,
		Seed:        9,
		Types: []application.TypeReport{
			{DiscFac: 0.98, Iterations: 300, Summary: sampleSummary()},
			{
				DiscFac:    0.99,
				Iterations: 900,
				Conditions: domain.Conditions{Items: []domain.Condition{
					{Name: domain.ConditionGIC, Satisfied: false},
					{Name: domain.ConditionGICLiv, Satisfied: false},
				}},
				Summary: sampleSummary(),
			},
		},
		Pooled:          sampleSummary(),
		Reference:       &reference,
		SimulatedShares: sampleSummary().LorenzShares,
		LorenzDistance:  0.031,
	})

	require.NoError(t, err)
	assert.Contains(t, output, "types: 2")
	assert.Contains(t, output, "0.98000")
	assert.Contains(t, output, "pooled population")
	assert.Contains(t, output, "(target 16.60%)")
	assert.Contains(t, output, "Lorenz distance to scf 0.031")
	assert.Contains(t, output, "all hold")
	assert.Contains(t, output, "GIC,GICLiv fail")
}

func TestRenderRuns(t *testing.T) {
	output, err := RenderRuns([]domain.RunRecord{
		{
			ID:          "0b6f",
			Calibration: "ind-shock",
			Seed:        1,
			Periods:     100,
			Agents:      500,
			CreatedAt:   time.Date(2026, 2, 14, 11, 0, 0, 0, time.UTC),
			Summary:     sampleSummary(),
		},
	})

	require.NoError(t, err)
	assert.Contains(t, output, "runs: 1")
	assert.Contains(t, output, "0b6f")
	assert.Contains(t, output, "ind-shock agents=500 periods=100 seed=1")
	assert.Contains(t, output, "2026-02-14 11:00")
}

func TestRenderRunsEmpty(t *testing.T) {
	output, err := RenderRuns(nil)

	require.NoError(t, err)
	assert.Contains(t, output, "No saved runs.")
}

func TestRenderShareBarMarksTarget(t *testing.T) {
	target := 0.5
	bar := renderShareBar(0.25, &target, 8, newStyles())

	assert.Equal(t, "[==--|---]", bar)
}
