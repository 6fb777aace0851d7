package application

import (
	"github.com/bnema/bufferstock/internal/domain"
)

type SolveReport struct {
	Calibration string
	Params      domain.ParameterSet
	Solutions   []domain.Solution
	Conditions  domain.Conditions
	Iterations  int
	Distance    float64
}

// ConsumptionRow is one point of a plot-ready consumption function.
type ConsumptionRow struct {
	M   float64 `json:"m"`
	C   float64 `json:"c"`
	MPC float64 `json:"mpc"`
}

type ConsumptionTable struct {
	Calibration string           `json:"calibration"`
	Period      int              `json:"period"`
	MNrmMin     float64          `json:"m_nrm_min"`
	HNrm        float64          `json:"h_nrm"`
	Rows        []ConsumptionRow `json:"rows"`
}

type SimulationReport struct {
	Run        domain.RunRecord
	Conditions domain.Conditions
	// MeanAssetPath holds mean aLvl after each period when tracking was asked for.
	MeanAssetPath []float64
	Saved         bool
}

type TypeReport struct {
	DiscFac    float64
	Seed       uint64
	Iterations int
	// Conditions are advisory; a type whose conditions fail is still simulated.
	Conditions domain.Conditions
	Summary    domain.SummaryStatistics
}

type HeterogeneityReport struct {
	Calibration string
	Center      float64
	Spread      float64
	Seed        uint64
	Types       []TypeReport
	Pooled      domain.SummaryStatistics
	// Reference is nil when no target was requested. SimulatedShares are the
	// pooled Lorenz shares at the reference fractions.
	Reference       *domain.ReferenceDataset
	SimulatedShares []float64
	LorenzDistance  float64
}
