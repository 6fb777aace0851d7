package domain

import "time"

// SummaryStatistics is derived from a panel snapshot and never feeds back
// into it.
type SummaryStatistics struct {
	Agents          int
	MeanALvl        float64
	MeanPLvl        float64
	CapitalToIncome float64
	WealthFractions []float64
	WealthLevels    []float64
	LorenzFractions []float64
	LorenzShares    []float64
	MPCFractions    []float64
	MPCPercentiles  []float64
	MeanMPC         float64
	MeanAnnualMPC   float64
	UnemploymentPct float64
}

// ReferenceDataset is an empirical target, e.g. SCF wealth shares by
// percentile. Fractions are in [0,1] and increasing.
type ReferenceDataset struct {
	Name      string
	Source    string
	Fractions []float64
	Shares    []float64
}

// RunRecord is a persisted simulation summary.
type RunRecord struct {
	ID          string
	Calibration string
	Seed        uint64
	Periods     int
	Agents      int
	CreatedAt   time.Time
	Summary     SummaryStatistics
}
