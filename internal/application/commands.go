package application

import "github.com/bnema/bufferstock/internal/domain"

// Override sets one ParameterSet field by name, as accepted by
// domain.ParameterSet.With.
type Override struct {
	Field string
	Value string
}

type DeriveCalibrationCommand struct {
	Name        string
	Base        string
	Description string
	Overrides   []Override
}

type SolveCommand struct {
	Calibration string
	Overrides   []Override
}

type ConsumptionTableCommand struct {
	Calibration string
	Overrides   []Override
	// Period indexes the solved policies; negative values count from the end.
	Period int
	MMin   float64
	MMax   float64
	Points int
}

type SimulateCommand struct {
	Calibration string
	Overrides   []Override
	// Seed 0 draws a seed from the clock; the seed used is reported.
	Seed    uint64
	Periods int
	// Agents overrides the calibration's AgentCount when positive.
	Agents          int
	PeriodsPerYear  int
	TrackMeanAssets bool
	Save            bool
}

// DiscFacDistributionCommand describes a population of Types consumer types
// whose discount factors are spread uniformly over Center±Spread.
type DiscFacDistributionCommand struct {
	Calibration    string
	Overrides      []Override
	Center         float64
	Spread         float64
	Types          int
	AgentsPerType  int
	Periods        int
	Seed           uint64
	PeriodsPerYear int
	// Reference names a Lorenz target; empty skips the comparison.
	Reference string
}

func applyOverrides(p domain.ParameterSet, overrides []Override) (domain.ParameterSet, error) {
	for _, o := range overrides {
		next, err := p.With(o.Field, o.Value)
		if err != nil {
			return domain.ParameterSet{}, err
		}
		p = next
	}
	return p, nil
}
