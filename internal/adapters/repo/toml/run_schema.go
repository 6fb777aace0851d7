package toml

import (
	"fmt"
	"slices"

	"github.com/bnema/bufferstock/internal/domain"
)

const currentRunSchemaVersion = 1

type runFileSchema struct {
	Version int         `toml:"version"`
	Runs    []runSchema `toml:"runs"`
}

func (s *runFileSchema) applyDefaults() {
	if s.Version == 0 {
		s.Version = currentRunSchemaVersion
	}
}

func (s runFileSchema) validateVersion() error {
	if s.Version > currentRunSchemaVersion {
		return fmt.Errorf("unsupported runs schema version %d (current %d)", s.Version, currentRunSchemaVersion)
	}

	return nil
}

type runSchema struct {
	ID          string        `toml:"id"`
	Calibration string        `toml:"calibration"`
	Seed        uint64        `toml:"seed"`
	Periods     int           `toml:"periods"`
	Agents      int           `toml:"agents"`
	CreatedAt   string        `toml:"created_at"`
	Summary     summarySchema `toml:"summary"`
}

type summarySchema struct {
	Agents          int       `toml:"agents"`
	MeanALvl        float64   `toml:"mean_a_lvl"`
	MeanPLvl        float64   `toml:"mean_p_lvl"`
	CapitalToIncome float64   `toml:"capital_to_income"`
	WealthFractions []float64 `toml:"wealth_fractions"`
	WealthLevels    []float64 `toml:"wealth_levels"`
	LorenzFractions []float64 `toml:"lorenz_fractions"`
	LorenzShares    []float64 `toml:"lorenz_shares"`
	MPCFractions    []float64 `toml:"mpc_fractions"`
	MPCPercentiles  []float64 `toml:"mpc_percentiles"`
	MeanMPC         float64   `toml:"mean_mpc"`
	MeanAnnualMPC   float64   `toml:"mean_annual_mpc"`
	UnemploymentPct float64   `toml:"unemployment_pct"`
}

func toRunSchema(run domain.RunRecord) runSchema {
	s := run.Summary
	return runSchema{
		ID:          run.ID,
		Calibration: run.Calibration,
		Seed:        run.Seed,
		Periods:     run.Periods,
		Agents:      run.Agents,
		CreatedAt:   formatTime(run.CreatedAt),
		Summary: summarySchema{
			Agents:          s.Agents,
			MeanALvl:        s.MeanALvl,
			MeanPLvl:        s.MeanPLvl,
			CapitalToIncome: s.CapitalToIncome,
			WealthFractions: slices.Clone(s.WealthFractions),
			WealthLevels:    slices.Clone(s.WealthLevels),
			LorenzFractions: slices.Clone(s.LorenzFractions),
			LorenzShares:    slices.Clone(s.LorenzShares),
			MPCFractions:    slices.Clone(s.MPCFractions),
			MPCPercentiles:  slices.Clone(s.MPCPercentiles),
			MeanMPC:         s.MeanMPC,
			MeanAnnualMPC:   s.MeanAnnualMPC,
			UnemploymentPct: s.UnemploymentPct,
		},
	}
}

func fromRunSchema(s runSchema) domain.RunRecord {
	sum := s.Summary
	return domain.RunRecord{
		ID:          s.ID,
		Calibration: s.Calibration,
		Seed:        s.Seed,
		Periods:     s.Periods,
		Agents:      s.Agents,
		CreatedAt:   parseTime(s.CreatedAt),
		Summary: domain.SummaryStatistics{
			Agents:          sum.Agents,
			MeanALvl:        sum.MeanALvl,
			MeanPLvl:        sum.MeanPLvl,
			CapitalToIncome: sum.CapitalToIncome,
			WealthFractions: sum.WealthFractions,
			WealthLevels:    sum.WealthLevels,
			LorenzFractions: sum.LorenzFractions,
			LorenzShares:    sum.LorenzShares,
			MPCFractions:    sum.MPCFractions,
			MPCPercentiles:  sum.MPCPercentiles,
			MeanMPC:         sum.MeanMPC,
			MeanAnnualMPC:   sum.MeanAnnualMPC,
			UnemploymentPct: sum.UnemploymentPct,
		},
	}
}
