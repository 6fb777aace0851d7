package toml

import (
	"fmt"
	"slices"
	"time"

	"github.com/bnema/bufferstock/internal/domain"
)

const currentCalibrationSchemaVersion = 1

type calibrationFileSchema struct {
	Version      int                 `toml:"version"`
	Calibrations []calibrationSchema `toml:"calibrations"`
}

func (s *calibrationFileSchema) applyDefaults() {
	if s.Version == 0 {
		s.Version = currentCalibrationSchemaVersion
	}
}

func (s calibrationFileSchema) validateVersion() error {
	if s.Version > currentCalibrationSchemaVersion {
		return fmt.Errorf("unsupported calibrations schema version %d (current %d)", s.Version, currentCalibrationSchemaVersion)
	}

	return nil
}

type calibrationSchema struct {
	Name        string       `toml:"name"`
	Description string       `toml:"description,omitempty"`
	Base        string       `toml:"base,omitempty"`
	UpdatedAt   string       `toml:"updated_at,omitempty"`
	Params      paramsSchema `toml:"params"`
}

type paramsSchema struct {
	CRRA          float64   `toml:"crra"`
	DiscFac       float64   `toml:"disc_fac"`
	Rfree         float64   `toml:"rfree"`
	LivPrb        []float64 `toml:"liv_prb"`
	PermGroFac    []float64 `toml:"perm_gro_fac"`
	PermShkStd    []float64 `toml:"perm_shk_std"`
	TranShkStd    []float64 `toml:"tran_shk_std"`
	PermShkCount  int       `toml:"perm_shk_count"`
	TranShkCount  int       `toml:"tran_shk_count"`
	UnempPrb      float64   `toml:"unemp_prb"`
	IncUnemp      float64   `toml:"inc_unemp"`
	BoroCnstArt   *float64  `toml:"boro_cnst_art,omitempty"`
	AXtraMin      float64   `toml:"a_xtra_min"`
	AXtraMax      float64   `toml:"a_xtra_max"`
	AXtraCount    int       `toml:"a_xtra_count"`
	AXtraNestFac  int       `toml:"a_xtra_nest_fac"`
	TCycle        int       `toml:"t_cycle"`
	Cycles        int       `toml:"cycles"`
	AgentCount    int       `toml:"agent_count"`
	ANrmInitMean  float64   `toml:"a_nrm_init_mean"`
	ANrmInitStd   float64   `toml:"a_nrm_init_std"`
	PLvlInitMean  float64   `toml:"p_lvl_init_mean"`
	PLvlInitStd   float64   `toml:"p_lvl_init_std"`
	PermGroFacAgg float64   `toml:"perm_gro_fac_agg"`
	TAge          int       `toml:"t_age"`
	Tolerance     float64   `toml:"tolerance"`
	MaxIterations int       `toml:"max_iterations"`
}

func toParamsSchema(p domain.ParameterSet) paramsSchema {
	c := p.Clone()
	return paramsSchema{
		CRRA:          c.CRRA,
		DiscFac:       c.DiscFac,
		Rfree:         c.Rfree,
		LivPrb:        c.LivPrb,
		PermGroFac:    c.PermGroFac,
		PermShkStd:    c.PermShkStd,
		TranShkStd:    c.TranShkStd,
		PermShkCount:  c.PermShkCount,
		TranShkCount:  c.TranShkCount,
		UnempPrb:      c.UnempPrb,
		IncUnemp:      c.IncUnemp,
		BoroCnstArt:   c.BoroCnstArt,
		AXtraMin:      c.AXtraMin,
		AXtraMax:      c.AXtraMax,
		AXtraCount:    c.AXtraCount,
		AXtraNestFac:  c.AXtraNestFac,
		TCycle:        c.TCycle,
		Cycles:        c.Cycles,
		AgentCount:    c.AgentCount,
		ANrmInitMean:  c.ANrmInitMean,
		ANrmInitStd:   c.ANrmInitStd,
		PLvlInitMean:  c.PLvlInitMean,
		PLvlInitStd:   c.PLvlInitStd,
		PermGroFacAgg: c.PermGroFacAgg,
		TAge:          c.TAge,
		Tolerance:     c.Tolerance,
		MaxIterations: c.MaxIterations,
	}
}

func fromParamsSchema(s paramsSchema) domain.ParameterSet {
	p := domain.ParameterSet{
		CRRA:          s.CRRA,
		DiscFac:       s.DiscFac,
		Rfree:         s.Rfree,
		LivPrb:        slices.Clone(s.LivPrb),
		PermGroFac:    slices.Clone(s.PermGroFac),
		PermShkStd:    slices.Clone(s.PermShkStd),
		TranShkStd:    slices.Clone(s.TranShkStd),
		PermShkCount:  s.PermShkCount,
		TranShkCount:  s.TranShkCount,
		UnempPrb:      s.UnempPrb,
		IncUnemp:      s.IncUnemp,
		AXtraMin:      s.AXtraMin,
		AXtraMax:      s.AXtraMax,
		AXtraCount:    s.AXtraCount,
		AXtraNestFac:  s.AXtraNestFac,
		TCycle:        s.TCycle,
		Cycles:        s.Cycles,
		AgentCount:    s.AgentCount,
		ANrmInitMean:  s.ANrmInitMean,
		ANrmInitStd:   s.ANrmInitStd,
		PLvlInitMean:  s.PLvlInitMean,
		PLvlInitStd:   s.PLvlInitStd,
		PermGroFacAgg: s.PermGroFacAgg,
		TAge:          s.TAge,
		Tolerance:     s.Tolerance,
		MaxIterations: s.MaxIterations,
	}
	if s.BoroCnstArt != nil {
		p.BoroCnstArt = domain.Float(*s.BoroCnstArt)
	}
	return p
}

func toCalibrationSchema(c domain.Calibration) calibrationSchema {
	return calibrationSchema{
		Name:        c.Name,
		Description: c.Description,
		Base:        c.Base,
		UpdatedAt:   formatTime(c.UpdatedAt),
		Params:      toParamsSchema(c.Params),
	}
}

func fromCalibrationSchema(s calibrationSchema) domain.Calibration {
	return domain.Calibration{
		Name:        s.Name,
		Description: s.Description,
		Base:        s.Base,
		UpdatedAt:   parseTime(s.UpdatedAt),
		Params:      fromParamsSchema(s.Params),
	}
}

func parseTime(raw string) time.Time {
	if raw == "" {
		return time.Time{}
	}

	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}
	}

	return parsed
}

func formatTime(value time.Time) string {
	if value.IsZero() {
		return ""
	}

	return value.Format(time.RFC3339)
}
