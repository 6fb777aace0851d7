package domain

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
)

// ParameterSet is the full description of one consumer type. Treat it as a
// value: the With* builders return modified copies and never share slices.
type ParameterSet struct {
	CRRA    float64
	DiscFac float64
	Rfree   float64

	// Time-varying fields hold one entry per period of the cycle (TCycle).
	LivPrb     []float64
	PermGroFac []float64
	PermShkStd []float64
	TranShkStd []float64

	PermShkCount int
	TranShkCount int
	UnempPrb     float64
	IncUnemp     float64

	// BoroCnstArt is the artificial borrowing constraint on end-of-period
	// normalized assets. Nil leaves only the natural constraint.
	BoroCnstArt *float64

	AXtraMin     float64
	AXtraMax     float64
	AXtraCount   int
	AXtraNestFac int

	TCycle int
	// Cycles is 0 for an infinite horizon, otherwise the number of times the
	// TCycle-period sequence is lived before the terminal period.
	Cycles int

	AgentCount    int
	ANrmInitMean  float64
	ANrmInitStd   float64
	PLvlInitMean  float64
	PLvlInitStd   float64
	// PermGroFacAgg scales every simulated permanent income level each
	// period. Normalized policies do not depend on it.
	PermGroFacAgg float64
	// TAge is the maximum age in periods before forced replacement; 0 disables it.
	TAge int

	Tolerance     float64
	MaxIterations int
}

func (p ParameterSet) InfiniteHorizon() bool {
	return p.Cycles == 0
}

// HasShocks reports whether any period carries income risk. Without it the
// perfect foresight solution applies.
func (p ParameterSet) HasShocks() bool {
	if p.UnempPrb > 0 {
		return true
	}
	for t := 0; t < p.TCycle; t++ {
		if p.PermShkCount > 1 && p.PermShkStd[t] > 0 {
			return true
		}
		if p.TranShkCount > 1 && p.TranShkStd[t] > 0 {
			return true
		}
	}
	return false
}

func (p ParameterSet) Validate() error {
	var problems []string
	add := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	if !(p.CRRA > 0) || math.IsInf(p.CRRA, 0) {
		add("CRRA must be positive, got %v", p.CRRA)
	}
	if !(p.DiscFac > 0 && p.DiscFac < 1) {
		add("DiscFac must be in (0,1), got %v", p.DiscFac)
	}
	if !(p.Rfree > 0) {
		add("Rfree must be positive, got %v", p.Rfree)
	}
	if p.TCycle < 1 {
		add("TCycle must be at least 1, got %d", p.TCycle)
	}
	if p.Cycles < 0 {
		add("Cycles must be non-negative, got %d", p.Cycles)
	}

	checkSeq := func(name string, seq []float64, ok func(float64) bool, want string) {
		if len(seq) != p.TCycle {
			add("%s must have %d entries, got %d", name, p.TCycle, len(seq))
			return
		}
		for i, v := range seq {
			if !ok(v) {
				add("%s[%d] must be %s, got %v", name, i, want, v)
			}
		}
	}
	checkSeq("LivPrb", p.LivPrb, func(v float64) bool { return v > 0 && v <= 1 }, "in (0,1]")
	checkSeq("PermGroFac", p.PermGroFac, func(v float64) bool { return v > 0 }, "positive")
	checkSeq("PermShkStd", p.PermShkStd, func(v float64) bool { return v >= 0 }, "non-negative")
	checkSeq("TranShkStd", p.TranShkStd, func(v float64) bool { return v >= 0 }, "non-negative")

	if p.PermShkCount < 1 {
		add("PermShkCount must be at least 1, got %d", p.PermShkCount)
	}
	if p.TranShkCount < 1 {
		add("TranShkCount must be at least 1, got %d", p.TranShkCount)
	}
	if !(p.UnempPrb >= 0 && p.UnempPrb < 1) {
		add("UnempPrb must be in [0,1), got %v", p.UnempPrb)
	}
	if p.IncUnemp < 0 {
		add("IncUnemp must be non-negative, got %v", p.IncUnemp)
	}
	if p.UnempPrb > 0 && p.UnempPrb*p.IncUnemp >= 1 {
		add("UnempPrb*IncUnemp must be below 1")
	}
	if p.BoroCnstArt != nil && math.IsNaN(*p.BoroCnstArt) {
		add("BoroCnstArt must be a number")
	}

	if !(p.AXtraMin > 0) {
		add("AXtraMin must be positive, got %v", p.AXtraMin)
	}
	if !(p.AXtraMax > p.AXtraMin) {
		add("AXtraMax must exceed AXtraMin, got %v", p.AXtraMax)
	}
	if p.AXtraCount < 2 {
		add("AXtraCount must be at least 2, got %d", p.AXtraCount)
	}
	if p.AXtraNestFac < -1 {
		add("AXtraNestFac must be -1 or greater, got %d", p.AXtraNestFac)
	}

	if p.AgentCount < 0 {
		add("AgentCount must be non-negative, got %d", p.AgentCount)
	}
	if p.ANrmInitStd < 0 || p.PLvlInitStd < 0 {
		add("initial distribution standard deviations must be non-negative")
	}
	if !(p.PermGroFacAgg > 0) {
		add("PermGroFacAgg must be positive, got %v", p.PermGroFacAgg)
	}
	if p.TAge < 0 {
		add("TAge must be non-negative, got %d", p.TAge)
	}
	if !(p.Tolerance > 0) {
		add("Tolerance must be positive, got %v", p.Tolerance)
	}
	if p.MaxIterations < 1 {
		add("MaxIterations must be at least 1, got %d", p.MaxIterations)
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidParameters, strings.Join(problems, "; "))
	}

	return nil
}

// Clone returns a deep copy.
func (p ParameterSet) Clone() ParameterSet {
	c := p
	c.LivPrb = slices.Clone(p.LivPrb)
	c.PermGroFac = slices.Clone(p.PermGroFac)
	c.PermShkStd = slices.Clone(p.PermShkStd)
	c.TranShkStd = slices.Clone(p.TranShkStd)
	if p.BoroCnstArt != nil {
		v := *p.BoroCnstArt
		c.BoroCnstArt = &v
	}
	return c
}

func (p ParameterSet) WithCRRA(v float64) ParameterSet {
	c := p.Clone()
	c.CRRA = v
	return c
}

func (p ParameterSet) WithDiscFac(v float64) ParameterSet {
	c := p.Clone()
	c.DiscFac = v
	return c
}

func (p ParameterSet) WithRfree(v float64) ParameterSet {
	c := p.Clone()
	c.Rfree = v
	return c
}

func (p ParameterSet) WithLivPrb(v ...float64) ParameterSet {
	c := p.Clone()
	c.LivPrb = slices.Clone(v)
	return c
}

func (p ParameterSet) WithPermGroFac(v ...float64) ParameterSet {
	c := p.Clone()
	c.PermGroFac = slices.Clone(v)
	return c
}

func (p ParameterSet) WithPermShkStd(v ...float64) ParameterSet {
	c := p.Clone()
	c.PermShkStd = slices.Clone(v)
	return c
}

func (p ParameterSet) WithTranShkStd(v ...float64) ParameterSet {
	c := p.Clone()
	c.TranShkStd = slices.Clone(v)
	return c
}

// WithBoroCnstArt sets the artificial borrowing constraint; nil removes it.
func (p ParameterSet) WithBoroCnstArt(v *float64) ParameterSet {
	c := p.Clone()
	c.BoroCnstArt = nil
	if v != nil {
		value := *v
		c.BoroCnstArt = &value
	}
	return c
}

// WithHorizon sets the cycle length and the number of cycles (0 = infinite).
func (p ParameterSet) WithHorizon(tCycle, cycles int) ParameterSet {
	c := p.Clone()
	c.TCycle = tCycle
	c.Cycles = cycles
	return c
}

func (p ParameterSet) WithAgentCount(n int) ParameterSet {
	c := p.Clone()
	c.AgentCount = n
	return c
}

// With overrides a single field by its canonical name. Sequence fields accept
// comma-separated values; BoroCnstArt accepts "none" to remove the constraint.
func (p ParameterSet) With(field, raw string) (ParameterSet, error) {
	c := p.Clone()
	raw = strings.TrimSpace(raw)

	parseFloat := func() (float64, error) {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %s=%q is not a number", ErrInvalidInput, field, raw)
		}
		return v, nil
	}
	parseInt := func() (int, error) {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return 0, fmt.Errorf("%w: %s=%q is not an integer", ErrInvalidInput, field, raw)
		}
		return v, nil
	}
	parseSeq := func() ([]float64, error) {
		parts := strings.Split(raw, ",")
		out := make([]float64, 0, len(parts))
		for _, part := range parts {
			v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
			if err != nil {
				return nil, fmt.Errorf("%w: %s=%q is not a number list", ErrInvalidInput, field, raw)
			}
			out = append(out, v)
		}
		return out, nil
	}

	var err error
	switch field {
	case "CRRA":
		c.CRRA, err = parseFloat()
	case "DiscFac":
		c.DiscFac, err = parseFloat()
	case "Rfree":
		c.Rfree, err = parseFloat()
	case "LivPrb":
		c.LivPrb, err = parseSeq()
	case "PermGroFac":
		c.PermGroFac, err = parseSeq()
	case "PermShkStd":
		c.PermShkStd, err = parseSeq()
	case "TranShkStd":
		c.TranShkStd, err = parseSeq()
	case "PermShkCount":
		c.PermShkCount, err = parseInt()
	case "TranShkCount":
		c.TranShkCount, err = parseInt()
	case "UnempPrb":
		c.UnempPrb, err = parseFloat()
	case "IncUnemp":
		c.IncUnemp, err = parseFloat()
	case "BoroCnstArt":
		if strings.EqualFold(raw, "none") || raw == "" {
			c.BoroCnstArt = nil
			break
		}
		var v float64
		v, err = parseFloat()
		c.BoroCnstArt = &v
	case "AXtraMin":
		c.AXtraMin, err = parseFloat()
	case "AXtraMax":
		c.AXtraMax, err = parseFloat()
	case "AXtraCount":
		c.AXtraCount, err = parseInt()
	case "AXtraNestFac":
		c.AXtraNestFac, err = parseInt()
	case "TCycle":
		c.TCycle, err = parseInt()
	case "Cycles":
		c.Cycles, err = parseInt()
	case "AgentCount":
		c.AgentCount, err = parseInt()
	case "ANrmInitMean":
		c.ANrmInitMean, err = parseFloat()
	case "ANrmInitStd":
		c.ANrmInitStd, err = parseFloat()
	case "PLvlInitMean":
		c.PLvlInitMean, err = parseFloat()
	case "PLvlInitStd":
		c.PLvlInitStd, err = parseFloat()
	case "PermGroFacAgg":
		c.PermGroFacAgg, err = parseFloat()
	case "TAge":
		c.TAge, err = parseInt()
	case "Tolerance":
		c.Tolerance, err = parseFloat()
	case "MaxIterations":
		c.MaxIterations, err = parseInt()
	default:
		return ParameterSet{}, fmt.Errorf("%w: unknown parameter %q", ErrInvalidInput, field)
	}
	if err != nil {
		return ParameterSet{}, err
	}

	return c, nil
}

// PeriodIndex maps a position in the full lifecycle onto the cycle.
func (p ParameterSet) PeriodIndex(t int) int {
	if p.TCycle <= 0 {
		return 0
	}
	idx := t % p.TCycle
	if idx < 0 {
		idx += p.TCycle
	}
	return idx
}

// Float returns a pointer to v, for BoroCnstArt.
func Float(v float64) *float64 {
	return &v
}
