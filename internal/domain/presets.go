package domain

import (
	"math"
	"sort"
)

const (
	PresetPerfForesight = "perf-foresight"
	PresetIndShock      = "ind-shock"
	PresetCSTW          = "cstw"
)

func defaultParams() ParameterSet {
	return ParameterSet{
		PermShkCount:  1,
		TranShkCount:  1,
		AXtraMin:      0.001,
		AXtraMax:      20,
		AXtraCount:    48,
		AXtraNestFac:  3,
		TCycle:        1,
		Cycles:        0,
		AgentCount:    10_000,
		ANrmInitMean:  0,
		PLvlInitMean:  0,
		PermGroFacAgg: 1,
		Tolerance:     1e-6,
		MaxIterations: 5_000,
	}
}

// PerfForesightParams is an infinite horizon consumer with no income risk
// and no artificial borrowing constraint.
func PerfForesightParams() ParameterSet {
	p := defaultParams()
	p.CRRA = 2.5
	p.DiscFac = 0.96
	p.Rfree = 1.03
	p.LivPrb = []float64{0.98}
	p.PermGroFac = []float64{1.01}
	p.PermShkStd = []float64{0}
	p.TranShkStd = []float64{0}
	return p
}

// IndShockParams adds lognormal permanent and transitory shocks, an
// unemployment point mass and a zero borrowing constraint.
func IndShockParams() ParameterSet {
	p := PerfForesightParams()
	p.PermShkStd = []float64{0.1}
	p.TranShkStd = []float64{0.1}
	p.PermShkCount = 7
	p.TranShkCount = 7
	p.UnempPrb = 0.05
	p.IncUnemp = 0.3
	p.BoroCnstArt = Float(0)
	p.AXtraMax = 50
	p.ANrmInitMean = -10
	return p
}

// CSTWParams is the quarterly perpetual-youth calibration used for the
// discount factor heterogeneity exercise. DiscFac is the center of the
// distribution.
func CSTWParams() ParameterSet {
	p := defaultParams()
	livPrb := 1 - 1.0/160
	p.CRRA = 1
	p.DiscFac = 0.9855583
	p.Rfree = 1.01 / livPrb
	p.LivPrb = []float64{livPrb}
	p.PermGroFac = []float64{1}
	p.PermShkStd = []float64{math.Sqrt(0.01 * 4 / 11)}
	p.TranShkStd = []float64{math.Sqrt(0.01 * 4)}
	p.PermShkCount = 7
	p.TranShkCount = 7
	p.UnempPrb = 0.07
	p.IncUnemp = 0.15
	p.BoroCnstArt = Float(0)
	p.AXtraMax = 40
	// newborns enter with assets of about 0.001 times permanent income and
	// the population mean permanent income level
	p.ANrmInitMean = math.Log(0.001)
	p.TAge = 400
	return p
}

var presets = map[string]func() ParameterSet{
	PresetPerfForesight: PerfForesightParams,
	PresetIndShock:      IndShockParams,
	PresetCSTW:          CSTWParams,
}

func Preset(name string) (ParameterSet, bool) {
	build, ok := presets[name]
	if !ok {
		return ParameterSet{}, false
	}
	return build(), true
}

func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
