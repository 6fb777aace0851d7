package aggregate

import (
	"fmt"
	"slices"

	"github.com/bnema/bufferstock/internal/domain"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

var (
	DefaultWealthFractions = []float64{0.1, 0.25, 0.5, 0.75, 0.9, 0.99}
	DefaultLorenzFractions = []float64{0.2, 0.4, 0.6, 0.8}
	DefaultMPCFractions    = []float64{0.1, 0.5, 0.9}
)

type Options struct {
	WealthFractions []float64
	LorenzFractions []float64
	MPCFractions    []float64
	// PeriodsPerYear converts per-period MPCs to annual ones; 1 leaves them as is.
	PeriodsPerYear int
}

func (o Options) withDefaults() Options {
	if o.WealthFractions == nil {
		o.WealthFractions = DefaultWealthFractions
	}
	if o.LorenzFractions == nil {
		o.LorenzFractions = DefaultLorenzFractions
	}
	if o.MPCFractions == nil {
		o.MPCFractions = DefaultMPCFractions
	}
	if o.PeriodsPerYear == 0 {
		o.PeriodsPerYear = 1
	}
	return o
}

// WeightedMean is the mean of values under weights; nil weights are equal.
func WeightedMean(values, weights []float64) (float64, error) {
	if len(values) == 0 {
		return 0, fmt.Errorf("%w: no values", domain.ErrInvalidInput)
	}
	if weights != nil && len(weights) != len(values) {
		return 0, fmt.Errorf("%w: %d values but %d weights", domain.ErrInvalidInput, len(values), len(weights))
	}
	return stat.Mean(values, weights), nil
}

// CapitalToIncome is aggregate end-of-period assets over aggregate labor
// income.
func CapitalToIncome(panel *domain.Panel) (float64, error) {
	if panel.Len() == 0 {
		return 0, fmt.Errorf("%w: empty panel", domain.ErrInvalidInput)
	}
	income := floats.Sum(panel.IncomeLvls())
	if !(income > 0) {
		return 0, fmt.Errorf("%w: aggregate income is %v; simulate at least one period", domain.ErrInvalidInput, income)
	}
	return floats.Sum(panel.ALvls()) / income, nil
}

// Pool concatenates panels into one population, in argument order.
func Pool(panels ...*domain.Panel) *domain.Panel {
	var n int
	for _, p := range panels {
		n += p.Len()
	}
	pooled := &domain.Panel{Agents: make([]domain.AgentState, 0, n)}
	for _, p := range panels {
		if p == nil {
			continue
		}
		pooled.Agents = append(pooled.Agents, p.Agents...)
		if p.Period > pooled.Period {
			pooled.Period = p.Period
		}
	}
	return pooled
}

// Summarize computes the standard statistics of a simulated panel. The
// panel is read, never modified.
func Summarize(panel *domain.Panel, opts Options) (domain.SummaryStatistics, error) {
	if panel.Len() == 0 {
		return domain.SummaryStatistics{}, fmt.Errorf("%w: empty panel", domain.ErrInvalidInput)
	}
	opts = opts.withDefaults()

	aLvl := panel.ALvls()
	pLvl := panel.PLvls()
	mpc := panel.MPCs()

	summary := domain.SummaryStatistics{
		Agents:          panel.Len(),
		WealthFractions: slices.Clone(opts.WealthFractions),
		LorenzFractions: slices.Clone(opts.LorenzFractions),
		MPCFractions:    slices.Clone(opts.MPCFractions),
	}

	var err error
	if summary.MeanALvl, err = WeightedMean(aLvl, nil); err != nil {
		return domain.SummaryStatistics{}, err
	}
	if summary.MeanPLvl, err = WeightedMean(pLvl, nil); err != nil {
		return domain.SummaryStatistics{}, err
	}
	if summary.CapitalToIncome, err = CapitalToIncome(panel); err != nil {
		return domain.SummaryStatistics{}, err
	}
	if summary.WealthLevels, err = Percentiles(aLvl, nil, opts.WealthFractions); err != nil {
		return domain.SummaryStatistics{}, fmt.Errorf("wealth percentiles: %w", err)
	}
	if summary.LorenzShares, err = LorenzShares(aLvl, nil, opts.LorenzFractions); err != nil {
		return domain.SummaryStatistics{}, fmt.Errorf("lorenz shares: %w", err)
	}

	annual, err := AnnualizeMPCs(mpc, opts.PeriodsPerYear)
	if err != nil {
		return domain.SummaryStatistics{}, fmt.Errorf("annualize MPCs: %w", err)
	}
	if summary.MPCPercentiles, err = Percentiles(annual, nil, opts.MPCFractions); err != nil {
		return domain.SummaryStatistics{}, fmt.Errorf("MPC percentiles: %w", err)
	}
	summary.MeanMPC = stat.Mean(mpc, nil)
	summary.MeanAnnualMPC = stat.Mean(annual, nil)

	var unemployed int
	for _, a := range panel.Agents {
		if !a.Employed {
			unemployed++
		}
	}
	summary.UnemploymentPct = 100 * float64(unemployed) / float64(panel.Len())

	return summary, nil
}
