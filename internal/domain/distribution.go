package domain

import (
	"fmt"
	"math"
	"slices"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/distuv"
)

// UniformSource yields uniform draws on [0,1).
type UniformSource interface {
	Float64() float64
}

// DiscreteDistribution is a finite set of atoms with probability mass.
type DiscreteDistribution struct {
	Atoms []float64
	Pmf   []float64
}

func Degenerate(x float64) DiscreteDistribution {
	return DiscreteDistribution{Atoms: []float64{x}, Pmf: []float64{1}}
}

// MeanOneLognormal approximates a lognormal with E[X]=1 and underlying
// standard deviation sigma by n equiprobable bins, each represented by its
// conditional mean. The approximation preserves the mean exactly.
func MeanOneLognormal(n int, sigma float64) (DiscreteDistribution, error) {
	if n < 1 || sigma < 0 || math.IsNaN(sigma) {
		return DiscreteDistribution{}, fmt.Errorf("%w: lognormal approximation needs n>=1 and sigma>=0", ErrInvalidInput)
	}
	if n == 1 || sigma == 0 {
		return Degenerate(1), nil
	}

	mu := -0.5 * sigma * sigma
	dist := distuv.LogNormal{Mu: mu, Sigma: sigma}

	bounds := make([]float64, n+1)
	bounds[0] = 0
	bounds[n] = math.Inf(1)
	for i := 1; i < n; i++ {
		bounds[i] = dist.Quantile(float64(i) / float64(n))
	}

	// Partial expectation of a lognormal up to x is exp(mu+s^2/2)*Phi((ln x-mu-s^2)/s),
	// and exp(mu+s^2/2) is 1 here.
	partial := func(x float64) float64 {
		if x <= 0 {
			return 0
		}
		if math.IsInf(x, 1) {
			return 1
		}
		return distuv.UnitNormal.CDF((math.Log(x) - mu - sigma*sigma) / sigma)
	}

	out := DiscreteDistribution{
		Atoms: make([]float64, n),
		Pmf:   make([]float64, n),
	}
	prob := 1 / float64(n)
	for i := 0; i < n; i++ {
		out.Atoms[i] = (partial(bounds[i+1]) - partial(bounds[i])) / prob
		out.Pmf[i] = prob
	}

	return out, nil
}

// WithUnemployment mixes in a point mass at inc with probability prb and
// rescales the remaining atoms so the mean is unchanged. The unemployment
// atom is placed first.
func (d DiscreteDistribution) WithUnemployment(prb, inc float64) DiscreteDistribution {
	if prb <= 0 {
		return d.Clone()
	}

	scale := (1 - prb*inc) / (1 - prb)
	out := DiscreteDistribution{
		Atoms: make([]float64, 0, len(d.Atoms)+1),
		Pmf:   make([]float64, 0, len(d.Pmf)+1),
	}
	out.Atoms = append(out.Atoms, inc)
	out.Pmf = append(out.Pmf, prb)
	for i := range d.Atoms {
		out.Atoms = append(out.Atoms, d.Atoms[i]*scale)
		out.Pmf = append(out.Pmf, d.Pmf[i]*(1-prb))
	}

	return out
}

// UniformApprox places n equally weighted atoms at the midpoints of n equal
// bins spanning [center-spread, center+spread].
func UniformApprox(center, spread float64, n int) (DiscreteDistribution, error) {
	if n < 1 || spread < 0 {
		return DiscreteDistribution{}, fmt.Errorf("%w: uniform approximation needs n>=1 and spread>=0", ErrInvalidInput)
	}

	bot := center - spread
	width := 2 * spread / float64(n)
	out := DiscreteDistribution{
		Atoms: make([]float64, n),
		Pmf:   make([]float64, n),
	}
	for i := 0; i < n; i++ {
		out.Atoms[i] = bot + (float64(i)+0.5)*width
		out.Pmf[i] = 1 / float64(n)
	}

	return out, nil
}

func (d DiscreteDistribution) Clone() DiscreteDistribution {
	return DiscreteDistribution{Atoms: slices.Clone(d.Atoms), Pmf: slices.Clone(d.Pmf)}
}

func (d DiscreteDistribution) Len() int {
	return len(d.Atoms)
}

func (d DiscreteDistribution) Mean() float64 {
	return floats.Dot(d.Atoms, d.Pmf)
}

// Moment returns E[X^k].
func (d DiscreteDistribution) Moment(k float64) float64 {
	var sum float64
	for i, x := range d.Atoms {
		if d.Pmf[i] == 0 {
			continue
		}
		sum += d.Pmf[i] * math.Pow(x, k)
	}
	return sum
}

func (d DiscreteDistribution) Min() float64 {
	min := math.Inf(1)
	for i, x := range d.Atoms {
		if d.Pmf[i] > 0 && x < min {
			min = x
		}
	}
	return min
}

// Draw returns the index of an atom drawn with probability Pmf.
func (d DiscreteDistribution) Draw(src UniformSource) int {
	u := src.Float64()
	var cum float64
	last := 0
	for i, p := range d.Pmf {
		if p <= 0 {
			continue
		}
		cum += p
		last = i
		if u < cum {
			return i
		}
	}
	return last
}

// IncomeShocks holds one period's shock distributions. UnempIndex is the
// position of the unemployment atom in Tran, or -1.
type IncomeShocks struct {
	Perm       DiscreteDistribution
	Tran       DiscreteDistribution
	UnempIndex int
}

// ShockAtom is one point of the joint permanent/transitory distribution.
type ShockAtom struct {
	Perm float64
	Tran float64
	Prob float64
}

// IncomeProcess derives the shock distributions for cycle period t.
func IncomeProcess(p ParameterSet, t int) (IncomeShocks, error) {
	idx := p.PeriodIndex(t)
	if idx >= len(p.PermShkStd) || idx >= len(p.TranShkStd) {
		return IncomeShocks{}, fmt.Errorf("%w: no shock parameters for period %d", ErrInvalidParameters, idx)
	}

	perm, err := MeanOneLognormal(p.PermShkCount, p.PermShkStd[idx])
	if err != nil {
		return IncomeShocks{}, fmt.Errorf("permanent shocks: %w", err)
	}
	tran, err := MeanOneLognormal(p.TranShkCount, p.TranShkStd[idx])
	if err != nil {
		return IncomeShocks{}, fmt.Errorf("transitory shocks: %w", err)
	}

	shocks := IncomeShocks{Perm: perm, Tran: tran, UnempIndex: -1}
	if p.UnempPrb > 0 {
		shocks.Tran = tran.WithUnemployment(p.UnempPrb, p.IncUnemp)
		shocks.UnempIndex = 0
	}

	return shocks, nil
}

// Joint returns the product distribution, dropping zero-mass combinations.
func (s IncomeShocks) Joint() []ShockAtom {
	atoms := make([]ShockAtom, 0, s.Perm.Len()*s.Tran.Len())
	for i, psi := range s.Perm.Atoms {
		for j, theta := range s.Tran.Atoms {
			prob := s.Perm.Pmf[i] * s.Tran.Pmf[j]
			if prob <= 0 {
				continue
			}
			atoms = append(atoms, ShockAtom{Perm: psi, Tran: theta, Prob: prob})
		}
	}
	return atoms
}
