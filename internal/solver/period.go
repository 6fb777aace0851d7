package solver

import (
	"fmt"
	"math"

	"github.com/bnema/bufferstock/internal/domain"
)

// solveOnePeriod solves period t given next period's solution. Parameters at
// index t describe the transition from t to t+1.
func solveOnePeriod(p domain.ParameterSet, t int, next domain.Solution, grid []float64) (domain.Solution, error) {
	if !p.HasShocks() && p.BoroCnstArt == nil {
		return solvePerfForesight(p, t, next)
	}
	return solveEGM(p, t, next, grid)
}

func patienceFactor(p domain.ParameterSet, t int) float64 {
	discFacEff := p.DiscFac * p.LivPrb[t]
	return math.Pow(p.Rfree*discFacEff, 1/p.CRRA) / p.Rfree
}

// solvePerfForesight is the closed form: consumption is linear in total
// wealth m + hNrm.
func solvePerfForesight(p domain.ParameterSet, t int, next domain.Solution) (domain.Solution, error) {
	gro := p.PermGroFac[t]
	hNrm := gro / p.Rfree * (1 + next.HNrm)
	mpc := 1 / (1 + patienceFactor(p, t)/next.MPCMin)
	mNrmMin := -hNrm

	cFunc, err := domain.NewLinearInterp([]float64{mNrmMin, mNrmMin + 1}, []float64{0, mpc})
	if err != nil {
		return domain.Solution{}, fmt.Errorf("build perfect foresight consumption function: %w", err)
	}

	return domain.Solution{
		CFunc:   cFunc,
		MNrmMin: mNrmMin,
		HNrm:    hNrm,
		MPCMin:  mpc,
		MPCMax:  mpc,
	}, nil
}

// solveEGM applies the endogenous grid method: for each end-of-period asset
// level, invert the Euler equation to find the consumption that makes it
// optimal, which also pins down the resources at which it is chosen.
func solveEGM(p domain.ParameterSet, t int, next domain.Solution, grid []float64) (domain.Solution, error) {
	shocks, err := domain.IncomeProcess(p, t)
	if err != nil {
		return domain.Solution{}, err
	}
	atoms := shocks.Joint()
	if len(atoms) == 0 {
		return domain.Solution{}, fmt.Errorf("%w: income distribution has no mass", domain.ErrInvalidParameters)
	}

	u := domain.Utility{Rho: p.CRRA}
	rfree := p.Rfree
	gro := p.PermGroFac[t]
	discFacEff := p.DiscFac * p.LivPrb[t]
	permMin, tranMin := shocks.Perm.Min(), shocks.Tran.Min()

	boroCnstNat := (next.MNrmMin - tranMin) * gro * permMin / rfree
	mNrmMin := boroCnstNat
	artificialBinds := p.BoroCnstArt != nil && *p.BoroCnstArt > boroCnstNat
	if artificialBinds {
		mNrmMin = *p.BoroCnstArt
	}

	var expIncome, worstPrb float64
	for _, a := range atoms {
		expIncome += a.Prob * a.Perm * a.Tran
		if a.Perm == permMin && a.Tran == tranMin {
			worstPrb += a.Prob
		}
	}
	hNrm := gro / rfree * (expIncome + next.HNrm)
	patFac := patienceFactor(p, t)
	mpcMin := 1 / (1 + patFac/next.MPCMin)
	mpcMax := 1 / (1 + math.Pow(worstPrb, 1/p.CRRA)*patFac/next.MPCMax)
	if artificialBinds {
		mpcMax = 1
	}

	mNodes := make([]float64, 0, len(grid)+1)
	cNodes := make([]float64, 0, len(grid)+1)
	mNodes = append(mNodes, boroCnstNat)
	cNodes = append(cNodes, 0)

	for _, aXtra := range grid {
		aNrm := boroCnstNat + aXtra
		var vP float64
		for _, atom := range atoms {
			growth := gro * atom.Perm
			mNext := rfree/growth*aNrm + atom.Tran
			cNext := next.CFunc.Eval(mNext)
			if !(cNext > 0) {
				return domain.Solution{}, fmt.Errorf("%w: non-positive next-period consumption %.3g at m=%.4g", domain.ErrNoSolution, cNext, mNext)
			}
			vP += atom.Prob * math.Pow(growth, -p.CRRA) * u.P(cNext)
		}
		endOfPrdVP := discFacEff * rfree * vP
		cNrm := u.PInv(endOfPrdVP)
		mNodes = append(mNodes, aNrm+cNrm)
		cNodes = append(cNodes, cNrm)
	}

	cFuncUnc, err := domain.NewLinearInterp(mNodes, cNodes)
	if err != nil {
		return domain.Solution{}, fmt.Errorf("build consumption function: %w", err)
	}

	var cFunc domain.PolicyFunction = cFuncUnc
	if p.BoroCnstArt != nil {
		cnst := *p.BoroCnstArt
		cFuncCnst, err := domain.NewLinearInterp([]float64{cnst, cnst + 1}, []float64{0, 1})
		if err != nil {
			return domain.Solution{}, fmt.Errorf("build constraint: %w", err)
		}
		cFunc = domain.NewLowerEnvelope(cFuncUnc, cFuncCnst)
	}

	return domain.Solution{
		CFunc:   cFunc,
		MNrmMin: mNrmMin,
		HNrm:    hNrm,
		MPCMin:  mpcMin,
		MPCMax:  mpcMax,
	}, nil
}
