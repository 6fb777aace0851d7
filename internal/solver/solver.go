// Package solver computes consumption policy functions for a ParameterSet by
// backward induction, iterating to a fixed point for infinite horizons.
package solver

import (
	"context"
	"fmt"
	"math"

	"github.com/bnema/bufferstock/internal/domain"
	"go.uber.org/zap"
)

// Result is a solved consumer problem. For an infinite horizon Solutions
// holds one entry per cycle period; for a finite horizon it holds every
// period followed by the terminal rule.
type Result struct {
	Solutions  []domain.Solution
	Conditions domain.Conditions
	Iterations int
	Distance   float64
}

type Solver struct {
	logger *zap.Logger
}

type Option func(*Solver)

func WithLogger(logger *zap.Logger) Option {
	return func(s *Solver) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New returns a Solver. A Solver has no mutable state and may be shared
// between goroutines.
func New(opts ...Option) *Solver {
	s := &Solver{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Solve is New().Solve.
func Solve(ctx context.Context, p domain.ParameterSet) (Result, error) {
	return New().Solve(ctx, p)
}

func (s *Solver) Solve(ctx context.Context, p domain.ParameterSet) (Result, error) {
	if err := p.Validate(); err != nil {
		return Result{}, err
	}

	grid, err := AssetGrid(p)
	if err != nil {
		return Result{}, err
	}

	result := Result{Conditions: domain.CheckConditions(p)}
	for _, violation := range result.Conditions.Violations() {
		s.logger.Warn("parameter condition violated",
			zap.String("condition", string(violation.Name)),
			zap.Float64("factor", violation.Factor),
			zap.Float64("disc_fac", p.DiscFac))
	}

	if p.InfiniteHorizon() {
		if err := checkPerfForesightSolvable(p); err != nil {
			return Result{}, err
		}
		solutions, iterations, distance, err := s.solveInfinite(ctx, p, grid)
		if err != nil {
			return Result{}, err
		}
		result.Solutions = solutions
		result.Iterations = iterations
		result.Distance = distance
		return result, nil
	}

	solutions, err := s.solveFinite(ctx, p, grid)
	if err != nil {
		return Result{}, err
	}
	result.Solutions = solutions
	result.Iterations = len(solutions) - 1

	return result, nil
}

func (s *Solver) solveFinite(ctx context.Context, p domain.ParameterSet, grid []float64) ([]domain.Solution, error) {
	n := p.Cycles * p.TCycle
	solutions := make([]domain.Solution, n+1)
	solutions[n] = domain.TerminalSolution()

	for k := n - 1; k >= 0; k-- {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		sol, err := solveOnePeriod(p, p.PeriodIndex(k), solutions[k+1], grid)
		if err != nil {
			return nil, fmt.Errorf("solve period %d: %w", k, err)
		}
		solutions[k] = sol
	}

	s.logger.Debug("finite horizon solved", zap.Int("periods", n))

	return solutions, nil
}

func (s *Solver) solveInfinite(ctx context.Context, p domain.ParameterSet, grid []float64) ([]domain.Solution, int, float64, error) {
	next := domain.TerminalSolution()
	var previous *domain.Solution
	distance := math.Inf(1)

	for iter := 1; iter <= p.MaxIterations; iter++ {
		if err := ctx.Err(); err != nil {
			return nil, iter, distance, err
		}

		cycle := make([]domain.Solution, p.TCycle)
		for t := p.TCycle - 1; t >= 0; t-- {
			sol, err := solveOnePeriod(p, t, next, grid)
			if err != nil {
				return nil, iter, distance, fmt.Errorf("solve period %d of iteration %d: %w", t, iter, err)
			}
			cycle[t] = sol
			next = sol
		}

		if previous != nil {
			distance = solutionDistance(*previous, cycle[0], grid)
			if distance < p.Tolerance {
				s.logger.Debug("infinite horizon converged",
					zap.Int("iterations", iter),
					zap.Float64("distance", distance))
				return cycle, iter, distance, nil
			}
		}
		start := cycle[0]
		previous = &start
	}

	return nil, p.MaxIterations, distance, fmt.Errorf("%w after %d iterations (distance %.3g, tolerance %.3g)",
		domain.ErrNonConvergence, p.MaxIterations, distance, p.Tolerance)
}

// checkPerfForesightSolvable rejects unconstrained perfect foresight
// problems whose human wealth is infinite or whose MPC collapses to zero.
func checkPerfForesightSolvable(p domain.ParameterSet) error {
	if p.HasShocks() || p.BoroCnstArt != nil {
		return nil
	}

	conditions := domain.CheckConditions(p)
	for _, name := range []domain.ConditionName{domain.ConditionFHWC, domain.ConditionRIC} {
		if c, ok := conditions.Get(name); ok && !c.Satisfied {
			return fmt.Errorf("%w: %s fails (%s)", domain.ErrNoSolution, name, c.Description)
		}
	}

	return nil
}

// solutionDistance is the sup-norm gap between two consumption functions on
// the asset grid above the newer solution's minimum resources.
func solutionDistance(a, b domain.Solution, grid []float64) float64 {
	d := math.Abs(a.MNrmMin - b.MNrmMin)
	for _, x := range grid {
		m := b.MNrmMin + x
		if gap := math.Abs(a.CFunc.Eval(m) - b.CFunc.Eval(m)); gap > d {
			d = gap
		}
	}
	return d
}
