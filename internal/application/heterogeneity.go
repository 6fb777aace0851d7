package application

import (
	"context"
	"fmt"
	"runtime"

	"github.com/bnema/bufferstock/internal/aggregate"
	"github.com/bnema/bufferstock/internal/domain"
	"github.com/bnema/bufferstock/internal/ports"
	"github.com/bnema/bufferstock/internal/simulation"
	"github.com/bnema/bufferstock/internal/solver"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultDiscFacCenter = 0.9855583
	DefaultDiscFacSpread = 0.0085
	DefaultDiscFacTypes  = 7
)

// HeterogeneityService runs the discount-factor distribution exercise: one
// solve and simulate pipeline per consumer type, pooled into a single
// population.
type HeterogeneityService struct {
	calibrations ports.CalibrationRepository
	reference    ports.ReferenceData
	clock        ports.Clock
	solver       *solver.Solver
	logger       *zap.Logger
	concurrency  int
}

type HeterogeneityOption func(*HeterogeneityService)

func WithHeterogeneityLogger(logger *zap.Logger) HeterogeneityOption {
	return func(h *HeterogeneityService) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// WithConcurrency bounds the number of types processed at once.
func WithConcurrency(n int) HeterogeneityOption {
	return func(h *HeterogeneityService) {
		if n > 0 {
			h.concurrency = n
		}
	}
}

func NewHeterogeneityService(calibrations ports.CalibrationRepository, reference ports.ReferenceData, clock ports.Clock, opts ...HeterogeneityOption) *HeterogeneityService {
	if clock == nil {
		clock = ports.SystemClock{}
	}

	h := &HeterogeneityService{
		calibrations: calibrations,
		reference:    reference,
		clock:        clock,
		logger:       zap.NewNop(),
		concurrency:  runtime.GOMAXPROCS(0),
	}
	for _, opt := range opts {
		opt(h)
	}
	h.solver = solver.New(solver.WithLogger(h.logger.Named("solver")))

	return h
}

type typeOutcome struct {
	report TypeReport
	panel  *domain.Panel
}

func (h *HeterogeneityService) RunDiscFacDistribution(ctx context.Context, cmd DiscFacDistributionCommand) (HeterogeneityReport, error) {
	if cmd.Periods < 1 {
		return HeterogeneityReport{}, fmt.Errorf("%w: simulate at least one period, got %d", domain.ErrInvalidInput, cmd.Periods)
	}
	if cmd.Types < 1 {
		return HeterogeneityReport{}, fmt.Errorf("%w: need at least one type, got %d", domain.ErrInvalidInput, cmd.Types)
	}

	calibration, err := h.calibrations.GetByName(ctx, cmd.Calibration)
	if err != nil {
		return HeterogeneityReport{}, fmt.Errorf("get calibration: %w", err)
	}
	base, err := applyOverrides(calibration.Params, cmd.Overrides)
	if err != nil {
		return HeterogeneityReport{}, err
	}
	if cmd.AgentsPerType > 0 {
		base = base.WithAgentCount(cmd.AgentsPerType)
	}

	// Load the target first so a missing dataset fails before any solving.
	var reference *domain.ReferenceDataset
	if cmd.Reference != "" {
		dataset, err := h.reference.Load(ctx, cmd.Reference)
		if err != nil {
			return HeterogeneityReport{}, fmt.Errorf("load reference %q: %w", cmd.Reference, err)
		}
		reference = &dataset
	}

	betas, err := domain.UniformApprox(cmd.Center, cmd.Spread, cmd.Types)
	if err != nil {
		return HeterogeneityReport{}, err
	}

	seed := cmd.Seed
	if seed == 0 {
		seed = uint64(h.clock.Now().UnixNano())
	}
	seeds := simulation.NewSource(seed).Split(cmd.Types)

	outcomes := make([]typeOutcome, cmd.Types)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(h.concurrency)
	for i, beta := range betas.Atoms {
		g.Go(func() error {
			outcome, err := h.runType(gctx, base.WithDiscFac(beta), seeds[i], cmd)
			if err != nil {
				return fmt.Errorf("type %d (DiscFac %.5f): %w", i, beta, err)
			}
			outcomes[i] = outcome
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return HeterogeneityReport{}, err
	}

	report := HeterogeneityReport{
		Calibration: cmd.Calibration,
		Center:      cmd.Center,
		Spread:      cmd.Spread,
		Seed:        seed,
		Types:       make([]TypeReport, len(outcomes)),
		Reference:   reference,
	}
	panels := make([]*domain.Panel, len(outcomes))
	for i, outcome := range outcomes {
		report.Types[i] = outcome.report
		panels[i] = outcome.panel
	}

	pooled := aggregate.Pool(panels...)
	opts := aggregate.Options{PeriodsPerYear: cmd.PeriodsPerYear}
	if reference != nil {
		opts.LorenzFractions = reference.Fractions
	}
	if report.Pooled, err = aggregate.Summarize(pooled, opts); err != nil {
		return HeterogeneityReport{}, fmt.Errorf("summarize pooled population: %w", err)
	}

	if reference != nil {
		report.SimulatedShares = report.Pooled.LorenzShares
		if report.LorenzDistance, err = aggregate.LorenzDistance(report.SimulatedShares, reference.Shares); err != nil {
			return HeterogeneityReport{}, err
		}
	}

	h.logger.Info("discount factor distribution simulated",
		zap.Int("types", cmd.Types),
		zap.Int("agents", pooled.Len()),
		zap.Float64("mean_a_lvl", report.Pooled.MeanALvl),
		zap.Float64("lorenz_distance", report.LorenzDistance))

	return report, nil
}

func (h *HeterogeneityService) runType(ctx context.Context, params domain.ParameterSet, seed uint64, cmd DiscFacDistributionCommand) (typeOutcome, error) {
	result, err := h.solver.Solve(ctx, params)
	if err != nil {
		return typeOutcome{}, err
	}

	panel, err := simulatePanel(ctx, params, result.Solutions, seed, cmd.Periods,
		simulation.WithLogger(h.logger.Named("simulation")))
	if err != nil {
		return typeOutcome{}, err
	}

	summary, err := aggregate.Summarize(panel, aggregate.Options{PeriodsPerYear: cmd.PeriodsPerYear})
	if err != nil {
		return typeOutcome{}, err
	}

	h.logger.Debug("type simulated",
		zap.Float64("disc_fac", params.DiscFac),
		zap.Int("iterations", result.Iterations),
		zap.Float64("mean_a_lvl", summary.MeanALvl))

	return typeOutcome{
		report: TypeReport{
			DiscFac:    params.DiscFac,
			Seed:       seed,
			Iterations: result.Iterations,
			Conditions: result.Conditions,
			Summary:    summary,
		},
		panel: panel,
	}, nil
}
