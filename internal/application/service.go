// Package application wires the solver, simulator and aggregator to the
// calibration, run and reference-data ports.
package application

import (
	"context"
	"fmt"
	"strings"

	"github.com/bnema/bufferstock/internal/aggregate"
	"github.com/bnema/bufferstock/internal/domain"
	"github.com/bnema/bufferstock/internal/ports"
	"github.com/bnema/bufferstock/internal/simulation"
	"github.com/bnema/bufferstock/internal/solver"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	defaultTablePoints = 50
	defaultTableSpan   = 10
)

type Service struct {
	calibrations ports.CalibrationRepository
	runs         ports.RunRepository
	clock        ports.Clock
	solver       *solver.Solver
	logger       *zap.Logger
	newID        func() string
}

type ServiceOption func(*Service)

func WithServiceLogger(logger *zap.Logger) ServiceOption {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithIDGenerator replaces the uuid run ID generator.
func WithIDGenerator(newID func() string) ServiceOption {
	return func(s *Service) {
		if newID != nil {
			s.newID = newID
		}
	}
}

func NewService(calibrations ports.CalibrationRepository, runs ports.RunRepository, clock ports.Clock, opts ...ServiceOption) *Service {
	if clock == nil {
		clock = ports.SystemClock{}
	}

	s := &Service{
		calibrations: calibrations,
		runs:         runs,
		clock:        clock,
		logger:       zap.NewNop(),
		newID:        func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(s)
	}
	s.solver = solver.New(solver.WithLogger(s.logger.Named("solver")))

	return s
}

func (s *Service) ListCalibrations(ctx context.Context) ([]domain.Calibration, error) {
	calibrations, err := s.calibrations.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list calibrations: %w", err)
	}
	return calibrations, nil
}

func (s *Service) GetCalibration(ctx context.Context, name string) (domain.Calibration, error) {
	calibration, err := s.calibrations.GetByName(ctx, strings.TrimSpace(name))
	if err != nil {
		return domain.Calibration{}, fmt.Errorf("get calibration: %w", err)
	}
	return calibration, nil
}

// DeriveCalibration stores a copy of Base with the overrides applied under a
// new name.
func (s *Service) DeriveCalibration(ctx context.Context, cmd DeriveCalibrationCommand) (domain.Calibration, error) {
	if strings.TrimSpace(cmd.Name) == "" {
		return domain.Calibration{}, fmt.Errorf("%w: calibration name is required", domain.ErrInvalidInput)
	}
	if cmd.Name == cmd.Base {
		return domain.Calibration{}, fmt.Errorf("%w: derived calibration needs a new name", domain.ErrInvalidInput)
	}

	base, err := s.GetCalibration(ctx, cmd.Base)
	if err != nil {
		return domain.Calibration{}, err
	}

	params, err := applyOverrides(base.Params, cmd.Overrides)
	if err != nil {
		return domain.Calibration{}, err
	}

	description := cmd.Description
	if description == "" {
		description = fmt.Sprintf("derived from %s", base.Name)
	}

	derived := domain.Calibration{
		Name:        strings.TrimSpace(cmd.Name),
		Description: description,
		Base:        base.Name,
		Params:      params,
		UpdatedAt:   s.clock.Now().UTC(),
	}
	if err := derived.Validate(); err != nil {
		return domain.Calibration{}, err
	}
	if err := s.calibrations.Save(ctx, derived); err != nil {
		return domain.Calibration{}, fmt.Errorf("save calibration: %w", err)
	}

	s.logger.Info("calibration derived", zap.String("name", derived.Name), zap.String("base", base.Name))

	return derived, nil
}

func (s *Service) resolve(ctx context.Context, name string, overrides []Override) (domain.ParameterSet, error) {
	calibration, err := s.GetCalibration(ctx, name)
	if err != nil {
		return domain.ParameterSet{}, err
	}
	return applyOverrides(calibration.Params, overrides)
}

func (s *Service) Solve(ctx context.Context, cmd SolveCommand) (SolveReport, error) {
	params, err := s.resolve(ctx, cmd.Calibration, cmd.Overrides)
	if err != nil {
		return SolveReport{}, err
	}

	result, err := s.solver.Solve(ctx, params)
	if err != nil {
		return SolveReport{}, fmt.Errorf("solve %s: %w", cmd.Calibration, err)
	}

	s.logger.Info("model solved",
		zap.String("calibration", cmd.Calibration),
		zap.Int("iterations", result.Iterations),
		zap.Int("solutions", len(result.Solutions)))

	return SolveReport{
		Calibration: cmd.Calibration,
		Params:      params,
		Solutions:   result.Solutions,
		Conditions:  result.Conditions,
		Iterations:  result.Iterations,
		Distance:    result.Distance,
	}, nil
}

// ConsumptionTable evaluates one period's consumption function on an even
// grid of market resources. MMin is raised to the period's minimum
// resources; a zero MMax spans defaultTableSpan above MMin.
func (s *Service) ConsumptionTable(ctx context.Context, cmd ConsumptionTableCommand) (ConsumptionTable, error) {
	report, err := s.Solve(ctx, SolveCommand{Calibration: cmd.Calibration, Overrides: cmd.Overrides})
	if err != nil {
		return ConsumptionTable{}, err
	}

	n := len(report.Solutions)
	period := cmd.Period
	if period < 0 {
		period += n
	}
	if period < 0 || period >= n {
		return ConsumptionTable{}, fmt.Errorf("%w: period %d outside the %d solved periods", domain.ErrInvalidInput, cmd.Period, n)
	}
	solution := report.Solutions[period]

	points := cmd.Points
	if points == 0 {
		points = defaultTablePoints
	}
	if points < 2 {
		return ConsumptionTable{}, fmt.Errorf("%w: a table needs at least two points, got %d", domain.ErrInvalidInput, points)
	}

	lo := cmd.MMin
	if lo < solution.MNrmMin {
		lo = solution.MNrmMin
	}
	hi := cmd.MMax
	if hi == 0 {
		hi = lo + defaultTableSpan
	}
	if !(hi > lo) {
		return ConsumptionTable{}, fmt.Errorf("%w: m range [%v, %v] is empty", domain.ErrInvalidInput, lo, hi)
	}

	table := ConsumptionTable{
		Calibration: report.Calibration,
		Period:      period,
		MNrmMin:     solution.MNrmMin,
		HNrm:        solution.HNrm,
		Rows:        make([]ConsumptionRow, points),
	}
	step := (hi - lo) / float64(points-1)
	for i := range table.Rows {
		m := lo + float64(i)*step
		table.Rows[i] = ConsumptionRow{
			M:   m,
			C:   solution.CFunc.Eval(m),
			MPC: solution.CFunc.Derivative(m),
		}
	}

	return table, nil
}

// Simulate solves the calibration, simulates a fresh panel and summarizes
// it. With Save set the summary is persisted as a run record.
func (s *Service) Simulate(ctx context.Context, cmd SimulateCommand) (SimulationReport, error) {
	if cmd.Periods < 1 {
		return SimulationReport{}, fmt.Errorf("%w: simulate at least one period, got %d", domain.ErrInvalidInput, cmd.Periods)
	}

	params, err := s.resolve(ctx, cmd.Calibration, cmd.Overrides)
	if err != nil {
		return SimulationReport{}, err
	}
	if cmd.Agents > 0 {
		params = params.WithAgentCount(cmd.Agents)
	}

	seed := cmd.Seed
	if seed == 0 {
		seed = uint64(s.clock.Now().UnixNano())
	}

	result, err := s.solver.Solve(ctx, params)
	if err != nil {
		return SimulationReport{}, fmt.Errorf("solve %s: %w", cmd.Calibration, err)
	}

	var path []float64
	opts := []simulation.Option{simulation.WithLogger(s.logger.Named("simulation"))}
	if cmd.TrackMeanAssets {
		path = make([]float64, 0, cmd.Periods)
		opts = append(opts, simulation.WithPeriodHook(func(_ int, panel *domain.Panel) {
			mean, err := aggregate.WeightedMean(panel.ALvls(), nil)
			if err == nil {
				path = append(path, mean)
			}
		}))
	}

	summary, err := runPipeline(ctx, params, result.Solutions, seed, cmd.Periods, cmd.PeriodsPerYear, opts...)
	if err != nil {
		return SimulationReport{}, fmt.Errorf("simulate %s: %w", cmd.Calibration, err)
	}

	report := SimulationReport{
		Run: domain.RunRecord{
			ID:          s.newID(),
			Calibration: cmd.Calibration,
			Seed:        seed,
			Periods:     cmd.Periods,
			Agents:      params.AgentCount,
			CreatedAt:   s.clock.Now().UTC(),
			Summary:     summary,
		},
		Conditions:    result.Conditions,
		MeanAssetPath: path,
	}

	if cmd.Save {
		if err := s.runs.Save(ctx, report.Run); err != nil {
			return SimulationReport{}, fmt.Errorf("save run: %w", err)
		}
		report.Saved = true
	}

	s.logger.Info("simulation finished",
		zap.String("run_id", report.Run.ID),
		zap.String("calibration", cmd.Calibration),
		zap.Uint64("seed", seed),
		zap.Int("periods", cmd.Periods),
		zap.Float64("mean_a_lvl", summary.MeanALvl))

	return report, nil
}

func (s *Service) ListRuns(ctx context.Context) ([]domain.RunRecord, error) {
	runs, err := s.runs.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return runs, nil
}

func (s *Service) GetRun(ctx context.Context, id string) (domain.RunRecord, error) {
	run, err := s.runs.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return domain.RunRecord{}, fmt.Errorf("get run: %w", err)
	}
	return run, nil
}

// runPipeline initializes and simulates one panel and summarizes it.
func runPipeline(ctx context.Context, params domain.ParameterSet, policies []domain.Solution, seed uint64, periods, periodsPerYear int, opts ...simulation.Option) (domain.SummaryStatistics, error) {
	panel, err := simulatePanel(ctx, params, policies, seed, periods, opts...)
	if err != nil {
		return domain.SummaryStatistics{}, err
	}
	return aggregate.Summarize(panel, aggregate.Options{PeriodsPerYear: periodsPerYear})
}

func simulatePanel(ctx context.Context, params domain.ParameterSet, policies []domain.Solution, seed uint64, periods int, opts ...simulation.Option) (*domain.Panel, error) {
	sim, err := simulation.New(params, policies, simulation.NewSource(seed), opts...)
	if err != nil {
		return nil, err
	}

	panel, err := sim.Initialize()
	if err != nil {
		return nil, err
	}
	if err := sim.Simulate(ctx, panel, periods); err != nil {
		return nil, fmt.Errorf("advance panel: %w", err)
	}

	return panel, nil
}
