package cmd

import (
	"fmt"
	"io"
	"strings"

	csvreference "github.com/bnema/bufferstock/internal/adapters/reference/csv"
	reportadapter "github.com/bnema/bufferstock/internal/adapters/render/report"
	tomlrepo "github.com/bnema/bufferstock/internal/adapters/repo/toml"
	"github.com/bnema/bufferstock/internal/application"
	"github.com/bnema/bufferstock/internal/domain"
	"github.com/bnema/bufferstock/internal/ports"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type renderers struct {
	calibrations  func([]domain.Calibration) (string, error)
	calibration   func(domain.Calibration) (string, error)
	solve         func(application.SolveReport) (string, error)
	table         func(application.ConsumptionTable) (string, error)
	simulation    func(application.SimulationReport) (string, error)
	heterogeneity func(application.HeterogeneityReport) (string, error)
	runs          func([]domain.RunRecord) (string, error)
}

type app struct {
	cfg          *viper.Viper
	calibrations ports.CalibrationRepository
	runs         ports.RunRepository
	reference    ports.ReferenceData
	clock        ports.Clock
	level        zap.AtomicLevel
	logger       *zap.Logger

	service       *application.Service
	heterogeneity *application.HeterogeneityService
	render        renderers
}

func wireApp(cfg *viper.Viper) (*app, error) {
	if err := tomlrepo.ReadConfig(cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	calibrations, err := tomlrepo.NewCalibrationRepository(cfg)
	if err != nil {
		return nil, fmt.Errorf("wire calibration repository: %w", err)
	}
	runs, err := tomlrepo.NewRunRepository(cfg)
	if err != nil {
		return nil, fmt.Errorf("wire run repository: %w", err)
	}

	level := zap.NewAtomicLevelAt(zapcore.WarnLevel)
	if raw := strings.TrimSpace(cfg.GetString(tomlrepo.LogLevelKey)); raw != "" {
		if err := level.UnmarshalText([]byte(raw)); err != nil {
			return nil, fmt.Errorf("%w: log.level %q", domain.ErrInvalidInput, raw)
		}
	}

	a := &app{
		cfg:          cfg,
		calibrations: calibrations,
		runs:         runs,
		reference:    csvreference.NewReader(cfg),
		clock:        ports.SystemClock{},
		level:        level,
		logger:       zap.NewNop(),
		render: renderers{
			calibrations:  reportadapter.RenderCalibrations,
			calibration:   reportadapter.RenderCalibration,
			solve:         reportadapter.RenderSolve,
			table:         reportadapter.RenderTable,
			simulation:    reportadapter.RenderSimulation,
			heterogeneity: reportadapter.RenderHeterogeneity,
			runs:          reportadapter.RenderRuns,
		},
	}
	a.wireServices()

	return a, nil
}

// start attaches a console logger writing to errOut and rebuilds the
// services around it.
func (a *app) start(errOut io.Writer, verbose bool) error {
	if verbose {
		a.level.SetLevel(zapcore.DebugLevel)
	}

	encoderConfig := zap.NewDevelopmentEncoderConfig()
	encoderConfig.TimeKey = ""
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig), zapcore.AddSync(errOut), a.level)
	a.logger = zap.New(core).Named("bufferstock")
	a.wireServices()

	return nil
}

func (a *app) stop() {
	_ = a.logger.Sync()
}

func (a *app) wireServices() {
	a.service = application.NewService(a.calibrations, a.runs, a.clock,
		application.WithServiceLogger(a.logger))
	a.heterogeneity = application.NewHeterogeneityService(a.calibrations, a.reference, a.clock,
		application.WithHeterogeneityLogger(a.logger))
}

// seed returns the --seed flag when given, else simulation.seed from config.
func (a *app) seed(flag uint64, changed bool) uint64 {
	if changed {
		return flag
	}
	return a.cfg.GetUint64(tomlrepo.SimulationSeedKey)
}
