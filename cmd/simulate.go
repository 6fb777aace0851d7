package cmd

import (
	"context"

	reportadapter "github.com/bnema/bufferstock/internal/adapters/render/report"
	"github.com/bnema/bufferstock/internal/application"
	"github.com/bnema/bufferstock/internal/domain"
	"github.com/spf13/cobra"
)

type simulateJSON struct {
	Run           domain.RunRecord `json:"run"`
	Saved         bool             `json:"saved"`
	Conditions    []conditionJSON  `json:"conditions"`
	MeanAssetPath []float64        `json:"mean_asset_path,omitempty"`
}

func newSimulateCmd(app *app) *cobra.Command {
	var sets []string
	var asJSON bool
	var seed uint64
	var periods, agents, periodsPerYear int
	var save, track bool

	cmd := &cobra.Command{
		Use:   "simulate <calibration>",
		Short: "Solve a calibration, simulate a panel and summarize it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			overrides, err := parseOverrides(sets)
			if err != nil {
				return err
			}

			command := application.SimulateCommand{
				Calibration:     args[0],
				Overrides:       overrides,
				Seed:            app.seed(seed, cmd.Flags().Changed("seed")),
				Periods:         periods,
				Agents:          agents,
				PeriodsPerYear:  periodsPerYear,
				TrackMeanAssets: track,
				Save:            save,
			}

			var report application.SimulationReport
			work := func(ctx context.Context) error {
				var err error
				report, err = app.service.Simulate(ctx, command)
				return err
			}

			if asJSON {
				if err := work(cmd.Context()); err != nil {
					return err
				}
				return writeJSON(cmd, simulateJSON{
					Run:           report.Run,
					Saved:         report.Saved,
					Conditions:    toConditionsJSON(report.Conditions),
					MeanAssetPath: report.MeanAssetPath,
				})
			}

			if err := reportadapter.RunWithProgress(cmd.Context(), cmd.ErrOrStderr(), "Simulating...", work); err != nil {
				return err
			}
			rendered, err := app.render.simulation(report)
			return writeRendered(cmd, rendered, err)
		},
	}

	cmd.Flags().StringArrayVar(&sets, "set", nil, "Parameter override Field=Value (repeatable)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Render JSON output")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "Random seed (default: simulation.seed from config, 0 draws one)")
	cmd.Flags().IntVar(&periods, "periods", 200, "Periods to simulate")
	cmd.Flags().IntVar(&agents, "agents", 0, "Agent count (default: the calibration's AgentCount)")
	cmd.Flags().IntVar(&periodsPerYear, "periods-per-year", 1, "Periods per year for annualized MPCs")
	cmd.Flags().BoolVar(&save, "save", false, "Store the run summary")
	cmd.Flags().BoolVar(&track, "track", false, "Record mean assets after every period")

	return cmd
}
