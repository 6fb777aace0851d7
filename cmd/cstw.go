package cmd

import (
	"context"

	reportadapter "github.com/bnema/bufferstock/internal/adapters/render/report"
	"github.com/bnema/bufferstock/internal/application"
	"github.com/bnema/bufferstock/internal/domain"
	"github.com/spf13/cobra"
)

type typeJSON struct {
	DiscFac    float64                  `json:"disc_fac"`
	Seed       uint64                   `json:"seed"`
	Iterations int                      `json:"iterations"`
	Conditions []conditionJSON          `json:"conditions"`
	Summary    domain.SummaryStatistics `json:"summary"`
}

type heterogeneityJSON struct {
	Calibration     string                   `json:"calibration"`
	Center          float64                  `json:"center"`
	Spread          float64                  `json:"spread"`
	Seed            uint64                   `json:"seed"`
	Types           []typeJSON               `json:"types"`
	Pooled          domain.SummaryStatistics `json:"pooled"`
	Reference       *domain.ReferenceDataset `json:"reference,omitempty"`
	SimulatedShares []float64                `json:"simulated_shares,omitempty"`
	LorenzDistance  float64                  `json:"lorenz_distance"`
}

func toHeterogeneityJSON(r application.HeterogeneityReport) heterogeneityJSON {
	out := heterogeneityJSON{
		Calibration:     r.Calibration,
		Center:          r.Center,
		Spread:          r.Spread,
		Seed:            r.Seed,
		Types:           make([]typeJSON, 0, len(r.Types)),
		Pooled:          r.Pooled,
		Reference:       r.Reference,
		SimulatedShares: r.SimulatedShares,
		LorenzDistance:  r.LorenzDistance,
	}
	for _, typ := range r.Types {
		out.Types = append(out.Types, typeJSON{
			DiscFac:    typ.DiscFac,
			Seed:       typ.Seed,
			Iterations: typ.Iterations,
			Conditions: toConditionsJSON(typ.Conditions),
			Summary:    typ.Summary,
		})
	}
	return out
}

func newCSTWCmd(app *app) *cobra.Command {
	var sets []string
	var asJSON bool
	var center, spread float64
	var types, agents, periods, periodsPerYear int
	var seed uint64
	var reference string

	cmd := &cobra.Command{
		Use:   "cstw [calibration]",
		Short: "Simulate a population with uniformly distributed discount factors",
		Long:  "cstw solves and simulates one consumer type per discount factor, pools the panels and compares the wealth Lorenz curve with a reference target.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			calibration := domain.PresetCSTW
			if len(args) == 1 {
				calibration = args[0]
			}
			overrides, err := parseOverrides(sets)
			if err != nil {
				return err
			}

			command := application.DiscFacDistributionCommand{
				Calibration:    calibration,
				Overrides:      overrides,
				Center:         center,
				Spread:         spread,
				Types:          types,
				AgentsPerType:  agents,
				Periods:        periods,
				Seed:           app.seed(seed, cmd.Flags().Changed("seed")),
				PeriodsPerYear: periodsPerYear,
				Reference:      reference,
			}

			var report application.HeterogeneityReport
			work := func(ctx context.Context) error {
				var err error
				report, err = app.heterogeneity.RunDiscFacDistribution(ctx, command)
				return err
			}

			if asJSON {
				if err := work(cmd.Context()); err != nil {
					return err
				}
				return writeJSON(cmd, toHeterogeneityJSON(report))
			}

			if err := reportadapter.RunWithProgress(cmd.Context(), cmd.ErrOrStderr(), "Simulating consumer types...", work); err != nil {
				return err
			}
			rendered, err := app.render.heterogeneity(report)
			return writeRendered(cmd, rendered, err)
		},
	}

	cmd.Flags().StringArrayVar(&sets, "set", nil, "Parameter override Field=Value (repeatable)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Render JSON output")
	cmd.Flags().Float64Var(&center, "center", application.DefaultDiscFacCenter, "Center of the discount factor distribution")
	cmd.Flags().Float64Var(&spread, "spread", application.DefaultDiscFacSpread, "Half-width of the discount factor distribution")
	cmd.Flags().IntVar(&types, "types", application.DefaultDiscFacTypes, "Number of consumer types")
	cmd.Flags().IntVar(&agents, "agents", 0, "Agents per type (default: the calibration's AgentCount)")
	cmd.Flags().IntVar(&periods, "periods", 1000, "Periods to simulate")
	cmd.Flags().IntVar(&periodsPerYear, "periods-per-year", 4, "Periods per year for annualized MPCs")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "Random seed (default: simulation.seed from config, 0 draws one)")
	cmd.Flags().StringVar(&reference, "reference", "scf", "Lorenz target dataset; empty skips the comparison")

	return cmd
}
