package cmd

import (
	"github.com/bnema/bufferstock/internal/application"
	"github.com/spf13/cobra"
)

func newSolveCmd(app *app) *cobra.Command {
	var sets []string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "solve <calibration>",
		Short: "Solve a calibration and report its conditions and policy bounds",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			overrides, err := parseOverrides(sets)
			if err != nil {
				return err
			}

			report, err := app.service.Solve(cmd.Context(), application.SolveCommand{
				Calibration: args[0],
				Overrides:   overrides,
			})
			if err != nil {
				return err
			}

			if asJSON {
				return writeJSON(cmd, toSolveJSON(report))
			}
			rendered, err := app.render.solve(report)
			return writeRendered(cmd, rendered, err)
		},
	}

	cmd.Flags().StringArrayVar(&sets, "set", nil, "Parameter override Field=Value (repeatable)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Render JSON output")

	return cmd
}

func newCFuncCmd(app *app) *cobra.Command {
	var sets []string
	var asJSON bool
	var period int
	var mMin, mMax float64
	var points int

	cmd := &cobra.Command{
		Use:   "cfunc <calibration>",
		Short: "Tabulate a solved consumption function and its MPC",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			overrides, err := parseOverrides(sets)
			if err != nil {
				return err
			}

			table, err := app.service.ConsumptionTable(cmd.Context(), application.ConsumptionTableCommand{
				Calibration: args[0],
				Overrides:   overrides,
				Period:      period,
				MMin:        mMin,
				MMax:        mMax,
				Points:      points,
			})
			if err != nil {
				return err
			}

			if asJSON {
				return writeJSON(cmd, table)
			}
			rendered, err := app.render.table(table)
			return writeRendered(cmd, rendered, err)
		},
	}

	cmd.Flags().StringArrayVar(&sets, "set", nil, "Parameter override Field=Value (repeatable)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Render JSON output")
	cmd.Flags().IntVar(&period, "period", 0, "Solved period to tabulate; negative counts from the end")
	cmd.Flags().Float64Var(&mMin, "mmin", 0, "Lowest market resources (raised to the period's minimum)")
	cmd.Flags().Float64Var(&mMax, "mmax", 10, "Highest market resources")
	cmd.Flags().IntVar(&points, "points", 21, "Number of rows")

	return cmd
}
