package cmd

import (
	"fmt"

	"github.com/bnema/bufferstock/internal/application"
	"github.com/spf13/cobra"
)

func newParamsCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "params",
		Aliases: []string{"calibration"},
		Short:   "List, show and derive calibrations",
	}

	cmd.AddCommand(
		newParamsListCmd(app),
		newParamsShowCmd(app),
		newParamsDeriveCmd(app),
	)

	return cmd
}

func newParamsListCmd(app *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List built-in and stored calibrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			calibrations, err := app.service.ListCalibrations(cmd.Context())
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd, calibrations)
			}
			rendered, err := app.render.calibrations(calibrations)
			return writeRendered(cmd, rendered, err)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Render JSON output")

	return cmd
}

func newParamsShowCmd(app *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show <name>",
		Short: "Show every parameter of a calibration",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			calibration, err := app.service.GetCalibration(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd, calibration)
			}
			rendered, err := app.render.calibration(calibration)
			return writeRendered(cmd, rendered, err)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Render JSON output")

	return cmd
}

func newParamsDeriveCmd(app *app) *cobra.Command {
	var base string
	var description string
	var sets []string

	cmd := &cobra.Command{
		Use:   "derive <name>",
		Short: "Store a copy of a calibration with some parameters changed",
		Example: "  bufferstock params derive impatient --from ind-shock --set DiscFac=0.9\n" +
			"  bufferstock params derive unconstrained --from ind-shock --set BoroCnstArt=none",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			overrides, err := parseOverrides(sets)
			if err != nil {
				return err
			}

			derived, err := app.service.DeriveCalibration(cmd.Context(), application.DeriveCalibrationCommand{
				Name:        args[0],
				Base:        base,
				Description: description,
				Overrides:   overrides,
			})
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Saved calibration %s (from %s)\n", derived.Name, derived.Base)
			return nil
		},
	}

	cmd.Flags().StringVar(&base, "from", "", "Calibration to start from")
	cmd.Flags().StringVar(&description, "description", "", "Free-form description")
	cmd.Flags().StringArrayVar(&sets, "set", nil, "Parameter override Field=Value (repeatable)")
	_ = cmd.MarkFlagRequired("from")

	return cmd
}
