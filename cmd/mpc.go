package cmd

import (
	"fmt"
	"strconv"

	"github.com/bnema/bufferstock/internal/aggregate"
	"github.com/bnema/bufferstock/internal/domain"
	"github.com/spf13/cobra"
)

func newMPCCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mpc",
		Short: "MPC utilities",
	}

	cmd.AddCommand(newMPCAnnualizeCmd())

	return cmd
}

type annualMPCJSON struct {
	MPC    float64 `json:"mpc"`
	Annual float64 `json:"annual"`
}

func newMPCAnnualizeCmd() *cobra.Command {
	var periodsPerYear int
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "annualize <mpc>...",
		Short: "Convert per-period MPCs to annual ones: 1-(1-mpc)^n",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pairs := make([]annualMPCJSON, 0, len(args))
			for _, arg := range args {
				mpc, err := strconv.ParseFloat(arg, 64)
				if err != nil {
					return fmt.Errorf("%w: %q is not a number", domain.ErrInvalidInput, arg)
				}
				annual, err := aggregate.AnnualizeMPC(mpc, periodsPerYear)
				if err != nil {
					return err
				}
				pairs = append(pairs, annualMPCJSON{MPC: mpc, Annual: annual})
			}

			if asJSON {
				return writeJSON(cmd, pairs)
			}
			for i, pair := range pairs {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", args[i], strconv.FormatFloat(pair.Annual, 'g', -1, 64))
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&periodsPerYear, "periods-per-year", 4, "Periods per year")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Render JSON output")

	return cmd
}
