package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	var verbose bool

	rootCmd := &cobra.Command{
		Use:           "bufferstock",
		Short:         "Solve, simulate and summarize buffer-stock consumption models",
		Long:          "bufferstock solves consumption-saving problems with income risk, simulates panels of consumers under the solved policy, and reports wealth and MPC distributions.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log debug output to stderr")

	app, err := wireApp(viper.New())
	if err != nil {
		rootCmd.RunE = func(_ *cobra.Command, _ []string) error {
			return err
		}
		return rootCmd
	}

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		return app.start(cmd.ErrOrStderr(), verbose)
	}
	rootCmd.PersistentPostRun = func(_ *cobra.Command, _ []string) {
		app.stop()
	}

	rootCmd.AddCommand(
		newVersionCmd(),
		newParamsCmd(app),
		newSolveCmd(app),
		newCFuncCmd(app),
		newSimulateCmd(app),
		newCSTWCmd(app),
		newRunsCmd(app),
		newMPCCmd(),
	)

	return rootCmd
}
