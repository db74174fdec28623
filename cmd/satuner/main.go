package main

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
	version = "dev"
)

var rootCmd = &cobra.Command{
	Use:     "satuner",
	Short:   "Parallel simulated-annealing autotuner",
	Long:    `satuner searches a discrete parameter space for the configuration that maximizes or minimizes a measured energy, using one of four parallel simulated-annealing strategies.`,
	Version: version,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "run configuration file (YAML or XML)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(bootstrapCmd)
}

// Commands are defined in separate files:
// - runCmd in run.go
// - validateCmd in validate.go
// - bootstrapCmd in bootstrap_cmd.go

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
