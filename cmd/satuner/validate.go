package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jihwankim/satuner/pkg/solver"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Parse and validate a run configuration without executing it",
	RunE:  runValidate,
}

func runValidate(cmd *cobra.Command, args []string) error {
	if cfgFile == "" {
		return fmt.Errorf("--config is required")
	}

	cfg, err := loadRunConfig(cfgFile, nil)
	if err != nil {
		return fmt.Errorf("config is invalid: %w", err)
	}

	fmt.Printf("parameters: %d\n", len(cfg.Catalog.Names()))
	for _, name := range cfg.Catalog.Names() {
		fmt.Printf("  - %s\n", name)
	}
	fmt.Printf("solver_kind: %s\n", cfg.Tuner.SolverKind)
	fmt.Printf("energy_mode: %s\n", cfg.Tuner.EnergyMode)
	fmt.Printf("cooling_mode: %s\n", cfg.Tuner.CoolingMode)
	fmt.Printf("max_steps: %d\n", cfg.Tuner.MaxSteps)

	if cfg.Tuner.MinTemp != nil && cfg.Tuner.MaxTemp != nil {
		if _, err := solver.New(cfg.Tuner); err != nil {
			return fmt.Errorf("config is invalid: %w", err)
		}
	} else {
		fmt.Println("min_temp/max_temp not set; will be bootstrapped at run time")
	}

	fmt.Println("config OK")
	return nil
}
