package main

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/spf13/cobra"

	"github.com/jihwankim/satuner/pkg/bootstrap"
	"github.com/jihwankim/satuner/pkg/reporting"
)

var bootstrapCmd = &cobra.Command{
	Use:   "bootstrap-temp",
	Short: "Derive max_temp by sampling neighbor energy deltas around the initial state",
	RunE:  runBootstrap,
}

func init() {
	registerEvaluatorFlags(bootstrapCmd)
}

func runBootstrap(cmd *cobra.Command, args []string) error {
	if cfgFile == "" {
		return fmt.Errorf("--config is required")
	}

	level := reporting.LogLevelInfo
	if verbose {
		level = reporting.LogLevelDebug
	}
	logger := reporting.NewLogger(reporting.LoggerConfig{Level: level, Format: reporting.LogFormatText})

	cfg, err := loadRunConfig(cfgFile, nil)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	evaluator, err := buildEvaluator(cmd, cfg.Catalog, logger)
	if err != nil {
		return fmt.Errorf("building evaluator: %w", err)
	}
	if closer, ok := evaluator.(interface{ Close() error }); ok {
		defer closer.Close()
	}

	seed := cfg.Tuner.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	maxTemp, err := bootstrap.MaxTemp(cfg.Catalog, evaluator, 0, rng)
	if err != nil {
		return fmt.Errorf("bootstrap failed: %w", err)
	}

	fmt.Printf("max_temp: %v\n", maxTemp)
	fmt.Printf("min_temp: %v\n", bootstrap.MinTemp(cfg.Tuner.MinTemp))
	return nil
}
