package main

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jihwankim/satuner/pkg/bootstrap"
	"github.com/jihwankim/satuner/pkg/emergency"
	"github.com/jihwankim/satuner/pkg/problem"
	"github.com/jihwankim/satuner/pkg/reporting"
	"github.com/jihwankim/satuner/pkg/sink"
	sinkcsv "github.com/jihwankim/satuner/pkg/sink/csv"
	sinktimeseries "github.com/jihwankim/satuner/pkg/sink/timeseries"
	"github.com/jihwankim/satuner/pkg/solver"
	"github.com/jihwankim/satuner/pkg/tuner"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a parallel simulated-annealing search",
	RunE:  runRun,
}

func init() {
	runCmd.Flags().Int("workers", 1, "number of concurrent workers (ignored by seqsa)")
	runCmd.Flags().String("output-dir", "./satuner-output", "directory for the run report and CSV sink")
	runCmd.Flags().Bool("csv", true, "write an intermediate-result CSV alongside the run report")
	runCmd.Flags().String("pushgateway", "", "Prometheus Pushgateway URL; empty disables the timeseries sink")
	runCmd.Flags().String("job-name", "satuner", "job name reported to the Pushgateway")
	runCmd.Flags().String("stop-file", "", "path polled for an emergency-stop marker file")
	registerEvaluatorFlags(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
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
	params := cfg.Tuner

	evaluator, err := buildEvaluator(cmd, cfg.Catalog, logger)
	if err != nil {
		return fmt.Errorf("building evaluator: %w", err)
	}
	if closer, ok := evaluator.(interface{ Close() error }); ok {
		defer closer.Close()
	}

	p := problem.New(cfg.Catalog, evaluator)

	seed := params.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	bootstrapRNG := rand.New(rand.NewSource(seed))

	if params.MinTemp == nil {
		minTemp := bootstrap.MinTemp(nil)
		params.MinTemp = &minTemp
	}
	if params.MaxTemp == nil {
		logger.Info("max_temp not configured, bootstrapping from sampled neighbor deltas")
		probes := params.BootstrapProbes
		if probes <= 0 {
			probes = bootstrap.DefaultProbes
		}
		maxTemp, err := bootstrap.MaxTemp(cfg.Catalog, evaluator, 0, bootstrapRNG)
		if err != nil {
			return fmt.Errorf("bootstrapping max_temp: %w", err)
		}
		params.MaxTemp = &maxTemp
		logger.Info(fmt.Sprintf("bootstrapped max_temp=%v", maxTemp))
	}

	s, err := solver.New(params)
	if err != nil {
		return fmt.Errorf("constructing solver: %w", err)
	}

	outputDir, _ := cmd.Flags().GetString("output-dir")
	var sinks []sink.Sink

	useCSV, _ := cmd.Flags().GetBool("csv")
	if useCSV {
		csvSink, err := sinkcsv.New(outputDir, "")
		if err != nil {
			return fmt.Errorf("creating csv sink: %w", err)
		}
		sinks = append(sinks, csvSink)
	}

	gatewayURL, _ := cmd.Flags().GetString("pushgateway")
	if gatewayURL != "" {
		jobName, _ := cmd.Flags().GetString("job-name")
		tsSink, err := sinktimeseries.New(sinktimeseries.Config{GatewayURL: gatewayURL, JobName: jobName})
		if err != nil {
			return fmt.Errorf("creating timeseries sink: %w", err)
		}
		sinks = append(sinks, tsSink)
	}
	defer func() {
		for _, sk := range sinks {
			sk.Close()
		}
	}()

	numWorkers, _ := cmd.Flags().GetInt("workers")
	if numWorkers < 1 {
		numWorkers = 1
	}

	stopFile, _ := cmd.Flags().GetString("stop-file")
	emergencyCtrl := emergency.New(emergency.Config{StopFile: stopFile, EnableSignalHandlers: true})
	emergencyCtrl.OnStop(func() {
		logger.Warn("emergency stop requested; run continues to completion (solver strategies do not accept mid-run cancellation), but no further runs will be started")
	})
	stopCtx, cancelStop := context.WithCancel(context.Background())
	defer cancelStop()
	emergencyCtrl.Start(stopCtx)

	emit := make(chan tuner.IntermediateResult, 64)
	emitDone := make(chan struct{})
	go func() {
		defer close(emitDone)
		for r := range emit {
			for _, sk := range sinks {
				if err := sk.Emit(r); err != nil {
					logger.Warn(fmt.Sprintf("sink emit failed: %v", err))
				}
			}
		}
	}()

	runID := uuid.NewString()
	start := time.Now()
	logger.Info(fmt.Sprintf("starting run %s (solver=%s workers=%d)", runID, params.SolverKind, numWorkers))

	best, solveErr := s.Solve(p, numWorkers, emit)
	<-emitDone

	report := &reporting.RunReport{
		RunID:      runID,
		SolverKind: params.SolverKind.String(),
		StartTime:  start,
		EndTime:    time.Now(),
		Duration:   time.Since(start).String(),
		Steps:      params.MaxSteps,
		Workers:    numWorkers,
		BestEnergy: best.Energy,
		BestState:  best.State,
	}
	if solveErr != nil {
		report.Error = solveErr.Error()
	}

	path, saveErr := reporting.SaveRunReport(outputDir, report)
	if saveErr != nil {
		logger.Warn(fmt.Sprintf("failed to save run report: %v", saveErr))
	} else {
		logger.Info(fmt.Sprintf("run report saved to %s", path))
	}

	if solveErr != nil {
		return fmt.Errorf("solve failed: %w", solveErr)
	}
	logger.Info(fmt.Sprintf("best energy=%v state=%v", best.Energy, best.State))
	return nil
}
