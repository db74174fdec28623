// Package local implements an energy.Evaluator that spawns the target as a
// local OS process per probe, the simplest of the three evaluation
// collaborators the core treats identically through the energy.Evaluator
// interface. Niceness control mirrors pkg/injection/process's renice
// wrapper, adapted from exec-into-a-container to direct
// syscall.Setpriority since there is no container boundary here.
package local

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/jihwankim/satuner/pkg/paramspace"
	"github.com/jihwankim/satuner/pkg/reporting"
)

// Config describes how to spawn and measure the target binary.
type Config struct {
	// Command and Args launch the target; State is passed as environment
	// variables prefixed by EnvPrefix, e.g. "TUNE_threads".
	Command   string
	Args      []string
	EnvPrefix string

	// Niceness is applied to the spawned process via setpriority; 0 means
	// leave the default priority untouched.
	Niceness int

	Timeout time.Duration
	Logger  *reporting.Logger
}

// Evaluator runs Command once per Evaluate call, reading a single float64
// energy value from its trimmed stdout.
type Evaluator struct {
	cfg Config
}

// New returns an Evaluator bound to cfg.
func New(cfg Config) *Evaluator {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &Evaluator{cfg: cfg}
}

// Evaluate spawns the target with state encoded as environment variables
// and returns ok=false on spawn failure, timeout, nonzero exit, or
// unparsable output — all "no value" to the solver (spec §4.9).
func (e *Evaluator) Evaluate(state paramspace.State, workerID int) (float64, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), e.cfg.Timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, e.cfg.Command, e.cfg.Args...)
	env := os.Environ()
	for k, v := range state {
		env = append(env, fmt.Sprintf("%s%s=%s", e.cfg.EnvPrefix, k, v))
	}
	cmd.Env = env

	var stdout bytes.Buffer
	cmd.Stdout = &stdout

	if err := cmd.Start(); err != nil {
		e.logf("worker %d: failed to start target: %v", workerID, err)
		return 0, false
	}
	if e.cfg.Niceness != 0 {
		if err := syscall.Setpriority(syscall.PRIO_PROCESS, cmd.Process.Pid, e.cfg.Niceness); err != nil {
			e.logf("worker %d: setpriority failed: %v", workerID, err)
		}
	}
	if err := cmd.Wait(); err != nil {
		e.logf("worker %d: target exited with error: %v", workerID, err)
		return 0, false
	}

	trimmed := strings.TrimSpace(stdout.String())
	val, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		e.logf("worker %d: unparsable benchmark output %q: %v", workerID, trimmed, err)
		return 0, false
	}
	return val, true
}

func (e *Evaluator) logf(format string, args ...interface{}) {
	if e.cfg.Logger == nil {
		return
	}
	e.cfg.Logger.Warn(fmt.Sprintf(format, args...))
}
