// Package remote implements an energy.Evaluator that reaches the target
// over SSH (golang.org/x/crypto/ssh, already a teacher dependency),
// optionally cross-checking the benchmark's self-reported energy against a
// Prometheus query via pkg/monitoring/prometheus.Client — the same client
// the teacher uses for fault-scenario success criteria, reused here
// directly rather than through the scenario-coupled FailureDetector.
package remote

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"golang.org/x/crypto/ssh"

	"github.com/jihwankim/satuner/pkg/monitoring/prometheus"
	"github.com/jihwankim/satuner/pkg/paramspace"
	"github.com/jihwankim/satuner/pkg/reporting"
)

// Config describes how to reach the target over SSH and, optionally, how
// to cross-check its result against Prometheus.
type Config struct {
	Addr       string
	ClientConf *ssh.ClientConfig

	// Command is the remote command to run for state; the state is
	// prefixed onto it as KEY=VALUE environment assignments, each key
	// carrying EnvPrefix, e.g. "TUNE_threads=8 ./bench".
	Command   string
	EnvPrefix string

	Timeout time.Duration

	// CrossCheck, if set, is queried after the benchmark completes; a
	// mismatch beyond CrossCheckTolerance discards the probe as a
	// no-value result rather than trusting a possibly-corrupted
	// benchmark run.
	CrossCheck          *prometheus.Client
	CrossCheckQuery     string
	CrossCheckTolerance float64

	Logger *reporting.Logger
}

// Evaluator runs Command over SSH once per Evaluate call.
type Evaluator struct {
	cfg Config
}

// New returns an Evaluator bound to cfg.
func New(cfg Config) *Evaluator {
	if cfg.Timeout == 0 {
		cfg.Timeout = 60 * time.Second
	}
	return &Evaluator{cfg: cfg}
}

// Evaluate dials the target over SSH, runs the benchmark command with
// state exported as environment assignments, parses its stdout as the
// energy value, and optionally cross-checks it against Prometheus. Any
// failure — dial, session, nonzero exit, unparsable output, or a
// cross-check mismatch — is a "no value" result (spec §4.9).
func (e *Evaluator) Evaluate(state paramspace.State, workerID int) (float64, bool) {
	client, err := ssh.Dial("tcp", e.cfg.Addr, e.cfg.ClientConf)
	if err != nil {
		e.logf("worker %d: ssh dial failed: %v", workerID, err)
		return 0, false
	}
	defer client.Close()

	session, err := client.NewSession()
	if err != nil {
		e.logf("worker %d: ssh session failed: %v", workerID, err)
		return 0, false
	}
	defer session.Close()

	cmd := e.remoteCommand(state)
	out, err := session.CombinedOutput(cmd)
	if err != nil {
		e.logf("worker %d: remote command failed: %v (output: %s)", workerID, err, string(out))
		return 0, false
	}

	value, err := strconv.ParseFloat(strings.TrimSpace(string(out)), 64)
	if err != nil {
		e.logf("worker %d: unparsable benchmark output %q: %v", workerID, string(out), err)
		return 0, false
	}

	if e.cfg.CrossCheck != nil && e.cfg.CrossCheckQuery != "" {
		if !e.crossCheck(workerID, value) {
			return 0, false
		}
	}

	return value, true
}

func (e *Evaluator) remoteCommand(state paramspace.State) string {
	var b strings.Builder
	for k, v := range state {
		fmt.Fprintf(&b, "%s%s=%s ", e.cfg.EnvPrefix, k, v)
	}
	b.WriteString(e.cfg.Command)
	return b.String()
}

func (e *Evaluator) crossCheck(workerID int, value float64) bool {
	ctx, cancel := context.WithTimeout(context.Background(), e.cfg.Timeout)
	defer cancel()

	observed, err := e.cfg.CrossCheck.GetLatestValue(ctx, e.cfg.CrossCheckQuery)
	if err != nil {
		e.logf("worker %d: cross-check query failed: %v", workerID, err)
		return false
	}
	diff := observed - value
	if diff < 0 {
		diff = -diff
	}
	tol := e.cfg.CrossCheckTolerance
	if tol == 0 {
		tol = 0.1
	}
	if diff > tol {
		e.logf("worker %d: cross-check mismatch: benchmark=%v prometheus=%v", workerID, value, observed)
		return false
	}
	return true
}

func (e *Evaluator) logf(format string, args ...interface{}) {
	if e.cfg.Logger == nil {
		return
	}
	e.cfg.Logger.Warn(fmt.Sprintf(format, args...))
}
