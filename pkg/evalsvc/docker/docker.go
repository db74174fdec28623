// Package docker implements an energy.Evaluator that deploys each
// candidate state as a fresh Docker container, benchmarks it, and tears it
// down. It collapses the teacher's ten-state
// orchestrator.Orchestrator.Execute machine (Parse, Discover, Prepare,
// Warmup, Inject, Monitor, Cooldown, Teardown, Detect, Report) down to the
// five stages an energy evaluation actually needs: Discover, Deploy(state),
// Warmup, Benchmark, Teardown — reusing the same defer-cleanup-on-exit
// shape as orchestrator.Execute.
package docker

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	apitypes "github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/network"

	dockerdisc "github.com/jihwankim/satuner/pkg/discovery/docker"
	injectcontainer "github.com/jihwankim/satuner/pkg/injection/container"
	injectprocess "github.com/jihwankim/satuner/pkg/injection/process"
	"github.com/jihwankim/satuner/pkg/paramspace"
	"github.com/jihwankim/satuner/pkg/reporting"
)

// Config describes how to deploy and benchmark the target under test.
type Config struct {
	Client *dockerdisc.Client

	// Image is the target's container image. Each evaluation recreates a
	// container from this image with State mapped onto environment
	// variables via EnvPrefix.
	Image string

	// EnvPrefix prefixes every parameter name to form its environment
	// variable, e.g. "TUNE_threads" for parameter "threads".
	EnvPrefix string

	// NamePrefix names each recreated container; a suffix of the worker ID
	// and the current time in nanoseconds is appended so concurrent
	// workers never collide.
	NamePrefix string

	// BenchmarkCmd is exec'd inside the running container; the last line
	// of its output, trimmed, must parse as a float64 energy value.
	BenchmarkCmd []string

	WarmupDelay  time.Duration
	StartTimeout time.Duration

	// Niceness and ProcessPattern, if both set, renice the matched process
	// inside the container once it is running, before the warmup delay,
	// via pkg/injection/process — the
	// same pgrep-then-renice fault the teacher uses to degrade a target,
	// repurposed here to hold the benchmark's scheduling priority steady
	// across probes.
	Niceness       int
	ProcessPattern string

	// KillOnTeardown tears a container down with pkg/injection/container's
	// KillManager (SIGKILL, no graceful stop) instead of ContainerStop —
	// faster cleanup between probes when the benchmark itself does not
	// need a graceful shutdown hook.
	KillOnTeardown bool

	Logger *reporting.Logger
}

// Evaluator deploys, benchmarks, and tears down one container per
// Evaluate call. Evaluate is safe to call concurrently: each call recreates
// its own container under a worker-qualified name.
type Evaluator struct {
	cfg      Config
	manager  *injectcontainer.Manager
	priority *injectprocess.PriorityWrapper
}

// New returns an Evaluator bound to cfg. BenchmarkCmd and Image are
// required; omitting them is a configuration error surfaced on first use
// rather than here.
func New(cfg Config) *Evaluator {
	if cfg.WarmupDelay == 0 {
		cfg.WarmupDelay = 2 * time.Second
	}
	if cfg.StartTimeout == 0 {
		cfg.StartTimeout = 30 * time.Second
	}
	if cfg.NamePrefix == "" {
		cfg.NamePrefix = "satuner-eval"
	}
	return &Evaluator{
		cfg:      cfg,
		manager:  injectcontainer.NewManager(cfg.Client.GetClient()),
		priority: injectprocess.New(cfg.Client, cfg.Logger),
	}
}

// Evaluate deploys state as a container, benchmarks it, and removes it,
// returning ok=false for any stage failure — deploy, warmup, benchmark, or
// an unparsable result are all "no value" to the solver, never an error
// (spec §4.9 Failure semantics).
func (e *Evaluator) Evaluate(state paramspace.State, workerID int) (value float64, ok bool) {
	ctx := context.Background()
	name := fmt.Sprintf("%s-w%d-%d", e.cfg.NamePrefix, workerID, time.Now().UnixNano())

	containerID, err := e.deploy(ctx, name, state)
	if err != nil {
		e.logf("deploy failed for worker %d: %v", workerID, err)
		return 0, false
	}
	defer e.teardown(context.Background(), containerID)

	if err := e.waitRunning(ctx, containerID); err != nil {
		e.logf("container did not reach running state for worker %d: %v", workerID, err)
		return 0, false
	}
	if e.cfg.Niceness != 0 && e.cfg.ProcessPattern != "" {
		if err := e.priority.InjectPriorityChange(ctx, containerID, injectprocess.PriorityParams{
			Priority:       e.cfg.Niceness,
			ProcessPattern: e.cfg.ProcessPattern,
		}); err != nil {
			e.logf("worker %d: priority change failed: %v", workerID, err)
		}
	}
	time.Sleep(e.cfg.WarmupDelay)

	energy, err := e.benchmark(ctx, containerID)
	if err != nil {
		e.logf("benchmark failed for worker %d: %v", workerID, err)
		return 0, false
	}
	return energy, true
}

func (e *Evaluator) deploy(ctx context.Context, name string, state paramspace.State) (string, error) {
	env := make([]string, 0, len(state))
	for k, v := range state {
		env = append(env, fmt.Sprintf("%s%s=%s", e.cfg.EnvPrefix, k, v))
	}

	resp, err := e.cfg.Client.ContainerCreate(ctx,
		&container.Config{Image: e.cfg.Image, Env: env},
		&container.HostConfig{AutoRemove: false},
		&network.NetworkingConfig{},
		nil,
		name,
	)
	if err != nil {
		return "", fmt.Errorf("evalsvc/docker: creating container: %w", err)
	}
	if err := e.cfg.Client.ContainerStart(ctx, resp.ID, apitypes.ContainerStartOptions{}); err != nil {
		return "", fmt.Errorf("evalsvc/docker: starting container: %w", err)
	}
	return resp.ID, nil
}

func (e *Evaluator) waitRunning(ctx context.Context, containerID string) error {
	deadline := time.Now().Add(e.cfg.StartTimeout)
	for time.Now().Before(deadline) {
		inspect, err := e.cfg.Client.ContainerInspect(ctx, containerID)
		if err != nil {
			return err
		}
		if inspect.State.Running {
			return nil
		}
		time.Sleep(200 * time.Millisecond)
	}
	return fmt.Errorf("container did not start within %v", e.cfg.StartTimeout)
}

func (e *Evaluator) benchmark(ctx context.Context, containerID string) (float64, error) {
	out, err := e.cfg.Client.ExecCommand(ctx, containerID, e.cfg.BenchmarkCmd)
	if err != nil {
		return 0, err
	}
	trimmed := strings.TrimSpace(lastLine(out))
	val, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return 0, fmt.Errorf("evalsvc/docker: parsing benchmark output %q: %w", trimmed, err)
	}
	return val, nil
}

func lastLine(s string) string {
	idx := bytes.LastIndexByte([]byte(s), '\n')
	trimmed := strings.TrimRight(s, "\n")
	if idx < 0 {
		return trimmed
	}
	lastIdx := strings.LastIndexByte(trimmed, '\n')
	if lastIdx < 0 {
		return trimmed
	}
	return trimmed[lastIdx+1:]
}

func (e *Evaluator) teardown(ctx context.Context, containerID string) {
	if e.cfg.KillOnTeardown {
		if err := e.manager.KillContainer(ctx, containerID, injectcontainer.KillParams{Signal: "SIGKILL"}); err != nil {
			e.logf("kill teardown failed for %s: %v", containerID, err)
		}
	} else {
		timeout := 5
		_ = e.cfg.Client.ContainerStop(ctx, containerID, &timeout)
	}
	_ = e.cfg.Client.ContainerRemove(ctx, containerID, apitypes.ContainerRemoveOptions{Force: true})
}

func (e *Evaluator) logf(format string, args ...interface{}) {
	if e.cfg.Logger == nil {
		return
	}
	e.cfg.Logger.Warn(fmt.Sprintf(format, args...))
}
