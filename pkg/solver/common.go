// Package solver implements the four parallel simulated-annealing
// strategies (SEQSA, MIR, SPISA, PRSA) over a pkg/problem.Problem
// (spec §4.5-§4.8).
package solver

import (
	"math/rand"
	"time"

	"github.com/jihwankim/satuner/pkg/energy"
	"github.com/jihwankim/satuner/pkg/paramspace"
	"github.com/jihwankim/satuner/pkg/tuner"
)

const (
	defaultSEQSAThreshold = 200
	defaultPRSAThreshold  = 200
	defaultSPISAThreshold = 300
)

func rejectionThreshold(kind tuner.SolverKind, params tuner.Params) int {
	if params.RejectionThreshold > 0 {
		return params.RejectionThreshold
	}
	switch kind {
	case tuner.SPISA:
		return defaultSPISAThreshold
	default:
		return defaultSEQSAThreshold
	}
}

// newRNG returns a private generator for workerID. Each worker owns its
// generator; none is ever shared across goroutines (spec §5 Randomness).
func newRNG(seed int64, workerID int) *rand.Rand {
	base := seed
	if base == 0 {
		base = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(base + int64(workerID)))
}

// isBetter reports whether candidate improves on incumbent under mode:
// higher is better for throughput, lower is better for latency.
func isBetter(mode energy.Mode, candidate, incumbent float64) bool {
	if mode == energy.Latency {
		return candidate < incumbent
	}
	return candidate > incumbent
}

// emitProbe sends an IntermediateResult on emit, dropping the send if the
// channel is nil (allows callers/tests to run without an emitter).
func emitProbe(emit chan<- tuner.IntermediateResult, r tuner.IntermediateResult) {
	if emit == nil {
		return
	}
	emit <- r
}

// trackSubsequentRejected applies spec §4.5 step 3's bookkeeping rule:
// reset on strict improvement, increment only on outright rejection.
// accepted is whether Metropolis accepted the probe; delta is the
// mode-adjusted improvement.
func trackSubsequentRejected(counter *int, accepted bool, delta float64) {
	switch {
	case delta > 0:
		*counter = 0
	case !accepted:
		*counter++
	}
}

// snapshotBest returns a fresh copy so emitted/returned results never alias
// a state a worker later mutates via State.With (which itself clones, but
// callers should not assume that of every State).
func snapshotBest(s paramspace.State) paramspace.State {
	return s.Clone()
}
