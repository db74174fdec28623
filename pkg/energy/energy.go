// Package energy defines the evaluator contract the solvers anneal against
// and the Metropolis acceptance rule (spec §4.4, §4.9).
package energy

import (
	"math"
	"math/rand"

	"github.com/jihwankim/satuner/pkg/paramspace"
)

// Mode selects how a raw measurement maps to "improvement" direction.
type Mode int

const (
	Throughput Mode = iota
	Latency
)

func (m Mode) String() string {
	switch m {
	case Throughput:
		return "throughput"
	case Latency:
		return "latency"
	default:
		return "unknown"
	}
}

// Evaluator measures a state's energy. Implementations are external
// collaborators (local spawn, SSH, containerized agent) and MUST be safe to
// call concurrently from distinct worker IDs. A false second return means
// "no value": the target could not be measured and the probe is skipped,
// never treated as a rejection.
type Evaluator interface {
	Evaluate(s paramspace.State, workerID int) (value float64, ok bool)
}

// Delta computes the mode-adjusted improvement of candidate over current:
// positive is always "improvement" (spec §4.4).
func Delta(mode Mode, current, candidate float64) float64 {
	d := candidate - current
	if mode == Latency {
		return -d
	}
	return d
}

// Accept applies the Metropolis criterion at temperature T using a single
// uniform sample from rng. Delta > 0 accepts unconditionally; otherwise
// acceptance probability is exp(delta/T).
func Accept(rng *rand.Rand, delta, temperature float64) bool {
	if delta > 0 {
		return true
	}
	return rng.Float64() < math.Exp(delta/temperature)
}

// AcceptWorse implements the PRSA recombination rule (spec §4.8 step e):
// the probability of keeping the worse of two individuals separated by
// parent-minus-child delta at temperature T.
func AcceptWorse(rng *rand.Rand, delta, temperature float64) bool {
	p := 1.0 / (1.0 + math.Exp(delta/temperature))
	return rng.Float64() < p
}
