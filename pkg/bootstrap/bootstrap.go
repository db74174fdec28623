// Package bootstrap auto-derives an unset max temperature from sampled
// energy deltas around the initial state (spec §4.3).
package bootstrap

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/jihwankim/satuner/pkg/energy"
	"github.com/jihwankim/satuner/pkg/paramspace"
)

// DefaultMinTemp is used when min_temp is not supplied.
const DefaultMinTemp = 1.0

// DefaultProbes is the number of random-neighbor probes taken when max_temp
// must be derived.
const DefaultProbes = 10

// targetAcceptance is the initial acceptance probability a degrading move
// should have at the bootstrapped max temperature.
const targetAcceptance = 0.98

// MaxTemp samples DefaultProbes random neighbors of the initial state and
// sets max_temp = mean(|Δ|) / -ln(0.98), so a degrading move at T=max_temp
// is accepted with probability ≈0.98. Probes the evaluator cannot measure
// are skipped. Fails only if the initial state itself cannot be evaluated —
// the fatal "initial evaluation failure" condition (spec §7).
func MaxTemp(catalog *paramspace.Catalog, eval energy.Evaluator, workerID int, rng *rand.Rand) (float64, error) {
	initial := catalog.InitialState()
	e0, ok := eval.Evaluate(initial, workerID)
	if !ok {
		return 0, fmt.Errorf("bootstrap: initial state could not be evaluated")
	}

	var sum float64
	var n int
	for i := 0; i < DefaultProbes; i++ {
		neighbors := catalog.NeighborhoodSpace(rng, initial)
		if len(neighbors) == 0 {
			continue
		}
		probe := neighbors[rng.Intn(len(neighbors))]
		if probe.Equal(initial) {
			continue
		}
		ei, ok := eval.Evaluate(probe, workerID)
		if !ok {
			continue
		}
		sum += math.Abs(e0 - ei)
		n++
	}
	if n == 0 {
		return 1.0, nil
	}
	mean := sum / float64(n)
	return mean / -math.Log(targetAcceptance), nil
}

// MinTemp returns the supplied value, or DefaultMinTemp if none was given.
func MinTemp(supplied *float64) float64 {
	if supplied != nil {
		return *supplied
	}
	return DefaultMinTemp
}
