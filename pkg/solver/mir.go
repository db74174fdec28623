package solver

import (
	"github.com/jihwankim/satuner/pkg/cooler"
	"github.com/jihwankim/satuner/pkg/energy"
	"github.com/jihwankim/satuner/pkg/paramspace"
	"github.com/jihwankim/satuner/pkg/problem"
	"github.com/jihwankim/satuner/pkg/shared"
	"github.com/jihwankim/satuner/pkg/tuner"
	"golang.org/x/sync/errgroup"
)

// runMIR runs numWorkers independent SEQSA-like trajectories in parallel,
// one from the default state and the rest from independent random starts,
// and returns the globally best result (spec §4.7). Workers never
// communicate; each owns its own temperature trajectory over the shared
// cooler, indexed by its own worker-local step.
func runMIR(p *problem.Problem, c *cooler.Cooler, params tuner.Params, numWorkers int, emit chan<- tuner.IntermediateResult) (tuner.MrResult, error) {
	if numWorkers < 1 {
		numWorkers = 1
	}
	workerSteps := (params.MaxSteps + numWorkers - 1) / numWorkers

	// Initial evaluation failure is fatal at solver start regardless of
	// which worker discovers it, so probe the default state up front on
	// the driver before spawning any worker.
	driverRNG := newRNG(params.Seed, numWorkers)
	if _, ok := p.Energy(p.InitialState(), 0); !ok {
		return tuner.MrResult{}, &tuner.ErrInitialEvaluation{}
	}

	starts := make([]paramspace.State, numWorkers)
	starts[0] = p.InitialState()
	for i := 1; i < numWorkers; i++ {
		starts[i] = p.RandomState(driverRNG)
	}

	results := make([]tuner.MrResult, numWorkers)
	var g errgroup.Group
	for w := 0; w < numWorkers; w++ {
		workerID := w
		g.Go(func() error {
			return recoverWorkerPanic(workerID, func() {
				results[workerID] = mirWorker(p, c, params, workerID, workerSteps, starts[workerID], emit)
			})
		})
	}
	if err := g.Wait(); err != nil {
		return tuner.MrResult{}, err
	}

	best := results[0]
	for _, r := range results[1:] {
		if isBetter(params.EnergyMode, r.Energy, best.Energy) {
			best = r
		}
	}
	return best, nil
}

func mirWorker(p *problem.Problem, c *cooler.Cooler, params tuner.Params, workerID, workerSteps int, start paramspace.State, emit chan<- tuner.IntermediateResult) tuner.MrResult {
	rng := newRNG(params.Seed, workerID)
	threshold := rejectionThreshold(tuner.MIR, params)

	current := start
	curEnergy, ok := p.Energy(current, workerID)
	if !ok {
		// A non-default worker's random start failing to evaluate is a
		// probe failure for that worker, not a fatal condition: fall back
		// to the catalog default, which the driver already verified.
		current = p.InitialState()
		curEnergy, _ = p.Energy(current, workerID)
	}
	best := tuner.MrResult{Energy: curEnergy, State: snapshotBest(current)}
	tempCell := shared.NewTemperatureCell(c)
	subsequentRejected := 0

	for step := 0; step < workerSteps; step++ {
		candidate := p.AdaptiveNeighbor(rng, current, workerSteps, step)
		candEnergy, ok := p.Energy(candidate, workerID)
		t := tempCell.Read()

		if !ok {
			newT := tempCell.UpdateAtStep(step + 1)
			emitProbe(emit, tuner.IntermediateResult{
				Temperature: newT, LastEnergy: curEnergy, LastState: snapshotBest(current),
				BestEnergy: best.Energy, BestState: snapshotBest(best.State), Step: step, WorkerID: workerID,
			})
			continue
		}

		delta := energy.Delta(params.EnergyMode, curEnergy, candEnergy)
		accepted := energy.Accept(rng, delta, t)
		trackSubsequentRejected(&subsequentRejected, accepted, delta)

		if accepted {
			current = candidate
			curEnergy = candEnergy
			if isBetter(params.EnergyMode, curEnergy, best.Energy) {
				best = tuner.MrResult{Energy: curEnergy, State: snapshotBest(current)}
			}
		}

		newT := tempCell.UpdateAtStep(step + 1)
		emitProbe(emit, tuner.IntermediateResult{
			Temperature: newT, LastEnergy: curEnergy, LastState: snapshotBest(current),
			BestEnergy: best.Energy, BestState: snapshotBest(best.State), Step: step, WorkerID: workerID,
		})

		if subsequentRejected > threshold {
			break
		}
	}
	return best
}
