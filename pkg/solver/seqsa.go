package solver

import (
	"github.com/jihwankim/satuner/pkg/cooler"
	"github.com/jihwankim/satuner/pkg/energy"
	"github.com/jihwankim/satuner/pkg/problem"
	"github.com/jihwankim/satuner/pkg/shared"
	"github.com/jihwankim/satuner/pkg/tuner"
)

// runSEQSA is the single-worker reference Metropolis loop (spec §4.5).
func runSEQSA(p *problem.Problem, c *cooler.Cooler, params tuner.Params, emit chan<- tuner.IntermediateResult) (tuner.MrResult, error) {
	const workerID = 0
	rng := newRNG(params.Seed, workerID)
	threshold := rejectionThreshold(tuner.SEQSA, params)

	current := p.InitialState()
	curEnergy, ok := p.Energy(current, workerID)
	if !ok {
		return tuner.MrResult{}, &tuner.ErrInitialEvaluation{}
	}
	best := tuner.MrResult{Energy: curEnergy, State: snapshotBest(current)}
	tempCell := shared.NewTemperatureCell(c)
	subsequentRejected := 0

	for step := 0; step < params.MaxSteps; step++ {
		candidate := p.AdaptiveNeighbor(rng, current, params.MaxSteps, step)
		candEnergy, ok := p.Energy(candidate, workerID)
		t := tempCell.Read()

		if !ok {
			newT := tempCell.UpdateAtStep(step + 1)
			emitProbe(emit, tuner.IntermediateResult{
				Temperature: newT,
				LastEnergy:  curEnergy,
				LastState:   snapshotBest(current),
				BestEnergy:  best.Energy,
				BestState:   snapshotBest(best.State),
				Step:        step,
				WorkerID:    workerID,
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
			Temperature: newT,
			LastEnergy:  curEnergy,
			LastState:   snapshotBest(current),
			BestEnergy:  best.Energy,
			BestState:   snapshotBest(best.State),
			Step:        step,
			WorkerID:    workerID,
		})

		if subsequentRejected > threshold {
			break
		}
	}

	return best, nil
}
