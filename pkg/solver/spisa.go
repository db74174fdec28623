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

// runSPISA runs outer rounds around a shared master state. Each round
// builds a neighborhood pool from the master, drains it across numWorkers
// concurrent workers, and Metropolis-accepts the round's best candidate
// against the master (spec §4.6).
func runSPISA(p *problem.Problem, c *cooler.Cooler, params tuner.Params, numWorkers int, emit chan<- tuner.IntermediateResult) (tuner.MrResult, error) {
	if numWorkers < 1 {
		numWorkers = 1
	}
	driverRNG := newRNG(params.Seed, numWorkers+1)
	threshold := rejectionThreshold(tuner.SPISA, params)

	master := p.InitialState()
	masterEnergy, ok := p.Energy(master, 0)
	if !ok {
		return tuner.MrResult{}, &tuner.ErrInitialEvaluation{}
	}
	best := tuner.MrResult{Energy: masterEnergy, State: snapshotBest(master)}

	tempCell := shared.NewTemperatureCell(c)
	elapsed := &shared.Counter{}
	subsequentRejected := &shared.Counter{}

	for elapsed.Load() <= int64(params.MaxSteps) && subsequentRejected.Load() <= int64(threshold) {
		pool := shared.NewNeighborhoodPool(p.NeighborhoodSpace(driverRNG, master))
		collector := shared.NewResultCollector()

		var g errgroup.Group
		for w := 0; w < numWorkers; w++ {
			workerID := w
			g.Go(func() error {
				return recoverWorkerPanic(workerID, func() {
					spisaWorker(p, pool, tempCell, elapsed, subsequentRejected, collector, params, workerID, master.Clone(), masterEnergy, emit)
				})
			})
		}
		if err := g.Wait(); err != nil {
			return tuner.MrResult{}, err
		}

		roundResults := collector.Drain()
		if len(roundResults) == 0 {
			break
		}
		roundBest := roundResults[0]
		for _, r := range roundResults[1:] {
			if isBetter(params.EnergyMode, r.Energy, roundBest.Energy) {
				roundBest = r
			}
		}

		t := tempCell.Read()
		delta := energy.Delta(params.EnergyMode, masterEnergy, roundBest.Energy)
		if energy.Accept(driverRNG, delta, t) {
			master = roundBest.State
			masterEnergy = roundBest.Energy
			if isBetter(params.EnergyMode, masterEnergy, best.Energy) {
				best = tuner.MrResult{Energy: masterEnergy, State: snapshotBest(master)}
			}
		}
	}

	return best, nil
}

func spisaWorker(
	p *problem.Problem,
	pool *shared.NeighborhoodPool,
	tempCell *shared.TemperatureCell,
	elapsed *shared.Counter,
	subsequentRejected *shared.Counter,
	collector *shared.ResultCollector,
	params tuner.Params,
	workerID int,
	localCurrent paramspace.State,
	localEnergy float64,
	emit chan<- tuner.IntermediateResult,
) {
	rng := newRNG(params.Seed, workerID)
	localBest := tuner.MrResult{Energy: localEnergy, State: snapshotBest(localCurrent)}

	for {
		candidate, has := pool.Pop(rng)
		if !has {
			break
		}
		step := elapsed.Inc()
		t := tempCell.UpdateAtStep(int(step))

		candEnergy, ok := p.Energy(candidate, workerID)
		if !ok {
			emitProbe(emit, tuner.IntermediateResult{
				Temperature: t, LastEnergy: localEnergy, LastState: snapshotBest(localCurrent),
				BestEnergy: localBest.Energy, BestState: snapshotBest(localBest.State),
				Step: int(step), WorkerID: workerID,
			})
			continue
		}

		delta := energy.Delta(params.EnergyMode, localEnergy, candEnergy)
		accepted := energy.Accept(rng, delta, t)
		trackSharedRejection(subsequentRejected, accepted, delta)

		if accepted {
			localCurrent = candidate
			localEnergy = candEnergy
			if isBetter(params.EnergyMode, localEnergy, localBest.Energy) {
				localBest = tuner.MrResult{Energy: localEnergy, State: snapshotBest(localCurrent)}
			}
		}

		emitProbe(emit, tuner.IntermediateResult{
			Temperature: t, LastEnergy: localEnergy, LastState: snapshotBest(localCurrent),
			BestEnergy: localBest.Energy, BestState: snapshotBest(localBest.State),
			Step: int(step), WorkerID: workerID,
		})
	}

	collector.Push(localBest)
}

// trackSharedRejection is trackSubsequentRejected against the
// shared.Counter used by SPISA's cross-worker convergence tracking.
func trackSharedRejection(counter *shared.Counter, accepted bool, delta float64) {
	switch {
	case delta > 0:
		counter.Reset()
	case !accepted:
		counter.Inc()
	}
}
