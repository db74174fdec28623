package solver

import (
	"math/rand"

	"github.com/jihwankim/satuner/pkg/cooler"
	"github.com/jihwankim/satuner/pkg/energy"
	"github.com/jihwankim/satuner/pkg/paramspace"
	"github.com/jihwankim/satuner/pkg/problem"
	"github.com/jihwankim/satuner/pkg/shared"
	"github.com/jihwankim/satuner/pkg/tuner"
	"golang.org/x/sync/errgroup"
)

const prsaGenerationsWithoutImprovement = 200

// populationSize is the default population for PRSA when the driver does
// not otherwise size it; chosen as a multiple of common worker counts so
// chunking divides evenly in the common case.
const populationSize = 64

// runPRSA is the parallel recombinative SA solver: a population of random
// states repeatedly shuffled, chunked across workers, crossed over,
// mutated, and Metropolis-recombined generation over generation (spec
// §4.8).
func runPRSA(p *problem.Problem, c *cooler.Cooler, params tuner.Params, numWorkers int, emit chan<- tuner.IntermediateResult) (tuner.MrResult, error) {
	if numWorkers < 1 {
		numWorkers = 1
	}
	driverRNG := newRNG(params.Seed, numWorkers+1)

	if _, ok := p.Energy(p.InitialState(), 0); !ok {
		return tuner.MrResult{}, &tuner.ErrInitialEvaluation{}
	}

	names := p.Catalog().Names()
	pop := shared.NewStatePool(p.RandomPopulation(driverRNG, populationSize))

	var incumbent tuner.MrResult
	tempCell := shared.NewTemperatureCell(c)
	elapsed := 0
	generationsWithoutImprovement := 0
	generationLimit := prsaGenerationsWithoutImprovement
	if params.RejectionThreshold > 0 {
		generationLimit = params.RejectionThreshold
	}

	for elapsed <= params.MaxSteps && generationsWithoutImprovement < generationLimit {
		pop.Shuffle(driverRNG)
		snapshot := pop.Snapshot()
		chunks := chunkStates(snapshot, numWorkers)

		genBests := make([]tuner.MrResult, numWorkers)
		survivors := make([][]paramspace.State, numWorkers)
		probes := make([]int, numWorkers)

		var g errgroup.Group
		for w := 0; w < numWorkers; w++ {
			workerID := w
			g.Go(func() error {
				return recoverWorkerPanic(workerID, func() {
					best, surv, n := prsaWorker(p, tempCell, params, names, workerID, chunks[workerID], emit)
					genBests[workerID] = best
					survivors[workerID] = surv
					probes[workerID] = n
				})
			})
		}
		if err := g.Wait(); err != nil {
			return tuner.MrResult{}, err
		}

		var next []paramspace.State
		totalProbes := 0
		for w := 0; w < numWorkers; w++ {
			next = append(next, survivors[w]...)
			totalProbes += probes[w]
		}
		pop.Replace(next)

		genBest := genBests[0]
		for _, b := range genBests[1:] {
			if b.State != nil && (genBest.State == nil || isBetter(params.EnergyMode, b.Energy, genBest.Energy)) {
				genBest = b
			}
		}

		if genBest.State != nil {
			t := tempCell.Read()
			improved := false
			if incumbent.State == nil {
				incumbent = genBest
				improved = true
			} else {
				delta := energy.Delta(params.EnergyMode, incumbent.Energy, genBest.Energy)
				if energy.Accept(driverRNG, delta, t) {
					improved = isBetter(params.EnergyMode, genBest.Energy, incumbent.Energy)
					incumbent = genBest
				}
			}
			if improved {
				generationsWithoutImprovement = 0
			} else {
				generationsWithoutImprovement++
			}
		} else {
			generationsWithoutImprovement++
		}

		elapsed += totalProbes
		tempCell.UpdateAtStep(elapsed)
	}

	return incumbent, nil
}

func chunkStates(states []paramspace.State, numWorkers int) [][]paramspace.State {
	chunks := make([][]paramspace.State, numWorkers)
	if numWorkers == 0 {
		return chunks
	}
	chunkSize := len(states) / numWorkers
	for w := 0; w < numWorkers; w++ {
		start := w * chunkSize
		end := start + chunkSize
		if w == numWorkers-1 {
			end = len(states)
		}
		if start >= len(states) {
			chunks[w] = nil
			continue
		}
		if end > len(states) {
			end = len(states)
		}
		chunks[w] = states[start:end]
	}
	return chunks
}

// prsaWorker processes one chunk as chunkSize/2 pair-generations: crossover,
// mutate, evaluate all four, and keep the two Metropolis-recombination
// survivors per pair (spec §4.8 step 2).
func prsaWorker(p *problem.Problem, tempCell *shared.TemperatureCell, params tuner.Params, names []string, workerID int, chunk []paramspace.State, emit chan<- tuner.IntermediateResult) (tuner.MrResult, []paramspace.State, int) {
	rng := newRNG(params.Seed, workerID)
	var survivors []paramspace.State
	var best tuner.MrResult
	probes := 0

	pairs := len(chunk) / 2
	for i := 0; i < pairs; i++ {
		parent1 := chunk[2*i]
		parent2 := chunk[2*i+1]

		child1, child2 := crossover(parent1, parent2, names)
		mutate(rng, p.Catalog(), child1)
		mutate(rng, p.Catalog(), child2)

		e1, ok1 := p.Energy(parent1, workerID)
		e2, ok2 := p.Energy(parent2, workerID)
		ec1, okc1 := p.Energy(child1, workerID)
		ec2, okc2 := p.Energy(child2, workerID)
		probes += 4

		t := tempCell.Read()

		surv1 := recombine(rng, params.EnergyMode, t, parent1, e1, ok1, child2, ec2, okc2)
		surv2 := recombine(rng, params.EnergyMode, t, parent2, e2, ok2, child1, ec1, okc1)

		for _, s := range []tuner.MrResult{surv1, surv2} {
			if s.State == nil {
				continue
			}
			survivors = append(survivors, s.State)
			if best.State == nil || isBetter(params.EnergyMode, s.Energy, best.Energy) {
				best = s
			}
			emitProbe(emit, tuner.IntermediateResult{
				Temperature: t, LastEnergy: s.Energy, LastState: snapshotBest(s.State),
				BestEnergy: best.Energy, BestState: snapshotBest(best.State), WorkerID: workerID,
			})
		}
	}

	// Odd leftover (chunk size not divisible by 2) carries forward unchanged.
	if len(chunk)%2 == 1 {
		survivors = append(survivors, chunk[len(chunk)-1])
	}

	return best, survivors, probes
}

// recombine applies spec §4.8 step e: keep the parent with probability
// 1/(1+exp(Δ/T)), Δ = parent-minus-child under the configured mode —
// preferring the worse of the two, temperature-controlled, rather than
// always keeping the better (original_source/src/annealing/solver/prsa.rs
// recombine). Either side may have failed to evaluate (ok=false); an
// unmeasurable candidate is never kept over a measurable one.
func recombine(rng *rand.Rand, mode energy.Mode, t float64, parent paramspace.State, eParent float64, okParent bool, child paramspace.State, eChild float64, okChild bool) tuner.MrResult {
	switch {
	case !okParent && !okChild:
		return tuner.MrResult{}
	case !okParent:
		return tuner.MrResult{Energy: eChild, State: child}
	case !okChild:
		return tuner.MrResult{Energy: eParent, State: parent}
	}

	delta := energy.Delta(mode, eChild, eParent) // parent-minus-child, mode-adjusted
	if energy.AcceptWorse(rng, delta, t) {
		return tuner.MrResult{Energy: eParent, State: parent}
	}
	return tuner.MrResult{Energy: eChild, State: child}
}
