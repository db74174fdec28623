// Package problem implements the thin façade solvers consume: state
// generation bound to a parameter catalog, plus the energy evaluator
// (spec §4.9).
package problem

import (
	"math/rand"

	"github.com/jihwankim/satuner/pkg/energy"
	"github.com/jihwankim/satuner/pkg/paramspace"
)

// Problem binds a parameter catalog to an energy evaluator. It owns
// nothing persistent beyond those two immutable collaborators (spec §3
// Lifecycles).
type Problem struct {
	catalog *paramspace.Catalog
	eval    energy.Evaluator
}

// New returns a Problem over catalog and eval.
func New(catalog *paramspace.Catalog, eval energy.Evaluator) *Problem {
	return &Problem{catalog: catalog, eval: eval}
}

// Catalog returns the underlying parameter catalog.
func (p *Problem) Catalog() *paramspace.Catalog {
	return p.catalog
}

func (p *Problem) InitialState() paramspace.State {
	return p.catalog.InitialState()
}

func (p *Problem) RandomState(rng *rand.Rand) paramspace.State {
	return p.catalog.RandomState(rng)
}

func (p *Problem) RandomPopulation(rng *rand.Rand, n int) []paramspace.State {
	return p.catalog.RandomPopulation(rng, n)
}

func (p *Problem) NeighborhoodSpace(rng *rand.Rand, s paramspace.State) []paramspace.State {
	return p.catalog.NeighborhoodSpace(rng, s)
}

func (p *Problem) AdaptiveNeighbor(rng *rand.Rand, s paramspace.State, maxSteps, step int) paramspace.State {
	return p.catalog.AdaptiveNeighbor(rng, s, maxSteps, step)
}

// Energy evaluates s on behalf of workerID. A false second return means the
// evaluation collaborator produced no measurement; callers must treat this
// as skip, not rejection (spec §4.9 Failure semantics).
func (p *Problem) Energy(s paramspace.State, workerID int) (float64, bool) {
	return p.eval.Evaluate(s, workerID)
}
