package solver

import (
	"math"
	"math/rand"

	"github.com/jihwankim/satuner/pkg/paramspace"
)

// crossover implements spec §4.8 step b: a single cutting point over keys
// in a fixed order. Below the cut, child1 takes parent1's value and child2
// takes parent2's; at and above the cut, they swap. Both children always
// hold every parameter exactly once.
func crossover(parent1, parent2 paramspace.State, names []string) (paramspace.State, paramspace.State) {
	cut := int(math.Floor(0.4 * float64(len(names))))
	child1 := make(paramspace.State, len(names))
	child2 := make(paramspace.State, len(names))
	for i, name := range names {
		if i < cut {
			child1[name] = parent1[name]
			child2[name] = parent2[name]
		} else {
			child1[name] = parent2[name]
			child2[name] = parent1[name]
		}
	}
	return child1, child2
}

// mutate implements spec §4.8 step c: pick one parameter uniformly at
// random and replace its value with a uniform pick from that parameter's
// space, in place.
func mutate(rng *rand.Rand, catalog *paramspace.Catalog, child paramspace.State) {
	names := catalog.Names()
	if len(names) == 0 {
		return
	}
	name := names[rng.Intn(len(names))]
	desc, ok := catalog.Lookup(name)
	if !ok {
		return
	}
	space := desc.Space()
	child[name] = space[rng.Intn(len(space))]
}
