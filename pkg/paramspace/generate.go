package paramspace

import "math/rand"

// InitialState returns the defaults-per-parameter state (spec.md §4.2).
func (c *Catalog) InitialState() State {
	s := make(State, len(c.params))
	for _, p := range c.params {
		s[p.Name] = p.DefaultRepr()
	}
	return s
}

// RandomState draws each parameter independently and uniformly from its
// space, using rng. Callers must not share an *rand.Rand across goroutines
// (spec.md §5 "Randomness").
func (c *Catalog) RandomState(rng *rand.Rand) State {
	s := make(State, len(c.params))
	for _, p := range c.params {
		space := p.Space()
		s[p.Name] = space[rng.Intn(len(space))]
	}
	return s
}

// RandomPopulation draws n independent random states.
func (c *Catalog) RandomPopulation(rng *rand.Rand, n int) []State {
	out := make([]State, n)
	for i := range out {
		out[i] = c.RandomState(rng)
	}
	return out
}

// NeighborhoodSpace emits, for every parameter p and every value v in p's
// space, a new state identical to cur except p=v (spec.md §4.2). Order is
// randomized. Size = Σ|space(p)|.
func (c *Catalog) NeighborhoodSpace(rng *rand.Rand, cur State) []State {
	var out []State
	for _, p := range c.params {
		for _, v := range p.Space() {
			out = append(out, cur.With(p.Name, v))
		}
	}
	rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

// AdaptiveNeighborFraction implements f(step) = 0.6 - floor(step /
// (maxSteps/6))/10, floored at 0 — spec.md §4.2.
func AdaptiveNeighborFraction(maxSteps, step int) float64 {
	if maxSteps <= 0 {
		return 0
	}
	bucket := float64(maxSteps) / 6.0
	f := 0.6 - float64(int(float64(step)/bucket))/10.0
	if f < 0 {
		f = 0
	}
	return f
}

// AdaptiveVaryCount returns floor(n * f(step)), the number of parameters the
// adaptive neighbor varies at this step.
func AdaptiveVaryCount(n, maxSteps, step int) int {
	return int(float64(n) * AdaptiveNeighborFraction(maxSteps, step))
}

// AdaptiveNeighbor varies k = floor(n*f(step)) of the n parameters,
// sampling each varied parameter uniformly from its space; unvaried
// parameters retain cur's value (spec.md §4.2). Never returns nil: if the
// catalog is empty or k is 0, the result is an unchanged clone of cur.
func (c *Catalog) AdaptiveNeighbor(rng *rand.Rand, cur State, maxSteps, step int) State {
	n := len(c.params)
	k := AdaptiveVaryCount(n, maxSteps, step)
	next := cur.Clone()
	if k <= 0 || n == 0 {
		return next
	}
	idx := rng.Perm(n)[:k]
	varied := make(map[int]struct{}, k)
	for _, i := range idx {
		varied[i] = struct{}{}
	}
	for i, p := range c.params {
		if _, ok := varied[i]; !ok {
			continue
		}
		space := p.Space()
		next[p.Name] = space[rng.Intn(len(space))]
	}
	return next
}
