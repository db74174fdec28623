package shared

import (
	"math/rand"
	"sync"

	"github.com/jihwankim/satuner/pkg/paramspace"
)

// NeighborhoodPool is a mutex-protected bag of states drained by
// pop-one-uniformly-at-random without replacement (spec §4.6/§5). Built once
// per SPISA round and discarded at round end.
type NeighborhoodPool struct {
	mu     sync.Mutex
	states []paramspace.State
}

// NewNeighborhoodPool wraps states for concurrent draining. The pool takes
// ownership of the slice.
func NewNeighborhoodPool(states []paramspace.State) *NeighborhoodPool {
	return &NeighborhoodPool{states: states}
}

// Pop removes and returns one state chosen uniformly at random, or ok=false
// if the pool is empty.
func (p *NeighborhoodPool) Pop(rng *rand.Rand) (paramspace.State, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.states) == 0 {
		return nil, false
	}
	i := rng.Intn(len(p.states))
	s := p.states[i]
	last := len(p.states) - 1
	p.states[i] = p.states[last]
	p.states = p.states[:last]
	return s, true
}

// Len reports the number of states remaining.
func (p *NeighborhoodPool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.states)
}

// StatePool is a mutex-protected, order-sensitive bag of states supporting
// push, pop, shuffle, and bulk push (spec §5), used by PRSA to hold the
// recombining population.
type StatePool struct {
	mu     sync.Mutex
	states []paramspace.State
}

// NewStatePool wraps states; the pool takes ownership of the slice.
func NewStatePool(states []paramspace.State) *StatePool {
	return &StatePool{states: states}
}

// Push appends one state.
func (p *StatePool) Push(s paramspace.State) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.states = append(p.states, s)
}

// PushBulk appends a batch of states.
func (p *StatePool) PushBulk(ss []paramspace.State) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.states = append(p.states, ss...)
}

// Pop removes and returns the last state, or ok=false if empty.
func (p *StatePool) Pop() (paramspace.State, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.states) == 0 {
		return nil, false
	}
	last := len(p.states) - 1
	s := p.states[last]
	p.states = p.states[:last]
	return s, true
}

// Shuffle permutes the pool uniformly at random in place.
func (p *StatePool) Shuffle(rng *rand.Rand) {
	p.mu.Lock()
	defer p.mu.Unlock()
	rng.Shuffle(len(p.states), func(i, j int) {
		p.states[i], p.states[j] = p.states[j], p.states[i]
	})
}

// Len reports the number of states held.
func (p *StatePool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.states)
}

// Snapshot returns a copy of the pool's current contents without draining it.
func (p *StatePool) Snapshot() []paramspace.State {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]paramspace.State, len(p.states))
	copy(out, p.states)
	return out
}

// Replace atomically swaps the pool's contents for ss.
func (p *StatePool) Replace(ss []paramspace.State) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.states = ss
}
