package shared

import (
	"sync"

	"github.com/jihwankim/satuner/pkg/paramspace"
)

// MrResult is a solver's best-so-far pair: an energy value and the state
// that produced it. Defined here (rather than in pkg/tuner) so both shared
// and tuner can depend on it without a cycle; pkg/tuner re-exports it as
// tuner.MrResult.
type MrResult struct {
	Energy float64
	State  paramspace.State
}

// ResultCollector is a mutex-protected per-round bag of worker results,
// pushed concurrently and drained once by the outer round after join
// (spec §4.6 step 3, §5).
type ResultCollector struct {
	mu      sync.Mutex
	results []MrResult
}

// NewResultCollector returns an empty collector.
func NewResultCollector() *ResultCollector {
	return &ResultCollector{}
}

// Push appends a worker's result.
func (c *ResultCollector) Push(r MrResult) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.results = append(c.results, r)
}

// Drain returns all pushed results and resets the collector for the next
// round.
func (c *ResultCollector) Drain() []MrResult {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := c.results
	c.results = nil
	return out
}

// Len reports the number of results currently held.
func (c *ResultCollector) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.results)
}
