package shared

import (
	"sync"

	"github.com/jihwankim/satuner/pkg/cooler"
)

// TemperatureCell holds the current temperature behind a single mutex. The
// cooler parameters are fixed at construction and never exposed mutably
// (spec §9 design notes).
type TemperatureCell struct {
	mu      sync.Mutex
	current float64
	c       *cooler.Cooler
}

// NewTemperatureCell starts the cell at the cooler's initial temperature.
func NewTemperatureCell(c *cooler.Cooler) *TemperatureCell {
	return &TemperatureCell{current: c.Initial(), c: c}
}

// Read returns the current temperature.
func (t *TemperatureCell) Read() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.current
}

// UpdateAtStep sets the temperature to the schedule's value at step k
// (Exponential/Linear), or advances a BasicExp schedule from the current
// value, and returns the new temperature.
func (t *TemperatureCell) UpdateAtStep(k int) float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.current = t.c.Next(t.current, k)
	return t.current
}

// Kind reports the underlying schedule kind.
func (t *TemperatureCell) Kind() cooler.Kind {
	return t.c.Kind()
}
