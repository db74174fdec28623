// Package cooler implements the temperature schedules the solvers cool by
// (spec §4.1): exponential, linear, and the stateful basic-exponential decay.
package cooler

import (
	"fmt"
	"math"
)

// Kind selects a schedule. Dispatch is a tagged union rather than an open
// interface so the hot loop never pays for dynamic dispatch.
type Kind int

const (
	Exponential Kind = iota
	Linear
	BasicExp
)

func (k Kind) String() string {
	switch k {
	case Exponential:
		return "exponential"
	case Linear:
		return "linear"
	case BasicExp:
		return "basic_exp"
	default:
		return "unknown"
	}
}

// Params bounds a schedule. MinTemp must be > 0 for every kind.
type Params struct {
	MaxSteps int
	MinTemp  float64
	MaxTemp  float64
}

func (p Params) Validate() error {
	if p.MinTemp <= 0 {
		return fmt.Errorf("cooler: min_temp must be > 0, got %v", p.MinTemp)
	}
	return nil
}

// Cooler computes temperature from step count (Exponential, Linear) or from
// the previous temperature (BasicExp).
type Cooler struct {
	kind   Kind
	params Params
}

// New validates params and returns a Cooler of the given kind.
func New(kind Kind, params Params) (*Cooler, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return &Cooler{kind: kind, params: params}, nil
}

func (c *Cooler) Kind() Kind       { return c.kind }
func (c *Cooler) Params() Params   { return c.params }

// AtStep returns T(k) for Exponential and Linear schedules. It is not
// meaningful for BasicExp, which instead uses Next.
func (c *Cooler) AtStep(k int) float64 {
	switch c.kind {
	case Exponential:
		ratio := math.Log(c.params.MaxTemp / c.params.MinTemp)
		return c.params.MaxTemp * math.Exp(-ratio*float64(k)/float64(c.params.MaxSteps))
	case Linear:
		frac := float64(k) / float64(c.params.MaxSteps)
		return c.params.MaxTemp - frac*(c.params.MaxTemp-c.params.MinTemp)
	default:
		return c.params.MaxTemp
	}
}

// Next advances a BasicExp schedule from cur: T <- 0.99*cur. For Exponential
// and Linear it is equivalent to AtStep(k) and ignores cur.
func (c *Cooler) Next(cur float64, k int) float64 {
	if c.kind == BasicExp {
		return 0.99 * cur
	}
	return c.AtStep(k)
}

// Initial returns the starting temperature for a fresh run.
func (c *Cooler) Initial() float64 {
	return c.params.MaxTemp
}
