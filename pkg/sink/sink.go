// Package sink defines the result-sink contract solvers' intermediate
// results are drained into (spec §6 "Out of scope... Result sinks").
package sink

import "github.com/jihwankim/satuner/pkg/tuner"

// Sink persists or forwards intermediate results as a solver run produces
// them. Emit is called once per result, in emission order, from the
// emitter goroutine draining the solver's result channel.
type Sink interface {
	Emit(r tuner.IntermediateResult) error
	Close() error
}
