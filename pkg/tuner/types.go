// Package tuner holds the solver's external-facing types: run parameters,
// results, the intermediate-result stream emitted to sinks, and the
// termination/error taxonomy (spec §3, §6, §7).
package tuner

import (
	"github.com/jihwankim/satuner/pkg/cooler"
	"github.com/jihwankim/satuner/pkg/energy"
	"github.com/jihwankim/satuner/pkg/paramspace"
	"github.com/jihwankim/satuner/pkg/shared"
)

// MrResult is the solver's best-found pair, re-exported from pkg/shared so
// both the shared primitives and the public API share one definition.
type MrResult = shared.MrResult

// SolverKind selects one of the four solver strategies (spec §4.5-§4.8).
type SolverKind int

const (
	SEQSA SolverKind = iota
	MIR
	SPISA
	PRSA
)

func (k SolverKind) String() string {
	switch k {
	case SEQSA:
		return "seqsa"
	case MIR:
		return "mir"
	case SPISA:
		return "spisa"
	case PRSA:
		return "prsa"
	default:
		return "unknown"
	}
}

// Params configures a solve run (spec §3 "Tuner parameters", §6 Solver API).
type Params struct {
	MaxSteps    int
	NumIter     int
	MinTemp     *float64
	MaxTemp     *float64
	EnergyMode  energy.Mode
	CoolingMode cooler.Kind
	SolverKind  SolverKind

	// BootstrapProbes is read from the bootstrap_probes config key
	// (supplemented from the predecessor's tunable sample count).
	// bootstrap.MaxTemp does not take it: max_temp bootstrapping always
	// uses bootstrap.DefaultProbes probes.
	BootstrapProbes int

	// RejectionThreshold overrides the convergence cutoff (subsequent
	// rejections before early termination; for PRSA, generations without
	// improvement). Zero means use the solver's own default (200 for
	// SEQSA/MIR/PRSA, 300 for SPISA).
	RejectionThreshold int

	// Seed seeds every worker's random generator (offset by worker ID) and
	// the driver's own generator. Zero derives a seed from wall-clock time.
	Seed int64
}

// IntermediateResult is emitted on every accepted-or-rejected probe for
// observability (spec §6 "Intermediate result stream").
type IntermediateResult struct {
	Temperature float64
	WallTimeS   float64
	CPUTimeS    float64
	LastEnergy  float64
	LastState   paramspace.State
	BestEnergy  float64
	BestState   paramspace.State
	Step        int
	WorkerID    int
}

// TerminationReason records why a solve run ended, for logging rather than
// as an error — pool exhaustion and convergence are normal endings
// (spec §7).
type TerminationReason int

const (
	TerminationMaxSteps TerminationReason = iota
	TerminationConvergence
	TerminationPoolExhaustion
)

func (r TerminationReason) String() string {
	switch r {
	case TerminationMaxSteps:
		return "max_steps_reached"
	case TerminationConvergence:
		return "convergence"
	case TerminationPoolExhaustion:
		return "pool_exhaustion"
	default:
		return "unknown"
	}
}
