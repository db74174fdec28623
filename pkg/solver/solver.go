package solver

import (
	"fmt"

	"github.com/jihwankim/satuner/pkg/cooler"
	"github.com/jihwankim/satuner/pkg/problem"
	"github.com/jihwankim/satuner/pkg/tuner"
)

// Solver wraps a tagged choice of strategy (spec §9 "Dynamic dispatch over
// schedules and solvers": a tagged union selected at construction, so the
// hot loop never pays for open-ended polymorphism).
type Solver struct {
	kind   tuner.SolverKind
	cooler *cooler.Cooler
	params tuner.Params
}

// New validates params, builds the configured cooling schedule, and
// returns a Solver ready to run. Configuration errors (min_temp <= 0,
// unresolved temperatures) are fatal at this point (spec §7).
func New(params tuner.Params) (*Solver, error) {
	if params.MinTemp == nil || params.MaxTemp == nil {
		return nil, &tuner.ErrConfiguration{Reason: "min_temp and max_temp must be resolved before solver construction (see pkg/bootstrap)"}
	}
	if params.MaxSteps < 0 {
		return nil, &tuner.ErrConfiguration{Reason: "max_steps must be >= 0"}
	}
	c, err := cooler.New(params.CoolingMode, cooler.Params{
		MaxSteps: params.MaxSteps,
		MinTemp:  *params.MinTemp,
		MaxTemp:  *params.MaxTemp,
	})
	if err != nil {
		return nil, &tuner.ErrConfiguration{Reason: err.Error()}
	}
	return &Solver{kind: params.SolverKind, cooler: c, params: params}, nil
}

// Solve runs the configured strategy to completion, emitting
// IntermediateResults on emit as it goes, and returns the best {energy,
// state} pair found (spec §6 "Solver API"). emit is closed when Solve
// returns; callers should drain it from a separate goroutine for the
// duration of the call (spec §5 "driver... plus an emitter thread").
func (s *Solver) Solve(p *problem.Problem, numWorkers int, emit chan<- tuner.IntermediateResult) (result tuner.MrResult, err error) {
	defer close(emit)
	defer func() {
		if r := recover(); r != nil {
			err = &tuner.ErrWorkerPanic{WorkerID: -1, Recovered: r}
		}
	}()

	switch s.kind {
	case tuner.SEQSA:
		return runSEQSA(p, s.cooler, s.params, emit)
	case tuner.MIR:
		return runMIR(p, s.cooler, s.params, numWorkers, emit)
	case tuner.SPISA:
		return runSPISA(p, s.cooler, s.params, numWorkers, emit)
	case tuner.PRSA:
		return runPRSA(p, s.cooler, s.params, numWorkers, emit)
	default:
		return tuner.MrResult{}, fmt.Errorf("solver: unknown solver kind %v", s.kind)
	}
}
