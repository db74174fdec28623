package solver_test

import (
	"sync"
	"testing"

	"github.com/jihwankim/satuner/pkg/cooler"
	"github.com/jihwankim/satuner/pkg/energy"
	"github.com/jihwankim/satuner/pkg/paramspace"
	"github.com/jihwankim/satuner/pkg/problem"
	"github.com/jihwankim/satuner/pkg/solver"
	"github.com/jihwankim/satuner/pkg/tuner"
)

type scriptedEvaluator struct {
	mu     sync.Mutex
	energy map[string]float64
}

func (e *scriptedEvaluator) Evaluate(s paramspace.State, workerID int) (float64, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	v, ok := e.energy[s["threads"]]
	if !ok {
		return 0, true // unknown candidates still measure, just flat
	}
	return v, true
}

func testCatalog(t *testing.T) *paramspace.Catalog {
	t.Helper()
	cat, err := paramspace.NewCatalog([]paramspace.Descriptor{
		{Name: "threads", Kind: paramspace.KindInt, Int: paramspace.IntParam{Min: 1, Max: 8, Step: 1, Default: 4}},
	})
	if err != nil {
		t.Fatalf("NewCatalog: %v", err)
	}
	return cat
}

func drain(ch <-chan tuner.IntermediateResult) {
	for range ch {
	}
}

func TestNewRejectsUnresolvedTemperatures(t *testing.T) {
	if _, err := solver.New(tuner.Params{MaxSteps: 10}); err == nil {
		t.Fatal("expected error for unresolved min/max temp")
	}
}

func TestNewRejectsNegativeMaxSteps(t *testing.T) {
	minT, maxT := 0.1, 10.0
	_, err := solver.New(tuner.Params{MinTemp: &minT, MaxTemp: &maxT, MaxSteps: -1})
	if err == nil {
		t.Fatal("expected error for max_steps < 0")
	}
}

func TestNewRejectsInvalidCooler(t *testing.T) {
	minT, maxT := 0.0, 10.0
	_, err := solver.New(tuner.Params{MinTemp: &minT, MaxTemp: &maxT, MaxSteps: 10})
	if err == nil {
		t.Fatal("expected error propagated from an invalid cooler (min_temp <= 0)")
	}
}

func baseParams(kind tuner.SolverKind) tuner.Params {
	minT, maxT := 0.1, 10.0
	return tuner.Params{
		MaxSteps:    50,
		MinTemp:     &minT,
		MaxTemp:     &maxT,
		EnergyMode:  energy.Throughput,
		CoolingMode: cooler.Exponential,
		SolverKind:  kind,
		Seed:        7,
	}
}

func TestSolveSEQSAReturnsBest(t *testing.T) {
	cat := testCatalog(t)
	eval := &scriptedEvaluator{energy: map[string]float64{"4": 1, "8": 100}}
	p := problem.New(cat, eval)
	s, err := solver.New(baseParams(tuner.SEQSA))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	emit := make(chan tuner.IntermediateResult, 256)
	go drain(emit)
	best, err := s.Solve(p, 1, emit)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if !cat.Conforms(best.State) {
		t.Fatalf("best state %v does not conform", best.State)
	}
}

func TestSolveMIRReturnsBest(t *testing.T) {
	cat := testCatalog(t)
	eval := &scriptedEvaluator{energy: map[string]float64{"4": 1, "8": 100}}
	p := problem.New(cat, eval)
	s, err := solver.New(baseParams(tuner.MIR))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	emit := make(chan tuner.IntermediateResult, 1024)
	go drain(emit)
	best, err := s.Solve(p, 4, emit)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if !cat.Conforms(best.State) {
		t.Fatalf("best state %v does not conform", best.State)
	}
}

func TestSolveSPISAReturnsBest(t *testing.T) {
	cat := testCatalog(t)
	eval := &scriptedEvaluator{energy: map[string]float64{"4": 1, "8": 100}}
	p := problem.New(cat, eval)
	s, err := solver.New(baseParams(tuner.SPISA))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	emit := make(chan tuner.IntermediateResult, 4096)
	go drain(emit)
	best, err := s.Solve(p, 4, emit)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if !cat.Conforms(best.State) {
		t.Fatalf("best state %v does not conform", best.State)
	}
}

func TestSolvePRSAReturnsBest(t *testing.T) {
	cat := testCatalog(t)
	eval := &scriptedEvaluator{energy: map[string]float64{"4": 1, "8": 100}}
	p := problem.New(cat, eval)
	s, err := solver.New(baseParams(tuner.PRSA))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	emit := make(chan tuner.IntermediateResult, 8192)
	go drain(emit)
	best, err := s.Solve(p, 4, emit)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if best.State != nil && !cat.Conforms(best.State) {
		t.Fatalf("best state %v does not conform", best.State)
	}
}

func TestSolveFailsOnUnevaluableInitialState(t *testing.T) {
	cat := testCatalog(t)
	eval := &unmeasurableEvaluator{}
	p := problem.New(cat, eval)
	s, err := solver.New(baseParams(tuner.SEQSA))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	emit := make(chan tuner.IntermediateResult, 16)
	go drain(emit)
	_, err = s.Solve(p, 1, emit)
	if err == nil {
		t.Fatal("expected ErrInitialEvaluation")
	}
	var initErr *tuner.ErrInitialEvaluation
	if !errorsAs(err, &initErr) {
		t.Fatalf("err = %v, want *tuner.ErrInitialEvaluation", err)
	}
}

type unmeasurableEvaluator struct{}

func (unmeasurableEvaluator) Evaluate(s paramspace.State, workerID int) (float64, bool) {
	return 0, false
}

func errorsAs(err error, target **tuner.ErrInitialEvaluation) bool {
	e, ok := err.(*tuner.ErrInitialEvaluation)
	if ok {
		*target = e
	}
	return ok
}
