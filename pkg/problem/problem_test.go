package problem

import (
	"math/rand"
	"testing"

	"github.com/jihwankim/satuner/pkg/paramspace"
)

type fakeEvaluator struct {
	calls int
}

func (f *fakeEvaluator) Evaluate(s paramspace.State, workerID int) (float64, bool) {
	f.calls++
	return float64(len(s)), true
}

func testCatalog(t *testing.T) *paramspace.Catalog {
	t.Helper()
	cat, err := paramspace.NewCatalog([]paramspace.Descriptor{
		{Name: "threads", Kind: paramspace.KindInt, Int: paramspace.IntParam{Min: 1, Max: 4, Step: 1, Default: 2}},
	})
	if err != nil {
		t.Fatalf("NewCatalog: %v", err)
	}
	return cat
}

func TestProblemDelegatesToCatalog(t *testing.T) {
	cat := testCatalog(t)
	eval := &fakeEvaluator{}
	p := New(cat, eval)

	if p.Catalog() != cat {
		t.Fatal("Catalog() did not return the same catalog passed to New")
	}
	if !cat.Conforms(p.InitialState()) {
		t.Fatal("InitialState() does not conform")
	}
	rng := rand.New(rand.NewSource(1))
	if !cat.Conforms(p.RandomState(rng)) {
		t.Fatal("RandomState() does not conform")
	}
	pop := p.RandomPopulation(rng, 4)
	if len(pop) != 4 {
		t.Fatalf("len(RandomPopulation(4)) = %d, want 4", len(pop))
	}
	nbrs := p.NeighborhoodSpace(rng, p.InitialState())
	if len(nbrs) == 0 {
		t.Fatal("NeighborhoodSpace() returned no neighbors")
	}
	adaptive := p.AdaptiveNeighbor(rng, p.InitialState(), 100, 0)
	if !cat.Conforms(adaptive) {
		t.Fatal("AdaptiveNeighbor() does not conform")
	}
}

func TestProblemEnergyDelegatesToEvaluator(t *testing.T) {
	cat := testCatalog(t)
	eval := &fakeEvaluator{}
	p := New(cat, eval)

	v, ok := p.Energy(p.InitialState(), 3)
	if !ok {
		t.Fatal("Energy() returned ok=false")
	}
	if v != 1 {
		t.Fatalf("Energy() = %v, want 1 (len of a 1-param state)", v)
	}
	if eval.calls != 1 {
		t.Fatalf("evaluator called %d times, want 1", eval.calls)
	}
}
