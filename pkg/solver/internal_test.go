package solver

import (
	"math/rand"
	"testing"

	"github.com/jihwankim/satuner/pkg/energy"
	"github.com/jihwankim/satuner/pkg/paramspace"
	"github.com/jihwankim/satuner/pkg/tuner"
)

func TestRejectionThresholdDefaults(t *testing.T) {
	if got := rejectionThreshold(tuner.SEQSA, tuner.Params{}); got != defaultSEQSAThreshold {
		t.Fatalf("seqsa default = %d, want %d", got, defaultSEQSAThreshold)
	}
	if got := rejectionThreshold(tuner.SPISA, tuner.Params{}); got != defaultSPISAThreshold {
		t.Fatalf("spisa default = %d, want %d", got, defaultSPISAThreshold)
	}
	if got := rejectionThreshold(tuner.PRSA, tuner.Params{RejectionThreshold: 42}); got != 42 {
		t.Fatalf("override = %d, want 42", got)
	}
}

func TestIsBetter(t *testing.T) {
	if !isBetter(energy.Throughput, 10, 5) {
		t.Fatal("higher throughput should be better")
	}
	if isBetter(energy.Throughput, 5, 10) {
		t.Fatal("lower throughput should not be better")
	}
	if !isBetter(energy.Latency, 5, 10) {
		t.Fatal("lower latency should be better")
	}
	if isBetter(energy.Latency, 10, 5) {
		t.Fatal("higher latency should not be better")
	}
}

func TestEmitProbeNilChannelDoesNotPanic(t *testing.T) {
	emitProbe(nil, tuner.IntermediateResult{})
}

func TestEmitProbeSendsOnChannel(t *testing.T) {
	ch := make(chan tuner.IntermediateResult, 1)
	emitProbe(ch, tuner.IntermediateResult{Step: 5})
	got := <-ch
	if got.Step != 5 {
		t.Fatalf("received Step = %d, want 5", got.Step)
	}
}

func TestTrackSubsequentRejected(t *testing.T) {
	counter := 0
	trackSubsequentRejected(&counter, true, 1.0) // strict improvement resets
	if counter != 0 {
		t.Fatalf("counter = %d, want 0 after improvement", counter)
	}
	trackSubsequentRejected(&counter, false, -1.0) // rejection increments
	trackSubsequentRejected(&counter, false, -1.0)
	if counter != 2 {
		t.Fatalf("counter = %d, want 2 after two rejections", counter)
	}
	trackSubsequentRejected(&counter, true, -1.0) // lateral accept: no reset, no increment
	if counter != 2 {
		t.Fatalf("counter = %d, want unchanged at 2 after lateral accept", counter)
	}
}

func TestSnapshotBestIsIndependentCopy(t *testing.T) {
	s := paramspace.State{"a": "1"}
	snap := snapshotBest(s)
	snap["a"] = "2"
	if s["a"] != "1" {
		t.Fatal("mutating the snapshot leaked back into the original")
	}
}

func TestNewRNGDeterministicPerWorker(t *testing.T) {
	r1 := newRNG(123, 0)
	r2 := newRNG(123, 0)
	if r1.Int63() != r2.Int63() {
		t.Fatal("same seed and worker ID produced different sequences")
	}
	r3 := newRNG(123, 1)
	r4 := newRNG(123, 0)
	if r3.Int63() == r4.Int63() {
		t.Fatal("different worker IDs should not trivially collide on the first draw")
	}
}

func TestCrossoverProducesCompleteChildren(t *testing.T) {
	names := []string{"a", "b", "c", "d", "e"}
	p1 := paramspace.State{"a": "1", "b": "1", "c": "1", "d": "1", "e": "1"}
	p2 := paramspace.State{"a": "2", "b": "2", "c": "2", "d": "2", "e": "2"}
	c1, c2 := crossover(p1, p2, names)
	if len(c1) != 5 || len(c2) != 5 {
		t.Fatalf("children missing parameters: %v %v", c1, c2)
	}
	for _, n := range names {
		if c1[n] != p1[n] && c1[n] != p2[n] {
			t.Fatalf("child1[%s] = %q came from neither parent", n, c1[n])
		}
		if c2[n] != p1[n] && c2[n] != p2[n] {
			t.Fatalf("child2[%s] = %q came from neither parent", n, c2[n])
		}
	}
}

func TestMutateChangesExactlyOneParameter(t *testing.T) {
	cat, err := paramspace.NewCatalog([]paramspace.Descriptor{
		{Name: "a", Kind: paramspace.KindInt, Int: paramspace.IntParam{Min: 1, Max: 8, Step: 1, Default: 1}},
		{Name: "b", Kind: paramspace.KindInt, Int: paramspace.IntParam{Min: 1, Max: 8, Step: 1, Default: 1}},
	})
	if err != nil {
		t.Fatalf("NewCatalog: %v", err)
	}
	rng := rand.New(rand.NewSource(1))
	child := paramspace.State{"a": "1", "b": "1"}
	orig := child.Clone()
	mutate(rng, cat, child)
	diffs := 0
	for k, v := range child {
		if v != orig[k] {
			diffs++
		}
	}
	if diffs > 1 {
		t.Fatalf("mutate changed %d parameters, want at most 1", diffs)
	}
}

func TestRecombineUnmeasurableSidesNeverWin(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	a := paramspace.State{"x": "1"}
	b := paramspace.State{"x": "2"}

	got := recombine(rng, energy.Throughput, 1.0, a, 0, false, b, 10, true)
	if got.State == nil || !got.State.Equal(b) {
		t.Fatalf("recombine(a unmeasurable) = %v, want b", got)
	}

	got = recombine(rng, energy.Throughput, 1.0, a, 10, true, b, 0, false)
	if got.State == nil || !got.State.Equal(a) {
		t.Fatalf("recombine(b unmeasurable) = %v, want a", got)
	}

	got = recombine(rng, energy.Throughput, 1.0, a, 0, false, b, 0, false)
	if got.State != nil {
		t.Fatalf("recombine(both unmeasurable) = %v, want empty result", got)
	}
}

func TestChunkStatesDistributesEvenly(t *testing.T) {
	states := make([]paramspace.State, 9)
	for i := range states {
		states[i] = paramspace.State{"i": string(rune('a' + i))}
	}
	chunks := chunkStates(states, 3)
	if len(chunks) != 3 {
		t.Fatalf("len(chunks) = %d, want 3", len(chunks))
	}
	total := 0
	for _, c := range chunks {
		total += len(c)
	}
	if total != 9 {
		t.Fatalf("total chunked states = %d, want 9", total)
	}
}

func TestChunkStatesFewerStatesThanWorkers(t *testing.T) {
	states := make([]paramspace.State, 2)
	for i := range states {
		states[i] = paramspace.State{"i": string(rune('a' + i))}
	}
	chunks := chunkStates(states, 5)
	if len(chunks) != 5 {
		t.Fatalf("len(chunks) = %d, want 5", len(chunks))
	}
	total := 0
	for _, c := range chunks {
		total += len(c)
	}
	if total != 2 {
		t.Fatalf("total chunked states = %d, want 2", total)
	}
}
