package energy

import (
	"math/rand"
	"testing"
)

func TestModeString(t *testing.T) {
	if Throughput.String() != "throughput" || Latency.String() != "latency" || Mode(99).String() != "unknown" {
		t.Fatal("Mode.String() mismatch")
	}
}

func TestDeltaThroughput(t *testing.T) {
	if got := Delta(Throughput, 10, 15); got != 5 {
		t.Fatalf("Delta(throughput, 10, 15) = %v, want 5", got)
	}
	if got := Delta(Throughput, 15, 10); got != -5 {
		t.Fatalf("Delta(throughput, 15, 10) = %v, want -5", got)
	}
}

func TestDeltaLatency(t *testing.T) {
	// lower latency is improvement, so a decrease must read as positive delta
	if got := Delta(Latency, 10, 5); got != 5 {
		t.Fatalf("Delta(latency, 10, 5) = %v, want 5", got)
	}
	if got := Delta(Latency, 5, 10); got != -5 {
		t.Fatalf("Delta(latency, 5, 10) = %v, want -5", got)
	}
}

func TestAcceptAlwaysAcceptsImprovement(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 20; i++ {
		if !Accept(rng, 1.0, 0.001) {
			t.Fatal("Accept rejected a strictly positive delta")
		}
	}
}

func TestAcceptNeverAcceptsAtNearZeroTemperature(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	accepted := false
	for i := 0; i < 1000; i++ {
		if Accept(rng, -1.0, 1e-6) {
			accepted = true
		}
	}
	if accepted {
		t.Fatal("Accept accepted a worsening move at near-zero temperature")
	}
}

func TestAcceptHighTemperatureAcceptsSomeWorseMoves(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	accepted := 0
	for i := 0; i < 1000; i++ {
		if Accept(rng, -0.1, 100) {
			accepted++
		}
	}
	if accepted == 0 {
		t.Fatal("Accept never accepted a mildly-worse move at high temperature")
	}
}

func TestAcceptWorseSymmetricAtZeroDelta(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	accepted := 0
	const n = 2000
	for i := 0; i < n; i++ {
		if AcceptWorse(rng, 0, 1) {
			accepted++
		}
	}
	frac := float64(accepted) / float64(n)
	if frac < 0.4 || frac > 0.6 {
		t.Fatalf("AcceptWorse(delta=0) accepted %.2f of samples, want ~0.5", frac)
	}
}
