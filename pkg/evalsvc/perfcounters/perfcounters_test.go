package perfcounters

import (
	"context"
	"testing"
	"time"
)

func TestStartEmitsSamples(t *testing.T) {
	s := &Sampler{
		Command:  []string{"/bin/sh", "-c", "echo 1.5"},
		Interval: 20 * time.Millisecond,
	}
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	samples := s.Start(ctx)
	var got []Sample
	for sample := range samples {
		got = append(got, sample)
	}
	if len(got) == 0 {
		t.Fatal("expected at least one sample before the context expired")
	}
	for _, sample := range got {
		if sample.CPUTimeS != 1.5 {
			t.Fatalf("Sample.CPUTimeS = %v, want 1.5", sample.CPUTimeS)
		}
		if sample.Raw != "1.5" {
			t.Fatalf("Sample.Raw = %q, want %q", sample.Raw, "1.5")
		}
	}
}

func TestStartStopsWhenContextCancelled(t *testing.T) {
	s := &Sampler{
		Command:  []string{"/bin/sh", "-c", "echo 1"},
		Interval: 10 * time.Millisecond,
	}
	ctx, cancel := context.WithCancel(context.Background())
	samples := s.Start(ctx)
	cancel()

	select {
	case _, ok := <-samples:
		if ok {
			// Draining any buffered samples is fine; the channel must
			// eventually close.
			for range samples {
			}
		}
	case <-time.After(2 * time.Second):
		t.Fatal("channel did not close promptly after context cancellation")
	}
}

func TestStartSkipsUnparsableSamples(t *testing.T) {
	s := &Sampler{
		Command:  []string{"/bin/sh", "-c", "echo not-a-number"},
		Interval: 20 * time.Millisecond,
	}
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	samples := s.Start(ctx)
	count := 0
	for range samples {
		count++
	}
	if count != 0 {
		t.Fatalf("got %d samples from an unparsable command, want 0", count)
	}
}

func TestStartDefaultsIntervalAndBufSize(t *testing.T) {
	s := &Sampler{Command: []string{"/bin/true"}}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	out := s.Start(ctx)
	if cap(out) != 16 {
		t.Fatalf("channel capacity = %d, want default 16", cap(out))
	}
}
