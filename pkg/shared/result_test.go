package shared

import (
	"sync"
	"testing"

	"github.com/jihwankim/satuner/pkg/paramspace"
)

func TestResultCollectorPushDrain(t *testing.T) {
	c := NewResultCollector()
	if c.Len() != 0 {
		t.Fatalf("Len() = %d, want 0", c.Len())
	}
	c.Push(MrResult{Energy: 1.0, State: paramspace.State{"a": "1"}})
	c.Push(MrResult{Energy: 2.0, State: paramspace.State{"a": "2"}})
	if c.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", c.Len())
	}
	results := c.Drain()
	if len(results) != 2 {
		t.Fatalf("Drain() returned %d results, want 2", len(results))
	}
	if c.Len() != 0 {
		t.Fatal("Drain() did not reset the collector")
	}
	if got := c.Drain(); got != nil {
		t.Fatalf("Drain() on empty collector = %v, want nil", got)
	}
}

func TestResultCollectorConcurrentPush(t *testing.T) {
	c := NewResultCollector()
	var wg sync.WaitGroup
	const n = 100
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func(i int) {
			defer wg.Done()
			c.Push(MrResult{Energy: float64(i)})
		}(i)
	}
	wg.Wait()
	if c.Len() != n {
		t.Fatalf("Len() = %d, want %d", c.Len(), n)
	}
}
