package cooler

import (
	"math"
	"testing"
)

func TestParamsValidate(t *testing.T) {
	if err := (Params{MinTemp: 0}).Validate(); err == nil {
		t.Fatal("expected error for min_temp <= 0")
	}
	if err := (Params{MinTemp: 0.1}).Validate(); err != nil {
		t.Fatalf("Validate() = %v, want nil", err)
	}
}

func TestNewRejectsInvalidParams(t *testing.T) {
	if _, err := New(Exponential, Params{MinTemp: -1}); err == nil {
		t.Fatal("expected error")
	}
}

func TestExponentialEndpoints(t *testing.T) {
	c, err := New(Exponential, Params{MaxSteps: 100, MinTemp: 0.1, MaxTemp: 10})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if got := c.AtStep(0); math.Abs(got-10) > 1e-9 {
		t.Fatalf("AtStep(0) = %v, want 10", got)
	}
	if got := c.AtStep(100); math.Abs(got-0.1) > 1e-9 {
		t.Fatalf("AtStep(maxSteps) = %v, want 0.1", got)
	}
}

func TestExponentialMonotonicDecreasing(t *testing.T) {
	c, err := New(Exponential, Params{MaxSteps: 100, MinTemp: 0.1, MaxTemp: 10})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	prev := c.AtStep(0)
	for k := 1; k <= 100; k++ {
		cur := c.AtStep(k)
		if cur > prev {
			t.Fatalf("temperature increased from %v to %v at step %d", prev, cur, k)
		}
		prev = cur
	}
}

func TestLinearEndpoints(t *testing.T) {
	c, err := New(Linear, Params{MaxSteps: 100, MinTemp: 1, MaxTemp: 10})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if got := c.AtStep(0); math.Abs(got-10) > 1e-9 {
		t.Fatalf("AtStep(0) = %v, want 10", got)
	}
	if got := c.AtStep(100); math.Abs(got-1) > 1e-9 {
		t.Fatalf("AtStep(maxSteps) = %v, want 1", got)
	}
	if got := c.AtStep(50); math.Abs(got-5.5) > 1e-9 {
		t.Fatalf("AtStep(50) = %v, want 5.5", got)
	}
}

func TestBasicExpNextDecaysByFixedRatio(t *testing.T) {
	c, err := New(BasicExp, Params{MinTemp: 0.1, MaxTemp: 10})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	next := c.Next(10, 0)
	if math.Abs(next-9.9) > 1e-9 {
		t.Fatalf("Next(10, 0) = %v, want 9.9", next)
	}
}

func TestInitialReturnsMaxTemp(t *testing.T) {
	c, err := New(Exponential, Params{MaxSteps: 10, MinTemp: 0.1, MaxTemp: 5})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if got := c.Initial(); got != 5 {
		t.Fatalf("Initial() = %v, want 5", got)
	}
}

func TestKindString(t *testing.T) {
	cases := map[Kind]string{Exponential: "exponential", Linear: "linear", BasicExp: "basic_exp", Kind(99): "unknown"}
	for k, want := range cases {
		if got := k.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", k, got, want)
		}
	}
}

func TestKindAndParamsAccessors(t *testing.T) {
	p := Params{MaxSteps: 10, MinTemp: 0.1, MaxTemp: 5}
	c, err := New(Linear, p)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if c.Kind() != Linear {
		t.Fatalf("Kind() = %v, want Linear", c.Kind())
	}
	if c.Params() != p {
		t.Fatalf("Params() = %v, want %v", c.Params(), p)
	}
}
