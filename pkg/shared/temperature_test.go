package shared

import (
	"math"
	"testing"

	"github.com/jihwankim/satuner/pkg/cooler"
)

func TestTemperatureCellStartsAtInitial(t *testing.T) {
	c, err := cooler.New(cooler.Exponential, cooler.Params{MaxSteps: 100, MinTemp: 0.1, MaxTemp: 10})
	if err != nil {
		t.Fatalf("cooler.New: %v", err)
	}
	cell := NewTemperatureCell(c)
	if got := cell.Read(); got != 10 {
		t.Fatalf("Read() = %v, want 10", got)
	}
	if cell.Kind() != cooler.Exponential {
		t.Fatalf("Kind() = %v, want Exponential", cell.Kind())
	}
}

func TestTemperatureCellUpdateAtStepExponential(t *testing.T) {
	c, err := cooler.New(cooler.Exponential, cooler.Params{MaxSteps: 100, MinTemp: 0.1, MaxTemp: 10})
	if err != nil {
		t.Fatalf("cooler.New: %v", err)
	}
	cell := NewTemperatureCell(c)
	got := cell.UpdateAtStep(100)
	if math.Abs(got-0.1) > 1e-9 {
		t.Fatalf("UpdateAtStep(100) = %v, want 0.1", got)
	}
	if cell.Read() != got {
		t.Fatal("Read() does not reflect the last UpdateAtStep()")
	}
}

func TestTemperatureCellUpdateAtStepBasicExpUsesCurrent(t *testing.T) {
	c, err := cooler.New(cooler.BasicExp, cooler.Params{MinTemp: 0.1, MaxTemp: 10})
	if err != nil {
		t.Fatalf("cooler.New: %v", err)
	}
	cell := NewTemperatureCell(c)
	first := cell.UpdateAtStep(1)
	second := cell.UpdateAtStep(2)
	if math.Abs(first-9.9) > 1e-9 {
		t.Fatalf("first UpdateAtStep = %v, want 9.9", first)
	}
	if math.Abs(second-9.801) > 1e-6 {
		t.Fatalf("second UpdateAtStep = %v, want 9.801", second)
	}
}
