package gas

import (
	"testing"

	"github.com/Dobutamine/explain"
)

func TestInitializeSeedsDryFractions(t *testing.T) {
	e := explain.NewEngine("test", "", 3.0, 0.005)
	compartment := explain.NewGasCompliance("ALV", 0.005)
	e.Register(compartment)

	p := NewProperties("alv_gas", "ALV")
	p.FiO2 = 0.21
	if err := p.Initialize(e); err != nil {
		t.Fatalf("initialize: %v", err)
	}

	o2 := compartment.Species["o2"]
	if o2.DryFraction != 0.21 {
		t.Errorf("want dry o2 fraction 0.21; got %f", o2.DryFraction)
	}
	n2 := compartment.Species["n2"]
	sum := o2.DryFraction + compartment.Species["co2"].DryFraction + n2.DryFraction
	if sum < 0.9999 || sum > 1.0001 {
		t.Errorf("want dry fractions to sum to 1; got %f", sum)
	}
}

func TestStepReappliesOnFiO2Change(t *testing.T) {
	e := explain.NewEngine("test", "", 3.0, 0.005)
	compartment := explain.NewGasCompliance("ALV", 0.005)
	e.Register(compartment)

	p := NewProperties("alv_gas", "ALV")
	if err := p.Initialize(e); err != nil {
		t.Fatalf("initialize: %v", err)
	}

	p.FiO2 = 1.0
	p.Step()

	if compartment.Species["o2"].DryFraction != 1.0 {
		t.Errorf("want dry o2 fraction updated to 1.0; got %f", compartment.Species["o2"].DryFraction)
	}
}

func TestInitializeRejectsNonGasTarget(t *testing.T) {
	e := explain.NewEngine("test", "", 3.0, 0.005)
	blood := explain.NewBloodCompliance("AA", 0.005)
	e.Register(blood)

	p := NewProperties("bad", "AA")
	if err := p.Initialize(e); err == nil {
		t.Error("want error initializing against a non-gas compartment")
	}
}
