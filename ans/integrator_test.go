package ans

import (
	"math"
	"testing"

	"github.com/Dobutamine/explain"
)

func TestIntegratorCombinesWeightedSensors(t *testing.T) {
	e := explain.NewEngine("test", "", 3.0, 0.02)
	aa := explain.NewBloodCompliance("AA", 0.02)
	e.Register(aa)

	s1 := NewSensor("s1", "AA.pres")
	s1.Initialize(e)
	s1.Output = 0.4
	e.Register(s1)

	s2 := NewSensor("s2", "AA.pres")
	s2.Initialize(e)
	s2.Output = 0.8
	e.Register(s2)

	si := NewSensorIntegrator("integ", []string{"s1", "s2"}, []float64{1, 1}, 0, 0.02)
	if err := si.Initialize(e); err != nil {
		t.Fatalf("initialize: %v", err)
	}

	si.Step()

	if math.Abs(si.Activity-1.2) > 1e-12 {
		t.Errorf("want weighted sum 1.2; got %f", si.Activity)
	}
}

func TestIntegratorSmoothsTowardTarget(t *testing.T) {
	e := explain.NewEngine("test", "", 3.0, 0.1)
	aa := explain.NewBloodCompliance("AA", 0.1)
	e.Register(aa)

	s1 := NewSensor("s1", "AA.pres")
	s1.Initialize(e)
	s1.Output = 1.0
	e.Register(s1)

	si := NewSensorIntegrator("integ", []string{"s1"}, nil, 1.0, 0.1)
	if err := si.Initialize(e); err != nil {
		t.Fatalf("initialize: %v", err)
	}

	si.Step()
	first := si.Activity
	si.Step()
	second := si.Activity

	if !(first > 0 && first < 1.0) {
		t.Errorf("want first step to move partway toward target; got %f", first)
	}
	if second <= first {
		t.Errorf("want activity to keep approaching target; first=%f second=%f", first, second)
	}
}

func TestIntegratorInitializeRejectsNonSensor(t *testing.T) {
	e := explain.NewEngine("test", "", 3.0, 0.1)
	aa := explain.NewBloodCompliance("AA", 0.1)
	e.Register(aa)

	si := NewSensorIntegrator("integ", []string{"AA"}, nil, 1.0, 0.1)
	if err := si.Initialize(e); err == nil {
		t.Error("want error initializing against a non-sensor component")
	}
}
