package exchange

import (
	"testing"

	"github.com/Dobutamine/explain"
	"github.com/Dobutamine/explain/bloodgas"
)

func buildExchanger(t *testing.T) (*explain.Engine, *GasExchanger, *explain.GasCompliance, *explain.BloodCompliance) {
	t.Helper()
	e := explain.NewEngine("test", "", 3.0, 0.005)

	alv := explain.NewGasCompliance("ALV", 0.005)
	alv.Vol = 25
	alv.UVol = 20
	alv.ElBase = 10
	alv.Species["o2"] = &explain.GasSpecies{DryFraction: 0.14}
	alv.Species["co2"] = &explain.GasSpecies{DryFraction: 0.05}
	alv.Species["n2"] = &explain.GasSpecies{DryFraction: 0.81}
	alv.Step()
	e.Register(alv)

	cap := explain.NewBloodCompliance("CAP", 0.005)
	cap.Vol = 5
	cap.TO2 = 6.0
	cap.TCO2 = 26.0
	e.Register(cap)

	chem := bloodgas.NewBloodChemistry("cap_chem", "CAP", 0.005)
	chem.SID = 39
	chem.Albumin = 3.0
	chem.Phosphates = 1.3
	chem.UMA = 2.0
	chem.Hemoglobin = 16.0
	e.Register(chem)
	if err := chem.Initialize(e); err != nil {
		t.Fatalf("initialize chemistry: %v", err)
	}
	chem.Step()

	ex := NewGasExchanger("alv_cap", "ALV", "CAP", "cap_chem", 0.005)
	e.Register(ex)
	if err := ex.Initialize(e); err != nil {
		t.Fatalf("initialize exchanger: %v", err)
	}
	return e, ex, alv, cap
}

func TestGasExchangerMovesOxygenIntoBloodWhenGasRicher(t *testing.T) {
	_, ex, _, cap := buildExchanger(t)

	before := cap.TO2
	ex.Step()

	if cap.TO2 <= before {
		t.Errorf("want blood TO2 to rise when alveolar pO2 exceeds blood pO2; before=%f after=%f", before, cap.TO2)
	}
	if ex.FluxO2 <= 0 {
		t.Errorf("want positive o2 flux into blood; got %f", ex.FluxO2)
	}
}

func TestGasExchangerMovesCO2OutOfBlood(t *testing.T) {
	_, ex, _, cap := buildExchanger(t)

	before := cap.TCO2
	ex.Step()

	if cap.TCO2 >= before {
		t.Errorf("want blood TCO2 to fall as CO2 diffuses into the alveolus; before=%f after=%f", before, cap.TCO2)
	}
}

func TestGasExchangerUnresolvedIsNoOp(t *testing.T) {
	ex := NewGasExchanger("orphan", "missing_gas", "missing_blood", "missing_chem", 0.005)
	ex.Step()
	if ex.FluxO2 != 0 {
		t.Error("want zero flux for an unresolved exchanger")
	}
}
