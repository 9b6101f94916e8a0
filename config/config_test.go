package config

import (
	"strings"
	"testing"
)

const minimalModel = `{
  "name": "test_model",
  "description": "a minimal wiring fixture",
  "weight": 3.0,
  "modeling_stepsize": 0.001,
  "components": [
    {"name": "RA", "model_type": "TimeVaryingElastance", "u_vol": 10, "el_min": 0.05, "el_max": 0.5, "vol": 15},
    {"name": "RV", "model_type": "TimeVaryingElastance", "u_vol": 8, "el_min": 0.04, "el_max": 0.6, "vol": 12},
    {"name": "AA", "model_type": "BloodCompliance", "u_vol": 20, "el_base": 0.3, "el_k": 0.001, "vol": 25},
    {"name": "VEN", "model_type": "BloodCompliance", "u_vol": 100, "el_base": 0.02, "el_k": 0.0001, "vol": 120},
    {"name": "TRICUSPID", "model_type": "Resistor", "upstream": "VEN", "downstream": "RA", "r_for": 0.02, "r_back": 2.0},
    {"name": "PULMVALVE", "model_type": "Resistor", "upstream": "RV", "downstream": "AA", "r_for": 0.01, "r_back": 2.0},
    {"name": "ecg", "model_type": "Ecg", "heart_rate": 140, "av_delay": 0.05},
    {"name": "heart", "model_type": "Heart", "ecg": "ecg", "atrial_chambers": ["RA"], "ventricular_chambers": ["RV"], "atrial_duration": 0.08, "ventricular_duration": 0.25},
    {"name": "aa_chem", "model_type": "BloodChemistry", "target": "AA", "na": 140, "k": 4.5, "ca": 2.4, "mg": 0.85, "cl": 105, "lactate": 1, "urate": 0.3, "albumin": 3.0, "phosphates": 1.3, "uma": 2.0, "hemoglobin": 16.0},
    {"name": "ALV", "model_type": "GasCompliance", "u_vol": 0.05, "el_base": 500, "vol": 0.05, "species": {"o2": 0.21, "co2": 0.0004, "n2": 0.7896}},
    {"name": "alv_gas", "model_type": "GasProperties", "target": "ALV", "fio2": 0.3},
    {"name": "alv_exchange", "model_type": "GasExchanger", "gas_target": "ALV", "blood_target": "AA", "chemistry_target": "aa_chem", "do2": 0.02, "dco2": 0.4},
    {"name": "map_sensor", "model_type": "Sensor", "target": "AA.pres", "set_point": 55, "min_value": 0, "max_value": 1, "gain": 0.1},
    {"name": "map_integrator", "model_type": "SensorIntegrator", "sensors": ["map_sensor"], "weights": [1.0], "time_constant": 2.0},
    {"name": "map_effector", "model_type": "Effector", "integrator": "map_integrator", "target": "VEN.u_vol", "gain": -50, "baseline_value": 100, "mass_conservation_reservoir": "AA"},
    {"name": "pda", "model_type": "Pda", "upstream": "AA", "downstream": "VEN", "diameter": 2.5, "length": 8},
    {"name": "lymph", "model_type": "Lymphatics", "tissue": "VEN", "venous": "AA", "r_for": 1000, "pres_threshold": 5},
    {"name": "ecls", "model_type": "Ecls", "drain": "VEN", "return": "AA", "flow": 0.3, "is_enabled": false},
    {"name": "metabolism", "model_type": "Metabolism", "weight": 3.0, "vo2": 6.0, "rq": 0.8, "sites": {"VEN": 1.0}},
    {"name": "itp", "model_type": "IntrathoracicPressure", "targets": ["AA", "VEN"], "resp_rate": 40, "pressure_amplitude": 4},
    {"name": "vent", "model_type": "MechanicalVentilator", "y_piece": "ALV", "mode": "pc", "resp_rate": 40, "peep": 5, "pip": 15, "fio2": 0.3}
  ]
}`

func TestLoadBytesWiresFullModel(t *testing.T) {
	e, err := LoadBytes([]byte(minimalModel))
	if err != nil {
		t.Fatalf("LoadBytes: %v", err)
	}
	if e.Name != "test_model" {
		t.Errorf("want engine name test_model, got %s", e.Name)
	}
	if e.WeightKg != 3.0 {
		t.Errorf("want weight 3.0, got %f", e.WeightKg)
	}

	for _, name := range []string{"RA", "RV", "AA", "VEN", "TRICUSPID", "ecg", "heart", "aa_chem", "ALV", "vent"} {
		if _, err := e.GetComponent(name); err != nil {
			t.Errorf("component %s missing: %v", name, err)
		}
	}

	ecls, err := e.GetComponent("ecls")
	if err != nil {
		t.Fatalf("ecls missing: %v", err)
	}
	if ecls.Enabled() {
		t.Error("want ecls disabled per is_enabled: false")
	}

	e.Calculate(2.0)
}

func TestLoadBytesRejectsUnknownModelType(t *testing.T) {
	doc := `{"name":"x","weight":1,"modeling_stepsize":0.01,"components":[
		{"name":"mystery","model_type":"NotARealComponent"}
	]}`
	_, err := LoadBytes([]byte(doc))
	if err == nil || !strings.Contains(err.Error(), "unknown model_type") {
		t.Fatalf("want unknown model_type error, got %v", err)
	}
}

func TestLoadBytesRejectsDuplicateNames(t *testing.T) {
	doc := `{"name":"x","weight":1,"modeling_stepsize":0.01,"components":[
		{"name":"AA","model_type":"BloodCompliance","vol":10},
		{"name":"AA","model_type":"BloodCompliance","vol":20}
	]}`
	_, err := LoadBytes([]byte(doc))
	if err == nil {
		t.Fatal("want error on duplicate component name")
	}
}

func TestLoadBytesRejectsUnresolvedReference(t *testing.T) {
	doc := `{"name":"x","weight":1,"modeling_stepsize":0.01,"components":[
		{"name":"AA","model_type":"BloodCompliance","vol":10},
		{"name":"r1","model_type":"Resistor","upstream":"AA","downstream":"missing"}
	]}`
	_, err := LoadBytes([]byte(doc))
	if err == nil {
		t.Fatal("want error when a cross-reference names an unregistered component")
	}
}
