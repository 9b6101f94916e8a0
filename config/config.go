// Package config loads a JSON model definition into a fully wired Engine:
// every component is built in a first pass, keyed off a "model_type"
// string exactly as the reference model's importlib-based dispatch
// selects a Python class, then every component's cross-references are
// resolved in a second pass. Grounded on ModelEngine.py.
package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/Dobutamine/explain"
	"github.com/Dobutamine/explain/ans"
	"github.com/Dobutamine/explain/bloodgas"
	"github.com/Dobutamine/explain/cardiac"
	"github.com/Dobutamine/explain/exchange"
	"github.com/Dobutamine/explain/gas"
	"github.com/Dobutamine/explain/ventilator"
)

// Document is the top-level shape of a model definition file.
type Document struct {
	Name        string            `json:"name"`
	Description string            `json:"description"`
	WeightKg    float64           `json:"weight"`
	Dt          float64           `json:"modeling_stepsize"`
	Components  []json.RawMessage `json:"components"`
}

type header struct {
	Name      string `json:"name"`
	ModelType string `json:"model_type"`
	IsEnabled *bool  `json:"is_enabled"`
}

type initializer func(e *explain.Engine) error

type builder func(raw json.RawMessage, dt float64) (explain.Component, initializer, error)

var registry = map[string]builder{
	"BloodCompliance":       buildBloodCompliance,
	"GasCompliance":         buildGasCompliance,
	"TimeVaryingElastance":  buildTimeVaryingElastance,
	"Resistor":              buildResistor,
	"Ecg":                   buildECG,
	"Heart":                 buildHeart,
	"BloodChemistry":        buildBloodChemistry,
	"GasProperties":         buildGasProperties,
	"GasExchanger":          buildGasExchanger,
	"Sensor":                buildSensor,
	"SensorIntegrator":      buildSensorIntegrator,
	"Effector":              buildEffector,
	"MechanicalVentilator":  buildVentilator,
	"IntrathoracicPressure": buildITP,
	"Metabolism":            buildMetabolism,
	"Pda":                   buildPda,
	"Ecls":                  buildEcls,
	"Lymphatics":            buildLymphatics,
}

// Load reads a JSON model definition file from disk and builds an Engine
// from it.
func Load(path string) (*explain.Engine, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return LoadBytes(data)
}

// LoadBytes builds an Engine from an in-memory JSON model definition.
func LoadBytes(data []byte) (*explain.Engine, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("config: decoding document: %w", err)
	}
	e := explain.NewEngine(doc.Name, doc.Description, doc.WeightKg, doc.Dt)

	var pending []initializer
	for _, raw := range doc.Components {
		var h header
		if err := json.Unmarshal(raw, &h); err != nil {
			return nil, fmt.Errorf("config: decoding component header: %w", err)
		}
		build, ok := registry[h.ModelType]
		if !ok {
			e.Log.Errorf("%s model not found in the component registry", h.ModelType)
			return nil, fmt.Errorf("config: unknown model_type %q for component %q", h.ModelType, h.Name)
		}
		component, init, err := build(raw, doc.Dt)
		if err != nil {
			e.Log.Errorf("%s failed to build: %v", h.Name, err)
			return nil, fmt.Errorf("config: building component %q: %w", h.Name, err)
		}
		if h.IsEnabled != nil {
			component.SetEnabled(*h.IsEnabled)
		}
		if err := e.Register(component); err != nil {
			return nil, err
		}
		if init != nil {
			pending = append(pending, init)
		}
	}

	for _, init := range pending {
		if err := init(e); err != nil {
			e.Log.Errorf("%s model failed to load correctly: %v", e.Name, err)
			return nil, fmt.Errorf("config: initializing component: %w", err)
		}
	}
	e.Log.Infof("%s model loaded and initialized correctly", e.Name)
	return e, nil
}

func buildBloodCompliance(raw json.RawMessage, dt float64) (explain.Component, initializer, error) {
	var def struct {
		header
		UVol             float64 `json:"u_vol"`
		ElBase           float64 `json:"el_base"`
		ElK              float64 `json:"el_k"`
		PAtm             float64 `json:"p_atm"`
		Vol              float64 `json:"vol"`
		FixedComposition bool    `json:"fixed_composition"`
	}
	if err := json.Unmarshal(raw, &def); err != nil {
		return nil, nil, err
	}
	c := explain.NewBloodCompliance(def.Name, dt)
	c.UVol = def.UVol
	c.ElBase = def.ElBase
	c.ElK = def.ElK
	if def.PAtm != 0 {
		c.PAtm = def.PAtm
	}
	c.Vol = def.Vol
	c.FixedComposition = def.FixedComposition
	return c, nil, nil
}

func buildGasCompliance(raw json.RawMessage, dt float64) (explain.Component, initializer, error) {
	var def struct {
		header
		UVol             float64            `json:"u_vol"`
		ElBase           float64            `json:"el_base"`
		ElK              float64            `json:"el_k"`
		Vol              float64            `json:"vol"`
		Species          map[string]float64 `json:"species"`
		FixedComposition bool               `json:"fixed_composition"`
	}
	if err := json.Unmarshal(raw, &def); err != nil {
		return nil, nil, err
	}
	c := explain.NewGasCompliance(def.Name, dt)
	c.UVol = def.UVol
	c.ElBase = def.ElBase
	c.ElK = def.ElK
	c.Vol = def.Vol
	c.FixedComposition = def.FixedComposition
	for species, frac := range def.Species {
		c.Species[species] = &explain.GasSpecies{DryFraction: frac}
	}
	return c, nil, nil
}

func buildTimeVaryingElastance(raw json.RawMessage, dt float64) (explain.Component, initializer, error) {
	var def struct {
		header
		UVol  float64 `json:"u_vol"`
		ElMin float64 `json:"el_min"`
		ElMax float64 `json:"el_max"`
		ElK   float64 `json:"el_k"`
		ElKFac float64 `json:"el_k_fac"`
		Vol   float64 `json:"vol"`
	}
	if err := json.Unmarshal(raw, &def); err != nil {
		return nil, nil, err
	}
	c := explain.NewTimeVaryingElastance(def.Name, dt)
	c.UVol = def.UVol
	c.ElMin = def.ElMin
	c.ElMax = def.ElMax
	c.ElK = def.ElK
	if def.ElKFac != 0 {
		c.ElKFac = def.ElKFac
	}
	c.Vol = def.Vol
	return c, nil, nil
}

func buildResistor(raw json.RawMessage, dt float64) (explain.Component, initializer, error) {
	var def struct {
		header
		Upstream   string  `json:"upstream"`
		Downstream string  `json:"downstream"`
		RFor       float64 `json:"r_for"`
		RBack      float64 `json:"r_back"`
		RK         float64 `json:"r_k"`
		NoFlow     bool    `json:"no_flow"`
		NoBackFlow bool    `json:"no_backflow"`
	}
	if err := json.Unmarshal(raw, &def); err != nil {
		return nil, nil, err
	}
	r := explain.NewResistor(def.Name, def.Upstream, def.Downstream, dt)
	r.RFor = def.RFor
	r.RBack = def.RBack
	r.RK = def.RK
	r.NoFlow = def.NoFlow
	r.NoBackFlow = def.NoBackFlow
	return r, r.Initialize, nil
}

func buildECG(raw json.RawMessage, dt float64) (explain.Component, initializer, error) {
	var def struct {
		header
		HeartRate float64 `json:"heart_rate"`
		AVDelay   float64 `json:"av_delay"`
	}
	if err := json.Unmarshal(raw, &def); err != nil {
		return nil, nil, err
	}
	c := cardiac.NewECG(def.Name, def.HeartRate, dt)
	if def.AVDelay != 0 {
		c.AVDelay = def.AVDelay
	}
	return c, nil, nil
}

func buildHeart(raw json.RawMessage, dt float64) (explain.Component, initializer, error) {
	var def struct {
		header
		Ecg                 string   `json:"ecg"`
		AtrialChambers      []string `json:"atrial_chambers"`
		VentricularChambers []string `json:"ventricular_chambers"`
		AtrialDuration      float64  `json:"atrial_duration"`
		VentricularDuration float64  `json:"ventricular_duration"`
	}
	if err := json.Unmarshal(raw, &def); err != nil {
		return nil, nil, err
	}
	h := cardiac.NewHeart(def.Name, def.Ecg, def.AtrialChambers, def.VentricularChambers, dt)
	if def.AtrialDuration != 0 {
		h.AtrialDuration = def.AtrialDuration
	}
	if def.VentricularDuration != 0 {
		h.VentricularDuration = def.VentricularDuration
	}
	return h, h.Initialize, nil
}

func buildBloodChemistry(raw json.RawMessage, dt float64) (explain.Component, initializer, error) {
	var def struct {
		header
		Target     string  `json:"target"`
		Na         float64 `json:"na"`
		K          float64 `json:"k"`
		Ca         float64 `json:"ca"`
		Mg         float64 `json:"mg"`
		Cl         float64 `json:"cl"`
		Lactate    float64 `json:"lactate"`
		Urate      float64 `json:"urate"`
		Albumin    float64 `json:"albumin"`
		Phosphates float64 `json:"phosphates"`
		UMA        float64 `json:"uma"`
		Hemoglobin float64 `json:"hemoglobin"`
		DPG        float64 `json:"dpg"`
	}
	if err := json.Unmarshal(raw, &def); err != nil {
		return nil, nil, err
	}
	c := bloodgas.NewBloodChemistry(def.Name, def.Target, dt)
	if def.Na != 0 {
		c.Na = def.Na
	}
	if def.K != 0 {
		c.K = def.K
	}
	if def.Ca != 0 {
		c.Ca = def.Ca
	}
	if def.Mg != 0 {
		c.Mg = def.Mg
	}
	if def.Cl != 0 {
		c.Cl = def.Cl
	}
	if def.Lactate != 0 {
		c.Lactate = def.Lactate
	}
	if def.Urate != 0 {
		c.Urate = def.Urate
	}
	c.Albumin = def.Albumin
	c.Phosphates = def.Phosphates
	c.UMA = def.UMA
	c.Hemoglobin = def.Hemoglobin
	if def.DPG != 0 {
		c.DPG = def.DPG
	}
	return c, c.Initialize, nil
}

func buildGasProperties(raw json.RawMessage, dt float64) (explain.Component, initializer, error) {
	var def struct {
		header
		Target string  `json:"target"`
		FiO2   float64 `json:"fio2"`
	}
	if err := json.Unmarshal(raw, &def); err != nil {
		return nil, nil, err
	}
	p := gas.NewProperties(def.Name, def.Target)
	if def.FiO2 != 0 {
		p.FiO2 = def.FiO2
	}
	return p, p.Initialize, nil
}

func buildGasExchanger(raw json.RawMessage, dt float64) (explain.Component, initializer, error) {
	var def struct {
		header
		GasTarget       string  `json:"gas_target"`
		BloodTarget     string  `json:"blood_target"`
		ChemistryTarget string  `json:"chemistry_target"`
		DO2             float64 `json:"do2"`
		DCO2            float64 `json:"dco2"`
	}
	if err := json.Unmarshal(raw, &def); err != nil {
		return nil, nil, err
	}
	g := exchange.NewGasExchanger(def.Name, def.GasTarget, def.BloodTarget, def.ChemistryTarget, dt)
	if def.DO2 != 0 {
		g.DO2 = def.DO2
	}
	if def.DCO2 != 0 {
		g.DCO2 = def.DCO2
	}
	return g, g.Initialize, nil
}

func buildSensor(raw json.RawMessage, dt float64) (explain.Component, initializer, error) {
	var def struct {
		header
		Target   string  `json:"target"`
		SetPoint float64 `json:"set_point"`
		MinValue float64 `json:"min_value"`
		MaxValue float64 `json:"max_value"`
		Gain     float64 `json:"gain"`
	}
	if err := json.Unmarshal(raw, &def); err != nil {
		return nil, nil, err
	}
	s := ans.NewSensor(def.Name, def.Target)
	s.SetPoint = def.SetPoint
	s.MinValue = def.MinValue
	if def.MaxValue != 0 {
		s.MaxValue = def.MaxValue
	}
	if def.Gain != 0 {
		s.Gain = def.Gain
	}
	return s, s.Initialize, nil
}

func buildSensorIntegrator(raw json.RawMessage, dt float64) (explain.Component, initializer, error) {
	var def struct {
		header
		Sensors      []string  `json:"sensors"`
		Weights      []float64 `json:"weights"`
		TimeConstant float64   `json:"time_constant"`
	}
	if err := json.Unmarshal(raw, &def); err != nil {
		return nil, nil, err
	}
	si := ans.NewSensorIntegrator(def.Name, def.Sensors, def.Weights, def.TimeConstant, dt)
	return si, si.Initialize, nil
}

func buildEffector(raw json.RawMessage, dt float64) (explain.Component, initializer, error) {
	var def struct {
		header
		Integrator                string  `json:"integrator"`
		Target                    string  `json:"target"`
		Gain                      float64 `json:"gain"`
		BaselineValue             float64 `json:"baseline_value"`
		BaselineActivity          float64 `json:"baseline_activity"`
		MassConservationReservoir string  `json:"mass_conservation_reservoir"`
	}
	if err := json.Unmarshal(raw, &def); err != nil {
		return nil, nil, err
	}
	ef := ans.NewEffector(def.Name, def.Integrator, def.Target)
	ef.Gain = def.Gain
	ef.BaselineValue = def.BaselineValue
	ef.BaselineActivity = def.BaselineActivity
	ef.MassConservationReservoir = def.MassConservationReservoir
	return ef, ef.Initialize, nil
}

func buildVentilator(raw json.RawMessage, dt float64) (explain.Component, initializer, error) {
	var def struct {
		header
		YPiece            string  `json:"y_piece"`
		Mode              string  `json:"mode"`
		RespRate          float64 `json:"resp_rate"`
		IERatio           float64 `json:"ie_ratio"`
		PEEP              float64 `json:"peep"`
		PIP               float64 `json:"pip"`
		FiO2              float64 `json:"fio2"`
		TidalVolumeTarget float64 `json:"tidal_volume_target"`
		MaxPip            float64 `json:"max_pip"`
		HFOVMeanPressure  float64 `json:"hfov_mean_pressure"`
		HFOVAmplitude     float64 `json:"hfov_amplitude"`
		HFOVFrequency     float64 `json:"hfov_frequency"`
	}
	if err := json.Unmarshal(raw, &def); err != nil {
		return nil, nil, err
	}
	v := ventilator.NewMechanicalVentilator(def.Name, def.YPiece, dt)
	switch def.Mode {
	case "vc":
		v.Mode = ventilator.ModeVC
	case "prvc":
		v.Mode = ventilator.ModePRVC
	case "hfov":
		v.Mode = ventilator.ModeHFOV
	default:
		v.Mode = ventilator.ModePC
	}
	if def.RespRate != 0 {
		v.RespRate = def.RespRate
	}
	if def.IERatio != 0 {
		v.IERatio = def.IERatio
	}
	if def.PEEP != 0 {
		v.PEEP = def.PEEP
	}
	if def.PIP != 0 {
		v.Pip = def.PIP
	}
	if def.FiO2 != 0 {
		v.SetProperty("fio2", def.FiO2)
	}
	if def.TidalVolumeTarget != 0 {
		v.TidalVolumeTargetMl = def.TidalVolumeTarget
	}
	if def.MaxPip != 0 {
		v.MaxPip = def.MaxPip
	}
	if def.HFOVMeanPressure != 0 {
		v.HFOVMeanPressure = def.HFOVMeanPressure
	}
	if def.HFOVAmplitude != 0 {
		v.HFOVAmplitude = def.HFOVAmplitude
	}
	if def.HFOVFrequency != 0 {
		v.HFOVFrequencyHz = def.HFOVFrequency
	}
	return v, v.Initialize, nil
}

func buildITP(raw json.RawMessage, dt float64) (explain.Component, initializer, error) {
	var def struct {
		header
		Targets           []string `json:"targets"`
		RespRate          float64  `json:"resp_rate"`
		PressureAmplitude float64  `json:"pressure_amplitude"`
	}
	if err := json.Unmarshal(raw, &def); err != nil {
		return nil, nil, err
	}
	i := explain.NewIntrathoracicPressure(def.Name, def.Targets, dt)
	i.RespRate = def.RespRate
	i.PressureAmplitude = def.PressureAmplitude
	return i, i.Initialize, nil
}

func buildMetabolism(raw json.RawMessage, dt float64) (explain.Component, initializer, error) {
	var def struct {
		header
		WeightKg float64            `json:"weight"`
		VO2      float64            `json:"vo2"`
		RQ       float64            `json:"rq"`
		Sites    map[string]float64 `json:"sites"`
	}
	if err := json.Unmarshal(raw, &def); err != nil {
		return nil, nil, err
	}
	m := explain.NewMetabolism(def.Name, def.WeightKg, dt)
	m.VO2 = def.VO2
	if def.RQ != 0 {
		m.RQ = def.RQ
	}
	m.SiteWeights = def.Sites
	return m, m.Initialize, nil
}

func buildPda(raw json.RawMessage, dt float64) (explain.Component, initializer, error) {
	var def struct {
		header
		Upstream   string  `json:"upstream"`
		Downstream string  `json:"downstream"`
		DiameterMm float64 `json:"diameter"`
		LengthMm   float64 `json:"length"`
	}
	if err := json.Unmarshal(raw, &def); err != nil {
		return nil, nil, err
	}
	p := explain.NewPda(def.Name, def.Upstream, def.Downstream, dt)
	p.DiameterMm = def.DiameterMm
	if def.LengthMm != 0 {
		p.LengthMm = def.LengthMm
	}
	return p, p.Initialize, nil
}

func buildEcls(raw json.RawMessage, dt float64) (explain.Component, initializer, error) {
	var def struct {
		header
		Drain    string  `json:"drain"`
		Return   string  `json:"return"`
		FlowLMin float64 `json:"flow"`
	}
	if err := json.Unmarshal(raw, &def); err != nil {
		return nil, nil, err
	}
	c := explain.NewEcls(def.Name, def.Drain, def.Return, dt)
	c.FlowLMin = def.FlowLMin
	return c, c.Initialize, nil
}

func buildLymphatics(raw json.RawMessage, dt float64) (explain.Component, initializer, error) {
	var def struct {
		header
		Tissue        string  `json:"tissue"`
		Venous        string  `json:"venous"`
		RFor          float64 `json:"r_for"`
		PresThreshold float64 `json:"pres_threshold"`
	}
	if err := json.Unmarshal(raw, &def); err != nil {
		return nil, nil, err
	}
	l := explain.NewLymphatics(def.Name, def.Tissue, def.Venous, dt)
	l.RFor = def.RFor
	l.PresThreshold = def.PresThreshold
	return l, l.Initialize, nil
}
