// Package bloodgas implements the blood acid-base and oxygenation solvers
// that turn a BloodCompliance's conserved totals (TO2, TCO2) into
// physiological readouts (pH, pCO2, pO2, sO2) and back, by inverting the
// Stewart/Figge-Fencl charge balance and the oxyhemoglobin dissociation
// curve with Brent's method. Grounded on Blood.py.
package bloodgas

import (
	"fmt"
	"math"

	"github.com/Dobutamine/explain"
	"github.com/Dobutamine/explain/brent"
	"github.com/Dobutamine/explain/helpers"
)

// Acid-base equilibrium constants, all scaled by 1e3 so they stay
// dimensionally consistent with a hydrogen-ion concentration solved on the
// same mmol/L*1e-3 scale. Grounded on Blood.py's netcharge constants.
var (
	kw = math.Pow(10, -13.6) * 1e3
	kc = math.Pow(10, -6.1) * 1e3
	kd = math.Pow(10, -10.22) * 1e3
)

const alphaCO2 = 0.03067

// BloodChemistry computes the acid-base and oxygenation state of one blood
// compartment once per tick, reading its TO2/TCO2 totals and writing back
// pH, pCO2, HCO3, CO3, BE, pO2 and sO2.
type BloodChemistry struct {
	NameField string
	IsEnabled bool

	Target string
	target *explain.BloodCompliance

	// Strong-ion inputs, mEq/L, from which SID is recomputed every tick:
	// SID = Na + K + 2*Ca + 2*Mg - Cl - Lactate - Urate.
	Na      float64
	K       float64
	Ca      float64
	Mg      float64
	Cl      float64
	Lactate float64
	Urate   float64
	SID     float64 // derived, not settable directly

	Albumin    float64 // g/dL
	Phosphates float64 // mmol/L
	UMA        float64
	TempCelsius float64

	// Oxygenation inputs.
	Hemoglobin float64 // g/dL
	DPG        float64 // mmol/L, baseline 5

	// Solved state, set each tick.
	PH   float64
	PCO2 float64
	HCO3 float64
	CO3  float64
	BE   float64
	PO2  float64
	SO2  float64

	// tco2Guess holds the total CO2 currently being solved for while
	// netCharge is in use as a brent.Func; it is a field rather than a
	// closure capture so netCharge keeps a stable method value.
	tco2Guess float64

	MaxIter   int
	Tolerance float64

	dt float64
}

// NewBloodChemistry builds a solver targeting the named blood compartment,
// with electrolyte defaults typical of a term neonate. Call Initialize once
// the compartment has been registered.
func NewBloodChemistry(name, target string, dt float64) *BloodChemistry {
	return &BloodChemistry{
		NameField:   name,
		IsEnabled:   true,
		Target:      target,
		Na:          140,
		K:           4.5,
		Ca:          2.4,
		Mg:          0.85,
		Cl:          105,
		Lactate:     1,
		Urate:       0.3,
		TempCelsius: 37,
		DPG:         5,
		MaxIter:     100,
		Tolerance:   1e-8,
		dt:          dt,
	}
}

func (b *BloodChemistry) Name() string           { return b.NameField }
func (b *BloodChemistry) Enabled() bool          { return b.IsEnabled }
func (b *BloodChemistry) SetEnabled(enabled bool) { b.IsEnabled = enabled }
func (b *BloodChemistry) Capability() explain.Capability { return explain.CapChemistry }

// Initialize resolves the target compartment against the engine registry.
func (b *BloodChemistry) Initialize(e *explain.Engine) error {
	c, err := e.GetComponent(b.Target)
	if err != nil {
		return err
	}
	bc, ok := c.(*explain.BloodCompliance)
	if !ok {
		return fmt.Errorf("bloodgas: %s is not a blood compliance", b.Target)
	}
	b.target = bc
	return nil
}

// Step recomputes the apparent strong-ion difference from the current
// electrolyte inputs, solves acid-base state from the target's TCO2, then
// oxygenation state from its TO2, leaving the compartment's totals
// untouched: this component only derives readouts, it never itself moves
// mass.
func (b *BloodChemistry) Step() {
	if b.target == nil {
		return
	}
	b.SID = b.Na + b.K + 2*b.Ca + 2*b.Mg - b.Cl - b.Lactate - b.Urate
	b.solveAcidBase(b.target.TCO2)
	b.solveOxygenation(b.target.TO2)
}

// netCharge is the Stewart/Figge-Fencl strong-ion/weak-acid charge balance
// evaluated at a candidate hydrogen-ion concentration h (mmol/L*1e-3 scale);
// Brent drives it to zero. Grounded on Blood.py's netcharge(h).
func (b *BloodChemistry) netCharge(h float64) float64 {
	co2p := b.tco2Guess / (1 + kc/h + kc*kd/(h*h))
	hco3 := kc * co2p / h
	co3 := kd * hco3 / h
	oh := kw / h

	ph := -math.Log10(h / 1000)
	aMinus := b.Albumin*(0.123*ph-0.631) + b.Phosphates*(0.309*ph-0.469)

	return h + b.SID - hco3 - 2*co3 - oh - aMinus - b.UMA
}

func (b *BloodChemistry) solveAcidBase(tco2 float64) {
	b.tco2Guess = tco2
	lo := math.Pow(10, -7.8) * 1000
	hi := math.Pow(10, -6.8) * 1000
	h, err := brent.Find(b.netCharge, lo, hi, b.MaxIter, b.Tolerance)
	if err != nil {
		return
	}

	ph := -math.Log10(h / 1000)
	co2p := tco2 / (1 + kc/h + kc*kd/(h*h))
	hco3 := kc * co2p / h
	co3 := kd * hco3 / h

	b.PH = ph
	b.PCO2 = co2p / alphaCO2
	b.HCO3 = hco3
	b.CO3 = co3
	b.BE = (hco3 - 24.4 + (2.3*b.Hemoglobin+7.7)*(ph-7.4)) * (1 - 0.023*b.Hemoglobin)
}

// dissociation evaluates the Dash/Bassingthwaighte oxyhemoglobin
// dissociation curve at a candidate pO2 (kPa), shifted by the current pH,
// base excess, temperature and 2,3-DPG. Grounded on Blood.py's
// oxygen_dissociation_curve.
func (b *BloodChemistry) dissociation(po2KPa float64) float64 {
	a := 1.04*(7.4-b.PH) + 0.005*b.BE + 0.07*(b.DPG-5)
	bb := 0.055 * (b.TempCelsius + 273.15 - 310.15)
	const (
		y0 = 1.875
		k  = 0.5343
	)
	x0 := 1.875 + a + bb
	h0 := 3.5 + a

	lnP := math.Log(po2KPa)
	y := lnP - x0 + h0*math.Tanh(k*(lnP-x0)) + y0
	return 1.0 / (math.Exp(-y) + 1)
}

// oxygenContent returns the total oxygen content (mmol/L) carried at a
// candidate pO2 (kPa), combining hemoglobin-bound and physically dissolved
// oxygen. Grounded on Blood.py's oxygen_content.
func (b *BloodChemistry) oxygenContent(po2KPa float64) float64 {
	so2 := b.dissociation(po2KPa)
	po2MmHg := po2KPa / 0.1333
	return (0.0031*po2MmHg + 1.36*(b.Hemoglobin/0.6206)*so2) * 10 / 22.2674
}

func (b *BloodChemistry) solveOxygenation(to2 float64) {
	f := func(po2KPa float64) float64 {
		return b.oxygenContent(po2KPa) - to2
	}
	po2KPa, err := brent.Find(f, 0.01, 100, b.MaxIter, b.Tolerance)
	if err != nil {
		return
	}
	b.PO2 = po2KPa / 0.1333
	b.SO2 = helpers.Clamp0(b.dissociation(po2KPa))
}

func (b *BloodChemistry) Property(name string) (float64, bool) {
	switch name {
	case "sid":
		return b.SID, true
	case "na":
		return b.Na, true
	case "k":
		return b.K, true
	case "ca":
		return b.Ca, true
	case "mg":
		return b.Mg, true
	case "cl":
		return b.Cl, true
	case "lactate":
		return b.Lactate, true
	case "urate":
		return b.Urate, true
	case "albumin":
		return b.Albumin, true
	case "phosphates":
		return b.Phosphates, true
	case "uma":
		return b.UMA, true
	case "hemoglobin":
		return b.Hemoglobin, true
	case "dpg":
		return b.DPG, true
	case "ph":
		return b.PH, true
	case "pco2":
		return b.PCO2, true
	case "hco3":
		return b.HCO3, true
	case "cco3":
		return b.CO3, true
	case "be":
		return b.BE, true
	case "po2":
		return b.PO2, true
	case "so2":
		return b.SO2, true
	}
	return 0, false
}

func (b *BloodChemistry) SetProperty(name string, value float64) bool {
	switch name {
	case "na":
		b.Na = value
	case "k":
		b.K = value
	case "ca":
		b.Ca = value
	case "mg":
		b.Mg = value
	case "cl":
		b.Cl = value
	case "lactate":
		b.Lactate = value
	case "urate":
		b.Urate = value
	case "albumin":
		b.Albumin = value
	case "phosphates":
		b.Phosphates = value
	case "uma":
		b.UMA = value
	case "hemoglobin":
		b.Hemoglobin = value
	case "dpg":
		b.DPG = value
	default:
		return false
	}
	return true
}
