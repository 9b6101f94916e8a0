package cardiac

import (
	"fmt"
	"math"

	"github.com/Dobutamine/explain"
)

// chamber is the minimal surface Heart needs from a cardiac chamber.
type chamber interface {
	explain.Component
	SetActivationFactor(factor float64)
}

// Heart reads an ECG's atrial and ventricular cycle clocks and drives every
// wired chamber's activation factor from a Gaussian activation curve timed
// to that clock (single Gaussian for atrial, sum of two for ventricular),
// zero outside its active window. Grounded on Heart.py, with the
// window-exit behaviour corrected to explicitly zero the activation factor
// rather than leave the previous tick's value in place.
type Heart struct {
	NameField string
	IsEnabled bool

	ECGName string
	ecg     *ECG

	AtrialChamberNames      []string
	VentricularChamberNames []string
	atrialChambers          []chamber
	ventricularChambers     []chamber

	AtrialDuration      float64 // seconds, width of the atrial systole window
	VentricularDuration float64 // seconds, width of the ventricular systole window

	dt float64
}

// NewHeart builds a driver reading the named ECG and driving the named
// atrial and ventricular chambers. Call Initialize once every component
// has been registered.
func NewHeart(name, ecgName string, atrial, ventricular []string, dt float64) *Heart {
	return &Heart{
		NameField:               name,
		IsEnabled:               true,
		ECGName:                 ecgName,
		AtrialChamberNames:      atrial,
		VentricularChamberNames: ventricular,
		AtrialDuration:          0.1,
		VentricularDuration:     0.3,
		dt:                      dt,
	}
}

func (h *Heart) Name() string           { return h.NameField }
func (h *Heart) Enabled() bool          { return h.IsEnabled }
func (h *Heart) SetEnabled(enabled bool) { h.IsEnabled = enabled }
func (h *Heart) Capability() explain.Capability { return explain.CapDriver }

// Initialize resolves the ECG and chamber names against the engine
// registry.
func (h *Heart) Initialize(e *explain.Engine) error {
	c, err := e.GetComponent(h.ECGName)
	if err != nil {
		return err
	}
	ecg, ok := c.(*ECG)
	if !ok {
		return fmt.Errorf("cardiac: %s is not an ECG", h.ECGName)
	}
	h.ecg = ecg

	h.atrialChambers = h.atrialChambers[:0]
	for _, name := range h.AtrialChamberNames {
		ch, err := resolveChamber(e, name)
		if err != nil {
			return err
		}
		h.atrialChambers = append(h.atrialChambers, ch)
	}
	h.ventricularChambers = h.ventricularChambers[:0]
	for _, name := range h.VentricularChamberNames {
		ch, err := resolveChamber(e, name)
		if err != nil {
			return err
		}
		h.ventricularChambers = append(h.ventricularChambers, ch)
	}
	return nil
}

func resolveChamber(e *explain.Engine, name string) (chamber, error) {
	c, err := e.GetComponent(name)
	if err != nil {
		return nil, err
	}
	ch, ok := c.(chamber)
	if !ok {
		return nil, fmt.Errorf("cardiac: %s is not a cardiac chamber", name)
	}
	return ch, nil
}

// Step drives every wired chamber's activation factor from the ECG's
// current cycle clock.
func (h *Heart) Step() {
	if h.ecg == nil {
		return
	}
	aaf := atrialActivation(h.ecg.NccAtrial, h.AtrialDuration)
	vaf := ventricularActivation(h.ecg.NccVentricular, h.VentricularDuration)
	for _, c := range h.atrialChambers {
		c.SetActivationFactor(aaf)
	}
	for _, c := range h.ventricularChambers {
		c.SetActivationFactor(vaf)
	}
}

// atrialActivation is a single Gaussian peaking at the midpoint of
// [0, duration], zero outside it. Grounded on Heart.py's atrial activation
// function.
func atrialActivation(t, duration float64) float64 {
	if duration <= 0 || t < 0 || t > duration {
		return 0
	}
	peak := 0.5 * duration
	width := 0.2 * duration
	return math.Exp(-math.Pow((t-peak)/width, 2))
}

// ventricularActivation is the sum of two Gaussians of differing amplitude,
// peak and width, zero outside [0, duration]. The two curves' peaks sit
// close enough together (0.5 and 0.6 of duration) that their overlap pushes
// the sum just above amplitude 1.0. Grounded on Heart.py's ventricular
// activation function.
func ventricularActivation(t, duration float64) float64 {
	if duration <= 0 || t < 0 || t > duration {
		return 0
	}
	first := 0.5 * math.Exp(-math.Pow((t-0.5*duration)/(0.2*duration), 2))
	second := 0.59 * math.Exp(-math.Pow((t-0.6*duration)/(0.13*duration), 2))
	return first + second
}

func (h *Heart) Property(name string) (float64, bool) {
	switch name {
	case "atrial_duration":
		return h.AtrialDuration, true
	case "ventricular_duration":
		return h.VentricularDuration, true
	}
	return 0, false
}

func (h *Heart) SetProperty(name string, value float64) bool {
	switch name {
	case "atrial_duration":
		h.AtrialDuration = value
	case "ventricular_duration":
		h.VentricularDuration = value
	default:
		return false
	}
	return true
}
