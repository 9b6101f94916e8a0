package explain

import "math"

// IntrathoracicPressure drives a sinusoidal negative-pressure swing onto a
// set of thoracic capacitive elements, the passive ambient pressure a
// spontaneously breathing chest wall imposes on the organs it encloses.
// Grounded on IntrathoracicPressure.py.
type IntrathoracicPressure struct {
	NameField string
	IsEnabled bool

	RespRate          float64 // breaths per minute
	PressureAmplitude float64 // peak swing in mmHg

	Targets []string
	targets []CapacitiveElement

	timer float64
	dt    float64
}

// NewIntrathoracicPressure builds the driver; call Initialize once every
// target has been registered.
func NewIntrathoracicPressure(name string, targets []string, dt float64) *IntrathoracicPressure {
	return &IntrathoracicPressure{
		NameField: name,
		IsEnabled: true,
		Targets:   targets,
		dt:        dt,
	}
}

func (i *IntrathoracicPressure) Name() string           { return i.NameField }
func (i *IntrathoracicPressure) Enabled() bool          { return i.IsEnabled }
func (i *IntrathoracicPressure) SetEnabled(enabled bool) { i.IsEnabled = enabled }
func (i *IntrathoracicPressure) Capability() Capability { return CapDriver }

// Initialize resolves every target name against the engine's registry.
func (i *IntrathoracicPressure) Initialize(e *Engine) error {
	i.targets = i.targets[:0]
	for _, name := range i.Targets {
		ce, err := e.ResolveCapacitiveRef(name)
		if err != nil {
			return err
		}
		i.targets = append(i.targets, ce)
	}
	return nil
}

// Step advances the breathing-cycle timer and applies the resulting
// negative pressure swing to every wired target.
func (i *IntrathoracicPressure) Step() {
	if i.RespRate <= 0 {
		return
	}
	period := 60.0 / i.RespRate
	i.timer += i.dt
	if i.timer > period {
		i.timer -= period
	}
	phase := i.timer / period
	itp := -i.PressureAmplitude * 0.5 * (1 - math.Cos(2*math.Pi*phase))
	for _, ce := range i.targets {
		ce.SetITP(itp)
	}
}

func (i *IntrathoracicPressure) Property(name string) (float64, bool) {
	switch name {
	case "resp_rate":
		return i.RespRate, true
	case "pressure_amplitude":
		return i.PressureAmplitude, true
	}
	return 0, false
}

func (i *IntrathoracicPressure) SetProperty(name string, value float64) bool {
	switch name {
	case "resp_rate":
		i.RespRate = value
	case "pressure_amplitude":
		i.PressureAmplitude = value
	default:
		return false
	}
	return true
}
