package ans

import (
	"fmt"

	"github.com/Dobutamine/explain"
)

// SensorIntegrator combines a set of sensors' firing rates with per-sensor
// weights and smooths the result with a first-order low-pass filter, the
// autonomic "integrated activity" signal an Effector acts on. Grounded on
// SensorIntegrator.py.
type SensorIntegrator struct {
	NameField string
	IsEnabled bool

	SensorNames []string
	Weights     []float64
	sensors     []*Sensor

	TimeConstant float64 // seconds
	Activity     float64

	dt float64
}

// NewSensorIntegrator builds an integrator over the named sensors, one
// weight per name (defaulting to 1 if Weights is shorter than
// SensorNames). Call Initialize once every sensor has been registered.
func NewSensorIntegrator(name string, sensorNames []string, weights []float64, timeConstant, dt float64) *SensorIntegrator {
	return &SensorIntegrator{
		NameField:    name,
		IsEnabled:    true,
		SensorNames:  sensorNames,
		Weights:      weights,
		TimeConstant: timeConstant,
		dt:           dt,
	}
}

func (si *SensorIntegrator) Name() string           { return si.NameField }
func (si *SensorIntegrator) Enabled() bool          { return si.IsEnabled }
func (si *SensorIntegrator) SetEnabled(enabled bool) { si.IsEnabled = enabled }
func (si *SensorIntegrator) Capability() explain.Capability { return explain.CapControl }

// Initialize resolves every sensor name against the engine registry.
func (si *SensorIntegrator) Initialize(e *explain.Engine) error {
	si.sensors = si.sensors[:0]
	for _, name := range si.SensorNames {
		c, err := e.GetComponent(name)
		if err != nil {
			return err
		}
		s, ok := c.(*Sensor)
		if !ok {
			return fmt.Errorf("ans: %s is not a Sensor", name)
		}
		si.sensors = append(si.sensors, s)
	}
	return nil
}

func (si *SensorIntegrator) weight(i int) float64 {
	if i < len(si.Weights) {
		return si.Weights[i]
	}
	return 1.0
}

// Step combines every sensor's current output into a weighted sum and
// smooths it toward that target with time constant TimeConstant; a
// non-positive time constant tracks the weighted sum instantaneously.
func (si *SensorIntegrator) Step() {
	if len(si.sensors) == 0 {
		return
	}
	var weighted float64
	for i, s := range si.sensors {
		weighted += s.Output * si.weight(i)
	}
	if si.TimeConstant <= 0 {
		si.Activity = weighted
		return
	}
	alpha := si.dt / si.TimeConstant
	if alpha > 1 {
		alpha = 1
	}
	si.Activity += (weighted - si.Activity) * alpha
}

func (si *SensorIntegrator) Property(name string) (float64, bool) {
	switch name {
	case "activity":
		return si.Activity, true
	case "time_constant":
		return si.TimeConstant, true
	}
	return 0, false
}

func (si *SensorIntegrator) SetProperty(name string, value float64) bool {
	switch name {
	case "time_constant":
		si.TimeConstant = value
	default:
		return false
	}
	return true
}
