// Package ans implements the autonomic control pipeline: a Sensor reads a
// physiological variable and converts it to a firing rate with a sigmoid
// activation curve, a SensorIntegrator smooths and combines several
// sensors' firing rates into one activity signal, and an Effector converts
// activity into a gain-scaled change on a target property. Grounded on
// Sensor.py, SensorIntegrator.py and Effector.py.
package ans

import (
	"fmt"
	"math"

	"github.com/Dobutamine/explain"
)

// Sensor samples one "component.property" reference each tick and maps it
// through a sigmoid to a bounded firing rate, the baroreceptor/
// chemoreceptor abstraction the reference model uses throughout its
// autonomic loops. Grounded on Sensor.py.
type Sensor struct {
	NameField string
	IsEnabled bool

	TargetRef string
	pa        explain.PropertyAccessor
	propName  string

	SetPoint float64
	MinValue float64
	MaxValue float64
	Gain     float64

	Output float64
}

// NewSensor builds a sensor reading the given "component.property"
// reference. Call Initialize once the referenced component has been
// registered.
func NewSensor(name, targetRef string) *Sensor {
	return &Sensor{
		NameField: name,
		IsEnabled: true,
		TargetRef: targetRef,
		MaxValue:  1,
		Gain:      1,
	}
}

func (s *Sensor) Name() string           { return s.NameField }
func (s *Sensor) Enabled() bool          { return s.IsEnabled }
func (s *Sensor) SetEnabled(enabled bool) { s.IsEnabled = enabled }
func (s *Sensor) Capability() explain.Capability { return explain.CapControl }

// Initialize resolves the sensor's reference against the engine registry.
func (s *Sensor) Initialize(e *explain.Engine) error {
	name, prop, err := explain.ParseRef(s.TargetRef)
	if err != nil {
		return err
	}
	c, err := e.GetComponent(name)
	if err != nil {
		return err
	}
	pa, ok := c.(explain.PropertyAccessor)
	if !ok {
		return fmt.Errorf("ans: %s does not support property access", name)
	}
	s.pa = pa
	s.propName = prop
	return nil
}

// Step samples the reference and converts it into a firing rate bounded
// between MinValue and MaxValue, centered on SetPoint and shaped by Gain.
func (s *Sensor) Step() {
	if s.pa == nil {
		return
	}
	input, ok := s.pa.Property(s.propName)
	if !ok {
		return
	}
	s.Output = s.MinValue + (s.MaxValue-s.MinValue)/(1+math.Exp(s.Gain*(input-s.SetPoint)))
}

func (s *Sensor) Property(name string) (float64, bool) {
	switch name {
	case "set_point":
		return s.SetPoint, true
	case "gain":
		return s.Gain, true
	case "min_value":
		return s.MinValue, true
	case "max_value":
		return s.MaxValue, true
	case "output":
		return s.Output, true
	}
	return 0, false
}

func (s *Sensor) SetProperty(name string, value float64) bool {
	switch name {
	case "set_point":
		s.SetPoint = value
	case "gain":
		s.Gain = value
	case "min_value":
		s.MinValue = value
	case "max_value":
		s.MaxValue = value
	default:
		return false
	}
	return true
}
