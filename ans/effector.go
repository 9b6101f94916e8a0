package ans

import (
	"fmt"

	"github.com/Dobutamine/explain"
)

// Effector converts a SensorIntegrator's activity into a gain-scaled
// change on a target property, the autonomic control loop's final
// actuation step. When the target property is an unstressed volume
// ("u_vol"), setting MassConservationReservoir wires a counterpart
// compartment to give or take the real volume a u_vol change recruits or
// derecruits, so total circulating volume is conserved rather than
// created or destroyed by the control loop. Grounded on Effector.py.
type Effector struct {
	NameField string
	IsEnabled bool

	IntegratorName string
	integrator     *SensorIntegrator

	TargetRef string
	pa        explain.PropertyAccessor
	propName  string

	Gain             float64
	BaselineValue    float64
	BaselineActivity float64

	MassConservationReservoir string
	target                    explain.CapacitiveElement
	reservoir                 explain.CapacitiveElement

	previousValue float64
	hasPrevious   bool
}

// NewEffector builds an effector reading the named integrator and writing
// to the given "component.property" reference. Call Initialize once every
// referenced component has been registered.
func NewEffector(name, integratorName, targetRef string) *Effector {
	return &Effector{
		NameField:      name,
		IsEnabled:      true,
		IntegratorName: integratorName,
		TargetRef:      targetRef,
		Gain:           1,
	}
}

func (ef *Effector) Name() string           { return ef.NameField }
func (ef *Effector) Enabled() bool          { return ef.IsEnabled }
func (ef *Effector) SetEnabled(enabled bool) { ef.IsEnabled = enabled }
func (ef *Effector) Capability() explain.Capability { return explain.CapControl }

// Initialize resolves the integrator, target reference, and (if set) the
// mass-conservation reservoir against the engine registry.
func (ef *Effector) Initialize(e *explain.Engine) error {
	c, err := e.GetComponent(ef.IntegratorName)
	if err != nil {
		return err
	}
	integrator, ok := c.(*SensorIntegrator)
	if !ok {
		return fmt.Errorf("ans: %s is not a SensorIntegrator", ef.IntegratorName)
	}
	ef.integrator = integrator

	name, prop, err := explain.ParseRef(ef.TargetRef)
	if err != nil {
		return err
	}
	targetComponent, err := e.GetComponent(name)
	if err != nil {
		return err
	}
	pa, ok := targetComponent.(explain.PropertyAccessor)
	if !ok {
		return fmt.Errorf("ans: %s does not support property access", name)
	}
	ef.pa = pa
	ef.propName = prop

	if ef.MassConservationReservoir != "" {
		ce, ok := targetComponent.(explain.CapacitiveElement)
		if !ok {
			return fmt.Errorf("ans: %s is not a capacitive element, cannot conserve mass", name)
		}
		reservoir, err := e.ResolveCapacitiveRef(ef.MassConservationReservoir)
		if err != nil {
			return err
		}
		ef.target = ce
		ef.reservoir = reservoir
	}
	return nil
}

// Step writes BaselineValue + Gain * (activity - BaselineActivity) to the
// target property, moving real volume between the target and its
// reservoir when the property is an unstressed volume under mass
// conservation.
func (ef *Effector) Step() {
	if ef.integrator == nil || ef.pa == nil {
		return
	}
	newValue := ef.BaselineValue + ef.Gain*(ef.integrator.Activity-ef.BaselineActivity)
	ef.pa.SetProperty(ef.propName, newValue)

	if ef.reservoir != nil {
		if !ef.hasPrevious {
			ef.previousValue = newValue
			ef.hasPrevious = true
			return
		}
		delta := newValue - ef.previousValue
		ef.previousValue = newValue
		switch {
		case delta > 0:
			overdraft := ef.target.VolumeOut(delta)
			ef.reservoir.VolumeIn(delta-overdraft, ef.target)
		case delta < 0:
			give := -delta
			overdraft := ef.reservoir.VolumeOut(give)
			ef.target.VolumeIn(give-overdraft, ef.reservoir)
		}
	}
}

func (ef *Effector) Property(name string) (float64, bool) {
	switch name {
	case "gain":
		return ef.Gain, true
	case "baseline_value":
		return ef.BaselineValue, true
	case "baseline_activity":
		return ef.BaselineActivity, true
	}
	return 0, false
}

func (ef *Effector) SetProperty(name string, value float64) bool {
	switch name {
	case "gain":
		ef.Gain = value
	case "baseline_value":
		ef.BaselineValue = value
	case "baseline_activity":
		ef.BaselineActivity = value
	default:
		return false
	}
	return true
}
