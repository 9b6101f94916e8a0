// Package gas drives the initial and ongoing dry-gas composition of a gas
// compliance from an inspired fraction of oxygen and a fixed CO2 trace,
// the role Gas.py plays for the reference model's gas compartments.
// Pressure, temperature and humidity are not inputs here; the compliance
// derives its wet fractions from its own temperature and pressure.
package gas

import (
	"fmt"

	"github.com/Dobutamine/explain"
)

// Properties drives the dry mole fractions of a target gas compartment
// from an inspired oxygen fraction, keeping the remainder split between
// nitrogen and a fixed trace of CO2, and re-applies them whenever FiO2
// changes (a fresh-gas-flow source, a ventilator's blender). Grounded on
// Gas.py.
type Properties struct {
	NameField string
	IsEnabled bool

	Target string
	target *explain.GasCompliance

	FiO2       float64
	DryCO2Frac float64

	lastFiO2 float64
	applied  bool
}

// NewProperties builds a gas-composition driver targeting the named gas
// compartment. Call Initialize once the compartment has been registered.
func NewProperties(name, target string) *Properties {
	return &Properties{
		NameField:  name,
		IsEnabled:  true,
		Target:     target,
		FiO2:       0.21,
		DryCO2Frac: 0.0004,
	}
}

func (p *Properties) Name() string           { return p.NameField }
func (p *Properties) Enabled() bool          { return p.IsEnabled }
func (p *Properties) SetEnabled(enabled bool) { p.IsEnabled = enabled }
func (p *Properties) Capability() explain.Capability { return explain.CapActuator }

// Initialize resolves the target gas compartment against the engine
// registry and seeds its dry mole fractions.
func (p *Properties) Initialize(e *explain.Engine) error {
	c, err := e.GetComponent(p.Target)
	if err != nil {
		return err
	}
	gc, ok := c.(*explain.GasCompliance)
	if !ok {
		return fmt.Errorf("gas: %s is not a gas compliance", p.Target)
	}
	p.target = gc
	p.applyFractions()
	return nil
}

// Step re-applies the dry mole fractions whenever FiO2 has changed since
// the last tick, so a ventilator's blender setting propagates into the
// compartment without recomputing every tick unnecessarily.
func (p *Properties) Step() {
	if p.target == nil {
		return
	}
	if !p.applied || p.FiO2 != p.lastFiO2 {
		p.applyFractions()
	}
}

func (p *Properties) applyFractions() {
	o2 := p.target.Species["o2"]
	if o2 == nil {
		o2 = &explain.GasSpecies{}
		p.target.Species["o2"] = o2
	}
	co2 := p.target.Species["co2"]
	if co2 == nil {
		co2 = &explain.GasSpecies{}
		p.target.Species["co2"] = co2
	}
	n2 := p.target.Species["n2"]
	if n2 == nil {
		n2 = &explain.GasSpecies{}
		p.target.Species["n2"] = n2
	}
	o2.DryFraction = p.FiO2
	co2.DryFraction = p.DryCO2Frac
	n2.DryFraction = 1 - p.FiO2 - p.DryCO2Frac

	p.lastFiO2 = p.FiO2
	p.applied = true
}

func (p *Properties) Property(name string) (float64, bool) {
	switch name {
	case "fio2":
		return p.FiO2, true
	}
	return 0, false
}

func (p *Properties) SetProperty(name string, value float64) bool {
	switch name {
	case "fio2":
		p.FiO2 = value
	default:
		return false
	}
	return true
}
