// Package exchange implements diffusion-driven gas exchange between a gas
// compartment and a blood compartment, the alveolar-capillary membrane
// modeled by Gasexchanger.py.
package exchange

import (
	"fmt"

	"github.com/Dobutamine/explain"
	"github.com/Dobutamine/explain/bloodgas"
	"github.com/Dobutamine/explain/helpers"
)

// GasExchanger moves oxygen and CO2 between a gas compartment and a blood
// compartment each tick, driven by their partial pressure gradients and a
// fixed diffusion capacity per gas. Grounded on Gasexchanger.py.
type GasExchanger struct {
	NameField string
	IsEnabled bool

	GasTarget       string
	BloodTarget     string
	ChemistryTarget string

	gas       *explain.GasCompliance
	blood     *explain.BloodCompliance
	chemistry *bloodgas.BloodChemistry

	DO2  float64 // mmol/mmHg/s
	DCO2 float64

	FluxO2  float64 // mmol moved into blood this tick (reported for telemetry)
	FluxCO2 float64 // mmol moved out of blood this tick

	dt float64
}

// NewGasExchanger builds an exchanger wired between the named gas
// compartment, blood compartment and blood chemistry solver. Call
// Initialize once every component has been registered.
func NewGasExchanger(name, gasTarget, bloodTarget, chemistryTarget string, dt float64) *GasExchanger {
	return &GasExchanger{
		NameField:       name,
		IsEnabled:       true,
		GasTarget:       gasTarget,
		BloodTarget:     bloodTarget,
		ChemistryTarget: chemistryTarget,
		DO2:             0.02,
		DCO2:            0.4,
		dt:              dt,
	}
}

func (g *GasExchanger) Name() string           { return g.NameField }
func (g *GasExchanger) Enabled() bool          { return g.IsEnabled }
func (g *GasExchanger) SetEnabled(enabled bool) { g.IsEnabled = enabled }
func (g *GasExchanger) Capability() explain.Capability { return explain.CapActuator }

// Initialize resolves the gas, blood and chemistry targets against the
// engine registry.
func (g *GasExchanger) Initialize(e *explain.Engine) error {
	gc, err := e.GetComponent(g.GasTarget)
	if err != nil {
		return err
	}
	gas, ok := gc.(*explain.GasCompliance)
	if !ok {
		return fmt.Errorf("exchange: %s is not a gas compliance", g.GasTarget)
	}

	bc, err := e.GetComponent(g.BloodTarget)
	if err != nil {
		return err
	}
	blood, ok := bc.(*explain.BloodCompliance)
	if !ok {
		return fmt.Errorf("exchange: %s is not a blood compliance", g.BloodTarget)
	}

	cc, err := e.GetComponent(g.ChemistryTarget)
	if err != nil {
		return err
	}
	chem, ok := cc.(*bloodgas.BloodChemistry)
	if !ok {
		return fmt.Errorf("exchange: %s is not a blood chemistry solver", g.ChemistryTarget)
	}

	g.gas = gas
	g.blood = blood
	g.chemistry = chem
	return nil
}

// Step drives oxygen from the gas compartment into the blood and CO2 from
// the blood into the gas compartment, proportional to their current
// partial pressure gradient and each gas's diffusion capacity.
func (g *GasExchanger) Step() {
	if g.gas == nil || g.blood == nil || g.chemistry == nil {
		return
	}
	o2 := g.gas.Species["o2"]
	co2 := g.gas.Species["co2"]
	if o2 == nil || co2 == nil {
		return
	}

	fluxO2 := g.DO2 * (o2.PartialPressure - g.chemistry.PO2) * g.dt
	fluxCO2 := g.DCO2 * (g.chemistry.PCO2 - co2.PartialPressure) * g.dt

	g.gas.ExchangeGas(-fluxO2, fluxCO2)

	if g.blood.Vol > 0 {
		g.blood.TO2 = helpers.Clamp0(g.blood.TO2 + fluxO2/g.blood.Vol)
		g.blood.TCO2 = helpers.Clamp0(g.blood.TCO2 - fluxCO2/g.blood.Vol)
	}

	g.FluxO2 = fluxO2
	g.FluxCO2 = fluxCO2
}

func (g *GasExchanger) Property(name string) (float64, bool) {
	switch name {
	case "do2":
		return g.DO2, true
	case "dco2":
		return g.DCO2, true
	case "flux_o2":
		return g.FluxO2, true
	case "flux_co2":
		return g.FluxCO2, true
	}
	return 0, false
}

func (g *GasExchanger) SetProperty(name string, value float64) bool {
	switch name {
	case "do2":
		g.DO2 = value
	case "dco2":
		g.DCO2 = value
	default:
		return false
	}
	return true
}
