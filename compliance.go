package explain

import "github.com/Dobutamine/explain/helpers"

// BloodCompliance is a blood-filled hydraulic capacitor: a volume, a
// parabolic pressure-volume relationship and a bag of dissolved
// substances (oxygen and CO2 totals plus named compounds) that gets mixed
// whenever a Valve moves volume in. Grounded on BloodCompliance.py.
type BloodCompliance struct {
	NameField        string
	IsEnabled        bool
	FixedComposition bool

	Vol     float64
	UVol    float64
	UVolFac float64

	ElBase    float64
	ElBaseFac float64
	ElK       float64
	ElKFac    float64

	PAtm           float64
	Pres           float64
	PresOutside    float64
	PresITP        float64
	PresTransmural float64
	RecoilPressure float64

	Systole  float64
	Diastole float64
	Mean     float64

	minPresTemp     float64
	maxPresTemp     float64
	analysisWindow  float64
	analysisCounter float64

	TO2  float64
	TCO2 float64

	Compounds map[string]*Compound

	dt float64
}

// NewBloodCompliance builds a blood compliance with a one-second systole/
// diastole analysis window, matching the reference default.
func NewBloodCompliance(name string, dt float64) *BloodCompliance {
	return &BloodCompliance{
		NameField:      name,
		IsEnabled:      true,
		UVolFac:        1,
		ElBaseFac:      1,
		ElKFac:         1,
		PAtm:           760,
		analysisWindow: 1.0,
		Compounds:      make(map[string]*Compound),
		dt:             dt,
	}
}

func (c *BloodCompliance) Name() string              { return c.NameField }
func (c *BloodCompliance) Enabled() bool              { return c.IsEnabled }
func (c *BloodCompliance) SetEnabled(enabled bool)    { c.IsEnabled = enabled }
func (c *BloodCompliance) Capability() Capability     { return CapCapacitiveBlood }
func (c *BloodCompliance) Pressure() float64          { return c.Pres }
func (c *BloodCompliance) SetOutsidePressure(p float64) { c.PresOutside += p }
func (c *BloodCompliance) SetITP(p float64)           { c.PresITP += p }

// Step recomputes pressure from the current volume and tracks systolic,
// diastolic and mean pressure over a rolling analysis window.
func (c *BloodCompliance) Step() {
	vAboveUnstressed := c.Vol - c.UVol*c.UVolFac
	elastance := c.ElBase*c.ElBaseFac + c.ElK*c.ElKFac*vAboveUnstressed*vAboveUnstressed
	if vAboveUnstressed < 0 {
		vAboveUnstressed = 0
		c.Vol = c.UVol
	}
	c.RecoilPressure = vAboveUnstressed * elastance
	c.Pres = c.RecoilPressure + c.PresOutside + c.PresITP + c.PAtm
	c.PresTransmural = c.RecoilPressure + c.PresOutside - c.PresITP + c.PAtm
	c.PresOutside = 0
	c.PresITP = 0

	if c.Pres > c.maxPresTemp {
		c.maxPresTemp = c.Pres
	}
	if c.Pres < c.minPresTemp {
		c.minPresTemp = c.Pres
	}
	if c.analysisCounter > c.analysisWindow {
		c.Systole = c.maxPresTemp
		c.maxPresTemp = -1000
		c.Diastole = c.minPresTemp
		c.minPresTemp = 1000
		c.Mean = (2*c.Diastole + c.Systole) / 3.0
		c.analysisCounter = 0
	}
	c.analysisCounter += c.dt
}

// VolumeIn adds dvol to the volume and mixes the source's dissolved
// substances proportionally, unless this element has a fixed composition.
func (c *BloodCompliance) VolumeIn(dvol float64, source MixSource) {
	if !c.FixedComposition {
		c.Vol += dvol
	}
	if c.Vol <= 0 || c.FixedComposition {
		return
	}
	bm, ok := source.(bloodMixer)
	if !ok {
		return
	}
	for name, compound := range c.Compounds {
		if compound.Fixed {
			continue
		}
		srcConc, ok := bm.compoundConc(name)
		if !ok {
			continue
		}
		dCompound := (srcConc - compound.Concentration) * dvol
		compound.Concentration = (compound.Concentration*c.Vol + dCompound) / c.Vol
	}
	dO2 := (bm.oxygenTotal() - c.TO2) * dvol
	c.TO2 = (c.TO2*c.Vol + dO2) / c.Vol
	dCO2 := (bm.co2Total() - c.TCO2) * dvol
	c.TCO2 = (c.TCO2*c.Vol + dCO2) / c.Vol
}

// VolumeOut removes dvol from the volume and clamps at zero, returning the
// undisplaceable excess so the caller can reverse it at the source.
func (c *BloodCompliance) VolumeOut(dvol float64) float64 {
	if !c.FixedComposition {
		c.Vol -= dvol
	}
	return c.protectMassBalance()
}

func (c *BloodCompliance) protectMassBalance() float64 {
	if c.Vol < 0 {
		overdraft := -c.Vol
		c.Vol = 0
		return overdraft
	}
	return 0
}

func (c *BloodCompliance) oxygenTotal() float64 { return c.TO2 }
func (c *BloodCompliance) co2Total() float64    { return c.TCO2 }
func (c *BloodCompliance) compoundConc(name string) (float64, bool) {
	cp, ok := c.Compounds[name]
	if !ok {
		return 0, false
	}
	return cp.Concentration, true
}

// Property implements PropertyAccessor for the fields autonomic effectors
// and configuration wiring commonly target.
func (c *BloodCompliance) Property(name string) (float64, bool) {
	switch name {
	case "vol":
		return c.Vol, true
	case "u_vol":
		return c.UVol, true
	case "u_vol_fac":
		return c.UVolFac, true
	case "el_base":
		return c.ElBase, true
	case "el_base_fac":
		return c.ElBaseFac, true
	case "el_k":
		return c.ElK, true
	case "el_k_fac":
		return c.ElKFac, true
	case "pres":
		return c.Pres, true
	}
	if cp, ok := c.Compounds[name]; ok {
		return cp.Concentration, true
	}
	return 0, false
}

func (c *BloodCompliance) SetProperty(name string, value float64) bool {
	switch name {
	case "vol":
		c.Vol = value
	case "u_vol":
		c.UVol = value
	case "u_vol_fac":
		c.UVolFac = value
	case "el_base":
		c.ElBase = value
	case "el_base_fac":
		c.ElBaseFac = value
	case "el_k":
		c.ElK = value
	case "el_k_fac":
		c.ElKFac = value
	default:
		if cp, ok := c.Compounds[name]; ok {
			cp.Concentration = value
			return true
		}
		return false
	}
	return true
}

// GasSpecies is one tracked gas species within a GasCompliance: a dry mole
// fraction (the underlying state) plus the wet fraction, partial pressure
// and concentration derived from it each tick.
type GasSpecies struct {
	DryFraction     float64
	WetFraction     float64
	PartialPressure float64
	Concentration   float64
}

// GasCompliance is a gas-filled hydraulic capacitor: a volume, a parabolic
// pressure-volume relationship, and a set of species whose dry mole
// fractions are the conserved state, with wet fractions, partial pressures
// and concentrations re-derived from ambient temperature and pressure each
// tick. Grounded on GasCompliance.py.
type GasCompliance struct {
	NameField        string
	IsEnabled        bool
	FixedComposition bool

	Vol     float64
	UVol    float64
	UVolFac float64

	ElBase    float64
	ElBaseFac float64
	ElK       float64
	ElKFac    float64

	PAtm           float64
	Pres           float64
	PresOutside    float64
	PresTransmural float64
	RecoilPressure float64

	TempCelsius       float64
	GasConstant       float64
	TotalConcentration float64
	WetH2OFraction     float64
	H2OPartialPressure float64
	H2OConcentration   float64

	Species map[string]*GasSpecies

	dt float64
}

// NewGasCompliance builds a gas compliance at standard conditions (37C,
// gas constant 62.36367 L*mmHg/(mol*K), matching the reference defaults).
func NewGasCompliance(name string, dt float64) *GasCompliance {
	return &GasCompliance{
		NameField:   name,
		IsEnabled:   true,
		UVolFac:     1,
		ElBaseFac:   1,
		ElKFac:      1,
		PAtm:        760,
		TempCelsius: 37,
		GasConstant: 62.36367,
		Species:     make(map[string]*GasSpecies),
		dt:          dt,
	}
}

func (g *GasCompliance) Name() string              { return g.NameField }
func (g *GasCompliance) Enabled() bool              { return g.IsEnabled }
func (g *GasCompliance) SetEnabled(enabled bool)    { g.IsEnabled = enabled }
func (g *GasCompliance) Capability() Capability     { return CapCapacitiveGas }
func (g *GasCompliance) Pressure() float64          { return g.Pres }
func (g *GasCompliance) SetOutsidePressure(p float64) { g.PresOutside += p }
func (g *GasCompliance) SetITP(float64)             {}

// Step recomputes pressure from volume, then every species' wet fraction,
// partial pressure and concentration from the new pressure.
func (g *GasCompliance) Step() {
	vAboveUnstressed := g.Vol - g.UVol*g.UVolFac
	elastance := g.ElBase*g.ElBaseFac + g.ElK*g.ElKFac*vAboveUnstressed*vAboveUnstressed
	if vAboveUnstressed < 0 {
		vAboveUnstressed = 0
		g.Vol = g.UVol
	}
	g.RecoilPressure = vAboveUnstressed * elastance
	g.Pres = g.RecoilPressure + g.PresOutside + g.PAtm
	g.PresTransmural = g.RecoilPressure + g.PresOutside + g.PAtm
	g.PresOutside = 0

	if g.Pres <= 0 {
		return
	}

	g.TotalConcentration = (g.Pres / (g.GasConstant * helpers.CelsiusToKelvin(g.TempCelsius))) * 1000
	waterVapour := helpers.WaterVapourPressure(g.TempCelsius)
	g.WetH2OFraction = waterVapour / g.Pres
	g.H2OPartialPressure = waterVapour
	g.H2OConcentration = g.WetH2OFraction * g.TotalConcentration

	for _, sp := range g.Species {
		sp.WetFraction = sp.DryFraction * (1 - g.WetH2OFraction)
		sp.PartialPressure = sp.WetFraction * g.Pres
		sp.Concentration = sp.WetFraction * g.TotalConcentration
	}
}

// ExchangeGas adds flux (in mmol) of o2 and co2 to the compartment's wet
// concentrations, then re-derives the dry mole fractions the state keeps.
// Grounded on GasExchanger.py's diffusion step into a GasCompliance.
func (g *GasCompliance) ExchangeGas(fluxO2, fluxCO2 float64) {
	if g.Vol <= 0 || g.TotalConcentration <= 0 {
		return
	}
	o2, hasO2 := g.Species["o2"]
	co2, hasCO2 := g.Species["co2"]
	if hasO2 {
		newWet := (o2.WetFraction*g.TotalConcentration*g.Vol + fluxO2) / g.Vol / g.TotalConcentration
		o2.DryFraction = newWet / (1 - g.WetH2OFraction)
	}
	if hasCO2 {
		newWet := (co2.WetFraction*g.TotalConcentration*g.Vol + fluxCO2) / g.Vol / g.TotalConcentration
		co2.DryFraction = newWet / (1 - g.WetH2OFraction)
	}
}

func (g *GasCompliance) VolumeIn(dvol float64, source MixSource) {
	if !g.FixedComposition {
		g.Vol += dvol
	}
	if g.Vol <= 0 || g.FixedComposition {
		return
	}
	gm, ok := source.(gasMixer)
	if !ok {
		return
	}
	for name, sp := range g.Species {
		srcDry, ok := gm.speciesDryFraction(name)
		if !ok {
			continue
		}
		dFrac := (srcDry - sp.DryFraction) * dvol
		sp.DryFraction = (sp.DryFraction*g.Vol + dFrac) / g.Vol
	}
}

func (g *GasCompliance) VolumeOut(dvol float64) float64 {
	if !g.FixedComposition {
		g.Vol -= dvol
	}
	return g.protectMassBalance()
}

func (g *GasCompliance) protectMassBalance() float64 {
	if g.Vol < 0 {
		overdraft := -g.Vol
		g.Vol = 0
		return overdraft
	}
	return 0
}

func (g *GasCompliance) speciesDryFraction(name string) (float64, bool) {
	sp, ok := g.Species[name]
	if !ok {
		return 0, false
	}
	return sp.DryFraction, true
}

func (g *GasCompliance) Property(name string) (float64, bool) {
	switch name {
	case "vol":
		return g.Vol, true
	case "u_vol":
		return g.UVol, true
	case "u_vol_fac":
		return g.UVolFac, true
	case "el_base_fac":
		return g.ElBaseFac, true
	case "el_k_fac":
		return g.ElKFac, true
	case "pres":
		return g.Pres, true
	}
	if sp, ok := g.Species[name]; ok {
		return sp.DryFraction, true
	}
	return 0, false
}

func (g *GasCompliance) SetProperty(name string, value float64) bool {
	switch name {
	case "vol":
		g.Vol = value
	case "u_vol":
		g.UVol = value
	case "u_vol_fac":
		g.UVolFac = value
	case "el_base_fac":
		g.ElBaseFac = value
	case "el_k_fac":
		g.ElKFac = value
	default:
		if sp, ok := g.Species[name]; ok {
			sp.DryFraction = value
			return true
		}
		return false
	}
	return true
}
