package explain

// Ecls is an extracorporeal life support circuit: a fixed-flow pump that
// drains blood from one compartment and returns it, fully re-oxygenated
// and CO2-scrubbed, to another, the way a membrane oxygenator and roller
// pump are lumped together in the reference model. Grounded on Ecls.py.
type Ecls struct {
	NameField string
	IsEnabled bool

	Drain string
	Return string
	drain  CapacitiveElement
	ret    CapacitiveElement

	drainSrc bloodMixer

	FlowLMin float64 // pump flow in L/min

	TO2Target  float64 // target oxygen total on the return limb
	TCO2Target float64 // target CO2 total on the return limb

	dt float64
}

// NewEcls builds an ECLS circuit wired between the named drain and return
// elements. Call Initialize once every component has been registered.
func NewEcls(name, drain, ret string, dt float64) *Ecls {
	return &Ecls{
		NameField:  name,
		IsEnabled:  false,
		Drain:      drain,
		Return:     ret,
		TO2Target:  8.0,
		TCO2Target: 20.0,
		dt:         dt,
	}
}

func (c *Ecls) Name() string           { return c.NameField }
func (c *Ecls) Enabled() bool          { return c.IsEnabled }
func (c *Ecls) SetEnabled(enabled bool) { c.IsEnabled = enabled }
func (c *Ecls) Capability() Capability { return CapActuator }

// Initialize resolves the drain and return names against the engine's
// registry, and keeps the drain's blood-mixer view for VolumeIn mixing.
func (c *Ecls) Initialize(e *Engine) error {
	drain, err := e.ResolveCapacitiveRef(c.Drain)
	if err != nil {
		return err
	}
	ret, err := e.ResolveCapacitiveRef(c.Return)
	if err != nil {
		return err
	}
	bm, ok := drain.(bloodMixer)
	if !ok {
		return ErrUnresolvedReference
	}
	c.drain = drain
	c.ret = ret
	c.drainSrc = bm
	return nil
}

// Step drains the pump's fixed flow from the drain compartment and returns
// it to the return compartment with its oxygen and CO2 totals pulled
// toward the oxygenator's targets, approximating a membrane oxygenator's
// near-complete gas exchange over a single pass.
func (c *Ecls) Step() {
	if !c.IsEnabled || c.drain == nil || c.ret == nil {
		return
	}
	flowPerSec := c.FlowLMin / 60.0
	dvol := flowPerSec * c.dt
	if dvol <= 0 {
		return
	}
	overdraft := c.drain.VolumeOut(dvol)
	c.ret.VolumeIn(dvol-overdraft, oxygenatorOutput{c.drainSrc, c.TO2Target, c.TCO2Target})
}

// oxygenatorOutput wraps the drained blood's compound composition with
// overridden oxygen and CO2 totals, so VolumeIn mixing on the return limb
// sees the oxygenator's output rather than the drained blood's own gas
// content.
type oxygenatorOutput struct {
	bloodMixer
	to2  float64
	tco2 float64
}

func (o oxygenatorOutput) oxygenTotal() float64 { return o.to2 }
func (o oxygenatorOutput) co2Total() float64    { return o.tco2 }

func (c *Ecls) Property(name string) (float64, bool) {
	switch name {
	case "flow":
		return c.FlowLMin, true
	case "to2_target":
		return c.TO2Target, true
	case "tco2_target":
		return c.TCO2Target, true
	}
	return 0, false
}

func (c *Ecls) SetProperty(name string, value float64) bool {
	switch name {
	case "flow":
		c.FlowLMin = value
	case "to2_target":
		c.TO2Target = value
	case "tco2_target":
		c.TCO2Target = value
	default:
		return false
	}
	return true
}
