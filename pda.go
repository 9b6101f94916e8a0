package explain

import "math"

// Pda is a patent ductus arteriosus: a fetal-era vascular shunt between the
// aorta and the pulmonary artery whose resistance is driven by a diameter
// rather than set directly, and which a control loop can close over time by
// shrinking that diameter toward zero. Grounded on Pda.py.
type Pda struct {
	NameField string
	IsEnabled bool

	Upstream   string
	Downstream string
	upstream   CapacitiveElement
	downstream CapacitiveElement

	DiameterMm float64
	LengthMm   float64
	// ResistanceFactor absorbs the viscosity and unit-conversion constants
	// the reference model folds into a single calibration factor, so the
	// Poiseuille diameter law (resistance ~ 1/d^4) alone does not have to
	// reproduce physiological mmHg/(L/s) magnitudes.
	ResistanceFactor float64

	RK    float64
	RKFac float64

	Flow     float64
	prevFlow float64

	dt float64
}

// NewPda builds a PDA wired between the named upstream and downstream
// elements. Call Initialize once every component has been registered.
func NewPda(name, upstream, downstream string, dt float64) *Pda {
	return &Pda{
		NameField:        name,
		IsEnabled:        true,
		Upstream:         upstream,
		Downstream:       downstream,
		LengthMm:         8,
		ResistanceFactor: 1,
		RKFac:            1,
		dt:               dt,
	}
}

func (p *Pda) Name() string           { return p.NameField }
func (p *Pda) Enabled() bool          { return p.IsEnabled }
func (p *Pda) SetEnabled(enabled bool) { p.IsEnabled = enabled }
func (p *Pda) Capability() Capability { return CapResistor }

// Initialize resolves the upstream and downstream names against the
// engine's registry.
func (p *Pda) Initialize(e *Engine) error {
	up, err := e.ResolveCapacitiveRef(p.Upstream)
	if err != nil {
		return err
	}
	down, err := e.ResolveCapacitiveRef(p.Downstream)
	if err != nil {
		return err
	}
	p.upstream = up
	p.downstream = down
	return nil
}

// resistance derives a Poiseuille-style resistance from the current
// diameter: it grows as the fourth power of closure, so the duct's
// effective resistance becomes enormous well before the diameter reaches
// zero, matching the original's steep functional-closure curve.
func (p *Pda) resistance() float64 {
	if p.DiameterMm <= 0 {
		return math.Inf(1)
	}
	return p.ResistanceFactor * p.LengthMm / (p.DiameterMm * p.DiameterMm * p.DiameterMm * p.DiameterMm)
}

// Step moves blood down the aorto-pulmonary pressure gradient through the
// diameter-derived resistance, identically to a Resistor otherwise.
func (p *Pda) Step() {
	if p.DiameterMm <= 0 || p.upstream == nil || p.downstream == nil {
		p.Flow = 0
		return
	}
	dp := p.upstream.Pressure() - p.downstream.Pressure()
	resistance := p.resistance() + p.RK*p.RKFac*math.Abs(p.prevFlow)
	if math.IsInf(resistance, 1) {
		p.Flow = 0
		return
	}
	flow := dp / resistance
	p.Flow = flow
	p.prevFlow = flow

	if flow == 0 {
		return
	}
	dvol := flow * p.dt
	var src, dst CapacitiveElement
	if dvol >= 0 {
		src, dst = p.upstream, p.downstream
	} else {
		src, dst = p.downstream, p.upstream
		dvol = -dvol
	}
	overdraft := src.VolumeOut(dvol)
	dst.VolumeIn(dvol-overdraft, src)
}

func (p *Pda) Property(name string) (float64, bool) {
	switch name {
	case "diameter":
		return p.DiameterMm, true
	case "length":
		return p.LengthMm, true
	case "flow":
		return p.Flow, true
	}
	return 0, false
}

func (p *Pda) SetProperty(name string, value float64) bool {
	switch name {
	case "diameter":
		if value < 0 {
			value = 0
		}
		p.DiameterMm = value
	case "length":
		p.LengthMm = value
	default:
		return false
	}
	return true
}
