package explain

import "math"

// Resistor connects two capacitive elements and moves volume down their
// pressure gradient each tick, with independent forward and backward
// resistances and an optional non-linear (Forchheimer) term driven by the
// previous tick's flow. Grounded on Valve.py.
type Resistor struct {
	NameField string
	IsEnabled bool

	Upstream   string
	Downstream string
	upstream   CapacitiveElement
	downstream CapacitiveElement

	RFor    float64
	RForFac float64
	RBack   float64
	RBackFac float64
	RK      float64
	RKFac   float64

	NoFlow     bool
	NoBackFlow bool

	Flow     float64
	prevFlow float64

	dt float64
}

// NewResistor builds a resistor wired between the named upstream and
// downstream elements. Call Initialize once every component has been
// registered to resolve the names into live references.
func NewResistor(name, upstream, downstream string, dt float64) *Resistor {
	return &Resistor{
		NameField:  name,
		IsEnabled:  true,
		Upstream:   upstream,
		Downstream: downstream,
		RForFac:    1,
		RBackFac:   1,
		RKFac:      1,
		dt:         dt,
	}
}

func (r *Resistor) Name() string           { return r.NameField }
func (r *Resistor) Enabled() bool          { return r.IsEnabled }
func (r *Resistor) SetEnabled(enabled bool) { r.IsEnabled = enabled }
func (r *Resistor) Capability() Capability { return CapResistor }

// Initialize resolves the upstream and downstream names against the
// engine's registry. It is the second phase of the two-phase construction
// every component goes through: build everything, then wire it together.
func (r *Resistor) Initialize(e *Engine) error {
	up, err := e.ResolveCapacitiveRef(r.Upstream)
	if err != nil {
		return err
	}
	down, err := e.ResolveCapacitiveRef(r.Downstream)
	if err != nil {
		return err
	}
	r.upstream = up
	r.downstream = down
	return nil
}

// Step computes the pressure-gradient-driven flow and transfers the
// corresponding volume, preserving total mass when the sending element
// cannot give up the full amount.
func (r *Resistor) Step() {
	if r.upstream == nil || r.downstream == nil {
		return
	}

	dp := r.upstream.Pressure() - r.downstream.Pressure()

	var resistance float64
	if dp >= 0 {
		resistance = r.RFor * r.RForFac
	} else {
		resistance = r.RBack * r.RBackFac
	}
	resistance += r.RK * r.RKFac * math.Abs(r.prevFlow)
	if resistance == 0 {
		r.Flow = 0
		return
	}

	flow := dp / resistance

	if r.NoFlow {
		flow = 0
	}
	if r.NoBackFlow && flow < 0 {
		flow = 0
	}

	r.Flow = flow
	r.prevFlow = flow

	if flow == 0 {
		return
	}

	dvol := flow * r.dt
	var src, dst CapacitiveElement
	if dvol >= 0 {
		src, dst = r.upstream, r.downstream
	} else {
		src, dst = r.downstream, r.upstream
		dvol = -dvol
	}

	overdraft := src.VolumeOut(dvol)
	dst.VolumeIn(dvol-overdraft, src)
}

func (r *Resistor) Property(name string) (float64, bool) {
	switch name {
	case "r_for":
		return r.RFor, true
	case "r_for_fac":
		return r.RForFac, true
	case "r_back":
		return r.RBack, true
	case "r_back_fac":
		return r.RBackFac, true
	case "r_k":
		return r.RK, true
	case "r_k_fac":
		return r.RKFac, true
	case "flow":
		return r.Flow, true
	}
	return 0, false
}

func (r *Resistor) SetProperty(name string, value float64) bool {
	switch name {
	case "r_for":
		r.RFor = value
	case "r_for_fac":
		r.RForFac = value
	case "r_back":
		r.RBack = value
	case "r_back_fac":
		r.RBackFac = value
	case "r_k":
		r.RK = value
	case "r_k_fac":
		r.RKFac = value
	case "no_flow":
		r.NoFlow = value != 0
	case "no_backflow":
		r.NoBackFlow = value != 0
	default:
		return false
	}
	return true
}
