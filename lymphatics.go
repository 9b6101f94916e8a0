package explain

// Lymphatics drains a tissue blood compartment into a central venous
// compartment one-way, at a flow proportional to the tissue's own
// pressure above a resting threshold, the passive clearance path
// interstitial fluid takes back into the circulation. Grounded on
// Lymphatics.py.
type Lymphatics struct {
	NameField string
	IsEnabled bool

	Tissue string
	Venous string
	tissue  CapacitiveElement
	venous  CapacitiveElement

	RFor      float64
	RForFac   float64
	PresThreshold float64

	Flow float64

	dt float64
}

// NewLymphatics builds a one-way lymphatic drain wired between the named
// tissue and venous elements. Call Initialize once every component has
// been registered.
func NewLymphatics(name, tissue, venous string, dt float64) *Lymphatics {
	return &Lymphatics{
		NameField: name,
		IsEnabled: true,
		Tissue:    tissue,
		Venous:    venous,
		RForFac:   1,
		dt:        dt,
	}
}

func (l *Lymphatics) Name() string           { return l.NameField }
func (l *Lymphatics) Enabled() bool          { return l.IsEnabled }
func (l *Lymphatics) SetEnabled(enabled bool) { l.IsEnabled = enabled }
func (l *Lymphatics) Capability() Capability { return CapResistor }

// Initialize resolves the tissue and venous names against the engine's
// registry.
func (l *Lymphatics) Initialize(e *Engine) error {
	tissue, err := e.ResolveCapacitiveRef(l.Tissue)
	if err != nil {
		return err
	}
	venous, err := e.ResolveCapacitiveRef(l.Venous)
	if err != nil {
		return err
	}
	l.tissue = tissue
	l.venous = venous
	return nil
}

// Step drains volume one-way from the tissue compartment to the venous
// compartment whenever tissue pressure exceeds the resting threshold;
// negative gradients produce no flow, unlike a Resistor.
func (l *Lymphatics) Step() {
	if l.tissue == nil || l.venous == nil {
		return
	}
	dp := l.tissue.Pressure() - l.PresThreshold
	if dp <= 0 || l.RFor <= 0 {
		l.Flow = 0
		return
	}
	flow := dp / (l.RFor * l.RForFac)
	l.Flow = flow

	dvol := flow * l.dt
	overdraft := l.tissue.VolumeOut(dvol)
	l.venous.VolumeIn(dvol-overdraft, l.tissue)
}

func (l *Lymphatics) Property(name string) (float64, bool) {
	switch name {
	case "r_for":
		return l.RFor, true
	case "r_for_fac":
		return l.RForFac, true
	case "pres_threshold":
		return l.PresThreshold, true
	case "flow":
		return l.Flow, true
	}
	return 0, false
}

func (l *Lymphatics) SetProperty(name string, value float64) bool {
	switch name {
	case "r_for":
		l.RFor = value
	case "r_for_fac":
		l.RForFac = value
	case "pres_threshold":
		l.PresThreshold = value
	default:
		return false
	}
	return true
}
