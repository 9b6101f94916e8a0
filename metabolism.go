package explain

// MetabolicSite is one tissue blood compartment consuming oxygen and
// producing CO2, weighted by its share of total metabolic rate.
type MetabolicSite struct {
	Name   string
	Weight float64

	blood bloodConsumer
}

// bloodConsumer is the minimal surface Metabolism needs from a blood
// compartment: direct read/write of its dissolved-gas totals.
type bloodConsumer interface {
	oxygenTotal() float64
	co2Total() float64
	setOxygenTotal(float64)
	setCO2Total(float64)
	volume() float64
}

// Metabolism converts a whole-body oxygen consumption rate (VO2) and a
// respiratory quotient into a per-tissue-site oxygen drain and CO2
// production each tick, clamping consumption so a site's dissolved oxygen
// never goes negative. Grounded on Metabolism.py.
type Metabolism struct {
	NameField string
	IsEnabled bool

	VO2 float64 // ml O2 / kg / min, whole body
	RQ  float64 // respiratory quotient, CO2 produced per O2 consumed

	WeightKg float64

	// SiteWeights maps a tissue component name to its share of total
	// metabolic rate; populated before Initialize resolves it into Sites.
	SiteWeights map[string]float64

	Sites []MetabolicSite

	dt float64
}

// NewMetabolism builds the metabolic driver for a set of named, weighted
// tissue sites. Call Initialize once every site has been registered.
func NewMetabolism(name string, weightKg float64, dt float64) *Metabolism {
	return &Metabolism{
		NameField: name,
		IsEnabled: true,
		RQ:        0.8,
		WeightKg:  weightKg,
		dt:        dt,
	}
}

func (m *Metabolism) Name() string           { return m.NameField }
func (m *Metabolism) Enabled() bool          { return m.IsEnabled }
func (m *Metabolism) SetEnabled(enabled bool) { m.IsEnabled = enabled }
func (m *Metabolism) Capability() Capability { return CapActuator }

// Initialize resolves every name in SiteWeights against the engine's
// registry.
func (m *Metabolism) Initialize(e *Engine) error {
	m.Sites = m.Sites[:0]
	for name, weight := range m.SiteWeights {
		c, err := e.GetComponent(name)
		if err != nil {
			return err
		}
		bc, ok := c.(bloodConsumer)
		if !ok {
			return ErrUnresolvedReference
		}
		m.Sites = append(m.Sites, MetabolicSite{Name: name, Weight: weight, blood: bc})
	}
	return nil
}

// Step drains dissolved oxygen and adds dissolved CO2 at every site in
// proportion to its metabolic weight, converting the whole-body VO2 (in
// ml/kg/min STPD) into mmol consumed this tick.
func (m *Metabolism) Step() {
	if m.VO2 <= 0 || len(m.Sites) == 0 {
		return
	}
	// ml O2/min at STPD -> mmol/min: divide by 22.4 ml/mmol.
	totalMmolPerMin := (m.VO2 * m.WeightKg) / 22.4
	totalMmolThisTick := totalMmolPerMin / 60.0 * m.dt

	for _, site := range m.Sites {
		vol := site.blood.volume()
		if vol <= 0 {
			continue
		}
		consumedMmol := totalMmolThisTick * site.Weight
		dTO2 := consumedMmol / vol
		newTO2 := site.blood.oxygenTotal() - dTO2
		if newTO2 < 0 {
			newTO2 = 0
		}
		site.blood.setOxygenTotal(newTO2)

		producedMmol := consumedMmol * m.RQ
		dTCO2 := producedMmol / vol
		site.blood.setCO2Total(site.blood.co2Total() + dTCO2)
	}
}

func (m *Metabolism) Property(name string) (float64, bool) {
	switch name {
	case "vo2":
		return m.VO2, true
	case "rq":
		return m.RQ, true
	}
	return 0, false
}

func (m *Metabolism) SetProperty(name string, value float64) bool {
	switch name {
	case "vo2":
		m.VO2 = value
	case "rq":
		m.RQ = value
	default:
		return false
	}
	return true
}

func (c *BloodCompliance) setOxygenTotal(v float64) { c.TO2 = v }
func (c *BloodCompliance) setCO2Total(v float64)    { c.TCO2 = v }
func (c *BloodCompliance) volume() float64          { return c.Vol }

func (t *TimeVaryingElastance) setOxygenTotal(v float64) { t.TO2 = v }
func (t *TimeVaryingElastance) setCO2Total(v float64)    { t.TCO2 = v }
func (t *TimeVaryingElastance) volume() float64          { return t.Vol }
