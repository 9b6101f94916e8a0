package explain

// TimeVaryingElastance is a blood-filled chamber whose elastance swings
// between a diastolic and a systolic value under the control of an
// externally driven activation factor in [0, ~1.1], the hydraulic model of
// a contracting heart chamber. Grounded on TimeVaryingElastance.py.
type TimeVaryingElastance struct {
	NameField        string
	IsEnabled        bool
	FixedComposition bool

	Vol     float64
	UVol    float64
	UVolFac float64

	ElMin    float64
	ElMinFac float64
	ElMax    float64
	ElMaxFac float64
	ElK      float64
	ElKFac   float64

	ActFactor float64

	PAtm           float64
	Pres           float64
	PresOutside    float64
	PresITP        float64
	PresTransmural float64

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

// NewTimeVaryingElastance builds a chamber with a one-second analysis
// window, matching the reference default.
func NewTimeVaryingElastance(name string, dt float64) *TimeVaryingElastance {
	return &TimeVaryingElastance{
		NameField:      name,
		IsEnabled:      true,
		UVolFac:        1,
		ElMinFac:       1,
		ElMaxFac:       1,
		ElKFac:         1,
		PAtm:           760,
		analysisWindow: 1.0,
		Compounds:      make(map[string]*Compound),
		dt:             dt,
	}
}

func (t *TimeVaryingElastance) Name() string              { return t.NameField }
func (t *TimeVaryingElastance) Enabled() bool              { return t.IsEnabled }
func (t *TimeVaryingElastance) SetEnabled(enabled bool)    { t.IsEnabled = enabled }
func (t *TimeVaryingElastance) Capability() Capability     { return CapTimeVaryingElastance }
func (t *TimeVaryingElastance) Pressure() float64          { return t.Pres }
func (t *TimeVaryingElastance) SetOutsidePressure(p float64) { t.PresOutside += p }
func (t *TimeVaryingElastance) SetITP(p float64)           { t.PresITP += p }

// SetActivationFactor is called once per tick by the cardiac driver before
// Step, with the chamber's current position on its atrial or ventricular
// activation curve.
func (t *TimeVaryingElastance) SetActivationFactor(factor float64) {
	t.ActFactor = factor
}

// Step interpolates the chamber's elastance between its diastolic and
// systolic values using the current activation factor, then recomputes
// pressure from volume exactly as a BloodCompliance does.
func (t *TimeVaryingElastance) Step() {
	elMin := t.ElMin * t.ElMinFac
	elMax := t.ElMax * t.ElMaxFac

	vAboveUnstressed := t.Vol - t.UVol*t.UVolFac
	if vAboveUnstressed < 0 {
		vAboveUnstressed = 0
		t.Vol = t.UVol
	}
	elastance := elMin + (elMax-elMin)*t.ActFactor + t.ElK*t.ElKFac*vAboveUnstressed*vAboveUnstressed
	t.Pres = vAboveUnstressed*elastance + t.PresOutside + t.PresITP + t.PAtm
	t.PresTransmural = vAboveUnstressed*elastance + t.PresOutside - t.PresITP + t.PAtm
	t.PresOutside = 0
	t.PresITP = 0

	if t.analysisCounter > t.analysisWindow {
		t.Systole = t.maxPresTemp
		t.maxPresTemp = -1000
		t.Diastole = t.minPresTemp
		t.minPresTemp = 1000
		t.Mean = (2*t.Diastole + t.Systole) / 3.0
		t.analysisCounter = 0
	}
	if t.Pres > t.maxPresTemp {
		t.maxPresTemp = t.Pres
	}
	if t.Pres < t.minPresTemp {
		t.minPresTemp = t.Pres
	}
	t.analysisCounter += t.dt
}

func (t *TimeVaryingElastance) VolumeIn(dvol float64, source MixSource) {
	if !t.FixedComposition {
		t.Vol += dvol
	}
	if t.Vol <= 0 || t.FixedComposition {
		return
	}
	bm, ok := source.(bloodMixer)
	if !ok {
		return
	}
	for name, compound := range t.Compounds {
		if compound.Fixed {
			continue
		}
		srcConc, ok := bm.compoundConc(name)
		if !ok {
			continue
		}
		dCompound := (srcConc - compound.Concentration) * dvol
		compound.Concentration = (compound.Concentration*t.Vol + dCompound) / t.Vol
	}
	dO2 := (bm.oxygenTotal() - t.TO2) * dvol
	t.TO2 = (t.TO2*t.Vol + dO2) / t.Vol
	dCO2 := (bm.co2Total() - t.TCO2) * dvol
	t.TCO2 = (t.TCO2*t.Vol + dCO2) / t.Vol
}

func (t *TimeVaryingElastance) VolumeOut(dvol float64) float64 {
	if !t.FixedComposition {
		t.Vol -= dvol
	}
	return t.protectMassBalance()
}

func (t *TimeVaryingElastance) protectMassBalance() float64 {
	if t.Vol < 0 {
		overdraft := -t.Vol
		t.Vol = 0
		return overdraft
	}
	return 0
}

func (t *TimeVaryingElastance) oxygenTotal() float64 { return t.TO2 }
func (t *TimeVaryingElastance) co2Total() float64    { return t.TCO2 }
func (t *TimeVaryingElastance) compoundConc(name string) (float64, bool) {
	cp, ok := t.Compounds[name]
	if !ok {
		return 0, false
	}
	return cp.Concentration, true
}

func (t *TimeVaryingElastance) Property(name string) (float64, bool) {
	switch name {
	case "vol":
		return t.Vol, true
	case "u_vol":
		return t.UVol, true
	case "u_vol_fac":
		return t.UVolFac, true
	case "el_min":
		return t.ElMin, true
	case "el_min_fac":
		return t.ElMinFac, true
	case "el_max":
		return t.ElMax, true
	case "el_max_fac":
		return t.ElMaxFac, true
	case "el_k":
		return t.ElK, true
	case "el_k_fac":
		return t.ElKFac, true
	case "pres":
		return t.Pres, true
	}
	if cp, ok := t.Compounds[name]; ok {
		return cp.Concentration, true
	}
	return 0, false
}

func (t *TimeVaryingElastance) SetProperty(name string, value float64) bool {
	switch name {
	case "vol":
		t.Vol = value
	case "u_vol":
		t.UVol = value
	case "u_vol_fac":
		t.UVolFac = value
	case "el_min":
		t.ElMin = value
	case "el_min_fac":
		t.ElMinFac = value
	case "el_max":
		t.ElMax = value
	case "el_max_fac":
		t.ElMaxFac = value
	case "el_k":
		t.ElK = value
	case "el_k_fac":
		t.ElKFac = value
	default:
		if cp, ok := t.Compounds[name]; ok {
			cp.Concentration = value
			return true
		}
		return false
	}
	return true
}
