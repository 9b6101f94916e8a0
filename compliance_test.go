package explain

import "testing"

func TestBloodCompliancePressureRisesWithVolume(t *testing.T) {
	c := NewBloodCompliance("AA", 0.001)
	c.UVol = 100
	c.ElBase = 1.0

	c.Vol = 100
	c.Step()
	presAtUVol := c.Pres

	c.Vol = 150
	c.Step()
	presAbove := c.Pres

	if presAbove <= presAtUVol {
		t.Errorf("want pressure to rise with volume above unstressed: at u_vol=%f, above=%f", presAtUVol, presAbove)
	}
}

func TestBloodComplianceClampsAtUnstressedVolume(t *testing.T) {
	c := NewBloodCompliance("AA", 0.001)
	c.UVol = 100
	c.ElBase = 1.0
	c.Vol = 50

	c.Step()

	if c.Vol != c.UVol {
		t.Errorf("want volume clamped to u_vol=%f; got %f", c.UVol, c.Vol)
	}
	if c.RecoilPressure != 0 {
		t.Errorf("want zero recoil pressure below unstressed volume; got %f", c.RecoilPressure)
	}
}

func TestVolumeOutProtectsMassBalance(t *testing.T) {
	c := NewBloodCompliance("AA", 0.001)
	c.Vol = 10

	overdraft := c.VolumeOut(15)

	if c.Vol != 0 {
		t.Errorf("want volume clamped to 0; got %f", c.Vol)
	}
	if overdraft != 5 {
		t.Errorf("want overdraft of 5; got %f", overdraft)
	}
}

func TestVolumeOutNoOverdraftWhenSufficient(t *testing.T) {
	c := NewBloodCompliance("AA", 0.001)
	c.Vol = 10

	overdraft := c.VolumeOut(4)

	if c.Vol != 6 {
		t.Errorf("want volume of 6; got %f", c.Vol)
	}
	if overdraft != 0 {
		t.Errorf("want no overdraft; got %f", overdraft)
	}
}

func TestVolumeInMixesDissolvedSubstances(t *testing.T) {
	src := NewBloodCompliance("VP", 0.001)
	src.Vol = 100
	src.TO2 = 8.0
	src.TCO2 = 22.0
	src.Compounds["tpp"] = &Compound{Concentration: 2.0}

	dst := NewBloodCompliance("AA", 0.001)
	dst.Vol = 100
	dst.TO2 = 4.0
	dst.TCO2 = 20.0
	dst.Compounds["tpp"] = &Compound{Concentration: 0.0}

	dst.VolumeIn(10, src)

	if dst.Vol != 110 {
		t.Errorf("want volume 110; got %f", dst.Vol)
	}
	if dst.TO2 <= 4.0 || dst.TO2 >= 8.0 {
		t.Errorf("want mixed TO2 between source and destination; got %f", dst.TO2)
	}
	if dst.Compounds["tpp"].Concentration <= 0 {
		t.Errorf("want tpp concentration pulled toward source; got %f", dst.Compounds["tpp"].Concentration)
	}
}

func TestVolumeInSkipsFixedCompounds(t *testing.T) {
	src := NewBloodCompliance("VP", 0.001)
	src.Vol = 100
	src.Compounds["drug"] = &Compound{Concentration: 5.0}

	dst := NewBloodCompliance("AA", 0.001)
	dst.Vol = 100
	dst.Compounds["drug"] = &Compound{Concentration: 0.0, Fixed: true}

	dst.VolumeIn(10, src)

	if dst.Compounds["drug"].Concentration != 0 {
		t.Errorf("want fixed compound unaffected by mixing; got %f", dst.Compounds["drug"].Concentration)
	}
}

func TestVolumeInNoOpWithFixedComposition(t *testing.T) {
	src := NewBloodCompliance("VP", 0.001)
	src.Vol = 100
	src.TO2 = 8.0

	dst := NewBloodCompliance("AA", 0.001)
	dst.FixedComposition = true
	dst.Vol = 100
	dst.TO2 = 4.0

	dst.VolumeIn(10, src)

	if dst.Vol != 100 {
		t.Errorf("want fixed-composition volume unchanged; got %f", dst.Vol)
	}
	if dst.TO2 != 4.0 {
		t.Errorf("want fixed-composition TO2 unchanged; got %f", dst.TO2)
	}
}

func TestGasComplianceDerivesWetFractionsFromPressure(t *testing.T) {
	g := NewGasCompliance("ALV", 0.005)
	g.UVol = 20
	g.ElBase = 100
	g.Vol = 25
	g.Species["o2"] = &GasSpecies{DryFraction: 0.21}
	g.Species["co2"] = &GasSpecies{DryFraction: 0.0004}
	g.Species["n2"] = &GasSpecies{DryFraction: 0.7896}

	g.Step()

	if g.Pres <= g.PAtm {
		t.Errorf("want pressure above atmospheric when volume exceeds unstressed; got %f", g.Pres)
	}
	o2 := g.Species["o2"]
	if o2.WetFraction <= 0 || o2.WetFraction >= o2.DryFraction {
		t.Errorf("want wet fraction discounted by water vapour but still positive; got %f", o2.WetFraction)
	}
	if o2.PartialPressure <= 0 {
		t.Errorf("want positive o2 partial pressure; got %f", o2.PartialPressure)
	}
}

func TestGasComplianceExchangeGasMovesDryFraction(t *testing.T) {
	g := NewGasCompliance("ALV", 0.005)
	g.UVol = 20
	g.ElBase = 100
	g.Vol = 25
	g.Species["o2"] = &GasSpecies{DryFraction: 0.21}
	g.Species["co2"] = &GasSpecies{DryFraction: 0.0004}
	g.Step()

	initialO2 := g.Species["o2"].DryFraction

	g.ExchangeGas(-0.001, 0.0008)
	g.Step()

	if g.Species["o2"].DryFraction >= initialO2 {
		t.Errorf("want o2 dry fraction to fall after negative flux; before=%f after=%f", initialO2, g.Species["o2"].DryFraction)
	}
}
