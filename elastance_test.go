package explain

import "testing"

func TestTimeVaryingElastanceInterpolatesBetweenMinAndMax(t *testing.T) {
	c := NewTimeVaryingElastance("LV", 0.001)
	c.UVol = 10
	c.ElMin = 0.1
	c.ElMax = 2.5
	c.Vol = 30

	c.ActFactor = 0
	c.Step()
	diastolicPres := c.Pres

	c.ActFactor = 1
	c.Step()
	systolicPres := c.Pres

	if systolicPres <= diastolicPres {
		t.Errorf("want systolic pressure above diastolic at act_factor=1; diastolic=%f systolic=%f", diastolicPres, systolicPres)
	}
}

func TestTimeVaryingElastanceClampsAtUnstressedVolume(t *testing.T) {
	c := NewTimeVaryingElastance("LV", 0.001)
	c.UVol = 20
	c.Vol = 5
	c.ActFactor = 1
	c.ElMax = 2.0

	c.Step()

	if c.Vol != c.UVol {
		t.Errorf("want volume clamped to u_vol; got %f", c.Vol)
	}
}

func TestSetActivationFactor(t *testing.T) {
	c := NewTimeVaryingElastance("LV", 0.001)
	c.SetActivationFactor(0.42)
	if c.ActFactor != 0.42 {
		t.Errorf("want act_factor 0.42; got %f", c.ActFactor)
	}
}
