package cardiac

import "testing"

func TestECGCycleWrapsAtPeriod(t *testing.T) {
	ecg := NewECG("ecg", 120, 0.01) // period = 0.5s
	for i := 0; i < 60; i++ {
		ecg.Step()
	}
	if ecg.NccAtrial < 0 || ecg.NccAtrial >= 0.5 {
		t.Errorf("want ncc_atrial within one cycle period; got %f", ecg.NccAtrial)
	}
}

func TestECGVentricularLagsAtrial(t *testing.T) {
	ecg := NewECG("ecg", 100, 0.01)
	ecg.AVDelay = 0.12
	ecg.Step()
	if ecg.NccVentricular != ecg.NccAtrial-ecg.AVDelay {
		t.Errorf("want ventricular clock offset from atrial by av_delay")
	}
}

func TestECGDisabledByZeroHeartRate(t *testing.T) {
	ecg := NewECG("ecg", 0, 0.01)
	before := ecg.NccAtrial
	ecg.Step()
	if ecg.NccAtrial != before {
		t.Error("want no cycle advance with zero heart rate")
	}
}
