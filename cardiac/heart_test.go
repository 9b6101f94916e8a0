package cardiac

import (
	"testing"

	"github.com/Dobutamine/explain"
)

func buildHeart(t *testing.T) (*explain.Engine, *Heart, *explain.TimeVaryingElastance, *explain.TimeVaryingElastance) {
	t.Helper()
	e := explain.NewEngine("test", "", 3.0, 0.001)

	ecg := NewECG("ecg", 120, 0.001)
	e.Register(ecg)

	la := explain.NewTimeVaryingElastance("LA", 0.001)
	lv := explain.NewTimeVaryingElastance("LV", 0.001)
	e.Register(la)
	e.Register(lv)

	h := NewHeart("heart", "ecg", []string{"LA"}, []string{"LV"}, 0.001)
	h.AtrialDuration = 0.1
	h.VentricularDuration = 0.3
	e.Register(h)

	if err := h.Initialize(e); err != nil {
		t.Fatalf("initialize heart: %v", err)
	}
	return e, h, la, lv
}

func TestAtrialActivationZeroOutsideWindow(t *testing.T) {
	if got := atrialActivation(-0.01, 0.1); got != 0 {
		t.Errorf("want zero before window starts; got %f", got)
	}
	if got := atrialActivation(0.2, 0.1); got != 0 {
		t.Errorf("want zero after window ends; got %f", got)
	}
}

func TestAtrialActivationPeaksAtCenter(t *testing.T) {
	center := atrialActivation(0.05, 0.1)
	edge := atrialActivation(0.01, 0.1)
	if center <= edge {
		t.Errorf("want activation higher at window center than near its edge; center=%f edge=%f", center, edge)
	}
	if center > 1.0+1e-9 {
		t.Errorf("want atrial activation bounded at 1.0; got %f", center)
	}
}

func TestVentricularActivationZeroOutsideWindow(t *testing.T) {
	if got := ventricularActivation(-0.01, 0.3); got != 0 {
		t.Errorf("want zero before window starts; got %f", got)
	}
	if got := ventricularActivation(0.31, 0.3); got != 0 {
		t.Errorf("want zero after window ends; got %f", got)
	}
}

func TestVentricularActivationCanExceedOne(t *testing.T) {
	// The two Gaussians' peaks sit close enough together (0.5 and 0.6 of the
	// duration) that their overlap pushes the sum above either individual
	// amplitude, around 0.58 of the duration.
	overlap := ventricularActivation(0.58*0.3, 0.3)
	if overlap <= 1.0 {
		t.Errorf("want the two summed Gaussians to exceed amplitude 1.0 near their overlap; got %f", overlap)
	}
}

func TestHeartDrivesChamberActivation(t *testing.T) {
	_, h, la, lv := buildHeart(t)

	h.ecg.NccAtrial = 0.05
	h.ecg.NccVentricular = -0.2 // before ventricular onset
	h.Step()

	if la.ActFactor <= 0 {
		t.Errorf("want atrial chamber activated mid-window; got %f", la.ActFactor)
	}
	if lv.ActFactor != 0 {
		t.Errorf("want ventricular chamber quiescent before its window opens; got %f", lv.ActFactor)
	}
}
