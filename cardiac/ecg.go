// Package cardiac drives the heart's time-varying elastance chambers from
// a pacemaker clock, the Go home for what Heart.py consumes from an ECG
// component and the supplement this distillation's source pack dropped.
package cardiac

import "github.com/Dobutamine/explain"

// ECG is a minimal pacemaker: it free-runs at a set heart rate and exposes
// how far the current cardiac cycle has progressed since atrial and
// ventricular depolarization, the two clocks Heart uses to drive its
// chambers' activation curves. Heart.py consumes ncc_atrial/ncc_ventricular
// from a component named ecg; that component's own source was not part of
// the retrieved pack, so this is a supplemented minimal pacemaker rather
// than a port.
type ECG struct {
	NameField string
	IsEnabled bool

	HeartRate float64 // beats per minute
	AVDelay   float64 // seconds from atrial onset to ventricular onset

	// NccAtrial and NccVentricular are seconds elapsed since atrial and
	// ventricular depolarization onset respectively, each cycle.
	// NccVentricular is negative until ventricular onset (AVDelay into the
	// cycle), which a heart reads as "outside the activation window"
	// (activation factor 0).
	NccAtrial      float64
	NccVentricular float64

	cycleTimer float64
	dt         float64
}

// NewECG builds a pacemaker at the given heart rate.
func NewECG(name string, heartRate float64, dt float64) *ECG {
	return &ECG{
		NameField: name,
		IsEnabled: true,
		HeartRate: heartRate,
		AVDelay:   0.1,
		dt:        dt,
	}
}

func (e *ECG) Name() string           { return e.NameField }
func (e *ECG) Enabled() bool          { return e.IsEnabled }
func (e *ECG) SetEnabled(enabled bool) { e.IsEnabled = enabled }
func (e *ECG) Capability() explain.Capability { return explain.CapDriver }

// Step advances the cycle timer, wrapping at the current heart-rate
// period, and recomputes the atrial/ventricular cycle clocks.
func (e *ECG) Step() {
	if e.HeartRate <= 0 {
		return
	}
	period := 60.0 / e.HeartRate
	e.cycleTimer += e.dt
	if e.cycleTimer >= period {
		e.cycleTimer -= period
	}
	e.NccAtrial = e.cycleTimer
	e.NccVentricular = e.cycleTimer - e.AVDelay
}

func (e *ECG) Property(name string) (float64, bool) {
	switch name {
	case "heart_rate":
		return e.HeartRate, true
	case "av_delay":
		return e.AVDelay, true
	case "ncc_atrial":
		return e.NccAtrial, true
	case "ncc_ventricular":
		return e.NccVentricular, true
	}
	return 0, false
}

func (e *ECG) SetProperty(name string, value float64) bool {
	switch name {
	case "heart_rate":
		e.HeartRate = value
	case "av_delay":
		e.AVDelay = value
	default:
		return false
	}
	return true
}
