package ventilator

import (
	"fmt"
	"math"

	"github.com/Dobutamine/explain"
)

// Mode selects which control strategy MechanicalVentilator.Step uses.
type Mode int

const (
	ModePC Mode = iota
	ModeVC
	ModePRVC
	ModeHFOV
)

func (m Mode) String() string {
	switch m {
	case ModePC:
		return "pc"
	case ModeVC:
		return "vc"
	case ModePRVC:
		return "prvc"
	case ModeHFOV:
		return "hfov"
	default:
		return "unknown"
	}
}

// MechanicalVentilator drives the pressure of a gas compartment
// representing the circuit Y-piece through an inspiratory/expiratory
// cycle, in one of four modes: fixed-pressure (PC), flow-limited
// fixed-volume (VC), volume-targeted with an auto-adjusting pressure
// limit (PRVC), or continuous small-amplitude oscillation (HFOV).
// Grounded on MechanicalVentilator.py.
type MechanicalVentilator struct {
	NameField string
	IsEnabled bool

	Mode Mode

	RespRate float64 // breaths/min, ignored in HFOV
	IERatio  float64 // inspiratory:expiratory ratio, e.g. 0.5 for I:E 1:2
	PEEP     float64 // mmHg
	FiO2     float64

	// Pressure control.
	Pip float64 // mmHg, inspiratory pressure target above PEEP
	PID PID

	// Volume control / PRVC.
	TidalVolumeTargetMl float64
	PressureLimit       float64 // mmHg, PRVC auto-adjusts this toward the tidal volume target
	MaxPip              float64 // mmHg, PRVC's PressureLimit never auto-adjusts above this

	// HFOV.
	HFOVMeanPressure float64
	HFOVAmplitude    float64
	HFOVFrequencyHz  float64

	YPieceTarget string
	target       *explain.GasCompliance
	freshGas     *explain.GasCompliance

	cycleTimer           float64
	inspiratory          bool
	justEndedInspiration bool
	insDuration          float64
	expDuration          float64
	deliveredMl          float64
	peakPressure         float64

	dt float64
}

// NewMechanicalVentilator builds a ventilator driving the named gas
// compartment. Call Initialize once that compartment has been registered.
func NewMechanicalVentilator(name, yPieceTarget string, dt float64) *MechanicalVentilator {
	v := &MechanicalVentilator{
		NameField:    name,
		IsEnabled:    true,
		Mode:         ModePC,
		RespRate:     40,
		IERatio:      0.5,
		PEEP:         5,
		FiO2:         0.21,
		Pip:          15,
		MaxPip:       40,
		PID:          PID{Kp: 2.0, Ki: 5.0, Kd: 0.01, OutputMin: -50, OutputMax: 50},
		HFOVMeanPressure: 10,
		HFOVAmplitude:    8,
		HFOVFrequencyHz:  10,
		YPieceTarget:     yPieceTarget,
		dt:               dt,
	}
	v.freshGas = explain.NewGasCompliance("fresh_gas", dt)
	v.freshGas.FixedComposition = true
	v.applyFiO2ToFreshGas()
	return v
}

func (v *MechanicalVentilator) applyFiO2ToFreshGas() {
	v.freshGas.Species["o2"] = &explain.GasSpecies{DryFraction: v.FiO2}
	v.freshGas.Species["co2"] = &explain.GasSpecies{DryFraction: 0.0004}
	v.freshGas.Species["n2"] = &explain.GasSpecies{DryFraction: 1 - v.FiO2 - 0.0004}
}

func (v *MechanicalVentilator) Name() string           { return v.NameField }
func (v *MechanicalVentilator) Enabled() bool          { return v.IsEnabled }
func (v *MechanicalVentilator) SetEnabled(enabled bool) { v.IsEnabled = enabled }
func (v *MechanicalVentilator) Capability() explain.Capability { return explain.CapActuator }

// Initialize resolves the Y-piece target against the engine registry.
func (v *MechanicalVentilator) Initialize(e *explain.Engine) error {
	c, err := e.GetComponent(v.YPieceTarget)
	if err != nil {
		return err
	}
	gc, ok := c.(*explain.GasCompliance)
	if !ok {
		return fmt.Errorf("ventilator: %s is not a gas compliance", v.YPieceTarget)
	}
	v.target = gc
	return nil
}

// Step advances the breathing cycle and drives the Y-piece's pressure or
// volume according to the active mode.
func (v *MechanicalVentilator) Step() {
	if v.target == nil {
		return
	}
	if v.Mode == ModeHFOV {
		v.stepHFOV()
		return
	}
	if v.RespRate <= 0 {
		return
	}
	v.advanceCycle()
	switch v.Mode {
	case ModePC:
		v.stepPressureControl()
	case ModeVC:
		v.stepVolumeControlAt(0)
	case ModePRVC:
		v.stepPRVC()
	}
}

func (v *MechanicalVentilator) advanceCycle() {
	period := 60.0 / v.RespRate
	v.insDuration = period * (v.IERatio / (1 + v.IERatio))
	v.expDuration = period - v.insDuration

	wasInspiratory := v.inspiratory
	v.cycleTimer += v.dt
	if v.cycleTimer >= period {
		v.cycleTimer -= period
	}
	v.inspiratory = v.cycleTimer < v.insDuration
	v.justEndedInspiration = wasInspiratory && !v.inspiratory

	if v.inspiratory && !wasInspiratory {
		v.PID.Reset()
		v.deliveredMl = 0
		v.peakPressure = 0
	}
}

func (v *MechanicalVentilator) stepPressureControl() {
	setpoint := v.PEEP
	if v.inspiratory {
		setpoint = v.PEEP + v.Pip
	}
	out := v.PID.Update(setpoint, v.target.Pressure(), v.dt)
	v.applyDrivePressure(out)
}

func (v *MechanicalVentilator) stepVolumeControlAt(pressureLimit float64) {
	if v.inspiratory {
		remaining := v.TidalVolumeTargetMl - v.deliveredMl
		if remaining <= 0 || v.insDuration <= 0 {
			return
		}
		flowMlPerSec := v.TidalVolumeTargetMl / v.insDuration
		dvolMl := flowMlPerSec * v.dt
		if dvolMl > remaining {
			dvolMl = remaining
		}
		v.target.VolumeIn(dvolMl/1000.0, v.freshGas)
		v.deliveredMl += dvolMl
		if v.target.Pres > v.peakPressure {
			v.peakPressure = v.target.Pres
		}
		if pressureLimit > 0 && v.target.Pres > pressureLimit {
			v.target.SetOutsidePressure(pressureLimit - v.target.Pres)
		}
	} else {
		out := v.PID.Update(v.PEEP, v.target.Pressure(), v.dt)
		v.applyDrivePressure(out)
	}
}

func (v *MechanicalVentilator) stepPRVC() {
	v.stepVolumeControlAt(v.PressureLimit)
	if v.justEndedInspiration && v.deliveredMl > 0 {
		// Exactly once per breath, at the inspiration-to-expiration edge,
		// nudge the pressure limit by exactly 1 mmHg toward whatever would
		// have produced the target tidal volume, the auto-regulation PRVC
		// is named for, clamped at MaxPip.
		if v.deliveredMl < v.TidalVolumeTargetMl*0.95 {
			v.PressureLimit += 1.0
			if v.MaxPip > 0 && v.PressureLimit > v.MaxPip {
				v.PressureLimit = v.MaxPip
			}
		} else if v.deliveredMl > v.TidalVolumeTargetMl*1.05 {
			v.PressureLimit -= 1.0
		}
	}
}

func (v *MechanicalVentilator) stepHFOV() {
	t := v.cycleTimer
	v.cycleTimer += v.dt
	pressure := v.HFOVMeanPressure + v.HFOVAmplitude*math.Sin(2*math.Pi*v.HFOVFrequencyHz*t)
	v.applyDrivePressure(pressure - v.target.Pressure())
}

func (v *MechanicalVentilator) applyDrivePressure(delta float64) {
	v.target.SetOutsidePressure(delta)
}

func (v *MechanicalVentilator) Property(name string) (float64, bool) {
	switch name {
	case "resp_rate":
		return v.RespRate, true
	case "peep":
		return v.PEEP, true
	case "pip":
		return v.Pip, true
	case "fio2":
		return v.FiO2, true
	case "tidal_volume_target":
		return v.TidalVolumeTargetMl, true
	case "pressure_limit":
		return v.PressureLimit, true
	case "max_pip":
		return v.MaxPip, true
	case "hfov_mean_pressure":
		return v.HFOVMeanPressure, true
	case "hfov_amplitude":
		return v.HFOVAmplitude, true
	case "hfov_frequency":
		return v.HFOVFrequencyHz, true
	case "delivered_volume":
		return v.deliveredMl, true
	}
	return 0, false
}

func (v *MechanicalVentilator) SetProperty(name string, value float64) bool {
	switch name {
	case "resp_rate":
		v.RespRate = value
	case "peep":
		v.PEEP = value
	case "pip":
		v.Pip = value
	case "fio2":
		v.FiO2 = value
		v.applyFiO2ToFreshGas()
	case "tidal_volume_target":
		v.TidalVolumeTargetMl = value
	case "pressure_limit":
		v.PressureLimit = value
	case "max_pip":
		v.MaxPip = value
	case "hfov_mean_pressure":
		v.HFOVMeanPressure = value
	case "hfov_amplitude":
		v.HFOVAmplitude = value
	case "hfov_frequency":
		v.HFOVFrequencyHz = value
	default:
		return false
	}
	return true
}
