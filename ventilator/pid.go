// Package ventilator implements a mechanical ventilator state machine
// (pressure control, volume control, pressure-regulated volume control and
// high-frequency oscillation) driving a gas compartment representing the
// circuit's Y-piece. Grounded on MechanicalVentilator.py.
package ventilator

// PID is a basic position-form PID controller with output clamping and
// clamped-output anti-windup, used to drive circuit pressure toward a
// setpoint in pressure-controlled modes.
type PID struct {
	Kp, Ki, Kd float64
	OutputMin  float64
	OutputMax  float64

	integral  float64
	prevError float64
	hasPrev   bool
}

// Reset clears the controller's integral and derivative history, called
// at the start of every inspiratory phase so windup from the previous
// breath does not carry over.
func (p *PID) Reset() {
	p.integral = 0
	p.prevError = 0
	p.hasPrev = false
}

// Update advances the controller by one tick of size dt and returns the
// clamped control output.
func (p *PID) Update(setpoint, measured, dt float64) float64 {
	err := setpoint - measured

	candidateIntegral := p.integral + err*dt
	var derivative float64
	if p.hasPrev && dt > 0 {
		derivative = (err - p.prevError) / dt
	}
	p.prevError = err
	p.hasPrev = true

	out := p.Kp*err + p.Ki*candidateIntegral + p.Kd*derivative

	if out > p.OutputMax {
		out = p.OutputMax
	} else if out < p.OutputMin {
		out = p.OutputMin
	} else {
		// Only accumulate the integral term while the unclamped output is
		// within range, the simplest effective anti-windup guard.
		p.integral = candidateIntegral
	}
	return out
}
