// Package brent implements Brent's bracket-preserving root finder, used by
// the blood-gas solvers to invert the acid-base and oxygenation equations.
// It is extracted from the per-solver copy used throughout the original
// model (Blood.py's brent_root_finding) into a single reusable function.
package brent

import (
	"errors"
	"math"
)

// ErrNoConvergence is returned when the initial bracket does not straddle a
// root, or the iteration budget is exhausted before the tolerance is met.
// Callers must treat this as a local, non-fatal condition: skip the update
// for this tick and leave prior state unchanged.
var ErrNoConvergence = errors.New("brent: root not bracketed or iteration limit reached")

// Func is a scalar function whose root Find searches for.
type Func func(x float64) float64

// Find searches for a root of f within [x0, x1] using Brent's method,
// stopping after maxIter iterations or once the bracket width is within
// tolerance. It is a direct port of the reference implementation: inverse
// quadratic interpolation when the three sample points are distinct, secant
// otherwise, falling back to bisection whenever the interpolated point
// would leave the shrinking bracket or converge too slowly.
func Find(f Func, x0, x1 float64, maxIter int, tolerance float64) (float64, error) {
	fx0 := f(x0)
	fx1 := f(x1)

	if fx0*fx1 > 0 {
		return 0, ErrNoConvergence
	}

	if math.Abs(fx0) < math.Abs(fx1) {
		x0, x1 = x1, x0
		fx0, fx1 = fx1, fx0
	}

	x2, fx2 := x0, fx0
	var d float64
	mflag := true
	steps := 0

	for steps < maxIter && math.Abs(x1-x0) > tolerance {
		fx0 = f(x0)
		fx1 = f(x1)
		fx2 = f(x2)

		var new float64
		if fx0 != fx2 && fx1 != fx2 {
			l0 := (x0 * fx1 * fx2) / ((fx0 - fx1) * (fx0 - fx2))
			l1 := (x1 * fx0 * fx2) / ((fx1 - fx0) * (fx1 - fx2))
			l2 := (x2 * fx1 * fx0) / ((fx2 - fx0) * (fx2 - fx1))
			new = l0 + l1 + l2
		} else {
			new = x1 - (fx1*(x1-x0))/(fx1-fx0)
		}

		cond := new < (3*x0+x1)/4 || new > x1 ||
			(mflag && math.Abs(new-x1) >= math.Abs(x1-x2)/2) ||
			(!mflag && math.Abs(new-x1) >= math.Abs(x2-d)/2) ||
			(mflag && math.Abs(x1-x2) < tolerance) ||
			(!mflag && math.Abs(x2-d) < tolerance)

		if cond {
			new = (x0 + x1) / 2
			mflag = true
		} else {
			mflag = false
		}

		fnew := f(new)
		d, x2 = x2, x1

		if fx0*fnew < 0 {
			x1, fx1 = new, fnew
		} else {
			x0, fx0 = new, fnew
		}

		if math.Abs(fx0) < math.Abs(fx1) {
			x0, x1 = x1, x0
		}

		steps++
	}

	if steps >= maxIter {
		return 0, ErrNoConvergence
	}

	return x1, nil
}
