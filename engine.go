// Package explain implements a discrete-time, component-based simulation
// kernel for the neonatal cardiopulmonary system: a hydraulic/gas network
// of compliances, time-varying elastances and resistive valves, driven by
// a fixed-step Engine clock.
package explain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// ErrDuplicateComponent is returned by Register when a component name is
// already taken.
var ErrDuplicateComponent = errors.New("explain: duplicate component name")

// ErrComponentNotFound is returned when a reference names an unregistered
// component.
var ErrComponentNotFound = errors.New("explain: component not found")

// ErrUnresolvedReference is returned by Initialize when a component's
// cross-reference names a component that was never registered.
var ErrUnresolvedReference = errors.New("explain: unresolved cross-reference")

// ErrInvalidReference is returned when a "name.property" reference string
// is malformed.
var ErrInvalidReference = errors.New("explain: invalid reference")

// TelemetrySink receives a callback once per tick after every component has
// stepped. Sampling, plotting and file export all live behind this
// interface and outside the engine's scope.
type TelemetrySink interface {
	Sample(clock float64)
}

// Engine owns the component registry and drives the fixed-step simulation
// clock. Components are registered once, in the order the configuration
// names them, and stepped in that same order every tick.
type Engine struct {
	Name        string
	Description string
	WeightKg    float64
	Dt          float64
	Clock       float64

	components map[string]Component
	order      []string

	sink TelemetrySink
	Log  *logrus.Logger
}

// NewEngine builds an empty engine with the given fixed step size in
// seconds. Components are added with Register.
func NewEngine(name, description string, weightKg, dt float64) *Engine {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return &Engine{
		Name:        name,
		Description: description,
		WeightKg:    weightKg,
		Dt:          dt,
		components:  make(map[string]Component),
		Log:         log,
	}
}

// SetTelemetrySink attaches a sink that is notified once per tick. A nil
// sink disables telemetry.
func (e *Engine) SetTelemetrySink(sink TelemetrySink) {
	e.sink = sink
}

// Register adds a component under its own name. Registration order
// determines step order. It is an error to register the same name twice.
func (e *Engine) Register(c Component) error {
	if _, exists := e.components[c.Name()]; exists {
		e.Log.Errorf("%s could not be registered: name already taken", c.Name())
		return fmt.Errorf("%w: %s", ErrDuplicateComponent, c.Name())
	}
	e.components[c.Name()] = c
	e.order = append(e.order, c.Name())
	return nil
}

// GetComponent looks up a registered component by name.
func (e *Engine) GetComponent(name string) (Component, error) {
	c, ok := e.components[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrComponentNotFound, name)
	}
	return c, nil
}

// GetCapacitiveElement looks up a component by name and asserts it
// implements CapacitiveElement, the type resistors wire between.
func (e *Engine) GetCapacitiveElement(name string) (CapacitiveElement, error) {
	c, err := e.GetComponent(name)
	if err != nil {
		return nil, err
	}
	ce, ok := c.(CapacitiveElement)
	if !ok {
		return nil, fmt.Errorf("explain: %s is not a capacitive element", name)
	}
	return ce, nil
}

// Step advances the simulation by n ticks, invoking Step on every enabled
// component in registration order, then notifying the telemetry sink, then
// advancing the clock. It returns the total wall-clock time spent and the
// average per-tick time; n == 0 is a no-op.
func (e *Engine) Step(n int) (total time.Duration, perTick time.Duration) {
	start := time.Now()
	for i := 0; i < n; i++ {
		for _, name := range e.order {
			c := e.components[name]
			if c.Enabled() {
				c.Step()
			}
		}
		if e.sink != nil {
			e.sink.Sample(e.Clock)
		}
		e.Clock += e.Dt
	}
	total = time.Since(start)
	if n > 0 {
		perTick = total / time.Duration(n)
	}
	return total, perTick
}

// Calculate runs the simulation forward by the given duration in seconds,
// rounding down to the nearest whole tick.
func (e *Engine) Calculate(seconds float64) (total time.Duration, perTick time.Duration) {
	n := int(seconds / e.Dt)
	return e.Step(n)
}

// ParseRef splits a "component.property" reference into its parts.
func ParseRef(ref string) (component, property string, err error) {
	idx := strings.IndexByte(ref, '.')
	if idx < 0 || idx == 0 || idx == len(ref)-1 {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidReference, ref)
	}
	return ref[:idx], ref[idx+1:], nil
}

// Set resolves a "component.property" reference and writes value to it.
func (e *Engine) Set(ref string, value float64) error {
	name, prop, err := ParseRef(ref)
	if err != nil {
		return err
	}
	c, err := e.GetComponent(name)
	if err != nil {
		return err
	}
	pa, ok := c.(PropertyAccessor)
	if !ok {
		return fmt.Errorf("explain: %s does not support property access", name)
	}
	if !pa.SetProperty(prop, value) {
		return fmt.Errorf("explain: %s has no property %q", name, prop)
	}
	return nil
}

// Get resolves a "component.property" reference and returns its value.
func (e *Engine) Get(ref string) (float64, error) {
	name, prop, err := ParseRef(ref)
	if err != nil {
		return 0, err
	}
	c, err := e.GetComponent(name)
	if err != nil {
		return 0, err
	}
	pa, ok := c.(PropertyAccessor)
	if !ok {
		return 0, fmt.Errorf("explain: %s does not support property access", name)
	}
	v, ok := pa.Property(prop)
	if !ok {
		return 0, fmt.Errorf("explain: %s has no property %q", name, prop)
	}
	return v, nil
}

// ResolveCapacitiveRef resolves a cross-reference used at initialize-time
// wiring (a valve's upstream/downstream name, for instance), returning
// ErrUnresolvedReference rather than the generic not-found error so callers
// can distinguish "bad config" from "bad lookup".
func (e *Engine) ResolveCapacitiveRef(name string) (CapacitiveElement, error) {
	ce, err := e.GetCapacitiveElement(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnresolvedReference, name)
	}
	return ce, nil
}
