package explain

// Capability tags the role a Component plays in the hydraulic/gas network,
// mirroring the enumerated model_type variants of the original model.
type Capability int

const (
	CapCapacitiveBlood Capability = iota
	CapCapacitiveGas
	CapTimeVaryingElastance
	CapResistor
	CapChemistry
	CapDriver
	CapControl
	CapActuator
)

func (c Capability) String() string {
	switch c {
	case CapCapacitiveBlood:
		return "capacitive-blood"
	case CapCapacitiveGas:
		return "capacitive-gas"
	case CapTimeVaryingElastance:
		return "time-varying-elastance"
	case CapResistor:
		return "resistor"
	case CapChemistry:
		return "chemistry"
	case CapDriver:
		return "driver"
	case CapControl:
		return "control"
	case CapActuator:
		return "actuator"
	default:
		return "unknown"
	}
}

// Component is a named node in the simulation: a string tag, an enabled
// flag, a step hook and a tagged capability. The engine drives every
// enabled component's Step once per tick, in registration order.
type Component interface {
	Name() string
	Enabled() bool
	SetEnabled(enabled bool)
	Capability() Capability
	Step()
}

// PropertyAccessor is implemented by components whose fields can be read or
// set by name. It is the Go analogue of the original model's setattr/getattr
// wiring discipline, used by cross-references like "AA.pres" and by the
// engine's Set(name.property, value) command.
type PropertyAccessor interface {
	Property(name string) (float64, bool)
	SetProperty(name string, value float64) bool
}

// CapacitiveElement is implemented by anything a Valve can move volume
// into or out of: compliances and time-varying elastances.
type CapacitiveElement interface {
	Component
	Pressure() float64
	SetOutsidePressure(p float64)
	SetITP(p float64)
	VolumeIn(dvol float64, source MixSource)
	VolumeOut(dvol float64) float64
}

// MixSource is whatever a volume inflow is mixed from: enough to read its
// dissolved oxygen, CO2, compounds or gas fractions, nothing more. Any
// CapacitiveElement satisfies it, but so do narrower stand-ins such as an
// oxygenator's blended output.
type MixSource interface{}

// bloodMixer is implemented by blood-bearing capacitive elements so that an
// inflow can mix their dissolved-substance payload into the receiver.
type bloodMixer interface {
	oxygenTotal() float64
	co2Total() float64
	compoundConc(name string) (float64, bool)
}

// gasMixer is implemented by gas-bearing capacitive elements so that an
// inflow can mix their dry mole fractions into the receiver.
type gasMixer interface {
	speciesDryFraction(name string) (float64, bool)
}

// Compound is a tracked blood solute. Fixed compounds are excluded from
// inflow mixing (used for drugs or markers whose concentration is an
// external input rather than a mixed state).
type Compound struct {
	Concentration float64
	Fixed         bool
}
