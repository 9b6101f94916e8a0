package helpers

import (
	"math"
	"testing"
)

func TestEqualFloat64(t *testing.T) {
	tests := []struct {
		name string
		a    float64
		b    float64
		want bool
	}{
		{name: "Identical", a: 1.0, b: 1.0, want: true},
		{name: "Within threshold", a: 1.0, b: 1.0 + 1e-10, want: true},
		{name: "Outside threshold", a: 1.0, b: 1.0001, want: false},
		{name: "Negative", a: -5.5, b: -5.5, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EqualFloat64(tt.a, tt.b); got != tt.want {
				t.Errorf("want %v; got %v", tt.want, got)
			}
		})
	}
}

func TestClamp0(t *testing.T) {
	tests := []struct {
		name string
		v    float64
		want float64
	}{
		{name: "Positive", v: 4.2, want: 4.2},
		{name: "Zero", v: 0.0, want: 0.0},
		{name: "Negative", v: -0.5, want: 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Clamp0(tt.v); got != tt.want {
				t.Errorf("want %f; got %f", tt.want, got)
			}
		})
	}
}

func TestMmHgKPaRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		mmHg float64
	}{
		{name: "Zero", mmHg: 0.0},
		{name: "Atmospheric", mmHg: 760.0},
		{name: "Physiological pO2", mmHg: 75.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kPa := MmHgToKPa(tt.mmHg)
			back := KPaToMmHg(kPa)
			if !EqualFloat64(back, tt.mmHg) {
				t.Errorf("round trip want %f; got %f", tt.mmHg, back)
			}
		})
	}
}

func TestWaterVapourPressure(t *testing.T) {
	// At 37C the water vapour pressure should be close to the classic 47 mmHg
	// figure used throughout respiratory physiology.
	got := WaterVapourPressure(37.0)
	want := 47.0
	if math.Abs(got-want) > 1.0 {
		t.Errorf("want close to %f; got %f", want, got)
	}
}
