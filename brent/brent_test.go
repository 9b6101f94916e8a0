package brent

import (
	"math"
	"testing"
)

func TestFind(t *testing.T) {
	tests := []struct {
		name string
		f    Func
		x0   float64
		x1   float64
		want float64
	}{
		{
			name: "Linear root at 2",
			f:    func(x float64) float64 { return x - 2 },
			x0:   0, x1: 5,
			want: 2,
		},
		{
			name: "Quadratic root near 1.414",
			f:    func(x float64) float64 { return x*x - 2 },
			x0:   0, x1: 2,
			want: math.Sqrt2,
		},
		{
			name: "Cubic root at 1",
			f:    func(x float64) float64 { return x*x*x - 1 },
			x0:   0, x1: 3,
			want: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Find(tt.f, tt.x0, tt.x1, 100, 1e-8)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if math.Abs(got-tt.want) > 1e-6 {
				t.Errorf("want %f; got %f", tt.want, got)
			}
		})
	}
}

func TestFindNoConvergence(t *testing.T) {
	// A bracket that does not straddle a root must fail fast.
	f := func(x float64) float64 { return x*x + 1 }
	_, err := Find(f, -1, 1, 100, 1e-8)
	if err != ErrNoConvergence {
		t.Fatalf("want ErrNoConvergence; got %v", err)
	}
}
