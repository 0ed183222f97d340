package dynamo

import (
	"context"
	"errors"
	"math"
	"testing"
)

type testOscillator struct{}

func (o *testOscillator) Derive(x State, _ float64) State { return State{x[1], -x[0]} }
func (o *testOscillator) StateDim() int                   { return 2 }

type testEuler struct{}

func (e *testEuler) Step(sys System, x State, time float64, dt float64) State {
	dx := sys.Derive(x, time)
	return State{x[0] + dt*dx[0], x[1] + dt*dx[1]}
}

type testDoubling struct{}

func (d *testDoubling) Next(x State) State { return State{2 * x[0]} }
func (d *testDoubling) StateDim() int      { return 1 }

type testRotation struct{}

func (r *testRotation) Next(x State) State {
	c, s := math.Cos(1), math.Sin(1)
	return State{c*x[0] - s*x[1], s*x[0] + c*x[1]}
}
func (r *testRotation) StateDim() int { return 2 }

func TestTrajectory_SampleCount(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Dt = 0.01
	cfg.Samples = 100
	cfg.Transient = 1.0
	cfg.Stride = 3

	set, err := Trajectory(context.Background(), &testOscillator{}, &testEuler{}, State{1, 0}, cfg)
	if err != nil {
		t.Fatalf("trajectory failed: %v", err)
	}
	if set.Len() != 100 {
		t.Errorf("expected 100 points, got %d", set.Len())
	}
	if set.Dim() != 2 {
		t.Errorf("expected dimension 2, got %d", set.Dim())
	}

	// Euler slowly inflates the orbit but it must stay near the unit circle.
	for i := 0; i < set.Len(); i++ {
		if r := set.At(i).Norm(); math.Abs(r-1) > 0.1 {
			t.Fatalf("point %d has radius %f", i, r)
		}
	}
}

func TestTrajectory_Adaptive(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Samples = 20
	cfg.Transient = 0.5
	cfg.Adaptive = true

	set, err := Trajectory(context.Background(), &testOscillator{}, &testEuler{}, State{1, 0}, cfg)
	if err != nil {
		t.Fatalf("trajectory failed: %v", err)
	}
	if set.Len() != 20 {
		t.Errorf("expected 20 points, got %d", set.Len())
	}
}

func TestTrajectory_InvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"zero dt", Config{Dt: 0, Samples: 10, Stride: 1}},
		{"negative dt", Config{Dt: -0.1, Samples: 10, Stride: 1}},
		{"zero samples", Config{Dt: 0.1, Samples: 0, Stride: 1}},
		{"zero stride", Config{Dt: 0.1, Samples: 10, Stride: 0}},
		{"negative transient", Config{Dt: 0.1, Samples: 10, Stride: 1, Transient: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Trajectory(context.Background(), &testOscillator{}, &testEuler{}, State{1, 0}, tt.cfg)
			if err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestTrajectory_DimensionMismatch(t *testing.T) {
	_, err := Trajectory(context.Background(), &testOscillator{}, &testEuler{}, State{1}, DefaultConfig())
	if !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("expected ErrDimensionMismatch, got %v", err)
	}
}

func TestIterate(t *testing.T) {
	set, err := Iterate(context.Background(), &testRotation{}, State{1, 0}, 10, 50)
	if err != nil {
		t.Fatalf("iterate failed: %v", err)
	}
	if set.Len() != 50 {
		t.Errorf("expected 50 points, got %d", set.Len())
	}
}

func TestIterate_Diverges(t *testing.T) {
	_, err := Iterate(context.Background(), &testDoubling{}, State{1}, 0, 2000)

	var simErr *SimulationError
	if !errors.As(err, &simErr) {
		t.Fatalf("expected SimulationError, got %v", err)
	}
	if !errors.Is(err, ErrUnstable) {
		t.Errorf("expected ErrUnstable, got %v", err)
	}
}
