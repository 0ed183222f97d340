package dynamo

import (
	"context"
	"fmt"
	"math"
)

// Trajectory integrates sys from x0, drops the first cfg.Transient time
// units and records every cfg.Stride-th step until cfg.Samples points are
// collected.
func Trajectory(ctx context.Context, sys System, integ Integrator, x0 State, cfg Config) (*StateSpaceSet, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	if len(x0) != sys.StateDim() {
		return nil, fmt.Errorf("initial state has dimension %d, system wants %d: %w", len(x0), sys.StateDim(), ErrDimensionMismatch)
	}

	x := x0.Clone()
	t := 0.0
	dt := cfg.Dt
	step := 0

	for t < cfg.Transient {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		var used float64
		var err error
		x, used, dt, err = advance(sys, integ, x, t, dt, cfg)
		if err != nil {
			return nil, &SimulationError{Step: step, Time: t, State: x, Wrapped: err}
		}
		t += used
		step++
	}

	points := make([]State, 0, cfg.Samples)
	for len(points) < cfg.Samples {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for k := 0; k < cfg.Stride; k++ {
			var used float64
			var err error
			x, used, dt, err = advance(sys, integ, x, t, dt, cfg)
			if err != nil {
				return nil, &SimulationError{Step: step, Time: t, State: x, Wrapped: err}
			}
			t += used
			step++
		}
		points = append(points, x.Clone())
	}

	return NewStateSpaceSet(points)
}

// Iterate applies m repeatedly, discarding transient iterations and
// keeping the next samples points.
func Iterate(ctx context.Context, m Map, x0 State, transient, samples int) (*StateSpaceSet, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("samples must be positive, got %d", samples)
	}
	if len(x0) != m.StateDim() {
		return nil, fmt.Errorf("initial state has dimension %d, map wants %d: %w", len(x0), m.StateDim(), ErrDimensionMismatch)
	}

	x := x0.Clone()
	for i := 0; i < transient; i++ {
		x = m.Next(x)
		if !x.IsValid() {
			return nil, &SimulationError{Step: i, State: x, Wrapped: ErrUnstable}
		}
	}

	points := make([]State, 0, samples)
	for i := 0; i < samples; i++ {
		if i%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		x = m.Next(x)
		if !x.IsValid() {
			return nil, &SimulationError{Step: transient + i, State: x, Wrapped: ErrUnstable}
		}
		points = append(points, x)
	}

	return NewStateSpaceSet(points)
}

func validateConfig(cfg Config) error {
	if cfg.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %f", cfg.Dt)
	}
	if cfg.Samples <= 0 {
		return fmt.Errorf("samples must be positive, got %d", cfg.Samples)
	}
	if cfg.Stride <= 0 {
		return fmt.Errorf("stride must be positive, got %d", cfg.Stride)
	}
	if cfg.Transient < 0 {
		return fmt.Errorf("transient must not be negative, got %f", cfg.Transient)
	}
	if cfg.Adaptive && cfg.Tolerance <= 0 {
		return fmt.Errorf("tolerance must be positive for adaptive stepping")
	}
	return nil
}

// advance takes one step and returns the new state, the step size actually
// used and the step size to try next.
func advance(sys System, integ Integrator, x State, t, dt float64, cfg Config) (State, float64, float64, error) {
	used, nextDt := dt, dt
	var next State
	if cfg.Adaptive {
		var err error
		next, used, nextDt, err = adaptiveStep(sys, integ, x, t, dt, cfg)
		if err != nil {
			return x, used, nextDt, err
		}
	} else {
		next = integ.Step(sys, x, t, dt)
	}

	if cfg.ValidateState && !next.IsValid() {
		return x, used, nextDt, ErrInvalidState
	}
	return next, used, nextDt, nil
}

func adaptiveStep(sys System, integ Integrator, x State, t, dt float64, cfg Config) (State, float64, float64, error) {
	if adaptive, ok := integ.(AdaptiveIntegrator); ok {
		next, dtNew, err := adaptive.StepAdaptive(sys, x, t, dt, cfg.Tolerance)
		return next, dt, math.Max(cfg.MinDt, math.Min(dtNew, cfg.MaxDt)), err
	}

	x1 := integ.Step(sys, x, t, dt)
	xHalf := integ.Step(sys, x, t, dt/2)
	x2 := integ.Step(sys, xHalf, t+dt/2, dt/2)

	errNorm := x1.Sub(x2).Norm()

	if errNorm > cfg.Tolerance && dt > cfg.MinDt {
		return adaptiveStep(sys, integ, x, t, dt/2, cfg)
	}

	nextDt := dt
	if errNorm < cfg.Tolerance/10 && dt < cfg.MaxDt {
		nextDt = math.Min(dt*2, cfg.MaxDt)
	}

	return x2, dt, nextDt, nil
}
