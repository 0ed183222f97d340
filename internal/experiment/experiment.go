package experiment

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/san-kum/evtdim/internal/config"
	"github.com/san-kum/evtdim/internal/dynamo"
)

type Config struct {
	System     string
	Integrator string
	InitState  []float64
	Sampling   dynamo.Config
	Seed       int64
	Params     map[string]float64
}

// ConfigFrom extracts the sampling part of a run configuration.
func ConfigFrom(c *config.Config) Config {
	return Config{
		System:     c.System,
		Integrator: c.Integrator,
		InitState:  c.InitState,
		Sampling:   c.Dynamo(),
		Seed:       c.Seed,
	}
}

type defaultStater interface {
	DefaultState() dynamo.State
}

// Generate builds the state-space set of a named system. Flows are
// integrated, maps iterated (Sampling.Transient counts iterations) and
// synthetic sets drawn from a generator seeded with cfg.Seed.
func (r *Registry) Generate(ctx context.Context, cfg Config) (*dynamo.StateSpaceSet, error) {
	if fn, ok := r.synthetic[cfg.System]; ok {
		if cfg.Sampling.Samples <= 0 {
			return nil, fmt.Errorf("samples must be positive, got %d", cfg.Sampling.Samples)
		}
		return dynamo.NewStateSpaceSet(fn(rand.New(rand.NewSource(cfg.Seed)), cfg.Sampling.Samples))
	}

	if fn, ok := r.maps[cfg.System]; ok {
		m := fn()
		if err := applyParams(m, cfg.Params); err != nil {
			return nil, err
		}
		return dynamo.Iterate(ctx, m, initState(m, cfg.InitState), int(cfg.Sampling.Transient), cfg.Sampling.Samples)
	}

	fn, ok := r.flows[cfg.System]
	if !ok {
		return nil, fmt.Errorf("unknown system: %s", cfg.System)
	}
	sys := fn()
	if err := applyParams(sys, cfg.Params); err != nil {
		return nil, err
	}
	integ, err := r.GetIntegrator(cfg.Integrator)
	if err != nil {
		return nil, err
	}
	return dynamo.Trajectory(ctx, sys, integ, initState(sys, cfg.InitState), cfg.Sampling)
}

func initState(sys any, given []float64) dynamo.State {
	if len(given) > 0 {
		return dynamo.State(given).Clone()
	}
	if d, ok := sys.(defaultStater); ok {
		return d.DefaultState()
	}
	return nil
}

func applyParams(sys any, params map[string]float64) error {
	if len(params) == 0 {
		return nil
	}
	c, ok := sys.(dynamo.Configurable)
	if !ok {
		return fmt.Errorf("system has no parameters")
	}
	for name, v := range params {
		if err := c.SetParam(name, v); err != nil {
			return err
		}
	}
	return nil
}
