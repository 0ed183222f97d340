package experiment

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"github.com/san-kum/evtdim/internal/dynamo"
	"github.com/san-kum/evtdim/internal/integrators"
	"github.com/san-kum/evtdim/internal/physics"
)

type sampler func(rng *rand.Rand, n int) []dynamo.State

type Registry struct {
	flows       map[string]func() dynamo.System
	maps        map[string]func() dynamo.Map
	synthetic   map[string]sampler
	integrators map[string]func() dynamo.Integrator
}

func NewRegistry() *Registry {
	r := &Registry{
		flows:       make(map[string]func() dynamo.System),
		maps:        make(map[string]func() dynamo.Map),
		synthetic:   make(map[string]sampler),
		integrators: make(map[string]func() dynamo.Integrator),
	}

	r.flows["lorenz"] = func() dynamo.System { return physics.NewLorenz() }
	r.flows["rossler"] = func() dynamo.System { return physics.NewRossler() }

	r.maps["henon"] = func() dynamo.Map { return physics.NewHenon() }

	r.synthetic["circle"] = circle
	r.synthetic["square"] = square
	r.synthetic["gaussian"] = gaussian

	r.integrators["euler"] = func() dynamo.Integrator { return integrators.NewEuler() }
	r.integrators["rk4"] = func() dynamo.Integrator { return integrators.NewRK4() }
	r.integrators["rk45"] = func() dynamo.Integrator { return integrators.NewRK45() }

	return r
}

func (r *Registry) GetIntegrator(name string) (dynamo.Integrator, error) {
	fn, ok := r.integrators[name]
	if !ok {
		return nil, fmt.Errorf("unknown integrator: %s", name)
	}
	return fn(), nil
}

// ListSystems returns every known source of state-space sets, sorted.
func (r *Registry) ListSystems() []string {
	names := make([]string, 0, len(r.flows)+len(r.maps)+len(r.synthetic))
	for name := range r.flows {
		names = append(names, name)
	}
	for name := range r.maps {
		names = append(names, name)
	}
	for name := range r.synthetic {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultState returns the initial state a system starts from when none is
// given, or nil for synthetic sets.
func (r *Registry) DefaultState(name string) dynamo.State {
	if fn, ok := r.flows[name]; ok {
		return initState(fn(), nil)
	}
	if fn, ok := r.maps[name]; ok {
		return initState(fn(), nil)
	}
	return nil
}

func (r *Registry) ListIntegrators() []string {
	names := make([]string, 0, len(r.integrators))
	for name := range r.integrators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// circle samples the unit circle uniformly by angle.
func circle(rng *rand.Rand, n int) []dynamo.State {
	points := make([]dynamo.State, n)
	for i := range points {
		phi := 2 * math.Pi * rng.Float64()
		points[i] = dynamo.State{math.Cos(phi), math.Sin(phi)}
	}
	return points
}

// square samples the unit square uniformly.
func square(rng *rand.Rand, n int) []dynamo.State {
	points := make([]dynamo.State, n)
	for i := range points {
		points[i] = dynamo.State{rng.Float64(), rng.Float64()}
	}
	return points
}

// gaussian samples a standard normal cloud in three dimensions.
func gaussian(rng *rand.Rand, n int) []dynamo.State {
	points := make([]dynamo.State, n)
	for i := range points {
		points[i] = dynamo.State{rng.NormFloat64(), rng.NormFloat64(), rng.NormFloat64()}
	}
	return points
}
