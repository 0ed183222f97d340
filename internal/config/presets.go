package config

import (
	"sort"

	"github.com/san-kum/evtdim/internal/evt"
)

var exceedances = ExtractionConfig{Type: evt.KindExceedances, P: DefaultP, Estimator: evt.EstimatorExp}

var Presets = map[string]map[string]*Config{
	"lorenz": {
		"classic": {
			System: "lorenz", Integrator: "rk4", Samples: 2000, Dt: 0.01, Transient: 50, Stride: 5,
			InitState: []float64{1, 1, 1}, Extraction: exceedances, ComputePersistence: true,
		},
		"dense": {
			System: "lorenz", Integrator: "rk4", Samples: 10000, Dt: 0.005, Transient: 50, Stride: 10,
			InitState: []float64{1, 1, 1}, Extraction: ExtractionConfig{Type: evt.KindExceedances, P: 0.99, Estimator: evt.EstimatorMLE},
			ComputePersistence: true,
		},
		"blocks": {
			System: "lorenz", Integrator: "rk4", Samples: 5000, Dt: 0.01, Transient: 50, Stride: 5,
			InitState:  []float64{1, 1, 1},
			Extraction: ExtractionConfig{Type: evt.KindBlockMaxima, BlockSize: 50, Estimator: evt.EstimatorPWM},
		},
	},
	"rossler": {
		"classic": {
			System: "rossler", Integrator: "rk4", Samples: 2000, Dt: 0.02, Transient: 100, Stride: 10,
			InitState: []float64{1, 1, 0}, Extraction: exceedances, ComputePersistence: true,
		},
	},
	"henon": {
		"classic": {
			System: "henon", Samples: 5000, Transient: 100,
			InitState: []float64{0.1, 0.1}, Extraction: exceedances, ComputePersistence: true,
		},
	},
	"circle": {
		"uniform": {
			System: "circle", Samples: 1000, Seed: 1, Extraction: exceedances, ComputePersistence: true,
		},
	},
	"square": {
		"uniform": {
			System: "square", Samples: 1000, Seed: 1, Extraction: exceedances, ComputePersistence: true,
		},
	},
}

func GetPreset(system, preset string) *Config {
	systemPresets, ok := Presets[system]
	if !ok {
		return nil
	}
	cfg, ok := systemPresets[preset]
	if !ok {
		return nil
	}
	c := *cfg
	c.InitState = append([]float64(nil), cfg.InitState...)
	return &c
}

// ListPresets returns the preset names of a system in alphabetical order.
func ListPresets(system string) []string {
	systemPresets, ok := Presets[system]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(systemPresets))
	for name := range systemPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
