package automation

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/evtdim/internal/config"
	"github.com/san-kum/evtdim/internal/dimension"
	"github.com/san-kum/evtdim/internal/dynamo"
	"github.com/san-kum/evtdim/internal/experiment"
	"github.com/san-kum/evtdim/internal/logging"
)

// Scenario is a scripted sequence of estimation runs.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep samples one system and estimates its local dimensions.
type ScenarioStep struct {
	System             string                  `yaml:"system"`
	Integrator         string                  `yaml:"integrator"`
	Samples            int                     `yaml:"samples"`
	Dt                 float64                 `yaml:"dt"`
	Transient          float64                 `yaml:"transient"`
	Stride             int                     `yaml:"stride"`
	Seed               int64                   `yaml:"seed"`
	InitState          []float64               `yaml:"init_state"`
	Params             map[string]float64      `yaml:"params"`
	Extraction         config.ExtractionConfig `yaml:"extraction"`
	ComputePersistence bool                    `yaml:"compute_persistence"`
	SaveAs             string                  `yaml:"save_as"`
}

// StepResult is the outcome of one scenario step.
type StepResult struct {
	Step       int
	Name       string
	System     string
	Extraction string
	Elapsed    time.Duration
	Result     *dimension.Result
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("scenario %s has no steps", path)
	}
	return &scenario, nil
}

func (s ScenarioStep) experiment() experiment.Config {
	sampling := dynamo.DefaultConfig()
	if s.Samples > 0 {
		sampling.Samples = s.Samples
	}
	if s.Dt > 0 {
		sampling.Dt = s.Dt
	}
	if s.Transient > 0 {
		sampling.Transient = s.Transient
	}
	if s.Stride > 0 {
		sampling.Stride = s.Stride
	}
	integ := s.Integrator
	if integ == "" {
		integ = config.DefaultIntegrator
	}
	return experiment.Config{
		System:     s.System,
		Integrator: integ,
		InitState:  s.InitState,
		Sampling:   sampling,
		Seed:       s.Seed,
		Params:     s.Params,
	}
}

// RunScenario validates every step, then runs them in order. Results of the
// steps that finished are returned along with the first error.
func RunScenario(ctx context.Context, scenario *Scenario, registry *experiment.Registry, opts ...dimension.Option) ([]StepResult, error) {
	log := logging.FromContext(ctx).With(zap.String("scenario", scenario.Name))

	for i, step := range scenario.Steps {
		if _, err := step.Extraction.Build(); err != nil {
			return nil, fmt.Errorf("step %d: %w", i+1, err)
		}
	}

	results := make([]StepResult, 0, len(scenario.Steps))
	for i, step := range scenario.Steps {
		log.Info("running step", zap.Int("step", i+1), zap.Int("of", len(scenario.Steps)), zap.String("system", step.System))

		typ, _ := step.Extraction.Build()
		X, err := registry.Generate(ctx, step.experiment())
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}

		start := time.Now()
		res, err := dimension.DimsPersistences(ctx, X, typ,
			append(opts[:len(opts):len(opts)], dimension.WithComputePersistence(step.ComputePersistence))...)
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}

		results = append(results, StepResult{
			Step:       i + 1,
			Name:       step.SaveAs,
			System:     step.System,
			Extraction: typ.String(),
			Elapsed:    time.Since(start),
			Result:     res,
		})
	}

	return results, nil
}
