package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/evtdim/internal/dynamo"
	"github.com/san-kum/evtdim/internal/evt"
)

const (
	DefaultSystem     = "lorenz"
	DefaultIntegrator = "rk4"
	DefaultSamples    = 2000
	DefaultDt         = 0.01
	DefaultTransient  = 50.0
	DefaultStride     = 5
	DefaultP          = 0.98
)

// Config describes one estimation run: where the state-space set comes
// from and how its tails are fitted.
type Config struct {
	System     string    `yaml:"system"`
	Input      string    `yaml:"input,omitempty"`
	Integrator string    `yaml:"integrator"`
	Samples    int       `yaml:"samples"`
	Dt         float64   `yaml:"dt"`
	Transient  float64   `yaml:"transient"`
	Stride     int       `yaml:"stride"`
	Seed       int64     `yaml:"seed"`
	InitState  []float64 `yaml:"init_state,omitempty"`

	Extraction         ExtractionConfig `yaml:"extraction"`
	ComputePersistence bool             `yaml:"compute_persistence"`
	ShowProgress       bool             `yaml:"show_progress"`
	Workers            int              `yaml:"workers"`
}

type ExtractionConfig struct {
	Type      string  `yaml:"type"`
	P         float64 `yaml:"p"`
	BlockSize int     `yaml:"blocksize"`
	Estimator string  `yaml:"estimator"`
}

// Build turns the loose fields into a validated extraction.
func (e ExtractionConfig) Build() (evt.Extraction, error) {
	return evt.NewExtraction(e.Type, e.P, e.BlockSize, e.Estimator)
}

func DefaultConfig() *Config {
	return &Config{
		System:     DefaultSystem,
		Integrator: DefaultIntegrator,
		Samples:    DefaultSamples,
		Dt:         DefaultDt,
		Transient:  DefaultTransient,
		Stride:     DefaultStride,
		Seed:       1,
		Extraction: ExtractionConfig{
			Type:      evt.KindExceedances,
			P:         DefaultP,
			Estimator: evt.EstimatorExp,
		},
		ComputePersistence: true,
		ShowProgress:       true,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks the run configuration, extraction included, before any
// sampling or estimation starts. Integration settings are checked by the
// sampler of continuous systems.
func (c *Config) Validate() error {
	if c.System == "" && c.Input == "" {
		return fmt.Errorf("config: either system or input must be set")
	}
	if c.Input == "" && c.Samples <= 0 {
		return fmt.Errorf("config: samples must be positive, got %d", c.Samples)
	}
	if c.Workers < 0 {
		return fmt.Errorf("config: workers must not be negative, got %d", c.Workers)
	}
	if _, err := c.Extraction.Build(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// Dynamo returns the sampling settings for continuous systems.
func (c *Config) Dynamo() dynamo.Config {
	cfg := dynamo.DefaultConfig()
	cfg.Dt = c.Dt
	cfg.Samples = c.Samples
	cfg.Transient = c.Transient
	cfg.Stride = c.Stride
	return cfg
}
