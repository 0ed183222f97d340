package automation

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/evtdim/internal/dimension"
	"github.com/san-kum/evtdim/internal/dynamo"
	"github.com/san-kum/evtdim/internal/evt"
	"github.com/san-kum/evtdim/internal/experiment"
	"github.com/san-kum/evtdim/internal/logging"
)

// QuantileSweep estimates the mean dimension over a grid of quantile
// probabilities. A plateau in the curve marks the range where the
// exceedances follow the tail law.
type QuantileSweep struct {
	Estimator string
	PMin      float64
	PMax      float64
	NumSteps  int
}

type SweepResult struct {
	P         float64
	MeanDim   float64
	MeanTheta float64
}

func (s *QuantileSweep) grid() ([]float64, error) {
	if s.NumSteps < 2 {
		return nil, fmt.Errorf("sweep needs at least 2 steps, got %d", s.NumSteps)
	}
	if !(s.PMin < s.PMax) {
		return nil, fmt.Errorf("sweep range [%g, %g] is empty", s.PMin, s.PMax)
	}
	ps := make([]float64, s.NumSteps)
	floats.Span(ps, s.PMin, s.PMax)
	for _, p := range ps {
		if err := (evt.Exceedances{P: p, Estimator: s.Estimator}).Validate(); err != nil {
			return nil, err
		}
	}
	return ps, nil
}

// RunSweep runs the sweep on X. Every probability is validated before the
// first estimation.
func RunSweep(ctx context.Context, X *dynamo.StateSpaceSet, sweep *QuantileSweep, opts ...dimension.Option) ([]SweepResult, error) {
	ps, err := sweep.grid()
	if err != nil {
		return nil, err
	}
	log := logging.FromContext(ctx)

	results := make([]SweepResult, 0, len(ps))
	for i, p := range ps {
		res, err := dimension.DimsPersistences(ctx, X, evt.Exceedances{P: p, Estimator: sweep.Estimator}, opts...)
		if err != nil {
			return nil, fmt.Errorf("p=%g: %w", p, err)
		}
		results = append(results, SweepResult{P: p, MeanDim: res.MeanDim(), MeanTheta: res.MeanTheta()})
		log.Debug("sweep step", zap.Int("step", i+1), zap.Int("of", len(ps)), zap.Float64("p", p), zap.Float64("mean_dim", res.MeanDim()))
	}
	return results, nil
}

// MonteCarloConfig repeats an estimation from randomly perturbed initial
// states (or different seeds for synthetic sets).
type MonteCarloConfig struct {
	Base         experiment.Config
	Extraction   evt.Extraction
	Perturbation float64
	NumTrials    int
	Seed         int64
}

type MonteCarloResult struct {
	TrialID   int
	InitState dynamo.State
	MeanDim   float64
	Elapsed   time.Duration
}

// RunMonteCarlo runs cfg.NumTrials independent estimations without persistence.
func RunMonteCarlo(ctx context.Context, cfg *MonteCarloConfig, registry *experiment.Registry, opts ...dimension.Option) ([]MonteCarloResult, error) {
	if cfg.NumTrials <= 0 {
		return nil, fmt.Errorf("monte carlo needs at least 1 trial, got %d", cfg.NumTrials)
	}
	if cfg.Extraction == nil {
		return nil, fmt.Errorf("monte carlo: %w", evt.ErrUnknownExtraction)
	}
	if err := cfg.Extraction.Validate(); err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	log := logging.FromContext(ctx)
	results := make([]MonteCarloResult, 0, cfg.NumTrials)

	base := cfg.Base.InitState
	if len(base) == 0 {
		base = registry.DefaultState(cfg.Base.System)
	}

	for trial := 0; trial < cfg.NumTrials; trial++ {
		expCfg := cfg.Base
		expCfg.Seed = cfg.Base.Seed + int64(trial)
		if len(base) > 0 {
			init := make([]float64, len(base))
			for i, v := range base {
				init[i] = v + (rng.Float64()-0.5)*2*cfg.Perturbation
			}
			expCfg.InitState = init
		}

		X, err := registry.Generate(ctx, expCfg)
		if err != nil {
			return nil, fmt.Errorf("trial %d: %w", trial, err)
		}

		start := time.Now()
		dim, err := dimension.Dim(ctx, X, cfg.Extraction, opts...)
		if err != nil {
			return nil, fmt.Errorf("trial %d: %w", trial, err)
		}

		results = append(results, MonteCarloResult{
			TrialID:   trial,
			InitState: expCfg.InitState,
			MeanDim:   dim,
			Elapsed:   time.Since(start),
		})
		log.Debug("monte carlo trial", zap.Int("trial", trial), zap.Float64("mean_dim", dim))
	}

	return results, nil
}

// MonteCarloStats returns the mean and standard deviation of the trial
// dimensions.
func MonteCarloStats(results []MonteCarloResult) (mean, std float64) {
	dims := make([]float64, len(results))
	for i, r := range results {
		dims[i] = r.MeanDim
	}
	return stat.MeanStdDev(dims, nil)
}
