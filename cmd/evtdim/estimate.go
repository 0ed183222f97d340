package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/evtdim/internal/config"
	"github.com/san-kum/evtdim/internal/dimension"
	"github.com/san-kum/evtdim/internal/dynamo"
	"github.com/san-kum/evtdim/internal/evt"
	"github.com/san-kum/evtdim/internal/experiment"
	"github.com/san-kum/evtdim/internal/logging"
	"github.com/san-kum/evtdim/internal/metrics"
	"github.com/san-kum/evtdim/internal/progress"
	"github.com/san-kum/evtdim/internal/storage"
	"github.com/san-kum/evtdim/internal/viz"
)

// loadConfig layers defaults, preset, config file and explicitly set flags,
// in that order.
func loadConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if len(args) > 0 {
		cfg.System = args[0]
	}

	if preset != "" {
		pc := config.GetPreset(cfg.System, preset)
		if pc == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(cfg.System))
		}
		cfg = pc
	}

	if configFile != "" {
		fc, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		if len(args) > 0 {
			fc.System = args[0]
		}
		cfg = fc
	}

	flags := cmd.Flags()
	set := func(name string, apply func()) {
		if flags.Lookup(name) != nil && flags.Changed(name) {
			apply()
		}
	}
	set("input", func() { cfg.Input = input })
	set("samples", func() { cfg.Samples = samples })
	set("dt", func() { cfg.Dt = dt })
	set("transient", func() { cfg.Transient = transient })
	set("stride", func() { cfg.Stride = stride })
	set("seed", func() { cfg.Seed = seed })
	set("integrator", func() { cfg.Integrator = integrator })
	set("extraction", func() {
		cfg.Extraction.Type = extraction
		// the estimator default depends on the extraction kind
		cfg.Extraction.Estimator = ""
	})
	set("p", func() { cfg.Extraction.P = p })
	set("blocksize", func() { cfg.Extraction.BlockSize = blockSize })
	set("estimator", func() { cfg.Extraction.Estimator = estimator })
	set("persistence", func() { cfg.ComputePersistence = persistence })
	set("progress", func() { cfg.ShowProgress = showProg })
	set("workers", func() { cfg.Workers = workers })

	if cfg.Extraction.BlockSize == 0 {
		cfg.Extraction.BlockSize = blockSize
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func buildSet(ctx context.Context, cfg *config.Config) (*dynamo.StateSpaceSet, error) {
	if cfg.Input != "" {
		return storage.LoadSet(cfg.Input)
	}
	return experiment.NewRegistry().Generate(ctx, experiment.ConfigFrom(cfg))
}

func runEstimate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	log := logging.FromContext(ctx)

	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	typ, err := cfg.Extraction.Build()
	if err != nil {
		return err
	}

	X, err := buildSet(ctx, cfg)
	if err != nil {
		return err
	}
	log.Info("state space set ready", zap.String("system", cfg.System), zap.Int("points", X.Len()), zap.Int("dim", X.Dim()))

	collector := metrics.New()
	if metricsAddr != "" {
		srv := &http.Server{Addr: metricsAddr, Handler: collector.Handler()}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error("metrics server", zap.Error(err))
			}
		}()
		defer srv.Shutdown(context.Background())
		log.Info("serving metrics", zap.String("addr", metricsAddr))
	}

	opts := []dimension.Option{
		dimension.WithComputePersistence(cfg.ComputePersistence),
		dimension.WithWorkers(cfg.Workers),
	}

	estimate := func(ctx context.Context, sink progress.Sink) (*dimension.Result, error) {
		opts := append(opts, dimension.WithProgress(progress.Join(collector, sink)))
		if cmd.Flags().Changed("probability") {
			typ = evt.Exceedances{P: probability, Estimator: evt.EstimatorExp}
			return dimension.DimsPersistencesProbability(ctx, X, probability, opts...)
		}
		return dimension.DimsPersistences(ctx, X, typ, opts...)
	}

	start := time.Now()
	var res *dimension.Result
	if cfg.ShowProgress {
		err = viz.RunWithProgress(ctx, "estimating", X.Len(), func(ctx context.Context, sink progress.Sink) error {
			var err error
			res, err = estimate(ctx, sink)
			return err
		})
	} else {
		res, err = estimate(ctx, nil)
	}
	elapsed := time.Since(start)
	collector.ObserveRun(typ.String(), elapsed, res, err)
	if err != nil {
		return err
	}

	rows := []viz.Row{
		{Label: "system", Value: sourceName(cfg)},
		{Label: "points", Value: fmt.Sprint(X.Len())},
		{Label: "extraction", Value: typ.String()},
		{Label: "mean dimension", Value: fmt.Sprintf("%.4f", res.MeanDim())},
		{Label: "mean extremal index", Value: fmt.Sprintf("%.4f", res.MeanTheta())},
		{Label: "elapsed", Value: elapsed.Round(time.Millisecond).String()},
	}

	if !noSave {
		st := storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		runID, err := st.Save(storage.RunMetadata{
			System:             cfg.System,
			Input:              cfg.Input,
			Seed:               cfg.Seed,
			Extraction:         typ.String(),
			ComputePersistence: cfg.ComputePersistence,
			Workers:            cfg.Workers,
			ElapsedSeconds:     elapsed.Seconds(),
		}, res)
		if err != nil {
			return err
		}
		rows = append(rows, viz.Row{Label: "run id", Value: runID})
	}

	fmt.Println(viz.Summary("local dimension", rows))
	return nil
}

func sourceName(cfg *config.Config) string {
	if cfg.Input != "" {
		return cfg.Input
	}
	return cfg.System
}

func runLocal(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	typ, err := cfg.Extraction.Build()
	if err != nil {
		return err
	}
	X, err := buildSet(ctx, cfg)
	if err != nil {
		return err
	}
	if point < 0 || point >= X.Len() {
		return fmt.Errorf("point %d out of range [0, %d)", point, X.Len())
	}

	est, err := dimension.NewWorker(X.Len()).Evaluate(X, point, typ, cfg.ComputePersistence)
	if err != nil {
		return err
	}

	rows := []viz.Row{
		{Label: "point", Value: fmt.Sprintf("%d %v", point, X.At(point))},
		{Label: "extraction", Value: typ.String()},
		{Label: "dimension", Value: fmt.Sprintf("%.4f", est.Dim)},
		{Label: "extremal index", Value: fmt.Sprintf("%.4f", est.Theta)},
	}

	if ex, ok := typ.(evt.Exceedances); ok {
		g := dimension.LogDistances(nil, X, X.At(point), point)
		d, err := evt.Diagnose(g, ex)
		if err != nil {
			return err
		}
		rows = append(rows,
			viz.Row{Label: "threshold", Value: fmt.Sprintf("%.4f", d.Threshold)},
			viz.Row{Label: "exceedances", Value: fmt.Sprint(d.Exceedances)},
			viz.Row{Label: "gpd scale", Value: fmt.Sprintf("%.4f", d.Fit.Scale)},
			viz.Row{Label: "gpd shape", Value: fmt.Sprintf("%.4f", d.Fit.Shape)},
			viz.Row{Label: "ks distance", Value: fmt.Sprintf("%.4f", d.KS)},
		)
	}

	fmt.Println(viz.Summary("local fit", rows))
	return nil
}

func runSample(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	X, err := buildSet(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	if err := storage.SaveSet(outFile, X); err != nil {
		return err
	}
	fmt.Printf("wrote %d points of dimension %d to %s\n", X.Len(), X.Dim(), outFile)
	return nil
}
