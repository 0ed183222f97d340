package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/evtdim/internal/automation"
	"github.com/san-kum/evtdim/internal/dimension"
	"github.com/san-kum/evtdim/internal/experiment"
	"github.com/san-kum/evtdim/internal/logging"
	"github.com/san-kum/evtdim/internal/storage"
	"github.com/san-kum/evtdim/internal/viz"
)

func runSweep(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	X, err := buildSet(ctx, cfg)
	if err != nil {
		return err
	}

	sweep := &automation.QuantileSweep{Estimator: estimator, PMin: pMin, PMax: pMax, NumSteps: steps}
	results, err := automation.RunSweep(ctx, X, sweep,
		dimension.WithComputePersistence(false),
		dimension.WithWorkers(cfg.Workers))
	if err != nil {
		return err
	}

	ps := make([]float64, len(results))
	dims := make([]float64, len(results))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "P\tMEAN DIM")
	for i, r := range results {
		ps[i], dims[i] = r.P, r.MeanDim
		fmt.Fprintf(w, "%.4f\t%.4f\n", r.P, r.MeanDim)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(viz.PlotSweep(ps, dims, 12))
	return nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	log := logging.FromContext(ctx)

	scenario, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}

	results, err := automation.RunScenario(ctx, scenario, experiment.NewRegistry(), dimension.WithWorkers(workers))
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	rows := make([]viz.Row, 0, len(results))
	for _, r := range results {
		rows = append(rows, viz.Row{
			Label: fmt.Sprintf("%d %s", r.Step, r.System),
			Value: fmt.Sprintf("dim %.4f  theta %.4f  (%s)", r.Result.MeanDim(), r.Result.MeanTheta(), r.Extraction),
		})
		if r.Name == "" {
			continue
		}
		step := scenario.Steps[r.Step-1]
		runID, err := st.Save(storage.RunMetadata{
			System:             r.System,
			Seed:               step.Seed,
			Extraction:         r.Extraction,
			ComputePersistence: step.ComputePersistence,
			Workers:            workers,
			ElapsedSeconds:     r.Elapsed.Seconds(),
		}, r.Result)
		if err != nil {
			return err
		}
		log.Info("saved step", zap.String("name", r.Name), zap.String("run_id", runID))
	}

	fmt.Println(viz.Summary(scenario.Name, rows))
	return nil
}

func runMonteCarlo(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	typ, err := cfg.Extraction.Build()
	if err != nil {
		return err
	}

	mc := &automation.MonteCarloConfig{
		Base:         experiment.ConfigFrom(cfg),
		Extraction:   typ,
		Perturbation: perturbation,
		NumTrials:    trials,
		Seed:         cfg.Seed,
	}
	results, err := automation.RunMonteCarlo(ctx, mc, experiment.NewRegistry(), dimension.WithWorkers(cfg.Workers))
	if err != nil {
		return err
	}

	mean, std := automation.MonteCarloStats(results)
	fmt.Println(viz.Summary("monte carlo", []viz.Row{
		{Label: "system", Value: cfg.System},
		{Label: "extraction", Value: typ.String()},
		{Label: "trials", Value: fmt.Sprint(len(results))},
		{Label: "mean dimension", Value: fmt.Sprintf("%.4f", mean)},
		{Label: "std", Value: fmt.Sprintf("%.4f", std)},
	}))
	return nil
}
