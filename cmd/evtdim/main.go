package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/evtdim/internal/config"
	"github.com/san-kum/evtdim/internal/logging"
)

var (
	dataDir string
	verbose bool

	configFile string
	preset     string
	input      string
	samples    int
	dt         float64
	transient  float64
	stride     int
	seed       int64
	integrator string

	extraction  string
	p           float64
	blockSize   int
	estimator   string
	persistence bool
	showProg    bool
	workers     int

	probability float64
	metricsAddr string
	noSave      bool

	point int

	pMin  float64
	pMax  float64
	steps int

	trials       int
	perturbation float64

	outFile string
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "evtdim",
		Short:         "local dimension and persistence of attractors via extreme value theory",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			log, err := logging.New(verbose)
			if err != nil {
				return err
			}
			zap.ReplaceGlobals(log)
			cmd.SetContext(logging.WithLogger(cmd.Context(), log))
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = zap.L().Sync()
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".evtdim", "data directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	estimateCmd := &cobra.Command{
		Use:   "estimate [system]",
		Short: "estimate local dimensions and persistences of every point",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runEstimate,
	}
	addSetFlags(estimateCmd)
	addExtractionFlags(estimateCmd)
	estimateCmd.Flags().Float64Var(&probability, "probability", 0, "deprecated: bare quantile probability, same as --extraction exceedances --estimator exp")
	estimateCmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve prometheus metrics on this address while running")
	estimateCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")
	_ = estimateCmd.Flags().MarkDeprecated("probability", "use --extraction exceedances --p instead")

	localCmd := &cobra.Command{
		Use:   "local [system]",
		Short: "diagnose the tail fit at a single point",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLocal,
	}
	addSetFlags(localCmd)
	addExtractionFlags(localCmd)
	localCmd.Flags().IntVar(&point, "point", 0, "index of the reference point")

	sampleCmd := &cobra.Command{
		Use:   "sample [system]",
		Short: "write the state-space set of a system to csv",
		Args:  cobra.ExactArgs(1),
		RunE:  runSample,
	}
	addSetFlags(sampleCmd)
	sampleCmd.Flags().StringVarP(&outFile, "out", "o", "set.csv", "output file")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot local dimensions and extremal indices of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets [system]",
		Short: "list available presets for a system",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			presets := config.ListPresets(args[0])
			if len(presets) == 0 {
				fmt.Printf("no presets for system: %s\n", args[0])
				return nil
			}
			fmt.Printf("presets for %s:\n", args[0])
			for _, p := range presets {
				fmt.Printf("  %s\n", p)
			}
			return nil
		},
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep [system]",
		Short: "mean dimension over a range of quantile probabilities",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSweep,
	}
	addSetFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&estimator, "estimator", "exp", "gpd estimator: exp, mm, pwm, mle")
	sweepCmd.Flags().Float64Var(&pMin, "pmin", 0.9, "lowest quantile probability")
	sweepCmd.Flags().Float64Var(&pMax, "pmax", 0.995, "highest quantile probability")
	sweepCmd.Flags().IntVar(&steps, "steps", 10, "number of probabilities")
	sweepCmd.Flags().IntVar(&workers, "workers", 0, "worker count (0: all cpus)")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run an estimation scenario from yaml",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}
	scenarioCmd.Flags().IntVar(&workers, "workers", 0, "worker count (0: all cpus)")

	monteCarloCmd := &cobra.Command{
		Use:   "montecarlo [system]",
		Short: "spread of the mean dimension over perturbed initial states",
		Args:  cobra.ExactArgs(1),
		RunE:  runMonteCarlo,
	}
	addSetFlags(monteCarloCmd)
	addExtractionFlags(monteCarloCmd)
	monteCarloCmd.Flags().IntVar(&trials, "trials", 10, "number of trials")
	monteCarloCmd.Flags().Float64Var(&perturbation, "perturbation", 0.01, "half width of the initial state perturbation")

	rootCmd.AddCommand(estimateCmd, localCmd, sampleCmd, listCmd, plotCmd, exportJSONCmd, presetsCmd, sweepCmd, scenarioCmd, monteCarloCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func addSetFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	cmd.Flags().StringVar(&input, "input", "", "read the state-space set from a csv file")
	cmd.Flags().IntVar(&samples, "samples", config.DefaultSamples, "number of points")
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	cmd.Flags().Float64Var(&transient, "transient", config.DefaultTransient, "discarded time (iterations for maps)")
	cmd.Flags().IntVar(&stride, "stride", config.DefaultStride, "steps between recorded points")
	cmd.Flags().Int64Var(&seed, "seed", 1, "random seed")
	cmd.Flags().StringVar(&integrator, "integrator", config.DefaultIntegrator, "integrator: euler, rk4, rk45")
}

func addExtractionFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&extraction, "extraction", "exceedances", "exceedances or blockmaxima")
	cmd.Flags().Float64Var(&p, "p", config.DefaultP, "quantile probability (exceedances)")
	cmd.Flags().IntVar(&blockSize, "blocksize", 50, "block size (blockmaxima)")
	cmd.Flags().StringVar(&estimator, "estimator", "exp", "fit method: exp, mm, pwm, mle")
	cmd.Flags().BoolVar(&persistence, "persistence", true, "compute extremal indices")
	cmd.Flags().BoolVar(&showProg, "progress", true, "show progress")
	cmd.Flags().IntVar(&workers, "workers", 0, "worker count (0: all cpus)")
}
