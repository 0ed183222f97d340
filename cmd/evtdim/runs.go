package main

import (
	"fmt"
	"math"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/evtdim/internal/storage"
	"github.com/san-kum/evtdim/internal/viz"
)

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSOURCE\tPOINTS\tEXTRACTION\tMEAN DIM\tMEAN THETA\tTIMESTAMP")
	for _, r := range runs {
		source := r.System
		if r.Input != "" {
			source = r.Input
		}
		theta := "-"
		if r.MeanTheta != nil {
			theta = fmt.Sprintf("%.4f", *r.MeanTheta)
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%.4f\t%s\t%s\n",
			r.ID[:8], source, r.Points, r.Extraction, r.MeanDim, theta, r.Timestamp.Format("2006-01-02 15:04:05"))
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	res, err := st.LoadLocal(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("run %s: %s, %s\n\n", meta.ID, meta.System, meta.Extraction)
	fmt.Println(viz.Plot(res.Dims, "local dimension", 15, 80))

	thetas := make([]float64, 0, len(res.Thetas))
	for _, v := range res.Thetas {
		if !math.IsNaN(v) {
			thetas = append(thetas, v)
		}
	}
	if len(thetas) > 0 {
		fmt.Println()
		fmt.Println(viz.Plot(thetas, "extremal index", 10, 80))
	}
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	return storage.New(dataDir).ExportJSON(args[0], os.Stdout)
}
