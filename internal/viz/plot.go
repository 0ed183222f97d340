package viz

import (
	"fmt"

	"github.com/guptarohit/asciigraph"
)

// Plot draws values against their index.
func Plot(values []float64, caption string, height, width int) string {
	if len(values) == 0 {
		return ""
	}
	return asciigraph.Plot(values,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
		asciigraph.Precision(2),
	)
}

// PlotSweep draws a quantile sweep, mean dimension against p.
func PlotSweep(ps, dims []float64, height int) string {
	if len(dims) == 0 {
		return ""
	}
	caption := fmt.Sprintf("mean dimension, p from %.3f to %.3f", ps[0], ps[len(ps)-1])
	return asciigraph.Plot(dims,
		asciigraph.Height(height),
		asciigraph.Caption(caption),
		asciigraph.Precision(3),
	)
}
