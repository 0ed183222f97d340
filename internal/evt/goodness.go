package evt

import (
	"math"
	"sort"
)

// KSStatistic is the Kolmogorov-Smirnov distance between the empirical
// distribution of sample and cdf.
func KSStatistic(sample []float64, cdf func(float64) float64) float64 {
	if len(sample) == 0 {
		return math.NaN()
	}
	sorted := make([]float64, len(sample))
	copy(sorted, sample)
	sort.Float64s(sorted)

	n := float64(len(sorted))
	d := 0.0
	for i, x := range sorted {
		f := cdf(x)
		d = math.Max(d, math.Max(float64(i+1)/n-f, f-float64(i)/n))
	}
	return d
}

// Diagnostics describes the GPD fit behind one exceedances estimate.
type Diagnostics struct {
	Threshold   float64
	Exceedances int
	Fit         GPD
	KS          float64
}

// Diagnose fits the exceedances of g and reports how well the GPD matches.
func Diagnose(g []float64, e Exceedances) (Diagnostics, error) {
	if err := e.Validate(); err != nil {
		return Diagnostics{}, err
	}
	sel, err := SelectExceedances(g, e.P, nil)
	if err != nil {
		return Diagnostics{}, err
	}
	fit, err := FitGPD(sel.Values, e.Estimator)
	if err != nil {
		return Diagnostics{}, err
	}
	return Diagnostics{
		Threshold:   sel.Threshold,
		Exceedances: len(sel.Values),
		Fit:         fit,
		KS:          KSStatistic(sel.Values, fit.CDF),
	}, nil
}
