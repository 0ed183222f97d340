package evt

import (
	"gonum.org/v1/gonum/stat"
)

// Quantile returns the linearly interpolated p-quantile of x.
func Quantile(x []float64, p float64) (float64, error) {
	if err := checkProbability(p); err != nil {
		return 0, err
	}
	if len(x) == 0 {
		return 0, degenerate("empty sample")
	}
	return quantileSorted(NewScratch(len(x)).sortedCopy(x), p), nil
}

func quantileSorted(sorted []float64, p float64) float64 {
	return stat.Quantile(p, stat.LinInterp, sorted, nil)
}

func checkProbability(p float64) error {
	if !(p > 0 && p < 1) {
		return &ConfigError{Field: "p", Value: p, Err: ErrInvalidProbability}
	}
	return nil
}

// Selection is the outcome of thresholding an observable at a quantile.
type Selection struct {
	// Threshold is the p-quantile g_p of the observable.
	Threshold float64
	// Values holds g_i - g_p for every g_i >= g_p, in original order.
	// It aliases scratch memory and is only valid until the next call.
	Values []float64

	source []float64
}

// Indicator reports, position by position, whether g_i >= g_p.
func (s Selection) Indicator() []bool {
	ind := make([]bool, len(s.source))
	for i, v := range s.source {
		ind[i] = v >= s.Threshold
	}
	return ind
}

// SelectExceedances thresholds g at its p-quantile and returns the shifted
// exceedances. Values equal to the threshold are kept as zero exceedances.
func SelectExceedances(g []float64, p float64, s *Scratch) (Selection, error) {
	if err := checkProbability(p); err != nil {
		return Selection{}, err
	}
	if len(g) == 0 {
		return Selection{}, degenerate("empty observable")
	}
	s = orNew(s, len(g))

	u := quantileSorted(s.sortedCopy(g), p)
	values := s.valueBuffer(len(g))
	for _, v := range g {
		if v >= u {
			values = append(values, v-u)
		}
	}

	return Selection{Threshold: u, Values: values, source: g}, nil
}
