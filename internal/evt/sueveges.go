package evt

import "math"

// Sueveges estimates the extremal index θ of y at quantile probability p.
// θ = 1 means exceedances do not cluster; 1/θ is the mean cluster size.
func Sueveges(y []float64, p float64) (float64, error) {
	u, err := Quantile(y, p)
	if err != nil {
		return 0, err
	}
	return SuevegesThreshold(y, p, u)
}

// SuevegesThreshold is [Sueveges] with the threshold u = quantile(y, p)
// already computed.
func SuevegesThreshold(y []float64, p, u float64) (float64, error) {
	if err := checkProbability(p); err != nil {
		return 0, err
	}
	q := 1 - p

	prev := -1
	var gaps, clustered int
	var slack float64
	for i, v := range y {
		if v <= u {
			continue
		}
		if prev >= 0 {
			gaps++
			if s := i - prev - 1; s > 0 {
				clustered++
				slack += float64(s)
			}
		}
		prev = i
	}

	if gaps == 0 {
		return 0, ErrTooFewExceedances
	}
	// No slack at all: every exceedance follows another directly.
	if slack == 0 {
		return 1, nil
	}

	a := q * slack
	n := float64(gaps)
	nc := float64(clustered)

	// With slack in every gap the discriminant is the perfect square (a - 2n)².
	if clustered == gaps {
		return math.Min(1, 2*n/a), nil
	}

	b := a + n + nc
	theta := (b - math.Sqrt(b*b-8*nc*a)) / (2 * a)
	return math.Min(1, theta), nil
}
