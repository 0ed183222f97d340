package evt

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/optimize"
	"gonum.org/v1/gonum/stat"
)

const eulerGamma = 0.5772156649015329

// GEV is a Generalized Extreme Value distribution.
type GEV struct {
	Location float64
	Scale    float64
	Shape    float64
}

// Dimension is the local dimension implied by the fit, 1/σ.
func (d GEV) Dimension() float64 { return 1 / d.Scale }

func (d GEV) CDF(x float64) float64 {
	z := (x - d.Location) / d.Scale
	if math.Abs(d.Shape) < shapeEps {
		return math.Exp(-math.Exp(-z))
	}
	t := 1 + d.Shape*z
	if t <= 0 {
		if d.Shape > 0 {
			return 0
		}
		return 1
	}
	return math.Exp(-math.Pow(t, -1/d.Shape))
}

// BlockMaximaSample appends the maximum of every complete block of g to
// dst[:0]. A trailing partial block is dropped.
func BlockMaximaSample(g []float64, blockSize int, dst []float64) ([]float64, error) {
	if blockSize < 1 {
		return nil, &ConfigError{Field: "blocksize", Value: blockSize, Err: ErrInvalidBlockSize}
	}
	blocks := len(g) / blockSize
	if blocks < 2 {
		return nil, degenerate("need at least 2 complete blocks of %d, have %d values", blockSize, len(g))
	}

	maxima := dst[:0]
	for b := 0; b < blocks; b++ {
		maxima = append(maxima, floats.Max(g[b*blockSize:(b+1)*blockSize]))
	}
	return maxima, nil
}

// FitGEV fits a GEV to a block-maxima sample with the named estimator.
func FitGEV(sample []float64, estimator string) (GEV, error) {
	if err := checkEstimator(estimator, gevEstimators); err != nil {
		return GEV{}, err
	}
	if err := checkSample(sample); err != nil {
		return GEV{}, err
	}

	var (
		fit GEV
		err error
	)
	switch estimator {
	case EstimatorMoments:
		fit = fitGEVMoments(sample)
	case EstimatorPWM:
		fit, err = fitGEVPWM(sample)
	case EstimatorMLE:
		fit, err = fitGEVMLE(sample)
	}
	if err != nil {
		return GEV{}, err
	}

	if !(fit.Scale > 0) || math.IsInf(fit.Scale, 0) {
		return GEV{}, degenerate("gev scale %v is not a positive finite number", fit.Scale)
	}
	return fit, nil
}

// fitGEVMoments matches mean and variance with a Gumbel (ξ = 0).
func fitGEVMoments(x []float64) GEV {
	m, v := stat.MeanVariance(x, nil)
	scale := math.Sqrt(6*v) / math.Pi
	return GEV{Location: m - eulerGamma*scale, Scale: scale}
}

// fitGEVPWM uses the Hosking, Wallis & Wood (1985) approximation for the shape.
func fitGEVPWM(x []float64) (GEV, error) {
	if len(x) < 3 {
		return GEV{}, degenerate("pwm needs at least 3 maxima, got %d", len(x))
	}
	n := float64(len(x))
	sorted := make([]float64, len(x))
	copy(sorted, x)
	sort.Float64s(sorted)

	var b0, b1, b2 float64
	for i, v := range sorted {
		fi := float64(i)
		b0 += v
		b1 += fi / (n - 1) * v
		b2 += fi * (fi - 1) / ((n - 1) * (n - 2)) * v
	}
	b0 /= n
	b1 /= n
	b2 /= n

	if 3*b2-b0 == 0 || 2*b1-b0 <= 0 {
		return GEV{}, degenerate("pwm moments b0=%v b1=%v b2=%v admit no gev", b0, b1, b2)
	}
	c := (2*b1-b0)/(3*b2-b0) - math.Ln2/math.Log(3)
	k := 7.8590*c + 2.9554*c*c

	if math.Abs(k) < 1e-6 {
		scale := (2*b1 - b0) / math.Ln2
		return GEV{Location: b0 - eulerGamma*scale, Scale: scale}, nil
	}

	gk := math.Gamma(1 + k)
	scale := (2*b1 - b0) * k / (gk * (1 - math.Pow(2, -k)))
	return GEV{
		Location: b0 + scale*(gk-1)/k,
		Scale:    scale,
		Shape:    -k,
	}, nil
}

func fitGEVMLE(x []float64) (GEV, error) {
	init := fitGEVMoments(x)
	if pwm, err := fitGEVPWM(x); err == nil && !math.IsInf(gevNegLogLikelihood(x, pwm), 1) {
		init = pwm
	}

	problem := optimize.Problem{
		Func: func(p []float64) float64 {
			return gevNegLogLikelihood(x, GEV{Location: p[0], Scale: math.Exp(p[1]), Shape: p[2]})
		},
	}
	start := []float64{init.Location, math.Log(init.Scale), init.Shape}
	res, err := optimize.Minimize(problem, start, mleSettings(), &optimize.NelderMead{})
	if res == nil || math.IsInf(res.F, 0) || math.IsNaN(res.F) {
		return GEV{}, degenerate("gev likelihood optimisation failed: %v", err)
	}
	return GEV{Location: res.X[0], Scale: math.Exp(res.X[1]), Shape: res.X[2]}, nil
}

func gevNegLogLikelihood(x []float64, d GEV) float64 {
	if !(d.Scale > 0) {
		return math.Inf(1)
	}
	nll := float64(len(x)) * math.Log(d.Scale)
	if math.Abs(d.Shape) < shapeEps {
		for _, v := range x {
			z := (v - d.Location) / d.Scale
			nll += z + math.Exp(-z)
		}
		return nll
	}
	for _, v := range x {
		t := 1 + d.Shape*(v-d.Location)/d.Scale
		if t <= 0 {
			return math.Inf(1)
		}
		nll += (1+1/d.Shape)*math.Log(t) + math.Pow(t, -1/d.Shape)
	}
	return nll
}
