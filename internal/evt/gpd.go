package evt

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/optimize"
	"gonum.org/v1/gonum/stat"
)

// Estimator tags.
const (
	EstimatorExp     = "exp"
	EstimatorMoments = "mm"
	EstimatorPWM     = "pwm"
	EstimatorMLE     = "mle"
)

var (
	gpdEstimators = []string{EstimatorExp, EstimatorMoments, EstimatorPWM, EstimatorMLE}
	gevEstimators = []string{EstimatorMoments, EstimatorPWM, EstimatorMLE}
)

// shapeEps is the |ξ| below which likelihoods switch to their ξ = 0 limit.
const shapeEps = 1e-9

// GPD is a Generalized Pareto Distribution with location 0.
type GPD struct {
	Scale float64
	Shape float64
}

// Dimension is the local dimension implied by the fit, 1/σ.
func (d GPD) Dimension() float64 { return 1 / d.Scale }

func (d GPD) CDF(x float64) float64 {
	if x <= 0 {
		return 0
	}
	if math.Abs(d.Shape) < shapeEps {
		return 1 - math.Exp(-x/d.Scale)
	}
	t := 1 + d.Shape*x/d.Scale
	if t <= 0 {
		return 1
	}
	return 1 - math.Pow(t, -1/d.Shape)
}

func (d GPD) LogPDF(x float64) float64 {
	if x < 0 || d.Scale <= 0 {
		return math.Inf(-1)
	}
	if math.Abs(d.Shape) < shapeEps {
		return -math.Log(d.Scale) - x/d.Scale
	}
	t := 1 + d.Shape*x/d.Scale
	if t <= 0 {
		return math.Inf(-1)
	}
	return -math.Log(d.Scale) - (1+1/d.Shape)*math.Log(t)
}

// FitGPD fits a GPD to a non-negative sample with the named estimator.
func FitGPD(sample []float64, estimator string) (GPD, error) {
	if err := checkEstimator(estimator, gpdEstimators); err != nil {
		return GPD{}, err
	}
	if err := checkSample(sample); err != nil {
		return GPD{}, err
	}

	var (
		fit GPD
		err error
	)
	switch estimator {
	case EstimatorExp:
		fit = GPD{Scale: stat.Mean(sample, nil)}
	case EstimatorMoments:
		fit = fitGPDMoments(sample)
	case EstimatorPWM:
		fit, err = fitGPDPWM(sample)
	case EstimatorMLE:
		fit, err = fitGPDMLE(sample)
	}
	if err != nil {
		return GPD{}, err
	}

	if !(fit.Scale > 0) || math.IsInf(fit.Scale, 0) {
		return GPD{}, degenerate("gpd scale %v is not a positive finite number", fit.Scale)
	}
	return fit, nil
}

func fitGPDMoments(x []float64) GPD {
	m, v := stat.MeanVariance(x, nil)
	r := m * m / v
	return GPD{Scale: 0.5 * m * (r + 1), Shape: 0.5 * (1 - r)}
}

// fitGPDPWM follows Hosking & Wallis (1987) with plotting positions (i-0.35)/n.
func fitGPDPWM(x []float64) (GPD, error) {
	n := float64(len(x))
	sorted := make([]float64, len(x))
	copy(sorted, x)
	sort.Float64s(sorted)

	a0 := stat.Mean(sorted, nil)
	a1 := 0.0
	for i, v := range sorted {
		a1 += (1 - (float64(i+1)-0.35)/n) * v
	}
	a1 /= n

	denom := a0 - 2*a1
	if denom <= 0 {
		return GPD{}, degenerate("pwm moments a0=%v a1=%v admit no gpd", a0, a1)
	}
	k := a0/denom - 2
	return GPD{Scale: 2 * a0 * a1 / denom, Shape: -k}, nil
}

func fitGPDMLE(x []float64) (GPD, error) {
	init := fitGPDMoments(x)
	if math.IsInf(gpdNegLogLikelihood(x, init), 1) {
		init = GPD{Scale: stat.Mean(x, nil)}
	}

	problem := optimize.Problem{
		Func: func(p []float64) float64 {
			return gpdNegLogLikelihood(x, GPD{Scale: math.Exp(p[0]), Shape: p[1]})
		},
	}
	res, err := optimize.Minimize(problem, []float64{math.Log(init.Scale), init.Shape}, mleSettings(), &optimize.NelderMead{})
	if res == nil || math.IsInf(res.F, 0) || math.IsNaN(res.F) {
		return GPD{}, degenerate("gpd likelihood optimisation failed: %v", err)
	}
	return GPD{Scale: math.Exp(res.X[0]), Shape: res.X[1]}, nil
}

func gpdNegLogLikelihood(x []float64, d GPD) float64 {
	if !(d.Scale > 0) {
		return math.Inf(1)
	}
	n := float64(len(x))
	if math.Abs(d.Shape) < shapeEps {
		return n*math.Log(d.Scale) + floats.Sum(x)/d.Scale
	}
	s := 0.0
	for _, v := range x {
		t := 1 + d.Shape*v/d.Scale
		if t <= 0 {
			return math.Inf(1)
		}
		s += math.Log(t)
	}
	return n*math.Log(d.Scale) + (1+1/d.Shape)*s
}

func mleSettings() *optimize.Settings {
	return &optimize.Settings{
		MajorIterations: 2000,
		Converger: &optimize.FunctionConverge{
			Absolute:   1e-10,
			Iterations: 100,
		},
	}
}

func checkEstimator(estimator string, allowed []string) error {
	for _, a := range allowed {
		if estimator == a {
			return nil
		}
	}
	return &ConfigError{
		Field: "estimator",
		Value: estimator,
		Err:   fmt.Errorf("%w (want one of %v)", ErrUnknownEstimator, allowed),
	}
}

func checkSample(x []float64) error {
	if len(x) < 2 {
		return degenerate("need at least 2 values, got %d", len(x))
	}
	for _, v := range x {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return degenerate("non-finite value %v", v)
		}
	}
	if floats.Min(x) == floats.Max(x) {
		return degenerate("zero variance")
	}
	return nil
}
