package evt

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFitGPD_RecoversScale(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	sample := gpdSample(rng, 5000, 0.5, -0.2)

	for _, est := range []string{EstimatorMoments, EstimatorPWM, EstimatorMLE} {
		t.Run(est, func(t *testing.T) {
			fit, err := FitGPD(sample, est)
			require.NoError(t, err)
			assert.InDelta(t, 0.5, fit.Scale, 0.05)
			assert.InDelta(t, -0.2, fit.Shape, 0.08)
			assert.InDelta(t, 2.0, fit.Dimension(), 0.25)
		})
	}
}

func TestFitGPD_ExpOnExponentialData(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	sample := gpdSample(rng, 5000, 0.5, 0)

	fit, err := FitGPD(sample, EstimatorExp)
	require.NoError(t, err)
	assert.Equal(t, 0.0, fit.Shape)
	assert.InDelta(t, 0.5, fit.Scale, 0.03)
}

// With ξ < 0 the exponential shortcut estimates the mean excess σ/(1-ξ),
// not σ, so it overstates the dimension by a factor 1-ξ.
func TestFitGPD_ExpBiasForBoundedTails(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	const scale, shape = 0.5, -0.3
	sample := gpdSample(rng, 5000, scale, shape)

	exp, err := FitGPD(sample, EstimatorExp)
	require.NoError(t, err)
	mle, err := FitGPD(sample, EstimatorMLE)
	require.NoError(t, err)

	assert.InDelta(t, scale/(1-shape), exp.Scale, 0.02)
	assert.Greater(t, exp.Dimension(), mle.Dimension())
}

func TestFitGPD_Errors(t *testing.T) {
	tests := []struct {
		name      string
		sample    []float64
		estimator string
		want      error
	}{
		{"single value", []float64{1}, EstimatorMLE, ErrDegenerateSample},
		{"empty", nil, EstimatorExp, ErrDegenerateSample},
		{"zero variance", []float64{2, 2, 2}, EstimatorMoments, ErrDegenerateSample},
		{"unknown estimator", []float64{1, 2, 3}, "lmoments", ErrUnknownEstimator},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FitGPD(tt.sample, tt.estimator)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestGPD_CDF(t *testing.T) {
	d := GPD{Scale: 1}
	assert.Equal(t, 0.0, d.CDF(-1))
	assert.InDelta(t, 1-0.36787944117144233, d.CDF(1), 1e-12)

	bounded := GPD{Scale: 1, Shape: -0.5}
	assert.Equal(t, 1.0, bounded.CDF(3))
}

func TestExceedances_DimensionGrowsWithProbability(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	g := gpdSample(rng, 20000, 1, -0.3)

	for _, est := range []string{EstimatorExp, EstimatorMoments} {
		t.Run(est, func(t *testing.T) {
			prev := 0.0
			for _, p := range []float64{0.5, 0.8, 0.95} {
				res, err := Exceedances{P: p, Estimator: est}.Estimate(g, nil, false)
				require.NoError(t, err)
				assert.GreaterOrEqual(t, res.Dim, prev, "p=%v", p)
				prev = res.Dim
			}
		})
	}
}

func BenchmarkFitGPD(b *testing.B) {
	rng := rand.New(rand.NewSource(42))
	sample := gpdSample(rng, 200, 0.5, 0)

	for _, est := range gpdEstimators {
		b.Run(est, func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				if _, err := FitGPD(sample, est); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
