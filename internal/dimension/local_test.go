package dimension

import (
	"context"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/evtdim/internal/dynamo"
	"github.com/san-kum/evtdim/internal/evt"
)

func line(t *testing.T) *dynamo.StateSpaceSet {
	t.Helper()
	set, err := dynamo.FromRows([][]float64{{0, 0}, {1, 0}, {2, 0}, {4, 0}})
	require.NoError(t, err)
	return set
}

func TestLogDistances(t *testing.T) {
	X := line(t)

	g := LogDistances(nil, X, X.At(0), 0)
	assert.InDeltaSlice(t, []float64{0, -math.Log(2), -math.Log(4)}, g, 1e-12)

	g = LogDistances(g, X, dynamo.State{3, 0}, -1)
	assert.InDeltaSlice(t, []float64{-math.Log(3), -math.Log(2), 0, 0}, g, 1e-12)
}

func TestLogDistances_DropsDuplicates(t *testing.T) {
	X, err := dynamo.FromRows([][]float64{{0, 0}, {1, 0}, {0, 0}})
	require.NoError(t, err)

	g := LogDistances(make([]float64, 0, 3), X, X.At(0), 0)
	assert.Equal(t, []float64{0}, g)
	for _, v := range g {
		assert.False(t, math.IsInf(v, 0))
	}
}

func TestWorker_MatchesLocalDimPersistence(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	points := make([]dynamo.State, 400)
	for i := range points {
		points[i] = dynamo.State{rng.Float64(), rng.Float64()}
	}
	X, err := dynamo.NewStateSpaceSet(points)
	require.NoError(t, err)
	typ := evt.Exceedances{P: 0.95, Estimator: evt.EstimatorMoments}

	w := NewWorker(X.Len())
	for _, j := range []int{0, 123, 399} {
		got, err := w.Evaluate(X, j, typ, true)
		require.NoError(t, err)

		want, err := LocalDimPersistence(X, X.At(j), typ)
		require.NoError(t, err)
		assert.Equal(t, want, got)

		g := LogDistances(nil, X, X.At(j), j)
		fromG, err := LocalFromLogDistances(g, typ)
		require.NoError(t, err)
		assert.Equal(t, want, fromG)
	}
}

func TestLocalDimPersistence_OutsidePoint(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	points := make([]dynamo.State, 500)
	for i := range points {
		points[i] = dynamo.State{rng.Float64(), rng.Float64()}
	}
	X, err := dynamo.NewStateSpaceSet(points)
	require.NoError(t, err)

	est, err := LocalDimPersistence(X, dynamo.State{0.5, 0.5}, evt.Exceedances{P: 0.95, Estimator: evt.EstimatorExp},
		WithComputePersistence(false))
	require.NoError(t, err)
	assert.Greater(t, est.Dim, 0.0)
	assert.True(t, math.IsNaN(est.Theta))
}

func TestLocalDimPersistence_Errors(t *testing.T) {
	X := line(t)
	typ := evt.Exceedances{P: 0.5, Estimator: evt.EstimatorExp}

	_, err := LocalDimPersistence(X, dynamo.State{1, 2, 3}, typ)
	assert.ErrorIs(t, err, dynamo.ErrDimensionMismatch)

	_, err = LocalDimPersistence(X, X.At(0), evt.Exceedances{P: 0, Estimator: evt.EstimatorExp})
	assert.ErrorIs(t, err, evt.ErrInvalidProbability)

	_, err = LocalFromLogDistances([]float64{1, 2, 3}, nil)
	assert.ErrorIs(t, err, evt.ErrUnknownExtraction)
}

func TestResult_Means(t *testing.T) {
	r := &Result{Dims: []float64{1, 2, 3}, Thetas: []float64{0.5, math.NaN(), 1}}
	assert.InDelta(t, 2.0, r.MeanDim(), 1e-12)
	assert.InDelta(t, 0.75, r.MeanTheta(), 1e-12)
}

func BenchmarkDimsPersistences(b *testing.B) {
	rng := rand.New(rand.NewSource(42))
	points := make([]dynamo.State, 2000)
	for i := range points {
		points[i] = dynamo.State{rng.Float64(), rng.Float64(), rng.Float64()}
	}
	X, err := dynamo.NewStateSpaceSet(points)
	if err != nil {
		b.Fatal(err)
	}
	typ := evt.Exceedances{P: 0.98, Estimator: evt.EstimatorExp}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := DimsPersistences(context.Background(), X, typ); err != nil {
			b.Fatal(err)
		}
	}
}
