package evt

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuantile(t *testing.T) {
	x := []float64{5, 1, 4, 2, 3}

	tests := []struct {
		p    float64
		want float64
	}{
		{0.1, 1},
		{0.5, 2.5},
		{0.9, 4.5},
	}
	for _, tt := range tests {
		got, err := Quantile(x, tt.p)
		require.NoError(t, err)
		assert.InDelta(t, tt.want, got, 1e-12, "p=%v", tt.p)
	}

	assert.Equal(t, []float64{5, 1, 4, 2, 3}, x, "input must not be reordered")
}

func TestQuantile_InvalidProbability(t *testing.T) {
	for _, p := range []float64{0, 1, -0.2, 1.5, math.NaN()} {
		_, err := Quantile([]float64{1, 2, 3}, p)
		require.ErrorIs(t, err, ErrInvalidProbability, "p=%v", p)

		var cfgErr *ConfigError
		require.True(t, errors.As(err, &cfgErr))
		assert.Equal(t, "p", cfgErr.Field)
	}
}

func TestQuantile_Empty(t *testing.T) {
	_, err := Quantile(nil, 0.5)
	assert.ErrorIs(t, err, ErrDegenerateSample)
}

func TestSelectExceedances(t *testing.T) {
	g := []float64{5, 1, 4, 2, 3}

	sel, err := SelectExceedances(g, 0.5, nil)
	require.NoError(t, err)

	assert.InDelta(t, 2.5, sel.Threshold, 1e-12)
	assert.InDeltaSlice(t, []float64{2.5, 1.5, 0.5}, sel.Values, 1e-12)
	assert.Equal(t, []bool{true, false, true, false, true}, sel.Indicator())
}

func TestSelectExceedances_TiesAtThresholdAreKept(t *testing.T) {
	g := []float64{1, 1, 1, 1, 2}

	sel, err := SelectExceedances(g, 0.5, nil)
	require.NoError(t, err)

	assert.Equal(t, 1.0, sel.Threshold)
	assert.Equal(t, []float64{0, 0, 0, 0, 1}, sel.Values)
}

func TestSelectExceedances_ReusesScratch(t *testing.T) {
	s := NewScratch(8)
	first, err := SelectExceedances([]float64{1, 2, 3, 4, 5, 6, 7, 8}, 0.75, s)
	require.NoError(t, err)
	want := append([]float64(nil), first.Values...)

	second, err := SelectExceedances([]float64{8, 7, 6, 5, 4, 3, 2, 1}, 0.75, s)
	require.NoError(t, err)

	assert.ElementsMatch(t, want, second.Values)
}
