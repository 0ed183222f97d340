package evt

import (
	"math"
	"math/rand"
)

func gpdSample(rng *rand.Rand, n int, scale, shape float64) []float64 {
	x := make([]float64, n)
	for i := range x {
		u := rng.Float64()
		if shape == 0 {
			x[i] = -scale * math.Log1p(-u)
			continue
		}
		x[i] = scale / shape * (math.Pow(1-u, -shape) - 1)
	}
	return x
}

func gumbelSample(rng *rand.Rand, n int, loc, scale float64) []float64 {
	x := make([]float64, n)
	for i := range x {
		u := rng.Float64()
		for u == 0 {
			u = rng.Float64()
		}
		x[i] = loc - scale*math.Log(-math.Log(u))
	}
	return x
}

func normalSample(rng *rand.Rand, n int) []float64 {
	x := make([]float64, n)
	for i := range x {
		x[i] = rng.NormFloat64()
	}
	return x
}
