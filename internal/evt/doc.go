// Package evt estimates tail parameters of the distance observable used for
// local dimension and persistence estimates.
//
// The observable for a reference point ζ is g_i = -log‖x_i − ζ‖. Its upper
// tail is fitted by one of two extraction strategies:
//
//   - [Exceedances]: values above the p-quantile, fitted with a
//     Generalized Pareto Distribution ([FitGPD]); Δ = 1/σ.
//   - [BlockMaxima]: maxima of contiguous blocks, fitted with a
//     Generalized Extreme Value distribution ([FitGEV]); Δ = 1/σ.
//
// The extremal index θ is estimated in closed form by [Sueveges].
//
// # Estimators
//
// GPD fits accept "exp" (shape fixed at 0, σ = mean), "mm" (moments),
// "pwm" (probability weighted moments) and "mle" (maximum likelihood).
// GEV fits accept "mm", "pwm" and "mle".
//
// # Scratch memory
//
// Every estimation accepts a [Scratch] so a worker can reuse its buffers
// across reference points. A nil Scratch allocates per call.
package evt
