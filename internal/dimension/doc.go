// Package dimension estimates local dimensions and persistences of the
// points of a state-space set with extreme value theory.
//
// For a reference point ζ the observable g_i = -log‖x_i − ζ‖ is large when
// x_i is close to ζ. Its tail is fitted by an [evt.Extraction] and the fitted
// scale gives the local dimension Δ; the clustering of its exceedances gives
// the extremal index θ, the persistence of ζ.
package dimension
