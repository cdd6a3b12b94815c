// Package analysis characterizes flock runs after the fact.
//
//   - [PowerSpectrum], [DominantPeriod]: oscillation in a metric series
//   - [Divergence]: sensitivity of a flock to a tiny position perturbation
//   - [Sweep]: parameter sweep of one flock.Params field
//   - [TrailToASCII]: 2D trail of a point series, e.g. the centroid
//
// # Oscillation
//
// A flock chasing a fixed target overshoots and swings back. The dominant
// period of its target_distance series is the length of that swing:
//
//	period := analysis.DominantPeriod(res.Series["target_distance"])
package analysis
