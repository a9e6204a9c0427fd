// Package confidence maps raw sample counts to confidence weights.
//
// Every behavioral metric carries a confidence in [0,1] derived from the
// number of observations behind it. A shared logistic curve keeps
// confidences comparable across metrics: only the optimal sample size
// varies per metric, never the steepness.
package confidence

import "math"

// steepness is the shared numerator of the logistic slope k. With
// k = steepness/optimal the curve reaches ~0.95 at n = optimal and
// sits near 0.05 at n = 0.
const steepness = 6.0

// DefaultOptimalSize is used when a metric does not configure its own
// optimal sample size.
const DefaultOptimalSize = 10

// FromSampleSize returns a confidence weight in (0,1) for n observations
// against an optimal sample size. It is monotonically non-decreasing in
// n and never zero: n=0 yields a small positive value so sparse data is
// flagged, not erased. A non-positive optimal falls back to the default.
func FromSampleSize(n, optimal int) float64 {
	if optimal <= 0 {
		optimal = DefaultOptimalSize
	}
	if n < 0 {
		n = 0
	}
	k := steepness / float64(optimal)
	mid := float64(optimal) / 2
	c := 1 / (1 + math.Exp(-k*(float64(n)-mid)))
	return math.Min(1, c)
}
