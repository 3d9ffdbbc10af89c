// Package linfit provides a closed-form ordinary-least-squares fit for
// straight lines. Kept dependency-free on purpose: the fitted models are
// tiny and a numeric library would be overkill here.
package linfit

// Fit computes intercept and slope of y = intercept + slope*x by ordinary
// least squares. It requires at least two distinct x values, otherwise
// ok is false.
func Fit(xs, ys []float64) (intercept, slope float64, ok bool) {
	if len(xs) != len(ys) || len(xs) < 2 {
		return 0, 0, false
	}
	n := float64(len(xs))
	var sumX, sumY, sumXX, sumXY float64
	for i := range xs {
		sumX += xs[i]
		sumY += ys[i]
		sumXX += xs[i] * xs[i]
		sumXY += xs[i] * ys[i]
	}
	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		// all x values identical
		return 0, 0, false
	}
	slope = (n*sumXY - sumX*sumY) / denom
	intercept = (sumY - slope*sumX) / n
	return intercept, slope, true
}
