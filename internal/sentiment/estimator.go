package sentiment

import "math"

// Estimate is the output of a single polarity estimator.
type Estimate struct {
	Score     float64
	Breakdown map[string]float64
}

// PolarityEstimator scores text on a [-1, 1] polarity scale.
type PolarityEstimator interface {
	Name() string
	Estimate(text string) Estimate
}

// clampPolarity folds NaN to zero and bounds v to [-1, 1].
func clampPolarity(v float64) float64 {
	switch {
	case math.IsNaN(v):
		return 0
	case v > 1:
		return 1
	case v < -1:
		return -1
	default:
		return v
	}
}
