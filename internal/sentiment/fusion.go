package sentiment

const (
	DefaultPositiveThreshold = 0.05
	DefaultNegativeThreshold = -0.05
)

// FusionPolicy combines the two estimator scores and labels the result.
type FusionPolicy interface {
	Combine(primary, secondary float64) float64
	Label(score float64) Label
}

// AverageFusion takes the unweighted mean of both scores. Scores at or above
// PositiveThreshold are Positive, at or below NegativeThreshold Negative.
type AverageFusion struct {
	PositiveThreshold float64
	NegativeThreshold float64
}

func DefaultFusion() AverageFusion {
	return AverageFusion{
		PositiveThreshold: DefaultPositiveThreshold,
		NegativeThreshold: DefaultNegativeThreshold,
	}
}

func (f AverageFusion) Combine(primary, secondary float64) float64 {
	return clampPolarity((primary + secondary) / 2.0)
}

func (f AverageFusion) Label(score float64) Label {
	switch {
	case score >= f.PositiveThreshold:
		return Positive
	case score <= f.NegativeThreshold:
		return Negative
	default:
		return Neutral
	}
}
