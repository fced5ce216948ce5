package sentiment

import "github.com/jonreiter/govader"

type vaderScores struct {
	Negative float64
	Neutral  float64
	Positive float64
	Compound float64
}

type vaderFunc func(text string) vaderScores

func newVaderFunc() vaderFunc {
	analyzer := govader.NewSentimentIntensityAnalyzer()
	return func(text string) vaderScores {
		s := analyzer.PolarityScores(text)
		return vaderScores{
			Negative: s.Negative,
			Neutral:  s.Neutral,
			Positive: s.Positive,
			Compound: s.Compound,
		}
	}
}

// VaderEstimator wraps the VADER rule set, which is tuned for short informal
// text: negation, intensifiers, punctuation emphasis and capitalisation.
type VaderEstimator struct {
	scores vaderFunc
}

func (v *VaderEstimator) Name() string {
	return "vader"
}

// Estimate returns the compound score plus the neg/neu/pos/compound breakdown.
func (v *VaderEstimator) Estimate(text string) Estimate {
	s := v.scores(text)
	compound := clampPolarity(s.Compound)

	return Estimate{
		Score: compound,
		Breakdown: map[string]float64{
			"neg":      s.Negative,
			"neu":      s.Neutral,
			"pos":      s.Positive,
			"compound": compound,
		},
	}
}
