package sentiment

import (
	"encoding/json"
	"fmt"
)

// Label is the discrete sentiment class derived from a combined score.
type Label int

const (
	Neutral Label = iota
	Positive
	Negative
)

func (l Label) String() string {
	switch l {
	case Positive:
		return "Positive"
	case Negative:
		return "Negative"
	default:
		return "Neutral"
	}
}

func (l Label) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.String())
}

func (l *Label) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseLabel(s)
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

// ParseLabel accepts the names produced by Label.String.
func ParseLabel(s string) (Label, error) {
	switch s {
	case "Positive":
		return Positive, nil
	case "Negative":
		return Negative, nil
	case "Neutral":
		return Neutral, nil
	default:
		return Neutral, fmt.Errorf("[Sentiment] unknown label %q", s)
	}
}

// Components keeps the per-estimator output for debugging. Only the combined
// score feeds the label.
type Components struct {
	PatternScore float64            `json:"pattern_score" dynamodbav:"pattern_score"`
	VaderScore   float64            `json:"vader_score" dynamodbav:"vader_score"`
	VaderScores  map[string]float64 `json:"vader_scores" dynamodbav:"vader_scores"`
}

// Result is produced once per input text and never mutated afterwards.
type Result struct {
	Score      float64    `json:"score"`
	Label      Label      `json:"label"`
	Components Components `json:"components"`
}
