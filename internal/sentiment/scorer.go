package sentiment

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Resources holds the analyzer state that is loaded once per process. It is
// never mutated after Load returns and may be shared by any number of Scorers.
type Resources struct {
	lexicon *Lexicon
	vader   vaderFunc
}

// Load parses the bundled pattern lexicon and builds the VADER analyzer.
// Any failure is returned as *InitializationError.
func Load() (*Resources, error) {
	return load(patternLexiconData, newVaderFunc)
}

func load(lexiconData []byte, newVader func() vaderFunc) (*Resources, error) {
	lexicon, err := ParseLexicon(lexiconData)
	if err != nil {
		return nil, &InitializationError{Component: "pattern lexicon", Err: err}
	}

	vader, err := buildVader(newVader)
	if err != nil {
		return nil, &InitializationError{Component: "vader analyzer", Err: err}
	}

	return &Resources{lexicon: lexicon, vader: vader}, nil
}

func buildVader(newVader func() vaderFunc) (v vaderFunc, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("analyzer panicked: %v", r)
		}
	}()

	v = newVader()
	if v == nil {
		return nil, errors.New("analyzer is nil")
	}
	// A missing or empty bundled lexicon scores everything as zero.
	if probe := v("good"); !(probe.Compound > 0) {
		return nil, errors.New("analyzer lexicon did not score probe text")
	}
	return v, nil
}

// Lexicon exposes the parsed pattern lexicon.
func (r *Resources) Lexicon() *Lexicon {
	return r.lexicon
}

type Option func(*Scorer)

// WithFusion replaces the default averaging policy. A nil policy is ignored.
func WithFusion(policy FusionPolicy) Option {
	return func(s *Scorer) {
		if policy != nil {
			s.fusion = policy
		}
	}
}

// WithEstimators replaces the two estimators. The primary score is reported as
// Components.PatternScore and the secondary as Components.VaderScore/VaderScores.
// A nil estimator keeps the default in its place.
func WithEstimators(primary, secondary PolarityEstimator) Option {
	return func(s *Scorer) {
		if primary != nil {
			s.primary = primary
		}
		if secondary != nil {
			s.secondary = secondary
		}
	}
}

// Scorer turns text into a Result. It holds no mutable state, so Score is
// safe for concurrent use.
type Scorer struct {
	primary   PolarityEstimator
	secondary PolarityEstimator
	fusion    FusionPolicy
}

// NewScorer panics if res is nil.
func NewScorer(res *Resources, opts ...Option) *Scorer {
	if res == nil {
		panic("sentiment: NewScorer called with nil Resources, call Load first")
	}
	s := &Scorer{
		primary:   NewPatternEstimator(res.lexicon),
		secondary: &VaderEstimator{scores: res.vader},
		fusion:    DefaultFusion(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Score never fails: invalid UTF-8 is dropped, and empty or whitespace-only
// text yields a zero Neutral result without running the estimators.
func (s *Scorer) Score(text string) Result {
	clean := sanitize(text)
	if strings.TrimSpace(clean) == "" {
		return neutralResult()
	}

	primary := s.primary.Estimate(clean)
	secondary := s.secondary.Estimate(clean)

	primaryScore := clampPolarity(primary.Score)
	secondaryScore := clampPolarity(secondary.Score)
	combined := s.fusion.Combine(primaryScore, secondaryScore)

	return Result{
		Score: combined,
		Label: s.fusion.Label(combined),
		Components: Components{
			PatternScore: primaryScore,
			VaderScore:   secondaryScore,
			VaderScores:  copyBreakdown(secondary.Breakdown),
		},
	}
}

func sanitize(text string) string {
	return norm.NFC.String(strings.ToValidUTF8(text, ""))
}

func neutralResult() Result {
	return Result{
		Score: 0,
		Label: Neutral,
		Components: Components{
			VaderScores: map[string]float64{"neg": 0, "neu": 0, "pos": 0, "compound": 0},
		},
	}
}

func copyBreakdown(in map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
