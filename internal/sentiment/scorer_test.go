package sentiment

import (
	"errors"
	"math/rand"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestScorer(t *testing.T, opts ...Option) *Scorer {
	t.Helper()
	res, err := Load()
	require.NoError(t, err)
	return NewScorer(res, opts...)
}

type fixedEstimator struct {
	name  string
	score float64
	calls int
}

func (f *fixedEstimator) Name() string { return f.name }

func (f *fixedEstimator) Estimate(string) Estimate {
	f.calls++
	return Estimate{Score: f.score, Breakdown: map[string]float64{"compound": f.score}}
}

func TestScore_EmptyAndWhitespace(t *testing.T) {
	s := newTestScorer(t)

	for _, text := range []string{"", "   ", "\n\t  \r\n", " "} {
		result := s.Score(text)
		assert.Equal(t, Neutral, result.Label, "text %q", text)
		assert.Equal(t, 0.0, result.Score)
		assert.Equal(t, 0.0, result.Components.PatternScore)
		assert.Equal(t, 0.0, result.Components.VaderScore)
		assert.Equal(t, map[string]float64{"neg": 0, "neu": 0, "pos": 0, "compound": 0}, result.Components.VaderScores)
	}
}

func TestScore_EmptySkipsEstimators(t *testing.T) {
	a := &fixedEstimator{name: "a", score: 1}
	b := &fixedEstimator{name: "b", score: 1}
	s := newTestScorer(t, WithEstimators(a, b))

	s.Score("  ")
	assert.Zero(t, a.calls)
	assert.Zero(t, b.calls)
}

func TestScore_Positive(t *testing.T) {
	result := newTestScorer(t).Score("I love this event, it was amazing!")

	assert.Equal(t, Positive, result.Label)
	assert.Greater(t, result.Score, 0.05)
	assert.Greater(t, result.Components.PatternScore, 0.0)
	assert.Greater(t, result.Components.VaderScore, 0.0)
	assert.Contains(t, result.Components.VaderScores, "compound")
	assert.Equal(t, result.Components.VaderScore, result.Components.VaderScores["compound"])
}

func TestScore_Negative(t *testing.T) {
	result := newTestScorer(t).Score("This was terrible and I hated every minute.")

	assert.Equal(t, Negative, result.Label)
	assert.Less(t, result.Score, -0.05)
}

func TestScore_Neutral(t *testing.T) {
	result := newTestScorer(t).Score("The event happened on Tuesday.")

	assert.Equal(t, Neutral, result.Label)
	assert.InDelta(t, 0.0, result.Score, 0.05)
}

func TestScore_CombinesByAveraging(t *testing.T) {
	s := newTestScorer(t, WithEstimators(
		&fixedEstimator{name: "a", score: 0.6},
		&fixedEstimator{name: "b", score: -0.2},
	))

	result := s.Score("anything")
	assert.InDelta(t, 0.2, result.Score, 1e-12)
	assert.Equal(t, Positive, result.Label)
	assert.Equal(t, 0.6, result.Components.PatternScore)
	assert.Equal(t, -0.2, result.Components.VaderScore)
}

func TestScore_ClampsMisbehavingEstimators(t *testing.T) {
	s := newTestScorer(t, WithEstimators(
		&fixedEstimator{name: "a", score: 7},
		&fixedEstimator{name: "b", score: 3},
	))

	result := s.Score("anything")
	assert.Equal(t, 1.0, result.Score)
	assert.Equal(t, 1.0, result.Components.PatternScore)
}

func TestNewScorer_NilResources(t *testing.T) {
	assert.PanicsWithValue(t, "sentiment: NewScorer called with nil Resources, call Load first", func() {
		NewScorer(nil)
	})
}

func TestScore_NilOptionsKeepDefaults(t *testing.T) {
	s := newTestScorer(t,
		WithEstimators(nil, &fixedEstimator{name: "b", score: -0.2}),
		WithFusion(nil),
	)

	var result Result
	require.NotPanics(t, func() {
		result = s.Score("I love this event, it was amazing!")
	})
	assert.Greater(t, result.Components.PatternScore, 0.0)
	assert.Equal(t, -0.2, result.Components.VaderScore)
	assert.InDelta(t, (result.Components.PatternScore-0.2)/2, result.Score, 1e-12)
}

func TestScore_Idempotent(t *testing.T) {
	s := newTestScorer(t)
	text := "Honestly the venue was NOT great, but the speakers were really good :)"

	first := s.Score(text)
	second := s.Score(text)
	assert.Equal(t, first, second)
}

func TestScore_RangeOnRandomASCII(t *testing.T) {
	s := newTestScorer(t)
	rng := rand.New(rand.NewSource(42))
	words := []string{"good", "bad", "not", "very", "GREAT", "awful", "!!!", "event", "love", "hate", ":)", "but", "the", "?"}

	for i := 0; i < 500; i++ {
		n := 1 + rng.Intn(30)
		parts := make([]string, n)
		for j := range parts {
			if rng.Intn(4) == 0 {
				parts[j] = string(rune(33 + rng.Intn(94)))
			} else {
				parts[j] = words[rng.Intn(len(words))]
			}
		}
		result := s.Score(strings.Join(parts, " "))
		assert.GreaterOrEqual(t, result.Score, -1.0)
		assert.LessOrEqual(t, result.Score, 1.0)
	}
}

func TestScore_MonotonicConcatenation(t *testing.T) {
	s := newTestScorer(t)
	neutral := "The event happened on Tuesday."
	baseline := s.Score(neutral)
	combined := s.Score(neutral + " I love this event, it was amazing!")

	assert.GreaterOrEqual(t, combined.Score, baseline.Score)
}

func TestScore_MalformedUnicode(t *testing.T) {
	s := newTestScorer(t)

	inputs := []string{
		"great \xff\xfe talk",
		"\xc3\x28 good",
		"🎉🎉 amazing keynote 🎉",
		"Отличное событие, great talk 素晴らしい",
		"\x00\x01 fine",
	}
	for _, text := range inputs {
		assert.NotPanics(t, func() {
			result := s.Score(text)
			assert.GreaterOrEqual(t, result.Score, -1.0)
			assert.LessOrEqual(t, result.Score, 1.0)
		}, "text %q", text)
	}

	assert.Equal(t, Positive, s.Score("great \xff\xfe talk").Label)
}

func TestScore_LongText(t *testing.T) {
	s := newTestScorer(t)
	text := strings.Repeat("The talk was good and the venue was nice. ", 3000)
	require.Greater(t, len(text), 100_000)

	result := s.Score(text)
	assert.Equal(t, Positive, result.Label)
}

func TestScore_Concurrent(t *testing.T) {
	s := newTestScorer(t)
	texts := []string{
		"I love this event, it was amazing!",
		"This was terrible and I hated every minute.",
		"The event happened on Tuesday.",
	}
	want := make([]Result, len(texts))
	for i, text := range texts {
		want[i] = s.Score(text)
	}

	var wg sync.WaitGroup
	for g := 0; g < 16; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				idx := i % len(texts)
				assert.Equal(t, want[idx], s.Score(texts[idx]))
			}
		}()
	}
	wg.Wait()
}

func TestLoad_InvalidLexicon(t *testing.T) {
	_, err := load([]byte("good\tnope\t1.0\tword\n"), newVaderFunc)

	var initErr *InitializationError
	require.True(t, errors.As(err, &initErr))
	assert.Equal(t, "pattern lexicon", initErr.Component)
}

func TestLoad_VaderPanics(t *testing.T) {
	_, err := load(patternLexiconData, func() vaderFunc { panic("lexicon missing") })

	var initErr *InitializationError
	require.True(t, errors.As(err, &initErr))
	assert.Equal(t, "vader analyzer", initErr.Component)
	assert.Contains(t, err.Error(), "lexicon missing")
}

func TestLoad_VaderProbeFails(t *testing.T) {
	_, err := load(patternLexiconData, func() vaderFunc {
		return func(string) vaderScores { return vaderScores{Neutral: 1} }
	})

	var initErr *InitializationError
	require.True(t, errors.As(err, &initErr))
}

func TestLoad_BundledLexicon(t *testing.T) {
	res, err := Load()
	require.NoError(t, err)
	assert.Greater(t, res.Lexicon().Len(), 100)
}
