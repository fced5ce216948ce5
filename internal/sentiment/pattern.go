package sentiment

import (
	"strings"
	"unicode"
)

// negationFactor flips and dampens a negated word ("not good" is mildly negative).
const negationFactor = -0.5

// PatternEstimator is a lexicon estimator in the style of the pattern library:
// every known word is one assessment, intensifying adverbs scale the next word,
// negation flips it, and the score is the mean of all assessments. Punctuation
// closes the scope of pending modifiers and negations.
type PatternEstimator struct {
	lexicon *Lexicon
}

func NewPatternEstimator(lexicon *Lexicon) *PatternEstimator {
	return &PatternEstimator{lexicon: lexicon}
}

func (p *PatternEstimator) Name() string {
	return "pattern"
}

func (p *PatternEstimator) Estimate(text string) Estimate {
	var (
		sum         float64
		assessments int
		negate      bool
		modifier    = 1.0
	)

	for _, tok := range tokenize(text, p.lexicon) {
		if tok.boundary {
			negate = false
			modifier = 1
			continue
		}

		entry, ok := p.lexicon.lookup(tok.text)
		if !ok {
			if strings.HasSuffix(tok.text, "n't") {
				negate = true
			}
			modifier = 1
			continue
		}

		switch entry.kind {
		case kindNegation:
			negate = true
		case kindModifier:
			modifier *= entry.intensity
		case kindWord:
			polarity := entry.polarity * modifier
			if negate {
				polarity *= negationFactor
			}
			sum += clampPolarity(polarity)
			assessments++
			negate = false
			modifier = 1
		}
	}

	score := 0.0
	if assessments > 0 {
		score = clampPolarity(sum / float64(assessments))
	}

	return Estimate{
		Score: score,
		Breakdown: map[string]float64{
			"polarity":    score,
			"assessments": float64(assessments),
		},
	}
}

type token struct {
	text     string
	boundary bool
}

// tokenize splits text into lowercase word tokens and boundary markers in a
// single pass. Whitespace separated fields that are lexicon entries verbatim
// (emoticons such as ":)" or "<3") are kept whole.
func tokenize(text string, lexicon *Lexicon) []token {
	var (
		tokens []token
		word   strings.Builder
	)

	flush := func() {
		if word.Len() == 0 {
			return
		}
		w := strings.Trim(strings.ToLower(word.String()), "'-")
		word.Reset()
		if w != "" {
			tokens = append(tokens, token{text: w})
		}
	}

	for _, field := range strings.Fields(text) {
		if _, ok := lexicon.lookup(field); ok && !isWordish(field) {
			tokens = append(tokens, token{text: field})
			continue
		}

		for _, r := range field {
			switch {
			case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '\'' || r == '-':
				word.WriteRune(r)
			case r == '’':
				word.WriteRune('\'')
			case isBoundary(r):
				flush()
				tokens = append(tokens, token{boundary: true})
			default:
				flush()
			}
		}
		flush()
	}

	return tokens
}

func isWordish(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\'' && r != '-' {
			return false
		}
	}
	return true
}

func isBoundary(r rune) bool {
	switch r {
	case '.', '!', '?', ';', ':', ',':
		return true
	}
	return false
}
