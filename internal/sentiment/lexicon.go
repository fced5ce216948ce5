package sentiment

import (
	"bufio"
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

//go:embed lexicon/pattern_en.tsv
var patternLexiconData []byte

type entryKind int

const (
	kindWord entryKind = iota
	kindModifier
	kindNegation
)

type lexiconEntry struct {
	polarity  float64
	intensity float64
	kind      entryKind
}

// Lexicon is the parsed, read-only word table used by PatternEstimator.
type Lexicon struct {
	entries map[string]lexiconEntry
}

// Len returns the number of entries.
func (l *Lexicon) Len() int {
	return len(l.entries)
}

func (l *Lexicon) lookup(token string) (lexiconEntry, bool) {
	e, ok := l.entries[token]
	return e, ok
}

// ParseLexicon reads tab separated lines of the form
// word, polarity, intensity, kind. Blank lines and lines starting with '#'
// are skipped.
func ParseLexicon(data []byte) (*Lexicon, error) {
	entries := make(map[string]lexiconEntry)
	scanner := bufio.NewScanner(bytes.NewReader(data))

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Split(line, "\t")
		if len(fields) != 4 {
			return nil, fmt.Errorf("line %d: expected 4 fields, got %d", lineNo, len(fields))
		}

		word := fields[0]
		polarity, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid polarity: %w", lineNo, err)
		}
		if polarity < -1 || polarity > 1 {
			return nil, fmt.Errorf("line %d: polarity %v out of range", lineNo, polarity)
		}
		intensity, err := strconv.ParseFloat(fields[2], 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid intensity: %w", lineNo, err)
		}
		if intensity <= 0 {
			return nil, fmt.Errorf("line %d: intensity must be positive", lineNo)
		}

		var kind entryKind
		switch fields[3] {
		case "word":
			kind = kindWord
		case "modifier":
			kind = kindModifier
		case "negation":
			kind = kindNegation
		default:
			return nil, fmt.Errorf("line %d: unknown kind %q", lineNo, fields[3])
		}

		if _, dup := entries[word]; dup {
			return nil, fmt.Errorf("line %d: duplicate entry %q", lineNo, word)
		}
		entries[word] = lexiconEntry{polarity: polarity, intensity: intensity, kind: kind}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, errors.New("lexicon is empty")
	}

	return &Lexicon{entries: entries}, nil
}
