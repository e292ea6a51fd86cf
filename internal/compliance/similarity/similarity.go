// Package similarity implements the lexical heuristic used to decide whether a
// contract's terms address a regulatory requirement: key-term extraction and
// binary cosine similarity over the extracted terms.
package similarity

import (
	"math"
	"sort"
	"strings"
	"unicode"
)

type Config struct {
	StopWords     []string
	MinTermLength int // in runes
	MaxTerms      int
}

// DefaultConfig mirrors the embedded catalogue.
func DefaultConfig() Config {
	return Config{
		StopWords:     []string{"a", "an", "the", "and", "or", "but", "in", "on", "at", "to", "for", "with", "by"},
		MinTermLength: 3,
		MaxTerms:      10,
	}
}

// Scorer is immutable after construction and safe for concurrent use.
type Scorer struct {
	stopWords map[string]struct{}
	minLen    int
	maxTerms  int
}

func New(cfg Config) *Scorer {
	stop := make(map[string]struct{}, len(cfg.StopWords))
	for _, w := range cfg.StopWords {
		stop[strings.ToLower(w)] = struct{}{}
	}
	if cfg.MinTermLength <= 0 {
		cfg.MinTermLength = 1
	}
	if cfg.MaxTerms <= 0 {
		cfg.MaxTerms = 10
	}
	return &Scorer{stopWords: stop, minLen: cfg.MinTermLength, maxTerms: cfg.MaxTerms}
}

// ExtractKeyTerms returns up to MaxTerms terms ordered by descending frequency,
// ties broken by first occurrence.
func (s *Scorer) ExtractKeyTerms(text string) []string {
	if text == "" {
		return nil
	}

	type termCount struct {
		term  string
		count int
		first int
	}
	counts := make(map[string]*termCount)
	var order []*termCount

	for _, raw := range strings.Fields(strings.ToLower(text)) {
		word := stripPunctuation(raw)
		if len([]rune(word)) < s.minLen {
			continue
		}
		if _, stop := s.stopWords[word]; stop {
			continue
		}
		tc, ok := counts[word]
		if !ok {
			tc = &termCount{term: word, first: len(order)}
			counts[word] = tc
			order = append(order, tc)
		}
		tc.count++
	}

	sort.SliceStable(order, func(i, j int) bool {
		return order[i].count > order[j].count
	})

	n := min(len(order), s.maxTerms)
	terms := make([]string, n)
	for i := range n {
		terms[i] = order[i].term
	}
	return terms
}

// Similarity is the cosine similarity of binary presence vectors built from
// each text's key terms. It is 0 when either side has no terms.
func (s *Scorer) Similarity(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	termsA := s.ExtractKeyTerms(a)
	termsB := s.ExtractKeyTerms(b)
	if len(termsA) == 0 || len(termsB) == 0 {
		return 0
	}

	inA := make(map[string]struct{}, len(termsA))
	for _, t := range termsA {
		inA[t] = struct{}{}
	}
	shared := 0
	for _, t := range termsB {
		if _, ok := inA[t]; ok {
			shared++
		}
	}
	return float64(shared) / math.Sqrt(float64(len(termsA)*len(termsB)))
}

// stripPunctuation keeps letters, digits and underscores.
func stripPunctuation(word string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			return r
		}
		return -1
	}, word)
}
