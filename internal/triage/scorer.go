// Package triage holds the keyword heuristics that score and classify
// emergency reports.
package triage

import (
	"math/rand/v2"
	"strings"
)

const (
	maxScore = 100

	urgencyBaseMin  = 20
	urgencyBaseSpan = 30 // base in [20,50)
	urgencyPerMatch = 15

	spamBaseMin  = 0
	spamBaseSpan = 10 // base in [0,10)
	spamPerMatch = 20

	duplicateBaseMin  = 10
	duplicateBaseSpan = 30 // [10,40)

	confidenceBaseMin  = 70
	confidenceBaseSpan = 30 // [70,100)
)

// UrgencyKeywords raise the urgency score, once per distinct keyword.
var UrgencyKeywords = []string{
	"trapped",
	"bleeding",
	"collapsed",
	"fire",
	"drowning",
	"chest pain",
	"unconscious",
}

// SpamKeywords raise the spam score, once per distinct keyword.
var SpamKeywords = []string{
	"free",
	"money",
	"prize",
	"click",
	"link",
	"offer",
	"win",
}

// Source supplies the random jitter. *rand.Rand from math/rand/v2 satisfies it.
type Source interface {
	IntN(n int) int
}

type globalSource struct{}

func (globalSource) IntN(n int) int { return rand.IntN(n) }

// DefaultSource is safe for concurrent use.
func DefaultSource() Source { return globalSource{} }

// Scores are the three heuristic scores of a report, each in [0,100]
type Scores struct {
	Urgency   int `json:"urgency"`
	Spam      int `json:"spam"`
	Duplicate int `json:"duplicate"`
}

// Scorer computes heuristic scores using an injected random source
type Scorer struct {
	src Source
}

// NewScorer creates a scorer. A nil source falls back to DefaultSource.
func NewScorer(src Source) *Scorer {
	if src == nil {
		src = DefaultSource()
	}
	return &Scorer{src: src}
}

// Score maps free text to urgency, spam and duplicate scores
func (s *Scorer) Score(content string) Scores {
	text := strings.ToLower(content)

	urgency := urgencyBaseMin + s.src.IntN(urgencyBaseSpan)
	urgency += urgencyPerMatch * len(matchKeywords(text, UrgencyKeywords))

	spam := spamBaseMin + s.src.IntN(spamBaseSpan)
	spam += spamPerMatch * len(matchKeywords(text, SpamKeywords))

	// No similarity index exists, the duplicate score is jitter only.
	duplicate := duplicateBaseMin + s.src.IntN(duplicateBaseSpan)

	return Scores{
		Urgency:   clamp(urgency),
		Spam:      clamp(spam),
		Duplicate: clamp(duplicate),
	}
}

// Confidence returns the advisory confidence value
func (s *Scorer) Confidence() int {
	return clamp(confidenceBaseMin + s.src.IntN(confidenceBaseSpan))
}

// MatchedKeywords reports which urgency and spam keywords occur in content
func (s *Scorer) MatchedKeywords(content string) (urgency, spam []string) {
	text := strings.ToLower(content)
	return matchKeywords(text, UrgencyKeywords), matchKeywords(text, SpamKeywords)
}

// matchKeywords expects lowered text. Plain substring match, so "win" hits "window".
func matchKeywords(text string, keywords []string) []string {
	matched := make([]string, 0, len(keywords))
	seen := make(map[string]bool, len(keywords))
	for _, kw := range keywords {
		if seen[kw] {
			continue
		}
		if strings.Contains(text, kw) {
			seen[kw] = true
			matched = append(matched, kw)
		}
	}
	return matched
}

func clamp(v int) int {
	if v < 0 {
		return 0
	}
	if v > maxScore {
		return maxScore
	}
	return v
}
