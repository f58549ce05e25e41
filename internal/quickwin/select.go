// Package quickwin filters candidate actions down to a short list of
// concrete, non-overlapping quick wins.
package quickwin

import (
	"strings"

	"github.com/harrison/signalscope/internal/similarity"
)

// Selection defaults
const (
	DefaultTarget   = 3
	MinLength       = 10
	MinWords        = 5
	DuplicateTokens = 3 // shared tokens among the first five that mark a duplicate
)

var vagueStarters = map[string]bool{
	"review":      true,
	"consider":    true,
	"evaluate":    true,
	"analyze":     true,
	"assess":      true,
	"check":       true,
	"examine":     true,
	"investigate": true,
}

var actionVerbs = map[string]bool{
	"add":      true,
	"replace":  true,
	"make":     true,
	"simplify": true,
	"remove":   true,
	"update":   true,
	"change":   true,
	"create":   true,
	"reduce":   true,
	"improve":  true,
	"ensure":   true,
	"include":  true,
}

var connectives = map[string]bool{
	"and": true,
	"to":  true,
}

var vagueEndings = []string{
	"then retest",
	"if needed",
	"as needed",
	"if necessary",
	"where possible",
	"where appropriate",
	"and see",
	"and monitor",
}

// promoted reports whether a vague opener is followed by a connective and
// then a concrete action verb, as in "Review the form and remove two fields".
func promoted(tokens []string) bool {
	for i := 1; i < len(tokens)-1; i++ {
		if !connectives[tokens[i]] {
			continue
		}
		for _, tok := range tokens[i+1:] {
			if actionVerbs[tok] {
				return true
			}
		}
	}
	return false
}

func hasVagueEnding(action string) bool {
	text := strings.ToLower(strings.TrimSpace(action))
	text = strings.TrimRight(text, ".!?;:, ")
	for _, ending := range vagueEndings {
		if strings.HasSuffix(text, ending) {
			return true
		}
	}
	return false
}

// IsValid reports whether an action is concrete enough to be a quick win
func IsValid(action string) bool {
	if len(strings.TrimSpace(action)) < MinLength {
		return false
	}

	tokens := similarity.Tokens(action)
	if len(tokens) < MinWords {
		return false
	}
	if hasVagueEnding(action) {
		return false
	}

	first := tokens[0]
	switch {
	case actionVerbs[first]:
		return true
	case vagueStarters[first]:
		return promoted(tokens)
	default:
		return false
	}
}

// Selector picks valid, lexically distinct actions in priority order
type Selector struct {
	Similarity similarity.Similarity
	Threshold  int // shared prefix tokens at which two actions are duplicates
}

// NewSelector creates a selector using five-word lexical prefixes
func NewSelector() *Selector {
	return &Selector{
		Similarity: similarity.NewLexical(),
		Threshold:  DuplicateTokens,
	}
}

func (s *Selector) duplicate(a, b string) bool {
	return len(s.Similarity.Compare(a, b).Shared) >= s.Threshold
}

// Select returns up to target valid candidates, skipping any that
// duplicate an earlier pick. Candidates are expected in priority order.
// Fewer than target results are returned when not enough qualify.
func (s *Selector) Select(candidates []string, target int) []string {
	if target <= 0 {
		target = DefaultTarget
	}

	picked := make([]string, 0, target)
	for _, candidate := range candidates {
		if len(picked) >= target {
			break
		}
		candidate = strings.TrimSpace(candidate)
		if !IsValid(candidate) {
			continue
		}

		dup := false
		for _, kept := range picked {
			if s.duplicate(kept, candidate) {
				dup = true
				break
			}
		}
		if !dup {
			picked = append(picked, candidate)
		}
	}
	return picked
}

// Select runs the default selector
func Select(candidates []string, target int) []string {
	return NewSelector().Select(candidates, target)
}
