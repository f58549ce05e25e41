package similarity

import (
	"strings"
	"unicode"
)

// DefaultPrefixWords is how many leading words Lexical compares
const DefaultPrefixWords = 5

// Result contains a lexical similarity assessment
type Result struct {
	Score  float64  `json:"score"`  // shared / union, 0.0 to 1.0
	Shared []string `json:"shared"` // tokens present in both prefixes, in first-seen order
}

// Similarity interface defines the contract for comparing two action sentences
type Similarity interface {
	Compare(a, b string) Result
}

// Lexical compares the token sets of the first Words words of each text.
// Order inside the prefix does not matter.
type Lexical struct {
	Words int
}

// NewLexical creates a comparer over the first five words
func NewLexical() *Lexical {
	return &Lexical{Words: DefaultPrefixWords}
}

// Tokens lowercases text and splits it into words, trimming surrounding
// punctuation so that "Add" and "add," compare equal.
func Tokens(text string) []string {
	fields := strings.Fields(strings.ToLower(text))
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.TrimFunc(f, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		})
		if f != "" {
			tokens = append(tokens, f)
		}
	}
	return tokens
}

// PrefixTokens returns the distinct tokens among the first n words of text
func PrefixTokens(text string, n int) []string {
	tokens := Tokens(text)
	if len(tokens) > n {
		tokens = tokens[:n]
	}
	seen := make(map[string]bool, len(tokens))
	out := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if !seen[tok] {
			seen[tok] = true
			out = append(out, tok)
		}
	}
	return out
}

// Compare implements Similarity
func (l *Lexical) Compare(a, b string) Result {
	n := l.Words
	if n <= 0 {
		n = DefaultPrefixWords
	}

	left := PrefixTokens(a, n)
	right := make(map[string]bool)
	for _, tok := range PrefixTokens(b, n) {
		right[tok] = true
	}

	shared := []string{}
	for _, tok := range left {
		if right[tok] {
			shared = append(shared, tok)
		}
	}

	union := len(left) + len(right) - len(shared)
	if union == 0 {
		return Result{Shared: shared}
	}
	return Result{
		Score:  float64(len(shared)) / float64(union),
		Shared: shared,
	}
}

// Overlap returns how many distinct tokens the two prefixes share
func (l *Lexical) Overlap(a, b string) int {
	return len(l.Compare(a, b).Shared)
}
