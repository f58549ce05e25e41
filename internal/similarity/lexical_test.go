package similarity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokens(t *testing.T) {
	assert.Equal(t, []string{"add", "a", "faq", "now"}, Tokens("Add a FAQ, now!"))
	assert.Equal(t, []string{"don't", "wait"}, Tokens("  don't -- wait "))
	assert.Empty(t, Tokens(""))
}

func TestPrefixTokens(t *testing.T) {
	tests := []struct {
		name string
		text string
		n    int
		want []string
	}{
		{"shorter than prefix", "Add logos", 5, []string{"add", "logos"}},
		{"truncates", "Add named customer testimonials near the button", 5,
			[]string{"add", "named", "customer", "testimonials", "near"}},
		{"deduplicates", "add add add logos", 5, []string{"add", "logos"}},
		{"zero", "Add logos", 0, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PrefixTokens(tt.text, tt.n))
		})
	}
}

func TestLexicalCompare(t *testing.T) {
	l := NewLexical()

	same := l.Compare("Add customer testimonials to the page", "Add customer testimonials to the page")
	assert.Equal(t, 1.0, same.Score)
	assert.Equal(t, []string{"add", "customer", "testimonials", "to", "the"}, same.Shared)

	// only the first five words count
	tail := l.Compare("Add customer logos below the hero", "Add customer logos below the footer")
	assert.Equal(t, 1.0, tail.Score)

	// order inside the prefix does not matter
	assert.Equal(t, 3, l.Overlap("Add clear pricing table today", "Pricing table: add a link"))

	none := l.Compare("Reduce form fields", "Add security badges")
	assert.Equal(t, 0.0, none.Score)
	assert.Empty(t, none.Shared)

	empty := l.Compare("", "")
	assert.Equal(t, 0.0, empty.Score)
}

func TestLexicalZeroWordsUsesDefault(t *testing.T) {
	l := &Lexical{}
	assert.Equal(t, 4, l.Overlap("one two three four five six", "six five four three two one"))
}

func TestLexicalImplementsSimilarity(t *testing.T) {
	var s Similarity = NewLexical()
	assert.InDelta(t, 0.5, s.Compare("add logos", "add faq logos remove").Score, 1e-9)
}
