package parser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const snapshotDoc = `# Ship campaigns in minutes

Built for growth marketers who hate spreadsheets. [Start your free trial](https://example.com/signup)

## What you get

- Unlimited campaigns
- Shared templates

## Results

- 3x faster launches
- 12,000 teams onboarded

## What our customers say

> "We cut launch time in half." - Dana, Acme

## Pricing

Plans start at $29 per month with a 30-day money-back guarantee.

## FAQ

### Can I cancel anytime?

Yes.
`

func TestMarkdownSnapshot(t *testing.T) {
	req, err := NewMarkdownParser().Parse(strings.NewReader(snapshotDoc))
	require.NoError(t, err)
	a := req.Landing

	assert.Equal(t, []string{"Ship campaigns in minutes", "What you get", "Results", "What our customers say", "Pricing", "FAQ"}, a.KeyLines)
	assert.Equal(t, []string{"Unlimited campaigns", "Shared templates"}, a.Offers)
	assert.Equal(t, []string{"3x faster launches", "12,000 teams onboarded"}, a.ProofPoints)

	require.NotNil(t, a.CTACopy)
	assert.Equal(t, "Start your free trial", *a.CTACopy)
	require.NotNil(t, a.AudienceClarity)
	assert.Equal(t, "growth marketers", *a.AudienceClarity)

	assert.True(t, *a.HasTestimonials)
	assert.True(t, *a.HasPricing)
	assert.True(t, *a.HasGuarantee)
	assert.True(t, *a.HasFAQ)
	assert.False(t, *a.HasLogos)
	assert.False(t, *a.HasSecurityBadges)

	assert.Nil(t, a.VisualClutterLevel, "layout cannot be measured from text")
	assert.Nil(t, a.CTAContrastLevel)
	require.NoError(t, a.Validate())
}

func TestMarkdownSparsePage(t *testing.T) {
	req, err := NewMarkdownParser().Parse(strings.NewReader("Just a paragraph with nothing else.\n"))
	require.NoError(t, err)
	a := req.Landing

	assert.Nil(t, a.CTACopy, "no links means the CTA was not observed")
	assert.Equal(t, "", *a.AudienceClarity)
	assert.Empty(t, a.KeyLines)
	assert.NotNil(t, a.Offers)
	assert.False(t, *a.HasTestimonials)
	assert.False(t, *a.HasPricing)
}

func TestMarkdownLogosAndSecurity(t *testing.T) {
	doc := "## Trusted by\n\n![Acme logo](acme.png)\n\nPayments are encrypted and PCI compliant.\n"
	req, err := NewMarkdownParser().Parse(strings.NewReader(doc))
	require.NoError(t, err)

	assert.True(t, *req.Landing.HasLogos)
	assert.True(t, *req.Landing.HasSecurityBadges)
}

func TestMarkdownFrontmatterOverrides(t *testing.T) {
	doc := `---
page_type: signup
source: signup-v3
has_faq: true
visual_clutter_level: 0.6
offers: ["Free forever plan"]
---
# Create your account

[Sign up](https://example.com)
`
	req, err := NewMarkdownParser().Parse(strings.NewReader(doc))
	require.NoError(t, err)

	assert.Equal(t, "signup", req.PageType)
	assert.Equal(t, "signup-v3", req.Source)
	assert.True(t, *req.Landing.HasFAQ)
	assert.InDelta(t, 0.6, *req.Landing.VisualClutterLevel, 1e-9)
	assert.Equal(t, []string{"Free forever plan"}, req.Landing.Offers)
	assert.Equal(t, "Sign up", *req.Landing.CTACopy)
	assert.Equal(t, []string{"Create your account"}, req.Landing.KeyLines)
}

func TestMarkdownBadFrontmatter(t *testing.T) {
	_, err := NewMarkdownParser().Parse(strings.NewReader("---\nhas_faq: [\n---\n# Hi\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "frontmatter")
}

func TestExtractFrontmatter(t *testing.T) {
	body, fm := extractFrontmatter([]byte("---\na: 1\n---\nbody"))
	assert.Equal(t, "a: 1", string(fm))
	assert.Equal(t, "body", string(body))

	body, fm = extractFrontmatter([]byte("---\nunterminated\nstill"))
	assert.Nil(t, fm)
	assert.Equal(t, "---\nunterminated\nstill", string(body))
}
