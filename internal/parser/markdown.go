package parser

import (
	"bytes"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
	"gopkg.in/yaml.v3"

	"github.com/harrison/signalscope/internal/analysis"
	"github.com/harrison/signalscope/internal/models"
)

// Section keywords, matched against lowercased heading text
var (
	testimonialSection = []string{"testimonial", "what our customers say", "reviews", "loved by"}
	faqSection         = []string{"faq", "frequently asked", "questions"}
	pricingSection     = []string{"pricing", "plans", "price"}
	offerSection       = []string{"offer", "what you get", "includes", "included", "features", "plans"}
	proofSection       = []string{"results", "proof", "case stud", "by the numbers"}
	logoSection        = []string{"trusted by", "used by", "customers include", "as seen in"}
)

// Body phrases, matched against lowercased text anywhere on the page
var (
	guaranteePhrases = []string{"money-back", "money back", "guarantee", "refund"}
	securityPhrases  = []string{"ssl", "encrypted", "encryption", "pci", "soc 2", "gdpr", "secure checkout", "secure payment"}
)

var (
	pricePattern    = regexp.MustCompile(`[$€£]\s?\d`)
	metricPattern   = regexp.MustCompile(`\d+(\.\d+)?\s?(%|x\b)|\d{1,3}(,\d{3})+|\d+\+`)
	audiencePattern = regexp.MustCompile(`(?i)\bfor ((?:[a-z-]+ ){0,3}(?:teams|marketers|developers|founders|agencies|businesses|startups|companies|creators|freelancers|engineers|designers|retailers))\b`)
)

// snapshotFrontmatter holds explicit attributes that override detection
type snapshotFrontmatter struct {
	PageType              string `yaml:"page_type"`
	Source                string `yaml:"source"`
	models.PageAttributes `yaml:",inline"`
}

// MarkdownParser extracts page attributes from a Markdown page snapshot.
//
// The snapshot is read as the whole page: trust flags that are never found
// are reported as false and empty lists as observed-but-empty. Layout
// measurements cannot be taken from text and stay unobserved, as does the
// CTA when the page has no links. Optional YAML frontmatter sets page_type
// and overrides any detected attribute.
type MarkdownParser struct {
	markdown goldmark.Markdown
}

// NewMarkdownParser creates a snapshot parser
func NewMarkdownParser() *MarkdownParser {
	return &MarkdownParser{
		markdown: goldmark.New(),
	}
}

// snapshot accumulates evidence while walking the document
type snapshot struct {
	section      string
	headings     []string
	offers       []string
	proof        []string
	ctas         []string
	body         strings.Builder
	testimonials bool
	faq          bool
	pricing      bool
	logos        bool
}

// Parse implements Parser
func (p *MarkdownParser) Parse(r io.Reader) (*analysis.Request, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read content: %w", err)
	}
	if len(bytes.TrimSpace(content)) == 0 {
		return nil, ErrEmptyInput
	}

	content, frontmatter := extractFrontmatter(content)
	var fm snapshotFrontmatter
	if frontmatter != nil {
		if err := yaml.Unmarshal(frontmatter, &fm); err != nil {
			return nil, fmt.Errorf("failed to parse frontmatter: %w", err)
		}
	}

	doc := p.markdown.Parser().Parse(text.NewReader(content))
	snap := &snapshot{}
	if err := snap.walk(doc, content); err != nil {
		return nil, fmt.Errorf("failed to extract attributes: %w", err)
	}

	attrs := snap.attributes()
	applyOverrides(&attrs, fm.PageAttributes)

	return &analysis.Request{
		PageType: fm.PageType,
		Source:   fm.Source,
		Landing:  attrs,
	}, nil
}

func (s *snapshot) walk(doc ast.Node, source []byte) error {
	return ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *ast.Heading:
			heading := strings.TrimSpace(nodeText(node, source))
			s.section = strings.ToLower(heading)
			if node.Level <= 2 && heading != "" {
				s.headings = append(s.headings, heading)
			}
			s.testimonials = s.testimonials || containsAny(s.section, testimonialSection)
			s.faq = s.faq || containsAny(s.section, faqSection)
			s.pricing = s.pricing || containsAny(s.section, pricingSection)
			s.logos = s.logos || containsAny(s.section, logoSection)
			s.writeBody(heading)
			return ast.WalkSkipChildren, nil

		case *ast.Blockquote:
			// quoted customer voice
			s.testimonials = true

		case *ast.Link:
			if label := strings.TrimSpace(nodeText(node, source)); label != "" {
				s.ctas = append(s.ctas, label)
			}

		case *ast.Image:
			alt := strings.ToLower(nodeText(node, source))
			if strings.Contains(alt, "logo") {
				s.logos = true
			}
			return ast.WalkSkipChildren, nil

		case *ast.ListItem:
			item := strings.TrimSpace(nodeText(node, source))
			if item == "" {
				return ast.WalkContinue, nil
			}
			switch {
			case containsAny(s.section, offerSection):
				s.offers = append(s.offers, item)
			case containsAny(s.section, proofSection) || metricPattern.MatchString(item):
				s.proof = append(s.proof, item)
			}

		case *ast.Paragraph:
			para := nodeText(node, source)
			s.writeBody(para)
			if containsAny(s.section, proofSection) && metricPattern.MatchString(para) {
				s.proof = append(s.proof, strings.TrimSpace(para))
			}

		case *ast.TextBlock:
			s.writeBody(nodeText(node, source))
		}
		return ast.WalkContinue, nil
	})
}

func (s *snapshot) writeBody(line string) {
	s.body.WriteString(strings.ToLower(line))
	s.body.WriteByte('\n')
}

func (s *snapshot) attributes() models.PageAttributes {
	body := s.body.String()

	attrs := models.PageAttributes{
		HasLogos:          models.Bool(s.logos),
		HasTestimonials:   models.Bool(s.testimonials),
		HasSecurityBadges: models.Bool(containsAny(body, securityPhrases)),
		HasGuarantee:      models.Bool(containsAny(body, guaranteePhrases)),
		HasFAQ:            models.Bool(s.faq),
		HasPricing:        models.Bool(s.pricing || pricePattern.MatchString(body)),
		Offers:            nonNilList(s.offers),
		ProofPoints:       nonNilList(s.proof),
		KeyLines:          nonNilList(s.headings),
	}
	if len(s.ctas) > 0 {
		attrs.CTACopy = models.String(s.ctas[0])
	}
	if m := audiencePattern.FindStringSubmatch(body); m != nil {
		attrs.AudienceClarity = models.String(m[1])
	} else {
		attrs.AudienceClarity = models.String("")
	}
	return attrs
}

// applyOverrides copies every attribute set in override onto attrs
func applyOverrides(attrs *models.PageAttributes, override models.PageAttributes) {
	boolFields := []struct{ dst, src **bool }{
		{&attrs.HasLogos, &override.HasLogos},
		{&attrs.HasTestimonials, &override.HasTestimonials},
		{&attrs.HasSecurityBadges, &override.HasSecurityBadges},
		{&attrs.HasGuarantee, &override.HasGuarantee},
		{&attrs.HasFAQ, &override.HasFAQ},
		{&attrs.HasPricing, &override.HasPricing},
	}
	for _, f := range boolFields {
		if *f.src != nil {
			*f.dst = *f.src
		}
	}

	floatFields := []struct{ dst, src **float64 }{
		{&attrs.VisualClutterLevel, &override.VisualClutterLevel},
		{&attrs.InfoHierarchyQuality, &override.InfoHierarchyQuality},
		{&attrs.CTAContrastLevel, &override.CTAContrastLevel},
	}
	for _, f := range floatFields {
		if *f.src != nil {
			*f.dst = *f.src
		}
	}

	if override.CTACopy != nil {
		attrs.CTACopy = override.CTACopy
	}
	if override.AudienceClarity != nil {
		attrs.AudienceClarity = override.AudienceClarity
	}
	if override.Offers != nil {
		attrs.Offers = override.Offers
	}
	if override.ProofPoints != nil {
		attrs.ProofPoints = override.ProofPoints
	}
	if override.KeyLines != nil {
		attrs.KeyLines = override.KeyLines
	}
}

// nodeText concatenates the text of every descendant text node
func nodeText(n ast.Node, source []byte) string {
	var buf bytes.Buffer
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := c.(type) {
		case *ast.Text:
			buf.Write(t.Segment.Value(source))
			if t.SoftLineBreak() || t.HardLineBreak() {
				buf.WriteByte(' ')
			}
		case *ast.String:
			buf.Write(t.Value)
		case *ast.CodeSpan:
			for gc := t.FirstChild(); gc != nil; gc = gc.NextSibling() {
				if seg, ok := gc.(*ast.Text); ok {
					buf.Write(seg.Segment.Value(source))
				}
			}
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	return buf.String()
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}

func nonNilList(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}

// extractFrontmatter splits a leading ----delimited YAML block from the body
func extractFrontmatter(content []byte) ([]byte, []byte) {
	lines := bytes.Split(content, []byte("\n"))
	if len(lines) < 3 || !bytes.Equal(bytes.TrimSpace(lines[0]), []byte("---")) {
		return content, nil
	}

	for i := 1; i < len(lines); i++ {
		if bytes.Equal(bytes.TrimSpace(lines[i]), []byte("---")) {
			return bytes.Join(lines[i+1:], []byte("\n")), bytes.Join(lines[1:i], []byte("\n"))
		}
	}
	return content, nil
}
