// Package scoring implements the deterministic rule scorer and the feature
// normalizer that turn raw page attributes into scores and decision signals.
//
// Every function in this package is pure: no I/O, no logging, no shared
// state. Inputs are expected to have passed PageAttributes.Validate.
package scoring

import (
	"fmt"
	"math"

	"github.com/harrison/signalscope/internal/models"
)

// Score bounds and the neutral starting point for every score
const (
	MinScore     = 0.0
	MaxScore     = 100.0
	NeutralScore = 50.0
)

// coverageFields is the number of inputs counted for scorer confidence
const coverageFields = 6

// boolTerm returns ifTrue/ifFalse for an observed flag and 0 when unknown
func boolTerm(flag *bool, ifTrue, ifFalse float64) float64 {
	if flag == nil {
		return 0
	}
	if *flag {
		return ifTrue
	}
	return ifFalse
}

// floatTerm returns (value-0.5)*scale, or 0 when the measurement is unknown
func floatTerm(value *float64, scale float64) float64 {
	if value == nil {
		return 0
	}
	return (*value - 0.5) * scale
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func isFalse(flag *bool) bool {
	return flag != nil && !*flag
}

func hasText(s *string) bool {
	return s != nil && *s != ""
}

// TrustScore is the additive trust rule, clamped to [0,100]
func TrustScore(a models.PageAttributes) float64 {
	trust := NeutralScore +
		boolTerm(a.HasLogos, 10, -5) +
		boolTerm(a.HasTestimonials, 12, -8) +
		boolTerm(a.HasSecurityBadges, 8, -6) +
		boolTerm(a.HasGuarantee, 6, -4) +
		boolTerm(a.HasFAQ, 3, -2)
	return clamp(trust, MinScore, MaxScore)
}

// FrictionScore is the additive friction rule, clamped to [0,100]
func FrictionScore(a models.PageAttributes) float64 {
	friction := NeutralScore +
		floatTerm(a.VisualClutterLevel, 40) -
		floatTerm(a.InfoHierarchyQuality, 40) -
		floatTerm(a.CTAContrastLevel, 20) +
		boolTerm(a.HasPricing, -6, 6)
	return clamp(friction, MinScore, MaxScore)
}

// ClarityScore is the additive clarity rule, clamped to [0,100]
func ClarityScore(a models.PageAttributes) float64 {
	clarity := NeutralScore
	if len(a.Offers) > 0 {
		clarity += 8
	} else {
		clarity -= 8
	}
	if hasText(a.AudienceClarity) {
		clarity += 6
	} else {
		clarity -= 4
	}
	if hasText(a.CTACopy) {
		clarity += 4
	}
	if len(a.ProofPoints) > 0 {
		clarity += 6
	}
	clarity -= boolTerm(a.HasPricing, -2, 4)
	return clamp(clarity, MinScore, MaxScore)
}

// DecisionProbability derives the conversion likelihood in [0,1] from the
// three scores. It is the only way the probability is ever produced.
func DecisionProbability(trust, friction, clarity float64) float64 {
	weighted := 0.4*trust + 0.4*clarity + 0.2*(MaxScore-friction)
	return clamp(weighted, MinScore, MaxScore) / MaxScore
}

// Coverage counts how many of the confidence-bearing inputs were observed
func Coverage(a models.PageAttributes) int {
	n := 0
	if a.HasLogos != nil {
		n++
	}
	if a.HasTestimonials != nil {
		n++
	}
	if a.HasPricing != nil {
		n++
	}
	if a.VisualClutterLevel != nil {
		n++
	}
	if a.InfoHierarchyQuality != nil {
		n++
	}
	if len(a.KeyLines) > 0 {
		n++
	}
	return n
}

// CoverageConfidence is the observed-input ratio rounded to two decimals
func CoverageConfidence(a models.PageAttributes) float64 {
	return math.Round(float64(Coverage(a))/coverageFields*100) / 100
}

// rule is one blocker trigger with its canned recommendations
type rule struct {
	name       string
	severity   models.Severity
	triggered  func(a models.PageAttributes) bool
	evidence   func(a models.PageAttributes) string
	fix        string
	quickWin   string
	deepChange string
}

// blockerRules are evaluated in order; each trigger is independent
var blockerRules = []rule{
	{
		name:       "missing_pricing",
		severity:   models.SeverityHigh,
		triggered:  func(a models.PageAttributes) bool { return isFalse(a.HasPricing) },
		evidence:   func(models.PageAttributes) string { return "no pricing information detected" },
		fix:        "Add a visible pricing section or a clear starting price near the main CTA.",
		quickWin:   "Add a starting price or pricing link next to the primary call to action.",
		deepChange: "Create a dedicated pricing page with plan comparison and clear inclusions.",
	},
	{
		name:       "missing_testimonials",
		severity:   models.SeverityMedium,
		triggered:  func(a models.PageAttributes) bool { return isFalse(a.HasTestimonials) },
		evidence:   func(models.PageAttributes) string { return "no customer testimonials detected" },
		fix:        "Add two or three named customer testimonials above the fold.",
		quickWin:   "Add three short customer testimonials with names and photos.",
		deepChange: "Build a case study library that quantifies customer outcomes.",
	},
	{
		name:       "no_security_badges",
		severity:   models.SeverityMedium,
		triggered:  func(a models.PageAttributes) bool { return isFalse(a.HasSecurityBadges) },
		evidence:   func(models.PageAttributes) string { return "no security or compliance badges detected" },
		fix:        "Add recognised security and payment badges near forms and checkout.",
		quickWin:   "Include security and payment badges beside every form submit button.",
		deepChange: "Create a trust center page covering security, privacy and compliance.",
	},
	{
		name:       "weak_cta_copy",
		severity:   models.SeverityMedium,
		triggered:  func(a models.PageAttributes) bool { return !hasText(a.CTACopy) },
		evidence:   func(models.PageAttributes) string { return "call to action copy is missing or empty" },
		fix:        "Replace the call to action with a specific outcome-driven phrase.",
		quickWin:   "Replace generic button text with a specific benefit-led call to action.",
		deepChange: "Update the conversion path so every CTA states the next concrete step.",
	},
	{
		name:     "high_clutter",
		severity: models.SeverityMedium,
		triggered: func(a models.PageAttributes) bool {
			return a.VisualClutterLevel != nil && *a.VisualClutterLevel > 0.7
		},
		evidence: func(a models.PageAttributes) string {
			return fmt.Sprintf("visual clutter level %.2f exceeds 0.70", *a.VisualClutterLevel)
		},
		fix:        "Remove secondary elements competing with the primary call to action.",
		quickWin:   "Remove or collapse non-essential sections above the fold.",
		deepChange: "Simplify the page layout around one primary goal per section.",
	},
}

// Score runs the rule scorer over a set of page attributes
func Score(a models.PageAttributes) models.RuleScoreResult {
	trust := TrustScore(a)
	friction := FrictionScore(a)
	clarity := ClarityScore(a)

	result := models.RuleScoreResult{
		TrustScore:             trust,
		FrictionScore:          friction,
		ClarityScore:           clarity,
		DecisionProbability:    DecisionProbability(trust, friction, clarity),
		Confidence:             CoverageConfidence(a),
		KeyDecisionBlockers:    []models.Blocker{},
		RecommendedQuickWins:   []string{},
		RecommendedDeepChanges: []string{},
	}

	for _, r := range blockerRules {
		if !r.triggered(a) {
			continue
		}
		result.KeyDecisionBlockers = append(result.KeyDecisionBlockers, models.Blocker{
			Name:     r.name,
			Evidence: []string{r.evidence(a)},
			Severity: r.severity,
			Fix:      r.fix,
		})
		result.RecommendedQuickWins = append(result.RecommendedQuickWins, r.quickWin)
		result.RecommendedDeepChanges = append(result.RecommendedDeepChanges, r.deepChange)
	}

	return result
}
