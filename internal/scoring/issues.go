package scoring

import (
	"fmt"
	"strings"

	"github.com/harrison/signalscope/internal/models"
)

// Detector confidence per kind of evidence
const (
	ConfidenceObserved = 0.9 // boolean flag or list observed directly
	ConfidenceMeasured = 0.8 // float measurement from layout analysis
	ConfidenceUnclear  = 0.4 // attribute was not observed at all
)

// Issue identifiers. Importance per id lives in the ranking package.
const (
	IssueValueProposition  = "value_proposition"
	IssueOfferClarity      = "offer_clarity"
	IssueCTAClarity        = "cta_clarity"
	IssueAudienceClarity   = "audience_clarity"
	IssueProofPoints       = "proof_points"
	IssueTestimonials      = "testimonials"
	IssuePricingVisibility = "pricing_visibility"
	IssueCustomerLogos     = "customer_logos"
	IssueGuarantee         = "guarantee"
	IssueSecurityBadges    = "security_badges"
	IssueFAQ               = "faq"
	IssueInfoHierarchy     = "info_hierarchy"
	IssueVisualClutter     = "visual_clutter"
	IssueCTAContrast       = "cta_contrast"
)

// WeightProvider supplies calibration multipliers per page type and issue.
// Implementations return 1.0 when they hold no weight for the pair.
type WeightProvider interface {
	Weight(pageType, issueID string) float64
}

// WeightMap is an in-memory WeightProvider keyed by issue id for a single
// page type, as loaded from the calibration store.
type WeightMap map[string]float64

// Weight implements WeightProvider. The page type is ignored because the
// map was already loaded for one page type.
func (m WeightMap) Weight(_ string, issueID string) float64 {
	if w, ok := m[issueID]; ok && w > 0 {
		return w
	}
	return 1.0
}

// NeutralWeights is a WeightProvider that always returns 1.0
type NeutralWeights struct{}

// Weight implements WeightProvider
func (NeutralWeights) Weight(string, string) float64 { return 1.0 }

type issueSpec struct {
	id       string
	category models.IssueCategory
	fix      string
	detect   func(a models.PageAttributes) (models.IssueStatus, float64, string)
}

func flagStatus(name string, flag *bool) (models.IssueStatus, float64, string) {
	switch {
	case flag == nil:
		return models.StatusUnclear, ConfidenceUnclear, name + " not observed"
	case *flag:
		return models.StatusPresent, ConfidenceObserved, name + " present"
	default:
		return models.StatusMissing, ConfidenceObserved, name + " missing"
	}
}

func listStatus(name string, items []string) (models.IssueStatus, float64, string) {
	switch {
	case items == nil:
		return models.StatusUnclear, ConfidenceUnclear, name + " not observed"
	case len(items) == 0:
		return models.StatusMissing, ConfidenceObserved, "no " + name + " found"
	default:
		return models.StatusPresent, ConfidenceObserved, fmt.Sprintf("%d %s found", len(items), name)
	}
}

// textStatus treats copy with fewer than minWords words as weak
func textStatus(name string, s *string, minWords int) (models.IssueStatus, float64, string) {
	switch {
	case s == nil:
		return models.StatusUnclear, ConfidenceUnclear, name + " not observed"
	case strings.TrimSpace(*s) == "":
		return models.StatusMissing, ConfidenceObserved, name + " empty"
	case len(strings.Fields(*s)) < minWords:
		return models.StatusWeak, ConfidenceObserved, fmt.Sprintf("%s %q is too short", name, *s)
	default:
		return models.StatusPresent, ConfidenceObserved, name + " present"
	}
}

// measuredStatus grades a [0,1] measurement. When higherIsWorse is false,
// low values are the problem.
func measuredStatus(name string, v *float64, missingAt, weakAt float64, higherIsWorse bool) (models.IssueStatus, float64, string) {
	if v == nil {
		return models.StatusUnclear, ConfidenceUnclear, name + " not measured"
	}
	value := *v
	if !higherIsWorse {
		value, missingAt, weakAt = -value, -missingAt, -weakAt
	}
	evidence := fmt.Sprintf("%s %.2f", name, *v)
	switch {
	case value > missingAt:
		return models.StatusMissing, ConfidenceMeasured, evidence
	case value > weakAt:
		return models.StatusWeak, ConfidenceMeasured, evidence
	default:
		return models.StatusPresent, ConfidenceMeasured, evidence
	}
}

var issueSpecs = []issueSpec{
	{
		id: IssueValueProposition, category: models.CategoryClarity,
		fix: "Add a headline that states the core outcome in one sentence.",
		detect: func(a models.PageAttributes) (models.IssueStatus, float64, string) {
			return listStatus("key lines", a.KeyLines)
		},
	},
	{
		id: IssueOfferClarity, category: models.CategoryClarity,
		fix: "Make the offer explicit with what is included and what it costs.",
		detect: func(a models.PageAttributes) (models.IssueStatus, float64, string) {
			return listStatus("offers", a.Offers)
		},
	},
	{
		id: IssueCTAClarity, category: models.CategoryClarity,
		fix: "Replace the button label with a specific action and outcome.",
		detect: func(a models.PageAttributes) (models.IssueStatus, float64, string) {
			return textStatus("cta copy", a.CTACopy, 2)
		},
	},
	{
		id: IssueAudienceClarity, category: models.CategoryClarity,
		fix: "Add one line naming exactly who the product is built for.",
		detect: func(a models.PageAttributes) (models.IssueStatus, float64, string) {
			return textStatus("audience statement", a.AudienceClarity, 1)
		},
	},
	{
		id: IssueProofPoints, category: models.CategoryTrust,
		fix: "Add concrete proof points with numbers next to each key claim.",
		detect: func(a models.PageAttributes) (models.IssueStatus, float64, string) {
			return listStatus("proof points", a.ProofPoints)
		},
	},
	{
		id: IssueTestimonials, category: models.CategoryTrust,
		fix: "Add named customer testimonials close to the primary call to action.",
		detect: func(a models.PageAttributes) (models.IssueStatus, float64, string) {
			return flagStatus("testimonials", a.HasTestimonials)
		},
	},
	{
		id: IssuePricingVisibility, category: models.CategoryTrust,
		fix: "Add a visible starting price or a direct link to pricing.",
		detect: func(a models.PageAttributes) (models.IssueStatus, float64, string) {
			return flagStatus("pricing", a.HasPricing)
		},
	},
	{
		id: IssueCustomerLogos, category: models.CategoryTrust,
		fix: "Add a strip of recognisable customer logos below the hero.",
		detect: func(a models.PageAttributes) (models.IssueStatus, float64, string) {
			return flagStatus("customer logos", a.HasLogos)
		},
	},
	{
		id: IssueGuarantee, category: models.CategoryTrust,
		fix: "Add a clear money-back guarantee beside the pricing details.",
		detect: func(a models.PageAttributes) (models.IssueStatus, float64, string) {
			return flagStatus("guarantee", a.HasGuarantee)
		},
	},
	{
		id: IssueSecurityBadges, category: models.CategoryTrust,
		fix: "Include security and payment badges next to every form.",
		detect: func(a models.PageAttributes) (models.IssueStatus, float64, string) {
			return flagStatus("security badges", a.HasSecurityBadges)
		},
	},
	{
		id: IssueFAQ, category: models.CategoryTrust,
		fix: "Create a short FAQ answering the top five purchase objections.",
		detect: func(a models.PageAttributes) (models.IssueStatus, float64, string) {
			return flagStatus("faq", a.HasFAQ)
		},
	},
	{
		id: IssueInfoHierarchy, category: models.CategoryFriction,
		fix: "Reduce each section to one heading, one message and one action.",
		detect: func(a models.PageAttributes) (models.IssueStatus, float64, string) {
			return measuredStatus("info hierarchy quality", a.InfoHierarchyQuality, 0.3, 0.5, false)
		},
	},
	{
		id: IssueVisualClutter, category: models.CategoryFriction,
		fix: "Remove decorative elements that compete with the main call to action.",
		detect: func(a models.PageAttributes) (models.IssueStatus, float64, string) {
			return measuredStatus("visual clutter", a.VisualClutterLevel, 0.7, 0.5, true)
		},
	},
	{
		id: IssueCTAContrast, category: models.CategoryFriction,
		fix: "Change the button color so it clearly stands out from the background.",
		detect: func(a models.PageAttributes) (models.IssueStatus, float64, string) {
			return measuredStatus("cta contrast", a.CTAContrastLevel, 0.3, 0.5, false)
		},
	},
}

// DeriveIssues produces one issue signal per known issue id, in a fixed
// order, with calibration weights taken from the provider. A nil provider
// means neutral weights.
func DeriveIssues(a models.PageAttributes, pageType string, weights WeightProvider) []models.IssueSignal {
	if weights == nil {
		weights = NeutralWeights{}
	}

	issues := make([]models.IssueSignal, 0, len(issueSpecs))
	for _, spec := range issueSpecs {
		status, confidence, evidence := spec.detect(a)
		issues = append(issues, models.IssueSignal{
			ID:         spec.id,
			Category:   spec.category,
			Status:     status,
			Confidence: confidence,
			Evidence:   []string{evidence},
			Fix:        spec.fix,
			Weight:     weights.Weight(pageType, spec.id),
		})
	}
	return issues
}

// IssueIDs lists every issue id DeriveIssues can produce
func IssueIDs() []string {
	ids := make([]string, len(issueSpecs))
	for i, spec := range issueSpecs {
		ids[i] = spec.id
	}
	return ids
}
