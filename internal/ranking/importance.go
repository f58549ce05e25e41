package ranking

import "github.com/harrison/signalscope/internal/scoring"

// DefaultImportance applies to issue ids missing from the table
const DefaultImportance = 50.0

// importance is the conversion influence of each issue id on a 0-100 scale.
// Clarity issues weigh most, friction issues least.
var importance = map[string]float64{
	// clarity
	scoring.IssueValueProposition: 95,
	scoring.IssueOfferClarity:     90,
	scoring.IssueCTAClarity:       88,
	scoring.IssueAudienceClarity:  85,

	// trust
	scoring.IssueProofPoints:       80,
	scoring.IssueTestimonials:      78,
	scoring.IssuePricingVisibility: 75,
	scoring.IssueCustomerLogos:     70,
	scoring.IssueGuarantee:         68,
	scoring.IssueSecurityBadges:    65,
	scoring.IssueFAQ:               55,

	// friction
	scoring.IssueInfoHierarchy: 50,
	scoring.IssueVisualClutter: 45,
	scoring.IssueCTAContrast:   40,
}

// Importance returns the fixed importance of an issue id
func Importance(issueID string) float64 {
	if v, ok := importance[issueID]; ok {
		return v
	}
	return DefaultImportance
}
