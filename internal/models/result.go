package models

import "time"

// Severity is the fixed severity attached to a rule-triggered blocker
type Severity string

// Blocker severity constants
const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Blocker is a named reason a visitor may fail to convert
type Blocker struct {
	Name     string   `json:"name"`
	Evidence []string `json:"evidence"`
	Severity Severity `json:"severity"`
	Fix      string   `json:"fix"`
}

// RuleScoreResult is the output of the deterministic rule scorer.
// DecisionProbability is always derived from the three scores.
type RuleScoreResult struct {
	TrustScore             float64   `json:"trustScore"`
	FrictionScore          float64   `json:"frictionScore"`
	ClarityScore           float64   `json:"clarityScore"`
	DecisionProbability    float64   `json:"decisionProbability"`
	Confidence             float64   `json:"confidence"`
	KeyDecisionBlockers    []Blocker `json:"keyDecisionBlockers"`
	RecommendedQuickWins   []string  `json:"recommendedQuickWins"`
	RecommendedDeepChanges []string  `json:"recommendedDeepChanges"`
}

// IssueStatus is how strongly an issue signal was detected
type IssueStatus string

// Issue status constants
const (
	StatusMissing IssueStatus = "missing"
	StatusWeak    IssueStatus = "weak"
	StatusUnclear IssueStatus = "unclear"
	StatusPresent IssueStatus = "present"
)

// IsConfirmed reports whether the status is a confirmed problem (missing or weak)
func (s IssueStatus) IsConfirmed() bool {
	return s == StatusMissing || s == StatusWeak
}

// IssueCategory groups issue signals by the decision dimension they affect
type IssueCategory string

// Issue category constants
const (
	CategoryClarity  IssueCategory = "clarity"
	CategoryTrust    IssueCategory = "trust"
	CategoryFriction IssueCategory = "friction"
)

// IssueSignal is one detected issue as consumed by the blocker ranker
type IssueSignal struct {
	ID         string        `json:"id"`
	Category   IssueCategory `json:"category,omitempty"`
	Status     IssueStatus   `json:"status"`
	Confidence float64       `json:"confidence"`
	Evidence   []string      `json:"evidence,omitempty"`
	Fix        string        `json:"fix,omitempty"`
	// Weight is the calibration multiplier for this issue; 0 means neutral (1.0)
	Weight float64 `json:"weight,omitempty"`
}

// EffectiveWeight returns Weight, or 1.0 when no calibration applies
func (s IssueSignal) EffectiveWeight() float64 {
	if s.Weight <= 0 {
		return 1.0
	}
	return s.Weight
}

// RankedBlocker wraps an issue signal with its decision impact
type RankedBlocker struct {
	Issue               IssueSignal `json:"issue"`
	DecisionImpactScore float64     `json:"decision_impact_score"`
	IsPotential         bool        `json:"is_potential"`
	Confidence          float64     `json:"confidence"`
}

// Report is the assembled result of one analysis request
type Report struct {
	ID               string          `json:"id"`
	PageType         string          `json:"page_type"`
	Source           string          `json:"source,omitempty"`
	Scores           RuleScoreResult `json:"scores"`
	Signals          DecisionSignals `json:"signals"`
	SignalConfidence float64         `json:"signal_confidence"`
	TopBlockers      []RankedBlocker `json:"top_blockers"`
	QuickWins        []string        `json:"quick_wins"`
	DeepChanges      []string        `json:"deep_changes"`
	CreatedAt        time.Time       `json:"created_at"`

	// Remainder holds the ranked issues that did not make the top list.
	// Kept for calibration bookkeeping; never serialized.
	Remainder []RankedBlocker `json:"-"`
}
