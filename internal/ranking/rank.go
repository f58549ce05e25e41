// Package ranking scores detected issues by decision impact and selects the
// blockers worth showing.
//
// Impact is importance x severity x confidence adjustment, clamped to
// [0,100]. Confirmed issues (missing or weak) always fill the top slots
// before any potential (unclear) issue is considered.
package ranking

import (
	"sort"

	"github.com/harrison/signalscope/internal/models"
)

// DefaultTopN is the number of blockers returned by Rank
const DefaultTopN = 3

// Severity multipliers per issue status
const (
	SeverityMissing = 1.0
	SeverityWeak    = 0.667
	SeverityUnclear = 0.333
)

func severityMultiplier(status models.IssueStatus) float64 {
	switch status {
	case models.StatusMissing:
		return SeverityMissing
	case models.StatusWeak:
		return SeverityWeak
	case models.StatusUnclear:
		return SeverityUnclear
	default:
		return 0
	}
}

func confidenceAdjustment(status models.IssueStatus, confidence float64) float64 {
	if status == models.StatusUnclear {
		return confidence * 0.5
	}
	return 0.5 + confidence*0.5
}

// ImpactScore computes the decision impact of one issue. Present issues
// and unknown statuses score 0. The calibration weight scales importance.
func ImpactScore(issue models.IssueSignal) float64 {
	score := Importance(issue.ID) * issue.EffectiveWeight() *
		severityMultiplier(issue.Status) *
		confidenceAdjustment(issue.Status, issue.Confidence)
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// Rank ranks issues with the default top-N of 3
func Rank(issues []models.IssueSignal) (top, remainder []models.RankedBlocker) {
	return RankN(issues, DefaultTopN)
}

// RankN scores every issue and returns up to n top blockers plus the
// remaining scored issues. Issues scoring 0 are dropped from both lists.
//
// Top slots are filled from confirmed issues first. Potential issues only
// backfill when at least one confirmed issue exists. A second occurrence of
// an issue id already selected goes to the remainder.
func RankN(issues []models.IssueSignal, n int) (top, remainder []models.RankedBlocker) {
	if n <= 0 {
		n = DefaultTopN
	}

	scored := make([]models.RankedBlocker, 0, len(issues))
	for _, issue := range issues {
		score := ImpactScore(issue)
		if score <= 0 {
			continue
		}
		scored = append(scored, models.RankedBlocker{
			Issue:               issue,
			DecisionImpactScore: score,
			IsPotential:         issue.Status == models.StatusUnclear,
			Confidence:          issue.Confidence,
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].DecisionImpactScore > scored[j].DecisionImpactScore
	})

	var eligible, potential []int
	for i, b := range scored {
		if b.IsPotential {
			potential = append(potential, i)
		} else {
			eligible = append(eligible, i)
		}
	}

	selected := make(map[int]bool, n)
	seenIDs := make(map[string]bool, n)
	take := func(candidates []int) {
		for _, i := range candidates {
			if len(selected) >= n {
				return
			}
			id := scored[i].Issue.ID
			if seenIDs[id] {
				continue
			}
			selected[i] = true
			seenIDs[id] = true
		}
	}

	take(eligible)
	if len(eligible) > 0 && len(selected) < n {
		take(potential)
	}

	top = make([]models.RankedBlocker, 0, n)
	remainder = make([]models.RankedBlocker, 0, len(scored))
	for _, i := range eligible {
		if selected[i] {
			top = append(top, scored[i])
		}
	}
	for _, i := range potential {
		if selected[i] {
			top = append(top, scored[i])
		}
	}
	for i, b := range scored {
		if !selected[i] {
			remainder = append(remainder, b)
		}
	}
	return top, remainder
}
