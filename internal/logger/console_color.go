package logger

import (
	"fmt"

	"github.com/fatih/color"

	"github.com/harrison/signalscope/internal/models"
)

// Score thresholds for coloring. Friction is inverted: high is bad.
const (
	goodScore = 70.0
	poorScore = 40.0
)

// colorScheme defines consistent colors for report metrics.
// Green: healthy scores
// Red: failing scores and confirmed blockers
// Yellow: borderline scores and potential blockers
// Cyan: labels and issue ids
type colorScheme struct {
	success *color.Color
	fail    *color.Color
	warn    *color.Color
	label   *color.Color
}

func newColorScheme() *colorScheme {
	return &colorScheme{
		success: color.New(color.FgGreen),
		fail:    color.New(color.FgRed),
		warn:    color.New(color.FgYellow),
		label:   color.New(color.FgCyan),
	}
}

// forScore picks a color for a 0..100 score where higher is better.
func (s *colorScheme) forScore(score float64) *color.Color {
	switch {
	case score >= goodScore:
		return s.success
	case score < poorScore:
		return s.fail
	default:
		return s.warn
	}
}

// forFriction picks a color for a friction score, where lower is better.
func (s *colorScheme) forFriction(score float64) *color.Color {
	return s.forScore(100 - score)
}

// forProbability picks a color for a decision probability in [0,1].
func (s *colorScheme) forProbability(p float64) *color.Color {
	return s.forScore(p * 100)
}

// formatColorizedScores formats the three rule scores.
// Format: "trust: 62, friction: 35, clarity: 80"
func formatColorizedScores(scores models.RuleScoreResult, colored bool) string {
	if !colored {
		return fmt.Sprintf("trust: %.0f, friction: %.0f, clarity: %.0f",
			scores.TrustScore, scores.FrictionScore, scores.ClarityScore)
	}
	scheme := newColorScheme()
	return fmt.Sprintf("%s: %s, %s: %s, %s: %s",
		scheme.label.Sprint("trust"), scheme.forScore(scores.TrustScore).Sprintf("%.0f", scores.TrustScore),
		scheme.label.Sprint("friction"), scheme.forFriction(scores.FrictionScore).Sprintf("%.0f", scores.FrictionScore),
		scheme.label.Sprint("clarity"), scheme.forScore(scores.ClarityScore).Sprintf("%.0f", scores.ClarityScore),
	)
}

// formatBlocker renders one ranked blocker.
// Format: "value_proposition (missing) impact 85.5" with a "potential" suffix for unclear issues.
func formatBlocker(b models.RankedBlocker, colored bool) string {
	id := b.Issue.ID
	impact := fmt.Sprintf("%.1f", b.DecisionImpactScore)
	suffix := ""
	if b.IsPotential {
		suffix = " potential"
	}
	if colored {
		scheme := newColorScheme()
		id = scheme.label.Sprint(id)
		if b.IsPotential {
			impact = scheme.warn.Sprint(impact)
		} else {
			impact = scheme.fail.Sprint(impact)
		}
	}
	return fmt.Sprintf("%s (%s) impact %s%s", id, b.Issue.Status, impact, suffix)
}
