package display

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/harrison/signalscope/internal/models"
)

// Score thresholds shared by every renderer
const (
	healthyScore = 70.0
	failingScore = 40.0
)

// Renderer writes human-readable output to a writer
type Renderer struct {
	w     io.Writer
	color bool
}

// NewRenderer creates a renderer that colors output only when w is a terminal
func NewRenderer(w io.Writer) *Renderer {
	colored := false
	if f, ok := w.(*os.File); ok {
		colored = isatty.IsTerminal(f.Fd()) && os.Getenv("NO_COLOR") == ""
	}
	return &Renderer{w: w, color: colored}
}

// NewPlainRenderer creates a renderer that never colors output
func NewPlainRenderer(w io.Writer) *Renderer {
	return &Renderer{w: w}
}

func (r *Renderer) paint(c color.Attribute, s string) string {
	if !r.color {
		return s
	}
	p := color.New(c)
	p.EnableColor()
	return p.Sprint(s)
}

func (r *Renderer) scoreColor(score float64, lowerIsBetter bool) color.Attribute {
	if lowerIsBetter {
		score = 100 - score
	}
	switch {
	case score >= healthyScore:
		return color.FgGreen
	case score < failingScore:
		return color.FgRed
	default:
		return color.FgYellow
	}
}

// Report writes the terminal view of a report
func (r *Renderer) Report(report *models.Report) {
	var b strings.Builder
	s := report.Scores

	fmt.Fprintf(&b, "%s %s page", r.paint(color.Bold, "Analysis"), report.PageType)
	if report.Source != "" {
		fmt.Fprintf(&b, " (%s)", report.Source)
	}
	b.WriteString("\n\n")

	fmt.Fprintf(&b, "  Trust     %s\n", r.paint(r.scoreColor(s.TrustScore, false), fmt.Sprintf("%5.1f", s.TrustScore)))
	fmt.Fprintf(&b, "  Friction  %s\n", r.paint(r.scoreColor(s.FrictionScore, true), fmt.Sprintf("%5.1f", s.FrictionScore)))
	fmt.Fprintf(&b, "  Clarity   %s\n", r.paint(r.scoreColor(s.ClarityScore, false), fmt.Sprintf("%5.1f", s.ClarityScore)))
	fmt.Fprintf(&b, "  Decision probability %s (confidence %.2f)\n",
		r.paint(r.scoreColor(s.DecisionProbability*100, false), fmt.Sprintf("%.2f", s.DecisionProbability)), s.Confidence)
	fmt.Fprintf(&b, "  Signals: promise %s, reassurance %s, risk %s, load %s, pressure %s, tone %s (confidence %.2f)\n",
		report.Signals.PromiseStrength, report.Signals.ReassuranceLevel, report.Signals.RiskExposure,
		report.Signals.CognitiveLoad, report.Signals.PressureLevel, report.Signals.EmotionalTone,
		report.SignalConfidence)

	b.WriteString("\n" + r.paint(color.Bold, "Top blockers") + "\n")
	if len(report.TopBlockers) == 0 {
		b.WriteString("  none detected\n")
	}
	for i, blocker := range report.TopBlockers {
		marker := r.paint(color.FgRed, "●")
		label := ""
		if blocker.IsPotential {
			marker = r.paint(color.FgYellow, "○")
			label = " (potential)"
		}
		fmt.Fprintf(&b, "  %d. %s %s%s  impact %.1f\n", i+1, marker,
			r.paint(color.FgCyan, blocker.Issue.ID), label, blocker.DecisionImpactScore)
		if blocker.Issue.Fix != "" {
			fmt.Fprintf(&b, "       %s\n", blocker.Issue.Fix)
		}
	}

	b.WriteString("\n" + r.paint(color.Bold, "Quick wins") + "\n")
	if len(report.QuickWins) == 0 {
		b.WriteString("  none\n")
	}
	for _, win := range report.QuickWins {
		fmt.Fprintf(&b, "  %s %s\n", r.paint(color.FgGreen, "✓"), win)
	}

	if len(report.DeepChanges) > 0 {
		b.WriteString("\n" + r.paint(color.Bold, "Deeper changes") + "\n")
		for _, change := range report.DeepChanges {
			fmt.Fprintf(&b, "  - %s\n", change)
		}
	}

	fmt.Fprint(r.w, b.String())
}

// Markdown renders a report as a Markdown document
func Markdown(report *models.Report) string {
	var b strings.Builder
	s := report.Scores

	fmt.Fprintf(&b, "# Decision report: %s page\n\n", report.PageType)
	if report.Source != "" {
		fmt.Fprintf(&b, "Source: `%s`  \n", report.Source)
	}
	fmt.Fprintf(&b, "Report ID: `%s`  \n", report.ID)
	if !report.CreatedAt.IsZero() {
		fmt.Fprintf(&b, "Generated: %s\n", report.CreatedAt.Format("2006-01-02 15:04 MST"))
	}

	b.WriteString("\n## Scores\n\n")
	b.WriteString("| Metric | Value |\n|---|---|\n")
	fmt.Fprintf(&b, "| Trust | %.1f |\n", s.TrustScore)
	fmt.Fprintf(&b, "| Friction | %.1f |\n", s.FrictionScore)
	fmt.Fprintf(&b, "| Clarity | %.1f |\n", s.ClarityScore)
	fmt.Fprintf(&b, "| Decision probability | %.2f |\n", s.DecisionProbability)
	fmt.Fprintf(&b, "| Confidence | %.2f |\n", s.Confidence)
	fmt.Fprintf(&b, "| Signal confidence | %.2f |\n", report.SignalConfidence)

	b.WriteString("\n## Top blockers\n\n")
	if len(report.TopBlockers) == 0 {
		b.WriteString("No blockers detected.\n")
	}
	for i, blocker := range report.TopBlockers {
		potential := ""
		if blocker.IsPotential {
			potential = " _(potential)_"
		}
		fmt.Fprintf(&b, "%d. **%s** (%s, impact %.1f)%s", i+1, blocker.Issue.ID, blocker.Issue.Status, blocker.DecisionImpactScore, potential)
		if blocker.Issue.Fix != "" {
			fmt.Fprintf(&b, ": %s", blocker.Issue.Fix)
		}
		b.WriteString("\n")
	}

	b.WriteString("\n## Quick wins\n\n")
	if len(report.QuickWins) == 0 {
		b.WriteString("No quick wins qualified.\n")
	}
	for _, win := range report.QuickWins {
		fmt.Fprintf(&b, "- %s\n", win)
	}

	if len(report.DeepChanges) > 0 {
		b.WriteString("\n## Deeper changes\n\n")
		for _, change := range report.DeepChanges {
			fmt.Fprintf(&b, "- %s\n", change)
		}
	}
	return b.String()
}

var htmlConverter = goldmark.New(goldmark.WithExtensions(extension.GFM))

// HTML converts the Markdown report to an HTML fragment. Tables use the
// GitHub-flavored extension.
func HTML(report *models.Report) (string, error) {
	var buf bytes.Buffer
	if err := htmlConverter.Convert([]byte(Markdown(report)), &buf); err != nil {
		return "", fmt.Errorf("render html: %w", err)
	}
	return buf.String(), nil
}
