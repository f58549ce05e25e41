package display

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harrison/signalscope/internal/learning"
	"github.com/harrison/signalscope/internal/merge"
	"github.com/harrison/signalscope/internal/models"
)

func sampleReport() *models.Report {
	signals := models.NeutralSignals(models.SourceLanding)
	signals.ReassuranceLevel = models.LevelLow
	return &models.Report{
		ID:       "6f1c2a9e-0000-4000-8000-000000000000",
		PageType: "landing",
		Source:   "home.yaml",
		Scores: models.RuleScoreResult{
			TrustScore:          52,
			FrictionScore:       80,
			ClarityScore:        46,
			DecisionProbability: 0.43,
			Confidence:          0.83,
		},
		Signals:          signals,
		SignalConfidence: 0.83,
		TopBlockers: []models.RankedBlocker{
			{Issue: models.IssueSignal{ID: "testimonials", Status: models.StatusMissing, Fix: "Add named customer testimonials close to the primary call to action."}, DecisionImpactScore: 74.1},
			{Issue: models.IssueSignal{ID: "faq", Status: models.StatusUnclear}, DecisionImpactScore: 3.7, IsPotential: true},
		},
		QuickWins:   []string{"Add named customer testimonials close to the primary call to action."},
		DeepChanges: []string{"Simplify the page layout around one primary goal per section."},
		CreatedAt:   time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC),
	}
}

func TestRendererReportPlain(t *testing.T) {
	var buf bytes.Buffer
	NewRenderer(&buf).Report(sampleReport())
	out := buf.String()

	assert.NotContains(t, out, "\x1b[", "buffers are never colored")
	assert.Contains(t, out, "Analysis landing page (home.yaml)")
	assert.Contains(t, out, "Trust      52.0")
	assert.Contains(t, out, "Decision probability 0.43 (confidence 0.83)")
	assert.Contains(t, out, "reassurance low")
	assert.Contains(t, out, "1. ● testimonials  impact 74.1")
	assert.Contains(t, out, "2. ○ faq (potential)  impact 3.7")
	assert.Contains(t, out, "✓ Add named customer testimonials")
	assert.Contains(t, out, "Deeper changes")
}

func TestRendererReportEmptyLists(t *testing.T) {
	report := sampleReport()
	report.TopBlockers = nil
	report.QuickWins = nil
	report.DeepChanges = nil

	var buf bytes.Buffer
	NewPlainRenderer(&buf).Report(report)
	assert.Contains(t, buf.String(), "none detected")
	assert.NotContains(t, buf.String(), "Deeper changes")
}

func TestRendererColor(t *testing.T) {
	var buf bytes.Buffer
	r := &Renderer{w: &buf, color: true}
	r.Report(sampleReport())
	assert.Contains(t, buf.String(), "\x1b[")
}

func TestMarkdown(t *testing.T) {
	md := Markdown(sampleReport())

	assert.True(t, strings.HasPrefix(md, "# Decision report: landing page\n"))
	assert.Contains(t, md, "| Friction | 80.0 |")
	assert.Contains(t, md, "1. **testimonials** (missing, impact 74.1): Add named customer testimonials")
	assert.Contains(t, md, "2. **faq** (unclear, impact 3.7) _(potential)_\n")
	assert.Contains(t, md, "Generated: 2026-03-01 09:30 UTC")
	assert.Contains(t, md, "## Deeper changes")
}

func TestHTML(t *testing.T) {
	html, err := HTML(sampleReport())
	require.NoError(t, err)

	assert.Contains(t, html, "<h1>Decision report: landing page</h1>")
	assert.Contains(t, html, "<table>")
	assert.Contains(t, html, "<strong>testimonials</strong>")
}

func TestHistory(t *testing.T) {
	var buf bytes.Buffer
	r := NewPlainRenderer(&buf)

	r.History(nil)
	assert.Equal(t, "No analyses recorded yet.\n", buf.String())

	buf.Reset()
	r.History([]*learning.AnalysisRun{{
		ID:                  "abcdef1234567890",
		PageType:            "pricing",
		DecisionProbability: 0.61,
		TrustScore:          70,
		TopBlockers:         []string{"faq", "guarantee"},
		CreatedAt:           time.Now(),
	}})
	out := buf.String()
	assert.Contains(t, out, "PROBABILITY")
	assert.Contains(t, out, "abcdef12")
	assert.NotContains(t, out, "abcdef1234")
	assert.Contains(t, out, "faq, guarantee")
}

func TestWeightsAndSummary(t *testing.T) {
	var buf bytes.Buffer
	r := NewPlainRenderer(&buf)

	r.Weights([]learning.CalibrationWeight{
		{PageType: "landing", IssueID: "faq", Weight: 1.5, Note: "support load", UpdatedAt: time.Now()},
	})
	assert.Contains(t, buf.String(), "1.50")
	assert.Contains(t, buf.String(), "support load")

	buf.Reset()
	r.WeightSummary(learning.WeightSummary{Count: 0})
	assert.Equal(t, "No calibration weights for all page types.\n", buf.String())

	buf.Reset()
	r.WeightSummary(learning.WeightSummary{PageType: "landing", Count: 2, Mean: 1.25, Median: 1.25, Min: 1, Max: 1.5, Boosted: 1})
	assert.Contains(t, buf.String(), "Calibration weights for landing: 2 stored")
	assert.Contains(t, buf.String(), "boosted 1  dampened 0")
}

func TestWarning(t *testing.T) {
	var buf bytes.Buffer
	NewPlainRenderer(&buf).Warning(SkippedFiles([]string{"a.yaml", "b.md"}))

	out := buf.String()
	assert.Contains(t, out, "Warning: 2 input file(s) skipped")
	assert.Contains(t, out, "Affected files:\n      1. a.yaml\n      2. b.md\n")
	assert.Contains(t, out, "signalscope validate")

	buf.Reset()
	NewPlainRenderer(&buf).Warning(Warning{Title: "one", Files: []string{"x"}})
	assert.Contains(t, buf.String(), "Affected file:\n")
}

func TestMergeResult(t *testing.T) {
	landing := models.NeutralSignals(models.SourceLanding)
	landing.ReassuranceLevel = models.LevelLow
	ad := models.NeutralSignals(models.SourceAd)
	ad.ReassuranceLevel = models.LevelHigh
	ad.ExpectationGap = models.LevelHigh

	var buf bytes.Buffer
	NewPlainRenderer(&buf).MergeResult(merge.MergeDetailed(landing, &ad, nil))
	out := buf.String()

	assert.Contains(t, out, "Merged signals (confidence 0.71)")
	assert.Regexp(t, `reassurance_level\s+medium\s+2\s+-0\.10`, out)
	assert.Regexp(t, `promise_strength\s+medium\s+2\s+\+0\.05`, out)
	assert.Regexp(t, `expectation_gap\s+high\s+-\s+-`, out)
	assert.NotContains(t, out, "choice_overload")
}
