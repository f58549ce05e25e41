package display

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/harrison/signalscope/internal/learning"
)

// History writes recorded analyses newest first
func (r *Renderer) History(runs []*learning.AnalysisRun) {
	if len(runs) == 0 {
		fmt.Fprintln(r.w, "No analyses recorded yet.")
		return
	}

	tw := tabwriter.NewWriter(r.w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "WHEN\tID\tPAGE\tPROBABILITY\tTRUST\tFRICTION\tCLARITY\tTOP BLOCKERS")
	for _, run := range runs {
		id := run.ID
		if len(id) > 8 {
			id = id[:8]
		}
		blockers := strings.Join(run.TopBlockers, ", ")
		if blockers == "" {
			blockers = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%.2f\t%.0f\t%.0f\t%.0f\t%s\n",
			run.CreatedAt.Local().Format("2006-01-02 15:04"), id, run.PageType,
			run.DecisionProbability, run.TrustScore, run.FrictionScore, run.ClarityScore, blockers)
	}
	tw.Flush()
}

// Weights writes stored calibration weights. Boosted weights are red and
// dampened weights green when color is enabled.
func (r *Renderer) Weights(weights []learning.CalibrationWeight) {
	if len(weights) == 0 {
		fmt.Fprintln(r.w, "No calibration weights stored.")
		return
	}

	tw := tabwriter.NewWriter(r.w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "PAGE\tISSUE\tWEIGHT\tUPDATED\tNOTE")
	for _, w := range weights {
		value := fmt.Sprintf("%.2f", w.Weight)
		switch {
		case w.Weight > 1:
			value = r.paint(color.FgRed, value)
		case w.Weight < 1:
			value = r.paint(color.FgGreen, value)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			w.PageType, w.IssueID, value, w.UpdatedAt.Local().Format("2006-01-02"), w.Note)
	}
	tw.Flush()
}

// WeightSummary writes the distribution of calibration weights
func (r *Renderer) WeightSummary(summary learning.WeightSummary) {
	scope := summary.PageType
	if scope == "" {
		scope = "all page types"
	}
	if summary.Count == 0 {
		fmt.Fprintf(r.w, "No calibration weights for %s.\n", scope)
		return
	}
	fmt.Fprintf(r.w, "Calibration weights for %s: %d stored\n", scope, summary.Count)
	fmt.Fprintf(r.w, "  mean %.3f  median %.3f  stddev %.3f\n", summary.Mean, summary.Median, summary.StdDev)
	fmt.Fprintf(r.w, "  min %.3f  max %.3f\n", summary.Min, summary.Max)
	fmt.Fprintf(r.w, "  boosted %d  dampened %d\n", summary.Boosted, summary.Dampened)
}
