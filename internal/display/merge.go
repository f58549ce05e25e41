package display

import (
	"fmt"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/harrison/signalscope/internal/merge"
	"github.com/harrison/signalscope/internal/models"
)

// MergeResult writes a merged signal vector with its per-field agreement
func (r *Renderer) MergeResult(result merge.Result) {
	s := result.Signals
	fmt.Fprintf(r.w, "Merged signals (confidence %.2f)\n\n", result.Confidence)

	adjustments := make(map[string]merge.FieldAgreement, len(result.Agreements))
	for _, a := range result.Agreements {
		adjustments[a.Field] = a
	}

	tw := tabwriter.NewWriter(r.w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "FIELD\tVALUE\tSOURCES\tAGREEMENT")
	row := func(field, value string) {
		a, ok := adjustments[field]
		if !ok {
			fmt.Fprintf(tw, "%s\t%s\t-\t-\n", field, value)
			return
		}
		agreement := fmt.Sprintf("%+.2f", a.Adjustment)
		switch {
		case a.Adjustment > 0:
			agreement = r.paint(color.FgGreen, agreement)
		case a.Adjustment < 0:
			agreement = r.paint(color.FgRed, agreement)
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", field, value, a.Sources, agreement)
	}

	row("promise_strength", s.PromiseStrength.String())
	row("emotional_tone", s.EmotionalTone.String())
	row("reassurance_level", s.ReassuranceLevel.String())
	row("risk_exposure", s.RiskExposure.String())
	row("cognitive_load", s.CognitiveLoad.String())
	row("pressure_level", s.PressureLevel.String())

	optional := []struct {
		field string
		level models.SignalLevel
	}{
		{"expectation_gap", s.ExpectationGap},
		{"choice_overload", s.ChoiceOverload},
		{"transparency_level", s.TransparencyLevel},
		{"commitment_pressure", s.CommitmentPressure},
	}
	for _, o := range optional {
		if o.level.IsSet() {
			row(o.field, o.level.String())
		}
	}
	tw.Flush()
}
