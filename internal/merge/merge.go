// Package merge combines decision signals from a landing page with optional
// ad and pricing evidence into a single vector plus a confidence.
//
// The landing page is the baseline: it always contributes and carries most
// of the weight. Ad and pricing evidence only nudge a field, and only for
// the fields that source can speak to.
package merge

import (
	"math"

	"github.com/harrison/signalscope/internal/models"
)

// Source weights as integer percentages. Integer arithmetic keeps exact
// half-way averages (e.g. 1.5) from drifting under float rounding.
const (
	LandingWeight = 60
	AdWeight      = 20
	PricingWeight = 20
)

// Agreement adjustments applied per merged field
const (
	AgreementBonus    = 0.05  // all contributing sources identical
	DisagreementCost  = -0.10 // sources two or more steps apart
	adjacentAgreement = 0.0
)

// sourced is one source's ordinal contribution to a field
type sourced struct {
	value  int
	weight int
}

// weightedRound averages the contributions and rounds half-up
func weightedRound(values []sourced) int {
	num, den := 0, 0
	for _, v := range values {
		num += v.value * v.weight
		den += v.weight
	}
	if den == 0 {
		return 0
	}
	return (2*num + den) / (2 * den)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// agreement scores how well the contributing sources agree on a field.
// A single contributor earns nothing either way.
func agreement(values []sourced) float64 {
	if len(values) < 2 {
		return adjacentAgreement
	}
	lo, hi := values[0].value, values[0].value
	for _, v := range values[1:] {
		lo = min(lo, v.value)
		hi = max(hi, v.value)
	}
	switch spread := hi - lo; {
	case spread == 0:
		return AgreementBonus
	case spread == 1:
		return adjacentAgreement
	default:
		return DisagreementCost
	}
}

func levelContributions(landing, ad, pricing models.SignalLevel) []sourced {
	values := []sourced{{int(landing), LandingWeight}}
	if ad.IsSet() {
		values = append(values, sourced{int(ad), AdWeight})
	}
	if pricing.IsSet() {
		values = append(values, sourced{int(pricing), PricingWeight})
	}
	return values
}

// MergeLevel merges one level field. Pass LevelUnset for a source that is
// absent or structurally excluded from the field.
func MergeLevel(landing, ad, pricing models.SignalLevel) models.SignalLevel {
	if !landing.IsSet() {
		landing = models.LevelMedium
	}
	merged := weightedRound(levelContributions(landing, ad, pricing))
	return models.SignalLevel(clampInt(merged, int(models.LevelLow), int(models.LevelHigh)))
}

// MergeTone merges emotional tone on its calm < reassuring < urgent <
// aggressive scale, the same way levels are merged.
func MergeTone(landing, ad models.EmotionalTone) models.EmotionalTone {
	if !landing.IsSet() {
		landing = models.ToneCalm
	}
	values := []sourced{{int(landing), LandingWeight}}
	if ad.IsSet() {
		values = append(values, sourced{int(ad), AdWeight})
	}
	merged := weightedRound(values)
	return models.EmotionalTone(clampInt(merged, int(models.ToneCalm), int(models.ToneAggressive)))
}

// FieldAgreement records the agreement adjustment computed for one field
type FieldAgreement struct {
	Field      string  `json:"field"`
	Sources    int     `json:"sources"`
	Adjustment float64 `json:"adjustment"`
}

// Result is the merged vector together with the per-field agreement trace
type Result struct {
	Signals    models.DecisionSignals `json:"signals"`
	Confidence float64                `json:"confidence"`
	Agreements []FieldAgreement       `json:"agreements"`
}

// Merge combines the landing vector with optional ad and pricing vectors.
// Field-to-source matrix:
//
//	promise_strength, emotional_tone: landing + ad
//	reassurance_level, pressure_level: landing + ad + pricing
//	risk_exposure, cognitive_load:     landing + pricing
//	expectation_gap:                   copied from ad
//	choice_overload, transparency_level, commitment_pressure: copied from pricing
func Merge(landing models.DecisionSignals, ad, pricing *models.DecisionSignals) (models.DecisionSignals, float64) {
	result := MergeDetailed(landing, ad, pricing)
	return result.Signals, result.Confidence
}

// MergeDetailed is Merge with the agreement trace kept
func MergeDetailed(landing models.DecisionSignals, ad, pricing *models.DecisionSignals) Result {
	landing = landing.WithDefaults()

	var adSig, pricingSig models.DecisionSignals
	if ad != nil {
		adSig = ad.WithDefaults()
	}
	if pricing != nil {
		pricingSig = pricing.WithDefaults()
	}

	// Absent sources stay zero-valued, so they contribute LevelUnset/ToneUnset.
	// Structurally excluded sources are passed as LevelUnset below.
	type levelField struct {
		name                 string
		landing, ad, pricing models.SignalLevel
		target               *models.SignalLevel
	}

	merged := models.DecisionSignals{Source: models.SourceMerged}
	fields := []levelField{
		{"promise_strength", landing.PromiseStrength, adSig.PromiseStrength, models.LevelUnset, &merged.PromiseStrength},
		{"reassurance_level", landing.ReassuranceLevel, adSig.ReassuranceLevel, pricingSig.ReassuranceLevel, &merged.ReassuranceLevel},
		{"risk_exposure", landing.RiskExposure, models.LevelUnset, pricingSig.RiskExposure, &merged.RiskExposure},
		{"cognitive_load", landing.CognitiveLoad, models.LevelUnset, pricingSig.CognitiveLoad, &merged.CognitiveLoad},
		{"pressure_level", landing.PressureLevel, adSig.PressureLevel, pricingSig.PressureLevel, &merged.PressureLevel},
	}

	agreements := make([]FieldAgreement, 0, len(fields)+1)
	for _, f := range fields {
		*f.target = MergeLevel(f.landing, f.ad, f.pricing)
		contributions := levelContributions(f.landing, f.ad, f.pricing)
		agreements = append(agreements, FieldAgreement{
			Field:      f.name,
			Sources:    len(contributions),
			Adjustment: agreement(contributions),
		})
	}

	merged.EmotionalTone = MergeTone(landing.EmotionalTone, adSig.EmotionalTone)
	toneValues := []sourced{{int(landing.EmotionalTone), LandingWeight}}
	if adSig.EmotionalTone.IsSet() {
		toneValues = append(toneValues, sourced{int(adSig.EmotionalTone), AdWeight})
	}
	agreements = append(agreements, FieldAgreement{
		Field:      "emotional_tone",
		Sources:    len(toneValues),
		Adjustment: agreement(toneValues),
	})

	if ad != nil {
		merged.ExpectationGap = ad.ExpectationGap
	}
	if pricing != nil {
		merged.ChoiceOverload = pricing.ChoiceOverload
		merged.TransparencyLevel = pricing.TransparencyLevel
		merged.CommitmentPressure = pricing.CommitmentPressure
	}

	total := 0.0
	for _, a := range agreements {
		total += a.Adjustment
	}
	confidence := landing.EffectiveConfidence() + total/float64(len(agreements))
	confidence = math.Max(0, math.Min(1, confidence))

	merged.Confidence = models.Float(confidence)
	merged.RawSignals = map[string]any{
		"has_ad":      ad != nil,
		"has_pricing": pricing != nil,
		"base":        landing.EffectiveConfidence(),
	}

	return Result{
		Signals:    merged,
		Confidence: confidence,
		Agreements: agreements,
	}
}
