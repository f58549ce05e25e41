package scoring

import (
	"strings"
	"unicode"

	"github.com/harrison/signalscope/internal/models"
)

// Bucket thresholds shared by every score-to-level conversion
const (
	LowThreshold  = 40.0
	HighThreshold = 60.0
)

// BucketScore converts a 0-100 score into a SignalLevel:
// below 40 is low, above 60 is high, anything else is medium.
func BucketScore(score float64) models.SignalLevel {
	switch {
	case score < LowThreshold:
		return models.LevelLow
	case score > HighThreshold:
		return models.LevelHigh
	default:
		return models.LevelMedium
	}
}

var (
	urgencyLexicon     = []string{"now", "today", "hurry", "limited"}
	reassuranceLexicon = []string{"free", "safe", "guaranteed"}
)

// words splits copy into lowercase word tokens
func words(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func containsAny(tokens []string, lexicon []string) bool {
	for _, tok := range tokens {
		for _, w := range lexicon {
			if tok == w {
				return true
			}
		}
	}
	return false
}

// ToneOf classifies CTA copy. The urgency lexicon is checked before the
// reassurance lexicon, so copy containing both reads as urgent.
func ToneOf(ctaCopy *string) models.EmotionalTone {
	if ctaCopy == nil {
		return models.ToneCalm
	}
	tokens := words(*ctaCopy)
	if containsAny(tokens, urgencyLexicon) {
		return models.ToneUrgent
	}
	if containsAny(tokens, reassuranceLexicon) {
		return models.ToneReassuring
	}
	return models.ToneCalm
}

// RiskExposure counts present trust signals (guarantee, security badges,
// testimonials): two or more is low risk, one is medium, none is high.
// When none of the three was observed the level is the neutral medium.
func RiskExposure(a models.PageAttributes) models.SignalLevel {
	present, observed := 0, 0
	for _, flag := range []*bool{a.HasGuarantee, a.HasSecurityBadges, a.HasTestimonials} {
		if flag == nil {
			continue
		}
		observed++
		if *flag {
			present++
		}
	}
	switch {
	case observed == 0:
		return models.LevelMedium
	case present >= 2:
		return models.LevelLow
	case present == 1:
		return models.LevelMedium
	default:
		return models.LevelHigh
	}
}

// pressureOf maps tone to pressure. Without CTA copy there is no evidence
// and the level stays at the neutral medium.
func pressureOf(ctaCopy *string, tone models.EmotionalTone) models.SignalLevel {
	if !hasText(ctaCopy) {
		return models.LevelMedium
	}
	switch tone {
	case models.ToneUrgent, models.ToneAggressive:
		return models.LevelHigh
	default:
		return models.LevelLow
	}
}

// Normalize converts sparse page attributes into a fully populated signal
// vector tagged with the given source. It never fails: missing evidence
// resolves to neutral defaults.
func Normalize(a models.PageAttributes, source models.Source) models.DecisionSignals {
	trust := TrustScore(a)
	friction := FrictionScore(a)
	clarity := ClarityScore(a)
	tone := ToneOf(a.CTACopy)

	signals := models.NeutralSignals(source)
	signals.PromiseStrength = BucketScore(clarity)
	signals.EmotionalTone = tone
	signals.ReassuranceLevel = BucketScore(trust)
	signals.RiskExposure = RiskExposure(a)
	signals.CognitiveLoad = BucketScore(friction)
	signals.PressureLevel = pressureOf(a.CTACopy, tone)
	signals.Confidence = models.Float(CoverageConfidence(a))

	if a.HasPricing != nil {
		if *a.HasPricing {
			signals.TransparencyLevel = models.LevelHigh
		} else {
			signals.TransparencyLevel = models.LevelLow
		}
	}
	if a.HasGuarantee != nil {
		if *a.HasGuarantee {
			signals.CommitmentPressure = models.LevelLow
		} else {
			signals.CommitmentPressure = models.LevelHigh
		}
	}
	if a.Offers != nil {
		switch n := len(a.Offers); {
		case n > 3:
			signals.ChoiceOverload = models.LevelHigh
		case n >= 2:
			signals.ChoiceOverload = models.LevelMedium
		default:
			signals.ChoiceOverload = models.LevelLow
		}
	}

	signals.RawSignals = map[string]any{
		"trust_score":    trust,
		"friction_score": friction,
		"clarity_score":  clarity,
		"coverage":       Coverage(a),
	}

	return signals
}
