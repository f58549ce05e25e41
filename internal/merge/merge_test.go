package merge

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harrison/signalscope/internal/models"
)

func TestMergeLevel(t *testing.T) {
	L, M, H, U := models.LevelLow, models.LevelMedium, models.LevelHigh, models.LevelUnset

	tests := []struct {
		name                 string
		landing, ad, pricing models.SignalLevel
		want                 models.SignalLevel
	}{
		{"single source passthrough", H, U, U, H},
		{"single source low", L, U, U, L},
		{"landing low ad high rounds half up", L, H, U, M},
		{"landing high ad low stays high", H, L, U, H},
		{"landing medium ad high", M, H, U, M},
		{"three sources pulled to medium", L, H, H, M},
		{"three sources agree", H, H, H, H},
		{"pricing only nudges", L, U, H, M},
		{"unset landing treated as medium", U, U, U, M},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MergeLevel(tt.landing, tt.ad, tt.pricing))
		})
	}
}

func TestMergeTone(t *testing.T) {
	tests := []struct {
		name        string
		landing, ad models.EmotionalTone
		want        models.EmotionalTone
	}{
		{"landing only", models.ToneUrgent, models.ToneUnset, models.ToneUrgent},
		{"agreeing sources", models.ToneReassuring, models.ToneReassuring, models.ToneReassuring},
		{"calm landing urgent ad", models.ToneCalm, models.ToneUrgent, models.ToneReassuring},
		{"aggressive ad cannot flip calm landing", models.ToneCalm, models.ToneAggressive, models.ToneReassuring},
		{"unset landing defaults to calm", models.ToneUnset, models.ToneUnset, models.ToneCalm},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MergeTone(tt.landing, tt.ad))
		})
	}
}

func TestMergeReassuranceScenario(t *testing.T) {
	landing := models.NeutralSignals(models.SourceLanding)
	landing.ReassuranceLevel = models.LevelLow
	ad := models.NeutralSignals(models.SourceAd)
	ad.ReassuranceLevel = models.LevelHigh

	result := MergeDetailed(landing, &ad, nil)

	assert.Equal(t, models.LevelMedium, result.Signals.ReassuranceLevel)
	assert.Equal(t, models.SourceMerged, result.Signals.Source)
	require.NoError(t, result.Signals.Validate())

	adjustments := map[string]float64{}
	for _, a := range result.Agreements {
		adjustments[a.Field] = a.Adjustment
	}
	assert.Equal(t, map[string]float64{
		"promise_strength":  AgreementBonus,
		"reassurance_level": DisagreementCost,
		"risk_exposure":     0,
		"cognitive_load":    0,
		"pressure_level":    AgreementBonus,
		"emotional_tone":    AgreementBonus,
	}, adjustments)

	// 0.7 base + (0.05 - 0.10 + 0 + 0 + 0.05 + 0.05) / 6
	assert.InDelta(t, 0.7+0.05/6, result.Confidence, 1e-9)
	require.NotNil(t, result.Signals.Confidence)
	assert.Equal(t, result.Confidence, *result.Signals.Confidence)
}

func TestMergeLandingOnly(t *testing.T) {
	landing := models.NeutralSignals(models.SourceLanding)
	landing.PromiseStrength = models.LevelHigh
	landing.Confidence = models.Float(0.83)

	signals, confidence := Merge(landing, nil, nil)

	assert.Equal(t, models.LevelHigh, signals.PromiseStrength)
	assert.Equal(t, models.LevelMedium, signals.RiskExposure)
	assert.Equal(t, models.ToneCalm, signals.EmotionalTone)
	assert.Equal(t, models.LevelUnset, signals.ExpectationGap)
	assert.Equal(t, models.LevelUnset, signals.ChoiceOverload)
	// no corroborating source, so no adjustment either way
	assert.InDelta(t, 0.83, confidence, 1e-9)
}

func TestMergeExcludesAdFromRiskAndLoad(t *testing.T) {
	landing := models.NeutralSignals(models.SourceLanding)
	landing.RiskExposure = models.LevelLow
	landing.CognitiveLoad = models.LevelLow
	ad := models.NeutralSignals(models.SourceAd)
	ad.RiskExposure = models.LevelHigh
	ad.CognitiveLoad = models.LevelHigh

	result := MergeDetailed(landing, &ad, nil)

	assert.Equal(t, models.LevelLow, result.Signals.RiskExposure)
	assert.Equal(t, models.LevelLow, result.Signals.CognitiveLoad)
	for _, a := range result.Agreements {
		if a.Field == "risk_exposure" || a.Field == "cognitive_load" {
			assert.Equal(t, 1, a.Sources, a.Field)
		}
	}
}

func TestMergeExcludesPricingFromPromise(t *testing.T) {
	landing := models.NeutralSignals(models.SourceLanding)
	landing.PromiseStrength = models.LevelLow
	pricing := models.NeutralSignals(models.SourcePricing)
	pricing.PromiseStrength = models.LevelHigh
	pricing.EmotionalTone = models.ToneAggressive

	signals, _ := Merge(landing, nil, &pricing)

	assert.Equal(t, models.LevelLow, signals.PromiseStrength)
	assert.Equal(t, models.ToneCalm, signals.EmotionalTone)
}

func TestMergeCopiesOptionalFields(t *testing.T) {
	landing := models.NeutralSignals(models.SourceLanding)
	landing.ExpectationGap = models.LevelLow
	landing.ChoiceOverload = models.LevelLow

	ad := models.NeutralSignals(models.SourceAd)
	ad.ExpectationGap = models.LevelHigh
	ad.TransparencyLevel = models.LevelHigh

	pricing := models.NeutralSignals(models.SourcePricing)
	pricing.ChoiceOverload = models.LevelHigh
	pricing.TransparencyLevel = models.LevelMedium
	pricing.CommitmentPressure = models.LevelLow

	signals, _ := Merge(landing, &ad, &pricing)

	assert.Equal(t, models.LevelHigh, signals.ExpectationGap)
	assert.Equal(t, models.LevelHigh, signals.ChoiceOverload)
	assert.Equal(t, models.LevelMedium, signals.TransparencyLevel)
	assert.Equal(t, models.LevelLow, signals.CommitmentPressure)

	// landing never contributes optional fields
	withoutExtras, _ := Merge(landing, nil, nil)
	assert.Equal(t, models.LevelUnset, withoutExtras.ExpectationGap)
	assert.Equal(t, models.LevelUnset, withoutExtras.ChoiceOverload)
}

func TestMergeFillsIncompleteInputs(t *testing.T) {
	landing := models.DecisionSignals{Source: models.SourceLanding}
	ad := models.DecisionSignals{Source: models.SourceAd, PressureLevel: models.LevelHigh}

	signals, confidence := Merge(landing, &ad, nil)

	require.NoError(t, signals.Validate())
	assert.Equal(t, models.LevelMedium, signals.PressureLevel)
	assert.GreaterOrEqual(t, confidence, 0.0)
}

func TestMergeConfidenceBase(t *testing.T) {
	landing := models.NeutralSignals(models.SourceLanding)

	_, confidence := Merge(landing, nil, nil)
	assert.Equal(t, models.DefaultSignalConfidence, confidence, "unreported confidence starts from the default")

	landing.Confidence = models.Float(0)
	_, confidence = Merge(landing, nil, nil)
	assert.Equal(t, 0.0, confidence, "a reported zero is kept")

	ad := models.NeutralSignals(models.SourceAd)
	_, confidence = Merge(landing, &ad, nil)
	assert.InDelta(t, 4*AgreementBonus/6, confidence, 1e-9)
}

func TestMergeConfidenceClamped(t *testing.T) {
	landing := models.NeutralSignals(models.SourceLanding)
	landing.Confidence = models.Float(1.0)
	ad := models.NeutralSignals(models.SourceAd)
	pricing := models.NeutralSignals(models.SourcePricing)

	_, confidence := Merge(landing, &ad, &pricing)
	assert.Equal(t, 1.0, confidence)

	low := models.DecisionSignals{
		PromiseStrength:  models.LevelLow,
		EmotionalTone:    models.ToneCalm,
		ReassuranceLevel: models.LevelLow,
		RiskExposure:     models.LevelLow,
		CognitiveLoad:    models.LevelLow,
		PressureLevel:    models.LevelLow,
		Confidence:       models.Float(0.01),
	}
	high := models.DecisionSignals{
		PromiseStrength:  models.LevelHigh,
		EmotionalTone:    models.ToneAggressive,
		ReassuranceLevel: models.LevelHigh,
		RiskExposure:     models.LevelHigh,
		CognitiveLoad:    models.LevelHigh,
		PressureLevel:    models.LevelHigh,
	}
	_, confidence = Merge(low, &high, &high)
	assert.Equal(t, 0.0, confidence)
}

func randomLevel(r *rand.Rand) models.SignalLevel {
	return models.SignalLevel(r.Intn(4))
}

func randomSignals(r *rand.Rand, source models.Source) models.DecisionSignals {
	return models.DecisionSignals{
		PromiseStrength:  randomLevel(r),
		EmotionalTone:    models.EmotionalTone(r.Intn(5)),
		ReassuranceLevel: randomLevel(r),
		RiskExposure:     randomLevel(r),
		CognitiveLoad:    randomLevel(r),
		PressureLevel:    randomLevel(r),
		Source:           source,
		Confidence:       models.Float(r.Float64()),
	}
}

func TestMergeAlwaysCompleteAndBounded(t *testing.T) {
	r := rand.New(rand.NewSource(11))
	for i := 0; i < 1000; i++ {
		landing := randomSignals(r, models.SourceLanding)
		var ad, pricing *models.DecisionSignals
		if r.Intn(2) == 0 {
			s := randomSignals(r, models.SourceAd)
			ad = &s
		}
		if r.Intn(2) == 0 {
			s := randomSignals(r, models.SourcePricing)
			pricing = &s
		}

		signals, confidence := Merge(landing, ad, pricing)
		require.NoError(t, signals.Validate())
		require.GreaterOrEqual(t, confidence, 0.0)
		require.LessOrEqual(t, confidence, 1.0)

		again, againConfidence := Merge(landing, ad, pricing)
		require.Equal(t, signals, again)
		require.Equal(t, confidence, againConfidence)
	}
}
