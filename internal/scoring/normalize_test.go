package scoring

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harrison/signalscope/internal/models"
)

func TestBucketScore(t *testing.T) {
	tests := []struct {
		score float64
		want  models.SignalLevel
	}{
		{0, models.LevelLow},
		{39.99, models.LevelLow},
		{40, models.LevelMedium},
		{50, models.LevelMedium},
		{60, models.LevelMedium},
		{60.01, models.LevelHigh},
		{100, models.LevelHigh},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, BucketScore(tt.score), "score %v", tt.score)
	}
}

func TestToneOf(t *testing.T) {
	tests := []struct {
		name string
		copy *string
		want models.EmotionalTone
	}{
		{"no copy", nil, models.ToneCalm},
		{"plain copy", models.String("Learn more"), models.ToneCalm},
		{"urgency", models.String("Buy now"), models.ToneUrgent},
		{"urgency case-insensitive", models.String("HURRY, offer ends"), models.ToneUrgent},
		{"reassurance", models.String("Try it free"), models.ToneReassuring},
		{"urgency wins over reassurance", models.String("Start free today"), models.ToneUrgent},
		{"substring is not a match", models.String("Know your numbers"), models.ToneCalm},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ToneOf(tt.copy))
		})
	}
}

func TestRiskExposure(t *testing.T) {
	tests := []struct {
		name  string
		attrs models.PageAttributes
		want  models.SignalLevel
	}{
		{"nothing observed", models.PageAttributes{}, models.LevelMedium},
		{"explicitly absent", models.PageAttributes{HasGuarantee: models.Bool(false)}, models.LevelHigh},
		{"all explicitly absent", models.PageAttributes{
			HasTestimonials:   models.Bool(false),
			HasGuarantee:      models.Bool(false),
			HasSecurityBadges: models.Bool(false),
		}, models.LevelHigh},
		{"one signal", models.PageAttributes{HasTestimonials: models.Bool(true)}, models.LevelMedium},
		{"two signals", models.PageAttributes{HasTestimonials: models.Bool(true), HasGuarantee: models.Bool(true)}, models.LevelLow},
		{"three signals", models.PageAttributes{
			HasTestimonials:   models.Bool(true),
			HasGuarantee:      models.Bool(true),
			HasSecurityBadges: models.Bool(true),
		}, models.LevelLow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RiskExposure(tt.attrs))
		})
	}
}

func TestNormalizeStrongPage(t *testing.T) {
	signals := Normalize(strongPage(), models.SourceLanding)

	require.NoError(t, signals.Validate())
	assert.Equal(t, models.SourceLanding, signals.Source)
	assert.Equal(t, models.LevelHigh, signals.PromiseStrength)  // clarity 76
	assert.Equal(t, models.LevelHigh, signals.ReassuranceLevel) // trust 72
	assert.Equal(t, models.LevelLow, signals.CognitiveLoad)     // friction 18
	assert.Equal(t, models.LevelMedium, signals.RiskExposure)   // testimonials only
	assert.Equal(t, models.ToneCalm, signals.EmotionalTone)
	assert.Equal(t, models.LevelLow, signals.PressureLevel)
	assert.Equal(t, models.LevelHigh, signals.TransparencyLevel)
	assert.Equal(t, models.LevelLow, signals.ChoiceOverload)
	assert.Equal(t, models.LevelUnset, signals.CommitmentPressure)
	assert.Equal(t, models.LevelUnset, signals.ExpectationGap)
	require.NotNil(t, signals.Confidence)
	assert.Equal(t, 0.83, *signals.Confidence)
}

func TestNormalizeEmptyAttributesIsNeutral(t *testing.T) {
	signals := Normalize(models.PageAttributes{}, models.SourceAd)

	require.NoError(t, signals.Validate())
	assert.Equal(t, models.SourceAd, signals.Source)
	assert.Equal(t, models.LevelLow, signals.PromiseStrength) // clarity 38
	assert.Equal(t, models.LevelMedium, signals.ReassuranceLevel)
	assert.Equal(t, models.LevelMedium, signals.RiskExposure)
	assert.Equal(t, models.LevelMedium, signals.CognitiveLoad)
	assert.Equal(t, models.LevelMedium, signals.PressureLevel)
	assert.Equal(t, models.ToneCalm, signals.EmotionalTone)
	assert.Equal(t, models.LevelUnset, signals.TransparencyLevel)
	assert.Equal(t, models.LevelUnset, signals.ChoiceOverload)
}

func TestNormalizeUrgentCopyRaisesPressure(t *testing.T) {
	attrs := models.PageAttributes{CTACopy: models.String("Claim your spot today")}
	signals := Normalize(attrs, models.SourceAd)

	assert.Equal(t, models.ToneUrgent, signals.EmotionalTone)
	assert.Equal(t, models.LevelHigh, signals.PressureLevel)
}

func TestNormalizeAlwaysComplete(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	for i := 0; i < 500; i++ {
		signals := Normalize(randomAttributes(r), models.SourceLanding)
		require.NoError(t, signals.Validate())
	}
}
