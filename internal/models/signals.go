package models

import (
	"fmt"
	"math"
	"strings"
)

// SignalLevel is an ordinal low/medium/high measurement. The numeric values
// double as the ordinals used when averaging levels across sources.
type SignalLevel int

// Signal level constants
const (
	LevelUnset  SignalLevel = 0 // Optional field not observed
	LevelLow    SignalLevel = 1
	LevelMedium SignalLevel = 2
	LevelHigh   SignalLevel = 3
)

// String returns the lowercase name of the level ("" when unset)
func (l SignalLevel) String() string {
	switch l {
	case LevelLow:
		return "low"
	case LevelMedium:
		return "medium"
	case LevelHigh:
		return "high"
	default:
		return ""
	}
}

// IsSet reports whether the level holds a real value
func (l SignalLevel) IsSet() bool {
	return l >= LevelLow && l <= LevelHigh
}

// ParseSignalLevel parses "low", "medium" or "high" (case-insensitive).
// An empty string parses to LevelUnset.
func ParseSignalLevel(s string) (SignalLevel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return LevelUnset, nil
	case "low":
		return LevelLow, nil
	case "medium":
		return LevelMedium, nil
	case "high":
		return LevelHigh, nil
	default:
		return LevelUnset, fmt.Errorf("invalid signal level %q, must be one of: low, medium, high", s)
	}
}

// MarshalText implements encoding.TextMarshaler
func (l SignalLevel) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (l *SignalLevel) UnmarshalText(text []byte) error {
	parsed, err := ParseSignalLevel(string(text))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

// EmotionalTone describes the emotional register of a page's calls to action.
// The numeric order calm < reassuring < urgent < aggressive is the scale used
// when tones from several sources are averaged.
type EmotionalTone int

// Emotional tone constants
const (
	ToneUnset      EmotionalTone = 0
	ToneCalm       EmotionalTone = 1
	ToneReassuring EmotionalTone = 2
	ToneUrgent     EmotionalTone = 3
	ToneAggressive EmotionalTone = 4
)

// String returns the lowercase name of the tone ("" when unset)
func (t EmotionalTone) String() string {
	switch t {
	case ToneCalm:
		return "calm"
	case ToneReassuring:
		return "reassuring"
	case ToneUrgent:
		return "urgent"
	case ToneAggressive:
		return "aggressive"
	default:
		return ""
	}
}

// IsSet reports whether the tone holds a real value
func (t EmotionalTone) IsSet() bool {
	return t >= ToneCalm && t <= ToneAggressive
}

// ParseEmotionalTone parses a tone name (case-insensitive)
func ParseEmotionalTone(s string) (EmotionalTone, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return ToneUnset, nil
	case "calm":
		return ToneCalm, nil
	case "reassuring":
		return ToneReassuring, nil
	case "urgent":
		return ToneUrgent, nil
	case "aggressive":
		return ToneAggressive, nil
	default:
		return ToneUnset, fmt.Errorf("invalid emotional tone %q, must be one of: calm, reassuring, urgent, aggressive", s)
	}
}

// MarshalText implements encoding.TextMarshaler
func (t EmotionalTone) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (t *EmotionalTone) UnmarshalText(text []byte) error {
	parsed, err := ParseEmotionalTone(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Source tags where a DecisionSignals vector came from
type Source string

// Evidence source constants
const (
	SourceLanding Source = "landing"
	SourceAd      Source = "ad"
	SourcePricing Source = "pricing"
	SourceMerged  Source = "merged"
)

// DefaultSignalConfidence is used when a source carries no confidence of its own
const DefaultSignalConfidence = 0.7

// DecisionSignals is the per-source decision-psychology vector.
// Required fields are always populated; optional fields use LevelUnset when
// the source had no evidence for them.
type DecisionSignals struct {
	// Required
	PromiseStrength  SignalLevel   `json:"promise_strength" yaml:"promise_strength"`
	EmotionalTone    EmotionalTone `json:"emotional_tone" yaml:"emotional_tone"`
	ReassuranceLevel SignalLevel   `json:"reassurance_level" yaml:"reassurance_level"`
	RiskExposure     SignalLevel   `json:"risk_exposure" yaml:"risk_exposure"`
	CognitiveLoad    SignalLevel   `json:"cognitive_load" yaml:"cognitive_load"`
	PressureLevel    SignalLevel   `json:"pressure_level" yaml:"pressure_level"`

	// Optional
	ExpectationGap     SignalLevel `json:"expectation_gap,omitempty" yaml:"expectation_gap,omitempty"`
	ChoiceOverload     SignalLevel `json:"choice_overload,omitempty" yaml:"choice_overload,omitempty"`
	TransparencyLevel  SignalLevel `json:"transparency_level,omitempty" yaml:"transparency_level,omitempty"`
	CommitmentPressure SignalLevel `json:"commitment_pressure,omitempty" yaml:"commitment_pressure,omitempty"`

	// Metadata
	Source     Source         `json:"source" yaml:"source"`
	Confidence *float64       `json:"confidence,omitempty" yaml:"confidence,omitempty"` // nil means "not reported"
	RawSignals map[string]any `json:"raw_signals,omitempty" yaml:"raw_signals,omitempty"`
}

// NeutralSignals returns a fully populated vector with neutral defaults
// (medium levels, calm tone) for the given source.
func NeutralSignals(source Source) DecisionSignals {
	return DecisionSignals{
		PromiseStrength:  LevelMedium,
		EmotionalTone:    ToneCalm,
		ReassuranceLevel: LevelMedium,
		RiskExposure:     LevelMedium,
		CognitiveLoad:    LevelMedium,
		PressureLevel:    LevelMedium,
		Source:           source,
	}
}

// WithDefaults returns a copy whose unset required fields are filled with
// the neutral defaults. Externally supplied vectors pass through this at the
// boundary so that merge logic can rely on completeness.
func (s DecisionSignals) WithDefaults() DecisionSignals {
	out := s
	if !out.PromiseStrength.IsSet() {
		out.PromiseStrength = LevelMedium
	}
	if !out.EmotionalTone.IsSet() {
		out.EmotionalTone = ToneCalm
	}
	if !out.ReassuranceLevel.IsSet() {
		out.ReassuranceLevel = LevelMedium
	}
	if !out.RiskExposure.IsSet() {
		out.RiskExposure = LevelMedium
	}
	if !out.CognitiveLoad.IsSet() {
		out.CognitiveLoad = LevelMedium
	}
	if !out.PressureLevel.IsSet() {
		out.PressureLevel = LevelMedium
	}
	return out
}

// EffectiveConfidence returns the reported confidence, or
// DefaultSignalConfidence when none was reported. A reported 0 stays 0.
func (s DecisionSignals) EffectiveConfidence() float64 {
	if s.Confidence == nil {
		return DefaultSignalConfidence
	}
	return *s.Confidence
}

// Validate checks that every required field is populated and that the
// confidence lies in [0,1].
func (s DecisionSignals) Validate() error {
	required := []struct {
		name string
		set  bool
	}{
		{"promise_strength", s.PromiseStrength.IsSet()},
		{"emotional_tone", s.EmotionalTone.IsSet()},
		{"reassurance_level", s.ReassuranceLevel.IsSet()},
		{"risk_exposure", s.RiskExposure.IsSet()},
		{"cognitive_load", s.CognitiveLoad.IsSet()},
		{"pressure_level", s.PressureLevel.IsSet()},
	}
	for _, field := range required {
		if !field.set {
			return fmt.Errorf("%w: %s is required", ErrInvalidSignals, field.name)
		}
	}
	if c := s.Confidence; c != nil && (math.IsNaN(*c) || *c < 0 || *c > 1) {
		return fmt.Errorf("%w: confidence must be within [0,1], got %v", ErrInvalidSignals, *c)
	}
	return nil
}
