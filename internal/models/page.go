package models

import (
	"errors"
	"fmt"
	"math"
)

// Boundary validation errors
var (
	ErrInvalidAttributes = errors.New("invalid page attributes")
	ErrInvalidSignals    = errors.New("invalid decision signals")
)

// PageAttributes is the sparse set of observations extracted from a page.
// A nil pointer means the attribute was not observed; it never means false.
type PageAttributes struct {
	// Trust evidence
	HasLogos          *bool `json:"has_logos,omitempty" yaml:"has_logos,omitempty"`
	HasTestimonials   *bool `json:"has_testimonials,omitempty" yaml:"has_testimonials,omitempty"`
	HasSecurityBadges *bool `json:"has_security_badges,omitempty" yaml:"has_security_badges,omitempty"`
	HasGuarantee      *bool `json:"has_guarantee,omitempty" yaml:"has_guarantee,omitempty"`
	HasFAQ            *bool `json:"has_faq,omitempty" yaml:"has_faq,omitempty"`
	HasPricing        *bool `json:"has_pricing,omitempty" yaml:"has_pricing,omitempty"`

	// Layout measurements in [0,1]
	VisualClutterLevel   *float64 `json:"visual_clutter_level,omitempty" yaml:"visual_clutter_level,omitempty"`
	InfoHierarchyQuality *float64 `json:"info_hierarchy_quality,omitempty" yaml:"info_hierarchy_quality,omitempty"`
	CTAContrastLevel     *float64 `json:"cta_contrast_level,omitempty" yaml:"cta_contrast_level,omitempty"`

	// Copy. Nil lists are "not observed"; empty lists are "observed, none found".
	CTACopy         *string  `json:"cta_copy,omitempty" yaml:"cta_copy,omitempty"`
	AudienceClarity *string  `json:"audience_clarity,omitempty" yaml:"audience_clarity,omitempty"`
	Offers          []string `json:"offers" yaml:"offers"`
	ProofPoints     []string `json:"proof_points" yaml:"proof_points"`
	KeyLines        []string `json:"key_lines" yaml:"key_lines"`
}

// yamlPageAttributes mirrors PageAttributes field for field so one converts
// to the other. The lists are encoded separately through yamlLists.
type yamlPageAttributes struct {
	HasLogos          *bool `yaml:"has_logos,omitempty"`
	HasTestimonials   *bool `yaml:"has_testimonials,omitempty"`
	HasSecurityBadges *bool `yaml:"has_security_badges,omitempty"`
	HasGuarantee      *bool `yaml:"has_guarantee,omitempty"`
	HasFAQ            *bool `yaml:"has_faq,omitempty"`
	HasPricing        *bool `yaml:"has_pricing,omitempty"`

	VisualClutterLevel   *float64 `yaml:"visual_clutter_level,omitempty"`
	InfoHierarchyQuality *float64 `yaml:"info_hierarchy_quality,omitempty"`
	CTAContrastLevel     *float64 `yaml:"cta_contrast_level,omitempty"`

	CTACopy         *string  `yaml:"cta_copy,omitempty"`
	AudienceClarity *string  `yaml:"audience_clarity,omitempty"`
	Offers          []string `yaml:"-"`
	ProofPoints     []string `yaml:"-"`
	KeyLines        []string `yaml:"-"`
}

// yamlLists holds the lists behind pointers: nil is omitted, empty is [].
type yamlLists struct {
	Offers      *[]string `yaml:"offers,omitempty"`
	ProofPoints *[]string `yaml:"proof_points,omitempty"`
	KeyLines    *[]string `yaml:"key_lines,omitempty"`
}

// MarshalYAML implements yaml.Marshaler. A nil list is left out and an
// observed-empty list is written as [], so decoding restores both.
func (a PageAttributes) MarshalYAML() (interface{}, error) {
	lists := yamlLists{}
	if a.Offers != nil {
		lists.Offers = &a.Offers
	}
	if a.ProofPoints != nil {
		lists.ProofPoints = &a.ProofPoints
	}
	if a.KeyLines != nil {
		lists.KeyLines = &a.KeyLines
	}
	return struct {
		yamlPageAttributes `yaml:",inline"`
		yamlLists          `yaml:",inline"`
	}{yamlPageAttributes(a), lists}, nil
}

// Validate checks the measurement ranges. Scoring assumes validated input.
func (a PageAttributes) Validate() error {
	measurements := []struct {
		name  string
		value *float64
	}{
		{"visual_clutter_level", a.VisualClutterLevel},
		{"info_hierarchy_quality", a.InfoHierarchyQuality},
		{"cta_contrast_level", a.CTAContrastLevel},
	}
	for _, m := range measurements {
		if m.value == nil {
			continue
		}
		if math.IsNaN(*m.value) || *m.value < 0 || *m.value > 1 {
			return fmt.Errorf("%w: %s must be within [0,1], got %v", ErrInvalidAttributes, m.name, *m.value)
		}
	}
	return nil
}

// Bool returns a pointer to v
func Bool(v bool) *bool { return &v }

// Float returns a pointer to v
func Float(v float64) *float64 { return &v }

// String returns a pointer to v
func String(v string) *string { return &v }
