package parser

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/harrison/signalscope/internal/analysis"
	"github.com/harrison/signalscope/internal/models"
)

// ErrEmptyInput is returned for documents with no content
var ErrEmptyInput = errors.New("empty input")

// pageFile is a single-page attribute document
type pageFile struct {
	PageType              string `json:"page_type,omitempty" yaml:"page_type,omitempty"`
	Source                string `json:"source,omitempty" yaml:"source,omitempty"`
	models.PageAttributes `yaml:",inline"`
}

// SignalBundle holds pre-computed signal vectors for a merge
type SignalBundle struct {
	Landing models.DecisionSignals  `json:"landing" yaml:"landing"`
	Ad      *models.DecisionSignals `json:"ad,omitempty" yaml:"ad,omitempty"`
	Pricing *models.DecisionSignals `json:"pricing,omitempty" yaml:"pricing,omitempty"`
}

// Normalize fills unset required fields with neutral defaults, tags each
// vector with its source and validates the result.
func (b *SignalBundle) Normalize() error {
	fill := func(s models.DecisionSignals, source models.Source) (models.DecisionSignals, error) {
		s = s.WithDefaults()
		if s.Source == "" {
			s.Source = source
		}
		if err := s.Validate(); err != nil {
			return s, fmt.Errorf("%s: %w", source, err)
		}
		return s, nil
	}

	var err error
	if b.Landing, err = fill(b.Landing, models.SourceLanding); err != nil {
		return err
	}
	if b.Ad != nil {
		ad, err := fill(*b.Ad, models.SourceAd)
		if err != nil {
			return err
		}
		b.Ad = &ad
	}
	if b.Pricing != nil {
		pricing, err := fill(*b.Pricing, models.SourcePricing)
		if err != nil {
			return err
		}
		b.Pricing = &pricing
	}
	return nil
}

// decoder abstracts the yaml and json decoders so both formats share one
// bundle-detection path
type decoder struct {
	unmarshalLoose  func([]byte, any) error
	unmarshalStrict func([]byte, any) error
}

var yamlDecoder = decoder{
	unmarshalLoose: yaml.Unmarshal,
	unmarshalStrict: func(data []byte, v any) error {
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		return dec.Decode(v)
	},
}

var jsonDecoder = decoder{
	unmarshalLoose: json.Unmarshal,
	unmarshalStrict: func(data []byte, v any) error {
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		return dec.Decode(v)
	},
}

// StructuredParser parses YAML or JSON attribute documents. Unknown keys
// are rejected so that misspelled attributes are not silently treated as
// unobserved.
type StructuredParser struct {
	format Format
	dec    decoder
}

// NewYAMLParser creates a parser for YAML attribute files
func NewYAMLParser() *StructuredParser {
	return &StructuredParser{format: FormatYAML, dec: yamlDecoder}
}

// NewJSONParser creates a parser for JSON attribute files
func NewJSONParser() *StructuredParser {
	return &StructuredParser{format: FormatJSON, dec: jsonDecoder}
}

// Parse reads a single-page document or a bundle with a top-level
// "landing" key.
func (p *StructuredParser) Parse(r io.Reader) (*analysis.Request, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read content: %w", err)
	}
	if len(bytes.TrimSpace(content)) == 0 {
		return nil, ErrEmptyInput
	}

	// Presence check on the raw map decides between the two shapes
	var raw map[string]any
	if err := p.dec.unmarshalLoose(content, &raw); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", p.format, err)
	}

	if _, isBundle := raw["landing"]; isBundle {
		req := &analysis.Request{}
		if err := p.dec.unmarshalStrict(content, req); err != nil {
			return nil, fmt.Errorf("invalid %s bundle: %w", p.format, err)
		}
		return req, nil
	}

	var page pageFile
	if err := p.dec.unmarshalStrict(content, &page); err != nil {
		return nil, fmt.Errorf("invalid %s attributes: %w", p.format, err)
	}
	return &analysis.Request{
		PageType: page.PageType,
		Source:   page.Source,
		Landing:  page.PageAttributes,
	}, nil
}

// ParseSignals reads a signal bundle. YAML is assumed unless format is FormatJSON.
func ParseSignals(r io.Reader, format Format) (*SignalBundle, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read content: %w", err)
	}
	if len(bytes.TrimSpace(content)) == 0 {
		return nil, ErrEmptyInput
	}

	dec := yamlDecoder
	if format == FormatJSON {
		dec = jsonDecoder
	}

	bundle := &SignalBundle{}
	if err := dec.unmarshalStrict(content, bundle); err != nil {
		return nil, fmt.Errorf("invalid signal bundle: %w", err)
	}
	if err := bundle.Normalize(); err != nil {
		return nil, err
	}
	return bundle, nil
}

// ParseSignalsFile reads a signal bundle from a .yaml, .yml or .json file
func ParseSignalsFile(path string) (*SignalBundle, error) {
	format := DetectFormat(path)
	if format != FormatYAML && format != FormatJSON {
		return nil, fmt.Errorf("signal bundles must be yaml or json: %s", filepath.Base(path))
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return ParseSignals(file, format)
}
