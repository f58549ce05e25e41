// Package parser reads analysis inputs from disk: structured page attribute
// files (.yaml, .yml, .json), either a single page or a
// {landing, ad, pricing} bundle, and Markdown page snapshots (.md).
package parser

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/harrison/signalscope/internal/analysis"
)

// Format is the format of an input file
type Format int

const (
	// FormatUnknown is an unsupported file format
	FormatUnknown Format = iota
	// FormatYAML is a .yaml or .yml attribute file
	FormatYAML
	// FormatJSON is a .json attribute file
	FormatJSON
	// FormatMarkdown is a .md or .markdown page snapshot
	FormatMarkdown
)

// String returns the string representation of the Format
func (f Format) String() string {
	switch f {
	case FormatYAML:
		return "yaml"
	case FormatJSON:
		return "json"
	case FormatMarkdown:
		return "markdown"
	default:
		return "unknown"
	}
}

// SupportedExtensions lists every extension DetectFormat recognizes
var SupportedExtensions = []string{".yaml", ".yml", ".json", ".md", ".markdown"}

// Parser turns one input document into an analysis request
type Parser interface {
	Parse(r io.Reader) (*analysis.Request, error)
}

// DetectFormat detects the input format from the file extension
func DetectFormat(filename string) Format {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".json":
		return FormatJSON
	case ".md", ".markdown":
		return FormatMarkdown
	default:
		return FormatUnknown
	}
}

// NewParser creates a parser for the format
func NewParser(format Format) (Parser, error) {
	switch format {
	case FormatYAML:
		return NewYAMLParser(), nil
	case FormatJSON:
		return NewJSONParser(), nil
	case FormatMarkdown:
		return NewMarkdownParser(), nil
	default:
		return nil, fmt.Errorf("unsupported format: %v", format)
	}
}

// ParseFile detects the format of path, parses it, and sets the request
// Source to the absolute path when the file did not name one.
func ParseFile(path string) (*analysis.Request, error) {
	format := DetectFormat(path)
	if format == FormatUnknown {
		return nil, fmt.Errorf("unknown file format: %s (supported: %s)", path, strings.Join(SupportedExtensions, ", "))
	}

	p, err := NewParser(format)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	req, err := p.Parse(file)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}

	if req.Source == "" {
		absPath, err := filepath.Abs(path)
		if err != nil {
			absPath = path
		}
		req.Source = absPath
	}
	return req, nil
}

// FindInputs expands files and directories into a sorted, deduplicated
// list of absolute paths with a supported extension. Directories are
// scanned recursively; hidden directories are skipped. Explicit file
// arguments are kept regardless of extension so ParseFile can report them.
func FindInputs(paths []string) ([]string, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("no paths provided")
	}

	found := make(map[string]bool)
	for _, path := range paths {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve path %q: %w", path, err)
		}

		info, err := os.Stat(absPath)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, fmt.Errorf("path %q does not exist", absPath)
			}
			return nil, fmt.Errorf("failed to access path %q: %w", absPath, err)
		}

		if !info.IsDir() {
			found[absPath] = true
			continue
		}

		err = filepath.WalkDir(absPath, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if p != absPath && strings.HasPrefix(d.Name(), ".") {
					return filepath.SkipDir
				}
				return nil
			}
			if DetectFormat(d.Name()) != FormatUnknown {
				found[p] = true
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to scan directory %q: %w", absPath, err)
		}
	}

	if len(found) == 0 {
		return nil, fmt.Errorf("no input files found (supported: %s)", strings.Join(SupportedExtensions, ", "))
	}

	result := make([]string, 0, len(found))
	for p := range found {
		result = append(result, p)
	}
	sort.Strings(result)
	return result, nil
}
