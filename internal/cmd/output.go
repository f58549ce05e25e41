package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/harrison/signalscope/internal/display"
	"github.com/harrison/signalscope/internal/models"
)

// Output formats accepted by --format
const (
	formatText     = "text"
	formatJSON     = "json"
	formatMarkdown = "markdown"
	formatHTML     = "html"
)

func validateFormat(format string, allowed ...string) error {
	for _, f := range allowed {
		if format == f {
			return nil
		}
	}
	return fmt.Errorf("invalid format %q, must be one of: %s", format, strings.Join(allowed, ", "))
}

// writeJSON writes v as indented JSON
func writeJSON(w io.Writer, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	_, err = fmt.Fprintf(w, "%s\n", data)
	return err
}

// renderReports writes reports in the requested format. A single report is
// written as a JSON object, several as an array.
func renderReports(w io.Writer, renderer *display.Renderer, reports []*models.Report, format string) error {
	switch format {
	case formatJSON:
		if len(reports) == 1 {
			return writeJSON(w, reports[0])
		}
		return writeJSON(w, reports)

	case formatMarkdown:
		parts := make([]string, len(reports))
		for i, r := range reports {
			parts[i] = display.Markdown(r)
		}
		_, err := io.WriteString(w, strings.Join(parts, "\n---\n\n"))
		return err

	case formatHTML:
		var buf bytes.Buffer
		for _, r := range reports {
			html, err := display.HTML(r)
			if err != nil {
				return fmt.Errorf("render html: %w", err)
			}
			buf.WriteString(html)
		}
		_, err := w.Write(buf.Bytes())
		return err

	default:
		for i, r := range reports {
			if i > 0 {
				fmt.Fprintln(w)
			}
			renderer.Report(r)
		}
		return nil
	}
}
