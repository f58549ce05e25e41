package display

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// Warning is a user-facing warning with optional detail
type Warning struct {
	Title      string
	Message    string
	Files      []string
	Suggestion string
}

// Warning writes the warning in yellow when the renderer is colored
func (r *Renderer) Warning(w Warning) {
	var b strings.Builder

	b.WriteString("Warning: ")
	b.WriteString(w.Title)
	b.WriteString("\n")

	if w.Message != "" {
		fmt.Fprintf(&b, "    %s\n", w.Message)
	}

	if len(w.Files) > 0 {
		if len(w.Files) == 1 {
			b.WriteString("    Affected file:\n")
		} else {
			b.WriteString("    Affected files:\n")
		}
		for i, file := range w.Files {
			fmt.Fprintf(&b, "      %d. %s\n", i+1, file)
		}
	}

	if w.Suggestion != "" {
		fmt.Fprintf(&b, "    Suggestion:\n    %s\n", w.Suggestion)
	}

	fmt.Fprint(r.w, r.paint(color.FgYellow, b.String()))
}

// SkippedFiles builds the warning shown when inputs fail to parse
func SkippedFiles(files []string) Warning {
	return Warning{
		Title:      fmt.Sprintf("%d input file(s) skipped", len(files)),
		Files:      files,
		Suggestion: "Run 'signalscope validate' on the files for details",
	}
}
