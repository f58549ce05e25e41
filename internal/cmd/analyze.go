package cmd

import (
	"bytes"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/harrison/signalscope/internal/analysis"
	"github.com/harrison/signalscope/internal/display"
	"github.com/harrison/signalscope/internal/filelock"
	"github.com/harrison/signalscope/internal/parser"
)

// NewAnalyzeCommand creates the analyze command
func NewAnalyzeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze <file-or-directory>...",
		Short: "Score pages and rank their decision blockers",
		Long: `Analyze page attribute files (.yaml, .yml, .json) and Markdown page
snapshots (.md). Directories are scanned recursively.

Each page gets trust, friction and clarity scores, a decision probability,
the top decision blockers and a short list of quick wins. Calibration
weights stored for the page type adjust blocker ranking.

Examples:
  signalscope analyze home.yaml
  signalscope analyze pages/ --format markdown --out report.md
  signalscope analyze pricing.md --page-type pricing --top 5
  signalscope analyze home.yaml --format json --no-history`,
		Args: cobra.MinimumNArgs(1),
		RunE: runAnalyze,
	}

	cmd.Flags().String("format", formatText, "Output format: text, json, markdown, html")
	cmd.Flags().String("out", "", "Write the report to a file instead of stdout")
	cmd.Flags().String("page-type", "", "Page type for every input (overrides the files)")
	cmd.Flags().Int("top", 0, "Number of top blockers (default from config)")
	cmd.Flags().Int("quick-wins", 0, "Number of quick wins (default from config)")
	cmd.Flags().Bool("no-history", false, "Do not record the analyses in history")

	return cmd
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	if err := validateFormat(format, formatText, formatJSON, formatMarkdown, formatHTML); err != nil {
		return err
	}
	outPath, _ := cmd.Flags().GetString("out")
	pageType, _ := cmd.Flags().GetString("page-type")
	noHistory, _ := cmd.Flags().GetBool("no-history")

	env, err := setup(cmd, false)
	if err != nil {
		return err
	}
	defer env.Close()

	files, err := parser.FindInputs(args)
	if err != nil {
		return err
	}

	requests, skipped := parseRequests(env, files)
	if len(skipped) > 0 {
		display.NewRenderer(cmd.ErrOrStderr()).Warning(display.SkippedFiles(skipped))
	}
	if len(requests) == 0 {
		return fmt.Errorf("no valid input files among %d found", len(files))
	}
	if pageType != "" {
		for i := range requests {
			requests[i].PageType = pageType
		}
	}

	analyzer := env.analyzer(!noHistory)
	reports, err := analyzer.AnalyzeBatch(cmd.Context(), requests)
	if err != nil {
		return err
	}
	if pruned, err := analyzer.Prune(cmd.Context()); err != nil {
		env.log.LogWarn(err.Error())
	} else if pruned > 0 {
		env.log.LogDebug(fmt.Sprintf("Pruned %d old analyses", pruned))
	}

	if outPath == "" {
		return renderReports(cmd.OutOrStdout(), display.NewRenderer(cmd.OutOrStdout()), reports, format)
	}

	var buf bytes.Buffer
	if err := renderReports(&buf, display.NewPlainRenderer(&buf), reports, format); err != nil {
		return err
	}
	if err := filelock.LockAndWrite(cmd.Context(), outPath, buf.Bytes()); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", outPath)
	return nil
}

// parseRequests parses and validates every file, logging and collecting
// the ones that fail
func parseRequests(env *environment, files []string) ([]analysis.Request, []string) {
	requests := make([]analysis.Request, 0, len(files))
	var skipped []string
	for _, file := range files {
		req, err := parser.ParseFile(file)
		if err == nil {
			if verr := req.Validate(); verr != nil {
				err = fmt.Errorf("invalid %s: %w", filepath.Base(file), verr)
			}
		}
		if err != nil {
			env.log.LogWarn(err.Error())
			skipped = append(skipped, filepath.Base(file))
			continue
		}
		requests = append(requests, *req)
	}
	return requests, skipped
}
