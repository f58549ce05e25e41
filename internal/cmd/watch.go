package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/harrison/signalscope/internal/analysis"
	"github.com/harrison/signalscope/internal/display"
	"github.com/harrison/signalscope/internal/models"
	"github.com/harrison/signalscope/internal/parser"
	"github.com/harrison/signalscope/internal/watch"
)

// NewWatchCommand creates the watch command
func NewWatchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch <directory>",
		Short: "Re-analyze page files whenever they change",
		Long: `Watch a directory tree and re-analyze every attribute file or Markdown
snapshot when it is created or saved. Hidden files and directories are
ignored. Press Ctrl+C to stop.`,
		Args: cobra.ExactArgs(1),
		RunE: runWatch,
	}

	cmd.Flags().String("format", formatText, "Output format: text, json")
	cmd.Flags().Bool("initial", true, "Analyze existing files before watching")
	cmd.Flags().Duration("debounce", watch.DefaultDebounceDelay, "Quiet period before a changed file is analyzed")

	return cmd
}

func isInputFile(path string) bool {
	return parser.DetectFormat(path) != parser.FormatUnknown
}

func runWatch(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	if err := validateFormat(format, formatText, formatJSON); err != nil {
		return err
	}
	initial, _ := cmd.Flags().GetBool("initial")
	debounce, _ := cmd.Flags().GetDuration("debounce")

	env, err := setup(cmd, false)
	if err != nil {
		return err
	}
	defer env.Close()

	w, err := watch.New(args[0], isInputFile)
	if err != nil {
		return err
	}
	w.SetDebounceDelay(debounce)

	session := &watchSession{
		analyzer: env.analyzer(true),
		log:      env.log,
		out:      cmd.OutOrStdout(),
		renderer: display.NewRenderer(cmd.OutOrStdout()),
		format:   format,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if initial {
		if files, err := parser.FindInputs([]string{args[0]}); err == nil {
			for _, file := range files {
				session.analyze(ctx, file)
			}
		}
	}

	env.log.LogInfo(fmt.Sprintf("Watching %s for changes", w.RootDir()))
	err = w.Run(ctx, func(ev watch.Event) {
		if ev.Op == watch.Removed {
			env.log.LogInfo(fmt.Sprintf("%s removed", filepath.Base(ev.Path)))
			return
		}
		session.analyze(ctx, ev.Path)
	}, func(err error) {
		env.log.LogWarn(fmt.Sprintf("watch error: %v", err))
	})
	if ctx.Err() != nil {
		return nil
	}
	return err
}

// watchSession analyzes one file at a time and prints the report
type watchSession struct {
	analyzer *analysis.Analyzer
	log      *multiLogger
	out      io.Writer
	renderer *display.Renderer
	format   string
}

func (s *watchSession) analyze(ctx context.Context, path string) {
	req, err := parser.ParseFile(path)
	if err != nil {
		s.log.LogWarn(err.Error())
		return
	}
	report, err := s.analyzer.Analyze(ctx, *req)
	if err != nil {
		s.log.LogWarn(fmt.Sprintf("analyze %s: %v", filepath.Base(path), err))
		return
	}
	if err := renderReports(s.out, s.renderer, []*models.Report{report}, s.format); err != nil {
		s.log.LogError(err.Error())
	}
}
