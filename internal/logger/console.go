// Package logger provides logging implementations for signalscope analyses.
//
// Loggers record analysis start and completion events plus leveled
// free-form messages. Implementations are thread-safe and write to a
// console writer or a per-run log file.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"

	"github.com/harrison/signalscope/internal/models"
)

// ConsoleLogger writes analysis progress to a writer, one "[HH:MM:SS] [LEVEL]"
// prefixed line per message. Levels are colorized when the writer is the
// process stdout or stderr and color is not disabled.
type ConsoleLogger struct {
	writer      io.Writer
	minLevel    Level
	mutex       sync.Mutex
	colorOutput bool
}

// NewConsoleLogger returns a logger for writer. A nil writer discards
// everything; an unrecognized level means info.
func NewConsoleLogger(writer io.Writer, logLevel string) *ConsoleLogger {
	return &ConsoleLogger{
		writer:      writer,
		minLevel:    ParseLevel(logLevel),
		colorOutput: isTerminal(writer),
	}
}

func isTerminal(w io.Writer) bool {
	if w != os.Stdout && w != os.Stderr {
		return false
	}
	// color.NoColor covers NO_COLOR and non-TTY streams
	return !color.NoColor
}

func (cl *ConsoleLogger) enabled(l Level) bool {
	return cl.writer != nil && l >= cl.minLevel
}

func (cl *ConsoleLogger) LogTrace(message string) { cl.log(LevelTrace, message) }
func (cl *ConsoleLogger) LogDebug(message string) { cl.log(LevelDebug, message) }
func (cl *ConsoleLogger) LogInfo(message string)  { cl.log(LevelInfo, message) }
func (cl *ConsoleLogger) LogWarn(message string)  { cl.log(LevelWarn, message) }
func (cl *ConsoleLogger) LogError(message string) { cl.log(LevelError, message) }

func (cl *ConsoleLogger) log(l Level, message string) {
	if !cl.enabled(l) {
		return
	}

	cl.mutex.Lock()
	defer cl.mutex.Unlock()
	io.WriteString(cl.writer, formatLine(timestamp(), l, cl.colorOutput, message))
}

// LogAnalysisStart logs the start of an analysis at INFO level.
// Format: "[HH:MM:SS] Analyzing <pageType> page: <sources>"
func (cl *ConsoleLogger) LogAnalysisStart(pageType string, sources []models.Source) {
	if !cl.enabled(LevelInfo) {
		return
	}

	cl.mutex.Lock()
	defer cl.mutex.Unlock()

	name := pageType
	if cl.colorOutput {
		name = color.New(color.Bold).Sprint(pageType)
	}
	fmt.Fprintf(cl.writer, "[%s] Analyzing %s page: %s\n", timestamp(), name, joinSources(sources))
}

// LogAnalysisComplete logs a finished analysis at INFO level, and the
// ranked blockers at DEBUG level.
// Format: "[HH:MM:SS] Analysis <id> complete (<duration>): probability 0.38, 3 blockers, 2 quick wins"
func (cl *ConsoleLogger) LogAnalysisComplete(report *models.Report, duration time.Duration) {
	if report == nil || !cl.enabled(LevelInfo) {
		return
	}

	cl.mutex.Lock()
	defer cl.mutex.Unlock()

	ts := timestamp()
	probability := fmt.Sprintf("%.2f", report.Scores.DecisionProbability)
	completeText := "complete"
	if cl.colorOutput {
		scheme := newColorScheme()
		probability = scheme.forProbability(report.Scores.DecisionProbability).Sprint(probability)
		completeText = scheme.success.Sprint(completeText)
	}

	fmt.Fprintf(cl.writer, "[%s] Analysis %s %s (%s): probability %s, %d blockers, %d quick wins\n",
		ts, shortID(report.ID), completeText, formatDuration(duration),
		probability, len(report.TopBlockers), len(report.QuickWins))

	if cl.enabled(LevelDebug) {
		for i, b := range report.TopBlockers {
			fmt.Fprintf(cl.writer, "[%s]   %d. %s\n", ts, i+1, formatBlocker(b, cl.colorOutput))
		}
	}
}

// LogBatchProgress logs progress through a batch of analysis inputs.
// Format: "[HH:MM:SS] Progress: [=====     ] 2/4 (50%)"
func (cl *ConsoleLogger) LogBatchProgress(done, total int) {
	if !cl.enabled(LevelInfo) {
		return
	}

	cl.mutex.Lock()
	defer cl.mutex.Unlock()

	pb := NewProgressBar(total, 10, cl.colorOutput)
	pb.Update(done)
	fmt.Fprintf(cl.writer, "[%s] Progress: %s\n", timestamp(), pb.Render())
}

func timestamp() string {
	return time.Now().Format("15:04:05")
}

func joinSources(sources []models.Source) string {
	if len(sources) == 0 {
		return "no sources"
	}
	parts := make([]string, len(sources))
	for i, s := range sources {
		parts[i] = string(s)
	}
	return strings.Join(parts, ", ")
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// formatDuration renders 250ms, 5s or 1m30s style durations.
func formatDuration(d time.Duration) string {
	switch {
	case d >= time.Minute:
		minutes := d / time.Minute
		remainder := d % time.Minute
		if remainder < time.Second {
			return fmt.Sprintf("%dm", minutes)
		}
		return fmt.Sprintf("%dm%ds", minutes, remainder/time.Second)
	case d >= time.Second:
		return fmt.Sprintf("%ds", int64(d.Seconds()))
	default:
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
}

// NoOpLogger discards everything
type NoOpLogger struct{}

func NewNoOpLogger() *NoOpLogger {
	return &NoOpLogger{}
}

func (n *NoOpLogger) LogTrace(string)                                   {}
func (n *NoOpLogger) LogDebug(string)                                   {}
func (n *NoOpLogger) LogInfo(string)                                    {}
func (n *NoOpLogger) LogWarn(string)                                    {}
func (n *NoOpLogger) LogError(string)                                   {}
func (n *NoOpLogger) LogAnalysisStart(string, []models.Source)          {}
func (n *NoOpLogger) LogAnalysisComplete(*models.Report, time.Duration) {}
