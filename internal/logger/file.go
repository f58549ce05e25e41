package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/harrison/signalscope/internal/models"
)

// FileLogger logs analysis events to files in .signalscope/logs/.
// It creates a timestamped run log, a detailed log per analysis under
// analyses/, and maintains a latest.log symlink to the most recent run.
// It is thread-safe and supports log level filtering.
type FileLogger struct {
	logDir      string
	runLog      *os.File
	runFile     string
	analysesDir string
	minLevel    Level
	mu          sync.Mutex
}

// NewFileLogger creates a FileLogger writing to .signalscope/logs/ at level info.
func NewFileLogger() (*FileLogger, error) {
	return NewFileLoggerWithDirAndLevel(filepath.Join(".signalscope", "logs"), "info")
}

// NewFileLoggerWithDir creates a FileLogger with a custom log directory at level info.
func NewFileLoggerWithDir(logDir string) (*FileLogger, error) {
	return NewFileLoggerWithDirAndLevel(logDir, "info")
}

// NewFileLoggerWithDirAndLevel creates a FileLogger with a custom log directory and level.
func NewFileLoggerWithDirAndLevel(logDir string, logLevel string) (*FileLogger, error) {
	analysesDir := filepath.Join(logDir, "analyses")
	if err := os.MkdirAll(analysesDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	// run-YYYYMMDD-HHMMSS.log
	runFile := filepath.Join(logDir, fmt.Sprintf("run-%s.log", time.Now().Format("20060102-150405")))
	file, err := os.OpenFile(runFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to create run log file: %w", err)
	}

	symlinkPath := filepath.Join(logDir, "latest.log")
	if _, err := os.Lstat(symlinkPath); err == nil {
		if err := os.Remove(symlinkPath); err != nil {
			file.Close()
			return nil, fmt.Errorf("failed to remove old symlink: %w", err)
		}
	}
	if err := os.Symlink(filepath.Base(runFile), symlinkPath); err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to create symlink: %w", err)
	}

	logger := &FileLogger{
		logDir:      logDir,
		runLog:      file,
		runFile:     runFile,
		analysesDir: analysesDir,
		minLevel:    ParseLevel(logLevel),
	}

	logger.writeRunLog("=== Signalscope Run Log ===\n")
	logger.writeRunLog(fmt.Sprintf("Started at: %s\n\n", time.Now().Format(time.RFC3339)))

	return logger, nil
}

// RunFile returns the path of the current run log
func (fl *FileLogger) RunFile() string {
	return fl.runFile
}

func (fl *FileLogger) LogTrace(message string) { fl.log(LevelTrace, message) }
func (fl *FileLogger) LogDebug(message string) { fl.log(LevelDebug, message) }
func (fl *FileLogger) LogInfo(message string)  { fl.log(LevelInfo, message) }
func (fl *FileLogger) LogWarn(message string)  { fl.log(LevelWarn, message) }
func (fl *FileLogger) LogError(message string) { fl.log(LevelError, message) }

func (fl *FileLogger) log(l Level, message string) {
	if l < fl.minLevel {
		return
	}
	fl.writeRunLog(formatLine(timestamp(), l, false, message))
}

// LogAnalysisStart records the start of an analysis at INFO level.
func (fl *FileLogger) LogAnalysisStart(pageType string, sources []models.Source) {
	if LevelInfo < fl.minLevel {
		return
	}
	fl.writeRunLog(fmt.Sprintf("[%s] Analyzing %s page: %s\n", timestamp(), pageType, joinSources(sources)))
}

// LogAnalysisComplete records the summary line in the run log and writes
// the full report to analyses/analysis-<id>.log.
func (fl *FileLogger) LogAnalysisComplete(report *models.Report, duration time.Duration) {
	if report == nil {
		return
	}
	if LevelInfo >= fl.minLevel {
		fl.writeRunLog(fmt.Sprintf("[%s] Analysis %s complete (%s): %s, probability %.2f\n",
			timestamp(), shortID(report.ID), formatDuration(duration),
			formatColorizedScores(report.Scores, false), report.Scores.DecisionProbability))
	}
	if err := fl.LogReport(report); err != nil {
		fl.log(LevelWarn, fmt.Sprintf("analysis log not written: %v", err))
	}
}

// LogReport writes a detailed per-analysis log file.
func (fl *FileLogger) LogReport(report *models.Report) error {
	fl.mu.Lock()
	defer fl.mu.Unlock()

	name := report.ID
	if name == "" {
		name = time.Now().Format("20060102-150405")
	}
	path := filepath.Join(fl.analysesDir, fmt.Sprintf("analysis-%s.log", name))

	var b strings.Builder
	fmt.Fprintf(&b, "=== Analysis %s ===\n", name)
	fmt.Fprintf(&b, "Page type: %s\n", report.PageType)
	if report.Source != "" {
		fmt.Fprintf(&b, "Source: %s\n", report.Source)
	}
	fmt.Fprintf(&b, "Scores: %s\n", formatColorizedScores(report.Scores, false))
	fmt.Fprintf(&b, "Decision probability: %.2f (confidence %.2f)\n",
		report.Scores.DecisionProbability, report.Scores.Confidence)
	fmt.Fprintf(&b, "Signal confidence: %.2f\n\n", report.SignalConfidence)

	if len(report.TopBlockers) > 0 {
		b.WriteString("=== Top Blockers ===\n")
		for i, blocker := range report.TopBlockers {
			fmt.Fprintf(&b, "%d. %s\n", i+1, formatBlocker(blocker, false))
			for _, e := range blocker.Issue.Evidence {
				fmt.Fprintf(&b, "   evidence: %s\n", e)
			}
			if blocker.Issue.Fix != "" {
				fmt.Fprintf(&b, "   fix: %s\n", blocker.Issue.Fix)
			}
		}
		b.WriteString("\n")
	}
	if len(report.Remainder) > 0 {
		b.WriteString("=== Other Issues ===\n")
		for _, blocker := range report.Remainder {
			fmt.Fprintf(&b, "- %s\n", formatBlocker(blocker, false))
		}
		b.WriteString("\n")
	}
	if len(report.QuickWins) > 0 {
		b.WriteString("=== Quick Wins ===\n")
		for _, w := range report.QuickWins {
			fmt.Fprintf(&b, "- %s\n", w)
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "Completed at: %s\n", time.Now().Format(time.RFC3339))

	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("failed to write analysis log: %w", err)
	}
	return nil
}

// Close flushes and closes the run log file.
func (fl *FileLogger) Close() error {
	fl.mu.Lock()
	defer fl.mu.Unlock()

	if fl.runLog != nil {
		if err := fl.runLog.Sync(); err != nil {
			return fmt.Errorf("failed to sync run log: %w", err)
		}
		if err := fl.runLog.Close(); err != nil {
			return fmt.Errorf("failed to close run log: %w", err)
		}
		fl.runLog = nil
	}
	return nil
}

func (fl *FileLogger) writeRunLog(message string) {
	fl.mu.Lock()
	defer fl.mu.Unlock()

	if fl.runLog != nil {
		fl.runLog.WriteString(message)
		fl.runLog.Sync()
	}
}
