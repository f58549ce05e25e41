package cmd

import (
	"time"

	"github.com/harrison/signalscope/internal/logger"
	"github.com/harrison/signalscope/internal/models"
)

// runLogger is implemented by every logger a command fans out to
type runLogger interface {
	LogTrace(message string)
	LogDebug(message string)
	LogInfo(message string)
	LogWarn(message string)
	LogError(message string)
	LogAnalysisStart(pageType string, sources []models.Source)
	LogAnalysisComplete(report *models.Report, duration time.Duration)
}

// multiLogger delegates to the console logger and any extra loggers.
// Batch progress only goes to the console.
type multiLogger struct {
	console *logger.ConsoleLogger
	loggers []runLogger
}

func (ml *multiLogger) each(fn func(runLogger)) {
	fn(ml.console)
	for _, l := range ml.loggers {
		fn(l)
	}
}

func (ml *multiLogger) LogTrace(message string) {
	ml.each(func(l runLogger) { l.LogTrace(message) })
}

func (ml *multiLogger) LogDebug(message string) {
	ml.each(func(l runLogger) { l.LogDebug(message) })
}

func (ml *multiLogger) LogInfo(message string) {
	ml.each(func(l runLogger) { l.LogInfo(message) })
}

func (ml *multiLogger) LogWarn(message string) {
	ml.each(func(l runLogger) { l.LogWarn(message) })
}

func (ml *multiLogger) LogError(message string) {
	ml.each(func(l runLogger) { l.LogError(message) })
}

func (ml *multiLogger) LogAnalysisStart(pageType string, sources []models.Source) {
	ml.each(func(l runLogger) { l.LogAnalysisStart(pageType, sources) })
}

func (ml *multiLogger) LogAnalysisComplete(report *models.Report, duration time.Duration) {
	ml.each(func(l runLogger) { l.LogAnalysisComplete(report, duration) })
}

func (ml *multiLogger) LogBatchProgress(done, total int) {
	ml.console.LogBatchProgress(done, total)
}
