package logger

import (
	"strings"

	"github.com/fatih/color"
)

// Level orders log severities from most to least verbose
type Level int

const (
	LevelTrace Level = iota
	LevelDebug
	LevelInfo
	LevelWarn
	LevelError
)

var levelLabels = [...]string{"TRACE", "DEBUG", "INFO", "WARN", "ERROR"}

var levelColors = [...]color.Attribute{color.FgHiBlack, color.FgCyan, color.FgBlue, color.FgYellow, color.FgRed}

// ParseLevel maps trace, debug, info, warn or error (any case) to a Level.
// Anything else is LevelInfo.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return LevelTrace
	case "debug":
		return LevelDebug
	case "warn":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

func (l Level) valid() bool {
	return l >= LevelTrace && l <= LevelError
}

func (l Level) String() string {
	if !l.valid() {
		return "INFO"
	}
	return levelLabels[l]
}

func (l Level) label(colored bool) string {
	if !colored || !l.valid() {
		return l.String()
	}
	return color.New(levelColors[l]).Sprint(levelLabels[l])
}

func formatLine(ts string, l Level, colored bool, message string) string {
	return "[" + ts + "] [" + l.label(colored) + "] " + message + "\n"
}
