package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harrison/signalscope/internal/models"
)

func TestFileLoggerCreatesRunLogAndSymlink(t *testing.T) {
	dir := t.TempDir()
	fl, err := NewFileLoggerWithDirAndLevel(dir, "info")
	require.NoError(t, err)

	fl.LogInfo("hello")
	fl.LogDebug("hidden")
	require.NoError(t, fl.Close())

	target, err := os.Readlink(filepath.Join(dir, "latest.log"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Base(fl.RunFile()), target)

	content, err := os.ReadFile(fl.RunFile())
	require.NoError(t, err)
	assert.Contains(t, string(content), "=== Signalscope Run Log ===")
	assert.Contains(t, string(content), "[INFO] hello")
	assert.NotContains(t, string(content), "hidden")
}

func TestFileLoggerAnalysisLogs(t *testing.T) {
	dir := t.TempDir()
	fl, err := NewFileLoggerWithDir(dir)
	require.NoError(t, err)
	defer fl.Close()

	report := sampleReport()
	report.Remainder = []models.RankedBlocker{
		{Issue: models.IssueSignal{ID: "customer_logos", Status: models.StatusWeak}, DecisionImpactScore: 12},
	}

	fl.LogAnalysisStart("landing", []models.Source{models.SourceLanding})
	fl.LogAnalysisComplete(report, 2*time.Second)

	run, err := os.ReadFile(fl.RunFile())
	require.NoError(t, err)
	assert.Contains(t, string(run), "Analyzing landing page: landing")
	assert.Contains(t, string(run), "Analysis 01234567 complete (2s): trust: 40, friction: 55, clarity: 70, probability 0.38")

	detail, err := os.ReadFile(filepath.Join(dir, "analyses", "analysis-"+report.ID+".log"))
	require.NoError(t, err)
	text := string(detail)
	assert.Contains(t, text, "1. testimonials (missing) impact 74.1")
	assert.Contains(t, text, "evidence: no quotes")
	assert.Contains(t, text, "fix: Add three customer quotes")
	assert.Contains(t, text, "- customer_logos (weak) impact 12.0")
	assert.True(t, strings.Contains(text, "=== Quick Wins ==="))
}

func TestFileLoggerReplacesSymlink(t *testing.T) {
	dir := t.TempDir()
	first, err := NewFileLoggerWithDir(dir)
	require.NoError(t, err)
	require.NoError(t, first.Close())

	time.Sleep(1100 * time.Millisecond)

	second, err := NewFileLoggerWithDir(dir)
	require.NoError(t, err)
	defer second.Close()

	target, err := os.Readlink(filepath.Join(dir, "latest.log"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Base(second.RunFile()), target)
}

func TestFileLoggerWriteAfterClose(t *testing.T) {
	fl, err := NewFileLoggerWithDir(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, fl.Close())
	fl.LogInfo("after close")
	require.NoError(t, fl.Close())
}
