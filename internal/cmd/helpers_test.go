package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const homePage = `source: home
has_logos: true
has_testimonials: false
has_security_badges: true
has_guarantee: true
has_pricing: false
visual_clutter_level: 0.2
info_hierarchy_quality: 0.8
cta_contrast_level: 0.8
cta_copy: Start your trial
audience_clarity: Growth marketers
offers: ["14-day trial"]
proof_points: ["3x faster onboarding"]
key_lines: ["Ship campaigns in minutes"]
`

type result struct {
	stdout string
	stderr string
	err    error
}

// testHome points SIGNALSCOPE_HOME at a fresh directory
func testHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("SIGNALSCOPE_HOME", home)
	return home
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func execute(t *testing.T, stdin string, args ...string) result {
	t.Helper()
	return executeContext(t, context.Background(), stdin, args...)
}

func executeContext(t *testing.T, ctx context.Context, stdin string, args ...string) result {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append(args, "--log-dir=-"))
	err := cmd.ExecuteContext(ctx)
	return result{stdout: stdout.String(), stderr: stderr.String(), err: err}
}
