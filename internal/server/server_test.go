package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harrison/signalscope/internal/analysis"
	"github.com/harrison/signalscope/internal/learning"
	"github.com/harrison/signalscope/internal/merge"
	"github.com/harrison/signalscope/internal/models"
	"github.com/harrison/signalscope/internal/scoring"
)

const landingJSON = `{
  "source": "home.json",
  "landing": {
    "has_logos": true,
    "has_testimonials": false,
    "has_security_badges": true,
    "has_guarantee": true,
    "has_pricing": false,
    "visual_clutter_level": 0.2,
    "info_hierarchy_quality": 0.8,
    "cta_contrast_level": 0.8,
    "cta_copy": "Start your trial",
    "audience_clarity": "Growth marketers",
    "offers": ["14-day trial"],
    "proof_points": ["3x faster onboarding"],
    "key_lines": ["Ship campaigns in minutes"]
  }
}`

type captureLogger struct {
	debug  []string
	errors []string
}

func (l *captureLogger) LogDebug(m string) { l.debug = append(l.debug, m) }
func (l *captureLogger) LogInfo(string)    {}
func (l *captureLogger) LogError(m string) { l.errors = append(l.errors, m) }

func newTestServer(t *testing.T) (*Server, *learning.Store) {
	t.Helper()
	store, err := learning.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	analyzer := analysis.NewAnalyzer(store, nil, analysis.Options{RecordHistory: true})
	return New(analyzer, store, nil), store
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), rec.Body.String())
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := do(t, srv, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Content-Type"))
}

func TestAnalyze(t *testing.T) {
	srv, store := newTestServer(t)

	rec := do(t, srv, http.MethodPost, "/api/analyze", landingJSON)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var report models.Report
	decodeBody(t, rec, &report)
	assert.NotEmpty(t, report.ID)
	assert.Equal(t, "home.json", report.Source)
	require.NotEmpty(t, report.TopBlockers)
	assert.Equal(t, scoring.IssueTestimonials, report.TopBlockers[0].Issue.ID)
	assert.LessOrEqual(t, len(report.QuickWins), 3)
	assert.NotContains(t, rec.Body.String(), "remainder")

	runs, err := store.GetRecentAnalyses(context.Background(), "", 0)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, report.ID, runs[0].ID)
}

func TestAnalyzeRejectsBadInput(t *testing.T) {
	srv, _ := newTestServer(t)

	tests := []struct {
		name string
		body string
	}{
		{"empty body", ""},
		{"malformed json", `{"landing":`},
		{"unknown field", `{"landing": {}, "colour": "red"}`},
		{"measurement out of range", `{"landing": {"visual_clutter_level": 1.5}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, srv, http.MethodPost, "/api/analyze", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)

			var body map[string]string
			decodeBody(t, rec, &body)
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestMerge(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := do(t, srv, http.MethodPost, "/api/merge",
		`{"landing": {"reassurance_level": "low"}, "ad": {"reassurance_level": "high"}}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var result merge.Result
	decodeBody(t, rec, &result)
	assert.Equal(t, models.LevelMedium, result.Signals.ReassuranceLevel)
	assert.Equal(t, models.SourceMerged, result.Signals.Source)
	assert.NotEmpty(t, result.Agreements)
}

func TestMergeRejectsInvalidSignals(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := do(t, srv, http.MethodPost, "/api/merge", `{"landing": {"confidence": 2}}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestQuickWins(t *testing.T) {
	srv, _ := newTestServer(t)

	body := `{"candidates": [
		"Add customer testimonials near the signup form",
		"Add customer testimonials near the signup button",
		"Improve things",
		"Add pricing to the landing page above the fold"
	], "target": 5}`
	rec := do(t, srv, http.MethodPost, "/api/quickwins", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp quickWinsResponse
	decodeBody(t, rec, &resp)
	assert.Equal(t, []string{
		"Add customer testimonials near the signup form",
		"Add pricing to the landing page above the fold",
	}, resp.QuickWins)
}

func TestCalibrationLifecycle(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := do(t, srv, http.MethodPut, "/api/calibration/landing/testimonials", `{"weight": 1.5, "note": "A/B test"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var saved learning.CalibrationWeight
	decodeBody(t, rec, &saved)
	rec = do(t, srv, http.MethodPut, "/api/calibration/landing/faq", `{"weight": 0.5}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	rec = do(t, srv, http.MethodPut, "/api/calibration/pricing/faq", `{"weight": 2}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var weights []learning.CalibrationWeight
	decodeBody(t, do(t, srv, http.MethodGet, "/api/calibration/landing", ""), &weights)
	require.Len(t, weights, 2)
	assert.Equal(t, "faq", weights[0].IssueID)
	assert.Equal(t, "A/B test", weights[1].Note)

	// the PUT response is the stored row
	assert.Equal(t, weights[1].PageType, saved.PageType)
	assert.Equal(t, weights[1].IssueID, saved.IssueID)
	assert.Equal(t, weights[1].Weight, saved.Weight)
	assert.True(t, weights[1].UpdatedAt.Equal(saved.UpdatedAt), "updated_at %v != %v", saved.UpdatedAt, weights[1].UpdatedAt)

	decodeBody(t, do(t, srv, http.MethodGet, "/api/calibration", ""), &weights)
	assert.Len(t, weights, 3)

	var summary learning.WeightSummary
	decodeBody(t, do(t, srv, http.MethodGet, "/api/calibration/landing/stats", ""), &summary)
	assert.Equal(t, 2, summary.Count)
	assert.Equal(t, 1, summary.Boosted)
	assert.Equal(t, 1, summary.Dampened)
	assert.InDelta(t, 1.0, summary.Mean, 1e-9)

	var deleted deleteResponse
	decodeBody(t, do(t, srv, http.MethodDelete, "/api/calibration/landing/faq", ""), &deleted)
	assert.Equal(t, int64(1), deleted.Deleted)
	decodeBody(t, do(t, srv, http.MethodDelete, "/api/calibration/pricing", ""), &deleted)
	assert.Equal(t, int64(1), deleted.Deleted)

	decodeBody(t, do(t, srv, http.MethodGet, "/api/calibration", ""), &weights)
	require.Len(t, weights, 1)
	assert.Equal(t, "testimonials", weights[0].IssueID)
}

func TestCalibrationRejectsInvalidWeight(t *testing.T) {
	srv, _ := newTestServer(t)

	for _, body := range []string{`{"weight": 0}`, `{"weight": -1}`, `{"weight": 11}`} {
		rec := do(t, srv, http.MethodPut, "/api/calibration/landing/faq", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
	}
}

func TestCalibrationWeightsAffectAnalysis(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := do(t, srv, http.MethodPut, "/api/calibration/landing/testimonials", `{"weight": 0.5}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var report models.Report
	decodeBody(t, do(t, srv, http.MethodPost, "/api/analyze", landingJSON), &report)
	require.NotEmpty(t, report.TopBlockers)
	assert.Equal(t, scoring.IssuePricingVisibility, report.TopBlockers[0].Issue.ID)
}

func TestHistory(t *testing.T) {
	srv, _ := newTestServer(t)

	var runs []learning.AnalysisRun
	decodeBody(t, do(t, srv, http.MethodGet, "/api/history", ""), &runs)
	assert.Empty(t, runs)

	require.Equal(t, http.StatusOK, do(t, srv, http.MethodPost, "/api/analyze", landingJSON).Code)
	require.Equal(t, http.StatusOK, do(t, srv, http.MethodPost, "/api/analyze", landingJSON).Code)

	decodeBody(t, do(t, srv, http.MethodGet, "/api/history?limit=1", ""), &runs)
	require.Len(t, runs, 1)
	assert.Equal(t, analysis.DefaultPageType, runs[0].PageType)
	assert.Equal(t, scoring.IssueTestimonials, runs[0].TopBlockers[0])

	decodeBody(t, do(t, srv, http.MethodGet, "/api/history?page_type=pricing", ""), &runs)
	assert.Empty(t, runs)

	assert.Equal(t, http.StatusBadRequest, do(t, srv, http.MethodGet, "/api/history?limit=abc", "").Code)
}

func TestStoreEndpointsWithoutStore(t *testing.T) {
	srv := New(analysis.NewAnalyzer(nil, nil, analysis.Options{}), nil, nil)

	for _, path := range []string{"/api/history", "/api/calibration", "/api/calibration/landing/stats"} {
		assert.Equal(t, http.StatusServiceUnavailable, do(t, srv, http.MethodGet, path, "").Code, path)
	}
	assert.Equal(t, http.StatusOK, do(t, srv, http.MethodPost, "/api/analyze", landingJSON).Code)
}

func TestRequestLoggingAndRecovery(t *testing.T) {
	log := &captureLogger{}
	srv := New(analysis.NewAnalyzer(nil, nil, analysis.Options{}), nil, log)
	srv.router.Get("/panic", func(http.ResponseWriter, *http.Request) { panic("boom") })

	assert.Equal(t, http.StatusInternalServerError, do(t, srv, http.MethodGet, "/panic", "").Code)
	assert.Equal(t, http.StatusOK, do(t, srv, http.MethodGet, "/healthz", "").Code)

	require.Len(t, log.debug, 2)
	assert.Contains(t, log.debug[1], "GET /healthz -> 200")
}

func TestListenAndServeStopsOnCancel(t *testing.T) {
	srv, _ := newTestServer(t)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- srv.ListenAndServe(ctx, Config{Addr: "127.0.0.1:0"}) }()
	cancel()

	assert.NoError(t, <-done)
}
