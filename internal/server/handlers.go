package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/harrison/signalscope/internal/analysis"
	"github.com/harrison/signalscope/internal/learning"
	"github.com/harrison/signalscope/internal/merge"
	"github.com/harrison/signalscope/internal/models"
	"github.com/harrison/signalscope/internal/parser"
)

// errBadRequest marks decoding failures
var errBadRequest = errors.New("bad request")

// errCalibrationDisabled is returned by store endpoints when no store is configured
var errCalibrationDisabled = errors.New("calibration store is disabled")

type quickWinsRequest struct {
	Candidates []string `json:"candidates"`
	Target     int      `json:"target"`
}

type quickWinsResponse struct {
	QuickWins []string `json:"quick_wins"`
}

type setWeightRequest struct {
	Weight float64 `json:"weight"`
	Note   string  `json:"note,omitempty"`
}

type deleteResponse struct {
	Deleted int64 `json:"deleted"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, errBadRequest),
		errors.Is(err, models.ErrInvalidAttributes),
		errors.Is(err, models.ErrInvalidSignals),
		errors.Is(err, learning.ErrInvalidWeight):
		return http.StatusBadRequest
	case errors.Is(err, learning.ErrWeightNotFound):
		return http.StatusNotFound
	case errors.Is(err, errCalibrationDisabled):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError && s.logger != nil {
		s.logger.LogError(fmt.Sprintf("%s %s %s: %v", middleware.GetReqID(r.Context()), r.Method, r.URL.Path, err))
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

// decode reads one JSON document and rejects unknown fields
func decode(w http.ResponseWriter, r *http.Request, v interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: empty body", errBadRequest)
		}
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analysis.Request
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	report, err := s.analyzer.Analyze(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleMerge(w http.ResponseWriter, r *http.Request) {
	var bundle parser.SignalBundle
	if err := decode(w, r, &bundle); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := bundle.Normalize(); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, merge.MergeDetailed(bundle.Landing, bundle.Ad, bundle.Pricing))
}

func (s *Server) handleQuickWins(w http.ResponseWriter, r *http.Request) {
	var req quickWinsRequest
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, quickWinsResponse{QuickWins: s.selector.Select(req.Candidates, req.Target)})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.writeError(w, r, errCalibrationDisabled)
		return
	}
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			s.writeError(w, r, fmt.Errorf("%w: invalid limit %q", errBadRequest, raw))
			return
		}
		limit = n
	}
	runs, err := s.store.GetRecentAnalyses(r.Context(), r.URL.Query().Get("page_type"), limit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if runs == nil {
		runs = []*learning.AnalysisRun{}
	}
	writeJSON(w, http.StatusOK, runs)
}

func (s *Server) handleListWeights(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.writeError(w, r, errCalibrationDisabled)
		return
	}
	weights, err := s.store.ListWeights(r.Context(), chi.URLParam(r, "pageType"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, weights)
}

func (s *Server) handleWeightStats(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.writeError(w, r, errCalibrationDisabled)
		return
	}
	summary, err := s.store.WeightStats(r.Context(), chi.URLParam(r, "pageType"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleSetWeight(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.writeError(w, r, errCalibrationDisabled)
		return
	}
	var req setWeightRequest
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	pageType, issueID := chi.URLParam(r, "pageType"), chi.URLParam(r, "issueID")
	if err := s.store.SetWeight(r.Context(), pageType, issueID, req.Weight, req.Note); err != nil {
		s.writeError(w, r, err)
		return
	}
	stored, err := s.store.GetWeight(r.Context(), pageType, issueID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stored)
}

func (s *Server) handleDeleteWeights(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.writeError(w, r, errCalibrationDisabled)
		return
	}
	deleted, err := s.store.DeleteWeights(r.Context(), chi.URLParam(r, "pageType"), chi.URLParam(r, "issueID"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, deleteResponse{Deleted: deleted})
}
