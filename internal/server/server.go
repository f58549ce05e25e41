// Package server exposes the analyzer and the calibration store as a JSON
// HTTP API.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/harrison/signalscope/internal/analysis"
	"github.com/harrison/signalscope/internal/learning"
	"github.com/harrison/signalscope/internal/quickwin"
)

// maxBodyBytes bounds request bodies
const maxBodyBytes = 1 << 20

// Logger is the subset of logger methods the server uses
type Logger interface {
	LogDebug(message string)
	LogInfo(message string)
	LogError(message string)
}

// CalibrationStore is the calibration and history surface of *learning.Store
type CalibrationStore interface {
	SetWeight(ctx context.Context, pageType, issueID string, weight float64, note string) error
	GetWeight(ctx context.Context, pageType, issueID string) (*learning.CalibrationWeight, error)
	ListWeights(ctx context.Context, pageType string) ([]learning.CalibrationWeight, error)
	DeleteWeights(ctx context.Context, pageType, issueID string) (int64, error)
	WeightStats(ctx context.Context, pageType string) (learning.WeightSummary, error)
	GetRecentAnalyses(ctx context.Context, pageType string, limit int) ([]*learning.AnalysisRun, error)
}

var _ CalibrationStore = (*learning.Store)(nil)

// Config holds listener settings
type Config struct {
	Addr            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// Server routes API requests. A nil store disables the calibration and
// history endpoints.
type Server struct {
	analyzer *analysis.Analyzer
	store    CalibrationStore
	logger   Logger
	selector *quickwin.Selector
	router   chi.Router
}

// New builds a Server with its routes registered
func New(analyzer *analysis.Analyzer, store CalibrationStore, logger Logger) *Server {
	s := &Server{
		analyzer: analyzer,
		store:    store,
		logger:   logger,
		selector: quickwin.NewSelector(),
		router:   chi.NewRouter(),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(s.requestLogger)
	s.router.Use(middleware.Recoverer)
}

func (s *Server) setupRoutes() {
	s.router.Get("/healthz", s.handleHealth)

	s.router.Route("/api", func(r chi.Router) {
		r.Post("/analyze", s.handleAnalyze)
		r.Post("/merge", s.handleMerge)
		r.Post("/quickwins", s.handleQuickWins)
		r.Get("/history", s.handleHistory)

		r.Route("/calibration", func(r chi.Router) {
			r.Get("/", s.handleListWeights)
			r.Get("/{pageType}", s.handleListWeights)
			r.Get("/{pageType}/stats", s.handleWeightStats)
			r.Delete("/{pageType}", s.handleDeleteWeights)
			r.Put("/{pageType}/{issueID}", s.handleSetWeight)
			r.Delete("/{pageType}/{issueID}", s.handleDeleteWeights)
		})
	})
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// requestLogger logs one debug line per request with its id and status
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.logger == nil {
			next.ServeHTTP(w, r)
			return
		}
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.LogDebug(fmt.Sprintf("%s %s %s -> %d (%s)",
			middleware.GetReqID(r.Context()), r.Method, r.URL.Path, ww.Status(), time.Since(start).Round(time.Millisecond)))
	})
}

// ListenAndServe serves until ctx is canceled, then shuts down gracefully
func (s *Server) ListenAndServe(ctx context.Context, cfg Config) error {
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 10 * time.Second
	}
	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      s,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		if s.logger != nil {
			s.logger.LogInfo(fmt.Sprintf("Listening on %s", cfg.Addr))
		}
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve %s: %w", cfg.Addr, err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
