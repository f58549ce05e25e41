// Package analysis runs the full scoring pipeline for one page: rule
// scoring, per-source normalization, signal merging, issue ranking and
// quick-win selection. It is the only layer that talks to the calibration
// store and the logger; the scoring packages it drives are pure.
package analysis

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/harrison/signalscope/internal/learning"
	"github.com/harrison/signalscope/internal/merge"
	"github.com/harrison/signalscope/internal/models"
	"github.com/harrison/signalscope/internal/quickwin"
	"github.com/harrison/signalscope/internal/ranking"
	"github.com/harrison/signalscope/internal/scoring"
)

// DefaultPageType is used when neither the request nor the options name one
const DefaultPageType = "landing"

// Logger is the subset of logger methods the analyzer uses
type Logger interface {
	LogDebug(message string)
	LogInfo(message string)
	LogWarn(message string)
	LogAnalysisStart(pageType string, sources []models.Source)
	LogAnalysisComplete(report *models.Report, duration time.Duration)
}

// progressLogger is implemented by loggers that can render batch progress
type progressLogger interface {
	LogBatchProgress(done, total int)
}

// Store loads calibration weights and records analysis history.
// *learning.Store satisfies it.
type Store interface {
	WeightsFor(ctx context.Context, pageType string) (scoring.WeightMap, error)
	RecordAnalysis(ctx context.Context, run *learning.AnalysisRun) error
	CleanupOldAnalyses(ctx context.Context, keepDays int) (int64, error)
}

var _ Store = (*learning.Store)(nil)

// Options tunes an Analyzer. Zero values fall back to defaults.
type Options struct {
	TopBlockers     int
	QuickWins       int
	DefaultPageType string
	// RecordHistory stores every report in the Store when one is configured
	RecordHistory   bool
	KeepHistoryDays int
}

// Request is one page to analyze. Ad and Pricing are optional extra
// evidence sources; when present their signals are merged with the
// landing page's.
type Request struct {
	PageType string                 `json:"page_type,omitempty" yaml:"page_type,omitempty"`
	Source   string                 `json:"source,omitempty" yaml:"source,omitempty"`
	Landing  models.PageAttributes  `json:"landing" yaml:"landing"`
	Ad       *models.PageAttributes `json:"ad,omitempty" yaml:"ad,omitempty"`
	Pricing  *models.PageAttributes `json:"pricing,omitempty" yaml:"pricing,omitempty"`
}

// Sources lists the evidence sources present in the request
func (r Request) Sources() []models.Source {
	sources := []models.Source{models.SourceLanding}
	if r.Ad != nil {
		sources = append(sources, models.SourceAd)
	}
	if r.Pricing != nil {
		sources = append(sources, models.SourcePricing)
	}
	return sources
}

// Validate checks every attribute set in the request
func (r Request) Validate() error {
	if err := r.Landing.Validate(); err != nil {
		return fmt.Errorf("landing: %w", err)
	}
	if r.Ad != nil {
		if err := r.Ad.Validate(); err != nil {
			return fmt.Errorf("ad: %w", err)
		}
	}
	if r.Pricing != nil {
		if err := r.Pricing.Validate(); err != nil {
			return fmt.Errorf("pricing: %w", err)
		}
	}
	return nil
}

// Analyzer assembles reports. It is safe for concurrent use when its Store is.
type Analyzer struct {
	store    Store
	logger   Logger
	opts     Options
	selector *quickwin.Selector
	now      func() time.Time
}

// NewAnalyzer creates an Analyzer. store and logger may be nil.
func NewAnalyzer(store Store, logger Logger, opts Options) *Analyzer {
	if opts.TopBlockers <= 0 {
		opts.TopBlockers = ranking.DefaultTopN
	}
	if opts.QuickWins <= 0 {
		opts.QuickWins = quickwin.DefaultTarget
	}
	if opts.DefaultPageType == "" {
		opts.DefaultPageType = DefaultPageType
	}
	return &Analyzer{
		store:    store,
		logger:   logger,
		opts:     opts,
		selector: quickwin.NewSelector(),
		now:      time.Now,
	}
}

// Analyze validates the request and runs the pipeline. Calibration and
// history failures are logged and never fail the analysis.
func (a *Analyzer) Analyze(ctx context.Context, req Request) (*models.Report, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := a.now()
	pageType := req.PageType
	if pageType == "" {
		pageType = a.opts.DefaultPageType
	}
	if a.logger != nil {
		a.logger.LogAnalysisStart(pageType, req.Sources())
	}

	scores := scoring.Score(req.Landing)
	signals, signalConfidence := a.signals(req)

	issues := scoring.DeriveIssues(req.Landing, pageType, a.weights(ctx, pageType))
	top, remainder := ranking.RankN(issues, a.opts.TopBlockers)

	candidates := make([]string, 0, len(top)+len(scores.RecommendedQuickWins))
	for _, b := range top {
		if b.Issue.Fix != "" {
			candidates = append(candidates, b.Issue.Fix)
		}
	}
	candidates = append(candidates, scores.RecommendedQuickWins...)

	report := &models.Report{
		ID:               uuid.NewString(),
		PageType:         pageType,
		Source:           req.Source,
		Scores:           scores,
		Signals:          signals,
		SignalConfidence: signalConfidence,
		TopBlockers:      top,
		QuickWins:        a.selector.Select(candidates, a.opts.QuickWins),
		DeepChanges:      scores.RecommendedDeepChanges,
		CreatedAt:        start.UTC(),
		Remainder:        remainder,
	}

	a.record(ctx, report)
	if a.logger != nil {
		a.logger.LogAnalysisComplete(report, a.now().Sub(start))
	}
	return report, nil
}

// AnalyzeBatch analyzes requests in order and stops at the first error.
// Loggers that support it are sent a progress line after each request.
func (a *Analyzer) AnalyzeBatch(ctx context.Context, reqs []Request) ([]*models.Report, error) {
	progress, _ := a.logger.(progressLogger)
	reports := make([]*models.Report, 0, len(reqs))
	for i, req := range reqs {
		report, err := a.Analyze(ctx, req)
		if err != nil {
			label := req.Source
			if label == "" {
				label = fmt.Sprintf("#%d", i+1)
			}
			return reports, fmt.Errorf("analyze %s: %w", label, err)
		}
		reports = append(reports, report)
		if progress != nil && len(reqs) > 1 {
			progress.LogBatchProgress(i+1, len(reqs))
		}
	}
	return reports, nil
}

// Prune removes history older than the configured retention. Returns the
// number of removed runs.
func (a *Analyzer) Prune(ctx context.Context) (int64, error) {
	if a.store == nil || a.opts.KeepHistoryDays <= 0 {
		return 0, nil
	}
	deleted, err := a.store.CleanupOldAnalyses(ctx, a.opts.KeepHistoryDays)
	if err != nil {
		return 0, fmt.Errorf("prune history: %w", err)
	}
	return deleted, nil
}

func (a *Analyzer) signals(req Request) (models.DecisionSignals, float64) {
	landing := scoring.Normalize(req.Landing, models.SourceLanding)
	if req.Ad == nil && req.Pricing == nil {
		return landing, landing.EffectiveConfidence()
	}

	var ad, pricing *models.DecisionSignals
	if req.Ad != nil {
		s := scoring.Normalize(*req.Ad, models.SourceAd)
		ad = &s
	}
	if req.Pricing != nil {
		s := scoring.Normalize(*req.Pricing, models.SourcePricing)
		pricing = &s
	}
	result := merge.MergeDetailed(landing, ad, pricing)
	if a.logger != nil {
		for _, f := range result.Agreements {
			if f.Adjustment < 0 {
				a.logger.LogDebug(fmt.Sprintf("sources disagree on %s", f.Field))
			}
		}
	}
	return result.Signals, result.Confidence
}

func (a *Analyzer) weights(ctx context.Context, pageType string) scoring.WeightProvider {
	if a.store == nil {
		return scoring.NeutralWeights{}
	}
	weights, err := a.store.WeightsFor(ctx, pageType)
	if err != nil {
		a.warn(fmt.Sprintf("calibration weights unavailable for %s: %v", pageType, err))
		return scoring.NeutralWeights{}
	}
	return weights
}

func (a *Analyzer) record(ctx context.Context, report *models.Report) {
	if a.store == nil || !a.opts.RecordHistory {
		return
	}
	run := &learning.AnalysisRun{
		ID:                  report.ID,
		PageType:            report.PageType,
		Source:              report.Source,
		TrustScore:          report.Scores.TrustScore,
		FrictionScore:       report.Scores.FrictionScore,
		ClarityScore:        report.Scores.ClarityScore,
		DecisionProbability: report.Scores.DecisionProbability,
		Confidence:          report.Scores.Confidence,
		SignalConfidence:    report.SignalConfidence,
		TopBlockers:         make([]string, 0, len(report.TopBlockers)),
		QuickWins:           report.QuickWins,
		CreatedAt:           report.CreatedAt,
	}
	for _, b := range report.TopBlockers {
		run.TopBlockers = append(run.TopBlockers, b.Issue.ID)
	}
	if err := a.store.RecordAnalysis(ctx, run); err != nil {
		a.warn(fmt.Sprintf("analysis %s not recorded: %v", report.ID, err))
	}
}

func (a *Analyzer) warn(message string) {
	if a.logger != nil {
		a.logger.LogWarn(message)
	}
}
