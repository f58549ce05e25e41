// Package learning persists calibration weights and analysis history in
// SQLite. Calibration weights are multipliers keyed by page type and issue
// id that scale issue importance before ranking.
package learning

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/harrison/signalscope/internal/scoring"
)

// ErrInvalidWeight is returned for calibration weights that are not positive
var ErrInvalidWeight = errors.New("calibration weight must be positive")

// ErrWeightNotFound is returned by GetWeight when no weight is stored
var ErrWeightNotFound = errors.New("calibration weight not found")

// MaxWeight caps a calibration multiplier
const MaxWeight = 10.0

// CalibrationWeight is one stored multiplier
type CalibrationWeight struct {
	PageType  string    `json:"page_type"`
	IssueID   string    `json:"issue_id"`
	Weight    float64   `json:"weight"`
	Note      string    `json:"note,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AnalysisRun is one recorded analysis
type AnalysisRun struct {
	ID                  string    `json:"id"`
	PageType            string    `json:"page_type"`
	Source              string    `json:"source,omitempty"`
	TrustScore          float64   `json:"trust_score"`
	FrictionScore       float64   `json:"friction_score"`
	ClarityScore        float64   `json:"clarity_score"`
	DecisionProbability float64   `json:"decision_probability"`
	Confidence          float64   `json:"confidence"`
	SignalConfidence    float64   `json:"signal_confidence"`
	TopBlockers         []string  `json:"top_blockers"` // issue ids in rank order
	QuickWins           []string  `json:"quick_wins"`
	CreatedAt           time.Time `json:"created_at"`
}

// Store manages the SQLite database for calibration and history
type Store struct {
	db     *sql.DB
	dbPath string
}

// NewStore creates a new Store instance and initializes the database
func NewStore(dbPath string) (*Store, error) {
	if dbPath == ":memory:" {
		return openAndInitStore(dbPath)
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	return openAndInitStore(dbPath)
}

func openAndInitStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// every connection to :memory: is a separate database
	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	pragmas := []string{
		"PRAGMA busy_timeout=5000", // Must be first
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
	}
	for _, pragma := range pragmas {
		if err := execWithRetry(db, pragma, 5, 10*time.Millisecond); err != nil {
			db.Close()
			return nil, fmt.Errorf("set %s: %w", pragma, err)
		}
	}

	store := &Store{
		db:     db,
		dbPath: dbPath,
	}

	if err := store.ApplyMigrations(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return store, nil
}

// execWithRetry executes a statement with exponential backoff on lock errors
func execWithRetry(db *sql.DB, stmt string, maxRetries int, baseDelay time.Duration) error {
	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		_, err := db.Exec(stmt)
		if err == nil {
			return nil
		}
		if !strings.Contains(err.Error(), "database is locked") {
			return err
		}
		lastErr = err
		time.Sleep(baseDelay * time.Duration(1<<attempt))
	}
	return lastErr
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Path returns the database path the store was opened with
func (s *Store) Path() string {
	return s.dbPath
}

// SetWeight inserts or replaces the multiplier for one page type and issue
func (s *Store) SetWeight(ctx context.Context, pageType, issueID string, weight float64, note string) error {
	if pageType == "" || issueID == "" {
		return fmt.Errorf("page type and issue id are required")
	}
	if weight <= 0 || weight > MaxWeight {
		return fmt.Errorf("%w: got %v (max %v)", ErrInvalidWeight, weight, MaxWeight)
	}

	query := `INSERT INTO calibration_weights (page_type, issue_id, weight, note, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(page_type, issue_id) DO UPDATE SET
			weight = excluded.weight,
			note = excluded.note,
			updated_at = excluded.updated_at`
	if _, err := s.db.ExecContext(ctx, query, pageType, issueID, weight, note, time.Now().UTC()); err != nil {
		return fmt.Errorf("set calibration weight: %w", err)
	}
	return nil
}

// GetWeight returns the stored row for one page type and issue
func (s *Store) GetWeight(ctx context.Context, pageType, issueID string) (*CalibrationWeight, error) {
	w := &CalibrationWeight{}
	err := s.db.QueryRowContext(ctx,
		`SELECT page_type, issue_id, weight, COALESCE(note, ''), updated_at
		FROM calibration_weights WHERE page_type = ? AND issue_id = ?`,
		pageType, issueID,
	).Scan(&w.PageType, &w.IssueID, &w.Weight, &w.Note, &w.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s/%s", ErrWeightNotFound, pageType, issueID)
	}
	if err != nil {
		return nil, fmt.Errorf("get calibration weight: %w", err)
	}
	return w, nil
}

// WeightsFor loads the multipliers for a page type as a WeightProvider
func (s *Store) WeightsFor(ctx context.Context, pageType string) (scoring.WeightMap, error) {
	weights, err := s.ListWeights(ctx, pageType)
	if err != nil {
		return nil, err
	}
	m := make(scoring.WeightMap, len(weights))
	for _, w := range weights {
		m[w.IssueID] = w.Weight
	}
	return m, nil
}

// ListWeights returns stored weights ordered by page type and issue id.
// An empty pageType lists every page type.
func (s *Store) ListWeights(ctx context.Context, pageType string) ([]CalibrationWeight, error) {
	query := `SELECT page_type, issue_id, weight, COALESCE(note, ''), updated_at
		FROM calibration_weights`
	var args []interface{}
	if pageType != "" {
		query += ` WHERE page_type = ?`
		args = append(args, pageType)
	}
	query += ` ORDER BY page_type, issue_id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query calibration weights: %w", err)
	}
	defer rows.Close()

	weights := []CalibrationWeight{}
	for rows.Next() {
		var w CalibrationWeight
		if err := rows.Scan(&w.PageType, &w.IssueID, &w.Weight, &w.Note, &w.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan calibration weight: %w", err)
		}
		weights = append(weights, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate calibration weights: %w", err)
	}
	return weights, nil
}

// DeleteWeights removes one weight, or every weight of the page type when
// issueID is empty. Returns the number of rows removed.
func (s *Store) DeleteWeights(ctx context.Context, pageType, issueID string) (int64, error) {
	query := `DELETE FROM calibration_weights WHERE page_type = ?`
	args := []interface{}{pageType}
	if issueID != "" {
		query += ` AND issue_id = ?`
		args = append(args, issueID)
	}

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("delete calibration weights: %w", err)
	}
	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("get rows affected: %w", err)
	}
	return deleted, nil
}

// RecordAnalysis stores one analysis run. A missing ID gets a new UUID and
// a zero CreatedAt becomes now.
func (s *Store) RecordAnalysis(ctx context.Context, run *AnalysisRun) error {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now()
	}
	run.CreatedAt = run.CreatedAt.UTC()

	blockersJSON, err := json.Marshal(nonNil(run.TopBlockers))
	if err != nil {
		return fmt.Errorf("marshal top blockers: %w", err)
	}
	quickWinsJSON, err := json.Marshal(nonNil(run.QuickWins))
	if err != nil {
		return fmt.Errorf("marshal quick wins: %w", err)
	}

	query := `INSERT INTO analysis_runs
		(id, page_type, source, trust_score, friction_score, clarity_score, decision_probability,
		 confidence, signal_confidence, top_blockers, quick_wins, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = s.db.ExecContext(ctx, query,
		run.ID, run.PageType, run.Source,
		run.TrustScore, run.FrictionScore, run.ClarityScore, run.DecisionProbability,
		run.Confidence, run.SignalConfidence,
		string(blockersJSON), string(quickWinsJSON), run.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert analysis run: %w", err)
	}
	return nil
}

// GetRecentAnalyses returns the newest runs first. An empty pageType
// matches every page type; limit <= 0 defaults to 20.
func (s *Store) GetRecentAnalyses(ctx context.Context, pageType string, limit int) ([]*AnalysisRun, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `SELECT id, page_type, COALESCE(source, ''), trust_score, friction_score, clarity_score,
			decision_probability, confidence, COALESCE(signal_confidence, 0),
			COALESCE(top_blockers, '[]'), COALESCE(quick_wins, '[]'), created_at
		FROM analysis_runs`
	var args []interface{}
	if pageType != "" {
		query += ` WHERE page_type = ?`
		args = append(args, pageType)
	}
	query += ` ORDER BY created_at DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query analysis runs: %w", err)
	}
	defer rows.Close()

	var runs []*AnalysisRun
	for rows.Next() {
		run := &AnalysisRun{}
		var blockersJSON, quickWinsJSON string
		if err := rows.Scan(
			&run.ID, &run.PageType, &run.Source,
			&run.TrustScore, &run.FrictionScore, &run.ClarityScore,
			&run.DecisionProbability, &run.Confidence, &run.SignalConfidence,
			&blockersJSON, &quickWinsJSON, &run.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan analysis run: %w", err)
		}
		if err := json.Unmarshal([]byte(blockersJSON), &run.TopBlockers); err != nil {
			return nil, fmt.Errorf("unmarshal top blockers: %w", err)
		}
		if err := json.Unmarshal([]byte(quickWinsJSON), &run.QuickWins); err != nil {
			return nil, fmt.Errorf("unmarshal quick wins: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate analysis runs: %w", err)
	}
	return runs, nil
}

// CleanupOldAnalyses removes runs older than keepDays days.
// Returns the number of deleted rows.
func (s *Store) CleanupOldAnalyses(ctx context.Context, keepDays int) (int64, error) {
	if keepDays <= 0 {
		return 0, nil // 0 or negative means keep forever
	}

	cutoff := time.Now().AddDate(0, 0, -keepDays).UTC()
	result, err := s.db.ExecContext(ctx, `DELETE FROM analysis_runs WHERE created_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("cleanup old analyses: %w", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("get rows affected: %w", err)
	}
	return deleted, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
