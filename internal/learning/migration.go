package learning

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// Migration is one versioned schema step. SQL runs first, then Apply when set.
type Migration struct {
	Version     int
	Description string
	SQL         string
	Apply       func(ctx context.Context, tx *sql.Tx) error
}

var migrations = []Migration{
	{
		Version:     1,
		Description: "calibration_weights table",
		SQL: `
CREATE TABLE IF NOT EXISTS calibration_weights (
    page_type TEXT NOT NULL,
    issue_id TEXT NOT NULL,
    weight REAL NOT NULL DEFAULT 1.0,
    note TEXT,
    updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    PRIMARY KEY (page_type, issue_id)
);
CREATE INDEX IF NOT EXISTS idx_calibration_weights_page_type ON calibration_weights(page_type);
`,
	},
	{
		Version:     2,
		Description: "analysis_runs history table",
		SQL: `
CREATE TABLE IF NOT EXISTS analysis_runs (
    id TEXT PRIMARY KEY,
    page_type TEXT NOT NULL,
    source TEXT,
    trust_score REAL NOT NULL,
    friction_score REAL NOT NULL,
    clarity_score REAL NOT NULL,
    decision_probability REAL NOT NULL,
    confidence REAL NOT NULL,
    top_blockers TEXT,
    quick_wins TEXT,
    created_at TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_analysis_runs_page_type ON analysis_runs(page_type);
CREATE INDEX IF NOT EXISTS idx_analysis_runs_created_at ON analysis_runs(created_at DESC);
`,
	},
	{
		Version:     3,
		Description: "signal_confidence column for merged analyses",
		Apply: func(ctx context.Context, tx *sql.Tx) error {
			return addColumn(ctx, tx, "analysis_runs", "signal_confidence", "REAL")
		},
	},
}

// AppliedMigration records when a schema version was applied
type AppliedMigration struct {
	Version   int
	AppliedAt time.Time
}

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
}

// ApplyMigrations brings the schema up to date inside one serializable
// transaction, skipping versions already recorded in schema_version.
func (s *Store) ApplyMigrations(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return fmt.Errorf("begin migration transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER PRIMARY KEY,
    applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
)`); err != nil {
		return fmt.Errorf("create schema_version: %w", err)
	}

	done, err := appliedMigrations(ctx, tx)
	if err != nil {
		return err
	}
	seen := make(map[int]bool, len(done))
	for _, m := range done {
		seen[m.Version] = true
	}

	for _, m := range migrations {
		if seen[m.Version] {
			continue
		}
		if err := runMigration(ctx, tx, m); err != nil {
			return fmt.Errorf("migration %d (%s): %w", m.Version, m.Description, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit migrations: %w", err)
	}
	return nil
}

func runMigration(ctx context.Context, tx *sql.Tx, m Migration) error {
	if strings.TrimSpace(m.SQL) != "" {
		if _, err := tx.ExecContext(ctx, m.SQL); err != nil {
			return err
		}
	}
	if m.Apply != nil {
		if err := m.Apply(ctx, tx); err != nil {
			return err
		}
	}
	_, err := tx.ExecContext(ctx, `INSERT OR IGNORE INTO schema_version (version) VALUES (?)`, m.Version)
	return err
}

// AppliedMigrations lists recorded schema versions in ascending order
func (s *Store) AppliedMigrations(ctx context.Context) ([]AppliedMigration, error) {
	return appliedMigrations(ctx, s.db)
}

// SchemaVersion returns the highest applied version, or 0 for a fresh database
func (s *Store) SchemaVersion(ctx context.Context) (int, error) {
	var version int
	err := s.db.QueryRowContext(ctx, `SELECT COALESCE(MAX(version), 0) FROM schema_version`).Scan(&version)
	if err != nil {
		return 0, fmt.Errorf("read schema version: %w", err)
	}
	return version, nil
}

func appliedMigrations(ctx context.Context, q queryer) ([]AppliedMigration, error) {
	rows, err := q.QueryContext(ctx, `SELECT version, applied_at FROM schema_version ORDER BY version`)
	if err != nil {
		return nil, fmt.Errorf("list schema versions: %w", err)
	}
	defer rows.Close()

	var applied []AppliedMigration
	for rows.Next() {
		var m AppliedMigration
		if err := rows.Scan(&m.Version, &m.AppliedAt); err != nil {
			return nil, fmt.Errorf("scan schema version: %w", err)
		}
		applied = append(applied, m)
	}
	return applied, rows.Err()
}

// addColumn is a no-op when the column exists; SQLite lacks ADD COLUMN IF NOT EXISTS.
func addColumn(ctx context.Context, tx *sql.Tx, table, column, definition string) error {
	var count int
	err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM pragma_table_info(?) WHERE name = ?`, table, column).Scan(&count)
	if err != nil {
		return fmt.Errorf("inspect %s: %w", table, err)
	}
	if count > 0 {
		return nil
	}
	if _, err := tx.ExecContext(ctx, fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", table, column, definition)); err != nil {
		return fmt.Errorf("add %s.%s: %w", table, column, err)
	}
	return nil
}
