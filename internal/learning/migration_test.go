package learning

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func columnNames(t *testing.T, store *Store, table string) []string {
	t.Helper()
	rows, err := store.db.Query("PRAGMA table_info(" + table + ")")
	require.NoError(t, err)
	defer rows.Close()

	var names []string
	for rows.Next() {
		var cid, notNull, pk int
		var name, colType string
		var dflt interface{}
		require.NoError(t, rows.Scan(&cid, &name, &colType, &notNull, &dflt, &pk))
		names = append(names, name)
	}
	require.NoError(t, rows.Err())
	return names
}

func TestApplyMigrations(t *testing.T) {
	store := setupTestStore(t)

	versions, err := store.AppliedMigrations(context.Background())
	require.NoError(t, err)
	require.Len(t, versions, len(migrations))
	for i, v := range versions {
		assert.Equal(t, migrations[i].Version, v.Version)
	}

	assert.Contains(t, columnNames(t, store, "calibration_weights"), "weight")
	assert.Contains(t, columnNames(t, store, "analysis_runs"), "signal_confidence")
}

func TestApplyMigrations_Idempotency(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)

	require.NoError(t, store.ApplyMigrations(ctx))
	require.NoError(t, store.ApplyMigrations(ctx))

	versions, err := store.AppliedMigrations(context.Background())
	require.NoError(t, err)
	assert.Len(t, versions, len(migrations))
}

func TestReopenExistingDatabase(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "reopen.db")

	first, err := NewStore(dbPath)
	require.NoError(t, err)
	require.NoError(t, first.SetWeight(ctx, "landing", "faq", 1.2, ""))
	require.NoError(t, first.Close())

	second, err := NewStore(dbPath)
	require.NoError(t, err)
	defer second.Close()

	weights, err := second.WeightsFor(ctx, "landing")
	require.NoError(t, err)
	assert.Equal(t, 1.2, weights["faq"])

	latest, err := second.SchemaVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, migrations[len(migrations)-1].Version, latest)
}
