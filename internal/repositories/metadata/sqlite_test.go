package metadata

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/materna-health/materna/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`CREATE TABLE metadata (key TEXT PRIMARY KEY, value TEXT NOT NULL);`)
	require.NoError(t, err)
	return db
}

func TestSetGet(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	_, err := r.Get(ctx, "device_id")
	assert.ErrorIs(t, err, common.ErrorNotFound)

	require.NoError(t, r.Set(ctx, "device_id", "tablet-7"))
	require.NoError(t, r.Set(ctx, "device_id", "tablet-9"))

	v, err := r.Get(ctx, "device_id")
	require.NoError(t, err)
	assert.Equal(t, "tablet-9", v)
}

func TestTimeRoundTrip(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	// never written reads as zero, not an error
	ts, err := r.GetTime(ctx, "last_sync:vital_signs")
	require.NoError(t, err)
	assert.True(t, ts.IsZero())

	now := time.Date(2026, 5, 1, 8, 30, 0, 0, time.UTC)
	require.NoError(t, r.SetTime(ctx, "last_sync:vital_signs", now))

	ts, err = r.GetTime(ctx, "last_sync:vital_signs")
	require.NoError(t, err)
	assert.Equal(t, now, ts)
}
