package events

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/materna-health/materna/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE case_events (
  local_id TEXT PRIMARY KEY,
  remote_id TEXT NOT NULL DEFAULT '',
  synced INTEGER NOT NULL DEFAULT 0,
  profile_id TEXT NOT NULL,
  facility_id TEXT NOT NULL,
  event_type TEXT NOT NULL,
  description TEXT NOT NULL DEFAULT '',
  occurred_at TEXT NOT NULL,
  created_at TEXT NOT NULL,
  updated_at TEXT NOT NULL
);
`)
	require.NoError(t, err)
	return db
}

func TestSaveAndListByProfile(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	base := time.Date(2026, 4, 3, 14, 0, 0, 0, time.UTC)
	first := models.NewCaseEvent(base, "p1", "fac-1", "referral", "referred to district hospital")
	second := models.NewCaseEvent(base.Add(10*time.Minute), "p1", "fac-1", "intervention", "IV fluids started")
	other := models.NewCaseEvent(base, "p2", "fac-1", "note", "")

	for _, e := range []*models.CaseEvent{first, second, other} {
		require.NoError(t, r.Save(ctx, e))
	}

	got, err := r.ListByProfile(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "intervention", got[0].EventType)
	assert.Equal(t, "referral", got[1].EventType)
	assert.Equal(t, base, got[1].OccurredAt)
}

func TestMarkSynced(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	e := models.NewCaseEvent(time.Now(), "p1", "fac-1", "note", "stable")
	require.NoError(t, r.Save(ctx, e))
	require.NoError(t, r.MarkSynced(ctx, e.LocalID, "srv-9"))

	got, err := r.GetByLocalID(ctx, e.LocalID)
	require.NoError(t, err)
	assert.True(t, got.Synced)
	assert.Equal(t, "srv-9", got.RemoteID)
}
