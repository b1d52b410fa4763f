package checklists

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/materna-health/materna/internal/common"
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
CREATE TABLE emotive_checklists (
  local_id TEXT PRIMARY KEY,
  remote_id TEXT NOT NULL DEFAULT '',
  synced INTEGER NOT NULL DEFAULT 0,
  profile_id TEXT NOT NULL,
  facility_id TEXT NOT NULL,
  steps TEXT NOT NULL,
  created_at TEXT NOT NULL,
  updated_at TEXT NOT NULL
);
`)
	require.NoError(t, err)
	return db
}

func TestSaveAndGetByProfile(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	now := time.Date(2026, 4, 4, 16, 0, 0, 0, time.UTC)
	c := models.NewEmotiveChecklist(now, "p1", "fac-1")
	given := now.Add(2 * time.Minute)
	c.SetStep(models.StepOxytocin, models.StepState{Done: true, Time: &given, Detail: "10 IU IM"})
	require.NoError(t, r.Save(ctx, c))

	got, err := r.GetByProfile(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, c.LocalID, got.LocalID)

	oxy, ok := got.Step(models.StepOxytocin)
	require.True(t, ok)
	assert.True(t, oxy.Done)
	assert.Equal(t, "10 IU IM", oxy.Detail)
	require.NotNil(t, oxy.Time)
	assert.Equal(t, given, *oxy.Time)

	massage, _ := got.Step(models.StepUterineMassage)
	assert.False(t, massage.Done)
}

func TestGetByProfile_NotFound(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)

	_, err := r.GetByProfile(context.Background(), "nope")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestSave_UpsertKeepsSingleRow(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	c := models.NewEmotiveChecklist(time.Now(), "p1", "fac-1")
	require.NoError(t, r.Save(ctx, c))

	c.SetStep(models.StepUterineMassage, models.StepState{Done: true})
	c.Synced = false
	require.NoError(t, r.Save(ctx, c))

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM emotive_checklists`).Scan(&n))
	assert.Equal(t, 1, n)

	got, err := r.GetByLocalID(ctx, c.LocalID)
	require.NoError(t, err)
	st, _ := got.Step(models.StepUterineMassage)
	assert.True(t, st.Done)
}

func TestGetByProfile_EarliestWinsOnDuplicates(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	base := time.Date(2026, 4, 4, 9, 0, 0, 0, time.UTC)
	first := models.NewEmotiveChecklist(base, "p1", "fac-1")
	second := models.NewEmotiveChecklist(base.Add(time.Hour), "p1", "fac-1")
	require.NoError(t, r.Save(ctx, first))
	require.NoError(t, r.Save(ctx, second))

	got, err := r.GetByProfile(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, first.LocalID, got.LocalID)
}
