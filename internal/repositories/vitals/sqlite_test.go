package vitals

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
CREATE TABLE vital_signs (
  local_id TEXT PRIMARY KEY,
  remote_id TEXT NOT NULL DEFAULT '',
  synced INTEGER NOT NULL DEFAULT 0,
  profile_id TEXT NOT NULL,
  facility_id TEXT NOT NULL,
  systolic_bp INTEGER NOT NULL DEFAULT 0,
  diastolic_bp INTEGER NOT NULL DEFAULT 0,
  pulse_rate INTEGER NOT NULL DEFAULT 0,
  respiratory_rate INTEGER NOT NULL DEFAULT 0,
  temperature_c REAL NOT NULL DEFAULT 0,
  spo2 INTEGER NOT NULL DEFAULT 0,
  blood_loss_ml INTEGER NOT NULL DEFAULT 0,
  recorded_at TEXT NOT NULL,
  created_at TEXT NOT NULL,
  updated_at TEXT NOT NULL
);
`)
	require.NoError(t, err)
	return db
}

func sampleVital(recordedAt time.Time, profileID string) *models.VitalSign {
	v := models.NewVitalSign(recordedAt, profileID, "fac-1")
	v.SystolicBP = 118
	v.DiastolicBP = 76
	v.PulseRate = 82
	v.RespiratoryRate = 16
	v.TemperatureC = 36.8
	v.SpO2 = 98
	return v
}

func TestSaveAndGet(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	now := time.Date(2026, 4, 2, 10, 15, 0, 0, time.UTC)
	v := sampleVital(now, "p1")
	require.NoError(t, r.Save(ctx, v))

	got, err := r.GetByLocalID(ctx, v.LocalID)
	require.NoError(t, err)
	assert.Equal(t, 118, got.SystolicBP)
	assert.Equal(t, 36.8, got.TemperatureC)
	assert.Equal(t, now, got.RecordedAt)
	assert.False(t, got.Synced)
}

func TestListByProfile_NewestFirst(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	base := time.Date(2026, 4, 2, 10, 0, 0, 0, time.UTC)
	first := sampleVital(base, "p1")
	second := sampleVital(base.Add(30*time.Minute), "p1")
	other := sampleVital(base, "p2")

	for _, v := range []*models.VitalSign{first, second, other} {
		require.NoError(t, r.Save(ctx, v))
	}

	got, err := r.ListByProfile(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, second.LocalID, got[0].LocalID)
	assert.Equal(t, first.LocalID, got[1].LocalID)
}

func TestMarkSynced(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	v := sampleVital(time.Now(), "p1")
	require.NoError(t, r.Save(ctx, v))
	require.NoError(t, r.MarkSynced(ctx, v.LocalID, "srv-7"))

	got, err := r.GetByLocalID(ctx, v.LocalID)
	require.NoError(t, err)
	assert.True(t, got.Synced)
	assert.Equal(t, "srv-7", got.RemoteID)
}
