package tombstones

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
CREATE TABLE tombstones (
  table_name TEXT NOT NULL,
  local_id TEXT NOT NULL,
  remote_id TEXT NOT NULL DEFAULT '',
  deleted_at TEXT NOT NULL,
  PRIMARY KEY (table_name, local_id)
);
`)
	require.NoError(t, err)
	return db
}

func TestAddAndForTable(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, r.Add(ctx, models.TableContacts, "loc-1", "srv-1", time.Now()))
	require.NoError(t, r.Add(ctx, models.TableContacts, "loc-2", "", time.Now()))
	require.NoError(t, r.Add(ctx, models.TableProfiles, "loc-3", "srv-3", time.Now()))

	dead, err := r.ForTable(ctx, models.TableContacts)
	require.NoError(t, err)

	assert.Contains(t, dead, "loc-1")
	assert.Contains(t, dead, "srv-1")
	assert.Contains(t, dead, "loc-2")
	assert.NotContains(t, dead, "loc-3")
	assert.NotContains(t, dead, "")
}

func TestAdd_UpsertRemoteID(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	// deleted before the remote id was known, learned later
	require.NoError(t, r.Add(ctx, models.TableContacts, "loc-1", "", time.Now()))
	require.NoError(t, r.Add(ctx, models.TableContacts, "loc-1", "srv-1", time.Now()))

	dead, err := r.ForTable(ctx, models.TableContacts)
	require.NoError(t, err)
	assert.Contains(t, dead, "srv-1")
}
