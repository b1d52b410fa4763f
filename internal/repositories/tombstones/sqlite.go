package tombstones

import (
	"context"
	"fmt"
	"time"

	"github.com/materna-health/materna/internal/common"
	"github.com/materna-health/materna/internal/dbx"
	"github.com/materna-health/materna/internal/models"
	"github.com/materna-health/materna/internal/timex"
)

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Add(ctx context.Context, table models.Table, localID, remoteID string, now time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO tombstones (table_name, local_id, remote_id, deleted_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(table_name, local_id) DO UPDATE SET remote_id = excluded.remote_id`,
		string(table), localID, remoteID, timex.Format(now))
	if err != nil {
		return fmt.Errorf("%w: failed to add tombstone: %v", common.ErrorStorage, err)
	}
	return nil
}

func (r *SQLiteRepository) ForTable(ctx context.Context, table models.Table) (map[string]struct{}, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT local_id, remote_id FROM tombstones WHERE table_name = ?`, string(table))
	if err != nil {
		return nil, fmt.Errorf("failed to select tombstones: %w", err)
	}
	defer rows.Close()

	dead := make(map[string]struct{})
	for rows.Next() {
		var localID, remoteID string
		if err := rows.Scan(&localID, &remoteID); err != nil {
			return nil, err
		}
		dead[localID] = struct{}{}
		if remoteID != "" {
			dead[remoteID] = struct{}{}
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return dead, nil
}
