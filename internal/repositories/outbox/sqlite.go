package outbox

import (
	"context"
	"encoding/json"
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

func (r *SQLiteRepository) Enqueue(ctx context.Context, table models.Table, localID string, op models.Op, payload json.RawMessage, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO outbox_jobs (table_name, local_id, op, payload, attempts, next_attempt_at, dead, last_error, created_at)
		VALUES (?, ?, ?, ?, 0, ?, 0, '', ?)`,
		string(table), localID, string(op), string(payload),
		timex.Format(now), timex.Format(now))
	if err != nil {
		return 0, fmt.Errorf("%w: failed to enqueue job: %v", common.ErrorStorage, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get job id: %w", err)
	}
	return id, nil
}

func (r *SQLiteRepository) Pending(ctx context.Context) ([]*models.Job, error) {
	return r.list(ctx, `WHERE dead = 0 ORDER BY id`)
}

func (r *SQLiteRepository) Dead(ctx context.Context) ([]*models.Job, error) {
	return r.list(ctx, `WHERE dead = 1 ORDER BY id`)
}

func (r *SQLiteRepository) PendingForKey(ctx context.Context, table models.Table, localID string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM outbox_jobs WHERE dead = 0 AND table_name = ? AND local_id = ?`,
		string(table), localID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count jobs for key: %w", err)
	}
	return n, nil
}

func (r *SQLiteRepository) Complete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM outbox_jobs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to complete job %d: %w", id, err)
	}
	return nil
}

func (r *SQLiteRepository) Fail(ctx context.Context, id int64, attempts int, nextAttemptAt time.Time, lastError string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE outbox_jobs SET attempts = ?, next_attempt_at = ?, last_error = ? WHERE id = ?`,
		attempts, timex.Format(nextAttemptAt), lastError, id)
	if err != nil {
		return fmt.Errorf("failed to record job failure %d: %w", id, err)
	}
	return nil
}

func (r *SQLiteRepository) MarkDead(ctx context.Context, id int64, lastError string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE outbox_jobs SET dead = 1, last_error = ? WHERE id = ?`,
		lastError, id)
	if err != nil {
		return fmt.Errorf("failed to dead-letter job %d: %w", id, err)
	}
	return nil
}

func (r *SQLiteRepository) Depth(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM outbox_jobs WHERE dead = 0`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count pending jobs: %w", err)
	}
	return n, nil
}

func (r *SQLiteRepository) list(ctx context.Context, where string) ([]*models.Job, error) {
	query := `SELECT id, table_name, local_id, op, payload, attempts, next_attempt_at, dead, last_error, created_at
		FROM outbox_jobs ` + where
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select jobs: %w", err)
	}
	defer rows.Close()

	var result []*models.Job
	for rows.Next() {
		var j models.Job
		var table, op, payload, nextAt, createdAt string
		if err := rows.Scan(&j.ID, &table, &j.LocalID, &op, &payload,
			&j.Attempts, &nextAt, &j.Dead, &j.LastError, &createdAt); err != nil {
			return nil, err
		}
		j.Table = models.Table(table)
		j.Op = models.Op(op)
		j.Payload = json.RawMessage(payload)
		if j.NextAttemptAt, err = timex.Parse(nextAt); err != nil {
			return nil, fmt.Errorf("bad next_attempt_at: %w", err)
		}
		if j.CreatedAt, err = timex.Parse(createdAt); err != nil {
			return nil, fmt.Errorf("bad created_at: %w", err)
		}
		result = append(result, &j)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
