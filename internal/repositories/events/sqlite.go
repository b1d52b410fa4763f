package events

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

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

func (r *SQLiteRepository) Save(ctx context.Context, e *models.CaseEvent) error {
	query := `INSERT INTO case_events
			(local_id, remote_id, synced, profile_id, facility_id, event_type, description, occurred_at, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(local_id) DO UPDATE SET
				remote_id = excluded.remote_id,
				synced = excluded.synced,
				event_type = excluded.event_type,
				description = excluded.description,
				occurred_at = excluded.occurred_at,
				updated_at = excluded.updated_at
	`
	_, err := r.db.ExecContext(ctx, query,
		e.LocalID, e.RemoteID, e.Synced, e.ProfileID, e.FacilityID,
		e.EventType, e.Description,
		timex.Format(e.OccurredAt), timex.Format(e.CreatedAt), timex.Format(e.UpdatedAt))
	if err != nil {
		return fmt.Errorf("%w: failed to upsert case event: %v", common.ErrorStorage, err)
	}
	return nil
}

func (r *SQLiteRepository) GetByLocalID(ctx context.Context, localID string) (*models.CaseEvent, error) {
	row := r.db.QueryRowContext(ctx, selectEvents+` WHERE local_id = ?`, localID)
	e, err := scanEvent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get case event: %w", err)
	}
	return e, nil
}

func (r *SQLiteRepository) ListByProfile(ctx context.Context, profileID string) ([]*models.CaseEvent, error) {
	rows, err := r.db.QueryContext(ctx, selectEvents+` WHERE profile_id = ? ORDER BY occurred_at DESC, local_id`, profileID)
	if err != nil {
		return nil, fmt.Errorf("failed to select case events: %w", err)
	}
	defer rows.Close()

	var result []*models.CaseEvent
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLiteRepository) ListByFacility(ctx context.Context, facilityID string) ([]*models.CaseEvent, error) {
	rows, err := r.db.QueryContext(ctx, selectEvents+` WHERE facility_id = ? ORDER BY occurred_at DESC, local_id`, facilityID)
	if err != nil {
		return nil, fmt.Errorf("failed to select case events: %w", err)
	}
	defer rows.Close()

	var result []*models.CaseEvent
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLiteRepository) MarkSynced(ctx context.Context, localID, remoteID string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE case_events SET remote_id = ?, synced = 1 WHERE local_id = ?`,
		remoteID, localID)
	if err != nil {
		return fmt.Errorf("failed to mark case event synced: %w", err)
	}
	return nil
}

const selectEvents = `SELECT local_id, remote_id, synced, profile_id, facility_id, event_type, description, occurred_at, created_at, updated_at
	FROM case_events`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner) (*models.CaseEvent, error) {
	var e models.CaseEvent
	var occurredAt, createdAt, updatedAt string

	if err := row.Scan(&e.LocalID, &e.RemoteID, &e.Synced, &e.ProfileID, &e.FacilityID,
		&e.EventType, &e.Description, &occurredAt, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	var err error
	if e.OccurredAt, err = timex.Parse(occurredAt); err != nil {
		return nil, fmt.Errorf("bad occurred_at: %w", err)
	}
	if e.CreatedAt, err = timex.Parse(createdAt); err != nil {
		return nil, fmt.Errorf("bad created_at: %w", err)
	}
	if e.UpdatedAt, err = timex.Parse(updatedAt); err != nil {
		return nil, fmt.Errorf("bad updated_at: %w", err)
	}
	return &e, nil
}
