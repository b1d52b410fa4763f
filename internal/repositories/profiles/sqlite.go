package profiles

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

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository returns a new SQLiteRepository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Save(ctx context.Context, p *models.MaternalProfile) error {
	query := `INSERT INTO maternal_profiles
			(local_id, remote_id, synced, facility_id, unit_id, full_name, age, gravida, parity, status, delivery_time, notes, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(local_id) DO UPDATE SET
				remote_id = excluded.remote_id,
				synced = excluded.synced,
				facility_id = excluded.facility_id,
				unit_id = excluded.unit_id,
				full_name = excluded.full_name,
				age = excluded.age,
				gravida = excluded.gravida,
				parity = excluded.parity,
				status = excluded.status,
				delivery_time = excluded.delivery_time,
				notes = excluded.notes,
				updated_at = excluded.updated_at
	`
	_, err := r.db.ExecContext(ctx, query,
		p.LocalID, p.RemoteID, p.Synced, p.FacilityID, p.UnitID, p.FullName,
		p.Age, p.Gravida, p.Parity, string(p.Status), timex.FormatPtr(p.DeliveryTime),
		p.Notes, timex.Format(p.CreatedAt), timex.Format(p.UpdatedAt))
	if err != nil {
		return fmt.Errorf("%w: failed to upsert profile: %v", common.ErrorStorage, err)
	}
	return nil
}

func (r *SQLiteRepository) GetByLocalID(ctx context.Context, localID string) (*models.MaternalProfile, error) {
	row := r.db.QueryRowContext(ctx, selectProfile+` WHERE local_id = ?`, localID)
	p, err := scanProfile(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return p, nil
}

func (r *SQLiteRepository) List(ctx context.Context, facilityID string) ([]*models.MaternalProfile, error) {
	rows, err := r.db.QueryContext(ctx, selectProfile+` WHERE facility_id = ? ORDER BY created_at DESC, local_id`, facilityID)
	if err != nil {
		return nil, fmt.Errorf("failed to select profiles: %w", err)
	}
	defer rows.Close()

	var result []*models.MaternalProfile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLiteRepository) MarkSynced(ctx context.Context, localID, remoteID string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE maternal_profiles SET remote_id = ?, synced = 1 WHERE local_id = ?`,
		remoteID, localID)
	if err != nil {
		return fmt.Errorf("failed to mark profile synced: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, localID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM maternal_profiles WHERE local_id = ?`, localID)
	if err != nil {
		return fmt.Errorf("failed to delete profile: %w", err)
	}
	return nil
}

const selectProfile = `SELECT local_id, remote_id, synced, facility_id, unit_id, full_name, age, gravida, parity, status, delivery_time, notes, created_at, updated_at
	FROM maternal_profiles`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProfile(row rowScanner) (*models.MaternalProfile, error) {
	var p models.MaternalProfile
	var status string
	var deliveryTime *string
	var createdAt, updatedAt string

	if err := row.Scan(&p.LocalID, &p.RemoteID, &p.Synced, &p.FacilityID, &p.UnitID,
		&p.FullName, &p.Age, &p.Gravida, &p.Parity, &status, &deliveryTime,
		&p.Notes, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	p.Status = models.ProfileStatus(status)

	var err error
	if p.DeliveryTime, err = timex.ParsePtr(deliveryTime); err != nil {
		return nil, fmt.Errorf("bad delivery_time: %w", err)
	}
	if p.CreatedAt, err = timex.Parse(createdAt); err != nil {
		return nil, fmt.Errorf("bad created_at: %w", err)
	}
	if p.UpdatedAt, err = timex.Parse(updatedAt); err != nil {
		return nil, fmt.Errorf("bad updated_at: %w", err)
	}
	return &p, nil
}
