package contacts

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

func (r *SQLiteRepository) Save(ctx context.Context, c *models.EmergencyContact) error {
	query := `INSERT INTO emergency_contacts
			(local_id, remote_id, synced, facility_id, name, role, phone, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(local_id) DO UPDATE SET
				remote_id = excluded.remote_id,
				synced = excluded.synced,
				name = excluded.name,
				role = excluded.role,
				phone = excluded.phone,
				updated_at = excluded.updated_at
	`
	_, err := r.db.ExecContext(ctx, query,
		c.LocalID, c.RemoteID, c.Synced, c.FacilityID, c.Name, c.Role, c.Phone,
		timex.Format(c.CreatedAt), timex.Format(c.UpdatedAt))
	if err != nil {
		return fmt.Errorf("%w: failed to upsert contact: %v", common.ErrorStorage, err)
	}
	return nil
}

func (r *SQLiteRepository) GetByLocalID(ctx context.Context, localID string) (*models.EmergencyContact, error) {
	row := r.db.QueryRowContext(ctx, selectContact+` WHERE local_id = ?`, localID)
	c, err := scanContact(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get contact: %w", err)
	}
	return c, nil
}

func (r *SQLiteRepository) List(ctx context.Context, facilityID string) ([]*models.EmergencyContact, error) {
	rows, err := r.db.QueryContext(ctx, selectContact+` WHERE facility_id = ? ORDER BY name COLLATE NOCASE, local_id`, facilityID)
	if err != nil {
		return nil, fmt.Errorf("failed to select contacts: %w", err)
	}
	defer rows.Close()

	var result []*models.EmergencyContact
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLiteRepository) MarkSynced(ctx context.Context, localID, remoteID string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE emergency_contacts SET remote_id = ?, synced = 1 WHERE local_id = ?`,
		remoteID, localID)
	if err != nil {
		return fmt.Errorf("failed to mark contact synced: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, localID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM emergency_contacts WHERE local_id = ?`, localID)
	if err != nil {
		return fmt.Errorf("%w: failed to delete contact: %v", common.ErrorStorage, err)
	}
	ra, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if ra != 1 {
		return common.ErrorNotFound
	}
	return nil
}

const selectContact = `SELECT local_id, remote_id, synced, facility_id, name, role, phone, created_at, updated_at
	FROM emergency_contacts`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanContact(row rowScanner) (*models.EmergencyContact, error) {
	var c models.EmergencyContact
	var createdAt, updatedAt string

	if err := row.Scan(&c.LocalID, &c.RemoteID, &c.Synced, &c.FacilityID,
		&c.Name, &c.Role, &c.Phone, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	var err error
	if c.CreatedAt, err = timex.Parse(createdAt); err != nil {
		return nil, fmt.Errorf("bad created_at: %w", err)
	}
	if c.UpdatedAt, err = timex.Parse(updatedAt); err != nil {
		return nil, fmt.Errorf("bad updated_at: %w", err)
	}
	return &c, nil
}
