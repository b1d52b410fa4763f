package checklists

import (
	"context"
	"database/sql"
	"encoding/json"
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

// stepsDoc is the JSON document persisted in the steps column.
type stepsDoc struct {
	Oxytocin           models.StepState `json:"oxytocin"`
	UterineMassage     models.StepState `json:"uterine_massage"`
	CordTraction       models.StepState `json:"cord_traction"`
	PlacentaInspection models.StepState `json:"placenta_inspection"`
	BleedingAssessment models.StepState `json:"bleeding_assessment"`
	VitalsBaseline     models.StepState `json:"vitals_baseline"`
}

func (r *SQLiteRepository) Save(ctx context.Context, c *models.EmotiveChecklist) error {
	steps, err := json.Marshal(stepsDoc{
		Oxytocin:           c.Oxytocin,
		UterineMassage:     c.UterineMassage,
		CordTraction:       c.CordTraction,
		PlacentaInspection: c.PlacentaInspection,
		BleedingAssessment: c.BleedingAssessment,
		VitalsBaseline:     c.VitalsBaseline,
	})
	if err != nil {
		return fmt.Errorf("failed to encode checklist steps: %w", err)
	}

	query := `INSERT INTO emotive_checklists
			(local_id, remote_id, synced, profile_id, facility_id, steps, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(local_id) DO UPDATE SET
				remote_id = excluded.remote_id,
				synced = excluded.synced,
				steps = excluded.steps,
				updated_at = excluded.updated_at
	`
	_, err = r.db.ExecContext(ctx, query,
		c.LocalID, c.RemoteID, c.Synced, c.ProfileID, c.FacilityID,
		string(steps), timex.Format(c.CreatedAt), timex.Format(c.UpdatedAt))
	if err != nil {
		return fmt.Errorf("%w: failed to upsert checklist: %v", common.ErrorStorage, err)
	}
	return nil
}

func (r *SQLiteRepository) GetByLocalID(ctx context.Context, localID string) (*models.EmotiveChecklist, error) {
	row := r.db.QueryRowContext(ctx, selectChecklist+` WHERE local_id = ?`, localID)
	return r.scanOne(row)
}

func (r *SQLiteRepository) GetByProfile(ctx context.Context, profileID string) (*models.EmotiveChecklist, error) {
	row := r.db.QueryRowContext(ctx, selectChecklist+` WHERE profile_id = ? ORDER BY created_at ASC LIMIT 1`, profileID)
	return r.scanOne(row)
}

func (r *SQLiteRepository) ListByFacility(ctx context.Context, facilityID string) ([]*models.EmotiveChecklist, error) {
	rows, err := r.db.QueryContext(ctx, selectChecklist+` WHERE facility_id = ? ORDER BY created_at ASC, local_id`, facilityID)
	if err != nil {
		return nil, fmt.Errorf("failed to select checklists: %w", err)
	}
	defer rows.Close()

	var result []*models.EmotiveChecklist
	for rows.Next() {
		var c models.EmotiveChecklist
		var steps, createdAt, updatedAt string
		if err := rows.Scan(&c.LocalID, &c.RemoteID, &c.Synced, &c.ProfileID, &c.FacilityID,
			&steps, &createdAt, &updatedAt); err != nil {
			return nil, err
		}
		if err := decodeChecklist(&c, steps, createdAt, updatedAt); err != nil {
			return nil, err
		}
		result = append(result, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLiteRepository) MarkSynced(ctx context.Context, localID, remoteID string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE emotive_checklists SET remote_id = ?, synced = 1 WHERE local_id = ?`,
		remoteID, localID)
	if err != nil {
		return fmt.Errorf("failed to mark checklist synced: %w", err)
	}
	return nil
}

const selectChecklist = `SELECT local_id, remote_id, synced, profile_id, facility_id, steps, created_at, updated_at
	FROM emotive_checklists`

func (r *SQLiteRepository) scanOne(row *sql.Row) (*models.EmotiveChecklist, error) {
	var c models.EmotiveChecklist
	var steps, createdAt, updatedAt string

	err := row.Scan(&c.LocalID, &c.RemoteID, &c.Synced, &c.ProfileID, &c.FacilityID,
		&steps, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get checklist: %w", err)
	}

	if err := decodeChecklist(&c, steps, createdAt, updatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

func decodeChecklist(c *models.EmotiveChecklist, steps, createdAt, updatedAt string) error {
	var doc stepsDoc
	if err := json.Unmarshal([]byte(steps), &doc); err != nil {
		return fmt.Errorf("failed to decode checklist steps: %w", err)
	}
	c.Oxytocin = doc.Oxytocin
	c.UterineMassage = doc.UterineMassage
	c.CordTraction = doc.CordTraction
	c.PlacentaInspection = doc.PlacentaInspection
	c.BleedingAssessment = doc.BleedingAssessment
	c.VitalsBaseline = doc.VitalsBaseline

	var err error
	if c.CreatedAt, err = timex.Parse(createdAt); err != nil {
		return fmt.Errorf("bad created_at: %w", err)
	}
	if c.UpdatedAt, err = timex.Parse(updatedAt); err != nil {
		return fmt.Errorf("bad updated_at: %w", err)
	}
	return nil
}
