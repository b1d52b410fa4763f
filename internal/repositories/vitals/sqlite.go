package vitals

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

func (r *SQLiteRepository) Save(ctx context.Context, v *models.VitalSign) error {
	query := `INSERT INTO vital_signs
			(local_id, remote_id, synced, profile_id, facility_id, systolic_bp, diastolic_bp, pulse_rate, respiratory_rate, temperature_c, spo2, blood_loss_ml, recorded_at, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(local_id) DO UPDATE SET
				remote_id = excluded.remote_id,
				synced = excluded.synced,
				systolic_bp = excluded.systolic_bp,
				diastolic_bp = excluded.diastolic_bp,
				pulse_rate = excluded.pulse_rate,
				respiratory_rate = excluded.respiratory_rate,
				temperature_c = excluded.temperature_c,
				spo2 = excluded.spo2,
				blood_loss_ml = excluded.blood_loss_ml,
				recorded_at = excluded.recorded_at,
				updated_at = excluded.updated_at
	`
	_, err := r.db.ExecContext(ctx, query,
		v.LocalID, v.RemoteID, v.Synced, v.ProfileID, v.FacilityID,
		v.SystolicBP, v.DiastolicBP, v.PulseRate, v.RespiratoryRate,
		v.TemperatureC, v.SpO2, v.BloodLossML,
		timex.Format(v.RecordedAt), timex.Format(v.CreatedAt), timex.Format(v.UpdatedAt))
	if err != nil {
		return fmt.Errorf("%w: failed to upsert vital sign: %v", common.ErrorStorage, err)
	}
	return nil
}

func (r *SQLiteRepository) GetByLocalID(ctx context.Context, localID string) (*models.VitalSign, error) {
	row := r.db.QueryRowContext(ctx, selectVitals+` WHERE local_id = ?`, localID)
	v, err := scanVitalSign(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get vital sign: %w", err)
	}
	return v, nil
}

func (r *SQLiteRepository) ListByProfile(ctx context.Context, profileID string) ([]*models.VitalSign, error) {
	rows, err := r.db.QueryContext(ctx, selectVitals+` WHERE profile_id = ? ORDER BY recorded_at DESC, local_id`, profileID)
	if err != nil {
		return nil, fmt.Errorf("failed to select vital signs: %w", err)
	}
	defer rows.Close()

	var result []*models.VitalSign
	for rows.Next() {
		v, err := scanVitalSign(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLiteRepository) ListByFacility(ctx context.Context, facilityID string) ([]*models.VitalSign, error) {
	rows, err := r.db.QueryContext(ctx, selectVitals+` WHERE facility_id = ? ORDER BY recorded_at DESC, local_id`, facilityID)
	if err != nil {
		return nil, fmt.Errorf("failed to select vital signs: %w", err)
	}
	defer rows.Close()

	var result []*models.VitalSign
	for rows.Next() {
		v, err := scanVitalSign(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLiteRepository) MarkSynced(ctx context.Context, localID, remoteID string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE vital_signs SET remote_id = ?, synced = 1 WHERE local_id = ?`,
		remoteID, localID)
	if err != nil {
		return fmt.Errorf("failed to mark vital sign synced: %w", err)
	}
	return nil
}

const selectVitals = `SELECT local_id, remote_id, synced, profile_id, facility_id, systolic_bp, diastolic_bp, pulse_rate, respiratory_rate, temperature_c, spo2, blood_loss_ml, recorded_at, created_at, updated_at
	FROM vital_signs`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanVitalSign(row rowScanner) (*models.VitalSign, error) {
	var v models.VitalSign
	var recordedAt, createdAt, updatedAt string

	if err := row.Scan(&v.LocalID, &v.RemoteID, &v.Synced, &v.ProfileID, &v.FacilityID,
		&v.SystolicBP, &v.DiastolicBP, &v.PulseRate, &v.RespiratoryRate,
		&v.TemperatureC, &v.SpO2, &v.BloodLossML,
		&recordedAt, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	var err error
	if v.RecordedAt, err = timex.Parse(recordedAt); err != nil {
		return nil, fmt.Errorf("bad recorded_at: %w", err)
	}
	if v.CreatedAt, err = timex.Parse(createdAt); err != nil {
		return nil, fmt.Errorf("bad created_at: %w", err)
	}
	if v.UpdatedAt, err = timex.Parse(updatedAt); err != nil {
		return nil, fmt.Errorf("bad updated_at: %w", err)
	}
	return &v, nil
}
