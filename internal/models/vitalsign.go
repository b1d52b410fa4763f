package models

import "time"

// VitalSign is an append-only fact about a profile: once recorded it is never
// updated, only inserted. That keeps merge trivial for this table (no
// update/update conflicts are possible).
type VitalSign struct {
	SyncMeta

	ProfileID       string    `json:"profile_id"`
	FacilityID      string    `json:"facility_id"`
	SystolicBP      int       `json:"systolic_bp"`
	DiastolicBP     int       `json:"diastolic_bp"`
	PulseRate       int       `json:"pulse_rate"`
	RespiratoryRate int       `json:"respiratory_rate"`
	TemperatureC    float64   `json:"temperature_c"`
	SpO2            int       `json:"spo2"`
	BloodLossML     int       `json:"blood_loss_ml"`
	RecordedAt      time.Time `json:"recorded_at"`
}

// NewVitalSign creates an unsynced vitals fact recorded now.
func NewVitalSign(now time.Time, profileID, facilityID string) *VitalSign {
	return &VitalSign{
		SyncMeta:   NewSyncMeta(now),
		ProfileID:  profileID,
		FacilityID: facilityID,
		RecordedAt: now.UTC(),
	}
}
