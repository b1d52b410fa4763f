package models

import "time"

// EmergencyContact is a facility-scoped referral contact. Unlike the clinical
// tables it is not tied to a profile and supports deletion.
type EmergencyContact struct {
	SyncMeta

	FacilityID string `json:"facility_id"`
	Name       string `json:"name"`
	Role       string `json:"role"`
	Phone      string `json:"phone"`
}

// NewEmergencyContact creates an unsynced contact for a facility.
func NewEmergencyContact(now time.Time, facilityID, name, role, phone string) *EmergencyContact {
	return &EmergencyContact{
		SyncMeta:   NewSyncMeta(now),
		FacilityID: facilityID,
		Name:       name,
		Role:       role,
		Phone:      phone,
	}
}
