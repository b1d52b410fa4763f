package models

import "time"

// ProfileStatus is the care-lifecycle state of a maternal profile. It is
// layered on top of sync state and moves independently of it.
type ProfileStatus string

const (
	StatusPreDelivery ProfileStatus = "pre_delivery"
	StatusActive      ProfileStatus = "active"
	StatusMonitoring  ProfileStatus = "monitoring"
	StatusClosed      ProfileStatus = "closed"
)

var statusRank = map[ProfileStatus]int{
	StatusPreDelivery: 0,
	StatusActive:      1,
	StatusMonitoring:  2,
	StatusClosed:      3,
}

// Valid reports whether s is a known status value.
func (s ProfileStatus) Valid() bool {
	_, ok := statusRank[s]
	return ok
}

// Terminal reports whether no further transition is permitted from s.
func (s ProfileStatus) Terminal() bool { return s == StatusClosed }

// CanTransition reports whether a profile may move from s to the given status.
// The lifecycle only moves forward (pre_delivery → active → monitoring →
// closed) and closed is terminal.
func (s ProfileStatus) CanTransition(to ProfileStatus) bool {
	from, ok := statusRank[s]
	dst, ok2 := statusRank[to]
	if !ok || !ok2 {
		return false
	}
	if s.Terminal() {
		return false
	}
	return dst > from
}

// MaternalProfile is the root aggregate: vitals, case events and the checklist
// all reference it by LocalID.
type MaternalProfile struct {
	SyncMeta

	FacilityID   string        `json:"facility_id"`
	UnitID       string        `json:"unit_id"`
	FullName     string        `json:"full_name"`
	Age          int           `json:"age"`
	Gravida      int           `json:"gravida"`
	Parity       int           `json:"parity"`
	Status       ProfileStatus `json:"status"`
	DeliveryTime *time.Time    `json:"delivery_time,omitempty"`
	Notes        string        `json:"notes,omitempty"`
}

// NewMaternalProfile creates an unsynced profile in the pre-delivery state.
func NewMaternalProfile(now time.Time, facilityID, unitID, fullName string, age int) *MaternalProfile {
	return &MaternalProfile{
		SyncMeta:   NewSyncMeta(now),
		FacilityID: facilityID,
		UnitID:     unitID,
		FullName:   fullName,
		Age:        age,
		Status:     StatusPreDelivery,
	}
}

// AcceptsWrites reports whether new facts (vitals, case events, checklist
// updates) may still be recorded against the profile.
func (p *MaternalProfile) AcceptsWrites() bool {
	return p.Status != StatusClosed
}
