package models

import "time"

// CaseEvent is an append-only fact describing something that happened during a
// case: an intervention, a referral, an observation. Like vitals, events are
// only ever inserted.
type CaseEvent struct {
	SyncMeta

	ProfileID   string    `json:"profile_id"`
	FacilityID  string    `json:"facility_id"`
	EventType   string    `json:"event_type"`
	Description string    `json:"description"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// NewCaseEvent creates an unsynced case event that occurred now.
func NewCaseEvent(now time.Time, profileID, facilityID, eventType, description string) *CaseEvent {
	return &CaseEvent{
		SyncMeta:    NewSyncMeta(now),
		ProfileID:   profileID,
		FacilityID:  facilityID,
		EventType:   eventType,
		Description: description,
		OccurredAt:  now.UTC(),
	}
}
