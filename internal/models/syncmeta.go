// Package models defines the clinical entity types shared by the local store,
// the outbox and the sync engine.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Table identifies an entity collection, both locally and on the remote side.
type Table string

const (
	TableProfiles   Table = "maternal_profiles"
	TableVitals     Table = "vital_signs"
	TableEvents     Table = "case_events"
	TableChecklists Table = "emotive_checklists"
	TableContacts   Table = "emergency_contacts"
)

// SyncMeta carries the identity and synchronization state every clinical
// entity shares.
//
// LocalID is the permanent client-generated primary key; it never changes and
// is unique on every device that ever creates or receives the record.
// RemoteID is assigned by the backend once the creating insert is accepted and
// never changes afterwards. Synced is true only while the record exactly
// reflects the last-known accepted remote state.
//
// On the wire the backend's primary key is "id" and the originating client key
// is echoed back as "local_id".
type SyncMeta struct {
	LocalID   string    `json:"local_id"`
	RemoteID  string    `json:"id,omitempty"`
	Synced    bool      `json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Meta returns a pointer to the embedded meta, satisfying Syncable.
func (m *SyncMeta) Meta() *SyncMeta { return m }

// Syncable is implemented by every entity the reconciler can merge.
type Syncable interface {
	Meta() *SyncMeta
}

// NewSyncMeta returns meta for a freshly created, not-yet-synced record.
func NewSyncMeta(now time.Time) SyncMeta {
	now = now.UTC()
	return SyncMeta{
		LocalID:   uuid.NewString(),
		Synced:    false,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
