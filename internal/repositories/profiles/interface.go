package profiles

import (
	"context"

	"github.com/materna-health/materna/internal/models"
)

// Repository is the durable store for maternal profiles, keyed by local id.
type Repository interface {
	// Save upserts a profile by its local id. The call is atomic with respect
	// to concurrent readers.
	Save(ctx context.Context, p *models.MaternalProfile) error

	// GetByLocalID returns a single profile or common.ErrorNotFound.
	GetByLocalID(ctx context.Context, localID string) (*models.MaternalProfile, error)

	// List returns all profiles for a facility, newest first.
	List(ctx context.Context, facilityID string) ([]*models.MaternalProfile, error)

	// MarkSynced records that the remote accepted the profile: sets the
	// server-assigned id and flips the sync flag.
	MarkSynced(ctx context.Context, localID, remoteID string) error

	// Delete removes the profile row.
	Delete(ctx context.Context, localID string) error
}
