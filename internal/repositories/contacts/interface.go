package contacts

import (
	"context"

	"github.com/materna-health/materna/internal/models"
)

// Repository stores facility-scoped emergency contacts.
type Repository interface {
	Save(ctx context.Context, c *models.EmergencyContact) error
	GetByLocalID(ctx context.Context, localID string) (*models.EmergencyContact, error)

	// List returns a facility's contacts in alphabetical order by name.
	List(ctx context.Context, facilityID string) ([]*models.EmergencyContact, error)

	MarkSynced(ctx context.Context, localID, remoteID string) error

	// Delete removes the contact row. It expects the row to exist.
	Delete(ctx context.Context, localID string) error
}
