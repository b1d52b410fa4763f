package checklists

import (
	"context"

	"github.com/materna-health/materna/internal/models"
)

// Repository stores the per-profile postpartum checklist.
type Repository interface {
	Save(ctx context.Context, c *models.EmotiveChecklist) error
	GetByLocalID(ctx context.Context, localID string) (*models.EmotiveChecklist, error)

	// GetByProfile returns the profile's checklist or common.ErrorNotFound.
	// If a remote race ever produced more than one row for a profile the
	// earliest-created one is returned, deterministically.
	GetByProfile(ctx context.Context, profileID string) (*models.EmotiveChecklist, error)

	// ListByFacility returns every checklist at a facility, oldest first.
	// The reconciler merges remote snapshots at this scope.
	ListByFacility(ctx context.Context, facilityID string) ([]*models.EmotiveChecklist, error)

	MarkSynced(ctx context.Context, localID, remoteID string) error
}
