package vitals

import (
	"context"

	"github.com/materna-health/materna/internal/models"
)

// Repository stores vital-sign facts. Vitals are append-only: Save exists for
// upsert semantics during reconciliation, but domain code never rewrites a
// recorded reading.
type Repository interface {
	Save(ctx context.Context, v *models.VitalSign) error
	GetByLocalID(ctx context.Context, localID string) (*models.VitalSign, error)

	// ListByProfile returns a profile's readings, newest first.
	ListByProfile(ctx context.Context, profileID string) ([]*models.VitalSign, error)

	// ListByFacility returns every reading recorded at a facility, newest
	// first. The reconciler merges remote snapshots at this scope.
	ListByFacility(ctx context.Context, facilityID string) ([]*models.VitalSign, error)

	MarkSynced(ctx context.Context, localID, remoteID string) error
}
