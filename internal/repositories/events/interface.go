package events

import (
	"context"

	"github.com/materna-health/materna/internal/models"
)

// Repository stores case-event facts. Same append-only contract as vitals.
type Repository interface {
	Save(ctx context.Context, e *models.CaseEvent) error
	GetByLocalID(ctx context.Context, localID string) (*models.CaseEvent, error)

	// ListByProfile returns a profile's events, newest first.
	ListByProfile(ctx context.Context, profileID string) ([]*models.CaseEvent, error)

	// ListByFacility returns every event recorded at a facility, newest
	// first. The reconciler merges remote snapshots at this scope.
	ListByFacility(ctx context.Context, facilityID string) ([]*models.CaseEvent, error)

	MarkSynced(ctx context.Context, localID, remoteID string) error
}
