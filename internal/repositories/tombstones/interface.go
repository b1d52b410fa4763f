package tombstones

import (
	"context"
	"time"

	"github.com/materna-health/materna/internal/models"
)

// Repository records deleted record identities so a reconciliation pass fed a
// stale remote snapshot cannot resurrect them. A tombstone is written in the
// same transaction as the local delete, before the delete job is delivered.
type Repository interface {
	Add(ctx context.Context, table models.Table, localID, remoteID string, now time.Time) error

	// ForTable returns the set of dead identifiers for a table; both local
	// and remote ids of each tombstone are included in the set.
	ForTable(ctx context.Context, table models.Table) (map[string]struct{}, error)
}
