// Package remote talks to the facility's central sync server. The engine
// never reads remote state directly; everything flows through this client
// during a sync pass.
package remote

import (
	"context"
	"encoding/json"

	"github.com/materna-health/materna/internal/models"
)

// Filter narrows a List call. Zero-value fields are omitted from the query.
type Filter struct {
	ProfileID  string
	FacilityID string
	UnitID     string
}

// Client is the transport used by the sync driver. Upsert returns the
// server's representation of the stored row, which carries the
// authoritative remote id. DeleteByLocalID covers rows whose remote id was
// never learned locally; every row keeps its originating local id.
type Client interface {
	Ping(ctx context.Context) error
	Upsert(ctx context.Context, table models.Table, payload json.RawMessage) (json.RawMessage, error)
	Delete(ctx context.Context, table models.Table, remoteID string) error
	DeleteByLocalID(ctx context.Context, table models.Table, localID string) error
	List(ctx context.Context, table models.Table, filter Filter) ([]json.RawMessage, error)
}
