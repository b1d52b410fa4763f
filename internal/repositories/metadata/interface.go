package metadata

import (
	"context"
	"time"
)

// Repository is a small key/value store for engine bookkeeping: the stable
// device id and per-table last-sync checkpoints.
type Repository interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string) error

	// GetTime and SetTime store RFC3339 timestamps under a key. GetTime
	// returns the zero time when the key has never been written.
	GetTime(ctx context.Context, key string) (time.Time, error)
	SetTime(ctx context.Context, key string, value time.Time) error
}
