package outbox

import (
	"context"
	"encoding/json"
	"time"

	"github.com/materna-health/materna/internal/models"
)

// Repository is the durable mutation queue. Jobs record the intent to mutate
// the remote store, independent of whether the mutation has yet succeeded.
//
// Ordering: jobs are appended with a monotonically increasing rowid, so
// iterating in id order yields global FIFO and therefore per-(table, local_id)
// FIFO — preserved across process restarts because the id lives in SQLite.
type Repository interface {
	// Enqueue appends a job and returns its id.
	Enqueue(ctx context.Context, table models.Table, localID string, op models.Op, payload json.RawMessage, now time.Time) (int64, error)

	// Pending returns every live (non-dead) job in enqueue order. Callers
	// decide per-job eligibility from NextAttemptAt; filtering here would let
	// a backing-off job be overtaken by a later job for the same key.
	Pending(ctx context.Context) ([]*models.Job, error)

	// PendingForKey counts live jobs for one (table, local_id) key.
	PendingForKey(ctx context.Context, table models.Table, localID string) (int, error)

	// Complete removes a delivered job.
	Complete(ctx context.Context, id int64) error

	// Fail records a failed delivery attempt and schedules the next one.
	Fail(ctx context.Context, id int64, attempts int, nextAttemptAt time.Time, lastError string) error

	// MarkDead parks a job in the dead-letter state; it is never retried
	// again but stays visible for inspection.
	MarkDead(ctx context.Context, id int64, lastError string) error

	// Dead lists dead-lettered jobs in enqueue order.
	Dead(ctx context.Context) ([]*models.Job, error)

	// Depth returns the number of live jobs.
	Depth(ctx context.Context) (int, error)
}
