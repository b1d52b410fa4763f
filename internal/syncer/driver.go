// Package syncer implements the synchronization engine: draining the outbox
// against the remote server and reconciling remote snapshots into the local
// store.
package syncer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sethvargo/go-retry"
	"golang.org/x/sync/singleflight"

	"github.com/materna-health/materna/internal/common"
	"github.com/materna-health/materna/internal/logging"
	"github.com/materna-health/materna/internal/metrics"
	"github.com/materna-health/materna/internal/models"
	"github.com/materna-health/materna/internal/remote"
	"github.com/materna-health/materna/internal/repositories"
)

const (
	defaultMaxAttempts = 8
	defaultPassTimeout = 2 * time.Minute

	baseBackoff = 30 * time.Second
	maxBackoff  = time.Hour
)

// Driver orchestrates sync passes. A pass drains the outbox first (local
// intent reaches the server before its state is re-fetched), then pulls each
// collection and folds it into the store via Merge.
//
// Passes are serialized: concurrent SyncNow calls collapse into one running
// pass via singleflight. Sync errors are absorbed here and only exposed
// through Status; callers of the write path never block on the network.
type Driver struct {
	repos   *repositories.Repositories
	remote  remote.Client
	logger  logging.Logger
	metrics *metrics.Metrics

	facilityID  string
	unitID      string
	maxAttempts int
	passTimeout time.Duration
	now         func() time.Time

	group singleflight.Group

	mu        sync.Mutex
	syncing   bool
	lastError error
	lastSync  time.Time
}

type DriverOption func(*Driver)

// WithMaxAttempts bounds delivery retries of permanently-rejected jobs
// before they are dead-lettered.
func WithMaxAttempts(n int) DriverOption {
	return func(d *Driver) {
		if n > 0 {
			d.maxAttempts = n
		}
	}
}

func WithPassTimeout(timeout time.Duration) DriverOption {
	return func(d *Driver) {
		if timeout > 0 {
			d.passTimeout = timeout
		}
	}
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) DriverOption {
	return func(d *Driver) {
		d.now = now
	}
}

func NewDriver(repos *repositories.Repositories, client remote.Client, facilityID, unitID string,
	logger logging.Logger, m *metrics.Metrics, opts ...DriverOption) *Driver {
	d := &Driver{
		repos:       repos,
		remote:      client,
		logger:      logger,
		metrics:     m,
		facilityID:  facilityID,
		unitID:      unitID,
		maxAttempts: defaultMaxAttempts,
		passTimeout: defaultPassTimeout,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Status is a passive snapshot for UI indication.
type Status struct {
	Syncing   bool
	LastError error
	LastSync  time.Time
}

func (d *Driver) Status() Status {
	d.mu.Lock()
	defer d.mu.Unlock()
	return Status{Syncing: d.syncing, LastError: d.lastError, LastSync: d.lastSync}
}

// SyncNow runs one full sync pass, or joins the pass already in flight.
func (d *Driver) SyncNow(ctx context.Context) error {
	_, err, _ := d.group.Do("sync", func() (any, error) {
		return nil, d.pass(ctx)
	})
	return err
}

func (d *Driver) pass(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, d.passTimeout)
	defer cancel()

	d.mu.Lock()
	d.syncing = true
	d.mu.Unlock()

	d.logger.Debug(ctx, "sync pass started")
	err := d.runPass(ctx)

	d.mu.Lock()
	d.syncing = false
	d.lastError = err
	if err == nil {
		d.lastSync = d.now()
	}
	d.mu.Unlock()

	if depth, derr := d.repos.Outbox.Depth(ctx); derr == nil {
		d.metrics.QueueDepth.Set(float64(depth))
	}

	if err != nil {
		d.metrics.SyncFailures.Inc()
		d.logger.Warn(ctx, "sync pass failed", "error", err.Error())
		return err
	}
	d.metrics.SyncPasses.Inc()
	d.logger.Info(ctx, "sync pass completed")
	return nil
}

func (d *Driver) runPass(ctx context.Context) error {
	if err := d.drain(ctx); err != nil {
		return fmt.Errorf("outbox drain: %w", err)
	}
	if err := d.reconcileAll(ctx); err != nil {
		return fmt.Errorf("reconcile: %w", err)
	}
	return nil
}

// drain pushes queued jobs in enqueue order. A job that fails, or is still
// backing off, blocks later jobs for the same (table, local_id) key but not
// jobs for other keys, so one stuck record cannot stall the whole queue.
func (d *Driver) drain(ctx context.Context) error {
	jobs, err := d.repos.Outbox.Pending(ctx)
	if err != nil {
		return err
	}

	blocked := make(map[string]struct{})
	for _, job := range jobs {
		key := string(job.Table) + "/" + job.LocalID
		if _, ok := blocked[key]; ok {
			continue
		}
		if job.NextAttemptAt.After(d.now()) {
			blocked[key] = struct{}{}
			continue
		}

		err := d.deliver(ctx, job)
		if err == nil {
			continue
		}
		if errors.Is(err, remote.ErrUnavailable) || errors.Is(err, remote.ErrUnauthorized) {
			// nothing else will get through either; end the drain and
			// leave the rest of the queue for the next pass
			d.recordFailure(ctx, job, err)
			return err
		}
		d.recordFailure(ctx, job, err)
		blocked[key] = struct{}{}
	}
	return nil
}

func (d *Driver) deliver(ctx context.Context, job *models.Job) error {
	switch job.Op {
	case models.OpInsert, models.OpUpdate:
		return d.deliverUpsert(ctx, job)
	case models.OpDelete:
		return d.deliverDelete(ctx, job)
	default:
		return fmt.Errorf("%w: unknown op %q", common.ErrorInternal, job.Op)
	}
}

func (d *Driver) deliverUpsert(ctx context.Context, job *models.Job) error {
	var body json.RawMessage
	err := retry.Do(ctx, d.inPassRetry(), func(ctx context.Context) error {
		b, err := d.remote.Upsert(ctx, job.Table, job.Payload)
		if errors.Is(err, remote.ErrUnavailable) {
			return retry.RetryableError(err)
		}
		if err != nil {
			return err
		}
		body = b
		return nil
	})
	if err != nil {
		return err
	}

	remoteID := extractRemoteID(body)
	if remoteID == "" {
		remoteID = extractRemoteID(job.Payload)
	}

	// flip the sync flag only once the record has nothing left queued, so
	// synced always means "matches last accepted remote state". Completing
	// the job and checking the key share one transaction; an enqueue cannot
	// land between the check and the flag.
	err = d.repos.WithTx(ctx, func(ctx context.Context, txr *repositories.Repositories) error {
		if err := txr.Outbox.Complete(ctx, job.ID); err != nil {
			return err
		}
		n, err := txr.Outbox.PendingForKey(ctx, job.Table, job.LocalID)
		if err != nil {
			return err
		}
		if n == 0 {
			return markSynced(ctx, txr, job.Table, job.LocalID, remoteID)
		}
		return nil
	})
	if err != nil {
		return err
	}
	d.metrics.JobsDelivered.Inc()
	return nil
}

func (d *Driver) deliverDelete(ctx context.Context, job *models.Job) error {
	// a record deleted before its first push serialized no remote id, but
	// the insert delivered earlier in this drain may have created the server
	// row; it still carries the originating local id, so delete by that
	remoteID := extractRemoteID(job.Payload)
	err := retry.Do(ctx, d.inPassRetry(), func(ctx context.Context) error {
		var err error
		if remoteID != "" {
			err = d.remote.Delete(ctx, job.Table, remoteID)
		} else {
			err = d.remote.DeleteByLocalID(ctx, job.Table, job.LocalID)
		}
		if errors.Is(err, remote.ErrUnavailable) {
			return retry.RetryableError(err)
		}
		return err
	})
	if err != nil {
		return err
	}

	if err := d.repos.Outbox.Complete(ctx, job.ID); err != nil {
		return err
	}
	d.metrics.JobsDelivered.Inc()
	return nil
}

// inPassRetry covers short connection blips inside one pass. Longer outages
// are handled by the between-pass backoff schedule.
func (d *Driver) inPassRetry() retry.Backoff {
	return retry.WithMaxRetries(2, retry.NewFibonacci(250*time.Millisecond))
}

func (d *Driver) recordFailure(ctx context.Context, job *models.Job, cause error) {
	attempts := job.Attempts + 1

	// only permanent rejections are ever dead-lettered; a job failing on an
	// unreachable server stays queued no matter how long the outage lasts
	if errors.Is(cause, remote.ErrRejected) && attempts >= d.maxAttempts {
		if err := d.repos.Outbox.MarkDead(ctx, job.ID, cause.Error()); err != nil {
			d.logger.Error(ctx, "failed to dead-letter job", "job_id", job.ID, "error", err.Error())
			return
		}
		d.metrics.JobsDead.Inc()
		d.logger.Warn(ctx, "job dead-lettered",
			"job_id", job.ID, "table", string(job.Table), "local_id", job.LocalID,
			"attempts", attempts, "error", cause.Error())
		return
	}

	next := d.now().Add(backoffFor(attempts))
	if err := d.repos.Outbox.Fail(ctx, job.ID, attempts, next, cause.Error()); err != nil {
		d.logger.Error(ctx, "failed to record job failure", "job_id", job.ID, "error", err.Error())
		return
	}
	d.metrics.JobsFailed.Inc()
}

func backoffFor(attempts int) time.Duration {
	b := baseBackoff
	for i := 1; i < attempts; i++ {
		b *= 2
		if b >= maxBackoff {
			return maxBackoff
		}
	}
	return b
}

func markSynced(ctx context.Context, r *repositories.Repositories, table models.Table, localID, remoteID string) error {
	switch table {
	case models.TableProfiles:
		return r.Profiles.MarkSynced(ctx, localID, remoteID)
	case models.TableVitals:
		return r.Vitals.MarkSynced(ctx, localID, remoteID)
	case models.TableEvents:
		return r.Events.MarkSynced(ctx, localID, remoteID)
	case models.TableChecklists:
		return r.Checklists.MarkSynced(ctx, localID, remoteID)
	case models.TableContacts:
		return r.Contacts.MarkSynced(ctx, localID, remoteID)
	default:
		return fmt.Errorf("%w: unknown table %q", common.ErrorInternal, table)
	}
}

func extractRemoteID(body json.RawMessage) string {
	if len(body) == 0 {
		return ""
	}
	var row struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(body, &row); err != nil {
		return ""
	}
	return row.ID
}

// reconcileAll re-fetches every collection and folds it into the local
// store. Profiles go first so rows referencing newly-adopted profiles land
// against an existing parent.
func (d *Driver) reconcileAll(ctx context.Context) error {
	filter := remote.Filter{FacilityID: d.facilityID, UnitID: d.unitID}

	if err := reconcileTable(ctx, d, models.TableProfiles, filter,
		func() *models.MaternalProfile { return &models.MaternalProfile{} },
		func(ctx context.Context, r *repositories.Repositories) ([]*models.MaternalProfile, error) {
			return r.Profiles.List(ctx, d.facilityID)
		},
		func(ctx context.Context, r *repositories.Repositories, rec *models.MaternalProfile) error {
			return r.Profiles.Save(ctx, rec)
		},
		func(a, b *models.MaternalProfile) bool { return a.CreatedAt.After(b.CreatedAt) },
	); err != nil {
		return err
	}

	if err := reconcileTable(ctx, d, models.TableVitals, filter,
		func() *models.VitalSign { return &models.VitalSign{} },
		func(ctx context.Context, r *repositories.Repositories) ([]*models.VitalSign, error) {
			return r.Vitals.ListByFacility(ctx, d.facilityID)
		},
		func(ctx context.Context, r *repositories.Repositories, rec *models.VitalSign) error {
			return r.Vitals.Save(ctx, rec)
		},
		func(a, b *models.VitalSign) bool { return a.RecordedAt.After(b.RecordedAt) },
	); err != nil {
		return err
	}

	if err := reconcileTable(ctx, d, models.TableEvents, filter,
		func() *models.CaseEvent { return &models.CaseEvent{} },
		func(ctx context.Context, r *repositories.Repositories) ([]*models.CaseEvent, error) {
			return r.Events.ListByFacility(ctx, d.facilityID)
		},
		func(ctx context.Context, r *repositories.Repositories, rec *models.CaseEvent) error {
			return r.Events.Save(ctx, rec)
		},
		func(a, b *models.CaseEvent) bool { return a.OccurredAt.After(b.OccurredAt) },
	); err != nil {
		return err
	}

	if err := reconcileTable(ctx, d, models.TableChecklists, filter,
		func() *models.EmotiveChecklist { return &models.EmotiveChecklist{} },
		func(ctx context.Context, r *repositories.Repositories) ([]*models.EmotiveChecklist, error) {
			return r.Checklists.ListByFacility(ctx, d.facilityID)
		},
		func(ctx context.Context, r *repositories.Repositories, rec *models.EmotiveChecklist) error {
			return r.Checklists.Save(ctx, rec)
		},
		func(a, b *models.EmotiveChecklist) bool { return a.CreatedAt.Before(b.CreatedAt) },
	); err != nil {
		return err
	}

	if err := reconcileTable(ctx, d, models.TableContacts, filter,
		func() *models.EmergencyContact { return &models.EmergencyContact{} },
		func(ctx context.Context, r *repositories.Repositories) ([]*models.EmergencyContact, error) {
			return r.Contacts.List(ctx, d.facilityID)
		},
		func(ctx context.Context, r *repositories.Repositories, rec *models.EmergencyContact) error {
			return r.Contacts.Save(ctx, rec)
		},
		func(a, b *models.EmergencyContact) bool { return a.Name < b.Name },
	); err != nil {
		return err
	}

	return nil
}

func reconcileTable[T models.Syncable](ctx context.Context, d *Driver, table models.Table, filter remote.Filter,
	alloc func() T,
	load func(ctx context.Context, r *repositories.Repositories) ([]T, error),
	save func(ctx context.Context, r *repositories.Repositories, rec T) error,
	less func(a, b T) bool) error {

	rows, err := d.remote.List(ctx, table, filter)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", table, err)
	}

	snapshot := make([]T, 0, len(rows))
	for _, raw := range rows {
		rec := alloc()
		if err := json.Unmarshal(raw, rec); err != nil {
			return fmt.Errorf("decode %s row: %w", table, err)
		}
		snapshot = append(snapshot, rec)
	}

	// read, merge and write back in one transaction: a REPL write landing
	// mid-merge must not be overwritten by a stale merged copy
	var merged []T
	err = d.repos.WithTx(ctx, func(ctx context.Context, txr *repositories.Repositories) error {
		local, err := load(ctx, txr)
		if err != nil {
			return err
		}
		dead, err := txr.Tombstones.ForTable(ctx, table)
		if err != nil {
			return err
		}

		merged = Merge(local, snapshot, dead, less)
		for _, rec := range merged {
			if err := save(ctx, txr, rec); err != nil {
				return err
			}
		}
		return txr.Metadata.SetTime(ctx, common.MetadataKeyLastSyncPrefix+string(table), d.now())
	})
	if err != nil {
		return err
	}

	d.logger.Debug(ctx, "collection reconciled",
		"table", string(table), "remote_rows", len(snapshot), "merged_rows", len(merged))
	return nil
}
