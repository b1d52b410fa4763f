// Package services implements the application operations on top of the
// repositories. Every mutation writes the entity row and its outbox job in
// one transaction, so the local store and the queue can never disagree about
// what still has to reach the server.
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/materna-health/materna/internal/logging"
	"github.com/materna-health/materna/internal/models"
	"github.com/materna-health/materna/internal/repositories"
)

// Services bundles the per-aggregate services sharing one store.
type Services struct {
	Profiles   *ProfileService
	Vitals     *VitalsService
	Events     *EventService
	Checklists *ChecklistService
	Contacts   *ContactService
}

type Option func(*deps)

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(d *deps) {
		d.now = now
	}
}

type deps struct {
	repos      *repositories.Repositories
	logger     logging.Logger
	facilityID string
	unitID     string
	now        func() time.Time
}

func New(repos *repositories.Repositories, logger logging.Logger, facilityID, unitID string, opts ...Option) *Services {
	d := &deps{
		repos:      repos,
		logger:     logger,
		facilityID: facilityID,
		unitID:     unitID,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	return &Services{
		Profiles:   &ProfileService{deps: d},
		Vitals:     &VitalsService{deps: d},
		Events:     &EventService{deps: d},
		Checklists: &ChecklistService{deps: d},
		Contacts:   &ContactService{deps: d},
	}
}

// enqueue serializes the record and appends the outbox job inside the
// caller's transaction.
func enqueue(ctx context.Context, txr *repositories.Repositories, table models.Table, localID string, op models.Op, rec any, now time.Time) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to encode outbox payload: %w", err)
	}
	_, err = txr.Outbox.Enqueue(ctx, table, localID, op, payload, now)
	return err
}
