package services

import (
	"context"

	"github.com/materna-health/materna/internal/models"
	"github.com/materna-health/materna/internal/repositories"
)

// EventService records and reads case events.
type EventService struct {
	*deps
}

func (s *EventService) Record(ctx context.Context, profileID, eventType, description string) (*models.CaseEvent, error) {
	if _, err := s.requireOpenProfile(ctx, profileID); err != nil {
		return nil, err
	}

	now := s.now()
	e := models.NewCaseEvent(now, profileID, s.facilityID, eventType, description)

	err := s.repos.WithTx(ctx, func(ctx context.Context, txr *repositories.Repositories) error {
		if err := txr.Events.Save(ctx, e); err != nil {
			return err
		}
		return enqueue(ctx, txr, models.TableEvents, e.LocalID, models.OpInsert, e, now)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "case event recorded",
		"local_id", e.LocalID, "profile_id", profileID, "event_type", eventType)
	return e, nil
}

func (s *EventService) List(ctx context.Context, profileID string) ([]*models.CaseEvent, error) {
	return s.repos.Events.ListByProfile(ctx, profileID)
}
