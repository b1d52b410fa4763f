package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/materna-health/materna/internal/common"
	"github.com/materna-health/materna/internal/models"
	"github.com/materna-health/materna/internal/repositories"
)

// ChecklistService manages the per-profile postpartum checklist.
type ChecklistService struct {
	*deps
}

// Get returns the profile's checklist, creating an empty one on first
// access. Creation enqueues the insert like any other write.
func (s *ChecklistService) Get(ctx context.Context, profileID string) (*models.EmotiveChecklist, error) {
	c, err := s.repos.Checklists.GetByProfile(ctx, profileID)
	if err == nil {
		return c, nil
	}
	if !errors.Is(err, common.ErrorNotFound) {
		return nil, err
	}

	if _, err := s.repos.Profiles.GetByLocalID(ctx, profileID); err != nil {
		return nil, err
	}

	now := s.now()
	c = models.NewEmotiveChecklist(now, profileID, s.facilityID)
	err = s.repos.WithTx(ctx, func(ctx context.Context, txr *repositories.Repositories) error {
		if err := txr.Checklists.Save(ctx, c); err != nil {
			return err
		}
		return enqueue(ctx, txr, models.TableChecklists, c.LocalID, models.OpInsert, c, now)
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

// SetStep records a step's state. Unknown steps are rejected without
// touching the checklist.
func (s *ChecklistService) SetStep(ctx context.Context, profileID string, step models.ChecklistStep, done bool, detail string) (*models.EmotiveChecklist, error) {
	if _, err := s.requireOpenProfile(ctx, profileID); err != nil {
		return nil, err
	}

	c, err := s.Get(ctx, profileID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	st := models.StepState{Done: done, Detail: detail}
	if done {
		t := now.UTC()
		st.Time = &t
	}
	if !c.SetStep(step, st) {
		return nil, fmt.Errorf("%w: %q", common.ErrorUnknownStep, step)
	}
	c.Synced = false
	c.UpdatedAt = now.UTC()

	// the queued payload carries only the changed step so delivery cannot
	// overwrite steps recorded on other devices since the last pull
	patch, _ := c.StepPatch(step)

	err = s.repos.WithTx(ctx, func(ctx context.Context, txr *repositories.Repositories) error {
		if err := txr.Checklists.Save(ctx, c); err != nil {
			return err
		}
		return enqueue(ctx, txr, models.TableChecklists, c.LocalID, models.OpUpdate, patch, now)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "checklist step updated",
		"profile_id", profileID, "step", string(step), "done", done)
	return c, nil
}
