package services

import (
	"context"
	"fmt"

	"github.com/materna-health/materna/internal/common"
	"github.com/materna-health/materna/internal/models"
	"github.com/materna-health/materna/internal/repositories"
)

// ProfileService manages the maternal profile lifecycle.
type ProfileService struct {
	*deps
}

func (s *ProfileService) Create(ctx context.Context, fullName string, age, gravida, parity int) (*models.MaternalProfile, error) {
	now := s.now()
	p := models.NewMaternalProfile(now, s.facilityID, s.unitID, fullName, age)
	p.Gravida = gravida
	p.Parity = parity

	err := s.repos.WithTx(ctx, func(ctx context.Context, txr *repositories.Repositories) error {
		if err := txr.Profiles.Save(ctx, p); err != nil {
			return err
		}
		return enqueue(ctx, txr, models.TableProfiles, p.LocalID, models.OpInsert, p, now)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "profile created", "local_id", p.LocalID, "full_name", p.FullName)
	return p, nil
}

func (s *ProfileService) Get(ctx context.Context, localID string) (*models.MaternalProfile, error) {
	return s.repos.Profiles.GetByLocalID(ctx, localID)
}

func (s *ProfileService) List(ctx context.Context) ([]*models.MaternalProfile, error) {
	return s.repos.Profiles.List(ctx, s.facilityID)
}

// UpdateStatus advances the care lifecycle. Transitions only move forward;
// moving to active records the delivery time.
func (s *ProfileService) UpdateStatus(ctx context.Context, localID string, to models.ProfileStatus) (*models.MaternalProfile, error) {
	if !to.Valid() {
		return nil, fmt.Errorf("%w: %q", common.ErrorInvalidStatus, to)
	}

	p, err := s.repos.Profiles.GetByLocalID(ctx, localID)
	if err != nil {
		return nil, err
	}
	if !p.Status.CanTransition(to) {
		return nil, fmt.Errorf("%w: %s to %s", common.ErrorInvalidTransition, p.Status, to)
	}

	now := s.now()
	p.Status = to
	if to == models.StatusActive && p.DeliveryTime == nil {
		t := now.UTC()
		p.DeliveryTime = &t
	}
	p.Synced = false
	p.UpdatedAt = now.UTC()

	err = s.repos.WithTx(ctx, func(ctx context.Context, txr *repositories.Repositories) error {
		if err := txr.Profiles.Save(ctx, p); err != nil {
			return err
		}
		return enqueue(ctx, txr, models.TableProfiles, p.LocalID, models.OpUpdate, p, now)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "profile status updated", "local_id", p.LocalID, "status", string(to))
	return p, nil
}

func (s *ProfileService) UpdateNotes(ctx context.Context, localID, notes string) (*models.MaternalProfile, error) {
	p, err := s.repos.Profiles.GetByLocalID(ctx, localID)
	if err != nil {
		return nil, err
	}
	if !p.AcceptsWrites() {
		return nil, common.ErrorProfileClosed
	}

	now := s.now()
	p.Notes = notes
	p.Synced = false
	p.UpdatedAt = now.UTC()

	err = s.repos.WithTx(ctx, func(ctx context.Context, txr *repositories.Repositories) error {
		if err := txr.Profiles.Save(ctx, p); err != nil {
			return err
		}
		return enqueue(ctx, txr, models.TableProfiles, p.LocalID, models.OpUpdate, p, now)
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

// requireOpenProfile loads the profile and rejects writes against a closed
// case.
func (d *deps) requireOpenProfile(ctx context.Context, profileID string) (*models.MaternalProfile, error) {
	p, err := d.repos.Profiles.GetByLocalID(ctx, profileID)
	if err != nil {
		return nil, err
	}
	if !p.AcceptsWrites() {
		return nil, common.ErrorProfileClosed
	}
	return p, nil
}
