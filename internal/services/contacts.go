package services

import (
	"context"

	"github.com/materna-health/materna/internal/models"
	"github.com/materna-health/materna/internal/repositories"
)

// ContactService manages the facility's emergency contact list. This is the
// only collection with a delete path, so it is also where tombstones are
// written.
type ContactService struct {
	*deps
}

func (s *ContactService) Add(ctx context.Context, name, role, phone string) (*models.EmergencyContact, error) {
	now := s.now()
	c := models.NewEmergencyContact(now, s.facilityID, name, role, phone)

	err := s.repos.WithTx(ctx, func(ctx context.Context, txr *repositories.Repositories) error {
		if err := txr.Contacts.Save(ctx, c); err != nil {
			return err
		}
		return enqueue(ctx, txr, models.TableContacts, c.LocalID, models.OpInsert, c, now)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "contact added", "local_id", c.LocalID, "name", name)
	return c, nil
}

func (s *ContactService) List(ctx context.Context) ([]*models.EmergencyContact, error) {
	return s.repos.Contacts.List(ctx, s.facilityID)
}

// Delete removes the contact locally and queues the remote delete. The
// tombstone lands in the same transaction as the row removal, so a sync pass
// can never observe the delete without the tombstone.
func (s *ContactService) Delete(ctx context.Context, localID string) error {
	c, err := s.repos.Contacts.GetByLocalID(ctx, localID)
	if err != nil {
		return err
	}

	now := s.now()
	err = s.repos.WithTx(ctx, func(ctx context.Context, txr *repositories.Repositories) error {
		if err := txr.Contacts.Delete(ctx, localID); err != nil {
			return err
		}
		if err := txr.Tombstones.Add(ctx, models.TableContacts, c.LocalID, c.RemoteID, now); err != nil {
			return err
		}
		return enqueue(ctx, txr, models.TableContacts, c.LocalID, models.OpDelete, c, now)
	})
	if err != nil {
		return err
	}

	s.logger.Info(ctx, "contact deleted", "local_id", localID)
	return nil
}
