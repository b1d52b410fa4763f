package services

import (
	"context"
	"time"

	"github.com/materna-health/materna/internal/derive"
	"github.com/materna-health/materna/internal/models"
	"github.com/materna-health/materna/internal/repositories"
)

// VitalsService records and reads vital-sign facts.
type VitalsService struct {
	*deps
}

// VitalsInput carries one reading. Zero-valued fields mean "not measured".
type VitalsInput struct {
	SystolicBP      int
	DiastolicBP     int
	PulseRate       int
	RespiratoryRate int
	TemperatureC    float64
	SpO2            int
	BloodLossML     int
}

// VitalsReading is a stored reading enriched for presentation.
type VitalsReading struct {
	*models.VitalSign

	Risk       derive.Level
	ShockIndex float64
	ShockLevel derive.Level
}

func (s *VitalsService) Record(ctx context.Context, profileID string, in VitalsInput) (*models.VitalSign, error) {
	if _, err := s.requireOpenProfile(ctx, profileID); err != nil {
		return nil, err
	}

	now := s.now()
	v := models.NewVitalSign(now, profileID, s.facilityID)
	v.SystolicBP = in.SystolicBP
	v.DiastolicBP = in.DiastolicBP
	v.PulseRate = in.PulseRate
	v.RespiratoryRate = in.RespiratoryRate
	v.TemperatureC = in.TemperatureC
	v.SpO2 = in.SpO2
	v.BloodLossML = in.BloodLossML

	err := s.repos.WithTx(ctx, func(ctx context.Context, txr *repositories.Repositories) error {
		if err := txr.Vitals.Save(ctx, v); err != nil {
			return err
		}
		return enqueue(ctx, txr, models.TableVitals, v.LocalID, models.OpInsert, v, now)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "vitals recorded", "local_id", v.LocalID, "profile_id", profileID)
	return v, nil
}

// List returns a profile's readings, newest first, with derived
// classifications attached.
func (s *VitalsService) List(ctx context.Context, profileID string) ([]*VitalsReading, error) {
	rows, err := s.repos.Vitals.ListByProfile(ctx, profileID)
	if err != nil {
		return nil, err
	}
	result := make([]*VitalsReading, 0, len(rows))
	for _, v := range rows {
		si := derive.ShockIndex(v.PulseRate, v.SystolicBP)
		result = append(result, &VitalsReading{
			VitalSign:  v,
			Risk:       derive.Risk(v),
			ShockIndex: si,
			ShockLevel: derive.ClassifyShockIndex(si),
		})
	}
	return result, nil
}

// Due reports whether a fresh reading should be prompted for the profile.
func (s *VitalsService) Due(ctx context.Context, profileID string, interval time.Duration) (bool, error) {
	rows, err := s.repos.Vitals.ListByProfile(ctx, profileID)
	if err != nil {
		return false, err
	}
	var last time.Time
	if len(rows) > 0 {
		last = rows[0].RecordedAt
	}
	return derive.VitalsDue(last, s.now(), interval), nil
}
