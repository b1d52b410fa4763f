// Package derive computes presentation-side read models from stored records.
// Everything here is a pure function of its inputs; nothing reads storage or
// keeps state, so callers can evaluate these at render time.
package derive

import (
	"time"

	"github.com/materna-health/materna/internal/models"
)

type Level string

const (
	LevelNormal   Level = "normal"
	LevelElevated Level = "elevated"
	LevelCritical Level = "critical"
)

// Shock index bands for postpartum monitoring.
const (
	shockElevated = 0.9
	shockCritical = 1.4
)

// ShockIndex is pulse over systolic blood pressure. Returns 0 when systolic
// is not recorded.
func ShockIndex(pulseRate, systolicBP int) float64 {
	if systolicBP <= 0 {
		return 0
	}
	return float64(pulseRate) / float64(systolicBP)
}

func ClassifyShockIndex(si float64) Level {
	switch {
	case si >= shockCritical:
		return LevelCritical
	case si >= shockElevated:
		return LevelElevated
	default:
		return LevelNormal
	}
}

// Risk classifies a vitals reading against obstetric early warning
// thresholds. The worst individual finding wins. Unrecorded fields
// (zero values) are skipped.
func Risk(v *models.VitalSign) Level {
	level := LevelNormal

	raise := func(l Level) {
		if l == LevelCritical || (l == LevelElevated && level == LevelNormal) {
			level = l
		}
	}

	if v.SystolicBP > 0 {
		switch {
		case v.SystolicBP >= 160 || v.SystolicBP < 90:
			raise(LevelCritical)
		case v.SystolicBP >= 140:
			raise(LevelElevated)
		}
		raise(ClassifyShockIndex(ShockIndex(v.PulseRate, v.SystolicBP)))
	}
	if v.DiastolicBP > 0 {
		switch {
		case v.DiastolicBP >= 110:
			raise(LevelCritical)
		case v.DiastolicBP >= 90:
			raise(LevelElevated)
		}
	}
	if v.PulseRate > 0 {
		switch {
		case v.PulseRate >= 120 || v.PulseRate < 50:
			raise(LevelCritical)
		case v.PulseRate >= 100:
			raise(LevelElevated)
		}
	}
	if v.RespiratoryRate > 0 {
		switch {
		case v.RespiratoryRate >= 30 || v.RespiratoryRate < 10:
			raise(LevelCritical)
		case v.RespiratoryRate >= 21:
			raise(LevelElevated)
		}
	}
	if v.TemperatureC > 0 {
		switch {
		case v.TemperatureC >= 39.0 || v.TemperatureC < 35.0:
			raise(LevelCritical)
		case v.TemperatureC >= 38.0:
			raise(LevelElevated)
		}
	}
	if v.SpO2 > 0 {
		switch {
		case v.SpO2 < 92:
			raise(LevelCritical)
		case v.SpO2 < 95:
			raise(LevelElevated)
		}
	}
	if v.BloodLossML > 0 {
		switch {
		case v.BloodLossML >= 1000:
			raise(LevelCritical)
		case v.BloodLossML >= 500:
			raise(LevelElevated)
		}
	}

	return level
}

// VitalsDue reports whether a new vitals reading should be prompted. A
// profile with no readings yet is always due.
func VitalsDue(last time.Time, now time.Time, interval time.Duration) bool {
	if last.IsZero() {
		return true
	}
	return now.Sub(last) >= interval
}
