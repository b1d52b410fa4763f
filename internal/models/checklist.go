package models

import "time"

// ChecklistStep enumerates the steps of the postpartum care checklist. Steps
// are an explicit closed set rather than free-form string keys so every step
// is enumerable and exhaustively handled.
type ChecklistStep string

const (
	StepOxytocin           ChecklistStep = "oxytocin"
	StepUterineMassage     ChecklistStep = "uterine_massage"
	StepCordTraction       ChecklistStep = "cord_traction"
	StepPlacentaInspection ChecklistStep = "placenta_inspection"
	StepBleedingAssessment ChecklistStep = "bleeding_assessment"
	StepVitalsBaseline     ChecklistStep = "vitals_baseline"
)

// AllSteps returns every checklist step in display order.
func AllSteps() []ChecklistStep {
	return []ChecklistStep{
		StepOxytocin,
		StepUterineMassage,
		StepCordTraction,
		StepPlacentaInspection,
		StepBleedingAssessment,
		StepVitalsBaseline,
	}
}

// StepState is the recorded state of a single checklist step.
type StepState struct {
	Done   bool       `json:"done"`
	Time   *time.Time `json:"time,omitempty"`
	Detail string     `json:"detail,omitempty"`
}

// EmotiveChecklist is the singleton-per-profile mutable checklist record. It
// is the only entity whose remote merge involves an update path; all other
// tables are insert-only or whole-record replace.
type EmotiveChecklist struct {
	SyncMeta

	ProfileID  string `json:"profile_id"`
	FacilityID string `json:"facility_id"`

	Oxytocin           StepState `json:"oxytocin"`
	UterineMassage     StepState `json:"uterine_massage"`
	CordTraction       StepState `json:"cord_traction"`
	PlacentaInspection StepState `json:"placenta_inspection"`
	BleedingAssessment StepState `json:"bleeding_assessment"`
	VitalsBaseline     StepState `json:"vitals_baseline"`
}

// NewEmotiveChecklist creates the unsynced checklist for a profile with all
// steps unset.
func NewEmotiveChecklist(now time.Time, profileID, facilityID string) *EmotiveChecklist {
	return &EmotiveChecklist{
		SyncMeta:   NewSyncMeta(now),
		ProfileID:  profileID,
		FacilityID: facilityID,
	}
}

// StepPatch builds the update payload for a single step: record identity plus
// that step's state, nothing else. A full row serialized here would carry
// this device's view of every step and erase steps checked on other devices
// when the server merges the upsert.
func (c *EmotiveChecklist) StepPatch(s ChecklistStep) (map[string]any, bool) {
	st, ok := c.Step(s)
	if !ok {
		return nil, false
	}
	patch := map[string]any{
		"local_id":    c.LocalID,
		"profile_id":  c.ProfileID,
		"facility_id": c.FacilityID,
		string(s):     st,
		"updated_at":  c.UpdatedAt,
	}
	if c.RemoteID != "" {
		patch["id"] = c.RemoteID
	}
	return patch, true
}

// Step returns the state of the given step and whether the step is known.
func (c *EmotiveChecklist) Step(s ChecklistStep) (StepState, bool) {
	switch s {
	case StepOxytocin:
		return c.Oxytocin, true
	case StepUterineMassage:
		return c.UterineMassage, true
	case StepCordTraction:
		return c.CordTraction, true
	case StepPlacentaInspection:
		return c.PlacentaInspection, true
	case StepBleedingAssessment:
		return c.BleedingAssessment, true
	case StepVitalsBaseline:
		return c.VitalsBaseline, true
	default:
		return StepState{}, false
	}
}

// SetStep replaces the state of the given step. It reports whether the step is
// known; unknown steps leave the checklist untouched.
func (c *EmotiveChecklist) SetStep(s ChecklistStep, st StepState) bool {
	switch s {
	case StepOxytocin:
		c.Oxytocin = st
	case StepUterineMassage:
		c.UterineMassage = st
	case StepCordTraction:
		c.CordTraction = st
	case StepPlacentaInspection:
		c.PlacentaInspection = st
	case StepBleedingAssessment:
		c.BleedingAssessment = st
	case StepVitalsBaseline:
		c.VitalsBaseline = st
	default:
		return false
	}
	return true
}
