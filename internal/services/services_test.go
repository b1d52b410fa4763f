package services

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/materna-health/materna/internal/common"
	"github.com/materna-health/materna/internal/derive"
	"github.com/materna-health/materna/internal/logging"
	"github.com/materna-health/materna/internal/models"
	"github.com/materna-health/materna/internal/repositories"
)

const (
	testFacility = "fac-1"
	testUnit     = "unit-1"
)

func setup(t *testing.T) (*Services, *repositories.Repositories) {
	t.Helper()
	db, err := repositories.InitDatabase(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	repos := repositories.New(db)
	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	return New(repos, logger, testFacility, testUnit), repos
}

func TestProfileCreate_WritesRowAndJob(t *testing.T) {
	ctx := context.Background()
	svc, repos := setup(t)

	p, err := svc.Profiles.Create(ctx, "Amina Yusuf", 27, 2, 1)
	require.NoError(t, err)
	assert.NotEmpty(t, p.LocalID)
	assert.Equal(t, models.StatusPreDelivery, p.Status)
	assert.False(t, p.Synced)

	got, err := repos.Profiles.GetByLocalID(ctx, p.LocalID)
	require.NoError(t, err)
	assert.Equal(t, "Amina Yusuf", got.FullName)

	jobs, err := repos.Outbox.Pending(ctx)
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, models.TableProfiles, jobs[0].Table)
	assert.Equal(t, models.OpInsert, jobs[0].Op)
	assert.Equal(t, p.LocalID, jobs[0].LocalID)
}

func TestProfileStatus_ForwardOnly(t *testing.T) {
	ctx := context.Background()
	svc, _ := setup(t)

	p, err := svc.Profiles.Create(ctx, "Amina Yusuf", 27, 2, 1)
	require.NoError(t, err)

	p, err = svc.Profiles.UpdateStatus(ctx, p.LocalID, models.StatusActive)
	require.NoError(t, err)
	assert.Equal(t, models.StatusActive, p.Status)
	assert.NotNil(t, p.DeliveryTime, "activation records the delivery time")

	// skipping ahead is allowed, going back is not
	_, err = svc.Profiles.UpdateStatus(ctx, p.LocalID, models.StatusPreDelivery)
	assert.ErrorIs(t, err, common.ErrorInvalidTransition)

	p, err = svc.Profiles.UpdateStatus(ctx, p.LocalID, models.StatusClosed)
	require.NoError(t, err)

	_, err = svc.Profiles.UpdateStatus(ctx, p.LocalID, models.StatusMonitoring)
	assert.ErrorIs(t, err, common.ErrorInvalidTransition)

	_, err = svc.Profiles.UpdateStatus(ctx, p.LocalID, models.ProfileStatus("archived"))
	assert.ErrorIs(t, err, common.ErrorInvalidStatus)
}

func TestClosedProfileRejectsWrites(t *testing.T) {
	ctx := context.Background()
	svc, _ := setup(t)

	p, err := svc.Profiles.Create(ctx, "Amina Yusuf", 27, 2, 1)
	require.NoError(t, err)
	_, err = svc.Profiles.UpdateStatus(ctx, p.LocalID, models.StatusClosed)
	require.NoError(t, err)

	_, err = svc.Vitals.Record(ctx, p.LocalID, VitalsInput{SystolicBP: 120, PulseRate: 80})
	assert.ErrorIs(t, err, common.ErrorProfileClosed)

	_, err = svc.Events.Record(ctx, p.LocalID, "observation", "resting")
	assert.ErrorIs(t, err, common.ErrorProfileClosed)

	_, err = svc.Checklists.SetStep(ctx, p.LocalID, models.StepOxytocin, true, "")
	assert.ErrorIs(t, err, common.ErrorProfileClosed)

	_, err = svc.Profiles.UpdateNotes(ctx, p.LocalID, "late note")
	assert.ErrorIs(t, err, common.ErrorProfileClosed)
}

func TestVitalsRecordAndList(t *testing.T) {
	ctx := context.Background()
	svc, repos := setup(t)

	p, err := svc.Profiles.Create(ctx, "Amina Yusuf", 27, 2, 1)
	require.NoError(t, err)

	_, err = svc.Vitals.Record(ctx, p.LocalID, VitalsInput{SystolicBP: 95, PulseRate: 135})
	require.NoError(t, err)
	_, err = svc.Vitals.Record(ctx, p.LocalID, VitalsInput{SystolicBP: 118, DiastolicBP: 76, PulseRate: 82})
	require.NoError(t, err)

	readings, err := svc.Vitals.List(ctx, p.LocalID)
	require.NoError(t, err)
	require.Len(t, readings, 2)

	// newest first; the older tachycardic reading is classified critical
	assert.Equal(t, derive.LevelNormal, readings[0].Risk)
	assert.Equal(t, derive.LevelCritical, readings[1].Risk)
	assert.InDelta(t, 135.0/95.0, readings[1].ShockIndex, 0.001)

	depth, err := repos.Outbox.Depth(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, depth, "profile insert plus two vitals inserts")
}

func TestVitalsDue(t *testing.T) {
	ctx := context.Background()
	svc, _ := setup(t)

	p, err := svc.Profiles.Create(ctx, "Amina Yusuf", 27, 2, 1)
	require.NoError(t, err)

	due, err := svc.Vitals.Due(ctx, p.LocalID, 30*time.Minute)
	require.NoError(t, err)
	assert.True(t, due, "no reading yet")

	_, err = svc.Vitals.Record(ctx, p.LocalID, VitalsInput{SystolicBP: 118, PulseRate: 82})
	require.NoError(t, err)

	due, err = svc.Vitals.Due(ctx, p.LocalID, 30*time.Minute)
	require.NoError(t, err)
	assert.False(t, due)
}

func TestChecklist_GetCreatesOnce(t *testing.T) {
	ctx := context.Background()
	svc, repos := setup(t)

	p, err := svc.Profiles.Create(ctx, "Amina Yusuf", 27, 2, 1)
	require.NoError(t, err)

	c1, err := svc.Checklists.Get(ctx, p.LocalID)
	require.NoError(t, err)
	c2, err := svc.Checklists.Get(ctx, p.LocalID)
	require.NoError(t, err)
	assert.Equal(t, c1.LocalID, c2.LocalID)

	jobs, err := repos.Outbox.Pending(ctx)
	require.NoError(t, err)
	var checklistInserts int
	for _, j := range jobs {
		if j.Table == models.TableChecklists {
			checklistInserts++
		}
	}
	assert.Equal(t, 1, checklistInserts)
}

func TestChecklist_SetStep(t *testing.T) {
	ctx := context.Background()
	svc, _ := setup(t)

	p, err := svc.Profiles.Create(ctx, "Amina Yusuf", 27, 2, 1)
	require.NoError(t, err)

	c, err := svc.Checklists.SetStep(ctx, p.LocalID, models.StepOxytocin, true, "10 IU IM")
	require.NoError(t, err)
	assert.True(t, c.Oxytocin.Done)
	assert.NotNil(t, c.Oxytocin.Time)
	assert.Equal(t, "10 IU IM", c.Oxytocin.Detail)
	assert.False(t, c.Synced)

	_, err = svc.Checklists.SetStep(ctx, p.LocalID, models.ChecklistStep("episiotomy"), true, "")
	assert.ErrorIs(t, err, common.ErrorUnknownStep)

	// unchecking clears the timestamp
	c, err = svc.Checklists.SetStep(ctx, p.LocalID, models.StepOxytocin, false, "")
	require.NoError(t, err)
	assert.False(t, c.Oxytocin.Done)
	assert.Nil(t, c.Oxytocin.Time)
}

func TestChecklist_SetStepQueuesOnlyTheChangedStep(t *testing.T) {
	ctx := context.Background()
	svc, repos := setup(t)

	p, err := svc.Profiles.Create(ctx, "Amina Yusuf", 27, 2, 1)
	require.NoError(t, err)

	_, err = svc.Checklists.SetStep(ctx, p.LocalID, models.StepOxytocin, true, "10 IU IM")
	require.NoError(t, err)

	jobs, err := repos.Outbox.Pending(ctx)
	require.NoError(t, err)
	var update *models.Job
	for _, j := range jobs {
		if j.Table == models.TableChecklists && j.Op == models.OpUpdate {
			update = j
		}
	}
	require.NotNil(t, update)

	// a full row here would carry done:false for every untouched step and
	// overwrite steps checked on other devices when the server merges it
	var payload map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(update.Payload, &payload))
	assert.Contains(t, payload, "local_id")
	assert.Contains(t, payload, "oxytocin")
	assert.Contains(t, payload, "updated_at")
	for _, step := range models.AllSteps() {
		if step == models.StepOxytocin {
			continue
		}
		assert.NotContains(t, payload, string(step))
	}
}

func TestContacts_DeleteWritesTombstoneAndJob(t *testing.T) {
	ctx := context.Background()
	svc, repos := setup(t)

	c, err := svc.Contacts.Add(ctx, "Dr. Okafor", "obstetrician", "+234000000")
	require.NoError(t, err)

	require.NoError(t, svc.Contacts.Delete(ctx, c.LocalID))

	list, err := svc.Contacts.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	dead, err := repos.Tombstones.ForTable(ctx, models.TableContacts)
	require.NoError(t, err)
	assert.Contains(t, dead, c.LocalID)

	jobs, err := repos.Outbox.Pending(ctx)
	require.NoError(t, err)
	require.Len(t, jobs, 2, "insert then delete, in order")
	assert.Equal(t, models.OpInsert, jobs[0].Op)
	assert.Equal(t, models.OpDelete, jobs[1].Op)

	assert.ErrorIs(t, svc.Contacts.Delete(ctx, "missing"), common.ErrorNotFound)
}
