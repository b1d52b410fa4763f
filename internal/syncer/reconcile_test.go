package syncer

import (
	"testing"
	"time"

	"github.com/materna-health/materna/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func vital(localID, remoteID string, synced bool, pulse int, at time.Time) *models.VitalSign {
	return &models.VitalSign{
		SyncMeta: models.SyncMeta{
			LocalID:   localID,
			RemoteID:  remoteID,
			Synced:    synced,
			CreatedAt: at,
			UpdatedAt: at,
		},
		ProfileID:  "p-1",
		PulseRate:  pulse,
		RecordedAt: at,
	}
}

func byRecordedAtDesc(a, b *models.VitalSign) bool {
	return a.RecordedAt.After(b.RecordedAt)
}

var noTombstones = map[string]struct{}{}

func TestMerge_RemoteReplacesSyncedLocal(t *testing.T) {
	at := time.Now()
	local := []*models.VitalSign{vital("loc-1", "srv-1", true, 80, at)}
	remote := []*models.VitalSign{vital("", "srv-1", false, 95, at)}

	out := Merge(local, remote, noTombstones, byRecordedAtDesc)

	require.Len(t, out, 1)
	assert.Equal(t, 95, out[0].PulseRate, "synced local is replaced by server copy")
	assert.Equal(t, "loc-1", out[0].LocalID, "local id survives the swap")
	assert.Equal(t, "srv-1", out[0].RemoteID)
	assert.True(t, out[0].Synced)
}

func TestMerge_UnsyncedLocalEditIsPreserved(t *testing.T) {
	at := time.Now()
	local := []*models.VitalSign{vital("loc-1", "srv-1", false, 120, at)}
	remote := []*models.VitalSign{vital("loc-1", "srv-1", false, 80, at)}

	out := Merge(local, remote, noTombstones, byRecordedAtDesc)

	require.Len(t, out, 1)
	assert.Equal(t, 120, out[0].PulseRate, "pending edit must not be erased by a stale snapshot")
	assert.False(t, out[0].Synced)
}

func TestMerge_UnknownRemoteIsAdopted(t *testing.T) {
	at := time.Now()
	remote := []*models.VitalSign{vital("loc-b", "srv-9", false, 70, at)}

	out := Merge(nil, remote, noTombstones, byRecordedAtDesc)

	require.Len(t, out, 1)
	assert.True(t, out[0].Synced)
	assert.Equal(t, "loc-b", out[0].LocalID)
}

func TestMerge_AdoptedRowWithoutLocalIDGetsFallback(t *testing.T) {
	at := time.Now()
	remote := []*models.VitalSign{vital("", "srv-9", false, 70, at)}

	out := Merge(nil, remote, noTombstones, byRecordedAtDesc)

	require.Len(t, out, 1)
	assert.Equal(t, "srv-9", out[0].LocalID)
}

func TestMerge_LocalOnlyRecordsKept(t *testing.T) {
	at := time.Now()
	local := []*models.VitalSign{
		vital("loc-1", "", false, 88, at), // created offline, not yet pushed
		vital("loc-2", "srv-2", true, 72, at.Add(-time.Hour)),
	}

	out := Merge(local, nil, noTombstones, byRecordedAtDesc)

	require.Len(t, out, 2)
	assert.Equal(t, "loc-1", out[0].LocalID)
	assert.False(t, out[0].Synced)
}

func TestMerge_RemoteIDPrecedesLocalIDOnMatch(t *testing.T) {
	at := time.Now()
	// two locals that could both claim the remote row: one by remote id,
	// one by local id; remote id match must win
	local := []*models.VitalSign{
		vital("loc-a", "srv-1", true, 60, at),
		vital("loc-b", "", true, 65, at.Add(time.Minute)),
	}
	remote := []*models.VitalSign{vital("loc-b", "srv-1", false, 99, at)}

	out := Merge(local, remote, noTombstones, byRecordedAtDesc)

	require.Len(t, out, 2)
	var matched *models.VitalSign
	for _, v := range out {
		if v.RemoteID == "srv-1" {
			matched = v
		}
	}
	require.NotNil(t, matched)
	assert.Equal(t, "loc-a", matched.LocalID)
	assert.Equal(t, 99, matched.PulseRate)
}

func TestMerge_TombstonedRemoteRowIsDropped(t *testing.T) {
	at := time.Now()
	remote := []*models.VitalSign{
		vital("loc-1", "srv-1", false, 70, at),
		vital("loc-2", "srv-2", false, 75, at),
	}
	dead := map[string]struct{}{"srv-1": {}}

	out := Merge(nil, remote, dead, byRecordedAtDesc)

	require.Len(t, out, 1)
	assert.Equal(t, "srv-2", out[0].RemoteID)
}

func TestMerge_TombstoneMatchesByLocalID(t *testing.T) {
	at := time.Now()
	// deleted before the first push: only the local id is known
	remote := []*models.VitalSign{vital("loc-1", "srv-1", false, 70, at)}
	dead := map[string]struct{}{"loc-1": {}}

	out := Merge(nil, remote, dead, byRecordedAtDesc)
	assert.Empty(t, out)
}

func TestMerge_TwoDevicesSameFact(t *testing.T) {
	at := time.Now()
	// device A recorded loc-A offline; device B already pushed the same kind
	// of fact as srv-B. They are distinct records and both must survive.
	local := []*models.VitalSign{vital("loc-A", "", false, 90, at)}
	remote := []*models.VitalSign{vital("loc-B", "srv-B", false, 85, at.Add(-time.Minute))}

	out := Merge(local, remote, noTombstones, byRecordedAtDesc)

	require.Len(t, out, 2)
	assert.Equal(t, "loc-A", out[0].LocalID)
	assert.False(t, out[0].Synced)
	assert.Equal(t, "srv-B", out[1].RemoteID)
	assert.True(t, out[1].Synced)
}

func TestMerge_ChecklistPendingStepSurvivesSnapshot(t *testing.T) {
	at := time.Now()
	local := &models.EmotiveChecklist{
		SyncMeta:  models.SyncMeta{LocalID: "cl-1", RemoteID: "srv-cl", Synced: false, CreatedAt: at, UpdatedAt: at},
		ProfileID: "p-1",
	}
	local.Oxytocin.Done = true

	// device B's update already on the server: massage done, oxytocin not
	remoteRow := &models.EmotiveChecklist{
		SyncMeta:  models.SyncMeta{LocalID: "cl-1", RemoteID: "srv-cl", Synced: false, CreatedAt: at, UpdatedAt: at},
		ProfileID: "p-1",
	}
	remoteRow.UterineMassage.Done = true

	out := Merge(
		[]*models.EmotiveChecklist{local},
		[]*models.EmotiveChecklist{remoteRow},
		noTombstones,
		func(a, b *models.EmotiveChecklist) bool { return a.CreatedAt.Before(b.CreatedAt) },
	)

	require.Len(t, out, 1)
	assert.True(t, out[0].Oxytocin.Done, "pending local step must not be erased")
	assert.False(t, out[0].Synced, "still queued for delivery")
}

func TestMerge_SortedByLess(t *testing.T) {
	t1 := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	t2 := t1.Add(time.Hour)
	local := []*models.VitalSign{vital("loc-1", "", false, 80, t1)}
	remote := []*models.VitalSign{vital("loc-2", "srv-2", false, 85, t2)}

	out := Merge(local, remote, noTombstones, byRecordedAtDesc)

	require.Len(t, out, 2)
	assert.Equal(t, "loc-2", out[0].LocalID, "newest first")
}
