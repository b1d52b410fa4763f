package syncer

import (
	"sort"

	"github.com/materna-health/materna/internal/models"
)

// Merge folds a remote snapshot into the local collection and returns the
// authoritative view. Authority comes from each local record's Synced flag,
// never from timestamp comparison:
//
//   - a remote row matching a synced local record replaces it (the local copy
//     holds no information the server lacks),
//   - a remote row matching an unsynced local record is discarded; the local
//     edit is still queued and will overwrite the server,
//   - a remote row matching nothing local is adopted as a new synced record,
//   - local records absent from the snapshot are kept as-is.
//
// Matching tries the remote id first and falls back to the originating local
// id, in that order. Tombstoned identifiers are dropped from the snapshot
// before matching so deleted records cannot come back. The result is sorted
// with less for a stable store order.
func Merge[T models.Syncable](local []T, remote []T, tombstoned map[string]struct{}, less func(a, b T) bool) []T {
	byRemoteID := make(map[string]int, len(local))
	byLocalID := make(map[string]int, len(local))
	for i, rec := range local {
		m := rec.Meta()
		if m.RemoteID != "" {
			byRemoteID[m.RemoteID] = i
		}
		byLocalID[m.LocalID] = i
	}

	claimed := make(map[int]struct{}, len(local))
	result := make([]T, 0, len(local)+len(remote))

	for _, rem := range remote {
		rm := rem.Meta()
		if _, dead := tombstoned[rm.RemoteID]; dead {
			continue
		}
		if _, dead := tombstoned[rm.LocalID]; rm.LocalID != "" && dead {
			continue
		}

		idx, matched := -1, false
		if rm.RemoteID != "" {
			if i, ok := byRemoteID[rm.RemoteID]; ok {
				idx, matched = i, true
			}
		}
		if !matched && rm.LocalID != "" {
			if i, ok := byLocalID[rm.LocalID]; ok {
				idx, matched = i, true
			}
		}

		if !matched {
			// new on the server; a record created elsewhere never passed
			// through this client, so its local id may be absent
			if rm.LocalID == "" {
				rm.LocalID = rm.RemoteID
			}
			rm.Synced = true
			result = append(result, rem)
			continue
		}

		claimed[idx] = struct{}{}
		loc := local[idx]
		lm := loc.Meta()
		if !lm.Synced {
			// pending local edit wins until the outbox delivers it
			result = append(result, loc)
			continue
		}

		// server copy is authoritative; the local id survives the swap
		rm.LocalID = lm.LocalID
		rm.Synced = true
		result = append(result, rem)
	}

	for i, rec := range local {
		if _, ok := claimed[i]; ok {
			continue
		}
		result = append(result, rec)
	}

	sort.SliceStable(result, func(i, j int) bool { return less(result[i], result[j]) })
	return result
}
