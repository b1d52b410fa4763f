package cli

import (
	"context"
	"fmt"

	"github.com/materna-health/materna/internal/common"
	"github.com/materna-health/materna/internal/models"
)

func (a *App) syncNow(ctx context.Context) {
	fmt.Println("Syncing...")
	if err := a.driver.SyncNow(ctx); err != nil {
		fmt.Println("Sync failed:", err)
		return
	}
	fmt.Println("Sync complete")
}

func (a *App) showQueue(ctx context.Context) {
	pending, err := a.repos.Outbox.Pending(ctx)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	dead, err := a.repos.Outbox.Dead(ctx)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}

	if len(pending) == 0 && len(dead) == 0 {
		fmt.Println("Queue is empty")
		return
	}
	for _, j := range pending {
		line := fmt.Sprintf("#%d %s %s %s", j.ID, j.Op, j.Table, j.LocalID)
		if j.Attempts > 0 {
			line += fmt.Sprintf(" (attempts %d, next %s, last error: %s)",
				j.Attempts, j.NextAttemptAt.Local().Format("15:04:05"), j.LastError)
		}
		fmt.Println(line)
	}
	for _, j := range dead {
		fmt.Printf("#%d %s %s %s DEAD after %d attempts: %s\n",
			j.ID, j.Op, j.Table, j.LocalID, j.Attempts, j.LastError)
	}
}

func (a *App) showSyncStatus(ctx context.Context) {
	st := a.driver.Status()

	fmt.Println("Mode:", a.mode())
	if st.Syncing {
		fmt.Println("Sync in progress")
	}
	if st.LastError != nil {
		fmt.Println("Last sync error:", st.LastError)
	}
	if !st.LastSync.IsZero() {
		fmt.Println("Last successful sync:", st.LastSync.Local().Format("Jan 2 15:04:05"))
	}

	depth, err := a.repos.Outbox.Depth(ctx)
	if err == nil {
		fmt.Println("Pending jobs:", depth)
	}

	for _, table := range []models.Table{
		models.TableProfiles, models.TableVitals, models.TableEvents,
		models.TableChecklists, models.TableContacts,
	} {
		ts, err := a.repos.Metadata.GetTime(ctx, common.MetadataKeyLastSyncPrefix+string(table))
		if err != nil || ts.IsZero() {
			continue
		}
		fmt.Printf("  %-20s synced %s\n", table, ts.Local().Format("15:04:05"))
	}
}
