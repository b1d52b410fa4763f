package cli

import (
	"context"
	"fmt"
	"os"
)

func (a *App) recordEvent(ctx context.Context) {
	p := a.requireProfile()
	if p == nil {
		return
	}

	eventType, err := GetSimpleText(a.reader, "Event type (observation/intervention/referral):", os.Stdout)
	if err != nil || eventType == "" {
		fmt.Println("Cancelled")
		return
	}
	description, err := GetSimpleText(a.reader, "Description:", os.Stdout)
	if err != nil {
		fmt.Println("Cancelled")
		return
	}

	e, err := a.services.Events.Record(ctx, p.LocalID, eventType, description)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	fmt.Printf("Recorded %s event %s\n", e.EventType, e.LocalID)
}

func (a *App) showEvents(ctx context.Context) {
	p := a.requireProfile()
	if p == nil {
		return
	}

	list, err := a.services.Events.List(ctx, p.LocalID)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	if len(list) == 0 {
		fmt.Println("No events yet")
		return
	}
	for _, e := range list {
		marker := " "
		if !e.Synced {
			marker = "*"
		}
		fmt.Printf("%s%s [%s] %s\n",
			e.OccurredAt.Local().Format("Jan 2 15:04"), marker, e.EventType, e.Description)
	}
}
