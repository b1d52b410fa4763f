package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
)

func (a *App) getStatus() string {
	s := string(a.mode())
	if a.current != nil {
		s = a.current.FullName + " " + s
	}
	return fmt.Sprintf("(%s)", s)
}

func (a *App) Root(ctx context.Context) {

	fmt.Println("Welcome to the materna ward client (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Printf("materna %s> ", a.getStatus())
		if !scanner.Scan() {
			break
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			fmt.Println("Profiles:  newprofile, profiles, select <n>, advance <status>, note")
			fmt.Println("Clinical:  vitals, showvitals, event, events, checklist, check <step>, uncheck <step>")
			fmt.Println("Contacts:  contacts, addcontact, delcontact <n>")
			fmt.Println("Sync:      sync, queue, status")
			fmt.Println("Other:     exit")

		case "newprofile":
			a.newProfile(ctx)
		case "profiles":
			a.listProfiles(ctx)
		case "select":
			if len(args) == 0 {
				fmt.Println("Usage: select <n>")
				continue
			}
			a.selectProfile(ctx, args[0])
		case "advance":
			if len(args) == 0 {
				fmt.Println("Usage: advance <active|monitoring|closed>")
				continue
			}
			a.advanceStatus(ctx, args[0])
		case "note":
			a.editNotes(ctx)

		case "vitals":
			a.recordVitals(ctx)
		case "showvitals":
			a.showVitals(ctx)
		case "event":
			a.recordEvent(ctx)
		case "events":
			a.showEvents(ctx)
		case "checklist":
			a.showChecklist(ctx)
		case "check":
			if len(args) == 0 {
				fmt.Println("Usage: check <step>")
				continue
			}
			a.setChecklistStep(ctx, args[0], true)
		case "uncheck":
			if len(args) == 0 {
				fmt.Println("Usage: uncheck <step>")
				continue
			}
			a.setChecklistStep(ctx, args[0], false)

		case "contacts":
			a.listContacts(ctx)
		case "addcontact":
			a.addContact(ctx)
		case "delcontact":
			if len(args) == 0 {
				fmt.Println("Usage: delcontact <n>")
				continue
			}
			a.deleteContact(ctx, args[0])

		case "sync":
			a.syncNow(ctx)
		case "queue":
			a.showQueue(ctx)
		case "status":
			a.showSyncStatus(ctx)

		case "exit", "quit":
			fmt.Println("Bye!")
			return

		default:
			fmt.Println("Unknown command:", cmd)
		}
	}
}
