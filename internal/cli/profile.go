package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/materna-health/materna/internal/models"
)

func (a *App) newProfile(ctx context.Context) {
	name, err := GetSimpleText(a.reader, "Full name:", os.Stdout)
	if err != nil || name == "" {
		fmt.Println("Cancelled")
		return
	}
	age, err := GetInt(a.reader, "Age:", os.Stdout)
	if err != nil {
		fmt.Println("Invalid age:", err)
		return
	}
	gravida, err := GetInt(a.reader, "Gravida (pregnancies, incl. this one):", os.Stdout)
	if err != nil {
		fmt.Println("Invalid number:", err)
		return
	}
	parity, err := GetInt(a.reader, "Parity (prior births):", os.Stdout)
	if err != nil {
		fmt.Println("Invalid number:", err)
		return
	}

	p, err := a.services.Profiles.Create(ctx, name, age, gravida, parity)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	a.current = p
	fmt.Printf("Created profile %s (%s), selected\n", p.FullName, p.LocalID)
	a.kickSync(ctx)
}

func (a *App) listProfiles(ctx context.Context) {
	list, err := a.services.Profiles.List(ctx)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	if len(list) == 0 {
		fmt.Println("No profiles yet")
		return
	}
	for i, p := range list {
		marker := " "
		if !p.Synced {
			marker = "*"
		}
		fmt.Printf("%3d%s %-24s age %-3d %-12s %s\n",
			i+1, marker, p.FullName, p.Age, p.Status, p.LocalID)
	}
	fmt.Println("(* = not yet synced)")
}

func (a *App) selectProfile(ctx context.Context, arg string) {
	list, err := a.services.Profiles.List(ctx)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 || n > len(list) {
		fmt.Println("Usage: select <n> (see 'profiles')")
		return
	}
	a.current = list[n-1]
	fmt.Printf("Selected %s (%s)\n", a.current.FullName, a.current.Status)
}

// requireProfile returns the selected profile or prints a hint.
func (a *App) requireProfile() *models.MaternalProfile {
	if a.current == nil {
		fmt.Println("No profile selected; use 'profiles' and 'select <n>'")
	}
	return a.current
}

func (a *App) advanceStatus(ctx context.Context, arg string) {
	p := a.requireProfile()
	if p == nil {
		return
	}
	updated, err := a.services.Profiles.UpdateStatus(ctx, p.LocalID, models.ProfileStatus(arg))
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	a.current = updated
	fmt.Printf("%s is now %s\n", updated.FullName, updated.Status)
}

func (a *App) editNotes(ctx context.Context) {
	p := a.requireProfile()
	if p == nil {
		return
	}
	notes, err := GetSimpleText(a.reader, "Notes:", os.Stdout)
	if err != nil {
		fmt.Println("Cancelled")
		return
	}
	updated, err := a.services.Profiles.UpdateNotes(ctx, p.LocalID, notes)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	a.current = updated
	fmt.Println("Notes updated")
}
