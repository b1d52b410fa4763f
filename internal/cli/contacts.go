package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"
)

func (a *App) listContacts(ctx context.Context) {
	list, err := a.services.Contacts.List(ctx)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	if len(list) == 0 {
		fmt.Println("No contacts yet")
		return
	}
	for i, c := range list {
		marker := " "
		if !c.Synced {
			marker = "*"
		}
		fmt.Printf("%3d%s %-24s %-16s %s\n", i+1, marker, c.Name, c.Role, c.Phone)
	}
}

func (a *App) addContact(ctx context.Context) {
	name, err := GetSimpleText(a.reader, "Name:", os.Stdout)
	if err != nil || name == "" {
		fmt.Println("Cancelled")
		return
	}
	role, err := GetSimpleText(a.reader, "Role:", os.Stdout)
	if err != nil {
		fmt.Println("Cancelled")
		return
	}
	phone, err := GetSimpleText(a.reader, "Phone:", os.Stdout)
	if err != nil {
		fmt.Println("Cancelled")
		return
	}

	c, err := a.services.Contacts.Add(ctx, name, role, phone)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	fmt.Printf("Added contact %s\n", c.Name)
}

func (a *App) deleteContact(ctx context.Context, arg string) {
	list, err := a.services.Contacts.List(ctx)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 || n > len(list) {
		fmt.Println("Usage: delcontact <n> (see 'contacts')")
		return
	}

	c := list[n-1]
	if err := a.services.Contacts.Delete(ctx, c.LocalID); err != nil {
		fmt.Println("Error:", err)
		return
	}
	fmt.Printf("Deleted contact %s\n", c.Name)
}
