package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/materna-health/materna/internal/models"
)

func (a *App) showChecklist(ctx context.Context) {
	p := a.requireProfile()
	if p == nil {
		return
	}

	c, err := a.services.Checklists.Get(ctx, p.LocalID)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}

	for _, step := range models.AllSteps() {
		st, _ := c.Step(step)
		box := "[ ]"
		if st.Done {
			box = "[x]"
		}
		line := fmt.Sprintf("%s %s", box, step)
		if st.Time != nil {
			line += " at " + st.Time.Local().Format("15:04")
		}
		if st.Detail != "" {
			line += " (" + st.Detail + ")"
		}
		fmt.Println(line)
	}
	if !c.Synced {
		fmt.Println("(pending sync)")
	}
}

func (a *App) setChecklistStep(ctx context.Context, stepArg string, done bool) {
	p := a.requireProfile()
	if p == nil {
		return
	}

	detail := ""
	if done {
		var err error
		detail, err = GetSimpleText(a.reader, "Detail (optional):", os.Stdout)
		if err != nil {
			fmt.Println("Cancelled")
			return
		}
	}

	_, err := a.services.Checklists.SetStep(ctx, p.LocalID, models.ChecklistStep(stepArg), done, detail)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	if done {
		fmt.Printf("Checked %s\n", stepArg)
	} else {
		fmt.Printf("Unchecked %s\n", stepArg)
	}
}
