package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/materna-health/materna/internal/services"
)

func (a *App) recordVitals(ctx context.Context) {
	p := a.requireProfile()
	if p == nil {
		return
	}

	fmt.Println("Enter reading (empty line = not measured)")
	var in services.VitalsInput
	var err error
	if in.SystolicBP, err = GetInt(a.reader, "Systolic BP (mmHg):", os.Stdout); err != nil {
		fmt.Println("Invalid value:", err)
		return
	}
	if in.DiastolicBP, err = GetInt(a.reader, "Diastolic BP (mmHg):", os.Stdout); err != nil {
		fmt.Println("Invalid value:", err)
		return
	}
	if in.PulseRate, err = GetInt(a.reader, "Pulse (bpm):", os.Stdout); err != nil {
		fmt.Println("Invalid value:", err)
		return
	}
	if in.RespiratoryRate, err = GetInt(a.reader, "Respiratory rate (/min):", os.Stdout); err != nil {
		fmt.Println("Invalid value:", err)
		return
	}
	if in.TemperatureC, err = GetFloat(a.reader, "Temperature (C):", os.Stdout); err != nil {
		fmt.Println("Invalid value:", err)
		return
	}
	if in.SpO2, err = GetInt(a.reader, "SpO2 (%):", os.Stdout); err != nil {
		fmt.Println("Invalid value:", err)
		return
	}
	if in.BloodLossML, err = GetInt(a.reader, "Blood loss (ml):", os.Stdout); err != nil {
		fmt.Println("Invalid value:", err)
		return
	}

	v, err := a.services.Vitals.Record(ctx, p.LocalID, in)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	fmt.Printf("Recorded vitals %s\n", v.LocalID)
}

func (a *App) showVitals(ctx context.Context) {
	p := a.requireProfile()
	if p == nil {
		return
	}

	readings, err := a.services.Vitals.List(ctx, p.LocalID)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	if len(readings) == 0 {
		fmt.Println("No readings yet")
	}
	for _, r := range readings {
		marker := " "
		if !r.Synced {
			marker = "*"
		}
		fmt.Printf("%s%s BP %d/%d pulse %d SI %.2f loss %dml risk=%s\n",
			r.RecordedAt.Local().Format("15:04"), marker,
			r.SystolicBP, r.DiastolicBP, r.PulseRate, r.ShockIndex, r.BloodLossML, r.Risk)
	}

	due, err := a.services.Vitals.Due(ctx, p.LocalID, a.config.VitalsInterval)
	if err == nil && due {
		fmt.Println("A new reading is due")
	}
}
