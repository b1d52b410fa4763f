package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/materna-health/materna/internal/flagx"
	"github.com/materna-health/materna/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. It relies on
// timex.Duration so JSON can specify intervals either as strings like "30m"
// or as integer nanoseconds. After parsing, values are copied into the
// runtime Config.
type JsonConfig struct {
	RemoteEndpointURL   string         `json:"remote_endpoint_url"`
	APIToken            string         `json:"api_token"`
	FacilityID          string         `json:"facility_id"`
	UnitID              string         `json:"unit_id"`
	DatabasePath        string         `json:"database_path"`
	OnlineCheckInterval timex.Duration `json:"online_check_interval"`
	SyncTimeout         timex.Duration `json:"sync_timeout"`
	VitalsInterval      timex.Duration `json:"vitals_interval"`
	MaxJobAttempts      int            `json:"max_job_attempts"`
}

// parseJson overlays Config with values loaded from a JSON file. The file
// path comes from the -c/-config flags; when absent no JSON is loaded. Only
// fields present in the file override the running config.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.RemoteEndpointURL != "" {
		cfg.RemoteEndpointURL = jc.RemoteEndpointURL
	}
	if jc.APIToken != "" {
		cfg.APIToken = jc.APIToken
	}
	if jc.FacilityID != "" {
		cfg.FacilityID = jc.FacilityID
	}
	if jc.UnitID != "" {
		cfg.UnitID = jc.UnitID
	}
	if jc.DatabasePath != "" {
		cfg.DatabasePath = jc.DatabasePath
	}
	if jc.OnlineCheckInterval.Duration != 0 {
		cfg.OnlineCheckInterval = time.Duration(jc.OnlineCheckInterval.Duration)
	}
	if jc.SyncTimeout.Duration != 0 {
		cfg.SyncTimeout = time.Duration(jc.SyncTimeout.Duration)
	}
	if jc.VitalsInterval.Duration != 0 {
		cfg.VitalsInterval = time.Duration(jc.VitalsInterval.Duration)
	}
	if jc.MaxJobAttempts != 0 {
		cfg.MaxJobAttempts = jc.MaxJobAttempts
	}
}
