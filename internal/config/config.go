package config

import "time"

// Config holds runtime settings for the materna CLI.
//
// Fields:
//   - RemoteEndpointURL: base URL of the facility sync server.
//   - APIToken: bearer token presented to the sync server.
//   - FacilityID, UnitID: the scope this device records under.
//   - DatabasePath: SQLite file holding the local store (":memory:" works
//     for throwaway sessions).
//   - OnlineCheckInterval: how often the client probes server reachability.
//   - SyncTimeout: upper bound for one full sync pass.
//   - VitalsInterval: how long after the last reading a new one is due.
//   - MaxJobAttempts: rejected-job retries before dead-lettering.
type Config struct {
	RemoteEndpointURL   string
	APIToken            string
	FacilityID          string
	UnitID              string
	DatabasePath        string
	OnlineCheckInterval time.Duration
	SyncTimeout         time.Duration
	VitalsInterval      time.Duration
	MaxJobAttempts      int
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.RemoteEndpointURL = "http://127.0.0.1:8080"
	c.FacilityID = "default-facility"
	c.UnitID = "default-unit"
	c.DatabasePath = "materna.db"
	c.OnlineCheckInterval = 10 * time.Second
	c.SyncTimeout = 2 * time.Minute
	c.VitalsInterval = 30 * time.Minute
	c.MaxJobAttempts = 8
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
