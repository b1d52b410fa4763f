package config

import (
	"flag"
	"os"
	"time"

	"github.com/materna-health/materna/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   base URL of the sync server (default from Config)
//	-t string   API token for the sync server
//	-f string   facility id
//	-u string   unit id
//	-d string   path to the local SQLite database
//	-i int      online check interval in seconds (default from Config)
//
// The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-t", "-f", "-u", "-d", "-i"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.RemoteEndpointURL, "a", cfg.RemoteEndpointURL, "base URL of the sync server")
	fs.StringVar(&cfg.APIToken, "t", cfg.APIToken, "API token for the sync server")
	fs.StringVar(&cfg.FacilityID, "f", cfg.FacilityID, "facility id")
	fs.StringVar(&cfg.UnitID, "u", cfg.UnitID, "unit id")
	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "path to the local database file")
	onlineCheckInterval := fs.Int("i", int(cfg.OnlineCheckInterval.Seconds()), "online check interval (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.OnlineCheckInterval = time.Duration(*onlineCheckInterval) * time.Second
}
