package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "http://127.0.0.1:8080", c.RemoteEndpointURL)
	assert.Equal(t, "materna.db", c.DatabasePath)
	assert.Equal(t, 10*time.Second, c.OnlineCheckInterval)
	assert.Equal(t, 2*time.Minute, c.SyncTimeout)
	assert.Equal(t, 30*time.Minute, c.VitalsInterval)
	assert.Equal(t, 8, c.MaxJobAttempts)
}

func TestLoadConfig_UsesDefaultsBeforeParsing(t *testing.T) {
	cfg := LoadConfig()

	require.NotNil(t, cfg, "LoadConfig must not return nil")
	assert.Equal(t, "http://127.0.0.1:8080", cfg.RemoteEndpointURL)
	assert.Equal(t, 10*time.Second, cfg.OnlineCheckInterval)
}
