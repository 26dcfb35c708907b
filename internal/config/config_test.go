package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"factorgate/internal/errors"
)

func TestLoadRequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	_, err := Load()

	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.CodeConfigInvalid))
}

func TestLoadAppliesDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/factorgate?sslmode=disable")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 24*time.Hour, cfg.Monitor.CheckInterval)
	assert.True(t, cfg.Monitor.MarketDataEnable)
	assert.Equal(t, 20, cfg.Monitor.Thresholds.ICDecayWindowDays)
	assert.Equal(t, 0.5, cfg.Monitor.Thresholds.ICDecayThreshold)
	assert.Equal(t, 0.8, cfg.Monitor.Thresholds.CrowdingThreshold)
	assert.Equal(t, 0.7, cfg.Monitor.Thresholds.CorrelationSpikeThreshold)
}

func TestLoadOverridesFromEnvironment(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/factorgate?sslmode=disable")
	t.Setenv("CHECK_INTERVAL", "1h")
	t.Setenv("IC_DECAY_WINDOW_DAYS", "30")
	t.Setenv("CROWDING_THRESHOLD", "0.75")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, time.Hour, cfg.Monitor.CheckInterval)
	assert.Equal(t, 30, cfg.Monitor.Thresholds.ICDecayWindowDays)
	assert.Equal(t, 0.75, cfg.Monitor.Thresholds.CrowdingThreshold)
}

func TestDSNAppendsSSLMode(t *testing.T) {
	c := DatabaseConfig{URL: "postgres://localhost/factorgate", SSLMode: "require"}
	assert.Equal(t, "postgres://localhost/factorgate?sslmode=require", c.DSN())

	c = DatabaseConfig{URL: "postgres://localhost/factorgate?connect_timeout=5", SSLMode: "require"}
	assert.Equal(t, "postgres://localhost/factorgate?connect_timeout=5&sslmode=require", c.DSN())
}

func TestDSNKeepsExplicitSSLMode(t *testing.T) {
	c := DatabaseConfig{URL: "postgres://localhost/factorgate?sslmode=disable", SSLMode: "require"}
	assert.Equal(t, "postgres://localhost/factorgate?sslmode=disable", c.DSN())

	c = DatabaseConfig{URL: "postgres://localhost/factorgate", SSLMode: ""}
	assert.Equal(t, "postgres://localhost/factorgate", c.DSN())
}

func TestLoadRejectsOutOfRangeThresholds(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/factorgate?sslmode=disable")
	t.Setenv("CROWDING_THRESHOLD", "1.5")

	_, err := Load()

	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.CodeConfigInvalid))
}
