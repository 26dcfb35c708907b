package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"factorgate/domain/decay"
	"factorgate/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Database DatabaseConfig `validate:"required"`
	Server   ServerConfig   `validate:"required"`
	Monitor  MonitorConfig  `validate:"required"`
	Report   ReportConfig
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	URL     string `validate:"required"`
	SSLMode string
}

// DSN returns the connection string for the driver. SSLMode is appended only
// when the URL does not already carry an sslmode parameter.
func (c DatabaseConfig) DSN() string {
	if c.SSLMode == "" || strings.Contains(c.URL, "sslmode=") {
		return c.URL
	}
	sep := "?"
	if strings.Contains(c.URL, "?") {
		sep = "&"
	}
	return c.URL + sep + "sslmode=" + c.SSLMode
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port            string `validate:"required"`
	ShutdownTimeout time.Duration
}

// MonitorConfig holds decay-monitor scheduling and threshold settings
type MonitorConfig struct {
	CheckInterval    time.Duration
	MarketDataEnable bool
	Thresholds       decay.Thresholds
}

// ReportConfig holds report export settings
type ReportConfig struct {
	Dir string
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{}

	dbConfig, err := loadDatabaseConfig()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load database configuration")
	}
	config.Database = *dbConfig

	config.Server = *loadServerConfig()
	config.Monitor = *loadMonitorConfig()
	config.Report = *loadReportConfig()

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func loadDatabaseConfig() (*DatabaseConfig, error) {
	url := os.Getenv("DATABASE_URL")
	if url == "" {
		return nil, errors.ConfigInvalid("DATABASE_URL is required")
	}

	return &DatabaseConfig{
		URL:     url,
		SSLMode: getEnvOrDefault("SSL_MODE", "disable"),
	}, nil
}

func loadServerConfig() *ServerConfig {
	return &ServerConfig{
		Port:            getEnvOrDefault("PORT", "8080"),
		ShutdownTimeout: getEnvDurationOrDefault("SHUTDOWN_TIMEOUT", 10*time.Second),
	}
}

func loadMonitorConfig() *MonitorConfig {
	defaults := decay.DefaultThresholds()
	return &MonitorConfig{
		CheckInterval:    getEnvDurationOrDefault("CHECK_INTERVAL", 24*time.Hour),
		MarketDataEnable: getEnvBoolOrDefault("MARKET_DATA_ENABLED", true),
		Thresholds: decay.Thresholds{
			ICDecayWindowDays:         getEnvIntOrDefault("IC_DECAY_WINDOW_DAYS", defaults.ICDecayWindowDays),
			ICDecayThreshold:          getEnvFloatOrDefault("IC_DECAY_THRESHOLD", defaults.ICDecayThreshold),
			ICDecayCriticalFraction:   getEnvFloatOrDefault("IC_DECAY_CRITICAL_FRACTION", defaults.ICDecayCriticalFraction),
			SharpeDecayWindowDays:     getEnvIntOrDefault("SHARPE_DECAY_WINDOW_DAYS", defaults.SharpeDecayWindowDays),
			SharpeDecayThreshold:      getEnvFloatOrDefault("SHARPE_DECAY_THRESHOLD", defaults.SharpeDecayThreshold),
			CorrelationLookbackDays:   getEnvIntOrDefault("CORRELATION_LOOKBACK_DAYS", defaults.CorrelationLookbackDays),
			MinCorrelationPoints:      getEnvIntOrDefault("MIN_CORRELATION_POINTS", defaults.MinCorrelationPoints),
			CrowdingThreshold:         getEnvFloatOrDefault("CROWDING_THRESHOLD", defaults.CrowdingThreshold),
			CrowdingCritical:          getEnvFloatOrDefault("CROWDING_CRITICAL", defaults.CrowdingCritical),
			CorrelationSpikeThreshold: getEnvFloatOrDefault("CORRELATION_SPIKE_THRESHOLD", defaults.CorrelationSpikeThreshold),
		},
	}
}

func loadReportConfig() *ReportConfig {
	return &ReportConfig{
		Dir: getEnvOrDefault("REPORT_DIR", ""),
	}
}

func validateConfig(config *Config) error {
	if config.Database.URL == "" {
		return errors.ConfigInvalid("database URL is required")
	}
	if config.Monitor.CheckInterval <= 0 {
		return errors.ConfigInvalid("check interval must be positive")
	}
	t := config.Monitor.Thresholds
	if t.ICDecayWindowDays <= 0 || t.SharpeDecayWindowDays <= 0 {
		return errors.ConfigInvalid("decay windows must be positive")
	}
	if t.CrowdingThreshold <= 0 || t.CrowdingThreshold > 1 {
		return errors.ConfigInvalid("crowding threshold must be in (0, 1]")
	}
	if t.CorrelationSpikeThreshold <= 0 || t.CorrelationSpikeThreshold > 1 {
		return errors.ConfigInvalid("correlation spike threshold must be in (0, 1]")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
