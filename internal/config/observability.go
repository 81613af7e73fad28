package config

import (
	"fmt"
	"time"
)

// ObservabilityConfig groups all configuration related to telemetry and runtime visibility:
//   - logging settings (format, level, slow query threshold)
//   - New Relic APM settings
//   - dependency status checks served on /status
//
// It is optional at the root level (pointer in Config). If omitted, defaults are injected.
type ObservabilityConfig struct {
	// ServiceName identifies this service in logs/traces/APM dashboards.
	// Always overwritten with config.ServiceName by LoadConfig.
	ServiceName string `koanf:"service_name"`

	// Environment is a label used to split telemetry by environment.
	// Always overwritten with primary.env by LoadConfig.
	Environment string `koanf:"environment"`

	Logging      LoggingConfig      `koanf:"logging"`
	NewRelic     NewRelicConfig     `koanf:"new_relic"`
	HealthChecks HealthChecksConfig `koanf:"health_checks"`
}

// LoggingConfig holds application logging configuration.
type LoggingConfig struct {
	// Level is the verbosity threshold (debug/info/warn/error).
	Level string `koanf:"level"`

	// Format is "json" or "console".
	Format string `koanf:"format"`

	// SlowQueryThreshold marks queries slower than this as slow; they are
	// logged at warn level. Zero disables slow query logging.
	// Supply a parseable duration such as "100ms" or "1s".
	SlowQueryThreshold time.Duration `koanf:"slow_query_threshold"`
}

// NewRelicConfig holds configuration for New Relic APM and tracing.
//
// An empty LicenseKey means New Relic is disabled and every integration
// degrades to a no-op.
type NewRelicConfig struct {
	LicenseKey                string `koanf:"license_key"`
	AppLogForwardingEnabled   bool   `koanf:"app_log_forwarding_enabled"`
	DistributedTracingEnabled bool   `koanf:"distributed_tracing_enabled"`
	DebugLogging              bool   `koanf:"debug_logging"`
}

// HealthChecksConfig controls the dependency checks run by the /status endpoint.
type HealthChecksConfig struct {
	// Enabled toggles dependency checks; when false /status only reports "healthy".
	Enabled bool `koanf:"enabled"`

	// Timeout is the max time allowed for each check.
	Timeout time.Duration `koanf:"timeout"`

	// Checks names the dependencies to probe ("database", "redis").
	Checks []string `koanf:"checks"`
}

// DefaultObservabilityConfig provides a safe set of defaults.
//
// Used when Config.Observability is nil (not provided via env).
func DefaultObservabilityConfig() *ObservabilityConfig {
	return &ObservabilityConfig{
		ServiceName: ServiceName,
		Environment: "development",
		Logging: LoggingConfig{
			Level:              "info",
			Format:             "json",
			SlowQueryThreshold: 100 * time.Millisecond,
		},
		NewRelic: NewRelicConfig{
			LicenseKey:                "",
			AppLogForwardingEnabled:   true,
			DistributedTracingEnabled: true,
			DebugLogging:              false, // Disabled by default to avoid mixed log formats
		},
		HealthChecks: HealthChecksConfig{
			Enabled: true,
			Timeout: 5 * time.Second,
			Checks:  []string{"database", "redis"},
		},
	}
}

// Validate applies custom validation rules that go beyond struct tags.
//
// Returns nil if configuration is valid, or an error describing the first
// validation failure.
func (c *ObservabilityConfig) Validate() error {
	if c.ServiceName == "" {
		return fmt.Errorf("service_name is required")
	}

	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	// An empty level is resolved per environment by GetLogLevel.
	if c.Logging.Level != "" && !validLevels[c.Logging.Level] {
		return fmt.Errorf("invalid logging level: %s (must be one of: debug, info, warn, error)", c.Logging.Level)
	}

	if c.Logging.Format != "" && c.Logging.Format != "json" && c.Logging.Format != "console" {
		return fmt.Errorf("invalid logging format: %s (must be one of: json, console)", c.Logging.Format)
	}

	if c.Logging.SlowQueryThreshold < 0 {
		return fmt.Errorf("logging slow_query_threshold must be non-negative")
	}

	if c.HealthChecks.Enabled && c.HealthChecks.Timeout < time.Second {
		return fmt.Errorf("health_checks timeout must be at least 1s")
	}

	return nil
}

// GetLogLevel returns the effective log level to use at runtime.
//
// Production defaults to "info" and development to "debug" when no level is set.
// Otherwise it returns whatever c.Logging.Level is set to.
func (c *ObservabilityConfig) GetLogLevel() string {
	switch c.Environment {
	case "production":
		if c.Logging.Level == "" {
			return "info"
		}
	case "development", "local":
		if c.Logging.Level == "" {
			return "debug"
		}
	}

	if c.Logging.Level == "" {
		return "info"
	}
	return c.Logging.Level
}

// IsProduction reports whether the application is running in production mode.
func (c *ObservabilityConfig) IsProduction() bool {
	return c.Environment == "production"
}

// CheckEnabled reports whether the named dependency check should run.
func (c *ObservabilityConfig) CheckEnabled(name string) bool {
	if !c.HealthChecks.Enabled {
		return false
	}
	for _, check := range c.HealthChecks.Checks {
		if check == name {
			return true
		}
	}
	return false
}
