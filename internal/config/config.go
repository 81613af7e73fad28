// Package config manages environment variables.
//
// It reads variables from the process environment (and a `.env` file when
// present), loads them into structured Go types, and validates that required
// values are present so they can be reused across the application runtime.
//
// Responsibilities:
//   - Load environment variables (optionally from a `.env` file).
//   - Map env vars into a structured Go config (structs).
//   - Validate required values so the app fails fast on bad/missing config.
//   - Provide sane defaults for optional config blocks (observability, pool, discovery).
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	// Side-effect import: if a `.env` file exists it is loaded into the
	// process env before any variable is read.
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

/*
	Env vars are read using the prefix SHIPPING_. The prefix is removed, the
	key is lowercased and a double underscore marks one level of nesting:

	  SHIPPING_SERVER__PORT          -> server.port         -> Config.Server.Port
	  SHIPPING_DATABASE__SSL_MODE    -> database.ssl_mode   -> Config.Database.SSLMode
	  SHIPPING_DISCOVERY__CACHE_TTL  -> discovery.cache_ttl -> Config.Discovery.CacheTTL

	Single underscores stay part of the key, so snake_case field names survive.
*/

// EnvPrefix is the prefix every configuration variable carries.
const EnvPrefix = "SHIPPING_"

// ServiceName is the name the service reports in telemetry and discovery.
const ServiceName = "shipping"

// Config is the root configuration object for the application.
//
// Observability is a pointer because it is optional. If not provided,
// defaults are injected at load time.
type Config struct {
	Primary       Primary              `koanf:"primary" validate:"required"`
	Server        ServerConfig         `koanf:"server" validate:"required"`
	Database      DatabaseConfig       `koanf:"database" validate:"required"`
	Redis         RedisConfig          `koanf:"redis"`
	Discovery     DiscoveryConfig      `koanf:"discovery"`
	Observability *ObservabilityConfig `koanf:"observability"`
}

// Primary holds top-level information about the runtime environment.
type Primary struct {
	Env string `koanf:"env" validate:"required"`
}

// ServerConfig groups settings for the HTTP server runtime.
// Timeouts are expressed in seconds.
type ServerConfig struct {
	Port               string   `koanf:"port" validate:"required"`
	ReadTimeout        int      `koanf:"read_timeout" validate:"required"`
	WriteTimeout       int      `koanf:"write_timeout" validate:"required"`
	IdleTimeout        int      `koanf:"idle_timeout" validate:"required"`
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins" validate:"required"`
}

// DatabaseConfig contains PostgreSQL connection parameters and pool tuning.
//
// Pool sizing is optional; zero values are replaced by defaults in applyDefaults.
// ConnMaxLifetime and ConnMaxIdleTime are seconds.
type DatabaseConfig struct {
	Host            string `koanf:"host" validate:"required"`
	Port            int    `koanf:"port" validate:"required"`
	User            string `koanf:"user" validate:"required"`
	Password        string `koanf:"password" validate:"required"`
	Name            string `koanf:"name" validate:"required"`
	SSLMode         string `koanf:"ssl_mode" validate:"required"`
	MaxOpenConns    int    `koanf:"max_open_conns" validate:"gte=0"`
	MaxIdleConns    int    `koanf:"max_idle_conns" validate:"gte=0"`
	ConnMaxLifetime int    `koanf:"conn_max_lifetime" validate:"gte=0"`
	ConnMaxIdleTime int    `koanf:"conn_max_idle_time" validate:"gte=0"`
}

// RedisConfig contains Redis connection details.
// Address is "host:port". Redis is optional: an empty address disables
// the discovery cache and the redis status check.
type RedisConfig struct {
	Address string `koanf:"address"`
}

// Enabled reports whether a Redis address was configured.
func (r RedisConfig) Enabled() bool {
	return r.Address != ""
}

// DiscoveryConfig points at the discovery endpoint used to enrich
// not-found responses with the service name and version.
type DiscoveryConfig struct {
	// URL of the discovery endpoint. Defaults to this service's own
	// /discovery route on localhost.
	URL string `koanf:"url" validate:"omitempty,url"`

	// Timeout bounds the whole discovery call.
	Timeout time.Duration `koanf:"timeout" validate:"gte=0"`

	// CacheTTL is how long a successful lookup is cached in Redis.
	// Only used when Redis is configured.
	CacheTTL time.Duration `koanf:"cache_ttl" validate:"gte=0"`
}

const (
	defaultMaxOpenConns      = 10
	defaultMaxIdleConns      = 2
	defaultConnMaxLifetime   = 30 * 60
	defaultConnMaxIdleTime   = 5 * 60
	defaultDiscoveryTimeout  = 2 * time.Second
	defaultDiscoveryCacheTTL = 5 * time.Minute
)

// LoadConfig loads configuration from environment variables, unmarshals it into
// Config, validates it, applies defaults, and returns the resulting config.
//
// Behavior summary:
//   - Loads env vars with prefix SHIPPING_
//   - Converts env keys into koanf keys ("__" becomes ".")
//   - Unmarshals into Config
//   - Validates required config blocks/fields
//   - Fills optional blocks with defaults
//   - Overrides observability service name + environment
//   - Validates observability config as well
func LoadConfig() (*Config, error) {
	k := koanf.New(".")

	err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil)
	if err != nil {
		return nil, fmt.Errorf("could not load env variables: %w", err)
	}

	mainConfig := &Config{}
	if err := k.Unmarshal("", mainConfig); err != nil {
		return nil, fmt.Errorf("could not unmarshal main config: %w", err)
	}

	if err := validator.New().Struct(mainConfig); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	mainConfig.applyDefaults()

	// Service name and environment are always derived, never configured.
	mainConfig.Observability.ServiceName = ServiceName
	mainConfig.Observability.Environment = mainConfig.Primary.Env

	if err := mainConfig.Observability.Validate(); err != nil {
		return nil, fmt.Errorf("invalid observability config: %w", err)
	}

	return mainConfig, nil
}

// envKey maps SHIPPING_SERVER__READ_TIMEOUT to server.read_timeout.
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(key, "__", ".")
}

func (c *Config) applyDefaults() {
	if c.Observability == nil {
		c.Observability = DefaultObservabilityConfig()
	}

	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = defaultMaxOpenConns
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = defaultMaxIdleConns
	}
	if c.Database.ConnMaxLifetime == 0 {
		c.Database.ConnMaxLifetime = defaultConnMaxLifetime
	}
	if c.Database.ConnMaxIdleTime == 0 {
		c.Database.ConnMaxIdleTime = defaultConnMaxIdleTime
	}

	if c.Discovery.URL == "" {
		c.Discovery.URL = fmt.Sprintf("http://localhost:%s/discovery", c.Server.Port)
	}
	if c.Discovery.Timeout == 0 {
		c.Discovery.Timeout = defaultDiscoveryTimeout
	}
	if c.Discovery.CacheTTL == 0 {
		c.Discovery.CacheTTL = defaultDiscoveryCacheTTL
	}
}
