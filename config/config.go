/*
Package config loads process configuration for the server and CLI.

PURPOSE:
  One Config value built from, in increasing precedence: defaults, an
  optional YAML file, a .env file, SCENARIO_* environment variables and
  bound command-line flags. Viper does the layering; this package owns the
  keys, the defaults and validation.

KEYS:
  server.port              HTTP port (default 8080)
  server.read_timeout      (default 15s)
  server.write_timeout     (default 15s)
  server.allowed_origins   CORS origins (default localhost dev servers)
  database.backend         memory | sqlite (default sqlite)
  database.path            SQLite file, ":memory:" allowed (default ./scenarios.db)
  logging.level            debug | info | warn | error (default info)
  logging.format           console | json (default console)
  simulation.max_parallel  batch concurrency, 0 = unlimited (default 4)
  simulation.default_horizon_months
                           window used when a run omits its end (default 12)

  Environment variables replace dots with underscores:
  SCENARIO_SERVER_PORT=9090, SCENARIO_LOGGING_LEVEL=debug.

SEE ALSO:
  - cmd/scenario/main.go: flag binding and .env loading
  - config/logging.go: logger construction
*/
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix for environment overrides.
const EnvPrefix = "SCENARIO"

type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Logging    LoggingConfig    `mapstructure:"logging"`
	Simulation SimulationConfig `mapstructure:"simulation"`
}

type ServerConfig struct {
	Port           int           `mapstructure:"port"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	AllowedOrigins []string      `mapstructure:"allowed_origins"`
}

type DatabaseConfig struct {
	Backend string `mapstructure:"backend"`
	Path    string `mapstructure:"path"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type SimulationConfig struct {
	MaxParallel          int `mapstructure:"max_parallel"`
	DefaultHorizonMonths int `mapstructure:"default_horizon_months"`
}

// SetDefaults registers every key with its default value. Keys must be
// registered for AutomaticEnv to reach them through Unmarshal.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 15*time.Second)
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000", "http://localhost:5173"})

	v.SetDefault("database.backend", "sqlite")
	v.SetDefault("database.path", "./scenarios.db")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	v.SetDefault("simulation.max_parallel", 4)
	v.SetDefault("simulation.default_horizon_months", 12)
}

// NewViper returns a viper instance with defaults and environment binding.
// configFile may be empty; then ./config.yaml is used if present.
func NewViper(configFile string) *viper.Viper {
	v := viper.New()
	SetDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads the config file (a missing default file is fine), decodes and
// validates.
func Load(v *viper.Viper) (*Config, error) {
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate returns every problem at once.
func (c *Config) Validate() error {
	var errors []string

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", c.Server.Port))
	}
	if c.Server.ReadTimeout <= 0 || c.Server.WriteTimeout <= 0 {
		errors = append(errors, "server timeouts must be positive")
	}

	switch c.Database.Backend {
	case "memory":
	case "sqlite":
		if c.Database.Path == "" {
			errors = append(errors, "database path cannot be empty when using sqlite backend")
		}
	default:
		errors = append(errors, fmt.Sprintf("invalid database backend '%s': must be one of [memory sqlite]", c.Database.Backend))
	}

	if _, err := ParseLevel(c.Logging.Level); err != nil {
		errors = append(errors, err.Error())
	}
	if c.Logging.Format != "console" && c.Logging.Format != "json" {
		errors = append(errors, fmt.Sprintf("invalid log format '%s': must be console or json", c.Logging.Format))
	}

	if c.Simulation.MaxParallel < 0 {
		errors = append(errors, fmt.Sprintf("invalid max_parallel %d: must be at least 0", c.Simulation.MaxParallel))
	}
	if c.Simulation.DefaultHorizonMonths < 1 {
		errors = append(errors, fmt.Sprintf("invalid default_horizon_months %d: must be at least 1", c.Simulation.DefaultHorizonMonths))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}
	return nil
}

// Addr returns the listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}
