// Package config manages environment variables.
//
// It reads variables from the process environment (and a `.env`
// file when present), loads them into structured Go types, and
// validates that required values are present so they can be
// reused across the application runtime.
//
// Responsibilities:
//   - Load environment variables (optionally from a `.env` file).
//   - Map env vars onto a structured config with sane defaults.
//   - Validate required values so the app fails fast on bad config.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	// Side-effect import: loads `.env` into the process env before
	// anything reads from it.
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is stripped from every variable before it is mapped.
//
//	GRADEJOURNAL_SERVER.PORT -> server.port -> Config.Server.Port
const EnvPrefix = "GRADEJOURNAL_"

// Config is the root configuration object for the application.
//
// Observability is a pointer because it is optional. If not provided,
// defaults are injected in LoadConfig.
type Config struct {
	Primary       Primary              `koanf:"primary" validate:"required"`
	Server        ServerConfig         `koanf:"server" validate:"required"`
	Database      DatabaseConfig       `koanf:"database" validate:"required"`
	Redis         RedisConfig          `koanf:"redis"`
	Admin         AdminConfig          `koanf:"admin" validate:"required"`
	Frontend      FrontendConfig       `koanf:"frontend" validate:"required"`
	Observability *ObservabilityConfig `koanf:"observability"`
}

// Primary holds top-level information about the runtime environment.
type Primary struct {
	Env string `koanf:"env" validate:"required"`
}

// ServerConfig groups settings for the HTTP server runtime.
// Timeouts are in seconds.
//
// CORSAllowedOrigins feeds the CORS middleware. If it is wrong, the
// browser blocks the frontend's calls and the server logs nothing.
// "*" allows every origin, credentials included, because the middleware
// echoes the caller's Origin back.
type ServerConfig struct {
	Port               string   `koanf:"port" validate:"required"`
	ReadTimeout        int      `koanf:"read_timeout" validate:"required"`
	WriteTimeout       int      `koanf:"write_timeout" validate:"required"`
	IdleTimeout        int      `koanf:"idle_timeout" validate:"required"`
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins" validate:"required"`
}

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// DatabaseConfig selects the storage engine and carries its connection
// parameters. Path is used by sqlite; the network fields by postgres.
// Pool lifetimes are in seconds.
type DatabaseConfig struct {
	Driver          string `koanf:"driver" validate:"required,oneof=sqlite postgres"`
	Path            string `koanf:"path" validate:"required_if=Driver sqlite"`
	Host            string `koanf:"host" validate:"required_if=Driver postgres"`
	Port            int    `koanf:"port" validate:"required_if=Driver postgres"`
	User            string `koanf:"user" validate:"required_if=Driver postgres"`
	Password        string `koanf:"password"`
	Name            string `koanf:"name" validate:"required_if=Driver postgres"`
	SSLMode         string `koanf:"ssl_mode"`
	MaxOpenConns    int    `koanf:"max_open_conns" validate:"required"`
	MaxIdleConns    int    `koanf:"max_idle_conns" validate:"required"`
	ConnMaxLifetime int    `koanf:"conn_max_lifetime" validate:"required"`
	ConnMaxIdleTime int    `koanf:"conn_max_idle_time" validate:"required"`
}

// RedisConfig contains Redis connection details ("host:port").
// An empty Address, or a Redis that does not answer PING at startup,
// keeps admin sessions in the in-process cache instead.
type RedisConfig struct {
	Address string `koanf:"address"`
}

// AdminConfig configures the admin console login and its session cookie.
type AdminConfig struct {
	Username      string        `koanf:"username" validate:"required"`
	Password      string        `koanf:"password" validate:"required"`
	SessionCookie string        `koanf:"session_cookie" validate:"required"`
	SessionTTL    time.Duration `koanf:"session_ttl" validate:"min=1m"`

	// LoginRateLimit is the number of login attempts per second allowed
	// from one client IP.
	LoginRateLimit float64 `koanf:"login_rate_limit" validate:"gt=0"`
}

// FrontendConfig points at the assets served by the frontend mount.
type FrontendConfig struct {
	StaticDir   string `koanf:"static_dir" validate:"required"`
	TemplateDir string `koanf:"template_dir" validate:"required"`
}

// DefaultConfig returns a configuration that runs out of the box against
// a local SQLite file.
func DefaultConfig() *Config {
	return &Config{
		Primary: Primary{Env: "development"},
		Server: ServerConfig{
			Port:               "8000",
			ReadTimeout:        30,
			WriteTimeout:       30,
			IdleTimeout:        60,
			CORSAllowedOrigins: []string{"*"},
		},
		Database: DatabaseConfig{
			Driver:          DriverSQLite,
			Path:            "gradejournal.db",
			Port:            5432,
			SSLMode:         "disable",
			MaxOpenConns:    10,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
			ConnMaxIdleTime: 300,
		},
		Admin: AdminConfig{
			Username:       "admin",
			Password:       "admin123",
			SessionCookie:  "session",
			SessionTTL:     24 * time.Hour,
			LoginRateLimit: 5,
		},
		Frontend: FrontendConfig{
			StaticDir:   "static",
			TemplateDir: "templates",
		},
		Observability: DefaultObservabilityConfig(),
	}
}

// LoadConfig builds the runtime configuration.
//
// Steps:
//  1. koanf reads every GRADEJOURNAL_* variable (a `.env` file was already
//     merged into the environment by godotenv/autoload).
//  2. The prefix is stripped and keys are lowercased, so the dots in the
//     variable name become koanf's path delimiter.
//  3. The keys are unmarshaled over DefaultConfig.
//  4. Validate runs the struct tags and the observability rules.
//
// Any failure is returned; main refuses to start on a bad config.
func LoadConfig() (*Config, error) {
	k := koanf.New(".")

	err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("could not load env variables: %w", err)
	}

	// Unmarshal leaves fields that have no env key untouched, so the
	// defaults survive.
	mainConfig := DefaultConfig()
	if err := k.Unmarshal("", mainConfig); err != nil {
		return nil, fmt.Errorf("could not unmarshal main config: %w", err)
	}

	if err := mainConfig.Validate(); err != nil {
		return nil, err
	}

	return mainConfig, nil
}

// Validate runs the struct-tag validation, fills in default observability
// settings and checks them.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	if c.Observability == nil {
		c.Observability = DefaultObservabilityConfig()
	}

	// Service name is fixed; environment always follows primary.env.
	c.Observability.ServiceName = "gradejournal"
	c.Observability.Environment = c.Primary.Env

	if err := c.Observability.Validate(); err != nil {
		return fmt.Errorf("invalid observability config: %w", err)
	}

	return nil
}
