package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// PIN storage schemes accepted by PinScheme.
const (
	PinSchemePlain  = "plain"
	PinSchemeBcrypt = "bcrypt"
)

// Config holds application level configuration loaded from environment and flags.
type Config struct {
	DatabaseURI     string
	PinScheme       string
	LogLevel        slog.Level
	ShutdownTimeout time.Duration
	Admin           AdminConfig
}

// AdminConfig describes the administrator provisioned at startup.
type AdminConfig struct {
	Login string
	Pin   string
	Name  string
}

// Enabled reports whether an administrator should be provisioned.
func (a AdminConfig) Enabled() bool {
	return a.Login != ""
}

// UsesMemoryStorage reports whether no database is configured.
func (c *Config) UsesMemoryStorage() bool {
	return c.DatabaseURI == ""
}

const (
	defaultPinScheme       = PinSchemePlain
	defaultLogLevel        = "info"
	defaultShutdownTimeout = 10 * time.Second
	defaultAdminName       = "Administrator"
	dotEnvFile             = ".env"
)

// Load parses configuration from an optional .env file, environment variables and flags.
func Load() (*Config, error) {
	if err := loadDotEnv(dotEnvFile); err != nil {
		return nil, err
	}
	return load(os.Args[1:], os.LookupEnv)
}

// loadDotEnv fills unset environment variables from path. A missing file is not an error.
func loadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

type envLookup func(string) (string, bool)

func load(args []string, lookup envLookup) (*Config, error) {
	cfg := &Config{
		DatabaseURI:     getString(lookup, "DATABASE_URI", ""),
		PinScheme:       getString(lookup, "PIN_SCHEME", defaultPinScheme),
		Admin: AdminConfig{
			Login: getString(lookup, "ADMIN_LOGIN", ""),
			Pin:   getString(lookup, "ADMIN_PIN", ""),
			Name:  getString(lookup, "ADMIN_NAME", defaultAdminName),
		},
	}

	fs := flag.NewFlagSet("atm", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		logLevelStr        = getString(lookup, "LOG_LEVEL", defaultLogLevel)
		shutdownTimeoutStr = getString(lookup, "SHUTDOWN_TIMEOUT", defaultShutdownTimeout.String())
	)

	fs.StringVar(&cfg.DatabaseURI, "d", cfg.DatabaseURI, "PostgreSQL DSN, empty keeps accounts in memory")
	fs.StringVar(&cfg.PinScheme, "pin-scheme", cfg.PinScheme, "PIN storage scheme: plain or bcrypt")
	fs.StringVar(&logLevelStr, "log-level", logLevelStr, "Log level: debug, info, warn or error")
	fs.StringVar(&shutdownTimeoutStr, "shutdown-timeout", shutdownTimeoutStr, "Graceful shutdown timeout")
	fs.StringVar(&cfg.Admin.Login, "admin-login", cfg.Admin.Login, "Login of the administrator provisioned at startup")
	fs.StringVar(&cfg.Admin.Pin, "admin-pin", cfg.Admin.Pin, "PIN of the administrator provisioned at startup")
	fs.StringVar(&cfg.Admin.Name, "admin-name", cfg.Admin.Name, "Display name of the provisioned administrator")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	var err error

	if cfg.ShutdownTimeout, err = time.ParseDuration(shutdownTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid shutdown timeout: %w", err)
	}

	if err = cfg.LogLevel.UnmarshalText([]byte(logLevelStr)); err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}

	cfg.PinScheme = strings.ToLower(strings.TrimSpace(cfg.PinScheme))
	switch cfg.PinScheme {
	case PinSchemePlain, PinSchemeBcrypt:
	default:
		return nil, fmt.Errorf("invalid pin scheme %q", cfg.PinScheme)
	}

	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}

	if (cfg.Admin.Login == "") != (cfg.Admin.Pin == "") {
		return nil, fmt.Errorf("admin login and pin must be provided together")
	}

	if strings.TrimSpace(cfg.Admin.Name) == "" {
		cfg.Admin.Name = defaultAdminName
	}

	return cfg, nil
}

func getString(lookup envLookup, key, def string) string {
	if v, ok := lookup(key); ok && v != "" {
		return v
	}
	return def
}
