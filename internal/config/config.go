// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package config handles application configuration loading from environment
// variables and an optional config file. It provides a centralized Config
// struct used across the application.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cast"
	"github.com/spf13/viper"

	"inkpress/internal/service"
)

// Store drivers accepted in STORE_DRIVER.
const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// defaultPassword is the development database password. Production refuses it.
const defaultPassword = "changeme"

// Config holds all application configuration values.
type Config struct {
	// Server settings
	Host string
	Port string
	Env  string // "development", "production", "testing"

	// StoreDriver selects PostgreSQL or the in-process store.
	StoreDriver string

	// PostgreSQL connection
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// Valkey (Redis-compatible cache). A zero CacheTTL disables caching.
	ValkeyHost     string
	ValkeyPort     string
	ValkeyPassword string
	ValkeyDB       int
	CacheTTL       time.Duration

	// Comment counting and its periodic repair.
	CommentCountPolicy service.CountPolicy
	ReconcileSchedule  string
	ReconcileTimeout   time.Duration

	// Per-client limit on comment creation.
	CommentRateLimit  int
	CommentRateWindow time.Duration
}

// Load reads configuration from environment variables, falling back to the
// file named by CONFIG_FILE and then to development defaults. Returns an
// error if a value does not parse or critical values are missing in
// production mode.
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if file := v.GetString("config_file"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", file, err)
		}
	}

	cfg := &Config{
		Host: v.GetString("app_host"),
		Port: v.GetString("app_port"),
		Env:  v.GetString("app_env"),

		StoreDriver: v.GetString("store_driver"),

		DBHost:     v.GetString("postgres_host"),
		DBPort:     v.GetString("postgres_port"),
		DBUser:     v.GetString("postgres_user"),
		DBPassword: v.GetString("postgres_password"),
		DBName:     v.GetString("postgres_db"),

		ValkeyHost:     v.GetString("valkey_host"),
		ValkeyPort:     v.GetString("valkey_port"),
		ValkeyPassword: v.GetString("valkey_password"),

		ReconcileSchedule: v.GetString("reconcile_schedule"),
	}

	var errs []error
	cfg.ValkeyDB = intValue(v, "valkey_db", &errs)
	cfg.CacheTTL = durationValue(v, "cache_ttl", &errs)
	cfg.ReconcileTimeout = durationValue(v, "reconcile_timeout", &errs)
	cfg.CommentRateLimit = intValue(v, "comment_rate_limit", &errs)
	cfg.CommentRateWindow = durationValue(v, "comment_rate_window", &errs)

	policy, err := service.ParseCountPolicy(v.GetString("comment_count_policy"))
	if err != nil {
		errs = append(errs, fmt.Errorf("COMMENT_COUNT_POLICY: %w", err))
	}
	cfg.CommentCountPolicy = policy

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app_host", "0.0.0.0")
	v.SetDefault("app_port", "8080")
	v.SetDefault("app_env", "development")
	v.SetDefault("store_driver", DriverPostgres)

	v.SetDefault("postgres_host", "localhost")
	v.SetDefault("postgres_port", "5432")
	v.SetDefault("postgres_user", "inkpress")
	v.SetDefault("postgres_password", defaultPassword)
	v.SetDefault("postgres_db", "inkpress")

	v.SetDefault("valkey_host", "localhost")
	v.SetDefault("valkey_port", "6379")
	v.SetDefault("valkey_password", "")
	v.SetDefault("valkey_db", 0)
	v.SetDefault("cache_ttl", "5m")

	v.SetDefault("comment_count_policy", service.CountOnCreate.String())
	v.SetDefault("reconcile_schedule", "@hourly")
	v.SetDefault("reconcile_timeout", "1m")

	v.SetDefault("comment_rate_limit", 5)
	v.SetDefault("comment_rate_window", "1m")
}

func (c *Config) validate() error {
	switch c.StoreDriver {
	case DriverPostgres, DriverMemory:
	default:
		return fmt.Errorf("STORE_DRIVER must be %q or %q, got %q", DriverPostgres, DriverMemory, c.StoreDriver)
	}
	if c.CacheTTL < 0 {
		return fmt.Errorf("CACHE_TTL must not be negative")
	}
	if c.ReconcileTimeout <= 0 {
		return fmt.Errorf("RECONCILE_TIMEOUT must be positive")
	}
	if c.CommentRateLimit < 0 || c.CommentRateWindow <= 0 {
		return fmt.Errorf("COMMENT_RATE_LIMIT must not be negative and COMMENT_RATE_WINDOW must be positive")
	}
	if c.Env == "production" && c.StoreDriver == DriverPostgres && c.DBPassword == defaultPassword {
		return fmt.Errorf("POSTGRES_PASSWORD must be set in production")
	}
	return nil
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName,
	)
}

// Addr returns the server listen address (host:port).
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// IsDev returns true if the application is running in development mode.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// CacheEnabled reports whether article details are cached in Valkey.
func (c *Config) CacheEnabled() bool {
	return c.CacheTTL > 0
}

func intValue(v *viper.Viper, key string, errs *[]error) int {
	n, err := cast.ToIntE(v.Get(key))
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", envName(key), err))
	}
	return n
}

func durationValue(v *viper.Viper, key string, errs *[]error) time.Duration {
	d, err := cast.ToDurationE(v.Get(key))
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", envName(key), err))
	}
	return d
}

func envName(key string) string {
	return strings.ToUpper(key)
}
