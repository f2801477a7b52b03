package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
)

// Config holds every value spec.md §6 calls out as externally
// configurable, plus the ambient process settings the teacher repo
// always carries (env, log level, metrics port).
type Config struct {
	Env string `env:"ENV" envDefault:"local" validate:"required,oneof=local staging production"`

	DatabaseURL string `env:"DATABASE_URL" validate:"required_if=Env production,required_if=Env staging"`

	MetricsPort string `env:"METRICS_PORT" envDefault:"9090"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info" validate:"required,oneof=debug info warn error"`

	// ExternalTimezone is the civil-date timezone every scheduling
	// decision (today, week boundaries, slot times) is made in.
	ExternalTimezone string `env:"EXTERNAL_TIMEZONE" envDefault:"America/Indiana/Indianapolis"`

	SchedulingWindowDays int `env:"SCHEDULING_WINDOW_DAYS" envDefault:"3" validate:"min=1,max=14"`
	MaxCorePerDay        int `env:"MAX_CORE_PER_DAY" envDefault:"1" validate:"min=1"`
	MaxCorePerWeek       int `env:"MAX_CORE_PER_WEEK" envDefault:"6" validate:"min=1"`
	MinDaysToDue         int `env:"MIN_DAYS_TO_DUE" envDefault:"2" validate:"min=0"`
	MaxBumpsPerEvent     int `env:"MAX_BUMPS_PER_EVENT" envDefault:"3" validate:"min=0"`
	ShortNoticeDays      int `env:"SHORT_NOTICE_DAYS" envDefault:"3" validate:"min=0"`

	// AutoRunCron schedules the automatic run, in standard 5-field cron
	// syntax evaluated in ExternalTimezone.
	AutoRunCron string `env:"AUTO_RUN_CRON" envDefault:"0 6 * * *"`

	// StaleRunTimeoutMin bounds how long a SchedulerRun may sit in
	// "running" before the reaper marks it failed.
	StaleRunTimeoutMin int `env:"STALE_RUN_TIMEOUT_MIN" envDefault:"30" validate:"min=1"`

	ResendAPIKey string `env:"RESEND_API_KEY" validate:"required_if=Env production,required_if=Env staging"`
	ResendFrom   string `env:"RESEND_FROM" validate:"required_if=Env production,required_if=Env staging"`
	NotifyTo     string `env:"NOTIFY_TO"`
}

func Load() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	if _, err := cfg.Location(); err != nil {
		return nil, fmt.Errorf("invalid EXTERNAL_TIMEZONE: %w", err)
	}

	return cfg, nil
}

// Location loads the configured IANA timezone.
func (c *Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.ExternalTimezone)
}

// SlogLevel converts the LOG_LEVEL string to a slog.Level.
func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
