package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"    validate:"required"`
	Database  DatabaseConfig  `mapstructure:"database"  validate:"required"`
	Auth      AuthConfig      `mapstructure:"auth"      validate:"required"`
	Scheduler SchedulerConfig `mapstructure:"scheduler" validate:"required"`
	Jobs      JobsConfig      `mapstructure:"jobs"      validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required,url"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret                   string `mapstructure:"jwt_secret"                     validate:"required,min=32"`
	BCryptCost                  int    `mapstructure:"bcrypt_cost"                    validate:"required,gte=4,lte=31"`
	TokenLifetimeMinutes        int    `mapstructure:"token_lifetime_minutes"         validate:"required,gt=0"`
	RefreshTokenLifetimeMinutes int    `mapstructure:"refresh_token_lifetime_minutes" validate:"required,gt=0,gtfield=TokenLifetimeMinutes"`
}

// SchedulerConfig controls the scheduling engine and when it runs.
type SchedulerConfig struct {
	// LookAheadDays bounds how far ahead a task may be placed.
	LookAheadDays int `mapstructure:"look_ahead_days" validate:"required,gte=1,lte=365"`
	// Timezone decides what "today" means for users without their own zone.
	Timezone string `mapstructure:"timezone" validate:"required,timezone"`
	// NightlyCron is a standard five-field cron spec for the nightly sweep.
	// Empty disables the sweep.
	NightlyCron string `mapstructure:"nightly_cron"`
	// ReschedulePerMinute caps manual reschedule requests per user.
	ReschedulePerMinute int `mapstructure:"reschedule_per_minute" validate:"required,gte=1,lte=600"`
}

// Location returns the configured zone. Load has already validated it.
func (c SchedulerConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// JobsConfig sizes the background job runner.
type JobsConfig struct {
	QueueSize          int `mapstructure:"queue_size"            validate:"required,gte=1"`
	WorkerCount        int `mapstructure:"worker_count"          validate:"required,gte=1"`
	StuckJobAgeMinutes int `mapstructure:"stuck_job_age_minutes" validate:"required,gte=1"`
}
