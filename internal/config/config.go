package config

import (
	"time"

	"github.com/spf13/viper"
)

type DatabaseDriver string

const (
	DatabaseDriverSQLite   DatabaseDriver = "sqlite"
	DatabaseDriverPostgres DatabaseDriver = "postgres"
)

type (
	Config struct {
		HTTP
		Global
		Database
		UI
		Pagination
		Tasks
		Purge
		Auth
	}

	HTTP struct {
		Port int32
		Host string
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
	Database struct {
		Driver DatabaseDriver
		Path   string // sqlite file
		URL    string // postgres connection string
	}
	UI struct {
		TemplatesPath string // empty means embedded templates
		StaticPath    string // empty means embedded static files
	}
	Pagination struct {
		HomePageSize    int
		AccountPageSize int
	}
	Tasks struct {
		Enabled         bool
		Workers         int
		ReleaseAfter    time.Duration
		CleanupInterval time.Duration
	}
	Purge struct {
		Enabled   bool
		Schedule  string        // Cron format: "0 * * * *" = hourly
		Retention time.Duration // How long soft-deleted exercises are kept

		AuditRetention time.Duration // How long audit events are kept, 0 keeps them forever
	}
	Auth struct {
		SessionSecret   string
		SessionLifetime time.Duration
		BcryptCost      int
		SecureCookies   bool

		MaxLoginAttempts int           // Max failed attempts before lockout (default: 5)
		RateLimitWindow  time.Duration // Time window for counting attempts (default: 15m)
		LockoutDuration  time.Duration // How long to lock out (default: 30m)
	}
)

// firstNonEmpty returns the value of the first key that is set, used to honour
// the variable names of earlier deployments.
func firstNonEmpty(v *viper.Viper, keys ...string) string {
	for _, key := range keys {
		if value := v.GetString(key); value != "" {
			return value
		}
	}
	return ""
}

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 5000)
	v.SetDefault("shutdown_timeout_in_seconds", 2)
	v.SetDefault("database_driver", string(DatabaseDriverSQLite))
	v.SetDefault("database_path", DefaultDatabasePath)
	v.SetDefault("database_url", "")
	v.SetDefault("templates_path", "")
	v.SetDefault("static_path", "")

	// Pagination defaults
	v.SetDefault("home_page_size", DefaultHomePageSize)
	v.SetDefault("account_page_size", DefaultAccountPageSize)

	// Task queue defaults
	v.SetDefault("tasks_enabled", true)
	v.SetDefault("task_workers", 2)
	v.SetDefault("task_release_after", "15m")
	v.SetDefault("task_cleanup_interval", "1h")

	// Purge defaults
	v.SetDefault("purge_enabled", true)
	v.SetDefault("purge_schedule", "0 * * * *") // Hourly at :00
	v.SetDefault("purge_retention", "168h")     // 7 days
	v.SetDefault("audit_retention", "720h")     // 30 days

	// Auth defaults
	v.SetDefault("session_lifetime", "24h")
	v.SetDefault("bcrypt_cost", 12)
	v.SetDefault("secure_cookies", false)
	v.SetDefault("max_login_attempts", 5)
	v.SetDefault("rate_limit_window", "15m")
	v.SetDefault("lockout_duration", "30m")

	host := firstNonEmpty(v, "HOST", "IP")
	if host == "" {
		host = DefaultHost
	}

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: host,
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Database: Database{
			Driver: DatabaseDriver(v.GetString("DATABASE_DRIVER")),
			Path:   v.GetString("DATABASE_PATH"),
			URL:    firstNonEmpty(v, "DATABASE_URL", "MONGO_SFDB_URI"),
		},
		UI: UI{
			TemplatesPath: v.GetString("TEMPLATES_PATH"),
			StaticPath:    v.GetString("STATIC_PATH"),
		},
		Pagination: Pagination{
			HomePageSize:    v.GetInt("HOME_PAGE_SIZE"),
			AccountPageSize: v.GetInt("ACCOUNT_PAGE_SIZE"),
		},
		Tasks: Tasks{
			Enabled:         v.GetBool("TASKS_ENABLED"),
			Workers:         v.GetInt("TASK_WORKERS"),
			ReleaseAfter:    v.GetDuration("TASK_RELEASE_AFTER"),
			CleanupInterval: v.GetDuration("TASK_CLEANUP_INTERVAL"),
		},
		Purge: Purge{
			Enabled:   v.GetBool("PURGE_ENABLED"),
			Schedule:  v.GetString("PURGE_SCHEDULE"),
			Retention: v.GetDuration("PURGE_RETENTION"),

			AuditRetention: v.GetDuration("AUDIT_RETENTION"),
		},
		Auth: Auth{
			SessionSecret:    firstNonEmpty(v, "SESSION_SECRET", "SUPER_SECRET_KEY"),
			SessionLifetime:  v.GetDuration("SESSION_LIFETIME"),
			BcryptCost:       v.GetInt("BCRYPT_COST"),
			SecureCookies:    v.GetBool("SECURE_COOKIES"),
			MaxLoginAttempts: v.GetInt("MAX_LOGIN_ATTEMPTS"),
			RateLimitWindow:  v.GetDuration("RATE_LIMIT_WINDOW"),
			LockoutDuration:  v.GetDuration("LOCKOUT_DURATION"),
		},
	}
}
