package config

import (
	"time"

	"github.com/spf13/viper"
)

type (
	Config struct {
		HTTP
		Global
		Database
		GoogleBooks
		Dedup
		Enrichment
		Tasks
	}

	HTTP struct {
		Port int32
		Host string
	}

	Global struct {
		ShutdownTimeoutInSeconds int
		LockPath                 string // advisory lock guarding maintenance jobs
	}

	Database struct {
		Path string
	}

	GoogleBooks struct {
		BaseURL      string
		APIKey       string
		LangRestrict string
		Timeout      time.Duration // per-call timeout; the source can hang
		RateInterval time.Duration // minimum interval between calls
		MaxResults   int
	}

	Dedup struct {
		ScheduleEnabled bool
		Schedule        string // Cron format: "0 4 * * *" = daily at 04:00
	}

	Enrichment struct {
		ScheduleEnabled bool
		Schedule        string // Cron format
		BatchSize       int
	}

	Tasks struct {
		Enabled           bool
		Workers           int
		ReleaseAfter      time.Duration
		CleanupInterval   time.Duration
		RetentionDuration time.Duration
	}
)

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8189)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 2)
	v.SetDefault("lock_path", DefaultLockPath)
	v.SetDefault("database_path", DefaultDatabasePath)

	// Google Books defaults
	v.SetDefault("googlebooks_base_url", DefaultGoogleBooksBaseURL)
	v.SetDefault("googlebooks_api_key", "")
	v.SetDefault("googlebooks_lang_restrict", "")
	v.SetDefault("googlebooks_timeout", "10s")
	v.SetDefault("googlebooks_rate_interval", "100ms")
	v.SetDefault("googlebooks_max_results", 5)

	// Maintenance schedule defaults
	v.SetDefault("dedup_schedule_enabled", false)
	v.SetDefault("dedup_schedule", "0 4 * * *") // Daily at 04:00
	v.SetDefault("enrichment_schedule_enabled", false)
	v.SetDefault("enrichment_schedule", "30 4 * * *") // Daily at 04:30
	v.SetDefault("enrichment_batch_size", DefaultEnrichmentBatchSize)

	// Task queue defaults
	v.SetDefault("tasks_enabled", true)
	v.SetDefault("task_workers", 1)
	v.SetDefault("task_release_after", "15m")
	v.SetDefault("task_cleanup_interval", "1h")
	v.SetDefault("task_retention_duration", "24h")

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
			LockPath:                 v.GetString("LOCK_PATH"),
		},
		Database: Database{
			Path: v.GetString("DATABASE_PATH"),
		},
		GoogleBooks: GoogleBooks{
			BaseURL:      v.GetString("GOOGLEBOOKS_BASE_URL"),
			APIKey:       v.GetString("GOOGLEBOOKS_API_KEY"),
			LangRestrict: v.GetString("GOOGLEBOOKS_LANG_RESTRICT"),
			Timeout:      v.GetDuration("GOOGLEBOOKS_TIMEOUT"),
			RateInterval: v.GetDuration("GOOGLEBOOKS_RATE_INTERVAL"),
			MaxResults:   v.GetInt("GOOGLEBOOKS_MAX_RESULTS"),
		},
		Dedup: Dedup{
			ScheduleEnabled: v.GetBool("DEDUP_SCHEDULE_ENABLED"),
			Schedule:        v.GetString("DEDUP_SCHEDULE"),
		},
		Enrichment: Enrichment{
			ScheduleEnabled: v.GetBool("ENRICHMENT_SCHEDULE_ENABLED"),
			Schedule:        v.GetString("ENRICHMENT_SCHEDULE"),
			BatchSize:       v.GetInt("ENRICHMENT_BATCH_SIZE"),
		},
		Tasks: Tasks{
			Enabled:           v.GetBool("TASKS_ENABLED"),
			Workers:           v.GetInt("TASK_WORKERS"),
			ReleaseAfter:      v.GetDuration("TASK_RELEASE_AFTER"),
			CleanupInterval:   v.GetDuration("TASK_CLEANUP_INTERVAL"),
			RetentionDuration: v.GetDuration("TASK_RETENTION_DURATION"),
		},
	}
}
