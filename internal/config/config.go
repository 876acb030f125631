package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Supported values of STORE_BACKEND.
const (
	BackendXLSX     = "xlsx"
	BackendSheets   = "sheets"
	BackendMongoDB  = "mongo"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

// Config represents the full application configuration surface.
type Config struct {
	Server   ServerConfig
	Store    StoreConfig
	Sheets   SheetsConfig
	MongoDB  MongoDBConfig
	Postgres PostgresConfig
	Schedule ScheduleConfig
	Notifier NotifierConfig
	Log      LogConfig
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Port string
}

// StoreConfig selects the persistence backend.
type StoreConfig struct {
	Backend string
	DataDir string
}

// SheetsConfig contains configuration required to interact with Google Sheets.
type SheetsConfig struct {
	CredentialsPath string
	SpreadsheetID   string
}

// MongoDBConfig holds settings for MongoDB.
type MongoDBConfig struct {
	URI    string
	DBName string
}

// PostgresConfig holds the PostgreSQL connection string.
type PostgresConfig struct {
	URL string
}

// ScheduleConfig holds cron expressions for background jobs. Empty disables a job.
type ScheduleConfig struct {
	ReportCron string
	BackupCron string
	BackupDir  string
	Timezone   string
}

// NotifierConfig points at the webhook receiving scheduled reports.
type NotifierConfig struct {
	WebhookURL string
	Token      string
}

// LogConfig controls the zap logger.
type LogConfig struct {
	Level string
}

// Load reads environment variables (optionally from the provided file) and
// materializes a Config instance.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
			}
		}
	} else {
		// Ignore the returned error here; missing .env files are acceptable when
		// configuration comes from the environment directly.
		_ = godotenv.Load()
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: getenvWithDefault("APP_PORT", getenvWithDefault("PORT", "8080")),
		},
		Store: StoreConfig{
			Backend: strings.ToLower(getenvWithDefault("STORE_BACKEND", BackendXLSX)),
			DataDir: getenvWithDefault("DATA_DIR", "data"),
		},
		Sheets: SheetsConfig{
			CredentialsPath: os.Getenv("GOOGLE_SHEETS_CREDENTIALS_PATH"),
			SpreadsheetID:   os.Getenv("GOOGLE_SHEET_DATABASE_ID"),
		},
		MongoDB: MongoDBConfig{
			URI:    os.Getenv("MONGODB_URI"),
			DBName: getenvWithDefault("MONGODB_DB_NAME", "stockledger"),
		},
		Postgres: PostgresConfig{
			URL: os.Getenv("POSTGRES_URL"),
		},
		Schedule: ScheduleConfig{
			ReportCron: os.Getenv("REPORT_CRON_SCHEDULE"),
			BackupCron: os.Getenv("BACKUP_CRON_SCHEDULE"),
			BackupDir:  getenvWithDefault("BACKUP_DIR", "backups"),
			Timezone:   getenvWithDefault("TIMEZONE", "Asia/Jakarta"),
		},
		Notifier: NotifierConfig{
			WebhookURL: os.Getenv("NOTIFY_WEBHOOK_URL"),
			Token:      os.Getenv("NOTIFY_TOKEN"),
		},
		Log: LogConfig{
			Level: getenvWithDefault("LOG_LEVEL", "info"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures that required configuration fields are populated.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}

	if c.Server.Port == "" {
		return errors.New("APP_PORT must be provided")
	}

	switch c.Store.Backend {
	case BackendXLSX:
		if c.Store.DataDir == "" {
			return errors.New("DATA_DIR must not be empty")
		}
	case BackendSheets:
		if c.Sheets.CredentialsPath == "" {
			return errors.New("GOOGLE_SHEETS_CREDENTIALS_PATH must be provided")
		}
		if c.Sheets.SpreadsheetID == "" {
			return errors.New("GOOGLE_SHEET_DATABASE_ID must be provided")
		}
	case BackendMongoDB:
		if c.MongoDB.URI == "" {
			return errors.New("MONGODB_URI must be provided")
		}
		if c.MongoDB.DBName == "" {
			return errors.New("MONGODB_DB_NAME must not be empty")
		}
	case BackendPostgres:
		if c.Postgres.URL == "" {
			return errors.New("POSTGRES_URL must be provided")
		}
	case BackendMemory:
	default:
		return fmt.Errorf("unsupported STORE_BACKEND %q", c.Store.Backend)
	}

	if c.Schedule.ReportCron != "" && c.Notifier.WebhookURL == "" {
		return errors.New("NOTIFY_WEBHOOK_URL must be provided when REPORT_CRON_SCHEDULE is set")
	}

	if c.Schedule.BackupCron != "" && c.Schedule.BackupDir == "" {
		return errors.New("BACKUP_DIR must not be empty when BACKUP_CRON_SCHEDULE is set")
	}

	if c.Schedule.Timezone == "" {
		return errors.New("TIMEZONE must be provided")
	}

	return nil
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
