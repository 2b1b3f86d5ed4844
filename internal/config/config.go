package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Archive backends for exported snapshots
const (
	ArchiveNone     = "none"
	ArchivePostgres = "postgres"
	ArchiveDir      = "dir"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Server ServerConfig

	// Database configuration, used by the postgres snapshot archive
	Database DatabaseConfig

	// Snapshot export/import configuration
	Snapshot SnapshotConfig

	// Locale used for name collation in sorted views
	Locale string

	// TimeZone used to format dates in the history report
	TimeZone string

	// Logging configuration
	Log LogConfig
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host           string
	Port           string
	User           string
	Password       string
	Name           string
	SSLMode        string
	MaxOpenConns   int
	MaxIdleConns   int
	MaxLifetime    time.Duration
	MigrationsPath string
}

// SnapshotConfig holds export/import settings
type SnapshotConfig struct {
	ExportBaseName string
	ReportBaseName string
	MaxUploadSize  int64 // in bytes
	Archive        string
	ArchiveDir     string
	RestoreOnStart bool
}

// LogConfig holds logging settings
type LogConfig struct {
	Level  string
	Format string // "json" or "pretty"
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "8080"),
			ReadTimeout:     getDurationEnv("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:    getDurationEnv("SERVER_WRITE_TIMEOUT", 30*time.Second),
			ShutdownTimeout: getDurationEnv("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Database: DatabaseConfig{
			Host:           getEnv("DB_HOST", "localhost"),
			Port:           getEnv("DB_PORT", "5432"),
			User:           getEnv("DB_USER", "postgres"),
			Password:       getEnv("DB_PASSWORD", "postgres"),
			Name:           getEnv("DB_NAME", "equipment_loans"),
			SSLMode:        getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:   getIntEnv("DB_MAX_OPEN_CONNS", 5),
			MaxIdleConns:   getIntEnv("DB_MAX_IDLE_CONNS", 2),
			MaxLifetime:    getDurationEnv("DB_MAX_LIFETIME", 5*time.Minute),
			MigrationsPath: getEnv("MIGRATIONS_PATH", "./migrations"),
		},
		Snapshot: SnapshotConfig{
			ExportBaseName: getEnv("SNAPSHOT_EXPORT_NAME", "gestion_materiel"),
			ReportBaseName: getEnv("SNAPSHOT_REPORT_NAME", "historique_emprunts"),
			MaxUploadSize:  getInt64Env("MAX_UPLOAD_SIZE", 10*1024*1024), // 10MB
			Archive:        getEnv("SNAPSHOT_ARCHIVE", ArchiveNone),
			ArchiveDir:     getEnv("SNAPSHOT_ARCHIVE_DIR", "./data/snapshots"),
			RestoreOnStart: getBoolEnv("SNAPSHOT_RESTORE_ON_START", false),
		},
		Locale:   getEnv("LOCALE", "fr"),
		TimeZone: getEnv("TIMEZONE", "Europe/Paris"),
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	// Validate required configuration
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	switch c.Snapshot.Archive {
	case ArchiveNone:
	case ArchivePostgres:
		if c.Database.Host == "" {
			return fmt.Errorf("DB_HOST is required for the postgres archive")
		}
		if c.Database.Name == "" {
			return fmt.Errorf("DB_NAME is required for the postgres archive")
		}
	case ArchiveDir:
		if c.Snapshot.ArchiveDir == "" {
			return fmt.Errorf("SNAPSHOT_ARCHIVE_DIR is required for the dir archive")
		}
	default:
		return fmt.Errorf("SNAPSHOT_ARCHIVE must be one of: none, postgres, dir")
	}
	if c.Snapshot.ExportBaseName == "" {
		return fmt.Errorf("SNAPSHOT_EXPORT_NAME must not be empty")
	}
	if c.Snapshot.MaxUploadSize <= 0 {
		return fmt.Errorf("MAX_UPLOAD_SIZE must be positive")
	}
	return nil
}

// GetDSN returns the PostgreSQL connection string
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}

// Helper functions for environment variable parsing

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getInt64Env(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
