package config

import (
	"strings"

	"github.com/spf13/viper"
)

// DatabaseConfig holds PostgreSQL database connection settings.
type DatabaseConfig struct {
	Host               string
	Port               string
	User               string
	Password           string
	Name               string
	SSLMode            string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeSec int
}

// MinIOConfig holds object storage settings for MinIO.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// StorageConfig selects where uploaded originals are written.
// Driver is "local" (files under UploadDir, served below PublicPrefix) or "minio".
type StorageConfig struct {
	Driver       string
	UploadDir    string
	PublicPrefix string
	MinIO        MinIOConfig
}

// IngestConfig bounds the ingestion pipeline.
type IngestConfig struct {
	MaxUploadBytes  int64
	MaxExtractBytes int64
}

// LogConfig configures the application logger.
type LogConfig struct {
	Level      string
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	AppHost     string
	Port        string
	AutoMigrate bool
	Database    DatabaseConfig
	Storage     StorageConfig
	Ingest      IngestConfig
	Log         LogConfig
}

var defaults = map[string]any{
	"APP_HOST":                 "localhost:8080",
	"PORT":                     "8080",
	"AUTO_MIGRATE":             false,
	"DB_PORT":                  "5432",
	"DB_SSLMODE":               "disable",
	"DB_MAX_OPEN_CONNS":        10,
	"DB_MAX_IDLE_CONNS":        5,
	"DB_CONN_MAX_LIFETIME_SEC": 300,
	"STORAGE_DRIVER":           "local",
	"UPLOAD_DIR":               "./uploads",
	"UPLOAD_PUBLIC_PREFIX":     "/uploads",
	"MINIO_USE_SSL":            false,
	"UPLOAD_MAX_BYTES":         int64(50 << 20),
	"EXTRACT_MAX_BYTES":        int64(50 << 20),
	"LOG_LEVEL":                "info",
	"LOG_MAX_SIZE_MB":          100,
	"LOG_MAX_BACKUPS":          3,
	"LOG_MAX_AGE_DAYS":         28,
	"LOG_COMPRESS":             false,
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// This function does not require a .env file; real environment variables take precedence.
func Load() *AppConfig {
	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for k, d := range defaults {
		v.SetDefault(k, d)
	}

	return &AppConfig{
		AppHost:     v.GetString("APP_HOST"),
		Port:        v.GetString("PORT"),
		AutoMigrate: v.GetBool("AUTO_MIGRATE"),
		Database: DatabaseConfig{
			Host:               v.GetString("DB_HOST"),
			Port:               v.GetString("DB_PORT"),
			User:               v.GetString("DB_USER"),
			Password:           v.GetString("DB_PASSWORD"),
			Name:               v.GetString("DB_NAME"),
			SSLMode:            v.GetString("DB_SSLMODE"),
			MaxOpenConns:       v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:       v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetimeSec: v.GetInt("DB_CONN_MAX_LIFETIME_SEC"),
		},
		Storage: StorageConfig{
			Driver:       strings.ToLower(v.GetString("STORAGE_DRIVER")),
			UploadDir:    v.GetString("UPLOAD_DIR"),
			PublicPrefix: v.GetString("UPLOAD_PUBLIC_PREFIX"),
			MinIO: MinIOConfig{
				Endpoint:  v.GetString("MINIO_ENDPOINT"),
				AccessKey: v.GetString("MINIO_ACCESS_KEY"),
				SecretKey: v.GetString("MINIO_SECRET_KEY"),
				Bucket:    v.GetString("MINIO_BUCKET"),
				UseSSL:    v.GetBool("MINIO_USE_SSL"),
			},
		},
		Ingest: IngestConfig{
			MaxUploadBytes:  v.GetInt64("UPLOAD_MAX_BYTES"),
			MaxExtractBytes: v.GetInt64("EXTRACT_MAX_BYTES"),
		},
		Log: LogConfig{
			Level:      v.GetString("LOG_LEVEL"),
			File:       v.GetString("LOG_FILE"),
			MaxSizeMB:  v.GetInt("LOG_MAX_SIZE_MB"),
			MaxBackups: v.GetInt("LOG_MAX_BACKUPS"),
			MaxAgeDays: v.GetInt("LOG_MAX_AGE_DAYS"),
			Compress:   v.GetBool("LOG_COMPRESS"),
		},
	}
}
