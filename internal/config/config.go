package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
)

const defaultJWTSecret = "your-secret-key-change-in-production"

// Config holds the whole application configuration.
// It is populated once from environment variables and passed down explicitly.
type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Storage  StorageConfig
	Worker   WorkerConfig
}

type AppConfig struct {
	Name           string
	Environment    string // development, staging, production
	Port           string
	Version        string
	AllowedOrigins []string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
	MaxConns int
	MinConns int
}

// DSN returns a postgres URL usable by pgx and the goose stdlib driver.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("postgresql://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Database, d.SSLMode)
}

type RedisConfig struct {
	Host     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret            string
	AccessTokenExpiry int // minutes
}

type WorkerConfig struct {
	Concurrency  int
	BackfillCron string
}

// =====================================================
// STORAGE CONFIGURATION
// =====================================================

// StorageConfig describes every asset backend. Which of them receives new
// uploads is decided once at startup from what is configured here.
type StorageConfig struct {
	Primary        MinIOConfig
	Secondary      S3Config
	Local          LocalStorageConfig
	MaxUploadBytes int64
}

type MinIOConfig struct {
	Endpoint  string // localhost:9000
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	PublicURL string // optional CDN/base URL; defaults to the endpoint
}

// Configured reports whether the primary object store can be used.
func (m MinIOConfig) Configured() bool {
	return m.Endpoint != "" && m.Bucket != "" && m.AccessKey != "" && m.SecretKey != ""
}

type S3Config struct {
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
	Endpoint  string // optional, for S3-compatible services
	PublicURL string
}

// Configured reports whether the secondary object store can be used.
func (s S3Config) Configured() bool {
	return s.Bucket != "" && s.Region != ""
}

type LocalStorageConfig struct {
	Dir        string // filesystem root, e.g. uploads
	PublicPath string // URL path the API serves Dir under, e.g. /uploads
}

// Load reads config from environment variables
func Load() (*Config, error) {
	maxUpload, err := getEnvInt64("UPLOAD_MAX_BYTES", 50*1024*1024)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		App: AppConfig{
			Name:           getEnv("APP_NAME", "InkDrop API"),
			Environment:    getEnv("APP_ENV", "development"),
			Port:           getEnv("APP_PORT", "8080"),
			Version:        getEnv("APP_VERSION", "1.0.0"),
			AllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:5173", "http://localhost:3000"}),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", "inkdrop"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
			MaxConns: getEnvInt("DB_MAX_CONNS", 25),
			MinConns: getEnvInt("DB_MIN_CONNS", 5),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		JWT: JWTConfig{
			Secret:            getEnv("JWT_SECRET", defaultJWTSecret),
			AccessTokenExpiry: getEnvInt("JWT_ACCESS_EXPIRY", 60*24),
		},
		Storage: StorageConfig{
			Primary: MinIOConfig{
				Endpoint:  getEnv("STORAGE_PRIMARY_ENDPOINT", ""),
				AccessKey: getEnv("STORAGE_PRIMARY_ACCESS_KEY", ""),
				SecretKey: getEnv("STORAGE_PRIMARY_SECRET_KEY", ""),
				Bucket:    getEnv("STORAGE_PRIMARY_BUCKET", "inkdrop"),
				UseSSL:    getEnvBool("STORAGE_PRIMARY_USE_SSL", false),
				PublicURL: getEnv("STORAGE_PRIMARY_PUBLIC_URL", ""),
			},
			Secondary: S3Config{
				Region:    getEnv("STORAGE_SECONDARY_REGION", ""),
				Bucket:    getEnv("STORAGE_SECONDARY_BUCKET", ""),
				AccessKey: getEnv("STORAGE_SECONDARY_ACCESS_KEY", ""),
				SecretKey: getEnv("STORAGE_SECONDARY_SECRET_KEY", ""),
				Endpoint:  getEnv("STORAGE_SECONDARY_ENDPOINT", ""),
				PublicURL: getEnv("STORAGE_SECONDARY_PUBLIC_URL", ""),
			},
			Local: LocalStorageConfig{
				Dir:        getEnv("STORAGE_LOCAL_DIR", "uploads"),
				PublicPath: getEnv("STORAGE_LOCAL_PUBLIC_PATH", "/uploads"),
			},
			MaxUploadBytes: maxUpload,
		},
		Worker: WorkerConfig{
			Concurrency:  getEnvInt("WORKER_CONCURRENCY", 10),
			BackfillCron: getEnv("WORKER_BACKFILL_CRON", "0 3 * * *"),
		},
	}

	// Validate critical config
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks the config is usable
func (c *Config) Validate() error {
	if c.Storage.MaxUploadBytes <= 0 {
		return fmt.Errorf("UPLOAD_MAX_BYTES must be positive")
	}
	if !strings.HasPrefix(c.Storage.Local.PublicPath, "/") {
		return fmt.Errorf("STORAGE_LOCAL_PUBLIC_PATH must start with /")
	}

	// Production environment must have real secrets
	if c.App.Environment == "production" {
		if c.JWT.Secret == defaultJWTSecret {
			return fmt.Errorf("JWT_SECRET must be set in production")
		}
		if c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD must be set in production")
		}
		if !c.Storage.Primary.Configured() && !c.Storage.Secondary.Configured() {
			log.Warn().Msg("No object storage configured - uploads will be kept on local disk")
		}
	}

	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvInt64(key string, defaultValue int64) (int64, error) {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue, nil
	}
	value, err := strconv.ParseInt(valueStr, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return value, nil
}

func getEnvBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvList(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
