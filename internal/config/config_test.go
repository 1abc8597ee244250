package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("APP_ENV", "development")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, int64(50*1024*1024), cfg.Storage.MaxUploadBytes)
	assert.Equal(t, "uploads", cfg.Storage.Local.Dir)
	assert.Equal(t, "/uploads", cfg.Storage.Local.PublicPath)
	assert.False(t, cfg.Storage.Primary.Configured())
	assert.False(t, cfg.Storage.Secondary.Configured())
}

func TestLoadStorageBackends(t *testing.T) {
	t.Setenv("STORAGE_PRIMARY_ENDPOINT", "minio:9000")
	t.Setenv("STORAGE_PRIMARY_ACCESS_KEY", "key")
	t.Setenv("STORAGE_PRIMARY_SECRET_KEY", "secret")
	t.Setenv("STORAGE_SECONDARY_REGION", "eu-west-1")
	t.Setenv("STORAGE_SECONDARY_BUCKET", "inkdrop-backup")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://inkdrop.app, https://admin.inkdrop.app")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.Storage.Primary.Configured())
	assert.True(t, cfg.Storage.Secondary.Configured())
	assert.Equal(t, []string{"https://inkdrop.app", "https://admin.inkdrop.app"}, cfg.App.AllowedOrigins)
}

func TestLoadRejectsBadUploadLimit(t *testing.T) {
	t.Setenv("UPLOAD_MAX_BYTES", "lots")

	_, err := Load()
	assert.Error(t, err)
}

func TestValidateProductionSecrets(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("DB_PASSWORD", "pw")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")

	t.Setenv("JWT_SECRET", "real-secret")
	_, err = Load()
	assert.NoError(t, err)
}

func TestDatabaseDSN(t *testing.T) {
	d := DatabaseConfig{Host: "db", Port: 5432, User: "u", Password: "p", Database: "inkdrop", SSLMode: "disable"}
	assert.Equal(t, "postgresql://u:p@db:5432/inkdrop?sslmode=disable", d.DSN())
}
