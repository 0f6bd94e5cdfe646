package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, 24*time.Hour, cfg.JWTTTL)
	assert.Equal(t, "local", cfg.StorageDriver)
	assert.Empty(t, cfg.CORSOrigins)
	assert.True(t, cfg.AllowedTypes["image/png"])
	assert.True(t, cfg.AllowedTypes["application/pdf"])
}

func TestLoadCORSOriginsFromEnv(t *testing.T) {
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://school.example,https://admin.school.example")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "https://school.example,https://admin.school.example", cfg.CORSOrigins)
}

func TestLoadRejectsDefaultSecretInProd(t *testing.T) {
	t.Setenv("APP_ENV", "prod")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRejectsUnknownStorageDriver(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "s3")

	_, err := Load()
	assert.Error(t, err)
}
