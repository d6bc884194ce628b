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

	assert.Equal(t, "/api", cfg.Server.BasePath)
	assert.Equal(t, []string{"*"}, cfg.Server.CORSOrigins)
	assert.Equal(t, time.Hour, cfg.S3.SignedURLTTL)
	assert.Equal(t, "s3", cfg.S3.Driver)
	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, int64(10*1024*1024), cfg.App.MaxUploadSize)
	assert.True(t, cfg.App.SerializeWrites)
	assert.Equal(t, "localhost:8080", cfg.Addr())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("SERVER_BASE_PATH", "make-server/")
	t.Setenv("SERVER_CORS_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("STORAGE_DRIVER", "MEMORY")
	t.Setenv("STORE_DRIVER", "redis")
	t.Setenv("S3_SIGNED_URL_TTL", "15m")
	t.Setenv("APP_SERIALIZE_WRITES", "false")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "/make-server", cfg.Server.BasePath)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.CORSOrigins)
	assert.Equal(t, "memory", cfg.S3.Driver)
	assert.Equal(t, "redis", cfg.Store.Driver)
	assert.Equal(t, 15*time.Minute, cfg.S3.SignedURLTTL)
	assert.False(t, cfg.App.SerializeWrites)
}

func TestLoadRejectsUnknownDrivers(t *testing.T) {
	t.Setenv("STORE_DRIVER", "cassandra")
	_, err := Load()
	assert.Error(t, err)
}
