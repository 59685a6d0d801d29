package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, key := range []string{
		"DOCLINK_ADDR", "DOCLINK_PUBLIC_BASE_URL", "DOCLINK_UPLOAD_DIR",
		"DOCLINK_STORE", "DOCLINK_REDIS_ADDR", "JWT_SIGNING_KEY",
		"DOCLINK_ADMIN_AUTH_DISABLED",
	} {
		t.Setenv(key, "")
	}

	cfg := FromEnv()
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "http://localhost:8080", cfg.PublicBaseURL)
	assert.Equal(t, "uploads", cfg.UploadDir)
	assert.Equal(t, StoreMemory, cfg.Store)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.False(t, cfg.AdminAuthDisabled)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("DOCLINK_ADDR", ":9000")
	t.Setenv("DOCLINK_PUBLIC_BASE_URL", "https://docs.example.com")
	t.Setenv("DOCLINK_UPLOAD_DIR", "/var/lib/doclink/uploads")
	t.Setenv("DOCLINK_STORE", "redis")
	t.Setenv("DOCLINK_REDIS_ADDR", "redis:6379")
	t.Setenv("DOCLINK_ADMIN_AUTH_DISABLED", "true")

	cfg := FromEnv()
	assert.Equal(t, ":9000", cfg.Addr)
	assert.Equal(t, "https://docs.example.com", cfg.PublicBaseURL)
	assert.Equal(t, "/var/lib/doclink/uploads", cfg.UploadDir)
	assert.Equal(t, StoreRedis, cfg.Store)
	assert.Equal(t, "redis:6379", cfg.RedisAddr)
	assert.True(t, cfg.AdminAuthDisabled)
}

func TestFromEnvUnknownStoreFallsBack(t *testing.T) {
	t.Setenv("DOCLINK_STORE", "postgres")
	assert.Equal(t, StoreMemory, FromEnv().Store)
}
