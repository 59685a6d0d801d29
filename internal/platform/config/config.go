package config

import (
	"os"
	"time"
)

// StoreKind selects the request store backend.
type StoreKind string

const (
	StoreMemory StoreKind = "memory"
	StoreRedis  StoreKind = "redis"
)

// LinkTTL is the fixed lifetime of an upload link. Expiry is evaluated lazily
// at access time; the policy is not configurable per request.
var LinkTTL = 48 * time.Hour

// Server captures process-level configuration.
type Server struct {
	Addr              string
	PublicBaseURL     string
	UploadDir         string
	Store             StoreKind
	RedisAddr         string
	JWTSigningKey     string
	AdminAuthDisabled bool
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	addr := os.Getenv("DOCLINK_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	baseURL := os.Getenv("DOCLINK_PUBLIC_BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	uploadDir := os.Getenv("DOCLINK_UPLOAD_DIR")
	if uploadDir == "" {
		uploadDir = "uploads"
	}

	store := StoreMemory
	if os.Getenv("DOCLINK_STORE") == string(StoreRedis) {
		store = StoreRedis
	}

	redisAddr := os.Getenv("DOCLINK_REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}

	jwtSigningKey := os.Getenv("JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		// Use a default for development - should be overridden in production
		jwtSigningKey = "dev-secret-key-change-in-production"
	}

	return Server{
		Addr:              addr,
		PublicBaseURL:     baseURL,
		UploadDir:         uploadDir,
		Store:             store,
		RedisAddr:         redisAddr,
		JWTSigningKey:     jwtSigningKey,
		AdminAuthDisabled: os.Getenv("DOCLINK_ADMIN_AUTH_DISABLED") == "true",
	}
}
