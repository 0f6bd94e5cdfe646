package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultAddr          = ":8080"
	defaultJWTTTL        = "24h"
	defaultJWTSecret     = "change-me-jwt-secret"
	defaultCookieName    = "token"
	defaultUploadDir     = "./uploads"
	defaultStaticBase    = "/static/uploads"
	defaultMaxUploadSize = 5 * 1024 * 1024 // 5 MiB
	defaultAllowedTypes  = "image/jpeg,image/png,image/webp,application/pdf"
	defaultOSSTimeout    = "30s"
)

// Config is built once in main and injected into every component that
// needs it. Nothing reads the environment after startup.
type Config struct {
	AppEnv      string
	Addr        string
	DatabaseURL string

	JWTSecret    string
	JWTTTL       time.Duration
	CookieName   string
	CookieSecure bool

	// Extra CORS origins on top of the localhost defaults, comma separated.
	CORSOrigins string

	// Attachment ingestion.
	StorageDriver string // "local" or "oss"
	UploadDir     string
	StaticBase    string
	MaxUploadSize int64
	AllowedTypes  map[string]bool

	// Remote object storage (aliyun OSS), used when StorageDriver == "oss".
	OSSEndpoint   string
	OSSAccessKey  string
	OSSSecretKey  string
	OSSBucket     string
	OSSPrefix     string
	OSSPublicBase string
	OSSTimeout    time.Duration
}

func (c *Config) IsProd() bool { return c.AppEnv == "prod" || c.AppEnv == "production" }

func Load() (*Config, error) {
	cfg := &Config{
		AppEnv:        strings.ToLower(getEnv("APP_ENV", "dev")),
		Addr:          getEnv("ADDR", defaultAddr),
		DatabaseURL:   getEnv("DATABASE_URL", "school.db"),
		JWTSecret:     getEnv("JWT_SECRET", defaultJWTSecret),
		CookieName:    getEnv("AUTH_COOKIE_NAME", defaultCookieName),
		CookieSecure:  getEnvBool("AUTH_COOKIE_SECURE", false),
		CORSOrigins:   getEnv("CORS_ALLOWED_ORIGINS", ""),
		StorageDriver: strings.ToLower(getEnv("STORAGE_DRIVER", "local")),
		UploadDir:     getEnv("UPLOAD_DIR", defaultUploadDir),
		StaticBase:    getEnv("STATIC_BASE", defaultStaticBase),
		MaxUploadSize: getEnvInt64("MAX_UPLOAD_SIZE", defaultMaxUploadSize),
		OSSEndpoint:   getEnv("OSS_ENDPOINT", ""),
		OSSAccessKey:  getEnv("OSS_ACCESS_KEY", ""),
		OSSSecretKey:  getEnv("OSS_SECRET_KEY", ""),
		OSSBucket:     getEnv("OSS_BUCKET", ""),
		OSSPrefix:     strings.Trim(getEnv("OSS_PREFIX", "school"), "/"),
		OSSPublicBase: strings.TrimRight(getEnv("OSS_PUBLIC_BASE", ""), "/"),
	}

	var err error
	if cfg.JWTTTL, err = time.ParseDuration(getEnv("JWT_TTL", defaultJWTTTL)); err != nil {
		return nil, fmt.Errorf("invalid JWT_TTL: %w", err)
	}
	if cfg.OSSTimeout, err = time.ParseDuration(getEnv("OSS_TIMEOUT", defaultOSSTimeout)); err != nil {
		return nil, fmt.Errorf("invalid OSS_TIMEOUT: %w", err)
	}

	cfg.AllowedTypes = make(map[string]bool)
	for _, t := range strings.Split(getEnv("ALLOWED_FILE_TYPES", defaultAllowedTypes), ",") {
		if t = strings.TrimSpace(t); t != "" {
			cfg.AllowedTypes[strings.ToLower(t)] = true
		}
	}

	if cfg.IsProd() && cfg.JWTSecret == defaultJWTSecret {
		return nil, fmt.Errorf("JWT_SECRET must be set in production")
	}
	if cfg.StorageDriver != "local" && cfg.StorageDriver != "oss" {
		return nil, fmt.Errorf("unknown STORAGE_DRIVER %q (want local or oss)", cfg.StorageDriver)
	}
	if cfg.StorageDriver == "oss" {
		if cfg.OSSEndpoint == "" || cfg.OSSAccessKey == "" || cfg.OSSSecretKey == "" || cfg.OSSBucket == "" {
			return nil, fmt.Errorf("OSS_ENDPOINT/OSS_ACCESS_KEY/OSS_SECRET_KEY/OSS_BUCKET are required for the oss driver")
		}
	}

	return cfg, nil
}

func getEnv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func getEnvInt64(key string, def int64) int64 {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			return n
		}
	}
	return def
}
