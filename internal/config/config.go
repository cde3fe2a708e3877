package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port        string
	DatabaseURL string
	LogLevel    string
	CORSOrigins []string

	DB     DBConfig
	Tokens TokenConfig
	Media  MediaConfig
}

type DBConfig struct {
	MaxOpen     int
	MaxIdle     int
	MaxLifetime time.Duration
}

type TokenConfig struct {
	AccessSecret  string
	AccessTTL     time.Duration
	RefreshSecret string
	RefreshTTL    time.Duration
}

// MediaConfig selects where post images go. An empty Backend disables uploads.
type MediaConfig struct {
	Backend       string
	MaxImageBytes int64

	S3Bucket    string
	S3Region    string
	S3AccessKey string
	S3SecretKey string

	CloudinaryCloud  string
	CloudinaryKey    string
	CloudinarySecret string
}

// helper to read env with default
func getenv(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func getint(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	return n, nil
}

// Load reads the process environment. Call godotenv.Load first to pick up .env.
func Load() (*Config, error) {
	cfg := &Config{
		Port:        getenv("PORT", "4000"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		LogLevel:    getenv("LOG_LEVEL", "info"),
		CORSOrigins: splitList(getenv("CORS_ORIGINS", "*")),
	}

	if cfg.DatabaseURL == "" {
		return nil, errors.New("config: DATABASE_URL is required")
	}

	var err error
	if cfg.DB.MaxOpen, err = getint("DB_MAX_OPEN", 25); err != nil {
		return nil, err
	}
	if cfg.DB.MaxIdle, err = getint("DB_MAX_IDLE", 25); err != nil {
		return nil, err
	}
	lifetime, err := getint("DB_MAX_LIFETIME", 300) // seconds
	if err != nil {
		return nil, err
	}
	cfg.DB.MaxLifetime = time.Duration(lifetime) * time.Second

	cfg.Tokens.AccessSecret = os.Getenv("ACCESS_SECRET")
	cfg.Tokens.RefreshSecret = os.Getenv("REFRESH_SECRET")
	if cfg.Tokens.AccessSecret == "" || cfg.Tokens.RefreshSecret == "" {
		return nil, errors.New("config: ACCESS_SECRET and REFRESH_SECRET are required")
	}
	if cfg.Tokens.AccessTTL, err = ParseTTL(getenv("ACCESS_TTL", "15m")); err != nil {
		return nil, fmt.Errorf("config: ACCESS_TTL: %w", err)
	}
	if cfg.Tokens.RefreshTTL, err = ParseTTL(getenv("REFRESH_TTL", "168h")); err != nil {
		return nil, fmt.Errorf("config: REFRESH_TTL: %w", err)
	}

	maxImage, err := getint("MAX_IMAGE_BYTES", 10<<20)
	if err != nil {
		return nil, err
	}
	cfg.Media = MediaConfig{
		Backend:          strings.ToLower(os.Getenv("MEDIA_BACKEND")),
		MaxImageBytes:    int64(maxImage),
		S3Bucket:         os.Getenv("AWS_BUCKET_NAME"),
		S3Region:         os.Getenv("AWS_REGION"),
		S3AccessKey:      os.Getenv("AWS_ACCESS_KEY_ID"),
		S3SecretKey:      os.Getenv("AWS_SECRET_ACCESS_KEY"),
		CloudinaryCloud:  os.Getenv("CLOUDINARY_CLOUD_NAME"),
		CloudinaryKey:    os.Getenv("CLOUDINARY_API_KEY"),
		CloudinarySecret: os.Getenv("CLOUDINARY_API_SECRET"),
	}

	switch cfg.Media.Backend {
	case "", "s3", "cloudinary":
	default:
		return nil, fmt.Errorf("config: unknown MEDIA_BACKEND %q", cfg.Media.Backend)
	}

	return cfg, nil
}

// ParseTTL parses TTLs such as "15m", "1h", "20s", or "30" (minutes).
func ParseTTL(ttlStr string) (time.Duration, error) {
	if ttlStr == "" {
		return 15 * time.Minute, nil
	}

	if strings.HasSuffix(ttlStr, "m") ||
		strings.HasSuffix(ttlStr, "h") ||
		strings.HasSuffix(ttlStr, "s") {
		return time.ParseDuration(ttlStr)
	}

	// fallback: minutes
	min, err := strconv.Atoi(ttlStr)
	if err != nil {
		return 0, err
	}
	return time.Duration(min) * time.Minute, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
