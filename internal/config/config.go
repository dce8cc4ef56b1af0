package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Storage drivers.
const (
	StorageDisk = "disk"
	StorageS3   = "s3"
)

type Config struct {
	// Server
	Addr string

	// Database (driver switch: "sqlite" or "pgx")
	DBDriver     string
	DBConnection string

	// Security
	JWTSecret     string // Empty: use the secret persisted in the database
	TokenExpiry   time.Duration
	AuthRateLimit float64 // Requests per minute per client IP; 0 disables limiting
	AuthRateBurst int

	// Uploads
	StorageDriver string
	UploadRoot    string
	MaxUploadSize int64

	// Storage (S3-compatible: MinIO, AWS S3, Cloudflare R2, DigitalOcean Spaces, etc.)
	S3Region        string
	S3Bucket        string
	S3AccessKey     string
	S3SecretKey     string
	S3Endpoint      string // Optional: for non-AWS providers
	S3PresignExpiry time.Duration

	// Logging
	LogFormat string // "text" or "json"
	LogFile   string

	// Observability (optional)
	SentryDSN string
}

// Load reads configuration from the environment, after loading a .env file
// if one exists.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file found, using environment variables")
	}

	cfg := &Config{
		Addr: envString("ADDR", ":8080"),

		DBDriver:     envString("DB_DRIVER", "sqlite"),
		DBConnection: envString("DB_CONNECTION", "farmstead.sqlite3"),

		JWTSecret:     envString("JWT_SECRET", ""),
		TokenExpiry:   envDuration("TOKEN_EXPIRY", time.Hour),
		AuthRateLimit: envFloat("AUTH_RATE_LIMIT", 10),
		AuthRateBurst: envInt("AUTH_RATE_BURST", 5),

		StorageDriver: envString("STORAGE_DRIVER", StorageDisk),
		UploadRoot:    envString("UPLOAD_ROOT", "data"),
		MaxUploadSize: int64(envInt("MAX_UPLOAD_SIZE", 20<<20)), // 20 MB

		S3Region:        envString("S3_REGION", "us-east-1"),
		S3Bucket:        envString("S3_BUCKET", ""),
		S3AccessKey:     envString("S3_ACCESS_KEY", ""),
		S3SecretKey:     envString("S3_SECRET_KEY", ""),
		S3Endpoint:      envString("S3_ENDPOINT", ""),
		S3PresignExpiry: envDuration("S3_PRESIGN_EXPIRY", 15*time.Minute),

		LogFormat: envString("LOG_FORMAT", "text"),
		LogFile:   envString("LOG_FILE", ""),

		SentryDSN: envString("SENTRY_DSN", ""),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.StorageDriver {
	case StorageDisk:
	case StorageS3:
		if c.S3Bucket == "" {
			return fmt.Errorf("config: S3_BUCKET is required when STORAGE_DRIVER=%s", StorageS3)
		}
	default:
		return fmt.Errorf("config: unknown STORAGE_DRIVER %q", c.StorageDriver)
	}

	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("config: unknown LOG_FORMAT %q", c.LogFormat)
	}

	if c.TokenExpiry <= 0 {
		return fmt.Errorf("config: TOKEN_EXPIRY must be positive")
	}
	if c.MaxUploadSize <= 0 {
		return fmt.Errorf("config: MAX_UPLOAD_SIZE must be positive")
	}
	return nil
}

func envString(key, def string) string {
	value := os.Getenv(key)
	if value == "" {
		value = def
	}
	return value
}

func envInt(key string, def int) int {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		slog.Warn("config invalid int, using default", "key", key, "value", v, "default", def)
		return def
	}
	return n
}

func envFloat(key string, def float64) float64 {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		slog.Warn("config invalid float, using default", "key", key, "value", v, "default", def)
		return def
	}
	return f
}

func envDuration(key string, def time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		slog.Warn("config invalid duration, using default", "key", key, "value", v, "default", def)
		return def
	}
	return d
}
