package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Addr          string
	JWTSecret     string
	SessionTTL    time.Duration
	CORSOrigin    string
	PublicBaseURL string
	LogLevel      string
	SeedFile      string
	AdminPassword string
	// MonthlyRate is the per-municipality fee used for revenue projections.
	MonthlyRate int
	// Gemini
	GeminiAPIKey    string
	GeminiModel     string
	ClassifyTimeout time.Duration
	// Meilisearch - search falls back to memory when unset
	MeiliURL       string
	MeiliMasterKey string
	// Redis - sessions stay in memory when unset
	RedisURL string
	// MinIO - photos stay inline as data URLs when unset
	MinIOEndpoint  string
	MinIOAccessKey string
	MinIOSecretKey string
	MinIOBucket    string
	MinIOUseSSL    bool
	MinIOPublicURL string
}

func Load() Config {
	return Config{
		Addr:            getenv("API_ADDR", ":8787"),
		JWTSecret:       getenv("ZELAPB_JWT_SECRET", "zelapb-dev-secret"),
		SessionTTL:      time.Duration(getenvInt("ZELAPB_SESSION_TTL_SECONDS", 43200)) * time.Second,
		CORSOrigin:      getenv("ZELAPB_CORS_ORIGIN", "*"),
		PublicBaseURL:   getenv("ZELAPB_PUBLIC_URL", "http://localhost:5173"),
		LogLevel:        getenv("LOG_LEVEL", "info"),
		SeedFile:        getenv("SEED_FILE", ""),
		AdminPassword:   getenv("ZELAPB_ADMIN_PASSWORD", "admin123"),
		MonthlyRate:     getenvInt("ZELAPB_MONTHLY_RATE", 5000),
		GeminiAPIKey:    getenv("GEMINI_API_KEY", getenv("API_KEY", "")),
		GeminiModel:     getenv("GEMINI_MODEL", "gemini-2.5-flash"),
		ClassifyTimeout: getenvDuration("CLASSIFY_TIMEOUT", 15*time.Second),
		MeiliURL:        getenv("MEILI_URL", ""),
		MeiliMasterKey:  getenv("MEILI_MASTER_KEY", ""),
		RedisURL:        getenv("REDIS_URL", ""),
		MinIOEndpoint:   getenv("MINIO_ENDPOINT", ""),
		MinIOAccessKey:  getenv("MINIO_ACCESS_KEY", ""),
		MinIOSecretKey:  getenv("MINIO_SECRET_KEY", ""),
		MinIOBucket:     getenv("MINIO_BUCKET", "zelapb-photos"),
		MinIOUseSSL:     getenvBool("MINIO_USE_SSL", false),
		MinIOPublicURL:  getenv("MINIO_PUBLIC_URL", ""),
	}
}

func getenv(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getenvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getenvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}
