package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Application
	AppName   string
	AppEnv    string
	Port      string
	StaticDir string

	// CORSOrigin is sent as Access-Control-Allow-Origin on API responses
	CORSOrigin string

	// Database (optional driver switch via ENV, default: sqlite)
	DBDriver     string
	DBConnection string

	// Security
	JWTSecret string
	JWTExpiry time.Duration

	// Media search (Pixabay)
	PixabayAPIKey  string
	PixabayBaseURL string
	SearchTimeout  time.Duration
	SearchMaxTries int

	// Observability (optional)
	SentryDSN string
}

func Load() *Config {
	// Load .env file if it exists
	err := godotenv.Load()
	if err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	cfg := &Config{
		// Application
		AppName:    envString("APP_NAME", "mediafaves"),
		AppEnv:     envString("APP_ENV", "development"),
		Port:       envString("PORT", "5000"),
		StaticDir:  envString("STATIC_DIR", "frontend"),
		CORSOrigin: envString("CORS_ORIGIN", "*"),

		// Database
		DBDriver:     envString("DB_DRIVER", "sqlite"),
		DBConnection: envString("DB_CONNECTION", "./data/mediafaves.db?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"),

		// Security
		JWTSecret: envRequired("JWT_SECRET"),
		JWTExpiry: envDuration("JWT_EXPIRY", 24*time.Hour), // 1 day

		// Media search
		PixabayAPIKey:  envRequired("PIXABAY_API_KEY"),
		PixabayBaseURL: envString("PIXABAY_BASE_URL", "https://pixabay.com/api/"),
		SearchTimeout:  envDuration("SEARCH_TIMEOUT", 10*time.Second),
		SearchMaxTries: envInt("SEARCH_MAX_TRIES", 3),

		// Observability
		SentryDSN: envString("SENTRY_DSN", ""),
	}

	if cfg.IsProduction() {
		validateProduction(cfg)
	}

	return cfg
}

// validateProduction rejects settings that are tolerable locally but unsafe when deployed.
func validateProduction(cfg *Config) {
	if len(cfg.JWTSecret) < 32 {
		slog.Error("production deployment requires JWT_SECRET of at least 32 bytes")
		os.Exit(1)
	}
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
	if err != nil || n < 1 {
		slog.Warn("config invalid int, using default", "key", key, "value", v, "default", def)
		return def
	}
	return n
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

func envRequired(key string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	slog.Error("config required env var missing", "key", key)
	os.Exit(1)
	return ""
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// PixabayVideoURL is the video search endpoint, which lives under the photo endpoint.
func (c *Config) PixabayVideoURL() string {
	base := c.PixabayBaseURL
	if base != "" && base[len(base)-1] != '/' {
		base += "/"
	}
	return base + "videos/"
}
