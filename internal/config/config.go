// Package config reads server settings from the environment (optionally
// seeded from a .env file).
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

// Config is the full server configuration.
type Config struct {
	Port           string
	LogLevel       zerolog.Level
	DatasetFile    string
	DatasetURL     string
	DatasetTimeout time.Duration
	DBPath         string // empty disables persisted preferences
	ClientOrigin   string
	TokenSecret    string
	SessionTTL     time.Duration
	DailySalt      string
	Production     bool
}

// Load reads .env (if present) and the process environment.
func Load() Config {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv builds a Config from the current environment only.
func FromEnv() Config {
	lvl, err := zerolog.ParseLevel(getEnv("LOG_LEVEL", "info"))
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	dbPath, ok := os.LookupEnv("DB_PATH")
	if !ok {
		dbPath = "./data/prefs.db"
	}
	return Config{
		Port:           getEnv("PORT", "5175"),
		LogLevel:       lvl,
		DatasetFile:    os.Getenv("DATASET_FILE"),
		DatasetURL:     os.Getenv("DATASET_URL"),
		DatasetTimeout: getDuration("DATASET_TIMEOUT", 10*time.Second),
		DBPath:         dbPath,
		ClientOrigin:   getEnv("CLIENT_ORIGIN", "http://localhost:5173"),
		TokenSecret:    getEnv("TOKEN_SECRET", "dev_secret_change_me"),
		SessionTTL:     getDuration("SESSION_TTL", 24*time.Hour),
		DailySalt:      getEnv("DAILY_SALT", "local_dev_salt"),
		Production:     os.Getenv("NODE_ENV") == "production",
	}
}

// getEnv returns the value of k or def if unset/empty.
func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

// getDuration parses k as a time.Duration ("90s", "24h") or plain seconds.
func getDuration(k string, def time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil {
		return time.Duration(n) * time.Second
	}
	return def
}
