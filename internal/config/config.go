package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DBPath        string
	AdminPassword string
	SessionSecret string
	SessionTTL    time.Duration
}

func Load() Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("failed to load .env file", "error", err)
	}
	return Config{
		DBPath:        getEnv("LEDGER_DB_PATH", "bankdb.db"),
		AdminPassword: getEnv("LEDGER_ADMIN_PASSWORD", "admin"),
		SessionSecret: getEnv("LEDGER_SESSION_SECRET", "dev-secret-change-me"),
		SessionTTL:    getDuration("SESSION_TTL_MINUTES", 60),
	}
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getDuration(key string, fallbackMinutes int) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return time.Duration(fallbackMinutes) * time.Minute
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		return time.Duration(fallbackMinutes) * time.Minute
	}
	return time.Duration(parsed) * time.Minute
}
