package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv         string
	Port           string
	AllowedOrigins string

	RedisURL string

	JWTSecret      string
	JWTTokenTTL    time.Duration
	DefaultRole    string
	ActionGuardTTL time.Duration
}

func Load() (*Config, error) {
	// Don't fail if .env doesn't exist (might be prod env vars)
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:         getEnv("APP_ENV", "development"),
		Port:           getEnv("PORT", "8080"),
		AllowedOrigins: getEnv("ALLOWED_ORIGINS", "http://localhost:3000"),

		RedisURL: os.Getenv("REDIS_URL"),

		JWTSecret:   getEnv("JWT_SECRET", "change-me"),
		DefaultRole: getEnv("DEFAULT_ROLE", "member"),
	}

	// Parsing durations
	var err error
	cfg.JWTTokenTTL, err = parseDuration(getEnv("JWT_TOKEN_TTL", "1h"))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_TOKEN_TTL: %w", err)
	}
	cfg.ActionGuardTTL, err = parseDuration(getEnv("ACTION_GUARD_TTL", "5s"))
	if err != nil {
		return nil, fmt.Errorf("invalid ACTION_GUARD_TTL: %w", err)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func parseDuration(s string) (time.Duration, error) {
	return time.ParseDuration(s)
}
