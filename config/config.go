package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	// Upstream API
	APIKey     string
	APIBaseURL string

	// Database
	DatabaseURL string

	// Server
	Port       string
	CORSOrigin string

	// Optional AMQP fan-out
	AMQPURL string

	// Background sync interval in seconds (0 disables the ticker)
	SyncInterval int

	Environment string
}

func Load() *Config {
	// Best effort; a missing .env file is fine in production.
	godotenv.Load()

	return &Config{
		APIKey:     getEnv("SPORTS_API_KEY", ""),
		APIBaseURL: getEnv("SPORTS_API_BASE_URL", "https://v3.football.api-sports.io"),

		DatabaseURL: getEnv("DATABASE_URL", "postgres://localhost:5432/livescore?sslmode=disable"),

		Port:       getEnv("PORT", "5000"),
		CORSOrigin: getEnv("CORS_ORIGIN", "http://localhost:3000"),

		AMQPURL: getEnv("AMQP_URL", ""),

		SyncInterval: getEnvInt("SYNC_INTERVAL", 60),

		Environment: getEnv("ENVIRONMENT", "development"),
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	result, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return result
}
