package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultAPIBaseURL  = "http://localhost:8080"
	defaultWSBaseURL   = "ws://localhost:8080"
	defaultHTTPTimeout = 12 * time.Second
)

// Config holds the client-side settings. Values come from the environment,
// optionally seeded from a .env file in the working directory.
type Config struct {
	APIBaseURL  string
	WSBaseURL   string
	HTTPTimeout time.Duration
	LogFile     string
}

// Load reads configuration from .env (if present) and the environment.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		APIBaseURL:  strings.TrimRight(getEnv("CINEBOOK_API_URL", defaultAPIBaseURL), "/"),
		WSBaseURL:   strings.TrimRight(getEnv("CINEBOOK_WS_URL", defaultWSBaseURL), "/"),
		HTTPTimeout: getEnvDuration("CINEBOOK_HTTP_TIMEOUT", defaultHTTPTimeout),
		LogFile:     getEnv("CINEBOOK_LOG_FILE", ""),
	}
}

func getEnv(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}
