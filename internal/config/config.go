// Package config loads runtime configuration from the environment, with
// an optional .env file for local development.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/valmeida/aetria/internal/persist"
	"github.com/valmeida/aetria/internal/services"
)

type Config struct {
	// GeminiAPIKey authenticates both the completion and the image
	// calls. Required.
	GeminiAPIKey string

	// GeminiModel is the completion model identifier.
	GeminiModel string

	// ImageModel is the scene-illustration model. Empty disables
	// illustration.
	ImageModel string

	// SavePath is the save-file location for the file store.
	SavePath string

	// RedisAddr, when set, selects the Redis store over the file store.
	RedisAddr string

	Environment string
	LogLevel    slog.Level
}

// Load reads configuration from the environment. A .env file in the
// working directory is applied first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),
		GeminiModel:  getEnv("GEMINI_MODEL", services.DefaultGeminiModel),
		ImageModel:   getEnv("IMAGE_MODEL", services.DefaultImageModel),
		SavePath:     getEnv("SAVE_PATH", persist.DefaultSavePath()),
		RedisAddr:    getEnv("REDIS_ADDR", ""),
		Environment:  getEnv("ENVIRONMENT", "development"),
		LogLevel:     parseLogLevel(getEnv("LOG_LEVEL", "info")),
	}

	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is required")
	}
	return cfg, nil
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
