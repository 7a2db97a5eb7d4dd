package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr         string
	DBPath       string
	LogLevel     string
	GeminiAPIKey string
	GeminiModel  string
}

// Load reads configuration from a .env file (if present) and environment variables,
// applying sensible defaults when values are missing.
func Load() Config {
	// Ignore error so the app still starts when .env is absent in production.
	_ = godotenv.Load()

	return Config{
		Addr:         envOr("ADDR", ":8080"),
		DBPath:       envOr("DB_PATH", "file:mathbuddy.db"),
		LogLevel:     envOr("LOG_LEVEL", "INFO"),
		GeminiAPIKey: envOr("GOOGLE_API_KEY", os.Getenv("GEMINI_API_KEY")),
		GeminiModel:  envOr("GEMINI_MODEL", "gemini-flash-latest"),
	}
}

// Validate checks that the configuration is usable. A missing Gemini key is
// not fatal here: generation requests fail fast with a config error instead,
// so the rest of the app stays serviceable.
func (c Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("ADDR cannot be empty")
	}
	if c.DBPath == "" {
		return fmt.Errorf("DB_PATH cannot be empty")
	}
	if c.GeminiModel == "" {
		return fmt.Errorf("GEMINI_MODEL cannot be empty")
	}
	return nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
