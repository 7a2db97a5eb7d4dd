package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"ADDR", "DB_PATH", "LOG_LEVEL", "GOOGLE_API_KEY", "GEMINI_API_KEY", "GEMINI_MODEL"} {
		t.Setenv(key, "")
	}

	cfg := Load()
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "file:mathbuddy.db", cfg.DBPath)
	assert.Equal(t, "INFO", cfg.LogLevel)
	assert.Empty(t, cfg.GeminiAPIKey)
	assert.Equal(t, "gemini-flash-latest", cfg.GeminiModel)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("ADDR", ":9090")
	t.Setenv("DB_PATH", "file:/tmp/test.db")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("GOOGLE_API_KEY", "key-from-google-var")
	t.Setenv("GEMINI_MODEL", "gemini-pro-latest")

	cfg := Load()
	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, "file:/tmp/test.db", cfg.DBPath)
	assert.Equal(t, "DEBUG", cfg.LogLevel)
	assert.Equal(t, "key-from-google-var", cfg.GeminiAPIKey)
	assert.Equal(t, "gemini-pro-latest", cfg.GeminiModel)
}

func TestLoad_GeminiKeyFallback(t *testing.T) {
	t.Setenv("GOOGLE_API_KEY", "")
	t.Setenv("GEMINI_API_KEY", "legacy-key")

	cfg := Load()
	assert.Equal(t, "legacy-key", cfg.GeminiAPIKey)
}

func TestValidate(t *testing.T) {
	valid := Config{
		Addr:        ":8080",
		DBPath:      "file:mathbuddy.db",
		GeminiModel: "gemini-flash-latest",
	}
	require.NoError(t, valid.Validate())

	// A missing API key is deliberately not a validation failure.
	assert.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty addr", func(c *Config) { c.Addr = "" }},
		{"empty db path", func(c *Config) { c.DBPath = "" }},
		{"empty model", func(c *Config) { c.GeminiModel = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
