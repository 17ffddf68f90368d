package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("LYNCHLENS_DATA_DIR", t.TempDir())
	t.Setenv("PORT", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("DEV_MODE", "")
	t.Setenv("GROQ_API_KEY", "")
	t.Setenv("GROQ_MODEL", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.DevMode)
	assert.Equal(t, "llama-3.3-70b-versatile", cfg.GroqModel)
	assert.True(t, filepath.IsAbs(cfg.DataDir))
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("LYNCHLENS_DATA_DIR", t.TempDir())
	t.Setenv("PORT", "9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("DEV_MODE", "true")
	t.Setenv("GROQ_API_KEY", "test-key")
	t.Setenv("GROQ_MODEL", "other-model")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.True(t, cfg.DevMode)
	assert.Equal(t, "test-key", cfg.GroqAPIKey)
	assert.Equal(t, "other-model", cfg.GroqModel)
}

func TestLoadInvalidPort(t *testing.T) {
	t.Setenv("LYNCHLENS_DATA_DIR", t.TempDir())
	t.Setenv("PORT", "70000")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid port")
}

func TestGetEnvAsIntMalformed(t *testing.T) {
	t.Setenv("SOME_INT", "not-a-number")
	assert.Equal(t, 42, getEnvAsInt("SOME_INT", 42))
}

func TestGetEnvAsBoolMalformed(t *testing.T) {
	t.Setenv("SOME_BOOL", "maybe")
	assert.True(t, getEnvAsBool("SOME_BOOL", true))
}
