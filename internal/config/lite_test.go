package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaultLiteConfig(t *testing.T) {
	cfg := DefaultLiteConfig()

	assert.Equal(t, "GRCh38", cfg.DefaultAssembly)
	assert.Equal(t, 1000, cfg.CacheMaxItems)
	assert.Equal(t, 24*time.Hour, cfg.CacheTTL)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
}

func TestLoadLiteConfig_Defaults(t *testing.T) {
	clearEnvVars(t)

	cfg := LoadLiteConfig()

	assert.Equal(t, "GRCh38", cfg.DefaultAssembly)
	assert.Equal(t, 1000, cfg.CacheMaxItems)
}

func TestLoadLiteConfig_EnvironmentOverrides(t *testing.T) {
	clearEnvVars(t)

	os.Setenv("PVS1_DEFAULT_ASSEMBLY", "GRCh37")
	os.Setenv("PVS1_CACHE_MAX_ITEMS", "500")
	os.Setenv("PVS1_CACHE_TTL", "12h")
	os.Setenv("PVS1_LOG_LEVEL", "debug")
	os.Setenv("CLINVAR_API_KEY", "test-key")

	defer clearEnvVars(t)

	cfg := LoadLiteConfig()

	assert.Equal(t, "GRCh37", cfg.DefaultAssembly)
	assert.Equal(t, 500, cfg.CacheMaxItems)
	assert.Equal(t, 12*time.Hour, cfg.CacheTTL)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "test-key", cfg.ClinVarAPIKey)
}

func clearEnvVars(t *testing.T) {
	t.Helper()
	vars := []string{
		"PVS1_DEFAULT_ASSEMBLY",
		"PVS1_CACHE_MAX_ITEMS",
		"PVS1_CACHE_TTL",
		"PVS1_LOG_LEVEL",
		"PVS1_LOG_FORMAT",
		"CLINVAR_API_KEY",
	}
	for _, v := range vars {
		os.Unsetenv(v)
	}
}
