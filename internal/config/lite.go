// Package config provides configuration management for the PVS1 classifier.
// This file contains the lightweight configuration for standalone CLI/MCP
// operation, needing no config file — only PVS1_-prefixed (and one
// unprefixed CLINVAR_API_KEY) environment variables over defaults set in
// code, read through viper.
package config

import (
	"time"

	"github.com/spf13/viper"
)

// LiteConfig is a simplified configuration for standalone operation. It
// requires no external config file and uses sensible defaults.
type LiteConfig struct {
	// Default genome release used when a variant string carries none.
	DefaultAssembly string

	// Cache settings
	RedisURL      string
	CacheMaxItems int
	CacheTTL      time.Duration

	// Optional API keys for higher upstream rate limits
	ClinVarAPIKey string

	// Logging
	LogLevel  string
	LogFormat string
}

// DefaultLiteConfig returns a configuration with sensible defaults.
func DefaultLiteConfig() *LiteConfig {
	return &LiteConfig{
		DefaultAssembly: "GRCh38",
		RedisURL:        "redis://localhost:6379",
		CacheMaxItems:   1000,
		CacheTTL:        24 * time.Hour,
		LogLevel:        "info",
		LogFormat:       "json",
	}
}

// LoadLiteConfig loads configuration from PVS1_-prefixed environment
// variables (plus the unprefixed CLINVAR_API_KEY, matching the teacher's own
// bare API-key env convention), falling back to defaults if unset. A
// private viper instance is used rather than the package-global one so
// repeated calls (e.g. across tests) never see a prior call's bindings.
func LoadLiteConfig() *LiteConfig {
	v := viper.New()
	v.SetEnvPrefix("PVS1")
	v.AutomaticEnv()
	_ = v.BindEnv("clinvar_api_key", "CLINVAR_API_KEY")

	defaults := DefaultLiteConfig()
	v.SetDefault("default_assembly", defaults.DefaultAssembly)
	v.SetDefault("redis_url", defaults.RedisURL)
	v.SetDefault("cache_max_items", defaults.CacheMaxItems)
	v.SetDefault("cache_ttl", defaults.CacheTTL)
	v.SetDefault("log_level", defaults.LogLevel)
	v.SetDefault("log_format", defaults.LogFormat)

	return &LiteConfig{
		DefaultAssembly: v.GetString("default_assembly"),
		RedisURL:        v.GetString("redis_url"),
		CacheMaxItems:   v.GetInt("cache_max_items"),
		CacheTTL:        v.GetDuration("cache_ttl"),
		ClinVarAPIKey:   v.GetString("clinvar_api_key"),
		LogLevel:        v.GetString("log_level"),
		LogFormat:       v.GetString("log_format"),
	}
}
