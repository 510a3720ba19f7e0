package domain

import (
	"time"
)

// NormalizerConfig configures the remote variant-normalization service (the
// C2 fallback collaborator, spec §4.1) used for dbSNP rs#, HGVS c./p., and
// ClinVar VCV/RCV inputs that the resolver's structured grammars don't
// match.
type NormalizerConfig struct {
	BaseURL    string        `mapstructure:"base_url"`
	Timeout    time.Duration `mapstructure:"timeout"`
	RateLimit  int           `mapstructure:"rate_limit"`
	RetryCount int           `mapstructure:"retry_count"`
}

// ClinVarConfig configures the ClinVar upstream used by variant_info and
// variants_in_range.
type ClinVarConfig struct {
	BaseURL    string        `mapstructure:"base_url"`
	APIKey     string        `mapstructure:"api_key"`
	Timeout    time.Duration `mapstructure:"timeout"`
	RateLimit  int           `mapstructure:"rate_limit"`
	RetryCount int           `mapstructure:"retry_count"`
}

// GnomADConfig configures the gnomAD upstream used for allele counts and
// VEP consequences.
type GnomADConfig struct {
	BaseURL    string        `mapstructure:"base_url"`
	APIKey     string        `mapstructure:"api_key"`
	Timeout    time.Duration `mapstructure:"timeout"`
	RateLimit  int           `mapstructure:"rate_limit"`
	RetryCount int           `mapstructure:"retry_count"`
}

// EnsemblConfig configures the Ensembl upstream used for transcript
// geometry (transcripts_for_variant) and reference sequence fetches (C6).
type EnsemblConfig struct {
	BaseURL    string        `mapstructure:"base_url"`
	Timeout    time.Duration `mapstructure:"timeout"`
	RateLimit  int           `mapstructure:"rate_limit"`
	RetryCount int           `mapstructure:"retry_count"`
}

// CacheConfig configures the Redis-backed annotation cache and its
// in-process LRU front.
type CacheConfig struct {
	RedisURL    string        `mapstructure:"redis_url"`
	DefaultTTL  time.Duration `mapstructure:"default_ttl"`
	MaxRetries  int           `mapstructure:"max_retries"`
	PoolSize    int           `mapstructure:"pool_size"`
	PoolTimeout time.Duration `mapstructure:"pool_timeout"`
	LocalSize   int           `mapstructure:"local_size"`
}
