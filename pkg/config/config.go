package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/searchcache-ai/searchcache/pkg/models"
)

// Config holds all searchcache configuration.
type Config struct {
	DBPath  string        `yaml:"db_path"`
	Backend BackendConfig `yaml:"backend"`
	Cache   CacheConfig   `yaml:"cache"`
	TTL     TTLConfig     `yaml:"ttl"`
	Search  SearchConfig  `yaml:"search"`
}

// BackendConfig defines the remote search backend.
type BackendConfig struct {
	URL        string        `yaml:"url"`
	APIKey     string        `yaml:"api_key"`
	Timeout    time.Duration `yaml:"timeout"`
	MaxRetries int           `yaml:"max_retries"`
}

// CacheConfig controls the two-tier result cache.
type CacheConfig struct {
	Durable      bool `yaml:"durable"`
	FastCapacity int  `yaml:"fast_capacity"`
}

// TTLConfig overrides the cache lifetime buckets.
type TTLConfig struct {
	Short     time.Duration `yaml:"short"`
	Medium    time.Duration `yaml:"medium"`
	Long      time.Duration `yaml:"long"`
	Permanent time.Duration `yaml:"permanent"`
}

// SearchConfig holds default search options and orchestration switches.
type SearchConfig struct {
	Defaults models.SearchOptions `yaml:"defaults"`
	Coalesce bool                 `yaml:"coalesce"`
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		DBPath: "searchcache.db",
		Backend: BackendConfig{
			Timeout:    30 * time.Second,
			MaxRetries: 2,
		},
		Cache: CacheConfig{
			Durable:      true,
			FastCapacity: 1024,
		},
		TTL: TTLConfig{
			Short:     60 * time.Second,
			Medium:    300 * time.Second,
			Long:      3600 * time.Second,
			Permanent: 86400 * time.Second,
		},
		Search: SearchConfig{
			Defaults: models.SearchOptions{
				Limit:         10,
				IncludeAnswer: true,
			},
		},
	}
}

// Load reads a YAML config file and expands environment variables.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	cfg := Default()
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return cfg, nil
}
