// Package config loads application configuration from a YAML file, applying
// defaults for anything left unset.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the full application configuration
type Config struct {
	Log   Log   `yaml:"log"`
	WHOIS WHOIS `yaml:"whois"`
	DNS   DNS   `yaml:"dns"`
	Cache Cache `yaml:"cache"`
	Check Check `yaml:"check"`
	Batch Batch `yaml:"batch"`
}

// Log configures structured logging
type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// WHOIS configures the WHOIS client
type WHOIS struct {
	TimeoutSeconds  int  `yaml:"timeoutSeconds"`
	RateLimitMillis int  `yaml:"rateLimitMillis"`
	DisableRDAP     bool `yaml:"disableRDAP"`
}

// DNS configures the DNS checker
type DNS struct {
	Servers        []string `yaml:"servers"`
	TimeoutSeconds int      `yaml:"timeoutSeconds"`
	Retries        int      `yaml:"retries"`
}

// Cache selects and configures the cache backend. When more than one backend
// is configured, DynamoDB wins over Redis, and Redis over the file store.
type Cache struct {
	Disable        bool   `yaml:"disable"`
	File           string `yaml:"file"`
	RedisAddr      string `yaml:"redisAddr"`
	DynamoTable    string `yaml:"dynamoTable"`
	DynamoEndpoint string `yaml:"dynamoEndpoint"`
	TTLSeconds     int    `yaml:"ttlSeconds"`
}

// Check configures single-domain check behavior
type Check struct {
	ExpiryThresholdDays int  `yaml:"expiryThresholdDays"`
	DisableDNS          bool `yaml:"disableDNS"`
}

// Batch configures concurrent batch execution
type Batch struct {
	Workers          int `yaml:"workers"`
	ChunkDelayMillis int `yaml:"chunkDelayMillis"`
}

// Default returns the configuration used when no file is given
func Default() Config {
	return Config{
		Log:   Log{Level: "info", Format: "text"},
		WHOIS: WHOIS{TimeoutSeconds: 30, RateLimitMillis: 1000},
		DNS:   DNS{TimeoutSeconds: 10, Retries: 1},
		Cache: Cache{TTLSeconds: 3600},
		Check: Check{ExpiryThresholdDays: 30},
		Batch: Batch{Workers: 10},
	}
}

// Load reads and parses a YAML configuration file on top of the defaults
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config file: %w", err)
	}
	return cfg, nil
}

// LoadOrDefault loads a config file when path is non-empty, and otherwise
// returns the defaults
func LoadOrDefault(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	return Load(path)
}

// WHOISTimeout returns the WHOIS timeout as a duration
func (c Config) WHOISTimeout() time.Duration {
	return time.Duration(c.WHOIS.TimeoutSeconds) * time.Second
}

// WHOISRateLimit returns the delay between WHOIS queries as a duration
func (c Config) WHOISRateLimit() time.Duration {
	return time.Duration(c.WHOIS.RateLimitMillis) * time.Millisecond
}

// DNSTimeout returns the DNS exchange timeout as a duration
func (c Config) DNSTimeout() time.Duration {
	return time.Duration(c.DNS.TimeoutSeconds) * time.Second
}

// CacheTTL returns the cache entry TTL as a duration
func (c Config) CacheTTL() time.Duration {
	return time.Duration(c.Cache.TTLSeconds) * time.Second
}

// ChunkDelay returns the batch dispatch pause as a duration
func (c Config) ChunkDelay() time.Duration {
	return time.Duration(c.Batch.ChunkDelayMillis) * time.Millisecond
}
