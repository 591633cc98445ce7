package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
log:
  level: debug
whois:
  timeoutSeconds: 15
  disableRDAP: true
cache:
  redisAddr: localhost:6379
  ttlSeconds: 600
check:
  expiryThresholdDays: 14
batch:
  workers: 4
  chunkDelayMillis: 250
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Log.Level != "debug" {
		t.Errorf("unexpected log level: %s", cfg.Log.Level)
	}
	if cfg.WHOISTimeout() != 15*time.Second || !cfg.WHOIS.DisableRDAP {
		t.Errorf("unexpected whois config: %+v", cfg.WHOIS)
	}
	if cfg.Cache.RedisAddr != "localhost:6379" || cfg.CacheTTL() != 10*time.Minute {
		t.Errorf("unexpected cache config: %+v", cfg.Cache)
	}
	if cfg.Check.ExpiryThresholdDays != 14 {
		t.Errorf("unexpected threshold: %d", cfg.Check.ExpiryThresholdDays)
	}
	if cfg.Batch.Workers != 4 || cfg.ChunkDelay() != 250*time.Millisecond {
		t.Errorf("unexpected batch config: %+v", cfg.Batch)
	}

	// Fields not set in the file keep their defaults
	if cfg.Log.Format != "text" {
		t.Errorf("expected default log format, got %s", cfg.Log.Format)
	}
	if cfg.WHOISRateLimit() != time.Second {
		t.Errorf("expected default rate limit, got %v", cfg.WHOISRateLimit())
	}
	if cfg.DNS.Retries != 1 {
		t.Errorf("expected default retries, got %d", cfg.DNS.Retries)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("log: [unclosed"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected a parse error")
	}
}

func TestLoadOrDefault_EmptyPath(t *testing.T) {
	cfg, err := LoadOrDefault("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Check.ExpiryThresholdDays != 30 || cfg.Batch.Workers != 10 {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
}
