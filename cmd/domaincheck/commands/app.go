package commands

import (
	"context"
	"io"
	"log/slog"

	"github.com/taxlien/domaincheck/internal/cache"
	"github.com/taxlien/domaincheck/internal/cache/factory"
	"github.com/taxlien/domaincheck/internal/checker"
	"github.com/taxlien/domaincheck/internal/config"
	"github.com/taxlien/domaincheck/internal/dnscheck"
	"github.com/taxlien/domaincheck/internal/whois"
)

// Populated by the root command's PersistentPreRunE before any subcommand runs
var (
	appCfg    config.Config
	appLogger *slog.Logger
)

// effectiveConfig layers command-line flags over the loaded configuration
func effectiveConfig(cacheFlags CacheFlags, checkFlags CheckFlags) config.Config {
	cfg := appCfg

	if cacheFlags.NoCache {
		cfg.Cache.Disable = true
	}
	if cacheFlags.File != "" {
		cfg.Cache.File = cacheFlags.File
	}
	if cacheFlags.RedisAddr != "" {
		cfg.Cache.RedisAddr = cacheFlags.RedisAddr
	}
	if cacheFlags.DynamoTable != "" {
		cfg.Cache.DynamoTable = cacheFlags.DynamoTable
	}
	if cacheFlags.DynamoEndpoint != "" {
		cfg.Cache.DynamoEndpoint = cacheFlags.DynamoEndpoint
	}
	if cacheFlags.TTLSeconds > 0 {
		cfg.Cache.TTLSeconds = cacheFlags.TTLSeconds
	}

	if checkFlags.NoDNS {
		cfg.Check.DisableDNS = true
	}
	if checkFlags.Threshold > 0 {
		cfg.Check.ExpiryThresholdDays = checkFlags.Threshold
	}

	return cfg
}

// newCacheStore builds the cache store selected by the configuration.
// The returned cleanup releases backend connections and is always non-nil.
func newCacheStore(ctx context.Context, cfg config.Config) (cache.Store, func(), error) {
	cleanup := func() {}
	if cfg.Cache.Disable {
		return nil, cleanup, nil
	}

	store, err := factory.NewStore(ctx, factory.Config{
		FilePath:       cfg.Cache.File,
		RedisAddr:      cfg.Cache.RedisAddr,
		DynamoTable:    cfg.Cache.DynamoTable,
		DynamoEndpoint: cfg.Cache.DynamoEndpoint,
	}, appLogger)
	if err != nil {
		return nil, nil, err
	}
	if closer, ok := store.(io.Closer); ok {
		cleanup = func() { closer.Close() }
	}
	return store, cleanup, nil
}

// buildChecker assembles a domain checker from the effective configuration
func buildChecker(ctx context.Context, cfg config.Config) (*checker.Checker, func(), error) {
	store, cleanup, err := newCacheStore(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	whoisClient := whois.New(whois.Config{
		Timeout:        cfg.WHOISTimeout(),
		RateLimitDelay: cfg.WHOISRateLimit(),
		DisableRDAP:    cfg.WHOIS.DisableRDAP,
	}, appLogger)

	var dnsChecker checker.DNSLookuper
	if !cfg.Check.DisableDNS {
		dnsChecker = dnscheck.New(dnscheck.Config{
			Timeout: cfg.DNSTimeout(),
			Servers: cfg.DNS.Servers,
			Retries: cfg.DNS.Retries,
		}, appLogger)
	}

	chk := checker.New(whoisClient, dnsChecker, store, checker.Config{
		SkipDNS:             cfg.Check.DisableDNS,
		ExpiryThresholdDays: cfg.Check.ExpiryThresholdDays,
		CacheTTL:            cfg.CacheTTL(),
	}, appLogger)

	return chk, cleanup, nil
}
