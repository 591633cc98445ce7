// Package checker orchestrates a single domain check: validation, cache
// lookup, WHOIS and DNS queries, status derivation, and cache writes.
package checker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/taxlien/domaincheck/internal/cache"
	"github.com/taxlien/domaincheck/internal/model"
	"github.com/taxlien/domaincheck/internal/validator"
	"github.com/taxlien/domaincheck/internal/whois"
)

const (
	// DefaultExpiryThresholdDays marks a domain expiring_soon when it
	// expires within this many days
	DefaultExpiryThresholdDays = 30

	// DefaultCacheTTL is how long check results stay fresh in the cache
	DefaultCacheTTL = time.Hour
)

// WHOISLookuper is the WHOIS collaborator seen by the orchestrator
type WHOISLookuper interface {
	Lookup(ctx context.Context, domain string) (*model.WHOISData, error)
}

// DNSLookuper is the DNS collaborator seen by the orchestrator
type DNSLookuper interface {
	CheckAllRecords(ctx context.Context, domain string) ([]model.DNSRecord, error)
}

// Config holds orchestration configuration
type Config struct {
	// SkipDNS disables DNS record collection (WHOIS only)
	SkipDNS bool

	// ExpiryThresholdDays is the expiring_soon window (default 30)
	ExpiryThresholdDays int

	// CacheTTL is the TTL applied to cached results (default 1h)
	CacheTTL time.Duration
}

func (c Config) withDefaults() Config {
	if c.ExpiryThresholdDays == 0 {
		c.ExpiryThresholdDays = DefaultExpiryThresholdDays
	}
	if c.CacheTTL == 0 {
		c.CacheTTL = DefaultCacheTTL
	}
	return c
}

// Checker performs comprehensive checks of single domains.
// It holds no mutable state across calls and is safe for concurrent use as
// long as its collaborators are.
type Checker struct {
	whois  WHOISLookuper
	dns    DNSLookuper
	cache  cache.Store
	cfg    Config
	logger *slog.Logger
	now    func() time.Time
}

// New creates a domain checker. cacheStore may be nil to disable caching and
// dnsChecker may be nil when cfg.SkipDNS is set.
func New(whoisClient WHOISLookuper, dnsChecker DNSLookuper, cacheStore cache.Store, cfg Config, logger *slog.Logger) *Checker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Checker{
		whois:  whoisClient,
		dns:    dnsChecker,
		cache:  cacheStore,
		cfg:    cfg.withDefaults(),
		logger: logger,
		now:    time.Now,
	}
}

// Check validates a domain, serves it from cache when possible, and otherwise
// looks it up over WHOIS and DNS. Component failures are captured in the
// returned CheckResult rather than raised: a batch never aborts because one
// domain failed.
func (c *Checker) Check(ctx context.Context, rawDomain string) model.CheckResult {
	start := time.Now()

	if !validator.IsValid(rawDomain) {
		return model.CheckResult{
			Domain:       rawDomain,
			Success:      false,
			ErrorMessage: fmt.Sprintf("invalid domain: %s", rawDomain),
			Duration:     time.Since(start),
		}
	}
	domain := validator.Normalize(rawDomain)

	if info, ok := c.fromCache(ctx, domain); ok {
		return model.CheckResult{
			Domain:   domain,
			Success:  info.Status != model.StatusError,
			Info:     info,
			Duration: time.Since(start),
			Cached:   true,
		}
	}

	info := &model.DomainInfo{
		Domain:      domain,
		LastChecked: c.now(),
	}

	whoisData, whoisErr := c.whois.Lookup(ctx, domain)
	info.WHOIS = whoisData

	if !c.cfg.SkipDNS && c.dns != nil {
		records, err := c.dns.CheckAllRecords(ctx, domain)
		if err != nil {
			// Non-fatal: the WHOIS side of the check stands on its own
			c.logger.Debug("dns check failed", "domain", domain, "error", err)
		}
		info.DNSRecords = records
	}

	result := model.CheckResult{Domain: domain, Info: info}

	switch {
	case whoisErr == nil:
		info.Status = c.deriveStatus(whoisData)
		result.Success = true
		c.toCache(ctx, domain, info)
	case errors.Is(whoisErr, whois.ErrNotRegistered):
		// A definitive answer: cacheable, and not a failure of the check itself
		info.Status = model.StatusNotFound
		result.Success = true
		c.toCache(ctx, domain, info)
	default:
		// Transient failures are not cached so the next check retries
		info.Status = model.StatusError
		info.ErrorMessage = whoisErr.Error()
		result.ErrorMessage = whoisErr.Error()
	}

	result.Duration = time.Since(start)
	return result
}

// IsExpiringSoon checks a domain and reports whether it expires within
// thresholdDays (the configured threshold when thresholdDays is 0)
func (c *Checker) IsExpiringSoon(ctx context.Context, domain string, thresholdDays int) bool {
	if thresholdDays == 0 {
		thresholdDays = c.cfg.ExpiryThresholdDays
	}
	result := c.Check(ctx, domain)
	if !result.Success || result.Info == nil {
		return false
	}
	return result.Info.WHOIS.IsExpiringSoon(c.now(), thresholdDays)
}

// ExpirationDate checks a domain and returns its expiration date, or nil
// when the date could not be determined
func (c *Checker) ExpirationDate(ctx context.Context, domain string) *time.Time {
	result := c.Check(ctx, domain)
	if !result.Success || result.Info == nil || result.Info.WHOIS == nil {
		return nil
	}
	return result.Info.WHOIS.ExpirationDate
}

// fromCache retrieves a fresh cached result. Store failures degrade to a
// cache miss so an unavailable cache never fails a check.
func (c *Checker) fromCache(ctx context.Context, domain string) (*model.DomainInfo, bool) {
	if c.cache == nil {
		return nil, false
	}

	info, err := c.cache.Get(ctx, domain)
	if err != nil {
		if !errors.Is(err, cache.ErrNotFound) {
			c.logger.Warn("cache read failed, treating as miss", "domain", domain, "error", err)
		}
		return nil, false
	}

	// Time has passed since the entry was stored: re-derive the
	// expiry-dependent status instead of trusting the snapshot.
	if info.WHOIS != nil {
		info.Status = c.deriveStatus(info.WHOIS)
	}
	return info, true
}

// toCache stores a result, logging and continuing on failure
func (c *Checker) toCache(ctx context.Context, domain string, info *model.DomainInfo) {
	if c.cache == nil {
		return
	}
	if err := c.cache.Set(ctx, domain, info, c.cfg.CacheTTL); err != nil {
		c.logger.Warn("cache write failed", "domain", domain, "error", err)
	}
}

// deriveStatus maps WHOIS data onto a domain status at the current time
func (c *Checker) deriveStatus(data *model.WHOISData) model.DomainStatus {
	if data == nil {
		return model.StatusError
	}
	now := c.now()
	if data.ExpirationDate != nil && data.ExpirationDate.Before(now) {
		return model.StatusExpired
	}
	if data.IsExpiringSoon(now, c.cfg.ExpiryThresholdDays) {
		return model.StatusExpiringSoon
	}
	return model.StatusActive
}
