// Package whois looks up domain registration data over WHOIS, with an RDAP
// fallback, and parses it into the structured model.
package whois

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	lwhois "github.com/likexian/whois"
	whoisparser "github.com/likexian/whois-parser"
	"golang.org/x/time/rate"

	"github.com/taxlien/domaincheck/internal/model"
)

const (
	// DefaultTimeout bounds a single upstream WHOIS query
	DefaultTimeout = 30 * time.Second

	// DefaultRateLimitDelay is the politeness delay between upstream queries.
	// WHOIS servers aggressively block clients that query too fast.
	DefaultRateLimitDelay = time.Second
)

// ErrNotRegistered is returned when the upstream explicitly reports that the
// domain has no registration
var ErrNotRegistered = errors.New("domain is not registered")

// Error wraps a failed lookup with the domain it was for
type Error struct {
	Domain string
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("whois lookup failed for %s: %v", e.Domain, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Querier performs a raw WHOIS query, allowing dependency injection for
// testing with mock implementations
type Querier interface {
	// Query returns the raw WHOIS response text for the given domain
	Query(ctx context.Context, domain string) (string, error)
}

// networkQuerier wraps the likexian whois client
type networkQuerier struct {
	timeout time.Duration
}

// Query implements Querier over TCP port 43.
// The underlying client does not take a context, so the call runs in a
// goroutine and the client's own timeout bounds how long it can linger
// after cancellation.
func (q *networkQuerier) Query(ctx context.Context, domain string) (string, error) {
	client := lwhois.NewClient()
	client.SetTimeout(q.timeout)

	type result struct {
		raw string
		err error
	}
	ch := make(chan result, 1)
	go func() {
		raw, err := client.Whois(domain)
		ch <- result{raw: raw, err: err}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-ch:
		return res.raw, res.err
	}
}

// Config holds WHOIS client configuration
type Config struct {
	// Timeout bounds a single upstream query (default 30s)
	Timeout time.Duration

	// RateLimitDelay is the minimum interval between upstream queries
	// (zero means the 1s default; negative disables rate limiting)
	RateLimitDelay time.Duration

	// DisableRDAP turns off the RDAP fallback for failed WHOIS lookups
	DisableRDAP bool
}

func (c Config) withDefaults() Config {
	if c.Timeout == 0 {
		c.Timeout = DefaultTimeout
	}
	if c.RateLimitDelay == 0 {
		c.RateLimitDelay = DefaultRateLimitDelay
	}
	return c
}

// Client performs WHOIS lookups with rate limiting and structured parsing.
// A single Client is shared across batch workers so the politeness delay is
// global rather than per-worker.
type Client struct {
	querier Querier
	rdap    RDAPQuerier
	limiter *rate.Limiter
	timeout time.Duration
	logger  *slog.Logger
}

// New creates a WHOIS client with the default network querier
func New(cfg Config, logger *slog.Logger) *Client {
	cfg = cfg.withDefaults()
	c := &Client{
		querier: &networkQuerier{timeout: cfg.Timeout},
		timeout: cfg.Timeout,
		logger:  logger,
	}
	if logger == nil {
		c.logger = slog.Default()
	}
	if cfg.RateLimitDelay > 0 {
		c.limiter = rate.NewLimiter(rate.Every(cfg.RateLimitDelay), 1)
	}
	if !cfg.DisableRDAP {
		c.rdap = &networkRDAPQuerier{}
	}
	return c
}

// NewWithQueriers creates a WHOIS client with injected queriers.
// This is useful for testing with mock implementations; rdapQuerier may be
// nil to disable the fallback.
func NewWithQueriers(cfg Config, querier Querier, rdapQuerier RDAPQuerier, logger *slog.Logger) *Client {
	c := New(cfg, logger)
	c.querier = querier
	c.rdap = rdapQuerier
	return c
}

// Lookup queries registration data for a domain and parses it.
// Individual missing fields are tolerated and left at zero values; only a
// total lookup failure is an error. Returns ErrNotRegistered (wrapped) when
// the upstream explicitly reports no registration, and *Error for other
// failures. When the WHOIS path fails for any other reason and RDAP is
// enabled, the RDAP registry is tried before giving up.
func (c *Client) Lookup(ctx context.Context, domain string) (*model.WHOISData, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, &Error{Domain: domain, Err: err}
		}
	}

	queryCtx := ctx
	if c.timeout > 0 {
		var cancel context.CancelFunc
		queryCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	raw, err := c.querier.Query(queryCtx, domain)
	if err != nil {
		return c.fallback(ctx, domain, fmt.Errorf("query failed: %w", err))
	}

	parsed, err := whoisparser.Parse(raw)
	if err != nil {
		if errors.Is(err, whoisparser.ErrNotFoundDomain) {
			return nil, &Error{Domain: domain, Err: ErrNotRegistered}
		}
		return c.fallback(ctx, domain, fmt.Errorf("unparseable response: %w", err))
	}

	data := &model.WHOISData{
		Domain: domain,
		Raw:    raw,
	}
	if parsed.Registrar != nil {
		data.Registrar = parsed.Registrar.Name
	}
	if parsed.Domain != nil {
		data.NameServers = normalizeNameServers(parsed.Domain.NameServers)
		data.Status = parsed.Domain.Status
		data.CreatedDate = pickDate(parsed.Domain.CreatedDateInTime, parsed.Domain.CreatedDate)
		data.ExpirationDate = pickDate(parsed.Domain.ExpirationDateInTime, parsed.Domain.ExpirationDate)
		data.UpdatedDate = pickDate(parsed.Domain.UpdatedDateInTime, parsed.Domain.UpdatedDate)
	}

	return data, nil
}

// fallback tries RDAP after a WHOIS failure, or surfaces the WHOIS error
// when RDAP is disabled or also fails
func (c *Client) fallback(ctx context.Context, domain string, whoisErr error) (*model.WHOISData, error) {
	if c.rdap == nil {
		return nil, &Error{Domain: domain, Err: whoisErr}
	}

	c.logger.Debug("whois lookup failed, trying RDAP", "domain", domain, "error", whoisErr)

	data, err := c.lookupRDAP(ctx, domain)
	if err != nil {
		if errors.Is(err, ErrNotRegistered) {
			return nil, &Error{Domain: domain, Err: ErrNotRegistered}
		}
		// Report the original WHOIS failure; the RDAP error is secondary
		c.logger.Debug("RDAP fallback failed", "domain", domain, "error", err)
		return nil, &Error{Domain: domain, Err: whoisErr}
	}
	return data, nil
}

// pickDate prefers the parser's pre-parsed time and falls back to parsing the
// raw date string
func pickDate(parsed *time.Time, raw string) *time.Time {
	if parsed != nil {
		t := parsed.UTC()
		return &t
	}
	return parseDate(raw)
}

// dateFormats covers the date layouts seen across registrar WHOIS responses
var dateFormats = []string{
	time.RFC3339,
	"2006-01-02T15:04:05Z",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"02-Jan-2006",
	"2006.01.02",
	"2006/01/02",
	"02/01/2006",
}

// parseDate attempts the known WHOIS date layouts, returning nil when none match
func parseDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, format := range dateFormats {
		if t, err := time.Parse(format, s); err == nil {
			t = t.UTC()
			return &t
		}
	}
	return nil
}

// normalizeNameServers lowercases and de-duplicates name server hostnames,
// which registrars report in inconsistent case and sometimes repeat
func normalizeNameServers(servers []string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, s := range servers {
		ns := strings.TrimSuffix(strings.ToLower(strings.TrimSpace(s)), ".")
		if ns == "" || seen[ns] {
			continue
		}
		seen[ns] = true
		out = append(out, ns)
	}
	return out
}
