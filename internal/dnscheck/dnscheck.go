// Package dnscheck resolves the fixed set of DNS record types the domain
// checker reports, querying configurable upstream servers.
package dnscheck

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/miekg/dns"

	"github.com/taxlien/domaincheck/internal/model"
)

const (
	// DefaultTimeout bounds a single DNS exchange
	DefaultTimeout = 10 * time.Second

	// DefaultRetries is how many extra passes are made over the server list
	// before a record type is declared unresolvable
	DefaultRetries = 1
)

// DefaultServers are the upstream resolvers used when none are configured
func DefaultServers() []string {
	return []string{"8.8.8.8:53", "1.1.1.1:53"}
}

// Error wraps a failed resolution with the domain and record type it was for
type Error struct {
	Domain     string
	RecordType model.DNSRecordType
	Err        error
}

func (e *Error) Error() string {
	return fmt.Sprintf("dns resolution failed for %s %s: %v", e.Domain, e.RecordType, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// ErrNameNotFound is the underlying error for an NXDOMAIN response
var ErrNameNotFound = errors.New("no such domain")

// Exchanger performs one DNS exchange against one server.
// *dns.Client satisfies this interface; tests inject mocks.
type Exchanger interface {
	ExchangeContext(ctx context.Context, m *dns.Msg, addr string) (*dns.Msg, time.Duration, error)
}

// Config holds DNS checker configuration
type Config struct {
	// Timeout bounds a single exchange (default 10s)
	Timeout time.Duration

	// Servers are upstream resolver addresses in host:port form
	// (default Google and Cloudflare public DNS)
	Servers []string

	// Retries is the number of extra passes over the server list (default 1)
	Retries int
}

func (c Config) withDefaults() Config {
	if c.Timeout == 0 {
		c.Timeout = DefaultTimeout
	}
	if len(c.Servers) == 0 {
		c.Servers = DefaultServers()
	}
	if c.Retries == 0 {
		c.Retries = DefaultRetries
	}
	return c
}

// Checker resolves DNS records for domains
type Checker struct {
	exchanger Exchanger
	servers   []string
	retries   int
	logger    *slog.Logger
}

// New creates a DNS checker backed by a UDP dns.Client
func New(cfg Config, logger *slog.Logger) *Checker {
	cfg = cfg.withDefaults()
	if logger == nil {
		logger = slog.Default()
	}
	return &Checker{
		exchanger: &dns.Client{Timeout: cfg.Timeout},
		servers:   cfg.Servers,
		retries:   cfg.Retries,
		logger:    logger,
	}
}

// NewWithExchanger creates a DNS checker with an injected exchanger.
// This is useful for testing with mock implementations.
func NewWithExchanger(cfg Config, exchanger Exchanger, logger *slog.Logger) *Checker {
	c := New(cfg, logger)
	c.exchanger = exchanger
	return c
}

// queryTypes maps the checker's record types onto wire types
var queryTypes = map[model.DNSRecordType]uint16{
	model.RecordA:     dns.TypeA,
	model.RecordAAAA:  dns.TypeAAAA,
	model.RecordMX:    dns.TypeMX,
	model.RecordNS:    dns.TypeNS,
	model.RecordTXT:   dns.TypeTXT,
	model.RecordCNAME: dns.TypeCNAME,
}

// Resolve queries one record type for a domain.
// An empty answer section is not an error: the records simply do not exist.
// NXDOMAIN and exhausting the retry budget are errors.
func (c *Checker) Resolve(ctx context.Context, domain string, rtype model.DNSRecordType) ([]model.DNSRecord, error) {
	qtype, ok := queryTypes[rtype]
	if !ok {
		return nil, &Error{Domain: domain, RecordType: rtype, Err: fmt.Errorf("unsupported record type")}
	}

	msg := new(dns.Msg)
	msg.SetQuestion(dns.Fqdn(domain), qtype)
	msg.RecursionDesired = true

	var lastErr error
	for attempt := 0; attempt <= c.retries; attempt++ {
		for _, server := range c.servers {
			if err := ctx.Err(); err != nil {
				return nil, &Error{Domain: domain, RecordType: rtype, Err: err}
			}

			reply, _, err := c.exchanger.ExchangeContext(ctx, msg, server)
			if err != nil {
				lastErr = err
				continue
			}

			switch reply.Rcode {
			case dns.RcodeSuccess:
				return recordsFromAnswer(domain, rtype, qtype, reply), nil
			case dns.RcodeNameError:
				return nil, &Error{Domain: domain, RecordType: rtype, Err: ErrNameNotFound}
			default:
				lastErr = fmt.Errorf("server %s returned %s", server, dns.RcodeToString[reply.Rcode])
			}
		}
	}

	if lastErr == nil {
		lastErr = errors.New("no servers configured")
	}
	return nil, &Error{Domain: domain, RecordType: rtype, Err: lastErr}
}

// CheckAllRecords queries every supported record type independently.
// A failure on one type does not abort the others; partial results are
// returned. Only when every type fails does the call return an error, with
// the per-type failures joined.
func (c *Checker) CheckAllRecords(ctx context.Context, domain string) ([]model.DNSRecord, error) {
	var records []model.DNSRecord
	var failures []error

	for _, rtype := range model.AllRecordTypes() {
		typeRecords, err := c.Resolve(ctx, domain, rtype)
		if err != nil {
			c.logger.Debug("record type lookup failed", "domain", domain, "type", rtype, "error", err)
			failures = append(failures, err)
			continue
		}
		records = append(records, typeRecords...)
	}

	if len(failures) == len(model.AllRecordTypes()) {
		return nil, errors.Join(failures...)
	}
	return records, nil
}

// recordsFromAnswer converts the answer section into DNSRecords, keeping only
// records of the requested type (an A query may also return the CNAME chain)
func recordsFromAnswer(domain string, rtype model.DNSRecordType, qtype uint16, reply *dns.Msg) []model.DNSRecord {
	var records []model.DNSRecord
	for _, rr := range reply.Answer {
		if rr.Header().Rrtype != qtype {
			continue
		}
		records = append(records, model.DNSRecord{
			Type:  rtype,
			Name:  domain,
			Value: recordValue(rr),
			TTL:   rr.Header().Ttl,
		})
	}
	return records
}

// recordValue renders an answer record the way the CSV export and CLI show it
func recordValue(rr dns.RR) string {
	switch v := rr.(type) {
	case *dns.A:
		return v.A.String()
	case *dns.AAAA:
		return v.AAAA.String()
	case *dns.MX:
		return fmt.Sprintf("%d %s", v.Preference, trimDot(v.Mx))
	case *dns.NS:
		return trimDot(v.Ns)
	case *dns.TXT:
		return strings.Join(v.Txt, "")
	case *dns.CNAME:
		return trimDot(v.Target)
	default:
		return strings.TrimSpace(strings.TrimPrefix(rr.String(), rr.Header().String()))
	}
}

func trimDot(name string) string {
	return strings.TrimSuffix(name, ".")
}
