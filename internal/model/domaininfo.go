package model

import (
	"math"
	"time"
)

// DomainStatus describes the registration state of a checked domain
type DomainStatus string

const (
	// StatusActive means the domain is registered and not near expiration
	StatusActive DomainStatus = "active"
	// StatusExpired means the registration's expiration date has passed
	StatusExpired DomainStatus = "expired"
	// StatusExpiringSoon means the domain expires within the configured threshold
	StatusExpiringSoon DomainStatus = "expiring_soon"
	// StatusNotFound means the upstream explicitly reported no registration
	StatusNotFound DomainStatus = "not_found"
	// StatusError means no registration data could be obtained
	StatusError DomainStatus = "error"
)

// WHOISData holds the structured fields parsed from a WHOIS (or RDAP) response.
// Missing fields are left at their zero values; date pointers are nil when the
// upstream did not report them.
type WHOISData struct {
	Domain         string     `json:"domain"`
	Registrar      string     `json:"registrar,omitempty"`
	CreatedDate    *time.Time `json:"created_date,omitempty"`
	ExpirationDate *time.Time `json:"expiration_date,omitempty"`
	UpdatedDate    *time.Time `json:"updated_date,omitempty"`
	NameServers    []string   `json:"name_servers,omitempty"`
	Status         []string   `json:"status,omitempty"`
	Raw            string     `json:"raw,omitempty"`
}

// DaysUntilExpiration returns the number of whole days between now and the
// expiration date, negative when the date has passed, or nil when the
// expiration date is unknown.
//
// This is always computed against the caller's clock and never persisted:
// a snapshot stored in the cache would silently go stale between checks.
func (w *WHOISData) DaysUntilExpiration(now time.Time) *int {
	if w == nil || w.ExpirationDate == nil {
		return nil
	}
	// Floor rather than truncate so a date within the past 24 hours reports
	// -1, not 0: an expired domain never shows zero days remaining.
	days := int(math.Floor(w.ExpirationDate.Sub(now).Hours() / 24))
	return &days
}

// IsExpiringSoon reports whether the domain expires within thresholdDays.
// A domain that is already expired is not "expiring soon".
func (w *WHOISData) IsExpiringSoon(now time.Time, thresholdDays int) bool {
	days := w.DaysUntilExpiration(now)
	if days == nil {
		return false
	}
	if w.ExpirationDate.Before(now) {
		return false
	}
	return *days <= thresholdDays
}

// DNSRecordType is one of the fixed set of record types the checker queries
type DNSRecordType string

const (
	RecordA     DNSRecordType = "A"
	RecordAAAA  DNSRecordType = "AAAA"
	RecordMX    DNSRecordType = "MX"
	RecordNS    DNSRecordType = "NS"
	RecordTXT   DNSRecordType = "TXT"
	RecordCNAME DNSRecordType = "CNAME"
)

// AllRecordTypes lists the record types queried by a full DNS check, in the
// order they are queried and reported.
func AllRecordTypes() []DNSRecordType {
	return []DNSRecordType{RecordA, RecordAAAA, RecordMX, RecordNS, RecordTXT, RecordCNAME}
}

// DNSRecord is a single resolved DNS record
type DNSRecord struct {
	Type  DNSRecordType `json:"type"`
	Name  string        `json:"name"`
	Value string        `json:"value"`
	TTL   uint32        `json:"ttl,omitempty"`
}

// DomainInfo is the complete result of checking one domain.
// It is created once per check and not mutated after being returned.
type DomainInfo struct {
	Domain       string       `json:"domain"`
	WHOIS        *WHOISData   `json:"whois,omitempty"`
	DNSRecords   []DNSRecord  `json:"dns_records,omitempty"`
	Status       DomainStatus `json:"status"`
	LastChecked  time.Time    `json:"last_checked"`
	ErrorMessage string       `json:"error_message,omitempty"`
}

// CheckResult wraps a DomainInfo with the outcome of the check operation itself
type CheckResult struct {
	Domain       string        `json:"domain"`
	Success      bool          `json:"success"`
	Info         *DomainInfo   `json:"info,omitempty"`
	ErrorMessage string        `json:"error_message,omitempty"`
	Duration     time.Duration `json:"duration"`
	Cached       bool          `json:"cached"`
}

// BatchResult aggregates the results of checking a list of domains.
// Results preserves the input order, one entry per input domain.
type BatchResult struct {
	TotalDomains  int           `json:"total_domains"`
	Successful    int           `json:"successful"`
	Failed        int           `json:"failed"`
	CachedResults int           `json:"cached_results"`
	Results       []CheckResult `json:"results"`
	TotalDuration time.Duration `json:"total_duration"`
}

// SuccessRate returns the percentage of successful checks, or 0 for an empty batch
func (b *BatchResult) SuccessRate() float64 {
	if b.TotalDomains == 0 {
		return 0
	}
	return float64(b.Successful) / float64(b.TotalDomains) * 100
}
