package checker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/taxlien/domaincheck/internal/cache"
	"github.com/taxlien/domaincheck/internal/model"
	"github.com/taxlien/domaincheck/internal/whois"
)

var fixedNow = time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)

func daysFromNow(days int) *time.Time {
	t := fixedNow.AddDate(0, 0, days)
	return &t
}

// MockWHOIS returns canned WHOIS data
type MockWHOIS struct {
	Data  *model.WHOISData
	Err   error
	Calls int
}

func (m *MockWHOIS) Lookup(ctx context.Context, domain string) (*model.WHOISData, error) {
	m.Calls++
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Data, nil
}

// MockDNS returns canned DNS records
type MockDNS struct {
	Records []model.DNSRecord
	Err     error
	Calls   int
}

func (m *MockDNS) CheckAllRecords(ctx context.Context, domain string) ([]model.DNSRecord, error) {
	m.Calls++
	return m.Records, m.Err
}

// MockStore is an in-memory cache store with injectable failures
type MockStore struct {
	Entries map[string]*model.DomainInfo
	GetErr  error
	SetErr  error
	Sets    int
}

func NewMockStore() *MockStore {
	return &MockStore{Entries: make(map[string]*model.DomainInfo)}
}

func (m *MockStore) Get(ctx context.Context, domain string) (*model.DomainInfo, error) {
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	info, ok := m.Entries[domain]
	if !ok {
		return nil, cache.ErrNotFound
	}
	return info, nil
}

func (m *MockStore) Set(ctx context.Context, domain string, info *model.DomainInfo, ttl time.Duration) error {
	m.Sets++
	if m.SetErr != nil {
		return m.SetErr
	}
	m.Entries[domain] = info
	return nil
}

func (m *MockStore) Delete(ctx context.Context, domain string) error {
	delete(m.Entries, domain)
	return nil
}

func (m *MockStore) Clear(ctx context.Context) error {
	m.Entries = make(map[string]*model.DomainInfo)
	return nil
}

func (m *MockStore) Stats(ctx context.Context) (cache.Stats, error) {
	return cache.Stats{TotalEntries: len(m.Entries)}, nil
}

func newTestChecker(whoisMock *MockWHOIS, dnsMock *MockDNS, store cache.Store, cfg Config) *Checker {
	c := New(whoisMock, dnsMock, store, cfg, nil)
	c.now = func() time.Time { return fixedNow }
	return c
}

func TestCheck_ActiveDomain(t *testing.T) {
	whoisMock := &MockWHOIS{Data: &model.WHOISData{
		Domain:         "example.com",
		Registrar:      "Example Registrar",
		ExpirationDate: daysFromNow(365),
	}}
	dnsMock := &MockDNS{Records: []model.DNSRecord{
		{Type: model.RecordA, Name: "example.com", Value: "93.184.216.34"},
	}}
	store := NewMockStore()
	checker := newTestChecker(whoisMock, dnsMock, store, Config{})

	result := checker.Check(context.Background(), "example.com")
	if !result.Success {
		t.Fatalf("expected success, got error: %s", result.ErrorMessage)
	}
	if result.Info.Status != model.StatusActive {
		t.Errorf("expected active, got %s", result.Info.Status)
	}
	if len(result.Info.DNSRecords) != 1 {
		t.Errorf("expected DNS records to be attached, got %d", len(result.Info.DNSRecords))
	}
	if result.Cached {
		t.Error("first check must not be served from cache")
	}
	if store.Sets != 1 {
		t.Errorf("expected the result to be cached once, got %d writes", store.Sets)
	}
}

func TestCheck_StatusDerivation(t *testing.T) {
	tests := []struct {
		name string
		exp  *time.Time
		want model.DomainStatus
	}{
		{"far future is active", daysFromNow(365), model.StatusActive},
		{"within threshold is expiring_soon", daysFromNow(10), model.StatusExpiringSoon},
		{"past date is expired", daysFromNow(-10), model.StatusExpired},
		{"unknown date is active", nil, model.StatusActive},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			whoisMock := &MockWHOIS{Data: &model.WHOISData{Domain: "example.com", ExpirationDate: tt.exp}}
			checker := newTestChecker(whoisMock, nil, nil, Config{SkipDNS: true})

			result := checker.Check(context.Background(), "example.com")
			if !result.Success {
				t.Fatalf("expected success, got error: %s", result.ErrorMessage)
			}
			if result.Info.Status != tt.want {
				t.Errorf("expected %s, got %s", tt.want, result.Info.Status)
			}
		})
	}
}

func TestCheck_NotRegistered(t *testing.T) {
	whoisMock := &MockWHOIS{Err: &whois.Error{Domain: "unregistered-example-12345.com", Err: whois.ErrNotRegistered}}
	store := NewMockStore()
	checker := newTestChecker(whoisMock, nil, store, Config{SkipDNS: true})

	result := checker.Check(context.Background(), "unregistered-example-12345.com")
	if !result.Success {
		t.Fatal("a definitive not-found answer is not a check failure")
	}
	if result.Info.Status != model.StatusNotFound {
		t.Errorf("expected not_found, got %s", result.Info.Status)
	}
	if store.Sets != 1 {
		t.Errorf("not_found answers should be cached, got %d writes", store.Sets)
	}
}

func TestCheck_WHOISFailureIsNotCached(t *testing.T) {
	whoisMock := &MockWHOIS{Err: errors.New("whois server unreachable")}
	dnsMock := &MockDNS{Records: []model.DNSRecord{
		{Type: model.RecordA, Name: "example.com", Value: "93.184.216.34"},
	}}
	store := NewMockStore()
	checker := newTestChecker(whoisMock, dnsMock, store, Config{})

	result := checker.Check(context.Background(), "example.com")
	if result.Success {
		t.Fatal("expected failure")
	}
	if result.Info.Status != model.StatusError {
		t.Errorf("expected error status, got %s", result.Info.Status)
	}
	if result.ErrorMessage == "" {
		t.Error("expected an error message")
	}
	// DNS succeeded, so its records are still reported
	if len(result.Info.DNSRecords) != 1 {
		t.Errorf("expected DNS records despite WHOIS failure, got %d", len(result.Info.DNSRecords))
	}
	if store.Sets != 0 {
		t.Errorf("error results must not be cached, got %d writes", store.Sets)
	}
}

func TestCheck_InvalidDomain(t *testing.T) {
	whoisMock := &MockWHOIS{}
	dnsMock := &MockDNS{}
	store := NewMockStore()
	checker := newTestChecker(whoisMock, dnsMock, store, Config{})

	result := checker.Check(context.Background(), "not a domain")
	if result.Success {
		t.Fatal("expected failure for invalid input")
	}
	if whoisMock.Calls != 0 || dnsMock.Calls != 0 {
		t.Error("invalid input must not reach the network")
	}
	if store.Sets != 0 {
		t.Error("invalid input must not touch the cache")
	}
}

func TestCheck_CacheHit(t *testing.T) {
	whoisMock := &MockWHOIS{}
	dnsMock := &MockDNS{}
	store := NewMockStore()
	store.Entries["example.com"] = &model.DomainInfo{
		Domain: "example.com",
		WHOIS:  &model.WHOISData{Domain: "example.com", ExpirationDate: daysFromNow(365)},
		Status: model.StatusActive,
	}
	checker := newTestChecker(whoisMock, dnsMock, store, Config{})

	result := checker.Check(context.Background(), "example.com")
	if !result.Success || !result.Cached {
		t.Fatalf("expected a cached success, got %+v", result)
	}
	if whoisMock.Calls != 0 || dnsMock.Calls != 0 {
		t.Error("cache hit must not reach the network")
	}
}

func TestCheck_CacheHitRecomputesStatus(t *testing.T) {
	// Stored as active, but the expiration date has since moved inside the
	// threshold window relative to the test clock
	store := NewMockStore()
	store.Entries["example.com"] = &model.DomainInfo{
		Domain: "example.com",
		WHOIS:  &model.WHOISData{Domain: "example.com", ExpirationDate: daysFromNow(5)},
		Status: model.StatusActive,
	}
	checker := newTestChecker(&MockWHOIS{}, nil, store, Config{SkipDNS: true})

	result := checker.Check(context.Background(), "example.com")
	if !result.Cached {
		t.Fatal("expected a cache hit")
	}
	if result.Info.Status != model.StatusExpiringSoon {
		t.Errorf("expected status recomputed to expiring_soon, got %s", result.Info.Status)
	}
}

func TestCheck_CacheReadFailureDegradesToMiss(t *testing.T) {
	whoisMock := &MockWHOIS{Data: &model.WHOISData{Domain: "example.com", ExpirationDate: daysFromNow(365)}}
	store := NewMockStore()
	store.GetErr = errors.New("store unavailable")
	checker := newTestChecker(whoisMock, nil, store, Config{SkipDNS: true})

	result := checker.Check(context.Background(), "example.com")
	if !result.Success {
		t.Fatalf("a broken cache must not fail the check: %s", result.ErrorMessage)
	}
	if whoisMock.Calls != 1 {
		t.Errorf("expected the lookup to proceed, got %d calls", whoisMock.Calls)
	}
}

func TestCheck_CacheWriteFailureIsIgnored(t *testing.T) {
	whoisMock := &MockWHOIS{Data: &model.WHOISData{Domain: "example.com", ExpirationDate: daysFromNow(365)}}
	store := NewMockStore()
	store.SetErr = errors.New("store unavailable")
	checker := newTestChecker(whoisMock, nil, store, Config{SkipDNS: true})

	result := checker.Check(context.Background(), "example.com")
	if !result.Success {
		t.Fatalf("a failed cache write must not fail the check: %s", result.ErrorMessage)
	}
}

func TestCheck_SkipDNS(t *testing.T) {
	whoisMock := &MockWHOIS{Data: &model.WHOISData{Domain: "example.com"}}
	dnsMock := &MockDNS{}
	checker := newTestChecker(whoisMock, dnsMock, nil, Config{SkipDNS: true})

	result := checker.Check(context.Background(), "example.com")
	if !result.Success {
		t.Fatalf("unexpected failure: %s", result.ErrorMessage)
	}
	if dnsMock.Calls != 0 {
		t.Errorf("expected DNS to be skipped, got %d calls", dnsMock.Calls)
	}
}

func TestCheck_NormalizesInput(t *testing.T) {
	whoisMock := &MockWHOIS{Data: &model.WHOISData{Domain: "example.com"}}
	checker := newTestChecker(whoisMock, nil, nil, Config{SkipDNS: true})

	result := checker.Check(context.Background(), "https://WWW.Example.com/path")
	if result.Domain != "example.com" {
		t.Errorf("expected normalized domain, got %q", result.Domain)
	}
}

func TestExpirationDate(t *testing.T) {
	exp := daysFromNow(365)
	whoisMock := &MockWHOIS{Data: &model.WHOISData{Domain: "example.com", ExpirationDate: exp}}
	checker := newTestChecker(whoisMock, nil, nil, Config{SkipDNS: true})

	got := checker.ExpirationDate(context.Background(), "example.com")
	if got == nil || !got.Equal(*exp) {
		t.Errorf("expected %v, got %v", exp, got)
	}

	failing := newTestChecker(&MockWHOIS{Err: errors.New("unreachable")}, nil, nil, Config{SkipDNS: true})
	if got := failing.ExpirationDate(context.Background(), "example.com"); got != nil {
		t.Errorf("expected nil on failure, got %v", got)
	}
}

func TestIsExpiringSoon(t *testing.T) {
	whoisMock := &MockWHOIS{Data: &model.WHOISData{Domain: "example.com", ExpirationDate: daysFromNow(10)}}
	checker := newTestChecker(whoisMock, nil, nil, Config{SkipDNS: true})

	if !checker.IsExpiringSoon(context.Background(), "example.com", 0) {
		t.Error("expected expiring soon with the default threshold")
	}
	if checker.IsExpiringSoon(context.Background(), "example.com", 5) {
		t.Error("expected not expiring within 5 days")
	}
}
