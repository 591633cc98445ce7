// Package cache defines the domain-info cache store interface and the
// persisted entry format shared by all backends.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/taxlien/domaincheck/internal/model"
)

// ErrNotFound is returned by Get when no entry exists for a domain or the
// entry has passed its TTL
var ErrNotFound = errors.New("cache entry not found")

// Store is the interface for persisting domain check results keyed by
// normalized domain name. Implementations must be safe for concurrent use:
// batch workers share one store.
type Store interface {
	// Get retrieves the cached info for a domain.
	// Returns ErrNotFound on a miss or when the entry's TTL has elapsed;
	// expired entries may be lazily purged as a side effect.
	Get(ctx context.Context, domain string) (*model.DomainInfo, error)

	// Set upserts the cached info for a domain with the given TTL,
	// overwriting any prior entry for the same key.
	Set(ctx context.Context, domain string, info *model.DomainInfo, ttl time.Duration) error

	// Delete removes the entry for a domain. Removing a missing entry is not an error.
	Delete(ctx context.Context, domain string) error

	// Clear removes all entries.
	Clear(ctx context.Context) error

	// Stats returns aggregate counts. Unlike Get, it must not purge
	// expired entries as a side effect.
	Stats(ctx context.Context) (Stats, error)
}

// Stats holds read-only aggregate counts for a store
type Stats struct {
	TotalEntries   int `json:"total_entries"`
	ActiveEntries  int `json:"active_entries"`
	ExpiredEntries int `json:"expired_entries"`
}

// Entry is the persisted representation of one cached domain.
// An entry is valid iff now < StoredAt + TTLSeconds.
type Entry struct {
	Domain     string          `json:"domain" dynamodbav:"domain"`
	Data       json.RawMessage `json:"data" dynamodbav:"data"`
	StoredAt   time.Time       `json:"stored_at" dynamodbav:"stored_at"`
	TTLSeconds int64           `json:"ttl_seconds" dynamodbav:"ttl_seconds"`
}

// NewEntry serializes info into a cache entry stored at now with the given TTL
func NewEntry(domain string, info *model.DomainInfo, ttl time.Duration, now time.Time) (*Entry, error) {
	if info == nil {
		return nil, errors.New("domain info cannot be nil")
	}
	data, err := json.Marshal(info)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize domain info: %w", err)
	}
	return &Entry{
		Domain:     domain,
		Data:       data,
		StoredAt:   now,
		TTLSeconds: int64(ttl / time.Second),
	}, nil
}

// Expired reports whether the entry's TTL has elapsed at now
func (e *Entry) Expired(now time.Time) bool {
	return !now.Before(e.StoredAt.Add(time.Duration(e.TTLSeconds) * time.Second))
}

// Info deserializes the stored domain info
func (e *Entry) Info() (*model.DomainInfo, error) {
	var info model.DomainInfo
	if err := json.Unmarshal(e.Data, &info); err != nil {
		return nil, fmt.Errorf("failed to deserialize cached domain info: %w", err)
	}
	return &info, nil
}
