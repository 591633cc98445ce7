package redistore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/taxlien/domaincheck/internal/cache"
	"github.com/taxlien/domaincheck/internal/model"
)

// keyPrefix namespaces cache keys so the tool can share a Redis database
const keyPrefix = "domaincheck:"

// RedisStore is a Redis implementation of cache.Store.
// TTL enforcement is delegated to Redis (SET with expiration), so expired
// entries never surface on read and ExpiredEntries is always zero in stats.
type RedisStore struct {
	client redis.UniversalClient
}

// New creates a Redis-backed cache store for the given server address
func New(addr string) *RedisStore {
	return &RedisStore{
		client: redis.NewClient(&redis.Options{Addr: addr}),
	}
}

// NewWithClient creates a Redis-backed cache store using an existing client.
// Useful for tests with a mock or miniredis client.
func NewWithClient(client redis.UniversalClient) *RedisStore {
	return &RedisStore{client: client}
}

// Get retrieves the cached info for a domain
func (s *RedisStore) Get(ctx context.Context, domain string) (*model.DomainInfo, error) {
	payload, err := s.client.Get(ctx, keyPrefix+domain).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, cache.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get cache entry: %w", err)
	}

	var entry cache.Entry
	if err := json.Unmarshal(payload, &entry); err != nil {
		return nil, fmt.Errorf("failed to decode cache entry: %w", err)
	}
	return entry.Info()
}

// Set upserts the cached info for a domain. The TTL is applied natively.
func (s *RedisStore) Set(ctx context.Context, domain string, info *model.DomainInfo, ttl time.Duration) error {
	entry, err := cache.NewEntry(domain, info, ttl, time.Now())
	if err != nil {
		return err
	}

	payload, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to encode cache entry: %w", err)
	}

	if err := s.client.Set(ctx, keyPrefix+domain, payload, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store cache entry: %w", err)
	}
	return nil
}

// Delete removes the entry for a domain. Missing entries are not an error.
func (s *RedisStore) Delete(ctx context.Context, domain string) error {
	if err := s.client.Del(ctx, keyPrefix+domain).Err(); err != nil {
		return fmt.Errorf("failed to delete cache entry: %w", err)
	}
	return nil
}

// Clear removes all entries under the tool's key prefix
func (s *RedisStore) Clear(ctx context.Context) error {
	iter := s.client.Scan(ctx, 0, keyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		if err := s.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("failed to delete cache entry: %w", err)
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to scan cache entries: %w", err)
	}
	return nil
}

// Stats counts entries under the tool's key prefix.
// Redis evicts expired keys itself, so every counted entry is active.
func (s *RedisStore) Stats(ctx context.Context) (cache.Stats, error) {
	var stats cache.Stats
	iter := s.client.Scan(ctx, 0, keyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		stats.TotalEntries++
	}
	if err := iter.Err(); err != nil {
		return cache.Stats{}, fmt.Errorf("failed to scan cache entries: %w", err)
	}
	stats.ActiveEntries = stats.TotalEntries
	return stats, nil
}

// Close releases the underlying Redis connection
func (s *RedisStore) Close() error {
	return s.client.Close()
}
