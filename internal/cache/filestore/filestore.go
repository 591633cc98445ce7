package filestore

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/taxlien/domaincheck/internal/cache"
	"github.com/taxlien/domaincheck/internal/model"
)

// FileStore is an in-memory implementation of cache.Store optionally backed by
// a JSON file. With a file path configured, every mutation is persisted, so
// the cache survives process restarts. A single process is assumed to own the
// file; concurrent access within the process is serialized by the mutex.
type FileStore struct {
	mu       sync.RWMutex
	entries  map[string]*cache.Entry
	filePath string
	now      func() time.Time
}

// New creates a file store without persistence.
// Entries are kept only in memory and lost when the process terminates.
func New() *FileStore {
	return &FileStore{
		entries: make(map[string]*cache.Entry),
		now:     time.Now,
	}
}

// NewWithPersistence creates a file store backed by a JSON file.
// Existing entries are loaded from the file on initialization and all changes
// (Set, Delete, Clear, lazy purges) are written back automatically.
func NewWithPersistence(filePath string) (*FileStore, error) {
	s := &FileStore{
		entries:  make(map[string]*cache.Entry),
		filePath: filePath,
		now:      time.Now,
	}

	// Create parent directory if it doesn't exist
	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return nil, err
	}

	if err := s.load(); err != nil && !os.IsNotExist(err) {
		return nil, err
	}

	return s, nil
}

// load reads the JSON file and populates the in-memory entries
func (s *FileStore) load() error {
	file, err := os.Open(s.filePath)
	if err != nil {
		return err
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return err
	}
	if stat.Size() == 0 {
		return nil
	}

	return s.loadFromReader(file)
}

func (s *FileStore) loadFromReader(reader io.Reader) error {
	var entries []*cache.Entry
	if err := json.NewDecoder(reader).Decode(&entries); err != nil {
		return err
	}

	s.entries = make(map[string]*cache.Entry, len(entries))
	for _, e := range entries {
		s.entries[e.Domain] = e
	}
	return nil
}

// save writes the in-memory entries to the JSON file.
// If no file path is configured, this is a no-op.
func (s *FileStore) save() error {
	if s.filePath == "" {
		return nil
	}

	entries := make([]*cache.Entry, 0, len(s.entries))
	for _, e := range s.entries {
		entries = append(entries, e)
	}

	file, err := os.Create(s.filePath)
	if err != nil {
		return err
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	return encoder.Encode(entries)
}

// Get retrieves the cached info for a domain, lazily purging it if expired
func (s *FileStore) Get(ctx context.Context, domain string) (*model.DomainInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, exists := s.entries[domain]
	if !exists {
		return nil, cache.ErrNotFound
	}

	if entry.Expired(s.now()) {
		delete(s.entries, domain)
		if err := s.save(); err != nil {
			return nil, err
		}
		return nil, cache.ErrNotFound
	}

	return entry.Info()
}

// Set upserts the cached info for a domain
func (s *FileStore) Set(ctx context.Context, domain string, info *model.DomainInfo, ttl time.Duration) error {
	entry, err := cache.NewEntry(domain, info, ttl, s.now())
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[domain] = entry
	return s.save()
}

// Delete removes the entry for a domain
func (s *FileStore) Delete(ctx context.Context, domain string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.entries[domain]; !exists {
		return nil
	}

	delete(s.entries, domain)
	return s.save()
}

// Clear removes all entries
func (s *FileStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = make(map[string]*cache.Entry)
	return s.save()
}

// Stats counts total and expired entries without mutating the store
func (s *FileStore) Stats(ctx context.Context) (cache.Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	now := s.now()
	stats := cache.Stats{TotalEntries: len(s.entries)}
	for _, entry := range s.entries {
		if entry.Expired(now) {
			stats.ExpiredEntries++
		}
	}
	stats.ActiveEntries = stats.TotalEntries - stats.ExpiredEntries
	return stats, nil
}
