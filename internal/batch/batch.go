// Package batch runs domain checks concurrently over a bounded worker pool
// and aggregates the per-domain results.
package batch

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/taxlien/domaincheck/internal/model"
)

// DefaultWorkers is the worker pool size used when none is configured
const DefaultWorkers = 10

// DomainChecker checks a single domain. *checker.Checker satisfies this
// interface; tests inject mocks.
type DomainChecker interface {
	Check(ctx context.Context, domain string) model.CheckResult
}

// Observer receives progress callbacks as results complete.
// Calls are serialized: implementations need no locking of their own.
type Observer interface {
	Progress(completed, total int, result model.CheckResult)
}

// Config holds batch execution configuration
type Config struct {
	// Workers bounds the number of concurrent checks (default 10)
	Workers int

	// ChunkDelay pauses dispatch after every Workers domains, spacing out
	// bursts against upstream WHOIS servers. Zero disables the pause.
	ChunkDelay time.Duration
}

func (c Config) withDefaults() Config {
	if c.Workers <= 0 {
		c.Workers = DefaultWorkers
	}
	return c
}

// Checker runs batches of domain checks
type Checker struct {
	checker  DomainChecker
	cfg      Config
	observer Observer
	logger   *slog.Logger

	mu        sync.Mutex
	completed int
}

// New creates a batch checker. observer may be nil when no progress
// reporting is wanted.
func New(domainChecker DomainChecker, cfg Config, observer Observer, logger *slog.Logger) *Checker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Checker{
		checker:  domainChecker,
		cfg:      cfg.withDefaults(),
		observer: observer,
		logger:   logger,
	}
}

// CheckDomains checks every domain concurrently, bounded by the configured
// worker count. Results come back in input order, one per input domain, and
// duplicates are checked independently.
//
// When ctx is cancelled, dispatch stops: in-flight checks finish, domains
// never dispatched get a failed result, and the partial batch is returned
// together with the context's error.
func (b *Checker) CheckDomains(ctx context.Context, domains []string) (*model.BatchResult, error) {
	start := time.Now()
	result := &model.BatchResult{
		TotalDomains: len(domains),
		Results:      make([]model.CheckResult, len(domains)),
	}
	if len(domains) == 0 {
		return result, nil
	}

	b.mu.Lock()
	b.completed = 0
	b.mu.Unlock()

	b.logger.Info("starting batch check", "domains", len(domains), "workers", b.cfg.Workers)

	sem := make(chan struct{}, b.cfg.Workers)
	var wg sync.WaitGroup

	var ctxErr error
	cancelRemaining := func(from int, err error) {
		ctxErr = err
		b.logger.Warn("batch cancelled, stopping dispatch", "dispatched", from, "total", len(domains))
		for j := from; j < len(domains); j++ {
			result.Results[j] = model.CheckResult{
				Domain:       domains[j],
				Success:      false,
				ErrorMessage: fmt.Sprintf("check cancelled: %v", err),
			}
		}
	}

dispatch:
	for i, domain := range domains {
		if err := ctx.Err(); err != nil {
			cancelRemaining(i, err)
			break dispatch
		}

		if b.cfg.ChunkDelay > 0 && i > 0 && i%b.cfg.Workers == 0 {
			select {
			case <-time.After(b.cfg.ChunkDelay):
			case <-ctx.Done():
				cancelRemaining(i, ctx.Err())
				break dispatch
			}
		}

		sem <- struct{}{}
		wg.Add(1)
		go func(idx int, d string) {
			defer wg.Done()
			defer func() { <-sem }()

			res := b.checker.Check(ctx, d)
			result.Results[idx] = res
			b.notify(len(domains), res)
		}(i, domain)
	}

	wg.Wait()

	for _, res := range result.Results {
		if res.Success {
			result.Successful++
		} else {
			result.Failed++
		}
		if res.Cached {
			result.CachedResults++
		}
	}
	result.TotalDuration = time.Since(start)

	b.logger.Info("batch check finished",
		"successful", result.Successful,
		"failed", result.Failed,
		"cached", result.CachedResults,
		"duration", result.TotalDuration)

	return result, ctxErr
}

// CheckDomainsFromFile reads a domain list from a file and checks it.
// The file holds one domain per line; blank lines and lines starting with
// '#' are skipped.
func (b *Checker) CheckDomainsFromFile(ctx context.Context, path string) (*model.BatchResult, error) {
	domains, err := ReadDomainsFile(path)
	if err != nil {
		return nil, err
	}
	return b.CheckDomains(ctx, domains)
}

// ReadDomainsFile parses a one-domain-per-line file, skipping blank lines
// and '#' comments
func ReadDomainsFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open domain list: %w", err)
	}
	defer f.Close()

	var domains []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		domains = append(domains, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read domain list: %w", err)
	}
	return domains, nil
}

// notify bumps the completed counter and invokes the observer under the
// batch mutex so callbacks never interleave
func (b *Checker) notify(total int, res model.CheckResult) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.completed++
	if b.observer != nil {
		b.observer.Progress(b.completed, total, res)
	}
}
