package scraper

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/internhub/backend/internal/domain"
)

// SessionManager is the acquire/release contract the engine drives.
// The shared browser session is acquired once per run and released
// once per run, by the engine only — never by adapters.
type SessionManager interface {
	Acquire(ctx context.Context) error
	Release()
}

// Notifier fans a completed run's new-listing count out to subscribers.
// Delivery is best-effort; implementations must not block a run on
// transport failures.
type Notifier interface {
	NotifyNewInternships(ctx context.Context, count int)
}

// SourceConfig binds an adapter to its fixed search-term list.
type SourceConfig struct {
	Adapter Adapter
	Terms   []string
}

// Engine coordinates a full scrape across all configured sources:
// single-flight execution, concurrent adapter fan-out with
// partial-failure isolation, run statistics, and notification fan-out.
type Engine struct {
	session  SessionManager
	sources  []SourceConfig
	notifier Notifier
	logger   *zap.Logger

	running atomic.Bool

	mu    sync.Mutex
	stats domain.RunStats
}

// NewEngine creates an engine. notifier may be nil to disable fan-out.
func NewEngine(session SessionManager, sources []SourceConfig, notifier Notifier, logger *zap.Logger) *Engine {
	return &Engine{
		session:  session,
		sources:  sources,
		notifier: notifier,
		logger:   logger,
	}
}

// RunFullScrape executes one run across all sources. Overlapping
// triggers are coalesced: if a run is already in progress the call
// returns immediately with no effect. Only a session startup failure
// aborts a run; adapter failures are contained and counted.
func (e *Engine) RunFullScrape(ctx context.Context) error {
	if !e.running.CompareAndSwap(false, true) {
		e.logger.Warn("Scrape already in progress, trigger dropped")
		return nil
	}
	defer e.running.Store(false)

	e.logger.Info("Starting scrape run", zap.Int("sources", len(e.sources)))

	if err := e.session.Acquire(ctx); err != nil {
		e.mu.Lock()
		e.stats.Errors++
		e.mu.Unlock()
		return fmt.Errorf("acquire browser session: %w", err)
	}
	defer e.session.Release()

	type outcome struct {
		name  string
		count int
		err   error
	}

	results := make(chan outcome, len(e.sources))
	var wg sync.WaitGroup

	for _, src := range e.sources {
		wg.Add(1)
		go func(src SourceConfig) {
			defer wg.Done()
			count, err := src.Adapter.Fetch(ctx, src.Terms)
			results <- outcome{name: src.Adapter.Name(), count: count, err: err}
		}(src)
	}

	wg.Wait()
	close(results)

	totalNew := 0
	failed := 0
	for r := range results {
		if r.err != nil {
			e.logger.Error("Source failed", zap.String("source", r.name), zap.Error(r.err))
			failed++
			continue
		}
		e.logger.Info("Source completed",
			zap.String("source", r.name), zap.Int("new", r.count))
		totalNew += r.count
	}

	now := time.Now()
	e.mu.Lock()
	e.stats.TotalScraped += totalNew
	e.stats.NewInternships = totalNew
	e.stats.Errors += failed
	e.stats.LastScraped = &now
	e.mu.Unlock()

	e.logger.Info("Scrape run completed",
		zap.Int("new_internships", totalNew), zap.Int("failed_sources", failed))

	if e.notifier != nil {
		e.notifier.NotifyNewInternships(ctx, totalNew)
	}

	return nil
}

// ManualScrape triggers a run on demand. It shares RunFullScrape's
// single-flight semantics.
func (e *Engine) ManualScrape(ctx context.Context) error {
	e.logger.Info("Manual scrape triggered")
	return e.RunFullScrape(ctx)
}

// Running reports whether a run is currently in progress.
func (e *Engine) Running() bool {
	return e.running.Load()
}

// Stats returns a snapshot of the run statistics.
func (e *Engine) Stats() domain.RunStats {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stats
}
