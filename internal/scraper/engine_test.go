package scraper

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/internhub/backend/internal/domain"
)

type fakeSession struct {
	mu       sync.Mutex
	acquires int
	releases int
	fail     error
}

func (s *fakeSession) Acquire(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail != nil {
		return s.fail
	}
	s.acquires++
	return nil
}

func (s *fakeSession) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.releases++
}

type fakeAdapter struct {
	name    string
	count   int
	err     error
	started chan struct{}
	release chan struct{}

	mu    sync.Mutex
	calls int
}

func (a *fakeAdapter) Name() string              { return a.name }
func (a *fakeAdapter) Platform() domain.Platform { return domain.PlatformManual }

func (a *fakeAdapter) Fetch(ctx context.Context, terms []string) (int, error) {
	a.mu.Lock()
	a.calls++
	a.mu.Unlock()
	if a.started != nil {
		close(a.started)
	}
	if a.release != nil {
		<-a.release
	}
	return a.count, a.err
}

func (a *fakeAdapter) fetchCalls() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.calls
}

type fakeNotifier struct {
	mu     sync.Mutex
	counts []int
}

func (n *fakeNotifier) NotifyNewInternships(ctx context.Context, count int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.counts = append(n.counts, count)
}

func (n *fakeNotifier) sent() []int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]int{}, n.counts...)
}

func sourcesFor(adapters ...*fakeAdapter) []SourceConfig {
	var sources []SourceConfig
	for _, a := range adapters {
		sources = append(sources, SourceConfig{Adapter: a, Terms: []string{"internship"}})
	}
	return sources
}

func TestEngineAggregatesAcrossSources(t *testing.T) {
	session := &fakeSession{}
	notifier := &fakeNotifier{}
	ok1 := &fakeAdapter{name: "one", count: 3}
	ok2 := &fakeAdapter{name: "two", count: 2}
	bad := &fakeAdapter{name: "bad", err: errors.New("blocked")}

	engine := NewEngine(session, sourcesFor(ok1, ok2, bad), notifier, zap.NewNop())

	err := engine.RunFullScrape(context.Background())
	require.NoError(t, err)

	stats := engine.Stats()
	assert.Equal(t, 5, stats.TotalScraped)
	assert.Equal(t, 5, stats.NewInternships)
	assert.Equal(t, 1, stats.Errors)
	require.NotNil(t, stats.LastScraped)
	assert.WithinDuration(t, time.Now(), *stats.LastScraped, 5*time.Second)

	assert.Equal(t, 1, session.acquires)
	assert.Equal(t, 1, session.releases)
	assert.Equal(t, []int{5}, notifier.sent())
}

func TestEngineSingleFlight(t *testing.T) {
	session := &fakeSession{}
	slow := &fakeAdapter{
		name:    "slow",
		count:   1,
		started: make(chan struct{}),
		release: make(chan struct{}),
	}

	engine := NewEngine(session, sourcesFor(slow), nil, zap.NewNop())

	done := make(chan error, 1)
	go func() {
		done <- engine.RunFullScrape(context.Background())
	}()

	select {
	case <-slow.started:
	case <-time.After(2 * time.Second):
		t.Fatal("first run never started")
	}

	assert.True(t, engine.Running())

	// Overlapping trigger must be dropped without touching the session.
	require.NoError(t, engine.RunFullScrape(context.Background()))
	assert.Equal(t, 1, slow.fetchCalls())
	assert.Equal(t, 1, session.acquires)

	close(slow.release)
	require.NoError(t, <-done)

	assert.False(t, engine.Running())
	assert.Equal(t, 1, engine.Stats().TotalScraped)
}

func TestEngineSessionFailureAborts(t *testing.T) {
	session := &fakeSession{fail: errors.New("chrome missing")}
	notifier := &fakeNotifier{}
	adapter := &fakeAdapter{name: "one", count: 4}

	engine := NewEngine(session, sourcesFor(adapter), notifier, zap.NewNop())

	err := engine.RunFullScrape(context.Background())
	require.Error(t, err)

	assert.Equal(t, 0, adapter.fetchCalls())
	assert.Equal(t, 1, engine.Stats().Errors)
	assert.Nil(t, engine.Stats().LastScraped)
	assert.Empty(t, notifier.sent())
	assert.Equal(t, 0, session.releases)

	// A failed run must not leave the engine wedged.
	assert.False(t, engine.Running())
}

func TestEngineNotifiesZeroResults(t *testing.T) {
	session := &fakeSession{}
	notifier := &fakeNotifier{}
	empty := &fakeAdapter{name: "empty", count: 0}

	engine := NewEngine(session, sourcesFor(empty), notifier, zap.NewNop())

	require.NoError(t, engine.RunFullScrape(context.Background()))
	assert.Equal(t, []int{0}, notifier.sent())
}

func TestEngineStatsAccumulateAcrossRuns(t *testing.T) {
	session := &fakeSession{}
	adapter := &fakeAdapter{name: "one", count: 3}

	engine := NewEngine(session, sourcesFor(adapter), nil, zap.NewNop())

	require.NoError(t, engine.RunFullScrape(context.Background()))
	require.NoError(t, engine.RunFullScrape(context.Background()))

	stats := engine.Stats()
	assert.Equal(t, 6, stats.TotalScraped)
	assert.Equal(t, 3, stats.NewInternships)
	assert.Equal(t, 2, session.releases)
}
