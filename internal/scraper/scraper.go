package scraper

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/internhub/backend/internal/domain"
	"github.com/internhub/backend/internal/normalize"
)

// Adapter is implemented by each external listing source. Fetch walks
// the adapter's search terms sequentially (self-throttled against the
// target), feeds every extracted listing through the pipeline, and
// returns the number of newly persisted internships. A per-term failure
// is logged and skipped; only a whole-adapter failure is returned as an
// error, and the orchestrator counts it without cancelling siblings.
type Adapter interface {
	// Name returns the human-readable adapter name
	Name() string

	// Platform returns the source platform
	Platform() domain.Platform

	// Fetch scrapes all search terms and returns the count of newly
	// persisted internships
	Fetch(ctx context.Context, terms []string) (int, error)
}

// Saver is the persistence gate an adapter hands candidates to.
// It reports true only for newly created records.
type Saver interface {
	Save(ctx context.Context, in *domain.Internship) bool
}

// ContactSource enriches a listing from its detail page. It never
// fails; at worst it returns an empty ContactInfo.
type ContactSource interface {
	Extract(ctx context.Context, url string) domain.ContactInfo
}

// Pipeline is the shared per-listing path: optional contact enrichment,
// normalization, then the dedup/persistence gate.
type Pipeline struct {
	saver    Saver
	contacts ContactSource
	logger   *zap.Logger
	now      func() time.Time
}

// NewPipeline creates a pipeline. contacts may be nil to disable
// enrichment entirely.
func NewPipeline(saver Saver, contacts ContactSource, logger *zap.Logger) *Pipeline {
	return &Pipeline{
		saver:    saver,
		contacts: contacts,
		logger:   logger,
		now:      time.Now,
	}
}

// Process runs one raw listing through enrichment, normalization, and
// the persistence gate. It reports whether a new record was created.
func (p *Pipeline) Process(ctx context.Context, platform domain.Platform, raw domain.RawListing) bool {
	var contact domain.ContactInfo
	if p.contacts != nil && raw.URL != "" {
		contact = p.contacts.Extract(ctx, raw.URL)
	}

	in := normalize.Build(raw, platform, contact, p.now())
	saved := p.saver.Save(ctx, in)
	if saved {
		p.logger.Info("Saved new internship",
			zap.String("platform", string(platform)),
			zap.String("title", in.Title),
			zap.String("company", in.CompanyName),
		)
	}
	return saved
}

// Registry manages the configured source adapters
type Registry struct {
	adapters map[domain.Platform]Adapter
	order    []domain.Platform
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{adapters: make(map[domain.Platform]Adapter)}
}

// Register adds an adapter, preserving registration order
func (r *Registry) Register(a Adapter) {
	if _, ok := r.adapters[a.Platform()]; !ok {
		r.order = append(r.order, a.Platform())
	}
	r.adapters[a.Platform()] = a
}

// Get retrieves an adapter by platform
func (r *Registry) Get(platform domain.Platform) (Adapter, bool) {
	a, ok := r.adapters[platform]
	return a, ok
}

// All returns all registered adapters in registration order
func (r *Registry) All() []Adapter {
	adapters := make([]Adapter, 0, len(r.adapters))
	for _, p := range r.order {
		adapters = append(adapters, r.adapters[p])
	}
	return adapters
}

// pauseBetweenTerms sleeps the fixed inter-term delay, a simple
// self-imposed backpressure policy against the target site.
func pauseBetweenTerms(ctx context.Context, delay time.Duration) {
	if delay <= 0 {
		return
	}
	select {
	case <-time.After(delay):
	case <-ctx.Done():
	}
}
