package scraper

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/internhub/backend/internal/domain"
)

// AdapterOptions holds the pacing and timeout knobs shared by the
// browser-driven adapters.
type AdapterOptions struct {
	NavTimeout  time.Duration
	WaitTimeout time.Duration
	TermDelay   time.Duration
}

// DefaultAdapterOptions returns sensible defaults
func DefaultAdapterOptions() AdapterOptions {
	return AdapterOptions{
		NavTimeout:  30 * time.Second,
		WaitTimeout: 15 * time.Second,
		TermDelay:   2 * time.Second,
	}
}

// LinkedInAdapter scrapes LinkedIn internship listings via the shared
// browser session.
type LinkedInAdapter struct {
	session  *Session
	pipeline *Pipeline
	opts     AdapterOptions
	logger   *zap.Logger
}

// LinkedInSearchTerms is the fixed term list this adapter walks.
var LinkedInSearchTerms = []string{
	"software development intern",
	"data science intern",
	"marketing intern",
	"design intern",
	"engineering intern",
}

// NewLinkedInAdapter creates a new LinkedIn adapter
func NewLinkedInAdapter(session *Session, pipeline *Pipeline, opts AdapterOptions, logger *zap.Logger) *LinkedInAdapter {
	return &LinkedInAdapter{session: session, pipeline: pipeline, opts: opts, logger: logger}
}

// Name returns the adapter name
func (a *LinkedInAdapter) Name() string {
	return "LinkedIn"
}

// Platform returns the source platform
func (a *LinkedInAdapter) Platform() domain.Platform {
	return domain.PlatformLinkedIn
}

// Fetch walks the search terms sequentially, pausing between terms to
// avoid ban signals. A failed term is logged and skipped.
func (a *LinkedInAdapter) Fetch(ctx context.Context, terms []string) (int, error) {
	newCount := 0

	for i, term := range terms {
		if i > 0 {
			pauseBetweenTerms(ctx, a.opts.TermDelay)
		}

		count, err := a.fetchTerm(ctx, term)
		if err != nil {
			if errors.Is(err, ErrSessionNotStarted) {
				return newCount, err
			}
			a.logger.Warn("LinkedIn term failed",
				zap.String("term", term), zap.Error(err))
			continue
		}
		newCount += count
	}

	return newCount, nil
}

func (a *LinkedInAdapter) fetchTerm(ctx context.Context, term string) (int, error) {
	searchURL := a.buildSearchURL(term)
	a.logger.Info("Scraping LinkedIn", zap.String("term", term), zap.String("url", searchURL))

	pageCtx, cancel, err := a.session.NewPageContext(a.opts.NavTimeout)
	if err != nil {
		return 0, err
	}
	defer cancel()

	html, err := a.session.FetchPage(pageCtx, searchURL, ".job-card-container", a.opts.WaitTimeout)
	if err != nil {
		// Timeouts mean the source yielded nothing for this term.
		a.logger.Debug("LinkedIn yielded no results", zap.String("term", term), zap.Error(err))
		return 0, nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return 0, err
	}

	listings := parseLinkedInListings(doc)
	a.logger.Debug("Found LinkedIn listings",
		zap.String("term", term), zap.Int("count", len(listings)))

	newCount := 0
	for _, raw := range listings {
		if a.pipeline.Process(ctx, a.Platform(), raw) {
			newCount++
		}
	}
	return newCount, nil
}

func (a *LinkedInAdapter) buildSearchURL(term string) string {
	params := url.Values{}
	params.Set("keywords", term)
	params.Set("f_E", "1") // entry level
	params.Set("f_JT", "I") // internships
	return "https://www.linkedin.com/jobs/search/?" + params.Encode()
}

// parseLinkedInListings extracts raw listings from the rendered search
// results. Listings without both a title and company are dropped.
func parseLinkedInListings(doc *goquery.Document) []domain.RawListing {
	var listings []domain.RawListing

	doc.Find(".job-card-container").Each(func(i int, card *goquery.Selection) {
		raw := domain.RawListing{
			Title:    strings.TrimSpace(card.Find(".job-card-list__title, .job-card-container__link").First().Text()),
			Company:  strings.TrimSpace(card.Find(".artdeco-entity-lockup__subtitle").First().Text()),
			Location: strings.TrimSpace(card.Find(".job-card-container__metadata-wrapper li").First().Text()),
		}

		if href, ok := card.Find("a.job-card-container__link").Attr("href"); ok {
			raw.URL = absoluteURL("https://www.linkedin.com", href)
		}
		if src, ok := card.Find("img.ivm-view-attr__img--centered").Attr("src"); ok {
			raw.LogoURL = src
		}
		if id, ok := card.Attr("data-job-id"); ok {
			raw.ExternalID = id
		}

		if raw.Title == "" || raw.Company == "" {
			return
		}
		listings = append(listings, raw)
	})

	return listings
}

// absoluteURL resolves a possibly-relative href against base.
func absoluteURL(base, href string) string {
	if strings.HasPrefix(href, "/") {
		return base + href
	}
	return href
}
