package scraper

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/internhub/backend/internal/domain"
)

// IndeedAdapter scrapes Indeed internship listings via the shared
// browser session.
type IndeedAdapter struct {
	session  *Session
	pipeline *Pipeline
	opts     AdapterOptions
	logger   *zap.Logger
}

// IndeedSearchTerms is the fixed term list this adapter walks.
var IndeedSearchTerms = []string{
	"internship software development",
	"internship data science",
	"internship marketing",
	"internship design",
}

// NewIndeedAdapter creates a new Indeed adapter
func NewIndeedAdapter(session *Session, pipeline *Pipeline, opts AdapterOptions, logger *zap.Logger) *IndeedAdapter {
	return &IndeedAdapter{session: session, pipeline: pipeline, opts: opts, logger: logger}
}

// Name returns the adapter name
func (a *IndeedAdapter) Name() string {
	return "Indeed"
}

// Platform returns the source platform
func (a *IndeedAdapter) Platform() domain.Platform {
	return domain.PlatformIndeed
}

// Fetch walks the search terms sequentially with a fixed pause between
// terms. A failed term is logged and skipped.
func (a *IndeedAdapter) Fetch(ctx context.Context, terms []string) (int, error) {
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
			a.logger.Warn("Indeed term failed",
				zap.String("term", term), zap.Error(err))
			continue
		}
		newCount += count
	}

	return newCount, nil
}

func (a *IndeedAdapter) fetchTerm(ctx context.Context, term string) (int, error) {
	searchURL := a.buildSearchURL(term)
	a.logger.Info("Scraping Indeed", zap.String("term", term), zap.String("url", searchURL))

	pageCtx, cancel, err := a.session.NewPageContext(a.opts.NavTimeout)
	if err != nil {
		return 0, err
	}
	defer cancel()

	html, err := a.session.FetchPage(pageCtx, searchURL, "[data-testid='jobsearch-ResultsList']", a.opts.WaitTimeout)
	if err != nil {
		a.logger.Debug("Indeed yielded no results", zap.String("term", term), zap.Error(err))
		return 0, nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return 0, err
	}

	listings := parseIndeedListings(doc)
	a.logger.Debug("Found Indeed listings",
		zap.String("term", term), zap.Int("count", len(listings)))

	newCount := 0
	for _, raw := range listings {
		if a.pipeline.Process(ctx, a.Platform(), raw) {
			newCount++
		}
	}
	return newCount, nil
}

func (a *IndeedAdapter) buildSearchURL(term string) string {
	params := url.Values{}
	params.Set("q", term)
	params.Set("jt", "internship")
	return "https://www.indeed.com/jobs?" + params.Encode()
}

// parseIndeedListings extracts raw listings from the rendered results
// list. Listings without both a title and company are dropped; salary
// presence decides paid vs unpaid downstream.
func parseIndeedListings(doc *goquery.Document) []domain.RawListing {
	var listings []domain.RawListing

	doc.Find("[data-testid='jobsearch-ResultsList'] > div").Each(func(i int, card *goquery.Selection) {
		raw := domain.RawListing{
			Title:    strings.TrimSpace(card.Find("h2").First().Text()),
			Company:  strings.TrimSpace(card.Find("[data-testid='company-name']").First().Text()),
			Location: strings.TrimSpace(card.Find("[data-testid='job-location']").First().Text()),
			Salary:   strings.TrimSpace(card.Find("[data-testid='attribute_snippet_compensation']").First().Text()),
		}

		if href, ok := card.Find("a[data-jk]").Attr("href"); ok {
			raw.URL = absoluteURL("https://www.indeed.com", href)
		}

		if raw.Title == "" || raw.Company == "" {
			return
		}

		paid := raw.Salary != ""
		raw.Paid = &paid

		listings = append(listings, raw)
	})

	return listings
}
