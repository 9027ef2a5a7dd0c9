package scraper

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/internhub/backend/internal/domain"
)

// GlassdoorAdapter scrapes Glassdoor internship listings over plain
// HTTP. Glassdoor's search pages render server-side, so no browser
// session is needed; the response HTML is parsed directly.
type GlassdoorAdapter struct {
	client    *http.Client
	userAgent string
	termDelay time.Duration
	pipeline  *Pipeline
	logger    *zap.Logger
}

// GlassdoorSearchTerms is the fixed term list this adapter walks.
var GlassdoorSearchTerms = []string{
	"internship software",
	"internship data",
	"internship marketing",
}

// NewGlassdoorAdapter creates a new Glassdoor adapter. client may be
// nil, in which case a default client with a 30s timeout is used.
func NewGlassdoorAdapter(client *http.Client, userAgent string, termDelay time.Duration, pipeline *Pipeline, logger *zap.Logger) *GlassdoorAdapter {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &GlassdoorAdapter{
		client:    client,
		userAgent: userAgent,
		termDelay: termDelay,
		pipeline:  pipeline,
		logger:    logger,
	}
}

// Name returns the adapter name
func (a *GlassdoorAdapter) Name() string {
	return "Glassdoor"
}

// Platform returns the source platform
func (a *GlassdoorAdapter) Platform() domain.Platform {
	return domain.PlatformGlassdoor
}

// Fetch walks the search terms sequentially with a fixed pause between
// terms. A failed term is logged and skipped.
func (a *GlassdoorAdapter) Fetch(ctx context.Context, terms []string) (int, error) {
	newCount := 0

	for i, term := range terms {
		if i > 0 {
			pauseBetweenTerms(ctx, a.termDelay)
		}

		count, err := a.fetchTerm(ctx, term)
		if err != nil {
			a.logger.Warn("Glassdoor term failed",
				zap.String("term", term), zap.Error(err))
			continue
		}
		newCount += count
	}

	return newCount, nil
}

func (a *GlassdoorAdapter) fetchTerm(ctx context.Context, term string) (int, error) {
	searchURL := a.buildSearchURL(term)
	a.logger.Info("Scraping Glassdoor", zap.String("term", term), zap.String("url", searchURL))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return 0, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", a.userAgent)
	req.Header.Set("Accept", "text/html")

	resp, err := a.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return 0, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("parse response: %w", err)
	}

	listings := parseGlassdoorListings(doc)
	a.logger.Debug("Found Glassdoor listings",
		zap.String("term", term), zap.Int("count", len(listings)))

	newCount := 0
	for _, raw := range listings {
		if a.pipeline.Process(ctx, a.Platform(), raw) {
			newCount++
		}
	}
	return newCount, nil
}

func (a *GlassdoorAdapter) buildSearchURL(term string) string {
	slug := strings.ReplaceAll(strings.TrimSpace(term), " ", "-")
	return "https://www.glassdoor.com/Job/" + url.PathEscape(slug) + "-jobs-SRCH_KO0," +
		fmt.Sprintf("%d", len(slug)) + ".htm"
}

// parseGlassdoorListings extracts raw listings from a search results
// document. Listings without both a title and employer are dropped.
func parseGlassdoorListings(doc *goquery.Document) []domain.RawListing {
	var listings []domain.RawListing

	doc.Find(".react-job-listing").Each(func(i int, card *goquery.Selection) {
		raw := domain.RawListing{
			Title:    strings.TrimSpace(card.Find(".jobLink").First().Text()),
			Company:  strings.TrimSpace(card.Find(".employerName").First().Text()),
			Location: strings.TrimSpace(card.Find(".location").First().Text()),
			Salary:   strings.TrimSpace(card.Find(".salary-estimate").First().Text()),
		}

		if href, ok := card.Find(".jobLink").First().Attr("href"); ok {
			raw.URL = absoluteURL("https://www.glassdoor.com", href)
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
