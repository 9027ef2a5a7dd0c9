package scraper

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/internhub/backend/internal/domain"
)

// InternshipsAdapter pulls listings from the internships.com JSON API.
// This source exposes a structured payload, so there is no browser or
// HTML parsing involved and the whole feed is fetched in one request;
// search terms are passed as a query filter.
type InternshipsAdapter struct {
	client    *http.Client
	baseURL   string
	userAgent string
	termDelay time.Duration
	pipeline  *Pipeline
	logger    *zap.Logger
}

// InternshipsSearchTerms is the fixed term list this adapter walks.
var InternshipsSearchTerms = []string{
	"internship",
}

// internshipsResponse mirrors the API payload.
type internshipsResponse struct {
	Internships []internshipsEntry `json:"internships"`
}

type internshipsEntry struct {
	Title        string  `json:"title"`
	Company      string  `json:"company"`
	Location     string  `json:"location"`
	Description  string  `json:"description"`
	Duration     string  `json:"duration"`
	StartDate    string  `json:"startDate"`
	Paid         bool    `json:"paid"`
	Salary       float64 `json:"salary"`
	Compensation string  `json:"compensation"`
	URL          string  `json:"url"`
}

// NewInternshipsAdapter creates a new internships.com API adapter.
// client may be nil, in which case a default client with a 10s timeout
// is used.
func NewInternshipsAdapter(client *http.Client, baseURL, userAgent string, termDelay time.Duration, pipeline *Pipeline, logger *zap.Logger) *InternshipsAdapter {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &InternshipsAdapter{
		client:    client,
		baseURL:   strings.TrimSuffix(baseURL, "/"),
		userAgent: userAgent,
		termDelay: termDelay,
		pipeline:  pipeline,
		logger:    logger,
	}
}

// Name returns the adapter name
func (a *InternshipsAdapter) Name() string {
	return "Internships.com"
}

// Platform returns the source platform
func (a *InternshipsAdapter) Platform() domain.Platform {
	return domain.PlatformInternships
}

// Fetch queries the API once per search term and feeds every decoded
// entry through the pipeline. A failed term is logged and skipped.
func (a *InternshipsAdapter) Fetch(ctx context.Context, terms []string) (int, error) {
	newCount := 0

	for i, term := range terms {
		if i > 0 {
			pauseBetweenTerms(ctx, a.termDelay)
		}

		count, err := a.fetchTerm(ctx, term)
		if err != nil {
			a.logger.Warn("Internships.com term failed",
				zap.String("term", term), zap.Error(err))
			continue
		}
		newCount += count
	}

	return newCount, nil
}

func (a *InternshipsAdapter) fetchTerm(ctx context.Context, term string) (int, error) {
	entries, err := a.search(ctx, term)
	if err != nil {
		return 0, err
	}

	a.logger.Debug("Found Internships.com listings",
		zap.String("term", term), zap.Int("count", len(entries)))

	newCount := 0
	for _, entry := range entries {
		if a.pipeline.Process(ctx, a.Platform(), entry.toRawListing()) {
			newCount++
		}
	}
	return newCount, nil
}

func (a *InternshipsAdapter) search(ctx context.Context, term string) ([]internshipsEntry, error) {
	params := url.Values{}
	params.Set("q", term)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", a.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var payload internshipsResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	return payload.Internships, nil
}

// toRawListing maps an API entry onto the adapter-local raw listing.
func (e internshipsEntry) toRawListing() domain.RawListing {
	paid := e.Paid
	raw := domain.RawListing{
		Title:        e.Title,
		Company:      e.Company,
		Location:     e.Location,
		Description:  e.Description,
		Duration:     e.Duration,
		URL:          e.URL,
		Paid:         &paid,
		SalaryAmount: e.Salary,
		Salary:       e.Compensation,
	}

	if e.StartDate != "" {
		if t, err := time.Parse(time.RFC3339, e.StartDate); err == nil {
			raw.StartDate = &t
		} else if t, err := time.Parse("2006-01-02", e.StartDate); err == nil {
			raw.StartDate = &t
		}
	}

	return raw
}
