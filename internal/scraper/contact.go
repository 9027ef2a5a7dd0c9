package scraper

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/internhub/backend/internal/domain"
)

// contactNameSelectors are tried in priority order; the first non-empty
// match wins. These track the detail-page markup of the browser-driven
// sources and can be extended without touching the extraction flow.
var contactNameSelectors = []string{
	".job-details-jobs-unified-top-card__job-insight",
	".job-details-jobs-unified-top-card__company-name",
	"[data-testid='job-details-jobs-unified-top-card__company-name']",
	".job-details-jobs-unified-top-card__job-title",
}

var (
	emailPattern   = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)
	profilePattern = regexp.MustCompile(`https?://(www\.)?linkedin\.com/in/[a-zA-Z0-9-]+/?`)
	phonePattern   = regexp.MustCompile(`\+?[\d\s\-()]{10,}`)
	phoneStrip     = regexp.MustCompile(`[\s\-()]`)
)

// emailPlaceholders are substrings that mark an address as a mailer
// sentinel rather than a human contact.
var emailPlaceholders = []string{
	"noreply",
	"no-reply",
	"donotreply",
	"example.com",
	"test.com",
}

// ContactExtractor recovers a best-effort contact block from a
// listing's detail page. Extract never surfaces an error: internal
// failures degrade to an empty result.
type ContactExtractor struct {
	session *Session
	logger  *zap.Logger

	navTimeout  time.Duration
	settleDelay time.Duration
}

// NewContactExtractor creates an extractor over the shared session.
func NewContactExtractor(session *Session, navTimeout, settleDelay time.Duration, logger *zap.Logger) *ContactExtractor {
	return &ContactExtractor{
		session:     session,
		logger:      logger,
		navTimeout:  navTimeout,
		settleDelay: settleDelay,
	}
}

// Extract navigates to the detail URL, waits briefly for dynamic
// content, and scans the rendered document for a contact name, email,
// profile link, and phone number. All four sub-extractions are
// independent; any subset may come back empty.
func (e *ContactExtractor) Extract(ctx context.Context, url string) domain.ContactInfo {
	pageCtx, cancel, err := e.session.NewPageContext(e.navTimeout)
	if err != nil {
		e.logger.Debug("Contact extraction skipped", zap.String("url", url), zap.Error(err))
		return domain.ContactInfo{}
	}
	defer cancel()

	html, err := e.session.RenderedHTML(pageCtx, url, e.settleDelay)
	if err != nil {
		e.logger.Debug("Could not load detail page for contact info",
			zap.String("url", url), zap.Error(err))
		return domain.ContactInfo{}
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		e.logger.Debug("Could not parse detail page", zap.String("url", url), zap.Error(err))
		return domain.ContactInfo{}
	}

	return scanContactInfo(doc)
}

// scanContactInfo runs the four best-effort sub-extractions over a
// parsed document.
func scanContactInfo(doc *goquery.Document) domain.ContactInfo {
	text := doc.Text()
	return domain.ContactInfo{
		Name:    findContactName(doc),
		Email:   findContactEmail(text),
		Profile: findProfileLink(text),
		Phone:   findContactPhone(text),
	}
}

func findContactName(doc *goquery.Document) string {
	for _, selector := range contactNameSelectors {
		if name := strings.TrimSpace(doc.Find(selector).First().Text()); name != "" {
			return name
		}
	}
	return ""
}

// findContactEmail returns the first email in the text that is not an
// obvious placeholder.
func findContactEmail(text string) string {
	for _, email := range emailPattern.FindAllString(text, -1) {
		if isPlaceholderEmail(email) {
			continue
		}
		return email
	}
	return ""
}

func isPlaceholderEmail(email string) bool {
	lower := strings.ToLower(email)
	for _, marker := range emailPlaceholders {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

// findProfileLink returns the first professional-profile URL found.
func findProfileLink(text string) string {
	return profilePattern.FindString(text)
}

// findContactPhone returns the first phone-shaped substring with at
// least 10 digits after stripping separators, skipping sentinel-looking
// numbers (repeated 000/999 blocks).
func findContactPhone(text string) string {
	for _, candidate := range phonePattern.FindAllString(text, -1) {
		stripped := phoneStrip.ReplaceAllString(candidate, "")
		digits := strings.TrimPrefix(stripped, "+")
		if len(digits) < 10 {
			continue
		}
		if strings.Contains(digits, "000") || strings.Contains(digits, "999") {
			continue
		}
		return strings.TrimSpace(candidate)
	}
	return ""
}
