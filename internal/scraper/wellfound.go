package scraper

import (
	"context"
	"errors"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/internhub/backend/internal/domain"
)

// WellfoundAdapter scrapes Wellfound (formerly AngelList) startup
// internships. Wellfound renders company cards that each carry several
// role rows, so extraction walks cards and flattens their nested
// listings.
type WellfoundAdapter struct {
	session  *Session
	pipeline *Pipeline
	opts     AdapterOptions
	logger   *zap.Logger
}

// WellfoundSearchTerms is the fixed term list this adapter walks; each
// term is mapped to a role slug in the search URL.
var WellfoundSearchTerms = []string{
	"software engineer",
	"data scientist",
	"designer",
}

// NewWellfoundAdapter creates a new Wellfound adapter
func NewWellfoundAdapter(session *Session, pipeline *Pipeline, opts AdapterOptions, logger *zap.Logger) *WellfoundAdapter {
	return &WellfoundAdapter{session: session, pipeline: pipeline, opts: opts, logger: logger}
}

// Name returns the adapter name
func (a *WellfoundAdapter) Name() string {
	return "Wellfound"
}

// Platform returns the source platform
func (a *WellfoundAdapter) Platform() domain.Platform {
	return domain.PlatformWellfound
}

// Fetch walks the search terms sequentially with a fixed pause between
// terms. A failed term is logged and skipped.
func (a *WellfoundAdapter) Fetch(ctx context.Context, terms []string) (int, error) {
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
			a.logger.Warn("Wellfound term failed",
				zap.String("term", term), zap.Error(err))
			continue
		}
		newCount += count
	}

	return newCount, nil
}

func (a *WellfoundAdapter) fetchTerm(ctx context.Context, term string) (int, error) {
	searchURL := a.buildSearchURL(term)
	a.logger.Info("Scraping Wellfound", zap.String("term", term), zap.String("url", searchURL))

	pageCtx, cancel, err := a.session.NewPageContext(a.opts.NavTimeout)
	if err != nil {
		return 0, err
	}
	defer cancel()

	html, err := a.session.FetchPage(pageCtx, searchURL, "[data-test='StartupResult']", a.opts.WaitTimeout)
	if err != nil {
		a.logger.Debug("Wellfound yielded no results", zap.String("term", term), zap.Error(err))
		return 0, nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return 0, err
	}

	listings := parseWellfoundListings(doc)
	a.logger.Debug("Found Wellfound listings",
		zap.String("term", term), zap.Int("count", len(listings)))

	newCount := 0
	for _, raw := range listings {
		if a.pipeline.Process(ctx, a.Platform(), raw) {
			newCount++
		}
	}
	return newCount, nil
}

func (a *WellfoundAdapter) buildSearchURL(term string) string {
	return "https://wellfound.com/role/l/" + a.mapTermToRole(term) + "?job_types%5B%5D=intern"
}

func (a *WellfoundAdapter) mapTermToRole(term string) string {
	term = strings.ToLower(term)

	roleMap := map[string]string{
		"software engineer": "software-engineer",
		"frontend":          "frontend-engineer",
		"backend":           "backend-engineer",
		"data scientist":    "data-scientist",
		"data engineer":     "data-engineer",
		"designer":          "designer",
		"marketing":         "marketing",
	}

	for key, value := range roleMap {
		if strings.Contains(term, key) {
			return value
		}
	}
	return "software-engineer"
}

// parseWellfoundListings flattens company cards into one raw listing
// per nested role row. Rows without a title are dropped.
func parseWellfoundListings(doc *goquery.Document) []domain.RawListing {
	var listings []domain.RawListing

	doc.Find("[data-test='StartupResult']").Each(func(i int, card *goquery.Selection) {
		company := strings.TrimSpace(card.Find("[data-test='StartupName']").First().Text())
		if company == "" {
			company = strings.TrimSpace(card.Find("h2").First().Text())
		}
		if company == "" {
			return
		}

		logo, _ := card.Find("img").First().Attr("src")

		card.Find("[data-test='JobListing']").Each(func(j int, row *goquery.Selection) {
			raw := domain.RawListing{
				Company:  company,
				LogoURL:  logo,
				Title:    strings.TrimSpace(row.Find("[data-test='JobTitle']").First().Text()),
				Location: strings.TrimSpace(row.Find("[data-test='JobLocation']").First().Text()),
				Salary:   strings.TrimSpace(row.Find("[data-test='JobSalary']").First().Text()),
			}

			if raw.Title == "" {
				raw.Title = strings.TrimSpace(row.Find("a[href*='/jobs/']").First().Text())
			}
			if raw.Title == "" {
				return
			}

			if href, ok := row.Find("a[href*='/jobs/']").First().Attr("href"); ok {
				raw.URL = absoluteURL("https://wellfound.com", href)
			} else if href, ok := row.Attr("href"); ok {
				raw.URL = absoluteURL("https://wellfound.com", href)
			}

			raw.Description = "Startup internship opportunity at " + company
			raw.ExtraCategories = []string{domain.CategoryStartup}

			listings = append(listings, raw)
		})
	})

	return listings
}
