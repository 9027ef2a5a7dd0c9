package scraper

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/internhub/backend/internal/domain"
	"github.com/internhub/backend/internal/normalize"
)

func docFromHTML(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

// recordingSaver accepts everything and remembers what it saw.
type recordingSaver struct {
	mu    sync.Mutex
	saved []*domain.Internship
}

func (s *recordingSaver) Save(ctx context.Context, in *domain.Internship) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saved = append(s.saved, in)
	return true
}

func TestParseLinkedInListings(t *testing.T) {
	doc := docFromHTML(t, `
		<div class="job-card-container" data-job-id="3801">
			<a class="job-card-container__link" href="/jobs/view/3801">
				<span class="job-card-list__title">Software Development Intern</span>
			</a>
			<div class="artdeco-entity-lockup__subtitle">TechCorp</div>
			<ul class="job-card-container__metadata-wrapper"><li> Casablanca, Grand Casablanca, Morocco </li></ul>
			<img class="ivm-view-attr__img--centered" src="https://cdn.example.org/logo.png"/>
		</div>
		<div class="job-card-container">
			<span class="job-card-list__title">Orphan listing without company</span>
		</div>`)

	listings := parseLinkedInListings(doc)
	require.Len(t, listings, 1)

	raw := listings[0]
	assert.Equal(t, "Software Development Intern", raw.Title)
	assert.Equal(t, "TechCorp", raw.Company)
	assert.Equal(t, "Casablanca, Grand Casablanca, Morocco", raw.Location)
	assert.Equal(t, "https://www.linkedin.com/jobs/view/3801", raw.URL)
	assert.Equal(t, "https://cdn.example.org/logo.png", raw.LogoURL)
	assert.Equal(t, "3801", raw.ExternalID)
}

func TestParseIndeedListings(t *testing.T) {
	doc := docFromHTML(t, `
		<div data-testid="jobsearch-ResultsList">
			<div>
				<h2>Data Science Intern</h2>
				<span data-testid="company-name">DataWorks</span>
				<div data-testid="job-location">Remote</div>
				<div data-testid="attribute_snippet_compensation">$20 an hour</div>
				<a data-jk="abc123" href="/viewjob?jk=abc123"></a>
			</div>
			<div>
				<h2>Marketing Intern</h2>
				<span data-testid="company-name">AdHouse</span>
				<div data-testid="job-location">Rabat, Morocco</div>
			</div>
		</div>`)

	listings := parseIndeedListings(doc)
	require.Len(t, listings, 2)

	require.NotNil(t, listings[0].Paid)
	assert.True(t, *listings[0].Paid)
	assert.Equal(t, "$20 an hour", listings[0].Salary)
	assert.Equal(t, "https://www.indeed.com/viewjob?jk=abc123", listings[0].URL)

	require.NotNil(t, listings[1].Paid)
	assert.False(t, *listings[1].Paid)
}

func TestParseWellfoundListingsFlattensCompanyCards(t *testing.T) {
	doc := docFromHTML(t, `
		<div data-test="StartupResult">
			<div data-test="StartupName">RocketStart</div>
			<img src="https://cdn.example.org/rocket.png"/>
			<div data-test="JobListing">
				<a href="/jobs/101-intern" data-test="JobTitle">Platform Intern</a>
				<span data-test="JobLocation">Remote</span>
			</div>
			<div data-test="JobListing">
				<a href="/jobs/102-intern" data-test="JobTitle">Growth Intern</a>
				<span data-test="JobLocation">Casablanca, Morocco</span>
			</div>
		</div>`)

	listings := parseWellfoundListings(doc)
	require.Len(t, listings, 2)

	for _, raw := range listings {
		assert.Equal(t, "RocketStart", raw.Company)
		assert.Equal(t, "https://cdn.example.org/rocket.png", raw.LogoURL)
		assert.Equal(t, []string{domain.CategoryStartup}, raw.ExtraCategories)
		assert.Equal(t, "Startup internship opportunity at RocketStart", raw.Description)
	}
	assert.Equal(t, "Platform Intern", listings[0].Title)
	assert.Equal(t, "Growth Intern", listings[1].Title)
}

func TestParseGlassdoorListings(t *testing.T) {
	doc := docFromHTML(t, `
		<li class="react-job-listing">
			<a class="jobLink" href="/partner/job?id=9">Finance Intern</a>
			<div class="employerName">MoneyCo</div>
			<div class="location">New York, NY</div>
			<div class="salary-estimate">$18 - $22 Per Hour</div>
		</li>
		<li class="react-job-listing">
			<a class="jobLink" href="/partner/job?id=10">Design Intern</a>
			<div class="employerName">PixelWorks</div>
			<div class="location">Remote</div>
		</li>`)

	listings := parseGlassdoorListings(doc)
	require.Len(t, listings, 2)

	assert.Equal(t, "https://www.glassdoor.com/partner/job?id=9", listings[0].URL)
	require.NotNil(t, listings[0].Paid)
	assert.True(t, *listings[0].Paid)
	require.NotNil(t, listings[1].Paid)
	assert.False(t, *listings[1].Paid)
}

func TestInternshipsAdapterFetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "internship", r.URL.Query().Get("q"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"internships": [
				{
					"title": "Backend Intern",
					"company": "APICo",
					"location": "Remote",
					"description": "Build APIs",
					"duration": "6 months",
					"startDate": "2026-10-01",
					"paid": true,
					"salary": 1500,
					"compensation": "1500/month stipend",
					"url": "https://example.org/jobs/1"
				},
				{
					"title": "Research Intern",
					"company": "LabX",
					"location": "Boston, MA",
					"paid": false
				}
			]
		}`))
	}))
	defer server.Close()

	saver := &recordingSaver{}
	pipeline := NewPipeline(saver, nil, zap.NewNop())
	adapter := NewInternshipsAdapter(server.Client(), server.URL, "test-agent", 0, pipeline, zap.NewNop())

	count, err := adapter.Fetch(context.Background(), []string{"internship"})
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	require.Len(t, saver.saved, 2)
	first := saver.saved[0]
	assert.Equal(t, "Backend Intern", first.Title)
	assert.Equal(t, "APICo", first.CompanyName)
	assert.Equal(t, domain.PlatformInternships, first.Source.Platform)
	assert.Equal(t, domain.WorkTypeRemote, first.WorkType)
	assert.Equal(t, domain.CompensationPaid, first.Compensation.Type)
	assert.Equal(t, float64(1500), first.Compensation.Amount)
	assert.Equal(t, "2026-10-01", first.StartDate.Format("2006-01-02"))

	second := saver.saved[1]
	assert.Equal(t, domain.CompensationUnpaid, second.Compensation.Type)
	assert.Equal(t, normalize.DefaultDuration, second.Duration)
}
