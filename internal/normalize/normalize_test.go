package normalize

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/internhub/backend/internal/domain"
)

func TestParseLocation(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  domain.Location
	}{
		{
			name:  "city state country",
			input: "Casablanca, Casablanca-Settat, Morocco",
			want:  domain.Location{City: "Casablanca", State: "Casablanca-Settat", Country: "Morocco"},
		},
		{
			name:  "city state",
			input: "Rabat, Rabat-Sale-Kenitra",
			want:  domain.Location{City: "Rabat", State: "Rabat-Sale-Kenitra"},
		},
		{
			name:  "single token",
			input: "Remote",
			want:  domain.Location{City: "Remote"},
		},
		{
			name:  "empty",
			input: "",
			want:  domain.Location{},
		},
		{
			name:  "extra parts keep first three",
			input: "Brooklyn, New York, United States, Earth",
			want:  domain.Location{City: "Brooklyn", State: "New York", Country: "United States"},
		},
		{
			name:  "whitespace trimmed",
			input: "  Tangier ,  Tanger-Tetouan  , Morocco ",
			want:  domain.Location{City: "Tangier", State: "Tanger-Tetouan", Country: "Morocco"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLocation(tt.input))
		})
	}
}

func TestInferWorkType(t *testing.T) {
	tests := []struct {
		input string
		want  domain.WorkType
	}{
		{"Remote - Worldwide", domain.WorkTypeRemote},
		{"Virtual internship", domain.WorkTypeRemote},
		{"Hybrid, Rabat", domain.WorkTypeHybrid},
		{"Rabat, Morocco", domain.WorkTypeOnsite},
		{"", domain.WorkTypeRemote},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, InferWorkType(tt.input))
		})
	}
}

func TestCategorize(t *testing.T) {
	tests := []struct {
		title string
		want  []string
	}{
		{"Software Development Intern", []string{domain.CategorySoftwareDevelopment}},
		{"Data Science Intern", []string{domain.CategoryDataScience}},
		{"Marketing & Social Media Intern", []string{domain.CategoryMarketing}},
		{"UX Design Intern", []string{domain.CategoryDesign}},
		{"Finance Intern", []string{domain.CategoryFinance}},
		{"Mechanical Engineering Intern", []string{domain.CategoryEngineering}},
		{"Office Coordinator Intern", []string{domain.CategoryOther}},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			assert.Equal(t, tt.want, Categorize(tt.title))
		})
	}

	t.Run("software engineering matches software only", func(t *testing.T) {
		got := Categorize("Software Engineering Intern")
		assert.Contains(t, got, domain.CategorySoftwareDevelopment)
		assert.NotContains(t, got, domain.CategoryEngineering)
	})

	t.Run("multiple categories", func(t *testing.T) {
		got := Categorize("Data Analytics & Marketing Intern")
		assert.Contains(t, got, domain.CategoryDataScience)
		assert.Contains(t, got, domain.CategoryMarketing)
	})
}

func TestBuildDefaults(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	raw := domain.RawListing{
		Title:    "Design Intern",
		Company:  "Atlas Studio",
		Location: "Marrakech, Morocco",
		URL:      "https://example.org/jobs/42",
	}

	in := Build(raw, domain.PlatformLinkedIn, domain.ContactInfo{}, now)

	require.NotNil(t, in)
	assert.Equal(t, "Design Intern", in.Title)
	assert.Equal(t, "Atlas Studio", in.CompanyName)
	assert.Equal(t, DefaultDuration, in.Duration)
	assert.Equal(t, now.Add(DefaultStartOffset), in.StartDate)
	assert.Equal(t, domain.CompensationPaid, in.Compensation.Type)
	assert.Equal(t, domain.WorkTypeOnsite, in.WorkType)
	assert.Equal(t, domain.Location{City: "Marrakech", State: "Morocco"}, in.Location)
	assert.Equal(t, domain.PlatformLinkedIn, in.Source.Platform)
	assert.Equal(t, "https://example.org/jobs/42", in.Source.OriginalURL)
	assert.Equal(t, now, in.Source.ScrapedAt)
	assert.Equal(t, domain.StatusActive, in.Status)
	assert.Equal(t, "Internship opportunity at Atlas Studio", in.Description)
	assert.NotEqual(t, "", in.ID.String())
}

func TestBuildCompensation(t *testing.T) {
	now := time.Now()

	t.Run("explicit unpaid", func(t *testing.T) {
		unpaid := false
		raw := domain.RawListing{Title: "Intern", Company: "Co", Paid: &unpaid}
		in := Build(raw, domain.PlatformIndeed, domain.ContactInfo{}, now)
		assert.Equal(t, domain.CompensationUnpaid, in.Compensation.Type)
	})

	t.Run("salary text implies paid", func(t *testing.T) {
		paid := true
		raw := domain.RawListing{Title: "Intern", Company: "Co", Paid: &paid, Salary: "MAD 4,000/month"}
		in := Build(raw, domain.PlatformIndeed, domain.ContactInfo{}, now)
		assert.Equal(t, domain.CompensationPaid, in.Compensation.Type)
		assert.Equal(t, "MAD 4,000/month", in.Compensation.Description)
	})

	t.Run("source-stated amount", func(t *testing.T) {
		paid := true
		raw := domain.RawListing{Title: "Intern", Company: "Co", Paid: &paid, SalaryAmount: 1200}
		in := Build(raw, domain.PlatformInternships, domain.ContactInfo{}, now)
		assert.Equal(t, float64(1200), in.Compensation.Amount)
	})

	t.Run("source-provided start date kept", func(t *testing.T) {
		start := now.Add(72 * time.Hour)
		raw := domain.RawListing{Title: "Intern", Company: "Co", StartDate: &start}
		in := Build(raw, domain.PlatformInternships, domain.ContactInfo{}, now)
		assert.Equal(t, start, in.StartDate)
	})
}
