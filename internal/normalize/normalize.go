// Package normalize turns raw, source-specific listing fields into the
// canonical internship record. Everything here is pure: no I/O, no clock
// beyond the injected defaults in Build.
package normalize

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/internhub/backend/internal/domain"
)

// DefaultDuration is used when a source does not state one.
const DefaultDuration = "3-6 months"

// DefaultStartOffset is added to the scrape time when a source omits
// the start date.
const DefaultStartOffset = 30 * 24 * time.Hour

// ParseLocation splits a free-text location on commas into a structured
// location. Three or more parts map to city/state/country, two to
// city/state, one to city only. Empty input yields the zero value,
// which downstream treats as remote/unspecified.
func ParseLocation(text string) domain.Location {
	text = strings.TrimSpace(text)
	if text == "" {
		return domain.Location{}
	}

	parts := strings.Split(text, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	switch {
	case len(parts) >= 3:
		return domain.Location{City: parts[0], State: parts[1], Country: parts[2]}
	case len(parts) == 2:
		return domain.Location{City: parts[0], State: parts[1]}
	default:
		return domain.Location{City: parts[0]}
	}
}

// InferWorkType guesses the work mode from the free-text location.
// Missing text defaults to remote.
func InferWorkType(locationText string) domain.WorkType {
	if locationText == "" {
		return domain.WorkTypeRemote
	}

	lower := strings.ToLower(locationText)
	switch {
	case strings.Contains(lower, "remote") || strings.Contains(lower, "virtual"):
		return domain.WorkTypeRemote
	case strings.Contains(lower, "hybrid"):
		return domain.WorkTypeHybrid
	default:
		return domain.WorkTypeOnsite
	}
}

// categoryKeywords maps each taxonomy label to the title keywords that
// select it. Evaluated case-insensitively; a title may match several
// labels at once.
var categoryKeywords = []struct {
	category string
	keywords []string
}{
	{domain.CategorySoftwareDevelopment, []string{"software", "developer", "programming"}},
	{domain.CategoryDataScience, []string{"data", "analytics", "science"}},
	{domain.CategoryMarketing, []string{"marketing", "social media"}},
	{domain.CategoryDesign, []string{"design", "ui", "ux"}},
	{domain.CategoryFinance, []string{"finance", "accounting"}},
}

// Categorize assigns taxonomy labels based on title keywords. Titles
// matching no keyword get the singleton {"other"}. "engineering" only
// applies to titles that did not already match software.
func Categorize(title string) []string {
	lower := strings.ToLower(title)
	var categories []string

	for _, entry := range categoryKeywords {
		for _, kw := range entry.keywords {
			if strings.Contains(lower, kw) {
				categories = append(categories, entry.category)
				break
			}
		}
	}

	if strings.Contains(lower, "engineering") && !strings.Contains(lower, "software") {
		categories = append(categories, domain.CategoryEngineering)
	}

	if len(categories) == 0 {
		return []string{domain.CategoryOther}
	}
	return categories
}

// Build assembles a canonical internship from a raw listing. now is the
// scrape timestamp; defaults are filled for fields the source omitted.
func Build(raw domain.RawListing, platform domain.Platform, contact domain.ContactInfo, now time.Time) *domain.Internship {
	in := &domain.Internship{
		ID:          uuid.New(),
		Title:       strings.TrimSpace(raw.Title),
		CompanyName: strings.TrimSpace(raw.Company),
		CompanyLogo: raw.LogoURL,
		Location:    ParseLocation(raw.Location),
		WorkType:    InferWorkType(raw.Location),
		Duration:    raw.Duration,
		Description: raw.Description,
		Categories:  append(append([]string{}, raw.ExtraCategories...), Categorize(raw.Title)...),
		Contact:     contact,
		Source: domain.Source{
			Platform:    platform,
			OriginalURL: raw.URL,
			ScrapedAt:   now,
		},
		Status:    domain.StatusActive,
		CreatedAt: now,
	}

	if in.Duration == "" {
		in.Duration = DefaultDuration
	}

	if raw.StartDate != nil {
		in.StartDate = *raw.StartDate
	} else {
		in.StartDate = now.Add(DefaultStartOffset)
	}

	in.Compensation = buildCompensation(raw)

	if in.Description == "" {
		in.Description = fmt.Sprintf("Internship opportunity at %s", in.CompanyName)
	}

	return in
}

func buildCompensation(raw domain.RawListing) domain.Compensation {
	comp := domain.Compensation{Type: domain.CompensationPaid}

	switch {
	case raw.Paid != nil:
		if !*raw.Paid {
			comp.Type = domain.CompensationUnpaid
		}
		comp.Amount = raw.SalaryAmount
		comp.Description = raw.Salary
	case raw.Salary != "":
		comp.Description = raw.Salary
	}

	return comp
}
