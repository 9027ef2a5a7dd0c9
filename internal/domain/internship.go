package domain

import (
	"time"

	"github.com/google/uuid"
)

// WorkType represents how the internship is performed
type WorkType string

const (
	WorkTypeRemote WorkType = "remote"
	WorkTypeOnsite WorkType = "onsite"
	WorkTypeHybrid WorkType = "hybrid"
)

// CompensationType represents how (or whether) an internship pays
type CompensationType string

const (
	CompensationPaid       CompensationType = "paid"
	CompensationUnpaid     CompensationType = "unpaid"
	CompensationStipend    CompensationType = "stipend"
	CompensationCreditOnly CompensationType = "credit-only"
	CompensationCommission CompensationType = "commission"
)

// Platform represents where the internship was scraped from
type Platform string

const (
	PlatformLinkedIn    Platform = "linkedin"
	PlatformIndeed      Platform = "indeed"
	PlatformGlassdoor   Platform = "glassdoor"
	PlatformInternships Platform = "internships.com"
	PlatformWellfound   Platform = "wellfound"
	PlatformManual      Platform = "manual"
)

// Category labels form a fixed taxonomy; titles that match no keyword
// fall back to CategoryOther.
const (
	CategorySoftwareDevelopment = "software-development"
	CategoryDataScience         = "data-science"
	CategoryMarketing           = "marketing"
	CategoryDesign              = "design"
	CategoryFinance             = "finance"
	CategoryEngineering         = "engineering"
	CategoryStartup             = "startup"
	CategoryOther               = "other"
)

// Status represents the moderation lifecycle of a persisted internship.
// The scraping engine only ever creates records as StatusActive;
// transitions are owned by the surrounding application.
type Status string

const (
	StatusActive    Status = "active"
	StatusExpired   Status = "expired"
	StatusFilled    Status = "filled"
	StatusSuspended Status = "suspended"
)

// RawListing is what a source adapter sees before normalization.
// It has no identity beyond the (title, company, platform) tuple
// used for deduplication.
type RawListing struct {
	Title        string
	Company      string
	Location     string
	Salary       string
	URL          string
	LogoURL      string
	ExternalID   string
	Description  string
	Duration     string
	StartDate    *time.Time
	Paid         *bool
	SalaryAmount float64

	// ExtraCategories are source-implied labels prepended to the
	// title-derived categories (e.g. "startup" for Wellfound listings).
	ExtraCategories []string
}

// ContactInfo is a best-effort contact block recovered from a detail
// page. Every field is independently optional; an all-empty value is
// a normal outcome, not an error.
type ContactInfo struct {
	Name    string `json:"name,omitempty"`
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Profile string `json:"profile,omitempty"`
}

// IsEmpty reports whether no contact field was recovered.
func (c ContactInfo) IsEmpty() bool {
	return c.Name == "" && c.Email == "" && c.Phone == "" && c.Profile == ""
}

// Location is a structured location. All fields empty means the
// posting is remote or unspecified.
type Location struct {
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
	Country string `json:"country,omitempty"`
}

// Compensation describes pay for an internship.
type Compensation struct {
	Type        CompensationType `json:"type"`
	Amount      float64          `json:"amount,omitempty"`
	Description string           `json:"description,omitempty"`
}

// Source records where and when a listing was scraped.
type Source struct {
	Platform    Platform  `json:"platform"`
	OriginalURL string    `json:"original_url,omitempty"`
	ScrapedAt   time.Time `json:"scraped_at"`
}

// Internship is the canonical, persisted representation of a listing.
// Identity is the (Title, CompanyName, Source.Platform) tuple: the same
// title/company pair seen again on the same platform is the same entity
// and must not be persisted twice.
type Internship struct {
	ID           uuid.UUID    `json:"id"`
	Title        string       `json:"title"`
	CompanyName  string       `json:"company_name"`
	CompanyLogo  string       `json:"company_logo,omitempty"`
	Location     Location     `json:"location"`
	WorkType     WorkType     `json:"work_type"`
	Duration     string       `json:"duration"`
	StartDate    time.Time    `json:"start_date"`
	Compensation Compensation `json:"compensation"`
	Description  string       `json:"description"`
	Categories   []string     `json:"categories"`
	Contact      ContactInfo  `json:"contact"`
	Source       Source       `json:"source"`
	Status       Status       `json:"status"`
	CreatedAt    time.Time    `json:"created_at"`
}

// Key returns the deduplication identity of the internship.
func (i *Internship) Key() InternshipKey {
	return InternshipKey{
		Title:    i.Title,
		Company:  i.CompanyName,
		Platform: i.Source.Platform,
	}
}

// InternshipKey is the natural key used to detect duplicates across runs.
type InternshipKey struct {
	Title    string
	Company  string
	Platform Platform
}

// RunStats tracks cumulative scraping statistics for the process.
// Totals and errors are monotonic; NewInternships reflects only the
// most recently completed run. Reset only by process restart.
type RunStats struct {
	TotalScraped   int        `json:"total_scraped"`
	NewInternships int        `json:"new_internships"`
	Errors         int        `json:"errors"`
	LastScraped    *time.Time `json:"last_scraped,omitempty"`
}
