package models

import (
	"time"
)

type JobType string

const (
	JobTypeFullTime   JobType = "full_time"
	JobTypePartTime   JobType = "part_time"
	JobTypeCasual     JobType = "casual"
	JobTypeContract   JobType = "contract"
	JobTypeTemporary  JobType = "temporary"
	JobTypeInternship JobType = "internship"
	JobTypeFreelance  JobType = "freelance"
)

type SalaryPeriod string

const (
	PeriodHourly  SalaryPeriod = "hourly"
	PeriodDaily   SalaryPeriod = "daily"
	PeriodWeekly  SalaryPeriod = "weekly"
	PeriodMonthly SalaryPeriod = "monthly"
	PeriodYearly  SalaryPeriod = "yearly"
)

type PostingStatus string

const (
	StatusActive   PostingStatus = "active"
	StatusInactive PostingStatus = "inactive"
	StatusExpired  PostingStatus = "expired"
	StatusFilled   PostingStatus = "filled"
)

const (
	DefaultCurrency = "AUD"
	DefaultCountry  = "Australia"
	CategoryOther   = "other"
)

type Company struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description,omitempty"`
	Website     string    `json:"website,omitempty"`
	LogoURL     string    `json:"logo_url,omitempty"`
	Email       string    `json:"email,omitempty"`
	Phone       string    `json:"phone,omitempty"`
	Country     string    `json:"country"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Location is keyed by its display name. City/State/Country are copied once at creation.
type Location struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	City      string    `json:"city"`
	State     string    `json:"state"`
	Country   string    `json:"country"`
	CreatedAt time.Time `json:"created_at"`
}

type Category struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

type JobPosting struct {
	ID             string            `json:"id"`
	Title          string            `json:"title"`
	Slug           string            `json:"slug"`
	Description    string            `json:"description"`
	CompanyID      string            `json:"company_id"`
	CompanyName    string            `json:"company_name"`
	LocationID     *string           `json:"location_id,omitempty"`
	LocationName   string            `json:"location_name,omitempty"`
	Category       string            `json:"job_category"`
	JobType        JobType           `json:"job_type"`
	SalaryMin      *float64          `json:"salary_min,omitempty"`
	SalaryMax      *float64          `json:"salary_max,omitempty"`
	SalaryCurrency string            `json:"salary_currency"`
	SalaryPeriod   SalaryPeriod      `json:"salary_type"`
	SalaryRawText  string            `json:"salary_raw_text,omitempty"`
	ExternalSource string            `json:"external_source"`
	ExternalURL    string            `json:"external_url"`
	ExternalID     string            `json:"external_id,omitempty"`
	Status         PostingStatus     `json:"status"`
	PostedAgo      string            `json:"posted_ago,omitempty"`
	DatePosted     *time.Time        `json:"date_posted,omitempty"`
	AdditionalInfo map[string]string `json:"additional_info,omitempty"`
	ScrapedAt      time.Time         `json:"scraped_at"`
}

// DefaultCategories seeds the category registry. Site labels outside this set
// are registered on first sight.
var DefaultCategories = []Category{
	{"technology", "Technology"},
	{"finance", "Finance"},
	{"healthcare", "Healthcare"},
	{"marketing", "Marketing"},
	{"sales", "Sales"},
	{"hr", "Human Resources"},
	{"education", "Education"},
	{"retail", "Retail"},
	{"hospitality", "Hospitality"},
	{"construction", "Construction"},
	{"manufacturing", "Manufacturing"},
	{"consulting", "Consulting"},
	{"legal", "Legal"},
	{"office_support", "Office Support"},
	{"drivers_operators", "Drivers & Operators"},
	{"technical_engineering", "Technical & Engineering"},
	{"production_workers", "Production Workers"},
	{"transport_logistics", "Transport & Logistics"},
	{"mining_resources", "Mining & Resources"},
	{"sales_marketing", "Sales & Marketing"},
	{"executive", "Executive"},
	{CategoryOther, "Other"},
}
