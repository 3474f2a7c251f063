package models

import "time"

// RawJobRecord is what a site extractor hands to the pipeline. Only Title is
// required; every other field may be empty and is degraded during normalization.
type RawJobRecord struct {
	Title        string            `json:"title"`
	CompanyName  string            `json:"company_name"`
	LocationText string            `json:"location_text"`
	SalaryText   string            `json:"salary_text"`
	PostedText   string            `json:"posted_text"`
	JobTypeText  string            `json:"job_type_text"`
	CategoryText string            `json:"category_text"`
	Description  string            `json:"description"`
	SourceURL    string            `json:"source_url"`
	ExternalID   string            `json:"external_id,omitempty"`
	Extra        map[string]string `json:"extra,omitempty"`
}

type Salary struct {
	Min      *float64     `json:"min,omitempty"`
	Max      *float64     `json:"max,omitempty"`
	Currency string       `json:"currency"`
	Period   SalaryPeriod `json:"period"`
	RawText  string       `json:"raw_text"`
}

type ParsedLocation struct {
	DisplayName string `json:"display_name"`
	City        string `json:"city"`
	State       string `json:"state"`
	Country     string `json:"country"`
}

type ResolvedCategory struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	// FromDisplay is set when the key came from the site's own category label
	// and may need registering.
	FromDisplay bool `json:"from_display"`
}

type NormalizedJobRecord struct {
	Title          string            `json:"title"`
	Description    string            `json:"description"`
	CompanyName    string            `json:"company_name"`
	Location       *ParsedLocation   `json:"location,omitempty"`
	Salary         Salary            `json:"salary"`
	JobType        JobType           `json:"job_type"`
	Category       ResolvedCategory  `json:"category"`
	PostedAt       *time.Time        `json:"posted_at,omitempty"`
	PostedAgo      string            `json:"posted_ago,omitempty"`
	ExternalURL    string            `json:"external_url"`
	ExternalID     string            `json:"external_id,omitempty"`
	ExternalSource string            `json:"external_source"`
	Extra          map[string]string `json:"extra,omitempty"`
}
