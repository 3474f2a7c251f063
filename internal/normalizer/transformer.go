package normalizer

import (
	"strings"
	"time"

	"aujobs-pipeline/internal/models"
)

// Transformer converts a validated raw record into typed fields.
type Transformer struct {
	site Site
	now  func() time.Time
}

// NewTransformer creates a transformer for one site.
func NewTransformer(site Site, now func() time.Time) *Transformer {
	if now == nil {
		now = time.Now
	}
	return &Transformer{site: site, now: now}
}

// Transform applies every normalizer to raw. Call Validate first.
func (t *Transformer) Transform(raw models.RawJobRecord) *models.NormalizedJobRecord {
	title := Truncate(CollapseSpaces(raw.Title), MaxTitleLength)
	description := CleanDescription(raw.Description)

	company := CollapseSpaces(raw.CompanyName)
	if company == "" {
		company = CollapseSpaces(t.site.DefaultCompany)
	}

	loc := ParseLocation(raw.LocationText, t.site.DefaultCity)

	jobTypeText := raw.JobTypeText
	if strings.TrimSpace(jobTypeText) == "" {
		jobTypeText = title
	}

	externalURL := CanonicalURL(raw.SourceURL)
	if externalURL == "" {
		externalURL = SynthesizeURL(t.site.BaseURL, title)
	}

	extra := make(map[string]string, len(raw.Extra)+1)
	for k, v := range raw.Extra {
		extra[k] = v
	}
	if raw.JobTypeText != "" {
		extra["employment_type"] = CollapseSpaces(raw.JobTypeText)
	}

	return &models.NormalizedJobRecord{
		Title:          title,
		Description:    description,
		CompanyName:    company,
		Location:       &loc,
		Salary:         ParseSalary(raw.SalaryText),
		JobType:        NormalizeJobType(jobTypeText),
		Category:       NormalizeCategory(raw.CategoryText, title, description),
		PostedAt:       ParseRelativeDate(raw.PostedText, t.now()),
		PostedAgo:      Truncate(CollapseSpaces(raw.PostedText), 50),
		ExternalURL:    externalURL,
		ExternalID:     Truncate(strings.TrimSpace(raw.ExternalID), MaxExternalID),
		ExternalSource: t.site.Source,
		Extra:          extra,
	}
}

// SynthesizeURL builds a stable identity for sites without per-job URLs.
func SynthesizeURL(baseURL, title string) string {
	base := strings.TrimRight(CanonicalURL(baseURL), "#")
	if base == "" {
		return ""
	}
	if i := strings.Index(base, "#"); i >= 0 {
		base = base[:i]
	}
	return Truncate(base+"#"+Slugify(title), MaxURLLength)
}
