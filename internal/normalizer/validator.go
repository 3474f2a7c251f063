package normalizer

import (
	"errors"
	"strings"

	"aujobs-pipeline/internal/models"
)

// Validation errors. These are the only normalization failures that reject a
// record; everything else degrades to defaults.
var (
	ErrMissingTitle   = errors.New("missing job title")
	ErrMissingCompany = errors.New("company name unresolved and no site placeholder configured")
	ErrMissingURL     = errors.New("missing source url and no site base url to synthesize one")
)

// Validator checks mandatory raw fields.
type Validator struct {
	site Site
}

// NewValidator creates a validator bound to a site's fallbacks.
func NewValidator(site Site) *Validator {
	return &Validator{site: site}
}

// Validate checks that the record can become a posting once fallbacks apply.
func (v *Validator) Validate(raw models.RawJobRecord) error {
	if strings.TrimSpace(raw.Title) == "" {
		return ErrMissingTitle
	}
	if CollapseSpaces(raw.CompanyName) == "" && CollapseSpaces(v.site.DefaultCompany) == "" {
		return ErrMissingCompany
	}
	if strings.TrimSpace(raw.SourceURL) == "" && strings.TrimSpace(v.site.BaseURL) == "" {
		return ErrMissingURL
	}
	return nil
}
