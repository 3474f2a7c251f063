// Package normalizer turns scraped job fields into typed, persistence-ready values.
package normalizer

import (
	"fmt"
	"time"

	"aujobs-pipeline/internal/models"
)

// Site carries the per-site fallbacks applied while normalizing.
type Site struct {
	Source         string // external_source, e.g. "jobs.act.gov.au"
	BaseURL        string
	DefaultCompany string
	DefaultCity    string
}

// Processor validates and then transforms raw records.
type Processor struct {
	validator   *Validator
	transformer *Transformer
}

// NewProcessor creates a new processor instance.
func NewProcessor(site Site) *Processor {
	return NewProcessorWithClock(site, time.Now)
}

// NewProcessorWithClock pins the reference time used for relative dates.
func NewProcessorWithClock(site Site, now func() time.Time) *Processor {
	return &Processor{
		validator:   NewValidator(site),
		transformer: NewTransformer(site, now),
	}
}

// Process validates raw and returns its normalized form.
func (p *Processor) Process(raw models.RawJobRecord) (*models.NormalizedJobRecord, error) {
	if err := p.validator.Validate(raw); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	return p.transformer.Transform(raw), nil
}
