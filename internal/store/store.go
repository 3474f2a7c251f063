// Package store defines the persistence contract used by the persister, with
// an in-memory implementation for dry runs and tests.
package store

import (
	"context"
	"errors"

	"aujobs-pipeline/internal/dedup"
	"aujobs-pipeline/internal/models"
)

// ErrSlugTaken is returned by CreateJobPosting when the slug or external URL
// is already used.
var ErrSlugTaken = errors.New("job posting slug or external url already exists")

// Store runs fn inside one transaction. A non-nil error from fn rolls back
// every write made through the Tx.
type Store interface {
	WithTx(ctx context.Context, fn func(tx Tx) error) error
}

// Tx is the set of operations available inside a transaction.
type Tx interface {
	dedup.Lookup

	// GetOrCreateCompany returns the company with c.Slug, creating it from c
	// when absent. Empty metadata on an existing row is filled from c.
	GetOrCreateCompany(ctx context.Context, c models.Company) (*models.Company, error)
	// GetOrCreateLocation returns the location named loc.DisplayName.
	GetOrCreateLocation(ctx context.Context, loc models.ParsedLocation) (*models.Location, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	CreateJobPosting(ctx context.Context, p *models.JobPosting) error
	// EnsureCategory registers cat if its key is new and reports whether it did.
	EnsureCategory(ctx context.Context, cat models.Category) (bool, error)
}

// Reader is the query side used by the HTTP API.
type Reader interface {
	ListCategories(ctx context.Context) ([]models.Category, error)
	RecentJobs(ctx context.Context, limit int, source string) ([]models.JobPosting, error)
}
