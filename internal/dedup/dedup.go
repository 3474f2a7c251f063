// Package dedup decides whether a normalized record already exists in the
// store, and keeps a crawl-scoped cache of listings seen in earlier runs.
package dedup

import (
	"context"
	"fmt"
	"strings"

	"aujobs-pipeline/internal/models"
)

// Reason names the rule that classified a record as a duplicate.
type Reason string

const (
	NotDuplicate       Reason = ""
	ReasonURL          Reason = "external_url"
	ReasonTitleCompany Reason = "title_company"
)

// Lookup is the read side of the store the duplicate rules need.
type Lookup interface {
	JobExistsByURL(ctx context.Context, externalURL string) (bool, error)
	// JobExistsByTitleCompany compares trimmed values case-insensitively.
	JobExistsByTitleCompany(ctx context.Context, title, companyName string) (bool, error)
}

// Check applies the URL rule, then the title+company rule. Either match makes
// the record a duplicate; the order only decides which reason is reported.
func Check(ctx context.Context, rec *models.NormalizedJobRecord, lookup Lookup) (Reason, error) {
	if url := strings.TrimSpace(rec.ExternalURL); url != "" {
		exists, err := lookup.JobExistsByURL(ctx, url)
		if err != nil {
			return NotDuplicate, fmt.Errorf("failed to check url duplicate: %w", err)
		}
		if exists {
			return ReasonURL, nil
		}
	}

	exists, err := lookup.JobExistsByTitleCompany(ctx, strings.TrimSpace(rec.Title), strings.TrimSpace(rec.CompanyName))
	if err != nil {
		return NotDuplicate, fmt.Errorf("failed to check title/company duplicate: %w", err)
	}
	if exists {
		return ReasonTitleCompany, nil
	}
	return NotDuplicate, nil
}

// IsDuplicate is the boolean view of Check.
func IsDuplicate(ctx context.Context, rec *models.NormalizedJobRecord, lookup Lookup) (bool, error) {
	reason, err := Check(ctx, rec, lookup)
	return reason != NotDuplicate, err
}
