// Package persist saves normalized job records: company and location
// get-or-create, duplicate detection, category registration and a unique
// posting slug, all inside one store transaction per record.
package persist

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"aujobs-pipeline/internal/dedup"
	"aujobs-pipeline/internal/models"
	"aujobs-pipeline/internal/normalizer"
	"aujobs-pipeline/internal/store"
	"aujobs-pipeline/internal/summary"
)

const (
	maxSlugLength   = 240 // leaves room for "-NNN" under the 250 column limit
	maxSlugAttempts = 1000
	fallbackSlug    = "job"
)

// Extra keys consumed as company metadata.
const (
	ExtraCompanyDescription = "company_description"
	ExtraCompanyWebsite     = "company_website"
	ExtraCompanyLogo        = "company_logo"
	ExtraCompanyEmail       = "company_email"
	ExtraCompanyPhone       = "company_phone"
)

// Result is the outcome of one SaveJob call.
type Result struct {
	Outcome         summary.Outcome
	Posting         *models.JobPosting
	DuplicateReason dedup.Reason
	Err             error
}

// Persister turns raw records into stored postings. It records every result
// in its own run summary. Use one Persister per run.
type Persister struct {
	store     store.Store
	processor *normalizer.Processor
	summary   *summary.Summary
	now       func() time.Time
}

func NewPersister(st store.Store, processor *normalizer.Processor) *Persister {
	return &Persister{
		store:     st,
		processor: processor,
		summary:   summary.New(),
		now:       time.Now,
	}
}

// Summary returns the run summary this persister records into.
func (p *Persister) Summary() *summary.Summary {
	return p.summary
}

// SaveJob normalizes raw and saves it. Validation failures never reach the
// store, so they leave no rows behind.
func (p *Persister) SaveJob(ctx context.Context, raw models.RawJobRecord) Result {
	rec, err := p.processor.Process(raw)
	if err != nil {
		return p.finish(Result{Outcome: summary.OutcomeError, Err: err}, raw.Title)
	}
	return p.SaveNormalized(ctx, rec)
}

// SaveNormalized saves an already normalized record.
func (p *Persister) SaveNormalized(ctx context.Context, rec *models.NormalizedJobRecord) Result {
	var res Result
	err := p.store.WithTx(ctx, func(tx store.Tx) error {
		res = Result{}

		company, err := tx.GetOrCreateCompany(ctx, companyFrom(rec))
		if err != nil {
			return err
		}

		var location *models.Location
		if rec.Location != nil && rec.Location.DisplayName != "" {
			location, err = tx.GetOrCreateLocation(ctx, *rec.Location)
			if err != nil {
				return err
			}
		}

		// match against the stored name: "Acme" and "Acme." share one company row
		byCompany := *rec
		byCompany.CompanyName = company.Name
		reason, err := dedup.Check(ctx, &byCompany, tx)
		if err != nil {
			return err
		}
		if reason != dedup.NotDuplicate {
			res = Result{Outcome: summary.OutcomeDuplicate, DuplicateReason: reason}
			return nil
		}

		if rec.Category.FromDisplay {
			added, err := tx.EnsureCategory(ctx, models.Category{Key: rec.Category.Key, Label: rec.Category.Label})
			if err != nil {
				return err
			}
			if added {
				log.Printf("🏷️ Registered new category: %s (%s)", rec.Category.Label, rec.Category.Key)
			}
		}

		slug, err := uniqueSlug(ctx, tx, rec.Title)
		if err != nil {
			return err
		}

		posting := buildPosting(rec, company, location, slug, p.now())
		if err := tx.CreateJobPosting(ctx, posting); err != nil {
			return err
		}
		res = Result{Outcome: summary.OutcomeSaved, Posting: posting}
		return nil
	})
	if err != nil {
		res = Result{Outcome: summary.OutcomeError, Err: fmt.Errorf("failed to save %q: %w", rec.Title, err)}
	}
	return p.finish(res, rec.Title)
}

func (p *Persister) finish(res Result, title string) Result {
	p.summary.Record(res.Outcome, string(res.DuplicateReason))
	switch res.Outcome {
	case summary.OutcomeSaved:
		log.Printf("✅ Saved: %s @ %s", res.Posting.Title, res.Posting.CompanyName)
	case summary.OutcomeDuplicate:
		log.Printf("⏭️ Duplicate (%s): %s", res.DuplicateReason, title)
	default:
		log.Printf("❌ Error saving %q: %v", title, res.Err)
	}
	return res
}

func companyFrom(rec *models.NormalizedJobRecord) models.Company {
	slug := normalizer.Truncate(normalizer.Slugify(rec.CompanyName), 250)
	if slug == "" {
		slug = strings.Trim("company-"+normalizer.Slugify(rec.ExternalSource), "-")
	}
	return models.Company{
		Name:        normalizer.Truncate(rec.CompanyName, 200),
		Slug:        slug,
		Description: rec.Extra[ExtraCompanyDescription],
		Website:     normalizer.Truncate(rec.Extra[ExtraCompanyWebsite], 200),
		LogoURL:     normalizer.Truncate(rec.Extra[ExtraCompanyLogo], 200),
		Email:       normalizer.Truncate(rec.Extra[ExtraCompanyEmail], 254),
		Phone:       normalizer.Truncate(rec.Extra[ExtraCompanyPhone], 50),
		Country:     models.DefaultCountry,
	}
}

// uniqueSlug returns slugify(title), or the first free "-1", "-2"... variant.
func uniqueSlug(ctx context.Context, tx store.Tx, title string) (string, error) {
	base := strings.Trim(normalizer.Truncate(normalizer.Slugify(title), maxSlugLength), "-")
	if base == "" {
		base = fallbackSlug
	}

	slug := base
	for i := 1; i <= maxSlugAttempts; i++ {
		exists, err := tx.SlugExists(ctx, slug)
		if err != nil {
			return "", err
		}
		if !exists {
			return slug, nil
		}
		slug = fmt.Sprintf("%s-%d", base, i)
	}
	return "", fmt.Errorf("no free slug for %q after %d attempts", base, maxSlugAttempts)
}

func buildPosting(rec *models.NormalizedJobRecord, company *models.Company, location *models.Location, slug string, now time.Time) *models.JobPosting {
	info := make(map[string]string, len(rec.Extra))
	for k, v := range rec.Extra {
		info[k] = v
	}

	p := &models.JobPosting{
		Title:          rec.Title,
		Slug:           slug,
		Description:    rec.Description,
		CompanyID:      company.ID,
		CompanyName:    company.Name,
		Category:       rec.Category.Key,
		JobType:        rec.JobType,
		SalaryMin:      rec.Salary.Min,
		SalaryMax:      rec.Salary.Max,
		SalaryCurrency: rec.Salary.Currency,
		SalaryPeriod:   rec.Salary.Period,
		SalaryRawText:  rec.Salary.RawText,
		ExternalSource: rec.ExternalSource,
		ExternalURL:    rec.ExternalURL,
		ExternalID:     rec.ExternalID,
		Status:         models.StatusActive,
		PostedAgo:      rec.PostedAgo,
		DatePosted:     rec.PostedAt,
		AdditionalInfo: info,
		ScrapedAt:      now,
	}
	if location != nil {
		id := location.ID
		p.LocationID = &id
		p.LocationName = location.Name
	}
	return p
}
