package database

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"aujobs-pipeline/internal/models"
	"aujobs-pipeline/internal/store"
)

//go:embed schema.sql
var schemaSQL string

const uniqueViolation = "23505"

type Repository struct {
	db *pgxpool.Pool
}

var (
	_ store.Store  = (*Repository)(nil)
	_ store.Reader = (*Repository)(nil)
	_ store.Tx     = (*pgTx)(nil)
)

func ConnectDB(ctx context.Context, connString string) (*Repository, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("unable to parse database url: %w", err)
	}

	config.MaxConns = 10
	config.MinConns = 2
	config.MaxConnLifetime = time.Hour

	// PgBouncer in transaction mode does not support prepared statements.
	config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeExec

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("database unreachable: %w", err)
	}

	return &Repository{db: pool}, nil
}

func (r *Repository) Close() {
	if r.db != nil {
		r.db.Close()
	}
}

func (r *Repository) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}

// ServerInfo reports the PostgreSQL version and the current database size.
func (r *Repository) ServerInfo(ctx context.Context) (version, size string, err error) {
	if err := r.db.QueryRow(ctx, "SELECT version()").Scan(&version); err != nil {
		return "", "", fmt.Errorf("query failed: %w", err)
	}
	if err := r.db.QueryRow(ctx, "SELECT pg_size_pretty(pg_database_size(current_database()))").Scan(&size); err != nil {
		return version, "", fmt.Errorf("query failed: %w", err)
	}
	return version, size, nil
}

// Migrate applies the embedded schema and seeds the default categories. Safe
// to run repeatedly.
func (r *Repository) Migrate(ctx context.Context) error {
	// no arguments: sent over the simple protocol, so multiple statements are fine
	if _, err := r.db.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}

	batch := &pgx.Batch{}
	for _, c := range models.DefaultCategories {
		batch.Queue(`INSERT INTO job_categories (key, label) VALUES ($1, $2) ON CONFLICT (key) DO NOTHING`, c.Key, c.Label)
	}
	if err := r.db.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to seed categories: %w", err)
	}
	return nil
}

// WithTx runs fn inside a transaction, committing when fn returns nil.
func (r *Repository) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	return pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		return fn(&pgTx{tx: tx})
	})
}

// ---------------- READ SIDE ----------------

func (r *Repository) ListCategories(ctx context.Context) ([]models.Category, error) {
	rows, err := r.db.Query(ctx, `SELECT key, label FROM job_categories ORDER BY created_at, key`)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	var out []models.Category
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.Key, &c.Label); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// RecentJobs returns the newest postings, optionally for one source.
func (r *Repository) RecentJobs(ctx context.Context, limit int, source string) ([]models.JobPosting, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `
		SELECT jp.id::text, jp.title, jp.slug, jp.description, jp.company_id::text, c.name,
		       jp.location_id::text, COALESCE(l.name, ''), jp.job_category, jp.job_type,
		       jp.salary_min, jp.salary_max, jp.salary_currency, jp.salary_type, jp.salary_raw_text,
		       jp.external_source, jp.external_url, jp.external_id, jp.status, jp.posted_ago,
		       jp.date_posted, jp.additional_info, jp.scraped_at
		FROM job_postings jp
		JOIN companies c ON c.id = jp.company_id
		LEFT JOIN locations l ON l.id = jp.location_id
		WHERE ($2::text = '' OR jp.external_source = $2::text)
		ORDER BY jp.scraped_at DESC
		LIMIT $1`

	rows, err := r.db.Query(ctx, query, limit, source)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent jobs: %w", err)
	}
	defer rows.Close()

	var out []models.JobPosting
	for rows.Next() {
		var p models.JobPosting
		err := rows.Scan(&p.ID, &p.Title, &p.Slug, &p.Description, &p.CompanyID, &p.CompanyName,
			&p.LocationID, &p.LocationName, &p.Category, &p.JobType,
			&p.SalaryMin, &p.SalaryMax, &p.SalaryCurrency, &p.SalaryPeriod, &p.SalaryRawText,
			&p.ExternalSource, &p.ExternalURL, &p.ExternalID, &p.Status, &p.PostedAgo,
			&p.DatePosted, &p.AdditionalInfo, &p.ScrapedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan job posting: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// ---------------- TRANSACTION ----------------

type pgTx struct {
	tx pgx.Tx
}

func (t *pgTx) JobExistsByURL(ctx context.Context, externalURL string) (bool, error) {
	var exists bool
	err := t.tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM job_postings WHERE external_url = $1)`, externalURL).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to look up job by url: %w", err)
	}
	return exists, nil
}

func (t *pgTx) JobExistsByTitleCompany(ctx context.Context, title, companyName string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM job_postings jp
			JOIN companies c ON c.id = jp.company_id
			WHERE lower(btrim(jp.title)) = lower(btrim($1))
			  AND lower(btrim(c.name)) = lower(btrim($2))
		)`
	var exists bool
	if err := t.tx.QueryRow(ctx, query, title, companyName).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to look up job by title/company: %w", err)
	}
	return exists, nil
}

// GetOrCreateCompany inserts by slug. On conflict the existing row is kept and
// only its empty metadata is filled, so RETURNING always yields the row.
func (t *pgTx) GetOrCreateCompany(ctx context.Context, c models.Company) (*models.Company, error) {
	country := c.Country
	if country == "" {
		country = models.DefaultCountry
	}
	query := `
		INSERT INTO companies (id, name, slug, description, website, logo_url, email, phone, country)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (slug) DO UPDATE SET
			description = COALESCE(NULLIF(companies.description, ''), EXCLUDED.description),
			website     = COALESCE(NULLIF(companies.website, ''), EXCLUDED.website),
			logo_url    = COALESCE(NULLIF(companies.logo_url, ''), EXCLUDED.logo_url),
			email       = COALESCE(NULLIF(companies.email, ''), EXCLUDED.email),
			phone       = COALESCE(NULLIF(companies.phone, ''), EXCLUDED.phone),
			updated_at  = now()
		RETURNING id::text, name, slug, description, website, logo_url, email, phone, country, created_at, updated_at`

	var out models.Company
	err := t.tx.QueryRow(ctx, query, uuid.NewString(), c.Name, c.Slug, c.Description, c.Website, c.LogoURL, c.Email, c.Phone, country).
		Scan(&out.ID, &out.Name, &out.Slug, &out.Description, &out.Website, &out.LogoURL, &out.Email, &out.Phone, &out.Country, &out.CreatedAt, &out.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to get or create company %q: %w", c.Slug, err)
	}
	return &out, nil
}

func (t *pgTx) GetOrCreateLocation(ctx context.Context, loc models.ParsedLocation) (*models.Location, error) {
	country := loc.Country
	if country == "" {
		country = models.DefaultCountry
	}
	// the no-op update makes RETURNING yield the existing row
	query := `
		INSERT INTO locations (id, name, city, state, country)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id::text, name, city, state, country, created_at`

	var out models.Location
	err := t.tx.QueryRow(ctx, query, uuid.NewString(), loc.DisplayName, loc.City, loc.State, country).
		Scan(&out.ID, &out.Name, &out.City, &out.State, &out.Country, &out.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to get or create location %q: %w", loc.DisplayName, err)
	}
	return &out, nil
}

func (t *pgTx) SlugExists(ctx context.Context, slug string) (bool, error) {
	var exists bool
	if err := t.tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM job_postings WHERE slug = $1)`, slug).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check slug: %w", err)
	}
	return exists, nil
}

func (t *pgTx) CreateJobPosting(ctx context.Context, p *models.JobPosting) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	info := p.AdditionalInfo
	if info == nil {
		info = map[string]string{}
	}
	query := `
		INSERT INTO job_postings (
			id, title, slug, description, company_id, location_id, job_category, job_type,
			salary_min, salary_max, salary_currency, salary_type, salary_raw_text,
			external_source, external_url, external_id, status, posted_ago, date_posted,
			additional_info, scraped_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)`

	_, err := t.tx.Exec(ctx, query,
		p.ID, p.Title, p.Slug, p.Description, p.CompanyID, p.LocationID, p.Category, string(p.JobType),
		p.SalaryMin, p.SalaryMax, p.SalaryCurrency, string(p.SalaryPeriod), p.SalaryRawText,
		p.ExternalSource, p.ExternalURL, p.ExternalID, string(p.Status), p.PostedAgo, p.DatePosted,
		info, p.ScrapedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return fmt.Errorf("%w: %s", store.ErrSlugTaken, pgErr.ConstraintName)
		}
		return fmt.Errorf("failed to create job posting: %w", err)
	}
	return nil
}

func (t *pgTx) EnsureCategory(ctx context.Context, cat models.Category) (bool, error) {
	tag, err := t.tx.Exec(ctx, `INSERT INTO job_categories (key, label) VALUES ($1, $2) ON CONFLICT (key) DO NOTHING`, cat.Key, cat.Label)
	if err != nil {
		return false, fmt.Errorf("failed to register category %q: %w", cat.Key, err)
	}
	return tag.RowsAffected() == 1, nil
}
