package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"aujobs-pipeline/internal/models"
)

// MemoryStore keeps everything in maps. WithTx holds a single lock for the
// whole transaction, so writers are serialized, and writes are staged until
// fn returns nil.
type MemoryStore struct {
	mu         sync.Mutex
	companies  map[string]*models.Company  // by slug
	locations  map[string]*models.Location // by display name
	postings   []*models.JobPosting
	categories map[string]models.Category
	catOrder   []string
}

func NewMemoryStore() *MemoryStore {
	s := &MemoryStore{
		companies:  make(map[string]*models.Company),
		locations:  make(map[string]*models.Location),
		categories: make(map[string]models.Category),
	}
	for _, c := range models.DefaultCategories {
		s.categories[c.Key] = c
		s.catOrder = append(s.catOrder, c.Key)
	}
	return s
}

// memTx stages writes on top of the committed state.
type memTx struct {
	s          *MemoryStore
	companies  map[string]*models.Company
	locations  map[string]*models.Location
	postings   []*models.JobPosting
	categories []models.Category
}

func (s *MemoryStore) WithTx(ctx context.Context, fn func(tx Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &memTx{
		s:         s,
		companies: make(map[string]*models.Company),
		locations: make(map[string]*models.Location),
	}
	if err := fn(tx); err != nil {
		return err
	}

	for slug, c := range tx.companies {
		s.companies[slug] = c
	}
	for name, l := range tx.locations {
		s.locations[name] = l
	}
	s.postings = append(s.postings, tx.postings...)
	for _, c := range tx.categories {
		s.categories[c.Key] = c
		s.catOrder = append(s.catOrder, c.Key)
	}
	return nil
}

func (tx *memTx) company(slug string) *models.Company {
	if c, ok := tx.companies[slug]; ok {
		return c
	}
	return tx.s.companies[slug]
}

func (tx *memTx) eachPosting(fn func(p *models.JobPosting) bool) bool {
	for _, p := range tx.s.postings {
		if fn(p) {
			return true
		}
	}
	for _, p := range tx.postings {
		if fn(p) {
			return true
		}
	}
	return false
}

func (tx *memTx) JobExistsByURL(_ context.Context, externalURL string) (bool, error) {
	return tx.eachPosting(func(p *models.JobPosting) bool { return p.ExternalURL == externalURL }), nil
}

func (tx *memTx) JobExistsByTitleCompany(_ context.Context, title, companyName string) (bool, error) {
	title = strings.TrimSpace(title)
	companyName = strings.TrimSpace(companyName)
	return tx.eachPosting(func(p *models.JobPosting) bool {
		return strings.EqualFold(strings.TrimSpace(p.Title), title) &&
			strings.EqualFold(strings.TrimSpace(p.CompanyName), companyName)
	}), nil
}

func (tx *memTx) GetOrCreateCompany(_ context.Context, c models.Company) (*models.Company, error) {
	now := time.Now()
	if existing := tx.company(c.Slug); existing != nil {
		updated := *existing
		if enrichCompany(&updated, c) {
			updated.UpdatedAt = now
			tx.companies[c.Slug] = &updated
		}
		out := updated
		return &out, nil
	}

	created := c
	created.ID = uuid.NewString()
	if created.Country == "" {
		created.Country = models.DefaultCountry
	}
	created.CreatedAt = now
	created.UpdatedAt = now
	tx.companies[c.Slug] = &created
	out := created
	return &out, nil
}

// enrichCompany fills empty metadata on dst from src. First writer wins.
func enrichCompany(dst *models.Company, src models.Company) bool {
	changed := false
	fill := func(field *string, v string) {
		if *field == "" && v != "" {
			*field = v
			changed = true
		}
	}
	fill(&dst.Description, src.Description)
	fill(&dst.Website, src.Website)
	fill(&dst.LogoURL, src.LogoURL)
	fill(&dst.Email, src.Email)
	fill(&dst.Phone, src.Phone)
	return changed
}

func (tx *memTx) GetOrCreateLocation(_ context.Context, loc models.ParsedLocation) (*models.Location, error) {
	if l, ok := tx.locations[loc.DisplayName]; ok {
		out := *l
		return &out, nil
	}
	if l, ok := tx.s.locations[loc.DisplayName]; ok {
		out := *l
		return &out, nil
	}

	country := loc.Country
	if country == "" {
		country = models.DefaultCountry
	}
	created := &models.Location{
		ID:        uuid.NewString(),
		Name:      loc.DisplayName,
		City:      loc.City,
		State:     loc.State,
		Country:   country,
		CreatedAt: time.Now(),
	}
	tx.locations[loc.DisplayName] = created
	out := *created
	return &out, nil
}

func (tx *memTx) SlugExists(_ context.Context, slug string) (bool, error) {
	return tx.eachPosting(func(p *models.JobPosting) bool { return p.Slug == slug }), nil
}

func (tx *memTx) CreateJobPosting(_ context.Context, p *models.JobPosting) error {
	taken := tx.eachPosting(func(e *models.JobPosting) bool {
		return e.Slug == p.Slug || e.ExternalURL == p.ExternalURL
	})
	if taken {
		return ErrSlugTaken
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	stored := *p
	tx.postings = append(tx.postings, &stored)
	return nil
}

func (tx *memTx) EnsureCategory(_ context.Context, cat models.Category) (bool, error) {
	if _, ok := tx.s.categories[cat.Key]; ok {
		return false, nil
	}
	for _, c := range tx.categories {
		if c.Key == cat.Key {
			return false, nil
		}
	}
	tx.categories = append(tx.categories, cat)
	return true, nil
}

func (s *MemoryStore) ListCategories(_ context.Context) ([]models.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Category, 0, len(s.catOrder))
	for _, key := range s.catOrder {
		out = append(out, s.categories[key])
	}
	return out, nil
}

// RecentJobs returns newest postings first, optionally for one source.
func (s *MemoryStore) RecentJobs(_ context.Context, limit int, source string) ([]models.JobPosting, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.JobPosting, 0, len(s.postings))
	for _, p := range s.postings {
		if source != "" && p.ExternalSource != source {
			continue
		}
		out = append(out, *p)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ScrapedAt.After(out[j].ScrapedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Counts reports committed row counts: companies, locations, postings.
func (s *MemoryStore) Counts() (int, int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.companies), len(s.locations), len(s.postings)
}

var (
	_ Store  = (*MemoryStore)(nil)
	_ Reader = (*MemoryStore)(nil)
	_ Tx     = (*memTx)(nil)
)
