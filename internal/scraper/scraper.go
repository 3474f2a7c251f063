// Package scraper defines the contract every job board adapter implements and
// the listing parser they share.
package scraper

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"aujobs-pipeline/internal/config"
	"aujobs-pipeline/internal/models"
	"aujobs-pipeline/internal/normalizer"
)

const pagePlaceholder = "{page}"

// ErrBlocked is returned when a bot challenge or CAPTCHA stops the crawl.
var ErrBlocked = errors.New("blocked by bot protection")

// EmitFunc receives each extracted record. Returning false stops the crawl.
type EmitFunc func(models.RawJobRecord) bool

// Scraper defines the interface that all site adapters must implement
type Scraper interface {
	// Name is the configured site name (actgov, hays, ...)
	Name() string

	Site() config.Site

	// Scrape walks the listing pages and emits one record per job card.
	Scrape(ctx context.Context, emit EmitFunc) error

	// FetchDetail fills fields only the detail page carries. It is a no-op
	// for sites without detail pages.
	FetchDetail(ctx context.Context, rec *models.RawJobRecord) error
}

// NormalizerSite maps a site config onto the normalizer fallbacks.
func NormalizerSite(site config.Site) normalizer.Site {
	return normalizer.Site{
		Source:         site.Source,
		BaseURL:        site.BaseURL,
		DefaultCompany: site.DefaultCompany,
		DefaultCity:    site.DefaultCity,
	}
}

// PageCount is MaxPages, or 1 when the list URL has no {page} placeholder.
func PageCount(site config.Site) int {
	if !strings.Contains(site.ListURL, pagePlaceholder) {
		return 1
	}
	if site.MaxPages < 1 {
		return 1
	}
	return site.MaxPages
}

// PageURL returns the listing URL for a 1-based page number.
func PageURL(site config.Site, page int) string {
	return strings.ReplaceAll(site.ListURL, pagePlaceholder, strconv.Itoa(page))
}
