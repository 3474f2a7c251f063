// Package registry builds site scrapers from configuration.
package registry

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"aujobs-pipeline/internal/browser"
	"aujobs-pipeline/internal/config"
	"aujobs-pipeline/internal/scraper"
	"aujobs-pipeline/internal/scraper/browsersite"
	"aujobs-pipeline/internal/scraper/htmlsite"
)

const politeDelay = 2 * time.Second

var ErrBrowserRequired = errors.New("site needs a browser but none was started")

// NeedsBrowser reports whether any of sites renders in Playwright.
func NeedsBrowser(sites []config.Site) bool {
	for _, s := range sites {
		if s.Mode == config.ModeBrowser {
			return true
		}
	}
	return false
}

// Build returns one scraper per site, in order. pw may be nil when no site
// uses browser mode.
func Build(cfg *config.Config, sites []config.Site, pw *browser.PlaywrightManager) ([]scraper.Scraper, error) {
	out := make([]scraper.Scraper, 0, len(sites))
	for _, site := range sites {
		s, err := New(cfg, site, pw)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// New builds the scraper for one site.
func New(cfg *config.Config, site config.Site, pw *browser.PlaywrightManager) (scraper.Scraper, error) {
	switch site.Mode {
	case config.ModeHTTP, "":
		return htmlsite.New(site, htmlsite.Options{
			UserAgent: cfg.UserAgent,
			Timeout:   cfg.RequestTimeout,
			Delay:     politeDelay,
		})
	case config.ModeBrowser:
		if pw == nil {
			return nil, fmt.Errorf("%s: %w", site.Name, ErrBrowserRequired)
		}
		return browsersite.New(site, pw, browsersite.Options{
			CookiesDir:    cfg.CookiesPath,
			ScreenshotDir: filepath.Join("logs", "screenshots"),
			Timeout:       cfg.RequestTimeout,
			Humanize:      true,
		}), nil
	default:
		return nil, fmt.Errorf("%s: unknown mode %q", site.Name, site.Mode)
	}
}
