// Package browsersite scrapes job boards that need a real browser: client
// rendered listings, age gates, or bot protection that rejects plain HTTP.
package browsersite

import (
	"context"
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/playwright-community/playwright-go"

	"aujobs-pipeline/internal/browser"
	"aujobs-pipeline/internal/config"
	"aujobs-pipeline/internal/models"
	"aujobs-pipeline/internal/scraper"
)

type Options struct {
	CookiesDir    string
	ScreenshotDir string
	Timeout       time.Duration
	// Humanize adds random pauses, mouse moves and scrolling between pages.
	Humanize bool
}

// Scraper renders pages in its own browser context. It is not safe for
// concurrent use; FetchDetail only works while Scrape is running.
type Scraper struct {
	site  config.Site
	pw    *browser.PlaywrightManager
	opts  Options
	shots *browser.BlockRecorder

	bctx   playwright.BrowserContext
	detail playwright.Page
}

func New(site config.Site, pw *browser.PlaywrightManager, opts Options) *Scraper {
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	return &Scraper{
		site:  site,
		pw:    pw,
		opts:  opts,
		shots: browser.NewBlockRecorder(opts.ScreenshotDir, site.Name),
	}
}

func (s *Scraper) Name() string {
	return s.site.Name
}

func (s *Scraper) Site() config.Site {
	return s.site
}

func (s *Scraper) Scrape(ctx context.Context, emit scraper.EmitFunc) error {
	log.Printf("📋 Searching %s...", s.site.Name)

	cookies, err := browser.LoadCookies(s.cookiesPath())
	if err != nil {
		log.Printf("⚠️ Could not load %s cookies: %v. Continuing.", s.site.Name, err)
	} else if len(cookies) > 0 {
		log.Printf("🍪 Loaded %s cookies (%d)", s.site.Name, len(cookies))
	}

	bctx, err := s.pw.NewContext(cookies)
	if err != nil {
		return fmt.Errorf("%s: %w", s.site.Name, err)
	}
	s.bctx = bctx
	defer func() {
		_ = bctx.Close()
		s.bctx, s.detail = nil, nil
	}()

	page, err := bctx.NewPage()
	if err != nil {
		return fmt.Errorf("%s: failed to create page: %w", s.site.Name, err)
	}

	pages := scraper.PageCount(s.site)
	for n := 1; n <= pages; n++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		pageURL := scraper.PageURL(s.site, n)
		doc, err := s.render(page, pageURL, n == 1)
		if errors.Is(err, scraper.ErrBlocked) {
			log.Printf("❌ %s blocked on page %d. Skipping site...", s.site.Name, n)
			return nil
		}
		if err != nil {
			if n == 1 {
				return fmt.Errorf("%s: %w", s.site.Name, err)
			}
			log.Printf("⚠️ %s: stopping at page %d: %v", s.site.Name, n, err)
			return nil
		}

		records := scraper.ParseListing(doc, s.site, pageURL)
		log.Printf("    📦 Found %d job cards on page %d", len(records), n)
		if len(records) == 0 {
			return nil
		}
		for _, rec := range records {
			if !emit(rec) {
				return nil
			}
		}
	}
	return nil
}

func (s *Scraper) FetchDetail(ctx context.Context, rec *models.RawJobRecord) error {
	if !s.site.DetailPages || rec.SourceURL == "" {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.bctx == nil {
		return fmt.Errorf("%s: no browser session open", s.site.Name)
	}
	if s.detail == nil {
		p, err := s.bctx.NewPage()
		if err != nil {
			return fmt.Errorf("%s: failed to create detail page: %w", s.site.Name, err)
		}
		s.detail = p
	}

	doc, err := s.render(s.detail, rec.SourceURL, false)
	if err != nil {
		return fmt.Errorf("%s: detail page: %w", s.site.Name, err)
	}
	scraper.ParseDetail(doc, s.site, rec)
	return nil
}

// render navigates, checks for bot protection, accepts the consent gate on
// the first page, waits for cards and returns the parsed DOM.
func (s *Scraper) render(page playwright.Page, url string, first bool) (*goquery.Document, error) {
	timeout := playwright.Float(float64(s.opts.Timeout.Milliseconds()))

	if _, err := page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   timeout,
	}); err != nil {
		if title, _ := page.Title(); browser.IsChallengeTitle(title) {
			s.shots.Record(page, browser.ReasonCloudflare)
			return nil, scraper.ErrBlocked
		}
		return nil, fmt.Errorf("error navigating to %s: %w", url, err)
	}

	if title, _ := page.Title(); browser.IsChallengeTitle(title) {
		log.Println("    🛡️ Cloudflare challenge detected. Waiting 7s...")
		s.shots.Record(page, browser.ReasonChallenge)
		if s.opts.Humanize {
			time.Sleep(7 * time.Second)
		}
		if title, _ := page.Title(); browser.IsChallengeTitle(title) {
			log.Println("❌ Cloudflare challenge failed.")
			return nil, scraper.ErrBlocked
		}
	}

	if browser.HasCaptcha(page) {
		log.Println("⚠️ CAPTCHA detected.")
		s.shots.Record(page, browser.ReasonCaptcha)
		return nil, scraper.ErrBlocked
	}

	if first && s.site.Consent != "" {
		s.acceptConsent(page, timeout)
	}

	if s.site.WaitFor != "" {
		if err := page.Locator(s.site.WaitFor).First().WaitFor(playwright.LocatorWaitForOptions{
			State:   playwright.WaitForSelectorStateAttached,
			Timeout: timeout,
		}); err != nil {
			log.Printf("    ⚠️ %s never appeared on %s", s.site.WaitFor, url)
		}
	}

	if s.opts.Humanize {
		browser.RandomDelay(1000, 2000)
		browser.MouseJiggle(page)
		browser.SmoothScroll(page)
		browser.RandomDelay(500, 1000)
	}

	html, err := page.Content()
	if err != nil {
		return nil, fmt.Errorf("failed to read page content: %w", err)
	}
	return goquery.NewDocumentFromReader(strings.NewReader(html))
}

func (s *Scraper) acceptConsent(page playwright.Page, timeout *float64) {
	button := page.Locator(s.site.Consent).First()
	if n, _ := button.Count(); n == 0 {
		return
	}
	if err := button.Click(playwright.LocatorClickOptions{Timeout: timeout}); err != nil {
		log.Printf("    ⚠️ Could not click consent %q: %v", s.site.Consent, err)
		return
	}
	_ = page.WaitForLoadState(playwright.PageWaitForLoadStateOptions{
		State:   playwright.LoadStateDomcontentloaded,
		Timeout: timeout,
	})
	log.Printf("    🔓 Accepted consent gate on %s", s.site.Name)
}

func (s *Scraper) cookiesPath() string {
	if s.site.CookiesFile == "" {
		return ""
	}
	if filepath.IsAbs(s.site.CookiesFile) {
		return s.site.CookiesFile
	}
	return filepath.Join(s.opts.CookiesDir, s.site.CookiesFile)
}
