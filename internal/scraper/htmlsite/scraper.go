// Package htmlsite scrapes job boards that render their listings server-side.
package htmlsite

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"

	"aujobs-pipeline/internal/config"
	"aujobs-pipeline/internal/models"
	"aujobs-pipeline/internal/scraper"
)

const bodyKey = "body"

type Options struct {
	UserAgent string
	Timeout   time.Duration
	// Delay is the pause between two requests to the same host.
	Delay time.Duration
}

type Scraper struct {
	site      config.Site
	collector *colly.Collector
}

func New(site config.Site, opts Options) (*Scraper, error) {
	c := colly.NewCollector(colly.AllowURLRevisit())
	if opts.UserAgent != "" {
		c.UserAgent = opts.UserAgent
	}
	if opts.Timeout > 0 {
		c.SetRequestTimeout(opts.Timeout)
	}
	if err := c.Limit(&colly.LimitRule{
		DomainGlob:  "*",
		Parallelism: 1,
		Delay:       opts.Delay,
		RandomDelay: opts.Delay / 2,
	}); err != nil {
		return nil, fmt.Errorf("%s: invalid limit rule: %w", site.Name, err)
	}

	c.OnRequest(func(r *colly.Request) {
		r.Headers.Set("Accept-Language", "en-AU,en;q=0.9")
		r.Headers.Set("Accept", "text/html,application/xhtml+xml")
	})
	c.OnResponse(func(r *colly.Response) {
		r.Ctx.Put(bodyKey, r.Body)
	})

	return &Scraper{site: site, collector: c}, nil
}

func (s *Scraper) Name() string {
	return s.site.Name
}

func (s *Scraper) Site() config.Site {
	return s.site
}

func (s *Scraper) Scrape(ctx context.Context, emit scraper.EmitFunc) error {
	log.Printf("📋 Searching %s...", s.site.Name)

	pages := scraper.PageCount(s.site)
	for page := 1; page <= pages; page++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		pageURL := scraper.PageURL(s.site, page)
		doc, err := s.fetch(pageURL)
		if err != nil {
			if page == 1 {
				return fmt.Errorf("%s: %w", s.site.Name, err)
			}
			log.Printf("⚠️ %s: stopping at page %d: %v", s.site.Name, page, err)
			return nil
		}

		records := scraper.ParseListing(doc, s.site, pageURL)
		log.Printf("    📦 Found %d job cards on page %d", len(records), page)
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
	doc, err := s.fetch(rec.SourceURL)
	if err != nil {
		return fmt.Errorf("%s: detail page: %w", s.site.Name, err)
	}
	scraper.ParseDetail(doc, s.site, rec)
	return nil
}

func (s *Scraper) fetch(url string) (*goquery.Document, error) {
	rctx := colly.NewContext()
	if err := s.collector.Request("GET", url, nil, rctx, nil); err != nil {
		return nil, fmt.Errorf("GET %s: %w", url, err)
	}
	body, ok := rctx.GetAny(bodyKey).([]byte)
	if !ok {
		return nil, fmt.Errorf("GET %s: empty response", url)
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", url, err)
	}
	return doc, nil
}
