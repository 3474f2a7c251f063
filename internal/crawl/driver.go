// Package crawl drives one site scraper through the pipeline: seen-cache and
// filter gates, detail fetch, persistence, notifications and the run summary.
package crawl

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"aujobs-pipeline/internal/dedup"
	"aujobs-pipeline/internal/filter"
	"aujobs-pipeline/internal/models"
	"aujobs-pipeline/internal/normalizer"
	"aujobs-pipeline/internal/persist"
	"aujobs-pipeline/internal/reporter"
	"aujobs-pipeline/internal/scraper"
	"aujobs-pipeline/internal/store"
	"aujobs-pipeline/internal/summary"
)

const publishTimeout = 5 * time.Second

// Options are all optional. A nil Reporter logs to stdout.
type Options struct {
	Seen     *dedup.SeenCache
	Filter   *filter.Filter
	Reporter reporter.Reporter
	Runs     store.SummaryStore
	// JobLimit stops a run once this many postings were saved. 0 means no limit.
	JobLimit int
	Now      func() time.Time
}

type Driver struct {
	store store.Store
	opts  Options
}

// Result describes one finished site run.
type Result struct {
	RunID   string
	Site    string
	Summary summary.Snapshot
	// Skipped counts records dropped by the seen cache or the filter.
	Skipped int
	Posts   []*models.JobPosting
}

func New(st store.Store, opts Options) *Driver {
	if opts.Reporter == nil {
		opts.Reporter = reporter.LogReporter{}
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Driver{store: st, opts: opts}
}

// Run processes every record s emits, one at a time. The scrape error, if
// any, is returned after the summary has been reported and published.
func (d *Driver) Run(ctx context.Context, s scraper.Scraper) (Result, error) {
	site := s.Site()
	res := Result{RunID: uuid.NewString(), Site: s.Name()}
	persister := persist.NewPersister(d.store, normalizer.NewProcessorWithClock(scraper.NormalizerSite(site), d.opts.Now))

	log.Printf("\n▶️ Starting scraper: %s (run %s)", s.Name(), res.RunID)

	scrapeErr := s.Scrape(ctx, func(raw models.RawJobRecord) bool {
		if ctx.Err() != nil {
			return false
		}

		key := seenKey(site.BaseURL, raw)
		if d.opts.Seen != nil && d.opts.Seen.IsSeen(key) {
			res.Skipped++
			return true
		}
		if d.opts.Filter != nil {
			if ok, reason := d.opts.Filter.ShouldInclude(raw); !ok {
				log.Printf("🚫 Skipped (%s): %s", reason, raw.Title)
				res.Skipped++
				return true
			}
		}

		if err := s.FetchDetail(ctx, &raw); err != nil {
			log.Printf("⚠️ Detail page failed for %q, keeping card data: %v", raw.Title, err)
		}

		saved := persister.SaveJob(ctx, raw)
		switch saved.Outcome {
		case summary.OutcomeSaved:
			res.Posts = append(res.Posts, saved.Posting)
			if err := d.opts.Reporter.JobSaved(saved.Posting); err != nil {
				log.Printf("⚠️ Failed to report %q: %v", saved.Posting.Title, err)
			}
			d.markSeen(key)
		case summary.OutcomeDuplicate:
			d.markSeen(key)
		}

		if d.opts.JobLimit > 0 && persister.Summary().Saved() >= d.opts.JobLimit {
			log.Printf("🛑 Job limit %d reached for %s", d.opts.JobLimit, s.Name())
			return false
		}
		return true
	})

	res.Summary = persister.Summary().Snapshot()
	log.Printf("📊 %s: %s skipped=%d", s.Name(), res.Summary, res.Skipped)

	if err := d.opts.Reporter.RunFinished(s.Name(), res.Summary, scrapeErr); err != nil {
		log.Printf("⚠️ Failed to report run summary: %v", err)
	}
	d.publish(ctx, res, scrapeErr)
	return res, scrapeErr
}

func (d *Driver) markSeen(key string) {
	if d.opts.Seen != nil && key != "" {
		d.opts.Seen.Add(key)
	}
}

// publish outlives a cancelled run context so a timed-out run still leaves
// its summary behind.
func (d *Driver) publish(ctx context.Context, res Result, runErr error) {
	if d.opts.Runs == nil {
		return
	}
	pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	rec := store.RunRecord{
		RunID:      res.RunID,
		Site:       res.Site,
		FinishedAt: d.opts.Now().UTC(),
		Summary:    res.Summary,
	}
	if runErr != nil {
		rec.Error = runErr.Error()
	}
	if err := d.opts.Runs.SetSummary(pctx, rec); err != nil {
		log.Printf("⚠️ Failed to publish run summary %s: %v", res.RunID, err)
		return
	}
	log.Printf("💾 Run summary published: %s", res.RunID)
}

// seenKey mirrors the external URL the normalizer will store.
func seenKey(baseURL string, raw models.RawJobRecord) string {
	if u := normalizer.CanonicalURL(raw.SourceURL); u != "" {
		return u
	}
	return normalizer.SynthesizeURL(baseURL, normalizer.CollapseSpaces(raw.Title))
}
