// Package scheduler wires up the cron job that periodically crawls every
// enabled site.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"aujobs-pipeline/internal/crawl"
	"aujobs-pipeline/internal/scraper"
)

// Runner is satisfied by *crawl.Driver.
type Runner interface {
	Run(ctx context.Context, s scraper.Scraper) (crawl.Result, error)
}

// Scheduler wraps robfig/cron and manages the crawl loop.
type Scheduler struct {
	cron       *cron.Cron
	runner     Runner
	scrapers   []scraper.Scraper
	spec       string // cron spec, e.g. "@every 6h"
	runTimeout time.Duration

	mu      sync.Mutex
	running bool
	last    []crawl.Result
}

func New(runner Runner, scrapers []scraper.Scraper, spec string, runTimeout time.Duration) *Scheduler {
	return &Scheduler{
		cron:       cron.New(cron.WithLogger(cron.DefaultLogger)),
		runner:     runner,
		scrapers:   scrapers,
		spec:       spec,
		runTimeout: runTimeout,
	}
}

// Start registers the job and starts the scheduler. One cycle also runs
// immediately so the store fills without waiting for the first tick.
func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.spec, func() {
		s.RunCycle(ctx)
	})
	if err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}

	s.cron.Start()
	log.Printf("[scheduler] Cron started: spec %s", s.spec)

	go s.RunCycle(ctx)
	return nil
}

// Stop waits for a running cycle to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	log.Println("[scheduler] Cron stopped")
}

// RunCycle crawls every site in order. A cycle that starts while another is
// still running is skipped.
func (s *Scheduler) RunCycle(ctx context.Context) []crawl.Result {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		log.Println("[scheduler] Previous cycle still running, skipping")
		return nil
	}
	s.running = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	log.Printf("[scheduler] Crawl cycle started for %d site(s)", len(s.scrapers))
	var results []crawl.Result
	for _, sc := range s.scrapers {
		if ctx.Err() != nil {
			break
		}
		res, err := s.runOne(ctx, sc)
		if err != nil {
			log.Printf("[scheduler] %s failed: %v", sc.Name(), err)
		}
		results = append(results, res)
	}

	s.mu.Lock()
	s.last = results
	s.mu.Unlock()
	log.Println("[scheduler] Crawl cycle complete")
	return results
}

func (s *Scheduler) runOne(ctx context.Context, sc scraper.Scraper) (crawl.Result, error) {
	if s.runTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.runTimeout)
		defer cancel()
	}
	return s.runner.Run(ctx, sc)
}

// LastResults returns the results of the most recent finished cycle.
func (s *Scheduler) LastResults() []crawl.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]crawl.Result, len(s.last))
	copy(out, s.last)
	return out
}
