package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aujobs-pipeline/internal/config"
	"aujobs-pipeline/internal/crawl"
	"aujobs-pipeline/internal/models"
	"aujobs-pipeline/internal/scraper"
)

type namedScraper struct{ name string }

func (n namedScraper) Name() string                                           { return n.name }
func (n namedScraper) Site() config.Site                                      { return config.Site{Name: n.name} }
func (n namedScraper) Scrape(context.Context, scraper.EmitFunc) error         { return nil }
func (n namedScraper) FetchDetail(context.Context, *models.RawJobRecord) error { return nil }

type fakeRunner struct {
	mu      sync.Mutex
	order   []string
	fail    string
	block   chan struct{}
	started chan struct{}
}

func (f *fakeRunner) Run(ctx context.Context, s scraper.Scraper) (crawl.Result, error) {
	if f.started != nil {
		f.started <- struct{}{}
	}
	if f.block != nil {
		<-f.block
	}
	f.mu.Lock()
	f.order = append(f.order, s.Name())
	f.mu.Unlock()
	if s.Name() == f.fail {
		return crawl.Result{Site: s.Name()}, errors.New("boom")
	}
	if _, ok := ctx.Deadline(); !ok {
		return crawl.Result{}, errors.New("run timeout not applied")
	}
	return crawl.Result{Site: s.Name()}, nil
}

func scrapers(names ...string) []scraper.Scraper {
	out := make([]scraper.Scraper, len(names))
	for i, n := range names {
		out[i] = namedScraper{n}
	}
	return out
}

func TestRunCycle_SequentialAndContinuesPastFailures(t *testing.T) {
	runner := &fakeRunner{fail: "hays"}
	s := New(runner, scrapers("actgov", "hays", "talent"), "@every 6h", time.Minute)

	results := s.RunCycle(context.Background())
	assert.Equal(t, []string{"actgov", "hays", "talent"}, runner.order)
	require.Len(t, results, 3)
	assert.Equal(t, results, s.LastResults())
}

func TestRunCycle_SkipsOverlappingCycle(t *testing.T) {
	runner := &fakeRunner{block: make(chan struct{}), started: make(chan struct{}, 1)}
	s := New(runner, scrapers("actgov"), "@every 6h", time.Minute)

	done := make(chan []crawl.Result)
	go func() { done <- s.RunCycle(context.Background()) }()
	<-runner.started

	assert.Nil(t, s.RunCycle(context.Background()))

	close(runner.block)
	assert.Len(t, <-done, 1)
}

func TestStart_InvalidSpec(t *testing.T) {
	s := New(&fakeRunner{}, nil, "every now and then", time.Minute)
	assert.Error(t, s.Start(context.Background()))
}
