package htmlsite

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aujobs-pipeline/internal/config"
	"aujobs-pipeline/internal/models"
)

const listingPage = `<html><body>
<div class="job" data-id="%[1]d1"><h2><a href="/job/%[1]d1">Payroll Officer %[1]d</a></h2><span class="loc">Parramatta, NSW</span></div>
<div class="job" data-id="%[1]d2"><h2><a href="/job/%[1]d2">Accounts Clerk %[1]d</a></h2><span class="loc">Sydney NSW 2000</span></div>
</body></html>`

const detailPage = `<html><body><section class="desc"><p>Process fortnightly payroll.</p></section></body></html>`

func newBoard(t *testing.T, pages int) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/jobs", func(w http.ResponseWriter, r *http.Request) {
		var page int
		fmt.Sscanf(r.URL.Query().Get("page"), "%d", &page)
		if page > pages {
			fmt.Fprint(w, "<html><body><p>No results</p></body></html>")
			return
		}
		fmt.Fprintf(w, listingPage, page)
	})
	mux.HandleFunc("/job/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, detailPage)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func siteFor(srv *httptest.Server) config.Site {
	return config.Site{
		Name:        "michaelpage",
		Source:      "michaelpage.com.au",
		Mode:        config.ModeHTTP,
		BaseURL:     srv.URL,
		ListURL:     srv.URL + "/jobs?page={page}",
		MaxPages:    5,
		DetailPages: true,
		Selectors: config.Selectors{
			Card:              ".job",
			Title:             "h2",
			Location:          ".loc",
			DetailDescription: ".desc",
		},
	}
}

func newScraper(t *testing.T, site config.Site) *Scraper {
	s, err := New(site, Options{UserAgent: "aujobs-test", Timeout: 5 * time.Second})
	require.NoError(t, err)
	return s
}

func TestScrape_WalksPagesUntilEmpty(t *testing.T) {
	srv := newBoard(t, 2)
	s := newScraper(t, siteFor(srv))

	var got []models.RawJobRecord
	err := s.Scrape(context.Background(), func(rec models.RawJobRecord) bool {
		got = append(got, rec)
		return true
	})
	require.NoError(t, err)
	require.Len(t, got, 4)

	assert.Equal(t, "Payroll Officer 1", got[0].Title)
	assert.Equal(t, "Parramatta, NSW", got[0].LocationText)
	assert.Equal(t, srv.URL+"/job/11", got[0].SourceURL)
	assert.Equal(t, "11", got[0].ExternalID)
	assert.Equal(t, "Accounts Clerk 2", got[3].Title)
}

func TestScrape_StopsWhenEmitReturnsFalse(t *testing.T) {
	srv := newBoard(t, 5)
	s := newScraper(t, siteFor(srv))

	n := 0
	err := s.Scrape(context.Background(), func(models.RawJobRecord) bool {
		n++
		return n < 3
	})
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestScrape_FirstPageFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	s := newScraper(t, siteFor(srv))
	err := s.Scrape(context.Background(), func(models.RawJobRecord) bool { return true })
	assert.Error(t, err)
}

func TestScrape_CancelledContext(t *testing.T) {
	srv := newBoard(t, 1)
	s := newScraper(t, siteFor(srv))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := s.Scrape(ctx, func(models.RawJobRecord) bool { return true })
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFetchDetail(t *testing.T) {
	srv := newBoard(t, 1)
	s := newScraper(t, siteFor(srv))

	rec := models.RawJobRecord{Title: "Payroll Officer", SourceURL: srv.URL + "/job/11"}
	require.NoError(t, s.FetchDetail(context.Background(), &rec))
	assert.Equal(t, "<p>Process fortnightly payroll.</p>", rec.Description)
}

func TestFetchDetail_DisabledOrNoURL(t *testing.T) {
	srv := newBoard(t, 1)
	site := siteFor(srv)
	site.DetailPages = false
	s := newScraper(t, site)

	rec := models.RawJobRecord{Title: "Payroll Officer", SourceURL: srv.URL + "/job/11"}
	require.NoError(t, s.FetchDetail(context.Background(), &rec))
	assert.Empty(t, rec.Description)

	withDetail := newScraper(t, siteFor(srv))
	noURL := models.RawJobRecord{Title: "Payroll Officer"}
	require.NoError(t, withDetail.FetchDetail(context.Background(), &noURL))
	assert.Empty(t, noURL.Description)
}
