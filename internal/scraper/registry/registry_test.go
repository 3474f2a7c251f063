package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aujobs-pipeline/internal/config"
)

func TestBuild(t *testing.T) {
	cfg := &config.Config{UserAgent: "test"}
	sites := []config.Site{
		{Name: "jobsearch", Mode: config.ModeHTTP, ListURL: "https://www.jobsearch.com.au/jobs"},
		{Name: "michaelpage", Mode: config.ModeHTTP, ListURL: "https://www.michaelpage.com.au/jobs"},
	}

	scrapers, err := Build(cfg, sites, nil)
	require.NoError(t, err)
	require.Len(t, scrapers, 2)
	assert.Equal(t, "jobsearch", scrapers[0].Name())
	assert.Equal(t, "michaelpage", scrapers[1].Site().Name)
}

func TestBuild_BrowserSiteWithoutBrowser(t *testing.T) {
	sites := []config.Site{{Name: "barcats", Mode: config.ModeBrowser}}
	assert.True(t, NeedsBrowser(sites))

	_, err := Build(&config.Config{}, sites, nil)
	assert.ErrorIs(t, err, ErrBrowserRequired)
}

func TestBuild_UnknownMode(t *testing.T) {
	_, err := Build(&config.Config{}, []config.Site{{Name: "x", Mode: "ftp"}}, nil)
	assert.Error(t, err)
	assert.False(t, NeedsBrowser([]config.Site{{Mode: config.ModeHTTP}}))
}
