package scraper

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aujobs-pipeline/internal/config"
	"aujobs-pipeline/internal/models"
)

func mustDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

var barcats = config.Site{
	Name:    "barcats",
	Source:  "barcats",
	BaseURL: "https://www.barcats.com.au",
	ListURL: "https://www.barcats.com.au/staff/hospitality-jobs/?page={page}",
	Selectors: config.Selectors{
		Card:     ".job-listing-block",
		Title:    "h3",
		Link:     "a.view-job",
		Company:  ".company",
		Location: ".location",
		Salary:   ".salary",
		Posted:   "time@datetime",
		JobType:  ".job-type",
		Category: ".category",
	},
}

const barcatsListing = `
<div class="results">
  <div class="job-listing-block" data-job-id="48213">
    <h3> Bartender </h3>
    <span class="company">The Grounds</span>
    <span class="location">Surry Hills, NSW</span>
    <span class="salary">$32 - $35 per hour</span>
    <time datetime="2025-09-08">2 days ago</time>
    <span class="job-type">Casual</span>
    <span class="category">Hospitality</span>
    <a class="view-job" href="/staff/job/48213-bartender/">View</a>
  </div>
  <div class="job-listing-block">
    <h3></h3>
    <a class="view-job" href="/staff/job/0/">View</a>
  </div>
  <div class="job-listing-block">
    <h3>Head Chef</h3>
    <a class="view-job" href="javascript:void(0)">Apply</a>
  </div>
</div>`

func TestParseListing(t *testing.T) {
	records := ParseListing(mustDoc(t, barcatsListing), barcats, "https://www.barcats.com.au/staff/hospitality-jobs/?page=1")
	require.Len(t, records, 2, "card without a title is dropped")

	bartender := records[0]
	assert.Equal(t, "Bartender", bartender.Title)
	assert.Equal(t, "The Grounds", bartender.CompanyName)
	assert.Equal(t, "Surry Hills, NSW", bartender.LocationText)
	assert.Equal(t, "$32 - $35 per hour", bartender.SalaryText)
	assert.Equal(t, "2025-09-08", bartender.PostedText)
	assert.Equal(t, "Casual", bartender.JobTypeText)
	assert.Equal(t, "Hospitality", bartender.CategoryText)
	assert.Equal(t, "48213", bartender.ExternalID)
	assert.Equal(t, "https://www.barcats.com.au/staff/job/48213-bartender/", bartender.SourceURL)

	chef := records[1]
	assert.Equal(t, "Head Chef", chef.Title)
	assert.Empty(t, chef.SourceURL, "javascript links leave the URL to be synthesized")
}

func TestParseCard_LinkFallbacks(t *testing.T) {
	site := config.Site{BaseURL: "https://www.jobs.act.gov.au", Selectors: config.Selectors{Card: "li", Title: ".title"}}

	tests := []struct {
		name string
		html string
		want string
	}{
		{"title is the link", `<li><a class="title" href="/opportunities/1">Policy Officer</a></li>`, "https://www.jobs.act.gov.au/opportunities/1"},
		{"link inside title", `<li><h2 class="title"><a href="opportunities/2">Policy Officer</a></h2></li>`, "https://www.jobs.act.gov.au/opportunities/2"},
		{"first anchor in card", `<li><span class="title">Policy Officer</span><a href="https://other.example/x">More</a></li>`, "https://other.example/x"},
		{"no link", `<li><span class="title">Policy Officer</span></li>`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			card := mustDoc(t, "<ul>"+tt.html+"</ul>").Find("li").First()
			rec, ok := ParseCard(card, site, "")
			require.True(t, ok)
			assert.Equal(t, tt.want, rec.SourceURL)
		})
	}
}

func TestParseCard_DescriptionKeepsMarkup(t *testing.T) {
	site := config.Site{BaseURL: "https://example.com.au", Selectors: config.Selectors{Card: "article", Title: "h2", Description: ".summary"}}
	card := mustDoc(t, `<article><h2>Driver</h2><div class="summary"><p>MR licence</p><ul><li>Early starts</li></ul></div></article>`).Find("article")

	rec, ok := ParseCard(card, site, "")
	require.True(t, ok)
	assert.Contains(t, rec.Description, "<li>Early starts</li>")
}

func TestParseDetail(t *testing.T) {
	site := config.Site{Selectors: config.Selectors{DetailDescription: ".job-description"}}
	doc := mustDoc(t, `<html><body><div class="job-description"><p>Lead the kitchen brigade.</p></div></body></html>`)

	rec := models.RawJobRecord{Title: "Head Chef"}
	ParseDetail(doc, site, &rec)
	assert.Equal(t, "<p>Lead the kitchen brigade.</p>", rec.Description)
}

func TestParseDetail_FallsBackToJSONLD(t *testing.T) {
	doc := mustDoc(t, `<html><head>
<script type="application/ld+json">
{
  "@context": "http://schema.org",
  "@type": "JobPosting",
  "title": "Site Supervisor",
  "description": "<p>Run civil works in Darwin.</p>",
  "datePosted": "2025-09-01",
  "employmentType": ["FULL_TIME", "CONTRACTOR"],
  "hiringOrganization": {"@type": "Organization", "name": "Territory Civil"}
}
</script></head><body></body></html>`)

	rec := models.RawJobRecord{Title: "Site Supervisor"}
	ParseDetail(doc, config.Site{}, &rec)

	assert.Equal(t, "<p>Run civil works in Darwin.</p>", rec.Description)
	assert.Equal(t, "Territory Civil", rec.CompanyName)
	assert.Equal(t, "2025-09-01", rec.PostedText)
	assert.Equal(t, "FULL TIME", rec.JobTypeText)
}

func TestParseDetail_KeepsCardValues(t *testing.T) {
	doc := mustDoc(t, `<script type="application/ld+json">[{"@type":"BreadcrumbList"},{"@type":"JobPosting","description":"From LD","hiringOrganization":{"name":"Other"}}]</script>`)

	rec := models.RawJobRecord{Title: "Nurse", CompanyName: "Calvary", Description: "From card"}
	ParseDetail(doc, config.Site{}, &rec)

	assert.Equal(t, "From card", rec.Description)
	assert.Equal(t, "Calvary", rec.CompanyName)
}

func TestPageURL(t *testing.T) {
	assert.Equal(t, "https://www.barcats.com.au/staff/hospitality-jobs/?page=3", PageURL(barcats, 3))

	paged := barcats
	paged.MaxPages = 4
	assert.Equal(t, 4, PageCount(paged))

	single := config.Site{ListURL: "https://www.jobs.act.gov.au/opportunities/all", MaxPages: 5}
	assert.Equal(t, 1, PageCount(single))
	assert.Equal(t, single.ListURL, PageURL(single, 1))
}

func TestNormalizerSite(t *testing.T) {
	site := config.Site{Source: "jobs.act.gov.au", BaseURL: "https://www.jobs.act.gov.au/opportunities/all", DefaultCompany: "ACT Government", DefaultCity: "Canberra"}
	ns := NormalizerSite(site)
	assert.Equal(t, "jobs.act.gov.au", ns.Source)
	assert.Equal(t, "ACT Government", ns.DefaultCompany)
	assert.Equal(t, "Canberra", ns.DefaultCity)
}
