package scraper

import (
	"encoding/json"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"aujobs-pipeline/internal/config"
	"aujobs-pipeline/internal/models"
	"aujobs-pipeline/internal/normalizer"
)

var idAttributes = []string{"data-job-id", "data-jobid", "data-id", "data-job-ref"}

// ParseListing extracts every card matching the site's card selector.
// Cards without a title are dropped.
func ParseListing(doc *goquery.Document, site config.Site, pageURL string) []models.RawJobRecord {
	var out []models.RawJobRecord
	doc.Find(site.Selectors.Card).Each(func(_ int, card *goquery.Selection) {
		if rec, ok := ParseCard(card, site, pageURL); ok {
			out = append(out, rec)
		}
	})
	return out
}

// ParseCard reads one listing card. A selector may end in "@attr" to read an
// attribute instead of the text, e.g. "time@datetime".
func ParseCard(card *goquery.Selection, site config.Site, pageURL string) (models.RawJobRecord, bool) {
	sel := site.Selectors
	title := field(card, sel.Title)
	if title == "" {
		return models.RawJobRecord{}, false
	}

	rec := models.RawJobRecord{
		Title:        title,
		CompanyName:  field(card, sel.Company),
		LocationText: field(card, sel.Location),
		SalaryText:   field(card, sel.Salary),
		PostedText:   field(card, sel.Posted),
		JobTypeText:  field(card, sel.JobType),
		CategoryText: field(card, sel.Category),
		ExternalID:   externalID(card),
	}
	if sel.Description != "" {
		if h, err := card.Find(sel.Description).First().Html(); err == nil {
			rec.Description = strings.TrimSpace(h)
		}
	}

	base := pageURL
	if base == "" {
		base = site.BaseURL
	}
	rec.SourceURL = resolveURL(base, cardLink(card, sel))
	return rec, true
}

// ParseDetail fills the description from a detail page, falling back to the
// schema.org JobPosting block. Company and posted date are only filled when
// the card left them empty.
func ParseDetail(doc *goquery.Document, site config.Site, rec *models.RawJobRecord) {
	if css := site.Selectors.DetailDescription; css != "" {
		if h, err := doc.Find(css).First().Html(); err == nil && strings.TrimSpace(h) != "" {
			rec.Description = strings.TrimSpace(h)
		}
	}

	posting, ok := jsonLDPosting(doc)
	if !ok {
		return
	}
	if strings.TrimSpace(rec.Description) == "" {
		rec.Description = posting.Description
	}
	if rec.CompanyName == "" {
		rec.CompanyName = normalizer.CollapseSpaces(posting.HiringOrganization.Name)
	}
	if rec.PostedText == "" {
		rec.PostedText = posting.DatePosted
	}
	if rec.JobTypeText == "" {
		rec.JobTypeText = posting.employmentType()
	}
}

func field(card *goquery.Selection, css string) string {
	if css == "" {
		return ""
	}
	attr := ""
	if i := strings.LastIndex(css, "@"); i > 0 && !strings.ContainsAny(css[i:], " ]") {
		css, attr = css[:i], css[i+1:]
	}

	var s *goquery.Selection
	if css == "." {
		s = card
	} else {
		s = card.Find(css).First()
	}
	if attr != "" {
		v, _ := s.Attr(attr)
		return normalizer.CollapseSpaces(v)
	}
	return normalizer.CollapseSpaces(s.Text())
}

func cardLink(card *goquery.Selection, sel config.Selectors) string {
	if sel.Link != "" {
		if href := field(card, withHref(sel.Link)); href != "" {
			return href
		}
	}
	if sel.Title != "" {
		t := card.Find(sel.Title).First()
		if href, ok := t.Attr("href"); ok {
			return href
		}
		if href, ok := t.Find("a[href]").First().Attr("href"); ok {
			return href
		}
	}
	if goquery.NodeName(card) == "a" {
		href, _ := card.Attr("href")
		return href
	}
	href, _ := card.Find("a[href]").First().Attr("href")
	return href
}

func withHref(css string) string {
	if strings.Contains(css, "@") {
		return css
	}
	return css + "@href"
}

func resolveURL(base, href string) string {
	href = strings.TrimSpace(href)
	if href == "" || href == "#" || strings.HasPrefix(strings.ToLower(href), "javascript:") {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	b, err := url.Parse(base)
	if err != nil || b.Host == "" {
		if ref.IsAbs() {
			return ref.String()
		}
		return ""
	}
	return b.ResolveReference(ref).String()
}

func externalID(card *goquery.Selection) string {
	for _, attr := range idAttributes {
		if v, ok := card.Attr(attr); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

type jobPostingLD struct {
	Type               any             `json:"@type"`
	Description        string          `json:"description"`
	DatePosted         string          `json:"datePosted"`
	EmploymentType     json.RawMessage `json:"employmentType"`
	HiringOrganization struct {
		Name string `json:"name"`
	} `json:"hiringOrganization"`
}

func (p jobPostingLD) isJobPosting() bool {
	switch t := p.Type.(type) {
	case string:
		return t == "JobPosting"
	case []any:
		for _, v := range t {
			if s, ok := v.(string); ok && s == "JobPosting" {
				return true
			}
		}
	}
	return false
}

// employmentType accepts both "FULL_TIME" and ["FULL_TIME", "CONTRACTOR"].
func (p jobPostingLD) employmentType() string {
	if len(p.EmploymentType) == 0 {
		return ""
	}
	var one string
	if json.Unmarshal(p.EmploymentType, &one) == nil {
		return strings.ReplaceAll(one, "_", " ")
	}
	var many []string
	if json.Unmarshal(p.EmploymentType, &many) == nil && len(many) > 0 {
		return strings.ReplaceAll(many[0], "_", " ")
	}
	return ""
}

func jsonLDPosting(doc *goquery.Document) (jobPostingLD, bool) {
	var found jobPostingLD
	ok := false
	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		raw := strings.TrimSpace(s.Text())
		var single jobPostingLD
		if json.Unmarshal([]byte(raw), &single) == nil && single.isJobPosting() {
			found, ok = single, true
			return false
		}
		var list []jobPostingLD
		if json.Unmarshal([]byte(raw), &list) == nil {
			for _, p := range list {
				if p.isJobPosting() {
					found, ok = p, true
					return false
				}
			}
		}
		return true
	})
	return found, ok
}
