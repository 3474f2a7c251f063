package normalizer

import (
	"net/url"
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	MaxTitleLength   = 200
	MaxURLLength     = 200
	MaxRawSalary     = 200
	MaxExternalID    = 100
	MaxLocationName  = 200
	MaxLocationPart  = 100
	MaxCategoryLabel = 200
)

var (
	nonSlugChars   = regexp.MustCompile(`[^a-z0-9]+`)
	spaceRun       = regexp.MustCompile(`[ \t\f\v\x{00a0}]+`)
	blankLineRun   = regexp.MustCompile(`\n{3,}`)
	htmlTagPattern = regexp.MustCompile(`(?i)<\s*/?\s*(p|div|br|li|ul|ol|span|strong|b|em|h[1-6]|table|tr|td|a)\b[^>]*>`)
)

// block-level elements end with a line break when flattened to text
var blockTags = map[string]bool{
	"p": true, "div": true, "br": true, "li": true, "ul": true, "ol": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"tr": true, "table": true, "section": true, "article": true, "header": true,
	"footer": true, "blockquote": true, "pre": true,
}

// trackingParams are dropped from canonical URLs
var trackingParams = map[string]bool{
	"ref": true, "source": true, "src": true, "gclid": true, "fbclid": true, "trk": true,
}

// foldDiacritics strips combining marks: "Café" -> "Cafe"
func foldDiacritics(str string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, err := transform.String(t, str)
	if err != nil {
		return str
	}
	return result
}

// Slugify turns a display name into a lowercase, hyphen-separated key.
func Slugify(s string) string {
	s = strings.ToLower(foldDiacritics(strings.TrimSpace(s)))
	s = strings.ReplaceAll(s, "'", "")
	s = nonSlugChars.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// Truncate caps s at max runes.
func Truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return strings.TrimSpace(string(r[:max]))
}

// CollapseSpaces trims s and squeezes internal whitespace to single spaces.
func CollapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// CanonicalURL normalizes scheme and host, drops tracking parameters and sorts
// what is left of the query. The fragment is kept because some sites only
// offer synthesized "#slug" identities.
func CanonicalURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return Truncate(raw, MaxURLLength)
	}
	if u.Scheme == "" {
		u.Scheme = "https"
	}
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)

	q := u.Query()
	keys := make([]string, 0, len(q))
	for k := range q {
		lk := strings.ToLower(k)
		if strings.HasPrefix(lk, "utm_") || trackingParams[lk] {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	for _, k := range keys {
		for _, v := range q[k] {
			if b.Len() > 0 {
				b.WriteByte('&')
			}
			b.WriteString(url.QueryEscape(k))
			b.WriteByte('=')
			b.WriteString(url.QueryEscape(v))
		}
	}
	u.RawQuery = b.String()
	return Truncate(u.String(), MaxURLLength)
}

// LooksLikeHTML reports whether s carries markup worth parsing.
func LooksLikeHTML(s string) bool {
	return htmlTagPattern.MatchString(s)
}

// CleanDescription flattens HTML to readable text. Plain text only gets its
// whitespace tidied.
func CleanDescription(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if !LooksLikeHTML(s) {
		return tidyLines(s)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return tidyLines(s)
	}
	doc.Find("script, style, noscript, iframe, svg, form, button").Remove()

	var b strings.Builder
	for _, n := range doc.Selection.Nodes {
		flatten(n, &b)
	}
	return tidyLines(b.String())
}

func flatten(n *html.Node, b *strings.Builder) {
	switch n.Type {
	case html.TextNode:
		b.WriteString(n.Data)
		return
	case html.ElementNode:
		if n.Data == "li" {
			b.WriteString("\n- ")
		} else if blockTags[n.Data] {
			b.WriteString("\n")
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		flatten(c, b)
	}
	if n.Type == html.ElementNode && blockTags[n.Data] && n.Data != "br" {
		b.WriteString("\n")
	}
}

func tidyLines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(spaceRun.ReplaceAllString(line, " "))
	}
	out := strings.Join(lines, "\n")
	out = blankLineRun.ReplaceAllString(out, "\n\n")
	return strings.TrimSpace(out)
}
