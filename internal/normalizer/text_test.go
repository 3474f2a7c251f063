package normalizer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := map[string]string{
		"Canberra Health Services":  "canberra-health-services",
		"Café Société!":             "cafe-societe",
		"  O'Brien Recruitment  ":   "obrien-recruitment",
		"Smith & Co. Pty Ltd":       "smith-co-pty-ltd",
		"":                          "",
		"---":                       "",
		"Data Analyst (APS 6) 2025": "data-analyst-aps-6-2025",
	}
	for input, expected := range tests {
		t.Run(input, func(t *testing.T) {
			assert.Equal(t, expected, Slugify(input))
		})
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", Truncate("abc", 5))
	assert.Equal(t, "ab", Truncate("abc", 2))
	assert.Equal(t, "été", Truncate("étés", 3))
	assert.Equal(t, "", Truncate("abc", 0))
}

func TestCanonicalURL(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"tracking dropped and query sorted", "HTTPS://Example.COM/jobs/1?utm_source=x&b=2&a=1&gclid=zz#frag", "https://example.com/jobs/1?a=1&b=2#frag"},
		{"no query", "https://www.hays.com.au/job/123", "https://www.hays.com.au/job/123"},
		{"empty", "  ", ""},
		{"not absolute", "/job/123", "/job/123"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CanonicalURL(tt.input))
		})
	}

	long := "https://example.com/" + strings.Repeat("a", 300)
	assert.Len(t, CanonicalURL(long), MaxURLLength)
}

func TestCleanDescription(t *testing.T) {
	html := `<p>Hello <b>world</b></p><ul><li>One</li><li>Two</li></ul><script>track()</script>`
	got := CleanDescription(html)

	assert.True(t, strings.HasPrefix(got, "Hello world"))
	assert.Contains(t, got, "- One")
	assert.Contains(t, got, "- Two")
	assert.NotContains(t, got, "track()")
	assert.NotContains(t, got, "<")
	assert.NotContains(t, got, "\n\n\n")
}

func TestCleanDescription_PlainText(t *testing.T) {
	assert.Equal(t, "Line one\n\nLine two", CleanDescription("  Line one  \n\n\n\n Line   two "))
	assert.Equal(t, "", CleanDescription("   "))
}
