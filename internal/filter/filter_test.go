package filter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"aujobs-pipeline/internal/models"
)

var now = time.Date(2025, time.September, 10, 15, 30, 0, 0, time.UTC)

func fixedNow() time.Time { return now }

func TestShouldInclude(t *testing.T) {
	f := New(Options{
		ExcludeKeywords: []string{"unpaid", "commission only", ""},
		MaxAge:          30 * 24 * time.Hour,
		Now:             fixedNow,
	})

	tests := []struct {
		name       string
		raw        models.RawJobRecord
		want       bool
		wantReason string
	}{
		{"plain listing", models.RawJobRecord{Title: "Registered Nurse", PostedText: "2 days ago"}, true, ""},
		{"excluded in title", models.RawJobRecord{Title: "Unpaid Marketing Intern"}, false, "excluded_keyword:unpaid"},
		{"excluded phrase across spaces", models.RawJobRecord{Title: "Sales Rep", Description: "This role is COMMISSION   ONLY"}, false, "excluded_keyword:commission   only"},
		{"keyword inside a word", models.RawJobRecord{Title: "Unpaidable Widgets Officer"}, true, ""},
		{"stale", models.RawJobRecord{Title: "Chef", PostedText: "2 months ago"}, false, ReasonStale},
		{"unknown date kept", models.RawJobRecord{Title: "Chef", PostedText: "Featured"}, true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, reason := f.ShouldInclude(tt.raw)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantReason, reason)
		})
	}
}

func TestShouldInclude_NoOptions(t *testing.T) {
	f := New(Options{})
	ok, _ := f.ShouldInclude(models.RawJobRecord{Title: "Unpaid", PostedText: "1 year ago"})
	assert.True(t, ok)
}

func TestIsRecent(t *testing.T) {
	window := 60 * 24 * time.Hour

	assert.True(t, IsRecent("", now, window))
	assert.True(t, IsRecent("today", now, window))
	assert.True(t, IsRecent("2025-08-01", now, window))
	assert.False(t, IsRecent("2025-06-01", now, window))
	assert.False(t, IsRecent("2025-12-25", now, window), "far future dates are bogus")
	assert.True(t, IsRecent("2025-06-01", now, 0))
}
