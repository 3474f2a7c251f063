// Package filter drops listings before they reach the store.
package filter

import (
	"regexp"
	"strings"
	"time"

	"aujobs-pipeline/internal/models"
)

const (
	ReasonExcluded = "excluded_keyword"
	ReasonStale    = "too_old"
)

type Options struct {
	ExcludeKeywords []string
	MaxAge          time.Duration
	Now             func() time.Time
}

type Filter struct {
	exclude *regexp.Regexp
	maxAge  time.Duration
	now     func() time.Time
}

func New(opts Options) *Filter {
	f := &Filter{maxAge: opts.MaxAge, now: opts.Now}
	if f.now == nil {
		f.now = time.Now
	}

	var parts []string
	for _, kw := range opts.ExcludeKeywords {
		kw = strings.TrimSpace(kw)
		if kw == "" {
			continue
		}
		parts = append(parts, strings.Join(strings.Fields(regexp.QuoteMeta(kw)), `\s+`))
	}
	if len(parts) > 0 {
		f.exclude = regexp.MustCompile(`(?i)\b(` + strings.Join(parts, "|") + `)\b`)
	}
	return f
}

// ShouldInclude returns false and a reason when raw must be skipped.
func (f *Filter) ShouldInclude(raw models.RawJobRecord) (bool, string) {
	if f.exclude != nil {
		text := raw.Title + " " + raw.CompanyName + " " + raw.Description
		if m := f.exclude.FindString(text); m != "" {
			return false, ReasonExcluded + ":" + strings.ToLower(m)
		}
	}
	if !IsRecent(raw.PostedText, f.now(), f.maxAge) {
		return false, ReasonStale
	}
	return true, ""
}
