package normalizer

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// PostedHour is the time of day assigned to date-only results.
const PostedHour = 9

var (
	relativeAgoRegex = regexp.MustCompile(`(?i)\b(\d+|an?)\+?\s*(hour|hr|day|week|wk|month)s?\s+ago\b`)
	isoDateRegex     = regexp.MustCompile(`\b(\d{4})-(\d{2})-(\d{2})(?:\b|t)`)
	slashDateRegex   = regexp.MustCompile(`\b(\d{1,2})/(\d{1,2})/(\d{4})\b`)
	longDateRegex    = regexp.MustCompile(`\b(\d{1,2})(?:st|nd|rd|th)?\s+([A-Za-z]{3,9})\.?,?\s+(\d{4})\b`)
)

// ParseRelativeDate resolves "today", "3 days ago", "27 August 2025",
// "27/08/2025" and ISO dates against now. It returns nil when nothing matches.
func ParseRelativeDate(text string, now time.Time) *time.Time {
	s := strings.ToLower(CollapseSpaces(text))
	if s == "" {
		return nil
	}

	switch {
	case strings.Contains(s, "today"), strings.Contains(s, "just now"), strings.Contains(s, "just posted"):
		t := atPostedHour(now)
		return &t
	case strings.Contains(s, "yesterday"):
		t := atPostedHour(now.AddDate(0, 0, -1))
		return &t
	}

	if m := relativeAgoRegex.FindStringSubmatch(s); m != nil {
		n := 1
		if m[1] != "a" && m[1] != "an" {
			v, err := strconv.Atoi(m[1])
			if err != nil {
				return nil
			}
			n = v
		}
		var t time.Time
		switch m[2] {
		case "hour", "hr":
			t = now.Add(-time.Duration(n) * time.Hour).Truncate(time.Hour)
		case "day":
			t = atPostedHour(now.AddDate(0, 0, -n))
		case "week", "wk":
			t = atPostedHour(now.AddDate(0, 0, -7*n))
		case "month":
			t = atPostedHour(now.AddDate(0, 0, -30*n))
		default:
			return nil
		}
		return &t
	}

	return parseAbsoluteDate(s, now.Location())
}

func parseAbsoluteDate(s string, loc *time.Location) *time.Time {
	if m := isoDateRegex.FindStringSubmatch(s); m != nil {
		return buildDate(m[1], m[2], m[3], loc)
	}

	//assume dd/mm/yyyy
	if m := slashDateRegex.FindStringSubmatch(s); m != nil {
		return buildDate(m[3], m[2], m[1], loc)
	}

	if m := longDateRegex.FindStringSubmatch(s); m != nil {
		month, ok := monthByName(m[2])
		if !ok {
			return nil
		}
		return buildDate(m[3], strconv.Itoa(int(month)), m[1], loc)
	}
	return nil
}

func buildDate(year, month, day string, loc *time.Location) *time.Time {
	y, errY := strconv.Atoi(year)
	mo, errM := strconv.Atoi(month)
	d, errD := strconv.Atoi(day)
	if errY != nil || errM != nil || errD != nil {
		return nil
	}
	if mo < 1 || mo > 12 || d < 1 || d > 31 {
		return nil
	}
	t := time.Date(y, time.Month(mo), d, PostedHour, 0, 0, 0, loc)
	// time.Date normalizes 31/02 into March; reject instead
	if t.Day() != d {
		return nil
	}
	return &t
}

func monthByName(name string) (time.Month, bool) {
	name = strings.ToLower(name)
	if len(name) < 3 {
		return 0, false
	}
	for m := time.January; m <= time.December; m++ {
		full := strings.ToLower(m.String())
		if name == full || name == full[:3] || (name == "sept" && m == time.September) {
			return m, true
		}
	}
	return 0, false
}

func atPostedHour(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), PostedHour, 0, 0, 0, t.Location())
}
