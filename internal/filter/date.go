package filter

import (
	"time"

	"aujobs-pipeline/internal/normalizer"
)

// futureSlack tolerates timezone skew between the board and us.
const futureSlack = 2 * 24 * time.Hour

// IsRecent reports whether a posted text falls inside maxAge. Unparseable or
// empty dates are kept; maxAge <= 0 disables the check.
func IsRecent(postedText string, now time.Time, maxAge time.Duration) bool {
	if maxAge <= 0 {
		return true
	}
	posted := normalizer.ParseRelativeDate(postedText, now)
	if posted == nil {
		return true
	}

	diff := now.Sub(*posted)
	//reject if older than the window
	if diff > maxAge {
		return false
	}
	//reject if far in the future
	if diff < -futureSlack {
		return false
	}
	return true
}
