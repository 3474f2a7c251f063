package normalizer

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"aujobs-pipeline/internal/models"
)

var (
	// amount, optional decimals, optional k/K shorthand, optional percent
	salaryNumberRegex = regexp.MustCompile(`(?i)(\$\s*)?(\d{1,3}(?:,\d{3})+|\d+)(\.\d+)?\s*(k\b)?\s*(%)?`)

	hourlyRegex  = regexp.MustCompile(`(?i)hour|/\s*hr\b|\bp\.?h\b|\bph\b`)
	dailyRegex   = regexp.MustCompile(`(?i)\bday\b|\bdaily\b|/\s*day|\bp\.?d\b`)
	weeklyRegex  = regexp.MustCompile(`(?i)week|/\s*wk\b|\bp\.?w\b`)
	monthlyRegex = regexp.MustCompile(`(?i)month|/\s*mo\b`)
	yearlyRegex  = regexp.MustCompile(`(?i)year|annum|annual|\bp\.?a\b|\bpa\b`)

	usdRegex = regexp.MustCompile(`(?i)\busd\b`)
	gbpRegex = regexp.MustCompile(`(?i)£|\bgbp\b`)
	eurRegex = regexp.MustCompile(`(?i)€|\beur\b`)

	// text between the two bounds of a range
	rangeSepRegex = regexp.MustCompile(`(?i)^\s*(?:-|–|—|to)\s*$`)
)

type salaryFigure struct {
	value    float64
	currency bool
	k        bool
	// partner marks an unprefixed upper bound: "$50 - 60"
	partner  bool
	start    int
	end      int
}

// ParseSalary extracts a salary range from free text. It never fails: empty or
// unparseable input yields nil bounds with AUD/yearly defaults.
func ParseSalary(text string) models.Salary {
	text = strings.TrimSpace(text)
	result := models.Salary{
		Currency: models.DefaultCurrency,
		Period:   models.PeriodYearly,
		RawText:  Truncate(text, MaxRawSalary),
	}
	if text == "" {
		return result
	}

	result.Currency = detectCurrency(text)
	result.Period = detectPeriod(text)

	figures := salaryFigures(text)
	if len(figures) == 0 {
		return result
	}

	low := figures[0].value
	high := low
	if len(figures) > 1 {
		high = figures[1].value
	}
	if low > high {
		low, high = high, low
	}
	result.Min = &low
	result.Max = &high
	return result
}

func detectCurrency(text string) string {
	switch {
	case usdRegex.MatchString(text):
		return "USD"
	case gbpRegex.MatchString(text):
		return "GBP"
	case eurRegex.MatchString(text):
		return "EUR"
	default:
		return models.DefaultCurrency
	}
}

// detectPeriod checks the most specific unit first so "per hour" beats a
// stray "year" in "$45 per hour + super (12% per year)".
func detectPeriod(text string) models.SalaryPeriod {
	switch {
	case hourlyRegex.MatchString(text):
		return models.PeriodHourly
	case dailyRegex.MatchString(text):
		return models.PeriodDaily
	case weeklyRegex.MatchString(text):
		return models.PeriodWeekly
	case monthlyRegex.MatchString(text):
		return models.PeriodMonthly
	case yearlyRegex.MatchString(text):
		return models.PeriodYearly
	}
	// no keyword: listed figures in this market are annual
	return models.PeriodYearly
}

// salaryFigures returns the usable amounts in order of appearance, at most two.
func salaryFigures(text string) []salaryFigure {
	matches := salaryNumberRegex.FindAllStringSubmatchIndex(text, -1)

	var all []salaryFigure
	hasCurrency := false
	for _, m := range matches {
		group := func(n int) string {
			if m[2*n] < 0 {
				return ""
			}
			return text[m[2*n]:m[2*n+1]]
		}
		if group(5) != "" {
			// percentages are super/loading, never pay
			continue
		}
		digits := strings.ReplaceAll(group(2), ",", "") + group(3)
		v, err := strconv.ParseFloat(digits, 64)
		if err != nil || v <= 0 {
			continue
		}
		f := salaryFigure{value: v, currency: group(1) != "", k: group(4) != "", start: m[0], end: m[1]}
		if f.k {
			f.value *= 1000
		}
		if f.currency {
			hasCurrency = true
		} else if n := len(all); n > 0 && all[n-1].currency {
			f.partner = rangeSepRegex.MatchString(text[all[n-1].end:f.start])
		}
		all = append(all, f)
	}

	if hasCurrency {
		kept := all[:0]
		for _, f := range all {
			if f.currency || f.partner {
				kept = append(kept, f)
			}
		}
		all = kept
	}
	if len(all) > 2 {
		all = all[:2]
	}

	// "80-100k": the shorthand on the upper bound applies to the lower bound too
	if len(all) == 2 && all[1].k && !all[0].k && all[0].value < 1000 {
		all[0].value *= 1000
		all[0].k = true
	}

	for i := range all {
		all[i].value = math.Round(all[i].value*100) / 100
	}
	return all
}
