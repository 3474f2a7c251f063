package normalizer

import (
	"regexp"
	"strings"

	"aujobs-pipeline/internal/models"
)

const FallbackLocation = "Australia"

type stateInfo struct {
	abbrev string
	name   string
}

var australianStates = []stateInfo{
	{"NSW", "New South Wales"},
	{"VIC", "Victoria"},
	{"QLD", "Queensland"},
	{"WA", "Western Australia"},
	{"SA", "South Australia"},
	{"TAS", "Tasmania"},
	{"ACT", "Australian Capital Territory"},
	{"NT", "Northern Territory"},
}

var capitalCities = map[string]string{
	"sydney":    "New South Wales",
	"melbourne": "Victoria",
	"brisbane":  "Queensland",
	"perth":     "Western Australia",
	"adelaide":  "South Australia",
	"hobart":    "Tasmania",
	"canberra":  "Australian Capital Territory",
	"darwin":    "Northern Territory",
}

var (
	stateFullRegex   = buildStateRegex(func(s stateInfo) string { return s.name })
	stateAbbrevRegex = buildStateRegex(func(s stateInfo) string { return s.abbrev })
	locationSplit    = regexp.MustCompile(`\s*(?:,|\||\s-\s|\s–\s)\s*`)
	postcodeRegex    = regexp.MustCompile(`\b\d{4}\b`)
	countryRegex     = regexp.MustCompile(`(?i)\baustralia\b`)
)

func buildStateRegex(pick func(stateInfo) string) *regexp.Regexp {
	parts := make([]string, 0, len(australianStates))
	for _, s := range australianStates {
		parts = append(parts, regexp.QuoteMeta(pick(s)))
	}
	return regexp.MustCompile(`(?i)\b(` + strings.Join(parts, "|") + `)\b`)
}

func stateByToken(token string) string {
	for _, s := range australianStates {
		if strings.EqualFold(s.abbrev, token) || strings.EqualFold(s.name, token) {
			return s.name
		}
	}
	return ""
}

// findState returns the full state name and the matched token, if any. The
// right-most token wins: "Victoria Park, WA" is in Western Australia.
func findState(text string) (string, string) {
	best, bestStart := "", -1
	for _, re := range []*regexp.Regexp{stateFullRegex, stateAbbrevRegex} {
		for _, idx := range re.FindAllStringIndex(text, -1) {
			if idx[0] > bestStart {
				best, bestStart = text[idx[0]:idx[1]], idx[0]
			}
		}
	}
	if best == "" {
		return "", ""
	}
	return stateByToken(best), best
}

// ParseLocation splits free-text location into city/state. An empty input
// falls back to defaultCity (a site's home city), and failing that to
// "Australia".
func ParseLocation(text, defaultCity string) models.ParsedLocation {
	loc := models.ParsedLocation{Country: models.DefaultCountry}

	text = CollapseSpaces(text)
	if text == "" {
		text = CollapseSpaces(defaultCity)
	}
	if text == "" || strings.EqualFold(text, FallbackLocation) {
		loc.DisplayName = FallbackLocation
		return loc
	}

	state, token := findState(text)
	if state == "" {
		loc.City = cleanCity(text)
		loc.State = capitalCities[strings.ToLower(loc.City)]
	} else {
		loc.State = state
		loc.City = pickCity(locationSplit.Split(text, -1), token)
	}
	loc.City = Truncate(loc.City, MaxLocationPart)
	loc.State = Truncate(loc.State, MaxLocationPart)

	switch {
	case loc.City != "" && loc.State != "":
		loc.DisplayName = loc.City + ", " + loc.State
	case loc.City != "":
		loc.DisplayName = loc.City
	case loc.State != "":
		loc.DisplayName = loc.State
	default:
		loc.DisplayName = FallbackLocation
	}
	loc.DisplayName = Truncate(loc.DisplayName, MaxLocationName)
	return loc
}

// pickCity prefers a capital city, then the part holding the state token,
// then its neighbours, then whatever is left in order.
func pickCity(parts []string, token string) string {
	cities := make([]string, len(parts))
	for i, part := range parts {
		cities[i] = cleanCity(removeToken(part, token))
		if _, ok := capitalCities[strings.ToLower(cities[i])]; ok {
			return cities[i]
		}
	}

	at := -1
	tokenRegex := regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(token) + `\b`)
	for i, part := range parts {
		if tokenRegex.MatchString(part) {
			at = i
		}
	}
	if at >= 0 {
		for _, i := range []int{at, at - 1, at + 1} {
			if i >= 0 && i < len(cities) && cities[i] != "" {
				return cities[i]
			}
		}
	}
	for _, city := range cities {
		if city != "" {
			return city
		}
	}
	return ""
}

func removeToken(part, token string) string {
	if token == "" {
		return part
	}
	re := regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(token) + `\b`)
	return re.ReplaceAllString(part, " ")
}

func cleanCity(s string) string {
	s = postcodeRegex.ReplaceAllString(s, " ")
	s = countryRegex.ReplaceAllString(s, " ")
	s = strings.Trim(CollapseSpaces(s), " ,|-–")
	return s
}
