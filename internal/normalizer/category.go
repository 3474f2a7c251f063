package normalizer

import (
	"regexp"
	"strings"

	"aujobs-pipeline/internal/models"
)

const maxCategoryKey = 50

type categoryRule struct {
	key      string
	label    string
	keywords []*regexp.Regexp
}

// categoryTable is ordered: on equal scores the earlier category wins.
var categoryTable = buildCategoryTable([]struct {
	key, label string
	words      []string
}{
	{"technology", "Technology", []string{
		"developer", "engineer", "programmer", "software", "web", "mobile", "frontend", "backend",
		"fullstack", "devops", "data scientist", "data analyst", "database", "python", "java",
		"javascript", "react", "node", "php", "ios", "android", "ui/ux", "architect", "technical",
		"it support", "system admin", "network", "security", "cyber", "cloud", "aws", "azure",
		"docker", "kubernetes", "machine learning", "artificial intelligence",
	}},
	{"finance", "Finance", []string{
		"accountant", "financial", "finance", "banking", "investment", "auditor", "bookkeeper",
		"treasurer", "cfo", "credit", "tax", "payroll", "budget", "accounting", "cpa",
	}},
	{"healthcare", "Healthcare", []string{
		"nurse", "doctor", "physician", "medical", "healthcare", "health", "clinical", "therapist",
		"dentist", "pharmacist", "radiologist", "surgeon", "physiotherapist", "psychologist",
		"psychiatrist", "paramedic", "hospital", "clinic", "patient care", "aged care", "midwife",
	}},
	{"marketing", "Marketing", []string{
		"marketing", "digital marketing", "social media", "seo", "sem", "brand", "advertising",
		"campaign", "communications", "public relations", "copywriter", "content creator",
		"graphic designer", "creative", "market research",
	}},
	{"sales", "Sales", []string{
		"sales", "business development", "account manager", "sales rep", "sales executive",
		"crm", "lead generation", "customer success", "relationship manager", "b2b", "b2c",
	}},
	{"hr", "Human Resources", []string{
		"hr", "human resources", "recruiter", "recruitment", "talent acquisition",
		"employee relations", "payroll officer", "workforce", "staffing", "onboarding",
	}},
	{"education", "Education", []string{
		"teacher", "professor", "instructor", "educator", "tutor", "academic", "school",
		"university", "college", "education", "curriculum", "principal", "librarian",
		"teaching assistant", "faculty", "early childhood",
	}},
	{"retail", "Retail", []string{
		"retail", "sales assistant", "cashier", "store", "shop", "merchandising", "inventory",
		"customer service", "visual merchandiser", "buyer", "ecommerce",
	}},
	{"hospitality", "Hospitality", []string{
		"hotel", "restaurant", "hospitality", "chef", "cook", "waiter", "waitress", "bartender",
		"barista", "host", "concierge", "housekeeper", "front desk", "reception", "catering",
		"tourism", "food and beverage", "bar attendant", "kitchen hand",
	}},
	{"construction", "Construction", []string{
		"construction", "builder", "electrician", "plumber", "carpenter", "roofer", "welder",
		"foreman", "civil engineer", "surveyor", "trades", "apprentice", "labourer", "laborer",
		"infrastructure",
	}},
	{"manufacturing", "Manufacturing", []string{
		"manufacturing", "production", "factory", "assembly", "operator", "technician",
		"quality control", "quality assurance", "maintenance", "mechanical", "industrial",
		"machinery", "supply chain", "logistics", "warehouse", "forklift",
	}},
	{"consulting", "Consulting", []string{
		"consultant", "consulting", "advisory", "advisor", "strategy", "professional services",
	}},
	{"legal", "Legal", []string{
		"lawyer", "attorney", "legal", "paralegal", "counsel", "litigation", "barrister",
		"solicitor", "judicial", "court",
	}},
})

func buildCategoryTable(rows []struct {
	key, label string
	words      []string
}) []categoryRule {
	out := make([]categoryRule, 0, len(rows))
	for _, row := range rows {
		rule := categoryRule{key: row.key, label: row.label}
		for _, w := range row.words {
			rule.keywords = append(rule.keywords, regexp.MustCompile(`\b`+regexp.QuoteMeta(w)+`\b`))
		}
		out = append(out, rule)
	}
	return out
}

// CategoryKey turns a site's category label into a registry key:
// "Office Support" -> "office_support".
func CategoryKey(display string) string {
	key := strings.ReplaceAll(Slugify(display), "-", "_")
	key = Truncate(key, maxCategoryKey)
	key = strings.Trim(key, "_")
	if key == "" {
		return models.CategoryOther
	}
	return key
}

// NormalizeCategory prefers the site's own label. Without one it classifies
// title and description against the keyword table; title hits weigh three
// times a description hit.
func NormalizeCategory(displayText, title, description string) models.ResolvedCategory {
	if display := CollapseSpaces(displayText); display != "" {
		key := CategoryKey(display)
		if key != models.CategoryOther {
			return models.ResolvedCategory{Key: key, Label: Truncate(display, MaxCategoryLabel), FromDisplay: true}
		}
	}
	key, label := ClassifyCategory(title, description)
	return models.ResolvedCategory{Key: key, Label: label}
}

// ClassifyCategory scores title and description against the keyword table.
func ClassifyCategory(title, description string) (string, string) {
	t := strings.ToLower(title)
	d := strings.ToLower(description)
	if strings.TrimSpace(t) == "" && strings.TrimSpace(d) == "" {
		return models.CategoryOther, "Other"
	}

	bestKey, bestLabel, bestScore := models.CategoryOther, "Other", 0
	for _, rule := range categoryTable {
		score := 0
		for _, kw := range rule.keywords {
			score += 3*len(kw.FindAllStringIndex(t, -1)) + len(kw.FindAllStringIndex(d, -1))
		}
		if score > bestScore {
			bestKey, bestLabel, bestScore = rule.key, rule.label, score
		}
	}
	return bestKey, bestLabel
}
