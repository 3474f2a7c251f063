package normalizer

import (
	"regexp"

	"aujobs-pipeline/internal/models"
)

type jobTypeRule struct {
	pattern *regexp.Regexp
	jobType models.JobType
}

// jobTypeRules are evaluated in order; the first hit wins. "Temporary
// contract" is a contract, "casual part-time" is casual.
var jobTypeRules = []jobTypeRule{
	{regexp.MustCompile(`(?i)casual`), models.JobTypeCasual},
	{regexp.MustCompile(`(?i)part[\s\-_]?time`), models.JobTypePartTime},
	{regexp.MustCompile(`(?i)contract|fixed[\s\-_]?term`), models.JobTypeContract},
	{regexp.MustCompile(`(?i)temporary|\btemp\b`), models.JobTypeTemporary},
	{regexp.MustCompile(`(?i)\bintern(ship)?s?\b|\bgraduate\b`), models.JobTypeInternship},
	{regexp.MustCompile(`(?i)freelance`), models.JobTypeFreelance},
}

// NormalizeJobType maps employment-type text onto the fixed job type set,
// defaulting to full time.
func NormalizeJobType(text string) models.JobType {
	for _, rule := range jobTypeRules {
		if rule.pattern.MatchString(text) {
			return rule.jobType
		}
	}
	return models.JobTypeFullTime
}
