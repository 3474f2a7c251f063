// Package reporter announces saved postings and finished runs.
package reporter

import (
	"log"

	"aujobs-pipeline/internal/models"
	"aujobs-pipeline/internal/summary"
)

type Reporter interface {
	JobSaved(posting *models.JobPosting) error
	// RunFinished is called once per site run. runErr is nil on success.
	RunFinished(site string, snap summary.Snapshot, runErr error) error
}

// LogReporter writes to the standard logger.
type LogReporter struct{}

func (LogReporter) JobSaved(p *models.JobPosting) error {
	log.Printf("🔔 New job: %s @ %s (%s)", p.Title, p.CompanyName, p.ExternalURL)
	return nil
}

func (LogReporter) RunFinished(site string, snap summary.Snapshot, runErr error) error {
	if runErr != nil {
		log.Printf("❌ %s finished with error: %v (%s)", site, runErr, snap)
		return nil
	}
	log.Printf("🏁 %s finished: %s", site, snap)
	return nil
}

// Multi fans out to every reporter. A failing reporter is logged and does not
// stop the others.
type Multi []Reporter

func (m Multi) JobSaved(p *models.JobPosting) error {
	for _, r := range m {
		if err := r.JobSaved(p); err != nil {
			log.Printf("⚠️ Reporter failed for %q: %v", p.Title, err)
		}
	}
	return nil
}

func (m Multi) RunFinished(site string, snap summary.Snapshot, runErr error) error {
	for _, r := range m {
		if err := r.RunFinished(site, snap, runErr); err != nil {
			log.Printf("⚠️ Reporter failed for %s summary: %v", site, err)
		}
	}
	return nil
}
