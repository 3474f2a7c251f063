package reporter

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"aujobs-pipeline/internal/models"
	"aujobs-pipeline/internal/summary"
)

type mockReporter struct {
	mock.Mock
}

func (m *mockReporter) JobSaved(p *models.JobPosting) error {
	return m.Called(p).Error(0)
}

func (m *mockReporter) RunFinished(site string, snap summary.Snapshot, runErr error) error {
	return m.Called(site, snap, runErr).Error(0)
}

func TestMulti_ContinuesPastFailures(t *testing.T) {
	failing := &mockReporter{}
	ok := &mockReporter{}
	posting := &models.JobPosting{Title: "Barista", CompanyName: "Single O"}
	snap := summary.Snapshot{Processed: 3, Saved: 1}

	failing.On("JobSaved", posting).Return(errors.New("telegram down"))
	ok.On("JobSaved", posting).Return(nil)
	failing.On("RunFinished", "barcats", snap, nil).Return(errors.New("telegram down"))
	ok.On("RunFinished", "barcats", snap, nil).Return(nil)

	m := Multi{failing, LogReporter{}, ok}
	assert.NoError(t, m.JobSaved(posting))
	assert.NoError(t, m.RunFinished("barcats", snap, nil))

	failing.AssertExpectations(t)
	ok.AssertExpectations(t)
}
