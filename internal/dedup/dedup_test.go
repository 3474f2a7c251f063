package dedup

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"aujobs-pipeline/internal/models"
)

type mockLookup struct {
	mock.Mock
}

func (m *mockLookup) JobExistsByURL(ctx context.Context, externalURL string) (bool, error) {
	args := m.Called(ctx, externalURL)
	return args.Bool(0), args.Error(1)
}

func (m *mockLookup) JobExistsByTitleCompany(ctx context.Context, title, companyName string) (bool, error) {
	args := m.Called(ctx, title, companyName)
	return args.Bool(0), args.Error(1)
}

func nurse() *models.NormalizedJobRecord {
	return &models.NormalizedJobRecord{
		Title:       "Registered Nurse ",
		CompanyName: "Canberra Health Services",
		ExternalURL: "https://example/job/1",
	}
}

func TestCheck_URLMatchShortCircuits(t *testing.T) {
	ctx := context.Background()
	lookup := new(mockLookup)
	lookup.On("JobExistsByURL", ctx, "https://example/job/1").Return(true, nil)

	reason, err := Check(ctx, nurse(), lookup)
	require.NoError(t, err)
	assert.Equal(t, ReasonURL, reason)
	lookup.AssertNotCalled(t, "JobExistsByTitleCompany", mock.Anything, mock.Anything, mock.Anything)
}

func TestCheck_TitleCompanyMatch(t *testing.T) {
	ctx := context.Background()
	lookup := new(mockLookup)
	lookup.On("JobExistsByURL", ctx, "https://example/job/1").Return(false, nil)
	lookup.On("JobExistsByTitleCompany", ctx, "Registered Nurse", "Canberra Health Services").Return(true, nil)

	dup, err := IsDuplicate(ctx, nurse(), lookup)
	require.NoError(t, err)
	assert.True(t, dup)
	lookup.AssertExpectations(t)
}

func TestCheck_NewRecord(t *testing.T) {
	ctx := context.Background()
	lookup := new(mockLookup)
	lookup.On("JobExistsByURL", ctx, mock.Anything).Return(false, nil)
	lookup.On("JobExistsByTitleCompany", ctx, mock.Anything, mock.Anything).Return(false, nil)

	reason, err := Check(ctx, nurse(), lookup)
	require.NoError(t, err)
	assert.Equal(t, NotDuplicate, reason)
}

func TestCheck_LookupError(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("connection reset")
	lookup := new(mockLookup)
	lookup.On("JobExistsByURL", ctx, mock.Anything).Return(false, boom)

	dup, err := IsDuplicate(ctx, nurse(), lookup)
	assert.ErrorIs(t, err, boom)
	assert.False(t, dup)
}
