package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aujobs-pipeline/internal/models"
)

func TestMemoryStore_RollbackDiscardsWrites(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	boom := errors.New("boom")

	err := s.WithTx(ctx, func(tx Tx) error {
		_, err := tx.GetOrCreateCompany(ctx, models.Company{Name: "Hays", Slug: "hays"})
		require.NoError(t, err)
		_, err = tx.GetOrCreateLocation(ctx, models.ParsedLocation{DisplayName: "Sydney, New South Wales"})
		require.NoError(t, err)
		return boom
	})
	assert.ErrorIs(t, err, boom)

	companies, locations, postings := s.Counts()
	assert.Zero(t, companies)
	assert.Zero(t, locations)
	assert.Zero(t, postings)
}

func TestMemoryStore_GetOrCreateCompany(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	var first, second *models.Company
	require.NoError(t, s.WithTx(ctx, func(tx Tx) error {
		var err error
		first, err = tx.GetOrCreateCompany(ctx, models.Company{Name: "Hays", Slug: "hays", Website: "https://hays.com.au"})
		return err
	}))
	require.NoError(t, s.WithTx(ctx, func(tx Tx) error {
		var err error
		second, err = tx.GetOrCreateCompany(ctx, models.Company{Name: "HAYS", Slug: "hays", Website: "https://other", Phone: "02 0000 0000"})
		return err
	}))

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "Hays", second.Name)
	assert.Equal(t, "https://hays.com.au", second.Website, "first writer wins")
	assert.Equal(t, "02 0000 0000", second.Phone, "empty metadata is filled")
	assert.Equal(t, models.DefaultCountry, second.Country)

	companies, _, _ := s.Counts()
	assert.Equal(t, 1, companies)
}

func TestMemoryStore_PostingsAndLookups(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	require.NoError(t, s.WithTx(ctx, func(tx Tx) error {
		return tx.CreateJobPosting(ctx, &models.JobPosting{
			Title: "Registered Nurse", Slug: "registered-nurse", CompanyName: "Canberra Health Services",
			ExternalURL: "https://example/job/1", ExternalSource: "act", ScrapedAt: time.Now(),
		})
	}))

	require.NoError(t, s.WithTx(ctx, func(tx Tx) error {
		byURL, err := tx.JobExistsByURL(ctx, "https://example/job/1")
		require.NoError(t, err)
		assert.True(t, byURL)

		byContent, err := tx.JobExistsByTitleCompany(ctx, "registered nurse", " canberra health services ")
		require.NoError(t, err)
		assert.True(t, byContent)

		slugTaken, err := tx.SlugExists(ctx, "registered-nurse")
		require.NoError(t, err)
		assert.True(t, slugTaken)

		err = tx.CreateJobPosting(ctx, &models.JobPosting{Slug: "other", ExternalURL: "https://example/job/1"})
		assert.ErrorIs(t, err, ErrSlugTaken)
		return nil
	}))

	jobs, err := s.RecentJobs(ctx, 10, "act")
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.NotEmpty(t, jobs[0].ID)

	none, err := s.RecentJobs(ctx, 10, "hays")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestMemoryStore_EnsureCategory(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	require.NoError(t, s.WithTx(ctx, func(tx Tx) error {
		added, err := tx.EnsureCategory(ctx, models.Category{Key: "healthcare", Label: "Healthcare"})
		require.NoError(t, err)
		assert.False(t, added)

		added, err = tx.EnsureCategory(ctx, models.Category{Key: "aged_care", Label: "Aged Care"})
		require.NoError(t, err)
		assert.True(t, added)

		added, err = tx.EnsureCategory(ctx, models.Category{Key: "aged_care", Label: "Aged Care"})
		require.NoError(t, err)
		assert.False(t, added)
		return nil
	}))

	cats, err := s.ListCategories(ctx)
	require.NoError(t, err)
	assert.Len(t, cats, len(models.DefaultCategories)+1)
	assert.Equal(t, "aged_care", cats[len(cats)-1].Key)
}
