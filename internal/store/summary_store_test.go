package store

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aujobs-pipeline/internal/summary"
)

func sampleRun() RunRecord {
	s := summary.New()
	s.Record(summary.OutcomeSaved, "")
	s.Record(summary.OutcomeDuplicate, "external_url")
	return RunRecord{
		RunID:      uuid.NewString(),
		Site:       "hays",
		FinishedAt: time.Now().UTC().Truncate(time.Second),
		Summary:    s.Snapshot(),
	}
}

func TestMemorySummaryStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemorySummaryStore()
	run := sampleRun()

	require.NoError(t, s.SetSummary(ctx, run))
	got, found, err := s.GetSummary(ctx, run.RunID)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, run.Summary.Saved, got.Summary.Saved)

	_, found, err = s.GetSummary(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, found)
}

// integration test: needs a reachable Redis in REDIS_URL
func TestRedisSummaryStore(t *testing.T) {
	redisURL := os.Getenv("REDIS_URL")
	if testing.Short() || redisURL == "" {
		t.Skip("Skipping Redis integration test")
	}

	ctx := context.Background()
	s, err := NewRedisSummaryStore(redisURL, "aujobs:test:run:", time.Minute)
	require.NoError(t, err)
	defer s.Close()
	require.NoError(t, s.Ping(ctx))

	run := sampleRun()
	require.NoError(t, s.SetSummary(ctx, run))

	got, found, err := s.GetSummary(ctx, run.RunID)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, run.Site, got.Site)
	assert.Equal(t, 2, got.Summary.Processed)
	assert.Equal(t, 1, got.Summary.DuplicatesByReason["external_url"])

	_, found, err = s.GetSummary(ctx, uuid.NewString())
	require.NoError(t, err)
	assert.False(t, found)
}
