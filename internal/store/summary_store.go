package store

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"aujobs-pipeline/internal/summary"
)

// RunRecord is the published result of one crawl run.
type RunRecord struct {
	RunID      string           `json:"run_id"`
	Site       string           `json:"site"`
	FinishedAt time.Time        `json:"finished_at"`
	Summary    summary.Snapshot `json:"summary"`
	Error      string           `json:"error,omitempty"`
}

// SummaryStore persists run summaries.
type SummaryStore interface {
	SetSummary(ctx context.Context, run RunRecord) error
	GetSummary(ctx context.Context, runID string) (RunRecord, bool, error)
}

// RedisSummaryStore stores run summaries in Redis.
type RedisSummaryStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisSummaryStore initializes a Redis-backed SummaryStore from a
// redis:// URL.
func NewRedisSummaryStore(redisURL, prefix string, ttl time.Duration) (*RedisSummaryStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	return NewRedisSummaryStoreWithClient(redis.NewClient(opts), prefix, ttl), nil
}

func NewRedisSummaryStoreWithClient(client *redis.Client, prefix string, ttl time.Duration) *RedisSummaryStore {
	return &RedisSummaryStore{client: client, prefix: prefix, ttl: ttl}
}

// Close closes the Redis client.
func (s *RedisSummaryStore) Close() error {
	return s.client.Close()
}

// Ping checks connectivity.
func (s *RedisSummaryStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// SetSummary writes the run record to Redis.
func (s *RedisSummaryStore) SetSummary(ctx context.Context, run RunRecord) error {
	payload, err := json.Marshal(run)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.prefix+run.RunID, payload, s.ttl).Err()
}

// GetSummary reads the run record from Redis.
func (s *RedisSummaryStore) GetSummary(ctx context.Context, runID string) (RunRecord, bool, error) {
	val, err := s.client.Get(ctx, s.prefix+runID).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return RunRecord{}, false, nil
		}
		return RunRecord{}, false, err
	}

	var run RunRecord
	if err := json.Unmarshal([]byte(val), &run); err != nil {
		return RunRecord{}, false, err
	}
	return run, true, nil
}

// MemorySummaryStore keeps run records in a map; used when Redis is not
// configured.
type MemorySummaryStore struct {
	mu   sync.RWMutex
	runs map[string]RunRecord
}

func NewMemorySummaryStore() *MemorySummaryStore {
	return &MemorySummaryStore{runs: make(map[string]RunRecord)}
}

func (s *MemorySummaryStore) SetSummary(_ context.Context, run RunRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs[run.RunID] = run
	return nil
}

func (s *MemorySummaryStore) GetSummary(_ context.Context, runID string) (RunRecord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	run, ok := s.runs[runID]
	return run, ok, nil
}
