// Package summary counts per-record pipeline outcomes for one run.
package summary

import (
	"fmt"
	"sync"
	"time"
)

// Outcome is the three-way classification of a save attempt.
type Outcome string

const (
	OutcomeSaved     Outcome = "saved"
	OutcomeDuplicate Outcome = "duplicate"
	OutcomeError     Outcome = "error"
)

// Summary accumulates outcomes. Safe for concurrent use.
type Summary struct {
	mu        sync.Mutex
	startedAt time.Time
	processed int
	saved     int
	duplicate int
	errors    int
	byReason  map[string]int
}

// Snapshot is a point-in-time copy of a Summary.
type Snapshot struct {
	Processed          int            `json:"processed"`
	Saved              int            `json:"saved"`
	Duplicate          int            `json:"duplicate"`
	Errors             int            `json:"errors"`
	DuplicatesByReason map[string]int `json:"duplicates_by_reason,omitempty"`
	StartedAt          time.Time      `json:"started_at"`
	Elapsed            time.Duration  `json:"elapsed_ns"`
}

func New() *Summary {
	return &Summary{startedAt: time.Now(), byReason: make(map[string]int)}
}

// Record counts one processed record. reason is only meaningful for duplicates.
func (s *Summary) Record(outcome Outcome, reason string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.processed++
	switch outcome {
	case OutcomeSaved:
		s.saved++
	case OutcomeDuplicate:
		s.duplicate++
		if reason != "" {
			s.byReason[reason]++
		}
	default:
		s.errors++
	}
}

func (s *Summary) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	reasons := make(map[string]int, len(s.byReason))
	for k, v := range s.byReason {
		reasons[k] = v
	}
	return Snapshot{
		Processed:          s.processed,
		Saved:              s.saved,
		Duplicate:          s.duplicate,
		Errors:             s.errors,
		DuplicatesByReason: reasons,
		StartedAt:          s.startedAt,
		Elapsed:            time.Since(s.startedAt),
	}
}

// Saved returns the saved counter; the crawl driver stops on it.
func (s *Summary) Saved() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saved
}

func (s Snapshot) String() string {
	return fmt.Sprintf("processed=%d saved=%d duplicate=%d errors=%d", s.Processed, s.Saved, s.Duplicate, s.Errors)
}
