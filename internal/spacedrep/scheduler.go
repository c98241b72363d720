package spacedrep

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/abhisek/medstud/internal/store"
)

// Scheduler keeps the review records of every item a learner has answered.
// It is safe for concurrent use.
type Scheduler struct {
	mu      sync.Mutex
	records map[string]Record
	repo    store.ReviewRepo
}

// NewScheduler creates an empty scheduler. repo may be nil, in which case
// records live only in memory.
func NewScheduler(repo store.ReviewRepo) *Scheduler {
	return &Scheduler{
		records: make(map[string]Record),
		repo:    repo,
	}
}

// Load replaces the in-memory records with the persisted ones.
func (s *Scheduler) Load(ctx context.Context) error {
	if s.repo == nil {
		return nil
	}
	stored, err := s.repo.LoadReviews(ctx)
	if err != nil {
		return fmt.Errorf("load reviews: %w", err)
	}
	records := make(map[string]Record, len(stored))
	for _, r := range stored {
		records[r.ItemID] = Record{
			ID:           r.ItemID,
			IntervalDays: r.IntervalDays,
			EaseFactor:   r.EaseFactor,
			NextReview:   Day(r.NextReview),
			Repetitions:  r.Repetitions,
		}
	}
	s.mu.Lock()
	s.records = records
	s.mu.Unlock()
	return nil
}

// RecordReview applies a graded answer for item id. An item seen for the
// first time is initialised before the outcome is applied. The updated
// record is persisted when the scheduler has a repository. Reviews are
// applied and saved one at a time.
func (s *Scheduler) RecordReview(ctx context.Context, id string, correct bool, now time.Time) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[id]
	if !ok {
		rec = Init(id, now)
	}
	rec = Update(rec, correct, now)
	s.records[id] = rec

	if s.repo != nil {
		err := s.repo.SaveReview(ctx, store.ReviewRecord{
			ItemID:       rec.ID,
			IntervalDays: rec.IntervalDays,
			EaseFactor:   rec.EaseFactor,
			NextReview:   rec.NextReview,
			Repetitions:  rec.Repetitions,
		})
		if err != nil {
			return rec, fmt.Errorf("save review: %w", err)
		}
	}
	return rec, nil
}

// Get returns the record for id.
func (s *Scheduler) Get(id string) (Record, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[id]
	return rec, ok
}

// Len returns the number of scheduled items.
func (s *Scheduler) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

// Due returns the records due on the given day, most overdue first.
func (s *Scheduler) Due(now time.Time) []Record {
	s.mu.Lock()
	var due []Record
	for _, rec := range s.records {
		if rec.IsDue(now) {
			due = append(due, rec)
		}
	}
	s.mu.Unlock()

	sort.Slice(due, func(i, j int) bool {
		if !due[i].NextReview.Equal(due[j].NextReview) {
			return due[i].NextReview.Before(due[j].NextReview)
		}
		return due[i].ID < due[j].ID
	})
	return due
}
