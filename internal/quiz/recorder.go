package quiz

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/abhisek/medstud/internal/spacedrep"
	"github.com/abhisek/medstud/internal/store"
)

// Recorder persists the outcome of each answer: an answer event, and for
// graded items a spaced-repetition update. Either dependency may be nil.
// Concurrent calls to Record are serialized.
type Recorder struct {
	mu sync.Mutex


	Events    store.EventRepo
	Scheduler *spacedrep.Scheduler
	SessionID string

	// Now defaults to time.Now.
	Now func() time.Time
}

// Answer is one learner response to an item.
type Answer struct {
	ItemID   string
	ItemType string
	Given    string
	Skipped  bool
	Feedback Feedback
}

// Record stores a. The returned record is the item's new schedule, or nil
// when the item was not graded or no scheduler is set.
func (r *Recorder) Record(ctx context.Context, a Answer) (*spacedrep.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.Events != nil {
		err := r.Events.AppendAnswerEvent(ctx, store.AnswerEventData{
			SessionID:  r.SessionID,
			ItemID:     a.ItemID,
			ItemType:   a.ItemType,
			UserAnswer: a.Given,
			Graded:     a.Feedback.Graded,
			Correct:    a.Feedback.Correct,
			Skipped:    a.Skipped,
		})
		if err != nil {
			return nil, fmt.Errorf("append answer event: %w", err)
		}
	}

	if r.Scheduler == nil || !a.Feedback.Graded {
		return nil, nil
	}
	now := time.Now
	if r.Now != nil {
		now = r.Now
	}
	rec, err := r.Scheduler.RecordReview(ctx, a.ItemID, a.Feedback.Correct, now())
	if err != nil {
		return nil, err
	}
	return &rec, nil
}
