package quiz

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/abhisek/medstud/internal/quizgen"
	"github.com/abhisek/medstud/internal/spacedrep"
	"github.com/abhisek/medstud/internal/store"
)

func openStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "quiz.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRecorder_GradedAnswer(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.Local)

	r := &Recorder{
		Events:    s.EventRepo(),
		Scheduler: spacedrep.NewScheduler(s.ReviewRepo()),
		SessionID: "sess-1",
		Now:       func() time.Time { return now },
	}

	rec, err := r.Record(ctx, Answer{
		ItemID:   "item-1",
		ItemType: "mcq",
		Given:    "Liver",
		Feedback: Feedback{Graded: true, Correct: true},
	})
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if rec == nil || rec.IntervalDays != 2 || rec.Repetitions != 1 {
		t.Fatalf("unexpected record: %+v", rec)
	}

	events, err := s.EventRepo().QueryAnswerEvents(ctx, store.QueryOpts{})
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 1 || events[0].SessionID != "sess-1" || !events[0].Correct || events[0].UserAnswer != "Liver" {
		t.Fatalf("unexpected events: %+v", events)
	}

	reloaded := spacedrep.NewScheduler(s.ReviewRepo())
	if err := reloaded.Load(ctx); err != nil {
		t.Fatal(err)
	}
	if got, ok := reloaded.Get("item-1"); !ok || got.IntervalDays != 2 {
		t.Errorf("expected persisted record, got %+v ok=%v", got, ok)
	}
}

func TestRecorder_UngradedSkipsSchedule(t *testing.T) {
	sched := spacedrep.NewScheduler(nil)
	r := &Recorder{Scheduler: sched}

	rec, err := r.Record(context.Background(), Answer{ItemID: "essay-1", ItemType: "essay", Feedback: Feedback{Saved: true}})
	if err != nil {
		t.Fatal(err)
	}
	if rec != nil || sched.Len() != 0 {
		t.Errorf("ungraded answers must not be scheduled, got %+v len=%d", rec, sched.Len())
	}
}

func TestRecorder_ConcurrentAnswers(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)
	sched := spacedrep.NewScheduler(s.ReviewRepo())
	r := &Recorder{Events: s.EventRepo(), Scheduler: sched, SessionID: "sess-2"}

	const n = 2
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = r.Record(ctx, Answer{
				ItemID:   fmt.Sprintf("item-%d", i),
				ItemType: "mcq",
				Skipped:  true,
				Feedback: Feedback{Graded: true},
			})
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Fatalf("answer %d: %v", i, err)
		}
	}
	if sched.Len() != n {
		t.Errorf("expected %d scheduled items, got %d", n, sched.Len())
	}
	events, err := s.EventRepo().QueryAnswerEvents(ctx, store.QueryOpts{})
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != n {
		t.Errorf("expected %d answer events, got %d", n, len(events))
	}
}

func TestItemBank_RoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := openStore(t).ReviewRepo()
	items := []quizgen.Item{
		{Type: quizgen.TypeMCQ, Prompt: "Which organ conjugates bilirubin?", Options: []string{"Liver", "Spleen"}, Answer: "Liver"},
		{Type: quizgen.TypeTrueFalse, Prompt: "True or False: insulin lowers glucose.", Options: []string{"True", "False"}, Answer: "True"},
	}

	if err := SaveItems(ctx, repo, items); err != nil {
		t.Fatal(err)
	}
	got, err := LoadItems(ctx, repo, []string{items[0].ID(), items[1].ID(), "missing"})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 items, got %d", len(got))
	}
	if got[items[0].ID()].Answer != "Liver" || got[items[1].ID()].Type != quizgen.TypeTrueFalse {
		t.Errorf("unexpected items: %+v", got)
	}
}
