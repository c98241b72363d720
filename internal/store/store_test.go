package store

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		{"journal_mode", "wal"},
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		if err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got); err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestPragmasOnEveryConnection(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	// Hold several connections at once so the pool must open new ones.
	for i := 0; i < 3; i++ {
		conn, err := s.DB().Conn(ctx)
		if err != nil {
			t.Fatalf("conn %d: %v", i, err)
		}
		defer conn.Close()

		var timeout, fk int
		if err := conn.QueryRowContext(ctx, "PRAGMA busy_timeout").Scan(&timeout); err != nil {
			t.Fatalf("conn %d busy_timeout: %v", i, err)
		}
		if err := conn.QueryRowContext(ctx, "PRAGMA foreign_keys").Scan(&fk); err != nil {
			t.Fatalf("conn %d foreign_keys: %v", i, err)
		}
		if timeout != 5000 || fk != 1 {
			t.Errorf("conn %d: busy_timeout=%d foreign_keys=%d", i, timeout, fk)
		}
	}
}

func TestConcurrentAppends(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	repo := s.EventRepo()

	const n = 16
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs <- repo.AppendAnswerEvent(ctx, AnswerEventData{
				SessionID: "concurrent",
				ItemID:    fmt.Sprintf("item-%d", i),
				ItemType:  "mcq",
				Graded:    true,
			})
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	events, err := repo.QueryAnswerEvents(ctx, QueryOpts{})
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != n {
		t.Errorf("expected %d events, got %d", n, len(events))
	}
}

func TestWithConnPragmas(t *testing.T) {
	got := withConnPragmas("quiz.db")
	want := "quiz.db?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)&_pragma=synchronous(NORMAL)"
	if got != want {
		t.Errorf("withConnPragmas = %q, want %q", got, want)
	}
	if got := withConnPragmas("file:quiz.db?mode=rwc"); !strings.HasPrefix(got, "file:quiz.db?mode=rwc&_pragma=") {
		t.Errorf("expected params appended with &, got %q", got)
	}
}

func TestMigrationCreatesTables(t *testing.T) {
	s := openTestStore(t)

	for _, table := range []string{"llm_request_events", "answer_events", "srs_records", "quiz_items", "global_sequence"} {
		var name string
		err := s.DB().QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&name)
		if err != nil {
			t.Errorf("table %s missing: %v", table, err)
		}
	}
}

func TestReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reopen.db")
	ctx := context.Background()

	s, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := s.EventRepo().AppendLLMRequest(ctx, LLMRequestEventData{Purpose: "quiz-batch"}); err != nil {
		t.Fatalf("append: %v", err)
	}
	s.Close()

	s, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()

	events, err := s.EventRepo().QueryLLMEvents(ctx, QueryOpts{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event after reopen, got %d", len(events))
	}
}

func TestSequenceCounter(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	var prev int64
	for i := 0; i < 5; i++ {
		seq, err := s.seq.Next(ctx)
		if err != nil {
			t.Fatalf("next %d: %v", i, err)
		}
		if seq != prev+1 {
			t.Errorf("seq[%d] = %d, want %d", i, seq, prev+1)
		}
		prev = seq
	}
}

func TestLLMEvents(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	inputs := []LLMRequestEventData{
		{Provider: "ollama", Model: "llama3.2:3b-instruct", Purpose: "quiz-batch", InputTokens: 300, OutputTokens: 100, LatencyMs: 900, Success: true, RequestBody: "req", ResponseBody: "resp"},
		{Provider: "ollama", Model: "llama3.2:3b-instruct", Purpose: "quiz-batch", InputTokens: 100, OutputTokens: 50, LatencyMs: 100, Success: true},
		{Provider: "openai", Model: "gpt-4o-mini", Purpose: "quiz-batch", LatencyMs: 18000, ErrorMessage: "generation unavailable"},
	}
	for _, in := range inputs {
		if err := repo.AppendLLMRequest(ctx, in); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	events, err := repo.QueryLLMEvents(ctx, QueryOpts{Limit: 2})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if events[0].Model != "gpt-4o-mini" || events[0].Success {
		t.Fatalf("expected newest (failed) event first, got %+v", events[0])
	}
	if events[0].Sequence <= events[1].Sequence {
		t.Fatal("expected descending sequence order")
	}

	oldest := events[1].ID - 1
	e, err := repo.GetLLMEvent(ctx, oldest)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if e == nil || e.RequestBody != "req" || e.ResponseBody != "resp" || !e.Success {
		t.Fatalf("unexpected event: %+v", e)
	}
	if time.Since(e.Timestamp) > time.Minute {
		t.Fatalf("unexpected timestamp %s", e.Timestamp)
	}

	missing, err := repo.GetLLMEvent(ctx, 9999)
	if err != nil || missing != nil {
		t.Fatalf("expected nil for unknown id, got %+v, %v", missing, err)
	}

	byPurpose, err := repo.LLMUsageByPurpose(ctx)
	if err != nil {
		t.Fatalf("usage by purpose: %v", err)
	}
	if len(byPurpose) != 1 || byPurpose[0].Calls != 3 || byPurpose[0].InputTokens != 400 {
		t.Fatalf("unexpected purpose usage: %+v", byPurpose)
	}

	byModel, err := repo.LLMUsageByModel(ctx)
	if err != nil {
		t.Fatalf("usage by model: %v", err)
	}
	if len(byModel) != 1 || byModel[0].Model != "llama3.2:3b-instruct" || byModel[0].OutputTokens != 150 {
		t.Fatalf("failed calls must not count toward model usage: %+v", byModel)
	}
}

func TestAnswerEvents(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	must := func(err error) {
		t.Helper()
		if err != nil {
			t.Fatal(err)
		}
	}
	must(repo.AppendAnswerEvent(ctx, AnswerEventData{SessionID: "s1", ItemID: "a", ItemType: "mcq", UserAnswer: "B", Graded: true, Correct: true}))
	must(repo.AppendLLMRequest(ctx, LLMRequestEventData{Purpose: "quiz-batch"}))
	must(repo.AppendAnswerEvent(ctx, AnswerEventData{SessionID: "s1", ItemID: "b", ItemType: "short", Skipped: true}))

	events, err := repo.QueryAnswerEvents(ctx, QueryOpts{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 answer events, got %d", len(events))
	}
	if !events[0].Correct || !events[0].Graded || events[0].UserAnswer != "B" {
		t.Fatalf("unexpected first event: %+v", events[0])
	}
	if !events[1].Skipped || events[1].Graded {
		t.Fatalf("unexpected second event: %+v", events[1])
	}
	// The LLM event in between consumed a sequence number.
	if events[1].Sequence-events[0].Sequence != 2 {
		t.Fatalf("expected a shared sequence gap, got %d and %d", events[0].Sequence, events[1].Sequence)
	}

	after, err := repo.QueryAnswerEvents(ctx, QueryOpts{After: events[0].Sequence})
	if err != nil {
		t.Fatalf("query after: %v", err)
	}
	if len(after) != 1 || after[0].ItemID != "b" {
		t.Fatalf("unexpected events after first: %+v", after)
	}
}

func TestReviewRepo(t *testing.T) {
	s := openTestStore(t)
	repo := s.ReviewRepo()
	ctx := context.Background()

	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.Local)
	if err := repo.SaveReview(ctx, ReviewRecord{ItemID: "x", IntervalDays: 1, EaseFactor: 2.5, NextReview: day, Repetitions: 0}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := repo.SaveReview(ctx, ReviewRecord{ItemID: "x", IntervalDays: 2, EaseFactor: 2.6, NextReview: day.AddDate(0, 0, 2), Repetitions: 1}); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	recs, err := repo.LoadReviews(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("expected 1 record after upsert, got %d", len(recs))
	}
	got := recs[0]
	if got.IntervalDays != 2 || got.EaseFactor != 2.6 || got.Repetitions != 1 {
		t.Fatalf("unexpected record: %+v", got)
	}
	if !got.NextReview.Equal(day.AddDate(0, 0, 2)) {
		t.Fatalf("next review = %s, want %s", got.NextReview, day.AddDate(0, 0, 2))
	}
}

func TestItemPayloads(t *testing.T) {
	s := openTestStore(t)
	repo := s.ReviewRepo()
	ctx := context.Background()

	if err := repo.SaveItem(ctx, "a", []byte(`{"prompt":"first"}`)); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := repo.SaveItem(ctx, "a", []byte(`{"prompt":"second"}`)); err != nil {
		t.Fatalf("save again: %v", err)
	}

	items, err := repo.GetItems(ctx, []string{"a", "missing"})
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(items) != 1 || string(items["a"]) != `{"prompt":"first"}` {
		t.Fatalf("unexpected items: %v", items)
	}

	empty, err := repo.GetItems(ctx, nil)
	if err != nil || len(empty) != 0 {
		t.Fatalf("expected empty map, got %v, %v", empty, err)
	}
}

func TestDefaultDBPath(t *testing.T) {
	dir := t.TempDir()

	t.Setenv("MEDSTUD_DB", filepath.Join(dir, "nested", "custom.db"))
	p, err := DefaultDBPath()
	if err != nil || p != filepath.Join(dir, "nested", "custom.db") {
		t.Fatalf("unexpected path %q, %v", p, err)
	}

	t.Setenv("MEDSTUD_DB", "")
	t.Setenv("XDG_DATA_HOME", dir)
	p, err = DefaultDBPath()
	if err != nil || p != filepath.Join(dir, "medstud", "medstud.db") {
		t.Fatalf("unexpected XDG path %q, %v", p, err)
	}
}
