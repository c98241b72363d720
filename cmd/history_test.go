package cmd

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/medstud/internal/store"
)

func answer(session string, graded, correct, skipped bool) store.AnswerEvent {
	return store.AnswerEvent{
		Timestamp: time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC),
		AnswerEventData: store.AnswerEventData{
			SessionID: session,
			Graded:    graded,
			Correct:   correct,
			Skipped:   skipped,
		},
	}
}

func TestSummarizeSessions(t *testing.T) {
	events := []store.AnswerEvent{
		answer("s1", true, true, false),
		answer("s1", true, false, false),
		answer("s2", true, false, true),
		answer("s1", false, false, false),
		answer("s2", true, true, false),
	}

	got := summarizeSessions(events)
	require.Len(t, got, 2)

	assert.Equal(t, sessionSummary{ID: "s1", Started: events[0].Timestamp, Answered: 3, Correct: 1, Saved: 1}, got[0])
	assert.Equal(t, sessionSummary{ID: "s2", Started: events[2].Timestamp, Answered: 2, Correct: 1, Skipped: 1}, got[1])
}

func TestWriteSessions(t *testing.T) {
	var buf bytes.Buffer
	writeSessions(&buf, nil)
	assert.Contains(t, buf.String(), "No quiz sessions recorded.")

	buf.Reset()
	writeSessions(&buf, []sessionSummary{
		{ID: "0f2c9a1e-aaaa", Answered: 4, Correct: 3},
		{ID: "essay-only", Answered: 1, Saved: 1},
	})
	out := buf.String()
	assert.Contains(t, out, "75%")
	assert.Contains(t, out, "0f2c9a1e ")
	assert.NotContains(t, out, "0f2c9a1e-aaaa")
}

func TestTruncateIsRuneSafe(t *testing.T) {
	assert.Equal(t, "β-blo", truncate("β-blocker", 5))
	assert.Equal(t, "short", truncate("short", 10))
}
