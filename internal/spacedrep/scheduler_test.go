package spacedrep

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/abhisek/medstud/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduler_InMemory(t *testing.T) {
	s := NewScheduler(nil)
	ctx := context.Background()

	require.NoError(t, s.Load(ctx))

	rec, err := s.RecordReview(ctx, "a", true, today)
	require.NoError(t, err)
	assert.Equal(t, 2, rec.IntervalDays)

	rec, err = s.RecordReview(ctx, "a", true, today)
	require.NoError(t, err)
	assert.Equal(t, 5, rec.IntervalDays)
	assert.Equal(t, 2, rec.Repetitions)

	_, err = s.RecordReview(ctx, "b", false, today)
	require.NoError(t, err)

	got, ok := s.Get("a")
	require.True(t, ok)
	assert.Equal(t, rec, got)
	assert.Equal(t, 2, s.Len())
}

func TestScheduler_ConcurrentReviews(t *testing.T) {
	s := NewScheduler(nil)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				_, err := s.RecordReview(ctx, fmt.Sprintf("item-%d", j%4), i%2 == 0, today)
				assert.NoError(t, err)
				s.Due(today)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 4, s.Len())
	for j := 0; j < 4; j++ {
		_, ok := s.Get(fmt.Sprintf("item-%d", j))
		assert.True(t, ok)
	}
}

func TestScheduler_DueOrdering(t *testing.T) {
	s := NewScheduler(nil)
	ctx := context.Background()

	// Due dates: early today-2, late today+1, later today+2.
	s.RecordReview(ctx, "late", false, today)
	s.RecordReview(ctx, "early", false, today.AddDate(0, 0, -3))
	s.RecordReview(ctx, "later", true, today)

	assert.Empty(t, s.Due(today.AddDate(0, 0, -5)))

	due := s.Due(today.AddDate(0, 0, 1))
	require.Len(t, due, 2)
	assert.Equal(t, "early", due[0].ID)
	assert.Equal(t, "late", due[1].ID)

	assert.Len(t, s.Due(today.AddDate(0, 0, 2)), 3)
}

func TestScheduler_PersistsThroughStore(t *testing.T) {
	st, err := store.Open(filepath.Join(t.TempDir(), "srs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	ctx := context.Background()

	s := NewScheduler(st.ReviewRepo())
	_, err = s.RecordReview(ctx, "item", true, today)
	require.NoError(t, err)
	_, err = s.RecordReview(ctx, "item", false, today)
	require.NoError(t, err)

	reloaded := NewScheduler(st.ReviewRepo())
	require.NoError(t, reloaded.Load(ctx))

	rec, ok := reloaded.Get("item")
	require.True(t, ok)
	assert.Equal(t, 1, rec.IntervalDays)
	assert.Equal(t, 0, rec.Repetitions)
	assert.InDelta(t, 2.4, rec.EaseFactor, 1e-9)
	assert.True(t, rec.NextReview.Equal(Day(today).AddDate(0, 0, 1)))
}
