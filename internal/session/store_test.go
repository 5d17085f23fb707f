package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ford-at-home/storygen-sub000/internal/apperr"
	"github.com/ford-at-home/storygen-sub000/internal/clock"
)

func TestCreate_StartsAtKickoffWithSystemTurn(t *testing.T) {
	clk := clock.NewFixed(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	store := New(24*time.Hour, clk, nil)

	s, err := store.Create(context.Background(), "Richmond tech scene", "")
	require.NoError(t, err)
	assert.Equal(t, StageKickoff, s.Stage)
	assert.Equal(t, StatusActive, s.Status)
	require.Len(t, s.History, 1)
	assert.Equal(t, RoleSystem, s.History[0].Role)
	assert.Equal(t, 0, s.History[0].Index)
}

func TestGet_ExpiresPastTTL(t *testing.T) {
	clk := clock.NewFixed(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	store := New(time.Hour, clk, nil)
	s, err := store.Create(context.Background(), "idea idea idea", "")
	require.NoError(t, err)

	clk.Advance(2 * time.Hour)
	_, err = store.Get(context.Background(), s.ID)
	require.Error(t, err)
	assert.Equal(t, apperr.Expired, apperr.KindOf(err))
}

func TestUpdate_RejectsInvalidTransitionAndLeavesSessionUnchanged(t *testing.T) {
	clk := clock.NewFixed(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	store := New(24*time.Hour, clk, nil)
	s, err := store.Create(context.Background(), "idea idea idea", "")
	require.NoError(t, err)

	_, err = store.Update(context.Background(), s.ID, func(sess *Session) error {
		sess.Elements.CoreIdea = "a different idea entirely"
		return nil
	})
	require.Error(t, err)
	assert.Equal(t, apperr.InvalidTransition, apperr.KindOf(err))

	after, err := store.Get(context.Background(), s.ID)
	require.NoError(t, err)
	assert.Equal(t, "idea idea idea", after.Elements.CoreIdea)
	assert.Equal(t, s.UpdatedAt, after.UpdatedAt)
}

func TestUpdate_RefreshesTTLAndIncrementsUpdatedAt(t *testing.T) {
	clk := clock.NewFixed(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	store := New(time.Hour, clk, nil)
	s, err := store.Create(context.Background(), "idea idea idea", "")
	require.NoError(t, err)

	clk.Advance(10 * time.Minute)
	updated, err := store.Update(context.Background(), s.ID, func(sess *Session) error {
		sess.Stage = StageDepthAnalysis
		return nil
	})
	require.NoError(t, err)
	assert.True(t, updated.UpdatedAt.After(s.UpdatedAt))
	assert.True(t, updated.TTLDeadline.After(s.TTLDeadline))
}

func TestSweep_MarksExpiredSessions(t *testing.T) {
	clk := clock.NewFixed(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	store := New(time.Minute, clk, nil)
	s, err := store.Create(context.Background(), "idea idea idea", "")
	require.NoError(t, err)

	clk.Advance(2 * time.Minute)
	swept := store.Sweep(context.Background())
	assert.Equal(t, 1, swept)

	active, err := store.ListActive(context.Background())
	require.NoError(t, err)
	for _, a := range active {
		assert.NotEqual(t, s.ID, a.ID)
	}
}

func TestListActive_ExcludesExpiredAndCompleted(t *testing.T) {
	clk := clock.NewFixed(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	store := New(24*time.Hour, clk, nil)
	_, err := store.Create(context.Background(), "idea idea idea", "")
	require.NoError(t, err)
	completed, err := store.Create(context.Background(), "another idea here", "")
	require.NoError(t, err)

	_, err = store.Update(context.Background(), completed.ID, func(sess *Session) error {
		sess.Stage = StageStoryGenerated
		sess.Status = StatusCompleted
		sess.Elements.FinalStory = &FinalStory{Text: "a finished story", WordCount: 3}
		return nil
	})
	require.NoError(t, err)

	active, err := store.ListActive(context.Background())
	require.NoError(t, err)
	assert.Len(t, active, 1)
}

func TestUpdate_ConcurrentCallsAreSerialized(t *testing.T) {
	clk := clock.NewFixed(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	store := New(24*time.Hour, clk, nil)
	s, err := store.Create(context.Background(), "idea idea idea", "")
	require.NoError(t, err)

	const goroutines = 50
	var wg sync.WaitGroup
	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func() {
			defer wg.Done()
			_, updateErr := store.Update(context.Background(), s.ID, func(sess *Session) error {
				sess.Metadata.LLMCalls++
				sess.AppendTurn(RoleSystem, "concurrent update", clk.Now())
				return nil
			})
			assert.NoError(t, updateErr)
		}()
	}
	wg.Wait()

	final, err := store.Get(context.Background(), s.ID)
	require.NoError(t, err)
	assert.Equal(t, goroutines, final.Metadata.LLMCalls)
	require.Len(t, final.History, goroutines+1) // +1 for the initial "session started" turn
	for i, turn := range final.History {
		assert.Equal(t, i, turn.Index)
	}
}

func TestUpdate_UnknownSessionIsNotFound(t *testing.T) {
	clk := clock.NewFixed(time.Now())
	store := New(24*time.Hour, clk, nil)
	_, err := store.Update(context.Background(), "missing-id", func(sess *Session) error { return nil })
	require.Error(t, err)
	assert.Equal(t, apperr.NotFound, apperr.KindOf(err))
}
