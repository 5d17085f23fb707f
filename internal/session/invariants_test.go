package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ford-at-home/storygen-sub000/internal/apperr"
)

func TestValidate_DenseIndicesRequired(t *testing.T) {
	now := time.Now()
	next := Session{ID: "s1", CreatedAt: now, UpdatedAt: now, History: []Turn{{Index: 0}, {Index: 2}}}
	err := Validate(Session{}, next)
	require.Error(t, err)
	assert.Equal(t, apperr.InvalidTransition, apperr.KindOf(err))
}

func TestValidate_CompletedRequiresFinalStoryAndStage(t *testing.T) {
	now := time.Now()
	next := Session{ID: "s1", CreatedAt: now, UpdatedAt: now, Status: StatusCompleted, Stage: StageCTASelection}
	err := Validate(Session{}, next)
	require.Error(t, err)
}

func TestValidate_CompletedWithFinalStoryAtRightStagePasses(t *testing.T) {
	now := time.Now()
	next := Session{
		ID: "s1", CreatedAt: now, UpdatedAt: now, Status: StatusCompleted, Stage: StageStoryGenerated,
		Elements: StoryElements{FinalStory: &FinalStory{Text: "done"}},
	}
	require.NoError(t, Validate(Session{}, next))
}

func TestValidate_TTLMustNotRegress(t *testing.T) {
	now := time.Now()
	prev := Session{ID: "s1", CreatedAt: now, UpdatedAt: now, TTLDeadline: now.Add(time.Hour)}
	next := prev
	next.TTLDeadline = now.Add(30 * time.Minute)
	err := Validate(prev, next)
	require.Error(t, err)
}
