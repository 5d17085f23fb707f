package session

import (
	"fmt"

	"github.com/ford-at-home/storygen-sub000/internal/apperr"
)

// Validate checks next against the universally-quantified invariants in
// spec §8, given prev (the pre-mutation snapshot; the zero Session on
// create). Any violation is reported as InvalidTransition so the Store can
// reject the mutation and restore prev without committing a partial write.
func Validate(prev, next Session) error {
	if prev.ID != "" && next.ID != prev.ID {
		return apperr.New(apperr.InvalidTransition, "session id must not change")
	}
	if prev.Elements.CoreIdea != "" && next.Elements.CoreIdea != prev.Elements.CoreIdea {
		return apperr.New(apperr.InvalidTransition, "core_idea is immutable once set").WithStage(string(next.Stage))
	}
	for i, t := range next.History {
		if t.Index != i {
			return apperr.New(apperr.InvalidTransition, fmt.Sprintf("turn history indices must be dense: want %d, got %d", i, t.Index)).WithStage(string(next.Stage))
		}
	}
	if next.UpdatedAt.Before(next.CreatedAt) {
		return apperr.New(apperr.InvalidTransition, "updated_at must not precede created_at").WithStage(string(next.Stage))
	}
	if !prev.TTLDeadline.IsZero() && next.TTLDeadline.Before(prev.TTLDeadline) {
		return apperr.New(apperr.InvalidTransition, "ttl_deadline must not move backwards").WithStage(string(next.Stage))
	}
	if next.Status == StatusCompleted {
		if next.Elements.FinalStory == nil {
			return apperr.New(apperr.InvalidTransition, "a completed session must carry a final_story").WithStage(string(next.Stage))
		}
		if next.Stage != StageStoryGenerated {
			return apperr.New(apperr.InvalidTransition, "a completed session must be at stage story_generated").WithStage(string(next.Stage))
		}
	}
	return nil
}
