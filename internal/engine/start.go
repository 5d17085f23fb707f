package engine

import (
	"context"

	"github.com/ford-at-home/storygen-sub000/internal/apperr"
	"github.com/ford-at-home/storygen-sub000/internal/promptlib"
	"github.com/ford-at-home/storygen-sub000/internal/session"
	"github.com/ford-at-home/storygen-sub000/internal/validation"
)

// Start begins a new session from a raw story idea. It validates and stores
// the idea, then immediately advances the session past kickoff into
// depth_analysis, asking the first elaboration question the depth-analysis
// stage will score once answered (spec §4.2, §8 scenario "shallow idea
// deepened").
func (e *Engine) Start(ctx context.Context, coreIdea, userID string) (StartResult, error) {
	idea, err := validation.CoreIdea(coreIdea, e.minCoreIdea)
	if err != nil {
		return StartResult{}, apperr.Wrap(apperr.InvalidInput, err, err.Error())
	}

	sess, err := e.store.Create(ctx, idea, userID)
	if err != nil {
		return StartResult{}, err
	}

	question, err := e.prompts.Render(promptlib.FollowUpQuestion, map[string]string{"core_idea": idea})
	if err != nil {
		return StartResult{}, apperr.Wrap(apperr.Unavailable, err, "follow_up_question prompt failed to render")
	}

	now := e.clock.Now()
	sess, err = e.store.Update(ctx, sess.ID, func(s *session.Session) error {
		s.Stage = session.StageDepthAnalysis
		s.AppendTurn(session.RoleAssistant, question, now)
		return nil
	})
	if err != nil {
		return StartResult{}, err
	}

	return StartResult{SessionID: sess.ID, Stage: sess.Stage, FirstQuestion: question}, nil
}
