package engine

import (
	"context"
	"fmt"

	"github.com/ford-at-home/storygen-sub000/internal/apperr"
	"github.com/ford-at-home/storygen-sub000/internal/session"
	"github.com/ford-at-home/storygen-sub000/internal/validation"
)

// SelectOption records the author's choice of hook or CTA. Selecting a hook
// immediately triggers arc_development, since nothing further is needed
// from the author before the engine can write the arc; selecting a CTA
// only advances to ready_to_generate, since generate_final is its own
// explicit operation (spec §4.2, §3 FSM).
func (e *Engine) SelectOption(ctx context.Context, id string, optType validation.OptionType, index int) (SelectOptionResult, error) {
	sess, err := e.store.Get(ctx, id)
	if err != nil {
		return SelectOptionResult{}, err
	}

	switch optType {
	case validation.OptionHook:
		return e.selectHook(ctx, sess, index)
	case validation.OptionCTA:
		return e.selectCTA(ctx, sess, index)
	default:
		return SelectOptionResult{}, apperr.New(apperr.InvalidInput, "option type must be hook or cta")
	}
}

func (e *Engine) selectHook(ctx context.Context, sess session.Session, index int) (SelectOptionResult, error) {
	if sess.Stage != session.StageHookSelection {
		return SelectOptionResult{}, invalidStage("select_option(hook)", sess.Stage)
	}
	if index < 0 || index >= len(sess.Elements.Hooks) {
		return SelectOptionResult{}, apperr.New(apperr.InvalidInput, "hook index out of range").WithStage(string(sess.Stage))
	}
	chosen := sess.Elements.Hooks[index]

	now := e.clock.Now()
	updated, err := e.store.Update(ctx, sess.ID, func(s *session.Session) error {
		s.Elements.SelectedHook = &chosen
		s.Stage = session.StageArcDevelopment
		s.AppendTurn(session.RoleUser, fmt.Sprintf("selected hook %d", index), now)
		return nil
	})
	if err != nil {
		return SelectOptionResult{}, err
	}

	message, stage, err := e.attemptArcDevelopment(ctx, updated)
	if err != nil {
		return SelectOptionResult{}, err
	}
	return SelectOptionResult{Message: message, Stage: stage}, nil
}

func (e *Engine) selectCTA(ctx context.Context, sess session.Session, index int) (SelectOptionResult, error) {
	if sess.Stage != session.StageCTASelection {
		return SelectOptionResult{}, invalidStage("select_option(cta)", sess.Stage)
	}
	if index < 0 || index >= len(sess.Elements.CTAs) {
		return SelectOptionResult{}, apperr.New(apperr.InvalidInput, "cta index out of range").WithStage(string(sess.Stage))
	}
	chosen := sess.Elements.CTAs[index]

	message := "Ready to generate the final story."
	now := e.clock.Now()
	updated, err := e.store.Update(ctx, sess.ID, func(s *session.Session) error {
		s.Elements.SelectedCTA = &chosen
		s.Stage = session.StageReadyToGenerate
		s.AppendTurn(session.RoleUser, fmt.Sprintf("selected cta %d", index), now)
		s.AppendTurn(session.RoleAssistant, message, now)
		return nil
	})
	if err != nil {
		return SelectOptionResult{}, err
	}
	return SelectOptionResult{Message: message, Stage: updated.Stage}, nil
}
