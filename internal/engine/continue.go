package engine

import (
	"context"

	"github.com/ford-at-home/storygen-sub000/internal/promptlib"
	"github.com/ford-at-home/storygen-sub000/internal/session"
)

// Continue advances a session with the latest user text, or (for stages
// whose next step is purely engine-driven) retries that step. Exactly
// which it does depends on the session's current stage (spec §4.2).
func (e *Engine) Continue(ctx context.Context, id, text string) (ContinueResult, error) {
	sess, err := e.store.Get(ctx, id)
	if err != nil {
		return ContinueResult{}, err
	}

	switch sess.Stage {
	case session.StageDepthAnalysis:
		return e.continueDepthAnalysis(ctx, sess, text)
	case session.StageFollowUp:
		return e.continueFollowUp(ctx, sess, text)
	case session.StagePersonalAnecdote:
		return e.continueAnecdote(ctx, sess, text)
	case session.StageHookGeneration:
		return e.attemptHookGeneration(ctx, sess)
	case session.StageArcDevelopment:
		return e.continueArcDevelopment(ctx, sess)
	case session.StageQuoteIntegration:
		return e.continueQuoteIntegration(ctx, sess)
	case session.StageCTAGeneration:
		return e.attemptCTAGeneration(ctx, sess)
	default:
		return ContinueResult{}, invalidStage("continue", sess.Stage)
	}
}

// continueDepthAnalysis scores the author's first elaboration against the
// depth rubric and routes to follow_up (insufficient) or straight to
// personal_anecdote (sufficient) (spec §4.2, §8 scenarios "shallow idea
// deepened" / "deep idea shortcut").
func (e *Engine) continueDepthAnalysis(ctx context.Context, sess session.Session, text string) (ContinueResult, error) {
	enriched := sess.Elements.CoreIdea
	if text != "" {
		enriched += "\n\n" + text
	}

	prompt, err := e.prompts.Render(promptlib.DepthAnalysis, map[string]string{"core_idea": enriched})
	if err != nil {
		return ContinueResult{}, err
	}
	raw, err := e.llm.Complete(ctx, prompt, tokensDepthScore, e.temperature)
	if err != nil {
		return ContinueResult{}, err
	}
	score := parseDepthScore(raw)

	var nextStage session.Stage
	var message string
	if score < e.depthCutoff {
		nextStage = session.StageFollowUp
		message, err = e.prompts.Render(promptlib.FollowUpQuestion, map[string]string{"core_idea": sess.Elements.CoreIdea})
	} else {
		nextStage = session.StagePersonalAnecdote
		message, err = e.prompts.Render(promptlib.PersonalAnecdote, map[string]string{"enriched_core": enriched})
	}
	if err != nil {
		return ContinueResult{}, err
	}

	now := e.clock.Now()
	updated, err := e.store.Update(ctx, sess.ID, func(s *session.Session) error {
		s.Elements.FollowUpAnswer = text
		s.Elements.DepthScore = score
		s.Stage = nextStage
		s.AppendTurn(session.RoleUser, text, now)
		s.AppendTurn(session.RoleAssistant, message, now)
		s.Metadata.LLMCalls++
		if nextStage == session.StageFollowUp {
			s.Metadata.FollowUpRounds = 1
		}
		return nil
	})
	if err != nil {
		return ContinueResult{}, err
	}
	return ContinueResult{Message: message, Stage: updated.Stage}, nil
}

// continueFollowUp consumes the answer to the single extra clarifying
// question and moves unconditionally to personal_anecdote (spec §3 FSM:
// follow_up has exactly one outbound edge).
func (e *Engine) continueFollowUp(ctx context.Context, sess session.Session, text string) (ContinueResult, error) {
	merged := sess.Elements.FollowUpAnswer
	if text != "" {
		if merged != "" {
			merged += "\n\n"
		}
		merged += text
	}
	enriched := sess.Elements.CoreIdea + "\n\n" + merged

	message, err := e.prompts.Render(promptlib.PersonalAnecdote, map[string]string{"enriched_core": enriched})
	if err != nil {
		return ContinueResult{}, err
	}

	now := e.clock.Now()
	updated, err := e.store.Update(ctx, sess.ID, func(s *session.Session) error {
		s.Elements.FollowUpAnswer = merged
		s.Stage = session.StagePersonalAnecdote
		s.AppendTurn(session.RoleUser, text, now)
		s.AppendTurn(session.RoleAssistant, message, now)
		return nil
	})
	if err != nil {
		return ContinueResult{}, err
	}
	return ContinueResult{Message: message, Stage: updated.Stage}, nil
}

// continueAnecdote records the personal anecdote and commits the move into
// hook_generation before attempting hook generation, so a subsequent
// generation failure leaves the anecdote and the hook_generation stage
// durably committed rather than rolling the whole turn back (spec §8
// boundary: "hook-generation returning only two parseable hooks after
// hook_retries -> GenerationIncomplete"; §8 scenario "hook parsing failure"
// observes get_session still reporting stage hook_generation afterward).
func (e *Engine) continueAnecdote(ctx context.Context, sess session.Session, text string) (ContinueResult, error) {
	now := e.clock.Now()
	updated, err := e.store.Update(ctx, sess.ID, func(s *session.Session) error {
		s.Elements.Anecdote = text
		s.Stage = session.StageHookGeneration
		s.AppendTurn(session.RoleUser, text, now)
		return nil
	})
	if err != nil {
		return ContinueResult{}, err
	}
	return e.attemptHookGeneration(ctx, updated)
}

// continueArcDevelopment is the retry path: select_option(hook, ...) already
// moved the session into arc_development, so a subsequent continue() call
// while still there just retries the arc-development LLM call.
func (e *Engine) continueArcDevelopment(ctx context.Context, sess session.Session) (ContinueResult, error) {
	message, stage, err := e.attemptArcDevelopment(ctx, sess)
	if err != nil {
		return ContinueResult{}, err
	}
	return ContinueResult{Message: message, Stage: stage}, nil
}

// continueQuoteIntegration runs the single quote-writing LLM call and
// advances straight to cta_generation; there is no free-form user text to
// fold in at this stage.
func (e *Engine) continueQuoteIntegration(ctx context.Context, sess session.Session) (ContinueResult, error) {
	chunks, note := e.retrieveContext(ctx, sess.Elements.NarrativeArc, "quote_integration")
	prompt, err := e.prompts.Render(promptlib.QuoteIntegration, map[string]string{
		"narrative_arc":  sess.Elements.NarrativeArc,
		"context_chunks": renderContextChunks(chunks),
	})
	if err != nil {
		return ContinueResult{}, err
	}
	raw, err := e.llm.Complete(ctx, prompt, tokensQuote, e.temperature)
	if err != nil {
		return ContinueResult{}, err
	}

	now := e.clock.Now()
	updated, err := e.store.Update(ctx, sess.ID, func(s *session.Session) error {
		s.Elements.Quote = raw
		s.Stage = session.StageCTAGeneration
		if note != "" {
			s.AppendTurn(session.RoleSystem, note, now)
		}
		s.AppendTurn(session.RoleAssistant, raw, now)
		s.Metadata.LLMCalls++
		s.Metadata.ContextChunksUsed += len(chunks)
		return nil
	})
	if err != nil {
		return ContinueResult{}, err
	}
	return ContinueResult{Message: raw, Stage: updated.Stage}, nil
}
