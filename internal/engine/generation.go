package engine

import (
	"context"
	"strconv"
	"strings"

	"github.com/ford-at-home/storygen-sub000/internal/apperr"
	"github.com/ford-at-home/storygen-sub000/internal/promptlib"
	"github.com/ford-at-home/storygen-sub000/internal/session"
)

// attemptHookGeneration runs the hook_generation prompt, reissuing it up to
// hook_retries times until exactly three candidates parse out (spec §4.2).
// On success it commits the hooks and advances to hook_selection; on
// persistent shortfall it returns GenerationIncomplete and leaves the
// session at hook_generation, already committed by the caller.
func (e *Engine) attemptHookGeneration(ctx context.Context, sess session.Session) (ContinueResult, error) {
	result, err := e.generateThreeCandidates(ctx, sess, promptlib.HookGeneration, "HOOK", e.hookRetries)
	if err != nil {
		return ContinueResult{}, err
	}

	message := formatCandidateList("Here are three possible hooks", result.candidates)
	now := e.clock.Now()
	updated, err := e.store.Update(ctx, sess.ID, func(s *session.Session) error {
		s.Elements.Hooks = result.candidates
		s.Stage = session.StageHookSelection
		if result.recoveryNote != "" {
			s.AppendTurn(session.RoleSystem, result.recoveryNote, now)
		}
		s.AppendTurn(session.RoleAssistant, message, now)
		s.Metadata.LLMCalls += result.attempts
		s.Metadata.ContextChunksUsed += result.chunksUsed
		return nil
	})
	if err != nil {
		return ContinueResult{}, err
	}
	return ContinueResult{Message: message, Stage: updated.Stage, Options: result.candidates}, nil
}

// attemptCTAGeneration mirrors attemptHookGeneration for the cta_generation
// stage, using cta_retries.
func (e *Engine) attemptCTAGeneration(ctx context.Context, sess session.Session) (ContinueResult, error) {
	result, err := e.generateThreeCandidates(ctx, sess, promptlib.CTAGeneration, "CTA", e.ctaRetries)
	if err != nil {
		return ContinueResult{}, err
	}

	message := formatCandidateList("Here are three possible calls to action", result.candidates)
	now := e.clock.Now()
	updated, err := e.store.Update(ctx, sess.ID, func(s *session.Session) error {
		s.Elements.CTAs = result.candidates
		s.Stage = session.StageCTASelection
		s.AppendTurn(session.RoleAssistant, message, now)
		s.Metadata.LLMCalls += result.attempts
		s.Metadata.ContextChunksUsed += result.chunksUsed
		return nil
	})
	if err != nil {
		return ContinueResult{}, err
	}
	return ContinueResult{Message: message, Stage: updated.Stage, Options: result.candidates}, nil
}

// candidateGeneration is the outcome of generateThreeCandidates: the parsed
// candidates plus the counters the caller folds into session.Metadata.
type candidateGeneration struct {
	candidates   []session.Candidate
	attempts     int
	chunksUsed   int
	recoveryNote string
}

// generateThreeCandidates renders the given template against the session's
// accumulated elements and reissues the completion call up to retries
// additional times until exactly three candidates parse, per spec §4.2
// ("on fewer than 3 parseable candidates, the engine reissues the request
// up to hook_retries/cta_retries times").
func (e *Engine) generateThreeCandidates(ctx context.Context, sess session.Session, stage, label string, retries int) (candidateGeneration, error) {
	var prompt string
	var err error
	var chunksUsed int
	var recoveryNote string
	switch stage {
	case promptlib.HookGeneration:
		chunks, note := e.retrieveContext(ctx, sess.Elements.EnrichedCore(), "hook_generation")
		chunksUsed = len(chunks)
		recoveryNote = note
		prompt, err = e.prompts.Render(stage, map[string]string{
			"enriched_core":  sess.Elements.EnrichedCore(),
			"context_chunks": renderContextChunks(chunks),
		})
	case promptlib.CTAGeneration:
		prompt, err = e.prompts.Render(stage, map[string]string{
			"narrative_arc": sess.Elements.NarrativeArc,
			"quote":         sess.Elements.Quote,
		})
	}
	if err != nil {
		return candidateGeneration{}, err
	}

	attempts := retries + 1
	if attempts < 1 {
		attempts = 1
	}

	var candidates []session.Candidate
	made := 0
	for i := 0; i < attempts; i++ {
		made++
		raw, callErr := e.llm.Complete(ctx, prompt, tokensCandidates, e.temperature)
		if callErr != nil {
			return candidateGeneration{}, callErr
		}
		candidates = parseCandidates(raw, label)
		if len(candidates) == 3 {
			return candidateGeneration{candidates: candidates, attempts: made, chunksUsed: chunksUsed, recoveryNote: recoveryNote}, nil
		}
	}
	return candidateGeneration{}, apperr.New(apperr.GenerationIncomplete, label+"_generation did not yield three parseable candidates after retries")
}

// attemptArcDevelopment runs the arc_development prompt once; arc text is
// free-form prose, not a fixed-count candidate list, so there is no
// retry-for-shape loop, only the LLM Client's own transient-failure retry.
func (e *Engine) attemptArcDevelopment(ctx context.Context, sess session.Session) (string, session.Stage, error) {
	chunks, note := e.retrieveContext(ctx, sess.Elements.EnrichedCore(), "arc_development")
	prompt, err := e.prompts.Render(promptlib.ArcDevelopment, map[string]string{
		"selected_hook":  candidateText(sess.Elements.SelectedHook),
		"enriched_core":  sess.Elements.EnrichedCore(),
		"context_chunks": renderContextChunks(chunks),
	})
	if err != nil {
		return "", sess.Stage, err
	}
	raw, err := e.llm.Complete(ctx, prompt, tokensNarrativeArc, e.temperature)
	if err != nil {
		return "", sess.Stage, err
	}

	now := e.clock.Now()
	updated, err := e.store.Update(ctx, sess.ID, func(s *session.Session) error {
		s.Elements.NarrativeArc = raw
		s.Stage = session.StageQuoteIntegration
		if note != "" {
			s.AppendTurn(session.RoleSystem, note, now)
		}
		s.AppendTurn(session.RoleAssistant, raw, now)
		s.Metadata.LLMCalls++
		s.Metadata.ContextChunksUsed += len(chunks)
		return nil
	})
	if err != nil {
		return "", sess.Stage, err
	}
	return raw, updated.Stage, nil
}

func formatCandidateList(intro string, candidates []session.Candidate) string {
	var b strings.Builder
	b.WriteString(intro)
	b.WriteString(":\n")
	for i, c := range candidates {
		b.WriteString(candidateLine(i, c))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func candidateLine(i int, c session.Candidate) string {
	return strconv.Itoa(i+1) + ". " + c.Title + " - " + c.Body
}
