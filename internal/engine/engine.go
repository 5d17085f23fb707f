package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/ford-at-home/storygen-sub000/internal/apperr"
	"github.com/ford-at-home/storygen-sub000/internal/clock"
	"github.com/ford-at-home/storygen-sub000/internal/config"
	"github.com/ford-at-home/storygen-sub000/internal/llmclient"
	"github.com/ford-at-home/storygen-sub000/internal/promptlib"
	"github.com/ford-at-home/storygen-sub000/internal/session"
	"github.com/ford-at-home/storygen-sub000/internal/vectorclient"
)

// Engine drives a session through the stage FSM, composing the Session
// Store, LLM Client, Vector Client, and Prompt Library. It holds no session
// state itself; every method reads and writes through the Store so the
// store's per-session locking and invariant checks remain the only source
// of truth.
type Engine struct {
	store   *session.Store
	llm     *llmclient.Client
	vector  *vectorclient.Client
	prompts *promptlib.Library
	clock   clock.Clock

	depthCutoff float64
	minCoreIdea int
	vectorTopK  int
	hookRetries int
	ctaRetries  int
	temperature float64
}

// New constructs an Engine wiring the four domain clients together under
// cfg's tunables.
func New(store *session.Store, llm *llmclient.Client, vector *vectorclient.Client, prompts *promptlib.Library, clk clock.Clock, cfg config.Config) *Engine {
	if clk == nil {
		clk = clock.System{}
	}
	return &Engine{
		store:       store,
		llm:         llm,
		vector:      vector,
		prompts:     prompts,
		clock:       clk,
		depthCutoff: cfg.DepthCutoff,
		minCoreIdea: cfg.MinCoreIdea,
		vectorTopK:  cfg.Vector.TopK,
		hookRetries: cfg.LLM.HookRetries,
		ctaRetries:  cfg.LLM.CTARetries,
		temperature: cfg.LLM.Temperature,
	}
}

// GetSession returns a read-only snapshot of a session (spec §4.2:
// "get_session(session_id) -> session_snapshot").
func (e *Engine) GetSession(ctx context.Context, id string) (session.Session, error) {
	return e.store.Get(ctx, id)
}

// ListActiveSessions returns every session still in progress, for the
// operational listing endpoint (spec §6: "GET /conversation/sessions/active").
func (e *Engine) ListActiveSessions(ctx context.Context) ([]session.Session, error) {
	return e.store.ListActive(ctx)
}

// invalidStage reports that op is not legal for the session's current
// stage.
func invalidStage(op string, stage session.Stage) error {
	return apperr.New(apperr.InvalidTransition, fmt.Sprintf("%s is not valid while the session is at stage %q", op, stage)).WithStage(string(stage))
}

// renderContextChunks flattens retrieved chunks into the block the prompt
// templates embed verbatim.
func renderContextChunks(chunks []vectorclient.Chunk) string {
	if len(chunks) == 0 {
		return "(no local context retrieved)"
	}
	parts := make([]string, 0, len(chunks))
	for _, c := range chunks {
		parts = append(parts, strings.TrimSpace(c.Text))
	}
	return strings.Join(parts, "\n---\n")
}

// retrieveContext wraps a vector retrieval call, additionally rendering the
// error_recovery template into a human-readable system note whenever the
// retrieval degrades to an empty result, instead of silently feeding an
// empty context block into the next prompt (spec §4.4, §7: "the engine
// renders error_recovery to produce the human-readable system note text
// appended to history"). note is empty when chunks were retrieved normally.
func (e *Engine) retrieveContext(ctx context.Context, query, reason string) (chunks []vectorclient.Chunk, note string) {
	chunks = e.vector.Retrieve(ctx, query, e.vectorTopK)
	if len(chunks) > 0 {
		return chunks, ""
	}
	rendered, err := e.prompts.Render(promptlib.ErrorRecovery, map[string]string{"reason": reason})
	if err != nil {
		return chunks, ""
	}
	return chunks, rendered
}

func candidateText(c *session.Candidate) string {
	if c == nil {
		return ""
	}
	return c.Title + " - " + c.Body
}
