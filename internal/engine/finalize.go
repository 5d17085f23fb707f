package engine

import (
	"context"

	"github.com/ford-at-home/storygen-sub000/internal/apperr"
	"github.com/ford-at-home/storygen-sub000/internal/config"
	"github.com/ford-at-home/storygen-sub000/internal/promptlib"
	"github.com/ford-at-home/storygen-sub000/internal/session"
	"github.com/ford-at-home/storygen-sub000/internal/util"
)

// GenerateFinal assembles the finished story from the selected hook, arc,
// quote, and selected CTA, re-querying local context across the anecdote
// and arc before the final composition call (spec §4.2: "final assembly ...
// re-queried top-k context (union of anecdote + arc)").
func (e *Engine) GenerateFinal(ctx context.Context, id, style string) (GenerateFinalResult, error) {
	sess, err := e.store.Get(ctx, id)
	if err != nil {
		return GenerateFinalResult{}, err
	}
	if sess.Stage != session.StageReadyToGenerate {
		return GenerateFinalResult{}, invalidStage("generate_final", sess.Stage)
	}

	st, ok := config.StyleByID(style)
	if !ok {
		return GenerateFinalResult{}, apperr.New(apperr.InvalidInput, "unrecognized style").WithStage(string(sess.Stage))
	}

	query := sess.Elements.Anecdote
	if sess.Elements.NarrativeArc != "" {
		query += "\n\n" + sess.Elements.NarrativeArc
	}
	chunks, note := e.retrieveContext(ctx, query, "final_assembly")

	prompt, err := e.prompts.Render(promptlib.FinalAssembly, map[string]string{
		"selected_hook":  candidateText(sess.Elements.SelectedHook),
		"narrative_arc":  sess.Elements.NarrativeArc,
		"quote":          sess.Elements.Quote,
		"selected_cta":   candidateText(sess.Elements.SelectedCTA),
		"context_chunks": renderContextChunks(chunks),
		"style":          st.ID,
	})
	if err != nil {
		return GenerateFinalResult{}, err
	}

	text, err := e.llm.Complete(ctx, prompt, st.MaxTokens, e.temperature)
	if err != nil {
		return GenerateFinalResult{}, err
	}

	final := session.FinalStory{
		Text:                text,
		Style:               st.ID,
		WordCount:           util.WordCount(text),
		Themes:              deriveThemes(sess),
		Tone:                deriveTone(st),
		Angle:               deriveAngle(sess),
		RichmondContextUsed: len(chunks),
	}

	now := e.clock.Now()
	updated, err := e.store.Update(ctx, sess.ID, func(s *session.Session) error {
		s.Elements.FinalStory = &final
		s.Stage = session.StageStoryGenerated
		s.Status = session.StatusCompleted
		if note != "" {
			s.AppendTurn(session.RoleSystem, note, now)
		}
		s.AppendTurn(session.RoleAssistant, text, now)
		s.Metadata.LLMCalls++
		s.Metadata.ContextChunksUsed += len(chunks)
		return nil
	})
	if err != nil {
		return GenerateFinalResult{}, err
	}
	return GenerateFinalResult{FinalStory: *updated.Elements.FinalStory}, nil
}

// deriveThemes, deriveTone and deriveAngle compute lightweight descriptive
// metadata from material the engine already produced, rather than issuing
// another LLM call purely for labeling (spec §4.2: "themes, tone, angle:
// derived from accumulated elements").
func deriveThemes(sess session.Session) []string {
	var themes []string
	if sess.Elements.SelectedHook != nil && sess.Elements.SelectedHook.Title != "" {
		themes = append(themes, sess.Elements.SelectedHook.Title)
	}
	if sess.Elements.SelectedCTA != nil && sess.Elements.SelectedCTA.Title != "" {
		themes = append(themes, sess.Elements.SelectedCTA.Title)
	}
	return themes
}

func deriveTone(st config.Style) string {
	switch st.ID {
	case "short_post":
		return "conversational"
	case "blog_post":
		return "narrative"
	default:
		return "reflective"
	}
}

func deriveAngle(sess session.Session) string {
	if sess.Elements.SelectedHook != nil {
		return sess.Elements.SelectedHook.Title
	}
	return ""
}
