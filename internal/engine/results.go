// Package engine is the Conversation Engine: the stage FSM described in
// spec §4.2, driving the session from kickoff through story_generated by
// combining the Session Store, LLM Client, Vector Client, and Prompt
// Library. It is the largest single component (spec §2: ~30% of the
// core), grounded loosely on the teacher's internal/playground/worker.go
// "render prompt, call provider, persist result" shape, generalized into a
// full multi-stage state machine with retry-for-shape and invariant-safe
// partial-commit semantics.
package engine

import "github.com/ford-at-home/storygen-sub000/internal/session"

// StartResult is returned by Start (spec §4.2: "start(core_idea, optional
// user_id) -> (session_id, first_question, stage)").
type StartResult struct {
	SessionID     string
	Stage         session.Stage
	FirstQuestion string
}

// ContinueResult is returned by Continue (spec §4.2: "continue(session_id,
// text) -> (response_text, stage, optional options_payload, optional
// final_story)").
type ContinueResult struct {
	Message    string
	Stage      session.Stage
	Options    []session.Candidate
	FinalStory *session.FinalStory
}

// SelectOptionResult is returned by SelectOption (spec §4.2:
// "select_option(session_id, type, index) -> (response_text, stage)").
type SelectOptionResult struct {
	Message string
	Stage   session.Stage
}

// GenerateFinalResult is returned by GenerateFinal (spec §4.2:
// "generate_final(session_id, style) -> final_story").
type GenerateFinalResult struct {
	FinalStory session.FinalStory
}
