// Package session implements the Session Store (spec §4.1): the session,
// turn, and story-element entities, plus the per-session-locked store that
// owns them. It is grounded on the teacher's
// internal/persistence/databases/chat_store_memory.go (mutex-guarded map of
// sessions) and chat_store_postgres.go (durable export tier), generalized
// from a chat-history store to this domain's stage-driven session record.
package session

import "time"

// Stage is one node in the Conversation Engine's state machine (spec §3).
type Stage string

const (
	StageKickoff           Stage = "kickoff"
	StageDepthAnalysis     Stage = "depth_analysis"
	StageFollowUp          Stage = "follow_up"
	StagePersonalAnecdote  Stage = "personal_anecdote"
	StageHookGeneration    Stage = "hook_generation"
	StageHookSelection     Stage = "hook_selection"
	StageArcDevelopment    Stage = "arc_development"
	StageQuoteIntegration  Stage = "quote_integration"
	StageCTAGeneration     Stage = "cta_generation"
	StageCTASelection      Stage = "cta_selection"
	StageReadyToGenerate   Stage = "ready_to_generate"
	StageStoryGenerated    Stage = "story_generated"
)

// Status is the session's overall lifecycle state, orthogonal to Stage.
type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusAbandoned Status = "abandoned"
	StatusExpired   Status = "expired"
)

// Role identifies who authored a Turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Turn is one entry in a session's append-only history. Turns are totally
// ordered and densely indexed within a session (spec §8 invariant).
type Turn struct {
	Index     int       `json:"index"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// Candidate is one of the three hook or CTA options the engine generates
// and the user selects from (spec §4.2).
type Candidate struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// FinalStory is the terminal artifact produced by generate_final (spec §9:
// "promoted to a structured record" instead of a free-form string).
type FinalStory struct {
	Text                string   `json:"text"`
	Style               string   `json:"style"`
	WordCount           int      `json:"word_count"`
	Themes              []string `json:"themes"`
	Tone                string   `json:"tone"`
	Angle               string   `json:"angle"`
	RichmondContextUsed int      `json:"richmond_context_used"`
}

// StoryElements accumulates everything the engine has produced or collected
// for a session as it moves through the FSM.
type StoryElements struct {
	CoreIdea        string      `json:"core_idea"`
	DepthScore      float64     `json:"depth_score"`
	FollowUpAnswer  string      `json:"follow_up_answer,omitempty"`
	Anecdote        string      `json:"anecdote,omitempty"`
	Hooks           []Candidate `json:"hooks,omitempty"`
	SelectedHook    *Candidate  `json:"selected_hook,omitempty"`
	NarrativeArc    string      `json:"narrative_arc,omitempty"`
	Quote           string      `json:"quote,omitempty"`
	CTAs            []Candidate `json:"ctas,omitempty"`
	SelectedCTA     *Candidate  `json:"selected_cta,omitempty"`
	FinalStory      *FinalStory `json:"final_story,omitempty"`
}

// EnrichedCore is the accumulated narrative material fed into prompts past
// the depth-analysis stage: the core idea plus whatever follow-up answer
// and anecdote have been collected so far.
func (e StoryElements) EnrichedCore() string {
	out := e.CoreIdea
	if e.FollowUpAnswer != "" {
		out += "\n\n" + e.FollowUpAnswer
	}
	if e.Anecdote != "" {
		out += "\n\n" + e.Anecdote
	}
	return out
}

// Metadata tracks the running counters the spec attaches to a session
// alongside its narrative state (spec.md §3: "metadata: counters (turn
// count, LLM calls, context chunks used)").
type Metadata struct {
	LLMCalls          int `json:"llm_calls"`
	ContextChunksUsed int `json:"context_chunks_used"`
	FollowUpRounds    int `json:"follow_up_rounds"`
}

// Session is the top-level entity the Session Store manages (spec §4.1).
// core_idea is immutable once set; stage transitions follow the engine's
// FSM; ttl_deadline is refreshed on every successful update.
type Session struct {
	ID          string        `json:"id"`
	UserID      string        `json:"user_id,omitempty"`
	Stage       Stage         `json:"stage"`
	Status      Status        `json:"status"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
	TTLDeadline time.Time     `json:"ttl_deadline"`
	History     []Turn        `json:"history"`
	Elements    StoryElements `json:"elements"`
	Metadata    Metadata      `json:"metadata"`
}

// Clone deep-copies a Session so a failed mutation can never leak a partial
// write back to the caller (spec §8: "if op returns an error, S is
// byte-identical to its pre-op snapshot").
func (s Session) Clone() Session {
	out := s
	out.History = make([]Turn, len(s.History))
	copy(out.History, s.History)
	out.Elements.Hooks = append([]Candidate(nil), s.Elements.Hooks...)
	out.Elements.CTAs = append([]Candidate(nil), s.Elements.CTAs...)
	if s.Elements.SelectedHook != nil {
		h := *s.Elements.SelectedHook
		out.Elements.SelectedHook = &h
	}
	if s.Elements.SelectedCTA != nil {
		c := *s.Elements.SelectedCTA
		out.Elements.SelectedCTA = &c
	}
	if s.Elements.FinalStory != nil {
		f := *s.Elements.FinalStory
		f.Themes = append([]string(nil), s.Elements.FinalStory.Themes...)
		out.Elements.FinalStory = &f
	}
	return out
}

// AppendTurn appends a turn at the next dense index.
func (s *Session) AppendTurn(role Role, content string, now time.Time) {
	s.History = append(s.History, Turn{
		Index:     len(s.History),
		Role:      role,
		Content:   content,
		CreatedAt: now,
	})
}
