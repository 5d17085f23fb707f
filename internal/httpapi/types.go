package httpapi

import "time"

// StartRequest is the body of POST /conversation/start.
type StartRequest struct {
	CoreIdea string `json:"core_idea"`
	UserID   string `json:"user_id,omitempty"`
}

// StartResponse is returned by POST /conversation/start.
type StartResponse struct {
	SessionID     string `json:"session_id"`
	FirstQuestion string `json:"first_question"`
	Stage         string `json:"stage"`
}

// ContinueRequest is the body of POST /conversation/continue/{id}.
type ContinueRequest struct {
	Text string `json:"text"`
}

// ContinueResponse is returned by POST /conversation/continue/{id}.
type ContinueResponse struct {
	ResponseText string         `json:"response_text"`
	Stage        string         `json:"stage"`
	Options      []CandidateDTO `json:"options,omitempty"`
	FinalStory   *FinalStoryDTO `json:"final_story,omitempty"`
}

// SelectOptionRequest is the body of POST /conversation/select-option/{id}.
type SelectOptionRequest struct {
	Type  string `json:"type"`
	Index int    `json:"index"`
}

// SelectOptionResponse is returned by POST /conversation/select-option/{id}.
type SelectOptionResponse struct {
	ResponseText string `json:"response_text"`
	Stage        string `json:"stage"`
}

// GenerateFinalRequest is the body of POST /conversation/generate-final/{id}.
type GenerateFinalRequest struct {
	Style string `json:"style"`
}

// GenerateFinalResponse is returned by POST /conversation/generate-final/{id}.
type GenerateFinalResponse struct {
	FinalStory FinalStoryDTO `json:"final_story"`
}

// CandidateDTO is one hook or CTA option presented to the author.
type CandidateDTO struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// FinalStoryDTO is the finished narrative artifact, per spec §9's
// structured final_story record.
type FinalStoryDTO struct {
	Text                string   `json:"text"`
	Style               string   `json:"style"`
	WordCount           int      `json:"word_count"`
	Themes              []string `json:"themes"`
	Tone                string   `json:"tone"`
	Angle               string   `json:"angle"`
	RichmondContextUsed int      `json:"richmond_context_used"`
}

// TurnDTO is one entry in a session's history.
type TurnDTO struct {
	Index     int       `json:"index"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// SessionResponse is the full session snapshot returned by
// GET /conversation/session/{id}.
type SessionResponse struct {
	ID          string         `json:"id"`
	UserID      string         `json:"user_id,omitempty"`
	Stage       string         `json:"stage"`
	Status      string         `json:"status"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	TTLDeadline time.Time      `json:"ttl_deadline"`
	History     []TurnDTO      `json:"history"`
	CoreIdea    string         `json:"core_idea"`
	DepthScore  float64        `json:"depth_score"`
	Hooks       []CandidateDTO `json:"hooks,omitempty"`
	CTAs        []CandidateDTO `json:"ctas,omitempty"`
	FinalStory  *FinalStoryDTO `json:"final_story,omitempty"`
	Metadata    MetadataDTO    `json:"metadata"`
}

// MetadataDTO surfaces the session's running counters (spec.md §3:
// "metadata: counters (turn count, LLM calls, context chunks used)").
type MetadataDTO struct {
	TurnCount         int `json:"turn_count"`
	LLMCalls          int `json:"llm_calls"`
	ContextChunksUsed int `json:"context_chunks_used"`
	FollowUpRounds    int `json:"follow_up_rounds"`
}

// ErrorBody is the structured payload under the top-level "error" key of
// every non-2xx response (spec §7): kind is the stable apperr.Kind string,
// message is human-readable, and stage is the session stage attached to the
// error, if any (set on InvalidTransition and on some InvalidInput errors).
type ErrorBody struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
	Stage   string `json:"stage,omitempty"`
}

// StyleResponse describes one recognized output style (GET /styles).
type StyleResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	MaxTokens   int    `json:"max_tokens"`
}
