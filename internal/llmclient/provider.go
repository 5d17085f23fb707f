// Package llmclient is the synchronous LLM Client: a single `Complete`
// contract (spec §4.3) backed by a pluggable Provider (OpenAI, Anthropic, or
// Gemini), wrapped in bounded retry, a per-call deadline, and bounded
// concurrency. The engine never retries a failed call itself (spec §7
// Recovery policy); it only reissues a call whose output did not parse into
// the required shape. Transient-failure retry lives here, once, grounded on the teacher's
// provider-per-backend split (internal/llm/{openai,anthropic,google}) scoped
// down from full tool-calling chat clients to single-shot completion.
package llmclient

import "context"

// Provider performs one non-streaming completion call against a single LLM
// backend. Implementations do not retry or enforce timeouts themselves —
// that is the Client's job, so every backend behaves identically under
// backpressure.
type Provider interface {
	Complete(ctx context.Context, prompt string, maxTokens int, temperature float64) (string, error)
}
