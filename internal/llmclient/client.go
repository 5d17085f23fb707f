package llmclient

import (
	"context"
	"errors"
	"reflect"
	"time"

	"github.com/cenkalti/backoff/v5"
	"golang.org/x/sync/semaphore"

	"github.com/ford-at-home/storygen-sub000/internal/apperr"
	"github.com/ford-at-home/storygen-sub000/internal/config"
)

// Client is the synchronous LLM Client described in spec §4.3: one
// `Complete(prompt, token_limit, temperature) -> text` contract, with
// bounded retry, a per-call deadline, and bounded concurrency sitting in
// front of a single Provider. Retry/timeout live here instead of in the
// engine per spec §9's re-architecture note ("Retry/timeout decorators
// become explicit configuration on the LLM and Vector clients; the engine
// never wraps these in its own retry loop"). Concurrency bound and backoff
// are grounded on the teacher's golang.org/x/sync/semaphore admission gate
// (internal/agentd) and cenkalti/backoff retry pattern
// (internal/tools/web/search.go), promoted from the teacher's indirect
// dependency on backoff to a direct, generics-based v5 Retry call.
type Client struct {
	provider      Provider
	sem           *semaphore.Weighted
	admissionWait time.Duration
	callTimeout   time.Duration
	retries       int
}

// New wraps a Provider with the retry/timeout/concurrency policy from cfg.
func New(cfg config.LLMConfig, provider Provider) *Client {
	maxInflight := cfg.MaxInflight
	if maxInflight <= 0 {
		maxInflight = 32
	}
	return &Client{
		provider:      provider,
		sem:           semaphore.NewWeighted(maxInflight),
		admissionWait: cfg.AdmissionWait,
		callTimeout:   cfg.Timeout,
		retries:       cfg.Retries,
	}
}

// Complete performs one completion call, enforcing admission backpressure,
// bounded exponential-backoff retry on transient failures, and a per-call
// deadline. It never retries on a 4xx/validation failure (spec §7: "4xx /
// validation -> no retry; surface InvalidInput").
func (c *Client) Complete(ctx context.Context, prompt string, maxTokens int, temperature float64) (string, error) {
	admissionCtx := ctx
	var cancelAdmission context.CancelFunc
	if c.admissionWait > 0 {
		admissionCtx, cancelAdmission = context.WithTimeout(ctx, c.admissionWait)
		defer cancelAdmission()
	}
	if err := c.sem.Acquire(admissionCtx, 1); err != nil {
		return "", apperr.Wrap(apperr.Unavailable, err, "llm client at capacity, admission deadline exceeded")
	}
	defer c.sem.Release(1)

	callCtx := ctx
	var cancelCall context.CancelFunc
	if c.callTimeout > 0 {
		callCtx, cancelCall = context.WithTimeout(ctx, c.callTimeout)
		defer cancelCall()
	}

	maxTries := c.retries + 1
	if maxTries < 1 {
		maxTries = 1
	}

	text, err := backoff.Retry(callCtx, func() (string, error) {
		out, callErr := c.provider.Complete(callCtx, prompt, maxTokens, temperature)
		if callErr == nil {
			return out, nil
		}
		if isClientError(callErr) {
			return "", backoff.Permanent(callErr)
		}
		return "", callErr
	}, backoff.WithMaxTries(uint(maxTries)), backoff.WithBackOff(backoff.NewExponentialBackOff()))

	if err != nil {
		return "", classifyError(err)
	}
	return text, nil
}

// classifyError maps a failure from the retry loop to a domain apperr kind.
func classifyError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return apperr.Wrap(apperr.GenerationTimeout, err, "llm call exceeded its deadline")
	}
	if isClientError(err) {
		return apperr.Wrap(apperr.InvalidInput, err, "llm provider rejected the request")
	}
	return apperr.Wrap(apperr.Unavailable, err, "llm provider unavailable after retries")
}

// isClientError reports whether err carries an HTTP 4xx status, using
// reflection over a common "StatusCode" field rather than importing each
// SDK's concrete error type — openai-go, anthropic-sdk-go, and genai all
// surface request failures as a struct with an exported StatusCode field,
// but under different type names.
func isClientError(err error) bool {
	status, ok := statusCodeOf(err)
	return ok && status >= 400 && status < 500
}

func statusCodeOf(err error) (int, bool) {
	if err == nil {
		return 0, false
	}
	rv := reflect.ValueOf(err)
	for rv.Kind() == reflect.Ptr || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return 0, false
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		if wrapped := errors.Unwrap(err); wrapped != nil {
			return statusCodeOf(wrapped)
		}
		return 0, false
	}
	f := rv.FieldByName("StatusCode")
	if f.IsValid() && f.Kind() == reflect.Int {
		return int(f.Int()), true
	}
	if wrapped := errors.Unwrap(err); wrapped != nil {
		return statusCodeOf(wrapped)
	}
	return 0, false
}
