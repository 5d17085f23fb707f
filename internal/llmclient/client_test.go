package llmclient

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ford-at-home/storygen-sub000/internal/apperr"
	"github.com/ford-at-home/storygen-sub000/internal/config"
)

type scriptedProvider struct {
	calls    int
	behavior func(call int) (string, error)
}

func (s *scriptedProvider) Complete(ctx context.Context, prompt string, maxTokens int, temperature float64) (string, error) {
	s.calls++
	return s.behavior(s.calls)
}

type statusErr struct {
	StatusCode int
	msg        string
}

func (e *statusErr) Error() string { return e.msg }

func baseCfg() config.LLMConfig {
	return config.LLMConfig{
		Retries:       2,
		Timeout:       5 * time.Second,
		MaxInflight:   4,
		AdmissionWait: time.Second,
	}
}

func TestComplete_SucceedsFirstTry(t *testing.T) {
	p := &scriptedProvider{behavior: func(call int) (string, error) { return "ok", nil }}
	c := New(baseCfg(), p)
	out, err := c.Complete(context.Background(), "prompt", 100, 0.5)
	require.NoError(t, err)
	assert.Equal(t, "ok", out)
	assert.Equal(t, 1, p.calls)
}

func TestComplete_RetriesTransientThenSucceeds(t *testing.T) {
	p := &scriptedProvider{behavior: func(call int) (string, error) {
		if call < 3 {
			return "", &statusErr{StatusCode: 503, msg: "server busy"}
		}
		return "recovered", nil
	}}
	c := New(baseCfg(), p)
	out, err := c.Complete(context.Background(), "prompt", 100, 0.5)
	require.NoError(t, err)
	assert.Equal(t, "recovered", out)
	assert.Equal(t, 3, p.calls)
}

func TestComplete_ClientErrorNoRetry(t *testing.T) {
	p := &scriptedProvider{behavior: func(call int) (string, error) {
		return "", &statusErr{StatusCode: 400, msg: "bad request"}
	}}
	c := New(baseCfg(), p)
	_, err := c.Complete(context.Background(), "prompt", 100, 0.5)
	require.Error(t, err)
	assert.Equal(t, apperr.InvalidInput, apperr.KindOf(err))
	assert.Equal(t, 1, p.calls)
}

func TestComplete_ExhaustsRetriesSurfacesUnavailable(t *testing.T) {
	p := &scriptedProvider{behavior: func(call int) (string, error) {
		return "", errors.New("connection reset")
	}}
	c := New(baseCfg(), p)
	_, err := c.Complete(context.Background(), "prompt", 100, 0.5)
	require.Error(t, err)
	assert.Equal(t, apperr.Unavailable, apperr.KindOf(err))
	assert.Equal(t, 3, p.calls) // initial + 2 retries
}

func TestComplete_DeadlineExceededSurfacesGenerationTimeout(t *testing.T) {
	p := &scriptedProvider{behavior: func(call int) (string, error) {
		time.Sleep(5 * time.Millisecond)
		return "", context.DeadlineExceeded
	}}
	cfg := baseCfg()
	cfg.Timeout = time.Millisecond
	cfg.Retries = 0
	c := New(cfg, p)
	_, err := c.Complete(context.Background(), "prompt", 100, 0.5)
	require.Error(t, err)
	assert.Equal(t, apperr.GenerationTimeout, apperr.KindOf(err))
}
