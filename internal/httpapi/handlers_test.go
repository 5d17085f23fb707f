package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ford-at-home/storygen-sub000/internal/clock"
	"github.com/ford-at-home/storygen-sub000/internal/config"
	"github.com/ford-at-home/storygen-sub000/internal/engine"
	"github.com/ford-at-home/storygen-sub000/internal/llmclient"
	"github.com/ford-at-home/storygen-sub000/internal/promptlib"
	"github.com/ford-at-home/storygen-sub000/internal/session"
	"github.com/ford-at-home/storygen-sub000/internal/vectorclient"
)

type scriptedProvider struct{ resp string }

func (p *scriptedProvider) Complete(ctx context.Context, prompt string, maxTokens int, temperature float64) (string, error) {
	if strings.Contains(prompt, "Score the seed's narrative potential") {
		return "SCORE: 4.0\nCLASSIFICATION: sufficient", nil
	}
	return p.resp, nil
}

type zeroEmbedder struct{}

func (zeroEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	return [][]float32{{1, 0}}, nil
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	clk := clock.NewFixed(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	store := session.New(24*time.Hour, clk, nil)
	llm := llmclient.New(config.LLMConfig{Retries: 0, Timeout: 2 * time.Second, MaxInflight: 4, AdmissionWait: time.Second}, &scriptedProvider{resp: "Tell me more."})
	vc := vectorclient.New(zeroEmbedder{}, vectorclient.NewMemoryBackend(), 5)
	prompts := promptlib.New()
	cfg := config.Config{DepthCutoff: 3.0, MinCoreIdea: 5, LLM: config.LLMConfig{HookRetries: 2, CTARetries: 2}, Vector: config.VectorConfig{TopK: 5}}
	eng := engine.New(store, llm, vc, prompts, clk, cfg)
	return NewServer(eng)
}

func doJSON(t *testing.T, srv *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func TestHandleHealth(t *testing.T) {
	srv := newTestServer(t)
	rec := doJSON(t, srv, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	var payload map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, "ok", payload["status"])
	assert.NotEmpty(t, payload["version"])
}

func TestHandleStyles(t *testing.T) {
	srv := newTestServer(t)
	rec := doJSON(t, srv, http.MethodGet, "/styles", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	var payload map[string][]StyleResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Len(t, payload["styles"], 3)
}

func TestHandleStart_InvalidInputReturns400(t *testing.T) {
	srv := newTestServer(t)
	rec := doJSON(t, srv, http.MethodPost, "/conversation/start", StartRequest{CoreIdea: "hi"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleStart_ValidIdeaReturns201(t *testing.T) {
	srv := newTestServer(t)
	rec := doJSON(t, srv, http.MethodPost, "/conversation/start", StartRequest{CoreIdea: "Richmond tech scene and my startup"})
	assert.Equal(t, http.StatusCreated, rec.Code)
	var resp StartResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.SessionID)
	assert.Equal(t, "depth_analysis", resp.Stage)
}

func TestHandleGetSession_UnknownReturns404(t *testing.T) {
	srv := newTestServer(t)
	rec := doJSON(t, srv, http.MethodGet, "/conversation/session/missing", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleSelectOption_WrongStageReturns409(t *testing.T) {
	srv := newTestServer(t)
	start := doJSON(t, srv, http.MethodPost, "/conversation/start", StartRequest{CoreIdea: "Richmond tech scene and my startup"})
	var startResp StartResponse
	require.NoError(t, json.Unmarshal(start.Body.Bytes(), &startResp))

	rec := doJSON(t, srv, http.MethodPost, "/conversation/select-option/"+startResp.SessionID, SelectOptionRequest{Type: "hook", Index: 0})
	assert.Equal(t, http.StatusConflict, rec.Code)

	var payload struct {
		Error ErrorBody `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, "InvalidTransition", payload.Error.Kind)
	assert.NotEmpty(t, payload.Error.Message)
	assert.Equal(t, "depth_analysis", payload.Error.Stage)
}

func TestHandleListActive(t *testing.T) {
	srv := newTestServer(t)
	doJSON(t, srv, http.MethodPost, "/conversation/start", StartRequest{CoreIdea: "Richmond tech scene and my startup"})
	rec := doJSON(t, srv, http.MethodGet, "/conversation/sessions/active", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	var payload map[string][]SessionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Len(t, payload["sessions"], 1)
}
