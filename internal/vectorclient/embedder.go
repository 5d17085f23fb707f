package vectorclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// Embedder turns text into a vector in the same space the corpus was
// indexed in. Retrieval and corpus-seeding share one Embedder so query and
// document vectors are always comparable.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// httpEmbedder calls an OpenAI-compatible embeddings endpoint directly,
// grounded on the teacher's internal/embeddings/embeddings.go
// GenerateEmbeddings/FetchEmbeddings (kept as a raw HTTP call rather than
// the openai-go SDK client because the teacher's own embeddings path never
// routes through that SDK either — host is frequently a local/self-hosted
// OpenAI-compatible endpoint, not api.openai.com).
type httpEmbedder struct {
	host       string
	apiKey     string
	model      string
	httpClient *http.Client
}

// NewHTTPEmbedder builds an Embedder against an OpenAI-compatible
// "/embeddings" endpoint.
func NewHTTPEmbedder(host, apiKey, model string, httpClient *http.Client) Embedder {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if model == "" {
		model = "text-embedding-3-small"
	}
	return &httpEmbedder{host: host, apiKey: apiKey, model: model, httpClient: httpClient}
}

type embeddingRequest struct {
	Input          []string `json:"input"`
	Model          string   `json:"model"`
	EncodingFormat string   `json:"encoding_format"`
}

type embeddingDatum struct {
	Embedding []float64 `json:"embedding"`
	Index     int       `json:"index"`
}

type embeddingResponse struct {
	Data []embeddingDatum `json:"data"`
}

func (e *httpEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	body, err := json.Marshal(embeddingRequest{
		Input:          texts,
		Model:          e.model,
		EncodingFormat: "float",
	})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.host, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if e.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+e.apiKey)
	}
	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("vectorclient: embeddings endpoint returned status %d", resp.StatusCode)
	}
	var parsed embeddingResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, err
	}
	out := make([][]float32, len(parsed.Data))
	for _, d := range parsed.Data {
		vec := make([]float32, len(d.Embedding))
		for i, f := range d.Embedding {
			vec[i] = float32(f)
		}
		if d.Index >= 0 && d.Index < len(out) {
			out[d.Index] = vec
		}
	}
	return out, nil
}
