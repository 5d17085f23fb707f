package llmclient

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	genai "google.golang.org/genai"
)

// geminiProvider is grounded on the teacher's internal/llm/google/client.go
// construction and Models.GenerateContent call shape, scoped down to a
// single-shot text completion (no tool declarations, no streaming, no
// image-modality handling).
type geminiProvider struct {
	client *genai.Client
	model  string
}

func newGeminiProvider(ctx context.Context, apiKey, baseURL, model string, httpClient *http.Client) (*geminiProvider, error) {
	if strings.TrimSpace(model) == "" {
		model = "gemini-1.5-flash"
	}
	httpOpts := genai.HTTPOptions{}
	if strings.TrimSpace(baseURL) != "" {
		httpOpts.BaseURL = strings.TrimSuffix(baseURL, "/") + "/"
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      apiKey,
		HTTPClient:  httpClient,
		HTTPOptions: httpOpts,
	})
	if err != nil {
		return nil, fmt.Errorf("init gemini client: %w", err)
	}
	return &geminiProvider{client: client, model: model}, nil
}

func (p *geminiProvider) Complete(ctx context.Context, prompt string, maxTokens int, temperature float64) (string, error) {
	temp := float32(temperature)
	cfg := &genai.GenerateContentConfig{
		Temperature:     &temp,
		MaxOutputTokens: int32(maxTokens),
	}
	resp, err := p.client.Models.GenerateContent(ctx, p.model, genai.Text(prompt), cfg)
	if err != nil {
		return "", err
	}
	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("gemini: empty response text")
	}
	return text, nil
}
