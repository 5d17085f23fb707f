package llmclient

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// anthropicProvider is grounded on the teacher's internal/llm/anthropic/client.go
// construction and Messages.New call shape, scoped down from its multi-turn,
// tool-using, thinking-block-tracking Chat method to a single-shot completion.
type anthropicProvider struct {
	client anthropic.Client
	model  string
}

func newAnthropicProvider(apiKey, baseURL, model string, httpClient *http.Client) *anthropicProvider {
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if httpClient != nil {
		opts = append(opts, option.WithHTTPClient(httpClient))
	}
	if strings.TrimSpace(baseURL) != "" {
		opts = append(opts, option.WithBaseURL(strings.TrimSuffix(baseURL, "/")))
	}
	if strings.TrimSpace(model) == "" {
		model = string(anthropic.ModelClaude3_7SonnetLatest)
	}
	return &anthropicProvider{
		client: anthropic.NewClient(opts...),
		model:  model,
	}
}

func (p *anthropicProvider) Complete(ctx context.Context, prompt string, maxTokens int, temperature float64) (string, error) {
	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(p.model),
		Messages:    []anthropic.MessageParam{anthropic.NewUserMessage(anthropic.NewTextBlock(prompt))},
		MaxTokens:   int64(maxTokens),
		Temperature: anthropic.Float(temperature),
	}
	resp, err := p.client.Messages.New(ctx, params)
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	for _, block := range resp.Content {
		if tb, ok := block.AsAny().(anthropic.TextBlock); ok {
			sb.WriteString(tb.Text)
		}
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("anthropic: no text content returned")
	}
	return sb.String(), nil
}
