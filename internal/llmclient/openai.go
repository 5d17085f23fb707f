package llmclient

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
	"github.com/openai/openai-go/v2/packages/param"
	"github.com/openai/openai-go/v2/shared"
)

// openAIProvider is grounded on the teacher's internal/llm/openai_client.go
// CallLLM, scoped down to a single user-turn completion (no message history,
// no tool calls, no MLX fallback path — the engine builds one fully rendered
// prompt per stage via the Prompt Library, not a running chat transcript).
type openAIProvider struct {
	client openai.Client
	model  string
}

func newOpenAIProvider(apiKey, baseURL, model string, httpClient *http.Client) *openAIProvider {
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if httpClient != nil {
		opts = append(opts, option.WithHTTPClient(httpClient))
	}
	if strings.TrimSpace(baseURL) != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	return &openAIProvider{
		client: openai.NewClient(opts...),
		model:  model,
	}
}

func (p *openAIProvider) Complete(ctx context.Context, prompt string, maxTokens int, temperature float64) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model:       shared.ChatModel(p.model),
		Messages:    []openai.ChatCompletionMessageParamUnion{openai.UserMessage(prompt)},
		Temperature: param.NewOpt(temperature),
		MaxTokens:   param.NewOpt(int64(maxTokens)),
	}
	resp, err := p.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai: no choices returned")
	}
	return resp.Choices[0].Message.Content, nil
}
