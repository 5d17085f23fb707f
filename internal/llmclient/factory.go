package llmclient

import (
	"context"
	"fmt"
	"net/http"

	"github.com/ford-at-home/storygen-sub000/internal/config"
)

// NewProvider selects a backend by cfg.Provider, grounded on the teacher's
// internal/llm/providers/factory.go Build switch.
func NewProvider(ctx context.Context, cfg config.LLMConfig, httpClient *http.Client) (Provider, error) {
	switch cfg.Provider {
	case "", "openai":
		return newOpenAIProvider(cfg.APIKey, cfg.BaseURL, cfg.Model, httpClient), nil
	case "anthropic":
		return newAnthropicProvider(cfg.APIKey, cfg.BaseURL, cfg.Model, httpClient), nil
	case "gemini", "google":
		return newGeminiProvider(ctx, cfg.APIKey, cfg.BaseURL, cfg.Model, httpClient)
	default:
		return nil, fmt.Errorf("llmclient: unsupported provider %q", cfg.Provider)
	}
}
