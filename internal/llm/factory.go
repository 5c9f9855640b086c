package llm

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/agenthands/topicscan/internal/config"
)

// NewClient builds the provider client named by cfg.Provider. The returned
// client is not yet wrapped with rate limiting or retries; see NewResilient.
func NewClient(ctx context.Context, cfg config.LLMConfig, prompts config.Prompts) (LLMClient, error) {
	provider := strings.ToLower(cfg.Provider)
	opts := Options{
		Model:        cfg.Model,
		SystemPrompt: prompts.System,
		Temperature:  cfg.Temperature,
		TopP:         cfg.TopP,
		MaxTokens:    cfg.MaxTokens,
	}

	switch provider {
	case "openai":
		return NewOpenAIClient(cfg.APIKey, cfg.BaseURL, opts), nil

	case "sambanova":
		baseURL := cfg.BaseURL
		if baseURL == "" {
			baseURL = config.SambaNovaBaseURL
		}
		return NewOpenAIClient(cfg.APIKey, baseURL, opts), nil

	case "ollama":
		// Ollama serves the OpenAI chat completion API under /v1
		baseURL := cfg.BaseURL
		if baseURL == "" {
			baseURL = "http://localhost:11434"
		}
		if !strings.HasSuffix(baseURL, "/v1") {
			baseURL = fmt.Sprintf("%s/v1", strings.TrimRight(baseURL, "/"))
		}
		apiKey := cfg.APIKey
		if apiKey == "" {
			apiKey = "ollama" // ignored by Ollama, required by the client
		}
		return NewOpenAIClient(apiKey, baseURL, opts), nil

	case "claude":
		return NewClaudeClient(cfg.APIKey, cfg.BaseURL, opts), nil

	case "gemini":
		c, err := NewGeminiClient(ctx, cfg.APIKey, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to create gemini client: %w", err)
		}
		return c, nil

	default:
		return nil, fmt.Errorf("unsupported llm provider: %s", provider)
	}
}

// NewFromConfig builds the configured provider client wrapped in the shared
// rate limit and retry policy.
func NewFromConfig(ctx context.Context, cfg *config.Config, logger *zap.Logger) (LLMClient, error) {
	c, err := NewClient(ctx, cfg.LLM, cfg.Prompts)
	if err != nil {
		return nil, err
	}
	return NewResilient(c, cfg.LLM.RequestsPerSecond, cfg.LLM.MaxRetries, logger), nil
}
