package llm

import (
	"context"
)

// LLMClient is the single capability the triage pipeline needs from a model
// provider: turn one prompt into one completion.
type LLMClient interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Options are the per-request settings shared by every provider client.
type Options struct {
	Model        string
	SystemPrompt string
	Temperature  float32
	TopP         float32
	MaxTokens    int
}
