package triage

import (
	"context"
	"fmt"

	"github.com/agenthands/topicscan/internal/config"
	"github.com/agenthands/topicscan/internal/corpus"
	"github.com/agenthands/topicscan/internal/llm"
)

// Refiner asks the model for the sentences of a document that discuss the
// topic.
type Refiner struct {
	LLM     llm.LLMClient
	Prompts config.Prompts
}

func NewRefiner(llmClient llm.LLMClient, prompts config.Prompts) *Refiner {
	return &Refiner{
		LLM:     llmClient,
		Prompts: prompts,
	}
}

func (r *Refiner) Refine(ctx context.Context, doc corpus.Document, topic string) (string, error) {
	instruction := fmt.Sprintf(r.Prompts.Refinement, topic)
	prompt := fmt.Sprintf(r.Prompts.Message, doc.Content, instruction)

	response, err := r.LLM.Generate(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("%w for %s: %w", ErrRefineFailed, doc.ID, err)
	}
	return response, nil
}
