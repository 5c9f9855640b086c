package triage

import (
	"context"
	"fmt"

	"github.com/agenthands/topicscan/internal/config"
	"github.com/agenthands/topicscan/internal/corpus"
	"github.com/agenthands/topicscan/internal/llm"
)

// Classifier asks the model how relevant a topic is to one document.
type Classifier struct {
	LLM     llm.LLMClient
	Prompts config.Prompts
}

func NewClassifier(llmClient llm.LLMClient, prompts config.Prompts) *Classifier {
	return &Classifier{
		LLM:     llmClient,
		Prompts: prompts,
	}
}

// Classify returns the model's raw answer for doc. The answer is not
// checked against the expected vocabulary; that is Categorize's job.
func (c *Classifier) Classify(ctx context.Context, doc corpus.Document, topic string) (string, error) {
	instruction := fmt.Sprintf(c.Prompts.Classification, topic)
	prompt := fmt.Sprintf(c.Prompts.Message, doc.Content, instruction)

	response, err := c.LLM.Generate(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("%w for %s: %w", ErrClassifyFailed, doc.ID, err)
	}
	return response, nil
}
