package llm

import (
	"context"
	"fmt"

	"github.com/liushuangls/go-anthropic/v2"
)

type ClaudeClient struct {
	client *anthropic.Client
	opts   Options
}

func NewClaudeClient(apiKey string, baseURL string, opts Options) *ClaudeClient {
	var clientOpts []anthropic.ClientOption
	if baseURL != "" {
		clientOpts = append(clientOpts, anthropic.WithBaseURL(baseURL))
	}
	if opts.MaxTokens <= 0 {
		// the messages API rejects requests without max_tokens
		opts.MaxTokens = 1024
	}

	return &ClaudeClient{
		client: anthropic.NewClient(apiKey, clientOpts...),
		opts:   opts,
	}
}

func (c *ClaudeClient) Generate(ctx context.Context, prompt string) (string, error) {
	req := anthropic.MessagesRequest{
		Model:  anthropic.Model(c.opts.Model),
		System: c.opts.SystemPrompt,
		Messages: []anthropic.Message{
			{
				Role: anthropic.RoleUser,
				Content: []anthropic.MessageContent{
					anthropic.NewTextMessageContent(prompt),
				},
			},
		},
		MaxTokens: c.opts.MaxTokens,
	}
	// the messages API rejects temperature and top_p together; top_p is only
	// sent when temperature is left at zero
	if c.opts.Temperature == 0 && c.opts.TopP > 0 {
		topP := c.opts.TopP
		req.TopP = &topP
	} else {
		temperature := c.opts.Temperature
		req.Temperature = &temperature
	}

	resp, err := c.client.CreateMessages(ctx, req)
	if err != nil {
		return "", err
	}

	for _, content := range resp.Content {
		if content.Text != nil {
			return *content.Text, nil
		}
	}
	return "", fmt.Errorf("no response content")
}
