package summarizer

import (
	"context"
	"fmt"
	"strings"

	"github.com/nguyentantai21042004/caption-digest/internal/config"
	openai "github.com/sashabaranov/go-openai"
)

// Compat talks to any OpenAI-compatible chat endpoint (Ollama, vLLM, LM Studio).
type Compat struct {
	client   *openai.Client
	model    string
	capacity int
}

func NewCompat(cfg config.SummarizerConfig) (*Compat, error) {
	b, err := resolveSettings(cfg)
	if err != nil {
		return nil, err
	}

	clientCfg := openai.DefaultConfig(b.key())
	clientCfg.BaseURL = b.baseURL

	return &Compat{client: openai.NewClientWithConfig(clientCfg), model: b.model, capacity: b.capacity}, nil
}

func (c *Compat) Name() string { return config.ProviderCompat }

func (c *Compat) InputCapacity() int { return c.capacity }

func (c *Compat) Summarize(ctx context.Context, text string, minLength, maxLength int) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: buildPrompt(text, minLength, maxLength)},
		},
		MaxTokens:   maxTokensFor(maxLength),
		Temperature: 0.3,
	})
	if err != nil {
		return "", modelError(c.Name(), err)
	}

	if len(resp.Choices) == 0 {
		return "", modelError(c.Name(), fmt.Errorf("no choices in response"))
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
