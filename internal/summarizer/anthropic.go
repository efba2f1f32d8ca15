package summarizer

import (
	"context"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/nguyentantai21042004/caption-digest/internal/config"
)

// Anthropic implements Summarizer using Anthropic Claude.
type Anthropic struct {
	client   *anthropic.Client
	model    string
	capacity int
}

func NewAnthropic(cfg config.SummarizerConfig) (*Anthropic, error) {
	b, err := resolveSettings(cfg)
	if err != nil {
		return nil, err
	}

	opts := []option.RequestOption{option.WithAPIKey(b.key())}
	if b.baseURL != "" {
		opts = append(opts, option.WithBaseURL(b.baseURL))
	}
	client := anthropic.NewClient(opts...)

	return &Anthropic{client: &client, model: b.model, capacity: b.capacity}, nil
}

func (a *Anthropic) Name() string { return config.ProviderAnthropic }

func (a *Anthropic) InputCapacity() int { return a.capacity }

func (a *Anthropic) Summarize(ctx context.Context, text string, minLength, maxLength int) (string, error) {
	message, err := a.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(a.model),
		MaxTokens: int64(maxTokensFor(maxLength)),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(buildPrompt(text, minLength, maxLength))),
		},
	})
	if err != nil {
		return "", modelError(a.Name(), err)
	}

	var content strings.Builder
	for _, block := range message.Content {
		if block.Type == "text" {
			content.WriteString(block.Text)
		}
	}

	return strings.TrimSpace(content.String()), nil
}
