package summarizer

import (
	"context"
	"fmt"
	"strings"

	"github.com/nguyentantai21042004/caption-digest/internal/config"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// OpenAI implements Summarizer using the official OpenAI SDK.
type OpenAI struct {
	client   openai.Client
	model    openai.ChatModel
	capacity int
}

// NewOpenAI also serves Azure or proxy deployments through summarizer.base_url
func NewOpenAI(cfg config.SummarizerConfig) (*OpenAI, error) {
	b, err := resolveSettings(cfg)
	if err != nil {
		return nil, err
	}

	opts := []option.RequestOption{option.WithAPIKey(b.key())}
	if b.baseURL != "" {
		opts = append(opts, option.WithBaseURL(b.baseURL))
	}

	return &OpenAI{client: openai.NewClient(opts...), model: openai.ChatModel(b.model), capacity: b.capacity}, nil
}

func (o *OpenAI) Name() string { return config.ProviderOpenAI }

func (o *OpenAI) InputCapacity() int { return o.capacity }

func (o *OpenAI) Summarize(ctx context.Context, text string, minLength, maxLength int) (string, error) {
	resp, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: o.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(buildPrompt(text, minLength, maxLength)),
		},
		MaxTokens:   openai.Int(int64(maxTokensFor(maxLength))),
		Temperature: openai.Float(0.3),
	})
	if err != nil {
		return "", modelError(o.Name(), err)
	}

	if len(resp.Choices) == 0 {
		return "", modelError(o.Name(), fmt.Errorf("no choices in response"))
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
