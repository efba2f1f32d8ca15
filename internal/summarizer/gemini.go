package summarizer

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/nguyentantai21042004/caption-digest/internal/config"
	"github.com/nguyentantai21042004/caption-digest/internal/logger"
	"google.golang.org/genai"
)

type generateFunc func(ctx context.Context, key, prompt string) (string, error)

// Gemini calls the Gemini API, rotating through its API keys when one is rate limited.
type Gemini struct {
	apiKeys  []string
	model    string
	capacity int
	logger   logger.Logger

	mu         sync.Mutex
	currentKey int
	clients    map[string]*genai.Client

	generate generateFunc
}

func NewGemini(cfg config.SummarizerConfig, log logger.Logger) (*Gemini, error) {
	b, err := resolveSettings(cfg)
	if err != nil {
		return nil, err
	}

	g := &Gemini{
		apiKeys:  b.keys,
		model:    b.model,
		capacity: b.capacity,
		logger:   log,
		clients:  make(map[string]*genai.Client),
	}
	g.generate = g.callGemini
	return g, nil
}

func (g *Gemini) Name() string { return config.ProviderGemini }

func (g *Gemini) InputCapacity() int { return g.capacity }

// Summarize sends one chunk to Gemini. Rotates API keys on 429 / quota errors.
func (g *Gemini) Summarize(ctx context.Context, text string, minLength, maxLength int) (string, error) {
	prompt := buildPrompt(text, minLength, maxLength)

	var lastErr error
	for range g.apiKeys {
		idx, key := g.key()

		summary, err := g.generate(ctx, key, prompt)
		if err == nil {
			return strings.TrimSpace(summary), nil
		}
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		if !isRateLimited(err) {
			return "", modelError(g.Name(), err)
		}

		g.logger.Warn(ctx, "Key %d rate limited, rotating...", idx+1)
		g.rotateKey(idx)
		lastErr = err
	}

	return "", modelError(g.Name(), fmt.Errorf("all API keys exhausted: %w", lastErr))
}

func (g *Gemini) callGemini(ctx context.Context, key, prompt string) (string, error) {
	client, err := g.client(ctx, key)
	if err != nil {
		return "", err
	}

	result, err := client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), &genai.GenerateContentConfig{
		Temperature: genai.Ptr[float32](0.3),
	})
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	if result != nil && len(result.Candidates) > 0 && result.Candidates[0].Content != nil {
		var text strings.Builder
		for _, part := range result.Candidates[0].Content.Parts {
			text.WriteString(part.Text)
		}
		return text.String(), nil
	}

	return "", fmt.Errorf("empty response from Gemini")
}

// client returns the cached client for key, creating it on first use
func (g *Gemini) client(ctx context.Context, key string) (*genai.Client, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if c, ok := g.clients[key]; ok {
		return c, nil
	}
	c, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  key,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create client: %w", err)
	}
	g.clients[key] = c
	return c, nil
}

func (g *Gemini) key() (int, string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.currentKey, g.apiKeys[g.currentKey]
}

// rotateKey advances past idx. Concurrent callers that hit the same
// exhausted key only rotate once.
func (g *Gemini) rotateKey(idx int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.currentKey == idx {
		g.currentKey = (g.currentKey + 1) % len(g.apiKeys)
	}
}

func isRateLimited(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "429") || strings.Contains(msg, "quota") || strings.Contains(msg, "RESOURCE_EXHAUSTED")
}
