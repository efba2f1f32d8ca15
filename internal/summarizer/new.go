package summarizer

import (
	"fmt"

	"github.com/nguyentantai21042004/caption-digest/internal/config"
	"github.com/nguyentantai21042004/caption-digest/internal/logger"
	"github.com/nguyentantai21042004/caption-digest/internal/models"
)

// New creates the backend named by cfg.Provider, rate limited when configured.
func New(cfg config.SummarizerConfig, log logger.Logger) (Summarizer, error) {
	var (
		s   Summarizer
		err error
	)

	switch cfg.Provider {
	case config.ProviderGemini:
		s, err = NewGemini(cfg, log)
	case config.ProviderOpenAI:
		s, err = NewOpenAI(cfg)
	case config.ProviderAnthropic:
		s, err = NewAnthropic(cfg)
	case config.ProviderCompat:
		s, err = NewCompat(cfg)
	default:
		return nil, fmt.Errorf("unsupported summarization provider: %s", cfg.Provider)
	}
	if err != nil {
		return nil, err
	}

	return withRateLimit(s, cfg.RateLimit, cfg.RateBurst), nil
}

func capacityOrDefault(n int) int {
	if n <= 0 {
		return 4000
	}
	return n
}

// maxTokensFor converts a word budget into a completion token budget
func maxTokensFor(maxLength int) int {
	return maxLength*2 + 64
}

func modelError(provider string, err error) error {
	return models.NewError(models.CodeModelError, provider+" request failed", err)
}
