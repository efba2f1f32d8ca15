package summarizer

import (
	"fmt"

	"github.com/nguyentantai21042004/caption-digest/internal/config"
)

var defaultModels = map[string]string{
	config.ProviderGemini:    "gemini-2.5-flash",
	config.ProviderOpenAI:    "gpt-4o-mini",
	config.ProviderAnthropic: "claude-sonnet-4-20250514",
}

var defaultBaseURLs = map[string]string{
	config.ProviderCompat: "http://localhost:11434/v1", // local Ollama
}

// backendSettings is what every backend constructor needs from SummarizerConfig
type backendSettings struct {
	keys     []string
	model    string
	baseURL  string
	capacity int
}

func (b backendSettings) key() string {
	if len(b.keys) == 0 {
		return ""
	}
	return b.keys[0]
}

// resolveSettings applies the provider's defaults to cfg. Every provider but
// compat needs an API key; compat has no default model.
func resolveSettings(cfg config.SummarizerConfig) (backendSettings, error) {
	b := backendSettings{
		keys:     cfg.Keys(),
		model:    cfg.Model,
		baseURL:  cfg.BaseURL,
		capacity: capacityOrDefault(cfg.InputCapacity),
	}

	if len(b.keys) == 0 && cfg.Provider != config.ProviderCompat {
		return b, fmt.Errorf("%s API key not provided", cfg.Provider)
	}
	if b.model == "" {
		b.model = defaultModels[cfg.Provider]
	}
	if b.model == "" {
		return b, fmt.Errorf("%s provider requires summarizer.model", cfg.Provider)
	}
	if b.baseURL == "" {
		b.baseURL = defaultBaseURLs[cfg.Provider]
	}
	return b, nil
}
