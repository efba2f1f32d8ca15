package config

import (
	"fmt"
	"os"
	"strings"
)

const (
	ProviderGemini    = "gemini"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderCompat    = "compat"
)

const (
	FormatText     = "text"
	FormatMarkdown = "markdown"
	FormatDocx     = "docx"
)

type Config struct {
	Summary     SummaryConfig     `yaml:"summary"`
	Summarizer  SummarizerConfig  `yaml:"summarizer"`
	Transcript  TranscriptConfig  `yaml:"transcript"`
	Paths       PathsConfig       `yaml:"paths"`
	Output      OutputConfig      `yaml:"output"`
	Server      ServerConfig      `yaml:"server"`
	Logging     LoggingConfig     `yaml:"logging"`
	Performance PerformanceConfig `yaml:"performance"`
}

// SummaryConfig bounds the chunk-and-recombine pipeline
type SummaryConfig struct {
	MaxOutputLength     int `yaml:"max_output_length"`
	MinLength           int `yaml:"min_length"`
	MaxLength           int `yaml:"max_length"`
	RecursionDepthLimit int `yaml:"recursion_depth_limit"`
	ChunkWorkers        int `yaml:"chunk_workers"`
}

type SummarizerConfig struct {
	Provider      string   `yaml:"provider"`
	Model         string   `yaml:"model"`
	APIKeys       []string `yaml:"api_keys"`
	BaseURL       string   `yaml:"base_url"`
	InputCapacity int      `yaml:"input_capacity"`
	RateLimit     float64  `yaml:"rate_limit"` // requests per second, 0 disables
	RateBurst     int      `yaml:"rate_burst"`
}

type TranscriptConfig struct {
	BinaryPath     string   `yaml:"binary_path"`
	Languages      []string `yaml:"languages"`
	TimeoutSeconds int      `yaml:"timeout_seconds"`
}

type PathsConfig struct {
	Input    string `yaml:"input"`
	Output   string `yaml:"output"`
	Archived string `yaml:"archived"`
	Temp     string `yaml:"temp"`
}

type OutputConfig struct {
	Format string `yaml:"format"`
}

type ServerConfig struct {
	Addr   string `yaml:"addr"`
	APIKey string `yaml:"api_key"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

type PerformanceConfig struct {
	MaxConcurrent int `yaml:"max_concurrent"`
}

var apiKeyEnv = map[string]string{
	ProviderGemini:    "GEMINI_API_KEY",
	ProviderOpenAI:    "OPENAI_API_KEY",
	ProviderAnthropic: "ANTHROPIC_API_KEY",
	ProviderCompat:    "COMPAT_API_KEY",
}

// Keys returns the configured API keys with ${VAR} references expanded.
// When none are configured it falls back to the provider's environment variable.
func (c SummarizerConfig) Keys() []string {
	var keys []string
	for _, k := range c.APIKeys {
		if k = strings.TrimSpace(os.ExpandEnv(k)); k != "" {
			keys = append(keys, k)
		}
	}
	if len(keys) == 0 {
		if k := strings.TrimSpace(os.Getenv(apiKeyEnv[c.Provider])); k != "" {
			keys = append(keys, k)
		}
	}
	return keys
}

func (c *Config) Validate() error {
	s := &c.Summary
	if s.MaxOutputLength < 0 {
		return fmt.Errorf("summary.max_output_length must not be negative")
	}
	if s.MinLength < 0 || s.MaxLength < 0 {
		return fmt.Errorf("summary.min_length and summary.max_length must not be negative")
	}
	if s.RecursionDepthLimit < 0 {
		return fmt.Errorf("summary.recursion_depth_limit must not be negative")
	}
	if s.ChunkWorkers < 0 {
		return fmt.Errorf("summary.chunk_workers must not be negative")
	}
	if c.Summarizer.InputCapacity < 0 {
		return fmt.Errorf("summarizer.input_capacity must not be negative")
	}
	if c.Summarizer.RateLimit < 0 {
		return fmt.Errorf("summarizer.rate_limit must not be negative")
	}

	if s.MaxOutputLength == 0 {
		s.MaxOutputLength = 4000
	}
	if s.MinLength == 0 {
		s.MinLength = 50
	}
	if s.MaxLength == 0 {
		s.MaxLength = 400
	}
	if s.MinLength > s.MaxLength {
		return fmt.Errorf("summary.min_length (%d) exceeds summary.max_length (%d)", s.MinLength, s.MaxLength)
	}
	if s.RecursionDepthLimit == 0 {
		s.RecursionDepthLimit = 3
	}
	if s.ChunkWorkers == 0 {
		s.ChunkWorkers = 1
	}

	if c.Summarizer.Provider == "" {
		c.Summarizer.Provider = ProviderGemini
	}
	c.Summarizer.Provider = strings.ToLower(c.Summarizer.Provider)
	if _, ok := apiKeyEnv[c.Summarizer.Provider]; !ok {
		return fmt.Errorf("summarizer.provider %q is not supported", c.Summarizer.Provider)
	}
	if c.Summarizer.InputCapacity == 0 {
		c.Summarizer.InputCapacity = 4000
	}

	if c.Transcript.BinaryPath == "" {
		c.Transcript.BinaryPath = "yt-dlp"
	}
	if len(c.Transcript.Languages) == 0 {
		c.Transcript.Languages = []string{"en"}
	}
	if c.Transcript.TimeoutSeconds == 0 {
		c.Transcript.TimeoutSeconds = 120
	}

	if c.Paths.Input == "" {
		c.Paths.Input = "data/input"
	}
	if c.Paths.Output == "" {
		c.Paths.Output = "data/output"
	}
	if c.Paths.Archived == "" {
		c.Paths.Archived = "data/archived"
	}
	if c.Paths.Temp == "" {
		c.Paths.Temp = os.TempDir()
	}

	switch c.Output.Format {
	case "":
		c.Output.Format = FormatMarkdown
	case FormatText, FormatMarkdown, FormatDocx:
	default:
		return fmt.Errorf("output.format %q is not one of text, markdown, docx", c.Output.Format)
	}

	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Performance.MaxConcurrent == 0 {
		c.Performance.MaxConcurrent = 2
	}

	return nil
}
