package llm

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Provider names accepted by NewProvider.
const (
	ProviderAnthropic  = "anthropic"
	ProviderOpenAI     = "openai"
	ProviderGemini     = "gemini"
	ProviderOpenRouter = "openrouter"
	ProviderMock       = "mock"
)

// Config selects and configures the question-generation model.
type Config struct {
	Provider string

	Anthropic  AnthropicConfig
	OpenAI     OpenAIConfig
	Gemini     GeminiConfig
	OpenRouter OpenRouterConfig
	Retry      RetryConfig
}

type AnthropicConfig struct {
	APIKey string
	Model  string
}

// OpenAIConfig also serves OpenAI-compatible endpoints through BaseURL.
type OpenAIConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

type GeminiConfig struct {
	APIKey string
	Model  string
}

type OpenRouterConfig struct {
	APIKey  string
	Model   string
	BaseURL string // default https://openrouter.ai/api/v1
}

// RetryConfig is the retry policy for transient failures.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64

	// Budget bounds one Generate call including all retries. Zero means
	// no bound beyond the caller's context.
	Budget time.Duration
}

// DefaultConfig uses the cheapest model of each vendor.
func DefaultConfig() Config {
	return Config{
		Provider:   ProviderAnthropic,
		Anthropic:  AnthropicConfig{Model: "claude-haiku"},
		OpenAI:     OpenAIConfig{Model: "gpt-4o-mini"},
		Gemini:     GeminiConfig{Model: "gemini-flash"},
		OpenRouter: OpenRouterConfig{Model: "google/gemini-2.0-flash-exp"},
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2,
			Budget:      45 * time.Second,
		},
	}
}

// envStrings maps LEARNEX_* variables onto string fields of a Config.
var envStrings = []struct {
	name  string
	field func(*Config) *string
}{
	{"LEARNEX_LLM_PROVIDER", func(c *Config) *string { return &c.Provider }},
	{"LEARNEX_ANTHROPIC_API_KEY", func(c *Config) *string { return &c.Anthropic.APIKey }},
	{"LEARNEX_ANTHROPIC_MODEL", func(c *Config) *string { return &c.Anthropic.Model }},
	{"LEARNEX_OPENAI_API_KEY", func(c *Config) *string { return &c.OpenAI.APIKey }},
	{"LEARNEX_OPENAI_MODEL", func(c *Config) *string { return &c.OpenAI.Model }},
	{"LEARNEX_OPENAI_BASE_URL", func(c *Config) *string { return &c.OpenAI.BaseURL }},
	{"LEARNEX_GEMINI_API_KEY", func(c *Config) *string { return &c.Gemini.APIKey }},
	{"LEARNEX_GEMINI_MODEL", func(c *Config) *string { return &c.Gemini.Model }},
	{"LEARNEX_OPENROUTER_API_KEY", func(c *Config) *string { return &c.OpenRouter.APIKey }},
	{"LEARNEX_OPENROUTER_MODEL", func(c *Config) *string { return &c.OpenRouter.Model }},
	{"LEARNEX_OPENROUTER_BASE_URL", func(c *Config) *string { return &c.OpenRouter.BaseURL }},
}

// ConfigFromEnv overlays LEARNEX_* variables on DefaultConfig. Malformed
// numeric values are ignored.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()
	for _, e := range envStrings {
		if v := os.Getenv(e.name); v != "" {
			*e.field(&cfg) = v
		}
	}
	if n, err := strconv.Atoi(os.Getenv("LEARNEX_LLM_MAX_ATTEMPTS")); err == nil && n > 0 {
		cfg.Retry.MaxAttempts = n
	}
	if d, err := time.ParseDuration(os.Getenv("LEARNEX_LLM_TIMEOUT")); err == nil && d >= 0 {
		cfg.Retry.Budget = d
	}
	return cfg
}

// vendorKeys lists the vendors' own API key variables in discovery order.
var vendorKeys = []struct {
	env      string
	provider string
}{
	{"GEMINI_API_KEY", ProviderGemini},
	{"OPENAI_API_KEY", ProviderOpenAI},
	{"ANTHROPIC_API_KEY", ProviderAnthropic},
	{"OPENROUTER_API_KEY", ProviderOpenRouter},
}

// DiscoverConfig picks the first provider whose vendor API key variable is
// set. It reports false when none is.
func DiscoverConfig() (Config, bool) {
	for _, v := range vendorKeys {
		key := os.Getenv(v.env)
		if key == "" {
			continue
		}
		cfg := DefaultConfig()
		cfg.Provider = v.provider
		*cfg.apiKey() = key
		return cfg, true
	}
	return Config{}, false
}

// apiKey points at the key field of the selected provider, or nil.
func (c *Config) apiKey() *string {
	switch c.Provider {
	case ProviderAnthropic:
		return &c.Anthropic.APIKey
	case ProviderOpenAI:
		return &c.OpenAI.APIKey
	case ProviderGemini:
		return &c.Gemini.APIKey
	case ProviderOpenRouter:
		return &c.OpenRouter.APIKey
	}
	return nil
}

// Validate checks the provider name and that it has an API key.
func (c Config) Validate() error {
	if c.Provider == ProviderMock {
		return nil
	}
	key := c.apiKey()
	if key == nil {
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	if *key == "" {
		return fmt.Errorf("LEARNEX_%s_API_KEY is required for the %s provider", strings.ToUpper(c.Provider), c.Provider)
	}
	return nil
}

// ActiveModel returns the model configured for the selected provider.
func (c Config) ActiveModel() string {
	switch c.Provider {
	case ProviderAnthropic:
		return c.Anthropic.Model
	case ProviderOpenAI:
		return c.OpenAI.Model
	case ProviderGemini:
		return c.Gemini.Model
	case ProviderOpenRouter:
		return c.OpenRouter.Model
	}
	return ""
}
