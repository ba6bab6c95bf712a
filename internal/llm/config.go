package llm

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Provider names accepted in Config.Provider.
const (
	ProviderOpenRouter = "openrouter"
	ProviderOpenAI     = "openai"
	ProviderAnthropic  = "anthropic"
	ProviderGemini     = "gemini"
	ProviderMock       = "mock"
)

// Config holds all LLM provider configuration.
type Config struct {
	// Provider selects which LLM provider to use.
	// Values: "openrouter", "openai", "anthropic", "gemini", "mock"
	Provider string `yaml:"provider"`

	OpenRouter OpenRouterConfig `yaml:"openrouter"`
	OpenAI     OpenAIConfig     `yaml:"openai"`
	Anthropic  AnthropicConfig  `yaml:"anthropic"`
	Gemini     GeminiConfig     `yaml:"gemini"`
	Retry      RetryConfig      `yaml:"retry"`
	RateLimit  RateLimitConfig  `yaml:"rate_limit"`

	// Timeout is the maximum duration for a single generation request
	// (including retries). Default: 30s.
	Timeout time.Duration `yaml:"timeout"`
}

// OpenRouterConfig holds OpenRouter-specific configuration.
type OpenRouterConfig struct {
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`    // Default: "openai/gpt-3.5-turbo"
	BaseURL string `yaml:"base_url"` // Default: "https://openrouter.ai/api/v1"
}

// OpenAIConfig holds OpenAI-specific configuration.
type OpenAIConfig struct {
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`    // Default: "gpt-4o-mini"
	BaseURL string `yaml:"base_url"` // Optional. Override for compatible APIs.
}

// AnthropicConfig holds Anthropic-specific configuration.
type AnthropicConfig struct {
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`    // Default: "claude-haiku"
	BaseURL string `yaml:"base_url"` // Optional. Points at a proxy or test server.
}

// GeminiConfig holds Gemini-specific configuration.
type GeminiConfig struct {
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`    // Default: "gemini-flash"
	BaseURL string `yaml:"base_url"` // Optional.

	// PlainText turns off JSON response mode.
	PlainText bool `yaml:"plain_text"`
}

// RetryConfig configures retry behavior for transient failures.
type RetryConfig struct {
	MaxAttempts int           `yaml:"max_attempts"`
	InitialWait time.Duration `yaml:"initial_wait"`
	MaxWait     time.Duration `yaml:"max_wait"`
	Multiplier  float64       `yaml:"multiplier"`
}

// RateLimitConfig throttles outbound calls. RPS <= 0 disables throttling.
type RateLimitConfig struct {
	RPS   float64 `yaml:"rps"`
	Burst int     `yaml:"burst"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Provider: ProviderOpenRouter,
		OpenRouter: OpenRouterConfig{
			Model: "openai/gpt-3.5-turbo",
		},
		OpenAI: OpenAIConfig{
			Model: "gpt-4o-mini",
		},
		Anthropic: AnthropicConfig{
			Model: "claude-haiku",
		},
		Gemini: GeminiConfig{
			Model: "gemini-flash",
		},
		Retry: RetryConfig{
			MaxAttempts: 2,
			InitialWait: 1 * time.Second,
			MaxWait:     5 * time.Second,
			Multiplier:  2.0,
		},
		Timeout: 30 * time.Second,
	}
}

// ApplyEnv overlays environment variables on cfg. QUIZAI_* variables win;
// the bare vendor variables (OPENROUTER_API_KEY and friends) fill in keys
// that are still empty, and pick the provider when none was chosen.
func ApplyEnv(cfg *Config) {
	explicitProvider := false
	if p := os.Getenv("QUIZAI_LLM_PROVIDER"); p != "" {
		cfg.Provider = p
		explicitProvider = true
	}

	setString(&cfg.OpenRouter.APIKey, "QUIZAI_OPENROUTER_API_KEY")
	setString(&cfg.OpenRouter.Model, "QUIZAI_OPENROUTER_MODEL")
	setString(&cfg.OpenRouter.BaseURL, "QUIZAI_OPENROUTER_BASE_URL")
	setString(&cfg.OpenAI.APIKey, "QUIZAI_OPENAI_API_KEY")
	setString(&cfg.OpenAI.Model, "QUIZAI_OPENAI_MODEL")
	setString(&cfg.OpenAI.BaseURL, "QUIZAI_OPENAI_BASE_URL")
	setString(&cfg.Anthropic.APIKey, "QUIZAI_ANTHROPIC_API_KEY")
	setString(&cfg.Anthropic.Model, "QUIZAI_ANTHROPIC_MODEL")
	setString(&cfg.Anthropic.BaseURL, "QUIZAI_ANTHROPIC_BASE_URL")
	setString(&cfg.Gemini.APIKey, "QUIZAI_GEMINI_API_KEY")
	setString(&cfg.Gemini.Model, "QUIZAI_GEMINI_MODEL")
	setString(&cfg.Gemini.BaseURL, "QUIZAI_GEMINI_BASE_URL")

	if v := os.Getenv("QUIZAI_LLM_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Timeout = d
		}
	}
	if v := os.Getenv("QUIZAI_LLM_RPS"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.RateLimit.RPS = f
		}
	}

	discovered := discoverKeys(cfg)
	if !explicitProvider && cfg.keyFor(cfg.Provider) == "" && discovered != "" {
		cfg.Provider = discovered
	}
}

// ConfigFromEnv builds a Config from environment variables, falling back
// to defaults for unset values.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()
	ApplyEnv(&cfg)
	return cfg
}

// discoverKeys probes the standard vendor env vars in priority order
// (OpenRouter → OpenAI → Anthropic → Gemini), filling empty keys, and
// returns the first provider whose key was found.
func discoverKeys(cfg *Config) string {
	probes := []struct {
		provider string
		env      string
		dst      *string
	}{
		{ProviderOpenRouter, "OPENROUTER_API_KEY", &cfg.OpenRouter.APIKey},
		{ProviderOpenAI, "OPENAI_API_KEY", &cfg.OpenAI.APIKey},
		{ProviderAnthropic, "ANTHROPIC_API_KEY", &cfg.Anthropic.APIKey},
		{ProviderGemini, "GEMINI_API_KEY", &cfg.Gemini.APIKey},
	}

	first := ""
	for _, p := range probes {
		k := os.Getenv(p.env)
		if k == "" {
			continue
		}
		if *p.dst == "" {
			*p.dst = k
		}
		if first == "" {
			first = p.provider
		}
	}
	return first
}

func (c Config) keyFor(provider string) string {
	switch provider {
	case ProviderOpenRouter:
		return c.OpenRouter.APIKey
	case ProviderOpenAI:
		return c.OpenAI.APIKey
	case ProviderAnthropic:
		return c.Anthropic.APIKey
	case ProviderGemini:
		return c.Gemini.APIKey
	}
	return ""
}

// Validate checks that the selected provider has its required API key set.
func (c Config) Validate() error {
	switch c.Provider {
	case ProviderOpenRouter, ProviderOpenAI, ProviderAnthropic, ProviderGemini:
		if c.keyFor(c.Provider) == "" {
			return fmt.Errorf("an API key is required for the %s provider (set OPENROUTER_API_KEY or QUIZAI_%s_API_KEY)",
				c.Provider, envName(c.Provider))
		}
	case ProviderMock:
		// No API key needed.
	default:
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	return nil
}

func envName(provider string) string {
	return strings.ToUpper(provider)
}

func setString(dst *string, env string) {
	if v := os.Getenv(env); v != "" {
		*dst = v
	}
}
