package llm

import (
	"fmt"
	"net/http"
)

const (
	defaultOpenRouterBaseURL = "https://openrouter.ai/api/v1"

	// Sent so requests show up under the app's name in OpenRouter's
	// activity log.
	openRouterAppTitle   = "QuizAI"
	openRouterAppReferer = "https://github.com/abhisek/quizai"
)

// OpenRouterProvider is OpenAIProvider pointed at OpenRouter. Model IDs such
// as "openai/gpt-3.5-turbo" pass through without friendly-name mapping.
type OpenRouterProvider struct {
	*OpenAIProvider
}

// NewOpenRouterProvider creates a provider targeting the OpenRouter API.
func NewOpenRouterProvider(cfg OpenRouterConfig) (*OpenRouterProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openrouter API key is required")
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultOpenRouterBaseURL
	}

	headers := http.Header{}
	headers.Set("X-Title", openRouterAppTitle)
	headers.Set("HTTP-Referer", openRouterAppReferer)

	inner := newOpenAIProviderRaw(OpenAIConfig{
		APIKey:  cfg.APIKey,
		Model:   cfg.Model,
		BaseURL: baseURL,
	}, headers)
	return &OpenRouterProvider{OpenAIProvider: inner}, nil
}
