package llm

import (
	"context"
	"fmt"

	"github.com/abhisek/quizai/internal/store"
	"github.com/abhisek/quizai/internal/telemetry"
)

// NewProvider creates a Provider from configuration, wrapped with retry,
// rate limiting and logging middleware.
//
// A known provider without credentials does not fail here: it yields a
// provider whose every call returns ErrProviderUnavailable, so the caller
// still gets placeholder quizzes and a visible error instead of a crash.
func NewProvider(ctx context.Context, cfg Config, eventRepo store.EventRepo) (Provider, error) {
	var base Provider
	var err error

	switch cfg.Provider {
	case ProviderOpenRouter:
		base, err = NewOpenRouterProvider(cfg.OpenRouter)
	case ProviderOpenAI:
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case ProviderAnthropic:
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case ProviderGemini:
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case ProviderMock:
		base = NewDemoProvider()
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", cfg.Provider)
	}
	if err != nil {
		telemetry.L().Warn().Err(err).Str("provider", cfg.Provider).Msg("LLM provider not configured")
		base = NewUnconfiguredProvider(fmt.Errorf("initializing %s provider: %w", cfg.Provider, err))
	}

	// Wrap with middleware: caller → retry → rate limit → logging → base
	logged := WithLogging(base, cfg.Provider, eventRepo)
	limited := WithRateLimit(logged, cfg.RateLimit)
	retried := WithRetry(limited, cfg.Retry)

	return retried, nil
}

// NewProviderFromEnv is NewProvider over ConfigFromEnv.
func NewProviderFromEnv(ctx context.Context, eventRepo store.EventRepo) (Provider, error) {
	return NewProvider(ctx, ConfigFromEnv(), eventRepo)
}

// demoQuiz is served by the mock provider. It arrives fenced and with a
// trailing comma, the way chat models often answer.
const demoQuiz = "Claro! Aqui está o quiz:\n```json\n" + `[
  {
    "question": "Qual protocolo é usado para transferir páginas web?",
    "options": {"A": "FTP", "B": "HTTP", "C": "SMTP", "D": "SSH"},
    "answer": "B",
    "explanation": "O HTTP é o protocolo de transferência de hipertexto usado pela web."
  },
  {
    "question": "Qual componente executa as instruções de um programa?",
    "options": {"A": "Memória RAM", "B": "Disco rígido", "C": "CPU", "D": "Placa de rede"},
    "answer": "C",
    "explanation": "A CPU busca, decodifica e executa as instruções."
  },
  {
    "question": "Quantos bits existem em um byte?",
    "options": {"A": "4", "B": "8", "C": "16", "D": "32"},
    "answer": "B",
    "explanation": "Um byte é composto por 8 bits.",
  },
]` + "\n```"

// NewDemoProvider returns a MockProvider that always answers with a small
// canned quiz. It backs the "mock" provider setting.
func NewDemoProvider() *MockProvider {
	fallback := TextResponse(demoQuiz)
	fallback.Usage = Usage{InputTokens: 120, OutputTokens: 260, TotalTokens: 380}
	return &MockProvider{Fallback: &fallback}
}
