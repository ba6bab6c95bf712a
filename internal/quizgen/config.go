package quizgen

import (
	"strings"
	"time"
)

// DefaultTopic is used when the requested topic is blank.
const DefaultTopic = "tecnologia da informação geral"

// Config controls the behavior of the LLMGenerator.
type Config struct {
	// MaxQuestions caps the requested count.
	MaxQuestions int `yaml:"max_questions"`

	// DefaultTopic replaces blank topics.
	DefaultTopic string `yaml:"default_topic"`

	// Timeout bounds one provider call, retries included.
	Timeout time.Duration `yaml:"timeout"`

	// FailureTTL is how long placeholder quizzes stay cached after a
	// failure. Zero disables caching of failures.
	FailureTTL time.Duration `yaml:"failure_ttl"`

	// MaxTokens is the token budget for the LLM response.
	MaxTokens int `yaml:"max_tokens"`

	// Temperature controls LLM output randomness (0.0-1.0).
	Temperature float64 `yaml:"temperature"`
}

// DefaultConfig returns a Config with recommended defaults.
func DefaultConfig() Config {
	return Config{
		MaxQuestions: 10,
		DefaultTopic: DefaultTopic,
		Timeout:      30 * time.Second,
		FailureTTL:   time.Minute,
		MaxTokens:    2000,
		Temperature:  0.7,
	}
}

// ClampCount limits n to 1..max.
func (c Config) ClampCount(n int) int {
	limit := c.MaxQuestions
	if limit < 1 {
		limit = 10
	}
	return min(max(n, 1), limit)
}

// ResolveTopic returns the trimmed topic or the default one when blank.
func (c Config) ResolveTopic(topic string) string {
	if t := strings.TrimSpace(topic); t != "" {
		return t
	}
	if c.DefaultTopic != "" {
		return c.DefaultTopic
	}
	return DefaultTopic
}
