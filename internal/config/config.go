// Package config assembles process configuration from .env, an optional YAML
// file and environment variables, in that order of precedence (last wins).
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/abhisek/quizai/internal/llm"
	"github.com/abhisek/quizai/internal/quizgen"
	"github.com/abhisek/quizai/internal/telemetry"
)

// Config is the full process configuration.
type Config struct {
	LLM    llm.Config       `yaml:"llm"`
	Log    telemetry.Config `yaml:"log"`
	Quiz   quizgen.Config   `yaml:"quiz"`
	Server ServerConfig     `yaml:"server"`

	// DB is the diagnostics database path. Empty keeps it in memory.
	DB string `yaml:"db"`
}

// ServerConfig configures `quizai serve`.
type ServerConfig struct {
	ListenAddr string `yaml:"listen_addr"`

	// RedisAddr enables the shared Redis quiz cache when set.
	RedisAddr string `yaml:"redis_addr"`
	RedisDB   int    `yaml:"redis_db"`

	// SessionTTL drops sessions idle for longer. Zero keeps them forever.
	SessionTTL time.Duration `yaml:"session_ttl"`

	// RateLimit caps API requests per client per minute. Zero disables it.
	RateLimit int `yaml:"rate_limit"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		LLM:  llm.DefaultConfig(),
		Log:  telemetry.DefaultConfig(),
		Quiz: quizgen.DefaultConfig(),
		Server: ServerConfig{
			ListenAddr: ":8080",
			SessionTTL: 2 * time.Hour,
			RateLimit:  60,
		},
	}
}

// Load reads .env from the working directory if present, then the YAML file
// at path (skipped when path is empty), then QUIZAI_* environment variables.
// The quiz timeout follows llm.timeout unless quiz.timeout is set.
func Load(path string) (Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	cfg.Quiz.Timeout = 0

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	llm.ApplyEnv(&cfg.LLM)
	applyEnv(&cfg)

	if cfg.Quiz.Timeout <= 0 {
		cfg.Quiz.Timeout = cfg.LLM.Timeout
	}
	if err := cfg.validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	setString(&cfg.Log.Level, "QUIZAI_LOG_LEVEL")
	setString(&cfg.Log.File, "QUIZAI_LOG_FILE")
	setBool(&cfg.Log.JSON, "QUIZAI_LOG_JSON")
	setString(&cfg.DB, "QUIZAI_DB")
	setString(&cfg.Server.ListenAddr, "QUIZAI_LISTEN_ADDR")
	setString(&cfg.Server.RedisAddr, "QUIZAI_REDIS_ADDR")
	setDuration(&cfg.Quiz.FailureTTL, "QUIZAI_FAILURE_TTL")
}

func (c Config) validate() error {
	if c.Quiz.MaxQuestions < 1 {
		return fmt.Errorf("quiz.max_questions must be at least 1, got %d", c.Quiz.MaxQuestions)
	}
	if c.Quiz.Temperature < 0 || c.Quiz.Temperature > 2 {
		return fmt.Errorf("quiz.temperature out of range: %v", c.Quiz.Temperature)
	}
	if c.Quiz.FailureTTL < 0 {
		return fmt.Errorf("quiz.failure_ttl must not be negative")
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setDuration(dst *time.Duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			*dst = d
		}
	}
}
