package telemetry

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config controls where and how much the process logs.
type Config struct {
	Level      string `yaml:"level"`
	JSON       bool   `yaml:"json"`
	File       string `yaml:"file"`
	Console    bool   `yaml:"console"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

// DefaultConfig logs to a rotated file only; the terminal UI owns stdout.
func DefaultConfig() Config {
	return Config{
		Level:      "info",
		File:       "quizai.log",
		MaxSizeMB:  10,
		MaxBackups: 3,
		MaxAgeDays: 28,
	}
}

var log = zerolog.Nop()

// Init builds the process logger from cfg and installs it as L().
func Init(cfg Config) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339

	var writers []io.Writer
	if cfg.File != "" {
		writers = append(writers, &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    ifZero(cfg.MaxSizeMB, 10),
			MaxBackups: ifZero(cfg.MaxBackups, 3),
			MaxAge:     ifZero(cfg.MaxAgeDays, 28),
			Compress:   cfg.Compress,
		})
	}
	if cfg.Console {
		var console io.Writer = os.Stderr
		if !cfg.JSON {
			console = zerolog.NewConsoleWriter(func(w *zerolog.ConsoleWriter) {
				w.Out = os.Stderr
				w.TimeFormat = time.RFC3339
			})
		}
		writers = append(writers, console)
	}

	var out io.Writer = io.Discard
	switch len(writers) {
	case 0:
	case 1:
		out = writers[0]
	default:
		out = zerolog.MultiLevelWriter(writers...)
	}

	l := zerolog.New(out).With().Timestamp().Logger()

	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}
	l = l.Level(level)

	log = l
	return log
}

// L returns the process logger. It discards everything until Init runs.
func L() *zerolog.Logger { return &log }

// Set replaces the process logger; tests use it to capture output.
func Set(l zerolog.Logger) { log = l }

func ifZero[T ~int](v T, d T) T {
	if v == 0 {
		return d
	}
	return v
}
