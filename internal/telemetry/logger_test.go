package telemetry

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitWritesToFile(t *testing.T) {
	t.Cleanup(func() { Set(zerolog.Nop()) })

	path := filepath.Join(t.TempDir(), "quizai.log")
	l := Init(Config{Level: "debug", File: path})
	l.Debug().Str("topic", "redes").Msg("generating")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"topic":"redes"`)
	assert.Contains(t, string(data), `"message":"generating"`)
}

func TestInitLevelFilters(t *testing.T) {
	t.Cleanup(func() { Set(zerolog.Nop()) })

	path := filepath.Join(t.TempDir(), "quizai.log")
	Init(Config{Level: "warn", File: path})
	L().Info().Msg("hidden")
	L().Warn().Msg("shown")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "hidden")
	assert.Contains(t, string(data), "shown")
}

func TestInvalidLevelFallsBackToInfo(t *testing.T) {
	t.Cleanup(func() { Set(zerolog.Nop()) })

	l := Init(Config{Level: "loud"})
	assert.Equal(t, zerolog.InfoLevel, l.GetLevel())
}

func TestSetReplacesLogger(t *testing.T) {
	t.Cleanup(func() { Set(zerolog.Nop()) })

	var buf bytes.Buffer
	Set(zerolog.New(&buf))
	L().Info().Str("cache_key", "abc").Send()

	assert.True(t, strings.Contains(buf.String(), `"cache_key":"abc"`))
}

func TestLSharesInstalledLogger(t *testing.T) {
	t.Cleanup(func() { Set(zerolog.Nop()) })

	var buf bytes.Buffer
	l := L()
	Set(zerolog.New(&buf))
	l.Warn().Str("cache_key", "k1").Msg("cache write failed")

	assert.Contains(t, buf.String(), `"level":"warn"`)
	assert.Contains(t, buf.String(), `"cache_key":"k1"`)
}
