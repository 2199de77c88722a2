package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestSanitizeKVs_RedactsSecrets(t *testing.T) {
	got := sanitizeKVs([]any{"provider", "openai", "openai_api_key", "sk-123", "Authorization", "Bearer x"})
	assert.Equal(t, []any{"provider", "openai", "openai_api_key", "[REDACTED]", "Authorization", "[REDACTED]"}, got)
}

func TestSanitizeKVs_OddLength(t *testing.T) {
	got := sanitizeKVs([]any{"topic", "Solar System", "dangling"})
	assert.Equal(t, []any{"topic", "Solar System", "dangling"}, got)
}

func TestLogger_WithCarriesFields(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	l := &Logger{SugaredLogger: zap.New(core).Sugar()}

	l.With("request_id", "abc").Info("generated", "count", 6, "api_key", "secret")

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	assert.Equal(t, "abc", fields["request_id"])
	assert.EqualValues(t, 6, fields["count"])
	assert.Equal(t, "[REDACTED]", fields["api_key"])
}

func TestNop(t *testing.T) {
	l := Nop()
	l.Info("ignored", "k", "v")
	l.Sync()
}
