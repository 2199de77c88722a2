package llm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func TestGeminiModelMapping(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"gemini-flash", "gemini-2.0-flash"},
		{"gemini-pro", "gemini-2.0-pro"},
		{"gemini-2.5-flash", "gemini-2.5-flash"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, resolveModel(tt.input, geminiModels), tt.input)
	}
}

func TestBuildGeminiSchema_QuestionEnvelope(t *testing.T) {
	def := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"questions": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"type":        map[string]any{"type": "string", "enum": []string{"multiple_choice", "true_false", "matching"}},
						"text":        map[string]any{"type": "string"},
						"explanation": map[string]any{"type": "string", "description": "Why the answer is right"},
					},
					"required": []any{"type", "text"},
				},
			},
		},
		"required": []string{"questions"},
	}

	schema := buildGeminiSchema(def)

	assert.Equal(t, genai.TypeObject, schema.Type)
	assert.Equal(t, []string{"questions"}, schema.Required)

	questions := schema.Properties["questions"]
	require.NotNil(t, questions)
	assert.Equal(t, genai.TypeArray, questions.Type)

	item := questions.Items
	require.NotNil(t, item)
	assert.Equal(t, genai.TypeObject, item.Type)
	assert.Len(t, item.Properties, 3)
	assert.Equal(t, []string{"multiple_choice", "true_false", "matching"}, item.Properties["type"].Enum)
	assert.Equal(t, "Why the answer is right", item.Properties["explanation"].Description)
	assert.Equal(t, []string{"type", "text"}, item.Required)
}

func TestMapGeminiType_UnknownFallsBackToString(t *testing.T) {
	assert.Equal(t, genai.TypeString, mapGeminiType("null"))
	assert.Equal(t, genai.TypeBoolean, mapGeminiType("boolean"))
}

func TestNewGeminiProvider_RequiresKey(t *testing.T) {
	_, err := NewGeminiProvider(context.Background(), GeminiConfig{Model: "gemini-flash"})
	require.Error(t, err)
}
