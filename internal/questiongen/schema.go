package questiongen

import "github.com/abhisek/quizgen/internal/llm"

// EnvelopeSchema is the minimal shape a model reply must have before its
// questions are decoded. Individual questions are decoded leniently and
// repaired by the Reconciler, so only the container is enforced here.
var EnvelopeSchema = &llm.Schema{
	Name:        "question-envelope",
	Description: "A list of generated quiz questions",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"questions": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
				},
			},
		},
		"required": []any{"questions"},
	},
}

// StructuredEnvelopeSchema is sent to the provider when structured output
// is enabled. Every object is closed and every property required, which
// is what strict JSON-schema modes demand. correctAnswer is always an
// index list; single-answer types carry one element.
var StructuredEnvelopeSchema = &llm.Schema{
	Name:        "question_list",
	Description: "A list of generated quiz questions",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"questions": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"type": map[string]any{
							"type": "string",
							"enum": []any{string(TypeMultipleChoice), string(TypeTrueFalse), string(TypeMatching)},
						},
						"text": map[string]any{"type": "string"},
						"options": map[string]any{
							"type": "array",
							"items": map[string]any{
								"type": "object",
								"properties": map[string]any{
									"text":  map[string]any{"type": "string"},
									"match": map[string]any{"type": "string"},
								},
								"required":             []any{"text", "match"},
								"additionalProperties": false,
							},
						},
						"correctAnswer": map[string]any{
							"type":  "array",
							"items": map[string]any{"type": "integer"},
						},
						"explanation": map[string]any{"type": "string"},
					},
					"required":             []any{"type", "text", "options", "correctAnswer", "explanation"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []any{"questions"},
		"additionalProperties": false,
	},
}
