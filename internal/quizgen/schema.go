package quizgen

import "github.com/abhisek/medstud/internal/llm"

// QuestionsSchema is the batch response shape requested from the model.
// Local models may ignore it, so responses are still parsed defensively.
var QuestionsSchema = &llm.Schema{
	Name:        "quiz-questions",
	Description: "One multiple-choice question per study snippet",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"questions": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"stem": map[string]any{
							"type":        "string",
							"description": "The question text",
						},
						"options": map[string]any{
							"type":        "array",
							"items":       map[string]any{"type": "string"},
							"description": "Four plausible answer options",
						},
						"answer_index": map[string]any{
							"type":        "integer",
							"description": "Zero-based index of the correct option",
						},
						"explanation": map[string]any{
							"type":        "string",
							"description": "Brief rationale for the correct answer",
						},
						"source_idx": map[string]any{
							"type":        "integer",
							"description": "Zero-based index of the snippet the question is based on",
						},
					},
					"required":             []any{"stem", "options", "answer_index", "explanation", "source_idx"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []any{"questions"},
		"additionalProperties": false,
	},
}
