package llm

import (
	"encoding/json"
	"errors"
	"testing"
)

func itemSchema() *Schema {
	return &Schema{
		Name:        "test-quiz-item",
		Description: "A single quiz item",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"type":       map[string]any{"type": "string", "enum": []any{"mcq", "truefalse", "short"}},
				"prompt":     map[string]any{"type": "string"},
				"options":    map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
				"source_idx": map[string]any{"type": "integer", "minimum": 0},
			},
			"required": []any{"type", "prompt"},
		},
	}
}

func TestValidateResponse(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{"valid", `{"type":"mcq","prompt":"Which nerve?","options":["Vagus","Phrenic"],"source_idx":0}`, false},
		{"optional fields omitted", `{"type":"short","prompt":"Name the enzyme."}`, false},
		{"fenced json", "```json\n{\"type\":\"short\",\"prompt\":\"x\"}\n```", false},
		{"missing required", `{"type":"mcq"}`, true},
		{"wrong type", `{"type":"mcq","prompt":"x","source_idx":"zero"}`, true},
		{"bad enum", `{"type":"essay","prompt":"x"}`, true},
		{"negative index", `{"type":"short","prompt":"x","source_idx":-1}`, true},
		{"wrong item type", `{"type":"mcq","prompt":"x","options":[1,2]}`, true},
		{"malformed", `{not json}`, true},
		{"empty", ``, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateResponse(itemSchema(), json.RawMessage(tt.raw))
			if (err != nil) != tt.wantErr {
				t.Fatalf("validateResponse() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				var inv *ErrInvalidResponse
				if !errors.As(err, &inv) {
					t.Fatalf("expected ErrInvalidResponse, got: %T", err)
				}
			}
		})
	}
}

func TestValidateResponse_NilSchema(t *testing.T) {
	if err := validateResponse(nil, json.RawMessage(`not even json`)); err != nil {
		t.Fatalf("expected no error with nil schema, got: %v", err)
	}
}

func TestStripCodeFence(t *testing.T) {
	got := stripCodeFence(json.RawMessage("```\n{\"a\":1}\n```"))
	if string(got) != `{"a":1}` {
		t.Fatalf("unexpected: %q", got)
	}
	plain := json.RawMessage(`{"a":1}`)
	if string(stripCodeFence(plain)) != `{"a":1}` {
		t.Fatal("plain JSON must pass through")
	}
}

func TestValidateResponse_QuestionsSchema(t *testing.T) {
	schema := &Schema{
		Name: "test-question-list",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"questions": map[string]any{
					"type":     "array",
					"maxItems": 5,
					"items": map[string]any{
						"type": "object",
						"properties": map[string]any{
							"answer_index": map[string]any{"type": "integer", "minimum": 0, "maximum": 3},
						},
						"required": []any{"answer_index"},
					},
				},
			},
			"required": []any{"questions"},
		},
	}

	if err := validateResponse(schema, json.RawMessage(`{"questions":[{"answer_index":3}]}`)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := validateResponse(schema, json.RawMessage(`{"questions":[{"answer_index":4}]}`)); err == nil {
		t.Fatal("expected maximum to be enforced")
	}
	if err := validateResponse(schema, json.RawMessage(`{"questions":[{"answer_index":1.5}]}`)); err == nil {
		t.Fatal("expected non-integer index to fail")
	}
}
