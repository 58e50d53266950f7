package llm

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mcqSchema() *Schema {
	return &Schema{
		Name:        "test-mcq",
		Description: "A multiple choice question",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"prompt":     map[string]any{"type": "string"},
				"options":    map[string]any{"type": "array", "items": map[string]any{"type": "string"}, "minItems": 2},
				"correct":    map[string]any{"type": "integer", "minimum": 0},
				"difficulty": map[string]any{"type": "string", "enum": []any{"easy", "medium", "hard"}},
			},
			"required": []any{"prompt", "options", "correct"},
		},
	}
}

func TestValidateResponse(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{"valid", `{"prompt":"2+2?","options":["3","4"],"correct":1,"difficulty":"easy"}`, false},
		{"optional field omitted", `{"prompt":"2+2?","options":["3","4"],"correct":1}`, false},
		{"missing required", `{"prompt":"2+2?","options":["3","4"]}`, true},
		{"wrong type", `{"prompt":"2+2?","options":["3","4"],"correct":"one"}`, true},
		{"invalid enum", `{"prompt":"2+2?","options":["3","4"],"correct":1,"difficulty":"brutal"}`, true},
		{"too few options", `{"prompt":"2+2?","options":["4"],"correct":0}`, true},
		{"negative index", `{"prompt":"2+2?","options":["3","4"],"correct":-1}`, true},
		{"malformed", `{not json}`, true},
		{"empty", ``, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateResponse("test", mcqSchema(), json.RawMessage(tt.raw))
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, ErrInvalidResponse)
			var pe *Error
			require.ErrorAs(t, err, &pe)
			assert.Equal(t, tt.raw, string(pe.Content))
		})
	}
}

func TestValidateResponse_NilSchema(t *testing.T) {
	assert.NoError(t, validateResponse("test", nil, json.RawMessage(`{"anything":"goes"}`)))
}

func TestValidateResponse_NestedArray(t *testing.T) {
	schema := &Schema{
		Name: "test-batch",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"questions": map[string]any{
					"type": "array",
					"items": map[string]any{
						"type": "object",
						"properties": map[string]any{
							"prompt": map[string]any{"type": "string"},
						},
						"required": []any{"prompt"},
					},
				},
			},
			"required": []any{"questions"},
		},
	}

	assert.NoError(t, validateResponse("test", schema, json.RawMessage(`{"questions":[{"prompt":"a"},{"prompt":"b"}]}`)))
	assert.Error(t, validateResponse("test", schema, json.RawMessage(`{"questions":[{"text":"a"}]}`)))
}
