package questiongen

import "github.com/learnex/learnex/internal/llm"

// BatchSchema defines the JSON schema for a batch of generated questions.
var BatchSchema = &llm.Schema{
	Name:        "mcq-batch",
	Description: "A batch of multiple choice exam questions",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"questions": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"prompt": map[string]any{
							"type":        "string",
							"description": "The question text shown to the candidate, plain text",
						},
						"options": map[string]any{
							"type":        "array",
							"items":       map[string]any{"type": "string"},
							"minItems":    2,
							"maxItems":    6,
							"description": "Answer options, usually 4, exactly one of them correct",
						},
						"correct_index": map[string]any{
							"type":        "integer",
							"minimum":     0,
							"description": "Zero-based index of the correct option",
						},
						"topic": map[string]any{
							"type":        "string",
							"description": "Syllabus topic within the subject, e.g. Kinematics",
						},
						"difficulty": map[string]any{
							"type": "string",
							"enum": []any{"easy", "medium", "hard"},
						},
					},
					"required":             []any{"prompt", "options", "correct_index", "topic", "difficulty"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []any{"questions"},
		"additionalProperties": false,
	},
}

type batchOutput struct {
	Questions []questionOutput `json:"questions"`
}

// questionOutput is one raw item before validation.
type questionOutput struct {
	Prompt       string   `json:"prompt"`
	Options      []string `json:"options"`
	CorrectIndex int      `json:"correct_index"`
	Topic        string   `json:"topic"`
	Difficulty   string   `json:"difficulty"`
}
