package questiongen

import (
	"testing"

	"github.com/learnex/learnex/internal/assessment"
)

func TestValidators(t *testing.T) {
	valid := assessment.Question{
		Prompt:             "Which law states F = ma?",
		Options:            []string{"First", "Second", "Third", "Zeroth"},
		CorrectOptionIndex: 1,
		Difficulty:         assessment.DifficultyEasy,
	}

	tests := []struct {
		name      string
		mutate    func(q *assessment.Question)
		prior     []string
		validator string
	}{
		{"valid", func(q *assessment.Question) {}, nil, ""},
		{"blank prompt", func(q *assessment.Question) { q.Prompt = "   " }, nil, "structural"},
		{"one option", func(q *assessment.Question) { q.Options = q.Options[:1]; q.CorrectOptionIndex = 0 }, nil, "structural"},
		{"seven options", func(q *assessment.Question) { q.Options = []string{"a", "b", "c", "d", "e", "f", "g"} }, nil, "structural"},
		{"negative index", func(q *assessment.Question) { q.CorrectOptionIndex = -1 }, nil, "structural"},
		{"bad difficulty", func(q *assessment.Question) { q.Difficulty = "extreme" }, nil, "structural"},
		{"empty option", func(q *assessment.Question) { q.Options[2] = " " }, nil, "options"},
		{"repeated option", func(q *assessment.Question) { q.Options[3] = "first" }, nil, "options"},
		{"already asked", func(q *assessment.Question) {}, []string{"which law states  f = ma?"}, "duplicate"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := valid
			q.Options = append([]string(nil), valid.Options...)
			tt.mutate(&q)

			var got *ValidationError
			for _, v := range DefaultConfig().Validators {
				if got = v.Validate(&q, tt.prior); got != nil {
					break
				}
			}

			switch {
			case tt.validator == "" && got != nil:
				t.Fatalf("unexpected rejection: %v", got)
			case tt.validator != "" && got == nil:
				t.Fatalf("expected rejection by %q", tt.validator)
			case got != nil && got.Validator != tt.validator:
				t.Fatalf("rejected by %q, want %q (%s)", got.Validator, tt.validator, got.Message)
			}
		})
	}
}
