package questiongen

import (
	"fmt"
	"strings"

	"github.com/learnex/learnex/internal/assessment"
)

// Validator checks a generated question before it enters a test.
type Validator interface {
	// Name returns a short identifier used in errors and logs.
	Name() string

	// Validate returns nil if q is acceptable. prior holds the prompts
	// already accepted for the same test.
	Validate(q *assessment.Question, prior []string) *ValidationError
}

// ValidationError describes why a question was rejected.
type ValidationError struct {
	Validator string
	Message   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validator %q: %s", e.Validator, e.Message)
}

const (
	maxPromptLen = 600
	minOptions   = 2
	maxOptions   = 6
)

// StructuralValidator checks the prompt, the option count and the
// correct index.
type StructuralValidator struct{}

func (v *StructuralValidator) Name() string { return "structural" }

func (v *StructuralValidator) Validate(q *assessment.Question, _ []string) *ValidationError {
	switch {
	case strings.TrimSpace(q.Prompt) == "":
		return &ValidationError{Validator: v.Name(), Message: "prompt is empty"}
	case len(q.Prompt) > maxPromptLen:
		return &ValidationError{Validator: v.Name(), Message: fmt.Sprintf("prompt exceeds %d characters", maxPromptLen)}
	case len(q.Options) < minOptions:
		return &ValidationError{Validator: v.Name(), Message: fmt.Sprintf("need at least %d options, got %d", minOptions, len(q.Options))}
	case len(q.Options) > maxOptions:
		return &ValidationError{Validator: v.Name(), Message: fmt.Sprintf("at most %d options allowed, got %d", maxOptions, len(q.Options))}
	case !q.ValidOption(q.CorrectOptionIndex):
		return &ValidationError{Validator: v.Name(), Message: fmt.Sprintf("correct index %d out of range", q.CorrectOptionIndex)}
	}
	switch q.Difficulty {
	case assessment.DifficultyEasy, assessment.DifficultyMedium, assessment.DifficultyHard:
	default:
		return &ValidationError{Validator: v.Name(), Message: fmt.Sprintf("unknown difficulty %q", q.Difficulty)}
	}
	return nil
}

// OptionsValidator rejects blank or repeated options.
type OptionsValidator struct{}

func (v *OptionsValidator) Name() string { return "options" }

func (v *OptionsValidator) Validate(q *assessment.Question, _ []string) *ValidationError {
	seen := make(map[string]bool, len(q.Options))
	for i, opt := range q.Options {
		key := normalize(opt)
		if key == "" {
			return &ValidationError{Validator: v.Name(), Message: fmt.Sprintf("option %d is empty", i)}
		}
		if seen[key] {
			return &ValidationError{Validator: v.Name(), Message: fmt.Sprintf("option %q repeated", opt)}
		}
		seen[key] = true
	}
	return nil
}

// DuplicateValidator rejects a prompt already used in the same test,
// ignoring case and spacing.
type DuplicateValidator struct{}

func (v *DuplicateValidator) Name() string { return "duplicate" }

func (v *DuplicateValidator) Validate(q *assessment.Question, prior []string) *ValidationError {
	key := normalize(q.Prompt)
	for _, p := range prior {
		if normalize(p) == key {
			return &ValidationError{Validator: v.Name(), Message: "prompt already asked"}
		}
	}
	return nil
}

func normalize(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
