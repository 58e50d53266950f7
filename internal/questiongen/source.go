package questiongen

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/learnex/learnex/internal/assessment"
	"github.com/learnex/learnex/internal/llm"
)

// Purpose labels LLM request events made by this package.
const Purpose = "question-gen"

// Source is an assessment.QuestionSource backed by an LLM. Questions the
// model fails to produce are filled from the template bank, so a test
// always has its full question count.
type Source struct {
	provider llm.Provider
	config   Config
	log      zerolog.Logger
}

var _ assessment.QuestionSource = (*Source)(nil)

// New creates a Source with the given provider and config.
func New(provider llm.Provider, cfg Config, log zerolog.Logger) *Source {
	return &Source{
		provider: provider,
		config:   cfg,
		log:      log.With().Str("component", "questiongen").Logger(),
	}
}

// Report describes how a question set was assembled.
type Report struct {
	Generated int
	Rejected  int
	FromBank  int
	Err       error
}

// Questions returns cfg.TotalQuestions questions for cfg.Subject. LLM
// failures are logged and never returned; the bank covers the shortfall.
func (s *Source) Questions(ctx context.Context, cfg assessment.SessionConfig) ([]assessment.Question, error) {
	qs, _ := s.Build(ctx, cfg)
	return qs, nil
}

// Build is Questions with the assembly report.
func (s *Source) Build(ctx context.Context, cfg assessment.SessionConfig) ([]assessment.Question, Report) {
	count := cfg.TotalQuestions
	var rep Report
	if count <= 0 {
		return []assessment.Question{}, rep
	}

	ctx = llm.WithExam(llm.WithPurpose(ctx, Purpose), cfg.ExamID)

	var accepted []assessment.Question
	var prompts []string
	for round := 0; round < s.config.rounds(count) && len(accepted) < count; round++ {
		want := min(count-len(accepted), s.config.batchSize())
		batch, err := s.generate(ctx, cfg.Subject, want, prompts)
		if err != nil {
			rep.Err = err
			s.log.Warn().Err(err).Str("subject", cfg.Subject).Int("round", round).Msg("question generation failed")
			break
		}
		for i := range batch {
			q := &batch[i]
			if verr := s.validate(q, prompts); verr != nil {
				rep.Rejected++
				s.log.Debug().Str("validator", verr.Validator).Str("reason", verr.Message).Msg("question rejected")
				continue
			}
			accepted = append(accepted, *q)
			prompts = append(prompts, q.Prompt)
			if len(accepted) == count {
				break
			}
		}
	}
	rep.Generated = len(accepted)

	if len(accepted) < count {
		accepted = topUp(accepted, prompts, cfg.Subject, count)
		rep.FromBank = count - rep.Generated
	}
	for i := range accepted {
		accepted[i].ID = i + 1
	}

	s.log.Info().
		Str("subject", cfg.Subject).
		Int("generated", rep.Generated).
		Int("rejected", rep.Rejected).
		Int("from_bank", rep.FromBank).
		Msg("question set ready")
	return accepted, rep
}

func (s *Source) generate(ctx context.Context, subject string, count int, prior []string) ([]assessment.Question, error) {
	resp, err := s.provider.Generate(ctx, llm.Request{
		System: systemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildUserMessage(subject, count, prior, s.config)},
		},
		Schema:      BatchSchema,
		MaxTokens:   s.config.MaxTokens,
		Temperature: s.config.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("LLM generation failed: %w", err)
	}

	var raw batchOutput
	if err := resp.Decode(&raw); err != nil {
		return nil, err
	}

	out := make([]assessment.Question, 0, len(raw.Questions))
	for _, r := range raw.Questions {
		out = append(out, assessment.Question{
			Prompt:             r.Prompt,
			Options:            r.Options,
			CorrectOptionIndex: r.CorrectIndex,
			Subject:            subject,
			Topic:              r.Topic,
			Difficulty:         assessment.Difficulty(r.Difficulty),
		})
	}
	return out, nil
}

func (s *Source) validate(q *assessment.Question, prior []string) *ValidationError {
	for _, v := range s.config.Validators {
		if verr := v.Validate(q, prior); verr != nil {
			return verr
		}
	}
	return nil
}

// topUp fills qs to count from the template bank, preferring templates
// whose prompt is not already present.
func topUp(qs []assessment.Question, prompts []string, subject string, count int) []assessment.Question {
	bank := assessment.GenerateQuestions(subject, count)
	used := make(map[string]bool, len(prompts))
	for _, p := range prompts {
		used[normalize(p)] = true
	}

	var repeats []assessment.Question
	for _, q := range bank {
		if len(qs) == count {
			return qs
		}
		key := normalize(q.Prompt)
		if used[key] {
			repeats = append(repeats, q)
			continue
		}
		used[key] = true
		qs = append(qs, q)
	}
	for _, q := range repeats {
		if len(qs) == count {
			break
		}
		qs = append(qs, q)
	}
	return qs
}
