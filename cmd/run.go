package cmd

import (
	"context"
	"fmt"
	"net/url"
	"os"

	"github.com/spf13/cobra"

	"github.com/learnex/learnex/internal/app"
	"github.com/learnex/learnex/internal/assessment"
	"github.com/learnex/learnex/internal/llm"
	"github.com/learnex/learnex/internal/questiongen"
	"github.com/learnex/learnex/internal/screens/mocktest"
)

// sessionConfig builds the test descriptor from --url, or from the
// individual flags when no route is given.
func sessionConfig(cmd *cobra.Command) assessment.SessionConfig {
	if raw, _ := cmd.Flags().GetString("url"); raw != "" {
		return assessment.ParseNavigationURL(raw)
	}
	exam, _ := cmd.Flags().GetString("exam")
	mode, _ := cmd.Flags().GetString("mode")
	subject, _ := cmd.Flags().GetString("subject")
	code, _ := cmd.Flags().GetString("teacher-code")

	q := url.Values{}
	q.Set("mode", mode)
	q.Set("subject", subject)
	q.Set("teacherCode", code)
	return assessment.ConfigFromNavigation(exam, q)
}

// runApp opens the store, builds dependencies, and launches the TUI.
func runApp(cmd *cobra.Command) error {
	e, err := setup(cmd)
	if err != nil {
		return err
	}
	defer e.Close()

	cfg := sessionConfig(cmd)
	guard := app.NewGuard()
	deps := mocktest.Deps{
		Source:        questionSource(cmd.Context(), e, cfg),
		Store:         e.kv,
		Results:       e.store.ResultRepo(),
		Events:        e.store.EventRepo(),
		Guard:         guard,
		Log:           e.log,
		AutosaveDelay: e.cfg.AutosaveDelay,
	}

	return app.Run(app.Options{
		Root:  mocktest.NewInstructions(deps, cfg),
		Guard: guard,
		Log:   e.log,
	})
}

// questionSource picks the built-in bank, or the LLM generator for
// ai-mode tests when enabled and a provider is configured.
func questionSource(ctx context.Context, e *env, cfg assessment.SessionConfig) assessment.QuestionSource {
	if !e.cfg.AIQuestions || cfg.Mode != assessment.ModeAI {
		return assessment.BankSource{}
	}
	if ctx == nil {
		ctx = context.Background()
	}

	provider, err := llm.NewProviderFromEnv(ctx, e.store.EventRepo(), e.log)
	if err != nil {
		fmt.Fprintln(os.Stderr, "LLM provider not configured:", err)
		fmt.Fprintln(os.Stderr, "Using the built-in question bank.")
		e.log.Warn().Err(err).Msg("llm provider unavailable")
		return assessment.BankSource{}
	}
	return questiongen.New(provider, questiongen.DefaultConfig(), e.log)
}
