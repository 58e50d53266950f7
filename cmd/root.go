package cmd

import (
	"github.com/learnex/learnex/internal/store"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "learnex",
	Short: "Timed mock tests in the terminal",
	Long: `Learnex runs timed JEE/NEET style mock tests: a fixed clock, mark-for-review,
a question palette, autosave that survives restarts, and a results history.`,
	Example: `  learnex --exam jee-1 --subject Chemistry
  learnex --url "/mock-test/neet-2?mode=teacher&subject=Biology&teacherCode=T42"`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("db", "", "Path to SQLite database file (overrides LEARNEX_DB env var)")
	pf.String("store", "", "Autosave backend: sqlite, redis or memory (overrides LEARNEX_STORE)")
	pf.String("redis-url", "", "Redis URL for --store redis (overrides LEARNEX_REDIS_URL)")

	f := rootCmd.Flags()
	f.String("exam", "", "Exam identifier; autosave is kept per exam")
	f.String("mode", "", "Who set the test: ai or teacher")
	f.String("subject", "", "Subject, e.g. Physics, Chemistry, Biology, Mathematics")
	f.String("teacher-code", "", "Code from your teacher (teacher mode)")
	f.String("url", "", "Navigation route, e.g. /mock-test/jee-1?mode=ai&subject=Physics")
	f.Bool("ai-questions", false, "Generate ai-mode questions with the configured LLM")

	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then LEARNEX_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}
