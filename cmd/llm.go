package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/learnex/learnex/internal/llm"
	"github.com/learnex/learnex/internal/store"
)

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect LLM question generation",
}

var llmListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show LLM usage per provider and model with estimated cost",
	RunE: func(cmd *cobra.Command, args []string) error {
		dbPath, err := resolveDBPath(cmd)
		if err != nil {
			return fmt.Errorf("resolve database path: %w", err)
		}

		s, err := store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer s.Close()

		usage, err := s.EventRepo().LLMUsage(context.Background())
		if err != nil {
			return fmt.Errorf("query usage: %w", err)
		}

		if len(usage) == 0 {
			fmt.Println("No LLM usage recorded yet.")
			return nil
		}

		fmt.Printf("%-10s  %-28s  %6s  %6s  %10s  %10s  %10s\n",
			"Provider", "Model", "Calls", "Failed", "Input", "Output", "Est. Cost")
		fmt.Println(strings.Repeat("─", 92))

		var totalCost float64
		var unknown bool
		for _, u := range usage {
			cost := "?"
			if c := llm.LookupCost(u.Model); c != nil {
				v := c.Cost(u.InputTokens, u.OutputTokens)
				totalCost += v
				cost = fmt.Sprintf("$%.4f", v)
			} else {
				unknown = true
			}
			model := u.Model
			if len(model) > 28 {
				model = model[:28]
			}
			fmt.Printf("%-10s  %-28s  %6d  %6d  %10d  %10d  %10s\n",
				u.Provider, model, u.Requests, u.Failures, u.InputTokens, u.OutputTokens, cost)
		}

		fmt.Println(strings.Repeat("─", 92))
		fmt.Printf("%-10s  %-28s  %6s  %6s  %10s  %10s  %10s\n",
			"TOTAL", "", "", "", "", "", fmt.Sprintf("$%.4f", totalCost))
		if unknown {
			fmt.Println("\n? = no pricing data for this model")
		}
		return nil
	},
}

var llmCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Show which LLM provider the environment configures",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := llm.ConfigFromEnv()
		if err := cfg.Validate(); err != nil {
			discovered, ok := llm.DiscoverConfig()
			if !ok {
				return fmt.Errorf("no LLM provider configured: %w", err)
			}
			cfg = discovered
			fmt.Println("Discovered from API key environment variables.")
		}
		fmt.Printf("Provider:  %s\n", cfg.Provider)
		fmt.Printf("Model:     %s\n", cfg.ActiveModel())
		return nil
	},
}

func init() {
	llmCmd.AddCommand(llmListCmd)
	llmCmd.AddCommand(llmCheckCmd)
}
