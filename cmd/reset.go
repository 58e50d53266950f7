package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/learnex/learnex/internal/assessment"
)

var errResetTarget = errors.New("pass --exam <id> or --all")

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Discard saved (unsubmitted) test attempts",
	Long: `Discard autosaved attempts so the next start begins with a full clock.
Submitted results are kept.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		exam, _ := cmd.Flags().GetString("exam")
		all, _ := cmd.Flags().GetBool("all")
		if exam == "" && !all {
			return errResetTarget
		}

		e, err := setup(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		ctx := context.Background()
		keys := []string{assessment.SnapshotKey(exam)}
		if all {
			entries, err := e.kv.List(ctx, assessment.SnapshotKey(""))
			if err != nil {
				return fmt.Errorf("list saved attempts: %w", err)
			}
			keys = keys[:0]
			for _, entry := range entries {
				keys = append(keys, entry.Key)
			}
		}

		removed := 0
		for _, key := range keys {
			v, err := e.kv.Get(ctx, key)
			if err != nil {
				return fmt.Errorf("read %s: %w", key, err)
			}
			if v == nil {
				continue
			}
			if err := e.kv.Delete(ctx, key); err != nil {
				return fmt.Errorf("delete %s: %w", key, err)
			}
			e.log.Info().Str("key", key).Msg("saved attempt discarded")
			fmt.Println("Removed", key)
			removed++
		}

		if removed == 0 {
			fmt.Println("No saved attempts found.")
		}
		return nil
	},
}

func init() {
	resetCmd.Flags().String("exam", "", "Exam identifier whose saved attempt to discard")
	resetCmd.Flags().Bool("all", false, "Discard every saved attempt")
}
