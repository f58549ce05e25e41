package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harrison/signalscope/internal/display"
)

// NewHistoryCommand creates the history command
func NewHistoryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent analyses",
		Long: `List recorded analyses, newest first. Analyses are recorded by analyze,
watch and serve when calibration is enabled.`,
		Args: cobra.NoArgs,
		RunE: runHistory,
	}

	cmd.Flags().String("page-type", "", "Only show analyses of this page type")
	cmd.Flags().Int("limit", 20, "Maximum number of analyses to show")
	cmd.Flags().Bool("json", false, "Print the analyses as JSON")
	cmd.Flags().Bool("prune", false, "Remove analyses older than calibration.keep_history_days first")

	return cmd
}

func runHistory(cmd *cobra.Command, args []string) error {
	pageType, _ := cmd.Flags().GetString("page-type")
	limit, _ := cmd.Flags().GetInt("limit")
	asJSON, _ := cmd.Flags().GetBool("json")
	prune, _ := cmd.Flags().GetBool("prune")

	env, err := setup(cmd, true)
	if err != nil {
		return err
	}
	defer env.Close()

	if prune {
		deleted, err := env.analyzer(false).Prune(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Pruned %d old %s.\n", deleted, plural(deleted, "analysis", "analyses"))
	}

	runs, err := env.store.GetRecentAnalyses(cmd.Context(), pageType, limit)
	if err != nil {
		return fmt.Errorf("load history: %w", err)
	}

	if asJSON {
		return writeJSON(cmd.OutOrStdout(), runs)
	}
	display.NewRenderer(cmd.OutOrStdout()).History(runs)
	return nil
}

func plural(n int64, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
