package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/harrison/signalscope/internal/display"
	"github.com/harrison/signalscope/internal/scoring"
)

// NewCalibrationCommand creates the calibration command group
func NewCalibrationCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calibration",
		Short: "Manage calibration weights",
		Long: `Calibration weights scale how much an issue matters for a page type.
A weight of 1.0 is neutral; 2.0 doubles the issue's importance and 0.5
halves it. Weights are stored in the calibration database.`,
	}

	cmd.AddCommand(newCalibrationSetCommand())
	cmd.AddCommand(newCalibrationListCommand())
	cmd.AddCommand(newCalibrationStatsCommand())
	cmd.AddCommand(newCalibrationClearCommand())

	return cmd
}

func newCalibrationSetCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set <page-type> <issue-id> <weight>",
		Short: "Set the weight of an issue for a page type",
		Example: `  signalscope calibration set landing testimonials 1.5 --note "won A/B test"
  signalscope calibration set pricing faq 0.5`,
		Args: cobra.ExactArgs(3),
		RunE: runCalibrationSet,
	}

	cmd.Flags().String("note", "", "Why the weight was chosen")

	return cmd
}

func runCalibrationSet(cmd *cobra.Command, args []string) error {
	pageType, issueID := args[0], args[1]
	weight, err := strconv.ParseFloat(args[2], 64)
	if err != nil {
		return fmt.Errorf("invalid weight %q: %w", args[2], err)
	}
	note, _ := cmd.Flags().GetString("note")

	env, err := setup(cmd, true)
	if err != nil {
		return err
	}
	defer env.Close()

	if !knownIssue(issueID) {
		env.log.LogWarn(fmt.Sprintf("%s is not a built-in issue id; the weight only applies to custom issues", issueID))
	}

	if err := env.store.SetWeight(cmd.Context(), pageType, issueID, weight, note); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Set %s/%s to %.2f\n", pageType, issueID, weight)
	return nil
}

func knownIssue(id string) bool {
	for _, known := range scoring.IssueIDs() {
		if known == id {
			return true
		}
	}
	return false
}

func newCalibrationListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list [page-type]",
		Short: "List calibration weights",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pageType := ""
			if len(args) == 1 {
				pageType = args[0]
			}
			asJSON, _ := cmd.Flags().GetBool("json")

			env, err := setup(cmd, true)
			if err != nil {
				return err
			}
			defer env.Close()

			weights, err := env.store.ListWeights(cmd.Context(), pageType)
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), weights)
			}
			display.NewRenderer(cmd.OutOrStdout()).Weights(weights)
			return nil
		},
	}

	cmd.Flags().Bool("json", false, "Print the weights as JSON")

	return cmd
}

func newCalibrationStatsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats [page-type]",
		Short: "Show the distribution of calibration weights",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pageType := ""
			if len(args) == 1 {
				pageType = args[0]
			}
			asJSON, _ := cmd.Flags().GetBool("json")

			env, err := setup(cmd, true)
			if err != nil {
				return err
			}
			defer env.Close()

			summary, err := env.store.WeightStats(cmd.Context(), pageType)
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), summary)
			}
			display.NewRenderer(cmd.OutOrStdout()).WeightSummary(summary)
			return nil
		},
	}

	cmd.Flags().Bool("json", false, "Print the summary as JSON")

	return cmd
}
