package cmd

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

// newCalibrationClearCommand creates the 'signalscope calibration clear' command
func newCalibrationClearCommand() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear <page-type> [issue-id]",
		Short: "Remove calibration weights",
		Long: `Remove one calibration weight, or every weight of a page type.

Examples:
  # Clear one weight (requires confirmation)
  signalscope calibration clear landing testimonials

  # Clear every weight for pricing pages without prompting
  signalscope calibration clear pricing --yes`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCalibrationClear(cmd, args, yes)
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")

	return cmd
}

func runCalibrationClear(cmd *cobra.Command, args []string, yes bool) error {
	output := cmd.OutOrStdout()
	pageType := args[0]
	issueID := ""
	if len(args) == 2 {
		issueID = args[1]
	}

	if !yes {
		if issueID == "" {
			fmt.Fprintf(output, "This will delete ALL calibration weights for page type: %s\n", pageType)
		} else {
			fmt.Fprintf(output, "This will delete the calibration weight %s/%s\n", pageType, issueID)
		}
		if !confirmAction(cmd.InOrStdin(), output) {
			fmt.Fprintf(output, "Operation cancelled.\n")
			return nil
		}
	}

	env, err := setup(cmd, true)
	if err != nil {
		return err
	}
	defer env.Close()

	deleted, err := env.store.DeleteWeights(cmd.Context(), pageType, issueID)
	if err != nil {
		return err
	}
	fmt.Fprintf(output, "Deleted %d %s.\n", deleted, plural(deleted, "weight", "weights"))
	return nil
}

// confirmAction prompts the user for confirmation
func confirmAction(in io.Reader, output io.Writer) bool {
	scanner := bufio.NewScanner(in)

	fmt.Fprintf(output, "Continue? [y/N]: ")

	if !scanner.Scan() {
		return false
	}

	response := strings.TrimSpace(strings.ToLower(scanner.Text()))
	return response == "y" || response == "yes"
}
