package cmd

import (
	"github.com/spf13/cobra"

	"github.com/harrison/signalscope/internal/display"
	"github.com/harrison/signalscope/internal/merge"
	"github.com/harrison/signalscope/internal/parser"
)

// NewMergeCommand creates the merge command
func NewMergeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "merge <signals-file>",
		Short: "Merge landing, ad and pricing decision signals",
		Long: `Merge pre-computed decision signal vectors from a YAML or JSON bundle:

  landing:
    promise_strength: high
    reassurance_level: low
  ad:
    reassurance_level: high
  pricing:
    choice_overload: high

Unset required fields default to medium (calm for emotional_tone). The
merged vector is printed with the agreement adjustment of every field.`,
		Args: cobra.ExactArgs(1),
		RunE: runMerge,
	}

	cmd.Flags().String("format", formatText, "Output format: text, json")

	return cmd
}

func runMerge(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	if err := validateFormat(format, formatText, formatJSON); err != nil {
		return err
	}

	bundle, err := parser.ParseSignalsFile(args[0])
	if err != nil {
		return err
	}

	result := merge.MergeDetailed(bundle.Landing, bundle.Ad, bundle.Pricing)
	if format == formatJSON {
		return writeJSON(cmd.OutOrStdout(), result)
	}
	display.NewRenderer(cmd.OutOrStdout()).MergeResult(result)
	return nil
}
