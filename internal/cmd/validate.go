package cmd

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harrison/signalscope/internal/parser"
)

// NewValidateCommand creates and returns the validate subcommand
func NewValidateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <file-or-directory>...",
		Short: "Validate page attribute files, snapshots or signal bundles",
		Long: `Parse and validate input files without analyzing them, checking for:
  - Supported file extension
  - Well-formed YAML, JSON or Markdown front matter
  - Unknown fields
  - Measurements outside [0,1]
  - Signal levels and confidence (with --signals)

Exit code: 0 if every file is valid, 1 otherwise`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			signals, _ := cmd.Flags().GetBool("signals")
			return validateInputs(args, signals, cmd.OutOrStdout())
		},
	}

	cmd.Flags().Bool("signals", false, "Validate the files as decision signal bundles")

	return cmd
}

// validateInputs checks every input and reports each file on its own line
func validateInputs(paths []string, signals bool, output io.Writer) error {
	files, err := parser.FindInputs(paths)
	if err != nil {
		return err
	}

	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()

	invalid := 0
	for _, file := range files {
		if err := validateFile(file, signals); err != nil {
			invalid++
			fmt.Fprintf(output, "%s %s: %v\n", red("✗"), filepath.Base(file), err)
			continue
		}
		fmt.Fprintf(output, "%s %s\n", green("✓"), filepath.Base(file))
	}

	if invalid > 0 {
		return fmt.Errorf("%d of %d file(s) invalid", invalid, len(files))
	}
	fmt.Fprintf(output, "\nAll %d file(s) valid.\n", len(files))
	return nil
}

func validateFile(path string, signals bool) error {
	if signals {
		_, err := parser.ParseSignalsFile(path)
		return err
	}
	req, err := parser.ParseFile(path)
	if err != nil {
		return err
	}
	return req.Validate()
}
