package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/harrison/signalscope/internal/config"
	"github.com/harrison/signalscope/internal/quickwin"
)

// NewQuickWinsCommand creates the quickwins command
func NewQuickWinsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quickwins [candidates-file]",
		Short: "Select concrete, distinct quick wins from candidate actions",
		Long: `Read candidate actions, one per line, from a file or stdin and print the
ones that qualify as quick wins: concrete, at least five words, starting
with an action verb, and not overlapping an earlier pick. Candidates are
taken in priority order. Blank lines and lines starting with # are ignored.

Examples:
  signalscope quickwins actions.txt
  cat actions.txt | signalscope quickwins --target 5`,
		Args: cobra.MaximumNArgs(1),
		RunE: runQuickWins,
	}

	cmd.Flags().Int("target", config.DefaultConfig().Analysis.QuickWins, "Maximum number of quick wins")
	cmd.Flags().Bool("json", false, "Print the selection as a JSON array")

	return cmd
}

func runQuickWins(cmd *cobra.Command, args []string) error {
	target, _ := cmd.Flags().GetInt("target")
	asJSON, _ := cmd.Flags().GetBool("json")

	in := cmd.InOrStdin()
	if len(args) == 1 {
		file, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("failed to open candidates: %w", err)
		}
		defer file.Close()
		in = file
	}

	candidates, err := readCandidates(in)
	if err != nil {
		return err
	}

	picked := quickwin.Select(candidates, target)
	output := cmd.OutOrStdout()
	if asJSON {
		return writeJSON(output, picked)
	}
	if len(picked) == 0 {
		fmt.Fprintf(output, "No quick wins among %d candidate(s).\n", len(candidates))
		return nil
	}
	for i, action := range picked {
		fmt.Fprintf(output, "%d. %s\n", i+1, action)
	}
	return nil
}

func readCandidates(r io.Reader) ([]string, error) {
	var candidates []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		line = strings.TrimLeft(line, "-* ")
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		candidates = append(candidates, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read candidates: %w", err)
	}
	return candidates, nil
}
