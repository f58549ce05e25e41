package cmd

import (
	"github.com/spf13/cobra"
)

// Version is injected at build time via -ldflags
var Version = "dev"

// NewRootCommand creates and returns the root cobra command for signalscope
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "signalscope",
		Short: "Decision signal scoring and ranking for marketing pages",
		Long: `Signalscope scores marketing pages for trust, friction and clarity,
ranks the blockers that most hurt a visitor's decision, and picks a short
list of concrete quick wins.

Pages are described by attribute files (YAML or JSON) or Markdown page
snapshots. Optional ad and pricing evidence is merged into the landing
page's decision signals.

Configuration is loaded from $SIGNALSCOPE_HOME/config.yaml if present.
CLI flags override configuration file settings.`,
		Version: Version,
		// main prints the error; silence cobra's copy and the usage dump
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().String("config", "", "Path to config file (default: $SIGNALSCOPE_HOME/config.yaml)")
	cmd.PersistentFlags().String("log-level", "", "Log level: trace, debug, info, warn, error")
	cmd.PersistentFlags().String("log-dir", "", "Directory for run logs (\"-\" disables file logging)")
	cmd.PersistentFlags().String("db-path", "", "Path to the calibration database")

	cmd.AddCommand(NewAnalyzeCommand())
	cmd.AddCommand(NewMergeCommand())
	cmd.AddCommand(NewQuickWinsCommand())
	cmd.AddCommand(NewServeCommand())
	cmd.AddCommand(NewWatchCommand())
	cmd.AddCommand(NewHistoryCommand())
	cmd.AddCommand(NewCalibrationCommand())
	cmd.AddCommand(NewValidateCommand())

	return cmd
}
