package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harrison/signalscope/internal/analysis"
	"github.com/harrison/signalscope/internal/config"
	"github.com/harrison/signalscope/internal/learning"
	"github.com/harrison/signalscope/internal/logger"
)

// environment is the shared state a command runs with
type environment struct {
	cfg     *config.Config
	store   *learning.Store
	log     *multiLogger
	fileLog *logger.FileLogger
}

// changedString returns the flag value when the user set it, else nil
func changedString(cmd *cobra.Command, name string) *string {
	flag := cmd.Flags().Lookup(name)
	if flag == nil || !flag.Changed {
		return nil
	}
	v, _ := cmd.Flags().GetString(name)
	return &v
}

// changedInt returns the flag value when the user set it, else nil
func changedInt(cmd *cobra.Command, name string) *int {
	flag := cmd.Flags().Lookup(name)
	if flag == nil || !flag.Changed {
		return nil
	}
	v, _ := cmd.Flags().GetInt(name)
	return &v
}

// loadConfig reads the config file and applies flag overrides
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	var cfg *config.Config
	var err error

	configPath, _ := cmd.Flags().GetString("config")
	if configPath != "" {
		cfg, err = config.LoadConfig(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from %s: %w", configPath, err)
		}
	} else {
		cfg, err = config.LoadConfigFromHome()
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}

	cfg.MergeWithFlags(
		changedString(cmd, "log-level"),
		changedInt(cmd, "top"),
		changedInt(cmd, "quick-wins"),
		changedString(cmd, "db-path"),
		changedString(cmd, "addr"),
	)
	if logDir := changedString(cmd, "log-dir"); logDir != nil {
		cfg.LogDir = *logDir
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// setup loads configuration and builds the loggers. The calibration store
// is opened when the config enables it or requireStore is set.
func setup(cmd *cobra.Command, requireStore bool) (*environment, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	env := &environment{cfg: cfg}
	env.log = &multiLogger{console: logger.NewConsoleLogger(cmd.ErrOrStderr(), cfg.LogLevel)}

	if cfg.LogDir != "" && cfg.LogDir != "-" {
		fileLog, err := logger.NewFileLoggerWithDirAndLevel(cfg.LogDir, cfg.LogLevel)
		if err != nil {
			return nil, fmt.Errorf("failed to create file logger: %w", err)
		}
		env.fileLog = fileLog
		env.log.loggers = append(env.log.loggers, fileLog)
	}

	if cfg.Calibration.Enabled || requireStore {
		dbPath, err := cfg.ResolveDBPath()
		if err != nil {
			env.Close()
			return nil, fmt.Errorf("failed to get calibration database path: %w", err)
		}
		store, err := learning.NewStore(dbPath)
		if err != nil {
			env.Close()
			return nil, fmt.Errorf("open calibration store: %w", err)
		}
		env.store = store
	}

	return env, nil
}

// analyzer builds an Analyzer over the environment's store, if any
func (e *environment) analyzer(recordHistory bool) *analysis.Analyzer {
	var store analysis.Store
	if e.store != nil {
		store = e.store
	}
	return analysis.NewAnalyzer(store, e.log, analysis.Options{
		TopBlockers:     e.cfg.Analysis.TopBlockers,
		QuickWins:       e.cfg.Analysis.QuickWins,
		DefaultPageType: e.cfg.Analysis.DefaultPageType,
		RecordHistory:   recordHistory && e.store != nil,
		KeepHistoryDays: e.cfg.Calibration.KeepHistoryDays,
	})
}

// Close releases the store and the file logger
func (e *environment) Close() {
	if e.store != nil {
		e.store.Close()
	}
	if e.fileLog != nil {
		e.fileLog.Close()
	}
}
