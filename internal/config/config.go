package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// AnalysisConfig controls the size of the ranked outputs
type AnalysisConfig struct {
	// TopBlockers is how many ranked blockers a report shows
	TopBlockers int `yaml:"top_blockers"`

	// QuickWins is how many quick wins a report shows
	QuickWins int `yaml:"quick_wins"`

	// DefaultPageType is used when a request names no page type
	DefaultPageType string `yaml:"default_page_type"`
}

// CalibrationConfig represents calibration store configuration
type CalibrationConfig struct {
	// Enabled turns on calibration weights and analysis history
	Enabled bool `yaml:"enabled"`

	// DBPath is the SQLite database path; empty means $SIGNALSCOPE_HOME/calibration/signalscope.db
	DBPath string `yaml:"db_path"`

	// KeepHistoryDays is the number of days of analysis history to keep (0 = forever)
	KeepHistoryDays int `yaml:"keep_history_days"`
}

// ServerConfig represents HTTP API configuration
type ServerConfig struct {
	Addr         string        `yaml:"addr"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// Config represents signalscope configuration options
type Config struct {
	// LogLevel sets the logging verbosity (trace, debug, info, warn, error)
	LogLevel string `yaml:"log_level"`

	// LogDir is the directory where logs will be written
	LogDir string `yaml:"log_dir"`

	Analysis    AnalysisConfig    `yaml:"analysis"`
	Calibration CalibrationConfig `yaml:"calibration"`
	Server      ServerConfig      `yaml:"server"`
}

// DefaultConfig returns a Config with sensible default values
func DefaultConfig() *Config {
	return &Config{
		LogLevel: "info",
		LogDir:   ".signalscope/logs",
		Analysis: AnalysisConfig{
			TopBlockers:     3,
			QuickWins:       3,
			DefaultPageType: "landing",
		},
		Calibration: CalibrationConfig{
			Enabled:         true,
			DBPath:          "",
			KeepHistoryDays: 90,
		},
		Server: ServerConfig{
			Addr:         ":8080",
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
	}
}

// LoadConfig loads configuration from the specified file path
// If the file doesn't exist, returns default configuration without error
// If the file exists but is malformed, returns an error
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Durations are read as strings so "15s" style values parse
	type yamlServer struct {
		Addr         string `yaml:"addr"`
		ReadTimeout  string `yaml:"read_timeout"`
		WriteTimeout string `yaml:"write_timeout"`
	}
	type yamlConfig struct {
		LogLevel    string            `yaml:"log_level"`
		LogDir      string            `yaml:"log_dir"`
		Analysis    AnalysisConfig    `yaml:"analysis"`
		Calibration CalibrationConfig `yaml:"calibration"`
		Server      yamlServer        `yaml:"server"`
	}

	var yamlCfg yamlConfig
	if err := yaml.Unmarshal(data, &yamlCfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if yamlCfg.LogLevel != "" {
		cfg.LogLevel = yamlCfg.LogLevel
	}
	if yamlCfg.LogDir != "" {
		cfg.LogDir = yamlCfg.LogDir
	}

	if yamlCfg.Analysis.TopBlockers != 0 {
		cfg.Analysis.TopBlockers = yamlCfg.Analysis.TopBlockers
	}
	if yamlCfg.Analysis.QuickWins != 0 {
		cfg.Analysis.QuickWins = yamlCfg.Analysis.QuickWins
	}
	if yamlCfg.Analysis.DefaultPageType != "" {
		cfg.Analysis.DefaultPageType = yamlCfg.Analysis.DefaultPageType
	}

	if yamlCfg.Server.Addr != "" {
		cfg.Server.Addr = yamlCfg.Server.Addr
	}
	if yamlCfg.Server.ReadTimeout != "" {
		d, err := time.ParseDuration(yamlCfg.Server.ReadTimeout)
		if err != nil {
			return nil, fmt.Errorf("invalid server.read_timeout %q: %w", yamlCfg.Server.ReadTimeout, err)
		}
		cfg.Server.ReadTimeout = d
	}
	if yamlCfg.Server.WriteTimeout != "" {
		d, err := time.ParseDuration(yamlCfg.Server.WriteTimeout)
		if err != nil {
			return nil, fmt.Errorf("invalid server.write_timeout %q: %w", yamlCfg.Server.WriteTimeout, err)
		}
		cfg.Server.WriteTimeout = d
	}

	// Booleans and zero values in the calibration section are only applied
	// when the key is present, so "enabled: false" can switch it off.
	var rawMap map[string]interface{}
	if err := yaml.Unmarshal(data, &rawMap); err == nil {
		if section, exists := rawMap["calibration"]; exists && section != nil {
			calibration := yamlCfg.Calibration
			calibrationMap, _ := section.(map[string]interface{})

			if _, exists := calibrationMap["enabled"]; exists {
				cfg.Calibration.Enabled = calibration.Enabled
			}
			if _, exists := calibrationMap["db_path"]; exists {
				cfg.Calibration.DBPath = calibration.DBPath
			}
			if _, exists := calibrationMap["keep_history_days"]; exists {
				cfg.Calibration.KeepHistoryDays = calibration.KeepHistoryDays
			}
		}
	}

	return cfg, nil
}

// LoadConfigFromHome loads config.yaml from the signalscope home directory
func LoadConfigFromHome() (*Config, error) {
	home, err := GetHome()
	if err != nil {
		return nil, err
	}
	return LoadConfig(filepath.Join(home, "config.yaml"))
}

// MergeWithFlags merges CLI flags into the configuration
// Non-nil flag values override configuration values
func (c *Config) MergeWithFlags(logLevel *string, topBlockers *int, quickWins *int, dbPath *string, addr *string) {
	if logLevel != nil {
		c.LogLevel = *logLevel
	}
	if topBlockers != nil {
		c.Analysis.TopBlockers = *topBlockers
	}
	if quickWins != nil {
		c.Analysis.QuickWins = *quickWins
	}
	if dbPath != nil {
		c.Calibration.DBPath = *dbPath
	}
	if addr != nil {
		c.Server.Addr = *addr
	}
}

// Validate validates the configuration values
// Returns an error if any values are invalid
func (c *Config) Validate() error {
	validLevels := map[string]bool{
		"trace": true,
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[c.LogLevel] {
		return fmt.Errorf("invalid log_level %q, must be one of: trace, debug, info, warn, error", c.LogLevel)
	}

	if c.Analysis.TopBlockers < 1 || c.Analysis.TopBlockers > 10 {
		return fmt.Errorf("analysis.top_blockers must be between 1 and 10, got %d", c.Analysis.TopBlockers)
	}
	if c.Analysis.QuickWins < 1 || c.Analysis.QuickWins > 10 {
		return fmt.Errorf("analysis.quick_wins must be between 1 and 10, got %d", c.Analysis.QuickWins)
	}
	if c.Analysis.DefaultPageType == "" {
		return fmt.Errorf("analysis.default_page_type cannot be empty")
	}

	if c.Calibration.KeepHistoryDays < 0 {
		return fmt.Errorf("calibration.keep_history_days must be >= 0, got %d", c.Calibration.KeepHistoryDays)
	}

	if c.Server.ReadTimeout < 0 || c.Server.WriteTimeout < 0 {
		return fmt.Errorf("server timeouts must be >= 0")
	}

	return nil
}

// ResolveDBPath returns the configured database path, or the default under
// the signalscope home directory
func (c *Config) ResolveDBPath() (string, error) {
	if c.Calibration.DBPath != "" {
		return c.Calibration.DBPath, nil
	}
	return GetCalibrationDBPath()
}
