package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// HomeEnv names the environment variable that overrides the home directory
const HomeEnv = "SIGNALSCOPE_HOME"

// GetHome returns the signalscope home directory
// Priority order:
//  1. SIGNALSCOPE_HOME environment variable (if set)
//  2. .signalscope under the current working directory
//
// The directory is created if it doesn't exist
func GetHome() (string, error) {
	if home := os.Getenv(HomeEnv); home != "" {
		if err := os.MkdirAll(home, 0755); err != nil {
			return "", fmt.Errorf("create signalscope home directory: %w", err)
		}
		return home, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get working directory: %w", err)
	}

	home := filepath.Join(cwd, ".signalscope")
	if err := os.MkdirAll(home, 0755); err != nil {
		return "", fmt.Errorf("create signalscope home directory: %w", err)
	}

	return home, nil
}

// GetCalibrationDBPath returns the default calibration database path
// Always returns: $SIGNALSCOPE_HOME/calibration/signalscope.db
func GetCalibrationDBPath() (string, error) {
	home, err := GetHome()
	if err != nil {
		return "", err
	}

	return filepath.Join(home, "calibration", "signalscope.db"), nil
}
