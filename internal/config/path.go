// Package config loads the settings of the offers desk.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ConfigDir is where config.yaml is looked up first: ~/.config/offers.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".config", "offers"), nil
}

// ExpandPath resolves $VARS and a leading ~ in a configured path.
func ExpandPath(path string) string {
	path = os.ExpandEnv(path)
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
