// ABOUTME: Standard filesystem paths for statusbar configuration
// ABOUTME: Resolves $XDG_CONFIG_HOME/statusbar, falling back to ~/.config/statusbar

package config

import (
	"os"
	"path/filepath"
)

const dirName = "statusbar"

// Dir returns the user config directory.
func Dir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, dirName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "."+dirName)
	}
	return filepath.Join(home, ".config", dirName)
}

// File returns the default config file path.
func File() string {
	return filepath.Join(Dir(), "config.yaml")
}

// DefaultOutput returns the PNG path used by the png surface when none is
// configured.
func DefaultOutput() string {
	return filepath.Join(os.TempDir(), "statusbar.png")
}
