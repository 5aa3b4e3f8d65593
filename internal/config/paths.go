package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ConfigDirName is the per-user configuration directory under $HOME.
const ConfigDirName = ".opsartisan"

// SystemTemplatesDir is the system-wide template bundle location.
const SystemTemplatesDir = "/usr/share/opsartisan/templates"

// GetConfigFile returns the default config file path (~/.opsartisan/config.yaml).
func GetConfigFile() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ConfigDirName, "config.yaml"), nil
}

// DefaultTemplateDirs returns the template search path, highest priority
// first: project-local, per-user, system-wide.
func DefaultTemplateDirs() []string {
	dirs := []string{"./templates"}
	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, filepath.Join(home, ConfigDirName, "templates"))
	}
	dirs = append(dirs, SystemTemplatesDir)
	return dirs
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}

	if path == "~" {
		return home, nil
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~/")), nil
}
