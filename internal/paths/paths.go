// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package paths

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// ConfigDirEnv overrides the configuration directory on every platform.
const ConfigDirEnv = "NAMECAT_CONFIG_DIR"

// GetConfigDir returns the namecat configuration directory. Uses APPDATA on
// Windows and the XDG config directory elsewhere.
func GetConfigDir() string {
	if dir := os.Getenv(ConfigDirEnv); dir != "" {
		return dir
	}
	if runtime.GOOS == "windows" {
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "namecat")
		}
	}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "namecat")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "namecat")
	}
	return filepath.Join(home, ".config", "namecat")
}

// GetConfigFile returns the path to the main config file
func GetConfigFile() string {
	return filepath.Join(GetConfigDir(), "config.yaml")
}

// NormalizePath cleans a path and converts its separators for the current
// platform.
func NormalizePath(path string) string {
	if path == "" {
		return ""
	}
	if runtime.GOOS == "windows" {
		path = strings.ReplaceAll(path, "/", `\`)
	}
	return filepath.Clean(path)
}

// ValidatePath validates a path for the current platform
func ValidatePath(path string) error {
	if path == "" {
		return nil
	}
	if runtime.GOOS == "windows" {
		return validateWindowsPath(path)
	}
	return validateUnixPath(path)
}

func validateWindowsPath(path string) error {
	for i, char := range path {
		switch char {
		case '<', '>', '"', '|', '?', '*':
			return &PathValidationError{Path: path, Reason: "contains invalid character: " + string(char)}
		case ':':
			// Drive letter, as in C:
			if i == 1 {
				continue
			}
			return &PathValidationError{Path: path, Reason: "contains invalid character: :"}
		}
	}
	if len(path) > 32767 {
		return &PathValidationError{Path: path, Reason: "path exceeds maximum length of 32,767 characters"}
	}
	return nil
}

func validateUnixPath(path string) error {
	if strings.ContainsRune(path, 0) {
		return &PathValidationError{Path: path, Reason: "contains null byte"}
	}
	return nil
}

// PathValidationError represents a path validation error
type PathValidationError struct {
	Path   string
	Reason string
}

func (e *PathValidationError) Error() string {
	return "invalid path '" + e.Path + "': " + e.Reason
}
