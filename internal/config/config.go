// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"unicode/utf8"

	"namecat/internal/nameparse"
	"namecat/internal/paths"
	"namecat/internal/phonetic"

	"gopkg.in/yaml.v3"
)

// Settings holds the options shared by the defaults block and profiles.
type Settings struct {
	Format             string   `yaml:"format"`
	Verbose            bool     `yaml:"verbose"`
	Debug              bool     `yaml:"debug"`
	NoColor            bool     `yaml:"no_color"`
	UnifyBySound       bool     `yaml:"unify_by_sound"`
	MergeWithReference bool     `yaml:"merge_with_reference"`
	DeclaredNamesFile  string   `yaml:"declared_names_file"`
	ReferenceNamesFile string   `yaml:"reference_names_file"`
	NameColumns        []string `yaml:"name_columns"`
	DeterminerColumns  []string `yaml:"determiner_columns"`
	PhoneticAlgorithm  string   `yaml:"phonetic_algorithm"`
}

// Config represents the application configuration
type Config struct {
	Defaults Settings `yaml:"defaults"`

	// ColumnCorrections rewrite whole column values before they are split
	// into names.
	ColumnCorrections []nameparse.Replacement `yaml:"column_corrections"`

	// NameCorrections rewrite individual names before parsing. Each must
	// preserve the length of the text it replaces.
	NameCorrections []nameparse.Replacement `yaml:"name_corrections"`

	// Profiles for different resolution scenarios
	Profiles map[string]Profile `yaml:"profiles"`
}

// Profile represents a named set of settings that override the defaults
type Profile struct {
	Settings    `yaml:",inline"`
	Description string `yaml:"description"`
}

// DefaultNameColumns are the data columns holding collector names.
var DefaultNameColumns = []string{"Collectors"}

// DefaultDeterminerColumns are the data columns holding determiner names.
var DefaultDeterminerColumns = []string{"Determiner"}

// LoadConfig loads configuration from the specified file path
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{
		Profiles: make(map[string]Profile),
	}

	config.Defaults.Format = "text"
	config.Defaults.NameColumns = DefaultNameColumns
	config.Defaults.DeterminerColumns = DefaultDeterminerColumns
	config.Defaults.PhoneticAlgorithm = string(phonetic.DefaultAlgorithm)

	config.Profiles["agents"] = Profile{
		Settings: Settings{
			Format:             "text",
			UnifyBySound:       true,
			MergeWithReference: true,
		},
		Description: "Full synonym report: unifies last names by sound and treats every reference name as a primary",
	}

	if configPath == "" {
		return config, nil
	}

	cleanPath := filepath.Clean(configPath)
	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	// An explicit empty list in the file would otherwise disable the columns.
	if len(config.Defaults.NameColumns) == 0 {
		config.Defaults.NameColumns = DefaultNameColumns
	}
	if len(config.Defaults.DeterminerColumns) == 0 && !containsField(data, "defaults", "determiner_columns") {
		config.Defaults.DeterminerColumns = DefaultDeterminerColumns
	}
	if config.Defaults.PhoneticAlgorithm == "" {
		config.Defaults.PhoneticAlgorithm = string(phonetic.DefaultAlgorithm)
	}

	ApplyPlatformDefaults(config)

	if err := ValidateConfig(config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// FindConfigFile looks for a configuration file in standard locations
func FindConfigFile() string {
	for _, name := range []string{"namecat.yaml", "namecat.yml", ".namecat.yaml", ".namecat.yml"} {
		if fileExists(name) {
			return name
		}
	}

	standardConfig := paths.GetConfigFile()
	if fileExists(standardConfig) {
		return standardConfig
	}

	if runtime.GOOS == "windows" {
		return ""
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	for _, name := range []string{".namecat.yaml", ".namecat.yml"} {
		homeConfig := filepath.Join(home, name)
		if fileExists(homeConfig) {
			return homeConfig
		}
	}
	return ""
}

// fileExists checks if a file exists and is not a directory
func fileExists(filename string) bool {
	info, err := os.Stat(filename)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// ListProfiles returns the available profile names in sorted order
func (c *Config) ListProfiles() []string {
	profiles := make([]string, 0, len(c.Profiles))
	for name := range c.Profiles {
		profiles = append(profiles, name)
	}
	sort.Strings(profiles)
	return profiles
}

// GetProfile returns a profile by name, or nil if not found
func (c *Config) GetProfile(name string) *Profile {
	if profile, exists := c.Profiles[name]; exists {
		return &profile
	}
	return nil
}

// containsField checks if a nested field exists in the YAML data
func containsField(data []byte, path ...string) bool {
	var yamlData map[string]interface{}
	if err := yaml.Unmarshal(data, &yamlData); err != nil {
		return false
	}

	current := yamlData
	for i, key := range path {
		if i == len(path)-1 {
			_, exists := current[key]
			return exists
		}
		next, ok := current[key].(map[string]interface{})
		if !ok {
			return false
		}
		current = next
	}
	return false
}

// ValidateConfig checks the settings, profiles and corrections
func ValidateConfig(config *Config) error {
	if config == nil {
		return fmt.Errorf("configuration cannot be nil")
	}

	if err := validateSettings(config.Defaults); err != nil {
		return fmt.Errorf("invalid defaults: %w", err)
	}
	for name, profile := range config.Profiles {
		if err := validateSettings(profile.Settings); err != nil {
			return fmt.Errorf("invalid profile '%s': %w", name, err)
		}
	}

	for i, c := range config.ColumnCorrections {
		if c.From == "" {
			return fmt.Errorf("column correction %d has an empty 'from'", i+1)
		}
	}
	for i, c := range config.NameCorrections {
		if c.From == "" {
			return fmt.Errorf("name correction %d has an empty 'from'", i+1)
		}
		if utf8.RuneCountInString(c.From) != utf8.RuneCountInString(c.To) {
			return fmt.Errorf("name correction %d ('%s' to '%s') changes the length of the name", i+1, c.From, c.To)
		}
	}
	return nil
}

func validateSettings(s Settings) error {
	if s.PhoneticAlgorithm != "" {
		if _, err := phonetic.NewEncoder(s.PhoneticAlgorithm); err != nil {
			return err
		}
	}
	for _, file := range []string{s.DeclaredNamesFile, s.ReferenceNamesFile} {
		if err := paths.ValidatePath(file); err != nil {
			return err
		}
	}
	return nil
}

// ApplyPlatformDefaults normalizes the file paths in the configuration
func ApplyPlatformDefaults(config *Config) {
	if config == nil {
		return
	}
	normalizeSettings(&config.Defaults)
	for name, profile := range config.Profiles {
		normalizeSettings(&profile.Settings)
		config.Profiles[name] = profile
	}
}

func normalizeSettings(s *Settings) {
	s.DeclaredNamesFile = paths.NormalizePath(s.DeclaredNamesFile)
	s.ReferenceNamesFile = paths.NormalizePath(s.ReferenceNamesFile)
}

// LoadConfigOrDefault loads configuration from configFile (or searches standard locations
// when configFile is empty). If loading fails, it returns a default configuration.
func LoadConfigOrDefault(configFile string) *Config {
	configPath := configFile
	if configPath == "" {
		configPath = FindConfigFile()
	}

	cfg, err := LoadConfig(configPath)
	if err != nil {
		cfg, _ = LoadConfig("")
	}
	return cfg
}
