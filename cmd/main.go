// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"namecat/internal/config"
	"namecat/internal/core"
	"namecat/internal/help"
	"namecat/internal/observability"
	"namecat/internal/version"

	"namecat/internal/formatters"
	_ "namecat/internal/formatters/csv"
	_ "namecat/internal/formatters/json"
	_ "namecat/internal/formatters/text"
	_ "namecat/internal/formatters/yaml"

	"go.uber.org/zap"
	"golang.org/x/term"
)

var (
	inputFile          = flag.String("file", "", "Path to the input CSV or text file")
	configFile         = flag.String("config", "", "Path to configuration file (YAML)")
	profileName        = flag.String("profile", "", "Profile name to use from config file")
	listProfiles       = flag.Bool("list-profiles", false, "List available profiles")
	outputFormat       = flag.String("format", "", "Output format: text, json, csv, yaml (default: text)")
	outputFile         = flag.String("output", "", "Path to output file (if not specified, output to stdout)")
	declaredFile       = flag.String("declared", "", "Declared names file")
	referenceFile      = flag.String("reference", "", "Reference names CSV")
	unifyBySound       = flag.Bool("unify-by-sound", false, "Rewrite similar-sounding last names to their dominant spelling")
	mergeWithReference = flag.Bool("merge-with-reference", false, "Treat every declared and reference name as a potential primary")
	verbose            = flag.Bool("verbose", false, "Include occurrence counts and statistics")
	debug              = flag.Bool("debug", false, "Trace each stage of the run to stderr")
	noColor            = flag.Bool("no-color", false, "Disable colored output")
	quiet              = flag.Bool("quiet", false, "Suppress progress output")
	showVersion        = flag.Bool("version", false, "Show version information")
	showHelp           = flag.Bool("help", false, "Show help information")
)

// loadConfiguration loads the configuration file or returns default config
func loadConfiguration(configPath string, stderr io.Writer) (*config.Config, string) {
	if configPath == "" {
		configPath = config.FindConfigFile()
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		fmt.Fprintf(stderr, "Warning: Error loading config file: %v\n", err)
		fmt.Fprintf(stderr, "Using default configuration\n")
		cfg, _ = config.LoadConfig("")
		configPath = ""
	}
	return cfg, configPath
}

// configFlags holds command line flag values
type configFlags struct {
	outputFormat       string
	declaredFile       string
	referenceFile      string
	unifyBySound       bool
	mergeWithReference bool
	verbose            bool
	debug              bool
	noColor            bool
}

// finalConfiguration holds resolved configuration values
type finalConfiguration struct {
	format             string
	declaredFile       string
	referenceFile      string
	unifyBySound       bool
	mergeWithReference bool
	verbose            bool
	debug              bool
	noColor            bool
	nameColumns        []string
	determinerColumns  []string
	phoneticAlgorithm  string
}

// resolveConfiguration layers the config defaults, the active profile and
// the flags that were set explicitly, in that order
func resolveConfiguration(cfg *config.Config, activeProfile *config.Profile, flags *configFlags, isSet func(string) bool) *finalConfiguration {
	final := &finalConfiguration{
		format:            "text",
		nameColumns:       config.DefaultNameColumns,
		determinerColumns: config.DefaultDeterminerColumns,
	}

	layers := []config.Settings{}
	if cfg != nil {
		layers = append(layers, cfg.Defaults)
	}
	if activeProfile != nil {
		layers = append(layers, activeProfile.Settings)
	}
	for _, s := range layers {
		if s.Format != "" {
			final.format = s.Format
		}
		if s.DeclaredNamesFile != "" {
			final.declaredFile = s.DeclaredNamesFile
		}
		if s.ReferenceNamesFile != "" {
			final.referenceFile = s.ReferenceNamesFile
		}
		if len(s.NameColumns) > 0 {
			final.nameColumns = s.NameColumns
		}
		// An explicit empty list disables the determiner columns.
		if s.DeterminerColumns != nil {
			final.determinerColumns = s.DeterminerColumns
		}
		if s.PhoneticAlgorithm != "" {
			final.phoneticAlgorithm = s.PhoneticAlgorithm
		}
		// Booleans in a profile only ever switch a behavior on.
		final.unifyBySound = final.unifyBySound || s.UnifyBySound
		final.mergeWithReference = final.mergeWithReference || s.MergeWithReference
		final.verbose = final.verbose || s.Verbose
		final.debug = final.debug || s.Debug
		final.noColor = final.noColor || s.NoColor
	}

	if isSet("format") && flags.outputFormat != "" {
		final.format = flags.outputFormat
	}
	if isSet("declared") {
		final.declaredFile = flags.declaredFile
	}
	if isSet("reference") {
		final.referenceFile = flags.referenceFile
	}
	if isSet("unify-by-sound") {
		final.unifyBySound = flags.unifyBySound
	}
	if isSet("merge-with-reference") {
		final.mergeWithReference = flags.mergeWithReference
	}
	if isSet("verbose") {
		final.verbose = flags.verbose
	}
	if isSet("debug") {
		final.debug = flags.debug
	}
	if isSet("no-color") {
		final.noColor = flags.noColor
	}
	return final
}

// handleProfiles returns the selected profile, or nil when none was requested
func handleProfiles(cfg *config.Config, profile string) (*config.Profile, error) {
	if profile == "" {
		return nil, nil
	}
	activeProfile := cfg.GetProfile(profile)
	if activeProfile == nil {
		return nil, fmt.Errorf("profile '%s' not found; available profiles: %s", profile, strings.Join(cfg.ListProfiles(), ", "))
	}
	return activeProfile, nil
}

func printProfiles(cfg *config.Config, stdout io.Writer) {
	fmt.Fprintln(stdout, "Available profiles:")
	for _, name := range cfg.ListProfiles() {
		profile := cfg.GetProfile(name)
		if profile != nil && profile.Description != "" {
			fmt.Fprintf(stdout, "  - %s: %s\n", name, profile.Description)
		} else {
			fmt.Fprintf(stdout, "  - %s\n", name)
		}
	}
}

// writeOutput writes the rendered report to path, or to stdout when path is
// empty
func writeOutput(path, content string, stdout io.Writer) error {
	if path == "" {
		_, err := fmt.Fprintln(stdout, content)
		return err
	}

	cleanOutputPath := filepath.Clean(path)
	if strings.Contains(path, "..") {
		return fmt.Errorf("path traversal not allowed in output path: %s", path)
	}
	if dir := filepath.Dir(cleanOutputPath); dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("error creating output directory: %w", err)
		}
	}
	if err := os.WriteFile(cleanOutputPath, []byte(content+"\n"), 0600); err != nil {
		return fmt.Errorf("error writing to output file: %w", err)
	}
	return nil
}

func isFlagSet(name string) bool {
	found := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

func main() {
	flag.Parse()
	os.Exit(run(os.Stdout, os.Stderr))
}

func run(stdout, stderr io.Writer) int {
	// Colors are only useful on a terminal
	isInteractive := isTerminal(os.Stdout)
	if !isInteractive || *quiet || os.Getenv("NO_COLOR") != "" {
		*noColor = true
	}

	if *showVersion {
		fmt.Fprintln(stdout, version.Info())
		return 0
	}

	if *showHelp {
		helpSystem := help.NewSystem(stdout, *noColor)
		switch topic := flag.Arg(0); topic {
		case "":
			helpSystem.ShowGeneralHelp()
		case "topics":
			helpSystem.ShowTopicsHelp()
		default:
			if !helpSystem.ShowTopicHelp(topic) {
				return 1
			}
		}
		return 0
	}

	cfg, foundConfig := loadConfiguration(*configFile, stderr)

	if *listProfiles {
		if foundConfig == "" {
			fmt.Fprintln(stdout, "No configuration file found. Only built-in profiles are available.")
		}
		printProfiles(cfg, stdout)
		return 0
	}

	activeProfile, err := handleProfiles(cfg, *profileName)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	final := resolveConfiguration(cfg, activeProfile, &configFlags{
		outputFormat:       *outputFormat,
		declaredFile:       *declaredFile,
		referenceFile:      *referenceFile,
		unifyBySound:       *unifyBySound,
		mergeWithReference: *mergeWithReference,
		verbose:            *verbose,
		debug:              *debug,
		noColor:            *noColor,
	}, isFlagSet)

	if *inputFile == "" {
		fmt.Fprintln(stderr, "Error: --file is required")
		fmt.Fprintln(stderr, "Use 'namecat --help' for usage information.")
		return 1
	}
	if _, exists := formatters.Get(final.format); !exists {
		fmt.Fprintf(stderr, "Error: unsupported format '%s'. Available formats: %s\n", final.format, strings.Join(formatters.List(), ", "))
		return 1
	}

	observer := observability.NewStandardObserver(observability.ObservabilityOff, nil)
	if final.debug {
		debugObs := observability.NewDebugObserver(stderr)
		observer = debugObs.StandardObserver
		observer.Logger().Info("namecat starting", version.Fields()...)
		debugObs.LogDetail("main", fmt.Sprintf("Command line arguments: %v", os.Args))
		if foundConfig != "" {
			debugObs.LogDetail("main", "Configuration file: "+foundConfig)
		}
		if activeProfile != nil {
			debugObs.LogDetail("main", "Profile: "+*profileName)
		}
	}
	defer observer.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	showProgress := !*quiet && !final.debug && isTerminal(os.Stderr)
	if showProgress {
		fmt.Fprintf(stderr, "Resolving names in %s...\n", *inputFile)
	}

	result, err := core.Resolve(ctx, core.ResolveConfig{
		FilePath:           *inputFile,
		DeclaredNamesFile:  final.declaredFile,
		ReferenceNamesFile: final.referenceFile,
		NameColumns:        final.nameColumns,
		DeterminerColumns:  final.determinerColumns,
		ColumnCorrections:  cfg.ColumnCorrections,
		NameCorrections:    cfg.NameCorrections,
		UnifyBySound:       final.unifyBySound,
		MergeWithReference: final.mergeWithReference,
		PhoneticAlgorithm:  final.phoneticAlgorithm,
		Observer:           observer,
	})
	if err != nil {
		observer.Logger().Error("resolution failed", zap.Error(err))
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	if showProgress {
		fmt.Fprintf(stderr, "Resolved %d names into %d primaries from %d records\n",
			result.Catalog.CountIdentities(), result.Catalog.CountPrimaries(), result.Records)
	}

	report := core.BuildReport(result, observer.RunID(), *inputFile)
	finishFormat := observer.StartTiming("formatter", "format", final.format)
	content, err := formatters.Export(final.format, report, formatters.FormatterOptions{
		Verbose: final.verbose,
		NoColor: final.noColor || *outputFile != "",
	})
	finishFormat(err == nil, map[string]interface{}{"primaries": len(report.Primaries)})
	if err != nil {
		fmt.Fprintf(stderr, "Error formatting results: %v\n", err)
		return 1
	}

	if err := writeOutput(*outputFile, content, stdout); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}
