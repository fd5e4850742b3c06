// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package formatters

import (
	"fmt"
	"sort"
	"strings"
)

// Notes attached to raw source text in a report.
const (
	NoteAutocorrected      = "phonetically autocorrected last name"
	NoteLexicallyModified  = "lexically altered name"
	NoteDeclaredCorrection = "declared name correction"
	NoteNotInData          = "not in data"
)

// FormatterOptions defines configuration options for formatters
type FormatterOptions struct {
	Verbose bool // Whether to include occurrence counts and statistics
	NoColor bool // Whether to disable colored output
}

// Report is the consolidated view of the names found in one data set.
type Report struct {
	RunID  string
	Source string

	// Primaries are sorted case-insensitively by name.
	Primaries []PrimaryEntry

	Problems          []RecordProblem
	BadReferenceNames []string
	Stats             Stats
}

// NameEntry is one identity in the report.
type NameEntry struct {
	Name        string
	Notes       []string
	Occurrences int
	// RawNames lists the source text that differs from Name.
	RawNames []RawName
}

// RawName is source text from which an identity was parsed.
type RawName struct {
	Text string
	Note string
}

// PrimaryEntry is a primary name and the variants consolidated under it,
// sorted by name.
type PrimaryEntry struct {
	NameEntry
	Variants []NameEntry
}

// RecordProblem collects the errors and warnings raised while parsing one
// column of one input row.
type RecordProblem struct {
	Row      int
	Column   string
	Value    string
	Errors   []string
	Warnings []string
}

// Stats summarizes a run.
type Stats struct {
	Records    int
	Identities int
	Primaries  int
}

// HasVariants reports whether any primary has a variant.
func (r *Report) HasVariants() bool {
	for _, p := range r.Primaries {
		if len(p.Variants) > 0 {
			return true
		}
	}
	return false
}

// HasRawNames reports whether any listed identity shows raw source text.
func (r *Report) HasRawNames() bool {
	for _, p := range r.Primaries {
		if len(p.RawNames) > 0 {
			return true
		}
		for _, v := range p.Variants {
			if len(v.RawNames) > 0 {
				return true
			}
		}
	}
	return false
}

// Formatter interface defines methods that all output formatters must implement
type Formatter interface {
	// Format renders the report in the formatter's output format
	Format(report *Report, options FormatterOptions) (string, error)

	// Name returns the name of the formatter (e.g., "json", "text", "csv")
	Name() string

	// Description returns a brief description of what this formatter outputs
	Description() string

	// FileExtension returns the recommended file extension for this format (e.g., ".json", ".txt", ".csv")
	FileExtension() string
}

// Registry holds all registered formatters
type Registry struct {
	formatters map[string]Formatter
}

// NewRegistry creates a new formatter registry
func NewRegistry() *Registry {
	return &Registry{
		formatters: make(map[string]Formatter),
	}
}

// Register adds a formatter to the registry
func (r *Registry) Register(formatter Formatter) {
	r.formatters[formatter.Name()] = formatter
}

// Get retrieves a formatter by name
func (r *Registry) Get(name string) (Formatter, bool) {
	formatter, exists := r.formatters[name]
	return formatter, exists
}

// List returns all registered formatter names, sorted
func (r *Registry) List() []string {
	names := make([]string, 0, len(r.formatters))
	for name := range r.formatters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// FormatInfo provides metadata about a formatter
type FormatInfo struct {
	Name        string
	Description string
	Extension   string
	MimeType    string
}

// DefaultRegistry is the global formatter registry
var DefaultRegistry = NewRegistry()

// Register is a convenience function to register a formatter with the default registry
func Register(formatter Formatter) {
	DefaultRegistry.Register(formatter)
}

// Get is a convenience function to get a formatter from the default registry
func Get(name string) (Formatter, bool) {
	return DefaultRegistry.Get(name)
}

// List is a convenience function to list all formatters in the default registry
func List() []string {
	return DefaultRegistry.List()
}

// Export renders report with the named formatter
func Export(format string, report *Report, options FormatterOptions) (string, error) {
	formatter, exists := Get(format)
	if !exists {
		return "", fmt.Errorf("unsupported format '%s'. Available formats: %s", format, strings.Join(List(), ", "))
	}
	return formatter.Format(report, options)
}

// GetFormatInfo returns metadata about a specific formatter
func GetFormatInfo(name string) FormatInfo {
	formatter, exists := Get(name)
	if !exists {
		return FormatInfo{}
	}

	info := FormatInfo{
		Name:        formatter.Name(),
		Description: formatter.Description(),
		Extension:   formatter.FileExtension(),
	}

	switch name {
	case "json":
		info.MimeType = "application/json"
	case "csv":
		info.MimeType = "text/csv"
	case "yaml":
		info.MimeType = "application/x-yaml"
	case "text":
		info.MimeType = "text/plain"
	default:
		info.MimeType = "application/octet-stream"
	}

	return info
}

// GetSupportedFormats returns information about all available formatters
func GetSupportedFormats() []FormatInfo {
	var formats []FormatInfo
	for _, name := range List() {
		formats = append(formats, GetFormatInfo(name))
	}
	return formats
}
