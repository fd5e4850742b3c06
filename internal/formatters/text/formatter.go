// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package text

import (
	"fmt"
	"strings"

	"namecat/internal/formatters"

	"github.com/fatih/color"
)

const (
	// lineWidth bounds the width of column listings.
	lineWidth = 88

	// nameWidth is the width names are padded to before their notes.
	nameWidth = 24
)

// Formatter implements text-based output formatting
type Formatter struct {
	colors map[string]*color.Color
}

// NewFormatter creates a new text formatter
func NewFormatter() *Formatter {
	return &Formatter{
		colors: map[string]*color.Color{
			"green":  color.New(color.FgGreen),
			"yellow": color.New(color.FgYellow),
			"red":    color.New(color.FgRed),
			"cyan":   color.New(color.FgCyan),
			"blue":   color.New(color.FgBlue),
			"white":  color.New(color.FgWhite, color.Bold),
		},
	}
}

func (f *Formatter) Name() string {
	return "text"
}

func (f *Formatter) Description() string {
	return "Human-readable synonym report with colors"
}

func (f *Formatter) FileExtension() string {
	return ".txt"
}

func (f *Formatter) Format(report *formatters.Report, options formatters.FormatterOptions) (string, error) {
	if report == nil {
		return "", fmt.Errorf("no report to format")
	}

	// Disable colors if requested
	if options.NoColor {
		color.NoColor = true
	}

	var builder strings.Builder
	f.appendNames(&builder, report, options)
	f.appendProblems(&builder, report, options)
	f.appendBadReferenceNames(&builder, report, options)
	if options.Verbose {
		f.appendStats(&builder, report, options)
	}
	return builder.String(), nil
}

// paint applies the named color unless colors are disabled
func (f *Formatter) paint(name, s string, options formatters.FormatterOptions) string {
	if options.NoColor {
		return s
	}
	return f.colors[name].Sprint(s)
}

func (f *Formatter) appendNames(builder *strings.Builder, report *formatters.Report, options formatters.FormatterOptions) {
	builder.WriteString(f.paint("white", "---- collectors & determiners ----", options))
	builder.WriteString("\n\n(based on an analysis of all names in the data)\n\n")

	for _, p := range report.Primaries {
		f.appendName(builder, f.paint("cyan", p.Name, options), p.Name, p.Notes, p.Occurrences, options)
		f.appendRawNames(builder, p.RawNames, options)
		for _, v := range p.Variants {
			line := "- " + v.Name
			f.appendName(builder, line, line, v.Notes, v.Occurrences, options)
			f.appendRawNames(builder, v.RawNames, options)
		}
	}

	builder.WriteString("\n")
	if report.HasVariants() {
		builder.WriteString("- indicates a synonymous variant of the primary name\n")
	}
	if report.HasRawNames() {
		builder.WriteString("[name] indicates raw source text, though shown space-normalized\n")
	}
}

// appendName writes one name line. plain is the uncolored text, used for
// padding so that escape codes do not skew the alignment.
func (f *Formatter) appendName(builder *strings.Builder, shown, plain string, notes []string, occurrences int, options formatters.FormatterOptions) {
	if options.Verbose {
		notes = append(append([]string(nil), notes...), fmt.Sprintf("%d occurrences", occurrences))
	}
	builder.WriteString(shown)
	if len(notes) > 0 {
		if pad := nameWidth - len([]rune(plain)); pad > 0 {
			builder.WriteString(strings.Repeat(" ", pad))
		}
		builder.WriteString(" ")
		builder.WriteString(f.paint("blue", "("+strings.Join(notes, "; ")+")", options))
	}
	builder.WriteString("\n")
}

func (f *Formatter) appendRawNames(builder *strings.Builder, raws []formatters.RawName, options formatters.FormatterOptions) {
	for _, raw := range raws {
		var notes []string
		if raw.Note != "" {
			notes = []string{raw.Note}
		}
		line := "  [" + raw.Text + "]"
		f.appendName(builder, f.paint("yellow", line, options), line, notes, 0, formatters.FormatterOptions{NoColor: options.NoColor})
	}
}

func (f *Formatter) appendProblems(builder *strings.Builder, report *formatters.Report, options formatters.FormatterOptions) {
	errorRecords := f.appendIssues(builder, "Errors", report.Problems, func(p formatters.RecordProblem) []string { return p.Errors }, options)
	if errorRecords == 0 {
		builder.WriteString(f.paint("green", "No name parsing errors found.", options) + "\n")
	} else {
		fmt.Fprintf(builder, "\n  Found name parsing errors in %d records\n", errorRecords)
	}

	warningRecords := f.appendIssues(builder, "Warnings", report.Problems, func(p formatters.RecordProblem) []string { return p.Warnings }, options)
	if warningRecords == 0 {
		builder.WriteString(f.paint("green", "No name parsing warnings found.", options) + "\n")
	} else {
		fmt.Fprintf(builder, "\n  Found name parsing warnings in %d records\n", warningRecords)
	}
}

// appendIssues writes one section of issues and returns the number of
// distinct rows that had any.
func (f *Formatter) appendIssues(builder *strings.Builder, kind string, problems []formatters.RecordProblem, issues func(formatters.RecordProblem) []string, options formatters.FormatterOptions) int {
	builder.WriteString("\n")
	builder.WriteString(f.paint("white", fmt.Sprintf("==== %s Parsing Names ====", kind), options))
	builder.WriteString("\n\n")

	issueColor := "red"
	if kind == "Warnings" {
		issueColor = "yellow"
	}

	rows := make(map[int]bool)
	for _, p := range problems {
		list := issues(p)
		if len(list) == 0 {
			continue
		}
		rows[p.Row] = true
		location := fmt.Sprintf("row %d", p.Row)
		if p.Column != "" {
			location += ", " + p.Column
		}
		fmt.Fprintf(builder, "%s: %s\n", location, p.Value)
		for _, issue := range list {
			builder.WriteString("  ")
			builder.WriteString(f.paint(issueColor, issue, options))
			builder.WriteString("\n")
		}
	}
	return len(rows)
}

func (f *Formatter) appendBadReferenceNames(builder *strings.Builder, report *formatters.Report, options formatters.FormatterOptions) {
	if len(report.BadReferenceNames) == 0 {
		return
	}
	builder.WriteString("\n")
	builder.WriteString(f.paint("white", "---- Reference names that failed to parse ----", options))
	builder.WriteString("\n\n")
	builder.WriteString(Columns(report.BadReferenceNames, lineWidth))
}

func (f *Formatter) appendStats(builder *strings.Builder, report *formatters.Report, options formatters.FormatterOptions) {
	builder.WriteString("\n")
	builder.WriteString(f.paint("white", "---- statistics ----", options))
	builder.WriteString("\n\n")
	fmt.Fprintf(builder, "records:    %d\n", report.Stats.Records)
	fmt.Fprintf(builder, "identities: %d\n", report.Stats.Identities)
	fmt.Fprintf(builder, "primaries:  %d\n", report.Stats.Primaries)
}

// Columns lays messages out column-major in as many " | "-separated
// columns as fit within width.
func Columns(messages []string, width int) string {
	maxWidth := 0
	for _, m := range messages {
		if n := len([]rune(m)); n > maxWidth {
			maxWidth = n
		}
	}

	var builder strings.Builder
	columnCount := (width + 3) / (maxWidth + 3)
	if columnCount <= 1 {
		for _, m := range messages {
			builder.WriteString(m)
			builder.WriteString("\n")
		}
		return builder.String()
	}

	lineCount := (len(messages) + columnCount - 1) / columnCount
	for i := 0; i < lineCount; i++ {
		var cells []string
		for j := i; j < len(messages); j += lineCount {
			cells = append(cells, messages[j]+strings.Repeat(" ", maxWidth-len([]rune(messages[j]))))
		}
		builder.WriteString(strings.TrimRight(strings.Join(cells, " | "), " "))
		builder.WriteString("\n")
	}
	return builder.String()
}

// Register the formatter during package initialization
func init() {
	formatters.Register(NewFormatter())
}
