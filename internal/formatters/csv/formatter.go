// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package csv

import (
	"fmt"
	"strconv"
	"strings"

	"namecat/internal/formatters"
)

// Formatter implements CSV output formatting
type Formatter struct{}

// NewFormatter creates a new CSV formatter
func NewFormatter() *Formatter {
	return &Formatter{}
}

func (f *Formatter) Name() string {
	return "csv"
}

func (f *Formatter) Description() string {
	return "One row per name with its primary, for spreadsheet import"
}

func (f *Formatter) FileExtension() string {
	return ".csv"
}

func (f *Formatter) Format(report *formatters.Report, options formatters.FormatterOptions) (string, error) {
	if report == nil {
		return "", fmt.Errorf("no report to format")
	}

	headers := []string{"Primary", "Name", "Role", "Notes", "Raw Names"}
	if options.Verbose {
		headers = append(headers, "Occurrences")
	}
	csvRows := []string{strings.Join(headers, ",")}

	for _, p := range report.Primaries {
		csvRows = append(csvRows, f.createCSVRow(p.Name, p.NameEntry, "primary", options))
		for _, v := range p.Variants {
			csvRows = append(csvRows, f.createCSVRow(p.Name, v, "variant", options))
		}
	}

	return strings.Join(csvRows, "\n"), nil
}

// createCSVRow creates a CSV row for one identity
func (f *Formatter) createCSVRow(primary string, entry formatters.NameEntry, role string, options formatters.FormatterOptions) string {
	raws := make([]string, 0, len(entry.RawNames))
	for _, raw := range entry.RawNames {
		if raw.Note != "" {
			raws = append(raws, fmt.Sprintf("%s (%s)", raw.Text, raw.Note))
		} else {
			raws = append(raws, raw.Text)
		}
	}

	row := []string{
		f.escapeCSVField(primary),
		f.escapeCSVField(entry.Name),
		role,
		f.escapeCSVField(strings.Join(entry.Notes, "; ")),
		f.escapeCSVField(strings.Join(raws, " | ")),
	}
	if options.Verbose {
		row = append(row, strconv.Itoa(entry.Occurrences))
	}
	return strings.Join(row, ",")
}

// escapeCSVField properly escapes a field for CSV format and prevents CSV injection
func (f *Formatter) escapeCSVField(field string) string {
	field = f.sanitizeFormulaInjection(field)

	if strings.ContainsAny(field, ",\"\n\r") {
		escaped := strings.ReplaceAll(field, "\"", "\"\"")
		return fmt.Sprintf("\"%s\"", escaped)
	}
	return field
}

// sanitizeFormulaInjection prefixes fields that a spreadsheet would treat as a formula
func (f *Formatter) sanitizeFormulaInjection(field string) string {
	if len(field) == 0 {
		return field
	}

	switch field[0] {
	case '=', '+', '-', '@':
		return "'" + field
	}
	return field
}

// Register the formatter during package initialization
func init() {
	formatters.Register(NewFormatter())
}
