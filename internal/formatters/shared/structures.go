// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package shared

import (
	"namecat/internal/formatters"
)

// JSONResponse represents the top-level response structure for JSON/YAML output
type JSONResponse struct {
	RunID             string          `json:"run_id,omitempty" yaml:"run_id,omitempty"`
	Source            string          `json:"source,omitempty" yaml:"source,omitempty"`
	Primaries         []JSONPrimary   `json:"primaries" yaml:"primaries"`
	Problems          []JSONProblem   `json:"problems,omitempty" yaml:"problems,omitempty"`
	BadReferenceNames []string        `json:"bad_reference_names,omitempty" yaml:"bad_reference_names,omitempty"`
	Stats             *JSONStatistics `json:"stats,omitempty" yaml:"stats,omitempty"`
}

// JSONName represents a single identity in JSON/YAML format
type JSONName struct {
	Name        string        `json:"name" yaml:"name"`
	Notes       []string      `json:"notes,omitempty" yaml:"notes,omitempty"`
	Occurrences *int          `json:"occurrences,omitempty" yaml:"occurrences,omitempty"`
	RawNames    []JSONRawName `json:"raw_names,omitempty" yaml:"raw_names,omitempty"`
}

// JSONRawName is source text behind an identity
type JSONRawName struct {
	Text string `json:"text" yaml:"text"`
	Note string `json:"note,omitempty" yaml:"note,omitempty"`
}

// JSONPrimary is a primary name with its variants
type JSONPrimary struct {
	JSONName `yaml:",inline"`
	Variants []JSONName `json:"variants,omitempty" yaml:"variants,omitempty"`
}

// JSONProblem is a parsing problem for one column of one row
type JSONProblem struct {
	Row      int      `json:"row" yaml:"row"`
	Column   string   `json:"column,omitempty" yaml:"column,omitempty"`
	Value    string   `json:"value" yaml:"value"`
	Errors   []string `json:"errors,omitempty" yaml:"errors,omitempty"`
	Warnings []string `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// JSONStatistics summarizes the run; only present in verbose output
type JSONStatistics struct {
	Records    int `json:"records" yaml:"records"`
	Identities int `json:"identities" yaml:"identities"`
	Primaries  int `json:"primaries" yaml:"primaries"`
}

// ConvertReportToJSONFormat converts a report to its JSON/YAML shape.
// Occurrence counts and statistics appear only in verbose mode.
func ConvertReportToJSONFormat(report *formatters.Report, options formatters.FormatterOptions) JSONResponse {
	response := JSONResponse{
		RunID:             report.RunID,
		Source:            report.Source,
		Primaries:         make([]JSONPrimary, 0, len(report.Primaries)),
		BadReferenceNames: report.BadReferenceNames,
	}

	for _, p := range report.Primaries {
		primary := JSONPrimary{JSONName: convertName(p.NameEntry, options)}
		for _, v := range p.Variants {
			primary.Variants = append(primary.Variants, convertName(v, options))
		}
		response.Primaries = append(response.Primaries, primary)
	}

	for _, p := range report.Problems {
		response.Problems = append(response.Problems, JSONProblem{
			Row:      p.Row,
			Column:   p.Column,
			Value:    p.Value,
			Errors:   p.Errors,
			Warnings: p.Warnings,
		})
	}

	if options.Verbose {
		response.Stats = &JSONStatistics{
			Records:    report.Stats.Records,
			Identities: report.Stats.Identities,
			Primaries:  report.Stats.Primaries,
		}
	}
	return response
}

func convertName(entry formatters.NameEntry, options formatters.FormatterOptions) JSONName {
	name := JSONName{
		Name:  entry.Name,
		Notes: entry.Notes,
	}
	if options.Verbose {
		occurrences := entry.Occurrences
		name.Occurrences = &occurrences
	}
	for _, raw := range entry.RawNames {
		name.RawNames = append(name.RawNames, JSONRawName{Text: raw.Text, Note: raw.Note})
	}
	return name
}
