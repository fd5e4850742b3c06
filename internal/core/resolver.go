// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package core runs a resolution: it loads the declared names, parses the
// name columns of the input, and consolidates the names found.
package core

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"namecat/internal/catalog"
	"namecat/internal/declared"
	"namecat/internal/formatters"
	"namecat/internal/nameparse"
	"namecat/internal/observability"
	"namecat/internal/phonetic"
)

// ResolveConfig holds configuration for a resolution run.
type ResolveConfig struct {
	FilePath string
	// Input is read instead of opening FilePath when non-nil.
	Input io.Reader
	// InputFormat is InputCSV or InputText. Empty selects by FilePath.
	InputFormat string

	DeclaredNamesFile  string
	ReferenceNamesFile string
	// Table is used instead of loading the two files when non-nil.
	Table *declared.Table

	NameColumns       []string
	DeterminerColumns []string
	ColumnCorrections []nameparse.Replacement
	NameCorrections   []nameparse.Replacement

	UnifyBySound       bool
	MergeWithReference bool
	PhoneticAlgorithm  string

	// Observer receives stage timings. Nil disables them.
	Observer *observability.StandardObserver
	// CurrentYear bounds determination years. Zero means this year.
	CurrentYear int
}

// Result holds the outcome of a resolution.
type Result struct {
	Catalog           *catalog.Catalog
	Table             *declared.Table
	Records           int
	Problems          []formatters.RecordProblem
	BadReferenceNames []string
}

// Resolve parses every name in the input and consolidates them.
func Resolve(ctx context.Context, cfg ResolveConfig) (*Result, error) {
	observer := cfg.Observer
	if observer == nil {
		observer = observability.NewStandardObserver(observability.ObservabilityOff, nil)
	}

	coder := phonetic.DefaultEncoder()
	if cfg.PhoneticAlgorithm != "" {
		var err error
		if coder, err = phonetic.NewEncoder(cfg.PhoneticAlgorithm); err != nil {
			return nil, err
		}
	}

	table, err := loadTable(cfg, observer)
	if err != nil {
		return nil, err
	}

	records, err := readInput(cfg, observer)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Catalog:           catalog.New(table),
		Table:             table,
		Records:           len(records),
		BadReferenceNames: table.BadReferenceNames(),
	}

	currentYear := cfg.CurrentYear
	if currentYear == 0 {
		currentYear = time.Now().Year()
	}
	opts := nameparse.ColumnOptions{
		Oracle:            table,
		ExpandDelimiters:  true,
		ColumnCorrections: cfg.ColumnCorrections,
		NameCorrections:   cfg.NameCorrections,
	}

	finishParse := observer.StartTiming("resolver", "parse_names", cfg.FilePath)
	identities := 0
	for _, rec := range records {
		if err := ctx.Err(); err != nil {
			finishParse(false, map[string]interface{}{"error": err.Error()})
			return nil, err
		}
		for _, value := range rec.values {
			identities += result.parseValue(rec.row, value, opts, currentYear)
		}
	}
	finishParse(true, map[string]interface{}{
		"records":    len(records),
		"identities": identities,
		"problems":   len(result.Problems),
	})
	if observer.DebugObserver != nil {
		observer.DebugObserver.LogMetric("resolver", "identities_parsed", identities)
	}

	finishConsolidate := observer.StartTiming("catalog", "consolidate", cfg.FilePath)
	result.Catalog.CorrectAndConsolidate(catalog.Options{
		UnifyBySound:       cfg.UnifyBySound,
		MergeWithReference: cfg.MergeWithReference,
		Coder:              coder,
	})
	finishConsolidate(true, map[string]interface{}{
		"identities": result.Catalog.CountIdentities(),
		"primaries":  result.Catalog.CountPrimaries(),
		"algorithm":  string(coder.Algorithm()),
	})

	return result, nil
}

// parseValue parses one column value into the catalog and records its
// problems. It returns the number of identities added.
func (r *Result) parseValue(row int, value columnValue, opts nameparse.ColumnOptions, currentYear int) int {
	problem := formatters.RecordProblem{Row: row, Column: value.column, Value: value.text}
	defer func() {
		if len(problem.Errors) > 0 || len(problem.Warnings) > 0 {
			r.Problems = append(r.Problems, problem)
		}
	}()

	text := value.text
	if value.determiner {
		text, _ = SplitDeterminerYear(text, currentYear)
		if err := unexpectedNumbers(text); err != nil {
			problem.Errors = append(problem.Errors, err.Error())
			return 0
		}
	}

	parsed := nameparse.ParseColumn(text, opts)
	problem.Errors = append(problem.Errors, parsed.Errors...)
	problem.Warnings = append(problem.Warnings, parsed.Warnings...)
	for _, ident := range parsed.Identities {
		r.Catalog.Add(ident)
	}
	return len(parsed.Identities)
}

func loadTable(cfg ResolveConfig, observer *observability.StandardObserver) (*declared.Table, error) {
	if cfg.Table != nil {
		return cfg.Table, nil
	}

	table := declared.New()
	if cfg.DeclaredNamesFile != "" {
		finish := observer.StartTiming("declared", "load_declared", cfg.DeclaredNamesFile)
		if err := table.LoadDeclaredFile(cfg.DeclaredNamesFile); err != nil {
			finish(false, map[string]interface{}{"error": err.Error()})
			return nil, err
		}
		finish(true, map[string]interface{}{"groups": len(table.GroupNames())})
	}
	if cfg.ReferenceNamesFile != "" {
		finish := observer.StartTiming("declared", "load_references", cfg.ReferenceNamesFile)
		if err := table.LoadReferencesFile(cfg.ReferenceNamesFile); err != nil {
			finish(false, map[string]interface{}{"error": err.Error()})
			return nil, err
		}
		finish(true, map[string]interface{}{"bad_names": len(table.BadReferenceNames())})
	}
	return table, nil
}

func readInput(cfg ResolveConfig, observer *observability.StandardObserver) ([]record, error) {
	finish := observer.StartTiming("resolver", "read_input", cfg.FilePath)

	input := cfg.Input
	if input == nil {
		file, err := os.Open(cfg.FilePath)
		if err != nil {
			finish(false, map[string]interface{}{"error": err.Error()})
			return nil, fmt.Errorf("error opening input: %w", err)
		}
		defer file.Close()
		input = file
	}

	format := cfg.InputFormat
	if format == "" {
		format = DetectInputFormat(cfg.FilePath)
	}

	var records []record
	var err error
	switch format {
	case InputCSV:
		records, err = readCSV(input, cfg.NameColumns, cfg.DeterminerColumns)
	case InputText:
		records, err = readLines(input)
	default:
		err = fmt.Errorf("unknown input format %q", format)
	}
	if err != nil {
		finish(false, map[string]interface{}{"error": err.Error()})
		return nil, err
	}
	finish(true, map[string]interface{}{"records": len(records), "format": format})
	return records, nil
}
