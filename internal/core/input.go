// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package core

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// Input formats accepted by Resolve.
const (
	InputCSV  = "csv"
	InputText = "text"
)

// record is one input row.
type record struct {
	row    int
	values []columnValue
}

type columnValue struct {
	column     string
	determiner bool
	text       string
}

// DetectInputFormat picks the input format from a file name.
func DetectInputFormat(path string) string {
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		return InputCSV
	}
	return InputText
}

// readCSV reads the name and determiner columns of a CSV with a header row.
// Rows are numbered as in a spreadsheet, the header being row 1.
func readCSV(r io.Reader, nameColumns, determinerColumns []string) ([]record, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("error reading CSV header: %w", err)
	}

	type selected struct {
		index      int
		name       string
		determiner bool
	}
	var columns []selected
	find := func(names []string, determiner bool) {
		for _, want := range names {
			for i, have := range header {
				if strings.TrimSpace(strings.TrimPrefix(have, "\ufeff")) == want {
					columns = append(columns, selected{index: i, name: want, determiner: determiner})
					break
				}
			}
		}
	}
	find(nameColumns, false)
	find(determinerColumns, true)
	if len(columns) == 0 {
		wanted := append(append([]string(nil), nameColumns...), determinerColumns...)
		return nil, fmt.Errorf("CSV header has none of the columns %s", strings.Join(wanted, ", "))
	}

	var records []record
	for row := 2; ; row++ {
		fields, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return records, nil
		}
		if err != nil {
			return nil, fmt.Errorf("error reading CSV row %d: %w", row, err)
		}
		rec := record{row: row}
		for _, c := range columns {
			if c.index < len(fields) {
				rec.values = append(rec.values, columnValue{column: c.name, determiner: c.determiner, text: fields[c.index]})
			}
		}
		records = append(records, rec)
	}
}

// readLines reads one name column value per line. Blank lines are skipped
// but still counted.
func readLines(r io.Reader) ([]record, error) {
	var records []record
	scanner := bufio.NewScanner(r)
	for row := 1; scanner.Scan(); row++ {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		records = append(records, record{row: row, values: []columnValue{{text: line}}})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading input: %w", err)
	}
	return records, nil
}
