// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package declared

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"namecat/internal/identity"
	"namecat/internal/nameparse"
)

// Load builds a table from a declared-names file and a reference-names CSV.
// Either path may be empty.
func Load(declaredPath, referencePath string) (*Table, error) {
	table := New()
	if declaredPath != "" {
		if err := table.LoadDeclaredFile(declaredPath); err != nil {
			return nil, err
		}
	}
	if referencePath != "" {
		if err := table.LoadReferencesFile(referencePath); err != nil {
			return nil, err
		}
	}
	return table, nil
}

// LoadDeclaredFile adds the names of a declared-names file.
func (t *Table) LoadDeclaredFile(path string) error {
	if err := loadFile(path, t.LoadDeclared); err != nil {
		return fmt.Errorf("error loading declared names: %w", err)
	}
	return nil
}

// LoadReferencesFile adds the names of a reference-names CSV.
func (t *Table) LoadReferencesFile(path string) error {
	if err := loadFile(path, t.LoadReferences); err != nil {
		return fmt.Errorf("error loading reference names: %w", err)
	}
	return nil
}

func loadFile(path string, load func(io.Reader) error) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()
	if err := load(file); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// LoadDeclared adds every line of a declared-names file.
func (t *Table) LoadDeclared(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if err := t.AddDeclaredLine(norm.NFC.String(scanner.Text())); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	return t.FinishDeclared()
}

// LoadReferences adds the names of a reference CSV whose header holds
// lastName, firstName and middleInitial columns.
func (t *Table) LoadReferences(r io.Reader) error {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return err
	}
	columns, err := referenceColumns(header)
	if err != nil {
		return &LineError{Line: 1, Err: err}
	}

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if len(record) == 1 && strings.TrimSpace(record[0]) == "" {
			continue
		}
		field := func(i int) string {
			if i < len(record) {
				return norm.NFC.String(strings.TrimSpace(record[i]))
			}
			return ""
		}
		t.AddReference(field(columns[0]), field(columns[1]), field(columns[2]))
	}
}

var referenceHeaders = [3]string{"lastName", "firstName", "middleInitial"}

func referenceColumns(header []string) ([3]int, error) {
	columns := [3]int{-1, -1, -1}
	for i, name := range header {
		for j, want := range referenceHeaders {
			if columns[j] < 0 && strings.Contains(name, want) {
				columns[j] = i
			}
		}
	}
	for j, column := range columns {
		if column < 0 {
			return columns, fmt.Errorf("reference header lacks a %s column", referenceHeaders[j])
		}
	}
	return columns, nil
}

var referenceSuffixes = map[string]bool{"jr": true, "sr": true, "ii": true, "iii": true, "iv": true}

// AddReference adds one reference name. First names longer than two letters
// become declared first names. Names with a one-letter or all-uppercase last
// name contribute only their first names. A name that fails to parse is kept
// as a bad reference name.
func (t *Table) AddReference(lastName, firstName, middleInitial string) {
	if firstName != "" {
		lowered := strings.ToLower(firstName)
		lowered = strings.ReplaceAll(lowered, ".", ". ")
		lowered = strings.ReplaceAll(lowered, ",", " ")
		for _, name := range strings.Split(lowered, " ") {
			if len([]rune(name)) > 2 && !strings.HasSuffix(name, ".") && !referenceSuffixes[name] {
				t.firstNames[name] = true
			}
		}
	}

	if len([]rune(lastName)) <= 1 || isAllUpper(lastName) {
		return
	}

	var parts []string
	if firstName != "" {
		parts = append(parts, firstName)
	}
	if middleInitial != "" {
		parts = append(parts, middleInitial)
	}
	// Allow Spanish names like "Burgos S.".
	lastName = strings.TrimSuffix(lastName, ".")
	joined := strings.Join(strings.Fields(lastName), "_")
	name := strings.Join(append(parts, joined), " ")

	result, err := nameparse.Parse(name, nameparse.Options{Property: identity.ReferenceName})
	if err != nil || len(result.Identities) != 1 {
		t.badReferenceNames = append(t.badReferenceNames, strings.ReplaceAll(name, "_", " "))
		return
	}
	ident := result.Identities[0]
	ident.ClearRawNames()

	key := strings.ToLower(lastName)
	t.referencesByLastName[key] = append(t.referencesByLastName[key], ident)
	t.addSourceName(ident)
}

func isAllUpper(s string) bool {
	cased := false
	for _, r := range s {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsUpper(r) {
			cased = true
		}
	}
	return cased
}
