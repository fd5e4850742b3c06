// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package core

import (
	"sort"
	"strings"

	"namecat/internal/catalog"
	"namecat/internal/formatters"
	"namecat/internal/identity"
)

// BuildReport converts a consolidated result into the report the formatters
// render.
func BuildReport(result *Result, runID, source string) *formatters.Report {
	cat := result.Catalog
	report := &formatters.Report{
		RunID:             runID,
		Source:            source,
		Problems:          result.Problems,
		BadReferenceNames: result.BadReferenceNames,
		Stats: formatters.Stats{
			Records:    result.Records,
			Identities: cat.CountIdentities(),
			Primaries:  cat.CountPrimaries(),
		},
	}

	for _, g := range cat.Synonyms() {
		report.Primaries = append(report.Primaries, primaryEntry(cat, g))
	}
	sort.SliceStable(report.Primaries, func(i, j int) bool {
		return strings.ToLower(report.Primaries[i].Name) < strings.ToLower(report.Primaries[j].Name)
	})
	return report
}

func primaryEntry(cat *catalog.Catalog, g catalog.Group) formatters.PrimaryEntry {
	entry := formatters.PrimaryEntry{NameEntry: nameEntry(cat, g.Primary)}

	members := append([]*identity.Identity(nil), g.Identities...)
	sort.SliceStable(members, func(i, j int) bool {
		return members[i].String() < members[j].String()
	})
	for _, ident := range members {
		if ident == g.Primary || ident.String() == g.Primary.String() {
			continue
		}
		entry.Variants = append(entry.Variants, nameEntry(cat, ident))
	}
	return entry
}

func nameEntry(cat *catalog.Catalog, ident *identity.Identity) formatters.NameEntry {
	name := ident.String()
	entry := formatters.NameEntry{
		Name:        name,
		Notes:       nameNotes(ident),
		Occurrences: ident.Occurrences,
	}

	raws := make([]string, 0, len(ident.RawNames))
	for _, raw := range ident.RawNames {
		if raw != name {
			raws = append(raws, raw)
		}
	}
	sort.Strings(raws)
	for _, raw := range raws {
		entry.RawNames = append(entry.RawNames, formatters.RawName{Text: raw, Note: rawNameNote(cat, raw)})
	}
	return entry
}

// nameNotes lists the provenance of an identity, except for having been
// found, and notes names that never occur in the data.
func nameNotes(ident *identity.Identity) []string {
	var notes []string
	for _, p := range ident.Properties.List() {
		if p != identity.Found {
			notes = append(notes, p.String())
		}
	}
	if !ident.HasProperty(identity.Found) {
		notes = append(notes, formatters.NoteNotInData)
	}
	return notes
}

func rawNameNote(cat *catalog.Catalog, raw string) string {
	switch {
	case cat.IsAutocorrectedName(raw):
		return formatters.NoteAutocorrected
	case cat.IsLexicallyModifiedName(raw):
		return formatters.NoteLexicallyModified
	default:
		return formatters.NoteDeclaredCorrection
	}
}
