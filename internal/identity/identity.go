// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package identity

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Identity is a structured name record: a required last name, optional
// space-separated initial names, an optional suffix, and the provenance and
// raw text accumulated for it.
type Identity struct {
	LastName string
	// Initials holds the non-last names, e.g. "J. R." or "Fred G.". Empty
	// when the name has no initial names.
	Initials string
	// Suffix is one of "Jr.", "Sr.", "II", "III", "IV", or empty.
	Suffix string

	Properties Properties

	// RawNames holds the normalized source text this identity was parsed from,
	// without duplicates, in order of first appearance.
	RawNames []string

	// Occurrences counts how many times this exact name was found.
	Occurrences int
}

// New creates an identity with an occurrence count of one.
func New(lastName, initials, suffix string, props ...Property) *Identity {
	return &Identity{
		LastName:    lastName,
		Initials:    initials,
		Suffix:      suffix,
		Properties:  NewProperties(props...),
		Occurrences: 1,
	}
}

// String returns the last-name-first form "Last[, Initials][, Suffix]". This
// form is the identity's key in catalogs and declared tables.
func (i *Identity) String() string {
	var b strings.Builder
	b.WriteString(i.LastName)
	if i.Initials != "" {
		b.WriteString(", ")
		b.WriteString(i.Initials)
	}
	if i.Suffix != "" {
		b.WriteString(", ")
		b.WriteString(i.Suffix)
	}
	return b.String()
}

// FirstNameFirst returns "Initials Last[, Suffix]".
func (i *Identity) FirstNameFirst() string {
	name := i.LastName
	if i.Initials != "" {
		name = i.Initials + " " + name
	}
	if i.Suffix != "" {
		name += ", " + i.Suffix
	}
	return name
}

// FirstName returns the first of the initial names, or "".
func (i *Identity) FirstName() string {
	first, _, _ := strings.Cut(i.Initials, " ")
	return first
}

// Equal compares the name fields only.
func (i *Identity) Equal(other *Identity) bool {
	if other == nil {
		return false
	}
	return i.LastName == other.LastName &&
		i.Initials == other.Initials &&
		i.Suffix == other.Suffix
}

// HasProperty reports whether the identity carries p.
func (i *Identity) HasProperty(p Property) bool {
	return i.Properties.Has(p)
}

// AddProperty tags the identity with p.
func (i *Identity) AddProperty(p Property) {
	i.Properties = i.Properties.With(p)
}

// AddPropertiesFrom copies every tag of other onto i.
func (i *Identity) AddPropertiesFrom(other *Identity) {
	i.Properties = i.Properties.Union(other.Properties)
}

// IsDeclared reports whether the identity carries a declared property.
func (i *Identity) IsDeclared() bool {
	return i.Properties.HasDeclared()
}

// AddRawName normalizes raw and records it unless already present.
func (i *Identity) AddRawName(raw string) {
	raw = NormalizeRawName(raw)
	for _, existing := range i.RawNames {
		if existing == raw {
			return
		}
	}
	i.RawNames = append(i.RawNames, raw)
}

// SetRawName replaces all raw names with raw, which must already be normalized.
func (i *Identity) SetRawName(raw string) {
	i.RawNames = []string{raw}
}

// ClearRawNames drops all raw names.
func (i *Identity) ClearRawNames() {
	i.RawNames = nil
}

// Clone returns a deep copy of the identity.
func (i *Identity) Clone() *Identity {
	c := *i
	if i.RawNames != nil {
		c.RawNames = append([]string(nil), i.RawNames...)
	}
	return &c
}

var rawNameReplacer = []struct{ from, to string }{
	{"  ", " "},
	{"..", ".|."},
	{".", ". "},
	{",", ", "},
	{"  ", " "},
	{". ,", ".,"},
	{", .", ",."},
	{", ,", ",,"},
	{" |", ""},
}

// NormalizeRawName spaces punctuation consistently so that raw source text
// differing only in spacing compares equal.
func NormalizeRawName(raw string) string {
	for _, r := range rawNameReplacer {
		raw = strings.ReplaceAll(raw, r.from, r.to)
	}
	return strings.TrimRightFunc(raw, unicode.IsSpace)
}

// CollapseSpaces trims s and reduces every run of whitespace to one space.
func CollapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// CheckInitials reports an initial name that cannot key a name tree. Each
// space-separated initial name must be at least two runes long, as in "J."
// or "Jo".
func CheckInitials(initials string) error {
	if initials == "" {
		return nil
	}
	for _, name := range strings.Split(initials, " ") {
		if utf8.RuneCountInString(name) < 2 {
			return fmt.Errorf("initial name '%s' too short", name)
		}
	}
	return nil
}
