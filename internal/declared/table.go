// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package declared holds the curated names that steer name consolidation:
// declared primaries with their variants, wildcard misspelling corrections,
// and reference names loaded from an external roster.
//
// A declared-names file lists one name per line in the form
// "Last[, Initials[, Suffix]]". A line prefixed with "- " declares a variant
// of the preceding primary. A line prefixed with "/" (optionally indented)
// declares a misspelling to correct to the nearest preceding primary or
// variant. "*" is a wildcard: in a misspelling it matches anything, in a
// primary it leaves that portion of the matched name unchanged. "-" means the
// portion is absent. A trailing "!" marks a name known to be valid, "!!" a
// name whose first and last names are known but whose remainder is not.
package declared

import (
	"fmt"
	"strings"

	"namecat/internal/identity"
	"namecat/internal/nameparse"
)

const (
	// Wildcard matches or preserves any value of a name portion.
	Wildcard = "*"
	// NoName designates an absent name portion.
	NoName = "-"
)

// LineError reports a malformed line of a names file.
type LineError struct {
	Line int
	Err  error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("%s (line %d)", e.Err, e.Line)
}

func (e *LineError) Unwrap() error {
	return e.Err
}

type variant struct {
	identity    *identity.Identity
	corrections []*identity.Identity
}

type primary struct {
	variant
	variants []*variant
}

// revisions index correction targets by last name, then suffix, then
// initials. The empty string keys an absent suffix or absent initials.
type revisions map[string]map[string]map[string]*identity.Identity

// Table is the set of declared and reference names. It is not safe for
// concurrent mutation; once loaded it is only read.
type Table struct {
	sources     map[string]*identity.Identity
	sourceOrder []string

	referencesByLastName map[string][]*identity.Identity

	primaries         []*primary
	primariesByName   map[string]*primary
	variantToPrimary  map[string]*identity.Identity
	revisions         revisions
	firstNames        map[string]bool
	lastNames         map[string]bool
	groupNames        []string
	badReferenceNames []string

	correctionLastNames map[string]string

	prevPrimaryHadWildcards bool
	line                    int
}

// New creates an empty table.
func New() *Table {
	return &Table{
		sources:              make(map[string]*identity.Identity),
		referencesByLastName: make(map[string][]*identity.Identity),
		primariesByName:      make(map[string]*primary),
		variantToPrimary:     make(map[string]*identity.Identity),
		revisions:            make(revisions),
		firstNames:           make(map[string]bool),
		lastNames:            make(map[string]bool),
		correctionLastNames:  make(map[string]string),
	}
}

func (t *Table) lineError(format string, args ...interface{}) error {
	return &LineError{Line: t.line, Err: &nameparse.ParseError{Message: fmt.Sprintf(format, args...)}}
}

// AddDeclaredLine adds one line of a declared-names file. Lines are numbered
// in the order they are added.
func (t *Table) AddDeclaredLine(line string) error {
	t.line++
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return nil
	}

	isVariant := strings.HasPrefix(line, "-")
	isCorrection := strings.HasPrefix(line, "/")
	if isVariant || isCorrection {
		line = strings.TrimSpace(line[1:])
		if line == "" {
			return t.lineError("No variant or correction")
		}
	}
	exclamations := 0
	switch {
	case strings.HasSuffix(line, "!!"):
		exclamations = 2
		line = strings.TrimSpace(strings.TrimSuffix(line, "!!"))
	case strings.HasSuffix(line, "!"):
		exclamations = 1
		line = strings.TrimSpace(strings.TrimSuffix(line, "!"))
	}

	fields := strings.Split(line, ",")
	if len(fields) > 3 {
		return t.lineError("Too many commas")
	}
	lastName := identity.CollapseSpaces(fields[0])
	initials, suffix := "", ""
	if len(fields) > 1 {
		initials = identity.CollapseSpaces(fields[1])
		if initials == "" {
			return t.lineError("Missing first name(s)")
		}
		if initials == NoName {
			initials = ""
		}
		// Declared names seed the name trees; a misspelling only keys the
		// correction index.
		if !isCorrection && !strings.Contains(initials, Wildcard) {
			if err := identity.CheckInitials(initials); err != nil {
				return &LineError{Line: t.line, Err: &nameparse.ParseError{Message: err.Error()}}
			}
		}
	}
	if len(fields) > 2 {
		suffix = strings.TrimSpace(fields[2])
		if suffix == "" {
			return t.lineError("Missing name suffix")
		}
	}

	props := []identity.Property{identity.DeclaredPrimary}
	if isVariant {
		props[0] = identity.DeclaredVariant
	}
	switch exclamations {
	case 1:
		props = append(props, identity.Known)
	case 2:
		props = append(props, identity.PartiallyKnown)
	}
	ident := identity.New(lastName, initials, suffix, props...)

	switch {
	case isVariant:
		if len(t.primaries) == 0 {
			return t.lineError("Variant name does not follow a primary name")
		}
		parent := t.primaries[len(t.primaries)-1]
		parent.variants = append(parent.variants, &variant{identity: ident})
		t.variantToPrimary[ident.String()] = parent.identity
		t.addSourceName(ident)

	case isCorrection:
		if len(t.primaries) == 0 {
			return t.lineError("Incorrect name does not follow a correct name")
		}
		last := t.primaries[len(t.primaries)-1]
		parent := &last.variant
		if n := len(last.variants); n > 0 {
			parent = last.variants[n-1]
		}
		parent.corrections = append(parent.corrections, ident)
		index, err := indexedIdentity(ident)
		if err != nil {
			return &LineError{Line: t.line, Err: err}
		}
		if err := t.putRevision(index, parent.identity); err != nil {
			return err
		}
		t.correctionLastNames[line] = parent.identity.LastName

	default:
		if err := t.addPrimary(ident); err != nil {
			return err
		}
		t.addSourceName(ident)
	}
	return nil
}

func (t *Table) addPrimary(ident *identity.Identity) error {
	if err := t.checkWildcardCorrections(); err != nil {
		return err
	}
	if ident.LastName == Wildcard || ident.Initials == Wildcard {
		if ident.Suffix == "" {
			return t.lineError("Missing name suffix correction")
		}
		t.prevPrimaryHadWildcards = true
	}
	switch ident.Suffix {
	case Wildcard:
		t.prevPrimaryHadWildcards = true
	case NoName:
		ident.Suffix = ""
	}

	entry := &primary{variant: variant{identity: ident}}
	t.primaries = append(t.primaries, entry)
	name := ident.String()
	t.primariesByName[name] = entry
	t.variantToPrimary[name] = ident

	// Multi-word last names such as "The Cave Club" parse as a last name with
	// initials, so index that parse to correct it back.
	index, err := indexedIdentity(ident)
	if err != nil {
		return &LineError{Line: t.line, Err: err}
	}
	if !index.Equal(ident) {
		if err := t.putRevision(index, ident); err != nil {
			return err
		}
	}

	if ident.Initials == "" && ident.Suffix == "" && strings.Contains(ident.LastName, " ") {
		t.groupNames = append(t.groupNames, ident.LastName)
	}
	return nil
}

func (t *Table) checkWildcardCorrections() error {
	if !t.prevPrimaryHadWildcards {
		return nil
	}
	t.prevPrimaryHadWildcards = false
	if len(t.primaries[len(t.primaries)-1].corrections) == 0 {
		return t.lineError("No corrections for previous wildcard name")
	}
	return nil
}

// FinishDeclared validates the end of a declared-names file.
func (t *Table) FinishDeclared() error {
	return t.checkWildcardCorrections()
}

func indexedIdentity(ident *identity.Identity) (*identity.Identity, error) {
	if !strings.Contains(ident.LastName, " ") || ident.Initials != "" || ident.Suffix != "" {
		return ident, nil
	}
	result, err := nameparse.Parse(ident.LastName, nameparse.Options{})
	if err != nil {
		return nil, err
	}
	return result.Identities[0], nil
}

func (t *Table) putRevision(index, target *identity.Identity) error {
	bySuffix, ok := t.revisions[index.LastName]
	if !ok {
		bySuffix = make(map[string]map[string]*identity.Identity)
		t.revisions[index.LastName] = bySuffix
	}
	byInitials, ok := bySuffix[index.Suffix]
	if !ok {
		byInitials = make(map[string]*identity.Identity)
		bySuffix[index.Suffix] = byInitials
	}
	if _, exists := byInitials[index.Initials]; exists {
		return t.lineError("Correction already exists elsewhere")
	}
	byInitials[index.Initials] = target
	return nil
}

func (t *Table) addSourceName(ident *identity.Identity) {
	key := strings.ToLower(ident.String())
	if !strings.Contains(key, Wildcard) {
		if source, ok := t.sources[key]; ok {
			source.AddPropertiesFrom(ident)
		} else {
			t.sources[key] = ident
			t.sourceOrder = append(t.sourceOrder, key)
		}
	}

	if ident.Initials != "" {
		for _, name := range strings.Split(ident.Initials, " ") {
			if len([]rune(name)) > 1 && !strings.HasSuffix(name, ".") {
				t.firstNames[strings.ToLower(name)] = true
			}
		}
	}
	t.lastNames[strings.ToLower(ident.LastName)] = true
}

// CorrectIdentityName rewrites ident in place when it matches a declared
// misspelling. Lookup tries the exact last name first and falls back to the
// wildcard last name; within a last name it tries the exact suffix, then the
// wildcard suffix, then the exact initials, then the wildcard initials.
func (t *Table) CorrectIdentityName(ident *identity.Identity) {
	target := t.revision(ident)
	if target == nil {
		return
	}
	if target.LastName != Wildcard {
		ident.LastName = target.LastName
	}
	if target.Suffix != Wildcard {
		ident.Suffix = target.Suffix
	}
	if target.Initials != Wildcard {
		ident.Initials = target.Initials
	}
}

func (t *Table) revision(key *identity.Identity) *identity.Identity {
	if bySuffix, ok := t.revisions[key.LastName]; ok {
		if target, ok := lookupRevision(bySuffix, key); ok {
			return target
		}
	}
	if bySuffix, ok := t.revisions[Wildcard]; ok {
		target, _ := lookupRevision(bySuffix, key)
		return target
	}
	return nil
}

func lookupRevision(bySuffix map[string]map[string]*identity.Identity, key *identity.Identity) (*identity.Identity, bool) {
	byInitials, ok := bySuffix[key.Suffix]
	if !ok {
		if byInitials, ok = bySuffix[Wildcard]; !ok {
			return nil, false
		}
	}
	if target, ok := byInitials[key.Initials]; ok {
		return target, true
	}
	target, ok := byInitials[Wildcard]
	return target, ok
}

// AddProperties copies onto ident the provenance of the declared or
// reference name it matches, case-insensitively. An identity whose last name
// appears among the reference names but which matches no reference name is
// tagged ReferenceLastName.
func (t *Table) AddProperties(ident *identity.Identity) {
	if source, ok := t.sources[strings.ToLower(ident.String())]; ok {
		ident.AddPropertiesFrom(source)
	}
	if !t.IsReferenceLastName(ident.LastName) {
		return
	}
	if reference := t.referenceIdentity(ident); reference != nil {
		ident.AddPropertiesFrom(reference)
	} else {
		ident.AddProperty(identity.ReferenceLastName)
	}
}

func (t *Table) referenceIdentity(ident *identity.Identity) *identity.Identity {
	for _, reference := range t.referencesByLastName[strings.ToLower(ident.LastName)] {
		if reference.Equal(ident) {
			return reference
		}
	}
	return nil
}

// Primary returns the declared primary of a declared primary or variant
// name. With referencesArePrimary, a reference name is its own primary.
func (t *Table) Primary(name string, referencesArePrimary bool) *identity.Identity {
	if p, ok := t.variantToPrimary[name]; ok {
		return p
	}
	if referencesArePrimary {
		source, ok := t.sources[strings.ToLower(name)]
		if ok && source.HasProperty(identity.ReferenceName) {
			return source
		}
	}
	return nil
}

// Variants returns the declared variants of a primary name, or nil when the
// name is not a declared primary.
func (t *Table) Variants(primaryName string) []*identity.Identity {
	entry, ok := t.primariesByName[primaryName]
	if !ok {
		return nil
	}
	out := make([]*identity.Identity, 0, len(entry.variants))
	for _, v := range entry.variants {
		out = append(out, v.identity)
	}
	return out
}

// KnownIdentities returns every fully specified declared and reference
// identity in load order.
func (t *Table) KnownIdentities() []*identity.Identity {
	out := make([]*identity.Identity, 0, len(t.sourceOrder))
	for _, key := range t.sourceOrder {
		out = append(out, t.sources[key])
	}
	return out
}

// GroupNames returns declared primaries that consist only of a multi-word
// last name, such as the names of organizations.
func (t *Table) GroupNames() []string {
	return t.groupNames
}

// BadReferenceNames returns the reference names that failed to parse.
func (t *Table) BadReferenceNames() []string {
	return t.badReferenceNames
}

// CorrectionLastName returns the last name a declared misspelling line
// corrects to.
func (t *Table) CorrectionLastName(misspelling string) (string, bool) {
	last, ok := t.correctionLastNames[misspelling]
	return last, ok
}

// IsDeclaredFirstName reports whether name is a declared or reference first
// name, ignoring case.
func (t *Table) IsDeclaredFirstName(name string) bool {
	return t.firstNames[strings.ToLower(name)]
}

// IsDeclaredLastName reports whether name is a declared or reference last
// name, ignoring case.
func (t *Table) IsDeclaredLastName(name string) bool {
	return t.lastNames[strings.ToLower(name)]
}

// IsReferenceLastName reports whether any reference name has this last name.
func (t *Table) IsReferenceLastName(name string) bool {
	_, ok := t.referencesByLastName[strings.ToLower(name)]
	return ok
}
