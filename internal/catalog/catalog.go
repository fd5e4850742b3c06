// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package catalog collects the identities found in a data set and
// consolidates variant spellings of each name under a primary name.
//
// Identities are organized in one tree per last name, keyed by suffix and
// then by successive initial names, so that names sharing initials share a
// branch. Consolidation re-homes partial names onto the fuller names they
// abbreviate, folds single-child chains into synonym groups, and then
// reconciles the result with the declared names.
//
// Insertion order matters: absent declared names, the first identity placed
// at a node becomes the primary of the identities that collapse into it.
package catalog

import (
	"strings"

	"namecat/internal/identity"
	"namecat/internal/phonetic"
)

// DeclaredNames is the reference data consulted during consolidation.
// *declared.Table implements it.
type DeclaredNames interface {
	CorrectIdentityName(ident *identity.Identity)
	IsDeclaredLastName(name string) bool
	KnownIdentities() []*identity.Identity
	Primary(name string, referencesArePrimary bool) *identity.Identity
	AddProperties(ident *identity.Identity)
}

// Options controls CorrectAndConsolidate.
type Options struct {
	// UnifyBySound rewrites similar-sounding last names to one spelling.
	UnifyBySound bool
	// MergeWithReference treats every declared and reference name as a
	// potential primary, not just the names declared known.
	MergeWithReference bool
	// Coder computes the phonetic codes for UnifyBySound. Defaults to
	// phonetic.DefaultEncoder().
	Coder phonetic.Coder
}

// Group is a primary identity and the identities consolidated under it,
// including the primary itself.
type Group struct {
	Primary    *identity.Identity
	Identities []*identity.Identity
}

type group struct {
	primary identity.ID
	members []identity.ID
}

// Catalog holds identities and their consolidation state. It is not safe for
// concurrent use.
type Catalog struct {
	table DeclaredNames
	arena *identity.Arena

	index    *orderedMap[identity.ID]
	trees    *orderedMap[*node]
	synonyms *orderedMap[*group]

	autocorrected     map[string]bool
	lexicallyModified map[string]bool
}

// New creates an empty catalog. table may be nil.
func New(table DeclaredNames) *Catalog {
	return &Catalog{
		table:             table,
		arena:             identity.NewArena(),
		index:             newOrderedMap[identity.ID](),
		trees:             newOrderedMap[*node](),
		synonyms:          newOrderedMap[*group](),
		autocorrected:     make(map[string]bool),
		lexicallyModified: make(map[string]bool),
	}
}

// Add records one occurrence of ident and returns its ID. An identity equal
// to one already in the catalog is merged into it: the occurrence counts add
// up and the raw names are combined.
func (c *Catalog) Add(ident *identity.Identity) identity.ID {
	return c.insert(c.arena.Add(ident))
}

func (c *Catalog) insert(id identity.ID) identity.ID {
	ident := c.arena.Get(id)
	name := ident.String()
	if existing, ok := c.index.get(name); ok {
		if existing != id {
			c.arena.Get(existing).Occurrences += ident.Occurrences
			c.arena.Merge(existing, id)
		}
		return existing
	}
	c.index.set(name, id)
	return id
}

// Identity returns the identity an ID resolves to after merging.
func (c *Catalog) Identity(id identity.ID) *identity.Identity {
	return c.arena.Get(c.arena.Master(id))
}

// Primary returns the primary an identity was consolidated under, or nil
// before consolidation.
func (c *Catalog) Primary(id identity.ID) *identity.Identity {
	id = c.arena.Master(id)
	if c.arena.Primary(id) == identity.NoID {
		return nil
	}
	return c.arena.Get(c.arena.TopPrimary(id))
}

// Synonyms returns the synonym groups in the order they were formed.
func (c *Catalog) Synonyms() []Group {
	out := make([]Group, 0, c.synonyms.size())
	for _, g := range c.synonyms.orderedValues() {
		out = append(out, c.exportGroup(g))
	}
	return out
}

// SynonymGroup returns the group whose primary has the given name.
func (c *Catalog) SynonymGroup(primaryName string) (Group, bool) {
	g, ok := c.synonyms.get(primaryName)
	if !ok {
		return Group{}, false
	}
	return c.exportGroup(g), true
}

func (c *Catalog) exportGroup(g *group) Group {
	out := Group{
		Primary:    c.arena.Get(g.primary),
		Identities: make([]*identity.Identity, 0, len(g.members)),
	}
	for _, id := range g.members {
		out.Identities = append(out.Identities, c.arena.Get(id))
	}
	return out
}

// IdentityByName returns the identity with the given last-name-first name,
// including fabricated primaries.
func (c *Catalog) IdentityByName(name string) (*identity.Identity, bool) {
	if id, ok := c.index.get(name); ok {
		return c.arena.Get(id), true
	}
	if g, ok := c.synonyms.get(name); ok {
		return c.arena.Get(g.primary), true
	}
	return nil, false
}

// IsAutocorrectedName reports whether the identity parsed from raw had its
// last name changed by phonetic unification.
func (c *Catalog) IsAutocorrectedName(raw string) bool {
	return c.autocorrected[raw]
}

// IsLexicallyModifiedName reports whether raw differs from the name parsed
// from it.
func (c *Catalog) IsLexicallyModifiedName(raw string) bool {
	return c.lexicallyModified[raw]
}

// CountIdentities returns the number of distinct names in the catalog.
func (c *Catalog) CountIdentities() int {
	return c.index.size()
}

// CountPrimaries returns the number of synonym groups.
func (c *Catalog) CountPrimaries() int {
	return c.synonyms.size()
}

// Identities returns the distinct identities in insertion order.
func (c *Catalog) Identities() []*identity.Identity {
	out := make([]*identity.Identity, 0, c.index.size())
	for _, id := range c.index.orderedValues() {
		out = append(out, c.arena.Get(id))
	}
	return out
}

// FindVariant returns the first consolidated identity with the given last
// name for which test returns true.
func (c *Catalog) FindVariant(lastName string, test func(*identity.Identity) bool) *identity.Identity {
	for _, g := range c.synonyms.orderedValues() {
		for _, id := range g.members {
			ident := c.arena.Get(id)
			if strings.EqualFold(ident.LastName, lastName) && test(ident) {
				return ident
			}
		}
	}
	return nil
}
