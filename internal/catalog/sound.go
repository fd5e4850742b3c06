// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package catalog

import (
	"namecat/internal/identity"
	"namecat/internal/phonetic"
)

// unifyLastNamesBySound rewrites similar-sounding last names to a single
// spelling and remembers the raw names whose last name changed.
func (c *Catalog) unifyLastNamesBySound(coder phonetic.Coder) {
	ids := c.index.orderedValues()
	spellings := make([]phonetic.Spelling, len(ids))
	for i, id := range ids {
		ident := c.arena.Get(id)
		spellings[i] = phonetic.Spelling{Name: ident.LastName, Count: ident.Occurrences}
	}

	var isDeclared func(string) bool
	if c.table != nil {
		isDeclared = c.table.IsDeclaredLastName
	}
	unified := phonetic.NewUnifier(coder, isDeclared).Unify(spellings)

	for i, id := range ids {
		ident := c.arena.Get(id)
		if unified[i] == ident.LastName {
			continue
		}
		c.markAutocorrected(ident)
		ident.LastName = unified[i]
	}
}

func (c *Catalog) markAutocorrected(ident *identity.Identity) {
	for _, raw := range ident.RawNames {
		c.autocorrected[raw] = true
	}
}
