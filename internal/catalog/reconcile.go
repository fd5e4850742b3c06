// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package catalog

import (
	"fmt"

	"namecat/internal/identity"
)

// reconcile moves the identity stored under name to the group of its
// declared primary, creating that primary when the data lacks it.
func (c *Catalog) reconcile(name string, id identity.ID, mergeWithReference bool) {
	declaredPrimary := c.table.Primary(name, mergeWithReference)
	if declaredPrimary == nil {
		return
	}

	ident := c.arena.Get(id)
	if declaredPrimary.Equal(ident) {
		ident.AddProperty(identity.DeclaredPrimary)
	} else {
		ident.AddProperty(identity.DeclaredVariant)
	}

	current := c.arena.Primary(id)
	if current == identity.NoID {
		panic(fmt.Sprintf("identity '%s' has no primary", ident))
	}
	if declaredPrimary.Equal(c.arena.Get(current)) {
		c.arena.Get(current).AddProperty(identity.DeclaredPrimary)
		return
	}

	primaryName := declaredPrimary.String()
	primaryID, ok := c.index.get(primaryName)
	if ok {
		c.arena.Get(primaryID).AddProperty(identity.DeclaredPrimary)
		if c.arena.Primary(primaryID) != primaryID {
			if c.arena.Primary(primaryID) == identity.NoID {
				panic(fmt.Sprintf("declared primary '%s' of '%s' has no primary", primaryName, ident))
			}
			c.synonyms.set(primaryName, &group{primary: primaryID, members: []identity.ID{primaryID}})
			c.moveVariant(primaryID, primaryID)
		}
	} else {
		added := declaredPrimary.Clone()
		added.Occurrences = 0
		added.ClearRawNames()
		primaryID = c.arena.Add(added)
		c.arena.SetPrimary(primaryID, primaryID)
		c.index.set(primaryName, primaryID)
		c.synonyms.set(primaryName, &group{primary: primaryID, members: []identity.ID{primaryID}})
	}

	c.moveVariant(id, primaryID)
}

// moveVariant moves variant into the group of newPrimary. A variant equal to
// newPrimary becomes a primary of its own. A variant that was itself a
// primary brings its whole group along. When the old primary was fabricated,
// its remaining members each become their own primary again.
func (c *Catalog) moveVariant(variant, newPrimary identity.ID) {
	oldPrimary := c.arena.Primary(variant)
	if oldPrimary == identity.NoID {
		panic(fmt.Sprintf("identity '%s' has no primary", c.arena.Get(variant)))
	}
	becomesPrimary := c.arena.Get(variant).Equal(c.arena.Get(newPrimary))
	if becomesPrimary && oldPrimary == variant {
		return
	}
	newName := c.arena.Get(newPrimary).String()
	oldName := c.arena.Get(oldPrimary).String()
	oldGroup := c.groupFor(oldName, oldPrimary)

	var remaining []identity.ID
	switch {
	case becomesPrimary:
		oldGroup.members = removeID(oldGroup.members, variant)
		remaining = oldGroup.members
		c.synonyms.set(newName, &group{primary: variant, members: []identity.ID{variant}})

	case oldPrimary == variant:
		newGroup := c.groupFor(newName, newPrimary)
		c.synonyms.remove(oldName)
		for _, member := range oldGroup.members {
			newGroup.members = append(newGroup.members, member)
			c.arena.SetPrimary(member, newPrimary)
		}

	default:
		newGroup := c.groupFor(newName, newPrimary)
		newGroup.members = append(newGroup.members, variant)
		oldGroup.members = removeID(oldGroup.members, variant)
		remaining = oldGroup.members
	}
	c.arena.SetPrimary(variant, newPrimary)

	if c.arena.Get(oldPrimary).HasProperty(identity.Fabricated) {
		for _, member := range remaining {
			c.synonyms.set(c.arena.Get(member).String(), &group{primary: member, members: []identity.ID{member}})
			c.arena.SetPrimary(member, member)
		}
		c.synonyms.remove(oldName)
	}
}

// groupFor returns the group stored under name, registering an empty one
// for primary when there is none.
func (c *Catalog) groupFor(name string, primary identity.ID) *group {
	g, ok := c.synonyms.get(name)
	if !ok {
		g = &group{primary: primary}
		c.synonyms.set(name, g)
	}
	return g
}

func removeID(ids []identity.ID, id identity.ID) []identity.ID {
	for i, existing := range ids {
		if existing == id {
			return append(ids[:i:i], ids[i+1:]...)
		}
	}
	return ids
}
