// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package catalog

import (
	"namecat/internal/identity"
	"namecat/internal/phonetic"
)

// CorrectAndConsolidate applies the declared corrections, optionally unifies
// last names by sound, and groups every identity under a primary. Declared
// primaries and variants override the groups inferred from the trees, and
// groups containing no identity found in the data are dropped.
func (c *Catalog) CorrectAndConsolidate(opts Options) {
	for _, id := range c.index.orderedValues() {
		ident := c.arena.Get(id)
		name := ident.String()
		for _, raw := range ident.RawNames {
			if raw != name {
				c.lexicallyModified[raw] = true
			}
		}
		if c.table != nil {
			c.table.CorrectIdentityName(ident)
		}
	}

	if opts.UnifyBySound {
		coder := opts.Coder
		if coder == nil {
			coder = phonetic.DefaultEncoder()
		}
		c.unifyLastNamesBySound(coder)
	}

	// Corrections may have made distinct identities equal.
	ids := c.index.orderedValues()
	c.index = newOrderedMap[identity.ID]()
	for _, id := range ids {
		c.insert(id)
	}

	// Known names may serve as primaries even when absent from the data.
	if c.table != nil {
		for _, known := range c.table.KnownIdentities() {
			if !opts.MergeWithReference && !known.HasProperty(identity.Known) {
				continue
			}
			if _, ok := c.index.get(known.String()); ok {
				continue
			}
			seeded := known.Clone()
			seeded.Occurrences = 0
			c.insert(c.arena.Add(seeded))
		}
	}

	c.compile()
	c.synonyms = newOrderedMap[*group]()
	c.computeSynonyms()

	if c.table != nil {
		for _, name := range c.index.orderedKeys() {
			id, _ := c.index.get(name)
			c.reconcile(name, id, opts.MergeWithReference)
		}
	}

	c.recompute()
	c.prune()

	if c.table != nil {
		for _, id := range c.index.orderedValues() {
			c.table.AddProperties(c.arena.Get(id))
		}
	}
}

// compile rebuilds the trees from every identity in the index, clearing all
// primaries.
func (c *Catalog) compile() {
	c.trees = newOrderedMap[*node]()
	for _, id := range c.index.orderedValues() {
		c.arena.SetPrimary(id, identity.NoID)
		c.addToTree(id)
	}
}

// recompute rebuilds the trees after reconciliation. Declared primaries keep
// their place and declared variants are held out of the trees, while every
// other identity is consolidated again around them. The held variants then
// rejoin the groups of their primaries.
func (c *Catalog) recompute() {
	c.trees = newOrderedMap[*node]()
	var held []identity.ID
	for _, id := range c.index.orderedValues() {
		if c.arena.IsDeclaredVariant(id) {
			if c.arena.TopPrimary(id) == id {
				c.addToTree(id)
			} else {
				held = append(held, id)
			}
			continue
		}
		c.arena.SetPrimary(id, identity.NoID)
		c.addToTree(id)
	}

	c.synonyms = newOrderedMap[*group]()
	c.computeSynonyms()
	for _, id := range held {
		top := c.arena.TopPrimary(id)
		c.arena.SetPrimary(id, top)
		name := c.arena.Get(top).String()
		g, ok := c.synonyms.get(name)
		if !ok {
			g = &group{primary: top}
			c.synonyms.set(name, g)
		}
		g.members = append(g.members, id)
	}
}

// prune drops the groups that contain no identity found in the data, and
// the members of the remaining groups that are neither found nor primary.
func (c *Catalog) prune() {
	for _, name := range c.synonyms.orderedKeys() {
		g, _ := c.synonyms.get(name)
		found := false
		kept := make([]identity.ID, 0, len(g.members))
		for _, id := range g.members {
			ident := c.arena.Get(id)
			switch {
			case ident.HasProperty(identity.Found):
				found = true
				kept = append(kept, id)
			case c.arena.Primary(id) != id:
				c.index.remove(ident.String())
			default:
				kept = append(kept, id)
			}
		}
		if !found {
			for _, id := range kept {
				c.index.remove(c.arena.Get(id).String())
			}
			c.synonyms.remove(name)
			continue
		}
		g.members = kept
	}
}

func (c *Catalog) computeSynonyms() {
	roots := c.trees.orderedValues()
	for _, root := range roots {
		c.consolidateTree(root, collectLeaves(nil, root))
		c.collectBranchIdentities(root)
	}
	for _, root := range roots {
		c.collectSynonyms(root)
	}
}

// consolidateTree re-homes the branch of each leaf that is not already a
// primary onto the fullest compatible branch of the tree.
func (c *Catalog) consolidateTree(root *node, leaves []*node) {
	for _, leaf := range leaves {
		if len(leaf.identities) == 0 {
			continue
		}
		first := leaf.identities[0]
		if c.arena.Primary(first) == first {
			continue
		}
		var stack []*node
		for n := leaf; n != nil; n = n.parent {
			stack = append(stack, n)
		}
		c.reassignIdentity(root, &stack, "", false)
	}
}

// reassignIdentity walks the tree below test in step with the branch in
// stack, which lists the branch's nodes deepest first with the node matching
// test last. When it finds a different branch that the stacked branch
// completes or abbreviates, it moves the stacked identities there and prunes
// the stacked branch. An initial in the stacked branch may match the
// spelled-out name of the test branch, as "F. George" matches "Fred G.";
// the names below such a match are then merged into a fabricated identity
// combining both.
func (c *Catalog) reassignIdentity(test *node, stack *[]*node, testInitials string, onInferredBranch bool) bool {
	if len(*stack) == 0 || test == (*stack)[0] {
		return false
	}
	ident := c.popNode(stack)
	if len(test.identities) > 0 {
		testInitials = c.arena.Get(test.identities[0]).Initials
	}

	if test.name == ident.name {
		if test.isLeaf() {
			if ident.isLeaf() {
				c.pruneIdentityBranch(ident, test)
				return true
			}
			if onInferredBranch && (len(test.identities) == 0 || !c.arena.Get(test.identities[0]).IsDeclared()) {
				orphan := ident
				ident = c.popNode(stack)
				test.addChild(ident)
				c.inferDescendentNames(testInitials, ident)
				c.pruneIdentityBranch(orphan, test)
				return true
			}
		} else {
			if ident.isLeaf() {
				if ident != test {
					c.pruneIdentityBranch(ident, test)
				}
				return true
			}
			for _, child := range test.children {
				if c.reassignIdentity(child, stack, testInitials, onInferredBranch) {
					return true
				}
			}
		}
	} else if !test.isLeaf() && isInitialKey(ident.name) && isNameKey(test.name) {
		for _, child := range test.children {
			if child.name != ident.name {
				continue
			}
			*stack = append(*stack, ident)
			if c.reassignIdentity(child, stack, testInitials, true) {
				return true
			}
			*stack = (*stack)[:len(*stack)-1]
		}
	}

	*stack = append(*stack, ident)
	return false
}

func (c *Catalog) popNode(stack *[]*node) *node {
	s := *stack
	n := s[len(s)-1]
	*stack = s[:len(s)-1]
	return n
}

// isInitialKey reports whether a tree key is an initial such as "f.".
func isInitialKey(key string) bool {
	runes := []rune(key)
	return len(runes) > 1 && runes[1] == '.'
}

// isNameKey reports whether a tree key is a spelled-out name such as "fred".
func isNameKey(key string) bool {
	runes := []rune(key)
	return len(runes) > 1 && runes[1] != '.'
}

// pruneIdentityBranch moves the identities of branch, and of its ancestors up
// to the nearest branching point, to matched, and then detaches that part of
// the tree.
func (c *Catalog) pruneIdentityBranch(branch, matched *node) {
	matched.identities = append(matched.identities, branch.identities...)
	child := branch
	n := branch.parent
	for n != nil && len(n.children) == 1 {
		matched.identities = append(matched.identities, n.identities...)
		child = n
		n = n.parent
	}
	if n != nil {
		n.removeChild(child)
	}
}

// inferDescendentNames puts a fabricated identity at the front of every node
// holding identities at or below n. The fabricated name takes the spelled-out
// test name in place of the initial it differs at, so that "Fred G." and
// "F. George" yield "Fred George".
func (c *Catalog) inferDescendentNames(testInitials string, n *node) {
	if len(n.identities) > 0 {
		ident := c.arena.Get(n.identities[0])
		test := []rune(testInitials)
		own := []rune(ident.Initials)
		diff := 0
		for diff < len(test) && diff < len(own) && test[diff] == own[diff] {
			diff++
		}
		end := diff
		for end < len(test) && test[end] != ' ' {
			end++
		}
		initials := string(test[:end])
		if diff+1 < len(own) {
			initials += string(own[diff+1:])
		}
		inferred := identity.New(ident.LastName, initials, ident.Suffix, identity.Fabricated)
		inferred.Occurrences = 0
		id := c.arena.Add(inferred)
		n.identities = append([]identity.ID{id}, n.identities...)
	}
	for _, child := range n.children {
		c.inferDescendentNames(testInitials, child)
	}
}

// collectBranchIdentities pushes identities down each single-child chain to
// the next branching point or leaf and makes them synonyms there. The push
// stops early at a declared identity, and at a last name that is itself just
// an initial, leaving those as primaries of what was collected above them.
func (c *Catalog) collectBranchIdentities(n *node) {
	var collected []identity.ID
	for len(n.children) == 1 {
		if len(n.identities) > 0 {
			first := c.arena.Get(n.identities[0])
			if first.IsDeclared() || (first.Initials == "" && isInitialKey(first.LastName) && len([]rune(first.LastName)) == 2) {
				c.makeSynonymous(n, collected)
				collected = nil
			} else {
				collected = append(collected, n.identities...)
				n.identities = nil
			}
		}
		n = n.children[0]
	}
	c.makeSynonymous(n, collected)
	for _, child := range n.children {
		c.collectBranchIdentities(child)
	}
}

// makeSynonymous adds collected to the identities of n and makes the first
// identity of n the primary of all of them.
func (c *Catalog) makeSynonymous(n *node, collected []identity.ID) {
	n.identities = append(n.identities, collected...)
	if len(n.identities) == 0 {
		return
	}
	primary := n.identities[0]
	for _, id := range n.identities {
		c.arena.SetPrimary(id, primary)
	}
}

func (c *Catalog) collectSynonyms(n *node) {
	for {
		if len(n.identities) > 0 {
			c.addSynonyms(n.identities[0], n.identities)
		}
		if len(n.children) != 1 {
			break
		}
		n = n.children[0]
	}
	for _, child := range n.children {
		c.collectSynonyms(child)
	}
}

func (c *Catalog) addSynonyms(member identity.ID, ids []identity.ID) {
	top := c.arena.TopPrimary(member)
	name := c.arena.Get(top).String()
	g, ok := c.synonyms.get(name)
	if !ok {
		g = &group{primary: top}
		c.synonyms.set(name, g)
	}
	g.members = append(g.members, ids...)
}
