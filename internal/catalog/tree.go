// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package catalog

import (
	"fmt"
	"strings"

	"namecat/internal/identity"
)

// node is one component of a name within the tree of a last name. Below the
// root come the lowercase suffix ("" when absent) and then one node per
// initial-name key. A spelled-out name sits below the node for its initial,
// so "Fred" is reached through "f." and then "fred".
type node struct {
	name       string
	identities []identity.ID
	children   []*node
	parent     *node
}

func newNode(name string) *node {
	return &node{name: name}
}

func (n *node) addChild(child *node) *node {
	n.children = append(n.children, child)
	child.parent = n
	return child
}

func (n *node) child(name string) *node {
	for _, c := range n.children {
		if c.name == name {
			return c
		}
	}
	return nil
}

func (n *node) removeChild(child *node) {
	for i, c := range n.children {
		if c == child {
			n.children = append(n.children[:i], n.children[i+1:]...)
			return
		}
	}
}

func (n *node) isLeaf() bool {
	return len(n.children) == 0
}

// initialKeys splits lowercase initial names into tree keys. An initial such
// as "j." is its own key; a spelled-out name yields its initial and then the
// name itself.
func initialKeys(initials string) ([]string, error) {
	if err := identity.CheckInitials(initials); err != nil {
		return nil, err
	}
	var keys []string
	for _, name := range strings.Split(initials, " ") {
		runes := []rune(name)
		if runes[1] != '.' {
			keys = append(keys, string(runes[0])+".")
		}
		keys = append(keys, name)
	}
	return keys, nil
}

// addToTree places id in the tree of its last name, extending the tree as
// needed. An identity equal to one already at its node is merged into it.
func (c *Catalog) addToTree(id identity.ID) {
	ident := c.arena.Get(id)
	suffixKey := strings.ToLower(ident.Suffix)

	lastNameKey := strings.ToLower(ident.LastName)
	root, ok := c.trees.get(lastNameKey)
	if !ok {
		root = newNode(ident.LastName)
		c.trees.set(lastNameKey, root)
	}
	leaf := root.child(suffixKey)
	if leaf == nil {
		leaf = root.addChild(newNode(suffixKey))
	}

	if ident.Initials != "" {
		keys, err := initialKeys(strings.ToLower(ident.Initials))
		if err != nil {
			panic(fmt.Sprintf("failed to place '%s': %v", ident, err))
		}
		for _, key := range keys {
			next := leaf.child(key)
			if next == nil {
				next = leaf.addChild(newNode(key))
			}
			leaf = next
		}
	}

	for _, existing := range leaf.identities {
		if existing == id {
			return
		}
		if c.arena.Get(existing).Equal(ident) {
			c.arena.Merge(existing, id)
			return
		}
	}
	leaf.identities = append(leaf.identities, id)
}

func collectLeaves(leaves []*node, below *node) []*node {
	if below.isLeaf() {
		return append(leaves, below)
	}
	for _, child := range below.children {
		leaves = collectLeaves(leaves, child)
	}
	return leaves
}
