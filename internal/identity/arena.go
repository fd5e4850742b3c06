// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package identity

import "fmt"

// ID addresses an identity within an Arena.
type ID int

// NoID is the unset link.
const NoID ID = -1

type arenaEntry struct {
	identity *Identity
	primary  ID
	master   ID
}

// Arena owns a set of identities and the links between them. The primary link
// records the canonical identity a record was consolidated into; the master
// link records the surviving copy a duplicate was merged into.
type Arena struct {
	entries []arenaEntry
}

// NewArena creates an empty arena.
func NewArena() *Arena {
	return &Arena{}
}

// Add stores ident and returns its ID. Both links start unset.
func (a *Arena) Add(ident *Identity) ID {
	a.entries = append(a.entries, arenaEntry{identity: ident, primary: NoID, master: NoID})
	return ID(len(a.entries) - 1)
}

// Len returns the number of identities ever added.
func (a *Arena) Len() int {
	return len(a.entries)
}

// Get returns the identity stored at id.
func (a *Arena) Get(id ID) *Identity {
	return a.entries[id].identity
}

// Primary returns the direct primary link of id, or NoID.
func (a *Arena) Primary(id ID) ID {
	return a.entries[id].primary
}

// SetPrimary links id to primary.
func (a *Arena) SetPrimary(id, primary ID) {
	a.entries[id].primary = primary
}

// IsPrimary reports whether id is its own primary.
func (a *Arena) IsPrimary(id ID) bool {
	return a.entries[id].primary == id
}

// TopPrimary follows primary links from id until reaching an identity that is
// its own primary. An unset link or a cycle is an invariant violation.
func (a *Arena) TopPrimary(id ID) ID {
	primary := a.entries[id].primary
	if primary == NoID {
		panic(fmt.Sprintf("identity %q has no primary", a.entries[id].identity))
	}
	for steps := 0; a.entries[primary].primary != primary; steps++ {
		next := a.entries[primary].primary
		if next == NoID {
			panic(fmt.Sprintf("primary %q of identity %q has no primary",
				a.entries[primary].identity, a.entries[id].identity))
		}
		if steps > len(a.entries) {
			panic(fmt.Sprintf("primary chain of identity %q does not terminate", a.entries[id].identity))
		}
		primary = next
	}
	return primary
}

// IsDeclaredVariant reports whether any identity along the primary chain of id
// carries a declared property.
func (a *Arena) IsDeclaredVariant(id ID) bool {
	primary := a.entries[id].primary
	if primary == NoID {
		return false
	}
	declared := a.entries[primary].identity.IsDeclared()
	for steps := 0; a.entries[primary].primary != primary; steps++ {
		primary = a.entries[primary].primary
		if primary == NoID || steps > len(a.entries) {
			break
		}
		if !declared {
			declared = a.entries[primary].identity.IsDeclared()
		}
	}
	return declared
}

// Merge folds the raw names of from into into and makes into the master copy
// of from.
func (a *Arena) Merge(into, from ID) {
	if into == from {
		panic(fmt.Sprintf("attempted to merge %q with itself", a.entries[into].identity))
	}
	target := a.entries[into].identity
	for _, raw := range a.entries[from].identity.RawNames {
		target.AddRawName(raw)
	}
	a.entries[from].master = into
}

// Master returns the surviving copy that id was merged into, or id itself.
func (a *Arena) Master(id ID) ID {
	for a.entries[id].master != NoID {
		id = a.entries[id].master
	}
	return id
}
