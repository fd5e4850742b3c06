// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package identity

import (
	"fmt"
	"math/bits"
	"strings"
	"sync"
)

// Property is a single provenance tag. Each property occupies one bit so that
// an identity's tags fit in a Properties set.
type Property uint64

// Built-in properties.
const (
	Found Property = 1 << iota
	DeclaredPrimary
	DeclaredVariant
	ReferenceName
	ReferenceLastName
	Known
	PartiallyKnown
	SeparatedReference
	Fabricated
	Uncertain

	builtinCount = iota
)

const maxProperties = 64

var registry = struct {
	sync.RWMutex
	names    map[Property]string
	declared Properties
	next     int
}{
	names: map[Property]string{
		Found:              "found in data",
		DeclaredPrimary:    "declared primary",
		DeclaredVariant:    "declared variant",
		ReferenceName:      "in reference names",
		ReferenceLastName:  "last name in reference names",
		Known:              "known name",
		PartiallyKnown:     "known name except middle initial",
		SeparatedReference: "overrode inferred variant",
		Fabricated:         "fabricated to unify name",
		Uncertain:          "uncertain",
	},
	declared: Properties(DeclaredPrimary | DeclaredVariant | ReferenceName),
	next:     builtinCount,
}

// RegisterProperty adds a new provenance tag. A declared property marks its
// carrier as an anchor that consolidation will not push into other names.
func RegisterProperty(name string, declared bool) (Property, error) {
	registry.Lock()
	defer registry.Unlock()

	if registry.next >= maxProperties {
		return 0, fmt.Errorf("cannot register property %q: all %d property slots in use", name, maxProperties)
	}
	for p, existing := range registry.names {
		if existing == name {
			return 0, fmt.Errorf("property %q already registered as %#x", name, uint64(p))
		}
	}
	p := Property(1) << registry.next
	registry.next++
	registry.names[p] = name
	if declared {
		registry.declared |= Properties(p)
	}
	return p, nil
}

// String returns the human-readable name of the property.
func (p Property) String() string {
	registry.RLock()
	defer registry.RUnlock()
	if name, ok := registry.names[p]; ok {
		return name
	}
	return fmt.Sprintf("property(%#x)", uint64(p))
}

// IsDeclared reports whether the property marks a declared name.
func (p Property) IsDeclared() bool {
	registry.RLock()
	defer registry.RUnlock()
	return registry.declared&Properties(p) != 0
}

// Properties is a set of provenance tags.
type Properties uint64

// NewProperties builds a set from the given tags.
func NewProperties(props ...Property) Properties {
	var set Properties
	for _, p := range props {
		set |= Properties(p)
	}
	return set
}

// Has reports whether p is in the set.
func (s Properties) Has(p Property) bool {
	return s&Properties(p) != 0
}

// With returns the set extended by p.
func (s Properties) With(p Property) Properties {
	return s | Properties(p)
}

// Union returns the tags of both sets.
func (s Properties) Union(other Properties) Properties {
	return s | other
}

// HasDeclared reports whether any tag in the set is a declared property.
func (s Properties) HasDeclared() bool {
	registry.RLock()
	defer registry.RUnlock()
	return s&registry.declared != 0
}

// IsEmpty reports whether the set holds no tags.
func (s Properties) IsEmpty() bool {
	return s == 0
}

// List returns the tags in bit order.
func (s Properties) List() []Property {
	var props []Property
	for rest := uint64(s); rest != 0; rest &= rest - 1 {
		props = append(props, Property(1)<<bits.TrailingZeros64(rest))
	}
	return props
}

// Names returns the names of the tags in bit order.
func (s Properties) Names() []string {
	list := s.List()
	names := make([]string, len(list))
	for i, p := range list {
		names[i] = p.String()
	}
	return names
}

func (s Properties) String() string {
	return "[" + strings.Join(s.Names(), ", ") + "]"
}
