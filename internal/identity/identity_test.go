// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentity_String(t *testing.T) {
	cases := []struct {
		name     string
		identity *Identity
		lnf      string
		fnf      string
	}{
		{"last only", New("Johnson", "", ""), "Johnson", "Johnson"},
		{"with initials", New("Reddell", "J. R.", ""), "Reddell, J. R.", "J. R. Reddell"},
		{"with suffix", New("Johnson", "", "Jr."), "Johnson, Jr.", "Johnson, Jr."},
		{"full", New("Johnson", "Fred G.", "III"), "Johnson, Fred G., III", "Fred G. Johnson, III"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.lnf, tc.identity.String())
			assert.Equal(t, tc.fnf, tc.identity.FirstNameFirst())
		})
	}
}

func TestIdentity_EqualIgnoresProvenance(t *testing.T) {
	a := New("Smith", "John", "", Found)
	a.AddRawName("Smith,John")
	b := New("Smith", "John", "", DeclaredPrimary)

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(New("Smith", "John", "Jr.")))
	assert.False(t, a.Equal(New("smith", "John", "")))
	assert.False(t, a.Equal(nil))
}

func TestIdentity_FirstName(t *testing.T) {
	assert.Equal(t, "Fred", New("Johnson", "Fred G.", "").FirstName())
	assert.Equal(t, "F.", New("Johnson", "F.", "").FirstName())
	assert.Equal(t, "", New("Johnson", "", "").FirstName())
}

func TestIdentity_RawNames(t *testing.T) {
	ident := New("Reddell", "J. R.", "")
	ident.AddRawName("Reddell,J.R.")
	ident.AddRawName("Reddell, J. R.")
	ident.AddRawName("Reddell,  J.R. ")

	assert.Equal(t, []string{"Reddell, J. R."}, ident.RawNames)

	ident.SetRawName("J.R. Reddell")
	assert.Equal(t, []string{"J.R. Reddell"}, ident.RawNames)

	ident.ClearRawNames()
	assert.Nil(t, ident.RawNames)
}

func TestNormalizeRawName(t *testing.T) {
	cases := map[string]string{
		"Johnson,  F.G.":  "Johnson, F. G.",
		"Smith,John":      "Smith, John",
		"S.. Black":       "S.. Black",
		"Black , Jack":    "Black , Jack",
		"Jones, J. ,":     "Jones, J.,",
		"Porter   ":       "Porter",
		"de la Rosa, M.":  "de la Rosa, M.",
		"Elliott, W.R.":   "Elliott, W. R.",
		"Gamboa,A.,Reyes": "Gamboa, A., Reyes",
	}
	for raw, expected := range cases {
		assert.Equal(t, expected, NormalizeRawName(raw), "raw %q", raw)
	}
}

func TestIdentity_Clone(t *testing.T) {
	ident := New("Smith", "J.", "", Found)
	ident.AddRawName("J. Smith")
	c := ident.Clone()
	c.AddRawName("Smith, J.")
	c.AddProperty(Known)

	assert.Equal(t, []string{"J. Smith"}, ident.RawNames)
	assert.False(t, ident.HasProperty(Known))
	assert.True(t, c.Equal(ident))
}

func TestArena_Links(t *testing.T) {
	arena := NewArena()
	a := arena.Add(New("Johnson", "Fred", "", Found))
	b := arena.Add(New("Johnson", "F.", "", Found))
	c := arena.Add(New("Johnson", "Fred G.", "", Found))

	assert.Equal(t, 3, arena.Len())
	assert.Equal(t, NoID, arena.Primary(a))

	arena.SetPrimary(c, c)
	arena.SetPrimary(a, c)
	arena.SetPrimary(b, a)

	assert.Equal(t, c, arena.TopPrimary(b))
	assert.Equal(t, c, arena.TopPrimary(a))
	assert.Equal(t, c, arena.TopPrimary(c))
	assert.True(t, arena.IsPrimary(c))
	assert.False(t, arena.IsPrimary(b))
}

func TestArena_TopPrimaryPanicsOnUnsetLink(t *testing.T) {
	arena := NewArena()
	a := arena.Add(New("Johnson", "", ""))
	b := arena.Add(New("Johnson", "F.", ""))
	arena.SetPrimary(b, a)

	assert.Panics(t, func() { arena.TopPrimary(a) })
	assert.Panics(t, func() { arena.TopPrimary(b) })
}

func TestArena_TopPrimaryPanicsOnCycle(t *testing.T) {
	arena := NewArena()
	a := arena.Add(New("Johnson", "", ""))
	b := arena.Add(New("Johnson", "F.", ""))
	arena.SetPrimary(a, b)
	arena.SetPrimary(b, a)

	assert.Panics(t, func() { arena.TopPrimary(a) })
}

func TestArena_Merge(t *testing.T) {
	arena := NewArena()
	first := New("Smith", "J.", "", Found)
	first.AddRawName("J. Smith")
	second := New("Smith", "J.", "", Found)
	second.AddRawName("Smith, J.")
	second.AddRawName("J. Smith")

	a := arena.Add(first)
	b := arena.Add(second)
	arena.Merge(a, b)

	assert.Equal(t, []string{"J. Smith", "Smith, J."}, first.RawNames)
	assert.Equal(t, a, arena.Master(b))
	assert.Equal(t, a, arena.Master(a))
	assert.Panics(t, func() { arena.Merge(a, a) })
}

func TestArena_IsDeclaredVariant(t *testing.T) {
	arena := NewArena()
	declared := arena.Add(New("Johnson", "Frederick", "", DeclaredPrimary))
	variant := arena.Add(New("Johnson", "Fred", "", Found))
	plain := arena.Add(New("Johnson", "F.", "", Found))
	loose := arena.Add(New("Black", "", "", Found))

	arena.SetPrimary(declared, declared)
	arena.SetPrimary(variant, declared)
	arena.SetPrimary(plain, variant)
	arena.SetPrimary(loose, loose)

	require.True(t, arena.IsDeclaredVariant(declared))
	assert.True(t, arena.IsDeclaredVariant(variant))
	assert.True(t, arena.IsDeclaredVariant(plain))
	assert.False(t, arena.IsDeclaredVariant(loose))

	unlinked := arena.Add(New("Black", "J.", "", Found))
	assert.False(t, arena.IsDeclaredVariant(unlinked))
}
