// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package catalog

import (
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"namecat/internal/declared"
	"namecat/internal/identity"
	"namecat/internal/nameparse"
)

// shape describes the expected contents of a tree node.
type shape struct {
	p []*identity.Identity
	m map[string]shape
}

func found(lastName, initials, suffix string) *identity.Identity {
	return identity.New(lastName, initials, suffix, identity.Found)
}

func addAll(c *Catalog, idents ...*identity.Identity) []identity.ID {
	ids := make([]identity.ID, len(idents))
	for i, ident := range idents {
		ids[i] = c.Add(ident)
	}
	return ids
}

func createTable(t *testing.T, text string) *declared.Table {
	t.Helper()
	table := declared.New()
	require.NoError(t, table.LoadDeclared(strings.NewReader(text)))
	return table
}

// assertTree compares the tree of lastName against the expected children of
// its root. The trees are compiled first when nothing has built them yet.
func assertTree(t *testing.T, c *Catalog, lastName string, m map[string]shape) {
	t.Helper()
	if c.trees.size() == 0 {
		c.compile()
	}
	root, ok := c.trees.get(strings.ToLower(lastName))
	require.True(t, ok, "no tree for %q", lastName)
	assertNode(t, c, lastName, shape{m: m}, root)
}

func assertNode(t *testing.T, c *Catalog, path string, want shape, got *node) {
	t.Helper()
	wantNames := make([]string, 0, len(want.p))
	for _, ident := range want.p {
		wantNames = append(wantNames, ident.String())
	}
	gotNames := make([]string, 0, len(got.identities))
	for _, id := range got.identities {
		gotNames = append(gotNames, c.arena.Get(id).String())
	}
	sort.Strings(wantNames)
	sort.Strings(gotNames)
	assert.Equal(t, wantNames, gotNames, "identities at %s", path)

	gotKeys := make([]string, 0, len(got.children))
	for _, child := range got.children {
		gotKeys = append(gotKeys, child.name)
	}
	wantKeys := make([]string, 0, len(want.m))
	for key := range want.m {
		wantKeys = append(wantKeys, key)
	}
	sort.Strings(gotKeys)
	sort.Strings(wantKeys)
	if !assert.Equal(t, wantKeys, gotKeys, "children of %s", path) {
		return
	}
	for key, child := range want.m {
		assertNode(t, c, path+"/"+key, child, got.child(key))
	}
}

// assertSynonyms checks the primary names of all groups and that each listed
// identity belongs to the group of its primary.
func assertSynonyms(t *testing.T, c *Catalog, want map[string][]*identity.Identity) {
	t.Helper()
	groups := c.Synonyms()
	gotPrimaries := make([]string, 0, len(groups))
	for _, g := range groups {
		gotPrimaries = append(gotPrimaries, g.Primary.String())
	}
	wantPrimaries := make([]string, 0, len(want))
	for name := range want {
		wantPrimaries = append(wantPrimaries, name)
	}
	sort.Strings(gotPrimaries)
	sort.Strings(wantPrimaries)
	require.Equal(t, wantPrimaries, gotPrimaries)

	for name, members := range want {
		g, ok := c.SynonymGroup(name)
		require.True(t, ok, name)
		var names []string
		for _, ident := range g.Identities {
			names = append(names, ident.String())
		}
		for _, member := range members {
			assert.Contains(t, names, member.String(), "group %q", name)
		}
	}
}

func assertOnlyFound(t *testing.T, c *Catalog, ids ...identity.ID) {
	t.Helper()
	for _, id := range ids {
		ident := c.Identity(id)
		assert.Equal(t, identity.NewProperties(identity.Found), ident.Properties, ident.String())
	}
}

func TestCatalog_AddWithoutBranches(t *testing.T) {
	c := New(nil)
	p1 := found("Johnson", "", "")
	c.Add(p1)
	assertTree(t, c, "Johnson", map[string]shape{"": {p: []*identity.Identity{p1}}})

	c = New(nil)
	p1 = found("Johnson", "", "Jr.")
	c.Add(p1)
	assertTree(t, c, "Johnson", map[string]shape{"jr.": {p: []*identity.Identity{p1}}})

	c = New(nil)
	p1 = found("Johnson", "F.", "")
	c.Add(p1)
	assertTree(t, c, "Johnson", map[string]shape{
		"": {m: map[string]shape{
			"f.": {p: []*identity.Identity{p1}},
		}},
	})

	c = New(nil)
	p1 = found("Johnson", "Fred Samuel", "Jr.")
	c.Add(p1)
	assertTree(t, c, "Johnson", map[string]shape{
		"jr.": {m: map[string]shape{
			"f.": {m: map[string]shape{
				"fred": {m: map[string]shape{
					"s.": {m: map[string]shape{
						"samuel": {p: []*identity.Identity{p1}},
					}},
				}},
			}},
		}},
	})

	c = New(nil)
	p1 = found("Johnson", "F. F.", "Jr.")
	c.Add(p1)
	assertTree(t, c, "Johnson", map[string]shape{
		"jr.": {m: map[string]shape{
			"f.": {m: map[string]shape{
				"f.": {p: []*identity.Identity{p1}},
			}},
		}},
	})
}

func TestCatalog_AddDistinctBranches(t *testing.T) {
	c := New(nil)
	p1 := found("Johnson", "", "")
	p2 := found("Johnson", "", "Jr.")
	p3 := found("Johnson", "", "Sr.")
	addAll(c, p1, p2, p3)
	assertTree(t, c, "Johnson", map[string]shape{
		"":    {p: []*identity.Identity{p1}},
		"jr.": {p: []*identity.Identity{p2}},
		"sr.": {p: []*identity.Identity{p3}},
	})

	c = New(nil)
	p1 = found("Johnson", "Fred", "Jr.")
	p2 = found("Johnson", "George", "Jr.")
	addAll(c, p1, p2)
	assertTree(t, c, "Johnson", map[string]shape{
		"jr.": {m: map[string]shape{
			"f.": {m: map[string]shape{"fred": {p: []*identity.Identity{p1}}}},
			"g.": {m: map[string]shape{"george": {p: []*identity.Identity{p2}}}},
		}},
	})
}

func TestCatalog_AddOverlappingNames(t *testing.T) {
	for _, order := range [][2]string{{"Fred", "F."}, {"F.", "Fred"}} {
		c := New(nil)
		fred := found("Johnson", "Fred", "Jr.")
		initial := found("Johnson", "F.", "Jr.")
		if order[0] == "Fred" {
			addAll(c, fred, initial)
		} else {
			addAll(c, initial, fred)
		}
		assertTree(t, c, "Johnson", map[string]shape{
			"jr.": {m: map[string]shape{
				"f.": {p: []*identity.Identity{initial}, m: map[string]shape{
					"fred": {p: []*identity.Identity{fred}},
				}},
			}},
		})
	}

	c := New(nil)
	p1 := found("Johnson", "F. S. G.", "Jr.")
	p2 := found("Johnson", "Fred G.", "Jr.")
	addAll(c, p1, p2)
	assertTree(t, c, "Johnson", map[string]shape{
		"jr.": {m: map[string]shape{
			"f.": {m: map[string]shape{
				"s.": {m: map[string]shape{
					"g.": {p: []*identity.Identity{p1}},
				}},
				"fred": {m: map[string]shape{
					"g.": {p: []*identity.Identity{p2}},
				}},
			}},
		}},
	})

	c = New(nil)
	p1 = found("Johnson", "Jo", "Jr.")
	p2 = found("Johnson", "J.", "Jr.")
	addAll(c, p1, p2)
	assertTree(t, c, "Johnson", map[string]shape{
		"jr.": {m: map[string]shape{
			"j.": {p: []*identity.Identity{p2}, m: map[string]shape{
				"jo": {p: []*identity.Identity{p1}},
			}},
		}},
	})
}

func TestCatalog_DuplicateAdds(t *testing.T) {
	for _, initials := range []string{"", "F.", "Fred", "F. S.", "Fred Samuel"} {
		c := New(nil)
		p1 := found("Johnson", initials, "Jr.")
		p1.AddRawName("first")
		p2 := found("Johnson", initials, "Jr.")
		p2.AddRawName("second")
		ids := addAll(c, p1, p2)

		assert.Equal(t, ids[0], ids[1], initials)
		assert.Equal(t, 1, c.CountIdentities())
		assert.Equal(t, 2, p1.Occurrences)
		assert.Equal(t, []string{"first", "second"}, p1.RawNames)
		assert.Same(t, p1, c.Identity(ids[1]))
	}

	c := New(nil)
	p1 := found("Johnson", "Fred S.", "Jr.")
	addAll(c, p1, found("Johnson", "Fred S.", "Jr."))
	assertTree(t, c, "Johnson", map[string]shape{
		"jr.": {m: map[string]shape{
			"f.": {m: map[string]shape{
				"fred": {m: map[string]shape{
					"s.": {p: []*identity.Identity{p1}},
				}},
			}},
		}},
	})
}

func TestCatalog_UnnecessaryConsolidation(t *testing.T) {
	for _, initials := range []string{"", "F.", "Fred", "F. S.", "F. F."} {
		c := New(nil)
		ids := addAll(c, found("Johnson", initials, "Jr."))
		c.CorrectAndConsolidate(Options{})
		assert.Same(t, c.Identity(ids[0]), c.Primary(ids[0]), initials)
	}

	c := New(nil)
	p1 := found("Johnson", "F. G. S.", "Jr.")
	p2 := found("Johnson", "Fred G. H.", "Jr.")
	ids := addAll(c, p1, p2)
	c.CorrectAndConsolidate(Options{})
	assert.Same(t, p1, c.Primary(ids[0]))
	assert.Same(t, p2, c.Primary(ids[1]))
	assertTree(t, c, "Johnson", map[string]shape{
		"jr.": {m: map[string]shape{
			"f.": {m: map[string]shape{
				"g.": {m: map[string]shape{
					"s.": {p: []*identity.Identity{p1}},
				}},
				"fred": {m: map[string]shape{
					"g.": {m: map[string]shape{
						"h.": {p: []*identity.Identity{p2}},
					}},
				}},
			}},
		}},
	})
}

func TestCatalog_IntrabranchConsolidation(t *testing.T) {
	tests := []struct {
		name    string
		first   string
		second  string
		primary int
		want    map[string]shape
	}{
		{"full name first", "Fred", "F.", 0, nil},
		{"initial first", "F.", "Fred", 1, nil},
		{"longer initials second", "F.", "F. G.", 1, nil},
		{"longer initials first", "F. G.", "F.", 0, nil},
		{"short name second", "Jo", "J.", 0, nil},
		{"short name first", "J.", "Jo", 1, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(nil)
			idents := []*identity.Identity{
				found("Johnson", tt.first, "Jr."),
				found("Johnson", tt.second, "Jr."),
			}
			ids := addAll(c, idents...)
			c.CorrectAndConsolidate(Options{})

			primary := idents[tt.primary]
			assert.Same(t, primary, c.Primary(ids[0]))
			assert.Same(t, primary, c.Primary(ids[1]))
			assertSynonyms(t, c, map[string][]*identity.Identity{
				primary.String(): idents,
			})
		})
	}

	c := New(nil)
	p1 := found("Johnson", "F. G. H.", "Jr.")
	p2 := found("Johnson", "F.", "Jr.")
	ids := addAll(c, p1, p2)
	c.CorrectAndConsolidate(Options{})
	assert.Same(t, p1, c.Primary(ids[1]))
	assertTree(t, c, "Johnson", map[string]shape{
		"jr.": {m: map[string]shape{
			"f.": {m: map[string]shape{
				"g.": {m: map[string]shape{
					"h.": {p: []*identity.Identity{p1, p2}},
				}},
			}},
		}},
	})
}

func TestCatalog_IntrabranchConsolidationKeepsSiblings(t *testing.T) {
	c := New(nil)
	p1 := found("Vogel", "", "")
	p2 := found("Vogel", "B.", "")
	p3 := found("Vogel", "M.", "")
	p4 := found("Vogel", "M. F.", "")
	p5 := found("Vogel", "Megan F.", "")
	id2 := c.Add(p2)
	id1 := c.Add(p1)
	id5 := c.Add(p5)
	id4 := c.Add(p4)
	id3 := c.Add(p3)
	c.CorrectAndConsolidate(Options{})

	assert.Same(t, p1, c.Primary(id1))
	assert.Same(t, p2, c.Primary(id2))
	assert.Same(t, p5, c.Primary(id3))
	assert.Same(t, p5, c.Primary(id4))
	assert.Same(t, p5, c.Primary(id5))
	assertTree(t, c, "Vogel", map[string]shape{
		"": {p: []*identity.Identity{p1}, m: map[string]shape{
			"m.": {m: map[string]shape{
				"megan": {m: map[string]shape{
					"f.": {p: []*identity.Identity{p3, p4, p5}},
				}},
			}},
			"b.": {p: []*identity.Identity{p2}},
		}},
	})
}

func TestCatalog_CrossbranchSynonyms(t *testing.T) {
	c := New(nil)
	p1 := found("Johnson", "F. G.", "Jr.")
	p2 := found("Johnson", "Fred G.", "Jr.")
	p3 := found("Johnson", "F.", "Jr.")
	ids := addAll(c, p1, p2, p3)
	assertTree(t, c, "Johnson", map[string]shape{
		"jr.": {m: map[string]shape{
			"f.": {p: []*identity.Identity{p3}, m: map[string]shape{
				"g.": {p: []*identity.Identity{p1}},
				"fred": {m: map[string]shape{
					"g.": {p: []*identity.Identity{p2}},
				}},
			}},
		}},
	})

	c.CorrectAndConsolidate(Options{})
	assert.Same(t, p2, c.Primary(ids[0]))
	assert.Same(t, p2, c.Primary(ids[1]))
	assert.Same(t, p2, c.Primary(ids[2]))
	assertTree(t, c, "Johnson", map[string]shape{
		"jr.": {m: map[string]shape{
			"f.": {m: map[string]shape{
				"fred": {m: map[string]shape{
					"g.": {p: []*identity.Identity{p1, p2, p3}},
				}},
			}},
		}},
	})
}

func TestCatalog_CrossbranchSynonymsWithSharedInitial(t *testing.T) {
	c := New(nil)
	p1 := found("Cokendolpher", "", "")
	p2 := found("Cokendolpher", "J.", "")
	p3 := found("Cokendolpher", "J. C.", "")
	p4 := found("Cokendolpher", "J. F.", "")
	p5 := found("Cokendolpher", "James C.", "")
	p6 := found("Cokendolpher", "James", "")
	addAll(c, p1, p2, p3, p4, p5, p6)
	assertTree(t, c, "Cokendolpher", map[string]shape{
		"": {p: []*identity.Identity{p1}, m: map[string]shape{
			"j.": {p: []*identity.Identity{p2}, m: map[string]shape{
				"c.": {p: []*identity.Identity{p3}},
				"f.": {p: []*identity.Identity{p4}},
				"james": {p: []*identity.Identity{p6}, m: map[string]shape{
					"c.": {p: []*identity.Identity{p5}},
				}},
			}},
		}},
	})

	c.CorrectAndConsolidate(Options{})
	assertTree(t, c, "Cokendolpher", map[string]shape{
		"": {m: map[string]shape{
			"j.": {p: []*identity.Identity{p1, p2}, m: map[string]shape{
				"f.": {p: []*identity.Identity{p4}},
				"james": {m: map[string]shape{
					"c.": {p: []*identity.Identity{p3, p5, p6}},
				}},
			}},
		}},
	})
	assertSynonyms(t, c, map[string][]*identity.Identity{
		"Cokendolpher, J.":       {p1, p2},
		"Cokendolpher, J. F.":    {p4},
		"Cokendolpher, James C.": {p3, p5, p6},
	})
}

func TestCatalog_InferredNameCreation(t *testing.T) {
	tests := []struct {
		name     string
		initials []string
		want     string
	}{
		{"abbreviated last name first", []string{"F. George", "Fred G."}, "Johnson, Fred George, Jr."},
		{"abbreviated first name first", []string{"Fred G.", "F. George"}, "Johnson, Fred George, Jr."},
		{"three names", []string{"F. George H.", "Fred G.", "F. G."}, "Johnson, Fred George H., Jr."},
		{"three names reversed", []string{"F. G.", "Fred G.", "F. George H."}, "Johnson, Fred George H., Jr."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(nil)
			var ids []identity.ID
			for _, initials := range tt.initials {
				ids = append(ids, c.Add(found("Johnson", initials, "Jr.")))
			}
			c.CorrectAndConsolidate(Options{})

			primary := c.Primary(ids[0])
			require.NotNil(t, primary)
			assert.Equal(t, tt.want, primary.String())
			assert.True(t, primary.HasProperty(identity.Fabricated))
			assert.Equal(t, 0, primary.Occurrences)
			for _, id := range ids {
				assert.Same(t, primary, c.Primary(id))
				assert.False(t, c.Identity(id).HasProperty(identity.Fabricated))
			}

			fabricated, ok := c.IdentityByName(tt.want)
			require.True(t, ok)
			assert.Same(t, primary, fabricated)
			assert.Equal(t, len(ids), c.CountIdentities())
		})
	}
}

func TestCatalog_SynonymsWithoutDeclaredNames(t *testing.T) {
	c := New(nil)
	p1 := found("Johnson", "", "")
	ids := addAll(c, p1, found("Johnson", "", ""))
	c.CorrectAndConsolidate(Options{})
	assertSynonyms(t, c, map[string][]*identity.Identity{"Johnson": {p1}})
	assertOnlyFound(t, c, ids...)

	c = New(nil)
	p1 = found("Johnson", "Fred", "")
	p2 := found("Johnson", "Fred", "Jr.")
	ids = addAll(c, p1, p2)
	c.CorrectAndConsolidate(Options{})
	assertSynonyms(t, c, map[string][]*identity.Identity{
		"Johnson, Fred":      {p1},
		"Johnson, Fred, Jr.": {p2},
	})
	assertOnlyFound(t, c, ids...)

	c = New(nil)
	p1 = found("Johnson", "F.", "")
	p2 = found("Johnson", "Fred G.", "")
	ids = addAll(c, p1, p2)
	c.CorrectAndConsolidate(Options{})
	assertSynonyms(t, c, map[string][]*identity.Identity{"Johnson, Fred G.": {p1, p2}})
	assertOnlyFound(t, c, ids...)

	c = New(nil)
	p0 := found("Johnson", "", "")
	p1 = found("Johnson", "Fred", "")
	p2 = found("Johnson", "Fred G. H.", "")
	p3 := found("Johnson", "Fred G. S.", "")
	p4 := found("Johnson", "Fred G.", "")
	p5 := found("Johnson", "Fred", "Jr.")
	p6 := found("Johnson", "Fred G.", "Jr.")
	ids = addAll(c, p0, p1, p2, p3, p4, p5, p6)
	c.CorrectAndConsolidate(Options{})
	assertSynonyms(t, c, map[string][]*identity.Identity{
		"Johnson, Fred G.":      {p0, p1, p4},
		"Johnson, Fred G. H.":   {p2},
		"Johnson, Fred G. S.":   {p3},
		"Johnson, Fred G., Jr.": {p5, p6},
	})
	assertOnlyFound(t, c, ids...)
	assert.Equal(t, 4, c.CountPrimaries())

	c = New(nil)
	p0 = found("Johnson", "", "")
	p1 = found("Johnson", "Fred", "")
	p3 = found("Johnson", "F. George", "")
	p4 = found("Johnson", "Fred G.", "")
	p5 = found("Johnson", "F.", "")
	ids = addAll(c, p0, p1, p3, p4, p5)
	c.CorrectAndConsolidate(Options{})
	assertSynonyms(t, c, map[string][]*identity.Identity{
		"Johnson, Fred George": {p0, p1, p3, p4, p5},
	})
	for _, id := range ids {
		primary := c.Primary(id)
		require.NotNil(t, primary)
		assert.Equal(t, "Johnson, Fred George", primary.String())
		assert.True(t, primary.HasProperty(identity.Fabricated))
	}
	assertOnlyFound(t, c, ids...)
}

func TestCatalog_SynonymsWithDeclaredNames(t *testing.T) {
	t.Run("declared last name only", func(t *testing.T) {
		c := New(createTable(t, "Johnson"))
		p1 := found("Johnson", "Fred", "")
		p2 := found("Johnson", "", "")
		ids := addAll(c, p1, p2)
		c.CorrectAndConsolidate(Options{})
		assertSynonyms(t, c, map[string][]*identity.Identity{
			"Johnson, Fred": {p1},
			"Johnson":       {p2},
		})
		assert.Same(t, p1, c.Primary(ids[0]))
		assert.Same(t, p2, c.Primary(ids[1]))
		assertOnlyFound(t, c, ids[0])
		assert.True(t, p2.HasProperty(identity.DeclaredPrimary))
	})

	t.Run("declared initial and full name", func(t *testing.T) {
		c := New(createTable(t, `
			Johnson, F.
			Johnson, Frederick
		`))
		p1 := found("Johnson", "Frederick", "")
		p2 := found("Johnson", "F.", "")
		ids := addAll(c, p1, p2)
		c.CorrectAndConsolidate(Options{})
		assertSynonyms(t, c, map[string][]*identity.Identity{
			"Johnson, Frederick": {p1},
			"Johnson, F.":        {p2},
		})
		for i, p := range []*identity.Identity{p1, p2} {
			assert.Same(t, p, c.Primary(ids[i]))
			assert.True(t, p.HasProperty(identity.DeclaredPrimary))
		}
	})

	t.Run("declared variants", func(t *testing.T) {
		c := New(createTable(t, `
			Johnson, Frederick Q.
			- Johnson, Fred
			- Johnson, Freddie
		`))
		p1 := found("Johnson", "Frederick Q.", "")
		p2 := found("Johnson", "Fred", "")
		p3 := found("Johnson", "Freddie", "")
		ids := addAll(c, p1, p2, p3)
		c.CorrectAndConsolidate(Options{})
		assertSynonyms(t, c, map[string][]*identity.Identity{
			"Johnson, Frederick Q.": {p1, p2, p3},
		})
		for _, id := range ids {
			assert.Same(t, p1, c.Primary(id))
		}
		assert.True(t, p1.HasProperty(identity.DeclaredPrimary))
		assert.True(t, p2.HasProperty(identity.DeclaredVariant))
		assert.True(t, p3.HasProperty(identity.DeclaredVariant))
	})

	inferred := []struct {
		name     string
		table    string
		initials []string
	}{
		{"nickname", "Johnson, Frederick\n- Johnson, Chuck", []string{"Frederick", "Chuck", "C."}},
		{"unrelated nickname", "Johnson, Charles\n- Johnson, Jack", []string{"Charles", "Jack", "J."}},
		{"shared initial", "Johnson, Charles\n- Johnson, Charlie", []string{"Charles", "Charlie", "C."}},
		{"two names", "Johnson, Susan Quack\n- Johnson, Susie Quack", []string{"Susan Quack", "Susie Quack", "Susie Q."}},
	}
	for _, tt := range inferred {
		t.Run(tt.name, func(t *testing.T) {
			c := New(createTable(t, tt.table))
			var idents []*identity.Identity
			for _, initials := range tt.initials {
				idents = append(idents, found("Johnson", initials, ""))
			}
			ids := addAll(c, idents...)
			c.CorrectAndConsolidate(Options{})

			assertSynonyms(t, c, map[string][]*identity.Identity{idents[0].String(): idents})
			for _, id := range ids {
				assert.Same(t, idents[0], c.Primary(id))
			}
			assert.True(t, idents[0].HasProperty(identity.DeclaredPrimary))
			assert.True(t, idents[1].HasProperty(identity.DeclaredVariant))
			assertOnlyFound(t, c, ids[2])
		})
	}

	t.Run("variant with another last name", func(t *testing.T) {
		c := New(createTable(t, `
			Johnson, Susan
			- Richter, Suzie
		`))
		p1 := found("Richter", "Suzie", "")
		p2 := found("Richter", "S.", "")
		p3 := found("Johnson", "S.", "")
		ids := addAll(c, p1, p2, p3)
		c.CorrectAndConsolidate(Options{})

		susan := identity.New("Johnson", "Susan", "")
		assertSynonyms(t, c, map[string][]*identity.Identity{
			"Johnson, Susan": {p1, p2, p3, susan},
		})
		for _, id := range ids {
			assert.True(t, susan.Equal(c.Primary(id)), c.Identity(id).String())
		}
		assert.True(t, p1.HasProperty(identity.DeclaredVariant))
		assertOnlyFound(t, c, ids[1], ids[2])
	})

	t.Run("declared primary missing from data", func(t *testing.T) {
		c := New(createTable(t, `
			Johnson, William A.
			- Johnson, Wm.
		`))
		id := c.Add(found("Johnson", "Wm.", ""))
		c.CorrectAndConsolidate(Options{})

		william := identity.New("Johnson", "William A.", "")
		assertSynonyms(t, c, map[string][]*identity.Identity{
			"Johnson, William A.": {c.Identity(id), william},
		})
		primary := c.Primary(id)
		assert.True(t, william.Equal(primary))
		assert.False(t, primary.HasProperty(identity.Found))
		assert.Equal(t, 0, primary.Occurrences)
		assert.True(t, c.Identity(id).HasProperty(identity.DeclaredVariant))
	})

	t.Run("declared abbreviation", func(t *testing.T) {
		c := New(createTable(t, `
			Elliott, William
			- Elliott, Wm.
		`))
		p1 := found("Elliott", "William R.", "")
		p2 := found("Elliott", "William", "")
		p3 := found("Elliott", "Wm.", "")
		p4 := found("Elliott", "Will", "")
		ids := addAll(c, p1, p2, p3, p4)
		c.CorrectAndConsolidate(Options{})

		assertSynonyms(t, c, map[string][]*identity.Identity{
			"Elliott, William R.": {p1},
			"Elliott, William":    {p2, p3},
			"Elliott, Will":       {p4},
		})
		assert.Same(t, p1, c.Primary(ids[0]))
		assert.Same(t, p2, c.Primary(ids[1]))
		assert.Same(t, p2, c.Primary(ids[2]))
		assert.Same(t, p4, c.Primary(ids[3]))
		assertOnlyFound(t, c, ids[0], ids[3])
		assert.True(t, p2.HasProperty(identity.DeclaredPrimary))
		assert.True(t, p3.HasProperty(identity.DeclaredVariant))
	})
}

func TestCatalog_SynonymsWithDeclaredAndFabricatedNames(t *testing.T) {
	c := New(createTable(t, "Johnson, F. George"))
	p1 := found("Johnson", "F. George", "")
	p2 := found("Johnson", "Fred G.", "")
	ids := addAll(c, p1, p2)
	c.CorrectAndConsolidate(Options{})
	assertSynonyms(t, c, map[string][]*identity.Identity{
		"Johnson, F. George": {p1},
		"Johnson, Fred G.":   {p2},
	})
	assert.Same(t, p1, c.Primary(ids[0]))
	assert.Same(t, p2, c.Primary(ids[1]))
	assert.True(t, p1.HasProperty(identity.DeclaredPrimary))
	assertOnlyFound(t, c, ids[1])

	c = New(createTable(t, `
		Johnson, Fred G.
	`))
	p1 = found("Johnson", "F. George", "")
	p2 = found("Johnson", "Fred G.", "")
	p3 := found("Johnson", "F.", "")
	ids = addAll(c, p1, p2, p3)
	c.CorrectAndConsolidate(Options{})
	assertSynonyms(t, c, map[string][]*identity.Identity{
		"Johnson, F. George": {p1},
		"Johnson, Fred G.":   {p2},
		"Johnson, F.":        {p3},
	})
	for i, p := range []*identity.Identity{p1, p2, p3} {
		assert.Same(t, p, c.Primary(ids[i]))
	}
	assert.True(t, p2.HasProperty(identity.DeclaredPrimary))
	assertOnlyFound(t, c, ids[0], ids[2])
}

func TestCatalog_KnownNamesSeedPrimaries(t *testing.T) {
	table := createTable(t, `
		Johnson, Frederick Q. !
		Smith, Sam
	`)
	c := New(table)
	id := c.Add(found("Johnson", "F.", ""))
	c.Add(found("Smith", "S.", ""))
	c.CorrectAndConsolidate(Options{})

	primary := c.Primary(id)
	require.NotNil(t, primary)
	assert.Equal(t, "Johnson, Frederick Q.", primary.String())
	assert.True(t, primary.HasProperty(identity.Known))
	assert.Equal(t, 0, primary.Occurrences)

	// Only known names are seeded unless merging with reference names.
	_, ok := c.IdentityByName("Smith, Sam")
	assert.False(t, ok)

	c = New(table)
	id = c.Add(found("Smith", "S.", ""))
	c.CorrectAndConsolidate(Options{MergeWithReference: true})
	assert.Equal(t, "Smith, Sam", c.Primary(id).String())
}

func TestCatalog_GroupsWithoutFoundNamesArePruned(t *testing.T) {
	c := New(createTable(t, `
		Johnson, Frederick Q. !
		Porter, Paul !
	`))
	c.Add(found("Johnson", "Fred", ""))
	c.CorrectAndConsolidate(Options{})

	_, ok := c.SynonymGroup("Porter, Paul")
	assert.False(t, ok)
	_, ok = c.IdentityByName("Porter, Paul")
	assert.False(t, ok)
	for _, g := range c.Synonyms() {
		hasFound := false
		for _, ident := range g.Identities {
			hasFound = hasFound || ident.HasProperty(identity.Found)
		}
		assert.True(t, hasFound, g.Primary.String())
	}
}

func TestCatalog_ConsolidationIsIdempotent(t *testing.T) {
	build := func() *Catalog {
		c := New(nil)
		for _, initials := range []string{"", "Fred", "F. George", "Fred G.", "F.", "J. R."} {
			c.Add(found("Johnson", initials, ""))
		}
		return c
	}
	groupNames := func(c *Catalog) map[string][]string {
		out := make(map[string][]string)
		for _, g := range c.Synonyms() {
			var names []string
			for _, ident := range g.Identities {
				names = append(names, ident.String())
			}
			sort.Strings(names)
			out[g.Primary.String()] = names
		}
		return out
	}

	c := build()
	c.CorrectAndConsolidate(Options{})
	first := groupNames(c)
	c.CorrectAndConsolidate(Options{})
	assert.Equal(t, first, groupNames(c))
	assert.Equal(t, groupNames(c), func() map[string][]string {
		fresh := build()
		fresh.CorrectAndConsolidate(Options{})
		return groupNames(fresh)
	}())
}

func TestCatalog_EveryIdentityInOneGroup(t *testing.T) {
	c := New(createTable(t, `
		Johnson, Susan
		- Richter, Suzie
		Elliott, William
		- Elliott, Wm.
	`))
	for _, ident := range []*identity.Identity{
		found("Richter", "Suzie", ""),
		found("Richter", "S.", ""),
		found("Johnson", "S.", ""),
		found("Elliott", "William R.", ""),
		found("Elliott", "Wm.", ""),
		found("Vogel", "M. F.", ""),
		found("Vogel", "Megan F.", ""),
	} {
		c.Add(ident)
	}
	c.CorrectAndConsolidate(Options{})

	seen := make(map[*identity.Identity]int)
	for _, g := range c.Synonyms() {
		assert.Contains(t, g.Identities, g.Primary)
		for _, ident := range g.Identities {
			seen[ident]++
		}
	}
	for _, ident := range c.Identities() {
		assert.Equal(t, 1, seen[ident], ident.String())
	}
}

// firstLetterCoder groups last names by their first letter.
type firstLetterCoder struct{}

func (firstLetterCoder) Code(name string) string {
	return strings.ToLower(name[:1])
}

func TestCatalog_UnifyBySound(t *testing.T) {
	c := New(createTable(t, "Reddell, John"))
	misspelled := found("Redell", "John", "")
	misspelled.AddRawName("John Redell")
	correct := found("Reddell", "John", "")
	correct.AddRawName("John Reddell")
	ids := addAll(c, misspelled, correct)
	c.CorrectAndConsolidate(Options{UnifyBySound: true, Coder: firstLetterCoder{}})

	assert.Equal(t, ids[0], c.arena.Master(ids[1]))
	assert.True(t, c.IsAutocorrectedName("John Redell"))
	assert.False(t, c.IsAutocorrectedName("John Reddell"))
	assert.Equal(t, 1, c.CountIdentities())

	ident, ok := c.IdentityByName("Reddell, John")
	require.True(t, ok)
	assert.Equal(t, 2, ident.Occurrences)
	assert.Same(t, misspelled, ident)
	assert.Equal(t, []string{"John Redell", "John Reddell"}, ident.RawNames)
	assert.True(t, ident.HasProperty(identity.DeclaredPrimary))
}

func TestCatalog_UnifyBySoundRequiresDeclaredNames(t *testing.T) {
	c := New(nil)
	ids := addAll(c, found("Redell", "John", ""), found("Reddell", "John", ""))
	c.CorrectAndConsolidate(Options{UnifyBySound: true, Coder: firstLetterCoder{}})
	assert.Equal(t, 2, c.CountIdentities())
	assert.NotEqual(t, c.Identity(ids[0]).LastName, c.Identity(ids[1]).LastName)
}

func TestCatalog_LexicallyModifiedNames(t *testing.T) {
	c := New(nil)
	ident := found("Johnson", "Fred", "")
	ident.AddRawName("Johnson, Fred")
	ident.AddRawName("Fred Johnson")
	c.Add(ident)
	c.CorrectAndConsolidate(Options{})

	assert.False(t, c.IsLexicallyModifiedName("Johnson, Fred"))
	assert.True(t, c.IsLexicallyModifiedName("Fred Johnson"))
}

func TestCatalog_FindVariant(t *testing.T) {
	c := New(nil)
	addAll(c, found("Johnson", "Fred", ""), found("Johnson", "F.", ""), found("Smith", "Sam", ""))
	c.CorrectAndConsolidate(Options{})

	variant := c.FindVariant("johnson", func(ident *identity.Identity) bool {
		return ident.Initials == "F."
	})
	require.NotNil(t, variant)
	assert.Equal(t, "Johnson, F.", variant.String())
	assert.Nil(t, c.FindVariant("Porter", func(*identity.Identity) bool { return true }))
	assert.Equal(t, 3, c.CountIdentities())
	assert.Equal(t, 2, c.CountPrimaries())
}

func TestCatalog_PrimaryBeforeConsolidation(t *testing.T) {
	c := New(nil)
	id := c.Add(found("Johnson", "Fred", ""))
	assert.Nil(t, c.Primary(id))
}

func TestInitialKeys(t *testing.T) {
	keys, err := initialKeys("fred g. h.")
	require.NoError(t, err)
	assert.Equal(t, []string{"f.", "fred", "g.", "h."}, keys)

	_, err = initialKeys("f")
	assert.EqualError(t, err, "initial name 'f' too short")
}

func TestCatalog_ParsedParticleNames(t *testing.T) {
	cases := []struct {
		column  string
		names   []string
		wantErr bool
	}{
		{column: "J. de la O Smith", wantErr: true},
		{column: "Helsdingen, Van   P.", names: []string{"Helsdingen, Van P."}},
		{column: "Helsdingen, Van  P.; P. Van Helsdingen", names: []string{"Helsdingen, Van P.", "Van Helsdingen, P."}},
		{column: "Maria de la Rosa", names: []string{"de la Rosa, Maria"}},
		{column: "J. de   la Rosa", names: []string{"Rosa, J. De La"}},
		{column: "Van Zandt, T.", names: []string{"Van Zandt, T."}},
		{column: "St. Clair, J.", names: []string{"St. Clair, J."}},
		{column: "Reddell, J., et al.", names: []string{"Reddell, J.", "et al."}},
	}
	for _, tc := range cases {
		t.Run(tc.column, func(t *testing.T) {
			table := createTable(t, "Reddell, James\nSmith, John\nde la Rosa, Maria\n")
			result := nameparse.ParseColumn(tc.column, nameparse.ColumnOptions{Oracle: table, ExpandDelimiters: true})
			if tc.wantErr {
				assert.NotEmpty(t, result.Errors)
			} else {
				assert.Empty(t, result.Errors)
			}

			var names []string
			c := New(table)
			for _, ident := range result.Identities {
				names = append(names, ident.String())
				c.Add(ident)
			}
			assert.Equal(t, tc.names, names)

			require.NotPanics(t, func() {
				c.CorrectAndConsolidate(Options{UnifyBySound: true})
			})
			for _, name := range tc.names {
				_, ok := c.IdentityByName(name)
				assert.True(t, ok, name)
			}
			seen := make(map[*identity.Identity]int)
			for _, g := range c.Synonyms() {
				for _, ident := range g.Identities {
					seen[ident]++
				}
			}
			for _, ident := range c.Identities() {
				assert.Equal(t, 1, seen[ident], ident.String())
			}
		})
	}
}
