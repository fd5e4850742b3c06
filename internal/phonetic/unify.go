// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package phonetic

import (
	"strings"

	"github.com/agnivade/levenshtein"
)

// Spelling is the last name of one identity together with the number of
// times that identity occurred.
type Spelling struct {
	Name  string
	Count int
}

// Coder maps a name to a code shared by similar-sounding names.
type Coder interface {
	Code(name string) string
}

// Unifier rewrites similar-sounding last names to a single spelling.
type Unifier struct {
	coder      Coder
	isDeclared func(lowerName string) bool
}

// NewUnifier creates a unifier. isDeclared reports whether a lowercase last
// name is a declared last name; with a nil isDeclared no names are unified.
func NewUnifier(coder Coder, isDeclared func(lowerName string) bool) *Unifier {
	return &Unifier{coder: coder, isDeclared: isDeclared}
}

// Unify returns the last name each spelling should take, aligned by index
// with spellings. Within each group of names sharing a phonetic code:
//
//   - an undeclared spelling takes the declared spelling strictly closest to
//     it by edit distance;
//   - the remaining spellings all take a spelling whose count exceeds every
//     other remaining count by at least two;
//   - failing that, they take the one spelling with the least total edit
//     distance to the others, and keep their own spellings on a tie.
func (u *Unifier) Unify(spellings []Spelling) []string {
	result := make([]string, len(spellings))
	for i, s := range spellings {
		result[i] = s.Name
	}
	if u.isDeclared == nil {
		return result
	}

	var codes []string
	groups := make(map[string][]*tracker)
	for i, s := range spellings {
		code := u.coder.Code(s.Name)
		if _, ok := groups[code]; !ok {
			codes = append(codes, code)
		}
		groups[code] = append(groups[code], newTracker(s, i))
	}
	for _, code := range codes {
		if group := groups[code]; len(group) > 1 {
			u.unifyGroup(group, result)
		}
	}
	return result
}

func (u *Unifier) unifyGroup(group []*tracker, result []string) {
	declared := newTrackerSet()
	for _, t := range group {
		if existing, ok := declared.get(t.lower); ok {
			existing.merge(t)
		} else if u.isDeclared(t.lower) {
			declared.add(t)
		}
	}

	uncorrected := newTrackerSet()
	for _, t := range group {
		if _, ok := declared.get(t.lower); ok {
			continue
		}
		if closest := closestTracker(t, declared.list); closest != nil {
			t.rename(closest.name, result)
		} else if existing, ok := uncorrected.get(t.lower); ok {
			existing.merge(t)
		} else {
			uncorrected.add(t)
		}
	}
	if len(uncorrected.list) < 2 {
		return
	}

	target := dominantTracker(uncorrected.list)
	if target == nil {
		target = centralTracker(uncorrected.list)
	}
	if target == nil {
		return
	}
	for _, t := range uncorrected.list {
		t.rename(target.name, result)
	}
}

// closestTracker returns the candidate strictly closest to t, or nil when
// there are no candidates or the closest distance is shared.
func closestTracker(t *tracker, candidates []*tracker) *tracker {
	var closest *tracker
	closestDistance := -1
	for _, c := range candidates {
		distance := levenshtein.ComputeDistance(t.lower, c.lower)
		switch {
		case closestDistance < 0 || distance < closestDistance:
			closest = c
			closestDistance = distance
		case distance == closestDistance:
			closest = nil
		}
	}
	return closest
}

const dominanceMargin = 2

// dominantTracker returns the tracker whose count exceeds every other count
// by at least dominanceMargin.
func dominantTracker(trackers []*tracker) *tracker {
	var top *tracker
	for _, t := range trackers {
		if top == nil || t.count > top.count {
			top = t
		}
	}
	for _, t := range trackers {
		if t != top && t.count > top.count-dominanceMargin {
			return nil
		}
	}
	return top
}

// centralTracker returns the tracker with the least total edit distance to
// all the others, or nil on a tie.
func centralTracker(trackers []*tracker) *tracker {
	var central *tracker
	minSum := -1
	tied := false
	for _, t1 := range trackers {
		sum := 0
		for _, t2 := range trackers {
			sum += levenshtein.ComputeDistance(t1.lower, t2.lower)
		}
		switch {
		case minSum < 0 || sum < minSum:
			central = t1
			minSum = sum
			tied = false
		case sum == minSum:
			tied = true
		}
	}
	if tied {
		return nil
	}
	return central
}

type tracker struct {
	name    string
	lower   string
	count   int
	indices []int
}

func newTracker(s Spelling, index int) *tracker {
	return &tracker{
		name:    s.Name,
		lower:   strings.ToLower(s.Name),
		count:   s.Count,
		indices: []int{index},
	}
}

func (t *tracker) merge(other *tracker) {
	t.count += other.count
	t.indices = append(t.indices, other.indices...)
}

func (t *tracker) rename(name string, result []string) {
	for _, i := range t.indices {
		result[i] = name
	}
}

// trackerSet keeps trackers keyed by lowercase name in insertion order.
type trackerSet struct {
	byName map[string]*tracker
	list   []*tracker
}

func newTrackerSet() *trackerSet {
	return &trackerSet{byName: make(map[string]*tracker)}
}

func (s *trackerSet) get(lower string) (*tracker, bool) {
	t, ok := s.byName[lower]
	return t, ok
}

func (s *trackerSet) add(t *tracker) {
	s.byName[t.lower] = t
	s.list = append(s.list, t)
}
