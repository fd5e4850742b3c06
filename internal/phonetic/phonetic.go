// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package phonetic groups last-name spellings by pronunciation and picks the
// spelling each group should converge on.
package phonetic

import (
	"fmt"
	"sort"
	"strings"

	"github.com/antzucaro/matchr"
)

// Algorithm names the primary phonetic code paired with Double Metaphone.
type Algorithm string

const (
	Soundex Algorithm = "soundex"
	NYSIIS  Algorithm = "nysiis"
	Phonex  Algorithm = "phonex"

	// DefaultAlgorithm is used when none is configured.
	DefaultAlgorithm = Soundex
)

var primaryCoders = map[Algorithm]func(string) string{
	Soundex: matchr.Soundex,
	NYSIIS:  matchr.NYSIIS,
	Phonex:  matchr.Phonex,
}

// Algorithms lists the supported algorithm names in sorted order.
func Algorithms() []string {
	names := make([]string, 0, len(primaryCoders))
	for name := range primaryCoders {
		names = append(names, string(name))
	}
	sort.Strings(names)
	return names
}

// Encoder computes combined phonetic codes for names.
type Encoder struct {
	algorithm Algorithm
	primary   func(string) string
}

// NewEncoder returns an encoder for the named algorithm. An empty name
// selects DefaultAlgorithm.
func NewEncoder(algorithm string) (*Encoder, error) {
	alg := Algorithm(strings.ToLower(algorithm))
	if alg == "" {
		alg = DefaultAlgorithm
	}
	primary, ok := primaryCoders[alg]
	if !ok {
		return nil, fmt.Errorf("unknown phonetic algorithm %q (valid: %s)",
			algorithm, strings.Join(Algorithms(), ", "))
	}
	return &Encoder{algorithm: alg, primary: primary}, nil
}

// DefaultEncoder returns an encoder for DefaultAlgorithm.
func DefaultEncoder() *Encoder {
	return &Encoder{algorithm: DefaultAlgorithm, primary: primaryCoders[DefaultAlgorithm]}
}

// Algorithm returns the encoder's algorithm.
func (e *Encoder) Algorithm() Algorithm {
	return e.algorithm
}

// Code returns the combined code for name. Names containing anything other
// than ASCII letters get an exact-match code, so they only group with
// identical spellings.
func (e *Encoder) Code(name string) string {
	if name == "" || !isASCIILetters(name) {
		return "=" + name
	}
	metaphone, _ := matchr.DoubleMetaphone(name)
	return e.primary(name) + "/" + metaphone
}

func isASCIILetters(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < 'a' || c > 'z') && (c < 'A' || c > 'Z') {
			return false
		}
	}
	return true
}
