// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package nameparse

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

type tokenKind int

const (
	tokenComma tokenKind = iota
	tokenName
	tokenAbbrev // letters followed by a period
	tokenSuffix
)

func (k tokenKind) String() string {
	switch k {
	case tokenComma:
		return "COMMA"
	case tokenName:
		return "NAME"
	case tokenAbbrev:
		return "ABBREV"
	case tokenSuffix:
		return "SUFFIX"
	}
	return "UNKNOWN"
}

// token is one lexical unit of a name string. offset is the rune offset of
// the token within the raw text.
type token struct {
	kind   tokenKind
	value  string
	offset int
}

var (
	abbreviatedSuffixes = []string{"Jr", "Sr"}
	romanSuffixes       = []string{"II", "III", "IV"}
)

func newToken(offset int, raw string) token {
	t := token{kind: tokenName, value: raw, offset: offset}

	potentialSuffix := capitalize(raw)
	if strings.HasSuffix(potentialSuffix, ".") {
		potentialSuffix = strings.TrimSuffix(raw, ".")
	}

	switch {
	case raw == ",":
		t.kind = tokenComma
	case contains(abbreviatedSuffixes, potentialSuffix):
		t.kind = tokenSuffix
		t.value = potentialSuffix + "."
	case contains(romanSuffixes, raw):
		t.kind = tokenSuffix
	case strings.HasSuffix(raw, "."):
		t.kind = tokenAbbrev
	}
	return t
}

// The second dash is an en dash.
var rawTokenPattern = regexp.MustCompile(`[^-–., ]+[.]?|[.,]|[-–]| +`)

const protectedEtAl = "et_al!"

// tokenize splits preprocessed name text into tokens. Hyphens join the
// adjacent runs into one hyphenated name.
func tokenize(text string) ([]token, error) {
	var (
		tokens          []token
		current         string
		startOffset     int
		nextStartOffset int
	)

	for _, raw := range rawTokenPattern.FindAllString(text, -1) {
		if isLower(raw) && raw != protectedEtAl {
			raw = capitalize(raw)
		}
		rawLen := utf8.RuneCountInString(raw)

		first, _ := utf8.DecodeRuneInString(raw)
		switch {
		case raw == ".":
			return nil, parseErrorf("extraneous period")
		case first == '-' || first == '–':
			if current == "" {
				return nil, parseErrorf("name begins with a hyphen")
			}
			if strings.HasSuffix(current, "-") {
				return nil, parseErrorf("repeated hyphens")
			}
			current += "-"
		case first != ' ':
			switch {
			case current == "":
				current = raw
			case strings.HasSuffix(current, "-"):
				current += raw
			default:
				tokens = append(tokens, newToken(startOffset, current))
				startOffset = nextStartOffset
				current = raw
			}
		}
		nextStartOffset += rawLen
	}
	if current != "" {
		tokens = append(tokens, newToken(startOffset, current))
	}
	return tokens, nil
}

// capitalize upper-cases the first letter and lower-cases the rest.
func capitalize(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToTitle(r)) + strings.ToLower(s[size:])
}

// isLower reports whether s has at least one cased letter and no upper-case
// letters.
func isLower(s string) bool {
	cased := false
	for _, r := range s {
		if unicode.IsUpper(r) || unicode.IsTitle(r) {
			return false
		}
		if unicode.IsLower(r) {
			cased = true
		}
	}
	return cased
}

// isUpper reports whether s has at least one cased letter and no lower-case
// letters.
func isUpper(s string) bool {
	cased := false
	for _, r := range s {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsUpper(r) || unicode.IsTitle(r) {
			cased = true
		}
	}
	return cased
}

func isAlpha(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
