// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package nameparse

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"namecat/internal/identity"
)

// Replacement is a literal substring substitution applied to raw text.
type Replacement struct {
	From string `yaml:"from" json:"from"`
	To   string `yaml:"to" json:"to"`
}

// ColumnOptions control the parsing of one data column value.
type ColumnOptions struct {
	Oracle Oracle

	// ExpandDelimiters rewrites the column before splitting it: it strips
	// determination prefixes, applies ColumnCorrections, splits
	// "Last, A. & B." pairs and turns "&", "and", "/" and ":" into ";".
	ExpandDelimiters bool

	// ColumnCorrections are applied to the whole column when
	// ExpandDelimiters is set.
	ColumnCorrections []Replacement

	// NameCorrections are applied to each name piece. Each must preserve the
	// rune count of the text it replaces. A "|" in the replacement joins two
	// words into one token and is removed from the parsed name.
	NameCorrections []Replacement
}

// ColumnResult holds the identities parsed from a column value along with
// the problems encountered. Errors name pieces that yielded no identity.
type ColumnResult struct {
	Identities []*identity.Identity
	Errors     []string
	Warnings   []string
}

var (
	// The second initial requires a period to avoid other uses of "&".
	namePairPattern        = regexp.MustCompile(`(([^&,;]+), *([a-zA-Z][.]?) *& *([a-zA-Z][.]))`)
	shuffledInitialPattern = regexp.MustCompile(`^([-a-zA-Z'. ]+), *([a-zA-Z][.]?)$`)
)

// ParseColumn parses a column value holding any number of names separated by
// commas, semicolons, ampersands or "and". Every identity is tagged Found and
// carries the raw text it was parsed from.
func ParseColumn(text string, opts ColumnOptions) *ColumnResult {
	result := &ColumnResult{}
	text = strings.TrimSpace(norm.NFC.String(text))
	if text == "" {
		return result
	}
	if strings.ContainsAny(text, "^|") {
		result.Errors = append(result.Errors, fmt.Sprintf("reserved character found in '%s'", text))
		return result
	}

	if strings.Contains(text, ",,") || strings.Contains(text, ", ,") {
		result.Warnings = append(result.Warnings, "extraneous comma")
	}
	if opts.ExpandDelimiters {
		text = expandColumn(text, opts.ColumnCorrections)
	}

	for _, piece := range strings.Split(text, ";") {
		piece = strings.TrimSpace(piece)
		if piece == "" {
			result.Warnings = append(result.Warnings, "extraneous name delimiter")
			continue
		}
		if err := parsePiece(piece, opts, result); err != nil {
			result.Errors = append(result.Errors, err.Error())
		}
	}
	return result
}

func parsePiece(piece string, opts ColumnOptions, result *ColumnResult) error {
	pairRaw := ""
	if strings.HasSuffix(piece, "]]") {
		if open := strings.Index(piece, "[["); open >= 0 {
			pairRaw = piece[open+2 : len(piece)-2]
			pairRaw = strings.ReplaceAll(pairRaw, "&", " & ")
			pairRaw = strings.TrimSpace(strings.ReplaceAll(pairRaw, "  ", " "))
			piece = piece[:open]
		}
	}
	if isNumeric(piece) {
		return parseErrorf("completely numeric name '%s'", piece)
	}
	for i, r := range []rune(piece) {
		if r < 32 || (r > 122 && !unicode.IsLetter(r)) {
			return parseErrorf("Unexpected character #%d found at offset %d of '%s'", r, i, piece)
		}
	}

	parsed, err := Parse(preprocessName(piece, opts.NameCorrections), Options{
		Oracle:   opts.Oracle,
		Property: identity.Found,
	})
	if err != nil {
		return err
	}
	result.Warnings = append(result.Warnings, parsed.Warnings...)

	runes := []rune(piece)
	for i, ident := range parsed.Identities {
		name := ident.String()
		if utf8.RuneCountInString(name) == 2 && strings.HasSuffix(name, ".") {
			result.Errors = append(result.Errors, fmt.Sprintf("Name '%s' consists only of an initial", name))
			continue
		}
		raw := pairRaw
		if raw == "" {
			span := parsed.Spans[i]
			raw = string(runes[span.Start:span.End])
		}
		ident.SetRawName(identity.NormalizeRawName(raw))
		result.Identities = append(result.Identities, ident)
	}
	return nil
}

var (
	leadingConjunctions = []Replacement{
		{",&", ";"}, {", &", ";"}, {";&", ";"}, {"; &", ";"},
		{",and ", ";"}, {", and ", ";"}, {";and ", ";"}, {"; and ", ";"},
	}
	delimiters = []Replacement{
		{"/", ";"}, {"&", ";"}, {" and ", ";"}, {":", ";"}, {";'", "'"},
	}
	etAlSpellings = []Replacement{
		{"e t al.", "et al."}, {"et. al.", "et al."},
	}
	etAlSeparators = []Replacement{
		{",et al.", ";et al."},
		{", et al.", ";et al."},
		{",  et al.", ";et al."},
		{"et al.", ";et al."},
		{" et al", ";et al."},
		{", et al", ";et al."},
		{";;et al.", ";et al."},
		{"; ;et al.", ";et al."},
	}
)

// expandColumn rewrites a column value so that every name is delimited by a
// semicolon. Paired names keep their shared raw text in "[[...]]".
func expandColumn(text string, corrections []Replacement) string {
	lower := strings.ToLower(text)
	switch {
	case strings.HasPrefix(lower, "det "):
		text = text[4:]
	case strings.HasPrefix(lower, "det. "):
		text = text[5:]
	}
	text = strings.TrimPrefix(text, ".")
	text = replaceAll(text, corrections)

	for _, match := range namePairPattern.FindAllStringSubmatch(text, -1) {
		whole, last := match[1], match[2]
		first := fmt.Sprintf("%s, %s", last, match[3])
		second := fmt.Sprintf("%s, %s", last, match[4])
		sub := fmt.Sprintf("%s[[%s]];%s[[%s]]", first, whole, second, whole)
		text = strings.ReplaceAll(text, whole, strings.ReplaceAll(sub, "&", "@"))
	}

	text = strings.ReplaceAll(text, "  ", " ")
	text = replaceAll(text, leadingConjunctions)
	text = replaceAll(text, delimiters)
	text = replaceAll(text, etAlSpellings)
	if strings.Contains(text, "et al") {
		text = replaceAll(text, etAlSeparators)
	}
	return strings.ReplaceAll(text, "@", "&")
}

var pieceFixes = []Replacement{
	{",.", ". "}, {",,", ", "}, {"..", ". "}, {"(?)", "   "}, {"?", " "},
}

// preprocessName repairs one name piece without changing its rune count, so
// that parser offsets index the original piece.
func preprocessName(text string, corrections []Replacement) string {
	if m := shuffledInitialPattern.FindStringSubmatch(text); m != nil {
		spaces := utf8.RuneCountInString(text) - utf8.RuneCountInString(m[1]) - utf8.RuneCountInString(m[2])
		text = m[2] + strings.Repeat(" ", spaces) + m[1]
	}
	text = replaceAll(text, corrections)
	return replaceAll(text, pieceFixes)
}

func replaceAll(text string, replacements []Replacement) string {
	for _, r := range replacements {
		text = strings.ReplaceAll(text, r.From, r.To)
	}
	return text
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsNumber(r) {
			return false
		}
	}
	return true
}
