// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package nameparse turns free-form personal-name strings into identities.
//
// A string may hold several names, last-name-first or first-name-first,
// separated by commas. The parser runs a small state machine over the
// tokens, peeking one token ahead to decide whether a name token is a last
// name. A declared-names oracle breaks the remaining ambiguities.
package nameparse

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"namecat/internal/identity"
)

// Oracle answers whether a name is known to be a first name or a last name.
type Oracle interface {
	IsDeclaredFirstName(name string) bool
	IsDeclaredLastName(name string) bool
}

// Options control a single parse.
type Options struct {
	// Oracle resolves ambiguous "Last, Word" sequences. Nil means no names
	// are declared.
	Oracle Oracle

	// Property tags every parsed identity. Zero leaves identities untagged.
	Property identity.Property

	// LiteralOrder disables the repair that treats the first word of an
	// initials-only run as the last name when it is not an initial. With it
	// set, the final word of the run is always the last name.
	LiteralOrder bool
}

// Span is a half-open range of rune offsets into the parsed text.
type Span struct {
	Start int
	End   int
}

// Result holds the identities parsed from one string, in order, along with
// the span of raw text each came from.
type Result struct {
	Identities []*identity.Identity
	Spans      []Span
	Warnings   []string
}

// Parse parses text into one or more identities. A malformed name yields a
// *ParseError.
func Parse(text string, opts Options) (*Result, error) {
	tokens, err := tokenize(protectParticles(text))
	if err != nil {
		return nil, err
	}
	p := &parser{
		raw:    []rune(text),
		tokens: tokens,
		opts:   opts,
		result: &Result{},
	}
	if err := p.run(); err != nil {
		return nil, err
	}
	// Restored particles can leave initial names a tree cannot key, as the
	// "O" of "J. de la O Smith".
	for _, ident := range p.result.Identities {
		if err := identity.CheckInitials(ident.Initials); err != nil {
			return nil, &ParseError{Message: err.Error()}
		}
	}
	return p.result, nil
}

// MustParse parses text and panics on error. Intended for fixed inputs.
func MustParse(text string, opts Options) []*identity.Identity {
	result, err := Parse(text, opts)
	if err != nil {
		panic(fmt.Sprintf("parsing %q: %v", text, err))
	}
	return result.Identities
}

var particleReplacements = []struct{ from, to string }{
	{"de la Rosa Reyna", "de_la_Rosa_Reyna"},
	{"de la ", "de_la_"},
	{"De ", "De_"},
	{"Le ", "Le_"},
	{"St. ", "St!_"},
	{"van ", "van_"},
	{"Van ", "Van_"},
	{"et al.", "et_al!"},
	{" de ", " de_"},
	{",de ", ",de_"},
}

// protectParticles binds multi-word surname particles into single tokens.
// Every replacement preserves the rune count so that token offsets remain
// valid offsets into the caller's text.
func protectParticles(text string) string {
	for _, r := range particleReplacements {
		text = strings.ReplaceAll(text, r.from, r.to)
	}
	if strings.HasPrefix(text, "de ") {
		text = "de_" + text[3:]
	}
	return text
}

var particleRestorer = strings.NewReplacer("_", " ", "!", ".", "|", "")

func restoreParticles(text string) string {
	return particleRestorer.Replace(text)
}

type stateFn func(p *parser, tok *token) (stateFn, error)

type parser struct {
	raw    []rune
	tokens []token
	index  int
	opts   Options
	result *Result

	nameStart int
	nameEnd   int

	initial string
	last    string
	suffix  string
}

func (p *parser) run() error {
	state := stateFn((*parser).stateStart)
	for p.index < len(p.tokens) {
		if state == nil {
			return fmt.Errorf("parser stopped before end of input at token %d of %d",
				p.index, len(p.tokens))
		}
		next, err := state(p, &p.tokens[p.index])
		if err != nil {
			return err
		}
		state = next
		p.index++
	}
	if state == nil {
		return fmt.Errorf("parser stopped before end of input")
	}
	_, err := state(p, nil)
	return err
}

func (p *parser) lookahead(offset int) *token {
	if i := p.index + offset; i < len(p.tokens) {
		return &p.tokens[i]
	}
	return nil
}

// stateStart begins each name of a comma-delimited list.
func (p *parser) stateStart(tok *token) (stateFn, error) {
	switch {
	case tok == nil:
		return nil, parseErrorf("empty name")
	case tok.kind == tokenComma:
		p.warn("extraneous comma")
		return (*parser).stateStart, nil
	case tok.kind == tokenSuffix:
		return nil, parseErrorf("name starts with a name suffix '%s'", tok.value)
	}

	p.nameStart = tok.offset
	if p.parsesAsLastName(tok) {
		p.last = tok.value
		// An acronym designates an entire entity.
		if utf8.RuneCountInString(tok.value) >= 3 && isAlpha(tok.value) && isUpper(tok.value) {
			return (*parser).stateEndOfName, nil
		}
		return (*parser).stateLastNameFirst, nil
	}
	if err := p.appendInitial(tok); err != nil {
		return nil, err
	}
	return (*parser).stateInitialsFirst, nil
}

// stateLastNameFirst has a last name with no trailing comma yet.
func (p *parser) stateLastNameFirst(tok *token) (stateFn, error) {
	switch {
	case tok == nil:
		p.nameEnd = len(p.raw)
		p.addIdentity()
		return nil, nil
	case tok.kind == tokenComma:
		p.nameEnd = tok.offset
		return (*parser).stateInitialsSecond, nil
	case tok.kind == tokenSuffix:
		if err := p.assignSuffix(tok.value); err != nil {
			return nil, err
		}
		return (*parser).stateEndOfName, nil
	}
	return nil, parseErrorf("could not parse '%s'", tok.value)
}

// stateInitialsFirst has initial names but no last name yet.
func (p *parser) stateInitialsFirst(tok *token) (stateFn, error) {
	if tok == nil || tok.kind == tokenComma {
		words := strings.Split(p.initial, " ")
		switch {
		case len(words) == 1:
			p.last = p.initial
			p.initial = ""
		case p.opts.LiteralOrder || secondRuneIsPeriod(words[0]):
			p.last = words[len(words)-1]
			p.initial = strings.Join(words[:len(words)-1], " ")
		default:
			p.last = words[0]
			p.initial = strings.Join(words[1:], " ")
		}
		if tok == nil {
			p.nameEnd = len(p.raw)
			p.addIdentity()
			return nil, nil
		}
		p.nameEnd = tok.offset
		if len(words) == 1 {
			return (*parser).stateInitialsSecond, nil
		}
		return (*parser).stateStartedAnotherName, nil
	}

	switch {
	case tok.kind == tokenSuffix:
		return nil, parseErrorf("name suffix '%s' precedes last name", tok.value)
	case p.parsesAsLastName(tok):
		p.last = tok.value
		return (*parser).stateEndOfName, nil
	}
	if err := p.appendInitial(tok); err != nil {
		return nil, err
	}
	return (*parser).stateInitialsFirst, nil
}

// stateInitialsSecond follows "Last," and may have begun collecting initials.
func (p *parser) stateInitialsSecond(tok *token) (stateFn, error) {
	switch {
	case tok == nil:
		if p.initial == "" {
			p.warn("extraneous comma")
		} else {
			p.nameEnd = len(p.raw)
		}
		p.addIdentity()
		return nil, nil
	case tok.kind == tokenComma:
		if p.initial == "" {
			p.warn("extraneous comma")
		} else {
			p.nameEnd = tok.offset
		}
		return (*parser).stateStartedAnotherName, nil
	case tok.kind == tokenSuffix:
		if err := p.assignSuffix(tok.value); err != nil {
			return nil, err
		}
		return (*parser).stateEndOfName, nil
	}

	// "Last, Word": Word begins a new name only when it is declared as a
	// last name and not as a first name.
	if p.initial == "" && p.parsesAsLastName(tok) && !p.isDeclaredFirstName(tok) &&
		p.isDeclaredLastName(tok) {
		p.addIdentity()
		p.nameStart = tok.offset
		p.last = tok.value
		return (*parser).stateLastNameFirst, nil
	}
	if err := p.appendInitial(tok); err != nil {
		return nil, err
	}
	return (*parser).stateInitialsSecond, nil
}

// stateEndOfName has a complete name; only a suffix or comma may follow.
func (p *parser) stateEndOfName(tok *token) (stateFn, error) {
	switch {
	case tok == nil:
		p.nameEnd = len(p.raw)
		p.addIdentity()
		return nil, nil
	case tok.kind == tokenComma:
		p.nameEnd = tok.offset
		return (*parser).stateStartedAnotherName, nil
	case tok.kind == tokenSuffix:
		if err := p.assignSuffix(tok.value); err != nil {
			return nil, err
		}
		return (*parser).stateEndOfName, nil
	}
	return nil, parseErrorf("unexpected continuation of name at '%s'", tok.value)
}

// stateStartedAnotherName follows a complete name and a comma. A suffix may
// still attach to the previous name.
func (p *parser) stateStartedAnotherName(tok *token) (stateFn, error) {
	switch {
	case tok == nil:
		p.warn("extraneous comma")
		p.addIdentity()
		return nil, nil
	case tok.kind == tokenSuffix:
		if err := p.assignSuffix(tok.value); err != nil {
			return nil, err
		}
		return (*parser).stateEndOfName, nil
	}
	p.addIdentity()
	return p.stateStart(tok)
}

func (p *parser) addIdentity() {
	ident := identity.New(
		identity.CollapseSpaces(restoreParticles(p.last)),
		identity.CollapseSpaces(restoreParticles(p.initial)),
		p.suffix,
	)
	if p.opts.Property != 0 {
		ident.AddProperty(p.opts.Property)
	}
	span := Span{Start: p.nameStart, End: p.nameEnd}
	if span.End > span.Start {
		if raw := string(p.raw[span.Start:span.End]); strings.TrimSpace(raw) != "" {
			ident.AddRawName(raw)
		}
	}
	p.result.Identities = append(p.result.Identities, ident)
	p.result.Spans = append(p.result.Spans, span)

	p.last = ""
	p.initial = ""
	p.suffix = ""
}

func (p *parser) appendInitial(tok *token) error {
	name := tok.value
	first, _ := utf8.DecodeRuneInString(name)
	if !unicode.IsLetter(first) {
		return parseErrorf("name '%s' does not begin with a letter", name)
	}
	switch n := utf8.RuneCountInString(name); {
	case n == 1:
		name += "."
	case tok.kind == tokenAbbrev && n == 3 && isUpper(name):
		// "JD." holds two compact initials.
		_, size := utf8.DecodeRuneInString(name)
		name = name[:size] + ". " + name[size:]
	}
	if p.initial == "" {
		p.initial = name
	} else {
		p.initial += " " + name
	}
	return nil
}

func (p *parser) assignSuffix(suffix string) error {
	if p.suffix != "" {
		return parseErrorf("multiple suffixes in one name at '%s'", suffix)
	}
	p.suffix = suffix
	return nil
}

func (p *parser) isDeclaredFirstName(tok *token) bool {
	return p.opts.Oracle != nil && p.opts.Oracle.IsDeclaredFirstName(tok.value)
}

func (p *parser) isDeclaredLastName(tok *token) bool {
	return p.opts.Oracle != nil && p.opts.Oracle.IsDeclaredLastName(tok.value)
}

// parsesAsLastName reports whether tok is a plain name that ends the input,
// precedes a comma, or precedes a suffix.
func (p *parser) parsesAsLastName(tok *token) bool {
	if tok.kind != tokenName {
		return false
	}
	next := p.lookahead(1)
	return next == nil || next.kind == tokenComma || next.kind == tokenSuffix
}

func (p *parser) warn(warning string) {
	p.result.Warnings = append(p.result.Warnings, warning)
}

func secondRuneIsPeriod(word string) bool {
	runes := []rune(word)
	return len(runes) > 1 && runes[1] == '.'
}
