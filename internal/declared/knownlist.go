// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package declared

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strings"

	"namecat/internal/nameparse"
)

// KnownList is a hand-kept list of confirmed names. Each line holds one name,
// optionally followed by "(aka Other Name)". Text after "/" is a comment,
// lines starting with "*", "^" or "!" are skipped, and a line starting with
// "---" ends the list.
type KnownList struct {
	aliases map[string][]string
	names   []string
}

var akaPattern = regexp.MustCompile(`([^(]+)(?:\(aka ([^)]+)\))?`)

const knownListSkipMarks = "*^!"

// ParseKnownList reads a known-names list.
func ParseKnownList(r io.Reader) (*KnownList, error) {
	list := &KnownList{aliases: make(map[string][]string)}
	scanner := bufio.NewScanner(r)
	for lineNumber := 1; scanner.Scan(); lineNumber++ {
		line := scanner.Text()
		if slash := strings.Index(line, "/"); slash >= 0 {
			line = line[:slash]
		}
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "---") {
			break
		}
		if line == "" || strings.ContainsRune(knownListSkipMarks, rune(line[0])) {
			continue
		}
		if err := list.addLine(line); err != nil {
			return nil, &LineError{Line: lineNumber, Err: err}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return list, nil
}

func (l *KnownList) addLine(line string) error {
	match := akaPattern.FindStringSubmatch(line)
	if match == nil {
		return fmt.Errorf("no name found in %q", line)
	}
	official, err := firstParsedName(match[1])
	if err != nil {
		return err
	}
	l.names = append(l.names, official)
	l.aliases[official] = nil
	if match[2] != "" {
		aka, err := firstParsedName(match[2])
		if err != nil {
			return err
		}
		l.aliases[official] = []string{aka}
		l.names = append(l.names, aka)
	}
	return nil
}

func firstParsedName(text string) (string, error) {
	result, err := nameparse.Parse(strings.TrimSpace(text), nameparse.Options{})
	if err != nil {
		return "", err
	}
	return result.Identities[0].String(), nil
}

// Names returns every official and alias name in list order.
func (l *KnownList) Names() []string {
	return l.names
}

// Primaries returns the official names in sorted order.
func (l *KnownList) Primaries() []string {
	out := make([]string, 0, len(l.aliases))
	for name := range l.aliases {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Aliases returns the alternate names recorded for an official name.
func (l *KnownList) Aliases(official string) []string {
	return l.aliases[official]
}

// WriteDeclared writes the list as declared-names lines: each official name
// followed by its aliases as "- " variant lines.
func (l *KnownList) WriteDeclared(w io.Writer) error {
	for _, official := range l.Primaries() {
		if _, err := fmt.Fprintln(w, official); err != nil {
			return err
		}
		for _, alias := range l.aliases[official] {
			if _, err := fmt.Fprintf(w, "- %s\n", alias); err != nil {
				return err
			}
		}
	}
	return nil
}
