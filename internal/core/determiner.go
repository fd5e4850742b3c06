// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package core

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var monthTerms = map[string]bool{
	"january": true, "february": true, "march": true, "april": true,
	"may": true, "june": true, "july": true, "august": true,
	"september": true, "october": true, "november": true, "december": true,
	"jan": true, "feb": true, "mar": true, "apr": true, "jun": true, "jul": true,
	"aug": true, "sep": true, "oct": true, "nov": true, "dec": true,
	"jan.": true, "feb.": true, "mar.": true, "apr.": true, "may.": true, "jun.": true,
	"jul.": true, "aug.": true, "sep.": true, "oct.": true, "nov.": true, "dec.": true,
}

var numberPattern = regexp.MustCompile(`\d+`)

// SplitDeterminerYear separates the determination year from a determiner
// value such as "J. Smith 1998" or "J. Smith/Mar. 2004". Years outside
// 1900..currentYear are left in place. A month or numeric term just before
// the year is dropped with it. year is empty when none was found.
func SplitDeterminerYear(raw string, currentYear int) (names, year string) {
	text := strings.TrimSpace(raw)
	text = strings.TrimSuffix(text, "/")
	if text == "" {
		return "", ""
	}

	offset := len(text)
	for offset > 0 && text[offset-1] >= '0' && text[offset-1] <= '9' {
		offset--
	}
	if offset == len(text) {
		return text, ""
	}
	digits := text[offset:]
	value, err := strconv.Atoi(digits)
	if err != nil || value < 1900 || value > currentYear {
		return text, ""
	}

	text = strings.ReplaceAll(strings.TrimSpace(text[:offset]), "/", ";")
	if last := strings.LastIndex(text, ";"); last >= 0 {
		if last == len(text)-1 || isDateTerm(strings.TrimSpace(text[last+1:])) {
			text = text[:last]
		}
	}
	return strings.TrimSpace(text), digits
}

// isDateTerm reports whether term names a month, in words or as digits and
// roman numerals.
func isDateTerm(term string) bool {
	if monthTerms[strings.ToLower(term)] {
		return true
	}
	for _, r := range strings.ToUpper(term) {
		if !strings.ContainsRune("0123456789IVX- ", r) {
			return false
		}
	}
	return true
}

// unexpectedNumbers returns an error naming the numbers in text, if any.
func unexpectedNumbers(text string) error {
	numbers := numberPattern.FindAllString(text, -1)
	if len(numbers) == 0 {
		return nil
	}
	quoted := make([]string, len(numbers))
	for i, n := range numbers {
		quoted[i] = "'" + n + "'"
	}
	return fmt.Errorf("unexpected number(s) %s", strings.Join(quoted, ", "))
}
