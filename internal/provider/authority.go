// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package provider

import (
	"regexp"
	"strconv"
	"strings"
)

// yearPattern matches a plausible publication year (1700-2029) as it
// appears in authority strings like "Cope, 1874" or "(Osborn, 1905)".
var yearPattern = regexp.MustCompile(`\b(1[7-9]\d{2}|20[0-2]\d)\b`)

// ExtractYear returns the first plausible 4-digit year in text, or 0.
func ExtractYear(text string) int {
	m := yearPattern.FindString(text)
	if m == "" {
		return 0
	}
	year, err := strconv.Atoi(m)
	if err != nil {
		return 0
	}
	return year
}

// ExtractAuthor returns the author portion of an authority string:
// parentheses removed, year tokens dropped, trailing commas stripped.
func ExtractAuthor(text string) string {
	clean := strings.NewReplacer("(", "", ")", "").Replace(text)

	var authorParts []string
	for _, part := range strings.Fields(clean) {
		if len(part) == 4 && isDigits(part) {
			continue
		}
		authorParts = append(authorParts, strings.TrimSuffix(part, ","))
	}
	return strings.Join(authorParts, " ")
}

// CitationAuthor extracts an author from full citation text shaped like
// "Author. Year. Title...". Used when a provider reports a citation but
// no authority.
func CitationAuthor(citation string) string {
	before, _, found := strings.Cut(citation, ".")
	if !found {
		return ""
	}
	return strings.TrimSpace(before)
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}
