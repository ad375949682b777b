// Package rag implements the retrieval-and-categorization pipeline:
// query categorization, course-code extraction, hybrid (vector + BM25)
// retrieval with metadata filtering, category-aware context assembly,
// and answer generation.
package rag

import (
	"regexp"
	"strings"
)

// courseCodePattern matches program course codes: 3-4 uppercase letters,
// an optional S or N qualifier, and exactly three digits
// (e.g. MDPS476, MEES281, CMPN402).
var courseCodePattern = regexp.MustCompile(`(?i)\b([A-Za-z]{3,4}[SN]?\d{3})\b`)

// ExtractCourseCode pulls a course code out of free text.
// Returns the first match upper-cased, or ("", false) when none is found.
func ExtractCourseCode(query string) (string, bool) {
	match := courseCodePattern.FindStringSubmatch(query)
	if match == nil {
		return "", false
	}
	return strings.ToUpper(match[1]), true
}
