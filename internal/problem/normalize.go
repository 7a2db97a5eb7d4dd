package problem

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	digitRunRe  = regexp.MustCompile(`[0-9]+`)
	nonLetterRe = regexp.MustCompile(`[^a-z ]+`)
	spaceRunRe  = regexp.MustCompile(`\s+`)

	// NFD decomposition followed by removal of combining marks, so accented
	// letters compare equal to their base form.
	stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
)

// Normalize canonicalizes problem text for duplicate detection. The result
// contains only lowercase letters and single spaces; every maximal digit run
// collapses to the token "num" so numeric values never distinguish problems.
// Normalize is total and idempotent.
func Normalize(s string) string {
	s = strings.ToLower(s)
	if stripped, _, err := transform.String(stripMarks, s); err == nil {
		s = stripped
	}
	s = digitRunRe.ReplaceAllString(s, " num ")
	s = nonLetterRe.ReplaceAllString(s, " ")
	s = spaceRunRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// NormalizeAll returns the normalized forms of texts as a lookup set.
func NormalizeAll(texts []string) map[string]bool {
	seen := make(map[string]bool, len(texts))
	for _, t := range texts {
		seen[Normalize(t)] = true
	}
	return seen
}
