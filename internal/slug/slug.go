// Package slug converts raw tag input to canonical slugs.
package slug

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	// Matches spaces, underscores, and slashes (for replacement with dashes).
	wordSeparatorRe = regexp.MustCompile(`[\s_/]+`)
	// Matches non-alphanumeric characters (except dashes).
	nonAlphanumericRe = regexp.MustCompile(`[^a-z0-9-]`)
	// Matches multiple consecutive dashes.
	multipleDashRe = regexp.MustCompile(`-+`)
)

// accentFolder decomposes characters and strips combining marks,
// so "café" folds to "cafe" before the ASCII-only filter runs.
var accentFolder = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize converts user input to a canonical tag slug.
// The slug is the source of truth for tag identity.
//
// Normalization rules:
//  1. Fold accents to their base characters
//  2. Trim whitespace and lowercase
//  3. Replace spaces, underscores, and slashes with dashes
//  4. Remove non-alphanumeric characters (except dashes)
//  5. Collapse multiple dashes
//  6. Trim leading/trailing dashes
//
// Normalize is deterministic and idempotent:
// Normalize(Normalize(x)) == Normalize(x).
//
// Examples:
//
//	"Hello World"   → "hello-world"
//	"hello-world"   → "hello-world"
//	"Café Notes"    → "cafe-notes"
//	"  multi   word " → "multi-word"
//	"--leading--"   → "leading"
func Normalize(input string) string {
	// 1. Fold accents. On transform failure keep the original bytes;
	// the ASCII filter below still yields a valid slug.
	s, _, err := transform.String(accentFolder, input)
	if err != nil {
		s = input
	}

	// 2. Trim and lowercase
	s = strings.ToLower(strings.TrimSpace(s))

	// 3. Replace word separators with dashes
	s = wordSeparatorRe.ReplaceAllString(s, "-")

	// 4. Remove non-alphanumeric (except dashes)
	s = nonAlphanumericRe.ReplaceAllString(s, "")

	// 5. Collapse multiple dashes
	s = multipleDashRe.ReplaceAllString(s, "-")

	// 6. Trim leading/trailing dashes
	return strings.Trim(s, "-")
}
