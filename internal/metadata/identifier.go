// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package metadata

import (
	"regexp"
	"strings"

	"github.com/pdiddy/markdown-forge/pkg/types"
)

// isbnJunkPattern matches everything that is not an ISBN digit or check
// character, so "978-0-240-80849-9" and "0 240 80849 3" normalize alike.
var isbnJunkPattern = regexp.MustCompile(`[^0-9Xx]`)

// doiPattern matches DOIs: "10.1145/1234567.1234568".
var doiPattern = regexp.MustCompile(`^10\.\d{4,9}/\S+$`)

// lccnPattern matches normalized Library of Congress Control Numbers: an
// optional 1-3 letter prefix, a 2- or 4-digit year, and a 6-digit serial.
var lccnPattern = regexp.MustCompile(`^[a-z]{0,3}(?:\d{8}|\d{10})$`)

// NormalizeISBN strips separators from a raw ISBN candidate and returns the
// bare 10- or 13-character form, or "" when the cleaned value has the wrong
// length.
func NormalizeISBN(raw string) string {
	cleaned := isbnJunkPattern.ReplaceAllString(raw, "")
	switch len(cleaned) {
	case 10, 13:
		return strings.ToUpper(cleaned)
	default:
		return ""
	}
}

// ValidISBN13 reports whether s is a 13-digit ISBN with a correct mod-10
// check digit (alternating weights 1 and 3).
func ValidISBN13(s string) bool {
	if len(s) != 13 {
		return false
	}
	sum := 0
	for i, r := range s {
		if r < '0' || r > '9' {
			return false
		}
		d := int(r - '0')
		if i%2 == 1 {
			d *= 3
		}
		sum += d
	}
	return sum%10 == 0
}

// ValidISBN10 reports whether s is a 10-character ISBN with a correct
// mod-11 check digit. The final position may be 'X' for a check value of 10.
func ValidISBN10(s string) bool {
	if len(s) != 10 {
		return false
	}
	sum := 0
	for i, r := range s {
		var d int
		switch {
		case r >= '0' && r <= '9':
			d = int(r - '0')
		case r == 'X' && i == 9:
			d = 10
		default:
			return false
		}
		sum += (10 - i) * d
	}
	return sum%11 == 0
}

// ValidLCCN reports whether s is structurally a normalized LCCN. Hyphens
// are folded out before matching; the serial portion is not checksummed
// (LCCNs carry none).
func ValidLCCN(s string) bool {
	s = strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), "-", ""))
	return lccnPattern.MatchString(s)
}

// ClassifyIdentifier validates a raw identifier candidate and returns its
// typed form. Candidates that fail checksum or structural validation are
// rejected: ok is false and no Identifier is produced.
func ClassifyIdentifier(raw string) (types.Identifier, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return types.Identifier{}, false
	}

	// DOIs often arrive prefixed, e.g. "doi:10.1145/..." or "urn:doi:...".
	doi := raw
	lowered := strings.ToLower(raw)
	for _, prefix := range []string{"urn:doi:", "doi:"} {
		if strings.HasPrefix(lowered, prefix) {
			doi = strings.TrimSpace(raw[len(prefix):])
			break
		}
	}
	if doiPattern.MatchString(doi) {
		return types.Identifier{Type: types.IdentifierDOI, Value: doi}, true
	}

	// ISBN prefixes like "ISBN-13:" or "urn:isbn:" are noise to strip.
	candidate := raw
	if idx := strings.LastIndexByte(candidate, ':'); idx >= 0 {
		candidate = candidate[idx+1:]
	}
	if isbn := NormalizeISBN(candidate); isbn != "" {
		switch {
		case len(isbn) == 13 && ValidISBN13(isbn):
			return types.Identifier{Type: types.IdentifierISBN13, Value: isbn}, true
		case len(isbn) == 10 && ValidISBN10(isbn):
			return types.Identifier{Type: types.IdentifierISBN10, Value: isbn}, true
		}
	}

	if rest, found := strings.CutPrefix(lowered, "lccn"); found {
		rest = strings.TrimLeft(rest, ": ")
		if ValidLCCN(rest) {
			return types.Identifier{Type: types.IdentifierLCCN, Value: strings.ReplaceAll(rest, "-", "")}, true
		}
		return types.Identifier{}, false
	}
	if ValidLCCN(lowered) && !isbnLike(lowered) {
		return types.Identifier{Type: types.IdentifierLCCN, Value: strings.ReplaceAll(lowered, "-", "")}, true
	}

	return types.Identifier{}, false
}

// isbnLike guards against bare digit strings that parse as both LCCN and
// ISBN; a 10- or 13-digit run is treated as an ISBN candidate only.
func isbnLike(s string) bool {
	n := len(isbnJunkPattern.ReplaceAllString(s, ""))
	return n == 10 || n == 13
}
