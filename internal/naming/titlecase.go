// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package naming

import (
	"strings"
	"unicode"
)

// smallWords are articles, conjunctions, and short prepositions kept
// lowercase in title case unless they are the first or last word.
var smallWords = map[string]bool{
	"a": true, "an": true, "the": true,
	"and": true, "but": true, "or": true, "nor": true,
	"as": true, "at": true, "by": true, "for": true, "in": true,
	"of": true, "off": true, "on": true, "per": true, "to": true,
	"up": true, "via": true, "vs": true,
}

// TitleCase applies standard English title-case rules: every word's first
// letter is raised except small words in interior positions, which are
// lowered. Interior capitals ("McKee", "iPhone" aside) are left alone.
func TitleCase(s string) string {
	words := strings.Fields(s)
	for i, word := range words {
		lowered := strings.ToLower(word)
		interior := i > 0 && i < len(words)-1
		if interior && smallWords[lowered] {
			words[i] = lowered
			continue
		}
		words[i] = capitalize(word)
	}
	return strings.Join(words, " ")
}

// capitalize raises the first letter of word, leaving the rest untouched.
// Words that do not start with a letter ("4th", "'til") pass through.
func capitalize(word string) string {
	runes := []rune(word)
	for i, r := range runes {
		if unicode.IsLetter(r) {
			if i == 0 {
				runes[0] = unicode.ToUpper(r)
				return string(runes)
			}
			return word
		}
	}
	return word
}
