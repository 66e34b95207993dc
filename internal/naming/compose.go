// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package naming renders canonical publication names from extracted
// metadata. Composition is a pure function of its inputs: the same metadata
// always yields the same string, and nothing is written anywhere.
package naming

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/pdiddy/markdown-forge/internal/metadata"
	"github.com/pdiddy/markdown-forge/pkg/types"
)

// subtitlePunct is the punctuation discarded from title segments: colons,
// parentheses, em/en dashes, and straight or curly quotes. Apostrophes are
// handled separately under the configured policy.
var subtitlePunct = regexp.MustCompile("[:()—–“”\"]")

// apostrophePattern covers straight and typographic apostrophes.
var apostrophePattern = regexp.MustCompile("['’]")

// illegalFilenameChars are characters no target filesystem accepts in a
// name component; each is replaced with a space before final collapsing.
var illegalFilenameChars = regexp.MustCompile(`[\\/:*?"<>|]`)

// multiSpace collapses runs of whitespace left behind by removals.
var multiSpace = regexp.MustCompile(`\s{2,}`)

// Compose renders the canonical name for a publication. Segments appear in
// a fixed order — series+number, title+edition, " - ", publisher, year,
// identifier — and absent fields are omitted without leaving separators
// behind. Composition is lossy (punctuation is discarded by design) but
// deterministic.
func Compose(meta types.PublicationMetadata, cfg types.NamingConfig) string {
	var head []string

	if meta.Series != "" {
		segment := cleanSegment(meta.Series, cfg)
		if meta.SeriesNumber > 0 {
			segment += " " + strconv.Itoa(meta.SeriesNumber)
		}
		head = append(head, segment)
	}

	title := meta.TitleShort
	if title == "" {
		title = meta.Title
	}
	titleSegment := cleanSegment(title, cfg)
	if meta.Edition != "" {
		titleSegment += " " + cleanSegment(meta.Edition, cfg)
	}
	head = append(head, titleSegment)

	var tail []string
	if meta.Publisher != "" {
		tail = append(tail, cleanSegment(metadata.StripCorporateSuffix(meta.Publisher), cfg))
	}
	if meta.Year > 0 {
		tail = append(tail, strconv.Itoa(meta.Year))
	}
	if meta.Identifier != nil {
		tail = append(tail, string(meta.Identifier.Type)+" "+meta.Identifier.Value)
	}

	name := strings.Join(head, " ")
	if len(tail) > 0 {
		name += " - " + strings.Join(tail, " ")
	}

	name = illegalFilenameChars.ReplaceAllString(name, " ")
	name = multiSpace.ReplaceAllString(name, " ")
	return strings.TrimSpace(name)
}

// Filename renders the canonical name with an extension appended.
func Filename(meta types.PublicationMetadata, cfg types.NamingConfig, extension string) string {
	return Compose(meta, cfg) + "." + strings.TrimPrefix(extension, ".")
}

// cleanSegment title-cases a name segment after discarding subtitle
// punctuation. Under ApostropheKeep, apostrophes sitting between letters
// survive; everything else in the punctuation set is removed either way.
func cleanSegment(s string, cfg types.NamingConfig) string {
	s = subtitlePunct.ReplaceAllString(s, " ")
	if cfg.Apostrophes == types.ApostropheKeep {
		s = stripDanglingApostrophes(s)
	} else {
		s = apostrophePattern.ReplaceAllString(s, "")
	}
	return TitleCase(s)
}

// stripDanglingApostrophes removes apostrophes not flanked by letters on
// both sides, keeping possessives and contractions intact.
func stripDanglingApostrophes(s string) string {
	runes := []rune(s)
	out := make([]rune, 0, len(runes))
	for i, r := range runes {
		if r == '\'' || r == '’' {
			if i == 0 || i == len(runes)-1 || !isLetter(runes[i-1]) || !isLetter(runes[i+1]) {
				continue
			}
			out = append(out, '\'')
			continue
		}
		out = append(out, r)
	}
	return string(out)
}

func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || r > 127
}
