// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package metadata parses raw front matter and document properties into the
// canonical publication field set. Parsing is tolerant: unknown keys are
// ignored and malformed values are dropped with a recorded warning instead
// of failing the extraction.
package metadata

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/markdown-forge/pkg/types"
)

// yearPattern finds a plausible publication year inside a date string.
var yearPattern = regexp.MustCompile(`(19|20)\d{2}`)

// editionPattern matches edition statements like "4th edition", "2nd ed.",
// "Third Edition".
var editionPattern = regexp.MustCompile(`(?i)\b(\d+(?:st|nd|rd|th)|first|second|third|fourth|fifth|sixth|seventh|eighth|ninth|tenth)\s+(?:revised\s+)?ed(?:ition|\.)?`)

// seriesNumberPattern pulls a trailing number out of a series statement,
// e.g. "Voices That Matter #12" or "Voices That Matter, Book 12".
var seriesNumberPattern = regexp.MustCompile(`(?i)[,\s]*(?:#|no\.?\s*|book\s+|volume\s+|vol\.?\s*)(\d+)\s*$`)

// corporateSuffixes are stripped from the tail of publisher names,
// case-insensitively, repeatedly.
var corporateSuffixes = []string{
	"inc.", "inc", "llc", "ltd.", "ltd", "& co.", "& co", "co.",
	"gmbh", "s.a.",
}

// titleShortPattern trims the subtitle tail: everything from the first
// dash/em-dash/colon separator onward.
var titleShortPattern = regexp.MustCompile(`\s*[-—–:].*$`)

// personSeparatorPattern splits name lists joined by "and" or "&".
var personSeparatorPattern = regexp.MustCompile(`(?i)\s+and\s+|\s*&\s*`)

// spacedDashPattern finds a dash acting as a subtitle separator.
var spacedDashPattern = regexp.MustCompile(`\s+[—–-]\s+`)

// FromFrontMatter parses a YAML front matter block (with or without the
// "---" fences) into PublicationMetadata. The block must contain a title;
// everything else is optional. Per-field problems land in Warnings.
func FromFrontMatter(block string) (types.PublicationMetadata, error) {
	body := strings.TrimSpace(block)
	body = strings.TrimPrefix(body, "---")
	if idx := strings.Index(body, "\n---"); idx >= 0 {
		body = body[:idx]
	}

	raw := map[string]any{}
	if err := yaml.Unmarshal([]byte(body), &raw); err != nil {
		return types.PublicationMetadata{}, fmt.Errorf("parsing front matter: %w", err)
	}

	props := make(map[string]string, len(raw))
	for key, value := range raw {
		props[strings.ToLower(key)] = scalarOrJoined(value)
	}
	return FromProperties(props)
}

// FromProperties maps a flat property bag (document properties, exiftool
// output, or pre-flattened front matter) into PublicationMetadata. Keys are
// matched case-insensitively; unknown keys are ignored.
func FromProperties(props map[string]string) (types.PublicationMetadata, error) {
	var meta types.PublicationMetadata

	get := func(keys ...string) string {
		for _, k := range keys {
			if v, ok := props[k]; ok && strings.TrimSpace(v) != "" {
				return strings.TrimSpace(v)
			}
		}
		return ""
	}

	meta.Title = get("title", "dc:title", "booktitle")
	if meta.Title == "" {
		return meta, fmt.Errorf("no title in source metadata")
	}

	// Pull an embedded edition statement out of the title before deriving
	// the short form, then look at a dedicated edition key.
	if m := editionPattern.FindString(meta.Title); m != "" {
		meta.Edition = m
		meta.Title = strings.TrimSpace(strings.TrimSuffix(meta.Title, m))
		meta.Title = strings.TrimRight(meta.Title, " ,-—–:(")
	}
	if e := get("edition"); e != "" {
		meta.Edition = e
	}

	if title, subtitle, found := splitSubtitle(meta.Title); found {
		meta.Subtitle = subtitle
		meta.TitleShort = title
	} else {
		meta.TitleShort = meta.Title
	}
	if short := get("title_short", "titleshort"); short != "" {
		meta.TitleShort = titleShortPattern.ReplaceAllString(short, "")
	}

	if authors := get("author", "authors", "creator", "dc:creator", "editor"); authors != "" {
		meta.Authors = SplitPersons(authors)
	}

	if publisher := get("publisher", "dc:publisher"); publisher != "" {
		meta.Publisher = StripCorporateSuffix(publisher)
	}

	if date := get("date", "year", "pubdate", "publication date", "create date"); date != "" {
		if m := yearPattern.FindString(date); m != "" {
			meta.Year, _ = strconv.Atoi(m)
		} else {
			meta.Warnings = append(meta.Warnings, fmt.Sprintf("unparsable date %q dropped", date))
		}
	}

	if series := get("series", "belongs-to-collection"); series != "" {
		meta.Series = series
		if m := seriesNumberPattern.FindStringSubmatch(series); m != nil {
			meta.SeriesNumber, _ = strconv.Atoi(m[1])
			meta.Series = strings.TrimSpace(seriesNumberPattern.ReplaceAllString(series, ""))
		}
	}
	if num := get("series_number", "series-index", "group-position"); num != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(num)); err == nil && n > 0 {
			meta.SeriesNumber = n
		} else {
			meta.Warnings = append(meta.Warnings, fmt.Sprintf("unparsable series number %q dropped", num))
		}
	}

	for _, key := range []string{"isbn", "isbn13", "isbn10", "identifier", "lccn", "doi", "dc:identifier"} {
		raw, ok := props[key]
		if !ok {
			continue
		}
		for _, candidate := range strings.Split(raw, "\n") {
			if id, valid := ClassifyIdentifier(candidate); valid {
				meta.Identifier = &id
				break
			} else if strings.TrimSpace(candidate) != "" {
				meta.Warnings = append(meta.Warnings,
					fmt.Sprintf("identifier candidate %q failed validation", strings.TrimSpace(candidate)))
			}
		}
		if meta.Identifier != nil {
			break
		}
	}

	return meta, nil
}

// SplitPersons splits an author/editor statement into individual names in
// source order, each normalized to "Firstname Lastname". Accepted list
// separators are ";", " and ", and "," — a comma is treated as an inverted
// "Last, First" form when splitting it as a list would produce non-name
// fragments.
func SplitPersons(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	var parts []string
	for _, chunk := range strings.Split(raw, ";") {
		for _, sub := range personSeparatorPattern.Split(chunk, -1) {
			if s := strings.TrimSpace(sub); s != "" {
				parts = append(parts, s)
			}
		}
	}

	var names []string
	for _, part := range parts {
		pieces := strings.Split(part, ",")
		if len(pieces) == 2 && looksLikeInvertedName(pieces[0], pieces[1]) {
			names = append(names, strings.TrimSpace(pieces[1])+" "+strings.TrimSpace(pieces[0]))
			continue
		}
		for _, p := range pieces {
			if name := strings.TrimSpace(p); name != "" {
				names = append(names, name)
			}
		}
	}
	return names
}

// looksLikeInvertedName reports whether "last, first" is plausibly one
// inverted name rather than two list entries: the surname half is a single
// word and neither half carries digits.
func looksLikeInvertedName(last, first string) bool {
	last = strings.TrimSpace(last)
	first = strings.TrimSpace(first)
	if last == "" || first == "" {
		return false
	}
	if strings.ContainsAny(last+first, "0123456789") {
		return false
	}
	return len(strings.Fields(last)) == 1 && len(strings.Fields(first)) <= 3
}

// StripCorporateSuffix removes trailing corporate suffixes (Inc., LLC,
// Ltd., & Co., ...) from a publisher name, case-insensitively. Only
// trailing occurrences are stripped; "Co. Design Press" keeps its prefix.
func StripCorporateSuffix(name string) string {
	name = strings.TrimSpace(name)
	for {
		trimmed := strings.TrimRight(name, " ,")
		lowered := strings.ToLower(trimmed)
		matched := false
		for _, suffix := range corporateSuffixes {
			if !strings.HasSuffix(lowered, suffix) || len(trimmed) <= len(suffix) {
				continue
			}
			// The suffix must be its own trailing word, not the tail of one
			// ("Zinc" is not "Z" + "inc").
			boundary := trimmed[len(trimmed)-len(suffix)-1]
			if boundary != ' ' && boundary != ',' {
				continue
			}
			trimmed = strings.TrimSpace(trimmed[:len(trimmed)-len(suffix)])
			matched = true
			break
		}
		if !matched {
			return strings.TrimRight(trimmed, " ,")
		}
		name = trimmed
	}
}

// splitSubtitle cuts a title at its first colon or spaced dash.
func splitSubtitle(title string) (main, subtitle string, found bool) {
	if idx := strings.Index(title, ":"); idx > 0 {
		return strings.TrimSpace(title[:idx]), strings.TrimSpace(title[idx+1:]), true
	}
	if m := spacedDashPattern.FindStringIndex(title); m != nil {
		return strings.TrimSpace(title[:m[0]]), strings.TrimSpace(title[m[1]:]), true
	}
	return title, "", false
}

// scalarOrJoined renders a decoded YAML value as one string; list values
// are newline-joined so identifier lists keep every candidate.
func scalarOrJoined(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case []any:
		items := make([]string, 0, len(v))
		for _, item := range v {
			items = append(items, fmt.Sprint(item))
		}
		return strings.Join(items, "\n")
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}
