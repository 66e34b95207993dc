// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package mdclean

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	slugDropPattern     = regexp.MustCompile(`[^\p{L}\p{N}_\s-]`)
	slugSpacePattern    = regexp.MustCompile(`\s+`)
	slugCollapsePattern = regexp.MustCompile(`-+`)
)

// slugify derives a stable anchor id from heading text. The same text
// always yields the same slug, so regenerated anchors match across runs.
func slugify(text string) string {
	slug := strings.ToLower(strings.TrimSpace(text))
	slug = slugDropPattern.ReplaceAllString(slug, "")
	slug = slugSpacePattern.ReplaceAllString(slug, "-")
	slug = slugCollapsePattern.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}

// isTOCHeading reports whether heading text names the table of contents.
func isTOCHeading(text string) bool {
	normalized := strings.TrimSuffix(strings.ToLower(strings.TrimSpace(text)), ":")
	return normalized == "table of contents" || normalized == "table of content"
}

// dedupHeadings enforces a single document-level heading: the first H1
// becomes (or stays) the title, every later H1 is demoted to H2. When the
// front matter carries a title and the body does not open with it, a title
// heading is planted at the top. A body that already opens with the title
// passes through unchanged.
func dedupHeadings(doc *Document) error {
	title := strings.TrimSpace(doc.MetaGet("title"))
	titleSeen := false
	doc.Body = walkFences(doc.Body, func(line string) (string, bool) {
		m := headingPattern.FindStringSubmatch(line)
		if m == nil || len(m[1]) != 1 {
			return line, false
		}
		text := strings.TrimSpace(m[2])
		if !titleSeen && (title == "" || strings.EqualFold(text, title)) {
			titleSeen = true
			return "# " + text, false
		}
		return "## " + text, false
	})
	if title != "" && !titleSeen {
		doc.Body = append([]string{"# " + title, ""}, doc.Body...)
	}
	return nil
}

// rebuildTOC regenerates the table of contents from the chapter headings.
// Each H2 outside a code fence gets a deterministic `{#slug}` anchor
// (duplicate slugs get a numeric suffix in document order), and a
// "## Table of Contents" section linking to every anchor replaces any
// existing one, or is inserted under the title heading. Anchors are
// stripped at the start of the pipeline and rebuilt here, so repeated
// passes converge on identical output.
func rebuildTOC(doc *Document) error {
	type entry struct {
		text string
		slug string
	}
	var entries []entry
	slugCounts := map[string]int{}

	doc.Body = walkFences(doc.Body, func(line string) (string, bool) {
		m := headingPattern.FindStringSubmatch(line)
		if m == nil || len(m[1]) != 2 {
			return line, false
		}
		text := strings.TrimSpace(m[2])
		if isTOCHeading(text) {
			return line, false
		}
		base := slugify(text)
		if base == "" {
			base = "section"
		}
		n := slugCounts[base]
		slugCounts[base]++
		slug := base
		if n > 0 {
			slug = fmt.Sprintf("%s-%d", base, n)
		}
		entries = append(entries, entry{text, slug})
		return fmt.Sprintf("## %s {#%s}", text, slug), false
	})
	if len(entries) == 0 {
		return nil
	}

	toc := []string{"## Table of Contents", ""}
	for _, e := range entries {
		toc = append(toc, fmt.Sprintf("- [%s](#%s)", e.text, e.slug))
	}
	toc = append(toc, "")

	if replaced, ok := replaceTOCSection(doc.Body, toc); ok {
		doc.Body = replaced
		return nil
	}
	doc.Body = insertTOC(doc.Body, toc)
	return nil
}

// replaceTOCSection swaps an existing table of contents section (its
// heading through the line before the next heading) for the fresh one.
func replaceTOCSection(lines, toc []string) ([]string, bool) {
	inFence := false
	for i := 0; i < len(lines); i++ {
		stripped := strings.TrimLeft(lines[i], " \t")
		if strings.HasPrefix(stripped, "```") || strings.HasPrefix(stripped, "~~~") {
			inFence = !inFence
			continue
		}
		if inFence {
			continue
		}
		m := headingPattern.FindStringSubmatch(lines[i])
		if m == nil || len(m[1]) != 2 || !isTOCHeading(m[2]) {
			continue
		}
		end := i + 1
		for end < len(lines) && !headingPattern.MatchString(lines[end]) {
			end++
		}
		out := make([]string, 0, len(lines)-(end-i)+len(toc))
		out = append(out, lines[:i]...)
		out = append(out, toc...)
		out = append(out, lines[end:]...)
		return out, true
	}
	return nil, false
}

// insertTOC places the table of contents under the title heading, or at
// the top when the document has no title heading.
func insertTOC(lines, toc []string) []string {
	at := 0
	for i, line := range lines {
		m := headingPattern.FindStringSubmatch(line)
		if m != nil && len(m[1]) == 1 {
			at = i + 1
			if at < len(lines) && strings.TrimSpace(lines[at]) == "" {
				at++
			}
			break
		}
		if strings.TrimSpace(line) != "" {
			break
		}
	}
	out := make([]string, 0, len(lines)+len(toc))
	out = append(out, lines[:at]...)
	out = append(out, toc...)
	out = append(out, lines[at:]...)
	return out
}
