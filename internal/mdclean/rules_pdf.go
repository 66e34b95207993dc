// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package mdclean

import (
	"regexp"
	"strings"
)

var (
	whitespaceRunPattern = regexp.MustCompile(`[ \t]{2,}`)
	listMarkerPattern    = regexp.MustCompile(`^(?:[-*+]\s+|\d+[.)]\s+|[A-Za-z][.)]\s+)`)
	footnoteDefPattern   = regexp.MustCompile(`^\[\^[^\]]+\]:`)
)

// paragraphCandidate reports whether a line is hard-wrapped prose that may
// be joined with its neighbors. Structural Markdown (headings, lists,
// tables, quotes, rules, raw HTML, indented code) never reflows.
func paragraphCandidate(line string) bool {
	stripped := strings.TrimSpace(line)
	if stripped == "" {
		return false
	}
	if len(line)-len(strings.TrimLeft(line, " ")) >= 4 {
		return false
	}
	switch stripped[0] {
	case '#', '>', '|':
		return false
	}
	if stripped == "---" || stripped == "***" || stripped == "___" {
		return false
	}
	if strings.HasPrefix(stripped, "<") && strings.HasSuffix(stripped, ">") {
		return false
	}
	if listMarkerPattern.MatchString(stripped) || footnoteDefPattern.MatchString(stripped) {
		return false
	}
	return true
}

// joinParagraph merges wrapped fragments into one line, repairing
// end-of-line hyphenation ("compre-" + "hensive").
func joinParagraph(parts []string) string {
	var combined string
	for _, part := range parts {
		chunk := strings.TrimSpace(part)
		if chunk == "" {
			continue
		}
		switch {
		case combined == "":
			combined = chunk
		case strings.HasSuffix(combined, "-") && !strings.HasSuffix(combined, "--"):
			combined = combined[:len(combined)-1] + chunk
		default:
			combined += " " + chunk
		}
	}
	return combined
}

// unwrapParagraphs reconstructs paragraphs from hard-wrapped lines: runs of
// prose lines collapse to one line followed by a blank separator. A
// paragraph that is already one line flushes unchanged, so a second pass is
// a no-op.
func unwrapParagraphs(doc *Document) error {
	var out []string
	var buffer []string
	inFence := false

	flush := func() {
		if len(buffer) == 0 {
			return
		}
		if p := joinParagraph(buffer); p != "" {
			out = append(out, p, "")
		}
		buffer = buffer[:0]
	}

	for _, line := range doc.Body {
		current := strings.TrimRight(line, " \t")
		stripped := strings.TrimLeft(current, " \t")
		if strings.HasPrefix(stripped, "```") || strings.HasPrefix(stripped, "~~~") {
			flush()
			inFence = !inFence
			out = append(out, current)
			continue
		}
		if inFence {
			out = append(out, current)
			continue
		}
		if strings.TrimSpace(current) == "" {
			flush()
			out = append(out, "")
			continue
		}
		if paragraphCandidate(current) {
			buffer = append(buffer, current)
			continue
		}
		flush()
		out = append(out, current)
	}
	flush()
	for len(out) > 0 && out[len(out)-1] == "" {
		out = out[:len(out)-1]
	}
	doc.Body = out
	return nil
}

// collapseWhitespaceRuns replaces no-break spaces and squeezes internal
// space runs to one space, keeping leading indentation and fenced content
// intact.
func collapseWhitespaceRuns(doc *Document) error {
	doc.Body = walkFences(doc.Body, func(line string) (string, bool) {
		line = strings.ReplaceAll(line, "\u00a0", " ")
		indent := len(line) - len(strings.TrimLeft(line, " "))
		prefix, rest := line[:indent], line[indent:]
		rest = whitespaceRunPattern.ReplaceAllString(rest, " ")
		return strings.TrimRight(prefix+rest, " \t"), false
	})
	return nil
}
