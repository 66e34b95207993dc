// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package mdclean

import (
	"regexp"
	"strings"
)

var (
	anchorPattern        = regexp.MustCompile(`\s*\{#[^}]+\}`)
	classBracesPattern   = regexp.MustCompile(`\{\s*(?:\.[A-Za-z0-9_-]+\s*)+\}`)
	classAttrPattern     = regexp.MustCompile(`\sclass="[^"]*"`)
	emptyLinkLinePattern = regexp.MustCompile(`^\s*\[\s*\]\s*$`)
	htmlCommentPattern   = regexp.MustCompile(`<!--.*?-->`)
	directivePattern     = regexp.MustCompile(`^\s*:::+.*$`)
	tildeLinePattern     = regexp.MustCompile(`^\s*~{1,2}\s*$`)
	backslashOnlyPattern = regexp.MustCompile(`^\s*\\\s*$`)
	styleLinePattern     = regexp.MustCompile(`(?i)^\s*\{\s*style\s*=\s*"[^"]*"\s*\}\s*$`)

	squareBulletPattern  = regexp.MustCompile(`^(\s*)\[•\s*\]\s*(.+)$`)
	dotBulletPattern     = regexp.MustCompile(`^(\s*)[•▪◦]\s+(.+)$`)
	inlineEmDashPattern  = regexp.MustCompile(`(^|[^-])---([^-]|$)`)
	spacedEmDashPattern  = regexp.MustCompile(`[ \t]+—[ \t]+`)
	dashRulePattern      = regexp.MustCompile(`^[—–-]{3,}$`)
	svgOpenPattern       = regexp.MustCompile(`(?i)<svg\b`)
	svgClosePattern      = regexp.MustCompile(`(?i)</svg>`)
	headingPattern       = regexp.MustCompile(`^(#{1,6})\s+(.*)$`)
	redundantEscape      = regexp.MustCompile(`\\([.!?,:;'])`)
	markdownImagePattern = regexp.MustCompile(`(!\[[^\]]*\]\()([^)]+)(\))`)
	nestedAssetPattern   = regexp.MustCompile(`(?i)^(?:images/)?(?:(?:images|OEBPS)/)+`)

	legacyDoubleLink  = regexp.MustCompile(`(?i)\[\[([^\]]+?)\]\]\s*\(\s*#[^)]+\)`)
	orphanDoubleBrack = regexp.MustCompile(`\[\[([^\]]+?)\]\]`)
	malformedNested   = regexp.MustCompile(`\[\[\]\[([^\]]+)\]\((#[^)]+)\)\]\(#[^)]+\)`)
	labelNestedLink   = regexp.MustCompile(`\[([^\[\]]*)\[([^\[\]]+)\]\(([^()]+)\)([^\[\]]*)\]\([^()]+\)`)
)

// stripAnchors removes Pandoc/Calibre `{#id}` anchor trailers everywhere
// outside code fences.
func stripAnchors(doc *Document) error {
	doc.Body = walkFences(doc.Body, func(line string) (string, bool) {
		return anchorPattern.ReplaceAllString(line, ""), false
	})
	return nil
}

// stripClassAttributes drops `{.class}` brace groups and empty/leftover
// HTML class attributes.
func stripClassAttributes(doc *Document) error {
	doc.Body = walkFences(doc.Body, func(line string) (string, bool) {
		line = classBracesPattern.ReplaceAllString(line, "")
		line = classAttrPattern.ReplaceAllString(line, "")
		return line, false
	})
	return nil
}

// dropEmptyLinkLines removes lines consisting of an empty bracket pair.
func dropEmptyLinkLines(doc *Document) error {
	doc.Body = walkFences(doc.Body, func(line string) (string, bool) {
		if emptyLinkLinePattern.MatchString(line) {
			return "", true
		}
		return line, false
	})
	return nil
}

// unnestLinks repairs links whose label itself contains a link, keeping
// the innermost valid target, and unwraps legacy double-bracket markup.
func unnestLinks(doc *Document) error {
	doc.Body = walkFences(doc.Body, func(line string) (string, bool) {
		line = malformedNested.ReplaceAllString(line, "[$1]($2)")
		line = labelNestedLink.ReplaceAllString(line, "[$1$2$4]($3)")
		line = legacyDoubleLink.ReplaceAllString(line, "$1")
		line = orphanDoubleBrack.ReplaceAllString(line, "$1")
		return line, false
	})
	return nil
}

// stripHTMLComments removes single-line HTML comments left by converters.
func stripHTMLComments(doc *Document) error {
	doc.Body = walkFences(doc.Body, func(line string) (string, bool) {
		cleaned := htmlCommentPattern.ReplaceAllString(line, "")
		if cleaned != line && strings.TrimSpace(cleaned) == "" {
			return "", true
		}
		return cleaned, false
	})
	return nil
}

// dropDirectiveBlocks deletes colon-prefixed directive lines (Calibre
// container syntax) and related vestigial markers wholesale.
func dropDirectiveBlocks(doc *Document) error {
	doc.Body = walkFences(doc.Body, func(line string) (string, bool) {
		stripped := strings.TrimSpace(line)
		if stripped == "" {
			return line, false
		}
		if directivePattern.MatchString(stripped) ||
			tildeLinePattern.MatchString(stripped) ||
			backslashOnlyPattern.MatchString(stripped) ||
			styleLinePattern.MatchString(stripped) {
			return "", true
		}
		return line, false
	})
	return nil
}

// normalizeBullets rewrites square and dot bullet markers to the canonical
// hyphen form.
func normalizeBullets(doc *Document) error {
	doc.Body = walkFences(doc.Body, func(line string) (string, bool) {
		if m := squareBulletPattern.FindStringSubmatch(line); m != nil {
			return m[1] + "- " + strings.TrimSpace(m[2]), false
		}
		if m := dotBulletPattern.FindStringSubmatch(line); m != nil {
			return m[1] + "- " + strings.TrimSpace(m[2]), false
		}
		return line, false
	})
	return nil
}

// normalizeDashes converts inline triple-hyphens to em dashes and removes
// the spacing around em dashes so one canonical form remains. Dash-only
// rule lines are left for convertDashRules.
func normalizeDashes(doc *Document) error {
	doc.Body = walkFences(doc.Body, func(line string) (string, bool) {
		stripped := strings.TrimSpace(line)
		if stripped != "" && dashRulePattern.MatchString(stripped) {
			return line, false
		}
		line = inlineEmDashPattern.ReplaceAllString(line, "$1—$2")
		line = spacedEmDashPattern.ReplaceAllString(line, "—")
		return line, false
	})
	return nil
}

// convertDashRules turns decorative dash runs on their own line into a
// thematic break.
func convertDashRules(doc *Document) error {
	doc.Body = walkFences(doc.Body, func(line string) (string, bool) {
		if dashRulePattern.MatchString(strings.TrimSpace(line)) {
			return "---", false
		}
		return line, false
	})
	return nil
}

// removeSVGBlocks drops inline SVG fragments wholesale, open tag through
// close tag. Converters embed the cover image this way.
func removeSVGBlocks(doc *Document) error {
	var out []string
	inSVG := false
	for _, line := range doc.Body {
		if !inSVG && svgOpenPattern.MatchString(line) {
			if !svgClosePattern.MatchString(line) {
				inSVG = true
			}
			continue
		}
		if inSVG {
			if svgClosePattern.MatchString(line) {
				inSVG = false
			}
			continue
		}
		out = append(out, line)
	}
	doc.Body = out
	return nil
}

// flattenImageLinks rewrites nested asset paths (images/OEBPS/..., doubled
// images/images/...) to the flat images/ directory in every image link.
// The whole-line rewrite applies to each reference so the link set stays
// consistent with the flattened on-disk layout.
func flattenImageLinks(doc *Document) error {
	doc.Body = walkFences(doc.Body, func(line string) (string, bool) {
		return markdownImagePattern.ReplaceAllStringFunc(line, func(m string) string {
			parts := markdownImagePattern.FindStringSubmatch(m)
			path := parts[2]
			if nestedAssetPattern.MatchString(path) {
				path = "images/" + nestedAssetPattern.ReplaceAllString(path, "")
			}
			return parts[1] + path + parts[3]
		}), false
	})
	return nil
}

// stripRedundantEscapes unescapes punctuation that needs no escaping in
// Markdown prose.
func stripRedundantEscapes(doc *Document) error {
	doc.Body = walkFences(doc.Body, func(line string) (string, bool) {
		return redundantEscape.ReplaceAllString(line, "$1"), false
	})
	return nil
}

// collapseBlankLines reduces blank runs to a single separator and trims
// leading/trailing blanks. Runs last so the holes other rules leave
// disappear.
func collapseBlankLines(doc *Document) error {
	var out []string
	blank := 0
	for _, line := range doc.Body {
		if strings.TrimSpace(line) == "" {
			blank++
			if blank > 1 || len(out) == 0 {
				continue
			}
			out = append(out, "")
			continue
		}
		blank = 0
		out = append(out, strings.TrimRight(line, " \t"))
	}
	for len(out) > 0 && out[len(out)-1] == "" {
		out = out[:len(out)-1]
	}
	doc.Body = out
	return nil
}
