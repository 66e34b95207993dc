// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package mdclean

import (
	"fmt"
	"io"

	"github.com/pdiddy/markdown-forge/pkg/types"
)

// Rule is one named rewrite over the document. Rules match narrow artifact
// patterns and must not re-trigger on their own output; the pipeline's
// idempotence depends on it.
type Rule struct {
	Name  string
	Apply func(*Document) error
}

// Rules assembles the ordered pipeline for a document. Order matters:
// anchor stripping runs before TOC rebuilding (which plants fresh anchors),
// and blank-line collapsing runs last to absorb holes other rules leave.
func Rules(cfg types.CleanConfig, source types.SourceType) []Rule {
	rules := []Rule{
		{"strip-anchors", stripAnchors},
		{"strip-class-attributes", stripClassAttributes},
		{"drop-empty-link-lines", dropEmptyLinkLines},
		{"unnest-links", unnestLinks},
		{"strip-html-comments", stripHTMLComments},
		{"drop-directive-blocks", dropDirectiveBlocks},
		{"normalize-bullets", normalizeBullets},
		{"normalize-dashes", normalizeDashes},
		{"convert-dash-rules", convertDashRules},
		{"remove-svg-blocks", removeSVGBlocks},
		{"flatten-image-links", flattenImageLinks},
		{"strip-redundant-escapes", stripRedundantEscapes},
		{"prune-front-matter", pruneFrontMatter},
		{"truncate-title-short", truncateTitleShort},
		{"dedup-headings", dedupHeadings},
		{"rebuild-toc", rebuildTOC},
	}
	if source == types.SourcePDF || cfg.UnwrapParagraphs {
		rules = append(rules,
			Rule{"unwrap-paragraphs", unwrapParagraphs},
			Rule{"collapse-whitespace-runs", collapseWhitespaceRuns},
		)
	}
	rules = append(rules, Rule{"collapse-blank-lines", collapseBlankLines})
	return rules
}

// Normalize runs the rule pipeline over the document in place. A failing
// or panicking rule is reported to w and skipped; the remaining rules still
// run. Only the per-rule scope is lost, never the whole pass.
func Normalize(doc *Document, cfg types.CleanConfig, w io.Writer) {
	for _, rule := range Rules(cfg, doc.Source) {
		if err := applyRule(rule, doc); err != nil {
			fmt.Fprintf(w, "warning: %v (rule skipped)\n", err)
		}
	}
}

// NormalizeText is the string-in, string-out convenience wrapper.
func NormalizeText(text string, cfg types.CleanConfig, source types.SourceType, w io.Writer) string {
	doc := Parse(text, source)
	Normalize(doc, cfg, w)
	return doc.String()
}

// applyRule invokes one rule, converting a panic into a RuleError so one
// malformed construct cannot abort the pass.
func applyRule(rule Rule, doc *Document) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &RuleError{Rule: rule.Name, Err: fmt.Errorf("panic: %v", r)}
		}
	}()
	if ruleErr := rule.Apply(doc); ruleErr != nil {
		return &RuleError{Rule: rule.Name, Err: ruleErr}
	}
	return nil
}
