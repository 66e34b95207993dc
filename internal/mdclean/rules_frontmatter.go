// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package mdclean

import (
	"regexp"
	"strings"
)

// droppedMetaKeys are converter-emitted front matter keys that carry no
// value downstream. contributor holds conversion tooling credits. A
// description is kept when it has content; the empty-value sweep below
// removes it otherwise.
var droppedMetaKeys = []string{"contributor"}

// titleShortCut matches a spaced dash; the short title ends before it.
// A hyphen inside a word ("Re-Writing") is not a cut point.
var titleShortCut = regexp.MustCompile(`\s*[–—-]\s+`)

// pruneFrontMatter drops known-useless keys and any key whose value is
// empty, keeping the surviving keys in their original order.
func pruneFrontMatter(doc *Document) error {
	if doc.Meta == nil {
		return nil
	}
	for _, key := range droppedMetaKeys {
		doc.MetaDelete(key)
	}
	keys := make([]string, 0, len(doc.Meta.Content)/2)
	for i := 0; i+1 < len(doc.Meta.Content); i += 2 {
		keys = append(keys, doc.Meta.Content[i].Value)
	}
	for _, key := range keys {
		if doc.metaValueEmpty(key) {
			doc.MetaDelete(key)
		}
	}
	return nil
}

// titleShort trims a title to its head: everything before the first colon
// or spaced dash.
func titleShort(title string) string {
	s := strings.TrimSpace(title)
	if i := strings.Index(s, ":"); i >= 0 {
		s = strings.TrimSpace(s[:i])
	}
	if loc := titleShortCut.FindStringIndex(s); loc != nil {
		s = strings.TrimSpace(s[:loc[0]])
	}
	return s
}

// truncateTitleShort derives title_short from the title when absent and
// re-trims an existing value. Trimming an already-trimmed value is a no-op.
func truncateTitleShort(doc *Document) error {
	if doc.Meta == nil {
		return nil
	}
	if existing := doc.MetaGet("title_short"); existing != "" {
		doc.MetaSet("title_short", titleShort(existing))
		return nil
	}
	if title := doc.MetaGet("title"); title != "" {
		if short := titleShort(title); short != "" {
			doc.MetaSet("title_short", short)
		}
	}
	return nil
}
