// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package bands detects boilerplate lines that repeat across PDF pages
// inside configurable top/bottom margin bands (running titles, page
// numbers) and strips them from extracted text. Detection is frequency
// based: digit runs are masked so "Page 14" and "Page 15" count as one
// pattern, and a pattern seen on enough distinct pages is classified as
// boilerplate.
package bands

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/pdiddy/markdown-forge/pkg/types"
)

// Band places a line relative to the page margins.
type Band int

const (
	BandBody Band = iota
	BandTop
	BandBottom
)

func (b Band) String() string {
	switch b {
	case BandTop:
		return "top"
	case BandBottom:
		return "bottom"
	default:
		return "body"
	}
}

// Line is one extracted text line with its vertical extent in points,
// measured from the page bottom (PDF coordinate space).
type Line struct {
	Text string
	Y0   float64 // bottom edge
	Y1   float64 // top edge
}

// Page is the ordered line list for one page.
type Page struct {
	Height float64
	Lines  []Line
}

// Candidate is a masked line pattern observed within one margin band,
// with the distinct pages it was seen on. Candidates exist only for the
// duration of a detection pass.
type Candidate struct {
	Pattern string
	Band    Band
	Pages   []int
}

// Count returns the number of distinct pages the pattern occurred on.
func (c Candidate) Count() int { return len(c.Pages) }

// Removal is the outcome of a detection pass: the set of masked patterns
// to drop per band, plus compiled user-supplied skip patterns.
type Removal struct {
	top    map[string]bool
	bottom map[string]bool
	skip   []*regexp.Regexp

	// Candidates holds every observed band pattern, removed or not, for
	// dry-run reporting.
	Candidates []Candidate
}

// digitRunPattern masks numbers so page-number variants merge.
var digitRunPattern = regexp.MustCompile(`\d+`)

// maskToken replaces each digit run; it never occurs in extracted text.
const maskToken = "#"

// Mask normalizes a line for frequency counting: surrounding whitespace is
// trimmed, inner runs collapse to one space, and digit runs become the mask
// token. Masking is only used for counting; deletions always match the
// original text.
func Mask(text string) string {
	text = strings.Join(strings.Fields(text), " ")
	return digitRunPattern.ReplaceAllString(text, maskToken)
}

// CompileSkipPatterns compiles user-supplied regexes case-insensitively,
// rejecting invalid ones with a descriptive error.
func CompileSkipPatterns(patterns []string) ([]*regexp.Regexp, error) {
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, raw := range patterns {
		re, err := regexp.Compile(`(?i)` + raw)
		if err != nil {
			return nil, fmt.Errorf("invalid skip pattern %q: %w", raw, err)
		}
		compiled = append(compiled, re)
	}
	return compiled, nil
}

// band classifies a line's position against the configured margins.
func band(line Line, pageHeight float64, cfg types.BandConfig) Band {
	switch {
	case pageHeight-line.Y1 <= cfg.TopMargin:
		return BandTop
	case line.Y0 <= cfg.BottomMargin:
		return BandBottom
	default:
		return BandBody
	}
}

// Detect runs one frequency-counting pass over the pages and returns the
// removal set. A masked pattern is merged across pages only within the
// same band: a footer that also appears verbatim in some page's body never
// drags the body occurrence into the removal set. MinRepeat below 2
// selects the automatic threshold max(2, pages/3).
func Detect(pages []Page, cfg types.BandConfig) (*Removal, error) {
	skip, err := CompileSkipPatterns(cfg.SkipPatterns)
	if err != nil {
		return nil, err
	}

	type key struct {
		pattern string
		band    Band
	}
	seen := map[key]map[int]bool{}

	for pageIdx, page := range pages {
		for _, line := range page.Lines {
			b := band(line, page.Height, cfg)
			if b == BandBody {
				continue
			}
			masked := Mask(line.Text)
			if masked == "" {
				continue
			}
			k := key{masked, b}
			if seen[k] == nil {
				seen[k] = map[int]bool{}
			}
			seen[k][pageIdx] = true
		}
	}

	minRepeat := cfg.MinRepeat
	if minRepeat < 2 {
		minRepeat = max(2, len(pages)/3)
	}

	removal := &Removal{
		top:    map[string]bool{},
		bottom: map[string]bool{},
		skip:   skip,
	}
	for k, pageSet := range seen {
		pageList := make([]int, 0, len(pageSet))
		for p := range pageSet {
			pageList = append(pageList, p)
		}
		sort.Ints(pageList)
		removal.Candidates = append(removal.Candidates, Candidate{
			Pattern: k.pattern,
			Band:    k.band,
			Pages:   pageList,
		})
		if len(pageSet) < minRepeat {
			continue
		}
		if k.band == BandTop {
			removal.top[k.pattern] = true
		} else {
			removal.bottom[k.pattern] = true
		}
	}
	sort.Slice(removal.Candidates, func(i, j int) bool {
		if removal.Candidates[i].Band != removal.Candidates[j].Band {
			return removal.Candidates[i].Band < removal.Candidates[j].Band
		}
		return removal.Candidates[i].Pattern < removal.Candidates[j].Pattern
	})
	return removal, nil
}

// Removes reports whether a line in the given band would be deleted.
// Body lines are only ever removed by user skip patterns.
func (r *Removal) Removes(line Line, pageHeight float64, cfg types.BandConfig) bool {
	text := strings.TrimSpace(line.Text)
	if text == "" {
		return false
	}
	for _, re := range r.skip {
		if re.MatchString(text) {
			return true
		}
	}
	switch band(line, pageHeight, cfg) {
	case BandTop:
		return r.top[Mask(text)]
	case BandBottom:
		return r.bottom[Mask(text)]
	default:
		return false
	}
}

// Strip deletes matching lines from each page and returns the surviving
// text lines per page. Lines are removed whole, never blanked.
func (r *Removal) Strip(pages []Page, cfg types.BandConfig) [][]string {
	out := make([][]string, len(pages))
	for i, page := range pages {
		kept := make([]string, 0, len(page.Lines))
		for _, line := range page.Lines {
			if r.Removes(line, page.Height, cfg) {
				continue
			}
			kept = append(kept, strings.TrimSpace(line.Text))
		}
		out[i] = kept
	}
	return out
}
