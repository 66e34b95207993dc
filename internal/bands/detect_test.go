// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package bands

import (
	"fmt"
	"testing"

	"github.com/pdiddy/markdown-forge/pkg/types"
)

// testPage builds a page of the given height with a footer line, an
// optional header line, and body lines spread through the middle.
func testPage(height float64, header, footer string, body ...string) Page {
	p := Page{Height: height}
	if header != "" {
		p.Lines = append(p.Lines, Line{Text: header, Y0: height - 20, Y1: height - 8})
	}
	y := height - 100
	for _, b := range body {
		p.Lines = append(p.Lines, Line{Text: b, Y0: y - 12, Y1: y})
		y -= 20
	}
	if footer != "" {
		p.Lines = append(p.Lines, Line{Text: footer, Y0: 10, Y1: 22})
	}
	return p
}

func testCfg(minRepeat int) types.BandConfig {
	return types.BandConfig{TopMargin: 36, BottomMargin: 36, MinRepeat: minRepeat}
}

func TestMask(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Page 14", "Page #"},
		{"Page 15", "Page #"},
		{"  Page   9  ", "Page #"},
		{"14 / 350", "# / #"},
		{"Chapter Title", "Chapter Title"},
	}
	for _, tt := range tests {
		if got := Mask(tt.in); got != tt.want {
			t.Errorf("Mask(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDetectPageNumbersAcrossPages(t *testing.T) {
	var pages []Page
	for i := 1; i <= 50; i++ {
		pages = append(pages, testPage(792, "", fmt.Sprintf("Page %d", i), "Body text for the page."))
	}

	removal, err := Detect(pages, testCfg(3))
	if err != nil {
		t.Fatal(err)
	}

	stripped := removal.Strip(pages, testCfg(3))
	for i, lines := range stripped {
		for _, line := range lines {
			if line == fmt.Sprintf("Page %d", i+1) {
				t.Fatalf("page %d: footer %q not removed", i+1, line)
			}
		}
		if len(lines) != 1 || lines[0] != "Body text for the page." {
			t.Fatalf("page %d: body damaged: %v", i+1, lines)
		}
	}
}

func TestDetectThresholdBoundary(t *testing.T) {
	const minRepeat = 3

	// Footer on exactly minRepeat-1 pages: stays.
	below := []Page{
		testPage(792, "", "Running Footer", "Body A"),
		testPage(792, "", "Running Footer", "Body B"),
		testPage(792, "", "", "Body C"),
	}
	removal, err := Detect(below, testCfg(minRepeat))
	if err != nil {
		t.Fatal(err)
	}
	kept := removal.Strip(below, testCfg(minRepeat))
	if len(kept[0]) != 2 {
		t.Errorf("footer on min_repeat-1 pages was removed: %v", kept[0])
	}

	// Footer on exactly minRepeat pages: goes.
	at := []Page{
		testPage(792, "", "Running Footer", "Body A"),
		testPage(792, "", "Running Footer", "Body B"),
		testPage(792, "", "Running Footer", "Body C"),
	}
	removal, err = Detect(at, testCfg(minRepeat))
	if err != nil {
		t.Fatal(err)
	}
	kept = removal.Strip(at, testCfg(minRepeat))
	for i, lines := range kept {
		if len(lines) != 1 {
			t.Errorf("page %d: footer on min_repeat pages not removed: %v", i, lines)
		}
	}
}

func TestBandIsolation(t *testing.T) {
	// "Alternative Scriptwriting" runs as a footer on every page AND
	// appears once in a page body. Only the band occurrences go.
	pages := []Page{
		testPage(792, "", "Alternative Scriptwriting", "Opening body."),
		testPage(792, "", "Alternative Scriptwriting", "Alternative Scriptwriting", "More body."),
		testPage(792, "", "Alternative Scriptwriting", "Closing body."),
	}
	cfg := testCfg(3)
	removal, err := Detect(pages, cfg)
	if err != nil {
		t.Fatal(err)
	}
	kept := removal.Strip(pages, cfg)
	found := false
	for _, line := range kept[1] {
		if line == "Alternative Scriptwriting" {
			found = true
		}
	}
	if !found {
		t.Error("body occurrence of footer text was removed")
	}
}

func TestBandsNotMergedAcrossTopAndBottom(t *testing.T) {
	// Same text twice in the top band, once in the bottom band. With
	// min_repeat=3 neither band reaches the threshold on its own.
	pages := []Page{
		testPage(792, "Running Title", "", "Body."),
		testPage(792, "Running Title", "", "Body."),
		testPage(792, "", "Running Title", "Body."),
	}
	cfg := testCfg(3)
	removal, err := Detect(pages, cfg)
	if err != nil {
		t.Fatal(err)
	}
	kept := removal.Strip(pages, cfg)
	total := 0
	for _, lines := range kept {
		total += len(lines)
	}
	if total != 6 {
		t.Errorf("cross-band merge removed lines: %d kept, want 6", total)
	}
}

func TestSkipPatternsIndependentOfCount(t *testing.T) {
	pages := []Page{
		testPage(792, "", "Visit our website!", "Body."),
	}
	cfg := testCfg(5)
	cfg.SkipPatterns = []string{`^visit our`}
	removal, err := Detect(pages, cfg)
	if err != nil {
		t.Fatal(err)
	}
	kept := removal.Strip(pages, cfg)
	if len(kept[0]) != 1 || kept[0][0] != "Body." {
		t.Errorf("skip pattern did not remove one-off footer: %v", kept[0])
	}
}

func TestInvalidSkipPattern(t *testing.T) {
	cfg := testCfg(2)
	cfg.SkipPatterns = []string{`([unclosed`}
	if _, err := Detect(nil, cfg); err == nil {
		t.Fatal("expected error for invalid skip pattern")
	}
}

func TestAutomaticThreshold(t *testing.T) {
	// 30 pages, min_repeat=0: threshold becomes max(2, 30/3) = 10.
	var pages []Page
	for i := 0; i < 30; i++ {
		footer := ""
		if i < 9 {
			footer = "Rare Footer"
		}
		pages = append(pages, testPage(792, "", footer, "Body."))
	}
	cfg := testCfg(0)
	removal, err := Detect(pages, cfg)
	if err != nil {
		t.Fatal(err)
	}
	kept := removal.Strip(pages, cfg)
	if len(kept[0]) != 2 {
		t.Errorf("footer under automatic threshold removed: %v", kept[0])
	}
}
