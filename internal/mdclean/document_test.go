// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package mdclean

import (
	"strings"
	"testing"

	"github.com/pdiddy/markdown-forge/pkg/types"
)

func TestParseFrontMatter(t *testing.T) {
	doc := Parse("---\ntitle: My Book\nauthor: A. Writer\n---\n\nBody line.\n", types.SourceEPUB)
	if doc.Meta == nil {
		t.Fatal("front matter not parsed")
	}
	if got := doc.MetaGet("title"); got != "My Book" {
		t.Errorf("title = %q, want %q", got, "My Book")
	}
	if len(doc.Body) == 0 || doc.Body[0] != "Body line." {
		t.Errorf("body = %v, want leading %q", doc.Body, "Body line.")
	}
}

func TestParseKeepsKeyOrder(t *testing.T) {
	in := "---\nzebra: one\nalpha: two\nmiddle: three\n---\n\nBody.\n"
	doc := Parse(in, types.SourceEPUB)
	out := doc.String()
	zi := strings.Index(out, "zebra:")
	ai := strings.Index(out, "alpha:")
	mi := strings.Index(out, "middle:")
	if zi < 0 || ai < 0 || mi < 0 || !(zi < ai && ai < mi) {
		t.Errorf("key order not preserved:\n%s", out)
	}
}

func TestParseMalformedFrontMatterLeftInBody(t *testing.T) {
	in := "---\n: : not yaml [\n---\nBody.\n"
	doc := Parse(in, types.SourceEPUB)
	if doc.Meta != nil {
		t.Fatal("malformed block should not parse as front matter")
	}
	if doc.Body[0] != "---" {
		t.Errorf("malformed block not preserved in body: %v", doc.Body[:2])
	}
}

func TestParseNoFrontMatter(t *testing.T) {
	doc := Parse("# Heading\n\nText.\n", types.SourcePDF)
	if doc.Meta != nil {
		t.Fatal("unexpected front matter")
	}
	if doc.Source != types.SourcePDF {
		t.Errorf("source = %v, want pdf", doc.Source)
	}
}

func TestMetaSetAndDelete(t *testing.T) {
	doc := Parse("---\ntitle: T\n---\n\nBody.\n", types.SourceEPUB)
	doc.MetaSet("title", "Updated")
	doc.MetaSet("isbn", "9780240808499")
	if got := doc.MetaGet("title"); got != "Updated" {
		t.Errorf("title = %q after set", got)
	}
	if got := doc.MetaGet("isbn"); got != "9780240808499" {
		t.Errorf("isbn = %q after set", got)
	}
	doc.MetaDelete("isbn")
	if got := doc.MetaGet("isbn"); got != "" {
		t.Errorf("isbn = %q after delete, want empty", got)
	}
}

func TestStringRoundTrip(t *testing.T) {
	in := "---\ntitle: My Book\n---\n\n# My Book\n\nBody text.\n"
	doc := Parse(in, types.SourceEPUB)
	again := Parse(doc.String(), types.SourceEPUB)
	if doc.String() != again.String() {
		t.Errorf("round trip unstable:\nfirst:\n%s\nsecond:\n%s", doc.String(), again.String())
	}
}

func TestWalkFencesSkipsCode(t *testing.T) {
	lines := []string{"prose {#a}", "```", "code {#b}", "```", "after {#c}"}
	out := walkFences(lines, func(line string) (string, bool) {
		return anchorPattern.ReplaceAllString(line, ""), false
	})
	want := []string{"prose", "```", "code {#b}", "```", "after"}
	for i := range want {
		if out[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, out[i], want[i])
		}
	}
}
