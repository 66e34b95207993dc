// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package naming

import (
	"testing"

	"github.com/pdiddy/markdown-forge/pkg/types"
)

func TestTitleCase(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"the art of war", "The Art of War"},
		{"a river runs through it", "A River Runs Through It"},
		{"something to live for", "Something to Live For"}, // last word raised
		{"story and structure", "Story and Structure"},
		{"4th edition", "4th Edition"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := TitleCase(tt.in); got != tt.want {
			t.Errorf("TitleCase(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestComposeFullExample(t *testing.T) {
	meta := types.PublicationMetadata{
		Title:     "Alternative Scriptwriting",
		Edition:   "4th edition",
		Authors:   []string{"Ken Dancyger", "Jeff Rush"},
		Publisher: "Focal Press, Inc.",
		Year:      2022,
		Identifier: &types.Identifier{
			Type:  types.IdentifierISBN13,
			Value: "9780240808499",
		},
	}
	want := "Alternative Scriptwriting 4th Edition - Focal Press 2022 ISBN13 9780240808499"
	if got := Compose(meta, types.NamingConfig{}); got != want {
		t.Errorf("Compose = %q\nwant      %q", got, want)
	}
}

func TestComposeDeterministic(t *testing.T) {
	meta := types.PublicationMetadata{
		Title:     "Story: Substance, Structure, Style",
		Publisher: "ReganBooks",
		Year:      1997,
	}
	first := Compose(meta, types.NamingConfig{})
	for i := 0; i < 10; i++ {
		if got := Compose(meta, types.NamingConfig{}); got != first {
			t.Fatalf("call %d returned %q, first call %q", i, got, first)
		}
	}
}

func TestComposeFieldOmission(t *testing.T) {
	tests := []struct {
		name string
		meta types.PublicationMetadata
		want string
	}{
		{
			"title only",
			types.PublicationMetadata{Title: "Bare Title"},
			"Bare Title",
		},
		{
			"no series segment or stray separator",
			types.PublicationMetadata{Title: "Solo Work", Year: 2001},
			"Solo Work - 2001",
		},
		{
			"series with number",
			types.PublicationMetadata{
				Series: "The Lord of the Rings", SeriesNumber: 1,
				Title: "The Fellowship of the Ring",
			},
			"The Lord of the Rings 1 The Fellowship of the Ring",
		},
		{
			"publisher without year or identifier",
			types.PublicationMetadata{Title: "Alone", Publisher: "Focal Press"},
			"Alone - Focal Press",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Compose(tt.meta, types.NamingConfig{}); got != tt.want {
				t.Errorf("Compose = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestComposePunctuationRemoval(t *testing.T) {
	meta := types.PublicationMetadata{
		Title: "Story: Substance (Structure) — Style",
	}
	want := "Story Substance Structure Style"
	if got := Compose(meta, types.NamingConfig{}); got != want {
		t.Errorf("Compose = %q, want %q", got, want)
	}
}

func TestComposeApostrophePolicies(t *testing.T) {
	meta := types.PublicationMetadata{Title: "The Writer's Journey"}

	strip := Compose(meta, types.NamingConfig{Apostrophes: types.ApostropheStrip})
	if strip != "The Writers Journey" {
		t.Errorf("strip policy = %q, want %q", strip, "The Writers Journey")
	}

	keep := Compose(meta, types.NamingConfig{Apostrophes: types.ApostropheKeep})
	if keep != "The Writer's Journey" {
		t.Errorf("keep policy = %q, want %q", keep, "The Writer's Journey")
	}

	// A quote-like apostrophe not inside a word goes away under both.
	quoted := types.PublicationMetadata{Title: "On 'Craft"}
	if got := Compose(quoted, types.NamingConfig{Apostrophes: types.ApostropheKeep}); got != "On Craft" {
		t.Errorf("keep policy on dangling quote = %q, want %q", got, "On Craft")
	}
}

func TestComposeFilesystemSafety(t *testing.T) {
	meta := types.PublicationMetadata{Title: `What/If*You?Could<Not>Name|It`}
	got := Compose(meta, types.NamingConfig{})
	for _, r := range `\/:*?"<>|` {
		if containsRune(got, r) {
			t.Errorf("composed name %q contains illegal character %q", got, r)
		}
	}
	if got != "What If You Could Not Name It" {
		t.Errorf("Compose = %q", got)
	}
}

func containsRune(s string, r rune) bool {
	for _, c := range s {
		if c == r {
			return true
		}
	}
	return false
}

func TestFilename(t *testing.T) {
	meta := types.PublicationMetadata{Title: "Bare Title"}
	if got := Filename(meta, types.NamingConfig{}, "md"); got != "Bare Title.md" {
		t.Errorf("Filename = %q", got)
	}
	if got := Filename(meta, types.NamingConfig{}, ".epub"); got != "Bare Title.epub" {
		t.Errorf("Filename = %q", got)
	}
}
