// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package metadata

import (
	"reflect"
	"strings"
	"testing"

	"github.com/pdiddy/markdown-forge/pkg/types"
)

// --- identifier validation ---

func TestValidISBN13(t *testing.T) {
	tests := []struct {
		isbn string
		want bool
	}{
		{"9780240808499", true},
		{"9780306406157", true},
		{"9780240808490", false}, // wrong check digit
		{"9780240808X99", false}, // letter inside
		{"978024080849", false},  // short
	}
	for _, tt := range tests {
		if got := ValidISBN13(tt.isbn); got != tt.want {
			t.Errorf("ValidISBN13(%q) = %v, want %v", tt.isbn, got, tt.want)
		}
	}
}

func TestValidISBN10(t *testing.T) {
	tests := []struct {
		isbn string
		want bool
	}{
		{"0306406152", true},
		{"097522980X", true},
		{"0306406151", false}, // wrong check digit
		{"030640615X", false}, // X where digit expected by checksum
		{"X306406152", false}, // X not in final position
	}
	for _, tt := range tests {
		if got := ValidISBN10(tt.isbn); got != tt.want {
			t.Errorf("ValidISBN10(%q) = %v, want %v", tt.isbn, got, tt.want)
		}
	}
}

func TestClassifyIdentifier(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		wantType types.IdentifierType
		wantVal  string
		wantOK   bool
	}{
		{"isbn13 with hyphens", "978-0-240-80849-9", types.IdentifierISBN13, "9780240808499", true},
		{"isbn13 with prefix", "ISBN-13: 9780240808499", types.IdentifierISBN13, "9780240808499", true},
		{"isbn10 with X", "0-9752298-0-X", types.IdentifierISBN10, "097522980X", true},
		{"isbn13 bad checksum rejected", "9780240808490", "", "", false},
		{"doi", "10.1145/1234567.1234568", types.IdentifierDOI, "10.1145/1234567.1234568", true},
		{"doi prefixed", "doi:10.1145/1234567", types.IdentifierDOI, "10.1145/1234567", true},
		{"doi prefixed upper", "DOI: 10.1145/1234567", types.IdentifierDOI, "10.1145/1234567", true},
		{"doi urn", "urn:doi:10.1145/1234567", types.IdentifierDOI, "10.1145/1234567", true},
		{"lccn prefixed", "LCCN: 2004558859", types.IdentifierLCCN, "2004558859", true},
		{"lccn with letters", "gm71005810", types.IdentifierLCCN, "gm71005810", true},
		{"empty", "", "", "", false},
		{"garbage", "not an identifier", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, ok := ClassifyIdentifier(tt.raw)
			if ok != tt.wantOK {
				t.Fatalf("ClassifyIdentifier(%q) ok = %v, want %v", tt.raw, ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if id.Type != tt.wantType || id.Value != tt.wantVal {
				t.Errorf("ClassifyIdentifier(%q) = {%s %s}, want {%s %s}",
					tt.raw, id.Type, id.Value, tt.wantType, tt.wantVal)
			}
		})
	}
}

// --- person splitting ---

func TestSplitPersons(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{"comma list", "Ken Dancyger, Jeff Rush", []string{"Ken Dancyger", "Jeff Rush"}},
		{"and joined", "Ken Dancyger and Jeff Rush", []string{"Ken Dancyger", "Jeff Rush"}},
		{"inverted single", "Dancyger, Ken", []string{"Ken Dancyger"}},
		{"semicolon inverted pair", "Dancyger, Ken; Rush, Jeff", []string{"Ken Dancyger", "Jeff Rush"}},
		{"ampersand", "Ken Dancyger & Jeff Rush", []string{"Ken Dancyger", "Jeff Rush"}},
		{"single", "Robert McKee", []string{"Robert McKee"}},
		{"empty", "  ", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SplitPersons(tt.raw); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("SplitPersons(%q) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}

// --- publisher suffix stripping ---

func TestStripCorporateSuffix(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"Focal Press, Inc.", "Focal Press"},
		{"Focal Press", "Focal Press"},
		{"O'Reilly Media, Inc", "O'Reilly Media"},
		{"Example Ltd.", "Example"},
		{"Smith & Co.", "Smith"},
		{"Zinc", "Zinc"}, // suffix must be a whole word
		{"Acme LLC, Inc.", "Acme"},
	}
	for _, tt := range tests {
		if got := StripCorporateSuffix(tt.raw); got != tt.want {
			t.Errorf("StripCorporateSuffix(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

// --- extraction ---

func TestFromFrontMatter(t *testing.T) {
	block := `---
title: "Alternative Scriptwriting: Beyond the Hollywood Formula, 4th edition"
author:
  - Dancyger, Ken
  - Rush, Jeff
publisher: "Focal Press, Inc."
date: "2022-03-01"
identifier:
  - "urn:uuid:0000"
  - "ISBN 9780240808499"
contributor: calibre (5.44.0)
---`

	meta, err := FromFrontMatter(block)
	if err != nil {
		t.Fatal(err)
	}
	if meta.TitleShort != "Alternative Scriptwriting" {
		t.Errorf("TitleShort = %q", meta.TitleShort)
	}
	if meta.Edition != "4th edition" {
		t.Errorf("Edition = %q", meta.Edition)
	}
	if want := []string{"Ken Dancyger", "Jeff Rush"}; !reflect.DeepEqual(meta.Authors, want) {
		t.Errorf("Authors = %v, want %v", meta.Authors, want)
	}
	if meta.Publisher != "Focal Press" {
		t.Errorf("Publisher = %q", meta.Publisher)
	}
	if meta.Year != 2022 {
		t.Errorf("Year = %d", meta.Year)
	}
	if meta.Identifier == nil || meta.Identifier.Type != types.IdentifierISBN13 || meta.Identifier.Value != "9780240808499" {
		t.Errorf("Identifier = %+v", meta.Identifier)
	}
	// The uuid candidate fails validation and must be recorded, not accepted.
	found := false
	for _, w := range meta.Warnings {
		if strings.Contains(w, "urn:uuid:0000") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected warning for rejected identifier, got %v", meta.Warnings)
	}
}

func TestFromFrontMatterMissingTitle(t *testing.T) {
	if _, err := FromFrontMatter("---\nauthor: Somebody\n---"); err == nil {
		t.Fatal("expected error for missing title")
	}
}

func TestFromPropertiesBadYearDropped(t *testing.T) {
	meta, err := FromProperties(map[string]string{
		"title": "Some Title",
		"date":  "not-a-year",
	})
	if err != nil {
		t.Fatal(err)
	}
	if meta.Year != 0 {
		t.Errorf("Year = %d, want 0", meta.Year)
	}
	if len(meta.Warnings) == 0 {
		t.Error("expected a recorded warning for the unparsable date")
	}
}

func TestFromPropertiesSeries(t *testing.T) {
	meta, err := FromProperties(map[string]string{
		"title":  "The Fellowship of the Ring",
		"series": "The Lord of the Rings, Book 1",
	})
	if err != nil {
		t.Fatal(err)
	}
	if meta.Series != "The Lord of the Rings" {
		t.Errorf("Series = %q", meta.Series)
	}
	if meta.SeriesNumber != 1 {
		t.Errorf("SeriesNumber = %d", meta.SeriesNumber)
	}
}

func TestExtractionDeterministic(t *testing.T) {
	props := map[string]string{
		"title":     "Story: Substance, Structure, Style",
		"author":    "Robert McKee",
		"publisher": "ReganBooks",
		"date":      "1997",
	}
	a, err := FromProperties(props)
	if err != nil {
		t.Fatal(err)
	}
	b, err := FromProperties(props)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Error("repeated extraction differs")
	}
}
