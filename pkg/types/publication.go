// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared value types used across the pipeline stages.
package types

// SourceType identifies the original container format of a publication.
type SourceType string

const (
	SourceEPUB    SourceType = "epub"
	SourcePDF     SourceType = "pdf"
	SourceUnknown SourceType = "unknown"
)

// IdentifierType classifies a recognized publication identifier.
type IdentifierType string

const (
	IdentifierISBN10 IdentifierType = "ISBN10"
	IdentifierISBN13 IdentifierType = "ISBN13"
	IdentifierLCCN   IdentifierType = "LCCN"
	IdentifierDOI    IdentifierType = "DOI"
)

// Identifier is a validated publication identifier. Candidates that fail
// structural or checksum validation are never stored in one of these.
type Identifier struct {
	// Type is the identifier scheme (ISBN10, ISBN13, LCCN, DOI).
	Type IdentifierType `json:"type" yaml:"type"`

	// Value is the normalized identifier value, digits/letters only for
	// ISBN variants (no hyphens or spaces).
	Value string `json:"value" yaml:"value"`
}

// PublicationMetadata is the canonical field set extracted from front matter
// or embedded document properties. Every field except Title is optional;
// absent fields stay zero and are omitted from composed names.
type PublicationMetadata struct {
	// Series is the series name, when the publication belongs to one.
	Series string `json:"series,omitempty" yaml:"series,omitempty"`

	// SeriesNumber is the position within the series, 0 when unknown.
	SeriesNumber int `json:"series_number,omitempty" yaml:"series_number,omitempty"`

	// Title is the full publication title. Required.
	Title string `json:"title" yaml:"title"`

	// Subtitle holds text after the first colon/dash in the source title,
	// when the source separated it.
	Subtitle string `json:"subtitle,omitempty" yaml:"subtitle,omitempty"`

	// TitleShort is the title trimmed at the first subtitle separator.
	TitleShort string `json:"title_short,omitempty" yaml:"title_short,omitempty"`

	// Edition is the edition statement as found (e.g. "4th edition").
	Edition string `json:"edition,omitempty" yaml:"edition,omitempty"`

	// Authors lists authors/editors in source order, normalized to
	// "Firstname Lastname".
	Authors []string `json:"author,omitempty" yaml:"author,omitempty"`

	// Publisher is the publisher name with trailing corporate suffixes
	// (Inc., LLC, Ltd., & Co.) stripped.
	Publisher string `json:"publisher,omitempty" yaml:"publisher,omitempty"`

	// Year is the four-digit publication year, 0 when unknown.
	Year int `json:"year,omitempty" yaml:"year,omitempty"`

	// Identifier is the best validated identifier found, nil when none
	// survived validation.
	Identifier *Identifier `json:"identifier,omitempty" yaml:"identifier,omitempty"`

	// Warnings records fields that were present but dropped as malformed.
	Warnings []string `json:"-" yaml:"-"`
}

// HasTitle reports whether the metadata carries the one required field.
func (m PublicationMetadata) HasTitle() bool {
	return m.Title != ""
}
