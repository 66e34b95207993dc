// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// InspectConfig holds settings for the file type inspection stage.
type InspectConfig struct {
	// InfoOnly disables renaming and metadata writes; probes report only.
	InfoOnly bool `json:"info_only" yaml:"info_only"`

	// Recursive controls whether directories are descended into.
	Recursive bool `json:"recursive" yaml:"recursive"`
}

// ConversionBackend identifies the document conversion tool.
type ConversionBackend string

const (
	BackendPandoc          ConversionBackend = "pandoc"
	BackendPandocContainer ConversionBackend = "pandoc-container"
)

// ConvertConfig holds settings for the conversion stage.
type ConvertConfig struct {
	// Backend selects the conversion tool: pandoc or pandoc-container.
	Backend ConversionBackend `json:"backend" yaml:"backend"`

	// InDir is the intake root scanned for EPUB/PDF files (default "IN").
	InDir string `json:"in_dir" yaml:"in_dir"`

	// OutDir is the root published workspaces are moved to (default "OUT").
	OutDir string `json:"out_dir" yaml:"out_dir"`

	// ContainerImage is the image used by the pandoc-container backend.
	ContainerImage string `json:"container_image,omitempty" yaml:"container_image,omitempty"`
}

// BandConfig holds settings for repeated header/footer band detection on
// text extracted from PDFs.
type BandConfig struct {
	// TopMargin is the height in points of the header band at the top of
	// each page (default 36).
	TopMargin float64 `json:"top_margin" yaml:"top_margin"`

	// BottomMargin is the height in points of the footer band at the
	// bottom of each page (default 36).
	BottomMargin float64 `json:"bottom_margin" yaml:"bottom_margin"`

	// MinRepeat is the number of distinct pages a masked band pattern must
	// appear on before it is stripped. Values below 2 select the automatic
	// threshold max(2, pages/3).
	MinRepeat int `json:"min_repeat" yaml:"min_repeat"`

	// SkipPatterns are extra case-insensitive regexes removed regardless
	// of repeat count.
	SkipPatterns []string `json:"skip_patterns,omitempty" yaml:"skip_patterns,omitempty"`
}

// ApostrophePolicy selects how apostrophes inside title words are treated
// when composing canonical names. The source material documents both
// behaviors; neither is the default everywhere.
type ApostrophePolicy string

const (
	// ApostropheStrip removes apostrophes along with other subtitle
	// punctuation ("Writer's" -> "Writers").
	ApostropheStrip ApostrophePolicy = "strip"

	// ApostropheKeep preserves apostrophes that sit between letters,
	// stripping only the rest of the punctuation set.
	ApostropheKeep ApostrophePolicy = "keep"
)

// NamingConfig holds settings for canonical name composition.
type NamingConfig struct {
	// Apostrophes selects the in-word apostrophe policy (default strip).
	Apostrophes ApostrophePolicy `json:"apostrophes" yaml:"apostrophes"`
}

// CleanConfig holds settings for the Markdown normalization stage.
type CleanConfig struct {
	// Bands configures header/footer stripping for PDF-sourced documents.
	Bands BandConfig `json:"bands" yaml:"bands"`

	// UnwrapParagraphs rejoins hard-wrapped prose lines. Enabled for
	// PDF-sourced documents, a no-op for EPUB output.
	UnwrapParagraphs bool `json:"unwrap_paragraphs" yaml:"unwrap_paragraphs"`
}

// CatalogConfig holds settings for the publication catalog.
type CatalogConfig struct {
	// CatalogDir is the directory holding the catalog database (default
	// "catalog").
	CatalogDir string `json:"catalog_dir" yaml:"catalog_dir"`

	// MaxResults is the default maximum number of query results (default 50).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// PipelineConfig groups all stage configurations.
type PipelineConfig struct {
	Inspect InspectConfig `json:"inspect" yaml:"inspect"`
	Convert ConvertConfig `json:"convert" yaml:"convert"`
	Clean   CleanConfig   `json:"clean" yaml:"clean"`
	Naming  NamingConfig  `json:"naming" yaml:"naming"`
	Catalog CatalogConfig `json:"catalog" yaml:"catalog"`
}
