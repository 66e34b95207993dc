// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/pdiddy/markdown-forge/internal/bands"
	"github.com/pdiddy/markdown-forge/pkg/types"
)

// PDFTextConverter extracts PDF text with pdftotext and strips repeated
// header/footer bands before emitting the result. Pandoc cannot read PDF
// input, so PDFs always take this path.
type PDFTextConverter struct {
	run   runner
	bands types.BandConfig
}

// NewPDFTextConverter verifies pdftotext is on PATH before returning.
func NewPDFTextConverter(cfg types.BandConfig) (*PDFTextConverter, error) {
	return newPDFTextConverter(defaultRunner, cfg)
}

func newPDFTextConverter(run runner, cfg types.BandConfig) (*PDFTextConverter, error) {
	if _, err := run.LookPath("pdftotext"); err != nil {
		return nil, fmt.Errorf("pdftotext not found on PATH: %w", err)
	}
	return &PDFTextConverter{run: run, bands: cfg}, nil
}

// Convert extracts positioned text, detects repeated margin-band lines
// across pages, and returns the stripped text with pages separated by a
// blank line.
func (p *PDFTextConverter) Convert(path string) (string, error) {
	out, err := p.run.RunOutput("pdftotext", "-bbox-layout", path, "-")
	if err != nil {
		return "", fmt.Errorf("extracting %s with pdftotext: %w", path, err)
	}

	pages, err := parseBBoxPages(out)
	if err != nil {
		return "", fmt.Errorf("parsing pdftotext output for %s: %w", path, err)
	}
	if len(pages) == 0 {
		return "", fmt.Errorf("pdftotext produced no pages for %s", path)
	}

	removal, err := bands.Detect(pages, p.bands)
	if err != nil {
		return "", err
	}
	stripped := removal.Strip(pages, p.bands)

	var b strings.Builder
	for _, lines := range stripped {
		for _, line := range lines {
			b.WriteString(line)
			b.WriteByte('\n')
		}
		b.WriteByte('\n')
	}
	text := strings.TrimRight(b.String(), "\n") + "\n"
	if text == "\n" {
		return "", fmt.Errorf("no text survived band stripping for %s", path)
	}
	return text, nil
}

// pdftotext -bbox-layout output: an XHTML wrapper around <doc>, one
// <page> per PDF page with nested flow/block/line/word elements. The yMin
// and yMax attributes measure from the page top; band detection expects
// distances from the bottom.
type bboxDocument struct {
	Pages []bboxPage `xml:"body>doc>page"`
}

type bboxPage struct {
	Height float64    `xml:"height,attr"`
	Lines  []bboxLine `xml:"flow>block>line"`
}

type bboxLine struct {
	YMin  float64    `xml:"yMin,attr"`
	YMax  float64    `xml:"yMax,attr"`
	Words []bboxWord `xml:"word"`
}

type bboxWord struct {
	Text string `xml:",chardata"`
}

func parseBBoxPages(data []byte) ([]bands.Page, error) {
	var doc bboxDocument
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}

	pages := make([]bands.Page, 0, len(doc.Pages))
	for _, p := range doc.Pages {
		page := bands.Page{Height: p.Height}
		for _, l := range p.Lines {
			words := make([]string, 0, len(l.Words))
			for _, w := range l.Words {
				if t := strings.TrimSpace(w.Text); t != "" {
					words = append(words, t)
				}
			}
			if len(words) == 0 {
				continue
			}
			page.Lines = append(page.Lines, bands.Line{
				Text: strings.Join(words, " "),
				Y0:   p.Height - l.YMax,
				Y1:   p.Height - l.YMin,
			})
		}
		pages = append(pages, page)
	}
	return pages, nil
}
