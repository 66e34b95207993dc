// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Dispatch routes conversion to a backend by source extension: EPUBs go
// through pandoc, PDFs through text extraction. Backends are constructed
// on first use, so a tree with only one source type needs only that
// tool installed.
type Dispatch struct {
	NewEPUB func() (Converter, error)
	NewPDF  func() (Converter, error)

	epub Converter
	pdf  Converter
}

func (d *Dispatch) Convert(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".epub":
		if d.epub == nil {
			c, err := d.NewEPUB()
			if err != nil {
				return "", err
			}
			d.epub = c
		}
		return d.epub.Convert(path)
	case ".pdf":
		if d.pdf == nil {
			c, err := d.NewPDF()
			if err != nil {
				return "", err
			}
			d.pdf = c
		}
		return d.pdf.Convert(path)
	default:
		return "", fmt.Errorf("no converter for %s", filepath.Base(path))
	}
}
