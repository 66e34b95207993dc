// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// asciiFold decomposes accented characters and drops the combining marks,
// so "Mémoires" slugs to "Memoires".
var asciiFold = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Slugify folds text to a hyphen-joined ASCII slug, falling back when
// nothing survives the folding.
func Slugify(text, fallback string) string {
	folded, _, err := transform.String(asciiFold, text)
	if err != nil {
		folded = text
	}
	var b strings.Builder
	for _, r := range folded {
		switch {
		case r > unicode.MaxASCII:
			b.WriteByte(' ')
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte(' ')
		}
	}
	slug := strings.Join(strings.Fields(b.String()), "-")
	if slug == "" {
		return fallback
	}
	return slug
}

// container.xml and OPF shapes, just enough to reach dc:title.
type epubContainer struct {
	Rootfiles []struct {
		FullPath string `xml:"full-path,attr"`
	} `xml:"rootfiles>rootfile"`
}

type epubPackage struct {
	Title string `xml:"metadata>title"`
}

// EPUBTitle reads the dc:title from an EPUB's OPF manifest, returning ""
// when the container is malformed or carries no title.
func EPUBTitle(path string) string {
	r, err := zip.OpenReader(path)
	if err != nil {
		return ""
	}
	defer r.Close()

	containerXML := readZipEntry(&r.Reader, "META-INF/container.xml")
	if containerXML == nil {
		return ""
	}
	var c epubContainer
	if err := xml.Unmarshal(containerXML, &c); err != nil || len(c.Rootfiles) == 0 {
		return ""
	}
	opf := readZipEntry(&r.Reader, c.Rootfiles[0].FullPath)
	if opf == nil {
		return ""
	}
	var p epubPackage
	if err := xml.Unmarshal(opf, &p); err != nil {
		return ""
	}
	return strings.TrimSpace(p.Title)
}

func readZipEntry(r *zip.Reader, name string) []byte {
	for _, f := range r.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil
		}
		defer rc.Close()
		data, err := io.ReadAll(rc)
		if err != nil {
			return nil
		}
		return data
	}
	return nil
}

// Folderize builds a publication workspace for a loose source file:
// <destRoot>/<slug>/source/ holding the original, with EPUB contents
// unpacked into source/extracted/. The slug comes from the EPUB title when
// readable, else the file stem. Returns the workspace directory.
func Folderize(path, destRoot string, force bool, dryRun bool, w io.Writer) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("source %s: %w", path, err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("source %s is a directory", path)
	}

	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	isEPUB := strings.EqualFold(filepath.Ext(path), ".epub")
	title := ""
	if isEPUB {
		title = EPUBTitle(path)
	}
	if title == "" {
		title = stem
	}
	target := filepath.Join(destRoot, Slugify(title, stem))

	if _, err := os.Stat(target); err == nil {
		if !force {
			return "", fmt.Errorf("destination %s already exists (use --force to replace)", target)
		}
		if !dryRun {
			if err := os.RemoveAll(target); err != nil {
				return "", fmt.Errorf("replacing %s: %w", target, err)
			}
		}
	}

	if dryRun {
		fmt.Fprintf(w, "would folderize: %s -> %s\n", filepath.Base(path), target)
		return target, nil
	}

	srcDir := filepath.Join(target, "source")
	if err := os.MkdirAll(srcDir, 0o755); err != nil {
		return "", fmt.Errorf("creating %s: %w", srcDir, err)
	}
	moved := filepath.Join(srcDir, filepath.Base(path))
	if err := os.Rename(path, moved); err != nil {
		return "", fmt.Errorf("moving %s: %w", path, err)
	}
	if isEPUB {
		if err := extractZip(moved, filepath.Join(srcDir, "extracted")); err != nil {
			return "", err
		}
	}
	fmt.Fprintf(w, "folderized: %s -> %s\n", filepath.Base(path), target)
	return target, nil
}

// extractZip unpacks an archive, refusing entries that would escape the
// destination directory.
func extractZip(path, dest string) error {
	r, err := zip.OpenReader(path)
	if err != nil {
		return fmt.Errorf("opening archive %s: %w", path, err)
	}
	defer r.Close()

	if err := os.MkdirAll(dest, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", dest, err)
	}
	for _, f := range r.File {
		target := filepath.Join(dest, f.Name)
		if !strings.HasPrefix(target, filepath.Clean(dest)+string(os.PathSeparator)) {
			return fmt.Errorf("archive entry %q escapes %s", f.Name, dest)
		}
		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return fmt.Errorf("creating %s: %w", target, err)
			}
			continue
		}
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", filepath.Dir(target), err)
		}
		rc, err := f.Open()
		if err != nil {
			return fmt.Errorf("reading entry %s: %w", f.Name, err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return fmt.Errorf("reading entry %s: %w", f.Name, err)
		}
		if err := os.WriteFile(target, data, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", target, err)
		}
	}
	return nil
}
