// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const containerXML = `<?xml version="1.0"?>
<container xmlns="urn:oasis:names:tc:opendocument:xmlns:container" version="1.0">
  <rootfiles>
    <rootfile full-path="OEBPS/content.opf" media-type="application/oebps-package+xml"/>
  </rootfiles>
</container>`

const contentOPF = `<?xml version="1.0"?>
<package xmlns="http://www.idpf.org/2007/opf" xmlns:dc="http://purl.org/dc/elements/1.1/" version="3.0">
  <metadata>
    <dc:title>Mémoires d'Outre-Tombe</dc:title>
  </metadata>
</package>`

// writeEPUB builds a minimal EPUB container on disk.
func writeEPUB(t *testing.T, path string) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	zw := zip.NewWriter(f)
	entries := map[string]string{
		"mimetype":               "application/epub+zip",
		"META-INF/container.xml": containerXML,
		"OEBPS/content.opf":      contentOPF,
		"OEBPS/chapter1.xhtml":   "<html><body>Chapter</body></html>",
	}
	for _, name := range []string{"mimetype", "META-INF/container.xml", "OEBPS/content.opf", "OEBPS/chapter1.xhtml"} {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := w.Write([]byte(entries[name])); err != nil {
			t.Fatal(err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		in       string
		fallback string
		want     string
	}{
		{"Alternative Scriptwriting: Beyond the Hollywood Formula", "x", "Alternative-Scriptwriting-Beyond-the-Hollywood-Formula"},
		{"Mémoires d'Outre-Tombe", "x", "Memoires-d-Outre-Tombe"},
		{"***", "fallback-name", "fallback-name"},
		{"snake_case kept", "x", "snake_case-kept"},
	}
	for _, tt := range tests {
		if got := Slugify(tt.in, tt.fallback); got != tt.want {
			t.Errorf("Slugify(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestEPUBTitle(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "book.epub")
	writeEPUB(t, path)
	if got := EPUBTitle(path); got != "Mémoires d'Outre-Tombe" {
		t.Errorf("EPUBTitle = %q", got)
	}
}

func TestEPUBTitleMalformed(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.epub")
	if err := os.WriteFile(path, []byte("not a zip"), 0o644); err != nil {
		t.Fatal(err)
	}
	if got := EPUBTitle(path); got != "" {
		t.Errorf("EPUBTitle on junk = %q", got)
	}
}

func TestFolderize(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "download.epub")
	writeEPUB(t, path)

	var log bytes.Buffer
	target, err := Folderize(path, dir, false, false, &log)
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(target) != "Memoires-d-Outre-Tombe" {
		t.Errorf("workspace name = %q", filepath.Base(target))
	}
	if _, err := os.Stat(filepath.Join(target, "source", "download.epub")); err != nil {
		t.Errorf("original not moved: %v", err)
	}
	if _, err := os.Stat(filepath.Join(target, "source", "extracted", "OEBPS", "chapter1.xhtml")); err != nil {
		t.Errorf("EPUB not extracted: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("loose file still present")
	}
	if !strings.Contains(log.String(), "folderized:") {
		t.Errorf("log = %q", log.String())
	}
}

func TestFolderizeExistingDestination(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "download.epub")
	writeEPUB(t, path)
	if err := os.MkdirAll(filepath.Join(dir, "Memoires-d-Outre-Tombe"), 0o755); err != nil {
		t.Fatal(err)
	}

	if _, err := Folderize(path, dir, false, false, bytes.NewBuffer(nil)); err == nil {
		t.Fatal("expected error for existing destination")
	}

	// force replaces the stale workspace.
	if _, err := Folderize(path, dir, true, false, bytes.NewBuffer(nil)); err != nil {
		t.Fatal(err)
	}
}

func TestFolderizeDryRun(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "download.epub")
	writeEPUB(t, path)

	var log bytes.Buffer
	target, err := Folderize(path, dir, false, true, &log)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(target); !os.IsNotExist(err) {
		t.Errorf("dry run created workspace")
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("dry run moved the source: %v", err)
	}
	if !strings.Contains(log.String(), "would folderize:") {
		t.Errorf("log = %q", log.String())
	}
}

func TestPandocConverterMissingBinary(t *testing.T) {
	missing := &fakeRunner{lookErr: os.ErrNotExist}
	if _, err := newPandocConverter(missing); err == nil {
		t.Fatal("expected error when pandoc is absent")
	}
}

func TestPandocConverterConvert(t *testing.T) {
	run := &fakeRunner{output: []byte("# Converted\n")}
	c, err := newPandocConverter(run)
	if err != nil {
		t.Fatal(err)
	}
	out, err := c.Convert("/tmp/book.epub")
	if err != nil {
		t.Fatal(err)
	}
	if out != "# Converted\n" {
		t.Errorf("output = %q", out)
	}
	if len(run.calls) != 1 || run.calls[0] != "pandoc" {
		t.Errorf("calls = %v", run.calls)
	}
}

func TestPandocConverterEmptyOutput(t *testing.T) {
	run := &fakeRunner{output: nil}
	c, err := newPandocConverter(run)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := c.Convert("/tmp/book.epub"); err == nil {
		t.Fatal("expected error for empty output")
	}
}

// fakeRunner stubs pandoc execution.
type fakeRunner struct {
	lookErr error
	output  []byte
	runErr  error
	calls   []string
}

func (f *fakeRunner) LookPath(file string) (string, error) {
	if f.lookErr != nil {
		return "", f.lookErr
	}
	return "/usr/bin/" + file, nil
}

func (f *fakeRunner) RunOutput(name string, args ...string) ([]byte, error) {
	f.calls = append(f.calls, name)
	return f.output, f.runErr
}
