// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert turns publication sources (EPUB, PDF) into Markdown
// inside their workspaces, with pluggable conversion backends.
package convert

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pdiddy/markdown-forge/internal/workspace"
	"github.com/pdiddy/markdown-forge/pkg/types"
)

// Converter transforms a source file into Markdown text. Backends differ
// in how pandoc is reached (local binary or container image).
type Converter interface {
	// Convert reads the source at path and returns the Markdown content.
	Convert(path string) (string, error)
}

// Status is the per-publication outcome of a conversion attempt.
type Status int

const (
	StatusDone Status = iota
	StatusSkipped
	StatusFailed
)

// BatchResult holds the outcome of a batch conversion run.
type BatchResult struct {
	Converted int
	Skipped   int
	Failed    int
}

// Total returns the total number of publications processed.
func (r BatchResult) Total() int {
	return r.Converted + r.Skipped + r.Failed
}

// HasFailures reports whether any publications failed conversion.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// sourceFile locates the original under the workspace's source directory.
func sourceFile(ws *workspace.Workspace) (string, error) {
	src := filepath.Join(ws.Root, "source")
	entries, err := os.ReadDir(src)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", src, err)
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".epub", ".pdf":
			return filepath.Join(src, e.Name()), nil
		}
	}
	return "", fmt.Errorf("no source file in %s", src)
}

// ConvertWorkspace converts one publication to Markdown, writing
// <name>.md at the workspace top level. An out-of-order attempt against an
// already-converted workspace counts as a skip, not a failure.
func ConvertWorkspace(c Converter, ws *workspace.Workspace, dryRun bool, w io.Writer) Status {
	name := ws.Name()

	if _, err := ws.Guard(workspace.OpConvert); err != nil {
		var pre *workspace.PreconditionError
		if errors.As(err, &pre) && !pre.Stage.Before(types.StageConverted) {
			fmt.Fprintf(w, "skipped: %s (already converted)\n", name)
			return StatusSkipped
		}
		fmt.Fprintf(w, "failed:  %s (%v)\n", name, err)
		return StatusFailed
	}

	src, err := sourceFile(ws)
	if err != nil {
		fmt.Fprintf(w, "failed:  %s (%v)\n", name, err)
		return StatusFailed
	}

	if dryRun {
		fmt.Fprintf(w, "would convert: %s (%s)\n", name, filepath.Base(src))
		return StatusSkipped
	}

	raw, err := c.Convert(src)
	if err != nil {
		fmt.Fprintf(w, "failed:  %s (%v)\n", name, err)
		return StatusFailed
	}

	content := ensureFrontMatter(raw, name, src, ws.SourceType())
	mdPath := filepath.Join(ws.Root, name+".md")
	if err := os.WriteFile(mdPath, []byte(content), 0o644); err != nil {
		fmt.Fprintf(w, "failed:  %s (%v)\n", name, err)
		return StatusFailed
	}

	fmt.Fprintf(w, "converted: %s\n", name)
	return StatusDone
}

// ConvertBatch processes the workspaces through the converter, printing
// per-publication status to w and returning a summary.
func ConvertBatch(c Converter, workspaces []*workspace.Workspace, dryRun bool, w io.Writer) BatchResult {
	var result BatchResult
	for _, ws := range workspaces {
		switch ConvertWorkspace(c, ws, dryRun, w) {
		case StatusDone:
			result.Converted++
		case StatusSkipped:
			result.Skipped++
		case StatusFailed:
			result.Failed++
		}
	}
	fmt.Fprintf(w, "\nBatch summary: %d converted, %d skipped, %d failed (total: %d)\n",
		result.Converted, result.Skipped, result.Failed, result.Total())
	return result
}

// ensureFrontMatter prepends a minimal YAML block when the converter output
// has none. Pandoc emits its own for EPUBs; plain text extractors do not.
func ensureFrontMatter(body, title, srcPath string, source types.SourceType) string {
	if strings.HasPrefix(body, "---\n") {
		return body
	}
	ts := time.Now().UTC().Format(time.RFC3339)
	var b strings.Builder
	b.WriteString("---\n")
	fmt.Fprintf(&b, "title: %q\n", title)
	fmt.Fprintf(&b, "source: %q\n", filepath.Base(srcPath))
	fmt.Fprintf(&b, "source_type: %q\n", string(source))
	fmt.Fprintf(&b, "converted_at: %q\n", ts)
	b.WriteString("---\n\n")
	b.WriteString(body)
	return b.String()
}
