// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package workspace derives a publication's lifecycle stage from its
// on-disk contents and guards the transitions between stages. The stage is
// never cached: every check re-reads the directory, so concurrent tools
// and crashed runs cannot leave a stale flag behind.
package workspace

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pdiddy/markdown-forge/internal/mdclean"
	"github.com/pdiddy/markdown-forge/pkg/types"
)

const (
	// sourceDir holds the original file and its unpacked contents.
	sourceDir = "source"
	// extractedDir is the unpack target under sourceDir for EPUBs.
	extractedDir = "extracted"
	// imagesDir is the flat asset directory referenced by the Markdown.
	imagesDir = "images"
)

// Workspace is one publication's directory plus the published output root.
type Workspace struct {
	// Root is the publication directory (usually under IN/).
	Root string

	// OutDir is the published tree root; the publication is considered
	// published once a copy exists at OutDir/<base(Root)>.
	OutDir string

	// Clean configures the fixpoint check that distinguishes Converted
	// from Cleaned.
	Clean types.CleanConfig
}

// New returns a workspace for the publication directory root.
func New(root, outDir string, clean types.CleanConfig) *Workspace {
	return &Workspace{Root: root, OutDir: outDir, Clean: clean}
}

// Name returns the publication's directory name.
func (w *Workspace) Name() string {
	return filepath.Base(w.Root)
}

// publishedPath is where the published copy of this publication lives.
func (w *Workspace) publishedPath() string {
	return filepath.Join(w.OutDir, w.Name())
}

// SourceDir is where the original file and its unpacked contents live.
func (w *Workspace) SourceDir() string {
	return filepath.Join(w.Root, sourceDir)
}

// MarkdownPath locates the canonical Markdown file: the lexically first
// top-level .md in the workspace. Files under source/ never count.
func (w *Workspace) MarkdownPath() (string, error) {
	entries, err := os.ReadDir(w.Root)
	if err != nil {
		return "", fmt.Errorf("reading workspace %s: %w", w.Root, err)
	}
	var candidates []string
	for _, e := range entries {
		if !e.IsDir() && strings.EqualFold(filepath.Ext(e.Name()), ".md") {
			candidates = append(candidates, e.Name())
		}
	}
	if len(candidates) == 0 {
		return "", fmt.Errorf("no Markdown document in %s", w.Root)
	}
	sort.Strings(candidates)
	return filepath.Join(w.Root, candidates[0]), nil
}

// SourceType inspects the original under source/ and reports the container
// format.
func (w *Workspace) SourceType() types.SourceType {
	entries, err := os.ReadDir(filepath.Join(w.Root, sourceDir))
	if err != nil {
		return types.SourceUnknown
	}
	for _, e := range entries {
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".epub":
			return types.SourceEPUB
		case ".pdf":
			return types.SourcePDF
		}
	}
	return types.SourceUnknown
}

// Stage derives the lifecycle stage from disk contents alone:
//
//	published copy in OUT  -> Published (Archived once the workspace is gone)
//	Markdown at fixpoint   -> Cleaned
//	Markdown present       -> Converted
//	source/ present        -> Inspected
//	otherwise              -> Intake
//
// The Cleaned check runs the normalization pipeline in memory and compares;
// a document the pipeline would not change is by definition clean.
func (w *Workspace) Stage() (types.Stage, error) {
	rootInfo, rootErr := os.Stat(w.Root)
	published := false
	if w.OutDir != "" {
		if _, err := os.Stat(w.publishedPath()); err == nil {
			published = true
		}
	}

	if rootErr != nil || !rootInfo.IsDir() {
		if published {
			return types.StageArchived, nil
		}
		return types.StageIntake, fmt.Errorf("workspace %s: %w", w.Root, rootErr)
	}
	if published {
		return types.StagePublished, nil
	}

	mdPath, err := w.MarkdownPath()
	if err == nil {
		raw, err := os.ReadFile(mdPath)
		if err != nil {
			return types.StageIntake, fmt.Errorf("reading %s: %w", mdPath, err)
		}
		content := string(raw)
		cleaned := mdclean.NormalizeText(content, w.Clean, w.SourceType(), io.Discard)
		if cleaned == content {
			return types.StageCleaned, nil
		}
		return types.StageConverted, nil
	}

	if info, err := os.Stat(filepath.Join(w.Root, sourceDir)); err == nil && info.IsDir() {
		return types.StageInspected, nil
	}
	return types.StageIntake, nil
}
