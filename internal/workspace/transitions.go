// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package workspace

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/markdown-forge/pkg/types"
)

// Op names a guarded pipeline operation.
type Op string

const (
	OpInspect Op = "inspect"
	OpConvert Op = "convert"
	OpClean   Op = "clean"
	OpPublish Op = "publish"
	OpArchive Op = "archive"
)

// transitions maps each operation to the stage it requires and the stage
// it produces. Transitions are monotonic; only Reset moves backward.
var transitions = map[Op]struct{ From, To types.Stage }{
	OpInspect: {types.StageIntake, types.StageInspected},
	OpConvert: {types.StageInspected, types.StageConverted},
	OpClean:   {types.StageConverted, types.StageCleaned},
	OpPublish: {types.StageCleaned, types.StagePublished},
	OpArchive: {types.StagePublished, types.StageArchived},
}

// PreconditionError reports an operation attempted out of order. The
// workspace is left untouched when it is returned.
type PreconditionError struct {
	Op       Op
	Stage    types.Stage
	Required types.Stage
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("cannot %s: workspace is %s, requires %s (use reset to reprocess)",
		e.Op, e.Stage, e.Required)
}

// Guard checks whether op may run against the current disk state. It
// returns the derived stage alongside a *PreconditionError when the stage
// does not match the operation's required predecessor.
func (w *Workspace) Guard(op Op) (types.Stage, error) {
	stage, err := w.Stage()
	if err != nil {
		return stage, err
	}
	t, ok := transitions[op]
	if !ok {
		return stage, fmt.Errorf("unknown operation %q", op)
	}
	if stage != t.From {
		return stage, &PreconditionError{Op: op, Stage: stage, Required: t.From}
	}
	return stage, nil
}

// Publish copies the canonical Markdown and the images/ directory into
// OutDir/<name>. The copy is written before anything else observes the
// Published stage, so a crash mid-copy leaves the workspace Cleaned.
func (w *Workspace) Publish(dryRun bool, out io.Writer) error {
	if _, err := w.Guard(OpPublish); err != nil {
		return err
	}
	mdPath, err := w.MarkdownPath()
	if err != nil {
		return err
	}
	dest := w.publishedPath()
	if dryRun {
		fmt.Fprintf(out, "would publish: %s -> %s\n", w.Name(), dest)
		return nil
	}
	if err := os.MkdirAll(dest, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", dest, err)
	}
	if err := copyFile(mdPath, filepath.Join(dest, filepath.Base(mdPath))); err != nil {
		return err
	}
	images := filepath.Join(w.Root, imagesDir)
	if info, err := os.Stat(images); err == nil && info.IsDir() {
		if err := copyDir(images, filepath.Join(dest, imagesDir)); err != nil {
			return err
		}
	}
	fmt.Fprintf(out, "published: %s\n", w.Name())
	return nil
}

// Archive removes the working directory once the published copy exists,
// leaving only the OUT tree.
func (w *Workspace) Archive(dryRun bool, out io.Writer) error {
	if _, err := w.Guard(OpArchive); err != nil {
		return err
	}
	if dryRun {
		fmt.Fprintf(out, "would archive: %s (remove %s)\n", w.Name(), w.Root)
		return nil
	}
	if err := os.RemoveAll(w.Root); err != nil {
		return fmt.Errorf("removing workspace %s: %w", w.Root, err)
	}
	fmt.Fprintf(out, "archived: %s\n", w.Name())
	return nil
}

// Reset forces the workspace back to Intake for reprocessing: derived
// artifacts (Markdown, images/, source/extracted/, the published copy) are
// removed and the original files move from source/ back to the workspace
// top level. Reset is the only backward transition.
func (w *Workspace) Reset(dryRun bool, out io.Writer) error {
	if _, err := os.Stat(w.Root); err != nil {
		return fmt.Errorf("workspace %s: %w", w.Root, err)
	}

	var targets []string
	entries, err := os.ReadDir(w.Root)
	if err != nil {
		return fmt.Errorf("reading workspace %s: %w", w.Root, err)
	}
	for _, e := range entries {
		if !e.IsDir() && strings.EqualFold(filepath.Ext(e.Name()), ".md") {
			targets = append(targets, filepath.Join(w.Root, e.Name()))
		}
	}
	targets = append(targets,
		filepath.Join(w.Root, imagesDir),
		filepath.Join(w.Root, sourceDir, extractedDir),
	)
	if w.OutDir != "" {
		targets = append(targets, w.publishedPath())
	}

	for _, target := range targets {
		if _, err := os.Stat(target); err != nil {
			continue
		}
		if dryRun {
			fmt.Fprintf(out, "would remove: %s\n", target)
			continue
		}
		if err := os.RemoveAll(target); err != nil {
			return fmt.Errorf("removing %s: %w", target, err)
		}
		fmt.Fprintf(out, "removed: %s\n", target)
	}

	// Un-folderize: the originals return to the top level so the derived
	// stage reads Intake again.
	src := filepath.Join(w.Root, sourceDir)
	if originals, err := os.ReadDir(src); err == nil {
		for _, e := range originals {
			from := filepath.Join(src, e.Name())
			to := filepath.Join(w.Root, e.Name())
			if dryRun {
				fmt.Fprintf(out, "would restore: %s\n", to)
				continue
			}
			if err := os.Rename(from, to); err != nil {
				return fmt.Errorf("restoring %s: %w", from, err)
			}
			fmt.Fprintf(out, "restored: %s\n", to)
		}
		if !dryRun {
			if err := os.Remove(src); err != nil {
				return fmt.Errorf("removing %s: %w", src, err)
			}
		}
	}
	if !dryRun {
		fmt.Fprintf(out, "reset: %s\n", w.Name())
	}
	return nil
}

// List returns a workspace per subdirectory of inRoot, sorted by name.
// Loose files in inRoot are not workspaces; the folderizer owns those.
func List(inRoot, outDir string, clean types.CleanConfig) ([]*Workspace, error) {
	entries, err := os.ReadDir(inRoot)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", inRoot, err)
	}
	var workspaces []*Workspace
	for _, e := range entries {
		if e.IsDir() {
			workspaces = append(workspaces, New(filepath.Join(inRoot, e.Name()), outDir, clean))
		}
	}
	return workspaces, nil
}

func copyFile(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("reading %s: %w", src, err)
	}
	if err := os.WriteFile(dst, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", dst, err)
	}
	return nil
}

func copyDir(src, dst string) error {
	return filepath.Walk(src, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if info.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		return copyFile(path, target)
	})
}
