// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/markdown-forge/internal/metadata"
	"github.com/pdiddy/markdown-forge/internal/naming"
	"github.com/pdiddy/markdown-forge/internal/workspace"
	"github.com/pdiddy/markdown-forge/pkg/types"
)

var nameCmd = &cobra.Command{
	Use:   "name [workspaces...]",
	Short: "Rename Markdown files to their canonical metadata-derived names",
	Long: `Name reads each workspace's front matter, composes the canonical
publication name (title, subtitle, edition, year), and renames the
Markdown file to it. The same metadata always yields the same name, so
renaming is stable across runs.

Without arguments every workspace under the intake root with a Markdown
file is named.`,
	RunE: runName,
}

func init() {
	nameCmd.Flags().String("apostrophes", "", "in-word apostrophe policy: strip or keep")
	nameCmd.Flags().Bool("dry-run", false, "report what would happen without touching files")

	rootCmd.AddCommand(nameCmd)
}

func runName(cmd *cobra.Command, args []string) error {
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	cfg := pipelineConfig()
	if policy, _ := cmd.Flags().GetString("apostrophes"); policy != "" {
		cfg.Naming.Apostrophes = types.ApostrophePolicy(policy)
	}

	workspaces, err := resolveWorkspaces(cfg, args)
	if err != nil {
		return err
	}
	if len(workspaces) == 0 {
		fmt.Printf("No workspaces under %s.\n", cfg.Convert.InDir)
		return nil
	}

	var failed int
	for _, ws := range workspaces {
		if err := nameWorkspace(ws, cfg.Naming, dryRun, os.Stdout); err != nil {
			fmt.Fprintf(os.Stdout, "failed:  %s (%v)\n", ws.Name(), err)
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d workspace(s) failed naming", failed)
	}
	return nil
}

// nameWorkspace renames one workspace's Markdown file to the canonical
// name composed from its front matter.
func nameWorkspace(ws *workspace.Workspace, cfg types.NamingConfig, dryRun bool, w io.Writer) error {
	mdPath, err := ws.MarkdownPath()
	if err != nil {
		return err
	}
	data, err := os.ReadFile(mdPath)
	if err != nil {
		return fmt.Errorf("reading %s: %w", mdPath, err)
	}

	meta, err := metadata.FromFrontMatter(frontMatterBlock(string(data)))
	if err != nil {
		return fmt.Errorf("parsing front matter of %s: %w", filepath.Base(mdPath), err)
	}
	if !meta.HasTitle() {
		return fmt.Errorf("%s has no title in front matter", filepath.Base(mdPath))
	}

	canonical := naming.Filename(meta, cfg, ".md")
	if filepath.Base(mdPath) == canonical {
		fmt.Fprintf(w, "skipped: %s (already named)\n", canonical)
		return nil
	}

	target := filepath.Join(filepath.Dir(mdPath), canonical)
	if dryRun {
		fmt.Fprintf(w, "would rename: %s -> %s\n", filepath.Base(mdPath), canonical)
		return nil
	}
	if _, err := os.Stat(target); err == nil {
		return fmt.Errorf("target %s already exists", canonical)
	}
	if err := os.Rename(mdPath, target); err != nil {
		return fmt.Errorf("renaming to %s: %w", canonical, err)
	}
	fmt.Fprintf(w, "named:   %s -> %s\n", filepath.Base(mdPath), canonical)
	return nil
}

// frontMatterBlock returns the YAML between the leading front matter
// fences, without the fences, or "" when the text has no front matter.
func frontMatterBlock(text string) string {
	lines := strings.Split(text, "\n")
	if len(lines) == 0 || strings.TrimRight(lines[0], " \t") != "---" {
		return ""
	}
	for i := 1; i < len(lines); i++ {
		if strings.TrimRight(lines[i], " \t") == "---" {
			return strings.Join(lines[1:i], "\n")
		}
	}
	return ""
}
