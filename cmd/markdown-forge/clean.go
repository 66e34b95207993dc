// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pdiddy/markdown-forge/internal/mdclean"
	"github.com/pdiddy/markdown-forge/internal/workspace"
	"github.com/pdiddy/markdown-forge/pkg/types"
)

var cleanCmd = &cobra.Command{
	Use:   "clean [workspaces...]",
	Short: "Normalize converted Markdown",
	Long: `Clean runs each workspace's Markdown through the normalization rules:
pandoc artifacts are stripped, headings deduplicated, the table of
contents rebuilt, front matter pruned, and (for PDF sources) hard-wrapped
paragraphs rejoined. Cleaning is idempotent; a second run changes nothing.

Without arguments every converted workspace under the intake root is
cleaned; already cleaned workspaces are skipped.`,
	RunE: runClean,
}

func init() {
	cleanCmd.Flags().Bool("unwrap", false, "force paragraph unwrapping regardless of source type")
	cleanCmd.Flags().Bool("dry-run", false, "report what would happen without touching files")

	rootCmd.AddCommand(cleanCmd)
}

func runClean(cmd *cobra.Command, args []string) error {
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	unwrap, _ := cmd.Flags().GetBool("unwrap")
	cfg := pipelineConfig()
	if unwrap {
		cfg.Clean.UnwrapParagraphs = true
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
		if err := cleanWorkspace(ws, cfg.Clean, dryRun, os.Stdout); err != nil {
			fmt.Fprintf(os.Stdout, "failed:  %s (%v)\n", ws.Name(), err)
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d workspace(s) failed cleaning", failed)
	}
	return nil
}

// cleanWorkspace normalizes one workspace's Markdown in place. Already
// cleaned workspaces are skipped, not failed.
func cleanWorkspace(ws *workspace.Workspace, cfg types.CleanConfig, dryRun bool, w io.Writer) error {
	if _, err := ws.Guard(workspace.OpClean); err != nil {
		var pre *workspace.PreconditionError
		if errors.As(err, &pre) && !pre.Stage.Before(types.StageCleaned) {
			fmt.Fprintf(w, "skipped: %s (already cleaned)\n", ws.Name())
			return nil
		}
		return err
	}

	mdPath, err := ws.MarkdownPath()
	if err != nil {
		return err
	}
	if dryRun {
		fmt.Fprintf(w, "would clean: %s\n", filepath.Base(mdPath))
		return nil
	}

	data, err := os.ReadFile(mdPath)
	if err != nil {
		return fmt.Errorf("reading %s: %w", mdPath, err)
	}
	out := mdclean.NormalizeText(string(data), cfg, ws.SourceType(), w)
	if err := os.WriteFile(mdPath, []byte(out), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", mdPath, err)
	}
	fmt.Fprintf(w, "cleaned: %s\n", filepath.Base(mdPath))
	return nil
}
