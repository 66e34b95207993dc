// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/markdown-forge/internal/convert"
)

var folderizeCmd = &cobra.Command{
	Use:   "folderize [files...]",
	Short: "Move loose publication files into per-publication workspaces",
	Long: `Folderize turns a loose EPUB or PDF into a workspace directory named
after the publication: the EPUB title when one can be read from the
package metadata, the file stem otherwise. The original moves under
source/ and EPUB containers are unpacked to source/extracted/.

Without arguments every loose .epub and .pdf directly under the intake
root is folderized.`,
	RunE: runFolderize,
}

func init() {
	folderizeCmd.Flags().Bool("force", false, "replace an existing workspace with the same name")
	folderizeCmd.Flags().Bool("dry-run", false, "report what would happen without touching files")

	rootCmd.AddCommand(folderizeCmd)
}

func runFolderize(cmd *cobra.Command, args []string) error {
	force, _ := cmd.Flags().GetBool("force")
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	cfg := pipelineConfig()

	files := args
	if len(files) == 0 {
		var err error
		files, err = looseFiles(cfg.Convert.InDir)
		if err != nil {
			return err
		}
		if len(files) == 0 {
			fmt.Printf("No loose publication files under %s.\n", cfg.Convert.InDir)
			return nil
		}
	}

	var failed int
	for _, path := range files {
		if _, err := convert.Folderize(path, cfg.Convert.InDir, force, dryRun, os.Stdout); err != nil {
			fmt.Fprintf(os.Stdout, "failed:  %s (%v)\n", filepath.Base(path), err)
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d file(s) failed folderizing", failed)
	}
	return nil
}

// looseFiles returns the EPUB and PDF files sitting directly in root,
// outside any workspace.
func looseFiles(root string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", root, err)
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".epub", ".pdf":
			files = append(files, filepath.Join(root, e.Name()))
		}
	}
	return files, nil
}
