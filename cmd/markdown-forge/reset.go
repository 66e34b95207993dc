// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset <workspaces...>",
	Short: "Force workspaces back to intake for reprocessing",
	Long: `Reset removes a workspace's derived artifacts (Markdown, images,
extracted EPUB contents, the published copy) and moves the original files
back to the workspace top level, so the next run starts from intake.
Reset is the only backward transition and requires explicit workspace
names.`,
	RunE: runReset,
}

func init() {
	resetCmd.Flags().Bool("dry-run", false, "report what would happen without touching files")

	rootCmd.AddCommand(resetCmd)
}

func runReset(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("reset requires explicit workspace names")
	}
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	cfg := pipelineConfig()

	workspaces, err := resolveWorkspaces(cfg, args)
	if err != nil {
		return err
	}

	var failed int
	for _, ws := range workspaces {
		if err := ws.Reset(dryRun, os.Stdout); err != nil {
			fmt.Fprintf(os.Stdout, "failed:  %s (%v)\n", ws.Name(), err)
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d workspace(s) failed reset", failed)
	}
	return nil
}
