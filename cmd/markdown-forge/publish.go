// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var publishCmd = &cobra.Command{
	Use:   "publish [workspaces...]",
	Short: "Copy cleaned Markdown and images to the output tree",
	Long: `Publish copies each cleaned workspace's Markdown file and images/
directory to <out dir>/<workspace name>. The working copy stays in place;
archive removes it once the published copy is no longer needed.`,
	RunE: runPublish,
}

var archiveCmd = &cobra.Command{
	Use:   "archive [workspaces...]",
	Short: "Remove published workspaces from the intake tree",
	Long: `Archive deletes the working directory of each published workspace,
leaving only the copy under the output tree. A workspace that has not
been published is refused.`,
	RunE: runArchive,
}

func init() {
	publishCmd.Flags().Bool("dry-run", false, "report what would happen without touching files")
	archiveCmd.Flags().Bool("dry-run", false, "report what would happen without touching files")

	rootCmd.AddCommand(publishCmd)
	rootCmd.AddCommand(archiveCmd)
}

func runPublish(cmd *cobra.Command, args []string) error {
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	cfg := pipelineConfig()

	workspaces, err := resolveWorkspaces(cfg, args)
	if err != nil {
		return err
	}

	var failed int
	for _, ws := range workspaces {
		if err := ws.Publish(dryRun, os.Stdout); err != nil {
			fmt.Fprintf(os.Stdout, "failed:  %s (%v)\n", ws.Name(), err)
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d workspace(s) failed publishing", failed)
	}
	return nil
}

func runArchive(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("archive requires explicit workspace names")
	}
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	cfg := pipelineConfig()

	workspaces, err := resolveWorkspaces(cfg, args)
	if err != nil {
		return err
	}

	var failed int
	for _, ws := range workspaces {
		if err := ws.Archive(dryRun, os.Stdout); err != nil {
			fmt.Fprintf(os.Stdout, "failed:  %s (%v)\n", ws.Name(), err)
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d workspace(s) failed archiving", failed)
	}
	return nil
}
