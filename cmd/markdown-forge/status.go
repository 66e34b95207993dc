// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status [workspaces...]",
	Short: "Show the derived stage of each workspace",
	Long: `Status derives each workspace's stage from what is on disk and prints
it. No state file is consulted; moving or deleting files changes what
status reports.`,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg := pipelineConfig()

	workspaces, err := resolveWorkspaces(cfg, args)
	if err != nil {
		return err
	}
	if len(workspaces) == 0 {
		fmt.Printf("No workspaces under %s.\n", cfg.Convert.InDir)
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-50s  %-10s  %s\n", "Workspace", "Stage", "Source")
	for _, ws := range workspaces {
		stage, err := ws.Stage()
		if err != nil {
			fmt.Fprintf(os.Stdout, "%-50s  error: %v\n", ws.Name(), err)
			continue
		}
		source := string(ws.SourceType())
		if source == "" {
			source = "-"
		}
		fmt.Fprintf(os.Stdout, "%-50s  %-10s  %s\n", ws.Name(), stage, source)
	}
	return nil
}
