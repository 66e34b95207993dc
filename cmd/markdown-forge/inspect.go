// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/markdown-forge/internal/inspect"
	"github.com/pdiddy/markdown-forge/pkg/types"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [paths...]",
	Short: "Probe file types and normalize extensions",
	Long: `Inspect probes each file with the available tools (file, exiftool,
ffprobe, and a direct zip mimetype read for EPUBs), infers the real type,
and renames files whose extension disagrees with it. Directories expand to
their files; --recursive descends into subdirectories.

With --info-only nothing is renamed; the probes only report.`,
	RunE: runInspect,
}

func init() {
	inspectCmd.Flags().Bool("info-only", false, "report without renaming")
	inspectCmd.Flags().BoolP("recursive", "r", false, "descend into subdirectories")
	inspectCmd.Flags().Bool("json", false, "output reports as JSON")

	rootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("provide one or more files or directories to inspect")
	}

	infoOnly, _ := cmd.Flags().GetBool("info-only")
	recursive, _ := cmd.Flags().GetBool("recursive")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	ins := inspect.New(types.InspectConfig{InfoOnly: infoOnly, Recursive: recursive})

	targets, err := ins.Targets(args)
	if err != nil {
		return err
	}

	reports := make([]*inspect.Report, 0, len(targets))
	for _, path := range targets {
		reports = append(reports, ins.Inspect(path))
	}

	if jsonOutput {
		return inspect.WriteJSON(os.Stdout, reports)
	}
	inspect.WriteText(os.Stdout, reports)
	return nil
}
