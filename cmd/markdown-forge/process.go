// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pdiddy/markdown-forge/internal/convert"
	"github.com/pdiddy/markdown-forge/internal/inspect"
	"github.com/pdiddy/markdown-forge/internal/workspace"
	"github.com/pdiddy/markdown-forge/pkg/types"
)

var processCmd = &cobra.Command{
	Use:   "process [workspaces...]",
	Short: "Run workspaces through every remaining stage",
	Long: `Process takes each workspace from its current stage through inspect,
convert, clean, name, and publish, in order. Stages already completed are
not rerun. Use --until to stop earlier, e.g. --until cleaned.

In a dry run only the next pending stage is reported, since nothing on
disk changes to unlock the one after it.`,
	RunE: runProcess,
}

func init() {
	processCmd.Flags().String("until", "published", "stop after reaching this stage")
	processCmd.Flags().Bool("dry-run", false, "report what would happen without touching files")

	rootCmd.AddCommand(processCmd)
}

func runProcess(cmd *cobra.Command, args []string) error {
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	untilName, _ := cmd.Flags().GetString("until")
	until, ok := types.ParseStage(untilName)
	if !ok {
		return fmt.Errorf("unknown stage %q", untilName)
	}
	cfg := pipelineConfig()

	workspaces, err := resolveWorkspaces(cfg, args)
	if err != nil {
		return err
	}
	if len(workspaces) == 0 {
		fmt.Printf("No workspaces under %s.\n", cfg.Convert.InDir)
		return nil
	}

	conv := newConverter(cfg)

	var failed int
	for _, ws := range workspaces {
		if err := processWorkspace(ws, cfg, until, dryRun, conv, os.Stdout); err != nil {
			fmt.Fprintf(os.Stdout, "failed:  %s (%v)\n", ws.Name(), err)
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d workspace(s) failed processing", failed)
	}
	return nil
}

// processWorkspace advances one workspace stage by stage until it reaches
// the target, re-deriving the stage from disk after every step.
func processWorkspace(ws *workspace.Workspace, cfg types.PipelineConfig, until types.Stage, dryRun bool, conv convert.Converter, w io.Writer) error {
	prev := types.Stage(-1)
	for {
		stage, err := ws.Stage()
		if err != nil {
			return err
		}
		if !stage.Before(until) {
			return nil
		}
		if stage == prev {
			return fmt.Errorf("stage %s did not advance", stage)
		}
		prev = stage

		switch stage {
		case types.StageIntake:
			if err := inspectWorkspace(ws, cfg.Inspect, dryRun, w); err != nil {
				return err
			}
		case types.StageInspected:
			if status := convert.ConvertWorkspace(conv, ws, dryRun, w); status == convert.StatusFailed {
				return fmt.Errorf("conversion failed")
			}
		case types.StageConverted:
			if err := cleanWorkspace(ws, cfg.Clean, dryRun, w); err != nil {
				return err
			}
		case types.StageCleaned:
			if err := nameWorkspace(ws, cfg.Naming, dryRun, w); err != nil {
				return err
			}
			if err := ws.Publish(dryRun, w); err != nil {
				return err
			}
		default:
			return nil
		}

		// Dry runs leave the disk alone, so the derived stage cannot
		// advance; stop after reporting the next pending step.
		if dryRun {
			return nil
		}
	}
}

// inspectWorkspace probes the loose files at the workspace top level,
// fixes their extensions, and moves them under source/.
func inspectWorkspace(ws *workspace.Workspace, cfg types.InspectConfig, dryRun bool, w io.Writer) error {
	if _, err := ws.Guard(workspace.OpInspect); err != nil {
		return err
	}
	if dryRun {
		fmt.Fprintf(w, "would inspect: %s\n", ws.Name())
		return nil
	}

	entries, err := os.ReadDir(ws.Root)
	if err != nil {
		return fmt.Errorf("reading workspace %s: %w", ws.Root, err)
	}
	ins := inspect.New(cfg)
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		report := ins.Inspect(filepath.Join(ws.Root, e.Name()))
		if len(report.Errors) > 0 {
			return fmt.Errorf("inspecting %s: %s", e.Name(), report.Errors[0])
		}
	}

	// Re-read: inspect may have renamed files to canonical extensions.
	entries, err = os.ReadDir(ws.Root)
	if err != nil {
		return fmt.Errorf("reading workspace %s: %w", ws.Root, err)
	}
	src := ws.SourceDir()
	if err := os.MkdirAll(src, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", src, err)
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if err := os.Rename(filepath.Join(ws.Root, e.Name()), filepath.Join(src, e.Name())); err != nil {
			return fmt.Errorf("moving %s to source/: %w", e.Name(), err)
		}
	}
	fmt.Fprintf(w, "inspected: %s\n", ws.Name())
	return nil
}
