// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/markdown-forge/internal/container"
	"github.com/pdiddy/markdown-forge/internal/convert"
	"github.com/pdiddy/markdown-forge/pkg/types"
)

var convertCmd = &cobra.Command{
	Use:   "convert [workspaces...]",
	Short: "Convert workspace sources to Markdown with pandoc",
	Long: `Convert runs pandoc over each workspace's source file and writes the
resulting Markdown, with a YAML front matter block, to the workspace top
level. Supports a local pandoc binary or a pandoc container image
(docker or podman) as the backend.

Without arguments every inspected workspace under the intake root is
converted; already converted workspaces are skipped.`,
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().String("backend", "", "conversion backend: pandoc or pandoc-container")
	convertCmd.Flags().String("container-image", "", "image for the pandoc-container backend")
	convertCmd.Flags().Bool("dry-run", false, "report what would happen without touching files")

	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	cfg := pipelineConfig()

	if backend, _ := cmd.Flags().GetString("backend"); backend != "" {
		cfg.Convert.Backend = types.ConversionBackend(backend)
	}
	if image, _ := cmd.Flags().GetString("container-image"); image != "" {
		cfg.Convert.ContainerImage = image
	}

	conv := newConverter(cfg)

	workspaces, err := resolveWorkspaces(cfg, args)
	if err != nil {
		return err
	}
	if len(workspaces) == 0 {
		fmt.Printf("No workspaces under %s.\n", cfg.Convert.InDir)
		return nil
	}

	result := convert.ConvertBatch(conv, workspaces, dryRun, os.Stdout)
	if result.HasFailures() {
		return fmt.Errorf("%d workspace(s) failed conversion", result.Failed)
	}
	return nil
}

// newConverter builds the extension-routed converter: EPUBs go through
// the configured pandoc backend, PDFs through pdftotext with band
// stripping. Backends initialize on first use.
func newConverter(cfg types.PipelineConfig) convert.Converter {
	return &convert.Dispatch{
		NewEPUB: func() (convert.Converter, error) {
			switch cfg.Convert.Backend {
			case types.BackendPandoc, "":
				return convert.NewPandocConverter()
			case types.BackendPandocContainer:
				rt, err := container.DetectRuntime()
				if err != nil {
					return nil, err
				}
				return convert.NewContainerConverter(rt, cfg.Convert.ContainerImage)
			default:
				return nil, fmt.Errorf("unsupported backend %q: use pandoc or pandoc-container", cfg.Convert.Backend)
			}
		},
		NewPDF: func() (convert.Converter, error) {
			return convert.NewPDFTextConverter(cfg.Clean.Bands)
		},
	}
}
