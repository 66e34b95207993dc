// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the markdown-forge CLI. Each
// pipeline stage is a subcommand: inspect, folderize, convert, clean,
// name, publish, archive, plus status, reset, catalog, and process for
// orchestration.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/markdown-forge/internal/workspace"
	"github.com/pdiddy/markdown-forge/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the markdown-forge CLI.
var rootCmd = &cobra.Command{
	Use:   "markdown-forge",
	Short: "Turn EPUB and PDF publications into clean, canonically named Markdown",
	Long: `markdown-forge runs publications through a staged pipeline: inspect the
source file type, folderize it into a workspace, convert it to Markdown with
pandoc, clean the conversion artifacts, derive a canonical metadata-based
name, and publish the result.

Each stage is a subcommand and refuses to run out of order; a workspace's
stage is derived from what is on disk, never from stored state.`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./markdown-forge.yaml or ~/.config/markdown-forge/config.yaml)")
	rootCmd.PersistentFlags().String("in-dir", "", "intake root holding workspaces (default IN)")
	rootCmd.PersistentFlags().String("out-dir", "", "root published workspaces are copied to (default OUT)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("markdown-forge")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "markdown-forge"))
		}
	}

	viper.SetDefault("convert.in_dir", "IN")
	viper.SetDefault("convert.out_dir", "OUT")
	viper.SetDefault("convert.backend", string(types.BackendPandoc))
	viper.SetDefault("convert.container_image", "pandoc/core:latest")
	viper.SetDefault("clean.bands.top_margin", 36.0)
	viper.SetDefault("clean.bands.bottom_margin", 36.0)
	viper.SetDefault("naming.apostrophes", string(types.ApostropheStrip))
	viper.SetDefault("catalog.catalog_dir", "catalog")
	viper.SetDefault("catalog.max_results", 50)

	viper.SetEnvPrefix("MARKDOWN_FORGE")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// pipelineConfig assembles the stage configurations from config file,
// environment, and the shared persistent flags.
func pipelineConfig() types.PipelineConfig {
	cfg := types.PipelineConfig{
		Inspect: types.InspectConfig{
			InfoOnly:  viper.GetBool("inspect.info_only"),
			Recursive: viper.GetBool("inspect.recursive"),
		},
		Convert: types.ConvertConfig{
			Backend:        types.ConversionBackend(viper.GetString("convert.backend")),
			InDir:          viper.GetString("convert.in_dir"),
			OutDir:         viper.GetString("convert.out_dir"),
			ContainerImage: viper.GetString("convert.container_image"),
		},
		Clean: types.CleanConfig{
			Bands: types.BandConfig{
				TopMargin:    viper.GetFloat64("clean.bands.top_margin"),
				BottomMargin: viper.GetFloat64("clean.bands.bottom_margin"),
				MinRepeat:    viper.GetInt("clean.bands.min_repeat"),
				SkipPatterns: viper.GetStringSlice("clean.bands.skip_patterns"),
			},
			UnwrapParagraphs: viper.GetBool("clean.unwrap_paragraphs"),
		},
		Naming: types.NamingConfig{
			Apostrophes: types.ApostrophePolicy(viper.GetString("naming.apostrophes")),
		},
		Catalog: types.CatalogConfig{
			CatalogDir: viper.GetString("catalog.catalog_dir"),
			MaxResults: viper.GetInt("catalog.max_results"),
		},
	}
	if dir, _ := rootCmd.PersistentFlags().GetString("in-dir"); dir != "" {
		cfg.Convert.InDir = dir
	}
	if dir, _ := rootCmd.PersistentFlags().GetString("out-dir"); dir != "" {
		cfg.Convert.OutDir = dir
	}
	return cfg
}

// resolveWorkspaces maps workspace names under the intake root to
// Workspace values, or returns every workspace when no names are given.
func resolveWorkspaces(cfg types.PipelineConfig, names []string) ([]*workspace.Workspace, error) {
	if len(names) == 0 {
		return workspace.List(cfg.Convert.InDir, cfg.Convert.OutDir, cfg.Clean)
	}
	workspaces := make([]*workspace.Workspace, 0, len(names))
	for _, name := range names {
		root := filepath.Join(cfg.Convert.InDir, name)
		if info, err := os.Stat(root); err != nil || !info.IsDir() {
			return nil, fmt.Errorf("no workspace %q under %s", name, cfg.Convert.InDir)
		}
		workspaces = append(workspaces, workspace.New(root, cfg.Convert.OutDir, cfg.Clean))
	}
	return workspaces, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
