// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/markdown-forge/internal/catalog"
	"github.com/pdiddy/markdown-forge/internal/metadata"
	"github.com/pdiddy/markdown-forge/internal/workspace"
	"github.com/pdiddy/markdown-forge/pkg/types"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Manage the publication catalog (sync, list, export)",
	Long: `Catalog maintains a local SQLite database of publications: canonical
name, stage, identifiers, and a log of every stage transition. Sync reads
the workspace tree; the catalog never drives the pipeline.`,
}

// --- sync subcommand ---

var catalogSyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Record the current workspace stages in the catalog",
	Long: `Sync derives the stage of every workspace under the intake root and
upserts a catalog record for each, appending a transition log entry when
a stage changed since the last sync.`,
	RunE: runCatalogSync,
}

func runCatalogSync(cmd *cobra.Command, args []string) error {
	cfg := pipelineConfig()

	store, err := catalog.NewStore(cfg.Catalog)
	if err != nil {
		return err
	}
	defer store.Close()

	workspaces, err := resolveWorkspaces(cfg, args)
	if err != nil {
		return err
	}

	ctx := context.Background()
	var synced, failed int
	for _, ws := range workspaces {
		rec, err := workspaceRecord(ws)
		if err != nil {
			fmt.Fprintf(os.Stdout, "failed:  %s (%v)\n", ws.Name(), err)
			failed++
			continue
		}
		if err := store.Upsert(ctx, rec); err != nil {
			fmt.Fprintf(os.Stdout, "failed:  %s (%v)\n", ws.Name(), err)
			failed++
			continue
		}
		fmt.Fprintf(os.Stdout, "synced:  %s (%s)\n", rec.Name, rec.Stage)
		synced++
	}

	fmt.Fprintf(os.Stdout, "Sync summary: %d synced, %d failed\n", synced, failed)
	if failed > 0 {
		return fmt.Errorf("%d workspace(s) failed sync", failed)
	}
	return nil
}

// workspaceRecord builds a catalog record from a workspace's disk state
// and, when Markdown exists, its front matter.
func workspaceRecord(ws *workspace.Workspace) (catalog.Record, error) {
	stage, err := ws.Stage()
	if err != nil {
		return catalog.Record{}, err
	}
	rec := catalog.Record{
		Name:       ws.Name(),
		SourceType: ws.SourceType(),
		Stage:      stage,
	}

	mdPath, err := ws.MarkdownPath()
	if err != nil {
		return rec, nil // no Markdown yet, record the bare stage
	}
	data, err := os.ReadFile(mdPath)
	if err != nil {
		return rec, nil
	}
	meta, err := metadata.FromFrontMatter(frontMatterBlock(string(data)))
	if err != nil {
		return rec, nil
	}
	rec.Title = meta.Title
	rec.Publisher = meta.Publisher
	rec.Year = meta.Year
	if meta.Identifier != nil {
		rec.IdentifierType = string(meta.Identifier.Type)
		rec.IdentifierValue = meta.Identifier.Value
	}
	return rec, nil
}

// --- list subcommand ---

var catalogListCmd = &cobra.Command{
	Use:   "list",
	Short: "List catalogued publications",
	RunE:  runCatalogList,
}

func runCatalogList(cmd *cobra.Command, args []string) error {
	cfg := pipelineConfig()

	store, err := catalog.NewStore(cfg.Catalog)
	if err != nil {
		return err
	}
	defer store.Close()

	opts := catalog.QueryOptions{}
	if stageName, _ := cmd.Flags().GetString("stage"); stageName != "" {
		stage, ok := types.ParseStage(stageName)
		if !ok {
			return fmt.Errorf("unknown stage %q", stageName)
		}
		opts.Stage = &stage
	}
	opts.Limit, _ = cmd.Flags().GetInt("limit")

	records, err := store.List(context.Background(), opts)
	if err != nil {
		return err
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		entries := make([]catalog.ExportEntry, len(records))
		for i, r := range records {
			entries[i] = catalog.ExportEntry{
				Name:            r.Name,
				Title:           r.Title,
				SourceType:      string(r.SourceType),
				IdentifierType:  r.IdentifierType,
				IdentifierValue: r.IdentifierValue,
				Publisher:       r.Publisher,
				Year:            r.Year,
				Stage:           r.Stage.String(),
				UpdatedAt:       r.UpdatedAt.Format(time.RFC3339),
			}
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}

	if len(records) == 0 {
		fmt.Println("No catalogued publications.")
		return nil
	}
	fmt.Fprintf(os.Stdout, "%-50s  %-10s  %-6s  %s\n", "Name", "Stage", "Source", "Identifier")
	for _, r := range records {
		identifier := "-"
		if r.IdentifierValue != "" {
			identifier = fmt.Sprintf("%s %s", r.IdentifierType, r.IdentifierValue)
		}
		source := string(r.SourceType)
		if source == "" {
			source = "-"
		}
		fmt.Fprintf(os.Stdout, "%-50s  %-10s  %-6s  %s\n", r.Name, r.Stage, source, identifier)
	}
	fmt.Fprintf(os.Stdout, "\n%d publications\n", len(records))
	return nil
}

// --- export subcommand ---

var catalogExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the catalog to YAML or JSON",
	Long: `Export writes every catalogued publication, with its full transition
history, to export.yaml or export.json in the catalog directory.`,
	RunE: runCatalogExport,
}

func runCatalogExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	cfg := pipelineConfig()

	store, err := catalog.NewStore(cfg.Catalog)
	if err != nil {
		return err
	}
	defer store.Close()

	switch format {
	case "yaml", "":
		if err := store.ExportYAML(context.Background()); err != nil {
			return err
		}
		fmt.Println("Exported to", filepath.Join(cfg.Catalog.CatalogDir, "export.yaml"))
	case "json":
		if err := store.ExportJSON(context.Background()); err != nil {
			return err
		}
		fmt.Println("Exported to", filepath.Join(cfg.Catalog.CatalogDir, "export.json"))
	default:
		return fmt.Errorf("unsupported format %q: use yaml or json", format)
	}
	return nil
}

func init() {
	catalogListCmd.Flags().String("stage", "", "filter by stage: intake, inspected, converted, cleaned, published, archived")
	catalogListCmd.Flags().Int("limit", 0, "maximum results (0 = use default)")
	catalogListCmd.Flags().Bool("json", false, "output records as JSON")

	catalogExportCmd.Flags().String("format", "yaml", "export format: yaml or json")

	catalogCmd.AddCommand(catalogSyncCmd)
	catalogCmd.AddCommand(catalogListCmd)
	catalogCmd.AddCommand(catalogExportCmd)

	rootCmd.AddCommand(catalogCmd)
}
