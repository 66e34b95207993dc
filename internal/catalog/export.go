// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.yaml.in/yaml/v3"
)

// ExportEntry is one publication in an exported catalog, with its full
// transition history inlined.
type ExportEntry struct {
	Name            string             `json:"name" yaml:"name"`
	Title           string             `json:"title,omitempty" yaml:"title,omitempty"`
	SourceType      string             `json:"source_type,omitempty" yaml:"source_type,omitempty"`
	IdentifierType  string             `json:"identifier_type,omitempty" yaml:"identifier_type,omitempty"`
	IdentifierValue string             `json:"identifier_value,omitempty" yaml:"identifier_value,omitempty"`
	Publisher       string             `json:"publisher,omitempty" yaml:"publisher,omitempty"`
	Year            int                `json:"year,omitempty" yaml:"year,omitempty"`
	Stage           string             `json:"stage" yaml:"stage"`
	UpdatedAt       string             `json:"updated_at" yaml:"updated_at"`
	History         []ExportTransition `json:"history,omitempty" yaml:"history,omitempty"`
}

// ExportTransition is one stage change in an export entry.
type ExportTransition struct {
	From string `json:"from" yaml:"from"`
	To   string `json:"to" yaml:"to"`
	At   string `json:"at" yaml:"at"`
}

const exportLimit = 100000

// ExportYAML writes the catalog to <catalog dir>/export.yaml.
func (s *Store) ExportYAML(ctx context.Context) error {
	entries, err := s.exportEntries(ctx)
	if err != nil {
		return err
	}

	path := filepath.Join(s.catalogDir, "export.yaml")
	data, err := yaml.Marshal(entries)
	if err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ExportJSON writes the catalog to <catalog dir>/export.json.
func (s *Store) ExportJSON(ctx context.Context) error {
	entries, err := s.exportEntries(ctx)
	if err != nil {
		return err
	}

	path := filepath.Join(s.catalogDir, "export.json")
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

func (s *Store) exportEntries(ctx context.Context) ([]ExportEntry, error) {
	records, err := s.List(ctx, QueryOptions{Limit: exportLimit})
	if err != nil {
		return nil, fmt.Errorf("querying for export: %w", err)
	}

	entries := make([]ExportEntry, len(records))
	for i, r := range records {
		entries[i] = ExportEntry{
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

		history, err := s.History(ctx, r.Name)
		if err != nil {
			return nil, err
		}
		for _, tr := range history {
			entries[i].History = append(entries[i].History, ExportTransition{
				From: tr.From.String(),
				To:   tr.To.String(),
				At:   tr.At.Format(time.RFC3339),
			})
		}
	}

	return entries, nil
}
