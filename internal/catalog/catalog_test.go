// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/markdown-forge/pkg/types"
)

func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	dir := t.TempDir()
	s, err := NewStore(types.CatalogConfig{CatalogDir: dir})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s, dir
}

func TestUpsertAndGet(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	rec := Record{
		Name:            "Alternative-Scriptwriting-4E-(2007)",
		Title:           "Alternative Scriptwriting",
		SourceType:      types.SourceEPUB,
		IdentifierType:  "ISBN13",
		IdentifierValue: "9780240808499",
		Publisher:       "Focal Press",
		Year:            2007,
		Stage:           types.StageConverted,
	}
	require.NoError(t, s.Upsert(ctx, rec))

	got, err := s.Get(ctx, rec.Name)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, rec.Title, got.Title)
	assert.Equal(t, types.StageConverted, got.Stage)
	assert.Equal(t, "9780240808499", got.IdentifierValue)
	assert.Equal(t, 2007, got.Year)
	assert.False(t, got.CreatedAt.IsZero())
	assert.False(t, got.UpdatedAt.IsZero())
}

func TestGetMissing(t *testing.T) {
	s, _ := newTestStore(t)
	got, err := s.Get(context.Background(), "no-such-publication")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestUpsertRejectsEmptyName(t *testing.T) {
	s, _ := newTestStore(t)
	err := s.Upsert(context.Background(), Record{Title: "no name"})
	assert.Error(t, err)
}

func TestUpsertRecordsTransitions(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	name := "Some-Book-(2020)"

	steps := []types.Stage{
		types.StageInspected,
		types.StageConverted,
		types.StageConverted, // repeat, no new transition
		types.StageCleaned,
	}
	for _, stage := range steps {
		require.NoError(t, s.Upsert(ctx, Record{Name: name, Stage: stage}))
	}

	history, err := s.History(ctx, name)
	require.NoError(t, err)
	require.Len(t, history, 3)

	want := []struct{ from, to types.Stage }{
		{types.StageIntake, types.StageInspected},
		{types.StageInspected, types.StageConverted},
		{types.StageConverted, types.StageCleaned},
	}
	for i, w := range want {
		assert.Equal(t, w.from, history[i].From, "transition %d from", i)
		assert.Equal(t, w.to, history[i].To, "transition %d to", i)
		assert.False(t, history[i].At.IsZero(), "transition %d timestamp", i)
	}
}

func TestListFilterAndLimit(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	records := []Record{
		{Name: "Book-C-(2001)", Stage: types.StageCleaned},
		{Name: "Book-A-(2002)", Stage: types.StageIntake},
		{Name: "Book-B-(2003)", Stage: types.StageCleaned},
	}
	for _, rec := range records {
		require.NoError(t, s.Upsert(ctx, rec))
	}

	all, err := s.List(ctx, QueryOptions{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	// Ordered by name.
	assert.Equal(t, "Book-A-(2002)", all[0].Name)
	assert.Equal(t, "Book-C-(2001)", all[2].Name)

	cleaned := types.StageCleaned
	filtered, err := s.List(ctx, QueryOptions{Stage: &cleaned})
	require.NoError(t, err)
	assert.Len(t, filtered, 2)

	limited, err := s.List(ctx, QueryOptions{Limit: 1})
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, "Book-A-(2002)", limited[0].Name)
}

func TestExportYAML(t *testing.T) {
	s, dir := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Upsert(ctx, Record{
		Name:       "Exported-Book-(1999)",
		Title:      "Exported Book",
		SourceType: types.SourcePDF,
		Stage:      types.StagePublished,
	}))

	require.NoError(t, s.ExportYAML(ctx))

	data, err := os.ReadFile(filepath.Join(dir, "export.yaml"))
	require.NoError(t, err)

	var entries []ExportEntry
	require.NoError(t, yaml.Unmarshal(data, &entries))
	require.Len(t, entries, 1)

	e := entries[0]
	assert.Equal(t, "Exported-Book-(1999)", e.Name)
	assert.Equal(t, "published", e.Stage)
	assert.Equal(t, "pdf", e.SourceType)
	require.Len(t, e.History, 1)
	assert.Equal(t, "published", e.History[0].To)
}

func TestExportJSON(t *testing.T) {
	s, dir := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Upsert(ctx, Record{Name: "JSON-Book-(2010)", Stage: types.StageIntake}))
	require.NoError(t, s.ExportJSON(ctx))

	_, err := os.Stat(filepath.Join(dir, "export.json"))
	assert.NoError(t, err)
}
