// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package catalog persists the publication catalog: one row per
// publication keyed by canonical name, with a log of every stage
// transition. The catalog is bookkeeping over the workspace tree, never
// the source of truth; stages are derived from disk and recorded here for
// querying and export.
package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/markdown-forge/pkg/types"
)

const dbFile = "catalog.db"

// Record is one catalogued publication.
type Record struct {
	Name            string
	Title           string
	SourceType      types.SourceType
	IdentifierType  string
	IdentifierValue string
	Publisher       string
	Year            int
	Stage           types.Stage
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Transition is one recorded stage change.
type Transition struct {
	Name string
	From types.Stage
	To   types.Stage
	At   time.Time
}

// Store manages the catalog SQLite database.
type Store struct {
	db         *sql.DB
	catalogDir string
	maxResults int
}

// NewStore opens or creates the catalog database at
// catalogDir/catalog.db, creating the schema when missing.
func NewStore(cfg types.CatalogConfig) (*Store, error) {
	if err := os.MkdirAll(cfg.CatalogDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating catalog directory: %w", err)
	}

	dbPath := filepath.Join(cfg.CatalogDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 50
	}

	s := &Store{db: db, catalogDir: cfg.CatalogDir, maxResults: maxResults}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS publications (
			name TEXT PRIMARY KEY,
			title TEXT,
			source_type TEXT,
			identifier_type TEXT,
			identifier_value TEXT,
			publisher TEXT,
			year INTEGER,
			stage TEXT NOT NULL,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS transitions (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL REFERENCES publications(name),
			from_stage TEXT NOT NULL,
			to_stage TEXT NOT NULL,
			at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_transitions_name ON transitions(name)`,
		`CREATE INDEX IF NOT EXISTS idx_publications_stage ON publications(stage)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Upsert inserts or refreshes a publication record. A stage change against
// the stored row is appended to the transition log in the same
// transaction, so the log never disagrees with the row.
func (s *Store) Upsert(ctx context.Context, rec Record) error {
	if rec.Name == "" {
		return errors.New("record has no canonical name")
	}
	now := time.Now().UTC()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var storedStage string
	err = tx.QueryRowContext(ctx,
		`SELECT stage FROM publications WHERE name = ?`, rec.Name,
	).Scan(&storedStage)
	known := err == nil
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("reading stored stage: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO publications
			(name, title, source_type, identifier_type, identifier_value, publisher, year, stage, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET
			title=excluded.title, source_type=excluded.source_type,
			identifier_type=excluded.identifier_type, identifier_value=excluded.identifier_value,
			publisher=excluded.publisher, year=excluded.year,
			stage=excluded.stage, updated_at=excluded.updated_at`,
		rec.Name, rec.Title, string(rec.SourceType),
		rec.IdentifierType, rec.IdentifierValue,
		rec.Publisher, rec.Year, rec.Stage.String(),
		now.Format(time.RFC3339Nano), now.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("upserting publication %s: %w", rec.Name, err)
	}

	if !known || storedStage != rec.Stage.String() {
		from := storedStage
		if !known {
			from = types.StageIntake.String()
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO transitions (name, from_stage, to_stage, at) VALUES (?, ?, ?, ?)`,
			rec.Name, from, rec.Stage.String(), now.Format(time.RFC3339Nano),
		)
		if err != nil {
			return fmt.Errorf("recording transition for %s: %w", rec.Name, err)
		}
	}

	return tx.Commit()
}

// Get returns one record by canonical name, or nil when absent.
func (s *Store) Get(ctx context.Context, name string) (*Record, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT name, title, source_type, identifier_type, identifier_value, publisher, year, stage, created_at, updated_at
		 FROM publications WHERE name = ?`, name)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading publication %s: %w", name, err)
	}
	return rec, nil
}

// QueryOptions narrows List results.
type QueryOptions struct {
	// Stage filters to one stage when set.
	Stage *types.Stage
	// Limit caps the result count; 0 uses the store default.
	Limit int
}

// List returns catalogued publications ordered by name.
func (s *Store) List(ctx context.Context, opts QueryOptions) ([]Record, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = s.maxResults
	}

	query := `SELECT name, title, source_type, identifier_type, identifier_value, publisher, year, stage, created_at, updated_at
		 FROM publications`
	args := []any{}
	if opts.Stage != nil {
		query += ` WHERE stage = ?`
		args = append(args, opts.Stage.String())
	}
	query += ` ORDER BY name LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing publications: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning publication: %w", err)
		}
		records = append(records, *rec)
	}
	return records, rows.Err()
}

// History returns the transition log for one publication, oldest first.
func (s *Store) History(ctx context.Context, name string) ([]Transition, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name, from_stage, to_stage, at FROM transitions WHERE name = ? ORDER BY rowid`, name)
	if err != nil {
		return nil, fmt.Errorf("reading history for %s: %w", name, err)
	}
	defer rows.Close()

	var transitions []Transition
	for rows.Next() {
		var tr Transition
		var from, to, at string
		if err := rows.Scan(&tr.Name, &from, &to, &at); err != nil {
			return nil, fmt.Errorf("scanning transition: %w", err)
		}
		tr.From, _ = types.ParseStage(from)
		tr.To, _ = types.ParseStage(to)
		tr.At, _ = time.Parse(time.RFC3339Nano, at)
		transitions = append(transitions, tr)
	}
	return transitions, rows.Err()
}

// scanner covers both sql.Row and sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(sc scanner) (*Record, error) {
	var rec Record
	var sourceType, stage, createdAt, updatedAt string
	err := sc.Scan(&rec.Name, &rec.Title, &sourceType,
		&rec.IdentifierType, &rec.IdentifierValue,
		&rec.Publisher, &rec.Year, &stage, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	rec.SourceType = types.SourceType(sourceType)
	rec.Stage, _ = types.ParseStage(stage)
	rec.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
	rec.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updatedAt)
	return &rec, nil
}
