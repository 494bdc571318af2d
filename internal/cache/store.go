// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package cache persists resolved references in a SQLite database keyed
// by exact species name. Entries never expire; bulk population may
// extend the cache incrementally without reprocessing existing keys.
package cache

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.yaml.in/yaml/v3"

	"github.com/o957/fossil-references/pkg/types"
)

const defaultPath = "data/references.db"

// Store manages the reference cache database.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens or creates the cache database, creating the schema and the
// parent directory if they do not exist.
func Open(cfg types.CacheConfig) (*Store, error) {
	path := cfg.Path
	if path == "" {
		path = defaultPath
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating cache directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening cache database: %w", err)
	}

	s := &Store{db: db, path: path}
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

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) createSchema() error {
	// search_term uses SQLite's default BINARY collation: lookups are
	// exact and case-sensitive.
	statements := []string{
		`CREATE TABLE IF NOT EXISTS resolved_references (
			search_term TEXT PRIMARY KEY,
			taxonomic_authority TEXT,
			year INTEGER,
			author TEXT,
			full_citation TEXT,
			doi TEXT,
			paper_link TEXT,
			source TEXT NOT NULL,
			year_mismatch INTEGER NOT NULL DEFAULT 0,
			resolved_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_references_source ON resolved_references(source)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Has reports whether an entry exists for the exact species name.
func (s *Store) Has(ctx context.Context, name string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx,
		`SELECT 1 FROM resolved_references WHERE search_term = ?`, name,
	).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("cache existence check: %w", err)
	}
	return true, nil
}

// Get returns the cached reference for the exact species name, or
// (nil, nil) on a miss.
func (s *Store) Get(ctx context.Context, name string) (*types.ResolvedReference, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT search_term, taxonomic_authority, year, author, full_citation,
			doi, paper_link, source, year_mismatch, resolved_at
		 FROM resolved_references WHERE search_term = ?`, name)

	ref, err := scanReference(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cache read: %w", err)
	}
	return ref, nil
}

// Put upserts an entry keyed by name. Concurrent writers to the same key
// race with last-write-wins semantics, which is acceptable for duplicate
// in-flight lookups of one species.
func (s *Store) Put(ctx context.Context, name string, ref types.ResolvedReference) error {
	if ref.ResolvedAt.IsZero() {
		ref.ResolvedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO resolved_references (search_term, taxonomic_authority, year,
			author, full_citation, doi, paper_link, source, year_mismatch, resolved_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(search_term) DO UPDATE SET
			taxonomic_authority=excluded.taxonomic_authority, year=excluded.year,
			author=excluded.author, full_citation=excluded.full_citation,
			doi=excluded.doi, paper_link=excluded.paper_link,
			source=excluded.source, year_mismatch=excluded.year_mismatch,
			resolved_at=excluded.resolved_at`,
		name, ref.TaxonomicAuthority, ref.Year, ref.Author, ref.FullCitation,
		ref.DOI, ref.PaperLink, ref.Source, boolToInt(ref.YearMismatch),
		ref.ResolvedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("cache write: %w", err)
	}
	return nil
}

// BulkSummary holds counts from a bulk load.
type BulkSummary struct {
	Inserted int
	Skipped  int
	Replaced int
}

// Total returns the number of records processed.
func (b BulkSummary) Total() int {
	return b.Inserted + b.Skipped + b.Replaced
}

// BulkLoad inserts many records in one transaction. In incremental mode
// records whose key already exists are skipped, so population runs are
// idempotent and safe to repeat; otherwise existing keys are overwritten.
func (s *Store) BulkLoad(ctx context.Context, records []types.ResolvedReference, incremental bool) (BulkSummary, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return BulkSummary{}, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	conflict := `ON CONFLICT(search_term) DO UPDATE SET
		taxonomic_authority=excluded.taxonomic_authority, year=excluded.year,
		author=excluded.author, full_citation=excluded.full_citation,
		doi=excluded.doi, paper_link=excluded.paper_link,
		source=excluded.source, year_mismatch=excluded.year_mismatch,
		resolved_at=excluded.resolved_at`
	if incremental {
		conflict = `ON CONFLICT(search_term) DO NOTHING`
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO resolved_references (search_term, taxonomic_authority, year,
			author, full_citation, doi, paper_link, source, year_mismatch, resolved_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?) `+conflict)
	if err != nil {
		return BulkSummary{}, fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	var summary BulkSummary
	for _, ref := range records {
		if ref.SearchTerm == "" {
			continue
		}
		resolvedAt := ref.ResolvedAt
		if resolvedAt.IsZero() {
			resolvedAt = time.Now().UTC()
		}

		existed, err := hasTx(ctx, tx, ref.SearchTerm)
		if err != nil {
			return summary, err
		}

		_, err = stmt.ExecContext(ctx,
			ref.SearchTerm, ref.TaxonomicAuthority, ref.Year, ref.Author,
			ref.FullCitation, ref.DOI, ref.PaperLink, ref.Source,
			boolToInt(ref.YearMismatch), resolvedAt.Format(time.RFC3339Nano),
		)
		if err != nil {
			return summary, fmt.Errorf("inserting %s: %w", ref.SearchTerm, err)
		}

		switch {
		case !existed:
			summary.Inserted++
		case incremental:
			summary.Skipped++
		default:
			summary.Replaced++
		}
	}

	if err := tx.Commit(); err != nil {
		return summary, fmt.Errorf("committing bulk load: %w", err)
	}
	return summary, nil
}

// Stats summarizes cache contents.
type Stats struct {
	Count    int                       `json:"count" yaml:"count"`
	BySource map[string]int            `json:"by_source" yaml:"by_source"`
	Recent   []types.ResolvedReference `json:"recent" yaml:"recent"`
}

// Stats returns entry counts, per-source counts, and the ten most
// recently resolved entries.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	stats := Stats{BySource: make(map[string]int)}

	rows, err := s.db.QueryContext(ctx,
		`SELECT source, COUNT(*) FROM resolved_references GROUP BY source`)
	if err != nil {
		return stats, fmt.Errorf("cache stats: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var source string
		var n int
		if err := rows.Scan(&source, &n); err != nil {
			return stats, fmt.Errorf("scanning stats row: %w", err)
		}
		stats.BySource[source] = n
		stats.Count += n
	}
	if err := rows.Err(); err != nil {
		return stats, fmt.Errorf("cache stats: %w", err)
	}

	recent, err := s.query(ctx,
		`SELECT search_term, taxonomic_authority, year, author, full_citation,
			doi, paper_link, source, year_mismatch, resolved_at
		 FROM resolved_references ORDER BY resolved_at DESC LIMIT 10`)
	if err != nil {
		return stats, err
	}
	stats.Recent = recent
	return stats, nil
}

// All returns every cached entry ordered by species name, for exports.
func (s *Store) All(ctx context.Context) ([]types.ResolvedReference, error) {
	return s.query(ctx,
		`SELECT search_term, taxonomic_authority, year, author, full_citation,
			doi, paper_link, source, year_mismatch, resolved_at
		 FROM resolved_references ORDER BY search_term`)
}

// ExportYAML writes every cached entry to w as a YAML document, ordered
// by species name. The output round-trips through ImportYAML.
func (s *Store) ExportYAML(ctx context.Context, w io.Writer) error {
	refs, err := s.All(ctx)
	if err != nil {
		return err
	}
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	if err := enc.Encode(refs); err != nil {
		return fmt.Errorf("encoding cache export: %w", err)
	}
	return nil
}

// ImportYAML decodes a YAML export and bulk-loads it. See BulkLoad for
// incremental semantics.
func (s *Store) ImportYAML(ctx context.Context, r io.Reader, incremental bool) (BulkSummary, error) {
	var refs []types.ResolvedReference
	if err := yaml.NewDecoder(r).Decode(&refs); err != nil {
		return BulkSummary{}, fmt.Errorf("decoding cache import: %w", err)
	}
	return s.BulkLoad(ctx, refs, incremental)
}

// Clear removes all entries.
func (s *Store) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM resolved_references`); err != nil {
		return fmt.Errorf("clearing cache: %w", err)
	}
	return nil
}

func (s *Store) query(ctx context.Context, q string) ([]types.ResolvedReference, error) {
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("cache query: %w", err)
	}
	defer rows.Close()

	var refs []types.ResolvedReference
	for rows.Next() {
		ref, err := scanReference(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning cache row: %w", err)
		}
		refs = append(refs, *ref)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("cache query: %w", err)
	}
	return refs, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReference(row rowScanner) (*types.ResolvedReference, error) {
	var ref types.ResolvedReference
	var mismatch int
	var resolvedAt string
	err := row.Scan(&ref.SearchTerm, &ref.TaxonomicAuthority, &ref.Year,
		&ref.Author, &ref.FullCitation, &ref.DOI, &ref.PaperLink,
		&ref.Source, &mismatch, &resolvedAt)
	if err != nil {
		return nil, err
	}
	ref.YearMismatch = mismatch != 0
	if t, parseErr := time.Parse(time.RFC3339Nano, resolvedAt); parseErr == nil {
		ref.ResolvedAt = t
	}
	return &ref, nil
}

func hasTx(ctx context.Context, tx *sql.Tx, name string) (bool, error) {
	var one int
	err := tx.QueryRowContext(ctx,
		`SELECT 1 FROM resolved_references WHERE search_term = ?`, name).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("bulk existence check: %w", err)
	}
	return true, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
