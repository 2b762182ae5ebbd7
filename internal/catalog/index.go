// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/literature-helper/pkg/types"
)

// Index is a SQLite copy of the canonical set with full-text search over
// titles and abstracts. It is rebuilt from the merged file and never
// written by the review service.
type Index struct {
	db         *sql.DB
	fts        bool
	maxResults int
}

// OpenIndex opens or creates the index database at cfg.Path and creates
// the schema if it does not exist. When the driver was built without FTS5
// the index falls back to substring matching.
func OpenIndex(cfg types.IndexConfig) (*Index, error) {
	if dir := filepath.Dir(cfg.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating index directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", cfg.Path+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 20
	}

	idx := &Index{db: db, maxResults: maxResults}
	if err := idx.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return idx, nil
}

// Close releases the database connection.
func (x *Index) Close() error {
	return x.db.Close()
}

// FullText reports whether searches use FTS5.
func (x *Index) FullText() bool {
	return x.fts
}

func (x *Index) createSchema() error {
	if _, err := x.db.Exec(`CREATE TABLE IF NOT EXISTS papers (
		rowid INTEGER PRIMARY KEY AUTOINCREMENT,
		id TEXT NOT NULL UNIQUE,
		title TEXT NOT NULL,
		abstract TEXT,
		submitted TEXT,
		source TEXT
	)`); err != nil {
		return fmt.Errorf("executing schema statement: %w", err)
	}

	var ftsExists int
	if err := x.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='papers_fts'`,
	).Scan(&ftsExists); err != nil {
		return fmt.Errorf("checking FTS table: %w", err)
	}
	if ftsExists > 0 {
		x.fts = true
		return nil
	}

	ftsStatements := []string{
		`CREATE VIRTUAL TABLE papers_fts USING fts5(title, abstract, content=papers, content_rowid=rowid)`,
		`CREATE TRIGGER papers_ai AFTER INSERT ON papers BEGIN
			INSERT INTO papers_fts(rowid, title, abstract) VALUES (new.rowid, new.title, new.abstract);
		END`,
		`CREATE TRIGGER papers_ad AFTER DELETE ON papers BEGIN
			INSERT INTO papers_fts(papers_fts, rowid, title, abstract) VALUES('delete', old.rowid, old.title, old.abstract);
		END`,
		`CREATE TRIGGER papers_au AFTER UPDATE ON papers BEGIN
			INSERT INTO papers_fts(papers_fts, rowid, title, abstract) VALUES('delete', old.rowid, old.title, old.abstract);
			INSERT INTO papers_fts(rowid, title, abstract) VALUES (new.rowid, new.title, new.abstract);
		END`,
	}
	if _, err := x.db.Exec(ftsStatements[0]); err != nil {
		if strings.Contains(err.Error(), "no such module") {
			return nil
		}
		return fmt.Errorf("creating FTS table: %w", err)
	}
	for _, stmt := range ftsStatements[1:] {
		if _, err := x.db.Exec(stmt); err != nil {
			return fmt.Errorf("creating FTS triggers: %w", err)
		}
	}
	x.fts = true
	return nil
}

// Replace swaps the indexed set for papers in one transaction.
func (x *Index) Replace(ctx context.Context, papers []types.CanonicalPaper) error {
	tx, err := x.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM papers`); err != nil {
		return fmt.Errorf("clearing papers: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO papers (id, title, abstract, submitted, source) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET title=excluded.title, abstract=excluded.abstract,
			submitted=excluded.submitted, source=excluded.source`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, p := range papers {
		if _, err := stmt.ExecContext(ctx, p.ID, p.Title, p.Abstract, p.Submitted, string(p.Source)); err != nil {
			return fmt.Errorf("inserting %s: %w", p.ID, err)
		}
	}
	return tx.Commit()
}

// Count returns the number of indexed papers.
func (x *Index) Count(ctx context.Context) (int, error) {
	var n int
	if err := x.db.QueryRowContext(ctx, `SELECT count(*) FROM papers`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting papers: %w", err)
	}
	return n, nil
}

// Search returns papers containing every term of query, best match first
// for FTS5 and by submitted date otherwise. A limit of 0 uses the
// configured default.
func (x *Index) Search(ctx context.Context, query string, limit int) ([]types.CanonicalPaper, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("empty search query")
	}
	if limit <= 0 {
		limit = x.maxResults
	}

	var rows *sql.Rows
	var err error
	if x.fts {
		rows, err = x.db.QueryContext(ctx,
			`SELECT p.id, p.title, p.abstract, p.submitted, p.source
			FROM papers_fts
			JOIN papers p ON p.rowid = papers_fts.rowid
			WHERE papers_fts MATCH ?
			ORDER BY bm25(papers_fts)
			LIMIT ?`, ftsQuery(query), limit)
	} else {
		terms := strings.Fields(strings.ToLower(query))
		where := make([]string, len(terms))
		args := make([]any, 0, 2*len(terms)+1)
		for i, t := range terms {
			where[i] = `(lower(title) LIKE ? ESCAPE '\' OR lower(abstract) LIKE ? ESCAPE '\')`
			like := "%" + likeEscaper.Replace(t) + "%"
			args = append(args, like, like)
		}
		args = append(args, limit)
		rows, err = x.db.QueryContext(ctx,
			`SELECT id, title, abstract, submitted, source
			FROM papers
			WHERE `+strings.Join(where, " AND ")+`
			ORDER BY submitted, id
			LIMIT ?`, args...)
	}
	if err != nil {
		return nil, fmt.Errorf("searching index: %w", err)
	}
	defer rows.Close()

	var results []types.CanonicalPaper
	for rows.Next() {
		var p types.CanonicalPaper
		var abstract, submitted, source sql.NullString
		if err := rows.Scan(&p.ID, &p.Title, &abstract, &submitted, &source); err != nil {
			return nil, fmt.Errorf("scanning result: %w", err)
		}
		p.Abstract = abstract.String
		p.Submitted = submitted.String
		p.Source = types.Source(source.String)
		results = append(results, p)
	}
	return results, rows.Err()
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// ftsQuery turns each whitespace-separated term into an FTS5 string literal
// so hyphens, quotes and operators in titles are matched as text. Terms are
// ANDed.
func ftsQuery(query string) string {
	terms := strings.Fields(query)
	for i, t := range terms {
		terms[i] = `"` + strings.ReplaceAll(t, `"`, `""`) + `"`
	}
	return strings.Join(terms, " ")
}
