// Package corpusdb stores reference corpus frequency tables in SQLite.
package corpusdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/xetters/inksight"
	_ "modernc.org/sqlite"
)

const SchemaSQL = `
CREATE TABLE IF NOT EXISTS corpora (
    name TEXT PRIMARY KEY,
    version TEXT NOT NULL DEFAULT '',
    total INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS corpus_words (
    corpus TEXT NOT NULL,
    word TEXT NOT NULL,
    count INTEGER NOT NULL,
    PRIMARY KEY (corpus, word)
);
`

// Open opens the database at path and applies the schema.
func Open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec(SchemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return db, nil
}

// Source serves corpus tables from a database opened with Open.
type Source struct {
	db *sql.DB
}

// NewSource returns a CorpusSource backed by db.
func NewSource(db *sql.DB) *Source {
	return &Source{db: db}
}

// LoadTable implements inksight.CorpusSource.
func (s *Source) LoadTable(ctx context.Context, name string) (*inksight.CorpusTable, error) {
	table := &inksight.CorpusTable{Name: name}

	row := s.db.QueryRowContext(ctx, `SELECT version, total FROM corpora WHERE name = ?`, name)
	if err := row.Scan(&table.Version, &table.Total); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("corpus %q not in database", name)
		}
		return nil, fmt.Errorf("scan corpus: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `SELECT word, count FROM corpus_words WHERE corpus = ?`, name)
	if err != nil {
		return nil, fmt.Errorf("query words: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var (
			word  string
			count int
		)
		if err := rows.Scan(&word, &count); err != nil {
			return nil, fmt.Errorf("scan word: %w", err)
		}
		counts[word] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate words: %w", err)
	}

	table.Frequencies, err = inksight.FrequencyTableFromCounts(counts)
	if err != nil {
		return nil, err
	}
	return table, nil
}

// SaveTable replaces the stored table of the same name.
func SaveTable(ctx context.Context, db *sql.DB, table *inksight.CorpusTable) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM corpus_words WHERE corpus = ?`, table.Name); err != nil {
		return fmt.Errorf("clear words: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO corpora(name, version, total) VALUES(?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET version = excluded.version, total = excluded.total`,
		table.Name, table.Version, table.Size(),
	); err != nil {
		return fmt.Errorf("upsert corpus: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO corpus_words(corpus, word, count) VALUES(?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, wc := range table.Frequencies.MostCommon(0) {
		if _, err := stmt.ExecContext(ctx, table.Name, wc.Word, wc.Count); err != nil {
			return fmt.Errorf("insert word %q: %w", wc.Word, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}
