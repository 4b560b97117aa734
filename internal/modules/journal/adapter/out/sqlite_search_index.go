package out

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"stillpoint/internal/modules/journal/domain"
	journalout "stillpoint/internal/modules/journal/port/out"
)

const snippetRadius = 40

type SQLiteSearchIndex struct {
	db *sql.DB
}

// NewSQLiteSearchIndex builds the projection inside an open database, usually
// the one the kv backend already holds.
func NewSQLiteSearchIndex(db *sql.DB) (journalout.SearchIndex, error) {
	index := &SQLiteSearchIndex{db: db}
	if err := index.ensureSchema(context.Background()); err != nil {
		return nil, err
	}
	return index, nil
}

func (s *SQLiteSearchIndex) ensureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS journal_entries (
  day INTEGER NOT NULL,
  year INTEGER NOT NULL,
  date TEXT NOT NULL,
  content TEXT NOT NULL,
  updated_at TEXT NOT NULL,
  PRIMARY KEY (day, year)
);
`
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create journal_entries table: %w", err)
	}
	return nil
}

// Rebuild replaces the projection with archive in one transaction.
func (s *SQLiteSearchIndex) Rebuild(ctx context.Context, archive domain.Archive) error {
	txn, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin journal rebuild: %w", err)
	}
	defer func() { _ = txn.Rollback() }()

	if _, err := txn.ExecContext(ctx, `DELETE FROM journal_entries`); err != nil {
		return fmt.Errorf("reset journal_entries: %w", err)
	}
	const stmt = `
INSERT INTO journal_entries (day, year, date, content, updated_at)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT(day, year) DO UPDATE SET
  date=excluded.date,
  content=excluded.content,
  updated_at=excluded.updated_at;
`
	for _, e := range archive {
		if _, err := txn.ExecContext(ctx, stmt, e.Day, e.Year, e.Date.String(), e.Content, e.UpdatedAt.UTC().Format(time.RFC3339)); err != nil {
			return fmt.Errorf("index journal day %d/%d: %w", e.Day, e.Year, err)
		}
	}
	if err := txn.Commit(); err != nil {
		return fmt.Errorf("commit journal rebuild: %w", err)
	}
	return nil
}

func (s *SQLiteSearchIndex) Search(ctx context.Context, query string, limit int) ([]journalout.SearchHit, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []journalout.SearchHit{}, nil
	}
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
SELECT day, year, date, content FROM journal_entries
WHERE content LIKE ? ESCAPE '\'
ORDER BY year DESC, day ASC
LIMIT ?`, "%"+escapeLike(query)+"%", limit)
	if err != nil {
		return nil, fmt.Errorf("search journal: %w", err)
	}
	defer rows.Close()

	out := make([]journalout.SearchHit, 0)
	for rows.Next() {
		var hit journalout.SearchHit
		var content string
		if err := rows.Scan(&hit.Day, &hit.Year, &hit.Date, &content); err != nil {
			return nil, fmt.Errorf("scan journal hit: %w", err)
		}
		hit.Snippet = snippet(content, query)
		out = append(out, hit)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate journal hits: %w", err)
	}
	return out, nil
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

// snippet cuts the text around the first case-insensitive match.
func snippet(content, query string) string {
	flat := []rune(strings.Join(strings.Fields(content), " "))
	lower := []rune(strings.ToLower(string(flat)))
	at := 0
	if len(lower) == len(flat) {
		if i := strings.Index(string(lower), strings.ToLower(query)); i >= 0 {
			at = len([]rune(string(lower)[:i]))
		}
	}
	start := max(at-snippetRadius, 0)
	end := min(at+len([]rune(query))+snippetRadius, len(flat))
	out := string(flat[start:end])
	if start > 0 {
		out = "…" + out
	}
	if end < len(flat) {
		out += "…"
	}
	return out
}
