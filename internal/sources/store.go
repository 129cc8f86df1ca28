// Package sources keeps the recently loaded source URLs in sqlite.
package sources

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/unkn0wn-root/pickterm/internal/errdef"
)

const (
	StatusOK      = "ok"
	MemoryPath    = ":memory:"
	schemaVersion = 1
)

// Source is one remembered URL.
type Source struct {
	URL        string
	LastUsed   time.Time
	Loads      int
	LastStatus string
}

type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens or creates the store at path. MemoryPath keeps it in memory.
func Open(path string) (*Store, error) {
	if path != MemoryPath {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, errdef.Wrap(errdef.CodeStorage, err, "create sources dir")
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errdef.Wrap(errdef.CodeStorage, err, "open sources db")
	}
	// a second connection would see a different in-memory database
	db.SetMaxOpenConns(1)

	s := &Store{db: db, now: time.Now}
	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) initialize() error {
	schema := `
		PRAGMA journal_mode = WAL;
		PRAGMA synchronous = NORMAL;

		CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS sources (
			url TEXT PRIMARY KEY,
			last_used INTEGER NOT NULL,
			loads INTEGER NOT NULL DEFAULT 0,
			last_status TEXT NOT NULL DEFAULT ''
		);

		CREATE INDEX IF NOT EXISTS idx_sources_last_used ON sources(last_used DESC);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return errdef.Wrap(errdef.CodeStorage, err, "initialize sources schema")
	}
	if _, err := s.db.Exec(
		`INSERT INTO meta (key, value) VALUES ('version', ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		schemaVersion,
	); err != nil {
		return errdef.Wrap(errdef.CodeStorage, err, "write sources schema version")
	}
	return nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Touch records a load of url with its outcome. status is StatusOK or an
// error code.
func (s *Store) Touch(ctx context.Context, url, status string) error {
	url = strings.TrimSpace(url)
	if url == "" {
		return nil
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sources (url, last_used, loads, last_status) VALUES (?, ?, 1, ?)
		ON CONFLICT(url) DO UPDATE SET
			last_used = excluded.last_used,
			loads = sources.loads + 1,
			last_status = excluded.last_status`,
		url, s.now().UnixNano(), status,
	)
	if err != nil {
		return errdef.Wrap(errdef.CodeStorage, err, "record source %s", url)
	}
	return nil
}

// Recent returns up to limit sources, most recently used first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Source, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT url, last_used, loads, last_status FROM sources
		 ORDER BY last_used DESC, url ASC LIMIT ?`, limit)
	if err != nil {
		return nil, errdef.Wrap(errdef.CodeStorage, err, "query recent sources")
	}
	defer rows.Close()

	var out []Source
	for rows.Next() {
		var (
			src  Source
			nano int64
		)
		if err := rows.Scan(&src.URL, &nano, &src.Loads, &src.LastStatus); err != nil {
			return nil, errdef.Wrap(errdef.CodeStorage, err, "scan source")
		}
		src.LastUsed = time.Unix(0, nano)
		out = append(out, src)
	}
	if err := rows.Err(); err != nil {
		return nil, errdef.Wrap(errdef.CodeStorage, err, "iterate sources")
	}
	return out, nil
}

// URLs is Recent reduced to the URL strings.
func (s *Store) URLs(ctx context.Context, limit int) ([]string, error) {
	recent, err := s.Recent(ctx, limit)
	if err != nil {
		return nil, err
	}
	urls := make([]string, 0, len(recent))
	for _, src := range recent {
		urls = append(urls, src.URL)
	}
	return urls, nil
}
