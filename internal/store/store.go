// Package store maintains the sqlite index behind the search and query
// commands, so repeated lookups do not rescan the whole content tree.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/srmagura/blog/internal/export"
)

type Store struct {
	path    string
	readDB  *sql.DB
	writeDB *sql.DB
}

// QueryOpts narrows an index query. A zero value returns everything
// except drafts, newest first.
type QueryOpts struct {
	Search        string
	Tag           string
	Year          int
	IncludeDrafts bool
	Limit         int
}

type Stats struct {
	Documents int
	Drafts    int
	SizeBytes int64
	LastIndex time.Time
}

const selectColumns = "id, slug, title, description, date, draft, tags, language, word_count, reading_time, path, hash, body"

func Open(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("creating index dir: %w", err)
	}

	writeDB, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening write db: %w", err)
	}
	writeDB.SetMaxOpenConns(1)

	readDB, err := sql.Open("sqlite", dbPath+"?mode=ro")
	if err != nil {
		writeDB.Close()
		return nil, fmt.Errorf("opening read db: %w", err)
	}

	s := &Store{path: dbPath, readDB: readDB, writeDB: writeDB}
	if err := s.init(); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) init() error {
	_, err := s.writeDB.Exec(`
		CREATE TABLE IF NOT EXISTS documents (
			id           TEXT PRIMARY KEY,
			slug         TEXT NOT NULL,
			title        TEXT NOT NULL,
			description  TEXT NOT NULL DEFAULT '',
			date         DATETIME,
			draft        INTEGER NOT NULL DEFAULT 0,
			tags         TEXT NOT NULL DEFAULT '',
			language     TEXT NOT NULL DEFAULT '',
			word_count   INTEGER NOT NULL DEFAULT 0,
			reading_time INTEGER NOT NULL DEFAULT 0,
			path         TEXT NOT NULL,
			hash         TEXT NOT NULL,
			body         TEXT NOT NULL DEFAULT '',
			indexed_at   DATETIME NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_documents_date ON documents(date DESC);
		CREATE INDEX IF NOT EXISTS idx_documents_slug ON documents(slug);

		CREATE TABLE IF NOT EXISTS meta (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
	`)
	if err != nil {
		return fmt.Errorf("initializing schema: %w", err)
	}
	return nil
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) Close() error {
	var errs []error
	if s.readDB != nil {
		errs = append(errs, s.readDB.Close())
	}
	if s.writeDB != nil {
		errs = append(errs, s.writeDB.Close())
	}
	for _, e := range errs {
		if e != nil {
			return e
		}
	}
	return nil
}

func (s *Store) UpsertDocuments(records []export.Record) error {
	tx, err := s.writeDB.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO documents (id, slug, title, description, date, draft, tags, language, word_count, reading_time, path, hash, body, indexed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			slug = excluded.slug,
			title = excluded.title,
			description = excluded.description,
			date = excluded.date,
			draft = excluded.draft,
			tags = excluded.tags,
			language = excluded.language,
			word_count = excluded.word_count,
			reading_time = excluded.reading_time,
			path = excluded.path,
			hash = excluded.hash,
			body = excluded.body,
			indexed_at = excluded.indexed_at
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for _, r := range records {
		_, err := stmt.Exec(r.ID, r.Slug, r.Title, r.Description, r.Date, r.Draft, encodeTags(r.Tags),
			r.Language, r.WordCount, r.ReadingTime, r.Path, r.Hash, r.Body, now)
		if err != nil {
			return fmt.Errorf("upserting document %s: %w", r.ID, err)
		}
	}

	return tx.Commit()
}

func (s *Store) Query(opts QueryOpts) ([]export.Record, error) {
	var (
		where []string
		args  []interface{}
	)

	if !opts.IncludeDrafts {
		where = append(where, "draft = 0")
	}

	if opts.Search != "" {
		where = append(where, "(title LIKE ? OR body LIKE ?)")
		term := "%" + opts.Search + "%"
		args = append(args, term, term)
	}

	if opts.Tag != "" {
		where = append(where, "tags LIKE ?")
		args = append(args, "%,"+opts.Tag+",%")
	}

	if opts.Year > 0 {
		from := time.Date(opts.Year, 1, 1, 0, 0, 0, 0, time.UTC)
		where = append(where, "date >= ? AND date < ?")
		args = append(args, from, from.AddDate(1, 0, 0))
	}

	query := "SELECT " + selectColumns + " FROM documents"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY date IS NULL, date DESC, slug ASC"

	limit := opts.Limit
	if limit <= 0 {
		limit = 500
	}
	query += fmt.Sprintf(" LIMIT %d", limit)

	rows, err := s.readDB.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying documents: %w", err)
	}
	defer rows.Close()

	var records []export.Record
	for rows.Next() {
		var (
			rec  export.Record
			date sql.NullTime
			tags string
		)
		err := rows.Scan(&rec.ID, &rec.Slug, &rec.Title, &rec.Description, &date, &rec.Draft, &tags,
			&rec.Language, &rec.WordCount, &rec.ReadingTime, &rec.Path, &rec.Hash, &rec.Body)
		if err != nil {
			return nil, fmt.Errorf("scanning document: %w", err)
		}
		if date.Valid {
			d := date.Time.UTC()
			rec.Date = &d
		}
		rec.Tags = decodeTags(tags)
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Prune deletes rows whose documents no longer exist. An empty id list
// empties the index.
func (s *Store) Prune(validIDs []string) (int64, error) {
	var (
		query string
		args  []interface{}
	)
	if len(validIDs) == 0 {
		query = "DELETE FROM documents"
	} else {
		placeholders := make([]string, len(validIDs))
		for i, id := range validIDs {
			placeholders[i] = "?"
			args = append(args, id)
		}
		query = "DELETE FROM documents WHERE id NOT IN (" + strings.Join(placeholders, ",") + ")" //nolint:gosec
	}

	res, err := s.writeDB.Exec(query, args...)
	if err != nil {
		return 0, fmt.Errorf("pruning documents: %w", err)
	}
	return res.RowsAffected()
}

func (s *Store) NeedsRefresh(maxAge time.Duration) bool {
	var value string
	err := s.readDB.QueryRow("SELECT value FROM meta WHERE key = 'last_index'").Scan(&value)
	if err != nil {
		return true
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return true
	}
	return time.Since(t) > maxAge
}

func (s *Store) SetLastIndex() error {
	_, err := s.writeDB.Exec(`
		INSERT INTO meta (key, value) VALUES ('last_index', ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, time.Now().Format(time.RFC3339))
	return err
}

func (s *Store) Stats() (Stats, error) {
	var st Stats
	err := s.readDB.QueryRow("SELECT COUNT(*), COALESCE(SUM(draft), 0) FROM documents").Scan(&st.Documents, &st.Drafts)
	if err != nil {
		return st, fmt.Errorf("counting documents: %w", err)
	}

	if fi, err := os.Stat(s.path); err == nil {
		st.SizeBytes = fi.Size()
	}

	var value string
	if err := s.readDB.QueryRow("SELECT value FROM meta WHERE key = 'last_index'").Scan(&value); err == nil {
		if t, err := time.Parse(time.RFC3339, value); err == nil {
			st.LastIndex = t
		}
	}
	return st, nil
}

// encodeTags stores tags comma-wrapped (",go,tooling,") so a tag filter
// can LIKE match whole tags without hitting substrings.
func encodeTags(tags []string) string {
	if len(tags) == 0 {
		return ""
	}
	return "," + strings.Join(tags, ",") + ","
}

func decodeTags(s string) []string {
	trimmed := strings.Trim(s, ",")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, ",")
}
