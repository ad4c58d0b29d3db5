// Package history records resolved links in a local SQLite database so
// earlier lookups can be listed again.
package history

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"

	"sitelink/internal/facets"
)

const schema = `
CREATE TABLE IF NOT EXISTS links (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	url TEXT NOT NULL UNIQUE,
	vendor TEXT NOT NULL,
	type_name TEXT NOT NULL,
	facets TEXT NOT NULL,
	parsed_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_links_parsed_at ON links(parsed_at);
`

// Entry is a single recorded link.
type Entry struct {
	ID       int64
	URL      string
	Vendor   string
	TypeName facets.TypeName
	Facets   facets.Facets
	ParsedAt time.Time
}

// NewEntry builds an Entry for a resolved link.
func NewEntry(url, vendor string, r *facets.Result, at time.Time) Entry {
	return Entry{
		URL:      url,
		Vendor:   vendor,
		TypeName: r.TypeName,
		Facets:   r.Facets,
		ParsedAt: at,
	}
}

// Result returns the entry as a parse result.
func (e Entry) Result() *facets.Result {
	return facets.New(e.Facets, e.TypeName)
}

// Store wraps the history database.
type Store struct {
	db     *sql.DB
	logger zerolog.Logger
}

// Open opens (creating if needed) the history database at path.
func Open(path string, logger zerolog.Logger) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("creating history dir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening history %s: %w", path, err)
	}
	// SQLite allows a single writer.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing history schema: %w", err)
	}

	logger.Debug().Str("path", path).Msg("History database ready")
	return &Store{db: db, logger: logger}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Save writes or updates the entry for e.URL.
func (s *Store) Save(e Entry) error {
	data, err := json.Marshal(e.Facets)
	if err != nil {
		return fmt.Errorf("encoding facets: %w", err)
	}

	const query = `
	INSERT INTO links (url, vendor, type_name, facets, parsed_at) VALUES (?, ?, ?, ?, ?)
	ON CONFLICT(url) DO UPDATE SET
		vendor = excluded.vendor,
		type_name = excluded.type_name,
		facets = excluded.facets,
		parsed_at = excluded.parsed_at`

	if _, err := s.db.Exec(query, e.URL, e.Vendor, string(e.TypeName), string(data), e.ParsedAt.UnixNano()); err != nil {
		return fmt.Errorf("saving history entry: %w", err)
	}
	s.logger.Debug().Str("url", e.URL).Str("type_name", e.TypeName.String()).Msg("Recorded link")
	return nil
}

// Load returns up to limit entries, most recent first. A limit <= 0
// returns every entry.
func (s *Store) Load(limit int) ([]Entry, error) {
	query := `SELECT id, url, vendor, type_name, facets, parsed_at FROM links ORDER BY parsed_at DESC, id DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying history: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e        Entry
			typeName string
			raw      string
			nanos    int64
		)
		if err := rows.Scan(&e.ID, &e.URL, &e.Vendor, &typeName, &raw, &nanos); err != nil {
			return nil, fmt.Errorf("reading history row: %w", err)
		}
		if err := json.Unmarshal([]byte(raw), &e.Facets); err != nil {
			s.logger.Warn().Err(err).Int64("id", e.ID).Msg("Skipping history row with malformed facets")
			continue
		}
		e.TypeName = facets.TypeName(typeName)
		e.ParsedAt = time.Unix(0, nanos)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading history: %w", err)
	}

	return entries, nil
}

// Remove deletes the entry for url.
func (s *Store) Remove(url string) error {
	if _, err := s.db.Exec(`DELETE FROM links WHERE url = ?`, url); err != nil {
		return fmt.Errorf("removing history entry: %w", err)
	}
	return nil
}

// Clear deletes every entry and returns how many were removed.
func (s *Store) Clear() (int64, error) {
	res, err := s.db.Exec(`DELETE FROM links`)
	if err != nil {
		return 0, fmt.Errorf("clearing history: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("clearing history: %w", err)
	}
	return n, nil
}

// FormatForDisplay creates one display line per entry.
func FormatForDisplay(entries []Entry, now time.Time) []string {
	var items []string
	for _, e := range entries {
		items = append(items, fmt.Sprintf("%-20s %-10s %s  (%s)",
			e.TypeName, e.Vendor, e.URL, humanize.RelTime(e.ParsedAt, now, "ago", "from now")))
	}
	return items
}
