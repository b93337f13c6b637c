package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"factreel/internal/config"
)

// Record is one persisted download row.
type Record struct {
	ID           int64
	URL          string
	Title        string
	DownloadedAt time.Time
}

// Store manages download history backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

const schema = `
CREATE TABLE IF NOT EXISTS downloads (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    url TEXT UNIQUE NOT NULL,
    title TEXT NOT NULL,
    downloaded_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
`

// Open initializes or connects to the ledger database.
func Open(cfg *config.Config) (*Store, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}
	return OpenPath(cfg.Paths.LedgerPath)
}

// OpenPath opens a ledger at an explicit database path.
func OpenPath(dbPath string) (*Store, error) {
	if strings.TrimSpace(dbPath) == "" {
		return nil, errors.New("ledger path is required")
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("ensure ledger directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &Store{db: db, path: dbPath}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

// RecordIfNew inserts a download row for url unless one already exists. The
// UNIQUE constraint on url makes this safe under concurrent callers and across
// independent processes; a lost race simply reports inserted=false.
func (s *Store) RecordIfNew(ctx context.Context, url, title string) (bool, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return false, errors.New("url is required")
	}
	if strings.TrimSpace(title) == "" {
		title = "untitled"
	}

	res, err := s.db.ExecContext(
		ctx,
		`INSERT OR IGNORE INTO downloads (url, title, downloaded_at) VALUES (?, ?, ?)`,
		url,
		title,
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return false, fmt.Errorf("record download: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}

// Exists reports whether url has a completed download on record.
func (s *Store) Exists(ctx context.Context, url string) (bool, error) {
	row := s.db.QueryRowContext(ctx, `SELECT 1 FROM downloads WHERE url = ?`, strings.TrimSpace(url))
	var one int
	err := row.Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("query download: %w", err)
	}
	return true, nil
}

// Get fetches the record for url, or nil when absent.
func (s *Store) Get(ctx context.Context, url string) (*Record, error) {
	row := s.db.QueryRowContext(
		ctx,
		`SELECT id, url, title, downloaded_at FROM downloads WHERE url = ?`,
		strings.TrimSpace(url),
	)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get download: %w", err)
	}
	return rec, nil
}

// List returns every record ordered by download time.
func (s *Store) List(ctx context.Context) ([]*Record, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, url, title, downloaded_at FROM downloads ORDER BY downloaded_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list downloads: %w", err)
	}
	defer rows.Close()

	var records []*Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (*Record, error) {
	var rec Record
	var downloadedAt string
	if err := row.Scan(&rec.ID, &rec.URL, &rec.Title, &downloadedAt); err != nil {
		return nil, err
	}
	if ts, err := parseTimestamp(downloadedAt); err == nil {
		rec.DownloadedAt = ts
	}
	return &rec, nil
}

func parseTimestamp(value string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02 15:04:05"} {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", value)
}
