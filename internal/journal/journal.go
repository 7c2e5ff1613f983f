// Package journal keeps a best-effort sqlite record of capture attempts.
//
// The journal is diagnostic enrichment, not application state: the
// filesystem tree remains the source of truth for what exists, and every
// journal failure is logged and swallowed rather than propagated into the
// operation that triggered it.
package journal

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"shutter/internal/logging"
)

// Entry is one recorded capture attempt.
type Entry struct {
	ID         string `json:"id"`
	URL        string `json:"url"`
	Status     string `json:"status"` // "ok" or "failed"
	ErrorCode  string `json:"error_code,omitempty"`
	FileName   string `json:"file_name,omitempty"`
	SizeBytes  int64  `json:"size_bytes,omitempty"`
	DurationMS int64  `json:"duration_ms"`
	CreatedAt  int64  `json:"created_at"`
}

// Capture attempt outcomes.
const (
	StatusOK     = "ok"
	StatusFailed = "failed"
)

// Journal wraps the sqlite capture log.
type Journal struct {
	db     *sql.DB
	logger *zap.Logger
}

// Open initializes the journal database at baseDir/shutter.db.
// The baseDir parameter allows tests to use t.TempDir() instead of ~/.shutter.
func Open(baseDir string, logger *zap.Logger) (*Journal, error) {
	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return nil, fmt.Errorf("create base directory: %w", err)
	}

	dbPath := filepath.Join(baseDir, "shutter.db")
	dsn := dbPath + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open journal database: %w", err)
	}

	if err := migrate(db); err != nil {
		db.Close()
		return nil, err
	}

	// Restrict permissions after the file exists (best-effort)
	_ = os.Chmod(dbPath, 0600)

	return &Journal{db: db, logger: logging.OrNop(logger)}, nil
}

// Close releases the underlying database.
func (j *Journal) Close() error {
	if j == nil || j.db == nil {
		return nil
	}
	return j.db.Close()
}

// migrate creates the captures table.
func migrate(db *sql.DB) error {
	const schema = `
		CREATE TABLE IF NOT EXISTS captures (
			id          TEXT PRIMARY KEY,
			url         TEXT NOT NULL,
			status      TEXT NOT NULL,
			error_code  TEXT,
			file_name   TEXT,
			size_bytes  INTEGER,
			duration_ms INTEGER NOT NULL,
			created_at  INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_captures_created_at ON captures(created_at);
	`
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("migrate journal: %w", err)
	}
	return nil
}

// Record writes one capture attempt. Errors are logged, never returned:
// journal failures must not fail the capture they describe.
func (j *Journal) Record(entry Entry) {
	if j == nil || j.db == nil {
		return
	}
	if entry.CreatedAt == 0 {
		entry.CreatedAt = time.Now().Unix()
	}

	const query = `
		INSERT INTO captures (id, url, status, error_code, file_name, size_bytes, duration_ms, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := j.db.Exec(query,
		entry.ID, entry.URL, entry.Status,
		nullable(entry.ErrorCode), nullable(entry.FileName),
		entry.SizeBytes, entry.DurationMS, entry.CreatedAt,
	)
	if err != nil {
		j.logger.Warn("journal write failed",
			zap.String("screenshot_id", entry.ID),
			zap.Error(err),
		)
	}
}

// Lookup returns the journal entry for a capture id, or nil when the id is
// unknown or the journal cannot be read. Best-effort by contract.
func (j *Journal) Lookup(id string) *Entry {
	if j == nil || j.db == nil || id == "" {
		return nil
	}

	const query = `
		SELECT id, url, status, COALESCE(error_code, ''), COALESCE(file_name, ''),
			COALESCE(size_bytes, 0), duration_ms, created_at
		FROM captures WHERE id = ?
	`
	var e Entry
	err := j.db.QueryRow(query, id).Scan(
		&e.ID, &e.URL, &e.Status, &e.ErrorCode, &e.FileName,
		&e.SizeBytes, &e.DurationMS, &e.CreatedAt,
	)
	if err != nil {
		if err != sql.ErrNoRows {
			j.logger.Warn("journal read failed",
				zap.String("screenshot_id", id),
				zap.Error(err),
			)
		}
		return nil
	}
	return &e
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
