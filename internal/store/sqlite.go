package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gofrs/flock"
	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	seekerr "github.com/docuseek/docuseek/internal/errors"
)

// timeLayout is the persisted timestamp format, stable across versions.
const timeLayout = time.RFC3339

// SQLiteStore implements IndexStore on a single SQLite database.
// WAL mode plus a single-connection pool keeps one writer at a time;
// a file lock next to the database keeps other processes out entirely.
type SQLiteStore struct {
	mu     sync.RWMutex
	db     *sql.DB
	path   string
	lock   *flock.Flock
	gen    atomic.Uint64
	closed bool
}

// Verify interface implementation at compile time.
var _ IndexStore = (*SQLiteStore)(nil)

// Open opens (or creates) the index database at path.
// An empty path opens an in-memory store for testing.
func Open(path string) (*SQLiteStore, error) {
	var (
		dsn      string
		procLock *flock.Flock
	)

	if path == "" {
		dsn = ":memory:"
	} else {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, seekerr.New(seekerr.ErrCodeStoreUnreachable,
				fmt.Sprintf("cannot create index directory %s: %v", dir, err), err)
		}

		procLock = flock.New(path + ".lock")
		locked, err := procLock.TryLock()
		if err != nil {
			return nil, seekerr.New(seekerr.ErrCodeStoreLocked,
				fmt.Sprintf("cannot acquire index lock: %v", err), err)
		}
		if !locked {
			return nil, seekerr.New(seekerr.ErrCodeStoreLocked,
				fmt.Sprintf("index at %s is in use by another process", path), nil)
		}

		if err := validateIntegrity(path); err != nil {
			_ = procLock.Unlock()
			return nil, seekerr.New(seekerr.ErrCodeStoreCorrupt,
				fmt.Sprintf("index at %s is corrupt: %v", path, err), err)
		}

		dsn = path
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		if procLock != nil {
			_ = procLock.Unlock()
		}
		return nil, seekerr.New(seekerr.ErrCodeStoreUnreachable,
			fmt.Sprintf("cannot open index database: %v", err), err)
	}

	// Single writer prevents lock contention; the pool never expires
	// its one connection (required for :memory: to keep its data).
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	// WAL must be set via PRAGMA for modernc.org/sqlite.
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA temp_store = MEMORY",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			if procLock != nil {
				_ = procLock.Unlock()
			}
			return nil, seekerr.New(seekerr.ErrCodeStoreUnreachable,
				fmt.Sprintf("cannot configure index database: %v", err), err)
		}
	}

	s := &SQLiteStore{
		db:   db,
		path: path,
		lock: procLock,
	}

	if err := s.initSchema(); err != nil {
		_ = db.Close()
		if procLock != nil {
			_ = procLock.Unlock()
		}
		return nil, err
	}

	return s, nil
}

// validateIntegrity checks an existing database before opening it for
// real. A missing file is fine; it will be created.
func validateIntegrity(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}

	db, err := sql.Open("sqlite", path+"?mode=ro")
	if err != nil {
		return fmt.Errorf("cannot open for validation: %w", err)
	}
	defer func() { _ = db.Close() }()

	var result string
	if err := db.QueryRow("PRAGMA integrity_check").Scan(&result); err != nil {
		return fmt.Errorf("integrity check failed: %w", err)
	}
	if result != "ok" {
		return fmt.Errorf("integrity check reported: %s", result)
	}

	return nil
}

func (s *SQLiteStore) initSchema() error {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS files (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			file_path TEXT NOT NULL UNIQUE,
			file_name TEXT NOT NULL,
			scanned_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS reference_ids (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			ref_id TEXT NOT NULL UNIQUE COLLATE NOCASE,
			imported_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_files_name ON files(file_name)`,
	}

	for _, stmt := range schema {
		if _, err := s.db.Exec(stmt); err != nil {
			return seekerr.New(seekerr.ErrCodeStoreQuery,
				fmt.Sprintf("cannot initialize index schema: %v", err), err)
		}
	}

	return nil
}

// UpsertFile inserts a file record if the path is not yet indexed.
func (s *SQLiteStore) UpsertFile(ctx context.Context, path, name string, scannedAt time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO files (file_path, file_name, scanned_at) VALUES (?, ?, ?)
		 ON CONFLICT(file_path) DO NOTHING`,
		path, name, scannedAt.UTC().Format(timeLayout))
	if err != nil {
		return false, seekerr.StorageError(fmt.Sprintf("cannot upsert file %s: %v", path, err), err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, seekerr.StorageError("cannot read upsert result", err)
	}
	if n > 0 {
		s.gen.Add(1)
	}
	return n > 0, nil
}

// UpsertReferenceID inserts an identifier if absent, matched
// case-insensitively. Duplicates are skipped, never errors.
func (s *SQLiteStore) UpsertReferenceID(ctx context.Context, text string, importedAt time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO reference_ids (ref_id, imported_at) VALUES (?, ?)
		 ON CONFLICT(ref_id) DO NOTHING`,
		text, importedAt.UTC().Format(timeLayout))
	if err != nil {
		return false, seekerr.StorageError(fmt.Sprintf("cannot upsert reference id %q: %v", text, err), err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, seekerr.StorageError("cannot read upsert result", err)
	}
	if n > 0 {
		s.gen.Add(1)
	}
	return n > 0, nil
}

// ListFiles returns a full snapshot of indexed files.
func (s *SQLiteStore) ListFiles(ctx context.Context) ([]IndexedFile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, file_path, file_name, scanned_at FROM files`)
	if err != nil {
		return nil, seekerr.StorageError(fmt.Sprintf("cannot list files: %v", err), err)
	}
	defer func() { _ = rows.Close() }()

	var files []IndexedFile
	for rows.Next() {
		var (
			f  IndexedFile
			ts string
		)
		if err := rows.Scan(&f.ID, &f.Path, &f.Name, &ts); err != nil {
			return nil, seekerr.StorageError(fmt.Sprintf("cannot scan file row: %v", err), err)
		}
		if parsed, perr := time.Parse(timeLayout, ts); perr == nil {
			f.ScannedAt = parsed
		}
		files = append(files, f)
	}
	if err := rows.Err(); err != nil {
		return nil, seekerr.StorageError(fmt.Sprintf("file listing interrupted: %v", err), err)
	}

	return files, nil
}

// CountFiles returns the number of indexed files.
func (s *SQLiteStore) CountFiles(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM files`).Scan(&n); err != nil {
		return 0, seekerr.StorageError(fmt.Sprintf("cannot count files: %v", err), err)
	}
	return n, nil
}

// CountReferenceIDs returns the number of imported identifiers.
func (s *SQLiteStore) CountReferenceIDs(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM reference_ids`).Scan(&n); err != nil {
		return 0, seekerr.StorageError(fmt.Sprintf("cannot count reference ids: %v", err), err)
	}
	return n, nil
}

// ListReferenceIDs returns all imported identifiers ordered by text.
func (s *SQLiteStore) ListReferenceIDs(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `SELECT ref_id FROM reference_ids ORDER BY ref_id`)
	if err != nil {
		return nil, seekerr.StorageError(fmt.Sprintf("cannot list reference ids: %v", err), err)
	}
	defer func() { _ = rows.Close() }()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, seekerr.StorageError(fmt.Sprintf("cannot scan reference id: %v", err), err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, seekerr.StorageError(fmt.Sprintf("reference listing interrupted: %v", err), err)
	}

	return ids, nil
}

// ClearAll deletes every file and reference identifier record.
func (s *SQLiteStore) ClearAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return seekerr.StorageError(fmt.Sprintf("cannot begin clear transaction: %v", err), err)
	}

	for _, stmt := range []string{`DELETE FROM files`, `DELETE FROM reference_ids`} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			_ = tx.Rollback()
			return seekerr.StorageError(fmt.Sprintf("cannot clear index: %v", err), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return seekerr.StorageError(fmt.Sprintf("cannot commit clear: %v", err), err)
	}

	s.gen.Add(1)
	slog.Info("index_cleared", slog.String("path", s.path))
	return nil
}

// Generation returns the write-generation counter.
func (s *SQLiteStore) Generation() uint64 {
	return s.gen.Load()
}

// Close closes the database and releases the process lock.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	err := s.db.Close()
	if s.lock != nil {
		_ = s.lock.Unlock()
	}
	if err != nil {
		return seekerr.StorageError(fmt.Sprintf("cannot close index database: %v", err), err)
	}
	return nil
}
