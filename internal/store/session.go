package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	seekerr "github.com/docuseek/docuseek/internal/errors"
)

// FileImportSession batches file upserts inside one transaction.
// With a single-connection pool the open transaction also serializes
// concurrent readers until Commit.
type FileImportSession struct {
	s        *SQLiteStore
	tx       *sql.Tx
	stmt     *sql.Stmt
	inserted int
}

// BeginFileImport starts a batched file import.
func (s *SQLiteStore) BeginFileImport(ctx context.Context) (*FileImportSession, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, seekerr.StorageError(fmt.Sprintf("cannot begin file import: %v", err), err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO files (file_path, file_name, scanned_at) VALUES (?, ?, ?)
		 ON CONFLICT(file_path) DO NOTHING`)
	if err != nil {
		_ = tx.Rollback()
		return nil, seekerr.StorageError(fmt.Sprintf("cannot prepare file import: %v", err), err)
	}

	return &FileImportSession{s: s, tx: tx, stmt: stmt}, nil
}

// Upsert inserts one file record; returns true when newly inserted.
func (fs *FileImportSession) Upsert(ctx context.Context, path, name string, scannedAt time.Time) (bool, error) {
	res, err := fs.stmt.ExecContext(ctx, path, name, scannedAt.UTC().Format(timeLayout))
	if err != nil {
		return false, seekerr.StorageError(fmt.Sprintf("cannot upsert file %s: %v", path, err), err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, seekerr.StorageError("cannot read upsert result", err)
	}
	if n > 0 {
		fs.inserted++
	}
	return n > 0, nil
}

// Inserted returns the number of newly inserted records so far.
func (fs *FileImportSession) Inserted() int {
	return fs.inserted
}

// Commit finalizes the batch and bumps the store generation.
func (fs *FileImportSession) Commit() error {
	_ = fs.stmt.Close()
	if err := fs.tx.Commit(); err != nil {
		return seekerr.StorageError(fmt.Sprintf("cannot commit file import: %v", err), err)
	}
	if fs.inserted > 0 {
		fs.s.gen.Add(1)
	}
	return nil
}

// Rollback abandons the batch. Safe to call after Commit.
func (fs *FileImportSession) Rollback() {
	_ = fs.stmt.Close()
	_ = fs.tx.Rollback()
}

// ReferenceImportSession batches identifier upserts inside one
// transaction, deduplicating case-insensitively against the store.
type ReferenceImportSession struct {
	s        *SQLiteStore
	tx       *sql.Tx
	stmt     *sql.Stmt
	inserted int
}

// BeginReferenceImport starts a batched identifier import.
func (s *SQLiteStore) BeginReferenceImport(ctx context.Context) (*ReferenceImportSession, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, seekerr.StorageError(fmt.Sprintf("cannot begin reference import: %v", err), err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO reference_ids (ref_id, imported_at) VALUES (?, ?)
		 ON CONFLICT(ref_id) DO NOTHING`)
	if err != nil {
		_ = tx.Rollback()
		return nil, seekerr.StorageError(fmt.Sprintf("cannot prepare reference import: %v", err), err)
	}

	return &ReferenceImportSession{s: s, tx: tx, stmt: stmt}, nil
}

// Insert upserts one identifier; returns true when newly inserted,
// false when skipped as a duplicate.
func (rs *ReferenceImportSession) Insert(ctx context.Context, text string, importedAt time.Time) (bool, error) {
	res, err := rs.stmt.ExecContext(ctx, text, importedAt.UTC().Format(timeLayout))
	if err != nil {
		return false, seekerr.StorageError(fmt.Sprintf("cannot upsert reference id %q: %v", text, err), err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, seekerr.StorageError("cannot read upsert result", err)
	}
	if n > 0 {
		rs.inserted++
	}
	return n > 0, nil
}

// Inserted returns the number of newly inserted identifiers so far.
func (rs *ReferenceImportSession) Inserted() int {
	return rs.inserted
}

// Commit finalizes the batch and bumps the store generation.
func (rs *ReferenceImportSession) Commit() error {
	_ = rs.stmt.Close()
	if err := rs.tx.Commit(); err != nil {
		return seekerr.StorageError(fmt.Sprintf("cannot commit reference import: %v", err), err)
	}
	if rs.inserted > 0 {
		rs.s.gen.Add(1)
	}
	return nil
}

// Rollback abandons the batch. Safe to call after Commit.
func (rs *ReferenceImportSession) Rollback() {
	_ = rs.stmt.Close()
	_ = rs.tx.Rollback()
}
