// Package store provides the persistent index: scanned image files and
// imported reference identifiers, backed by SQLite.
package store

import (
	"context"
	"time"
)

// IndexedFile is one cached record of a discovered image file.
type IndexedFile struct {
	ID        int64
	Path      string
	Name      string
	ScannedAt time.Time
}

// ReferenceID is one imported lookup identifier.
type ReferenceID struct {
	ID         int64
	Text       string
	ImportedAt time.Time
}

// IndexStore is the persistence contract consumed by the scanner,
// importer and search engine. Implementations must serialize concurrent
// readers and writers internally; callers never see a torn snapshot.
type IndexStore interface {
	// UpsertFile inserts a file record keyed by absolute path.
	// Returns true if a new record was inserted, false if the path
	// was already indexed. Re-upserting an existing path is a no-op.
	UpsertFile(ctx context.Context, path, name string, scannedAt time.Time) (bool, error)

	// UpsertReferenceID inserts an identifier, deduplicated
	// case-insensitively. Returns true if newly inserted.
	UpsertReferenceID(ctx context.Context, text string, importedAt time.Time) (bool, error)

	// ListFiles returns a full snapshot of indexed files. Order is
	// not guaranteed.
	ListFiles(ctx context.Context) ([]IndexedFile, error)

	// CountFiles returns the number of indexed files.
	CountFiles(ctx context.Context) (int, error)

	// CountReferenceIDs returns the number of imported identifiers.
	CountReferenceIDs(ctx context.Context) (int, error)

	// ListReferenceIDs returns all imported identifiers ordered by text.
	ListReferenceIDs(ctx context.Context) ([]string, error)

	// ClearAll deletes every file and reference identifier record.
	ClearAll(ctx context.Context) error

	// Generation returns a counter bumped by every committed write.
	// The search cache keys on it to invalidate stale results.
	Generation() uint64

	// Close releases the database handle and the process lock.
	Close() error
}
