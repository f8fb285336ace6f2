// Package watcher keeps the index current while a scan root stays open:
// files created or replaced under the root are upserted as they appear,
// debounced so copy-in-progress churn does not thrash the store.
package watcher

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	seekerr "github.com/docuseek/docuseek/internal/errors"
	"github.com/docuseek/docuseek/internal/scanner"
	"github.com/docuseek/docuseek/internal/store"
)

// Operation classifies a file system event.
type Operation int

const (
	OpCreate Operation = iota
	OpModify
	OpDelete
)

// String returns a human-readable representation of the operation.
func (op Operation) String() string {
	switch op {
	case OpCreate:
		return "CREATE"
	case OpModify:
		return "MODIFY"
	case OpDelete:
		return "DELETE"
	default:
		return "UNKNOWN"
	}
}

// FileEvent is one observed change to a file under the watched root.
type FileEvent struct {
	Path string
	Op   Operation
}

// Options configures the watcher.
type Options struct {
	// DebounceWindow is the quiet period before a batch is emitted.
	// Default: 500ms.
	DebounceWindow time.Duration
	// BatchBufferSize is the debounced batch channel buffer; batches
	// beyond it are dropped while the store keeps a writer busy.
	// Default: 10.
	BatchBufferSize int
}

// WithDefaults returns options with defaults applied for zero values.
func (o Options) WithDefaults() Options {
	if o.DebounceWindow == 0 {
		o.DebounceWindow = 500 * time.Millisecond
	}
	if o.BatchBufferSize == 0 {
		o.BatchBufferSize = 10
	}
	return o
}

// Watcher watches a scan root and upserts matching files into the store.
type Watcher struct {
	sc   *scanner.Scanner
	st   *store.SQLiteStore
	opts Options

	// OnBatch, when set, is called after each batch of files has been
	// upserted with the count of newly indexed files.
	OnBatch func(newlyIndexed int)
}

// New builds a Watcher that filters events through sc and persists hits
// into st.
func New(sc *scanner.Scanner, st *store.SQLiteStore, opts Options) *Watcher {
	return &Watcher{sc: sc, st: st, opts: opts.WithDefaults()}
}

// Run watches root until ctx is cancelled. Newly created files whose
// names match the recognized extensions are upserted; directories created
// under the root are watched as they appear, and their existing contents
// are picked up.
func (w *Watcher) Run(ctx context.Context, root string) error {
	root, err := filepath.Abs(root)
	if err != nil {
		return seekerr.New(seekerr.ErrCodeRootNotFound, "cannot resolve watch root", err)
	}
	info, err := os.Stat(root)
	if err != nil {
		return seekerr.New(seekerr.ErrCodeRootNotFound, "watch root does not exist", err).
			WithDetail("root", root)
	}
	if !info.IsDir() {
		return seekerr.New(seekerr.ErrCodeRootNotDir, "watch root is not a directory", nil).
			WithDetail("root", root)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return seekerr.New(seekerr.ErrCodeWatchFailed, "failed to create file system watcher", err)
	}
	defer func() { _ = fsw.Close() }()

	if err := addRecursive(fsw, root); err != nil {
		return err
	}

	deb := NewDebouncer(w.opts.DebounceWindow, w.opts.BatchBufferSize)
	defer deb.Stop()

	slog.Info("watch_started", "root", root, "debounce_ms", w.opts.DebounceWindow.Milliseconds())

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev, ok := <-fsw.Events:
			if !ok {
				return seekerr.New(seekerr.ErrCodeWatchFailed, "watch event stream closed", nil)
			}
			w.handleEvent(ctx, fsw, deb, ev)

		case err, ok := <-fsw.Errors:
			if !ok {
				return seekerr.New(seekerr.ErrCodeWatchFailed, "watch error stream closed", nil)
			}
			slog.Warn("watch_error", "error", err)

		case batch := <-deb.Output():
			if err := w.persistBatch(ctx, batch); err != nil {
				return err
			}
		}
	}
}

func (w *Watcher) handleEvent(ctx context.Context, fsw *fsnotify.Watcher, deb *Debouncer, ev fsnotify.Event) {
	op, ok := mapOp(ev.Op)
	if !ok {
		return
	}

	if op == OpCreate {
		if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
			// A directory moved in whole arrives as a single create; watch
			// it and index anything already inside.
			if err := addRecursive(fsw, ev.Name); err != nil {
				slog.Warn("watch_add_failed", "path", ev.Name, "error", err)
			}
			w.enqueueExisting(ctx, deb, ev.Name)
			return
		}
	}

	if !w.sc.Matches(filepath.Base(ev.Name)) {
		return
	}
	deb.Add(FileEvent{Path: ev.Name, Op: op})
}

// enqueueExisting walks a newly appeared directory and queues its files.
func (w *Watcher) enqueueExisting(ctx context.Context, deb *Debouncer, dir string) {
	_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if ctx.Err() != nil {
			return filepath.SkipAll
		}
		if !d.IsDir() && w.sc.Matches(d.Name()) {
			deb.Add(FileEvent{Path: path, Op: OpCreate})
		}
		return nil
	})
}

// persistBatch upserts created and modified files from one debounced
// batch. Deletes are ignored; the index is a cache and stale rows are
// harmless until the next full scan.
func (w *Watcher) persistBatch(ctx context.Context, batch []FileEvent) error {
	sess, err := w.st.BeginFileImport(ctx)
	if err != nil {
		return err
	}
	defer sess.Rollback()

	now := time.Now().UTC()
	for _, ev := range batch {
		if ev.Op == OpDelete {
			continue
		}
		if _, err := sess.Upsert(ctx, ev.Path, filepath.Base(ev.Path), now); err != nil {
			return err
		}
	}
	inserted := sess.Inserted()
	if err := sess.Commit(); err != nil {
		return err
	}

	slog.Debug("watch_batch_indexed", "batch", len(batch), "newly_indexed", inserted)
	if w.OnBatch != nil {
		w.OnBatch(inserted)
	}
	return nil
}

func mapOp(op fsnotify.Op) (Operation, bool) {
	switch {
	case op&fsnotify.Create != 0:
		return OpCreate, true
	case op&fsnotify.Write != 0:
		return OpModify, true
	case op&(fsnotify.Remove|fsnotify.Rename) != 0:
		return OpDelete, true
	default:
		return 0, false
	}
}

// addRecursive watches dir and every directory below it.
func addRecursive(fsw *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == dir {
				return seekerr.New(seekerr.ErrCodeWatchFailed, "cannot watch root", err).
					WithDetail("root", dir)
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if err := fsw.Add(path); err != nil {
			slog.Warn("watch_add_failed", "path", path, "error", err)
		}
		return nil
	})
}
