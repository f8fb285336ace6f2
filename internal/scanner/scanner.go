package scanner

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	seekerr "github.com/docuseek/docuseek/internal/errors"
	"github.com/docuseek/docuseek/internal/store"
)

// Scanner discovers image files under a root directory.
type Scanner struct {
	exts    map[string]struct{}
	workers int
}

// New creates a Scanner recognizing the given extensions.
func New(opts Options) *Scanner {
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	exts := make(map[string]struct{}, len(opts.Extensions))
	for _, e := range opts.Extensions {
		exts[strings.ToLower(strings.TrimPrefix(e, "."))] = struct{}{}
	}

	return &Scanner{exts: exts, workers: workers}
}

// Matches reports whether a file name carries a recognized extension.
// The comparison is case-insensitive.
func (s *Scanner) Matches(name string) bool {
	ext := strings.TrimPrefix(filepath.Ext(name), ".")
	if ext == "" {
		return false
	}
	_, ok := s.exts[strings.ToLower(ext)]
	return ok
}

// Scan streams discovered files on the returned channel. Traversal
// runs in the background; the channel closes when it finishes. The
// extension filter runs on a worker pool, one walk feeding it.
func (s *Scanner) Scan(ctx context.Context, root string) (<-chan ScanResult, error) {
	absRoot, err := s.validateRoot(root)
	if err != nil {
		return nil, err
	}

	results := make(chan ScanResult, s.workers*10)
	paths := make(chan string, s.workers*10)

	go func() {
		defer close(results)

		g, gctx := errgroup.WithContext(ctx)

		g.Go(func() error {
			defer close(paths)
			return s.walk(gctx, absRoot, paths)
		})

		for i := 0; i < s.workers; i++ {
			g.Go(func() error {
				for path := range paths {
					if !s.Matches(path) {
						continue
					}
					select {
					case results <- ScanResult{File: &FileInfo{
						Path: path,
						Name: filepath.Base(path),
					}}:
					case <-gctx.Done():
						return gctx.Err()
					}
				}
				return nil
			})
		}

		if err := g.Wait(); err != nil && err != context.Canceled {
			select {
			case results <- ScanResult{Error: err}:
			case <-ctx.Done():
			}
		}
	}()

	return results, nil
}

// ScanAndStore scans root and upserts every discovered file into the
// store in one batch transaction. Already-indexed paths are skipped
// and not recounted. Partial results stay valid on failure; scanning
// is incremental and idempotent.
func (s *Scanner) ScanAndStore(ctx context.Context, root string, st *store.SQLiteStore) (Report, error) {
	results, err := s.Scan(ctx, root)
	if err != nil {
		return Report{}, err
	}

	sess, err := st.BeginFileImport(ctx)
	if err != nil {
		return Report{}, err
	}
	defer sess.Rollback()

	var report Report
	scannedAt := time.Now()

	for res := range results {
		if res.Error != nil {
			// Commit what we have; a failed walk still keeps its partial results.
			if report.Discovered > 0 {
				if cerr := sess.Commit(); cerr != nil {
					return Report{}, cerr
				}
				report.NewlyIndexed = sess.Inserted()
			}
			return report, res.Error
		}

		report.Discovered++
		if _, err := sess.Upsert(ctx, res.File.Path, res.File.Name, scannedAt); err != nil {
			return Report{}, err
		}
	}

	if err := sess.Commit(); err != nil {
		return Report{}, err
	}
	report.NewlyIndexed = sess.Inserted()

	slog.Info("scan_complete",
		slog.String("root", root),
		slog.Int("discovered", report.Discovered),
		slog.Int("newly_indexed", report.NewlyIndexed))

	return report, nil
}

// validateRoot resolves and checks the scan root.
func (s *Scanner) validateRoot(root string) (string, error) {
	if strings.TrimSpace(root) == "" {
		return "", seekerr.New(seekerr.ErrCodeRootNotFound, "scan root is empty", nil)
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", seekerr.New(seekerr.ErrCodeRootNotFound,
			fmt.Sprintf("cannot resolve scan root %s: %v", root, err), err)
	}

	info, err := os.Stat(absRoot)
	if err != nil {
		if os.IsNotExist(err) {
			return "", seekerr.New(seekerr.ErrCodeRootNotFound,
				fmt.Sprintf("scan root does not exist: %s", absRoot), err)
		}
		return "", seekerr.New(seekerr.ErrCodeRootUnreadable,
			fmt.Sprintf("cannot read scan root %s: %v", absRoot, err), err)
	}
	if !info.IsDir() {
		return "", seekerr.New(seekerr.ErrCodeRootNotDir,
			fmt.Sprintf("scan root is not a directory: %s", absRoot), nil)
	}

	return absRoot, nil
}

// walk performs the directory traversal, sending file paths downstream.
func (s *Scanner) walk(ctx context.Context, absRoot string, paths chan<- string) error {
	first := true
	return filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err != nil {
			// An unreadable root is fatal; deeper unreadable
			// entries are skipped like any other bad file.
			if first {
				return seekerr.New(seekerr.ErrCodeRootUnreadable,
					fmt.Sprintf("cannot read scan root %s: %v", absRoot, err), err)
			}
			return nil
		}
		first = false

		if d.IsDir() {
			return nil
		}

		// Symlinks are resolved; only entries pointing at regular
		// files are considered.
		if d.Type()&fs.ModeSymlink != 0 {
			info, serr := os.Stat(path)
			if serr != nil || !info.Mode().IsRegular() {
				return nil
			}
		}

		select {
		case paths <- path:
		case <-ctx.Done():
			return ctx.Err()
		}
		return nil
	})
}
