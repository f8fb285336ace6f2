// Package refimport loads externally-supplied reference identifiers
// into the index store, deduplicating against what is already there.
package refimport

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	seekerr "github.com/docuseek/docuseek/internal/errors"
	"github.com/docuseek/docuseek/internal/store"
)

// Report summarizes a completed import run.
type Report struct {
	// Processed is the number of raw records seen.
	Processed int
	// Imported is the number of identifiers newly inserted.
	Imported int
	// Skipped counts duplicates and empty values; never failures.
	Skipped int
	// Notes carries per-record remarks (empty values, duplicates of
	// interest) for display. Entries here are informational only.
	Notes []string
}

// Importer validates raw identifier strings and persists new ones.
type Importer struct {
	st *store.SQLiteStore
}

// New creates an Importer writing to the given store.
func New(st *store.SQLiteStore) *Importer {
	return &Importer{st: st}
}

// Import trims and upserts the given identifiers in one batch
// transaction. Empty values and duplicates are skipped and counted,
// not failed. An entirely empty input is a validation error.
func (i *Importer) Import(ctx context.Context, records []string) (Report, error) {
	if len(records) == 0 {
		return Report{}, seekerr.New(seekerr.ErrCodeNoRecords,
			"identifier input contains no records", nil)
	}

	sess, err := i.st.BeginReferenceImport(ctx)
	if err != nil {
		return Report{}, err
	}
	defer sess.Rollback()

	var report Report
	importedAt := time.Now()

	for n, raw := range records {
		report.Processed++

		id := strings.TrimSpace(raw)
		if id == "" {
			report.Skipped++
			report.Notes = append(report.Notes, fmt.Sprintf("record %d: empty identifier", n+1))
			continue
		}

		inserted, err := sess.Insert(ctx, id, importedAt)
		if err != nil {
			return Report{}, err
		}
		if inserted {
			report.Imported++
		} else {
			report.Skipped++
		}
	}

	if err := sess.Commit(); err != nil {
		return Report{}, err
	}

	slog.Info("reference_import_complete",
		slog.Int("processed", report.Processed),
		slog.Int("imported", report.Imported),
		slog.Int("skipped", report.Skipped))

	return report, nil
}
