package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	seekerr "github.com/docuseek/docuseek/internal/errors"
	"github.com/docuseek/docuseek/internal/search"
)

// Matches renders one page of search results as an aligned text table
// with a "showing X-Y of Z" footer.
func (w *Writer) Matches(matches []search.Match, pageStart, total int) {
	if total == 0 {
		w.Status("", "no matches")
		return
	}

	nameWidth := len("FILE NAME")
	for _, m := range matches {
		if len(m.File.Name) > nameWidth {
			nameWidth = len(m.File.Name)
		}
	}

	_, _ = fmt.Fprintf(w.out, "%-*s  %-5s  %s\n", nameWidth, "FILE NAME", "SCORE", "PATH")
	for _, m := range matches {
		_, _ = fmt.Fprintf(w.out, "%-*s  %.3f  %s\n", nameWidth, m.File.Name, m.Score, m.File.Path)
	}
	_, _ = fmt.Fprintf(w.out, "\nshowing %d-%d of %d\n", pageStart+1, pageStart+len(matches), total)
}

// MatchesPlain prints one match per line for piping into other tools.
func (w *Writer) MatchesPlain(matches []search.Match) {
	for _, m := range matches {
		_, _ = fmt.Fprintf(w.out, "%.3f\t%s\n", m.Score, m.File.Path)
	}
}

// WriteMatchesCSV exports matches as CSV with a header row.
func WriteMatchesCSV(out io.Writer, matches []search.Match) error {
	cw := csv.NewWriter(out)
	if err := cw.Write([]string{"file_name", "score", "path"}); err != nil {
		return seekerr.Wrap(seekerr.ErrCodeInternal, err)
	}
	for _, m := range matches {
		row := []string{m.File.Name, strconv.FormatFloat(m.Score, 'f', 3, 64), m.File.Path}
		if err := cw.Write(row); err != nil {
			return seekerr.Wrap(seekerr.ErrCodeInternal, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return seekerr.Wrap(seekerr.ErrCodeInternal, err)
	}
	return nil
}
