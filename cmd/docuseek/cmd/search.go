package cmd

import (
	"context"
	"os"
	"strconv"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	seekerr "github.com/docuseek/docuseek/internal/errors"
	"github.com/docuseek/docuseek/internal/output"
	"github.com/docuseek/docuseek/internal/paginate"
	"github.com/docuseek/docuseek/internal/search"
	"github.com/docuseek/docuseek/internal/store"
)

// searchOptions holds CLI flags for search.
type searchOptions struct {
	threshold float64
	page      int
	pageSize  int
	format    string // "table", "plain", "csv"
}

func newSearchCmd() *cobra.Command {
	var opts searchOptions

	cmd := &cobra.Command{
		Use:   "search <identifier>",
		Short: "Find indexed files matching an identifier",
		Long: `Fuzzy-matches the identifier against every indexed file name and
prints the matches ranked by score.

Examples:
  docuseek search HH001
  docuseek search hh-0042 --threshold 0.9
  docuseek search HH001 --format csv > matches.csv
  docuseek search HH001 --page 2`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")
			return runSearch(cmd.Context(), cmd, query, opts)
		},
	}

	cmd.Flags().Float64VarP(&opts.threshold, "threshold", "t", 0, "Minimum score in [0.5, 1.0] (default from config)")
	cmd.Flags().IntVarP(&opts.page, "page", "p", 1, "Result page to display (1-based)")
	cmd.Flags().IntVar(&opts.pageSize, "page-size", 0, "Results per page (default from config)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "Output format: table, plain, csv (default depends on terminal)")

	return cmd
}

func runSearch(ctx context.Context, cmd *cobra.Command, query string, opts searchOptions) error {
	st, err := store.Open(cfg.DBPath())
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	threshold := opts.threshold
	if threshold == 0 {
		threshold = cfg.Search.DefaultThreshold
	}
	pageSize := opts.pageSize
	if pageSize <= 0 {
		pageSize = cfg.Search.PageSize
	}

	eng, err := search.NewEngine(st, search.Options{
		Extensions: cfg.Scan.Extensions,
		Workers:    cfg.SearchWorkers(),
		CacheSize:  cfg.Search.CacheSize,
	})
	if err != nil {
		return err
	}

	matches, err := eng.Search(ctx, query, threshold)
	if err != nil {
		return err
	}

	format := opts.format
	if format == "" {
		if isatty.IsTerminal(os.Stdout.Fd()) {
			format = "table"
		} else {
			format = "plain"
		}
	}

	out := output.New(cmd.OutOrStdout())
	switch format {
	case "csv":
		return output.WriteMatchesCSV(cmd.OutOrStdout(), matches)
	case "plain":
		out.MatchesPlain(matches)
		return nil
	case "table":
		pages := paginate.New(matches, pageSize)
		page := opts.page - 1
		if page < 0 || (pages.PageCount() > 0 && page >= pages.PageCount()) {
			return seekerr.New(seekerr.ErrCodeInvalidInput, "page out of range", nil).
				WithDetail("pages", strconv.Itoa(pages.PageCount()))
		}
		lo, _ := pages.Bounds(page)
		out.Matches(pages.Page(page), lo, pages.Len())
		return nil
	default:
		return seekerr.New(seekerr.ErrCodeInvalidInput, "unknown format: "+format, nil)
	}
}
