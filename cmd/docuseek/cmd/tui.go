package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/docuseek/docuseek/internal/search"
	"github.com/docuseek/docuseek/internal/store"
	"github.com/docuseek/docuseek/internal/task"
	"github.com/docuseek/docuseek/internal/ui"
)

func newTUICmd() *cobra.Command {
	var noColor bool

	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Interactive search over the index",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd.Context(), noColor)
		},
	}

	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable colors")

	return cmd
}

func runTUI(ctx context.Context, noColor bool) error {
	st, err := store.Open(cfg.DBPath())
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	eng, err := search.NewEngine(st, search.Options{
		Extensions: cfg.Scan.Extensions,
		Workers:    cfg.SearchWorkers(),
		CacheSize:  cfg.Search.CacheSize,
	})
	if err != nil {
		return err
	}

	return ui.Run(ctx, ui.Config{
		Engine:    eng,
		Tasks:     task.New(16),
		Threshold: cfg.Search.DefaultThreshold,
		PageSize:  cfg.Search.PageSize,
		NoColor:   noColor,
	})
}
