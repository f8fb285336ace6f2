package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/docuseek/docuseek/internal/output"
	"github.com/docuseek/docuseek/internal/store"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show index location and record counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus(cmd.Context(), cmd)
		},
	}
}

func runStatus(ctx context.Context, cmd *cobra.Command) error {
	out := output.New(cmd.OutOrStdout())

	st, err := store.Open(cfg.DBPath())
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	files, err := st.CountFiles(ctx)
	if err != nil {
		return err
	}
	refs, err := st.CountReferenceIDs(ctx)
	if err != nil {
		return err
	}

	out.Statusf("💾", "Index: %s", cfg.DBPath())
	out.Statusf("📄", "Indexed files: %d", files)
	out.Statusf("🔖", "Reference identifiers: %d", refs)
	return nil
}
