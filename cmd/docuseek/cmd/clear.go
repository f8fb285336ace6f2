package cmd

import (
	"bufio"
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/docuseek/docuseek/internal/output"
	"github.com/docuseek/docuseek/internal/store"
)

func newClearCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete all indexed files and imported identifiers",
		Long: `Empties the index. Scanned file records and imported identifiers
are both removed; the files on disk are untouched.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClear(cmd.Context(), cmd, yes)
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")

	return cmd
}

func runClear(ctx context.Context, cmd *cobra.Command, yes bool) error {
	out := output.New(cmd.OutOrStdout())

	if !yes {
		out.Status("⚠️ ", "This deletes every indexed file and identifier. Continue? [y/N] ")
		reader := bufio.NewReader(cmd.InOrStdin())
		answer, _ := reader.ReadString('\n')
		if !strings.EqualFold(strings.TrimSpace(answer), "y") {
			out.Status("", "aborted")
			return nil
		}
	}

	st, err := store.Open(cfg.DBPath())
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	if err := st.ClearAll(ctx); err != nil {
		return err
	}
	out.Success("Index cleared")
	return nil
}
