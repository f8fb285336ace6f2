package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/docuseek/docuseek/internal/output"
	"github.com/docuseek/docuseek/internal/refimport"
	"github.com/docuseek/docuseek/internal/store"
)

func newImportCmd() *cobra.Command {
	var column string

	cmd := &cobra.Command{
		Use:   "import <csv-file>",
		Short: "Import reference identifiers from a CSV file",
		Long: `Reads identifiers from the named column of a CSV file and stores
them in the index. Duplicates are skipped, matching is
case-insensitive.

Examples:
  docuseek import households.csv
  docuseek import export.csv --column household_id`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd.Context(), cmd, args[0], column)
		},
	}

	cmd.Flags().StringVarP(&column, "column", "c", refimport.DefaultColumn, "CSV column holding the identifiers")

	return cmd
}

func runImport(ctx context.Context, cmd *cobra.Command, path, column string) error {
	out := output.New(cmd.OutOrStdout())

	st, err := store.Open(cfg.DBPath())
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	src := refimport.CSVSource{Column: column}
	records, err := src.ReadFile(path)
	if err != nil {
		return err
	}

	report, err := refimport.New(st).Import(ctx, records)
	if err != nil {
		return err
	}

	out.Successf("Imported %d identifiers (%d duplicates skipped)", report.Imported, report.Skipped)
	for _, note := range report.Notes {
		out.Warning(note)
	}
	return nil
}
