package cmd

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/docuseek/docuseek/internal/output"
	"github.com/docuseek/docuseek/internal/scanner"
	"github.com/docuseek/docuseek/internal/store"
	"github.com/docuseek/docuseek/internal/watcher"
)

func newScanCmd() *cobra.Command {
	var watch bool

	cmd := &cobra.Command{
		Use:   "scan <root>",
		Short: "Index image files under a directory",
		Long: `Recursively walks the given root and indexes every file with a
recognized image extension. Re-scanning is cheap: already indexed
files are skipped.

Examples:
  docuseek scan /mnt/archive/2024
  docuseek scan /mnt/archive/incoming --watch`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScan(cmd.Context(), cmd, args[0], watch)
		},
	}

	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Keep watching the root for new files after the scan")

	return cmd
}

func runScan(ctx context.Context, cmd *cobra.Command, root string, watch bool) error {
	out := output.New(cmd.OutOrStdout())

	st, err := store.Open(cfg.DBPath())
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	sc := scanner.New(scanner.Options{
		Extensions: cfg.Scan.Extensions,
		Workers:    cfg.ScanWorkers(),
	})

	out.Statusf("🔍", "Scanning %s...", root)
	start := time.Now()
	report, err := sc.ScanAndStore(ctx, root, st)
	if err != nil {
		return err
	}
	out.Successf("Indexed %d new files (%d discovered) in %s",
		report.NewlyIndexed, report.Discovered, time.Since(start).Round(time.Millisecond))

	if !watch {
		return nil
	}

	debounce, err := time.ParseDuration(cfg.Scan.WatchDebounce)
	if err != nil {
		debounce = 500 * time.Millisecond
	}
	w := watcher.New(sc, st, watcher.Options{DebounceWindow: debounce})
	w.OnBatch = func(n int) {
		if n > 0 {
			out.Statusf("📂", "Indexed %d new files", n)
		}
	}

	out.Status("👀", "Watching for new files (ctrl+c to stop)...")
	err = w.Run(ctx, root)
	if err == context.Canceled {
		return nil
	}
	return err
}
