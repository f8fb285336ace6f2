// Package cmd provides the CLI commands for docuseek.
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/docuseek/docuseek/internal/config"
	seekerr "github.com/docuseek/docuseek/internal/errors"
	"github.com/docuseek/docuseek/internal/logging"
	"github.com/docuseek/docuseek/pkg/version"
)

var (
	cfgPath   string
	debugMode bool

	cfg            *config.Config
	loggingCleanup func()
)

// NewRootCmd creates the root command for the docuseek CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "docuseek",
		Short: "Find scanned document files by reference identifier",
		Long: `Docuseek indexes scanned document archives and finds files by
fuzzy-matching reference identifiers against file names.

Point it at an archive root with 'docuseek scan', then look up
identifiers with 'docuseek search' or the interactive 'docuseek tui'.`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.SetVersionTemplate("docuseek version {{.Version}}\n")

	cmd.PersistentFlags().StringVar(&cfgPath, "config", "", "Path to config file (default ~/.docuseek/config.yaml)")
	cmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging to ~/.docuseek/logs/")

	cmd.PersistentPreRunE = setup
	cmd.PersistentPostRunE = teardown

	cmd.AddCommand(newScanCmd())
	cmd.AddCommand(newImportCmd())
	cmd.AddCommand(newSearchCmd())
	cmd.AddCommand(newClearCmd())
	cmd.AddCommand(newStatusCmd())
	cmd.AddCommand(newTUICmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// setup loads configuration and initializes logging before any command.
func setup(_ *cobra.Command, _ []string) error {
	path := cfgPath
	if path == "" {
		path = config.DefaultPath()
	}
	loaded, err := config.Load(path)
	if err != nil {
		return err
	}
	cfg = loaded

	logCfg := logging.DefaultConfig()
	logCfg.Level = cfg.Logging.Level
	if debugMode {
		logCfg = logging.DebugConfig()
	}
	// CLI output stays on stdout; logs go to a file under the data dir.
	logCfg.WriteToStderr = false
	logCfg.FilePath = filepath.Join(cfg.Paths.DataDir, "logs", "docuseek.log")
	logger, cleanup, err := logging.Setup(logCfg)
	if err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}
	loggingCleanup = cleanup
	slog.SetDefault(logger)

	if debugMode {
		slog.Info("debug logging enabled",
			slog.String("log_file", logCfg.FilePath),
			slog.String("version", version.Version))
	}
	return nil
}

func teardown(_ *cobra.Command, _ []string) error {
	if loggingCleanup != nil {
		loggingCleanup()
		loggingCleanup = nil
	}
	return nil
}

// Execute runs the root command, stopping on interrupt.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := NewRootCmd().ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error: "+seekerr.FormatUser(err))
		slog.Error("command_failed", "error", seekerr.FormatLog(err))
	}
	return err
}
