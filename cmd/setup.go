package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mateconpizza/gp/internal/config"
	"github.com/mateconpizza/gp/internal/db"
	"github.com/mateconpizza/gp/internal/handler"
	"github.com/mateconpizza/gp/internal/sys"
	"github.com/mateconpizza/gp/internal/ui/menu"
)

// initConfig resolves paths and settings. Precedence: flags, config file,
// defaults.
func initConfig(cmd *cobra.Command, _ []string) error {
	cfg := config.App
	config.SetVerbosity(cfg.Flags.Verbose)

	dataHomePath, err := config.LoadDataPath()
	if err != nil {
		return fmt.Errorf("loading paths: %w", err)
	}
	slog.Debug("home app", "path", dataHomePath)

	cfg.DBName = config.DefaultDBName
	cfg.Workers = config.DefaultWorkers
	if err := menu.SetConfig(menu.DefaultConfig); err != nil {
		return err
	}
	config.SetAppPaths(dataHomePath)
	if err := config.Load(cfg.Path.ConfigFile); err != nil {
		return err
	}

	if cmd.Flags().Changed("name") {
		cfg.DBName = config.EnsureDBSuffix(DBName)
	}
	cfg.DBPath = filepath.Join(dataHomePath, cfg.DBName)

	return nil
}

// openStore opens the selected database, creating the app home on first use.
func openStore(ctx context.Context) (*db.SQLite, error) {
	if err := os.MkdirAll(config.App.Path.Data, 0o755); err != nil {
		return nil, fmt.Errorf("creating data path: %w", err)
	}

	return db.Open(ctx, config.App.DBPath)
}

// newHandler returns a command handler over r wired to the system clipboard
// and autostart.
func newHandler(r handler.Store) *handler.Handler {
	return handler.New(r,
		handler.WithClipboard(sys.Clipboard{}),
		handler.WithAutostart(sys.Autostart{}),
	)
}

// exitWith prints err and exits; used on user interrupts.
func exitWith(err error) {
	fmt.Fprintf(os.Stderr, "%s: %s\n", config.App.Cmd, err)
	os.Exit(1)
}
