package cmd

import (
	"context"
	"fmt"

	"github.com/mateconpizza/rotato"
	"github.com/spf13/cobra"

	"github.com/mateconpizza/gp/internal/config"
	"github.com/mateconpizza/gp/internal/db"
	"github.com/mateconpizza/gp/internal/sys/terminal"
	"github.com/mateconpizza/gp/internal/ui/printer"
)

var (
	bkList   bool
	bkVacuum bool
)

// backupCmd creates and lists backups.
var backupCmd = &cobra.Command{
	Use:     "backup",
	Short:   "Backup management",
	Aliases: []string{"bk"},
	RunE: func(cmd *cobra.Command, _ []string) error {
		w := cmd.OutOrStdout()
		if bkList {
			fs, err := db.ListBackups(config.App.Path.Backup, config.App.DBName)
			if err != nil {
				return err
			}

			if config.App.Flags.JSON {
				return printer.JSON(w, fs)
			}

			for _, f := range fs {
				fmt.Fprintln(w, f)
			}

			return nil
		}

		r, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer r.Close()

		done := func() {}
		if terminal.IsTerminal() {
			sp := rotato.New(
				rotato.WithMesg("creating backup..."),
				rotato.WithMesgColor(rotato.ColorBrightGreen),
				rotato.WithSpinnerColor(rotato.ColorGray),
			)
			sp.Start()
			done = func() { sp.Done() }
		}

		dest, err := backup(cmd.Context(), r)
		done()
		if err != nil {
			return err
		}

		fmt.Fprintf(w, "backup created: %s\n", dest)

		return nil
	},
}

func init() {
	f := backupCmd.Flags()
	f.BoolVarP(&bkList, "list", "l", false, "list backups")
	f.BoolVar(&bkVacuum, "vacuum", false, "vacuum the database before the backup")
	rootCmd.AddCommand(backupCmd)
}

func backup(ctx context.Context, r *db.SQLite) (string, error) {
	if bkVacuum {
		if err := r.Vacuum(ctx); err != nil {
			return "", err
		}
	}

	return r.Backup(ctx, config.App.Path.Backup)
}
