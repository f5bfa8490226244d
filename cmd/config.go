package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mateconpizza/gp/internal/config"
	"github.com/mateconpizza/gp/internal/sys/editor"
	"github.com/mateconpizza/gp/internal/ui/printer"
)

var (
	createConfFlag bool
	editConfFlag   bool
)

// configCmd configuration management.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration management",
	RunE: func(cmd *cobra.Command, _ []string) error {
		fn := config.App.Path.ConfigFile
		switch {
		case createConfFlag:
			if err := config.WriteFile(fn, config.Defaults, config.App.Flags.Force); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: file saved %q\n", config.App.Name, fn)

			return nil

		case editConfFlag:
			te, err := editor.New(config.App.Env.Editor)
			if err != nil {
				return err
			}

			return te.EditFile(cmd.Context(), fn)
		}

		cfg, err := config.ReadFile(fn)
		if errors.Is(err, config.ErrConfigFileNotFound) {
			cfg = config.Defaults
		} else if err != nil {
			return err
		}

		if config.App.Flags.JSON {
			return printer.JSON(cmd.OutOrStdout(), config.App)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "file:     %s\ndatabase: %s\nworkers:  %d\n", fn, cfg.Database, cfg.Workers)

		return nil
	},
}

func init() {
	f := configCmd.Flags()
	f.BoolVarP(&createConfFlag, "create", "c", false, "create config file")
	f.BoolVarP(&editConfFlag, "edit", "e", false, "edit config")
	configCmd.MarkFlagsMutuallyExclusive("create", "edit")
	rootCmd.AddCommand(configCmd)
}
