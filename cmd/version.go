package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/mateconpizza/gp/internal/config"
	"github.com/mateconpizza/gp/internal/db"
)

// PrettyVersion formats version in a pretty way.
func PrettyVersion() string {
	return fmt.Sprintf("%s v%s %s/%s (schema %d)",
		config.App.Name, config.App.Info.Version, runtime.GOOS, runtime.GOARCH, db.SchemaVersion())
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	RunE: func(cmd *cobra.Command, _ []string) error {
		fmt.Fprintln(cmd.OutOrStdout(), PrettyVersion())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
