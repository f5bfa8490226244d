package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mateconpizza/gp/internal/sys"
)

// autostartCmd reports or toggles launching at login.
var autostartCmd = &cobra.Command{
	Use:       "autostart [on|off]",
	Short:     "Show or set launching at login",
	Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"on", "off"},
	RunE: func(cmd *cobra.Command, args []string) error {
		a := sys.Autostart{}
		if len(args) == 1 {
			return a.Set(args[0] == "on")
		}

		ok, err := a.Enabled()
		if err != nil {
			return err
		}

		status := "disabled"
		if ok {
			status = "enabled"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "autostart: %s\n", status)

		return nil
	},
}

func init() {
	rootCmd.AddCommand(autostartCmd)
}
