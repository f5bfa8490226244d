package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mateconpizza/gp/internal/config"
	"github.com/mateconpizza/gp/internal/qr"
)

var qrOpen bool

// qrCmd shows a prompt as QR-Code.
var qrCmd = &cobra.Command{
	Use:   "qr <id>",
	Short: "Show a prompt content as QR-Code",
	Example: `  gp qr 3
  gp qr 3 --open   # labelled PNG in the default image viewer`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		r, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer r.Close()

		p, err := r.ByID(cmd.Context(), id)
		if err != nil {
			return err
		}

		q := qr.New(p.Content)
		if err := q.Generate(); err != nil {
			return err
		}

		if !qrOpen {
			fmt.Fprint(cmd.OutOrStdout(), q.String())
			fmt.Fprintln(cmd.OutOrStdout(), p.Title)

			return nil
		}

		if _, err := q.GenerateImg(config.App.Path.QR, "prompt-"+strconv.FormatInt(p.ID, 10)); err != nil {
			return err
		}
		if err := q.Label(p.Title, "top"); err != nil {
			return err
		}
		if err := q.Label(strconv.FormatInt(p.ID, 10), "bottom"); err != nil {
			return err
		}

		return q.Open()
	},
}

func init() {
	qrCmd.Flags().BoolVarP(&qrOpen, "open", "o", false, "open QR-Code image in the default viewer")
	rootCmd.AddCommand(qrCmd)
}
