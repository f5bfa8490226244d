package cmd

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/mateconpizza/gp/internal/config"
)

var serveWorkers int

// serveCmd runs the command bridge over stdio.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Answer JSON commands on stdin, one per line",
	Long: `Reads newline-delimited JSON requests from stdin and writes one JSON
response per request to stdout. Lines over 32 MiB are answered with an
error and skipped. Stops at end of input or on interrupt.

  request:  {"id":"1","command":"search_prompts","args":{"query":"go"}}
  response: {"id":"1","result":[...]}  or  {"id":"1","error":"..."}`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		r, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer r.Close()

		workers := config.App.Workers
		if cmd.Flags().Changed("workers") {
			workers = serveWorkers
		}
		slog.Info("serving", "db", r.Name(), "workers", workers)

		return newHandler(r).Serve(cmd.Context(), os.Stdin, cmd.OutOrStdout(), workers)
	},
}

func init() {
	serveCmd.Flags().IntVarP(&serveWorkers, "workers", "w", config.DefaultWorkers, "concurrent requests")
	rootCmd.AddCommand(serveCmd)
}
