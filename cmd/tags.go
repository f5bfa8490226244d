package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mateconpizza/gp/internal/config"
	"github.com/mateconpizza/gp/internal/prompt"
	"github.com/mateconpizza/gp/internal/ui/printer"
)

var tagsLimit int

// tagsCmd lists tags by usage.
var tagsCmd = &cobra.Command{
	Use:     "tags [query]",
	Short:   "List tags, most used first",
	Aliases: []string{"t"},
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer r.Close()

		stats, err := newHandler(r).GetTags(cmd.Context())
		if err != nil {
			return err
		}

		if q := strings.Join(args, " "); q != "" || tagsLimit > 0 {
			limit := tagsLimit
			if limit <= 0 {
				limit = len(stats)
			}
			names := prompt.FilterTags(stats, q, nil, limit)
			keep := make(map[string]bool, len(names))
			for _, n := range names {
				keep[n] = true
			}

			filtered := stats[:0]
			for _, s := range stats {
				if keep[s.Tag] {
					filtered = append(filtered, s)
				}
			}
			stats = filtered
		}

		w := cmd.OutOrStdout()
		switch {
		case config.App.Flags.JSON:
			return printer.JSON(w, stats)
		case config.App.Flags.Oneline:
			for _, s := range stats {
				fmt.Fprintln(w, s.Tag)
			}

			return nil
		}

		return printer.Tags(w, stats)
	},
}

func init() {
	tagsCmd.Flags().IntVarP(&tagsLimit, "limit", "l", 0, "max number of tags")
	rootCmd.AddCommand(tagsCmd)
}
