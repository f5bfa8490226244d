// Package cmd is the gp command line.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mateconpizza/gp/internal/config"
	"github.com/mateconpizza/gp/internal/prompt"
	"github.com/mateconpizza/gp/internal/ui/printer"
)

var (
	DBName string // Database name flag
	Tag    string // Tag filter flag
	Head   int    // Head limit flag
)

var rootCmd = &cobra.Command{
	Use:   "gp [query]",
	Short: "Store, search and reuse your prompts",
	Long: `gp keeps prompts in a local SQLite database.

Without arguments it lists every prompt; with arguments it lists the prompts
whose title, content or tags contain the query.`,
	Example: `  gp
  gp review
  gp --tag go --oneline
  gp new --title 'Summarize' --tags 'writing ai' 'Summarize the text below'`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: initConfig,
	RunE:              listFunc,
}

func listFunc(cmd *cobra.Command, args []string) error {
	r, err := openStore(cmd.Context())
	if err != nil {
		return err
	}
	defer r.Close()

	var ps []*prompt.Prompt
	if q := strings.Join(args, " "); q != "" {
		ps, err = r.Search(cmd.Context(), q)
	} else {
		ps, err = r.List(cmd.Context())
	}
	if err != nil {
		return err
	}

	if Tag != "" {
		ps = prompt.Filter(ps, "#"+strings.TrimPrefix(Tag, "#"))
	}

	if Head > 0 && Head < len(ps) {
		ps = ps[:Head]
	}

	return printPrompts(cmd, ps)
}

// printPrompts writes ps in the format chosen by the global flags.
func printPrompts(cmd *cobra.Command, ps []*prompt.Prompt) error {
	w := cmd.OutOrStdout()
	f := config.App.Flags

	switch {
	case f.JSON:
		return printer.JSON(w, ps)
	case f.Oneline:
		return printer.Oneline(w, ps)
	}

	return printer.Records(w, ps, time.Now())
}

// Execute runs the root command.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %s\n", config.App.Cmd, err)
		os.Exit(1)
	}
}

func init() {
	f := config.App.Flags
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&DBName, "name", "n", config.DefaultDBName, "database name")
	pf.CountVarP(&f.Verbose, "verbose", "v", "increase verbosity (-v info, -vv debug)")
	pf.BoolVarP(&f.JSON, "json", "j", false, "output in JSON format")
	pf.BoolVarP(&f.Oneline, "oneline", "O", false, "output formatted oneline data")
	pf.BoolVar(&f.Force, "force", false, "force action | don't ask confirmation")
	rootCmd.MarkFlagsMutuallyExclusive("json", "oneline")

	rootCmd.Flags().StringVarP(&Tag, "tag", "t", "", "filter prompts by tag")
	rootCmd.Flags().IntVarP(&Head, "head", "H", 0, "the <int> first part of prompts")

	rootCmd.CompletionOptions.HiddenDefaultCmd = true
}
