package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mateconpizza/gp/internal/config"
	"github.com/mateconpizza/gp/internal/db"
	"github.com/mateconpizza/gp/internal/prompt"
	"github.com/mateconpizza/gp/internal/sys/editor"
	"github.com/mateconpizza/gp/internal/sys/terminal"
)

var ErrNoContent = errors.New("prompt content is empty")

type recordFlags struct {
	title   string
	tags    string
	content string
}

var (
	newRecordF  = &recordFlags{}
	editRecordF = &recordFlags{}
)

// newCmd creates a prompt.
var newCmd = &cobra.Command{
	Use:     "new [content]",
	Short:   "Create a new prompt",
	Aliases: []string{"add", "a"},
	Example: `  gp new --title 'Review' --tags 'code review' 'Review this code'
  echo 'Summarize the text below' | gp new -T 'Summarize'
  gp new -T 'Long prompt'   # opens $EDITOR`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		r, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer r.Close()

		in, err := newInput(ctx, r, args)
		if err != nil {
			return err
		}

		id, err := r.Insert(ctx, in)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "new prompt: %d\n", id)

		return nil
	},
}

// newInput gathers the new prompt from flags, args, stdin, the interactive
// prompt and the editor, in that order.
func newInput(ctx context.Context, r *db.SQLite, args []string) (prompt.Input, error) {
	in := prompt.Input{
		Title: strings.TrimSpace(newRecordF.title),
		Tags:  newRecordF.tags,
	}

	content, err := readContent(args)
	if err != nil {
		return in, err
	}

	interactive := terminal.IsTerminal()
	if in.Title == "" && interactive {
		if in.Title, err = terminal.Input("title: ", exitWith); err != nil {
			return in, err
		}
	}

	if err := prompt.Validate(in); err != nil {
		return in, err
	}

	if in.Tags == "" && interactive {
		if in.Tags, err = inputTags(ctx, r); err != nil {
			return in, err
		}
	}

	if content == "" && interactive {
		if content, err = editContent(ctx, ""); err != nil {
			return in, err
		}
	}

	if strings.TrimSpace(content) == "" {
		return in, ErrNoContent
	}
	in.Content = content
	in.Tags = prompt.JoinTags(prompt.ParseTags(in.Tags))

	return in, nil
}

// inputTags asks for tags, suggesting the ones already in use.
func inputTags(ctx context.Context, r *db.SQLite) (string, error) {
	ps, err := r.List(ctx)
	if err != nil {
		return "", err
	}

	counts := make(map[string]int)
	for _, s := range prompt.Stats(ps) {
		counts[s.Tag] = s.Count
	}

	return terminal.InputTags("tags: ", counts, exitWith)
}

// readContent returns the content from args or, when none, from stdin.
func readContent(args []string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}

	return terminal.ReadPipedInput()
}

// editContent opens s in the preferred text editor.
func editContent(ctx context.Context, s string) (string, error) {
	te, err := editor.New(config.App.Env.Editor)
	if err != nil {
		return "", err
	}

	b, err := te.EditBytes(ctx, []byte(s), ".md")
	if err != nil {
		return "", err
	}

	return strings.TrimRight(string(b), "\n"), nil
}

// editCmd edits a prompt.
var editCmd = &cobra.Command{
	Use:     "edit [id]",
	Short:   "Edit a prompt",
	Long:    "Edits the prompt with the given id, or one picked from a menu.",
	Aliases: []string{"e"},
	Args:    cobra.MaximumNArgs(1),
	Example: `  gp edit 3            # opens $EDITOR on the content
  gp edit 3 --tags 'go review'
  gp edit              # pick the prompt with fzf`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		r, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer r.Close()

		ps, err := promptsFromArgs(ctx, r, args, "edit prompt", false)
		if err != nil {
			return err
		}
		p := ps[0]

		in := p.Input()
		f := cmd.Flags()
		if f.Changed("title") {
			in.Title = strings.TrimSpace(editRecordF.title)
		}
		if f.Changed("tags") {
			in.Tags = prompt.JoinTags(prompt.ParseTags(editRecordF.tags))
		}
		if f.Changed("content") {
			in.Content = editRecordF.content
		}

		if !f.Changed("title") && !f.Changed("tags") && !f.Changed("content") {
			if in.Content, err = editContent(ctx, in.Content); err != nil {
				return err
			}
		}

		if err := prompt.Validate(in); err != nil {
			return err
		}

		if in == p.Input() {
			fmt.Fprintln(cmd.OutOrStdout(), "no changes")
			return nil
		}

		if err := r.Update(ctx, p.ID, in); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "prompt %d updated\n", p.ID)

		return nil
	},
}

// removeCmd removes prompts.
var removeCmd = &cobra.Command{
	Use:     "rm [id]...",
	Short:   "Remove prompts",
	Long:    "Removes the prompts with the given ids, or the ones picked from a menu.",
	Aliases: []string{"remove", "del", "d"},
	Example: `  gp rm 3 4
  gp rm --force 3
  gp rm                # pick prompts with fzf`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		r, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer r.Close()

		ps, err := promptsFromArgs(ctx, r, args, "remove prompts", true)
		if err != nil {
			return err
		}

		if !config.App.Flags.Force {
			if err := printPrompts(cmd, ps); err != nil {
				return err
			}

			q := fmt.Sprintf("remove %d prompt/s?", len(ps))
			if !terminal.Confirm(os.Stdin, cmd.OutOrStdout(), q, "n") {
				return terminal.ErrActionAborted
			}
		}

		for _, p := range ps {
			if err := r.Delete(ctx, p.ID); err != nil {
				return err
			}
		}

		fmt.Fprintf(cmd.OutOrStdout(), "removed %d prompt/s\n", len(ps))

		return nil
	},
}

// useCmd copies a prompt to the clipboard.
var useCmd = &cobra.Command{
	Use:     "use [id]",
	Short:   "Copy a prompt to the clipboard and mark it as used",
	Long:    "Copies the prompt with the given id, or one picked from a menu.",
	Aliases: []string{"copy", "c"},
	Args:    cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		r, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer r.Close()

		ps, err := promptsFromArgs(ctx, r, args, "use prompt", false)
		if err != nil {
			return err
		}

		p, err := newHandler(r).UsePrompt(ctx, ps[0].ID)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "copied %q to clipboard\n", p.Title)

		return nil
	},
}

// reorderCmd sets the display order.
var reorderCmd = &cobra.Command{
	Use:   "reorder <id>...",
	Short: "Set the display order of prompts",
	Long: `Assigns each listed prompt its position as sort order. Prompts not
listed keep their order; unknown ids are ignored.`,
	Example: `  gp reorder 3 1 2`,
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ids, err := parseIDs(args)
		if err != nil {
			return err
		}

		r, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer r.Close()

		return r.Reorder(cmd.Context(), ids)
	},
}

// parseID parses a positive prompt id.
func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %q", prompt.ErrInvalidID, s)
	}

	return id, nil
}

// parseIDs parses ids given as separate or space separated args.
func parseIDs(args []string) ([]int64, error) {
	fields := strings.Fields(strings.Join(args, " "))
	ids := make([]int64, 0, len(fields))
	for _, s := range fields {
		id, err := parseID(s)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	return ids, nil
}

func init() {
	f := newCmd.Flags()
	f.StringVarP(&newRecordF.title, "title", "T", "", "prompt title")
	f.StringVar(&newRecordF.tags, "tags", "", "space separated tags")

	f = editCmd.Flags()
	f.StringVarP(&editRecordF.title, "title", "T", "", "new title")
	f.StringVar(&editRecordF.tags, "tags", "", "new space separated tags")
	f.StringVarP(&editRecordF.content, "content", "c", "", "new content")

	rootCmd.AddCommand(newCmd, editCmd, removeCmd, useCmd, reorderCmd)
}
