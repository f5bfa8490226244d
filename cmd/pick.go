package cmd

import (
	"context"
	"errors"

	"github.com/mateconpizza/gp/internal/db"
	"github.com/mateconpizza/gp/internal/prompt"
	"github.com/mateconpizza/gp/internal/sys/terminal"
	"github.com/mateconpizza/gp/internal/ui/menu"
	"github.com/mateconpizza/gp/internal/ui/printer"
)

var ErrNoPrompts = errors.New("no prompts stored")

// pickerRunner replaces fzf in the prompt picker when set.
var pickerRunner menu.Runner

// pickPrompts lets the user choose among every stored prompt.
func pickPrompts(ctx context.Context, r *db.SQLite, header string, multi bool) ([]*prompt.Prompt, error) {
	ps, err := r.List(ctx)
	if err != nil {
		return nil, err
	}

	if len(ps) == 0 {
		return nil, ErrNoPrompts
	}

	opts := []menu.OptFn{menu.WithUseDefaults()}
	if multi {
		opts = append(opts, menu.WithMultiSelection())
	}
	opts = append(opts, menu.WithHeader(header, false))
	if pickerRunner != nil {
		opts = append(opts, menu.WithRunner(pickerRunner))
	}

	width := terminal.Width(100)
	m := menu.New[*prompt.Prompt](opts...)
	m.SetItems(ps)
	m.SetPreprocessor(func(p **prompt.Prompt) string {
		return printer.OnelineRecord(*p, width)
	})

	return m.Select()
}

// promptsFromArgs returns the prompts named by ids in args or, when args is
// empty, the ones picked from the menu.
func promptsFromArgs(ctx context.Context, r *db.SQLite, args []string, header string, multi bool) ([]*prompt.Prompt, error) {
	if len(args) == 0 {
		return pickPrompts(ctx, r, header, multi)
	}

	ids, err := parseIDs(args)
	if err != nil {
		return nil, err
	}

	ps := make([]*prompt.Prompt, 0, len(ids))
	for _, id := range ids {
		p, err := r.ByID(ctx, id)
		if err != nil {
			return nil, err
		}
		ps = append(ps, p)
	}

	return ps, nil
}
