// Package editor edits text with the user's preferred text editor.
package editor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	shellwords "github.com/junegunn/go-shellwords"

	"github.com/mateconpizza/gp/internal/sys"
)

var (
	ErrCommandNotFound    = errors.New("command not found")
	ErrTextEditorNotFound = errors.New("text editor not found")
)

// Fallback text editors if $EDITOR || $GOPROMPTS_EDITOR var is not set.
var textEditors = []string{"vim", "nvim", "nano", "emacs"}

type TextEditor struct {
	name string
	cmd  string
	args []string
}

// Name returns the editor name as configured.
func (te *TextEditor) Name() string {
	return te.name
}

// EditBytes writes content to a temp file, opens it in the editor and
// returns the saved content.
func (te *TextEditor) EditBytes(ctx context.Context, content []byte, extension string) ([]byte, error) {
	if te.cmd == "" {
		return nil, ErrCommandNotFound
	}

	f, err := os.CreateTemp("", "gp-*"+extension)
	if err != nil {
		return nil, fmt.Errorf("creating temp file: %w", err)
	}
	defer func() {
		if err := os.Remove(f.Name()); err != nil {
			slog.Warn("removing temp file", "name", f.Name(), "error", err)
		}
	}()

	if _, err := f.Write(content); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("writing temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("closing temp file: %w", err)
	}

	slog.Debug("editing file", "name", f.Name(), "editor", te.name)

	if err := sys.RunCmd(ctx, te.cmd, append(te.args, f.Name())...); err != nil {
		return nil, fmt.Errorf("error running editor: %w", err)
	}

	data, err := os.ReadFile(f.Name())
	if err != nil {
		return nil, fmt.Errorf("error reading file: %w", err)
	}

	return data, nil
}

// EditFile edits a file with a text editor.
func (te *TextEditor) EditFile(ctx context.Context, p string) error {
	if te.cmd == "" {
		return ErrCommandNotFound
	}

	if _, err := os.Stat(p); err != nil {
		return fmt.Errorf("editing %q: %w", p, err)
	}

	if err := sys.RunCmd(ctx, te.cmd, append(te.args, p)...); err != nil {
		return fmt.Errorf("error running editor: %w", err)
	}

	return nil
}

// New retrieves the preferred editor to use for editing
//
// If env variable `GOPROMPTS_EDITOR` is not set, uses the `EDITOR`.
// If env variable `EDITOR` is not set, uses the first available
// `TextEditors`
//
// # fallbackEditors: `"vim", "nvim", "nano", "emacs"`.
func New(s string) (*TextEditor, error) {
	for _, e := range []string{s, "EDITOR"} {
		editor, found, err := fromEnv(e)
		if err != nil {
			return nil, err
		}

		if found {
			return editor, nil
		}
	}

	slog.Debug("$EDITOR and $"+s+" not set, checking fallback text editor", "editors", textEditors)

	for _, e := range textEditors {
		if p := sys.BinPath(e); p != "" {
			slog.Info("found fallback text editor", "editor", e)
			return &TextEditor{cmd: p, name: e}, nil
		}
	}

	return nil, ErrTextEditorNotFound
}

// fromEnv builds an editor from the command line held in env var e.
func fromEnv(e string) (*TextEditor, bool, error) {
	v := strings.TrimSpace(sys.Env(e, ""))
	if v == "" {
		return nil, false, nil
	}

	words, err := shellwords.Parse(v)
	if err != nil {
		return nil, false, fmt.Errorf("parsing $%s: %w", e, err)
	}

	if len(words) == 0 {
		return nil, false, nil
	}

	p := sys.BinPath(words[0])
	if p == "" {
		return nil, false, fmt.Errorf("%w: %q", ErrTextEditorNotFound, words[0])
	}

	slog.Info("$EDITOR set", "env", e, "editor", words[0])

	return &TextEditor{cmd: p, name: words[0], args: words[1:]}, true, nil
}
