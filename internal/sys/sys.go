// Package sys wraps the operating system collaborators: environment,
// clipboard, external commands and autostart.
package sys

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"

	"github.com/atotto/clipboard"
)

var (
	ErrCopyToClipboard   = errors.New("copy to clipboard")
	ErrNotImplementedYet = errors.New("not implemented yet")
)

// Env retrieves an environment variable.
//
// If the environment variable is not set, returns the default value.
func Env(s, def string) string {
	if v, ok := os.LookupEnv(s); ok {
		return v
	}

	return def
}

// BinPath returns the full path of the binary s, or an empty string when it
// is not in $PATH.
func BinPath(s string) string {
	p, err := exec.LookPath(s)
	if err != nil {
		return ""
	}

	return p
}

// RunCmd runs s attached to the current stdio.
func RunCmd(ctx context.Context, s string, arg ...string) error {
	cmd := exec.CommandContext(ctx, s, arg...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("running command: %w", err)
	}

	return nil
}

// Clipboard is the system clipboard.
type Clipboard struct{}

// WriteAll copies s to the clipboard.
func (Clipboard) WriteAll(s string) error {
	return CopyClipboard(s)
}

// CopyClipboard copies a string to the clipboard.
func CopyClipboard(s string) error {
	if clipboard.Unsupported {
		return fmt.Errorf("%w: no clipboard utility found", ErrCopyToClipboard)
	}

	if err := clipboard.WriteAll(s); err != nil {
		return fmt.Errorf("%w: %w", ErrCopyToClipboard, err)
	}

	slog.Debug("text copied to clipboard", "len", len(s))

	return nil
}

// Autostart reports and toggles launching the app at login. Registering
// with the platform is not supported: it always reports disabled and
// refuses to enable.
type Autostart struct{}

// Enabled reports whether autostart is registered.
func (Autostart) Enabled() (bool, error) {
	return false, nil
}

// Set enables or disables autostart. Disabling is a no-op.
func (Autostart) Set(enable bool) error {
	if !enable {
		return nil
	}

	return fmt.Errorf("autostart: %w", ErrNotImplementedYet)
}
