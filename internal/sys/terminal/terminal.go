// Package terminal reads user input from the terminal or from a pipe.
package terminal

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

var termState *term.State

var (
	ErrNotTTY           = errors.New("not a terminal")
	ErrNoStateToRestore = errors.New("no term state to restore")
	ErrActionAborted    = errors.New("action aborted")
)

// IsPiped returns true if the input is piped.
func IsPiped() bool {
	fileInfo, err := os.Stdin.Stat()
	if err != nil {
		return false
	}

	return (fileInfo.Mode() & os.ModeCharDevice) == 0
}

// IsTerminal reports whether both stdin and stdout are attached to a
// terminal.
func IsTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

// Width returns the width of the terminal on stdout, or def when stdout is
// not a terminal.
func Width(def int) int {
	w, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 {
		return def
	}

	return w
}

// ReadPipedInput returns everything piped into stdin, or an empty string when
// stdin is a terminal.
func ReadPipedInput() (string, error) {
	if !IsPiped() {
		return "", nil
	}

	return readAll(os.Stdin)
}

func readAll(r io.Reader) (string, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("reading from pipe: %w", err)
	}

	return strings.TrimRight(string(b), "\n"), nil
}

// Save the current terminal state.
func saveState() error {
	oldState, err := term.GetState(int(os.Stdin.Fd()))
	if err != nil {
		return fmt.Errorf("saving state: %w", err)
	}
	termState = oldState

	return nil
}

// Restore the previously saved terminal state.
func restoreState() error {
	if termState == nil {
		return ErrNoStateToRestore
	}

	if err := term.Restore(int(os.Stdin.Fd()), termState); err != nil {
		return fmt.Errorf("restoring state: %w", err)
	}

	return nil
}
