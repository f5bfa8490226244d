// Package menu wraps the fzf interactive filter in a typed selection menu.
package menu

import (
	"errors"

	fzf "github.com/junegunn/fzf/src"
)

var (
	// fzf exit codes.
	ErrFzf                    = errors.New("fzf: error: code 2")
	ErrFzfNoMatching          = errors.New("fzf: no matching record: code 1")
	ErrFzfInvalidShellCommand = errors.New("fzf: invalid shell command for become action: code 126")
	ErrFzfActionAborted       = errors.New("fzf: action aborted: code 130")
	ErrFzfPermissionDenied    = errors.New("fzf: permission denied from become action: code 127")

	// menu errors.
	ErrFzfNoItems    = errors.New("fzf: no items found")
	ErrFzfReturnCode = errors.New("fzf: returned a non-zero code")
)

type OptFn func(*Options)

type Options struct {
	keybind  []string
	header   []string
	settings FzfSettings
	defaults bool
	runner   Runner
}

// Menu selects items of type T, shown through a preprocessor.
type Menu[T comparable] struct {
	Options
	items        []T
	preprocessor func(*T) string
}

// Select runs fzf over the items and returns the selected item/s.
func (m *Menu[T]) Select() ([]T, error) {
	if err := m.setup(); err != nil {
		return nil, err
	}

	selected, err := selectFromItems(m)
	if err != nil {
		return nil, err
	}

	if len(selected) == 0 {
		return nil, ErrFzfNoItems
	}

	return selected, nil
}

// setup loads header and keybinds into the fzf settings.
func (m *Menu[T]) setup() error {
	loadHeader(m.header, &m.settings)
	return loadKeybind(m.keybind, &m.settings)
}

// SetItems sets the items for the menu.
func (m *Menu[T]) SetItems(items []T) {
	m.items = items
}

// SetPreprocessor sets how each item is shown. Shown lines must be unique.
func (m *Menu[T]) SetPreprocessor(fn func(*T) string) {
	m.preprocessor = fn
}

// WithUseDefaults loads $FZF_DEFAULT_OPTS_FILE and $FZF_DEFAULT_OPTS.
func WithUseDefaults() OptFn {
	return func(o *Options) {
		o.defaults = true
	}
}

// WithMultiSelection allows selecting more than one item.
func WithMultiSelection() OptFn {
	opts := []string{"--highlight-line", "--multi"}
	k := menuConfig.Keymaps.ToggleAll

	return func(o *Options) {
		o.settings = append(o.settings, opts...)
		if !k.Enabled {
			return
		}

		if !k.Hidden {
			o.header = appendKeytoHeader(o.header, k.Bind, k.Desc)
		}

		o.keybind = append(o.keybind, k.Bind+":toggle-all")
	}
}

// WithRunner replaces the fzf runner.
func WithRunner(r Runner) OptFn {
	return func(o *Options) {
		o.runner = r
	}
}

// WithHeader adds a header line to fzf, before any keybind hints.
func WithHeader(header string, replace bool) OptFn {
	return func(o *Options) {
		if replace {
			o.header = []string{header}
			return
		}

		o.header = append([]string{header}, o.header...)
	}
}

// WithPrompt sets the fzf input prompt.
func WithPrompt(prompt string) OptFn {
	return func(o *Options) {
		o.settings = append(o.settings, "--prompt="+prompt)
	}
}

// New returns a new Menu.
func New[T comparable](opts ...OptFn) *Menu[T] {
	defaults := Options{
		settings: FzfSettings{
			"--ansi",
			"--reverse",
			"--height=95%",
			"--info=inline-right",
			"--prompt=" + menuConfig.Prompt,
		},
		header: make([]string, 0),
		runner: &defaultRunner{},
	}

	for _, fn := range opts {
		fn(&defaults)
	}

	return &Menu[T]{
		Options: defaults,
	}
}

// Runner parses fzf settings and runs fzf.
type Runner interface {
	Run(options *fzf.Options) (int, error)
	Parse(defaults bool, settings FzfSettings) (*fzf.Options, error)
}

type defaultRunner struct{}

//nolint:wrapcheck //notneeded
func (d *defaultRunner) Run(options *fzf.Options) (int, error) {
	return fzf.Run(options)
}

//nolint:wrapcheck //notneeded
func (d *defaultRunner) Parse(def bool, s FzfSettings) (*fzf.Options, error) {
	return fzf.ParseOptions(def, s)
}
