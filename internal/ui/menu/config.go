package menu

import (
	"errors"
	"fmt"
)

var ErrInvalidConfigKeymap = errors.New("invalid keymap")

const (
	defaultPrompt    = "gp> "
	defaultHeaderSep = " · "
)

// FzfSettings are raw fzf command line arguments.
type FzfSettings []string

// Keymap is a fzf key binding shown in the header.
type Keymap struct {
	Bind    string `yaml:"bind"`
	Desc    string `yaml:"description"`
	Enabled bool   `yaml:"enabled"`
	Hidden  bool   `yaml:"hidden"`
}

type Keymaps struct {
	ToggleAll Keymap `yaml:"toggle_all"`
}

type FzfHeader struct {
	Enabled bool   `yaml:"enabled"`
	Sep     string `yaml:"separator"`
}

// Config holds the menu settings read from the config file.
type Config struct {
	Prompt  string    `yaml:"prompt"`
	Header  FzfHeader `yaml:"header"`
	Keymaps Keymaps   `yaml:"keymaps"`
}

var DefaultConfig = Config{
	Prompt: defaultPrompt,
	Header: FzfHeader{
		Enabled: true,
		Sep:     defaultHeaderSep,
	},
	Keymaps: Keymaps{
		ToggleAll: Keymap{Bind: "ctrl-a", Desc: "toggle-all", Enabled: true},
	},
}

// menuConfig holds the active menu configuration.
var menuConfig = DefaultConfig

// Validate fills blank fields with their defaults and rejects enabled
// keymaps without a binding. A zero Config becomes DefaultConfig.
func (c *Config) Validate() error {
	if *c == (Config{}) {
		*c = DefaultConfig
		return nil
	}

	if c.Prompt == "" {
		c.Prompt = defaultPrompt
	}

	if c.Header.Sep == "" {
		c.Header.Sep = defaultHeaderSep
	}

	if c.Keymaps == (Keymaps{}) {
		c.Keymaps = DefaultConfig.Keymaps
	}

	if k := c.Keymaps.ToggleAll; k.Enabled && k.Bind == "" {
		return fmt.Errorf("%w: toggle_all: empty bind", ErrInvalidConfigKeymap)
	}

	return nil
}

// SetConfig validates c and makes it the active configuration.
func SetConfig(c Config) error {
	if err := c.Validate(); err != nil {
		return err
	}

	menuConfig = c

	return nil
}
