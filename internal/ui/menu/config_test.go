package menu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func testValidConfig(t *testing.T) *Config {
	t.Helper()

	return &Config{
		Prompt: "> ",
		Header: FzfHeader{
			Enabled: false,
			Sep:     " ",
		},
		Keymaps: Keymaps{
			ToggleAll: Keymap{Bind: "ctrl-t", Desc: "all", Enabled: true, Hidden: true},
		},
	}
}

func TestValidateConfig(t *testing.T) {
	t.Parallel()
	t.Run("valid config", func(t *testing.T) {
		t.Parallel()
		cfg := testValidConfig(t)
		assert.NoError(t, cfg.Validate())
		assert.Equal(t, testValidConfig(t), cfg)
	})
	t.Run("invalid keymap", func(t *testing.T) {
		t.Parallel()
		cfg := testValidConfig(t)
		cfg.Keymaps.ToggleAll.Bind = ""
		assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfigKeymap)
	})
	t.Run("disabled keymap without bind", func(t *testing.T) {
		t.Parallel()
		cfg := testValidConfig(t)
		cfg.Keymaps.ToggleAll = Keymap{Desc: "all"}
		assert.NoError(t, cfg.Validate())
	})
	t.Run("default prompt and header separator", func(t *testing.T) {
		t.Parallel()
		cfg := testValidConfig(t)
		cfg.Prompt = ""
		cfg.Header.Sep = ""
		assert.NoError(t, cfg.Validate())
		assert.Equal(t, defaultPrompt, cfg.Prompt)
		assert.Equal(t, defaultHeaderSep, cfg.Header.Sep)
	})
	t.Run("zero config", func(t *testing.T) {
		t.Parallel()
		cfg := &Config{}
		assert.NoError(t, cfg.Validate())
		assert.Equal(t, DefaultConfig, *cfg)
	})
}
